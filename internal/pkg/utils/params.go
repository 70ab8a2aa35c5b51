package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ParamID parses a positive int64 path parameter.
func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// QueryID parses an optional positive int64 query parameter. Invalid values are ignored.
func QueryID(c *gin.Context, name string) *int64 {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// QueryBool parses an optional boolean query parameter.
func QueryBool(c *gin.Context, name string) *bool {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}

// TrimmedOrNil returns nil for a missing or blank string, otherwise the trimmed copy.
func TrimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
