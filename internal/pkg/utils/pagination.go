package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type Page struct {
	Page   int
	Limit  int
	Offset int
}

// PageFromQuery reads ?page=&limit= falling back to defaults on bad input.
func PageFromQuery(c *gin.Context) Page {
	p := Page{Page: 1, Limit: DefaultPageLimit}

	if limit := c.Query("limit"); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil && val > 0 && val <= MaxPageLimit {
			p.Limit = val
		}
	}
	if page := c.Query("page"); page != "" {
		if val, err := strconv.Atoi(page); err == nil && val > 0 {
			p.Page = val
		}
	}

	p.Offset = (p.Page - 1) * p.Limit
	return p
}

func (p Page) Meta(total int64) gin.H {
	return gin.H{
		"page":        p.Page,
		"limit":       p.Limit,
		"total":       total,
		"total_pages": (int(total) + p.Limit - 1) / p.Limit,
	}
}
