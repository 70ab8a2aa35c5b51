package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwtsvc "pantry/internal/pkg/jwt"
	"pantry/internal/pkg/response"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
)

// JWTAuth requires a valid bearer token and stores the caller in the context.
// When allowQuery is set the token may also come from ?token= (browsers cannot
// set headers on websocket upgrades).
func JWTAuth(jwt *jwtsvc.Service, allowQuery ...bool) gin.HandlerFunc {
	queryOK := len(allowQuery) > 0 && allowQuery[0]

	return func(c *gin.Context) {
		tokenStr, code, msg := bearerToken(c, queryOK)
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, code, msg)
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)

		c.Next()
	}
}

func bearerToken(c *gin.Context, queryOK bool) (token, code, msg string) {
	h := c.GetHeader("Authorization")
	if h == "" {
		if queryOK {
			if q := strings.TrimSpace(c.Query("token")); q != "" {
				return q, "", ""
			}
		}
		return "", "UNAUTHORIZED", "Missing Authorization header"
	}

	if !strings.HasPrefix(h, "Bearer ") {
		return "", "UNAUTHORIZED", "Invalid Authorization header"
	}

	token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	if token == "" {
		return "", "UNAUTHORIZED", "Empty token"
	}
	return token, "", ""
}

// UserID returns the authenticated caller, or 0.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}
