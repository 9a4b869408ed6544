package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-webinar-scheduler/internal/domain/entity"
)

const (
	CtxUserIDKey = "userID"
	UserIDHeader = "X-User-ID"
)

// Actor resolves the calling user from the X-User-ID header, falling back to
// defaultUserID. There is no authentication behind it.
func Actor(defaultUserID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if uid == "" {
			uid = defaultUserID
		}
		c.Set(CtxUserIDKey, uid)
		c.Next()
	}
}

// CurrentUser returns the user resolved by Actor.
func CurrentUser(c *gin.Context) entity.User {
	return entity.User{ID: c.GetString(CtxUserIDKey)}
}
