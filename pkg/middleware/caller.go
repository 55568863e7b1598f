package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// UserIDHeader identifies the calling user. The gateway in front of the
	// service is responsible for authenticating it.
	UserIDHeader = "X-Sharer-User-Id"

	userIDKey = "user_id"
)

// CallerMiddleware requires a well-formed caller header and stores the parsed id.
func CallerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(UserIDHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "missing " + UserIDHeader + " header",
			})
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "invalid " + UserIDHeader + " header",
			})
			return
		}
		c.Set(userIDKey, id)
		c.Next()
	}
}

// GetUserID returns the caller id stored by CallerMiddleware.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
