package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shareit/service-booking/pkg/domain"
	"github.com/shareit/service-booking/pkg/response"
)

// RequireAdmin lets through only callers listed in adminIDs. It must run
// after CallerMiddleware. An empty list denies everyone.
func RequireAdmin(adminIDs []uuid.UUID) gin.HandlerFunc {
	allowed := make(map[uuid.UUID]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		allowed[id] = struct{}{}
	}
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if _, admin := allowed[userID]; !ok || !admin {
			response.Error(c, domain.NewForbiddenError("admin access required"))
			return
		}
		c.Next()
	}
}
