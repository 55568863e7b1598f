package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shareit/service-booking/internal/application"
	"github.com/shareit/service-booking/pkg/middleware"
	"github.com/shareit/service-booking/pkg/response"
)

// AdminBookingHandler handles admin HTTP requests for booking management.
type AdminBookingHandler struct {
	service  *application.BookingService
	adminIDs []uuid.UUID
}

// NewAdminBookingHandler creates a new AdminBookingHandler serving the given admins.
func NewAdminBookingHandler(service *application.BookingService, adminIDs []uuid.UUID) *AdminBookingHandler {
	return &AdminBookingHandler{service: service, adminIDs: adminIDs}
}

// RegisterRoutes registers admin booking routes.
func (h *AdminBookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	admin.Use(middleware.CallerMiddleware(), middleware.RequireAdmin(h.adminIDs))
	{
		admin.GET("/bookings/stats", h.BookingStats)
	}
}

// BookingStats handles GET /admin/bookings/stats.
func (h *AdminBookingHandler) BookingStats(c *gin.Context) {
	stats, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
