package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shareit/service-booking/internal/application"
	"github.com/shareit/service-booking/pkg/middleware"
	"github.com/shareit/service-booking/pkg/response"
)

const (
	defaultState = "ALL"
	defaultFrom  = 0
	defaultSize  = 10
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.CallerMiddleware())
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListForBooker)
		bookings.GET("/owner", h.ListForOwner)
		bookings.GET("/:bookingId", h.GetBooking)
		bookings.PATCH("/:bookingId", h.ConfirmBooking)
		bookings.PATCH("/:bookingId/cancel", h.CancelBooking)
		bookings.GET("/items/:itemId/summary", h.ItemSummary)
		bookings.GET("/items/:itemId/eligibility", h.CommentEligibility)
	}
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ConfirmBooking handles PATCH /bookings/:bookingId?approved=.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	bookingID, ok := parseUUIDParam(c, "bookingId")
	if !ok {
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		response.BadRequest(c, "query parameter approved must be true or false")
		return
	}

	result, err := h.service.ConfirmBooking(c.Request.Context(), userID, bookingID, approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelBooking handles PATCH /bookings/:bookingId/cancel.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	bookingID, ok := parseUUIDParam(c, "bookingId")
	if !ok {
		return
	}

	result, err := h.service.CancelBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles GET /bookings/:bookingId.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	bookingID, ok := parseUUIDParam(c, "bookingId")
	if !ok {
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListForBooker handles GET /bookings.
func (h *BookingHandler) ListForBooker(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	state, from, size, ok := parseListing(c)
	if !ok {
		return
	}

	result, err := h.service.ListForBooker(c.Request.Context(), userID, state, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListForOwner handles GET /bookings/owner.
func (h *BookingHandler) ListForOwner(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	state, from, size, ok := parseListing(c)
	if !ok {
		return
	}

	result, err := h.service.ListForOwner(c.Request.Context(), userID, state, from, size)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ItemSummary handles GET /bookings/items/:itemId/summary.
func (h *BookingHandler) ItemSummary(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	itemID, ok := parseUUIDParam(c, "itemId")
	if !ok {
		return
	}

	result, err := h.service.ItemBookingSummary(c.Request.Context(), userID, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CommentEligibility handles GET /bookings/items/:itemId/eligibility.
func (h *BookingHandler) CommentEligibility(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	itemID, ok := parseUUIDParam(c, "itemId")
	if !ok {
		return
	}

	result, err := h.service.CommentEligibility(c.Request.Context(), userID, itemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// --- Helpers ---

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// parseListing reads state, from and size with their defaults. The state is
// validated by the service so that actor checks run first.
func parseListing(c *gin.Context) (string, int, int, bool) {
	state := c.DefaultQuery("state", defaultState)

	from, err := strconv.Atoi(c.DefaultQuery("from", strconv.Itoa(defaultFrom)))
	if err != nil || from < 0 {
		response.BadRequest(c, "from must be a non-negative integer")
		return "", 0, 0, false
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultSize)))
	if err != nil || size < 1 {
		response.BadRequest(c, "size must be a positive integer")
		return "", 0, 0, false
	}
	return state, from, size, true
}
