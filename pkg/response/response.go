package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shareit/service-booking/pkg/domain"
)

// Envelope is the JSON body of every API response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success writes a 200 response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{Error: message})
}

// Error maps a domain error onto its HTTP status and writes it.
// Unknown errors become 500 with a generic message; the cause is attached
// to the gin context for the access logger.
func Error(c *gin.Context, err error) {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		message = "internal server error"
	}
	c.AbortWithStatusJSON(status, Envelope{Error: message})
}

// StatusFor returns the HTTP status code for err.
func StatusFor(err error) int {
	var (
		notFound    *domain.NotFoundError
		validation  *domain.ValidationError
		unsupported *domain.UnsupportedStateError
		conflict    *domain.ConflictError
		forbidden   *domain.ForbiddenError
		invalid     *domain.InvalidStateError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &unsupported):
		return http.StatusBadRequest
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &forbidden):
		return http.StatusForbidden
	case errors.As(err, &invalid):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
