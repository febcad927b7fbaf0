package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seyniss/business-backend/internal/models"
)

// ErrorResponse is the common error envelope returned by all handlers
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// respondError maps domain errors onto HTTP status codes with the common
// error envelope. Unrecognized errors become opaque 500s.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidDateRange),
		errors.Is(err, models.ErrInvalidGuestCount),
		errors.Is(err, models.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	case errors.Is(err, models.ErrRoomNotFound),
		errors.Is(err, models.ErrLodgingNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrBusinessNotFound),
		errors.Is(err, models.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, models.ErrRoomNotAvailable):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "room_not_available",
			Message: err.Error(),
		})
	case errors.Is(err, models.ErrUnauthorized):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "forbidden",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "An unexpected error occurred",
		})
	}
}
