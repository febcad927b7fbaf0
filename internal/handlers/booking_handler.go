package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seyniss/business-backend/internal/database"
	"github.com/seyniss/business-backend/internal/middleware"
	"github.com/seyniss/business-backend/internal/models"
	"github.com/seyniss/business-backend/internal/services"
)

// BookingHandler handles booking-related HTTP requests
type BookingHandler struct {
	reservations *services.ReservationService
	businessRepo *database.BusinessRepository
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(reservations *services.ReservationService, businessRepo *database.BusinessRepository) *BookingHandler {
	return &BookingHandler{
		reservations: reservations,
		businessRepo: businessRepo,
	}
}

// businessID resolves the operator profile of the authenticated user
func (h *BookingHandler) businessID(c *gin.Context) (string, bool) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return "", false
	}

	business, err := h.businessRepo.GetByUserID(userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return business.ID, true
}

// CreateBooking handles POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	booking, err := h.reservations.CreateBooking(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// CheckAvailability handles GET /api/v1/rooms/:id/availability
func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	roomID := c.Param("id")
	checkin := c.Query("checkin_date")
	checkout := c.Query("checkout_date")
	if checkin == "" || checkout == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "checkin_date and checkout_date query parameters are required",
		})
		return
	}

	free, err := h.reservations.CheckAvailability(roomID, checkin, checkout)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room_id":         roomID,
		"checkin_date":    checkin,
		"checkout_date":   checkout,
		"available_units": free,
		"available":       free > 0,
	})
}

// ListBookings handles GET /api/v1/bookings for the authenticated business
func (h *BookingHandler) ListBookings(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	filter := models.BookingFilter{BusinessID: businessID}

	if v := c.Query("status"); v != "" {
		status := models.BookingStatus(v)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "Unknown booking status: " + v,
			})
			return
		}
		filter.Status = &status
	}
	if v := c.Query("room_id"); v != "" {
		filter.RoomID = &v
	}
	if v := c.Query("lodging_id"); v != "" {
		filter.LodgingID = &v
	}
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondError(c, models.ErrInvalidDateRange)
			return
		}
		filter.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			respondError(c, models.ErrInvalidDateRange)
			return
		}
		filter.EndDate = &t
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	bookings, total, err := h.reservations.ListBookings(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    total,
		"page":     filter.Page,
		"limit":    filter.Limit,
	})
}

// GetBooking handles GET /api/v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	detail, err := h.reservations.GetBooking(businessID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdateBookingStatus handles PATCH /api/v1/bookings/:id/status
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var req models.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	booking, err := h.reservations.SetBookingStatus(businessID, c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// UpdatePaymentStatus handles PATCH /api/v1/bookings/:id/payment
func (h *BookingHandler) UpdatePaymentStatus(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var req models.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	booking, err := h.reservations.SetPaymentStatus(businessID, c.Param("id"), req.PaymentStatus)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}
