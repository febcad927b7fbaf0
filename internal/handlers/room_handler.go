package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seyniss/business-backend/internal/database"
	"github.com/seyniss/business-backend/internal/middleware"
	"github.com/seyniss/business-backend/internal/models"
)

// RoomHandler handles room-related HTTP requests
type RoomHandler struct {
	roomRepo     *database.RoomRepository
	lodgingRepo  *database.LodgingRepository
	businessRepo *database.BusinessRepository
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(
	roomRepo *database.RoomRepository,
	lodgingRepo *database.LodgingRepository,
	businessRepo *database.BusinessRepository,
) *RoomHandler {
	return &RoomHandler{
		roomRepo:     roomRepo,
		lodgingRepo:  lodgingRepo,
		businessRepo: businessRepo,
	}
}

// ownsLodging verifies the authenticated user's business owns the lodging
func (h *RoomHandler) ownsLodging(c *gin.Context, lodgingID string) bool {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return false
	}

	business, err := h.businessRepo.GetByUserID(userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return false
	}

	lodging, err := h.lodgingRepo.GetByID(lodgingID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if lodging.BusinessID != business.ID {
		respondError(c, models.ErrUnauthorized)
		return false
	}
	return true
}

// CreateRoom handles POST /api/v1/rooms
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req models.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	if !h.ownsLodging(c, req.LodgingID) {
		return
	}

	room := &models.Room{
		LodgingID:    req.LodgingID,
		RoomName:     req.RoomName,
		RoomSize:     req.RoomSize,
		CapacityMin:  req.CapacityMin,
		CapacityMax:  req.CapacityMax,
		CheckInTime:  req.CheckInTime,
		CheckOutTime: req.CheckOutTime,
		RoomImage:    req.RoomImage,
		Price:        req.Price,
		CountRoom:    req.CountRoom,
	}
	if err := h.roomRepo.Create(room); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"room": room})
}

// ListRooms handles GET /api/v1/lodgings/:id/rooms
func (h *RoomHandler) ListRooms(c *gin.Context) {
	lodgingID := c.Param("id")
	if !h.ownsLodging(c, lodgingID) {
		return
	}

	rooms, err := h.roomRepo.GetByLodgingID(lodgingID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// GetRoom handles GET /api/v1/rooms/:id
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.roomRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.ownsLodging(c, room.LodgingID) {
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": room})
}

// UpdateRoom handles PATCH /api/v1/rooms/:id
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	room, err := h.roomRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.ownsLodging(c, room.LodgingID) {
		return
	}

	var req models.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	if err := h.roomRepo.Update(room.ID, &req); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.roomRepo.GetByID(room.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": updated})
}

// DeleteRoom handles DELETE /api/v1/rooms/:id
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	room, err := h.roomRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.ownsLodging(c, room.LodgingID) {
		return
	}

	if err := h.roomRepo.Delete(room.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": room.ID})
}
