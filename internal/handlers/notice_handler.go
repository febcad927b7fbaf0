package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seyniss/business-backend/internal/database"
	"github.com/seyniss/business-backend/internal/middleware"
	"github.com/seyniss/business-backend/internal/models"
)

// NoticeHandler handles room notice HTTP requests
type NoticeHandler struct {
	noticeRepo   *database.NoticeRepository
	roomRepo     *database.RoomRepository
	lodgingRepo  *database.LodgingRepository
	businessRepo *database.BusinessRepository
}

// NewNoticeHandler creates a new notice handler
func NewNoticeHandler(
	noticeRepo *database.NoticeRepository,
	roomRepo *database.RoomRepository,
	lodgingRepo *database.LodgingRepository,
	businessRepo *database.BusinessRepository,
) *NoticeHandler {
	return &NoticeHandler{
		noticeRepo:   noticeRepo,
		roomRepo:     roomRepo,
		lodgingRepo:  lodgingRepo,
		businessRepo: businessRepo,
	}
}

// ownsRoom walks room → lodging → business to verify ownership
func (h *NoticeHandler) ownsRoom(c *gin.Context, roomID string) bool {
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

	room, err := h.roomRepo.GetByID(roomID)
	if err != nil {
		respondError(c, err)
		return false
	}

	lodging, err := h.lodgingRepo.GetByID(room.LodgingID)
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

// CreateNotice handles POST /api/v1/notices
func (h *NoticeHandler) CreateNotice(c *gin.Context) {
	var req models.CreateNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	if !h.ownsRoom(c, req.RoomID) {
		return
	}

	notice := &models.Notice{
		RoomID:  req.RoomID,
		Title:   req.Title,
		Content: req.Content,
	}
	if err := h.noticeRepo.Create(notice); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"notice": notice})
}

// ListNotices handles GET /api/v1/rooms/:id/notices
func (h *NoticeHandler) ListNotices(c *gin.Context) {
	roomID := c.Param("id")
	if !h.ownsRoom(c, roomID) {
		return
	}

	notices, err := h.noticeRepo.GetByRoomID(roomID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notices": notices})
}

// DeleteNotice handles DELETE /api/v1/notices/:id
func (h *NoticeHandler) DeleteNotice(c *gin.Context) {
	notice, err := h.noticeRepo.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !h.ownsRoom(c, notice.RoomID) {
		return
	}

	if err := h.noticeRepo.Delete(notice.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": notice.ID})
}
