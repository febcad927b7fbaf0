package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seyniss/business-backend/internal/database"
	"github.com/seyniss/business-backend/internal/middleware"
	"github.com/seyniss/business-backend/internal/models"
)

// LodgingHandler handles lodging-related HTTP requests
type LodgingHandler struct {
	lodgingRepo  *database.LodgingRepository
	businessRepo *database.BusinessRepository
}

// NewLodgingHandler creates a new lodging handler
func NewLodgingHandler(lodgingRepo *database.LodgingRepository, businessRepo *database.BusinessRepository) *LodgingHandler {
	return &LodgingHandler{
		lodgingRepo:  lodgingRepo,
		businessRepo: businessRepo,
	}
}

func (h *LodgingHandler) businessID(c *gin.Context) (string, bool) {
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

// ownedLodging loads a lodging and verifies the caller's business owns it
func (h *LodgingHandler) ownedLodging(c *gin.Context, lodgingID string) (*models.Lodging, bool) {
	businessID, ok := h.businessID(c)
	if !ok {
		return nil, false
	}

	lodging, err := h.lodgingRepo.GetByID(lodgingID)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if lodging.BusinessID != businessID {
		respondError(c, models.ErrUnauthorized)
		return nil, false
	}
	return lodging, true
}

// CreateLodging handles POST /api/v1/lodgings
func (h *LodgingHandler) CreateLodging(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	var req models.CreateLodgingRequest
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

	lodging := &models.Lodging{
		BusinessID:  businessID,
		LodgingName: req.LodgingName,
		Address:     req.Address,
		Country:     req.Country,
		Category:    req.Category,
		StarRating:  req.StarRating,
		Description: req.Description,
	}
	if err := h.lodgingRepo.Create(lodging); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"lodging": lodging})
}

// ListLodgings handles GET /api/v1/lodgings
func (h *LodgingHandler) ListLodgings(c *gin.Context) {
	businessID, ok := h.businessID(c)
	if !ok {
		return
	}

	lodgings, err := h.lodgingRepo.GetByBusinessID(businessID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lodgings": lodgings})
}

// GetLodging handles GET /api/v1/lodgings/:id
func (h *LodgingHandler) GetLodging(c *gin.Context) {
	lodging, ok := h.ownedLodging(c, c.Param("id"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"lodging": lodging})
}

// UpdateLodging handles PATCH /api/v1/lodgings/:id
func (h *LodgingHandler) UpdateLodging(c *gin.Context) {
	lodging, ok := h.ownedLodging(c, c.Param("id"))
	if !ok {
		return
	}

	var req models.UpdateLodgingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	if err := h.lodgingRepo.Update(lodging.ID, &req); err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.lodgingRepo.GetByID(lodging.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lodging": updated})
}

// DeleteLodging handles DELETE /api/v1/lodgings/:id
func (h *LodgingHandler) DeleteLodging(c *gin.Context) {
	lodging, ok := h.ownedLodging(c, c.Param("id"))
	if !ok {
		return
	}

	if err := h.lodgingRepo.Delete(lodging.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": lodging.ID})
}
