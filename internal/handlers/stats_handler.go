package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seyniss/business-backend/internal/database"
	"github.com/seyniss/business-backend/internal/middleware"
)

// StatsHandler handles dashboard statistics HTTP requests
type StatsHandler struct {
	statsRepo    *database.StatsRepository
	businessRepo *database.BusinessRepository
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsRepo *database.StatsRepository, businessRepo *database.BusinessRepository) *StatsHandler {
	return &StatsHandler{
		statsRepo:    statsRepo,
		businessRepo: businessRepo,
	}
}

// GetStats handles GET /api/v1/stats for the authenticated business
func (h *StatsHandler) GetStats(c *gin.Context) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User context not found",
		})
		return
	}

	business, err := h.businessRepo.GetByUserID(userCtx.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := h.statsRepo.GetBookingStats(business.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
