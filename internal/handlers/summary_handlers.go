package handlers

import (
	"net/http"

	"tiffin_khata_backend/internal/services"
	"tiffin_khata_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SummaryHandler exposes the kitchen's cooking summary.
type SummaryHandler struct {
	summaryService services.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(ss services.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: ss}
}

// GetCookingSummary returns the prep list for the active meal (admin only).
func (h *SummaryHandler) GetCookingSummary(c *gin.Context) {
	summary, err := h.summaryService.GetCookingSummaryForCurrentMeal()
	if err != nil {
		utils.LogError(err, "GetCookingSummary: Error from summaryService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build cooking summary.", "Internal error"))
		return
	}
	if summary == nil {
		c.JSON(http.StatusOK, gin.H{"summary": nil, "message": "Kitchen is closed right now."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
