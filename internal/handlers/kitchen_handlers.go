package handlers

import (
	"net/http"

	"tiffin_khata_backend/internal/services"
	"tiffin_khata_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// KitchenHandler exposes the kitchen settings document.
type KitchenHandler struct {
	kitchenService services.KitchenService
}

// NewKitchenHandler creates a new KitchenHandler.
func NewKitchenHandler(ks services.KitchenService) *KitchenHandler {
	return &KitchenHandler{kitchenService: ks}
}

// GetConfig returns the current kitchen settings.
func (h *KitchenHandler) GetConfig(c *gin.Context) {
	cfg, err := h.kitchenService.GetConfig()
	if err != nil {
		utils.LogError(err, "GetConfig: Error from kitchenService.GetConfig")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch kitchen settings.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateConfig replaces the kitchen settings (admin only).
func (h *KitchenHandler) UpdateConfig(c *gin.Context) {
	var req services.UpdateKitchenConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	cfg, err := h.kitchenService.UpdateConfig(req)
	if err != nil {
		utils.LogError(err, "UpdateConfig: Error from kitchenService.UpdateConfig")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update kitchen settings.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, cfg)
}
