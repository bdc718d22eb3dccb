package handlers

import (
	"errors"
	"net/http"

	"tiffin_khata_backend/internal/services"
	"tiffin_khata_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MenuHandler holds the menu service and the meal clock.
type MenuHandler struct {
	menuService services.MenuService
	clock       *services.MealClock
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(ms services.MenuService, clock *services.MealClock) *MenuHandler {
	return &MenuHandler{menuService: ms, clock: clock}
}

// SetMenu writes one slot of the effective date's menu (admin only).
func (h *MenuHandler) SetMenu(c *gin.Context) {
	var req services.SetMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	dateKey := h.clock.EffectiveMenuDateKey()
	menu, err := h.menuService.SetMenu(dateKey, req.Slot, req.Menu)
	if err != nil {
		if errors.Is(err, services.ErrInvalidMealSlot) || errors.Is(err, services.ErrInvalidMenuType) || errors.Is(err, services.ErrMenuPayloadIncomplete) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid menu payload.", err.Error()))
			return
		}
		utils.LogError(err, "SetMenu: Error from menuService.SetMenu")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to set menu.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, menu)
}

// GetTodayMenu returns the menu for the effective date together with the meal
// window the clients should render.
func (h *MenuHandler) GetTodayMenu(c *gin.Context) {
	if err := h.menuService.ResetIfNeeded(); err != nil {
		utils.LogError(err, "GetTodayMenu: menu reset failed")
	}

	dateKey := h.clock.EffectiveMenuDateKey()
	activeSlot := h.clock.EffectiveMealSlot()

	menu, err := h.menuService.GetMenu(dateKey)
	if err != nil && !errors.Is(err, services.ErrMenuNotFound) {
		utils.LogError(err, "GetTodayMenu: Error from menuService.GetMenu")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch menu.", "Internal error"))
		return
	}

	canOrder := activeSlot != "" && h.clock.CanPlaceOrder(activeSlot)
	c.JSON(http.StatusOK, gin.H{
		"date":        dateKey,
		"active_slot": activeSlot,
		"can_order":   canOrder,
		"menu":        menu, // null until the admin sets it
	})
}

// GetMenuByDate returns the stored menu document for an explicit date.
func (h *MenuHandler) GetMenuByDate(c *gin.Context) {
	dateKey := c.Param("date")
	if utils.IsEmpty(dateKey) {
		utils.RespondValidationFailed(c, "date path parameter is required")
		return
	}

	menu, err := h.menuService.GetMenu(dateKey)
	if err != nil {
		if errors.Is(err, services.ErrMenuNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "No menu for this date.", ""))
			return
		}
		utils.LogError(err, "GetMenuByDate: Error from menuService.GetMenu")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch menu.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, menu)
}
