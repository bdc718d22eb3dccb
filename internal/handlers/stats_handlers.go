package handlers

import (
	"net/http"
	"time"

	"tiffin_khata_backend/internal/services"
	"tiffin_khata_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StatsHandler exposes the admin dashboard and the daily counters.
type StatsHandler struct {
	statsService services.StatsService
	clock        *services.MealClock
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(ss services.StatsService, clock *services.MealClock) *StatsHandler {
	return &StatsHandler{statsService: ss, clock: clock}
}

// GetDailyStats returns the counters for one date, defaulting to today.
func (h *StatsHandler) GetDailyStats(c *gin.Context) {
	dateKey := c.Query("date")
	if dateKey == "" {
		dateKey = h.clock.TodayKey()
	} else if _, err := time.Parse(services.DateKeyFormat, dateKey); err != nil {
		utils.RespondValidationFailed(c, "date must be formatted YYYY-MM-DD")
		return
	}

	stats, err := h.statsService.GetDailyStats(dateKey)
	if err != nil {
		utils.LogError(err, "GetDailyStats: Error from statsService.GetDailyStats")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch daily stats.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetDashboard returns today's live numbers recomputed from the orders and
// payments tables.
func (h *StatsHandler) GetDashboard(c *gin.Context) {
	snapshot, err := h.statsService.GetDashboardSnapshot()
	if err != nil {
		utils.LogError(err, "GetDashboard: Error from statsService.GetDashboardSnapshot")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build dashboard.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
