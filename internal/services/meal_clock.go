package services

import (
	"strconv"
	"strings"
	"time"

	"tiffin_khata_backend/internal/models"
)

// DateKeyFormat is the calendar key used for menus, orders and stats.
const DateKeyFormat = "2006-01-02"

// ClockConfig holds the meal-window policy hours. Order cutoffs sit strictly
// before the slot display windows end so the kitchen gets lead time.
type ClockConfig struct {
	OpenHour     int    // kitchen opens; no slot before this
	LunchEndHour int    // lunch displayed until this hour, dinner after
	RolloverHour int    // past this hour everything operates on tomorrow
	LunchCutoff  string // HH:MM, last moment a lunch order is accepted
	DinnerCutoff string // HH:MM, last moment a dinner order is accepted
}

// DefaultClockConfig returns the production policy: open 07:00, lunch until
// 14:00 (orderable until 13:00), dinner until 21:00 (orderable until 20:00),
// rollover to tomorrow at 21:00.
func DefaultClockConfig() ClockConfig {
	return ClockConfig{
		OpenHour:     7,
		LunchEndHour: 14,
		RolloverHour: 21,
		LunchCutoff:  "13:00",
		DinnerCutoff: "20:00",
	}
}

// MealClock decides, from wall-clock time, which meal slot is active, whether
// ordering is still open, and which calendar date an order or menu belongs
// to. All methods are side-effect free; callers re-derive on every request
// rather than caching results across the rollover boundary.
type MealClock struct {
	cfg ClockConfig
	now func() time.Time
}

// NewMealClock builds a MealClock. Pass nil for now to use time.Now.
func NewMealClock(cfg ClockConfig, now func() time.Time) *MealClock {
	if now == nil {
		now = time.Now
	}
	return &MealClock{cfg: cfg, now: now}
}

// TodayKey returns the wall-clock date key.
func (m *MealClock) TodayKey() string {
	return m.now().Format(DateKeyFormat)
}

// TomorrowKey returns the next calendar date key.
func (m *MealClock) TomorrowKey() string {
	return m.now().AddDate(0, 0, 1).Format(DateKeyFormat)
}

// EffectiveMenuDateKey returns the date key menus and orders operate on:
// today, except past the rollover hour when everything targets tomorrow.
func (m *MealClock) EffectiveMenuDateKey() string {
	if m.now().Hour() >= m.cfg.RolloverHour {
		return m.TomorrowKey()
	}
	return m.TodayKey()
}

// EffectiveMealSlot returns "lunch" or "dinner", or "" while the kitchen is
// closed (before the open hour or past the rollover hour).
func (m *MealClock) EffectiveMealSlot() string {
	hour := m.now().Hour()
	if hour < m.cfg.OpenHour || hour >= m.cfg.RolloverHour {
		return ""
	}
	if hour < m.cfg.LunchEndHour {
		return models.SlotLunch
	}
	return models.SlotDinner
}

// CanPlaceOrder reports whether the given slot is still accepting orders.
// The cutoff is earlier than the slot's display window end.
func (m *MealClock) CanPlaceOrder(slot string) bool {
	now := m.now()
	hour := now.Hour()
	switch slot {
	case models.SlotLunch:
		return hour >= m.cfg.OpenHour && isBeforeTime(now, m.cfg.LunchCutoff)
	case models.SlotDinner:
		return hour >= m.cfg.LunchEndHour && isBeforeTime(now, m.cfg.DinnerCutoff)
	default:
		return false
	}
}

// IsAfterResetTime reports whether the daily rollover boundary has passed.
func (m *MealClock) IsAfterResetTime() bool {
	return m.now().Hour() >= m.cfg.RolloverHour
}

// NormalizeSlot maps a meal type as stored on orders (LUNCH/DINNER) to a
// menu slot key, or returns "" for anything unrecognized.
func NormalizeSlot(mealType string) string {
	switch strings.ToLower(mealType) {
	case models.SlotLunch:
		return models.SlotLunch
	case models.SlotDinner:
		return models.SlotDinner
	default:
		return ""
	}
}

func isBeforeTime(now time.Time, hhmm string) bool {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return false
	}
	h, err1 := strconv.Atoi(parts[0])
	mm, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return false
	}
	boundary := time.Date(now.Year(), now.Month(), now.Day(), h, mm, 0, 0, now.Location())
	return now.Before(boundary)
}
