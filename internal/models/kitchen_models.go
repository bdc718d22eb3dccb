package models

import "time"

// HolidayConfig marks a closed date range. From/To are YYYY-MM-DD inclusive.
type HolidayConfig struct {
	Active bool    `json:"active"`
	From   *string `json:"from,omitempty"`
	To     *string `json:"to,omitempty"`
	Reason string  `json:"reason"`
}

// KitchenConfig is the single-row kitchen settings document.
type KitchenConfig struct {
	OpenTime  string        `json:"open_time"`  // HH:MM
	CloseTime string        `json:"close_time"` // HH:MM
	Holiday   HolidayConfig `json:"holiday"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// DefaultKitchenConfig returns the settings used before the admin saves any.
func DefaultKitchenConfig() *KitchenConfig {
	return &KitchenConfig{
		OpenTime:  "07:00",
		CloseTime: "21:00",
		Holiday:   HolidayConfig{Active: false, Reason: ""},
	}
}
