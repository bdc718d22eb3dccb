package services

import (
	"testing"

	"tiffin_khata_backend/internal/models"
)

func TestEffectiveMealSlot(t *testing.T) {
	tests := []struct {
		name string
		hour int
		want string
	}{
		{"before open", 6, ""},
		{"open hour", 7, models.SlotLunch},
		{"mid morning", 10, models.SlotLunch},
		{"last lunch hour", 13, models.SlotLunch},
		{"lunch end", 14, models.SlotDinner},
		{"evening", 19, models.SlotDinner},
		{"last dinner hour", 20, models.SlotDinner},
		{"rollover hour", 21, ""},
		{"late night", 22, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := clockAt(tc.hour, 0).EffectiveMealSlot()
			if got != tc.want {
				t.Errorf("EffectiveMealSlot at %02d:00 = %q, want %q", tc.hour, got, tc.want)
			}
		})
	}
}

func TestEffectiveMenuDateKeyRollsOverAtNight(t *testing.T) {
	if got := clockAt(10, 0).EffectiveMenuDateKey(); got != "2026-03-10" {
		t.Errorf("morning date key = %q, want today", got)
	}
	if got := clockAt(21, 0).EffectiveMenuDateKey(); got != "2026-03-11" {
		t.Errorf("post-rollover date key = %q, want tomorrow", got)
	}
	if got := clockAt(23, 59).EffectiveMenuDateKey(); got != "2026-03-11" {
		t.Errorf("late night date key = %q, want tomorrow", got)
	}
}

func TestCanPlaceOrderCutoffs(t *testing.T) {
	tests := []struct {
		name string
		hour int
		min  int
		slot string
		want bool
	}{
		{"lunch before open", 6, 30, models.SlotLunch, false},
		{"lunch mid morning", 10, 0, models.SlotLunch, true},
		{"lunch just before cutoff", 12, 59, models.SlotLunch, true},
		{"lunch at cutoff", 13, 0, models.SlotLunch, false},
		{"dinner during lunch window", 12, 0, models.SlotDinner, false},
		{"dinner after lunch end", 14, 0, models.SlotDinner, true},
		{"dinner just before cutoff", 19, 59, models.SlotDinner, true},
		{"dinner at cutoff", 20, 0, models.SlotDinner, false},
		{"unknown slot", 10, 0, "brunch", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := clockAt(tc.hour, tc.min).CanPlaceOrder(tc.slot)
			if got != tc.want {
				t.Errorf("CanPlaceOrder(%q) at %02d:%02d = %v, want %v", tc.slot, tc.hour, tc.min, got, tc.want)
			}
		})
	}
}

func TestIsAfterResetTime(t *testing.T) {
	if clockAt(20, 59).IsAfterResetTime() {
		t.Error("20:59 should be before the reset boundary")
	}
	if !clockAt(21, 0).IsAfterResetTime() {
		t.Error("21:00 should be past the reset boundary")
	}
}

func TestNormalizeSlot(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"LUNCH", models.SlotLunch},
		{"lunch", models.SlotLunch},
		{"DINNER", models.SlotDinner},
		{"Dinner", models.SlotDinner},
		{"breakfast", ""},
		{"", ""},
	}
	for _, tc := range tests {
		if got := NormalizeSlot(tc.in); got != tc.want {
			t.Errorf("NormalizeSlot(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
