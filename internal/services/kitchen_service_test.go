package services

import (
	"testing"

	"tiffin_khata_backend/internal/models"
)

func TestKitchenConfigDefaultsWhenUnset(t *testing.T) {
	svc := NewKitchenService(&memKitchenRepo{}, memTxRunner{})

	cfg, err := svc.GetConfig()
	if err != nil {
		t.Fatalf("GetConfig: %v", err)
	}
	if cfg.OpenTime != "07:00" || cfg.CloseTime != "21:00" || cfg.Holiday.Active {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestUpdateKitchenConfig(t *testing.T) {
	svc := NewKitchenService(&memKitchenRepo{}, memTxRunner{})

	cfg, err := svc.UpdateConfig(UpdateKitchenConfigRequest{
		OpenTime:  "08:00",
		CloseTime: "20:00",
		Holiday:   models.HolidayConfig{Active: true, Reason: "maintenance"},
	})
	if err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}
	if cfg.OpenTime != "08:00" || !cfg.Holiday.Active || cfg.Holiday.Reason != "maintenance" {
		t.Errorf("updated config = %+v", cfg)
	}
}

func TestIsHoliday(t *testing.T) {
	from := "2026-03-10"
	to := "2026-03-12"

	tests := []struct {
		name    string
		holiday models.HolidayConfig
		dateKey string
		want    bool
	}{
		{"inactive", models.HolidayConfig{Active: false, From: &from, To: &to}, "2026-03-11", false},
		{"before range", models.HolidayConfig{Active: true, From: &from, To: &to}, "2026-03-09", false},
		{"range start", models.HolidayConfig{Active: true, From: &from, To: &to}, "2026-03-10", true},
		{"inside range", models.HolidayConfig{Active: true, From: &from, To: &to}, "2026-03-11", true},
		{"range end", models.HolidayConfig{Active: true, From: &from, To: &to}, "2026-03-12", true},
		{"after range", models.HolidayConfig{Active: true, From: &from, To: &to}, "2026-03-13", false},
		{"open ended", models.HolidayConfig{Active: true, From: &from}, "2026-04-01", true},
		{"no bounds", models.HolidayConfig{Active: true}, "2026-03-11", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &memKitchenRepo{cfg: &models.KitchenConfig{
				OpenTime: "07:00", CloseTime: "21:00", Holiday: tc.holiday,
			}}
			svc := NewKitchenService(repo, memTxRunner{})

			got, reason, err := svc.IsHoliday(tc.dateKey)
			if err != nil {
				t.Fatalf("IsHoliday: %v", err)
			}
			if got != tc.want {
				t.Errorf("IsHoliday(%s) = %v, want %v", tc.dateKey, got, tc.want)
			}
			if got && tc.holiday.Reason != "" && reason != tc.holiday.Reason {
				t.Errorf("reason = %q, want %q", reason, tc.holiday.Reason)
			}
		})
	}
}
