package services

import (
	"errors"
	"testing"

	"tiffin_khata_backend/internal/models"
)

func rotiSabziPayload() models.SlotMenu {
	return models.SlotMenu{
		Type: models.MenuTypeRotiSabzi,
		RotiSabzi: &models.RotiSabziMenu{
			Half: models.DabbaVariant{Items: []string{"4 roti", "sabzi"}, Price: 80},
			Full: models.DabbaVariant{Items: []string{"4 roti", "sabzi", "dal", "rice"}, Price: 120},
		},
		Extras: []models.ExtraItem{{Name: "roti", Price: 10}},
	}
}

func TestSetMenuRejectsInvalidPayloads(t *testing.T) {
	svc := NewMenuService(newMemMenuRepo(), memTxRunner{}, clockAt(10, 0))

	_, err := svc.SetMenu("2026-03-10", "brunch", rotiSabziPayload())
	if !errors.Is(err, ErrInvalidMealSlot) {
		t.Errorf("bad slot: got %v, want ErrInvalidMealSlot", err)
	}

	_, err = svc.SetMenu("2026-03-10", models.SlotLunch, models.SlotMenu{Type: "FANCY"})
	if !errors.Is(err, ErrInvalidMenuType) {
		t.Errorf("bad type: got %v, want ErrInvalidMenuType", err)
	}

	_, err = svc.SetMenu("2026-03-10", models.SlotLunch, models.SlotMenu{Type: models.MenuTypeRotiSabzi})
	if !errors.Is(err, ErrMenuPayloadIncomplete) {
		t.Errorf("missing roti_sabzi: got %v, want ErrMenuPayloadIncomplete", err)
	}

	_, err = svc.SetMenu("2026-03-10", models.SlotLunch, models.SlotMenu{Type: models.MenuTypeOther})
	if !errors.Is(err, ErrMenuPayloadIncomplete) {
		t.Errorf("missing other: got %v, want ErrMenuPayloadIncomplete", err)
	}
}

func TestSetMenuWritesSlot(t *testing.T) {
	svc := NewMenuService(newMemMenuRepo(), memTxRunner{}, clockAt(10, 0))

	menu, err := svc.SetMenu("2026-03-10", models.SlotLunch, rotiSabziPayload())
	if err != nil {
		t.Fatalf("SetMenu: %v", err)
	}
	if menu.Lunch == nil || menu.Lunch.RotiSabzi.Half.Price != 80 {
		t.Fatal("lunch slot not written")
	}
	if menu.MenuStatus != models.MenuStatusSet {
		t.Errorf("menu status = %q, want SET", menu.MenuStatus)
	}

	slot, err := svc.GetSlotMenu("2026-03-10", models.SlotLunch)
	if err != nil {
		t.Fatalf("GetSlotMenu: %v", err)
	}
	if slot.RotiSabzi.Full.Price != 120 {
		t.Errorf("full price = %v, want 120", slot.RotiSabzi.Full.Price)
	}
}

func TestIsMenuAvailableIsStrict(t *testing.T) {
	repo := newMemMenuRepo()
	svc := NewMenuService(repo, memTxRunner{}, clockAt(10, 0))

	available, err := svc.IsMenuAvailable("2026-03-10", models.SlotLunch)
	if err != nil || available {
		t.Errorf("missing doc: available=%v err=%v, want false,nil", available, err)
	}

	if _, err := svc.SetMenu("2026-03-10", models.SlotLunch, rotiSabziPayload()); err != nil {
		t.Fatalf("SetMenu: %v", err)
	}

	available, err = svc.IsMenuAvailable("2026-03-10", models.SlotLunch)
	if err != nil || !available {
		t.Errorf("set lunch: available=%v err=%v, want true,nil", available, err)
	}

	// Dinner was never set; the document existing must not make it available.
	available, err = svc.IsMenuAvailable("2026-03-10", models.SlotDinner)
	if err != nil || available {
		t.Errorf("unset dinner: available=%v err=%v, want false,nil", available, err)
	}

	// A malformed stored slot reads as unavailable, not as an error.
	repo.menus["2026-03-10"].Dinner = &models.SlotMenu{Type: models.MenuTypeRotiSabzi}
	available, err = svc.IsMenuAvailable("2026-03-10", models.SlotDinner)
	if err != nil || available {
		t.Errorf("malformed dinner: available=%v err=%v, want false,nil", available, err)
	}
}

func TestResetIfNeededIsIdempotentPerDate(t *testing.T) {
	repo := newMemMenuRepo()

	// Before the boundary nothing happens.
	svc := NewMenuService(repo, memTxRunner{}, clockAt(15, 0))
	if err := svc.ResetIfNeeded(); err != nil {
		t.Fatalf("ResetIfNeeded before boundary: %v", err)
	}
	if repo.resets != 0 {
		t.Fatalf("resets = %d, want 0 before boundary", repo.resets)
	}

	svc = NewMenuService(repo, memTxRunner{}, clockAt(22, 0))
	if err := svc.ResetIfNeeded(); err != nil {
		t.Fatalf("ResetIfNeeded: %v", err)
	}
	if repo.resets != 1 {
		t.Fatalf("resets = %d, want 1", repo.resets)
	}

	menu, err := repo.GetMenu("2026-03-11")
	if err != nil {
		t.Fatalf("GetMenu after reset: %v", err)
	}
	if menu.MenuStatus != models.MenuStatusNotSet || menu.Lunch != nil || menu.Dinner != nil {
		t.Error("reset should clear slots and mark NOT_SET")
	}

	// Second pass on the same date is a no-op.
	if err := svc.ResetIfNeeded(); err != nil {
		t.Fatalf("second ResetIfNeeded: %v", err)
	}
	if repo.resets != 1 {
		t.Errorf("resets = %d, want still 1", repo.resets)
	}
}
