package services

import (
	"errors"
	"fmt"
	"time"

	"tiffin_khata_backend/internal/models"
	"tiffin_khata_backend/internal/repositories"
)

var (
	ErrInvalidMealSlot       = errors.New("invalid meal slot")
	ErrInvalidMenuType       = errors.New("invalid menu type")
	ErrMenuPayloadIncomplete = errors.New("menu payload missing required section for its type")
	ErrMenuNotFound          = errors.New("menu not found")
)

// --- Data Transfer Objects (DTOs) ---

// SetMenuRequest carries the admin's slot payload.
type SetMenuRequest struct {
	Slot string          `json:"slot" binding:"required"`
	Menu models.SlotMenu `json:"menu" binding:"required"`
}

// --- MenuService Interface ---
type MenuService interface {
	// SetMenu validates and writes the slot payload for the effective date.
	SetMenu(dateKey string, slot string, payload models.SlotMenu) (*models.Menu, error)
	GetMenu(dateKey string) (*models.Menu, error)
	GetSlotMenu(dateKey string, slot string) (*models.SlotMenu, error)
	IsMenuAvailable(dateKey string, slot string) (bool, error)
	// ResetIfNeeded clears tomorrow's menu once the rollover boundary has
	// passed. Idempotent per date via the last_reset_for marker.
	ResetIfNeeded() error
}

type menuService struct {
	menuRepo repositories.MenuRepository
	tx       repositories.TxRunner
	clock    *MealClock
}

// NewMenuService creates a new instance of MenuService.
func NewMenuService(mr repositories.MenuRepository, tx repositories.TxRunner, clock *MealClock) MenuService {
	return &menuService{menuRepo: mr, tx: tx, clock: clock}
}

// validateSlotMenu enforces the tagged-variant shape: the declared type must
// carry its required sub-object. Prices are admin-trusted beyond this.
func validateSlotMenu(payload *models.SlotMenu) error {
	switch payload.Type {
	case models.MenuTypeRotiSabzi:
		if payload.RotiSabzi == nil {
			return fmt.Errorf("%w: %s requires roti_sabzi", ErrMenuPayloadIncomplete, payload.Type)
		}
	case models.MenuTypeOther:
		if payload.Other == nil {
			return fmt.Errorf("%w: %s requires other", ErrMenuPayloadIncomplete, payload.Type)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMenuType, payload.Type)
	}
	return nil
}

func validSlot(slot string) bool {
	return slot == models.SlotLunch || slot == models.SlotDinner
}

func (s *menuService) SetMenu(dateKey string, slot string, payload models.SlotMenu) (*models.Menu, error) {
	if !validSlot(slot) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMealSlot, slot)
	}
	if err := validateSlotMenu(&payload); err != nil {
		return nil, err
	}
	if payload.Extras == nil {
		payload.Extras = []models.ExtraItem{}
	}

	err := s.tx.RunInTx(func(ex repositories.SQLExecutor) error {
		return s.menuRepo.UpsertSlot(ex, dateKey, slot, &payload, time.Now())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set %s menu for %s: %w", slot, dateKey, err)
	}
	return s.GetMenu(dateKey)
}

func (s *menuService) GetMenu(dateKey string) (*models.Menu, error) {
	menu, err := s.menuRepo.GetMenu(dateKey)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, fmt.Errorf("failed to get menu for %s: %w", dateKey, err)
	}
	return menu, nil
}

func (s *menuService) GetSlotMenu(dateKey string, slot string) (*models.SlotMenu, error) {
	if !validSlot(slot) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMealSlot, slot)
	}
	menu, err := s.GetMenu(dateKey)
	if err != nil {
		return nil, err
	}
	slotMenu := menu.Slot(slot)
	if slotMenu == nil {
		return nil, ErrMenuNotFound
	}
	return slotMenu, nil
}

// IsMenuAvailable is deliberately strict: a document that exists but was
// partially written or reset must read as unavailable, never as a
// malformed-but-truthy menu.
func (s *menuService) IsMenuAvailable(dateKey string, slot string) (bool, error) {
	if !validSlot(slot) {
		return false, fmt.Errorf("%w: %q", ErrInvalidMealSlot, slot)
	}
	menu, err := s.menuRepo.GetMenu(dateKey)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check menu availability: %w", err)
	}
	if menu.MenuStatus != models.MenuStatusSet {
		return false, nil
	}
	slotMenu := menu.Slot(slot)
	if slotMenu == nil {
		return false, nil
	}
	return validateSlotMenu(slotMenu) == nil, nil
}

func (s *menuService) ResetIfNeeded() error {
	if !s.clock.IsAfterResetTime() {
		return nil
	}

	tomorrowKey := s.clock.TomorrowKey()
	menu, err := s.menuRepo.GetMenu(tomorrowKey)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check reset marker for %s: %w", tomorrowKey, err)
	}
	if menu != nil && menu.LastResetFor != nil && *menu.LastResetFor == tomorrowKey {
		// Already reset for this date.
		return nil
	}

	err = s.tx.RunInTx(func(ex repositories.SQLExecutor) error {
		return s.menuRepo.ResetForDate(ex, tomorrowKey, time.Now())
	})
	if err != nil {
		return fmt.Errorf("failed to reset menu for %s: %w", tomorrowKey, err)
	}
	return nil
}
