package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tiffin_khata_backend/internal/models"
)

// MenuRepository defines the interface for menu document operations.
type MenuRepository interface {
	GetMenu(dateKey string) (*models.Menu, error)
	UpsertSlot(executor SQLExecutor, dateKey string, slot string, payload *models.SlotMenu, updatedAt time.Time) error
	ResetForDate(executor SQLExecutor, dateKey string, resetAt time.Time) error
}

type menuRepository struct {
	db *sql.DB
}

// NewMenuRepository creates a new instance of MenuRepository.
func NewMenuRepository(db *sql.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) GetMenu(dateKey string) (*models.Menu, error) {
	menu := &models.Menu{}
	var lunchRaw, dinnerRaw []byte
	query := `SELECT date, lunch, dinner, menu_status, last_reset_for, reset_at, updated_at
	          FROM menus
	          WHERE date = $1`
	err := r.db.QueryRow(query, dateKey).Scan(
		&menu.Date, &lunchRaw, &dinnerRaw, &menu.MenuStatus,
		&menu.LastResetFor, &menu.ResetAt, &menu.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting menu for %s: %v", ErrDatabaseError, dateKey, err)
	}

	if menu.Lunch, err = unmarshalSlot(lunchRaw); err != nil {
		return nil, fmt.Errorf("%w: decoding lunch payload for %s: %v", ErrDatabaseError, dateKey, err)
	}
	if menu.Dinner, err = unmarshalSlot(dinnerRaw); err != nil {
		return nil, fmt.Errorf("%w: decoding dinner payload for %s: %v", ErrDatabaseError, dateKey, err)
	}
	return menu, nil
}

func (r *menuRepository) UpsertSlot(executor SQLExecutor, dateKey string, slot string, payload *models.SlotMenu, updatedAt time.Time) error {
	column, err := slotColumn(slot)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encoding %s payload: %v", ErrDatabaseError, slot, err)
	}

	// Column name is taken from a fixed map, never from caller input.
	query := fmt.Sprintf(`INSERT INTO menus (date, %s, menu_status, updated_at)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (date) DO UPDATE
	          SET %s = EXCLUDED.%s, menu_status = EXCLUDED.menu_status, updated_at = EXCLUDED.updated_at`,
		column, column, column)

	_, err = executor.Exec(query, dateKey, raw, models.MenuStatusSet, updatedAt)
	if err != nil {
		return fmt.Errorf("%w: upserting %s menu for %s: %v", ErrDatabaseError, slot, dateKey, err)
	}
	return nil
}

func (r *menuRepository) ResetForDate(executor SQLExecutor, dateKey string, resetAt time.Time) error {
	query := `INSERT INTO menus (date, lunch, dinner, menu_status, last_reset_for, reset_at, updated_at)
	          VALUES ($1, NULL, NULL, $2, $1, $3, $3)
	          ON CONFLICT (date) DO UPDATE
	          SET lunch = NULL, dinner = NULL, menu_status = EXCLUDED.menu_status,
	              last_reset_for = EXCLUDED.last_reset_for, reset_at = EXCLUDED.reset_at,
	              updated_at = EXCLUDED.updated_at`
	_, err := executor.Exec(query, dateKey, models.MenuStatusNotSet, resetAt)
	if err != nil {
		return fmt.Errorf("%w: resetting menu for %s: %v", ErrDatabaseError, dateKey, err)
	}
	return nil
}

func slotColumn(slot string) (string, error) {
	switch slot {
	case models.SlotLunch:
		return "lunch", nil
	case models.SlotDinner:
		return "dinner", nil
	default:
		return "", fmt.Errorf("%w: unknown meal slot %q", ErrDatabaseError, slot)
	}
}

func unmarshalSlot(raw []byte) (*models.SlotMenu, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var slot models.SlotMenu
	if err := json.Unmarshal(raw, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}
