package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tiffin_khata_backend/internal/models"
)

// KitchenRepository stores the single-row kitchen settings document.
type KitchenRepository interface {
	GetConfig() (*models.KitchenConfig, error)
	UpsertConfig(executor SQLExecutor, cfg *models.KitchenConfig) error
}

type kitchenRepository struct {
	db *sql.DB
}

// NewKitchenRepository creates a new instance of KitchenRepository.
func NewKitchenRepository(db *sql.DB) KitchenRepository {
	return &kitchenRepository{db: db}
}

func (r *kitchenRepository) GetConfig() (*models.KitchenConfig, error) {
	cfg := &models.KitchenConfig{}
	query := `SELECT open_time, close_time, holiday_active, holiday_from, holiday_to, holiday_reason, updated_at
	          FROM kitchen_config
	          WHERE id = 1`
	err := r.db.QueryRow(query).Scan(
		&cfg.OpenTime, &cfg.CloseTime,
		&cfg.Holiday.Active, &cfg.Holiday.From, &cfg.Holiday.To, &cfg.Holiday.Reason,
		&cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Unsaved settings read as the defaults, same as the product's
			// config document before the admin first writes it.
			return models.DefaultKitchenConfig(), nil
		}
		return nil, fmt.Errorf("%w: getting kitchen config: %v", ErrDatabaseError, err)
	}
	return cfg, nil
}

func (r *kitchenRepository) UpsertConfig(executor SQLExecutor, cfg *models.KitchenConfig) error {
	cfg.UpdatedAt = time.Now()
	query := `INSERT INTO kitchen_config (id, open_time, close_time, holiday_active, holiday_from, holiday_to, holiday_reason, updated_at)
	          VALUES (1, $1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (id) DO UPDATE
	          SET open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time,
	              holiday_active = EXCLUDED.holiday_active, holiday_from = EXCLUDED.holiday_from,
	              holiday_to = EXCLUDED.holiday_to, holiday_reason = EXCLUDED.holiday_reason,
	              updated_at = EXCLUDED.updated_at`
	_, err := executor.Exec(query,
		cfg.OpenTime, cfg.CloseTime,
		cfg.Holiday.Active, cfg.Holiday.From, cfg.Holiday.To, cfg.Holiday.Reason,
		cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: upserting kitchen config: %v", ErrDatabaseError, err)
	}
	return nil
}
