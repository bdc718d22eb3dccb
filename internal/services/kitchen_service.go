package services

import (
	"fmt"

	"tiffin_khata_backend/internal/models"
	"tiffin_khata_backend/internal/repositories"
)

// --- Data Transfer Objects (DTOs) ---

// UpdateKitchenConfigRequest is the admin settings payload.
type UpdateKitchenConfigRequest struct {
	OpenTime  string               `json:"open_time" binding:"required"`
	CloseTime string               `json:"close_time" binding:"required"`
	Holiday   models.HolidayConfig `json:"holiday"`
}

// KitchenService manages the kitchen settings document.
type KitchenService interface {
	GetConfig() (*models.KitchenConfig, error)
	UpdateConfig(req UpdateKitchenConfigRequest) (*models.KitchenConfig, error)
	// IsHoliday reports whether the kitchen is closed for the given date key,
	// with the announced reason when there is one.
	IsHoliday(dateKey string) (bool, string, error)
}

type kitchenService struct {
	kitchenRepo repositories.KitchenRepository
	tx          repositories.TxRunner
}

// NewKitchenService creates a new instance of KitchenService.
func NewKitchenService(kr repositories.KitchenRepository, tx repositories.TxRunner) KitchenService {
	return &kitchenService{kitchenRepo: kr, tx: tx}
}

func (s *kitchenService) GetConfig() (*models.KitchenConfig, error) {
	cfg, err := s.kitchenRepo.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get kitchen config: %w", err)
	}
	return cfg, nil
}

func (s *kitchenService) UpdateConfig(req UpdateKitchenConfigRequest) (*models.KitchenConfig, error) {
	cfg := &models.KitchenConfig{
		OpenTime:  req.OpenTime,
		CloseTime: req.CloseTime,
		Holiday:   req.Holiday,
	}
	err := s.tx.RunInTx(func(ex repositories.SQLExecutor) error {
		return s.kitchenRepo.UpsertConfig(ex, cfg)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update kitchen config: %w", err)
	}
	return s.GetConfig()
}

func (s *kitchenService) IsHoliday(dateKey string) (bool, string, error) {
	cfg, err := s.kitchenRepo.GetConfig()
	if err != nil {
		return false, "", fmt.Errorf("failed to check holiday: %w", err)
	}
	if !cfg.Holiday.Active {
		return false, "", nil
	}
	// Date keys are ISO formatted, so string comparison is date comparison.
	if cfg.Holiday.From != nil && dateKey < *cfg.Holiday.From {
		return false, "", nil
	}
	if cfg.Holiday.To != nil && dateKey > *cfg.Holiday.To {
		return false, "", nil
	}
	return true, cfg.Holiday.Reason, nil
}
