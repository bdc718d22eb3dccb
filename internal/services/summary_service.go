package services

import (
	"fmt"
	"strings"

	"tiffin_khata_backend/internal/models"
	"tiffin_khata_backend/internal/repositories"
)

// CookingSummary aggregates the kitchen's prep list for one meal. Component
// counts follow the dabba recipe: a half dabba is 4 roti + 1 sabzi; a full
// dabba adds dal and rice.
type CookingSummary struct {
	Date     string `json:"date"`
	MealSlot string `json:"meal_slot"`

	HalfDabba int `json:"half_dabba"`
	FullDabba int `json:"full_dabba"`

	Roti  int `json:"roti"`
	Sabzi int `json:"sabzi"`
	Dal   int `json:"dal"`
	Rice  int `json:"rice"`

	ExtraRoti int `json:"extra_roti"`

	OtherItems map[string]int `json:"other_items"`
}

// SummaryService builds the admin cooking summary from confirmed orders.
type SummaryService interface {
	// GetCookingSummaryForCurrentMeal returns nil when the kitchen is closed.
	GetCookingSummaryForCurrentMeal() (*CookingSummary, error)
}

type summaryService struct {
	orderRepo repositories.OrderRepository
	clock     *MealClock
}

// NewSummaryService creates a new instance of SummaryService.
func NewSummaryService(or repositories.OrderRepository, clock *MealClock) SummaryService {
	return &summaryService{orderRepo: or, clock: clock}
}

func (s *summaryService) GetCookingSummaryForCurrentMeal() (*CookingSummary, error) {
	slot := s.clock.EffectiveMealSlot()
	if slot == "" {
		return nil, nil
	}
	dateKey := s.clock.EffectiveMenuDateKey()

	orders, err := s.orderRepo.GetConfirmedForMeal(dateKey, slot)
	if err != nil {
		return nil, fmt.Errorf("failed to load confirmed orders for summary: %w", err)
	}

	summary := &CookingSummary{
		Date:       dateKey,
		MealSlot:   slot,
		OtherItems: map[string]int{},
	}

	for _, order := range orders {
		qty := order.Quantity

		switch order.ItemLabel {
		case labelHalfDabba:
			summary.HalfDabba += qty
			summary.Roti += 4 * qty
			summary.Sabzi += qty
		case labelFullDabba:
			summary.FullDabba += qty
			summary.Roti += 4 * qty
			summary.Sabzi += qty
			summary.Dal += qty
			summary.Rice += qty
		}

		for _, extra := range order.Extras {
			if strings.EqualFold(extra.Name, "roti") {
				summary.ExtraRoti += extra.Quantity
				summary.Roti += extra.Quantity
			}
		}

		if order.ItemType == models.MenuTypeOther {
			summary.OtherItems[order.ItemLabel] += qty
		}
	}

	return summary, nil
}
