package services

import (
	"fmt"

	"tiffin_khata_backend/internal/models"
	"tiffin_khata_backend/internal/repositories"
	"tiffin_khata_backend/pkg/utils"
)

// StatsService maintains the best-effort daily counters. Counter failures are
// logged and swallowed; they must never fail an order or payment transition.
type StatsService interface {
	RecordOrderPlaced(dateKey string, studentID string)
	GetDailyStats(dateKey string) (*models.DailyStats, error)
	GetDashboardSnapshot() (*models.DashboardSnapshot, error)
}

type statsService struct {
	statsRepo   repositories.StatsRepository
	paymentRepo repositories.PaymentRepository
	clock       *MealClock
}

// NewStatsService creates a new instance of StatsService.
func NewStatsService(sr repositories.StatsRepository, pr repositories.PaymentRepository, clock *MealClock) StatsService {
	return &statsService{statsRepo: sr, paymentRepo: pr, clock: clock}
}

func (s *statsService) RecordOrderPlaced(dateKey string, studentID string) {
	if err := s.statsRepo.IncrementTotalOrders(dateKey); err != nil {
		utils.LogError(err, "RecordOrderPlaced: failed to increment total orders for "+dateKey)
	}
	if _, err := s.statsRepo.AddStudentForDay(dateKey, studentID); err != nil {
		utils.LogError(err, "RecordOrderPlaced: failed to record student for "+dateKey)
	}
}

func (s *statsService) GetDailyStats(dateKey string) (*models.DailyStats, error) {
	stats, err := s.statsRepo.GetDailyStats(dateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}
	return stats, nil
}

// GetDashboardSnapshot recomputes today's numbers from the authoritative
// tables; the incremental counters are not trusted for the dashboard.
func (s *statsService) GetDashboardSnapshot() (*models.DashboardSnapshot, error) {
	today := s.clock.TodayKey()

	total, pending, students, err := s.statsRepo.OrderCountsForDate(today)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders for dashboard: %w", err)
	}
	pendingPayments, err := s.paymentRepo.CountPending()
	if err != nil {
		return nil, fmt.Errorf("failed to count pending payments for dashboard: %w", err)
	}

	return &models.DashboardSnapshot{
		Date:            today,
		TotalOrders:     total,
		PendingOrders:   pending,
		StudentsToday:   students,
		PendingPayments: pendingPayments,
	}, nil
}
