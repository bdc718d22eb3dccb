package services

import (
	"errors"
	"fmt"
	"time"

	"tiffin_khata_backend/internal/models"
	"tiffin_khata_backend/internal/repositories"
)

var ErrInvalidMonthKey = errors.New("invalid month key, expected YYYY-MM")

// LedgerService is the read side of the khata journal. Entries are only ever
// written by the order and payment lifecycles; there is no public append.
type LedgerService interface {
	GetBalance(studentID string) (models.BalanceSummary, error)
	GetLedger(studentID string) ([]models.LedgerEntry, error)
	GetMonthlyStatement(studentID string, monthKey string) (*models.MonthlyStatement, error)
}

type ledgerService struct {
	ledgerRepo repositories.LedgerRepository
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(lr repositories.LedgerRepository) LedgerService {
	return &ledgerService{ledgerRepo: lr}
}

func (s *ledgerService) GetBalance(studentID string) (models.BalanceSummary, error) {
	summary, err := s.ledgerRepo.GetBalance(studentID)
	if err != nil {
		return models.BalanceSummary{}, fmt.Errorf("failed to compute balance: %w", err)
	}
	return summary, nil
}

func (s *ledgerService) GetLedger(studentID string) ([]models.LedgerEntry, error) {
	entries, err := s.ledgerRepo.GetEntries(studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries: %w", err)
	}
	return entries, nil
}

// GetMonthlyStatement builds the khata bill view for one calendar month.
func (s *ledgerService) GetMonthlyStatement(studentID string, monthKey string) (*models.MonthlyStatement, error) {
	monthStart, err := time.Parse("2006-01", monthKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMonthKey, monthKey)
	}
	monthEnd := monthStart.AddDate(0, 1, 0)

	entries, err := s.ledgerRepo.GetEntriesForRange(studentID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries for %s: %w", monthKey, err)
	}

	statement := &models.MonthlyStatement{
		Month:   monthKey,
		Entries: entries,
	}
	for _, entry := range entries {
		switch entry.Type {
		case models.LedgerTypeCredit:
			statement.TotalCredit += entry.Amount
		case models.LedgerTypeDebit:
			statement.TotalDebit += entry.Amount
		}
	}
	statement.Net = statement.TotalCredit - statement.TotalDebit
	return statement, nil
}
