package services

import (
	"errors"
	"fmt"

	"tiffin_khata_backend/internal/models"
	"tiffin_khata_backend/internal/repositories"
)

var ErrStudentNotFound = errors.New("student not found")

// StudentSummary is the admin directory row: account details plus the
// student's current khata position.
type StudentSummary struct {
	ID       string  `json:"id"`
	Phone    string  `json:"phone"`
	FullName *string `json:"full_name,omitempty"`
	IsActive bool    `json:"is_active"`
	Balance  float64 `json:"balance"`
	Credit   float64 `json:"credit"`
	Debit    float64 `json:"debit"`
}

// StudentService is the admin-facing student directory.
type StudentService interface {
	ListStudents() ([]StudentSummary, error)
	GetStudentProfile(studentID string) (*StudentSummary, error)
}

type studentService struct {
	authRepo   repositories.AuthRepository
	ledgerRepo repositories.LedgerRepository
}

// NewStudentService creates a new instance of StudentService.
func NewStudentService(ar repositories.AuthRepository, lr repositories.LedgerRepository) StudentService {
	return &studentService{authRepo: ar, ledgerRepo: lr}
}

func (s *studentService) ListStudents() ([]StudentSummary, error) {
	users, err := s.authRepo.ListUsersByRole(models.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	summaries := make([]StudentSummary, 0, len(users))
	for _, u := range users {
		balance, err := s.ledgerRepo.GetBalance(u.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to compute balance for student %s: %w", u.ID, err)
		}
		summaries = append(summaries, summaryFromUser(&u, balance))
	}
	return summaries, nil
}

func (s *studentService) GetStudentProfile(studentID string) (*StudentSummary, error) {
	user, err := s.authRepo.FindUserByID(studentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if user.Role != models.RoleStudent {
		return nil, ErrStudentNotFound
	}

	balance, err := s.ledgerRepo.GetBalance(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balance for student %s: %w", user.ID, err)
	}
	summary := summaryFromUser(user, balance)
	return &summary, nil
}

func summaryFromUser(u *models.User, balance models.BalanceSummary) StudentSummary {
	return StudentSummary{
		ID:       u.ID,
		Phone:    u.Phone,
		FullName: u.FullName,
		IsActive: u.IsActive,
		Balance:  balance.Balance,
		Credit:   balance.Credit,
		Debit:    balance.Debit,
	}
}
