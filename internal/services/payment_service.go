package services

import (
	"errors"
	"fmt"
	"time"

	"tiffin_khata_backend/internal/models"
	"tiffin_khata_backend/internal/repositories"

	"github.com/google/uuid"
)

// Custom Errors
var (
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrInvalidAmount          = errors.New("payment amount must be positive")
	ErrInvalidPaymentMode     = errors.New("invalid payment mode")
	ErrSlipRequired           = errors.New("UPI payments require a payment slip")
	ErrPaymentAlreadyReviewed = errors.New("payment has already been reviewed")
)

// --- Data Transfer Objects (DTOs) ---

// SubmitPaymentRequest is the student's payment claim. The slip URL is an
// opaque evidence reference produced by object storage upstream.
type SubmitPaymentRequest struct {
	StudentID   string  `json:"-"` // from auth context
	Amount      float64 `json:"amount" binding:"required"`
	SlipURL     *string `json:"slip_url"`
	PaymentMode string  `json:"payment_mode" binding:"required"`
}

// ReviewPaymentRequest identifies the reviewing admin.
type ReviewPaymentRequest struct {
	ReviewedBy string `json:"-"` // from auth context
}

// --- PaymentService Interface ---
type PaymentService interface {
	SubmitPayment(req SubmitPaymentRequest) (*models.Payment, error)
	AcceptPayment(paymentID string, req ReviewPaymentRequest) (*models.Payment, error)
	RejectPayment(paymentID string, req ReviewPaymentRequest) (*models.Payment, error)
	GetPaymentByID(paymentID string) (*models.Payment, error)
	GetPayments(filters models.PaymentFilters) ([]models.Payment, int, error)
	GetStudentPayments(studentID string) ([]models.Payment, error)
}

// --- paymentService Implementation ---
type paymentService struct {
	paymentRepo repositories.PaymentRepository
	ledgerRepo  repositories.LedgerRepository
	tx          repositories.TxRunner
	notifier    Notifier
}

// NewPaymentService creates a new instance of PaymentService.
func NewPaymentService(
	pr repositories.PaymentRepository,
	lr repositories.LedgerRepository,
	tx repositories.TxRunner,
	notifier Notifier,
) PaymentService {
	return &paymentService{
		paymentRepo: pr,
		ledgerRepo:  lr,
		tx:          tx,
		notifier:    notifier,
	}
}

func (s *paymentService) SubmitPayment(req SubmitPaymentRequest) (*models.Payment, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	switch req.PaymentMode {
	case models.PaymentModeUPI:
		if req.SlipURL == nil || *req.SlipURL == "" {
			return nil, ErrSlipRequired
		}
	case models.PaymentModeCash:
		// No evidence required for cash handed over in person.
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMode, req.PaymentMode)
	}

	payment := &models.Payment{
		ID:          uuid.NewString(),
		StudentID:   req.StudentID,
		Amount:      req.Amount,
		SlipURL:     req.SlipURL,
		PaymentMode: req.PaymentMode,
		Status:      models.PaymentStatusPending,
		CreatedAt:   time.Now(),
	}

	err := s.tx.RunInTx(func(ex repositories.SQLExecutor) error {
		return s.paymentRepo.CreatePayment(ex, payment)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment record: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyAsync(NotificationEvent{
			Role:    models.RoleAdmin,
			Type:    models.NotifyPaymentSubmitted,
			Title:   "Payment Submitted",
			Message: fmt.Sprintf("A payment of ₹%.0f was submitted for review.", payment.Amount),
			Data: map[string]interface{}{
				"payment_id": payment.ID,
				"student_id": payment.StudentID,
				"amount":     payment.Amount,
			},
		})
	}

	return payment, nil
}

// AcceptPayment transitions a pending payment to accepted and appends exactly
// one ledger credit, both inside one transaction. Re-accepting an accepted
// payment is a no-op and never double-credits.
func (s *paymentService) AcceptPayment(paymentID string, req ReviewPaymentRequest) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetPaymentByID(paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to fetch payment for review: %w", err)
	}

	if payment.Status == models.PaymentStatusAccepted {
		return payment, nil
	}
	if payment.Status != models.PaymentStatusPending {
		return nil, fmt.Errorf("%w: status is %s", ErrPaymentAlreadyReviewed, payment.Status)
	}

	reviewedAt := time.Now()
	reviewedBy := req.ReviewedBy

	var transitioned bool
	err = s.tx.RunInTx(func(ex repositories.SQLExecutor) error {
		ok, err := s.paymentRepo.MarkReviewed(ex, paymentID, models.PaymentStatusAccepted, &reviewedBy, reviewedAt)
		if err != nil {
			return err
		}
		transitioned = ok
		if !ok {
			return nil
		}
		_, err = s.ledgerRepo.AppendEntry(ex, &models.LedgerEntry{
			ID:        uuid.NewString(),
			StudentID: payment.StudentID,
			Type:      models.LedgerTypeCredit,
			Source:    models.LedgerSourcePayment,
			SourceID:  paymentID,
			Amount:    payment.Amount,
			CreatedAt: reviewedAt,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to accept payment %s: %w", paymentID, err)
	}

	if !transitioned {
		// Another reviewer got there first; report the current state.
		return s.reloadReviewed(paymentID)
	}

	payment.Status = models.PaymentStatusAccepted
	payment.ReviewedBy = &reviewedBy
	payment.ReviewedAt = &reviewedAt

	if s.notifier != nil {
		s.notifier.NotifyAsync(NotificationEvent{
			UserID:  payment.StudentID,
			Role:    models.RoleStudent,
			Type:    models.NotifyPaymentAccepted,
			Title:   "Payment Accepted",
			Message: fmt.Sprintf("Your payment of ₹%.0f was accepted.", payment.Amount),
			Data: map[string]interface{}{
				"payment_id": paymentID,
				"amount":     payment.Amount,
			},
		})
	}

	return payment, nil
}

// RejectPayment transitions a pending payment to rejected. No ledger effect.
func (s *paymentService) RejectPayment(paymentID string, req ReviewPaymentRequest) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetPaymentByID(paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to fetch payment for review: %w", err)
	}

	if payment.Status != models.PaymentStatusPending {
		return nil, fmt.Errorf("%w: status is %s", ErrPaymentAlreadyReviewed, payment.Status)
	}

	reviewedAt := time.Now()
	reviewedBy := req.ReviewedBy

	var transitioned bool
	err = s.tx.RunInTx(func(ex repositories.SQLExecutor) error {
		ok, err := s.paymentRepo.MarkReviewed(ex, paymentID, models.PaymentStatusRejected, &reviewedBy, reviewedAt)
		if err != nil {
			return err
		}
		transitioned = ok
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reject payment %s: %w", paymentID, err)
	}
	if !transitioned {
		return nil, ErrPaymentAlreadyReviewed
	}

	payment.Status = models.PaymentStatusRejected
	payment.ReviewedBy = &reviewedBy
	payment.ReviewedAt = &reviewedAt

	if s.notifier != nil {
		s.notifier.NotifyAsync(NotificationEvent{
			UserID:  payment.StudentID,
			Role:    models.RoleStudent,
			Type:    models.NotifyPaymentRejected,
			Title:   "Payment Rejected",
			Message: "Payment verification failed. Please contact admin.",
			Data: map[string]interface{}{
				"payment_id": paymentID,
			},
		})
	}

	return payment, nil
}

func (s *paymentService) reloadReviewed(paymentID string) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetPaymentByID(paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload payment %s: %w", paymentID, err)
	}
	return payment, nil
}

func (s *paymentService) GetPaymentByID(paymentID string) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetPaymentByID(paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment by ID: %w", err)
	}
	return payment, nil
}

func (s *paymentService) GetPayments(filters models.PaymentFilters) ([]models.Payment, int, error) {
	payments, totalCount, err := s.paymentRepo.GetPayments(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get payments: %w", err)
	}
	return payments, totalCount, nil
}

func (s *paymentService) GetStudentPayments(studentID string) ([]models.Payment, error) {
	payments, _, err := s.paymentRepo.GetPayments(models.PaymentFilters{StudentID: &studentID})
	if err != nil {
		return nil, fmt.Errorf("failed to get student payments: %w", err)
	}
	return payments, nil
}
