package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tiffin_khata_backend/internal/models"
)

// PaymentRepository defines the interface for payment-related database operations.
type PaymentRepository interface {
	CreatePayment(executor SQLExecutor, payment *models.Payment) error
	GetPaymentByID(paymentID string) (*models.Payment, error)
	GetPayments(filters models.PaymentFilters) ([]models.Payment, int, error)
	// MarkReviewed performs the atomic PENDING -> ACCEPTED/REJECTED transition.
	// Returns false when no pending row matched (missing or already terminal).
	MarkReviewed(executor SQLExecutor, paymentID string, status string, reviewedBy *string, reviewedAt time.Time) (bool, error)
	CountPending() (int, error)
}

type paymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository.
func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreatePayment(executor SQLExecutor, payment *models.Payment) error {
	query := `INSERT INTO payments
	            (id, student_id, amount, slip_url, payment_mode, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}

	_, err := executor.Exec(query,
		payment.ID, payment.StudentID, payment.Amount, payment.SlipURL,
		payment.PaymentMode, payment.Status, payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: creating payment: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *paymentRepository) GetPaymentByID(paymentID string) (*models.Payment, error) {
	p := &models.Payment{}
	query := `SELECT id, student_id, amount, slip_url, payment_mode, status,
	                 created_at, reviewed_by, reviewed_at
	          FROM payments
	          WHERE id = $1`
	err := r.db.QueryRow(query, paymentID).Scan(
		&p.ID, &p.StudentID, &p.Amount, &p.SlipURL, &p.PaymentMode, &p.Status,
		&p.CreatedAt, &p.ReviewedBy, &p.ReviewedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting payment by ID %s: %v", ErrDatabaseError, paymentID, err)
	}
	return p, nil
}

func (r *paymentRepository) GetPayments(filters models.PaymentFilters) ([]models.Payment, int, error) {
	payments := []models.Payment{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT
            p.id, p.student_id, p.amount, p.slip_url, p.payment_mode, p.status,
            p.created_at, p.reviewed_by, p.reviewed_at,
            u.full_name as student_name,
            COUNT(*) OVER() as total_count
        FROM payments p
        LEFT JOIN users u ON p.student_id = u.id
    `)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.StudentID != nil {
		conditions = append(conditions, fmt.Sprintf("p.student_id = $%d", argCounter))
		args = append(args, *filters.StudentID)
		argCounter++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY p.created_at DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.PageSize)
		argCounter++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying payments: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Payment
		var studentName sql.NullString

		err := rows.Scan(
			&p.ID, &p.StudentID, &p.Amount, &p.SlipURL, &p.PaymentMode, &p.Status,
			&p.CreatedAt, &p.ReviewedBy, &p.ReviewedAt,
			&studentName,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning payment: %v", ErrDatabaseError, err)
		}
		if studentName.Valid {
			name := studentName.String
			p.StudentName = &name
		}
		payments = append(payments, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating payment rows: %v", ErrDatabaseError, err)
	}
	return payments, totalCount, nil
}

func (r *paymentRepository) MarkReviewed(executor SQLExecutor, paymentID string, status string, reviewedBy *string, reviewedAt time.Time) (bool, error) {
	query := `UPDATE payments
	          SET status = $1, reviewed_by = $2, reviewed_at = $3
	          WHERE id = $4 AND status = $5`
	result, err := executor.Exec(query, status, reviewedBy, reviewedAt, paymentID, models.PaymentStatusPending)
	if err != nil {
		return false, fmt.Errorf("%w: reviewing payment ID %s: %v", ErrDatabaseError, paymentID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: getting rows affected for payment review ID %s: %v", ErrDatabaseError, paymentID, err)
	}
	return rowsAffected > 0, nil
}

func (r *paymentRepository) CountPending() (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM payments WHERE status = $1`
	if err := r.db.QueryRow(query, models.PaymentStatusPending).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting pending payments: %v", ErrDatabaseError, err)
	}
	return count, nil
}
