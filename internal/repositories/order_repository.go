package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"tiffin_khata_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// OrderRepository defines the interface for order-related database operations.
type OrderRepository interface {
	CreateOrder(executor SQLExecutor, order *models.Order) error
	GetOrderByID(orderID string) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error) // orders, total count, error
	// MarkConfirmed performs the atomic PENDING -> CONFIRMED transition.
	// Returns false when no pending row matched (missing or already terminal).
	MarkConfirmed(executor SQLExecutor, orderID string, amount float64, confirmedAt time.Time) (bool, error)
	GetConfirmedForMeal(dateKey string, mealType string) ([]models.Order, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) error {
	query := `INSERT INTO orders
	            (id, student_id, date, meal_type, item_label, item_type,
	             unit_price, quantity, extras, status, calculated_amount, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}

	extrasRaw, err := json.Marshal(order.Extras)
	if err != nil {
		return fmt.Errorf("%w: encoding order extras: %v", ErrDatabaseError, err)
	}

	_, err = executor.Exec(query,
		order.ID, order.StudentID, order.Date, order.MealType, order.ItemLabel, order.ItemType,
		order.UnitPrice, order.Quantity, extrasRaw, order.Status, order.CalculatedAmount, order.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: creating order (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *orderRepository) GetOrderByID(orderID string) (*models.Order, error) {
	query := `SELECT id, student_id, date, meal_type, item_label, item_type,
	                 unit_price, quantity, extras, status, calculated_amount,
	                 created_at, confirmed_at
	          FROM orders
	          WHERE id = $1`
	order, err := scanOrder(r.db.QueryRow(query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %s: %v", ErrDatabaseError, orderID, err)
	}
	return order, nil
}

func (r *orderRepository) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders := []models.Order{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT
            o.id, o.student_id, o.date, o.meal_type, o.item_label, o.item_type,
            o.unit_price, o.quantity, o.extras, o.status, o.calculated_amount,
            o.created_at, o.confirmed_at,
            u.full_name as student_name,
            COUNT(*) OVER() as total_count
        FROM orders o
        LEFT JOIN users u ON o.student_id = u.id
    `)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.StudentID != nil {
		conditions = append(conditions, fmt.Sprintf("o.student_id = $%d", argCounter))
		args = append(args, *filters.StudentID)
		argCounter++
	}
	if filters.Date != nil && *filters.Date != "" {
		conditions = append(conditions, fmt.Sprintf("o.date = $%d", argCounter))
		args = append(args, *filters.Date)
		argCounter++
	}
	if filters.MealType != nil && *filters.MealType != "" {
		conditions = append(conditions, fmt.Sprintf("o.meal_type = $%d", argCounter))
		args = append(args, strings.ToUpper(*filters.MealType))
		argCounter++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.Since != nil {
		conditions = append(conditions, fmt.Sprintf("o.created_at >= $%d", argCounter))
		args = append(args, *filters.Since)
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY o.created_at DESC")

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
		return nil, 0, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		var extrasRaw []byte
		var studentName sql.NullString

		err := rows.Scan(
			&o.ID, &o.StudentID, &o.Date, &o.MealType, &o.ItemLabel, &o.ItemType,
			&o.UnitPrice, &o.Quantity, &extrasRaw, &o.Status, &o.CalculatedAmount,
			&o.CreatedAt, &o.ConfirmedAt,
			&studentName,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		if err := json.Unmarshal(extrasRaw, &o.Extras); err != nil {
			return nil, 0, fmt.Errorf("%w: decoding order extras: %v", ErrDatabaseError, err)
		}
		if studentName.Valid {
			name := studentName.String
			o.StudentName = &name
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, totalCount, nil
}

func (r *orderRepository) MarkConfirmed(executor SQLExecutor, orderID string, amount float64, confirmedAt time.Time) (bool, error) {
	query := `UPDATE orders
	          SET status = $1, calculated_amount = $2, confirmed_at = $3
	          WHERE id = $4 AND status = $5`
	result, err := executor.Exec(query, models.OrderStatusConfirmed, amount, confirmedAt, orderID, models.OrderStatusPending)
	if err != nil {
		return false, fmt.Errorf("%w: confirming order ID %s: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: getting rows affected for order confirm ID %s: %v", ErrDatabaseError, orderID, err)
	}
	return rowsAffected > 0, nil
}

func (r *orderRepository) GetConfirmedForMeal(dateKey string, mealType string) ([]models.Order, error) {
	orders := []models.Order{}
	query := `SELECT id, student_id, date, meal_type, item_label, item_type,
	                 unit_price, quantity, extras, status, calculated_amount,
	                 created_at, confirmed_at
	          FROM orders
	          WHERE date = $1 AND meal_type = $2 AND status = $3
	          ORDER BY created_at`
	rows, err := r.db.Query(query, dateKey, strings.ToUpper(mealType), models.OrderStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("%w: querying confirmed orders for %s %s: %v", ErrDatabaseError, dateKey, mealType, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		var extrasRaw []byte
		err := rows.Scan(
			&o.ID, &o.StudentID, &o.Date, &o.MealType, &o.ItemLabel, &o.ItemType,
			&o.UnitPrice, &o.Quantity, &extrasRaw, &o.Status, &o.CalculatedAmount,
			&o.CreatedAt, &o.ConfirmedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning confirmed order: %v", ErrDatabaseError, err)
		}
		if err := json.Unmarshal(extrasRaw, &o.Extras); err != nil {
			return nil, fmt.Errorf("%w: decoding order extras: %v", ErrDatabaseError, err)
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating confirmed order rows: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row scannable) (*models.Order, error) {
	var o models.Order
	var extrasRaw []byte
	err := row.Scan(
		&o.ID, &o.StudentID, &o.Date, &o.MealType, &o.ItemLabel, &o.ItemType,
		&o.UnitPrice, &o.Quantity, &extrasRaw, &o.Status, &o.CalculatedAmount,
		&o.CreatedAt, &o.ConfirmedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(extrasRaw, &o.Extras); err != nil {
		return nil, err
	}
	return &o, nil
}
