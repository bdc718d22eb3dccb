package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tiffin_khata_backend/internal/models"
)

// StatsRepository maintains the best-effort daily counters and serves the
// dashboard point query from the authoritative tables.
type StatsRepository interface {
	IncrementTotalOrders(dateKey string) error
	// AddStudentForDay records the student in the day's membership set and
	// bumps students_today only on first sight. Returns whether it was new.
	AddStudentForDay(dateKey string, studentID string) (bool, error)
	GetDailyStats(dateKey string) (*models.DailyStats, error)
	OrderCountsForDate(dateKey string) (total int, pending int, distinctStudents int, err error)
}

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new instance of StatsRepository.
func NewStatsRepository(db *sql.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) IncrementTotalOrders(dateKey string) error {
	query := `INSERT INTO daily_stats (date, total_orders, students_today, created_at)
	          VALUES ($1, 1, 0, $2)
	          ON CONFLICT (date) DO UPDATE SET total_orders = daily_stats.total_orders + 1`
	_, err := r.db.Exec(query, dateKey, time.Now())
	if err != nil {
		return fmt.Errorf("%w: incrementing total orders for %s: %v", ErrDatabaseError, dateKey, err)
	}
	return nil
}

func (r *statsRepository) AddStudentForDay(dateKey string, studentID string) (bool, error) {
	result, err := r.db.Exec(
		`INSERT INTO daily_stat_students (date, student_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		dateKey, studentID,
	)
	if err != nil {
		return false, fmt.Errorf("%w: recording student for %s: %v", ErrDatabaseError, dateKey, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: getting rows affected for student membership: %v", ErrDatabaseError, err)
	}
	if rowsAffected == 0 {
		return false, nil
	}

	query := `INSERT INTO daily_stats (date, total_orders, students_today, created_at)
	          VALUES ($1, 0, 1, $2)
	          ON CONFLICT (date) DO UPDATE SET students_today = daily_stats.students_today + 1`
	if _, err := r.db.Exec(query, dateKey, time.Now()); err != nil {
		return true, fmt.Errorf("%w: incrementing students today for %s: %v", ErrDatabaseError, dateKey, err)
	}
	return true, nil
}

func (r *statsRepository) GetDailyStats(dateKey string) (*models.DailyStats, error) {
	stats := &models.DailyStats{Date: dateKey}
	query := `SELECT date, total_orders, students_today, created_at
	          FROM daily_stats
	          WHERE date = $1`
	err := r.db.QueryRow(query, dateKey).Scan(&stats.Date, &stats.TotalOrders, &stats.StudentsToday, &stats.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No counter row yet means zero activity, not an error.
			return stats, nil
		}
		return nil, fmt.Errorf("%w: getting daily stats for %s: %v", ErrDatabaseError, dateKey, err)
	}
	return stats, nil
}

func (r *statsRepository) OrderCountsForDate(dateKey string) (int, int, int, error) {
	var total, pending, distinctStudents int
	query := `SELECT COUNT(*),
	                 COUNT(*) FILTER (WHERE status = $2),
	                 COUNT(DISTINCT student_id)
	          FROM orders
	          WHERE date = $1`
	err := r.db.QueryRow(query, dateKey, models.OrderStatusPending).Scan(&total, &pending, &distinctStudents)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: counting orders for %s: %v", ErrDatabaseError, dateKey, err)
	}
	return total, pending, distinctStudents, nil
}
