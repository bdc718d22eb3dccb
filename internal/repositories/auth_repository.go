package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tiffin_khata_backend/internal/models"

	"github.com/lib/pq"
)

// AuthRepository defines the interface for user account operations.
type AuthRepository interface {
	CreateUser(executor SQLExecutor, user *models.User) error
	FindUserByPhone(phone string) (*models.User, error)
	FindUserByID(userID string) (*models.User, error)
	ListUsersByRole(role string) ([]models.User, error)
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) CreateUser(executor SQLExecutor, user *models.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	query := `INSERT INTO users (id, phone, full_name, role, password_hash, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := executor.Exec(query,
		user.ID, user.Phone, user.FullName, user.Role, user.PasswordHash,
		user.IsActive, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("%w (constraint: %s)", ErrDuplicateKey, pqErr.Constraint)
		}
		return fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *authRepository) FindUserByPhone(phone string) (*models.User, error) {
	query := `SELECT id, phone, full_name, role, password_hash, is_active, created_at, updated_at
	          FROM users
	          WHERE phone = $1`
	return r.scanUser(r.db.QueryRow(query, phone))
}

func (r *authRepository) FindUserByID(userID string) (*models.User, error) {
	query := `SELECT id, phone, full_name, role, password_hash, is_active, created_at, updated_at
	          FROM users
	          WHERE id = $1`
	return r.scanUser(r.db.QueryRow(query, userID))
}

func (r *authRepository) ListUsersByRole(role string) ([]models.User, error) {
	users := []models.User{}
	query := `SELECT id, phone, full_name, role, password_hash, is_active, created_at, updated_at
	          FROM users
	          WHERE role = $1
	          ORDER BY created_at`
	rows, err := r.db.Query(query, role)
	if err != nil {
		return nil, fmt.Errorf("%w: listing users by role %s: %v", ErrDatabaseError, role, err)
	}
	defer rows.Close()

	for rows.Next() {
		var u models.User
		err := rows.Scan(&u.ID, &u.Phone, &u.FullName, &u.Role, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning user: %v", ErrDatabaseError, err)
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating user rows: %v", ErrDatabaseError, err)
	}
	return users, nil
}

func (r *authRepository) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Phone, &u.FullName, &u.Role, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting user: %v", ErrDatabaseError, err)
	}
	return u, nil
}
