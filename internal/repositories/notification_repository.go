package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"tiffin_khata_backend/internal/models"
)

// NotificationRepository stores and reads the in-app notification feed.
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetForUser(userID string, limit int) ([]models.Notification, error)
	CountUnread(userID string) (int, error)
	MarkRead(notificationID string, userID string) (bool, error)
	MarkAllRead(userID string) error
}

type notificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new instance of NotificationRepository.
func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateNotification(n *models.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.Data == nil {
		n.Data = map[string]interface{}{}
	}
	dataRaw, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("%w: encoding notification data: %v", ErrDatabaseError, err)
	}

	query := `INSERT INTO notifications
	            (id, user_id, role, type, title, message, data, read, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.db.Exec(query,
		n.ID, n.UserID, n.Role, n.Type, n.Title, n.Message, dataRaw, n.Read, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: creating notification: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *notificationRepository) GetForUser(userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	notifications := []models.Notification{}
	query := `SELECT id, user_id, role, type, title, message, data, read, created_at
	          FROM notifications
	          WHERE user_id = $1
	          ORDER BY created_at DESC
	          LIMIT $2`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: querying notifications for user %s: %v", ErrDatabaseError, userID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var n models.Notification
		var dataRaw []byte
		err := rows.Scan(&n.ID, &n.UserID, &n.Role, &n.Type, &n.Title, &n.Message, &dataRaw, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning notification: %v", ErrDatabaseError, err)
		}
		if err := json.Unmarshal(dataRaw, &n.Data); err != nil {
			return nil, fmt.Errorf("%w: decoding notification data: %v", ErrDatabaseError, err)
		}
		notifications = append(notifications, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating notification rows: %v", ErrDatabaseError, err)
	}
	return notifications, nil
}

func (r *notificationRepository) CountUnread(userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`
	if err := r.db.QueryRow(query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting unread notifications for user %s: %v", ErrDatabaseError, userID, err)
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(notificationID string, userID string) (bool, error) {
	result, err := r.db.Exec(
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`,
		notificationID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("%w: marking notification %s read: %v", ErrDatabaseError, notificationID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: getting rows affected for notification read: %v", ErrDatabaseError, err)
	}
	return rowsAffected > 0, nil
}

func (r *notificationRepository) MarkAllRead(userID string) error {
	_, err := r.db.Exec(`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	if err != nil {
		return fmt.Errorf("%w: marking all notifications read for user %s: %v", ErrDatabaseError, userID, err)
	}
	return nil
}
