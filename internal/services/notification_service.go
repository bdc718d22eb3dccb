package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tiffin_khata_backend/internal/models"
	"tiffin_khata_backend/internal/queue"
	"tiffin_khata_backend/internal/repositories"
	"tiffin_khata_backend/pkg/utils"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationEvent is a lifecycle event addressed to a user or a role.
// Leaving UserID empty with Role "admin" fans out to every configured admin.
type NotificationEvent struct {
	UserID  string                 `json:"user_id"`
	Role    string                 `json:"role"`
	Type    string                 `json:"type"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

// Notifier is the fire-and-forget side channel used by the lifecycle
// services. Dispatch must never block or fail a lifecycle transition.
type Notifier interface {
	// NotifyAsync dispatches in a background goroutine. Failures are logged
	// and swallowed.
	NotifyAsync(event NotificationEvent)
}

// NotificationService is the Notifier plus the in-app feed queries.
type NotificationService interface {
	Notifier
	GetFeed(userID string, limit int) ([]models.Notification, error)
	UnreadCount(userID string) (int, error)
	MarkRead(notificationID string, userID string) error
	MarkAllRead(userID string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	broker           queue.Broker
	adminIDs         []string
}

// NewNotificationService creates a new NotificationService. adminIDs is the
// role-routing table: admin-addressed events fan out to these user ids.
// broker may be nil, in which case only the in-app feed row is written.
func NewNotificationService(nr repositories.NotificationRepository, broker queue.Broker, adminIDs []string) NotificationService {
	return &notificationService{
		notificationRepo: nr,
		broker:           broker,
		adminIDs:         adminIDs,
	}
}

func (s *notificationService) NotifyAsync(event NotificationEvent) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				utils.LogError(fmt.Errorf("panic in notification dispatch: %v", r), "NotifyAsync: recovered")
			}
		}()
		s.dispatch(event)
	}()
}

func (s *notificationService) dispatch(event NotificationEvent) {
	recipients := []string{event.UserID}
	if event.Role == models.RoleAdmin && event.UserID == "" {
		recipients = s.adminIDs
	}

	for _, userID := range recipients {
		if userID == "" {
			continue
		}
		n := &models.Notification{
			ID:        uuid.NewString(),
			UserID:    userID,
			Role:      event.Role,
			Type:      event.Type,
			Title:     event.Title,
			Message:   event.Message,
			Data:      event.Data,
			Read:      false,
			CreatedAt: time.Now(),
		}
		if err := s.notificationRepo.CreateNotification(n); err != nil {
			utils.LogError(err, "NotifyAsync: failed to store notification for user "+userID)
		}
	}

	if s.broker == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		utils.LogError(err, "NotifyAsync: failed to encode event")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.broker.Publish(ctx, queue.QueueNotifications, payload); err != nil {
		utils.LogError(err, "NotifyAsync: failed to publish event "+event.Type)
	}
}

func (s *notificationService) GetFeed(userID string, limit int) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.GetForUser(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	return notifications, nil
}

func (s *notificationService) UnreadCount(userID string) (int, error) {
	count, err := s.notificationRepo.CountUnread(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *notificationService) MarkRead(notificationID string, userID string) error {
	ok, err := s.notificationRepo.MarkRead(notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *notificationService) MarkAllRead(userID string) error {
	if err := s.notificationRepo.MarkAllRead(userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
