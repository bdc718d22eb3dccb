package services

import (
	"errors"
	"testing"

	"tiffin_khata_backend/internal/models"
)

func TestAdminEventsFanOutToAllAdmins(t *testing.T) {
	repo := &memNotificationRepo{}
	svc := NewNotificationService(repo, nil, []string{"admin1", "admin2"}).(*notificationService)

	svc.dispatch(NotificationEvent{
		Role:    models.RoleAdmin,
		Type:    models.NotifyOrderPlaced,
		Title:   "New Order Placed",
		Message: "A new lunch order was placed.",
	})

	for _, adminID := range []string{"admin1", "admin2"} {
		feed, err := svc.GetFeed(adminID, 10)
		if err != nil {
			t.Fatalf("GetFeed(%s): %v", adminID, err)
		}
		if len(feed) != 1 || feed[0].Type != models.NotifyOrderPlaced {
			t.Errorf("feed for %s = %+v, want one order placed row", adminID, feed)
		}
	}
}

func TestStudentEventsGoToOneUser(t *testing.T) {
	repo := &memNotificationRepo{}
	svc := NewNotificationService(repo, nil, []string{"admin1"}).(*notificationService)

	svc.dispatch(NotificationEvent{
		UserID:  "s1",
		Role:    models.RoleStudent,
		Type:    models.NotifyOrderConfirmed,
		Title:   "Order Confirmed",
		Message: "Your order has been confirmed.",
	})

	feed, err := svc.GetFeed("s1", 10)
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("feed = %d rows, want 1", len(feed))
	}

	adminFeed, err := svc.GetFeed("admin1", 10)
	if err != nil {
		t.Fatalf("GetFeed admin: %v", err)
	}
	if len(adminFeed) != 0 {
		t.Errorf("admin feed = %d rows, want 0", len(adminFeed))
	}
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	repo := &memNotificationRepo{}
	svc := NewNotificationService(repo, nil, nil).(*notificationService)

	svc.dispatch(NotificationEvent{UserID: "s1", Role: models.RoleStudent, Type: models.NotifyOrderConfirmed})
	svc.dispatch(NotificationEvent{UserID: "s1", Role: models.RoleStudent, Type: models.NotifyPaymentAccepted})

	count, err := svc.UnreadCount("s1")
	if err != nil || count != 2 {
		t.Fatalf("UnreadCount = %d err=%v, want 2", count, err)
	}

	feed, err := svc.GetFeed("s1", 10)
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	if err := svc.MarkRead(feed[0].ID, "s1"); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	count, _ = svc.UnreadCount("s1")
	if count != 1 {
		t.Errorf("UnreadCount after MarkRead = %d, want 1", count)
	}

	// Another user cannot mark someone else's row.
	if err := svc.MarkRead(feed[1].ID, "s2"); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("cross-user MarkRead: got %v, want ErrNotificationNotFound", err)
	}

	if err := svc.MarkAllRead("s1"); err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	count, _ = svc.UnreadCount("s1")
	if count != 0 {
		t.Errorf("UnreadCount after MarkAllRead = %d, want 0", count)
	}
}
