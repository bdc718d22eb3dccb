package models

import "time"

// Notification event types produced by the lifecycle engine.
const (
	NotifyOrderPlaced      = "ORDER_PLACED"
	NotifyOrderConfirmed   = "ORDER_CONFIRMED"
	NotifyPaymentSubmitted = "PAYMENT_SUBMITTED"
	NotifyPaymentAccepted  = "PAYMENT_ACCEPTED"
	NotifyPaymentRejected  = "PAYMENT_REJECTED"
)

// Notification is one in-app feed row.
type Notification struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Role      string                 `json:"role"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data"`
	Read      bool                   `json:"read"`
	CreatedAt time.Time              `json:"created_at"`
}
