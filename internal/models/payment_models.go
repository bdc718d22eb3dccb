package models

import "time"

// Payment modes and statuses.
const (
	PaymentModeUPI  = "UPI"
	PaymentModeCash = "CASH"

	PaymentStatusPending  = "PENDING"
	PaymentStatusAccepted = "ACCEPTED"
	PaymentStatusRejected = "REJECTED"
)

// Payment is a student's claimed payment awaiting admin review. Money moves
// out of band; this record only carries the claimed amount and evidence.
type Payment struct {
	ID          string     `json:"id"`
	StudentID   string     `json:"student_id"`
	Amount      float64    `json:"amount"`
	SlipURL     *string    `json:"slip_url,omitempty"`
	PaymentMode string     `json:"payment_mode"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	ReviewedBy  *string    `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`

	StudentName *string `json:"student_name,omitempty"`
}

// PaymentFilters defines the available filters for querying payments.
type PaymentFilters struct {
	StudentID *string `form:"student_id"`
	Status    *string `form:"status"`
	Page      int     `form:"page"`
	PageSize  int     `form:"page_size"`
}
