package models

import "time"

// DailyStats is the incrementally maintained per-date counter document.
// It is a dashboard convenience; orders and ledger stay the source of truth.
type DailyStats struct {
	Date          string    `json:"date"`
	TotalOrders   int       `json:"total_orders"`
	StudentsToday int       `json:"students_today"`
	CreatedAt     time.Time `json:"created_at"`
}

// DashboardSnapshot is the admin dashboard point query, recomputed from the
// authoritative tables rather than the counters.
type DashboardSnapshot struct {
	Date            string `json:"date"`
	TotalOrders     int    `json:"total_orders"`
	PendingOrders   int    `json:"pending_orders"`
	StudentsToday   int    `json:"students_today"`
	PendingPayments int    `json:"pending_payments"`
}
