package models

import "time"

// Ledger entry types and sources.
const (
	LedgerTypeCredit = "CREDIT"
	LedgerTypeDebit  = "DEBIT"

	LedgerSourceOrder   = "ORDER"
	LedgerSourcePayment = "PAYMENT"
)

// LedgerEntry is one line of the append-only khata journal. Entries are
// never updated or deleted; the balance is always derived from them.
type LedgerEntry struct {
	ID        string    `json:"id"`
	StudentID string    `json:"student_id"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	SourceID  string    `json:"source_id"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// BalanceSummary is the derived balance for one student.
type BalanceSummary struct {
	Credit  float64 `json:"credit"`
	Debit   float64 `json:"debit"`
	Balance float64 `json:"balance"`
}

// MonthlyStatement is the khata view for one calendar month.
type MonthlyStatement struct {
	Month       string        `json:"month"` // YYYY-MM
	Entries     []LedgerEntry `json:"entries"`
	TotalCredit float64       `json:"total_credit"`
	TotalDebit  float64       `json:"total_debit"`
	Net         float64       `json:"net"`
}
