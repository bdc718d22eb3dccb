package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"tiffin_khata_backend/internal/models"
)

// LedgerRepository defines the interface for the append-only khata journal.
// There is deliberately no update or delete operation.
type LedgerRepository interface {
	// AppendEntry inserts one entry. The unique (source, source_id) pair
	// makes re-entry a silent no-op; the bool reports whether a row landed.
	AppendEntry(executor SQLExecutor, entry *models.LedgerEntry) (bool, error)
	GetEntries(studentID string) ([]models.LedgerEntry, error)
	GetEntriesForRange(studentID string, from, to time.Time) ([]models.LedgerEntry, error)
	GetBalance(studentID string) (models.BalanceSummary, error)
}

type ledgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new instance of LedgerRepository.
func NewLedgerRepository(db *sql.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) AppendEntry(executor SQLExecutor, entry *models.LedgerEntry) (bool, error) {
	if entry.Amount <= 0 {
		return false, fmt.Errorf("%w: ledger entry amount must be positive", ErrDatabaseError)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `INSERT INTO ledger_entries
	            (id, student_id, type, source, source_id, amount, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (source, source_id) DO NOTHING`
	result, err := executor.Exec(query,
		entry.ID, entry.StudentID, entry.Type, entry.Source, entry.SourceID,
		entry.Amount, entry.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("%w: appending ledger entry for %s/%s: %v", ErrDatabaseError, entry.Source, entry.SourceID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: getting rows affected for ledger append: %v", ErrDatabaseError, err)
	}
	return rowsAffected > 0, nil
}

func (r *ledgerRepository) GetEntries(studentID string) ([]models.LedgerEntry, error) {
	query := `SELECT id, student_id, type, source, source_id, amount, created_at
	          FROM ledger_entries
	          WHERE student_id = $1
	          ORDER BY created_at DESC`
	return r.queryEntries(query, studentID)
}

func (r *ledgerRepository) GetEntriesForRange(studentID string, from, to time.Time) ([]models.LedgerEntry, error) {
	query := `SELECT id, student_id, type, source, source_id, amount, created_at
	          FROM ledger_entries
	          WHERE student_id = $1 AND created_at >= $2 AND created_at < $3
	          ORDER BY created_at DESC`
	return r.queryEntries(query, studentID, from, to)
}

// GetBalance derives the balance from the full entry stream. There is no
// stored balance field anywhere to drift out of sync.
func (r *ledgerRepository) GetBalance(studentID string) (models.BalanceSummary, error) {
	var summary models.BalanceSummary
	query := `SELECT
	            COALESCE(SUM(CASE WHEN type = $1 THEN amount ELSE 0 END), 0) as credit,
	            COALESCE(SUM(CASE WHEN type = $2 THEN amount ELSE 0 END), 0) as debit
	          FROM ledger_entries
	          WHERE student_id = $3`
	err := r.db.QueryRow(query, models.LedgerTypeCredit, models.LedgerTypeDebit, studentID).
		Scan(&summary.Credit, &summary.Debit)
	if err != nil {
		return summary, fmt.Errorf("%w: computing balance for student %s: %v", ErrDatabaseError, studentID, err)
	}
	summary.Balance = summary.Credit - summary.Debit
	return summary, nil
}

func (r *ledgerRepository) queryEntries(query string, args ...interface{}) ([]models.LedgerEntry, error) {
	entries := []models.LedgerEntry{}
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying ledger entries: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.LedgerEntry
		err := rows.Scan(&e.ID, &e.StudentID, &e.Type, &e.Source, &e.SourceID, &e.Amount, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning ledger entry: %v", ErrDatabaseError, err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating ledger entry rows: %v", ErrDatabaseError, err)
	}
	return entries, nil
}
