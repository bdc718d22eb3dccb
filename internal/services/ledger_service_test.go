package services

import (
	"errors"
	"testing"
	"time"

	"tiffin_khata_backend/internal/models"
)

func appendEntry(t *testing.T, repo *memLedgerRepo, entryType, source, sourceID string, amount float64, at time.Time) {
	t.Helper()
	ok, err := repo.AppendEntry(nil, &models.LedgerEntry{
		ID:        sourceID + "-entry",
		StudentID: "s1",
		Type:      entryType,
		Source:    source,
		SourceID:  sourceID,
		Amount:    amount,
		CreatedAt: at,
	})
	if err != nil || !ok {
		t.Fatalf("AppendEntry(%s %s): ok=%v err=%v", entryType, sourceID, ok, err)
	}
}

func TestBalanceIsDerivedFromEntries(t *testing.T) {
	repo := newMemLedgerRepo()
	svc := NewLedgerService(repo)

	// A fresh khata starts at zero.
	balance, err := svc.GetBalance("s1")
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance.Balance != 0 || balance.Credit != 0 || balance.Debit != 0 {
		t.Errorf("fresh balance = %+v, want zeros", balance)
	}

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	appendEntry(t, repo, models.LedgerTypeCredit, models.LedgerSourcePayment, "p1", 500, now)

	balance, err = svc.GetBalance("s1")
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance.Balance != 500 {
		t.Errorf("after credit balance = %v, want 500", balance.Balance)
	}

	appendEntry(t, repo, models.LedgerTypeDebit, models.LedgerSourceOrder, "o1", 80, now.Add(time.Hour))

	balance, err = svc.GetBalance("s1")
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if balance.Credit != 500 || balance.Debit != 80 || balance.Balance != 420 {
		t.Errorf("balance = %+v, want credit 500 debit 80 balance 420", balance)
	}
}

func TestGetLedgerNewestFirst(t *testing.T) {
	repo := newMemLedgerRepo()
	svc := NewLedgerService(repo)

	base := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	appendEntry(t, repo, models.LedgerTypeCredit, models.LedgerSourcePayment, "p1", 500, base)
	appendEntry(t, repo, models.LedgerTypeDebit, models.LedgerSourceOrder, "o1", 80, base.Add(time.Hour))

	entries, err := svc.GetLedger("s1")
	if err != nil {
		t.Fatalf("GetLedger: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].SourceID != "o1" || entries[1].SourceID != "p1" {
		t.Errorf("order = %s,%s, want o1,p1 (newest first)", entries[0].SourceID, entries[1].SourceID)
	}
}

func TestMonthlyStatement(t *testing.T) {
	repo := newMemLedgerRepo()
	svc := NewLedgerService(repo)

	march := time.Date(2026, time.March, 5, 12, 0, 0, 0, time.UTC)
	april := time.Date(2026, time.April, 2, 12, 0, 0, 0, time.UTC)
	appendEntry(t, repo, models.LedgerTypeCredit, models.LedgerSourcePayment, "p1", 500, march)
	appendEntry(t, repo, models.LedgerTypeDebit, models.LedgerSourceOrder, "o1", 80, march.Add(time.Hour))
	appendEntry(t, repo, models.LedgerTypeDebit, models.LedgerSourceOrder, "o2", 120, april)

	statement, err := svc.GetMonthlyStatement("s1", "2026-03")
	if err != nil {
		t.Fatalf("GetMonthlyStatement: %v", err)
	}
	if len(statement.Entries) != 2 {
		t.Fatalf("march entries = %d, want 2", len(statement.Entries))
	}
	if statement.TotalCredit != 500 || statement.TotalDebit != 80 || statement.Net != 420 {
		t.Errorf("statement = %+v, want credit 500 debit 80 net 420", statement)
	}

	if _, err := svc.GetMonthlyStatement("s1", "March 2026"); !errors.Is(err, ErrInvalidMonthKey) {
		t.Errorf("bad month key: got %v, want ErrInvalidMonthKey", err)
	}
}

func TestDuplicateSourceIsSilentlyDropped(t *testing.T) {
	repo := newMemLedgerRepo()

	now := time.Now()
	appendEntry(t, repo, models.LedgerTypeDebit, models.LedgerSourceOrder, "o1", 80, now)

	ok, err := repo.AppendEntry(nil, &models.LedgerEntry{
		ID: "dup", StudentID: "s1",
		Type: models.LedgerTypeDebit, Source: models.LedgerSourceOrder, SourceID: "o1",
		Amount: 80, CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("AppendEntry duplicate: %v", err)
	}
	if ok {
		t.Error("duplicate (source, source_id) must not land a second row")
	}
	if repo.count() != 1 {
		t.Errorf("entries = %d, want 1", repo.count())
	}
}
