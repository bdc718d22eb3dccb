package services

import (
	"errors"
	"sync"
	"testing"

	"tiffin_khata_backend/internal/models"
)

func newPaymentFixture() (PaymentService, *memPaymentRepo, *memLedgerRepo, *recorderNotifier) {
	payments := newMemPaymentRepo()
	ledger := newMemLedgerRepo()
	notifier := &recorderNotifier{}
	svc := NewPaymentService(payments, ledger, memTxRunner{}, notifier)
	return svc, payments, ledger, notifier
}

func strPtr(s string) *string { return &s }

func TestSubmitPaymentValidation(t *testing.T) {
	svc, _, _, _ := newPaymentFixture()

	_, err := svc.SubmitPayment(SubmitPaymentRequest{StudentID: "s1", Amount: 0, PaymentMode: models.PaymentModeCash})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount: got %v, want ErrInvalidAmount", err)
	}

	_, err = svc.SubmitPayment(SubmitPaymentRequest{StudentID: "s1", Amount: -50, PaymentMode: models.PaymentModeCash})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount: got %v, want ErrInvalidAmount", err)
	}

	_, err = svc.SubmitPayment(SubmitPaymentRequest{StudentID: "s1", Amount: 500, PaymentMode: models.PaymentModeUPI})
	if !errors.Is(err, ErrSlipRequired) {
		t.Errorf("UPI without slip: got %v, want ErrSlipRequired", err)
	}

	_, err = svc.SubmitPayment(SubmitPaymentRequest{StudentID: "s1", Amount: 500, PaymentMode: "CRYPTO"})
	if !errors.Is(err, ErrInvalidPaymentMode) {
		t.Errorf("bad mode: got %v, want ErrInvalidPaymentMode", err)
	}
}

func TestSubmitPaymentStartsPending(t *testing.T) {
	svc, _, ledger, notifier := newPaymentFixture()

	payment, err := svc.SubmitPayment(SubmitPaymentRequest{
		StudentID: "s1", Amount: 500, SlipURL: strPtr("slips/abc.jpg"), PaymentMode: models.PaymentModeUPI,
	})
	if err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}
	if payment.Status != models.PaymentStatusPending {
		t.Errorf("status = %q, want PENDING", payment.Status)
	}
	if ledger.count() != 0 {
		t.Error("submitting a payment must not touch the ledger")
	}

	events := notifier.recorded()
	if len(events) != 1 || events[0].Type != models.NotifyPaymentSubmitted || events[0].Role != models.RoleAdmin {
		t.Errorf("events = %+v, want one payment submitted to admins", events)
	}

	// Cash claims are valid without a slip.
	if _, err := svc.SubmitPayment(SubmitPaymentRequest{StudentID: "s1", Amount: 200, PaymentMode: models.PaymentModeCash}); err != nil {
		t.Errorf("cash without slip: %v", err)
	}
}

func TestAcceptPaymentCreditsKhataOnce(t *testing.T) {
	svc, _, ledger, notifier := newPaymentFixture()

	payment, err := svc.SubmitPayment(SubmitPaymentRequest{StudentID: "s1", Amount: 500, PaymentMode: models.PaymentModeCash})
	if err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}

	accepted, err := svc.AcceptPayment(payment.ID, ReviewPaymentRequest{ReviewedBy: "admin1"})
	if err != nil {
		t.Fatalf("AcceptPayment: %v", err)
	}
	if accepted.Status != models.PaymentStatusAccepted {
		t.Errorf("status = %q, want ACCEPTED", accepted.Status)
	}
	if accepted.ReviewedBy == nil || *accepted.ReviewedBy != "admin1" {
		t.Errorf("reviewed by = %v, want admin1", accepted.ReviewedBy)
	}

	entries, err := ledger.GetEntries("s1")
	if err != nil {
		t.Fatalf("GetEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("ledger entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Type != models.LedgerTypeCredit || e.Source != models.LedgerSourcePayment || e.SourceID != payment.ID || e.Amount != 500 {
		t.Errorf("entry = %+v, want CREDIT 500 from payment %s", e, payment.ID)
	}

	// Re-accepting is a no-op and never double-credits.
	again, err := svc.AcceptPayment(payment.ID, ReviewPaymentRequest{ReviewedBy: "admin2"})
	if err != nil {
		t.Fatalf("second AcceptPayment: %v", err)
	}
	if again.Status != models.PaymentStatusAccepted {
		t.Errorf("second accept status = %q", again.Status)
	}
	if ledger.count() != 1 {
		t.Errorf("ledger entries after re-accept = %d, want 1", ledger.count())
	}

	events := notifier.recorded()
	// One submit event plus exactly one accept event.
	acceptEvents := 0
	for _, ev := range events {
		if ev.Type == models.NotifyPaymentAccepted {
			acceptEvents++
			if ev.UserID != "s1" {
				t.Errorf("accept event addressed to %q, want s1", ev.UserID)
			}
		}
	}
	if acceptEvents != 1 {
		t.Errorf("accept events = %d, want 1", acceptEvents)
	}
}

func TestRejectPaymentLeavesLedgerUntouched(t *testing.T) {
	svc, _, ledger, _ := newPaymentFixture()

	payment, err := svc.SubmitPayment(SubmitPaymentRequest{StudentID: "s1", Amount: 500, PaymentMode: models.PaymentModeCash})
	if err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}

	rejected, err := svc.RejectPayment(payment.ID, ReviewPaymentRequest{ReviewedBy: "admin1"})
	if err != nil {
		t.Fatalf("RejectPayment: %v", err)
	}
	if rejected.Status != models.PaymentStatusRejected {
		t.Errorf("status = %q, want REJECTED", rejected.Status)
	}
	if ledger.count() != 0 {
		t.Errorf("ledger entries = %d, want 0 after rejection", ledger.count())
	}

	// Rejection is terminal; neither review transition applies afterwards.
	if _, err := svc.RejectPayment(payment.ID, ReviewPaymentRequest{ReviewedBy: "admin2"}); !errors.Is(err, ErrPaymentAlreadyReviewed) {
		t.Errorf("second reject: got %v, want ErrPaymentAlreadyReviewed", err)
	}
	if _, err := svc.AcceptPayment(payment.ID, ReviewPaymentRequest{ReviewedBy: "admin2"}); !errors.Is(err, ErrPaymentAlreadyReviewed) {
		t.Errorf("accept after reject: got %v, want ErrPaymentAlreadyReviewed", err)
	}
	if ledger.count() != 0 {
		t.Errorf("ledger entries = %d, want still 0", ledger.count())
	}
}

func TestAcceptPaymentConcurrently(t *testing.T) {
	svc, _, ledger, _ := newPaymentFixture()

	payment, err := svc.SubmitPayment(SubmitPaymentRequest{StudentID: "s1", Amount: 500, PaymentMode: models.PaymentModeCash})
	if err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AcceptPayment(payment.ID, ReviewPaymentRequest{ReviewedBy: "admin1"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent accept: %v", err)
		}
	}
	if ledger.count() != 1 {
		t.Errorf("ledger entries = %d, want exactly 1", ledger.count())
	}
}

func TestReviewUnknownPayment(t *testing.T) {
	svc, _, _, _ := newPaymentFixture()

	if _, err := svc.AcceptPayment("no-such-payment", ReviewPaymentRequest{}); !errors.Is(err, ErrPaymentNotFound) {
		t.Errorf("accept: got %v, want ErrPaymentNotFound", err)
	}
	if _, err := svc.RejectPayment("no-such-payment", ReviewPaymentRequest{}); !errors.Is(err, ErrPaymentNotFound) {
		t.Errorf("reject: got %v, want ErrPaymentNotFound", err)
	}
}
