package services

import (
	"strings"
	"sync"
	"time"

	"tiffin_khata_backend/internal/models"
	"tiffin_khata_backend/internal/repositories"
)

// In-memory repositories for service tests. All of them are mutex guarded so
// the concurrent transition tests can hammer them from multiple goroutines.

type memTxRunner struct{}

func (memTxRunner) RunInTx(fn func(ex repositories.SQLExecutor) error) error {
	return fn(nil)
}

// --- orders ---

type memOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*models.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: map[string]*models.Order{}}
}

func cloneOrder(o *models.Order) *models.Order {
	c := *o
	c.Extras = append([]models.OrderExtra(nil), o.Extras...)
	return &c
}

func (r *memOrderRepo) CreateOrder(_ repositories.SQLExecutor, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *memOrderRepo) GetOrderByID(orderID string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneOrder(o), nil
}

func (r *memOrderRepo) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []models.Order{}
	for _, o := range r.orders {
		if filters.StudentID != nil && o.StudentID != *filters.StudentID {
			continue
		}
		if filters.Status != nil && o.Status != *filters.Status {
			continue
		}
		if filters.Date != nil && o.Date != *filters.Date {
			continue
		}
		if filters.Since != nil && o.CreatedAt.Before(*filters.Since) {
			continue
		}
		result = append(result, *cloneOrder(o))
	}
	return result, len(result), nil
}

func (r *memOrderRepo) MarkConfirmed(_ repositories.SQLExecutor, orderID string, amount float64, confirmedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.Status != models.OrderStatusPending {
		return false, nil
	}
	o.Status = models.OrderStatusConfirmed
	o.CalculatedAmount = &amount
	o.ConfirmedAt = &confirmedAt
	return true, nil
}

func (r *memOrderRepo) GetConfirmedForMeal(dateKey string, mealType string) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []models.Order{}
	for _, o := range r.orders {
		if o.Status == models.OrderStatusConfirmed && o.Date == dateKey && o.MealType == strings.ToUpper(mealType) {
			result = append(result, *cloneOrder(o))
		}
	}
	return result, nil
}

// --- ledger ---

type memLedgerRepo struct {
	mu      sync.Mutex
	entries []models.LedgerEntry
	seen    map[string]bool
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{seen: map[string]bool{}}
}

func (r *memLedgerRepo) AppendEntry(_ repositories.SQLExecutor, entry *models.LedgerEntry) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := entry.Source + ":" + entry.SourceID
	if r.seen[key] {
		return false, nil
	}
	r.seen[key] = true
	r.entries = append(r.entries, *entry)
	return true, nil
}

func (r *memLedgerRepo) GetEntries(studentID string) ([]models.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []models.LedgerEntry{}
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].StudentID == studentID {
			result = append(result, r.entries[i])
		}
	}
	return result, nil
}

func (r *memLedgerRepo) GetEntriesForRange(studentID string, from, to time.Time) ([]models.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []models.LedgerEntry{}
	for _, e := range r.entries {
		if e.StudentID != studentID {
			continue
		}
		if e.CreatedAt.Before(from) || !e.CreatedAt.Before(to) {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (r *memLedgerRepo) GetBalance(studentID string) (models.BalanceSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var summary models.BalanceSummary
	for _, e := range r.entries {
		if e.StudentID != studentID {
			continue
		}
		switch e.Type {
		case models.LedgerTypeCredit:
			summary.Credit += e.Amount
		case models.LedgerTypeDebit:
			summary.Debit += e.Amount
		}
	}
	summary.Balance = summary.Credit - summary.Debit
	return summary, nil
}

func (r *memLedgerRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// --- payments ---

type memPaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*models.Payment
}

func newMemPaymentRepo() *memPaymentRepo {
	return &memPaymentRepo{payments: map[string]*models.Payment{}}
}

func (r *memPaymentRepo) CreatePayment(_ repositories.SQLExecutor, payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *payment
	r.payments[payment.ID] = &c
	return nil
}

func (r *memPaymentRepo) GetPaymentByID(paymentID string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[paymentID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (r *memPaymentRepo) GetPayments(filters models.PaymentFilters) ([]models.Payment, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []models.Payment{}
	for _, p := range r.payments {
		if filters.StudentID != nil && p.StudentID != *filters.StudentID {
			continue
		}
		if filters.Status != nil && p.Status != *filters.Status {
			continue
		}
		result = append(result, *p)
	}
	return result, len(result), nil
}

func (r *memPaymentRepo) MarkReviewed(_ repositories.SQLExecutor, paymentID string, status string, reviewedBy *string, reviewedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[paymentID]
	if !ok || p.Status != models.PaymentStatusPending {
		return false, nil
	}
	p.Status = status
	p.ReviewedBy = reviewedBy
	p.ReviewedAt = &reviewedAt
	return true, nil
}

func (r *memPaymentRepo) CountPending() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, p := range r.payments {
		if p.Status == models.PaymentStatusPending {
			count++
		}
	}
	return count, nil
}

// --- menus ---

type memMenuRepo struct {
	mu     sync.Mutex
	menus  map[string]*models.Menu
	resets int
}

func newMemMenuRepo() *memMenuRepo {
	return &memMenuRepo{menus: map[string]*models.Menu{}}
}

func (r *memMenuRepo) GetMenu(dateKey string) (*models.Menu, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.menus[dateKey]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *m
	return &c, nil
}

func (r *memMenuRepo) UpsertSlot(_ repositories.SQLExecutor, dateKey string, slot string, payload *models.SlotMenu, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.menus[dateKey]
	if !ok {
		m = &models.Menu{Date: dateKey}
		r.menus[dateKey] = m
	}
	c := *payload
	switch slot {
	case models.SlotLunch:
		m.Lunch = &c
	case models.SlotDinner:
		m.Dinner = &c
	}
	m.MenuStatus = models.MenuStatusSet
	m.UpdatedAt = updatedAt
	return nil
}

func (r *memMenuRepo) ResetForDate(_ repositories.SQLExecutor, dateKey string, resetAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets++
	r.menus[dateKey] = &models.Menu{
		Date:         dateKey,
		MenuStatus:   models.MenuStatusNotSet,
		LastResetFor: &dateKey,
		ResetAt:      &resetAt,
		UpdatedAt:    resetAt,
	}
	return nil
}

// --- kitchen ---

type memKitchenRepo struct {
	mu  sync.Mutex
	cfg *models.KitchenConfig
}

func (r *memKitchenRepo) GetConfig() (*models.KitchenConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg == nil {
		return models.DefaultKitchenConfig(), nil
	}
	c := *r.cfg
	return &c, nil
}

func (r *memKitchenRepo) UpsertConfig(_ repositories.SQLExecutor, cfg *models.KitchenConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *cfg
	r.cfg = &c
	return nil
}

// --- notifications ---

// recorderNotifier captures events synchronously so tests can assert on them
// without racing a background goroutine.
type recorderNotifier struct {
	mu     sync.Mutex
	events []NotificationEvent
}

func (r *recorderNotifier) NotifyAsync(event NotificationEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorderNotifier) recorded() []NotificationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]NotificationEvent(nil), r.events...)
}

type memNotificationRepo struct {
	mu   sync.Mutex
	rows []models.Notification
}

func (r *memNotificationRepo) CreateNotification(n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, *n)
	return nil
}

func (r *memNotificationRepo) GetForUser(userID string, limit int) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []models.Notification{}
	for i := len(r.rows) - 1; i >= 0 && (limit <= 0 || len(result) < limit); i-- {
		if r.rows[i].UserID == userID {
			result = append(result, r.rows[i])
		}
	}
	return result, nil
}

func (r *memNotificationRepo) CountUnread(userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.rows {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) MarkRead(notificationID string, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == notificationID && r.rows[i].UserID == userID {
			r.rows[i].Read = true
			return true, nil
		}
	}
	return false, nil
}

func (r *memNotificationRepo) MarkAllRead(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].UserID == userID {
			r.rows[i].Read = true
		}
	}
	return nil
}

// --- clocks ---

// clockAt returns a MealClock frozen at the given local time on a fixed date.
func clockAt(hour, minute int) *MealClock {
	frozen := time.Date(2026, time.March, 10, hour, minute, 0, 0, time.Local)
	return NewMealClock(DefaultClockConfig(), func() time.Time { return frozen })
}
