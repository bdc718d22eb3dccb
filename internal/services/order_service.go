package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"tiffin_khata_backend/internal/models"
	"tiffin_khata_backend/internal/repositories"

	"github.com/google/uuid"
)

// Custom Errors
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrKitchenClosed     = errors.New("kitchen is closed right now")
	ErrKitchenOnHoliday  = errors.New("kitchen is on holiday")
	ErrWrongMealSlot     = errors.New("requested meal is not the active slot")
	ErrOrderCutoffPassed = errors.New("too late to order for this meal")
	ErrMenuNotAvailable  = errors.New("menu is not set for this meal")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrUnknownVariant    = errors.New("unknown dabba variant")
	ErrUnknownExtra      = errors.New("extra is not on today's menu")
	ErrOrderNotPending   = errors.New("order is not pending")
)

// Dabba variants for ROTI_SABZI menus.
const (
	VariantHalf = "HALF"
	VariantFull = "FULL"

	labelHalfDabba = "Half Dabba"
	labelFullDabba = "Full Dabba"
)

// --- Data Transfer Objects (DTOs) ---

// PlaceOrderRequest is the student's order submission. Prices are never
// taken from the client; the service derives them from the stored menu.
type PlaceOrderRequest struct {
	StudentID string         `json:"-"` // from auth context
	MealType  string         `json:"meal_type" binding:"required"`
	Variant   string         `json:"variant"` // HALF | FULL, ignored for OTHER menus
	Quantity  int            `json:"quantity" binding:"required"`
	Extras    map[string]int `json:"extras"` // extra name -> quantity
}

// --- OrderService Interface ---
type OrderService interface {
	PlaceOrder(req PlaceOrderRequest) (*models.Order, error)
	ConfirmOrder(orderID string) (*models.Order, error)
	GetOrderByID(orderID string) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	GetStudentOrders(studentID string) ([]models.Order, error)
}

// --- orderService Implementation ---
type orderService struct {
	orderRepo  repositories.OrderRepository
	ledgerRepo repositories.LedgerRepository
	menus      MenuService
	kitchen    KitchenService
	stats      StatsService
	clock      *MealClock
	tx         repositories.TxRunner
	notifier   Notifier
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	or repositories.OrderRepository,
	lr repositories.LedgerRepository,
	menus MenuService,
	kitchen KitchenService,
	stats StatsService,
	clock *MealClock,
	tx repositories.TxRunner,
	notifier Notifier,
) OrderService {
	return &orderService{
		orderRepo:  or,
		ledgerRepo: lr,
		menus:      menus,
		kitchen:    kitchen,
		stats:      stats,
		clock:      clock,
		tx:         tx,
		notifier:   notifier,
	}
}

// orderTotal applies the one canonical pricing convention: extras are always
// summed separately and added to the base item's unit price times quantity.
func orderTotal(order *models.Order) float64 {
	total := order.UnitPrice * float64(order.Quantity)
	for _, extra := range order.Extras {
		total += extra.UnitPrice * float64(extra.Quantity)
	}
	return total
}

func (s *orderService) PlaceOrder(req PlaceOrderRequest) (*models.Order, error) {
	activeSlot := s.clock.EffectiveMealSlot()
	if activeSlot == "" {
		return nil, ErrKitchenClosed
	}

	slot := NormalizeSlot(req.MealType)
	if slot == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMealSlot, req.MealType)
	}
	if slot != activeSlot {
		return nil, fmt.Errorf("%w: %s orders are open, not %s", ErrWrongMealSlot, activeSlot, slot)
	}
	if !s.clock.CanPlaceOrder(slot) {
		return nil, ErrOrderCutoffPassed
	}
	if req.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	dateKey := s.clock.EffectiveMenuDateKey()

	if s.kitchen != nil {
		onHoliday, reason, err := s.kitchen.IsHoliday(dateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to check kitchen holiday: %w", err)
		}
		if onHoliday {
			if reason != "" {
				return nil, fmt.Errorf("%w: %s", ErrKitchenOnHoliday, reason)
			}
			return nil, ErrKitchenOnHoliday
		}
	}

	available, err := s.menus.IsMenuAvailable(dateKey, slot)
	if err != nil {
		return nil, fmt.Errorf("failed to check menu availability: %w", err)
	}
	if !available {
		return nil, ErrMenuNotAvailable
	}

	slotMenu, err := s.menus.GetSlotMenu(dateKey, slot)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu for %s %s: %w", dateKey, slot, err)
	}

	order := &models.Order{
		ID:        uuid.NewString(),
		StudentID: req.StudentID,
		Date:      dateKey,
		MealType:  strings.ToUpper(slot),
		ItemType:  slotMenu.Type,
		Quantity:  req.Quantity,
		Status:    models.OrderStatusPending,
		CreatedAt: time.Now(),
	}

	// Prices come from the stored menu, never from the request.
	switch slotMenu.Type {
	case models.MenuTypeRotiSabzi:
		switch strings.ToUpper(req.Variant) {
		case VariantHalf:
			order.ItemLabel = labelHalfDabba
			order.UnitPrice = slotMenu.RotiSabzi.Half.Price
		case VariantFull:
			order.ItemLabel = labelFullDabba
			order.UnitPrice = slotMenu.RotiSabzi.Full.Price
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, req.Variant)
		}
	case models.MenuTypeOther:
		order.ItemLabel = slotMenu.Other.Name
		order.UnitPrice = slotMenu.Other.Price
	default:
		return nil, ErrMenuNotAvailable
	}

	extras, err := resolveExtras(slotMenu, req.Extras)
	if err != nil {
		return nil, err
	}
	order.Extras = extras

	err = s.tx.RunInTx(func(ex repositories.SQLExecutor) error {
		return s.orderRepo.CreateOrder(ex, order)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create order record: %w", err)
	}

	// Dashboard counters are a convenience; their failure never fails the order.
	if s.stats != nil {
		s.stats.RecordOrderPlaced(dateKey, req.StudentID)
	}

	if s.notifier != nil {
		s.notifier.NotifyAsync(NotificationEvent{
			Role:    models.RoleAdmin,
			Type:    models.NotifyOrderPlaced,
			Title:   "New Order Placed",
			Message: fmt.Sprintf("A new %s order was placed.", strings.ToLower(order.MealType)),
			Data: map[string]interface{}{
				"order_id":   order.ID,
				"student_id": order.StudentID,
				"meal_type":  order.MealType,
			},
		})
	}

	return order, nil
}

// resolveExtras prices the requested add-ons against the menu's extras list.
func resolveExtras(slotMenu *models.SlotMenu, requested map[string]int) ([]models.OrderExtra, error) {
	extras := make([]models.OrderExtra, 0, len(requested))
	for name, qty := range requested {
		if qty < 1 {
			return nil, fmt.Errorf("%w: extra %q", ErrInvalidQuantity, name)
		}
		found := false
		for _, item := range slotMenu.Extras {
			if strings.EqualFold(item.Name, name) {
				extras = append(extras, models.OrderExtra{
					Name:      item.Name,
					UnitPrice: item.Price,
					Quantity:  qty,
				})
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrUnknownExtra, name)
		}
	}
	sort.Slice(extras, func(i, j int) bool { return extras[i].Name < extras[j].Name })
	return extras, nil
}

// ConfirmOrder transitions a pending order to confirmed and appends exactly
// one ledger debit, both inside one transaction. Confirming an already
// confirmed order is a no-op and never double-debits.
func (s *orderService) ConfirmOrder(orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to fetch order for confirmation: %w", err)
	}

	if order.Status == models.OrderStatusConfirmed {
		return order, nil
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: status is %s", ErrOrderNotPending, order.Status)
	}

	amount := orderTotal(order)
	confirmedAt := time.Now()

	var transitioned bool
	err = s.tx.RunInTx(func(ex repositories.SQLExecutor) error {
		ok, err := s.orderRepo.MarkConfirmed(ex, orderID, amount, confirmedAt)
		if err != nil {
			return err
		}
		transitioned = ok
		if !ok {
			// Lost the race to a concurrent confirm; nothing to append.
			return nil
		}
		_, err = s.ledgerRepo.AppendEntry(ex, &models.LedgerEntry{
			ID:        uuid.NewString(),
			StudentID: order.StudentID,
			Type:      models.LedgerTypeDebit,
			Source:    models.LedgerSourceOrder,
			SourceID:  orderID,
			Amount:    amount,
			CreatedAt: confirmedAt,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to confirm order %s: %w", orderID, err)
	}

	if !transitioned {
		return s.GetOrderByID(orderID)
	}

	order.Status = models.OrderStatusConfirmed
	order.CalculatedAmount = &amount
	order.ConfirmedAt = &confirmedAt

	if s.notifier != nil {
		s.notifier.NotifyAsync(NotificationEvent{
			UserID:  order.StudentID,
			Role:    models.RoleStudent,
			Type:    models.NotifyOrderConfirmed,
			Title:   "Order Confirmed",
			Message: fmt.Sprintf("Your order has been confirmed. ₹%.0f added to your khata.", amount),
			Data: map[string]interface{}{
				"order_id": orderID,
				"amount":   amount,
			},
		})
	}

	return order, nil
}

func (s *orderService) GetOrderByID(orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID: %w", err)
	}
	return order, nil
}

func (s *orderService) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders, totalCount, err := s.orderRepo.GetOrders(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, totalCount, nil
}

// GetStudentOrders returns the student's order history for the last two months.
func (s *orderService) GetStudentOrders(studentID string) ([]models.Order, error) {
	since := time.Now().AddDate(0, -2, 0)
	orders, _, err := s.orderRepo.GetOrders(models.OrderFilters{
		StudentID: &studentID,
		Since:     &since,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get student orders: %w", err)
	}
	return orders, nil
}
