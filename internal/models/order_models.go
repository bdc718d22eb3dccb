package models

import "time"

// Meal types as stored on orders (upper-case, unlike menu slot keys).
const (
	MealLunch  = "LUNCH"
	MealDinner = "DINNER"
)

// Order statuses. CANCELLED is reserved; no current flow produces it.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusCancelled = "CANCELLED"
)

// OrderExtra is one add-on line snapshotted onto an order. UnitPrice is
// captured from the menu at placement time and never re-read afterwards.
type OrderExtra struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Order is a single tiffin order. The item fields are a priced snapshot of
// the menu in effect when the order was placed; later menu edits must never
// change what an existing order costs.
type Order struct {
	ID               string       `json:"id"`
	StudentID        string       `json:"student_id"`
	Date             string       `json:"date"` // effective menu date (YYYY-MM-DD)
	MealType         string       `json:"meal_type"`
	ItemLabel        string       `json:"item_label"`
	ItemType         string       `json:"item_type"`
	UnitPrice        float64      `json:"unit_price"`
	Quantity         int          `json:"quantity"`
	Extras           []OrderExtra `json:"extras"`
	Status           string       `json:"status"`
	CalculatedAmount *float64     `json:"calculated_amount,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	ConfirmedAt      *time.Time   `json:"confirmed_at,omitempty"`

	// Joined for admin views
	StudentName *string `json:"student_name,omitempty"`
}

// OrderFilters defines the available filters for querying orders.
type OrderFilters struct {
	StudentID *string `form:"student_id"`
	Date      *string `form:"date"` // Expected format YYYY-MM-DD
	MealType  *string `form:"meal_type"`
	Status    *string `form:"status"`
	Since     *time.Time
	Page      int `form:"page"`
	PageSize  int `form:"page_size"`
}
