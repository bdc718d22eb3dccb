package models

import "time"

// Menu slot keys and status tags.
const (
	SlotLunch  = "lunch"
	SlotDinner = "dinner"

	MenuStatusSet    = "SET"
	MenuStatusNotSet = "NOT_SET"

	MenuTypeRotiSabzi = "ROTI_SABZI"
	MenuTypeOther     = "OTHER"
)

// DabbaVariant is one sellable variant of a roti-sabzi menu (half or full):
// the included components and a single price for the box.
type DabbaVariant struct {
	Items []string `json:"items"`
	Price float64  `json:"price"`
}

// RotiSabziMenu is the payload required when a slot's type is ROTI_SABZI.
type RotiSabziMenu struct {
	Half       DabbaVariant `json:"half"`
	Full       DabbaVariant `json:"full"`
	FreeAddons []string     `json:"free_addons"`
}

// OtherMenu is the payload required when a slot's type is OTHER.
type OtherMenu struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ExtraItem is a priced add-on line available regardless of menu type.
type ExtraItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// SlotMenu is the tagged slot payload. Type decides which sub-object must be
// present; a payload missing its required sub-object is never treated as
// available, it is simply not a valid menu.
type SlotMenu struct {
	Type      string         `json:"type"`
	RotiSabzi *RotiSabziMenu `json:"roti_sabzi,omitempty"`
	Other     *OtherMenu     `json:"other,omitempty"`
	Extras    []ExtraItem    `json:"extras"`
}

// Menu is the per-date menu document.
type Menu struct {
	Date         string     `json:"date"`
	Lunch        *SlotMenu  `json:"lunch,omitempty"`
	Dinner       *SlotMenu  `json:"dinner,omitempty"`
	MenuStatus   string     `json:"menu_status"`
	LastResetFor *string    `json:"last_reset_for,omitempty"`
	ResetAt      *time.Time `json:"reset_at,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Slot returns the sub-document for the given slot key, or nil.
func (m *Menu) Slot(slot string) *SlotMenu {
	switch slot {
	case SlotLunch:
		return m.Lunch
	case SlotDinner:
		return m.Dinner
	default:
		return nil
	}
}
