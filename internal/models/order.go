package models

import "time"

type Order struct {
	ID           string     `json:"id"`
	RestaurantID string     `json:"restaurant_id"`
	CustomerID   string     `json:"customer_id,omitempty"`
	Status       string     `json:"status"` // e.g., "open", "closed", "voided"
	GuestCount   int        `json:"guest_count"`
	Total        float64    `json:"total"`
	Tip          float64    `json:"tip"`
	OpenedAt     time.Time  `json:"opened_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
}

type OrderItem struct {
	ID         string  `json:"id"`
	OrderID    string  `json:"order_id"`
	MenuItemID string  `json:"menu_item_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	Void       bool    `json:"void"`
}
