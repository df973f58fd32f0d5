package models

import "time"

type InventoryItem struct {
	ID             string  `json:"id"`
	RestaurantID   string  `json:"restaurant_id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Unit           string  `json:"unit"` // e.g., "kg", "l", "each"
	UnitCost       float64 `json:"unit_cost"`
	QuantityOnHand float64 `json:"quantity_on_hand"`
	ParLevel       float64 `json:"par_level"`
}

type WasteEntry struct {
	ID              string    `json:"id"`
	RestaurantID    string    `json:"restaurant_id"`
	InventoryItemID string    `json:"inventory_item_id"`
	Quantity        float64   `json:"quantity"`
	Reason          string    `json:"reason"`
	RecordedAt      time.Time `json:"recorded_at"`
}
