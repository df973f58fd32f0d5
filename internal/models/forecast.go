package models

import "time"

// DemandForecast is unique per (RestaurantID, Date); regeneration overwrites it.
type DemandForecast struct {
	RestaurantID    string    `json:"restaurant_id"`
	Date            time.Time `json:"date"`
	PredictedCovers int       `json:"predicted_covers"`
	ConfidenceLow   int       `json:"confidence_low"`
	ConfidenceHigh  int       `json:"confidence_high"`
	ModelVersion    string    `json:"model_version"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// ItemForecast is unique per (RestaurantID, MenuItemID, Date).
type ItemForecast struct {
	RestaurantID      string    `json:"restaurant_id"`
	MenuItemID        string    `json:"menu_item_id"`
	Date              time.Time `json:"date"`
	PredictedQuantity int       `json:"predicted_quantity"`
	ModelVersion      string    `json:"model_version"`
	GeneratedAt       time.Time `json:"generated_at"`
}
