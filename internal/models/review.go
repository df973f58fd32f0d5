package models

import "time"

type Review struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurant_id"`
	CustomerID   string    `json:"customer_id,omitempty"`
	Rating       int       `json:"rating"` // 1..5
	Comment      string    `json:"comment"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
}
