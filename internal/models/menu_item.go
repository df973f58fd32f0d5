package models

type MenuItem struct {
	ID           string   `json:"id"`
	RestaurantID string   `json:"restaurant_id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Price        float64  `json:"price"`
	Cost         *float64 `json:"cost,omitempty"` // nil when the kitchen never costed the dish
	Active       bool     `json:"active"`
}

// UnitCost returns the plate cost, treating an uncosted item as free.
func (m *MenuItem) UnitCost() float64 {
	if m.Cost == nil {
		return 0
	}
	return *m.Cost
}
