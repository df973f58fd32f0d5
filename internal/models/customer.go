package models

import "time"

type Customer struct {
	ID           string     `json:"id"`
	RestaurantID string     `json:"restaurant_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	RFMSegment   string     `json:"rfm_segment"`
	ChurnRisk    float64    `json:"churn_risk"` // 0..1
	TotalSpent   float64    `json:"total_spent"`
	VisitCount   int        `json:"visit_count"`
	AvgCheck     float64    `json:"avg_check"`
	FirstVisitAt *time.Time `json:"first_visit_at,omitempty"`
	LastVisitAt  *time.Time `json:"last_visit_at,omitempty"`
}

// CustomerScore is the outcome of an RFM rescoring run for one customer.
type CustomerScore struct {
	CustomerID     string  `json:"customer_id"`
	RecencyScore   int     `json:"recency_score"`
	FrequencyScore int     `json:"frequency_score"`
	MonetaryScore  int     `json:"monetary_score"`
	Segment        string  `json:"segment"`
	ChurnRisk      float64 `json:"churn_risk"`
}
