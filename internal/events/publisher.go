package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	TypeForecastGenerated = "forecast.generated"
	TypeCustomersRescored = "customers.rescored"
)

// Event is the message published after a state-changing analytics run.
type Event struct {
	Type         string      `json:"event_type"`
	RestaurantID string      `json:"restaurant_id"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

func (e Event) Encode() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encoding %s event: %w", e.Type, err)
	}
	return b, nil
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event. It is used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }

type ForecastGeneratedPayload struct {
	Days           int       `json:"days"`
	FirstDate      time.Time `json:"first_date"`
	LastDate       time.Time `json:"last_date"`
	TotalPredicted int       `json:"total_predicted"`
	ModelVersion   string    `json:"model_version"`
}

type CustomersRescoredPayload struct {
	Customers int            `json:"customers"`
	Segments  map[string]int `json:"segments"`
}
