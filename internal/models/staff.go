package models

import "time"

type Staff struct {
	ID           string  `json:"id"`
	RestaurantID string  `json:"restaurant_id"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	HourlyRate   float64 `json:"hourly_rate"`
	Active       bool    `json:"active"`
}

type Shift struct {
	ID             string     `json:"id"`
	RestaurantID   string     `json:"restaurant_id"`
	StaffID        string     `json:"staff_id"`
	Role           string     `json:"role"`
	ScheduledStart time.Time  `json:"scheduled_start"`
	ScheduledEnd   time.Time  `json:"scheduled_end"`
	ActualStart    *time.Time `json:"actual_start,omitempty"`
	ActualEnd      *time.Time `json:"actual_end,omitempty"`
}
