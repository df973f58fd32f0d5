package service

import (
	"context"
	"fmt"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/analytics"
)

const laborWeekDays = 7

type LaborRequest struct {
	// WeekStart is a calendar date; zero means tomorrow.
	WeekStart time.Time
	// MaxHoursPerEmployee overrides the configured cap when positive.
	MaxHoursPerEmployee float64
	// Covers overrides predicted covers per date, keyed YYYY-MM-DD.
	Covers map[string]int
}

// LaborSchedule suggests a week of shifts. Each day's covers come from the
// request override, else the stored forecast, else the forecaster default.
// Nothing is written.
func (s *AnalyticsService) LaborSchedule(ctx context.Context, restaurantID string, req LaborRequest) (analytics.LaborPlan, error) {
	for date, covers := range req.Covers {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return analytics.LaborPlan{}, fmt.Errorf("%w: covers key %q is not a YYYY-MM-DD date", ErrInvalidInput, date)
		}
		if covers < 0 {
			return analytics.LaborPlan{}, fmt.Errorf("%w: covers for %s must not be negative", ErrInvalidInput, date)
		}
	}
	if req.MaxHoursPerEmployee < 0 {
		return analytics.LaborPlan{}, fmt.Errorf("%w: max_hours_per_employee must not be negative", ErrInvalidInput)
	}

	restaurant, err := s.Restaurant(ctx, restaurantID)
	if err != nil {
		return analytics.LaborPlan{}, err
	}
	weekStart := req.WeekStart
	if weekStart.IsZero() {
		weekStart = s.Today(restaurant).AddDate(0, 0, 1)
	}
	week := DateRange{Start: weekStart, End: weekStart.AddDate(0, 0, laborWeekDays-1)}

	rows, _, err := s.storedRows(ctx, restaurantID, week)
	if err != nil {
		return analytics.LaborPlan{}, err
	}
	predicted := make(map[string]int, len(rows))
	for _, row := range rows {
		predicted[row.Date.Format("2006-01-02")] = row.PredictedCovers
	}

	days := make([]analytics.DayDemand, laborWeekDays)
	for i := range days {
		date := weekStart.AddDate(0, 0, i)
		key := date.Format("2006-01-02")
		day := analytics.DayDemand{Date: date, Covers: analytics.DefaultMeanCovers, Source: analytics.CoverSourceDefault}
		if covers, ok := req.Covers[key]; ok {
			day.Covers, day.Source = covers, analytics.CoverSourceOverride
		} else if covers, ok := predicted[key]; ok {
			day.Covers, day.Source = covers, analytics.CoverSourceForecast
		}
		days[i] = day
	}

	roster, err := s.store.Staff.ActiveByRestaurantID(ctx, restaurantID)
	if err != nil {
		return analytics.LaborPlan{}, fmt.Errorf("failed to load staff: %w", err)
	}

	labor := s.cfg.Labor
	opts := analytics.LaborOptions{
		CoversPerServer:     labor.CoversPerServer,
		CoversPerCook:       labor.CoversPerCook,
		ShiftStart:          labor.ShiftStartOffset(),
		ShiftHours:          labor.ShiftHours,
		MaxHoursPerEmployee: labor.MaxHoursPerEmployee,
		Location:            restaurant.Location(),
	}
	if req.MaxHoursPerEmployee > 0 {
		opts.MaxHoursPerEmployee = req.MaxHoursPerEmployee
	}
	return analytics.AllocateLabor(days, roster, opts).Rounded(), nil
}
