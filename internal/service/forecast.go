package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chrisdamba/flavormetrics/internal/analytics"
	"github.com/chrisdamba/flavormetrics/internal/events"
	"github.com/chrisdamba/flavormetrics/internal/models"
)

// history is the trailing window the forecaster learns from: the configured
// number of days up to and including yesterday.
type history struct {
	covers []analytics.DailyCovers
	items  []analytics.ItemDailySales
}

func (s *AnalyticsService) loadHistory(ctx context.Context, restaurant *models.Restaurant, withItems bool) (history, error) {
	today := s.Today(restaurant)
	window := DateRange{Start: today.AddDate(0, 0, -s.cfg.Forecast.HistoryDays), End: today.AddDate(0, 0, -1)}
	loc := restaurant.Location()
	start, end := window.bounds(loc)

	orders, err := s.store.Orders.ClosedBetween(ctx, restaurant.ID, start, end)
	if err != nil {
		return history{}, fmt.Errorf("failed to load order history: %w", err)
	}
	h := history{covers: analytics.AggregateDailyCovers(orders, loc)}
	if !withItems {
		return h, nil
	}
	lines, err := s.store.OrderItems.ForClosedOrdersBetween(ctx, restaurant.ID, start, end)
	if err != nil {
		return history{}, fmt.Errorf("failed to load order item history: %w", err)
	}
	h.items = analytics.AggregateItemDailySales(orders, lines, loc)
	return h, nil
}

// GenerateForecast projects covers and item quantities for the days after
// today and overwrites any stored forecast for those dates. Repeated calls
// draw fresh jitter.
func (s *AnalyticsService) GenerateForecast(ctx context.Context, restaurantID string, days int) (analytics.ForecastReport, error) {
	if days < 1 || days > s.cfg.Forecast.MaxDays {
		return analytics.ForecastReport{}, fmt.Errorf("%w: days must be between 1 and %d", ErrInvalidInput, s.cfg.Forecast.MaxDays)
	}
	restaurant, err := s.Restaurant(ctx, restaurantID)
	if err != nil {
		return analytics.ForecastReport{}, err
	}
	menu, err := s.activeMenu(ctx, restaurantID)
	if err != nil {
		return analytics.ForecastReport{}, err
	}
	h, err := s.loadHistory(ctx, restaurant, true)
	if err != nil {
		return analytics.ForecastReport{}, err
	}

	firstDay := s.Today(restaurant).AddDate(0, 0, 1)
	s.rngMu.Lock()
	forecast := analytics.ForecastDemand(h.covers, firstDay, days, s.rng)
	s.rngMu.Unlock()
	items := analytics.ForecastItems(h.items, h.covers, menu, firstDay, days)

	generatedAt := s.now().UTC()
	version := s.cfg.Forecast.ModelVersion
	rows := make([]*models.DemandForecast, len(forecast))
	for i, d := range forecast {
		rows[i] = &models.DemandForecast{
			RestaurantID:    restaurantID,
			Date:            d.Date,
			PredictedCovers: d.PredictedCovers,
			ConfidenceLow:   d.ConfidenceLow,
			ConfidenceHigh:  d.ConfidenceHigh,
			ModelVersion:    version,
			GeneratedAt:     generatedAt,
		}
	}
	itemRows := make([]*models.ItemForecast, len(items))
	for i, it := range items {
		itemRows[i] = &models.ItemForecast{
			RestaurantID:      restaurantID,
			MenuItemID:        it.MenuItemID,
			Date:              it.Date,
			PredictedQuantity: it.PredictedQuantity,
			ModelVersion:      version,
			GeneratedAt:       generatedAt,
		}
	}
	if err := s.store.Forecasts.UpsertDemand(ctx, rows); err != nil {
		return analytics.ForecastReport{}, fmt.Errorf("failed to store forecast: %w", err)
	}
	if err := s.store.Forecasts.UpsertItemDemand(ctx, itemRows); err != nil {
		return analytics.ForecastReport{}, fmt.Errorf("failed to store item forecast: %w", err)
	}

	report := analytics.ForecastReport{
		RestaurantID:       restaurantID,
		ModelVersion:       version,
		GeneratedAt:        generatedAt,
		HistoryDays:        s.cfg.Forecast.HistoryDays,
		Days:               forecast,
		Items:              items,
		AvgRevenuePerCover: analytics.AvgRevenuePerCover(h.covers),
	}
	report.Totals()

	s.Invalidate(restaurantID)
	s.publish(ctx, events.Event{
		Type:         events.TypeForecastGenerated,
		RestaurantID: restaurantID,
		Timestamp:    generatedAt,
		Payload: events.ForecastGeneratedPayload{
			Days:           days,
			FirstDate:      firstDay,
			LastDate:       firstDay.AddDate(0, 0, days-1),
			TotalPredicted: report.TotalPredicted,
			ModelVersion:   version,
		},
	})
	log.Info().
		Str("restaurant_id", restaurantID).
		Int("days", days).
		Int("history_days_with_covers", len(h.covers)).
		Int("total_predicted", report.TotalPredicted).
		Msg("forecast generated")

	return report.Rounded(), nil
}

// StoredForecasts returns the persisted forecast rows for a date range
// without regenerating anything.
func (s *AnalyticsService) StoredForecasts(ctx context.Context, restaurantID string, r DateRange) (analytics.ForecastReport, error) {
	restaurant, err := s.Restaurant(ctx, restaurantID)
	if err != nil {
		return analytics.ForecastReport{}, err
	}
	return cached(ctx, s, cacheKey(restaurantID, "forecasts", r), func(ctx context.Context) (analytics.ForecastReport, error) {
		rows, items, err := s.storedRows(ctx, restaurantID, r)
		if err != nil {
			return analytics.ForecastReport{}, err
		}
		menu, err := s.store.MenuItems.GetByRestaurantID(ctx, restaurantID)
		if err != nil {
			return analytics.ForecastReport{}, fmt.Errorf("failed to load menu: %w", err)
		}
		names := make(map[string]string, len(menu))
		for _, m := range menu {
			names[m.ID] = m.Name
		}
		h, err := s.loadHistory(ctx, restaurant, false)
		if err != nil {
			return analytics.ForecastReport{}, err
		}

		report := analytics.ForecastReport{
			RestaurantID:       restaurantID,
			ModelVersion:       s.cfg.Forecast.ModelVersion,
			HistoryDays:        s.cfg.Forecast.HistoryDays,
			Days:               analytics.DaysFromRows(rows),
			Items:              make([]analytics.ItemForecastDay, 0, len(items)),
			AvgRevenuePerCover: analytics.AvgRevenuePerCover(h.covers),
		}
		for _, row := range rows {
			if row.GeneratedAt.After(report.GeneratedAt) {
				report.GeneratedAt = row.GeneratedAt
				report.ModelVersion = row.ModelVersion
			}
		}
		for _, it := range items {
			report.Items = append(report.Items, analytics.ItemForecastDay{
				MenuItemID:        it.MenuItemID,
				Name:              names[it.MenuItemID],
				Date:              it.Date,
				PredictedQuantity: it.PredictedQuantity,
			})
		}
		report.Totals()
		return report.Rounded(), nil
	})
}

// ForecastRows returns the raw stored rows, for export.
func (s *AnalyticsService) ForecastRows(ctx context.Context, restaurantID string, r DateRange) ([]*models.DemandForecast, error) {
	if _, err := s.Restaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	rows, _, err := s.storedRows(ctx, restaurantID, r)
	return rows, err
}

// forecast dates are calendar dates, so the range is taken in UTC
func (s *AnalyticsService) storedRows(ctx context.Context, restaurantID string, r DateRange) ([]*models.DemandForecast, []*models.ItemForecast, error) {
	start, end := r.bounds(time.UTC)
	rows, err := s.store.Forecasts.DemandBetween(ctx, restaurantID, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load forecasts: %w", err)
	}
	items, err := s.store.Forecasts.ItemDemandBetween(ctx, restaurantID, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load item forecasts: %w", err)
	}
	return rows, items, nil
}
