package service

import (
	"context"
	"fmt"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/analytics"
	"github.com/chrisdamba/flavormetrics/internal/models"
)

func (s *AnalyticsService) SalesSummary(ctx context.Context, restaurantID string, r DateRange) (analytics.SalesSummary, error) {
	restaurant, err := s.Restaurant(ctx, restaurantID)
	if err != nil {
		return analytics.SalesSummary{}, err
	}
	return cached(ctx, s, cacheKey(restaurantID, "sales", r), func(ctx context.Context) (analytics.SalesSummary, error) {
		loc := restaurant.Location()
		start, end := r.bounds(loc)
		orders, err := s.store.Orders.ClosedBetween(ctx, restaurantID, start, end)
		if err != nil {
			return analytics.SalesSummary{}, fmt.Errorf("failed to load orders: %w", err)
		}
		lines, err := s.store.OrderItems.ForClosedOrdersBetween(ctx, restaurantID, start, end)
		if err != nil {
			return analytics.SalesSummary{}, fmt.Errorf("failed to load order items: %w", err)
		}
		shifts, err := s.store.Shifts.Between(ctx, restaurantID, start, end)
		if err != nil {
			return analytics.SalesSummary{}, fmt.Errorf("failed to load shifts: %w", err)
		}
		// shifts worked by since-deactivated staff are still paid
		staff, err := s.store.Staff.GetByRestaurantID(ctx, restaurantID)
		if err != nil {
			return analytics.SalesSummary{}, fmt.Errorf("failed to load staff: %w", err)
		}
		return analytics.SummarizeSales(orders, lines, shifts, staff, loc).Rounded(), nil
	})
}

func (s *AnalyticsService) MenuEngineering(ctx context.Context, restaurantID string, r DateRange) (analytics.MenuReport, error) {
	restaurant, err := s.Restaurant(ctx, restaurantID)
	if err != nil {
		return analytics.MenuReport{}, err
	}
	return cached(ctx, s, cacheKey(restaurantID, "menu", r), func(ctx context.Context) (analytics.MenuReport, error) {
		sales, err := s.itemSales(ctx, restaurant, r)
		if err != nil {
			return analytics.MenuReport{}, err
		}
		return analytics.ClassifyMenu(sales).Rounded(), nil
	})
}

func (s *AnalyticsService) FoodCost(ctx context.Context, restaurantID string, r DateRange) (analytics.FoodCostReport, error) {
	restaurant, err := s.Restaurant(ctx, restaurantID)
	if err != nil {
		return analytics.FoodCostReport{}, err
	}
	return cached(ctx, s, cacheKey(restaurantID, "food-cost", r), func(ctx context.Context) (analytics.FoodCostReport, error) {
		sales, err := s.itemSales(ctx, restaurant, r)
		if err != nil {
			return analytics.FoodCostReport{}, err
		}
		inventory, err := s.store.Inventory.ItemsByRestaurantID(ctx, restaurantID)
		if err != nil {
			return analytics.FoodCostReport{}, fmt.Errorf("failed to load inventory: %w", err)
		}
		start, end := r.bounds(restaurant.Location())
		waste, err := s.store.Inventory.WasteBetween(ctx, restaurantID, start, end)
		if err != nil {
			return analytics.FoodCostReport{}, fmt.Errorf("failed to load waste log: %w", err)
		}
		return analytics.AnalyzeFoodCost(sales, inventory, waste).Rounded(), nil
	})
}

func (s *AnalyticsService) ReviewThemes(ctx context.Context, restaurantID string, r DateRange) (analytics.ReviewReport, error) {
	restaurant, err := s.Restaurant(ctx, restaurantID)
	if err != nil {
		return analytics.ReviewReport{}, err
	}
	return cached(ctx, s, cacheKey(restaurantID, "reviews", r), func(ctx context.Context) (analytics.ReviewReport, error) {
		start, end := r.bounds(restaurant.Location())
		reviews, err := s.store.Reviews.Between(ctx, restaurantID, start, end)
		if err != nil {
			return analytics.ReviewReport{}, fmt.Errorf("failed to load reviews: %w", err)
		}
		return analytics.AnalyzeReviews(reviews).Rounded(), nil
	})
}

// ReportWriter persists report files and returns where each one landed.
type ReportWriter interface {
	WriteForecasts(ctx context.Context, restaurantID string, rows []*models.DemandForecast) (string, error)
	WriteMenuEngineering(ctx context.Context, restaurantID string, report analytics.MenuReport, start, end time.Time) (string, error)
}

// Export writes the stored forecasts and the menu-engineering report for a
// range. Forecast rows are selected by forecast date, the menu report by
// sales date.
func (s *AnalyticsService) Export(ctx context.Context, w ReportWriter, restaurantID string, r DateRange) ([]string, error) {
	rows, err := s.ForecastRows(ctx, restaurantID, r)
	if err != nil {
		return nil, err
	}
	menu, err := s.MenuEngineering(ctx, restaurantID, r)
	if err != nil {
		return nil, err
	}

	var locations []string
	location, err := w.WriteForecasts(ctx, restaurantID, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to export forecasts: %w", err)
	}
	locations = append(locations, location)
	location, err = w.WriteMenuEngineering(ctx, restaurantID, menu, r.Start, r.End)
	if err != nil {
		return locations, fmt.Errorf("failed to export menu engineering: %w", err)
	}
	return append(locations, location), nil
}
