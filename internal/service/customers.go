package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/chrisdamba/flavormetrics/internal/analytics"
	"github.com/chrisdamba/flavormetrics/internal/events"
	"github.com/chrisdamba/flavormetrics/internal/models"
)

func (s *AnalyticsService) customers(ctx context.Context, restaurantID string) ([]*models.Customer, error) {
	if _, err := s.Restaurant(ctx, restaurantID); err != nil {
		return nil, err
	}
	customers, err := s.store.Customers.GetByRestaurantID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}
	return customers, nil
}

func (s *AnalyticsService) Segments(ctx context.Context, restaurantID string) ([]analytics.SegmentSummary, error) {
	return cached(ctx, s, cacheKey(restaurantID, "segments"), func(ctx context.Context) ([]analytics.SegmentSummary, error) {
		customers, err := s.customers(ctx, restaurantID)
		if err != nil {
			return nil, err
		}
		return analytics.RoundSegments(analytics.SummarizeSegments(customers)), nil
	})
}

// AtRisk ranks customers at or above minRisk. A limit of zero or less
// returns everyone.
func (s *AnalyticsService) AtRisk(ctx context.Context, restaurantID string, minRisk float64, limit int) (analytics.AtRiskReport, error) {
	if minRisk < 0 || minRisk > 1 {
		return analytics.AtRiskReport{}, fmt.Errorf("%w: min_risk must be between 0 and 1", ErrInvalidInput)
	}
	return cached(ctx, s, cacheKey(restaurantID, "at-risk", minRisk, limit), func(ctx context.Context) (analytics.AtRiskReport, error) {
		customers, err := s.customers(ctx, restaurantID)
		if err != nil {
			return analytics.AtRiskReport{}, err
		}
		return analytics.RankAtRisk(customers, minRisk, s.now()).Limit(limit).Rounded(), nil
	})
}

type RescoreResult struct {
	RestaurantID string                 `json:"restaurant_id"`
	Customers    int                    `json:"customers"`
	Segments     map[string]int         `json:"segments"`
	Scores       []models.CustomerScore `json:"scores,omitempty"`
}

// Rescore recomputes RFM scores, segments and churn risk for every customer
// of a restaurant and persists them.
func (s *AnalyticsService) Rescore(ctx context.Context, restaurantID string) (RescoreResult, error) {
	customers, err := s.customers(ctx, restaurantID)
	if err != nil {
		return RescoreResult{}, err
	}
	scores := analytics.ScoreCustomers(customers, s.now())
	if err := s.store.Customers.UpdateScores(ctx, scores); err != nil {
		return RescoreResult{}, fmt.Errorf("failed to store customer scores: %w", err)
	}

	result := RescoreResult{
		RestaurantID: restaurantID,
		Customers:    len(scores),
		Segments:     make(map[string]int),
		Scores:       scores,
	}
	for _, sc := range scores {
		result.Segments[sc.Segment]++
	}

	s.Invalidate(restaurantID)
	s.publish(ctx, events.Event{
		Type:         events.TypeCustomersRescored,
		RestaurantID: restaurantID,
		Timestamp:    s.now().UTC(),
		Payload: events.CustomersRescoredPayload{
			Customers: result.Customers,
			Segments:  result.Segments,
		},
	})
	log.Info().
		Str("restaurant_id", restaurantID).
		Int("customers", result.Customers).
		Msg("customers rescored")
	return result, nil
}
