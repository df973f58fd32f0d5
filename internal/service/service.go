// Package service runs the analytics against a repository store. It resolves
// restaurants, converts calendar ranges into the restaurant's local day
// boundaries, caches read results and performs the few writes the analytics
// own: forecast upserts and customer rescoring.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chrisdamba/flavormetrics/internal/analytics"
	"github.com/chrisdamba/flavormetrics/internal/cache"
	"github.com/chrisdamba/flavormetrics/internal/events"
	"github.com/chrisdamba/flavormetrics/internal/models"
	"github.com/chrisdamba/flavormetrics/internal/repositories"
)

// ErrInvalidInput marks arguments the service refuses to run with.
var ErrInvalidInput = errors.New("invalid input")

// DateRange is an inclusive range of calendar dates, each held as midnight
// UTC of the date.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func (r DateRange) String() string {
	return r.Start.Format("2006-01-02") + ".." + r.End.Format("2006-01-02")
}

// bounds is the half-open instant range covering the dates in loc.
func (r DateRange) bounds(loc *time.Location) (time.Time, time.Time) {
	return localMidnight(r.Start, loc), localMidnight(r.End.AddDate(0, 0, 1), loc)
}

// localMidnight maps a calendar date to the instant it begins in loc.
func localMidnight(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}

type AnalyticsService struct {
	store     *repositories.Store
	cfg       *models.Config
	cache     *cache.TTL[any]
	publisher events.Publisher
	now       func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewAnalyticsService(store *repositories.Store, cfg *models.Config, publisher events.Publisher) *AnalyticsService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &AnalyticsService{
		store:     store,
		cfg:       cfg,
		cache:     cache.NewTTL[any](cfg.CacheTTL),
		publisher: publisher,
		now:       time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithClock replaces the time source for the service and its cache.
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	s.cache.WithClock(now)
	return s
}

// WithRand replaces the forecast jitter source.
func (s *AnalyticsService) WithRand(rng *rand.Rand) *AnalyticsService {
	s.rngMu.Lock()
	s.rng = rng
	s.rngMu.Unlock()
	return s
}

// Today is the current calendar date in the restaurant's timezone.
func (s *AnalyticsService) Today(restaurant *models.Restaurant) time.Time {
	return analytics.CalendarDate(s.now(), restaurant.Location())
}

func (s *AnalyticsService) Restaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	restaurant, err := s.store.Restaurants.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("restaurant %s: %w", id, err)
	}
	return restaurant, nil
}

func (s *AnalyticsService) Restaurants(ctx context.Context) ([]*models.Restaurant, error) {
	return s.store.Restaurants.GetAll(ctx)
}

// DefaultRange is the trailing 30 days ending today, local to the restaurant.
func (s *AnalyticsService) DefaultRange(restaurant *models.Restaurant) DateRange {
	today := s.Today(restaurant)
	return DateRange{Start: today.AddDate(0, 0, -29), End: today}
}

// Invalidate drops every cached result for a restaurant.
func (s *AnalyticsService) Invalidate(restaurantID string) int {
	return s.cache.Invalidate(restaurantID + "|")
}

func cacheKey(restaurantID, operation string, params ...interface{}) string {
	parts := make([]string, 0, len(params)+2)
	parts = append(parts, restaurantID, operation)
	for _, p := range params {
		parts = append(parts, fmt.Sprint(p))
	}
	return strings.Join(parts, "|")
}

// cached reads through the service cache; load errors are not stored. The
// load is shared by every concurrent caller of the key, so it runs detached
// from the first caller's cancellation.
func cached[T any](ctx context.Context, s *AnalyticsService, key string, load func(context.Context) (T, error)) (T, error) {
	loadCtx := context.WithoutCancel(ctx)
	v, err := s.cache.GetOrLoad(key, func() (any, error) {
		value, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (s *AnalyticsService) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		log.Warn().Err(err).
			Str("event_type", e.Type).
			Str("restaurant_id", e.RestaurantID).
			Msg("failed to publish event")
	}
}

func (s *AnalyticsService) activeMenu(ctx context.Context, restaurantID string) ([]*models.MenuItem, error) {
	menu, err := s.store.MenuItems.GetByRestaurantID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}
	active := menu[:0:0]
	for _, item := range menu {
		if item.Active {
			active = append(active, item)
		}
	}
	return active, nil
}

func (s *AnalyticsService) itemSales(ctx context.Context, restaurant *models.Restaurant, r DateRange) ([]analytics.ItemSales, error) {
	menu, err := s.activeMenu(ctx, restaurant.ID)
	if err != nil {
		return nil, err
	}
	start, end := r.bounds(restaurant.Location())
	lines, err := s.store.OrderItems.ForClosedOrdersBetween(ctx, restaurant.ID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	return analytics.AggregateItemSales(menu, lines), nil
}
