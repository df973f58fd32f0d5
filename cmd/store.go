package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/chrisdamba/flavormetrics/internal/events"
	"github.com/chrisdamba/flavormetrics/internal/factories"
	"github.com/chrisdamba/flavormetrics/internal/repositories"
	"github.com/chrisdamba/flavormetrics/internal/repositories/memory"
	"github.com/chrisdamba/flavormetrics/internal/repositories/postgres"
	"github.com/chrisdamba/flavormetrics/internal/service"
)

// openStore connects to Postgres, or builds a memory store holding a freshly
// generated demo dataset when in_memory is set.
func openStore(ctx context.Context) (*repositories.Store, func(), error) {
	if cfg.InMemory {
		store := memory.NewStore()
		d := factories.NewGenerator(cfg.Seed, factories.Options{Restaurants: 3}).Generate(nil)
		if err := store.Load(ctx, d, nil); err != nil {
			return nil, nil, fmt.Errorf("failed to load demo data: %w", err)
		}
		log.Info().
			Int64("seed", cfg.Seed).
			Int("restaurants", len(d.Restaurants)).
			Int("orders", len(d.Orders)).
			Msg("using in-memory store with demo data")
		return store, func() {}, nil
	}

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return postgres.NewStore(pool), pool.Close, nil
}

// newService wires the store and event publisher into the analytics service.
func newService(ctx context.Context) (*service.AnalyticsService, func(), error) {
	store, closeStore, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	publisher, err := events.NewPublisher(cfg.Kafka)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	cleanup := func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close event publisher")
		}
		closeStore()
	}
	return service.NewAnalyticsService(store, cfg, publisher), cleanup, nil
}

// targetRestaurants returns the ids given on the command line, or every
// restaurant in the store.
func targetRestaurants(ctx context.Context, svc *service.AnalyticsService, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	restaurants, err := svc.Restaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	ids := make([]string, len(restaurants))
	for i, r := range restaurants {
		ids[i] = r.ID
	}
	return ids, nil
}
