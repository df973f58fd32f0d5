package postgres

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/chrisdamba/flavormetrics/internal/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// Connect opens a pool and verifies it with a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the tables the analytics read from when they are missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

func NewStore(pool *pgxpool.Pool) *repositories.Store {
	return &repositories.Store{
		Restaurants: NewRestaurantRepository(pool),
		Orders:      NewOrderRepository(pool),
		OrderItems:  NewOrderItemRepository(pool),
		MenuItems:   NewMenuItemRepository(pool),
		Customers:   NewCustomerRepository(pool),
		Staff:       NewStaffRepository(pool),
		Shifts:      NewShiftRepository(pool),
		Inventory:   NewInventoryRepository(pool),
		Reviews:     NewReviewRepository(pool),
		Forecasts:   NewForecastRepository(pool),
	}
}
