package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

// ErrNotFound is returned when a looked-up entity does not exist.
var ErrNotFound = errors.New("not found")

// Range queries take a half-open [start, end) interval.

type RestaurantRepository interface {
	BulkCreate(ctx context.Context, restaurants []*models.Restaurant) error
	GetByID(ctx context.Context, id string) (*models.Restaurant, error)
	GetAll(ctx context.Context) ([]*models.Restaurant, error)
}

type OrderRepository interface {
	BulkCreate(ctx context.Context, orders []*models.Order) error
	ClosedBetween(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.Order, error)
}

type OrderItemRepository interface {
	BulkCreate(ctx context.Context, items []*models.OrderItem) error
	ForClosedOrdersBetween(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.OrderItem, error)
}

type MenuItemRepository interface {
	BulkCreate(ctx context.Context, menuItems []*models.MenuItem) error
	GetByRestaurantID(ctx context.Context, restaurantID string) ([]*models.MenuItem, error)
}

type CustomerRepository interface {
	BulkCreate(ctx context.Context, customers []*models.Customer) error
	GetByRestaurantID(ctx context.Context, restaurantID string) ([]*models.Customer, error)
	UpdateScores(ctx context.Context, scores []models.CustomerScore) error
}

type StaffRepository interface {
	BulkCreate(ctx context.Context, staff []*models.Staff) error
	ActiveByRestaurantID(ctx context.Context, restaurantID string) ([]*models.Staff, error)
	// GetByRestaurantID includes inactive members, whose past shifts still cost.
	GetByRestaurantID(ctx context.Context, restaurantID string) ([]*models.Staff, error)
}

type ShiftRepository interface {
	BulkCreate(ctx context.Context, shifts []*models.Shift) error
	Between(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.Shift, error)
}

type InventoryRepository interface {
	BulkCreateItems(ctx context.Context, items []*models.InventoryItem) error
	BulkCreateWaste(ctx context.Context, entries []*models.WasteEntry) error
	ItemsByRestaurantID(ctx context.Context, restaurantID string) ([]*models.InventoryItem, error)
	WasteBetween(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.WasteEntry, error)
}

type ReviewRepository interface {
	BulkCreate(ctx context.Context, reviews []*models.Review) error
	Between(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.Review, error)
}

// ForecastRepository keeps exactly one row per restaurant and date; upserts
// overwrite unconditionally and concurrent writers race with last-write-wins.
type ForecastRepository interface {
	UpsertDemand(ctx context.Context, forecasts []*models.DemandForecast) error
	UpsertItemDemand(ctx context.Context, forecasts []*models.ItemForecast) error
	DemandBetween(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.DemandForecast, error)
	ItemDemandBetween(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.ItemForecast, error)
}

// Store bundles the repositories the analytics read from.
type Store struct {
	Restaurants RestaurantRepository
	Orders      OrderRepository
	OrderItems  OrderItemRepository
	MenuItems   MenuItemRepository
	Customers   CustomerRepository
	Staff       StaffRepository
	Shifts      ShiftRepository
	Inventory   InventoryRepository
	Reviews     ReviewRepository
	Forecasts   ForecastRepository
}

// Dataset is one restaurant's worth of rows, used for seeding a store.
type Dataset struct {
	Restaurants []*models.Restaurant
	MenuItems   []*models.MenuItem
	Customers   []*models.Customer
	Staff       []*models.Staff
	Orders      []*models.Order
	OrderItems  []*models.OrderItem
	Shifts      []*models.Shift
	Inventory   []*models.InventoryItem
	Waste       []*models.WasteEntry
	Reviews     []*models.Review
}

// Load bulk-inserts a dataset in dependency order. done, when set, is called
// after each table is written.
func (s *Store) Load(ctx context.Context, d *Dataset, done func(table string)) error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"restaurants", func() error { return s.Restaurants.BulkCreate(ctx, d.Restaurants) }},
		{"menu items", func() error { return s.MenuItems.BulkCreate(ctx, d.MenuItems) }},
		{"customers", func() error { return s.Customers.BulkCreate(ctx, d.Customers) }},
		{"staff", func() error { return s.Staff.BulkCreate(ctx, d.Staff) }},
		{"orders", func() error { return s.Orders.BulkCreate(ctx, d.Orders) }},
		{"order items", func() error { return s.OrderItems.BulkCreate(ctx, d.OrderItems) }},
		{"shifts", func() error { return s.Shifts.BulkCreate(ctx, d.Shifts) }},
		{"inventory", func() error { return s.Inventory.BulkCreateItems(ctx, d.Inventory) }},
		{"waste", func() error { return s.Inventory.BulkCreateWaste(ctx, d.Waste) }},
		{"reviews", func() error { return s.Reviews.BulkCreate(ctx, d.Reviews) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return fmt.Errorf("loading %s: %w", step.name, err)
		}
		if done != nil {
			done(step.name)
		}
	}
	return nil
}
