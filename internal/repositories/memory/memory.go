// Package memory is a mutex-guarded, map-backed implementation of the
// repositories used by tests and by `serve --in-memory`.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/models"
	"github.com/chrisdamba/flavormetrics/internal/repositories"
)

type demandKey struct {
	restaurantID string
	date         string
}

type itemDemandKey struct {
	restaurantID string
	menuItemID   string
	date         string
}

// DB holds every table. Rows are copied in and out so callers never share
// memory with the store.
type DB struct {
	mu            sync.RWMutex
	restaurants   map[string]models.Restaurant
	orders        map[string]models.Order
	orderItems    []models.OrderItem
	menuItems     map[string]models.MenuItem
	customers     map[string]models.Customer
	staff         map[string]models.Staff
	shifts        []models.Shift
	inventory     map[string]models.InventoryItem
	waste         []models.WasteEntry
	reviews       []models.Review
	demand        map[demandKey]models.DemandForecast
	itemDemand    map[itemDemandKey]models.ItemForecast
	menuOrdering  []string
	staffOrdering []string
}

func NewDB() *DB {
	return &DB{
		restaurants: make(map[string]models.Restaurant),
		orders:      make(map[string]models.Order),
		menuItems:   make(map[string]models.MenuItem),
		customers:   make(map[string]models.Customer),
		staff:       make(map[string]models.Staff),
		inventory:   make(map[string]models.InventoryItem),
		demand:      make(map[demandKey]models.DemandForecast),
		itemDemand:  make(map[itemDemandKey]models.ItemForecast),
	}
}

// NewStore wires every repository over a fresh DB.
func NewStore() *repositories.Store {
	return NewDB().Store()
}

func (db *DB) Store() *repositories.Store {
	return &repositories.Store{
		Restaurants: &RestaurantRepository{db: db},
		Orders:      &OrderRepository{db: db},
		OrderItems:  &OrderItemRepository{db: db},
		MenuItems:   &MenuItemRepository{db: db},
		Customers:   &CustomerRepository{db: db},
		Staff:       &StaffRepository{db: db},
		Shifts:      &ShiftRepository{db: db},
		Inventory:   &InventoryRepository{db: db},
		Reviews:     &ReviewRepository{db: db},
		Forecasts:   &ForecastRepository{db: db},
	}
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func dateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

type RestaurantRepository struct{ db *DB }

func (r *RestaurantRepository) BulkCreate(ctx context.Context, restaurants []*models.Restaurant) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rest := range restaurants {
		r.db.restaurants[rest.ID] = *rest
	}
	return nil
}

func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (*models.Restaurant, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	rest, ok := r.db.restaurants[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &rest, nil
}

func (r *RestaurantRepository) GetAll(ctx context.Context) ([]*models.Restaurant, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]*models.Restaurant, 0, len(r.db.restaurants))
	for _, rest := range r.db.restaurants {
		rest := rest
		out = append(out, &rest)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type OrderRepository struct{ db *DB }

func (r *OrderRepository) BulkCreate(ctx context.Context, orders []*models.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, o := range orders {
		r.db.orders[o.ID] = *o
	}
	return nil
}

func (r *OrderRepository) ClosedBetween(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*models.Order
	for _, o := range r.db.orders {
		if closedInRange(o, restaurantID, start, end) {
			o := o
			out = append(out, &o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClosedAt.Before(*out[j].ClosedAt) })
	return out, nil
}

func closedInRange(o models.Order, restaurantID string, start, end time.Time) bool {
	return o.RestaurantID == restaurantID &&
		o.Status == models.OrderStatusClosed &&
		o.ClosedAt != nil &&
		inRange(*o.ClosedAt, start, end)
}

type OrderItemRepository struct{ db *DB }

func (r *OrderItemRepository) BulkCreate(ctx context.Context, items []*models.OrderItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, it := range items {
		r.db.orderItems = append(r.db.orderItems, *it)
	}
	return nil
}

func (r *OrderItemRepository) ForClosedOrdersBetween(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.OrderItem, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*models.OrderItem
	for _, it := range r.db.orderItems {
		o, ok := r.db.orders[it.OrderID]
		if !ok || !closedInRange(o, restaurantID, start, end) {
			continue
		}
		it := it
		out = append(out, &it)
	}
	return out, nil
}

type MenuItemRepository struct{ db *DB }

func (r *MenuItemRepository) BulkCreate(ctx context.Context, menuItems []*models.MenuItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, m := range menuItems {
		if _, exists := r.db.menuItems[m.ID]; !exists {
			r.db.menuOrdering = append(r.db.menuOrdering, m.ID)
		}
		r.db.menuItems[m.ID] = *m
	}
	return nil
}

func (r *MenuItemRepository) GetByRestaurantID(ctx context.Context, restaurantID string) ([]*models.MenuItem, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*models.MenuItem
	for _, id := range r.db.menuOrdering {
		m := r.db.menuItems[id]
		if m.RestaurantID == restaurantID && m.Active {
			out = append(out, &m)
		}
	}
	return out, nil
}

type CustomerRepository struct{ db *DB }

func (r *CustomerRepository) BulkCreate(ctx context.Context, customers []*models.Customer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, c := range customers {
		r.db.customers[c.ID] = *c
	}
	return nil
}

func (r *CustomerRepository) GetByRestaurantID(ctx context.Context, restaurantID string) ([]*models.Customer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*models.Customer
	for _, c := range r.db.customers {
		if c.RestaurantID == restaurantID {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CustomerRepository) UpdateScores(ctx context.Context, scores []models.CustomerScore) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range scores {
		c, ok := r.db.customers[s.CustomerID]
		if !ok {
			continue
		}
		c.RFMSegment = s.Segment
		c.ChurnRisk = s.ChurnRisk
		r.db.customers[s.CustomerID] = c
	}
	return nil
}

type StaffRepository struct{ db *DB }

func (r *StaffRepository) BulkCreate(ctx context.Context, staff []*models.Staff) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range staff {
		if _, exists := r.db.staff[s.ID]; !exists {
			r.db.staffOrdering = append(r.db.staffOrdering, s.ID)
		}
		r.db.staff[s.ID] = *s
	}
	return nil
}

// ActiveByRestaurantID returns the roster in insertion order; the labor
// allocator assigns greedily in this order.
func (r *StaffRepository) ActiveByRestaurantID(ctx context.Context, restaurantID string) ([]*models.Staff, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*models.Staff
	for _, id := range r.db.staffOrdering {
		s := r.db.staff[id]
		if s.RestaurantID == restaurantID && s.Active {
			out = append(out, &s)
		}
	}
	return out, nil
}

func (r *StaffRepository) GetByRestaurantID(ctx context.Context, restaurantID string) ([]*models.Staff, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*models.Staff
	for _, id := range r.db.staffOrdering {
		s := r.db.staff[id]
		if s.RestaurantID == restaurantID {
			out = append(out, &s)
		}
	}
	return out, nil
}

type ShiftRepository struct{ db *DB }

func (r *ShiftRepository) BulkCreate(ctx context.Context, shifts []*models.Shift) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, s := range shifts {
		r.db.shifts = append(r.db.shifts, *s)
	}
	return nil
}

func (r *ShiftRepository) Between(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.Shift, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*models.Shift
	for _, s := range r.db.shifts {
		if s.RestaurantID == restaurantID && inRange(s.ScheduledStart, start, end) {
			s := s
			out = append(out, &s)
		}
	}
	return out, nil
}

type InventoryRepository struct{ db *DB }

func (r *InventoryRepository) BulkCreateItems(ctx context.Context, items []*models.InventoryItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, it := range items {
		r.db.inventory[it.ID] = *it
	}
	return nil
}

func (r *InventoryRepository) BulkCreateWaste(ctx context.Context, entries []*models.WasteEntry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, w := range entries {
		r.db.waste = append(r.db.waste, *w)
	}
	return nil
}

func (r *InventoryRepository) ItemsByRestaurantID(ctx context.Context, restaurantID string) ([]*models.InventoryItem, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*models.InventoryItem
	for _, it := range r.db.inventory {
		if it.RestaurantID == restaurantID {
			it := it
			out = append(out, &it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *InventoryRepository) WasteBetween(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.WasteEntry, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*models.WasteEntry
	for _, w := range r.db.waste {
		if w.RestaurantID == restaurantID && inRange(w.RecordedAt, start, end) {
			w := w
			out = append(out, &w)
		}
	}
	return out, nil
}

type ReviewRepository struct{ db *DB }

func (r *ReviewRepository) BulkCreate(ctx context.Context, reviews []*models.Review) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rv := range reviews {
		r.db.reviews = append(r.db.reviews, *rv)
	}
	return nil
}

func (r *ReviewRepository) Between(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.Review, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*models.Review
	for _, rv := range r.db.reviews {
		if rv.RestaurantID == restaurantID && inRange(rv.CreatedAt, start, end) {
			rv := rv
			out = append(out, &rv)
		}
	}
	return out, nil
}

type ForecastRepository struct{ db *DB }

func (r *ForecastRepository) UpsertDemand(ctx context.Context, forecasts []*models.DemandForecast) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, f := range forecasts {
		r.db.demand[demandKey{f.RestaurantID, dateKey(f.Date)}] = *f
	}
	return nil
}

func (r *ForecastRepository) UpsertItemDemand(ctx context.Context, forecasts []*models.ItemForecast) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, f := range forecasts {
		r.db.itemDemand[itemDemandKey{f.RestaurantID, f.MenuItemID, dateKey(f.Date)}] = *f
	}
	return nil
}

func (r *ForecastRepository) DemandBetween(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.DemandForecast, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*models.DemandForecast
	for k, f := range r.db.demand {
		if k.restaurantID == restaurantID && inRange(f.Date, start, end) {
			f := f
			out = append(out, &f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *ForecastRepository) ItemDemandBetween(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.ItemForecast, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*models.ItemForecast
	for k, f := range r.db.itemDemand {
		if k.restaurantID == restaurantID && inRange(f.Date, start, end) {
			f := f
			out = append(out, &f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].MenuItemID < out[j].MenuItemID
	})
	return out, nil
}
