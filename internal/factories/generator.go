// Package factories generates seeded, realistic restaurant history for demo
// stores and tests.
package factories

import (
	"math"
	"math/rand"
	"time"

	"github.com/jaswdr/faker"

	"github.com/chrisdamba/flavormetrics/internal/analytics"
	"github.com/chrisdamba/flavormetrics/internal/models"
	"github.com/chrisdamba/flavormetrics/internal/repositories"
)

type Options struct {
	Restaurants  int
	Days         int // days of history ending yesterday
	CustomersPer int
	Now          time.Time
}

func (o Options) withDefaults() Options {
	if o.Restaurants <= 0 {
		o.Restaurants = 1
	}
	if o.Days <= 0 {
		o.Days = 90
	}
	if o.CustomersPer <= 0 {
		o.CustomersPer = 200
	}
	if o.Now.IsZero() {
		o.Now = time.Now().UTC()
	}
	return o
}

type Generator struct {
	fake faker.Faker
	rng  *rand.Rand
	opts Options

	restaurants RestaurantFactory
	menus       MenuItemFactory
	customers   CustomerFactory
	staff       StaffFactory
	orders      OrderFactory
	operations  OperationsFactory
}

func NewGenerator(seed int64, opts Options) *Generator {
	g := &Generator{
		fake: faker.NewWithSeed(rand.NewSource(seed)),
		rng:  rand.New(rand.NewSource(seed + 1)),
		opts: opts.withDefaults(),
	}
	g.restaurants.g = g
	g.menus.g = g
	g.customers.g = g
	g.staff.g = g
	g.orders.g = g
	g.operations.g = g
	return g
}

// Generate builds the whole dataset. progress, when set, is called with the
// name of each restaurant once it is done.
func (g *Generator) Generate(progress func(restaurant string)) *repositories.Dataset {
	d := &repositories.Dataset{}
	for i := 0; i < g.opts.Restaurants; i++ {
		g.generateRestaurant(d)
		if progress != nil {
			progress(d.Restaurants[len(d.Restaurants)-1].Name)
		}
	}
	return d
}

func (g *Generator) generateRestaurant(d *repositories.Dataset) {
	now := g.opts.Now
	restaurant, cuisine := g.restaurants.CreateRestaurant(now.AddDate(0, 0, -g.opts.Days-30))
	loc := restaurant.Location()
	days := historyDays(now, loc, g.opts.Days)

	menu := g.menus.CreateMenu(restaurant, cuisine)
	byCategory := make(map[string][]*models.MenuItem)
	for _, item := range menu {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	guests := g.customers.createGuests(restaurant, g.opts.CustomersPer, len(days))
	roster := g.staff.CreateRoster(restaurant)

	var (
		orders []*models.Order
		lines  []*models.OrderItem
	)
	for i, day := range days {
		o, l := g.orders.SimulateDay(restaurant, byCategory, guests, i, day)
		orders = append(orders, o...)
		lines = append(lines, l...)
	}
	for _, o := range orders {
		// a late table may still be seated
		if o.ClosedAt != nil && o.ClosedAt.After(now) {
			o.Status = models.OrderStatusOpen
			o.ClosedAt = nil
			o.Tip = 0
		}
	}

	customers := make([]*models.Customer, len(guests))
	for i, gu := range guests {
		customers[i] = gu.customer
	}
	fillCustomerStats(customers, orders)
	for i, score := range analytics.ScoreCustomers(customers, now) {
		customers[i].RFMSegment = score.Segment
		customers[i].ChurnRisk = score.ChurnRisk
	}

	inventory := g.operations.CreateInventory(restaurant)

	d.Restaurants = append(d.Restaurants, restaurant)
	d.MenuItems = append(d.MenuItems, menu...)
	d.Customers = append(d.Customers, customers...)
	d.Staff = append(d.Staff, roster...)
	d.Orders = append(d.Orders, orders...)
	d.OrderItems = append(d.OrderItems, lines...)
	d.Shifts = append(d.Shifts, g.staff.ScheduleShifts(restaurant, roster, days)...)
	d.Inventory = append(d.Inventory, inventory...)
	d.Waste = append(d.Waste, g.operations.CreateWaste(restaurant, inventory, days)...)
	d.Reviews = append(d.Reviews, g.operations.CreateReviews(restaurant, orders, now)...)
}

// historyDays returns local midnights for the n days before now's local date.
func historyDays(now time.Time, loc *time.Location, n int) []time.Time {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	days := make([]time.Time, n)
	for i := 0; i < n; i++ {
		days[i] = today.AddDate(0, 0, i-n)
	}
	return days
}

// fillCustomerStats derives visit aggregates from closed orders.
func fillCustomerStats(customers []*models.Customer, orders []*models.Order) {
	byID := make(map[string]*models.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}
	for _, o := range orders {
		c, ok := byID[o.CustomerID]
		if !ok || o.ClosedAt == nil {
			continue
		}
		c.VisitCount++
		c.TotalSpent += o.Total
		at := *o.ClosedAt
		if c.FirstVisitAt == nil || at.Before(*c.FirstVisitAt) {
			c.FirstVisitAt = &at
		}
		if c.LastVisitAt == nil || at.After(*c.LastVisitAt) {
			last := at
			c.LastVisitAt = &last
		}
	}
	for _, c := range customers {
		c.TotalSpent = math.Round(c.TotalSpent*100) / 100
		if c.VisitCount > 0 {
			c.AvgCheck = math.Round(c.TotalSpent/float64(c.VisitCount)*100) / 100
		}
	}
}
