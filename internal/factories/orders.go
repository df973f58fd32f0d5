package factories

import (
	"math"
	"time"

	"github.com/lucsky/cuid"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

// ServicePattern describes one sitting of the day.
type ServicePattern struct {
	Name            string
	Share           float64
	TimeMultipliers map[int]float64
	// extra add-on probabilities on top of the base basket
	MenuPreferences map[string]float64
}

var (
	WeekdayMultipliers = map[time.Weekday]float64{
		time.Sunday:    1.1,
		time.Monday:    0.7,
		time.Tuesday:   0.8,
		time.Wednesday: 0.9,
		time.Thursday:  1.0,
		time.Friday:    1.35,
		time.Saturday:  1.45,
	}

	ServicePatterns = []ServicePattern{
		{
			Name:            "lunch",
			Share:           0.4,
			TimeMultipliers: map[int]float64{12: 2.0, 13: 2.0, 14: 1.0},
			MenuPreferences: map[string]float64{CategoryDrinks: 0.5},
		},
		{
			Name:            "dinner",
			Share:           0.6,
			TimeMultipliers: map[int]float64{18: 1.8, 19: 2.0, 20: 1.7, 21: 1.0},
			MenuPreferences: map[string]float64{CategoryDrinks: 0.7, CategoryDesserts: 0.1},
		},
	}

	basketProbability = map[string]float64{
		CategoryStarters: 0.5,
		CategoryDrinks:   0,
		CategoryDesserts: 0.3,
	}
)

const (
	tableTurnover    = 1.6
	voidOrderRate    = 0.03
	voidLineRate     = 0.02
	linkedOrderShare = 0.7
	maxPartySize     = 6
)

type OrderFactory struct {
	g *Generator
}

// dailyCovers is the expected headcount for a day, before parties are
// formed.
func (of *OrderFactory) dailyCovers(restaurant *models.Restaurant, day time.Weekday) int {
	base := float64(restaurant.SeatCount) * tableTurnover * WeekdayMultipliers[day]
	noise := 1 + of.g.rng.NormFloat64()*0.08
	return int(math.Max(0, math.Round(base*noise)))
}

// SimulateDay seats parties until the day's covers are used up. day is the
// local midnight of the service day.
func (of *OrderFactory) SimulateDay(restaurant *models.Restaurant, menu map[string][]*models.MenuItem, guests []*guest, dayIndex int, day time.Time) ([]*models.Order, []*models.OrderItem) {
	var (
		orders []*models.Order
		lines  []*models.OrderItem
	)
	remaining := of.dailyCovers(restaurant, day.Weekday())
	for remaining > 0 {
		party := 1 + of.g.rng.Intn(maxPartySize)
		if party > remaining {
			party = remaining
		}
		remaining -= party

		pattern := of.pickService()
		opened := day.Add(time.Duration(of.pickHour(pattern))*time.Hour + time.Duration(of.g.rng.Intn(60))*time.Minute)
		order := &models.Order{
			ID:           cuid.New(),
			RestaurantID: restaurant.ID,
			Status:       models.OrderStatusClosed,
			GuestCount:   party,
			OpenedAt:     opened,
		}
		if of.g.rng.Float64() < linkedOrderShare {
			if g := of.pickGuest(guests, dayIndex); g != nil {
				order.CustomerID = g.customer.ID
			}
		}

		items := of.basket(order, menu, pattern, party)
		for _, item := range items {
			if !item.Void {
				order.Total += item.UnitPrice * float64(item.Quantity)
			}
		}
		order.Total = math.Round(order.Total*100) / 100

		if of.g.rng.Float64() < voidOrderRate {
			order.Status = models.OrderStatusVoided
		} else {
			closed := opened.Add(time.Duration(45+of.g.rng.Intn(56)) * time.Minute)
			order.ClosedAt = &closed
			order.Tip = math.Round(order.Total*(0.10+of.g.rng.Float64()*0.10)*100) / 100
		}
		orders = append(orders, order)
		lines = append(lines, items...)
	}
	return orders, lines
}

func (of *OrderFactory) pickService() ServicePattern {
	r := of.g.rng.Float64()
	cumulative := 0.0
	for _, p := range ServicePatterns {
		cumulative += p.Share
		if r < cumulative {
			return p
		}
	}
	return ServicePatterns[len(ServicePatterns)-1]
}

func (of *OrderFactory) pickHour(p ServicePattern) int {
	total := 0.0
	for _, w := range p.TimeMultipliers {
		total += w
	}
	// map iteration order is random, so walk the hours in order
	r := of.g.rng.Float64() * total
	for hour := 0; hour < 24; hour++ {
		w, ok := p.TimeMultipliers[hour]
		if !ok {
			continue
		}
		if r < w {
			return hour
		}
		r -= w
	}
	return 19
}

// pickGuest chooses a returning guest weighted by their visit profile.
// Guests who have lapsed by dayIndex are skipped.
func (of *OrderFactory) pickGuest(guests []*guest, dayIndex int) *guest {
	total := 0.0
	for _, g := range guests {
		if g.active(dayIndex) {
			total += g.weight
		}
	}
	if total == 0 {
		return nil
	}
	r := of.g.rng.Float64() * total
	for _, g := range guests {
		if !g.active(dayIndex) {
			continue
		}
		if r < g.weight {
			return g
		}
		r -= g.weight
	}
	return nil
}

func (g *guest) active(dayIndex int) bool {
	return g.lapsedAfter < 0 || dayIndex <= g.lapsedAfter
}

// basket gives every guest a main and some add-ons. Repeat picks of the
// same dish collapse into one line.
func (of *OrderFactory) basket(order *models.Order, menu map[string][]*models.MenuItem, p ServicePattern, party int) []*models.OrderItem {
	quantities := make(map[string]int)
	var picked []*models.MenuItem
	add := func(item *models.MenuItem) {
		if item == nil {
			return
		}
		if quantities[item.ID] == 0 {
			picked = append(picked, item)
		}
		quantities[item.ID]++
	}

	for i := 0; i < party; i++ {
		add(of.pickItem(menu[CategoryMains]))
		for _, category := range []string{CategoryStarters, CategoryDrinks, CategoryDesserts} {
			if of.g.rng.Float64() < basketProbability[category]+p.MenuPreferences[category] {
				add(of.pickItem(menu[category]))
			}
		}
	}

	lines := make([]*models.OrderItem, 0, len(picked))
	for _, item := range picked {
		lines = append(lines, &models.OrderItem{
			ID:         cuid.New(),
			OrderID:    order.ID,
			MenuItemID: item.ID,
			Quantity:   quantities[item.ID],
			UnitPrice:  item.Price,
			Void:       of.g.rng.Float64() < voidLineRate,
		})
	}
	return lines
}

// pickItem favours dishes earlier in the list, so every menu ends up with
// clear bestsellers and slow movers.
func (of *OrderFactory) pickItem(items []*models.MenuItem) *models.MenuItem {
	if len(items) == 0 {
		return nil
	}
	total := 0.0
	for i := range items {
		total += popularity(i)
	}
	r := of.g.rng.Float64() * total
	for i, item := range items {
		if r < popularity(i) {
			return item
		}
		r -= popularity(i)
	}
	return items[len(items)-1]
}

func popularity(rank int) float64 {
	return 1 / math.Sqrt(float64(rank+1))
}
