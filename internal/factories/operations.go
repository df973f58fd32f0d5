package factories

import (
	"math"
	"time"

	"github.com/lucsky/cuid"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

var pantry = []struct {
	name     string
	category string
	unit     string
	minCost  int
	maxCost  int
	par      float64
}{
	{"Chicken Breast", "protein", "kg", 6, 11, 25},
	{"Beef Chuck", "protein", "kg", 9, 16, 18},
	{"Salmon Fillet", "protein", "kg", 14, 24, 10},
	{"Tofu", "protein", "kg", 3, 6, 8},
	{"Rice", "dry goods", "kg", 1, 3, 40},
	{"Pasta", "dry goods", "kg", 2, 4, 30},
	{"Flour", "dry goods", "kg", 1, 2, 35},
	{"Tomatoes", "produce", "kg", 2, 5, 20},
	{"Onions", "produce", "kg", 1, 3, 25},
	{"Lettuce", "produce", "each", 1, 3, 30},
	{"Mixed Herbs", "produce", "kg", 10, 20, 3},
	{"Mozzarella", "dairy", "kg", 7, 13, 10},
	{"Butter", "dairy", "kg", 6, 10, 8},
	{"Cream", "dairy", "l", 3, 6, 12},
	{"Olive Oil", "pantry", "l", 6, 12, 10},
	{"House Wine", "beverage", "l", 5, 12, 30},
	{"Craft Beer", "beverage", "each", 1, 3, 120},
}

var wasteReasons = []string{
	models.WasteReasonSpoilage,
	models.WasteReasonPrep,
	models.WasteReasonReturn,
	models.WasteReasonOverprod,
}

// review comment fragments, grouped by the star rating they fit
var reviewTemplates = map[int][]string{
	5: {
		"The food was outstanding and the service was attentive.",
		"Lovely atmosphere, every dish was full of flavor.",
		"Great value for the portion size. Will be back!",
	},
	4: {
		"Good meal, friendly staff.",
		"Tasty food, a little noise from the bar but worth it.",
		"Quick service and a solid menu.",
	},
	3: {
		"Food was fine, nothing special.",
		"Decent dish but the wait was long.",
		"Okay experience, a bit expensive for what you get.",
	},
	2: {
		"Slow service and the food arrived cold.",
		"Overpriced for the portion. Not worth it.",
		"The music was too loud and our server forgot us.",
	},
	1: {
		"Terrible service, waited an hour for a meal.",
		"The dish tasted off and staff did not care.",
		"Way too expensive and the food was bland.",
	},
}

var ratingWeights = []float64{0.05, 0.08, 0.17, 0.35, 0.35}

var reviewSources = []string{"google", "yelp", "tripadvisor", "in_house"}

const reviewRate = 0.08

type OperationsFactory struct {
	g *Generator
}

// CreateInventory stocks the pantry somewhere between empty and twice par.
func (of *OperationsFactory) CreateInventory(restaurant *models.Restaurant) []*models.InventoryItem {
	items := make([]*models.InventoryItem, 0, len(pantry))
	for _, p := range pantry {
		items = append(items, &models.InventoryItem{
			ID:             cuid.New(),
			RestaurantID:   restaurant.ID,
			Name:           p.name,
			Category:       p.category,
			Unit:           p.unit,
			UnitCost:       of.g.fake.Float64(2, p.minCost, p.maxCost),
			QuantityOnHand: math.Round(p.par*of.g.rng.Float64()*2*10) / 10,
			ParLevel:       p.par,
		})
	}
	return items
}

// CreateWaste logs a waste entry on roughly a third of the days.
func (of *OperationsFactory) CreateWaste(restaurant *models.Restaurant, inventory []*models.InventoryItem, days []time.Time) []*models.WasteEntry {
	if len(inventory) == 0 {
		return nil
	}
	var waste []*models.WasteEntry
	for _, day := range days {
		if of.g.rng.Float64() >= 0.3 {
			continue
		}
		item := inventory[of.g.rng.Intn(len(inventory))]
		waste = append(waste, &models.WasteEntry{
			ID:              cuid.New(),
			RestaurantID:    restaurant.ID,
			InventoryItemID: item.ID,
			Quantity:        math.Round(item.ParLevel*(0.02+of.g.rng.Float64()*0.1)*100) / 100,
			Reason:          of.g.fake.RandomStringElement(wasteReasons),
			RecordedAt:      day.Add(time.Duration(20+of.g.rng.Intn(4)) * time.Hour),
		})
	}
	return waste
}

// CreateReviews has a small share of linked, closed orders leave a review
// the day after their visit.
func (of *OperationsFactory) CreateReviews(restaurant *models.Restaurant, orders []*models.Order, now time.Time) []*models.Review {
	var reviews []*models.Review
	for _, o := range orders {
		if o.CustomerID == "" || o.ClosedAt == nil || of.g.rng.Float64() >= reviewRate {
			continue
		}
		created := o.ClosedAt.Add(time.Duration(2+of.g.rng.Intn(22)) * time.Hour)
		if created.After(now) {
			continue
		}
		rating := of.pickRating()
		reviews = append(reviews, &models.Review{
			ID:           cuid.New(),
			RestaurantID: restaurant.ID,
			CustomerID:   o.CustomerID,
			Rating:       rating,
			Comment:      of.g.fake.RandomStringElement(reviewTemplates[rating]),
			Source:       of.g.fake.RandomStringElement(reviewSources),
			CreatedAt:    created,
		})
	}
	return reviews
}

func (of *OperationsFactory) pickRating() int {
	r := of.g.rng.Float64()
	cumulative := 0.0
	for i, w := range ratingWeights {
		cumulative += w
		if r < cumulative {
			return i + 1
		}
	}
	return len(ratingWeights)
}
