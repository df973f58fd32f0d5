package factories

import (
	"github.com/lucsky/cuid"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

// customerProfile drives how often a generated guest comes back.
type customerProfile struct {
	ratio  float64
	weight float64
}

var customerProfiles = map[string]customerProfile{
	"frequent":   {ratio: 0.15, weight: 6},
	"regular":    {ratio: 0.35, weight: 2},
	"occasional": {ratio: 0.50, weight: 0.5},
}

type CustomerFactory struct {
	g *Generator
}

// guest is a customer plus the visit behaviour used while simulating orders.
type guest struct {
	customer *models.Customer
	weight   float64
	// lapsedAfter is the history day index after which the guest stops
	// visiting; -1 when they never lapse.
	lapsedAfter int
}

func (cf *CustomerFactory) assignProfile() string {
	r := cf.g.rng.Float64()
	if r < customerProfiles["frequent"].ratio {
		return "frequent"
	} else if r < customerProfiles["frequent"].ratio+customerProfiles["regular"].ratio {
		return "regular"
	}
	return "occasional"
}

func (cf *CustomerFactory) CreateCustomer(restaurant *models.Restaurant) *models.Customer {
	return &models.Customer{
		ID:           cuid.New(),
		RestaurantID: restaurant.ID,
		Name:         cf.g.fake.Person().Name(),
		Email:        cf.g.fake.Internet().Email(),
	}
}

func (cf *CustomerFactory) createGuests(restaurant *models.Restaurant, n, days int) []*guest {
	guests := make([]*guest, n)
	for i := range guests {
		profile := customerProfiles[cf.assignProfile()]
		lapsed := -1
		if cf.g.rng.Float64() < 0.25 {
			lapsed = cf.g.rng.Intn(days)
		}
		guests[i] = &guest{
			customer:    cf.CreateCustomer(restaurant),
			weight:      profile.weight,
			lapsedAfter: lapsed,
		}
	}
	return guests
}
