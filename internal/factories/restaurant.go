package factories

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lucsky/cuid"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

var timezones = []string{
	"America/New_York",
	"America/Chicago",
	"America/Los_Angeles",
	"Europe/London",
	"Africa/Johannesburg",
}

var cuisines = []string{"Italian", "Indian", "American", "Japanese", "Mexican", "Chinese", "Thai", "Greek", "French", "Mediterranean"}

type RestaurantFactory struct {
	g         *Generator
	nameCache sync.Map // names already handed out
}

// CreateRestaurant returns a restaurant and the cuisine its menu is built
// around.
func (rf *RestaurantFactory) CreateRestaurant(createdAt time.Time) (*models.Restaurant, string) {
	cuisine := rf.g.fake.RandomStringElement(cuisines)
	return &models.Restaurant{
		ID:        cuid.New(),
		Name:      rf.uniqueName(fmt.Sprintf("%s %s", rf.g.fake.Address().City(), cuisineNoun(cuisine))),
		Timezone:  rf.g.fake.RandomStringElement(timezones),
		SeatCount: rf.g.fake.IntBetween(30, 120),
		CreatedAt: createdAt,
	}, cuisine
}

func cuisineNoun(cuisine string) string {
	switch cuisine {
	case "Italian":
		return "Trattoria"
	case "Japanese":
		return "Izakaya"
	case "French":
		return "Bistro"
	case "Mexican":
		return "Cantina"
	default:
		return strings.TrimSpace(cuisine + " Kitchen")
	}
}

func (rf *RestaurantFactory) uniqueName(base string) string {
	name := base
	counter := 2
	for {
		if _, exists := rf.nameCache.LoadOrStore(name, true); !exists {
			return name
		}
		name = fmt.Sprintf("%s %d", base, counter)
		counter++
	}
}
