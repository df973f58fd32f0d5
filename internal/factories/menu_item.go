package factories

import (
	"math"

	"github.com/lucsky/cuid"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

const (
	CategoryStarters = "starters"
	CategoryMains    = "mains"
	CategoryDesserts = "desserts"
	CategoryDrinks   = "drinks"
)

var mainsByCuisine = map[string][]string{
	"Italian":       {"Margherita Pizza", "Spaghetti Carbonara", "Lasagna", "Risotto ai Funghi", "Osso Buco"},
	"Indian":        {"Chicken Tikka Masala", "Vegetable Curry", "Biryani", "Paneer Butter Masala", "Lamb Rogan Josh"},
	"American":      {"Classic Cheeseburger", "BBQ Ribs", "Mac and Cheese", "Fried Chicken", "Club Sandwich"},
	"Japanese":      {"Sushi Roll", "Ramen", "Tempura", "Chicken Katsu", "Unagi Don"},
	"Mexican":       {"Tacos", "Burrito", "Enchiladas", "Quesadilla", "Carne Asada"},
	"Chinese":       {"Kung Pao Chicken", "Fried Rice", "Mapo Tofu", "Sweet and Sour Pork", "Chow Mein"},
	"Thai":          {"Pad Thai", "Green Curry", "Massaman Curry", "Basil Chicken", "Pad See Ew"},
	"Greek":         {"Gyros", "Moussaka", "Souvlaki", "Spanakopita", "Grilled Octopus"},
	"French":        {"Coq au Vin", "Beef Bourguignon", "Ratatouille", "Steak Frites", "Duck Confit"},
	"Mediterranean": {"Falafel Plate", "Grilled Halloumi", "Shawarma", "Lamb Kofta", "Stuffed Peppers"},
}

var sideMenu = map[string][]string{
	CategoryStarters: {"Soup of the Day", "Garden Salad", "Garlic Bread", "Calamari", "Bruschetta"},
	CategoryDesserts: {"Chocolate Cake", "Cheesecake", "Ice Cream", "Fruit Tart"},
	CategoryDrinks:   {"Soda", "Iced Tea", "Lemonade", "House Wine", "Craft Beer", "Espresso"},
}

var priceRanges = map[string][2]int{
	CategoryStarters: {6, 14},
	CategoryMains:    {14, 38},
	CategoryDesserts: {6, 12},
	CategoryDrinks:   {3, 11},
}

type MenuItemFactory struct {
	g *Generator
}

// CreateMenu builds a restaurant's active menu. A few dishes are left
// uncosted, as kitchens often are.
func (mf *MenuItemFactory) CreateMenu(restaurant *models.Restaurant, cuisine string) []*models.MenuItem {
	var menu []*models.MenuItem
	for _, name := range mainsByCuisine[cuisine] {
		menu = append(menu, mf.createMenuItem(restaurant, name, CategoryMains))
	}
	for _, category := range []string{CategoryStarters, CategoryDesserts, CategoryDrinks} {
		for _, name := range sideMenu[category] {
			menu = append(menu, mf.createMenuItem(restaurant, name, category))
		}
	}
	return menu
}

func (mf *MenuItemFactory) createMenuItem(restaurant *models.Restaurant, name, category string) *models.MenuItem {
	r := priceRanges[category]
	price := math.Round(mf.g.fake.Float64(2, r[0], r[1])*2) / 2
	item := &models.MenuItem{
		ID:           cuid.New(),
		RestaurantID: restaurant.ID,
		Name:         name,
		Category:     category,
		Price:        price,
		Active:       true,
	}
	if mf.g.rng.Float64() > 0.1 {
		costRatio := 0.22 + mf.g.rng.Float64()*0.18
		cost := math.Round(price*costRatio*100) / 100
		item.Cost = &cost
	}
	return item
}
