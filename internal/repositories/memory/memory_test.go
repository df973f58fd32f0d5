package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/models"
	"github.com/chrisdamba/flavormetrics/internal/repositories"
)

func TestForecastUpsertKeepsOneRowPerDate(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	first := &models.DemandForecast{RestaurantID: "r1", Date: day, PredictedCovers: 40}
	second := &models.DemandForecast{RestaurantID: "r1", Date: day, PredictedCovers: 55}
	other := &models.DemandForecast{RestaurantID: "r2", Date: day, PredictedCovers: 10}

	if err := store.Forecasts.UpsertDemand(ctx, []*models.DemandForecast{first, other}); err != nil {
		t.Fatal(err)
	}
	if err := store.Forecasts.UpsertDemand(ctx, []*models.DemandForecast{second}); err != nil {
		t.Fatal(err)
	}

	rows, err := store.Forecasts.DemandBetween(ctx, "r1", day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected exactly one row, got %d", len(rows))
	}
	if rows[0].PredictedCovers != 55 {
		t.Errorf("PredictedCovers = %d, want latest write 55", rows[0].PredictedCovers)
	}
}

func TestClosedBetweenFiltersStatusAndRange(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	in := start.Add(5 * time.Hour)
	out := start.AddDate(0, 0, 3)

	orders := []*models.Order{
		{ID: "o1", RestaurantID: "r1", Status: models.OrderStatusClosed, ClosedAt: &in},
		{ID: "o2", RestaurantID: "r1", Status: models.OrderStatusOpen},
		{ID: "o3", RestaurantID: "r1", Status: models.OrderStatusClosed, ClosedAt: &out},
		{ID: "o4", RestaurantID: "r2", Status: models.OrderStatusClosed, ClosedAt: &in},
	}
	if err := store.Orders.BulkCreate(ctx, orders); err != nil {
		t.Fatal(err)
	}
	items := []*models.OrderItem{
		{ID: "i1", OrderID: "o1", MenuItemID: "m1", Quantity: 1},
		{ID: "i2", OrderID: "o2", MenuItemID: "m1", Quantity: 1},
		{ID: "i3", OrderID: "o3", MenuItemID: "m1", Quantity: 1},
	}
	if err := store.OrderItems.BulkCreate(ctx, items); err != nil {
		t.Fatal(err)
	}

	got, err := store.Orders.ClosedBetween(ctx, "r1", start, start.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "o1" {
		t.Errorf("ClosedBetween() = %v, want only o1", got)
	}

	lines, err := store.OrderItems.ForClosedOrdersBetween(ctx, "r1", start, start.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0].ID != "i1" {
		t.Errorf("ForClosedOrdersBetween() = %v, want only i1", lines)
	}
}

func TestRestaurantNotFound(t *testing.T) {
	_, err := NewStore().Restaurants.GetByID(context.Background(), "missing")
	if !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestStaffRosterOrderAndScores(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	roster := []*models.Staff{
		{ID: "z", RestaurantID: "r1", Role: models.RoleServer, Active: true},
		{ID: "a", RestaurantID: "r1", Role: models.RoleServer, Active: true},
		{ID: "m", RestaurantID: "r1", Role: models.RoleServer, Active: false},
	}
	if err := store.Staff.BulkCreate(ctx, roster); err != nil {
		t.Fatal(err)
	}
	got, _ := store.Staff.ActiveByRestaurantID(ctx, "r1")
	if len(got) != 2 || got[0].ID != "z" || got[1].ID != "a" {
		t.Errorf("ActiveByRestaurantID() order = %v, want [z a]", got)
	}
	all, _ := store.Staff.GetByRestaurantID(ctx, "r1")
	if len(all) != 3 || all[2].ID != "m" {
		t.Errorf("GetByRestaurantID() = %v, want [z a m]", all)
	}

	if err := store.Customers.BulkCreate(ctx, []*models.Customer{{ID: "c1", RestaurantID: "r1"}}); err != nil {
		t.Fatal(err)
	}
	err := store.Customers.UpdateScores(ctx, []models.CustomerScore{
		{CustomerID: "c1", Segment: models.SegmentAtRisk, ChurnRisk: 0.72},
		{CustomerID: "ghost", Segment: models.SegmentLost, ChurnRisk: 0.99},
	})
	if err != nil {
		t.Fatal(err)
	}
	customers, _ := store.Customers.GetByRestaurantID(ctx, "r1")
	if len(customers) != 1 || customers[0].RFMSegment != models.SegmentAtRisk || customers[0].ChurnRisk != 0.72 {
		t.Errorf("customers after UpdateScores = %+v", customers)
	}
}
