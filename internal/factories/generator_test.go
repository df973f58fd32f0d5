package factories

import (
	"math"
	"testing"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

var genNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func smallOptions() Options {
	return Options{Restaurants: 2, Days: 28, CustomersPer: 40, Now: genNow}
}

func TestGenerateProducesEveryTable(t *testing.T) {
	var done []string
	d := NewGenerator(7, smallOptions()).Generate(func(name string) { done = append(done, name) })

	if len(done) != 2 || len(d.Restaurants) != 2 {
		t.Fatalf("restaurants = %d, progress calls = %d", len(d.Restaurants), len(done))
	}
	counts := map[string]int{
		"menu items":  len(d.MenuItems),
		"customers":   len(d.Customers),
		"staff":       len(d.Staff),
		"orders":      len(d.Orders),
		"order items": len(d.OrderItems),
		"shifts":      len(d.Shifts),
		"inventory":   len(d.Inventory),
	}
	for table, n := range counts {
		if n == 0 {
			t.Errorf("no %s generated", table)
		}
	}
	if len(d.Customers) != 80 {
		t.Errorf("customers = %d, want 80", len(d.Customers))
	}
}

func TestGeneratedOrdersStayInHistory(t *testing.T) {
	d := NewGenerator(11, smallOptions()).Generate(nil)
	earliest := genNow.AddDate(0, 0, -30)

	for _, o := range d.Orders {
		if o.OpenedAt.Before(earliest) || o.OpenedAt.After(genNow) {
			t.Fatalf("order opened at %s outside history", o.OpenedAt)
		}
		switch o.Status {
		case models.OrderStatusClosed:
			if o.ClosedAt == nil || o.ClosedAt.After(genNow) || o.ClosedAt.Before(o.OpenedAt) {
				t.Fatalf("closed order has bad close time: %+v", o)
			}
		case models.OrderStatusVoided, models.OrderStatusOpen:
			if o.ClosedAt != nil {
				t.Fatalf("%s order has a close time", o.Status)
			}
		default:
			t.Fatalf("unexpected status %q", o.Status)
		}
		if o.GuestCount < 1 || o.GuestCount > maxPartySize {
			t.Fatalf("guest count %d", o.GuestCount)
		}
	}
}

func TestGeneratedCustomerStatsMatchOrders(t *testing.T) {
	d := NewGenerator(3, smallOptions()).Generate(nil)

	visits := make(map[string]int)
	spent := make(map[string]float64)
	for _, o := range d.Orders {
		if o.CustomerID != "" && o.ClosedAt != nil {
			visits[o.CustomerID]++
			spent[o.CustomerID] += o.Total
		}
	}
	for _, c := range d.Customers {
		if c.VisitCount != visits[c.ID] {
			t.Errorf("%s visits = %d, want %d", c.ID, c.VisitCount, visits[c.ID])
		}
		if math.Abs(c.TotalSpent-spent[c.ID]) > 0.01 {
			t.Errorf("%s spent = %.2f, want %.2f", c.ID, c.TotalSpent, spent[c.ID])
		}
		if c.RFMSegment == "" {
			t.Errorf("%s has no segment", c.ID)
		}
		if c.ChurnRisk < 0 || c.ChurnRisk > 1 {
			t.Errorf("%s churn risk %.3f", c.ID, c.ChurnRisk)
		}
		if c.VisitCount == 0 && c.LastVisitAt != nil {
			t.Errorf("%s never visited but has a last visit", c.ID)
		}
	}
}

func TestGenerateIsRepeatable(t *testing.T) {
	a := NewGenerator(42, smallOptions()).Generate(nil)
	b := NewGenerator(42, smallOptions()).Generate(nil)

	if len(a.Orders) != len(b.Orders) || len(a.OrderItems) != len(b.OrderItems) || len(a.Reviews) != len(b.Reviews) {
		t.Fatalf("orders %d/%d, lines %d/%d, reviews %d/%d",
			len(a.Orders), len(b.Orders), len(a.OrderItems), len(b.OrderItems), len(a.Reviews), len(b.Reviews))
	}
	for i := range a.Orders {
		if a.Orders[i].Total != b.Orders[i].Total || !a.Orders[i].OpenedAt.Equal(b.Orders[i].OpenedAt) {
			t.Fatalf("order %d differs between runs", i)
		}
	}
	for i := range a.Restaurants {
		if a.Restaurants[i].Name != b.Restaurants[i].Name {
			t.Fatalf("restaurant names differ: %s vs %s", a.Restaurants[i].Name, b.Restaurants[i].Name)
		}
	}
}

func TestScheduleShiftsSkipsInactiveStaff(t *testing.T) {
	g := NewGenerator(1, smallOptions())
	restaurant := &models.Restaurant{ID: "r1", Timezone: "UTC", SeatCount: 50}
	roster := g.staff.CreateRoster(restaurant)
	days := historyDays(genNow, time.UTC, 7)

	shifts := g.staff.ScheduleShifts(restaurant, roster, days)

	inactive := make(map[string]bool)
	for _, s := range roster {
		if !s.Active {
			inactive[s.ID] = true
		}
	}
	if len(inactive) != 1 {
		t.Fatalf("inactive staff = %d, want 1", len(inactive))
	}
	perStaff := make(map[string]int)
	for _, s := range shifts {
		if inactive[s.StaffID] {
			t.Fatalf("inactive staff %s was scheduled", s.StaffID)
		}
		perStaff[s.StaffID]++
	}
	for id, n := range perStaff {
		if n != 5 {
			t.Errorf("staff %s has %d shifts in a week, want 5", id, n)
		}
	}
}

func TestHistoryDaysAreLocalMidnights(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip(err)
	}
	days := historyDays(genNow, loc, 3)
	want := []string{"2026-03-07", "2026-03-08", "2026-03-09"}
	for i, d := range days {
		if got := d.Format("2006-01-02"); got != want[i] || d.Hour() != 0 {
			t.Errorf("day %d = %s, want local midnight of %s", i, d, want[i])
		}
	}
}
