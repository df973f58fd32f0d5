package analytics

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestWeekdayProfile(t *testing.T) {
	history := []DailyCovers{
		{Date: monday.AddDate(0, 0, -7), Covers: 10},
		{Date: monday.AddDate(0, 0, -14), Covers: 20},
		{Date: monday.AddDate(0, 0, -6), Covers: 33},
	}

	profile := WeekdayProfile(history)

	mon := profile[time.Monday]
	if mon.Samples != 2 || mon.Mean != 15 || mon.StdDev != 5 {
		t.Errorf("Monday = %+v, want mean 15 std 5 over 2 samples", mon)
	}
	tue := profile[time.Tuesday]
	if tue.Samples != 1 || tue.Mean != 33 || tue.StdDev != 0 {
		t.Errorf("Tuesday = %+v", tue)
	}
	if profile[time.Sunday].Samples != 0 {
		t.Errorf("Sunday should have no samples")
	}
}

func TestForecastDemand_NoHistory(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	days := ForecastDemand(nil, monday, 14, rng)

	if len(days) != 14 {
		t.Fatalf("got %d days, want 14", len(days))
	}
	for i, d := range days {
		if !d.Date.Equal(monday.AddDate(0, 0, i)) {
			t.Errorf("day %d date = %s", i, d.Date)
		}
		if d.DayOfWeek != int(d.Date.Weekday()) {
			t.Errorf("day %d DayOfWeek = %d, want %d", i, d.DayOfWeek, d.Date.Weekday())
		}
		if d.PredictedCovers < 48 || d.PredictedCovers > 52 {
			t.Errorf("day %d predicted %d, want within jitter of 50", i, d.PredictedCovers)
		}
		if d.ConfidenceLow < 33 || d.ConfidenceLow > 37 {
			t.Errorf("day %d low = %d, want about 35", i, d.ConfidenceLow)
		}
		if d.ConfidenceHigh < 63 || d.ConfidenceHigh > 67 {
			t.Errorf("day %d high = %d, want about 65", i, d.ConfidenceHigh)
		}
	}
}

func TestForecastDemand_BandInvariant(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		rng := rand.New(rand.NewSource(seed))
		var history []DailyCovers
		n := rng.Intn(90)
		for i := 0; i < n; i++ {
			history = append(history, DailyCovers{
				Date:   monday.AddDate(0, 0, -1-i),
				Covers: rng.Intn(8) * rng.Intn(40),
			})
		}

		for _, d := range ForecastDemand(history, monday, 1+rng.Intn(14), rng) {
			if d.ConfidenceLow < 0 {
				t.Fatalf("seed %d: negative low %d", seed, d.ConfidenceLow)
			}
			if d.ConfidenceLow > d.PredictedCovers || d.PredictedCovers > d.ConfidenceHigh {
				t.Fatalf("seed %d: band violated %+v", seed, d)
			}
		}
	}
}

func TestForecastDemand_SeededIsRepeatable(t *testing.T) {
	history := []DailyCovers{{Date: monday.AddDate(0, 0, -7), Covers: 80}, {Date: monday.AddDate(0, 0, -14), Covers: 120}}

	a := ForecastDemand(history, monday, 7, rand.New(rand.NewSource(3)))
	b := ForecastDemand(history, monday, 7, rand.New(rand.NewSource(3)))

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("day %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
	if a[0].PredictedCovers < 95 || a[0].PredictedCovers > 105 {
		t.Errorf("Monday predicted %d, want 100 +/- 5", a[0].PredictedCovers)
	}
}

func TestForecastDemand_NonPositiveDays(t *testing.T) {
	if got := ForecastDemand(nil, monday, 0, nil); len(got) != 0 {
		t.Errorf("got %d days for a zero horizon", len(got))
	}
}

func TestForecastItems(t *testing.T) {
	history := []DailyCovers{
		{Date: monday.AddDate(0, 0, -7), Covers: 40},
		{Date: monday.AddDate(0, 0, -14), Covers: 40},
	}
	sales := []ItemDailySales{
		{MenuItemID: "burger", Date: monday.AddDate(0, 0, -7), Quantity: 4},
		{MenuItemID: "burger", Date: monday.AddDate(0, 0, -14), Quantity: 6},
	}
	menu := []*models.MenuItem{{ID: "burger", Name: "Burger"}, {ID: "salad", Name: "Salad"}}

	got := ForecastItems(sales, history, menu, monday, 2)

	if len(got) != 4 {
		t.Fatalf("got %d rows, want 2 days x 2 items", len(got))
	}
	want := []struct {
		id  string
		qty int
	}{{"burger", 5}, {"salad", 0}, {"burger", 0}, {"salad", 0}}
	for i, w := range want {
		if got[i].MenuItemID != w.id || got[i].PredictedQuantity != w.qty {
			t.Errorf("row %d = %s/%d, want %s/%d", i, got[i].MenuItemID, got[i].PredictedQuantity, w.id, w.qty)
		}
	}
}

func TestAvgRevenuePerCover(t *testing.T) {
	if got := AvgRevenuePerCover(nil); got != DefaultAvgRevenuePerCover {
		t.Errorf("empty history = %v, want default", got)
	}
	history := []DailyCovers{{Covers: 10, Revenue: 300}, {Covers: 30, Revenue: 900}}
	if got := AvgRevenuePerCover(history); math.Abs(got-30) > 1e-9 {
		t.Errorf("AvgRevenuePerCover = %v, want 30", got)
	}
}

func TestForecastReportTotals(t *testing.T) {
	r := ForecastReport{
		AvgRevenuePerCover: 40,
		Days: []ForecastDay{
			{PredictedCovers: 50, ConfidenceLow: 35, ConfidenceHigh: 65},
			{PredictedCovers: 60, ConfidenceLow: 45, ConfidenceHigh: 75},
		},
	}

	r.Totals()

	if r.TotalPredicted != 110 || r.TotalLow != 80 || r.TotalHigh != 140 {
		t.Errorf("totals = %d/%d/%d", r.TotalPredicted, r.TotalLow, r.TotalHigh)
	}
	if r.ExpectedRevenue != 4400 {
		t.Errorf("ExpectedRevenue = %v, want 4400", r.ExpectedRevenue)
	}
}
