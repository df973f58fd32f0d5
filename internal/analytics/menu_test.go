package analytics

import (
	"math"
	"math/rand"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		popularity    float64
		profitability float64
		want          string
	}{
		{"both exactly average", 1, 1, ClassStar},
		{"popular and profitable", 2, 2.5, ClassStar},
		{"popular low margin", 1.5, 0.2, ClassPlowhorse},
		{"profitable rarely ordered", 0.3, 1.7, ClassPuzzle},
		{"just below on both", 0.999, 0.999, ClassDog},
		{"negative profit", 0, -0.5, ClassDog},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.popularity, tt.profitability); got != tt.want {
				t.Errorf("Classify(%v, %v) = %s, want %s", tt.popularity, tt.profitability, got, tt.want)
			}
		})
	}
}

func TestClassifyMenu_StarScenario(t *testing.T) {
	sales := []ItemSales{
		{MenuItemID: "a", Name: "Ribeye", Quantity: 200, Revenue: 900, Cost: 400, Profit: 500},
		{MenuItemID: "b", Name: "Soup", Quantity: 50, Revenue: 100, Cost: 50, Profit: 50},
		{MenuItemID: "c", Name: "Salad", Quantity: 50, Revenue: 80, Cost: 30, Profit: 50},
	}

	report := ClassifyMenu(sales)

	if report.AvgQuantity != 100 || report.AvgProfit != 200 {
		t.Fatalf("averages = %v/%v, want 100/200", report.AvgQuantity, report.AvgProfit)
	}
	star := report.Items[0]
	if star.PopularityIndex != 2.0 {
		t.Errorf("PopularityIndex = %v, want 2.0", star.PopularityIndex)
	}
	if star.ProfitabilityIndex != 2.5 {
		t.Errorf("ProfitabilityIndex = %v, want 2.5", star.ProfitabilityIndex)
	}
	if star.Classification != ClassStar {
		t.Errorf("Classification = %s, want Star", star.Classification)
	}
	if star.RecommendedAction == "" {
		t.Error("expected a recommended action for the Star")
	}
}

func TestClassifyMenu_CountsCoverEveryItem(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		n := rng.Intn(30)
		sales := make([]ItemSales, n)
		for i := range sales {
			qty := rng.Intn(300)
			profit := rng.Float64()*1000 - 200
			sales[i] = ItemSales{MenuItemID: string(rune('a' + i)), Quantity: qty, Profit: profit}
		}

		report := ClassifyMenu(sales)

		total := 0
		for _, c := range report.Counts {
			total += c
		}
		if total != n {
			t.Fatalf("round %d: counts sum to %d, want %d", round, total, n)
		}
		for _, it := range report.Items {
			switch it.Classification {
			case ClassStar, ClassPlowhorse, ClassPuzzle, ClassDog:
			default:
				t.Fatalf("round %d: unexpected classification %q", round, it.Classification)
			}
		}
	}
}

func TestClassifyMenu_Empty(t *testing.T) {
	report := ClassifyMenu(nil)

	if len(report.Counts) != 4 {
		t.Errorf("Counts has %d keys, want all 4 classes", len(report.Counts))
	}
	if report.AvgQuantity != 1 || report.AvgProfit != 1 {
		t.Errorf("averages = %v/%v, want defaults of 1", report.AvgQuantity, report.AvgProfit)
	}
	if len(report.Recommendations) != 1 || !strings.Contains(report.Recommendations[0], "balanced") {
		t.Errorf("Recommendations = %v, want the single balanced message", report.Recommendations)
	}
}

func TestClassifyMenu_Recommendations(t *testing.T) {
	t.Run("one per actionable class", func(t *testing.T) {
		sales := []ItemSales{
			{MenuItemID: "star", Name: "Burger", Quantity: 200, Profit: 500},
			{MenuItemID: "plow", Name: "Fries", Quantity: 150, Profit: 50},
			{MenuItemID: "puzzle", Name: "Lobster", Quantity: 20, Profit: 400},
			{MenuItemID: "dog", Name: "Aspic", Quantity: 30, Profit: -10},
		}

		report := ClassifyMenu(sales)

		want := map[string]string{"star": ClassStar, "plow": ClassPlowhorse, "puzzle": ClassPuzzle, "dog": ClassDog}
		for _, it := range report.Items {
			if it.Classification != want[it.MenuItemID] {
				t.Errorf("%s classified %s, want %s", it.MenuItemID, it.Classification, want[it.MenuItemID])
			}
		}
		if len(report.Recommendations) != 3 {
			t.Fatalf("got %d recommendations, want 3: %v", len(report.Recommendations), report.Recommendations)
		}
		for i, name := range []string{"Aspic", "Fries", "Lobster"} {
			if !strings.Contains(report.Recommendations[i], name) {
				t.Errorf("recommendation %d = %q, want mention of %s", i, report.Recommendations[i], name)
			}
		}
	})

	t.Run("all stars is balanced", func(t *testing.T) {
		sales := []ItemSales{
			{MenuItemID: "a", Quantity: 10, Profit: 20},
			{MenuItemID: "b", Quantity: 10, Profit: 20},
		}

		report := ClassifyMenu(sales)

		if report.Counts[ClassStar] != 2 {
			t.Errorf("Star count = %d, want 2", report.Counts[ClassStar])
		}
		if len(report.Recommendations) != 1 || !strings.Contains(report.Recommendations[0], "balanced") {
			t.Errorf("Recommendations = %v", report.Recommendations)
		}
	})
}

func TestClassifyMenu_UnsoldItemIsDog(t *testing.T) {
	sales := []ItemSales{
		{MenuItemID: "sold", Quantity: 10, Profit: 30},
		{MenuItemID: "unsold"},
	}

	report := ClassifyMenu(sales)

	if got := report.Items[1].Classification; got != ClassDog {
		t.Errorf("unsold item classified %s, want Dog", got)
	}
	if report.AvgQuantity != 10 {
		t.Errorf("AvgQuantity = %v, want 10 (unsold items excluded)", report.AvgQuantity)
	}
}

func TestSuggestedPrice(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		cost  float64
		want  float64
	}{
		{"uncosted keeps price", 12, 0, 12},
		{"elastic optimum", 20, 10, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := suggestedPrice(tt.price, tt.cost)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("suggestedPrice(%v, %v) = %v, want %v", tt.price, tt.cost, got, tt.want)
			}
		})
	}
}

func TestMenuReportRounded(t *testing.T) {
	report := ClassifyMenu([]ItemSales{
		{MenuItemID: "a", Price: 9.999, UnitCost: 3.3333, Quantity: 3, Revenue: 29.997, Cost: 9.9999, Profit: 19.9971},
	}).Rounded()

	it := report.Items[0]
	if it.Revenue != 30 || it.Cost != 10 || it.Profit != 20 {
		t.Errorf("rounded item = %+v", it)
	}
}
