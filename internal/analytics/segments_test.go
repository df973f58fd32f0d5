package analytics

import (
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

var scoringNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := scoringNow.AddDate(0, 0, -n)
	return &t
}

func TestSummarizeSegments(t *testing.T) {
	customers := []*models.Customer{
		{ID: "1", RFMSegment: models.SegmentChampions, TotalSpent: 900, VisitCount: 20, AvgCheck: 45, ChurnRisk: 0.1},
		{ID: "2", RFMSegment: models.SegmentChampions, TotalSpent: 700, VisitCount: 14, AvgCheck: 50, ChurnRisk: 0.2},
		{ID: "3", RFMSegment: models.SegmentLost, TotalSpent: 40, VisitCount: 1, AvgCheck: 40, ChurnRisk: 0.9},
		{ID: "4", TotalSpent: 0},
	}

	got := SummarizeSegments(customers)

	if len(got) != 3 {
		t.Fatalf("got %d segments, want 3", len(got))
	}
	champ := got[0]
	if champ.Segment != models.SegmentChampions {
		t.Fatalf("first segment = %s, want the highest spend first", champ.Segment)
	}
	if champ.Customers != 2 || champ.TotalSpent != 1600 || champ.TotalVisits != 34 {
		t.Errorf("champions = %+v", champ)
	}
	if math.Abs(champ.AvgCheck-47.5) > 1e-9 || math.Abs(champ.AvgChurnRisk-0.15) > 1e-9 {
		t.Errorf("champions averages = %v/%v", champ.AvgCheck, champ.AvgChurnRisk)
	}
	if champ.Description == "" || champ.RecommendedAction == "" {
		t.Error("expected catalog metadata on a known segment")
	}
	if champ.ShareOfCustomers != 50 {
		t.Errorf("ShareOfCustomers = %v, want 50", champ.ShareOfCustomers)
	}
	if got[2].Segment != unscoredSegment {
		t.Errorf("last segment = %s, want %s", got[2].Segment, unscoredSegment)
	}
}

func TestRankAtRisk_SortedAndSubset(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	customers := make([]*models.Customer, 200)
	for i := range customers {
		customers[i] = &models.Customer{ID: string(rune(0x4e00 + i)), ChurnRisk: rng.Float64(), LastVisitAt: daysAgo(rng.Intn(200))}
	}

	broad := RankAtRisk(customers, 0.5, scoringNow)
	narrow := RankAtRisk(customers, 0.9, scoringNow)

	for i := 1; i < len(broad.Customers); i++ {
		if broad.Customers[i-1].ChurnRisk < broad.Customers[i].ChurnRisk {
			t.Fatalf("not sorted descending at %d", i)
		}
	}
	inBroad := make(map[string]bool, len(broad.Customers))
	for _, c := range broad.Customers {
		if c.ChurnRisk < 0.5 {
			t.Fatalf("customer %s below min risk", c.CustomerID)
		}
		inBroad[c.CustomerID] = true
	}
	for _, c := range narrow.Customers {
		if !inBroad[c.CustomerID] {
			t.Fatalf("customer %s at min_risk 0.9 missing at 0.5", c.CustomerID)
		}
	}
	if narrow.Total > broad.Total {
		t.Errorf("narrow total %d exceeds broad total %d", narrow.Total, broad.Total)
	}
}

func TestRankAtRisk_Actions(t *testing.T) {
	tests := []struct {
		name      string
		risk      float64
		lastVisit *time.Time
		want      string
		level     string
	}{
		{"urgent", 0.85, daysAgo(3), "Urgent win-back", RiskHigh},
		{"email", 0.65, daysAgo(3), "re-engagement email", RiskMedium},
		{"overdue", 0.55, daysAgo(61), "win-back list", RiskMedium},
		{"never visited", 0.55, nil, "win-back list", RiskMedium},
		{"recent", 0.55, daysAgo(60), "Monitor", RiskMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := RankAtRisk([]*models.Customer{{ID: "c", ChurnRisk: tt.risk, LastVisitAt: tt.lastVisit}}, 0.5, scoringNow)
			if len(report.Customers) != 1 {
				t.Fatalf("got %d customers", len(report.Customers))
			}
			c := report.Customers[0]
			if !strings.Contains(c.RecommendedAction, tt.want) {
				t.Errorf("action = %q, want it to contain %q", c.RecommendedAction, tt.want)
			}
			if c.RiskLevel != tt.level {
				t.Errorf("RiskLevel = %s, want %s", c.RiskLevel, tt.level)
			}
			if tt.lastVisit == nil && c.DaysSinceVisit != nil {
				t.Errorf("DaysSinceVisit = %d, want nil", *c.DaysSinceVisit)
			}
			if report.RiskSummary[tt.level] != 1 {
				t.Errorf("RiskSummary = %v", report.RiskSummary)
			}
		})
	}
}

func TestAtRiskReportLimit(t *testing.T) {
	customers := []*models.Customer{{ID: "a", ChurnRisk: 0.9}, {ID: "b", ChurnRisk: 0.8}, {ID: "c", ChurnRisk: 0.7}}

	report := RankAtRisk(customers, 0.5, scoringNow).Limit(2)

	if len(report.Customers) != 2 || report.Total != 3 {
		t.Errorf("Limit(2) kept %d of total %d", len(report.Customers), report.Total)
	}
}

func TestSegmentFor(t *testing.T) {
	tests := []struct {
		r, f, m int
		want    string
	}{
		{5, 5, 5, models.SegmentChampions},
		{3, 4, 3, models.SegmentLoyal},
		{5, 2, 2, models.SegmentPotential},
		{5, 1, 1, models.SegmentNew},
		{3, 2, 2, models.SegmentNeedAttn},
		{3, 1, 1, models.SegmentPromising},
		{1, 5, 5, models.SegmentCannotLose},
		{2, 3, 3, models.SegmentAtRisk},
		{2, 2, 2, models.SegmentAboutSleep},
		{1, 2, 2, models.SegmentHibernating},
		{1, 1, 1, models.SegmentLost},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := SegmentFor(tt.r, tt.f, tt.m); got != tt.want {
				t.Errorf("SegmentFor(%d,%d,%d) = %s, want %s", tt.r, tt.f, tt.m, got, tt.want)
			}
		})
	}
}

func TestScoreCustomers(t *testing.T) {
	customers := make([]*models.Customer, 5)
	for i := range customers {
		customers[i] = &models.Customer{
			ID:          string(rune('a' + i)),
			VisitCount:  1 + i*10,
			TotalSpent:  float64(50 + i*400),
			LastVisitAt: daysAgo(150 - i*35),
		}
	}

	scores := ScoreCustomers(customers, scoringNow)

	best, worst := scores[4], scores[0]
	if best.RecencyScore != 5 || best.FrequencyScore != 5 || best.MonetaryScore != 5 {
		t.Errorf("best scores = %+v, want all 5", best)
	}
	if best.Segment != models.SegmentChampions {
		t.Errorf("best segment = %s", best.Segment)
	}
	if worst.RecencyScore != 1 || worst.FrequencyScore != 1 || worst.MonetaryScore != 1 {
		t.Errorf("worst scores = %+v, want all 1", worst)
	}
	if worst.Segment != models.SegmentLost {
		t.Errorf("worst segment = %s", worst.Segment)
	}
	if best.ChurnRisk >= worst.ChurnRisk {
		t.Errorf("churn risk best %v should be below worst %v", best.ChurnRisk, worst.ChurnRisk)
	}
}

func TestScoreCustomers_TiesShareScore(t *testing.T) {
	customers := []*models.Customer{
		{ID: "a", VisitCount: 3, TotalSpent: 90},
		{ID: "b", VisitCount: 3, TotalSpent: 90},
		{ID: "c", VisitCount: 3, TotalSpent: 90},
	}

	for _, s := range ScoreCustomers(customers, scoringNow) {
		if s.RecencyScore != 5 || s.FrequencyScore != 5 || s.MonetaryScore != 5 {
			t.Errorf("tied customer %s scored %+v, want all 5", s.CustomerID, s)
		}
	}
}

func TestScoreCustomers_TopTiesAndLoneCustomer(t *testing.T) {
	tests := []struct {
		name      string
		customers []*models.Customer
		want      map[string]string
	}{
		{
			name: "lone regular",
			customers: []*models.Customer{
				{ID: "solo", VisitCount: 40, TotalSpent: 3000, LastVisitAt: daysAgo(1)},
			},
			want: map[string]string{"solo": models.SegmentChampions},
		},
		{
			name: "eight tied at the top",
			customers: func() []*models.Customer {
				out := []*models.Customer{
					{ID: "low1", VisitCount: 1, TotalSpent: 20, LastVisitAt: daysAgo(120)},
					{ID: "low2", VisitCount: 2, TotalSpent: 40, LastVisitAt: daysAgo(90)},
				}
				for i := 0; i < 8; i++ {
					out = append(out, &models.Customer{
						ID: "top" + string(rune('a'+i)), VisitCount: 30, TotalSpent: 1500, LastVisitAt: daysAgo(1),
					})
				}
				return out
			}(),
			want: map[string]string{"topa": models.SegmentChampions, "toph": models.SegmentChampions, "low1": models.SegmentLost},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := ScoreCustomers(tt.customers, scoringNow)
			for _, s := range scores {
				want, ok := tt.want[s.CustomerID]
				if !ok {
					continue
				}
				if s.Segment != want {
					t.Errorf("%s segment = %s (scores %d/%d/%d), want %s",
						s.CustomerID, s.Segment, s.RecencyScore, s.FrequencyScore, s.MonetaryScore, want)
				}
				if want == models.SegmentChampions && (s.RecencyScore != 5 || s.FrequencyScore != 5 || s.MonetaryScore != 5) {
					t.Errorf("%s scored %d/%d/%d, want all 5", s.CustomerID, s.RecencyScore, s.FrequencyScore, s.MonetaryScore)
				}
			}
		})
	}
}

func TestChurnRisk(t *testing.T) {
	tests := []struct {
		name   string
		days   float64
		visits int
		spent  float64
		want   float64
	}{
		{"gone and never spent", 365, 0, 0, 0.881},
		{"regular big spender", 0, 50, 2000, 0.119},
		{"midpoint", 90, 25, 1000, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChurnRisk(tt.days, tt.visits, tt.spent); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ChurnRisk = %v, want %v", got, tt.want)
			}
		})
	}
}
