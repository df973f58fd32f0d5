package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

const (
	recencyHorizonDays = 180.0
	frequencyCeiling   = 50.0
	monetaryCeiling    = 2000.0
)

// ScoreCustomers assigns RFM quintile scores, a segment and a churn risk to
// every customer of one restaurant. Quintiles are percentile based: equal
// values share the score of their highest rank, so a lone customer scores 5
// on every axis.
func ScoreCustomers(customers []*models.Customer, now time.Time) []models.CustomerScore {
	n := len(customers)
	recency := make([]float64, n)
	frequency := make([]float64, n)
	monetary := make([]float64, n)
	for i, c := range customers {
		// fewer days since the last visit is better, so rank the negation
		recency[i] = -recencyDays(c, now)
		frequency[i] = float64(c.VisitCount)
		monetary[i] = c.TotalSpent
	}
	rScores := quintiles(recency)
	fScores := quintiles(frequency)
	mScores := quintiles(monetary)

	out := make([]models.CustomerScore, n)
	for i, c := range customers {
		out[i] = models.CustomerScore{
			CustomerID:     c.ID,
			RecencyScore:   rScores[i],
			FrequencyScore: fScores[i],
			MonetaryScore:  mScores[i],
			Segment:        SegmentFor(rScores[i], fScores[i], mScores[i]),
			ChurnRisk:      ChurnRisk(recencyDays(c, now), c.VisitCount, c.TotalSpent),
		}
	}
	return out
}

func recencyDays(c *models.Customer, now time.Time) float64 {
	if c.LastVisitAt == nil {
		return recencyHorizonDays
	}
	d := now.Sub(*c.LastVisitAt).Hours() / 24
	return math.Max(0, d)
}

// quintiles maps each value to 1..5 by the share of values at or below it.
func quintiles(values []float64) []int {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(values)
	out := make([]int, n)
	for i, v := range values {
		atOrBelow := sort.Search(n, func(j int) bool { return sorted[j] > v })
		out[i] = (atOrBelow*5 + n - 1) / n
	}
	return out
}

// SegmentFor places R and the rounded mean of F and M on the classic grid.
func SegmentFor(r, f, m int) string {
	fm := int(math.Round(float64(f+m) / 2))
	switch {
	case r >= 4 && fm >= 4:
		return models.SegmentChampions
	case r >= 3 && fm >= 3:
		return models.SegmentLoyal
	case r >= 4 && fm == 2:
		return models.SegmentPotential
	case r >= 4:
		return models.SegmentNew
	case r == 3 && fm == 2:
		return models.SegmentNeedAttn
	case r == 3:
		return models.SegmentPromising
	case r <= 1 && fm >= 4:
		return models.SegmentCannotLose
	case fm >= 3:
		return models.SegmentAtRisk
	case r == 2:
		return models.SegmentAboutSleep
	case fm >= 2:
		return models.SegmentHibernating
	default:
		return models.SegmentLost
	}
}

// ChurnRisk is a logistic squash of a weighted blend of staleness, low visit
// count and low spend. It is a heuristic score in (0, 1), not a trained model.
func ChurnRisk(recencyDays float64, visits int, spent float64) float64 {
	r := math.Min(recencyDays/recencyHorizonDays, 1)
	f := math.Max(0, 1-float64(visits)/frequencyCeiling)
	m := math.Max(0, 1-spent/monetaryCeiling)
	p := 0.5*r + 0.3*f + 0.2*m
	risk := 1 / (1 + math.Exp(-4*(p-0.5)))
	return math.Round(risk*1000) / 1000
}
