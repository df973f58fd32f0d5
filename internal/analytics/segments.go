package analytics

import (
	"sort"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

const (
	DefaultMinRisk = 0.5

	RiskHigh   = "high"
	RiskMedium = "medium"
	RiskLow    = "low"

	unscoredSegment = "Unscored"
	winBackAfter    = 60 // days
)

type segmentInfo struct {
	description string
	action      string
}

var segmentCatalog = map[string]segmentInfo{
	models.SegmentChampions:   {"Recent, frequent and high-spending guests", "Reward them, ask for reviews, offer early access to new dishes"},
	models.SegmentLoyal:       {"Visit often and spend well", "Upsell higher-margin items, enrol in loyalty perks"},
	models.SegmentPotential:   {"Recent guests with average frequency", "Offer a membership or loyalty program"},
	models.SegmentNew:         {"First visits in the recent past", "Send a welcome offer to secure a second visit"},
	models.SegmentPromising:   {"Recent but low-spending guests", "Build awareness with a targeted promotion"},
	models.SegmentNeedAttn:    {"Above-average guests whose visits are slowing", "Send a limited-time offer based on past orders"},
	models.SegmentAboutSleep:  {"Below-average recency and frequency", "Share popular items and a modest discount"},
	models.SegmentAtRisk:      {"Used to visit often and spend well, not seen lately", "Send personalised re-engagement messages"},
	models.SegmentCannotLose:  {"Former top guests who have gone quiet", "Win them back with a strong personal offer"},
	models.SegmentHibernating: {"Last visit long ago, few visits", "Include in seasonal campaigns only"},
	models.SegmentLost:        {"Lowest recency, frequency and spend", "Revive with a broad campaign or ignore"},
	unscoredSegment:           {"Customers not yet scored", "Run a rescoring pass"},
}

type SegmentSummary struct {
	Segment           string  `json:"segment"`
	Description       string  `json:"description"`
	RecommendedAction string  `json:"recommended_action"`
	Customers         int     `json:"customers"`
	TotalSpent        float64 `json:"total_spent"`
	TotalVisits       int     `json:"total_visits"`
	AvgCheck          float64 `json:"avg_check"`
	AvgChurnRisk      float64 `json:"avg_churn_risk"`
	ShareOfCustomers  float64 `json:"share_of_customers"`
	ShareOfRevenue    float64 `json:"share_of_revenue"`
}

// SummarizeSegments groups customers by their stored RFM segment, largest
// spend first. Customers without a segment land in "Unscored".
func SummarizeSegments(customers []*models.Customer) []SegmentSummary {
	type acc struct {
		SegmentSummary
		checkSum float64
		riskSum  float64
	}
	groups := make(map[string]*acc)
	var totalSpent float64
	for _, c := range customers {
		name := c.RFMSegment
		if name == "" {
			name = unscoredSegment
		}
		g, ok := groups[name]
		if !ok {
			info := segmentCatalog[name]
			g = &acc{SegmentSummary: SegmentSummary{
				Segment:           name,
				Description:       info.description,
				RecommendedAction: info.action,
			}}
			groups[name] = g
		}
		g.Customers++
		g.TotalSpent += c.TotalSpent
		g.TotalVisits += c.VisitCount
		g.checkSum += c.AvgCheck
		g.riskSum += c.ChurnRisk
		totalSpent += c.TotalSpent
	}

	out := make([]SegmentSummary, 0, len(groups))
	for _, g := range groups {
		s := g.SegmentSummary
		s.AvgCheck = safeDiv(g.checkSum, float64(g.Customers))
		s.AvgChurnRisk = safeDiv(g.riskSum, float64(g.Customers))
		s.ShareOfCustomers = safeDiv(float64(g.Customers), float64(len(customers))) * 100
		s.ShareOfRevenue = safeDiv(g.TotalSpent, totalSpent) * 100
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSpent != out[j].TotalSpent {
			return out[i].TotalSpent > out[j].TotalSpent
		}
		return out[i].Segment < out[j].Segment
	})
	return out
}

type AtRiskCustomer struct {
	CustomerID        string  `json:"customer_id"`
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	Segment           string  `json:"segment"`
	ChurnRisk         float64 `json:"churn_risk"`
	RiskLevel         string  `json:"risk_level"`
	DaysSinceVisit    *int    `json:"days_since_visit"`
	TotalSpent        float64 `json:"total_spent"`
	VisitCount        int     `json:"visit_count"`
	RecommendedAction string  `json:"recommended_action"`
}

type AtRiskReport struct {
	MinRisk       float64          `json:"min_risk"`
	Total         int              `json:"total"`
	RevenueAtRisk float64          `json:"revenue_at_risk"`
	RiskSummary   map[string]int   `json:"risk_summary"`
	Customers     []AtRiskCustomer `json:"customers"`
}

func RiskLevel(risk float64) string {
	switch {
	case risk >= 0.7:
		return RiskHigh
	case risk >= 0.4:
		return RiskMedium
	default:
		return RiskLow
	}
}

// retentionAction applies the threshold rules. A customer who never visited
// counts as overdue.
func retentionAction(risk float64, daysSince *int) string {
	switch {
	case risk >= 0.8:
		return "Urgent win-back: send a personal offer with a discount"
	case risk >= 0.6:
		return "Send a re-engagement email"
	case daysSince == nil || *daysSince > winBackAfter:
		return "Add to the win-back list"
	default:
		return "Monitor only"
	}
}

// RankAtRisk keeps customers with churn risk at or above minRisk, riskiest
// first. The sort is stable so equal risks keep their input order.
func RankAtRisk(customers []*models.Customer, minRisk float64, now time.Time) AtRiskReport {
	report := AtRiskReport{
		MinRisk:     minRisk,
		RiskSummary: map[string]int{RiskHigh: 0, RiskMedium: 0, RiskLow: 0},
		Customers:   []AtRiskCustomer{},
	}
	for _, c := range customers {
		if c.ChurnRisk < minRisk {
			continue
		}
		var days *int
		if c.LastVisitAt != nil {
			d := int(now.Sub(*c.LastVisitAt).Hours() / 24)
			if d < 0 {
				d = 0
			}
			days = &d
		}
		level := RiskLevel(c.ChurnRisk)
		report.RiskSummary[level]++
		report.RevenueAtRisk += c.TotalSpent
		report.Customers = append(report.Customers, AtRiskCustomer{
			CustomerID:        c.ID,
			Name:              c.Name,
			Email:             c.Email,
			Segment:           c.RFMSegment,
			ChurnRisk:         c.ChurnRisk,
			RiskLevel:         level,
			DaysSinceVisit:    days,
			TotalSpent:        c.TotalSpent,
			VisitCount:        c.VisitCount,
			RecommendedAction: retentionAction(c.ChurnRisk, days),
		})
	}
	sort.SliceStable(report.Customers, func(i, j int) bool {
		return report.Customers[i].ChurnRisk > report.Customers[j].ChurnRisk
	})
	report.Total = len(report.Customers)
	return report
}

// Limit truncates the ranked list; the summary still covers every match.
func (r AtRiskReport) Limit(n int) AtRiskReport {
	if n > 0 && n < len(r.Customers) {
		r.Customers = r.Customers[:n]
	}
	return r
}

func (r AtRiskReport) Rounded() AtRiskReport {
	r.RevenueAtRisk = Round2(r.RevenueAtRisk)
	customers := make([]AtRiskCustomer, len(r.Customers))
	for i, c := range r.Customers {
		c.TotalSpent = Round2(c.TotalSpent)
		customers[i] = c
	}
	r.Customers = customers
	return r
}

func RoundSegments(in []SegmentSummary) []SegmentSummary {
	out := make([]SegmentSummary, len(in))
	for i, s := range in {
		s.TotalSpent = Round2(s.TotalSpent)
		s.AvgCheck = Round2(s.AvgCheck)
		s.AvgChurnRisk = Round2(s.AvgChurnRisk)
		s.ShareOfCustomers = Round2(s.ShareOfCustomers)
		s.ShareOfRevenue = Round2(s.ShareOfRevenue)
		out[i] = s
	}
	return out
}
