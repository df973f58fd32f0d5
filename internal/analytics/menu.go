package analytics

import (
	"fmt"
	"math"
	"sort"
)

const (
	ClassStar      = "Star"
	ClassPlowhorse = "Plowhorse"
	ClassPuzzle    = "Puzzle"
	ClassDog       = "Dog"

	// priceElasticity is an assumed constant demand elasticity used for the
	// suggested price only.
	priceElasticity = -1.5
	minMarkup       = 1.3
)

var classActions = map[string]string{
	ClassStar:      "Maintain position, consider a slight price increase",
	ClassPlowhorse: "Reduce portion size or increase price to improve margin",
	ClassPuzzle:    "Increase visibility, train staff to suggest it",
	ClassDog:       "Consider removing or a complete redesign",
}

type MenuItemAnalysis struct {
	MenuItemID           string  `json:"menu_item_id"`
	Name                 string  `json:"name"`
	Category             string  `json:"category"`
	Price                float64 `json:"price"`
	Quantity             int     `json:"quantity"`
	Revenue              float64 `json:"revenue"`
	Cost                 float64 `json:"cost"`
	Profit               float64 `json:"profit"`
	ContributionMargin   float64 `json:"contribution_margin"`
	PopularityIndex      float64 `json:"popularity_index"`
	ProfitabilityIndex   float64 `json:"profitability_index"`
	Classification       string  `json:"classification"`
	RecommendedAction    string  `json:"recommended_action"`
	SuggestedPrice       float64 `json:"suggested_price"`
	ExpectedProfitChange float64 `json:"expected_profit_change"`
}

type MenuItemRef struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Score      float64 `json:"score"`
}

type MenuReport struct {
	Items                 []MenuItemAnalysis `json:"items"`
	Counts                map[string]int     `json:"counts"`
	AvgQuantity           float64            `json:"avg_quantity"`
	AvgProfit             float64            `json:"avg_profit"`
	AvgContributionMargin float64            `json:"avg_contribution_margin"`
	TopPerformers         []MenuItemRef      `json:"top_performers"`
	NeedsAttention        []MenuItemRef      `json:"needs_attention"`
	Recommendations       []string           `json:"recommendations"`
}

// Classify places an item in the menu-engineering quadrant around 1.0. An
// index of exactly 1.0 counts as high.
func Classify(popularityIndex, profitabilityIndex float64) string {
	switch {
	case popularityIndex >= 1 && profitabilityIndex >= 1:
		return ClassStar
	case popularityIndex >= 1:
		return ClassPlowhorse
	case profitabilityIndex >= 1:
		return ClassPuzzle
	default:
		return ClassDog
	}
}

// suggestedPrice is the constant-elasticity profit-maximising price, floored
// at a minimum markup over cost. Uncosted items keep their price.
func suggestedPrice(price, unitCost float64) float64 {
	if unitCost <= 0 {
		return price
	}
	optimal := unitCost / (1 + 1/priceElasticity)
	return math.Max(optimal, unitCost*minMarkup)
}

// ClassifyMenu runs BCG-style menu engineering over per-item sales.
// Averages are taken over items that sold at least once; when nothing sold
// both averages are 1.
func ClassifyMenu(sales []ItemSales) MenuReport {
	report := MenuReport{
		Items: make([]MenuItemAnalysis, 0, len(sales)),
		Counts: map[string]int{
			ClassStar: 0, ClassPlowhorse: 0, ClassPuzzle: 0, ClassDog: 0,
		},
		AvgQuantity: 1,
		AvgProfit:   1,
	}

	var sold int
	var qtySum, profitSum float64
	for _, s := range sales {
		if s.Quantity > 0 {
			sold++
			qtySum += float64(s.Quantity)
			profitSum += s.Profit
		}
	}
	if sold > 0 {
		report.AvgQuantity = qtySum / float64(sold)
		report.AvgProfit = profitSum / float64(sold)
	}

	var marginSum float64
	var marginItems int
	for _, s := range sales {
		margin := safeDiv(s.Revenue-s.Cost, s.Revenue)
		if s.Revenue > 0 {
			marginSum += margin
			marginItems++
		}
		pop := safeDiv(float64(s.Quantity), report.AvgQuantity)
		prof := safeDiv(s.Profit, report.AvgProfit)
		class := Classify(pop, prof)
		suggested := suggestedPrice(s.Price, s.UnitCost)

		report.Items = append(report.Items, MenuItemAnalysis{
			MenuItemID:           s.MenuItemID,
			Name:                 s.Name,
			Category:             s.Category,
			Price:                s.Price,
			Quantity:             s.Quantity,
			Revenue:              s.Revenue,
			Cost:                 s.Cost,
			Profit:               s.Profit,
			ContributionMargin:   margin,
			PopularityIndex:      pop,
			ProfitabilityIndex:   prof,
			Classification:       class,
			RecommendedAction:    classActions[class],
			SuggestedPrice:       suggested,
			ExpectedProfitChange: (suggested - s.Price) * float64(s.Quantity),
		})
		report.Counts[class]++
	}
	report.AvgContributionMargin = safeDiv(marginSum, float64(marginItems))

	report.TopPerformers, report.NeedsAttention = rankPerformers(report.Items, 3)
	report.Recommendations = menuRecommendations(report.Items)
	return report
}

func rankPerformers(items []MenuItemAnalysis, n int) (top, bottom []MenuItemRef) {
	refs := make([]MenuItemRef, len(items))
	for i, it := range items {
		refs[i] = MenuItemRef{MenuItemID: it.MenuItemID, Name: it.Name, Score: it.PopularityIndex * it.ProfitabilityIndex}
	}
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Score > refs[j].Score })

	if n > len(refs) {
		n = len(refs)
	}
	top = append([]MenuItemRef{}, refs[:n]...)
	bottom = make([]MenuItemRef, 0, n)
	for i := len(refs) - 1; i >= len(refs)-n; i-- {
		bottom = append(bottom, refs[i])
	}
	return top, bottom
}

// menuRecommendations emits at most one message each for the worst Dog, the
// busiest Plowhorse and the most profitable Puzzle.
func menuRecommendations(items []MenuItemAnalysis) []string {
	var worstDog, topPlowhorse, topPuzzle *MenuItemAnalysis
	for i := range items {
		it := &items[i]
		switch it.Classification {
		case ClassDog:
			if worstDog == nil || it.Profit < worstDog.Profit {
				worstDog = it
			}
		case ClassPlowhorse:
			if topPlowhorse == nil || it.Quantity > topPlowhorse.Quantity {
				topPlowhorse = it
			}
		case ClassPuzzle:
			if topPuzzle == nil || it.Profit > topPuzzle.Profit {
				topPuzzle = it
			}
		}
	}

	var recs []string
	if worstDog != nil {
		recs = append(recs, fmt.Sprintf("Consider removing %q: it has the lowest profit (%.2f) among low-popularity, low-profit items", worstDog.Name, worstDog.Profit))
	}
	if topPlowhorse != nil {
		recs = append(recs, fmt.Sprintf("Reduce the portion or raise the price of %q: it sells well (%d sold) but earns below-average profit", topPlowhorse.Name, topPlowhorse.Quantity))
	}
	if topPuzzle != nil {
		recs = append(recs, fmt.Sprintf("Increase the visibility of %q: it is highly profitable (%.2f) but rarely ordered", topPuzzle.Name, topPuzzle.Profit))
	}
	if len(recs) == 0 {
		recs = append(recs, "Menu is balanced: no items need immediate action")
	}
	return recs
}

func (r MenuReport) Rounded() MenuReport {
	items := make([]MenuItemAnalysis, len(r.Items))
	for i, it := range r.Items {
		it.Price = Round2(it.Price)
		it.Revenue = Round2(it.Revenue)
		it.Cost = Round2(it.Cost)
		it.Profit = Round2(it.Profit)
		it.ContributionMargin = Round2(it.ContributionMargin)
		it.PopularityIndex = Round2(it.PopularityIndex)
		it.ProfitabilityIndex = Round2(it.ProfitabilityIndex)
		it.SuggestedPrice = Round2(it.SuggestedPrice)
		it.ExpectedProfitChange = Round2(it.ExpectedProfitChange)
		items[i] = it
	}
	r.Items = items
	r.AvgQuantity = Round2(r.AvgQuantity)
	r.AvgProfit = Round2(r.AvgProfit)
	r.AvgContributionMargin = Round2(r.AvgContributionMargin)
	r.TopPerformers = roundRefs(r.TopPerformers)
	r.NeedsAttention = roundRefs(r.NeedsAttention)
	return r
}

func roundRefs(refs []MenuItemRef) []MenuItemRef {
	out := make([]MenuItemRef, len(refs))
	for i, ref := range refs {
		ref.Score = Round2(ref.Score)
		out[i] = ref
	}
	return out
}
