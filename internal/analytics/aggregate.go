// Package analytics holds the single-pass computations behind the dashboard:
// aggregation of POS rows, menu engineering, demand forecasting, customer
// segmentation, labor allocation, food cost and review themes. Functions are
// pure and never fail; degenerate inputs produce defaulted output.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

// Round2 rounds a currency amount to cents. Only call it when building a
// response; intermediate sums stay unrounded.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// CalendarDate returns the local calendar day of t as midnight UTC, the form
// used for every per-day key.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ItemSales is the per-menu-item aggregate for a date range.
type ItemSales struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Price      float64 `json:"price"`
	UnitCost   float64 `json:"unit_cost"`
	Quantity   int     `json:"quantity"`
	Revenue    float64 `json:"revenue"`
	Cost       float64 `json:"cost"`
	Profit     float64 `json:"profit"`
}

// AggregateItemSales sums non-void order lines per menu item. Every menu item
// appears in the output, in menu order, even with no sales; lines pointing at
// items outside the menu are dropped.
func AggregateItemSales(menu []*models.MenuItem, lines []*models.OrderItem) []ItemSales {
	index := make(map[string]int, len(menu))
	out := make([]ItemSales, len(menu))
	for i, m := range menu {
		index[m.ID] = i
		out[i] = ItemSales{
			MenuItemID: m.ID,
			Name:       m.Name,
			Category:   m.Category,
			Price:      m.Price,
			UnitCost:   m.UnitCost(),
		}
	}

	for _, line := range lines {
		if line.Void || line.Quantity <= 0 {
			continue
		}
		i, ok := index[line.MenuItemID]
		if !ok {
			continue
		}
		qty := float64(line.Quantity)
		out[i].Quantity += line.Quantity
		out[i].Revenue += qty * line.UnitPrice
		out[i].Cost += qty * out[i].UnitCost
	}

	for i := range out {
		out[i].Profit = out[i].Revenue - out[i].Cost
	}
	return out
}

// DailyCovers is the number of guests seated on one calendar day.
type DailyCovers struct {
	Date    time.Time `json:"date"`
	Covers  int       `json:"covers"`
	Orders  int       `json:"orders"`
	Revenue float64   `json:"revenue"`
}

// AggregateDailyCovers groups closed orders by local calendar day. Days without
// orders are absent rather than zero-filled.
func AggregateDailyCovers(orders []*models.Order, loc *time.Location) []DailyCovers {
	byDay := make(map[time.Time]*DailyCovers)
	for _, o := range orders {
		if o.ClosedAt == nil {
			continue
		}
		day := CalendarDate(*o.ClosedAt, loc)
		dc, ok := byDay[day]
		if !ok {
			dc = &DailyCovers{Date: day}
			byDay[day] = dc
		}
		dc.Covers += o.GuestCount
		dc.Orders++
		dc.Revenue += o.Total
	}

	out := make([]DailyCovers, 0, len(byDay))
	for _, dc := range byDay {
		out = append(out, *dc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// ItemDailySales is the quantity of one menu item sold on one calendar day.
type ItemDailySales struct {
	MenuItemID string
	Date       time.Time
	Quantity   int
}

// AggregateItemDailySales attributes each non-void line to the close date of
// its order.
func AggregateItemDailySales(orders []*models.Order, lines []*models.OrderItem, loc *time.Location) []ItemDailySales {
	closedOn := make(map[string]time.Time, len(orders))
	for _, o := range orders {
		if o.ClosedAt != nil {
			closedOn[o.ID] = CalendarDate(*o.ClosedAt, loc)
		}
	}

	type key struct {
		item string
		day  time.Time
	}
	sums := make(map[key]int)
	for _, line := range lines {
		if line.Void || line.Quantity <= 0 {
			continue
		}
		day, ok := closedOn[line.OrderID]
		if !ok {
			continue
		}
		sums[key{line.MenuItemID, day}] += line.Quantity
	}

	out := make([]ItemDailySales, 0, len(sums))
	for k, q := range sums {
		out = append(out, ItemDailySales{MenuItemID: k.item, Date: k.day, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].MenuItemID < out[j].MenuItemID
	})
	return out
}

// ShiftHours prefers the observed interval over the scheduled one. Inverted
// intervals count as zero.
func ShiftHours(s *models.Shift) float64 {
	start, end := s.ScheduledStart, s.ScheduledEnd
	if s.ActualStart != nil && s.ActualEnd != nil {
		start, end = *s.ActualStart, *s.ActualEnd
	}
	h := end.Sub(start).Hours()
	if h < 0 {
		return 0
	}
	return h
}

type RoleLabor struct {
	Role        string  `json:"role"`
	Hours       float64 `json:"hours"`
	Cost        float64 `json:"cost"`
	CostPerHour float64 `json:"cost_per_hour"`
}

type SalesSummary struct {
	Orders          int           `json:"orders"`
	Covers          int           `json:"covers"`
	Revenue         float64       `json:"revenue"`
	Tips            float64       `json:"tips"`
	AvgCheck        float64       `json:"avg_check"`
	RevenuePerCover float64       `json:"revenue_per_cover"`
	ItemsSold       int           `json:"items_sold"`
	VoidedItems     int           `json:"voided_items"`
	LaborHours      float64       `json:"labor_hours"`
	LaborCost       float64       `json:"labor_cost"`
	LaborCostPct    float64       `json:"labor_cost_pct"`
	LaborByRole     []RoleLabor   `json:"labor_by_role"`
	Daily           []DailyCovers `json:"daily"`
}

// SummarizeSales rolls orders, lines and worked shifts into headline numbers.
// Revenue is the sum of order totals; labor cost uses each shift's hours at
// the staff member's hourly rate (unknown staff cost nothing).
func SummarizeSales(orders []*models.Order, lines []*models.OrderItem, shifts []*models.Shift, staff []*models.Staff, loc *time.Location) SalesSummary {
	var s SalesSummary
	for _, o := range orders {
		s.Orders++
		s.Covers += o.GuestCount
		s.Revenue += o.Total
		s.Tips += o.Tip
	}
	for _, line := range lines {
		if line.Void {
			s.VoidedItems += line.Quantity
			continue
		}
		s.ItemsSold += line.Quantity
	}
	s.AvgCheck = safeDiv(s.Revenue, float64(s.Orders))
	s.RevenuePerCover = safeDiv(s.Revenue, float64(s.Covers))

	rates := make(map[string]float64, len(staff))
	for _, m := range staff {
		rates[m.ID] = m.HourlyRate
	}
	byRole := make(map[string]*RoleLabor)
	for _, sh := range shifts {
		h := ShiftHours(sh)
		cost := h * rates[sh.StaffID]
		s.LaborHours += h
		s.LaborCost += cost
		rl, ok := byRole[sh.Role]
		if !ok {
			rl = &RoleLabor{Role: sh.Role}
			byRole[sh.Role] = rl
		}
		rl.Hours += h
		rl.Cost += cost
	}
	s.LaborCostPct = safeDiv(s.LaborCost, s.Revenue) * 100

	s.LaborByRole = make([]RoleLabor, 0, len(byRole))
	for _, rl := range byRole {
		rl.CostPerHour = safeDiv(rl.Cost, rl.Hours)
		s.LaborByRole = append(s.LaborByRole, *rl)
	}
	sort.Slice(s.LaborByRole, func(i, j int) bool { return s.LaborByRole[i].Role < s.LaborByRole[j].Role })

	s.Daily = AggregateDailyCovers(orders, loc)
	return s
}

func (s SalesSummary) Rounded() SalesSummary {
	s.Revenue = Round2(s.Revenue)
	s.Tips = Round2(s.Tips)
	s.AvgCheck = Round2(s.AvgCheck)
	s.RevenuePerCover = Round2(s.RevenuePerCover)
	s.LaborHours = Round2(s.LaborHours)
	s.LaborCost = Round2(s.LaborCost)
	s.LaborCostPct = Round2(s.LaborCostPct)

	roles := make([]RoleLabor, len(s.LaborByRole))
	for i, rl := range s.LaborByRole {
		roles[i] = RoleLabor{Role: rl.Role, Hours: Round2(rl.Hours), Cost: Round2(rl.Cost), CostPerHour: Round2(rl.CostPerHour)}
	}
	s.LaborByRole = roles

	daily := make([]DailyCovers, len(s.Daily))
	for i, d := range s.Daily {
		d.Revenue = Round2(d.Revenue)
		daily[i] = d
	}
	s.Daily = daily
	return s
}
