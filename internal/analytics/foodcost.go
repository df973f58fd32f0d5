package analytics

import (
	"sort"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

const topWasteItems = 5

type CategoryFoodCost struct {
	Category    string  `json:"category"`
	ItemsSold   int     `json:"items_sold"`
	Revenue     float64 `json:"revenue"`
	Cost        float64 `json:"cost"`
	FoodCostPct float64 `json:"food_cost_pct"`
}

type WasteByReason struct {
	Reason  string  `json:"reason"`
	Entries int     `json:"entries"`
	Cost    float64 `json:"cost"`
}

type WasteByItem struct {
	InventoryItemID string  `json:"inventory_item_id"`
	Name            string  `json:"name"`
	Unit            string  `json:"unit"`
	Quantity        float64 `json:"quantity"`
	Cost            float64 `json:"cost"`
}

type LowStockItem struct {
	InventoryItemID string  `json:"inventory_item_id"`
	Name            string  `json:"name"`
	Unit            string  `json:"unit"`
	OnHand          float64 `json:"on_hand"`
	ParLevel        float64 `json:"par_level"`
	ReorderQuantity float64 `json:"reorder_quantity"`
	ReorderCost     float64 `json:"reorder_cost"`
}

type FoodCostReport struct {
	Revenue            float64            `json:"revenue"`
	FoodCost           float64            `json:"food_cost"`
	FoodCostPct        float64            `json:"food_cost_pct"`
	GrossProfit        float64            `json:"gross_profit"`
	Categories         []CategoryFoodCost `json:"categories"`
	WasteCost          float64            `json:"waste_cost"`
	WastePctOfFoodCost float64            `json:"waste_pct_of_food_cost"`
	WasteByReason      []WasteByReason    `json:"waste_by_reason"`
	TopWasteItems      []WasteByItem      `json:"top_waste_items"`
	InventoryValue     float64            `json:"inventory_value"`
	LowStock           []LowStockItem     `json:"low_stock"`
}

// AnalyzeFoodCost reports theoretical food cost from menu costs, waste valued
// at inventory unit cost, and items below par. Waste against unknown inventory
// items is ignored.
func AnalyzeFoodCost(sales []ItemSales, inventory []*models.InventoryItem, waste []*models.WasteEntry) FoodCostReport {
	var r FoodCostReport

	byCategory := make(map[string]*CategoryFoodCost)
	for _, s := range sales {
		r.Revenue += s.Revenue
		r.FoodCost += s.Cost
		c, ok := byCategory[s.Category]
		if !ok {
			c = &CategoryFoodCost{Category: s.Category}
			byCategory[s.Category] = c
		}
		c.ItemsSold += s.Quantity
		c.Revenue += s.Revenue
		c.Cost += s.Cost
	}
	r.FoodCostPct = safeDiv(r.FoodCost, r.Revenue) * 100
	r.GrossProfit = r.Revenue - r.FoodCost

	r.Categories = make([]CategoryFoodCost, 0, len(byCategory))
	for _, c := range byCategory {
		c.FoodCostPct = safeDiv(c.Cost, c.Revenue) * 100
		r.Categories = append(r.Categories, *c)
	}
	sort.Slice(r.Categories, func(i, j int) bool { return r.Categories[i].Category < r.Categories[j].Category })

	items := make(map[string]*models.InventoryItem, len(inventory))
	r.LowStock = []LowStockItem{}
	for _, it := range inventory {
		items[it.ID] = it
		r.InventoryValue += it.QuantityOnHand * it.UnitCost
		if it.QuantityOnHand < it.ParLevel {
			reorder := it.ParLevel - it.QuantityOnHand
			r.LowStock = append(r.LowStock, LowStockItem{
				InventoryItemID: it.ID,
				Name:            it.Name,
				Unit:            it.Unit,
				OnHand:          it.QuantityOnHand,
				ParLevel:        it.ParLevel,
				ReorderQuantity: reorder,
				ReorderCost:     reorder * it.UnitCost,
			})
		}
	}

	reasons := make(map[string]*WasteByReason)
	perItem := make(map[string]*WasteByItem)
	for _, w := range waste {
		it, ok := items[w.InventoryItemID]
		if !ok {
			continue
		}
		cost := w.Quantity * it.UnitCost
		r.WasteCost += cost

		wr, ok := reasons[w.Reason]
		if !ok {
			wr = &WasteByReason{Reason: w.Reason}
			reasons[w.Reason] = wr
		}
		wr.Entries++
		wr.Cost += cost

		wi, ok := perItem[it.ID]
		if !ok {
			wi = &WasteByItem{InventoryItemID: it.ID, Name: it.Name, Unit: it.Unit}
			perItem[it.ID] = wi
		}
		wi.Quantity += w.Quantity
		wi.Cost += cost
	}
	r.WastePctOfFoodCost = safeDiv(r.WasteCost, r.FoodCost) * 100

	r.WasteByReason = make([]WasteByReason, 0, len(reasons))
	for _, wr := range reasons {
		r.WasteByReason = append(r.WasteByReason, *wr)
	}
	sort.Slice(r.WasteByReason, func(i, j int) bool {
		if r.WasteByReason[i].Cost != r.WasteByReason[j].Cost {
			return r.WasteByReason[i].Cost > r.WasteByReason[j].Cost
		}
		return r.WasteByReason[i].Reason < r.WasteByReason[j].Reason
	})

	r.TopWasteItems = make([]WasteByItem, 0, len(perItem))
	for _, wi := range perItem {
		r.TopWasteItems = append(r.TopWasteItems, *wi)
	}
	sort.Slice(r.TopWasteItems, func(i, j int) bool {
		if r.TopWasteItems[i].Cost != r.TopWasteItems[j].Cost {
			return r.TopWasteItems[i].Cost > r.TopWasteItems[j].Cost
		}
		return r.TopWasteItems[i].InventoryItemID < r.TopWasteItems[j].InventoryItemID
	})
	if len(r.TopWasteItems) > topWasteItems {
		r.TopWasteItems = r.TopWasteItems[:topWasteItems]
	}
	return r
}

func (r FoodCostReport) Rounded() FoodCostReport {
	r.Revenue = Round2(r.Revenue)
	r.FoodCost = Round2(r.FoodCost)
	r.FoodCostPct = Round2(r.FoodCostPct)
	r.GrossProfit = Round2(r.GrossProfit)
	r.WasteCost = Round2(r.WasteCost)
	r.WastePctOfFoodCost = Round2(r.WastePctOfFoodCost)
	r.InventoryValue = Round2(r.InventoryValue)

	categories := make([]CategoryFoodCost, len(r.Categories))
	for i, c := range r.Categories {
		c.Revenue = Round2(c.Revenue)
		c.Cost = Round2(c.Cost)
		c.FoodCostPct = Round2(c.FoodCostPct)
		categories[i] = c
	}
	r.Categories = categories

	reasons := make([]WasteByReason, len(r.WasteByReason))
	for i, w := range r.WasteByReason {
		w.Cost = Round2(w.Cost)
		reasons[i] = w
	}
	r.WasteByReason = reasons

	items := make([]WasteByItem, len(r.TopWasteItems))
	for i, w := range r.TopWasteItems {
		w.Quantity = Round2(w.Quantity)
		w.Cost = Round2(w.Cost)
		items[i] = w
	}
	r.TopWasteItems = items

	low := make([]LowStockItem, len(r.LowStock))
	for i, l := range r.LowStock {
		l.ReorderQuantity = Round2(l.ReorderQuantity)
		l.ReorderCost = Round2(l.ReorderCost)
		low[i] = l
	}
	r.LowStock = low
	return r
}
