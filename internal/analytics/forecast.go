package analytics

import (
	"math"
	"math/rand"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

const (
	DefaultMeanCovers         = 50.0
	DefaultStdCovers          = 10.0
	DefaultAvgRevenuePerCover = 45.0

	jitterFraction  = 0.25
	confidenceWidth = 1.5
)

// WeekdayStats are the covers statistics of one day of the week, 0=Sunday.
type WeekdayStats struct {
	DayOfWeek int     `json:"day_of_week"`
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Samples   int     `json:"samples"`
}

// meanStd falls back to the fixed defaults for weekdays with no history.
func (w WeekdayStats) meanStd() (float64, float64) {
	if w.Samples == 0 {
		return DefaultMeanCovers, DefaultStdCovers
	}
	return w.Mean, w.StdDev
}

// WeekdayProfile computes the per-weekday mean and population standard
// deviation of daily covers.
func WeekdayProfile(history []DailyCovers) [7]WeekdayStats {
	var buckets [7][]float64
	for _, d := range history {
		wd := int(d.Date.Weekday())
		buckets[wd] = append(buckets[wd], float64(d.Covers))
	}

	var profile [7]WeekdayStats
	for wd, values := range buckets {
		profile[wd] = WeekdayStats{DayOfWeek: wd, Samples: len(values)}
		if len(values) == 0 {
			continue
		}
		var sum float64
		for _, v := range values {
			sum += v
		}
		mean := sum / float64(len(values))
		var sq float64
		for _, v := range values {
			sq += (v - mean) * (v - mean)
		}
		profile[wd].Mean = mean
		profile[wd].StdDev = math.Sqrt(sq / float64(len(values)))
	}
	return profile
}

type ForecastDay struct {
	Date            time.Time `json:"date"`
	DayOfWeek       int       `json:"day_of_week"`
	PredictedCovers int       `json:"predicted_covers"`
	ConfidenceLow   int       `json:"confidence_low"`
	ConfidenceHigh  int       `json:"confidence_high"`
}

// ForecastDemand projects covers for days consecutive dates starting at
// firstDay. The prediction is the weekday mean plus uniform jitter of up to a
// quarter standard deviation; this is presentation noise, not a model. The
// band is 1.5 standard deviations either side of the rounded prediction,
// floored at zero, so low <= predicted <= high always holds.
func ForecastDemand(history []DailyCovers, firstDay time.Time, days int, rng *rand.Rand) []ForecastDay {
	if days <= 0 {
		return []ForecastDay{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	profile := WeekdayProfile(history)

	out := make([]ForecastDay, 0, days)
	for i := 0; i < days; i++ {
		date := firstDay.AddDate(0, 0, i)
		wd := int(date.Weekday())
		mean, std := profile[wd].meanStd()

		jitter := (rng.Float64()*2 - 1) * jitterFraction * std
		predicted := math.Max(0, math.Round(mean+jitter))
		low := math.Max(0, math.Floor(predicted-confidenceWidth*std))
		high := math.Ceil(predicted + confidenceWidth*std)

		out = append(out, ForecastDay{
			Date:            date,
			DayOfWeek:       wd,
			PredictedCovers: int(predicted),
			ConfidenceLow:   int(low),
			ConfidenceHigh:  int(high),
		})
	}
	return out
}

type ItemForecastDay struct {
	MenuItemID        string    `json:"menu_item_id"`
	Name              string    `json:"name"`
	Date              time.Time `json:"date"`
	PredictedQuantity int       `json:"predicted_quantity"`
}

// ForecastItems predicts per-item quantity as the mean sold on the same
// weekday, averaged over the days the restaurant had any covers. Items with no
// history for a weekday predict zero.
func ForecastItems(sales []ItemDailySales, history []DailyCovers, menu []*models.MenuItem, firstDay time.Time, days int) []ItemForecastDay {
	var openDays [7]int
	for _, d := range history {
		openDays[d.Date.Weekday()]++
	}

	type key struct {
		item    string
		weekday int
	}
	sums := make(map[key]int)
	for _, s := range sales {
		sums[key{s.MenuItemID, int(s.Date.Weekday())}] += s.Quantity
	}

	out := make([]ItemForecastDay, 0, days*len(menu))
	for i := 0; i < days; i++ {
		date := firstDay.AddDate(0, 0, i)
		wd := int(date.Weekday())
		for _, m := range menu {
			var qty int
			if openDays[wd] > 0 {
				qty = int(math.Round(float64(sums[key{m.ID, wd}]) / float64(openDays[wd])))
			}
			out = append(out, ItemForecastDay{MenuItemID: m.ID, Name: m.Name, Date: date, PredictedQuantity: qty})
		}
	}
	return out
}

// AvgRevenuePerCover over the history, or the default when no guests were
// seated.
func AvgRevenuePerCover(history []DailyCovers) float64 {
	var revenue float64
	var covers int
	for _, d := range history {
		revenue += d.Revenue
		covers += d.Covers
	}
	if covers == 0 {
		return DefaultAvgRevenuePerCover
	}
	return revenue / float64(covers)
}

type ForecastReport struct {
	RestaurantID       string            `json:"restaurant_id"`
	ModelVersion       string            `json:"model_version"`
	GeneratedAt        time.Time         `json:"generated_at"`
	HistoryDays        int               `json:"history_days"`
	Days               []ForecastDay     `json:"days"`
	Items              []ItemForecastDay `json:"items,omitempty"`
	TotalPredicted     int               `json:"total_predicted"`
	TotalLow           int               `json:"total_low"`
	TotalHigh          int               `json:"total_high"`
	AvgRevenuePerCover float64           `json:"avg_revenue_per_cover"`
	ExpectedRevenue    float64           `json:"expected_revenue"`
}

// Totals fills the summed fields from Days.
func (r *ForecastReport) Totals() {
	r.TotalPredicted, r.TotalLow, r.TotalHigh = 0, 0, 0
	for _, d := range r.Days {
		r.TotalPredicted += d.PredictedCovers
		r.TotalLow += d.ConfidenceLow
		r.TotalHigh += d.ConfidenceHigh
	}
	r.ExpectedRevenue = float64(r.TotalPredicted) * r.AvgRevenuePerCover
}

func (r ForecastReport) Rounded() ForecastReport {
	r.AvgRevenuePerCover = Round2(r.AvgRevenuePerCover)
	r.ExpectedRevenue = Round2(r.ExpectedRevenue)
	return r
}

// DaysFromRows converts stored forecast rows back to report days.
func DaysFromRows(rows []*models.DemandForecast) []ForecastDay {
	out := make([]ForecastDay, len(rows))
	for i, row := range rows {
		out[i] = ForecastDay{
			Date:            row.Date,
			DayOfWeek:       int(row.Date.Weekday()),
			PredictedCovers: row.PredictedCovers,
			ConfidenceLow:   row.ConfidenceLow,
			ConfidenceHigh:  row.ConfidenceHigh,
		}
	}
	return out
}
