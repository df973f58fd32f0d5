package analytics

import (
	"sort"
	"strings"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// aspects are matched as substrings of the lower-cased comment.
var aspects = []struct {
	name     string
	keywords []string
}{
	{"food", []string{"food", "dish", "meal", "taste", "flavor", "menu", "portion"}},
	{"service", []string{"service", "server", "waiter", "waitress", "staff", "attentive"}},
	{"ambiance", []string{"ambiance", "atmosphere", "decor", "music", "noise", "lighting"}},
	{"value", []string{"price", "value", "worth", "expensive", "cheap", "affordable"}},
	{"wait_time", []string{"wait", "slow", "fast", "quick", "delayed"}},
}

type ReviewTheme struct {
	Aspect    string  `json:"aspect"`
	Mentions  int     `json:"mentions"`
	AvgRating float64 `json:"avg_rating"`
	Sentiment string  `json:"sentiment"`
}

type ReviewReport struct {
	TotalReviews int           `json:"total_reviews"`
	AvgRating    float64       `json:"avg_rating"`
	Sentiment    string        `json:"sentiment"`
	Positive     int           `json:"positive"`
	Neutral      int           `json:"neutral"`
	Negative     int           `json:"negative"`
	Distribution map[int]int   `json:"distribution"`
	Themes       []ReviewTheme `json:"themes"`
}

// RatingSentiment labels a star rating.
func RatingSentiment(rating float64) string {
	switch {
	case rating >= 4:
		return SentimentPositive
	case rating <= 2:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// AnalyzeReviews derives sentiment from star ratings and finds recurring
// themes by keyword. Ratings outside 1..5 are clamped.
func AnalyzeReviews(reviews []*models.Review) ReviewReport {
	r := ReviewReport{
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		Themes:       []ReviewTheme{},
	}
	mentions := make([]int, len(aspects))
	ratingSums := make([]float64, len(aspects))

	var total float64
	for _, rev := range reviews {
		rating := rev.Rating
		if rating < 1 {
			rating = 1
		} else if rating > 5 {
			rating = 5
		}
		r.TotalReviews++
		r.Distribution[rating]++
		total += float64(rating)

		switch RatingSentiment(float64(rating)) {
		case SentimentPositive:
			r.Positive++
		case SentimentNegative:
			r.Negative++
		default:
			r.Neutral++
		}

		text := strings.ToLower(rev.Comment)
		for i, a := range aspects {
			for _, kw := range a.keywords {
				if strings.Contains(text, kw) {
					mentions[i]++
					ratingSums[i] += float64(rating)
					break
				}
			}
		}
	}

	r.AvgRating = safeDiv(total, float64(r.TotalReviews))
	r.Sentiment = SentimentNeutral
	if r.TotalReviews > 0 {
		r.Sentiment = RatingSentiment(r.AvgRating)
	}

	for i, a := range aspects {
		if mentions[i] == 0 {
			continue
		}
		avg := ratingSums[i] / float64(mentions[i])
		r.Themes = append(r.Themes, ReviewTheme{
			Aspect:    a.name,
			Mentions:  mentions[i],
			AvgRating: avg,
			Sentiment: RatingSentiment(avg),
		})
	}
	sort.SliceStable(r.Themes, func(i, j int) bool { return r.Themes[i].Mentions > r.Themes[j].Mentions })
	return r
}

func (r ReviewReport) Rounded() ReviewReport {
	r.AvgRating = Round2(r.AvgRating)
	themes := make([]ReviewTheme, len(r.Themes))
	for i, t := range r.Themes {
		t.AvgRating = Round2(t.AvgRating)
		themes[i] = t
	}
	r.Themes = themes
	return r
}
