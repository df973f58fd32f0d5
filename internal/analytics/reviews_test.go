package analytics

import (
	"testing"

	"github.com/chrisdamba/flavormetrics/internal/models"
)

func TestAnalyzeReviews(t *testing.T) {
	reviews := []*models.Review{
		{Rating: 5, Comment: "Amazing food and attentive staff"},
		{Rating: 4, Comment: "Great flavor, a bit expensive"},
		{Rating: 2, Comment: "Slow service, waited forever"},
		{Rating: 3, Comment: ""},
		{Rating: 9, Comment: "The DISH was perfect"},
	}

	r := AnalyzeReviews(reviews)

	if r.TotalReviews != 5 || r.Positive != 3 || r.Negative != 1 || r.Neutral != 1 {
		t.Errorf("counts = %+v", r)
	}
	if r.Distribution[5] != 2 || r.Distribution[2] != 1 {
		t.Errorf("Distribution = %v", r.Distribution)
	}
	if r.AvgRating != 3.8 {
		t.Errorf("AvgRating = %v, want 3.8", r.AvgRating)
	}
	if r.Sentiment != SentimentNeutral {
		t.Errorf("Sentiment = %s", r.Sentiment)
	}

	themes := make(map[string]ReviewTheme)
	for _, th := range r.Themes {
		themes[th.Aspect] = th
	}
	if r.Themes[0].Aspect != "food" || themes["food"].Mentions != 3 {
		t.Errorf("top theme = %+v, want food with 3 mentions", r.Themes[0])
	}
	if svc := themes["service"]; svc.Mentions != 2 || svc.AvgRating != 3.5 {
		t.Errorf("service = %+v", svc)
	}
	if wait := themes["wait_time"]; wait.Mentions != 1 || wait.Sentiment != SentimentNegative {
		t.Errorf("wait_time = %+v", wait)
	}
	if _, ok := themes["ambiance"]; ok {
		t.Error("ambiance was never mentioned")
	}
}

func TestAnalyzeReviews_Empty(t *testing.T) {
	r := AnalyzeReviews(nil)

	if r.AvgRating != 0 || r.Sentiment != SentimentNeutral || len(r.Themes) != 0 {
		t.Errorf("empty report = %+v", r)
	}
}
