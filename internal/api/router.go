package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

const restaurantPrefix = "/api/v1/restaurants/{restaurantID}/"

func NewRouter(h *Handler, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /api/v1/restaurants", h.ListRestaurants)

	mux.HandleFunc("GET "+restaurantPrefix+"sales/summary", h.SalesSummary)
	mux.HandleFunc("GET "+restaurantPrefix+"menu/engineering", h.MenuEngineering)
	mux.HandleFunc("POST "+restaurantPrefix+"forecasts/generate", h.GenerateForecast)
	mux.HandleFunc("GET "+restaurantPrefix+"forecasts", h.StoredForecasts)
	mux.HandleFunc("GET "+restaurantPrefix+"customers/segments", h.Segments)
	mux.HandleFunc("GET "+restaurantPrefix+"customers/at-risk", h.AtRisk)
	mux.HandleFunc("POST "+restaurantPrefix+"customers/rescore", h.Rescore)
	mux.HandleFunc("POST "+restaurantPrefix+"labor/schedule", h.LaborSchedule)
	mux.HandleFunc("GET "+restaurantPrefix+"food-cost", h.FoodCost)
	mux.HandleFunc("GET "+restaurantPrefix+"reviews/themes", h.ReviewThemes)

	chain := hlog.NewHandler(logger)
	access := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})
	requestID := hlog.RequestIDHandler("request_id", "X-Request-Id")
	return chain(requestID(access(mux)))
}
