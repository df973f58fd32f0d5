package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/analytics"
	"github.com/chrisdamba/flavormetrics/internal/models"
	"github.com/chrisdamba/flavormetrics/internal/service"
)

// Analytics is the service surface the handlers need.
type Analytics interface {
	Restaurant(ctx context.Context, id string) (*models.Restaurant, error)
	Restaurants(ctx context.Context) ([]*models.Restaurant, error)
	Today(restaurant *models.Restaurant) time.Time
	DefaultRange(restaurant *models.Restaurant) service.DateRange

	SalesSummary(ctx context.Context, restaurantID string, r service.DateRange) (analytics.SalesSummary, error)
	MenuEngineering(ctx context.Context, restaurantID string, r service.DateRange) (analytics.MenuReport, error)
	GenerateForecast(ctx context.Context, restaurantID string, days int) (analytics.ForecastReport, error)
	StoredForecasts(ctx context.Context, restaurantID string, r service.DateRange) (analytics.ForecastReport, error)
	Segments(ctx context.Context, restaurantID string) ([]analytics.SegmentSummary, error)
	AtRisk(ctx context.Context, restaurantID string, minRisk float64, limit int) (analytics.AtRiskReport, error)
	Rescore(ctx context.Context, restaurantID string) (service.RescoreResult, error)
	LaborSchedule(ctx context.Context, restaurantID string, req service.LaborRequest) (analytics.LaborPlan, error)
	FoodCost(ctx context.Context, restaurantID string, r service.DateRange) (analytics.FoodCostReport, error)
	ReviewThemes(ctx context.Context, restaurantID string, r service.DateRange) (analytics.ReviewReport, error)
}

type Handler struct {
	svc             Analytics
	maxForecastDays int
}

func NewHandler(svc Analytics, maxForecastDays int) *Handler {
	return &Handler{svc: svc, maxForecastDays: maxForecastDays}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.svc.Restaurants(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, restaurants)
}

// rangeRequest resolves the restaurant and its requested date range, writing
// the error response itself when either fails.
func (h *Handler) rangeRequest(w http.ResponseWriter, r *http.Request) (string, service.DateRange, bool) {
	id := r.PathValue("restaurantID")
	restaurant, err := h.svc.Restaurant(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return "", service.DateRange{}, false
	}
	dr, err := parseRange(r.URL.Query(), h.svc.DefaultRange(restaurant))
	if err != nil {
		writeError(w, r, err)
		return "", service.DateRange{}, false
	}
	return id, dr, true
}

func respond[T any](w http.ResponseWriter, r *http.Request, data T, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, data)
}

func (h *Handler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	id, dr, ok := h.rangeRequest(w, r)
	if !ok {
		return
	}
	data, err := h.svc.SalesSummary(r.Context(), id, dr)
	respond(w, r, data, err)
}

func (h *Handler) MenuEngineering(w http.ResponseWriter, r *http.Request) {
	id, dr, ok := h.rangeRequest(w, r)
	if !ok {
		return
	}
	data, err := h.svc.MenuEngineering(r.Context(), id, dr)
	respond(w, r, data, err)
}

func (h *Handler) FoodCost(w http.ResponseWriter, r *http.Request) {
	id, dr, ok := h.rangeRequest(w, r)
	if !ok {
		return
	}
	data, err := h.svc.FoodCost(r.Context(), id, dr)
	respond(w, r, data, err)
}

func (h *Handler) ReviewThemes(w http.ResponseWriter, r *http.Request) {
	id, dr, ok := h.rangeRequest(w, r)
	if !ok {
		return
	}
	data, err := h.svc.ReviewThemes(r.Context(), id, dr)
	respond(w, r, data, err)
}

func (h *Handler) GenerateForecast(w http.ResponseWriter, r *http.Request) {
	v := ValidationError{}
	days := parseInt(v, r.URL.Query(), "days", h.maxForecastDays, 1, h.maxForecastDays)
	if err := v.err(); err != nil {
		writeError(w, r, err)
		return
	}
	data, err := h.svc.GenerateForecast(r.Context(), r.PathValue("restaurantID"), days)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, data)
}

// StoredForecasts defaults to the upcoming forecast horizon rather than the
// trailing month.
func (h *Handler) StoredForecasts(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("restaurantID")
	restaurant, err := h.svc.Restaurant(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tomorrow := h.svc.Today(restaurant).AddDate(0, 0, 1)
	def := service.DateRange{Start: tomorrow, End: tomorrow.AddDate(0, 0, h.maxForecastDays-1)}
	dr, err := parseRange(r.URL.Query(), def)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, err := h.svc.StoredForecasts(r.Context(), id, dr)
	respond(w, r, data, err)
}

func (h *Handler) Segments(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Segments(r.Context(), r.PathValue("restaurantID"))
	respond(w, r, data, err)
}

func (h *Handler) AtRisk(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v := ValidationError{}
	minRisk := parseFloat(v, q, "min_risk", analytics.DefaultMinRisk, 0, 1)
	limit := parseInt(v, q, "limit", 50, 1, 1000)
	if err := v.err(); err != nil {
		writeError(w, r, err)
		return
	}
	data, err := h.svc.AtRisk(r.Context(), r.PathValue("restaurantID"), minRisk, limit)
	respond(w, r, data, err)
}

func (h *Handler) Rescore(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Rescore(r.Context(), r.PathValue("restaurantID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	data.Scores = nil
	writeData(w, http.StatusOK, data)
}

type laborScheduleBody struct {
	WeekStart           string         `json:"week_start"`
	MaxHoursPerEmployee float64        `json:"max_hours_per_employee"`
	Covers              map[string]int `json:"covers"`
}

func (h *Handler) LaborSchedule(w http.ResponseWriter, r *http.Request) {
	var body laborScheduleBody
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, ValidationError{"body": "must be a JSON object: " + err.Error()})
		return
	}

	v := ValidationError{}
	weekStart, _ := parseDate(v, "week_start", body.WeekStart)
	if body.MaxHoursPerEmployee < 0 || body.MaxHoursPerEmployee > 168 {
		v.add("max_hours_per_employee", "must be between 0 and 168")
	}
	for date, covers := range body.Covers {
		if _, err := time.Parse(dateLayout, date); err != nil {
			v.add("covers", "keys must be YYYY-MM-DD dates")
		} else if covers < 0 {
			v.add("covers", "values must not be negative")
		}
	}
	if err := v.err(); err != nil {
		writeError(w, r, err)
		return
	}

	data, err := h.svc.LaborSchedule(r.Context(), r.PathValue("restaurantID"), service.LaborRequest{
		WeekStart:           weekStart,
		MaxHoursPerEmployee: body.MaxHoursPerEmployee,
		Covers:              body.Covers,
	})
	respond(w, r, data, err)
}
