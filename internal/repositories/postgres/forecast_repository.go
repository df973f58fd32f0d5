package postgres

import (
	"context"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ForecastRepository struct {
	pool *pgxpool.Pool
}

func NewForecastRepository(pool *pgxpool.Pool) *ForecastRepository {
	return &ForecastRepository{pool: pool}
}

// UpsertDemand overwrites any prior prediction for the same restaurant and
// date. No lock is taken; concurrent generations race and the last one wins.
func (r *ForecastRepository) UpsertDemand(ctx context.Context, forecasts []*models.DemandForecast) error {
	batch := &pgx.Batch{}
	for _, f := range forecasts {
		batch.Queue(`
INSERT INTO demand_forecasts (
    restaurant_id, forecast_date, predicted_covers, confidence_low,
    confidence_high, model_version, generated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (restaurant_id, forecast_date) DO UPDATE SET
    predicted_covers = EXCLUDED.predicted_covers,
    confidence_low   = EXCLUDED.confidence_low,
    confidence_high  = EXCLUDED.confidence_high,
    model_version    = EXCLUDED.model_version,
    generated_at     = EXCLUDED.generated_at
`, f.RestaurantID, f.Date, f.PredictedCovers, f.ConfidenceLow, f.ConfidenceHigh, f.ModelVersion, f.GeneratedAt)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

func (r *ForecastRepository) UpsertItemDemand(ctx context.Context, forecasts []*models.ItemForecast) error {
	batch := &pgx.Batch{}
	for _, f := range forecasts {
		batch.Queue(`
INSERT INTO item_forecasts (
    restaurant_id, menu_item_id, forecast_date, predicted_quantity, model_version, generated_at
) VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (restaurant_id, menu_item_id, forecast_date) DO UPDATE SET
    predicted_quantity = EXCLUDED.predicted_quantity,
    model_version      = EXCLUDED.model_version,
    generated_at       = EXCLUDED.generated_at
`, f.RestaurantID, f.MenuItemID, f.Date, f.PredictedQuantity, f.ModelVersion, f.GeneratedAt)
	}
	return r.pool.SendBatch(ctx, batch).Close()
}

func (r *ForecastRepository) DemandBetween(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.DemandForecast, error) {
	query := `
        SELECT restaurant_id, forecast_date, predicted_covers, confidence_low,
               confidence_high, model_version, generated_at
        FROM demand_forecasts
        WHERE restaurant_id = $1
          AND forecast_date >= $2 AND forecast_date < $3
        ORDER BY forecast_date
    `
	rows, err := r.pool.Query(ctx, query, restaurantID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var forecasts []*models.DemandForecast
	for rows.Next() {
		f := &models.DemandForecast{}
		if err := rows.Scan(
			&f.RestaurantID,
			&f.Date,
			&f.PredictedCovers,
			&f.ConfidenceLow,
			&f.ConfidenceHigh,
			&f.ModelVersion,
			&f.GeneratedAt,
		); err != nil {
			return nil, err
		}
		forecasts = append(forecasts, f)
	}
	return forecasts, rows.Err()
}

func (r *ForecastRepository) ItemDemandBetween(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.ItemForecast, error) {
	query := `
        SELECT restaurant_id, menu_item_id, forecast_date, predicted_quantity, model_version, generated_at
        FROM item_forecasts
        WHERE restaurant_id = $1
          AND forecast_date >= $2 AND forecast_date < $3
        ORDER BY forecast_date, menu_item_id
    `
	rows, err := r.pool.Query(ctx, query, restaurantID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var forecasts []*models.ItemForecast
	for rows.Next() {
		f := &models.ItemForecast{}
		if err := rows.Scan(
			&f.RestaurantID,
			&f.MenuItemID,
			&f.Date,
			&f.PredictedQuantity,
			&f.ModelVersion,
			&f.GeneratedAt,
		); err != nil {
			return nil, err
		}
		forecasts = append(forecasts, f)
	}
	return forecasts, rows.Err()
}
