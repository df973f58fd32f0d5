package postgres

import (
	"context"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

func (r *ReviewRepository) BulkCreate(ctx context.Context, reviews []*models.Review) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"reviews"},
		[]string{"id", "restaurant_id", "customer_id", "rating", "comment", "source", "created_at"},
		pgx.CopyFromSlice(len(reviews), func(i int) ([]interface{}, error) {
			var customerID *string
			if reviews[i].CustomerID != "" {
				customerID = &reviews[i].CustomerID
			}
			return []interface{}{
				reviews[i].ID,
				reviews[i].RestaurantID,
				customerID,
				reviews[i].Rating,
				reviews[i].Comment,
				reviews[i].Source,
				reviews[i].CreatedAt,
			}, nil
		}),
	)
	return err
}

func (r *ReviewRepository) Between(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.Review, error) {
	query := `
        SELECT id, restaurant_id, COALESCE(customer_id, ''), rating, comment, source, created_at
        FROM reviews
        WHERE restaurant_id = $1
          AND created_at >= $2 AND created_at < $3
        ORDER BY created_at
    `
	rows, err := r.pool.Query(ctx, query, restaurantID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []*models.Review
	for rows.Next() {
		review := &models.Review{}
		if err := rows.Scan(
			&review.ID,
			&review.RestaurantID,
			&review.CustomerID,
			&review.Rating,
			&review.Comment,
			&review.Source,
			&review.CreatedAt,
		); err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}
