package postgres

import (
	"context"

	"github.com/chrisdamba/flavormetrics/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CustomerRepository struct {
	pool *pgxpool.Pool
}

func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{pool: pool}
}

func (r *CustomerRepository) BulkCreate(ctx context.Context, customers []*models.Customer) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"customers"},
		[]string{
			"id", "restaurant_id", "name", "email", "rfm_segment", "churn_risk",
			"total_spent", "visit_count", "avg_check", "first_visit_at", "last_visit_at",
		},
		pgx.CopyFromSlice(len(customers), func(i int) ([]interface{}, error) {
			return []interface{}{
				customers[i].ID,
				customers[i].RestaurantID,
				customers[i].Name,
				customers[i].Email,
				customers[i].RFMSegment,
				customers[i].ChurnRisk,
				customers[i].TotalSpent,
				customers[i].VisitCount,
				customers[i].AvgCheck,
				customers[i].FirstVisitAt,
				customers[i].LastVisitAt,
			}, nil
		}),
	)
	return err
}

func (r *CustomerRepository) GetByRestaurantID(ctx context.Context, restaurantID string) ([]*models.Customer, error) {
	query := `
        SELECT id, restaurant_id, name, email, rfm_segment, churn_risk,
               total_spent, visit_count, avg_check, first_visit_at, last_visit_at
        FROM customers
        WHERE restaurant_id = $1
        ORDER BY id
    `
	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer := &models.Customer{}
		err := rows.Scan(
			&customer.ID,
			&customer.RestaurantID,
			&customer.Name,
			&customer.Email,
			&customer.RFMSegment,
			&customer.ChurnRisk,
			&customer.TotalSpent,
			&customer.VisitCount,
			&customer.AvgCheck,
			&customer.FirstVisitAt,
			&customer.LastVisitAt,
		)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}

// UpdateScores writes a rescoring run in one batch inside a transaction.
func (r *CustomerRepository) UpdateScores(ctx context.Context, scores []models.CustomerScore) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, s := range scores {
		batch.Queue(
			`UPDATE customers SET rfm_segment = $2, churn_risk = $3 WHERE id = $1`,
			s.CustomerID, s.Segment, s.ChurnRisk,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
