package postgres

import (
	"context"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StaffRepository struct {
	pool *pgxpool.Pool
}

func NewStaffRepository(pool *pgxpool.Pool) *StaffRepository {
	return &StaffRepository{pool: pool}
}

func (r *StaffRepository) BulkCreate(ctx context.Context, staff []*models.Staff) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"staff"},
		[]string{"id", "restaurant_id", "name", "role", "hourly_rate", "active"},
		pgx.CopyFromSlice(len(staff), func(i int) ([]interface{}, error) {
			return []interface{}{
				staff[i].ID,
				staff[i].RestaurantID,
				staff[i].Name,
				staff[i].Role,
				staff[i].HourlyRate,
				staff[i].Active,
			}, nil
		}),
	)
	return err
}

// ActiveByRestaurantID returns the roster in hiring order.
func (r *StaffRepository) ActiveByRestaurantID(ctx context.Context, restaurantID string) ([]*models.Staff, error) {
	query := `
        SELECT id, restaurant_id, name, role, hourly_rate, active
        FROM staff
        WHERE restaurant_id = $1 AND active
        ORDER BY created_at, id
    `
	return r.query(ctx, query, restaurantID)
}

func (r *StaffRepository) GetByRestaurantID(ctx context.Context, restaurantID string) ([]*models.Staff, error) {
	query := `
        SELECT id, restaurant_id, name, role, hourly_rate, active
        FROM staff
        WHERE restaurant_id = $1
        ORDER BY created_at, id
    `
	return r.query(ctx, query, restaurantID)
}

func (r *StaffRepository) query(ctx context.Context, query string, args ...interface{}) ([]*models.Staff, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staff []*models.Staff
	for rows.Next() {
		member := &models.Staff{}
		if err := rows.Scan(
			&member.ID,
			&member.RestaurantID,
			&member.Name,
			&member.Role,
			&member.HourlyRate,
			&member.Active,
		); err != nil {
			return nil, err
		}
		staff = append(staff, member)
	}
	return staff, rows.Err()
}

type ShiftRepository struct {
	pool *pgxpool.Pool
}

func NewShiftRepository(pool *pgxpool.Pool) *ShiftRepository {
	return &ShiftRepository{pool: pool}
}

func (r *ShiftRepository) BulkCreate(ctx context.Context, shifts []*models.Shift) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"shifts"},
		[]string{
			"id", "restaurant_id", "staff_id", "role",
			"scheduled_start", "scheduled_end", "actual_start", "actual_end",
		},
		pgx.CopyFromSlice(len(shifts), func(i int) ([]interface{}, error) {
			return []interface{}{
				shifts[i].ID,
				shifts[i].RestaurantID,
				shifts[i].StaffID,
				shifts[i].Role,
				shifts[i].ScheduledStart,
				shifts[i].ScheduledEnd,
				shifts[i].ActualStart,
				shifts[i].ActualEnd,
			}, nil
		}),
	)
	return err
}

func (r *ShiftRepository) Between(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.Shift, error) {
	query := `
        SELECT id, restaurant_id, staff_id, role,
               scheduled_start, scheduled_end, actual_start, actual_end
        FROM shifts
        WHERE restaurant_id = $1
          AND scheduled_start >= $2 AND scheduled_start < $3
        ORDER BY scheduled_start
    `
	rows, err := r.pool.Query(ctx, query, restaurantID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []*models.Shift
	for rows.Next() {
		shift := &models.Shift{}
		if err := rows.Scan(
			&shift.ID,
			&shift.RestaurantID,
			&shift.StaffID,
			&shift.Role,
			&shift.ScheduledStart,
			&shift.ScheduledEnd,
			&shift.ActualStart,
			&shift.ActualEnd,
		); err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, rows.Err()
}
