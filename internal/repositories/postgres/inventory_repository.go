package postgres

import (
	"context"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InventoryRepository struct {
	pool *pgxpool.Pool
}

func NewInventoryRepository(pool *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{pool: pool}
}

func (r *InventoryRepository) BulkCreateItems(ctx context.Context, items []*models.InventoryItem) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"inventory_items"},
		[]string{"id", "restaurant_id", "name", "category", "unit", "unit_cost", "quantity_on_hand", "par_level"},
		pgx.CopyFromSlice(len(items), func(i int) ([]interface{}, error) {
			return []interface{}{
				items[i].ID,
				items[i].RestaurantID,
				items[i].Name,
				items[i].Category,
				items[i].Unit,
				items[i].UnitCost,
				items[i].QuantityOnHand,
				items[i].ParLevel,
			}, nil
		}),
	)
	return err
}

func (r *InventoryRepository) BulkCreateWaste(ctx context.Context, entries []*models.WasteEntry) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"waste_entries"},
		[]string{"id", "restaurant_id", "inventory_item_id", "quantity", "reason", "recorded_at"},
		pgx.CopyFromSlice(len(entries), func(i int) ([]interface{}, error) {
			return []interface{}{
				entries[i].ID,
				entries[i].RestaurantID,
				entries[i].InventoryItemID,
				entries[i].Quantity,
				entries[i].Reason,
				entries[i].RecordedAt,
			}, nil
		}),
	)
	return err
}

func (r *InventoryRepository) ItemsByRestaurantID(ctx context.Context, restaurantID string) ([]*models.InventoryItem, error) {
	query := `
        SELECT id, restaurant_id, name, category, unit, unit_cost, quantity_on_hand, par_level
        FROM inventory_items
        WHERE restaurant_id = $1
        ORDER BY name
    `
	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		item := &models.InventoryItem{}
		if err := rows.Scan(
			&item.ID,
			&item.RestaurantID,
			&item.Name,
			&item.Category,
			&item.Unit,
			&item.UnitCost,
			&item.QuantityOnHand,
			&item.ParLevel,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *InventoryRepository) WasteBetween(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.WasteEntry, error) {
	query := `
        SELECT id, restaurant_id, inventory_item_id, quantity, reason, recorded_at
        FROM waste_entries
        WHERE restaurant_id = $1
          AND recorded_at >= $2 AND recorded_at < $3
        ORDER BY recorded_at
    `
	rows, err := r.pool.Query(ctx, query, restaurantID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.WasteEntry
	for rows.Next() {
		entry := &models.WasteEntry{}
		if err := rows.Scan(
			&entry.ID,
			&entry.RestaurantID,
			&entry.InventoryItemID,
			&entry.Quantity,
			&entry.Reason,
			&entry.RecordedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
