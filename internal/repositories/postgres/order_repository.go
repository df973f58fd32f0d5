package postgres

import (
	"context"
	"time"

	"github.com/chrisdamba/flavormetrics/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) BulkCreate(ctx context.Context, orders []*models.Order) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"orders"},
		[]string{
			"id", "restaurant_id", "customer_id", "status", "guest_count",
			"total", "tip", "opened_at", "closed_at",
		},
		pgx.CopyFromSlice(len(orders), func(i int) ([]interface{}, error) {
			var customerID *string
			if orders[i].CustomerID != "" {
				customerID = &orders[i].CustomerID
			}
			return []interface{}{
				orders[i].ID,
				orders[i].RestaurantID,
				customerID,
				orders[i].Status,
				orders[i].GuestCount,
				orders[i].Total,
				orders[i].Tip,
				orders[i].OpenedAt,
				orders[i].ClosedAt,
			}, nil
		}),
	)
	return err
}

func (r *OrderRepository) ClosedBetween(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.Order, error) {
	query := `
        SELECT id, restaurant_id, COALESCE(customer_id, ''), status, guest_count,
               total, tip, opened_at, closed_at
        FROM orders
        WHERE restaurant_id = $1
          AND status = $2
          AND closed_at >= $3 AND closed_at < $4
        ORDER BY closed_at
    `
	rows, err := r.pool.Query(ctx, query, restaurantID, models.OrderStatusClosed, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		err := rows.Scan(
			&order.ID,
			&order.RestaurantID,
			&order.CustomerID,
			&order.Status,
			&order.GuestCount,
			&order.Total,
			&order.Tip,
			&order.OpenedAt,
			&order.ClosedAt,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

type OrderItemRepository struct {
	pool *pgxpool.Pool
}

func NewOrderItemRepository(pool *pgxpool.Pool) *OrderItemRepository {
	return &OrderItemRepository{pool: pool}
}

func (r *OrderItemRepository) BulkCreate(ctx context.Context, items []*models.OrderItem) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"order_items"},
		[]string{"id", "order_id", "menu_item_id", "quantity", "unit_price", "void"},
		pgx.CopyFromSlice(len(items), func(i int) ([]interface{}, error) {
			return []interface{}{
				items[i].ID,
				items[i].OrderID,
				items[i].MenuItemID,
				items[i].Quantity,
				items[i].UnitPrice,
				items[i].Void,
			}, nil
		}),
	)
	return err
}

func (r *OrderItemRepository) ForClosedOrdersBetween(ctx context.Context, restaurantID string, start, end time.Time) ([]*models.OrderItem, error) {
	query := `
        SELECT oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.unit_price, oi.void
        FROM order_items oi
        JOIN orders o ON o.id = oi.order_id
        WHERE o.restaurant_id = $1
          AND o.status = $2
          AND o.closed_at >= $3 AND o.closed_at < $4
    `
	rows, err := r.pool.Query(ctx, query, restaurantID, models.OrderStatusClosed, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.MenuItemID,
			&item.Quantity,
			&item.UnitPrice,
			&item.Void,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
