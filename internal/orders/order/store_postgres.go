// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package order (Postgres) implements the storage layer for orders.

# Schema Table Mapping
  - orders.order: Order headers with precomputed totals.
  - orders.orderitem: Immutable price/name snapshots per line.
  - core.food: soldcount is bumped inside the checkout transaction.
*/
package order

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/anngon/internal/platform/database/schema"
	"github.com/taibuivan/anngon/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres implementation for orders.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
CreateOrders persists a batch of orders with their lines atomically.

Description: Wraps every header insert, every line insert, and the soldcount
bumps of the purchased dishes in one transaction, so a multi-stall checkout
either lands completely or not at all.

Parameters:
  - context: context.Context
  - orders: []*Order (Items must be populated on each)

Returns:
  - error: Transactional or constraint failures
*/
func (repository *PostgresRepository) CreateOrders(context context.Context, orders []*Order) error {

	// Establish Transactional Boundary
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_checkout_tx")
	}
	defer transaction.Rollback(context)

	for _, order := range orders {
		if err := insertOrder(context, transaction, order); err != nil {
			return err
		}
	}

	// Persist Atomic Changeset
	return transaction.Commit(context)
}

// insertOrder writes one order header, its line snapshots, and the soldcount
// bumps inside the caller's transaction.
func insertOrder(context context.Context, transaction pgx.Tx, order *Order) error {

	// Step 1: Order header with precomputed totals
	headerQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING %s, %s
	`,
		schema.OrdersOrder.Table,
		schema.OrdersOrder.ID, schema.OrdersOrder.UserID, schema.OrdersOrder.StallID,
		schema.OrdersOrder.Status, schema.OrdersOrder.TotalAmount, schema.OrdersOrder.TotalItems,
		schema.OrdersOrder.Note, schema.OrdersOrder.Address, schema.OrdersOrder.Phone,
		schema.OrdersOrder.CreatedAt, schema.OrdersOrder.UpdatedAt,
		schema.OrdersOrder.CreatedAt, schema.OrdersOrder.UpdatedAt,
	)

	err := transaction.QueryRow(context, headerQuery,
		order.ID, order.UserID, order.StallID, order.Status,
		order.TotalAmount, order.TotalItems, order.Note, order.Address, order.Phone,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "insert_order")
	}

	// Step 2: Line snapshots
	itemQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`,
		schema.OrdersOrderItem.Table,
		schema.OrdersOrderItem.ID, schema.OrdersOrderItem.OrderID, schema.OrdersOrderItem.FoodID,
		schema.OrdersOrderItem.FoodName, schema.OrdersOrderItem.UnitPrice, schema.OrdersOrderItem.Quantity,
		schema.OrdersOrderItem.CreatedAt,
	)

	// Step 3: Sold counter bump per dish
	soldQuery := fmt.Sprintf(`UPDATE %s SET %s = %s + $2 WHERE %s = $1`,
		schema.CoreFood.Table, schema.CoreFood.SoldCount, schema.CoreFood.SoldCount, schema.CoreFood.ID)

	for _, item := range order.Items {
		_, err = transaction.Exec(context, itemQuery,
			item.ID, item.OrderID, item.FoodID, item.FoodName, item.UnitPrice, item.Quantity,
		)
		if err != nil {
			return dberr.Wrap(err, "insert_order_item")
		}

		if _, err = transaction.Exec(context, soldQuery, item.FoodID, item.Quantity); err != nil {
			return dberr.Wrap(err, "increment_sold_count")
		}
	}

	return nil
}

// orderSelectColumns renders the shared header projection.
func orderSelectColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.OrdersOrder.ID, schema.OrdersOrder.UserID, schema.OrdersOrder.StallID,
		schema.OrdersOrder.Status, schema.OrdersOrder.TotalAmount, schema.OrdersOrder.TotalItems,
		schema.OrdersOrder.Note, schema.OrdersOrder.Address, schema.OrdersOrder.Phone,
		schema.OrdersOrder.CreatedAt, schema.OrdersOrder.UpdatedAt,
	)
}

func scanOrder(scan func(dest ...any) error) (*Order, error) {
	o := &Order{}
	err := scan(
		&o.ID, &o.UserID, &o.StallID, &o.Status, &o.TotalAmount, &o.TotalItems,
		&o.Note, &o.Address, &o.Phone, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

/*
ListOrders returns a filtered, paginated order page without line items.

Parameters:
  - context: context.Context
  - f: Filter
  - limit: int
  - offset: int

Returns:
  - []*Order: Order headers, newest first
  - int: Total match count
  - error: Retrieval failures
*/
func (repository *PostgresRepository) ListOrders(context context.Context, f Filter, limit, offset int) ([]*Order, int, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE 1=1`, orderSelectColumns(), schema.OrdersOrder.Table)
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s WHERE 1=1`, schema.OrdersOrder.Table)

	args := []any{}
	countArgs := []any{}

	if f.UserID != "" {
		clause := fmt.Sprintf(" AND %s = $%d", schema.OrdersOrder.UserID, len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, f.UserID)
		countArgs = append(countArgs, f.UserID)
	}

	if f.StallID != "" {
		clause := fmt.Sprintf(" AND %s = $%d", schema.OrdersOrder.StallID, len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, f.StallID)
		countArgs = append(countArgs, f.StallID)
	}

	if f.Status != "" {
		clause := fmt.Sprintf(" AND %s = $%d", schema.OrdersOrder.Status, len(args)+1)
		query += clause
		countQuery += clause
		args = append(args, f.Status)
		countArgs = append(countArgs, f.Status)
	}

	query += fmt.Sprintf(" ORDER BY %s DESC LIMIT $%d OFFSET $%d",
		schema.OrdersOrder.CreatedAt, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_orders")
	}

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_orders")
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		o, err := scanOrder(rows.Scan)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_order")
		}
		orders = append(orders, o)
	}

	return orders, total, nil
}

/*
GetOrder returns one order with its line items.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Order: Hydrated order with Items
  - error: apperr.NotFound or retrieval failures
*/
func (repository *PostgresRepository) GetOrder(context context.Context, id string) (*Order, error) {
	headerQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		orderSelectColumns(), schema.OrdersOrder.Table, schema.OrdersOrder.ID)

	o, err := scanOrder(repository.pool.QueryRow(context, headerQuery, id).Scan)
	if err != nil {
		return nil, dberr.Wrap(err, "get_order")
	}

	itemsQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC
	`,
		schema.OrdersOrderItem.ID, schema.OrdersOrderItem.OrderID, schema.OrdersOrderItem.FoodID,
		schema.OrdersOrderItem.FoodName, schema.OrdersOrderItem.UnitPrice, schema.OrdersOrderItem.Quantity,
		schema.OrdersOrderItem.Table,
		schema.OrdersOrderItem.OrderID,
		schema.OrdersOrderItem.CreatedAt,
	)

	rows, err := repository.pool.Query(context, itemsQuery, id)
	if err != nil {
		return nil, dberr.Wrap(err, "list_order_items")
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.FoodID, &item.FoodName, &item.UnitPrice, &item.Quantity)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_order_item")
		}
		o.Items = append(o.Items, item)
	}

	return o, nil
}

/*
UpdateStatus moves an order to a new lifecycle state.

Parameters:
  - context: context.Context
  - id: string
  - status: Status

Returns:
  - error: apperr.NotFound or update failures
*/
func (repository *PostgresRepository) UpdateStatus(context context.Context, id string, status Status) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.OrdersOrder.Table, schema.OrdersOrder.Status, schema.OrdersOrder.UpdatedAt, schema.OrdersOrder.ID)

	cmd, err := repository.pool.Exec(context, query, id, status)
	if err != nil {
		return dberr.Wrap(err, "update_order_status")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

/*
HasCompletedPurchase reports whether the user completed an order containing the dish.

Parameters:
  - context: context.Context
  - userID: string
  - foodID: string

Returns:
  - bool: True if at least one completed order contains the dish
  - error: Retrieval failures
*/
func (repository *PostgresRepository) HasCompletedPurchase(context context.Context, userID, foodID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1
			FROM %s o
			JOIN %s i ON i.%s = o.%s
			WHERE o.%s = $1 AND i.%s = $2 AND o.%s = $3
		)
	`,
		schema.OrdersOrder.Table, schema.OrdersOrderItem.Table,
		schema.OrdersOrderItem.OrderID, schema.OrdersOrder.ID,
		schema.OrdersOrder.UserID, schema.OrdersOrderItem.FoodID, schema.OrdersOrder.Status,
	)

	var exists bool
	err := repository.pool.QueryRow(context, query, userID, foodID, StatusCompleted).Scan(&exists)
	if err != nil {
		return false, dberr.Wrap(err, "has_completed_purchase")
	}
	return exists, nil
}
