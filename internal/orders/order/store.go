// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

import "context"

// # Order Data Access

// Repository defines the persistence contract for orders and their lines.
type Repository interface {

	/*
		CreateOrders persists a batch of orders with their line items in one
		transaction and bumps the sold counters of the purchased dishes. A
		failure on any order rolls back the whole batch.

		Parameters:
		  - context: context.Context
		  - orders: []*Order (Items must be populated on each)

		Returns:
		  - error: Transactional or constraint failures
	*/
	CreateOrders(context context.Context, orders []*Order) error

	/*
		ListOrders returns a filtered, paginated order page (without items).

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
	ListOrders(context context.Context, f Filter, limit, offset int) ([]*Order, int, error)

	/*
		GetOrder returns a single order with its line items.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Order: Hydrated order with Items
		  - error: apperr.NotFound or retrieval failures
	*/
	GetOrder(context context.Context, id string) (*Order, error)

	/*
		UpdateStatus moves an order to a new lifecycle state.

		Parameters:
		  - context: context.Context
		  - id: string
		  - status: Status

		Returns:
		  - error: Update failures
	*/
	UpdateStatus(context context.Context, id string, status Status) error

	/*
		HasCompletedPurchase reports whether the user has a completed order
		containing the given dish. Used to gate ratings.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - foodID: string

		Returns:
		  - bool: True if at least one completed order contains the dish
		  - error: Retrieval failures
	*/
	HasCompletedPurchase(context context.Context, userID, foodID string) (bool, error)
}
