// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/anngon/internal/core/food"
	"github.com/taibuivan/anngon/internal/core/stall"
	"github.com/taibuivan/anngon/internal/platform/apperr"
	"github.com/taibuivan/anngon/internal/platform/sec"
	"github.com/taibuivan/anngon/internal/platform/validate"
	"github.com/taibuivan/anngon/pkg/uuid"
)

// # Collaborator Contracts

// FoodCatalog resolves current menu entries for checkout price snapshots.
type FoodCatalog interface {
	GetFood(context context.Context, id string) (*food.Food, error)
}

// StallDirectory resolves stalls and enforces ownership for merchant operations.
type StallDirectory interface {
	GetStall(context context.Context, id string) (*stall.Stall, error)
	RequireOwnership(context context.Context, actorID string, actorRole sec.UserRole, stallID string) (*stall.Stall, error)
}

// # Service Layer

// Service orchestrates checkout and order lifecycle logic.
type Service struct {
	repository Repository
	foods      FoodCatalog
	stalls     StallDirectory
	logger     *slog.Logger
}

// NewService constructs a new order [Service].
func NewService(repository Repository, foods FoodCatalog, stalls StallDirectory, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		foods:      foods,
		stalls:     stalls,
		logger:     logger,
	}
}

// # Checkout

/*
Checkout converts a grouped cart submission into persisted orders.

Description: Validates the delivery details, then builds one order per stall
grouping. Every line is re-priced from the live menu; the client-held price is
never trusted. All orders from one submission are created, or none.

Steps:
 1. Validate delivery details and grouping shape.
 2. Per group: stall must exist and be open; merge duplicate dish lines.
 3. Per line: dish must exist, be available, and belong to the group's stall.
 4. Persist all pending orders in a single transaction with price/name
    snapshots.

Parameters:
  - context: context.Context
  - userID: string (Authenticated customer)
  - input: CheckoutInput

Returns:
  - []*Order: Created orders, one per stall grouping, in submission order
  - error: Validation, availability, or persistence failures
*/
func (service *Service) Checkout(context context.Context, userID string, input CheckoutInput) ([]*Order, error) {

	// 1. Delivery details
	validator := &validate.Validator{}
	validator.Required(FieldAddress, input.Address).MaxLen(FieldAddress, input.Address, 500)
	validator.Required(FieldPhone, input.Phone).MaxLen(FieldPhone, input.Phone, 15)
	validator.Custom(FieldStalls, len(input.Stalls) == 0, "must contain at least one stall")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	orders := make([]*Order, 0, len(input.Stalls))

	for _, group := range input.Stalls {

		// 2. Stall gate
		groupStall, err := service.stalls.GetStall(context, group.StallID)
		if err != nil {
			return nil, err
		}
		if !groupStall.IsOpen {
			return nil, apperr.Unprocessable(fmt.Sprintf("Stall %q is currently closed", groupStall.Name))
		}
		if len(group.Items) == 0 {
			return nil, apperr.Unprocessable("A stall grouping must contain at least one item")
		}

		// Merge duplicate dish lines so the order holds one line per dish
		merged := make(map[string]int, len(group.Items))
		ordering := make([]string, 0, len(group.Items))
		for _, item := range group.Items {
			if item.Quantity < 1 {
				return nil, apperr.Unprocessable("Item quantities must be positive")
			}
			if _, seen := merged[item.FoodID]; !seen {
				ordering = append(ordering, item.FoodID)
			}
			merged[item.FoodID] += item.Quantity
		}

		newOrder := &Order{
			ID:      uuid.New(),
			UserID:  userID,
			StallID: group.StallID,
			Status:  StatusPending,
			Note:    input.Note,
			Address: input.Address,
			Phone:   input.Phone,
		}

		// 3. Price snapshots from the live menu
		for _, foodID := range ordering {
			quantity := merged[foodID]

			dish, err := service.foods.GetFood(context, foodID)
			if err != nil {
				return nil, err
			}
			if dish.StallID != group.StallID {
				return nil, apperr.Unprocessable(fmt.Sprintf("Dish %q does not belong to stall %q", dish.Name, groupStall.Name))
			}
			if !dish.IsAvailable {
				return nil, apperr.Unprocessable(fmt.Sprintf("Dish %q is currently unavailable", dish.Name))
			}

			newOrder.Items = append(newOrder.Items, OrderItem{
				ID:        uuid.New(),
				OrderID:   newOrder.ID,
				FoodID:    dish.ID,
				FoodName:  dish.Name,
				UnitPrice: dish.Price,
				Quantity:  quantity,
			})
			newOrder.TotalItems += quantity
			newOrder.TotalAmount += dish.Price * int64(quantity)
		}

		orders = append(orders, newOrder)
	}

	// 4. Persist the whole submission in one transaction
	if err := service.repository.CreateOrders(context, orders); err != nil {
		return nil, fmt.Errorf("order_service_checkout_failed: %w", err)
	}

	service.logger.Info("checkout_completed",
		slog.String("user_id", userID),
		slog.Int("order_count", len(orders)),
	)

	return orders, nil
}

// # Customer Operations

/*
ListMyOrders returns the customer's own orders, optionally filtered by status.

Parameters:
  - context: context.Context
  - userID: string
  - status: Status ("" = all)
  - limit: int
  - offset: int

Returns:
  - []*Order: Order headers, newest first
  - int: Total match count
  - error: Retrieval failures
*/
func (service *Service) ListMyOrders(context context.Context, userID string, status Status, limit, offset int) ([]*Order, int, error) {
	if status != "" && !status.Valid() {
		return nil, 0, apperr.ValidationError("Unknown order status")
	}
	return service.repository.ListOrders(context, Filter{UserID: userID, Status: status}, limit, offset)
}

/*
GetOrder returns an order with its lines, visible only to the customer who
placed it, the owner of the receiving stall, or an admin.

Parameters:
  - context: context.Context
  - actorID: string
  - actorRole: sec.UserRole
  - id: string

Returns:
  - *Order: Hydrated order with Items
  - error: apperr.NotFound, apperr.Forbidden, or retrieval failures
*/
func (service *Service) GetOrder(context context.Context, actorID string, actorRole sec.UserRole, id string) (*Order, error) {
	existing, err := service.repository.GetOrder(context, id)
	if err != nil {
		return nil, err
	}

	if existing.UserID == actorID || actorRole.AtLeast(sec.RoleAdmin) {
		return existing, nil
	}

	// Stall owners may inspect orders addressed to their stall
	if _, err := service.stalls.RequireOwnership(context, actorID, actorRole, existing.StallID); err != nil {
		return nil, apperr.Forbidden("You cannot view this order")
	}

	return existing, nil
}

/*
CancelOrder lets a customer withdraw their own order while it is still pending.

Parameters:
  - context: context.Context
  - userID: string
  - id: string

Returns:
  - error: apperr.Forbidden, apperr.Unprocessable, or update failures
*/
func (service *Service) CancelOrder(context context.Context, userID, id string) error {
	existing, err := service.repository.GetOrder(context, id)
	if err != nil {
		return err
	}

	if existing.UserID != userID {
		return apperr.Forbidden("You cannot cancel this order")
	}
	if existing.Status != StatusPending {
		return apperr.Unprocessable("Only pending orders can be cancelled")
	}

	if err := service.repository.UpdateStatus(context, id, StatusCancelled); err != nil {
		return fmt.Errorf("order_service_cancel_failed: %w", err)
	}

	service.logger.Info("order_cancelled_by_customer",
		slog.String("order_id", id),
		slog.String("user_id", userID),
	)
	return nil
}

// # Merchant Operations

/*
ListStallOrders returns the incoming orders for a stall the actor manages.

Parameters:
  - context: context.Context
  - actorID: string
  - actorRole: sec.UserRole
  - stallID: string
  - status: Status ("" = all)
  - limit: int
  - offset: int

Returns:
  - []*Order: Order headers, newest first
  - int: Total match count
  - error: apperr.Forbidden or retrieval failures
*/
func (service *Service) ListStallOrders(context context.Context, actorID string, actorRole sec.UserRole, stallID string, status Status, limit, offset int) ([]*Order, int, error) {
	if _, err := service.stalls.RequireOwnership(context, actorID, actorRole, stallID); err != nil {
		return nil, 0, err
	}
	if status != "" && !status.Valid() {
		return nil, 0, apperr.ValidationError("Unknown order status")
	}

	return service.repository.ListOrders(context, Filter{StallID: stallID, Status: status}, limit, offset)
}

/*
UpdateStatus moves an order forward (or cancels it) on behalf of the stall owner.

Description: Transitions are restricted to the lifecycle graph; terminal states
reject all further changes.

Parameters:
  - context: context.Context
  - actorID: string
  - actorRole: sec.UserRole
  - id: string
  - target: Status

Returns:
  - *Order: The order after the transition
  - error: apperr.Unprocessable for illegal transitions, or update failures
*/
func (service *Service) UpdateStatus(context context.Context, actorID string, actorRole sec.UserRole, id string, target Status) (*Order, error) {
	if !target.Valid() {
		return nil, apperr.ValidationError("Unknown order status")
	}

	existing, err := service.repository.GetOrder(context, id)
	if err != nil {
		return nil, err
	}

	if _, err := service.stalls.RequireOwnership(context, actorID, actorRole, existing.StallID); err != nil {
		return nil, err
	}

	if !existing.Status.CanTransition(target) {
		return nil, apperr.Unprocessable(
			fmt.Sprintf("Order cannot move from %q to %q", existing.Status, target),
		)
	}

	if err := service.repository.UpdateStatus(context, id, target); err != nil {
		return nil, fmt.Errorf("order_service_update_status_failed: %w", err)
	}

	existing.Status = target

	service.logger.Info("order_status_updated",
		slog.String("order_id", id),
		slog.String("status", string(target)),
	)
	return existing, nil
}

// HasCompletedPurchase reports whether the user completed an order containing
// the dish. Consumed by the rating domain.
func (service *Service) HasCompletedPurchase(context context.Context, userID, foodID string) (bool, error) {
	return service.repository.HasCompletedPurchase(context, userID, foodID)
}
