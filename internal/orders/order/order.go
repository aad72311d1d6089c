// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package order implements checkout and order lifecycle management.

A checkout submission arrives grouped by stall. Each stall grouping becomes its
own independent order, because stalls prepare and hand off food separately. Line
prices are resolved server-side at checkout time and stored as immutable
snapshots, so later menu edits never rewrite order history.

# Status Lifecycle

	pending → confirmed → delivering → completed
	pending → cancelled (customer or owner)
	confirmed → cancelled (owner only)

Completed and cancelled are terminal.
*/
package order

import "time"

// # Status

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusDelivering Status = "delivering"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// validTransitions maps each state to the set of states it may move to.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusDelivering, StatusCancelled},
	StatusDelivering: {StatusCompleted},
}

// CanTransition reports whether the order status may move from s to target.
func (s Status) CanTransition(target Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDelivering, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// # Domain Entities

// Order is a single stall's share of a checkout submission.
type Order struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	StallID     string    `json:"stall_id"`
	Status      Status    `json:"status"`
	TotalAmount int64     `json:"total_amount"` // dong
	TotalItems  int       `json:"total_items"`
	Note        *string   `json:"note"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Items is populated on detail lookups and after checkout.
	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem is a priced line inside an order. FoodName and UnitPrice are
// snapshots taken at checkout time.
type OrderItem struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	FoodID    string `json:"food_id"`
	FoodName  string `json:"food_name"`
	UnitPrice int64  `json:"unit_price"` // dong
	Quantity  int    `json:"quantity"`
}

// Filter holds the parameters for a paginated order search.
type Filter struct {
	UserID  string // Restrict to a customer's own orders
	StallID string // Restrict to a stall's incoming orders
	Status  Status // Restrict to a lifecycle state ("" = all)
}

// # Checkout Input

// CheckoutItem is one requested line in a checkout submission. Price is
// intentionally absent: the server resolves the current menu price itself.
type CheckoutItem struct {
	FoodID   string `json:"food_id"`
	Quantity int    `json:"quantity"`
}

// CheckoutGroup is the per-stall slice of a checkout submission.
type CheckoutGroup struct {
	StallID string         `json:"stall_id"`
	Items   []CheckoutItem `json:"items"`
}

// CheckoutInput is the full checkout submission, grouped by stall.
type CheckoutInput struct {
	Address string          `json:"address"`
	Phone   string          `json:"phone"`
	Note    *string         `json:"note"`
	Stalls  []CheckoutGroup `json:"stalls"`
}

const (
	FieldAddress = "address"
	FieldPhone   = "phone"
	FieldStalls  = "stalls"
	FieldStatus  = "status"
)
