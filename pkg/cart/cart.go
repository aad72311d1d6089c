// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cart maintains the per-user shopping cart for the AnNgon client SDK.

A cart is an ordered collection of per-stall groups, each holding line items
for one merchant. The aggregator enforces the structural invariants (one
line per dish within a stall group, no empty groups) and keeps the totals
precomputed, so reads never scan.

Operations are total functions over local storage: mutating an entity that
is not present is a no-op that returns the unchanged cart, and a user with
no stored cart gets an empty one. Callers must pass a resolved user id —
authentication is the session manager's concern, not this package's.
*/
package cart

// Item is one dish line inside a stall group. The name and unit price are
// display snapshots taken when the dish was added; checkout re-prices on
// the server regardless.
type Item struct {
	FoodID    string `json:"food_id"`
	FoodName  string `json:"food_name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	ImageURL  string `json:"image_url,omitempty"`
}

// StallGroup is the subset of a cart belonging to one stall. A group with
// zero items never survives a mutation.
type StallGroup struct {
	StallID   string `json:"stall_id"`
	StallName string `json:"stall_name"`
	Items     []Item `json:"items"`
}

// Cart is a user's full cart with precomputed aggregates.
//
// TotalItems is the sum of quantities across every line; TotalAmount is the
// sum of unit price times quantity, in đồng.
type Cart struct {
	UserID      string       `json:"user_id"`
	Stalls      []StallGroup `json:"stalls"`
	TotalItems  int          `json:"total_items"`
	TotalAmount int64        `json:"total_amount"`
}

// Food is the dish descriptor supplied by the catalogue when adding to the
// cart.
type Food struct {
	ID        string
	Name      string
	Price     int64
	ImageURL  string
	StallID   string
	StallName string
}

// CheckoutPayload is the request body for the order service's checkout
// endpoint, built from the cart plus the delivery details collected at
// submission time.
type CheckoutPayload struct {
	Address string          `json:"address"`
	Phone   string          `json:"phone"`
	Note    string          `json:"note,omitempty"`
	Stalls  []CheckoutStall `json:"stalls"`
}

// CheckoutStall is one per-stall order in a checkout submission.
type CheckoutStall struct {
	StallID string         `json:"stall_id"`
	Items   []CheckoutLine `json:"items"`
}

// CheckoutLine carries only the dish reference and quantity. Prices are
// deliberately absent: the server prices every line from the live menu.
type CheckoutLine struct {
	FoodID   string `json:"food_id"`
	Quantity int    `json:"quantity"`
}
