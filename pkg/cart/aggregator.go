// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cart

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/taibuivan/anngon/pkg/kv"
)

// storagePrefix namespaces cart keys away from session keys in the shared
// store. Carts are keyed by user id so they survive logout and re-login on
// the same device.
const storagePrefix = "cart:"

/*
Aggregator owns every cart in one storage. All methods are safe for
concurrent use; mutations are serialized so the read-modify-write against
the store never interleaves.
*/
type Aggregator struct {
	mu      sync.Mutex
	storage kv.Store
	logger  *slog.Logger
}

// NewAggregator creates an aggregator over the given store.
func NewAggregator(storage kv.Store, logger *slog.Logger) *Aggregator {
	return &Aggregator{storage: storage, logger: logger}
}

/*
AddToCart adds quantity units of a dish to the user's cart.

The stall group is located or created by the dish's stall id; within the
group, an existing line for the same dish absorbs the quantity instead of
duplicating. Quantities below one are treated as one.

Returns the updated cart with refreshed aggregates.
*/
func (aggregator *Aggregator) AddToCart(userID string, food Food, quantity int) Cart {
	if quantity < 1 {
		quantity = 1
	}

	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()

	current := aggregator.load(userID)

	// 1. Locate or create the stall group
	groupIndex := -1
	for i := range current.Stalls {
		if current.Stalls[i].StallID == food.StallID {
			groupIndex = i
			break
		}
	}
	if groupIndex == -1 {
		current.Stalls = append(current.Stalls, StallGroup{
			StallID:   food.StallID,
			StallName: food.StallName,
		})
		groupIndex = len(current.Stalls) - 1
	}

	// 2. Merge into an existing line or append a new one
	group := &current.Stalls[groupIndex]
	merged := false
	for i := range group.Items {
		if group.Items[i].FoodID == food.ID {
			group.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		group.Items = append(group.Items, Item{
			FoodID:    food.ID,
			FoodName:  food.Name,
			UnitPrice: food.Price,
			Quantity:  quantity,
			ImageURL:  food.ImageURL,
		})
	}

	return aggregator.commit(current)
}

/*
UpdateQuantity sets the quantity of the line holding foodID. A quantity of
zero or below removes the line, and a group left empty is removed with it.
A dish not present in the cart is a no-op.
*/
func (aggregator *Aggregator) UpdateQuantity(userID, foodID string, quantity int) Cart {
	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()

	current := aggregator.load(userID)

	for groupIndex := range current.Stalls {
		group := &current.Stalls[groupIndex]
		for itemIndex := range group.Items {
			if group.Items[itemIndex].FoodID != foodID {
				continue
			}

			if quantity > 0 {
				group.Items[itemIndex].Quantity = quantity
			} else {
				group.Items = append(group.Items[:itemIndex], group.Items[itemIndex+1:]...)
				if len(group.Items) == 0 {
					current.Stalls = append(current.Stalls[:groupIndex], current.Stalls[groupIndex+1:]...)
				}
			}
			return aggregator.commit(current)
		}
	}

	return aggregator.commit(current)
}

// RemoveFromCart deletes the line holding foodID, removing its stall group
// if that empties it. A missing dish is a no-op.
func (aggregator *Aggregator) RemoveFromCart(userID, foodID string) Cart {
	return aggregator.UpdateQuantity(userID, foodID, 0)
}

// RemoveStallFromCart drops an entire stall group. A missing stall is a
// no-op.
func (aggregator *Aggregator) RemoveStallFromCart(userID, stallID string) Cart {
	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()

	current := aggregator.load(userID)

	for i := range current.Stalls {
		if current.Stalls[i].StallID == stallID {
			current.Stalls = append(current.Stalls[:i], current.Stalls[i+1:]...)
			break
		}
	}

	return aggregator.commit(current)
}

// ClearCart empties the user's cart. Called after a successful checkout and
// from the explicit clear action.
func (aggregator *Aggregator) ClearCart(userID string) Cart {
	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()

	return aggregator.commit(Cart{UserID: userID})
}

// Get returns the user's cart, empty if none is stored.
func (aggregator *Aggregator) Get(userID string) Cart {
	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()

	current := aggregator.load(userID)
	recompute(&current)
	return current
}

// IsInCart reports whether any stall group holds the dish.
func (aggregator *Aggregator) IsInCart(userID, foodID string) bool {
	return aggregator.ItemQuantity(userID, foodID) > 0
}

// ItemQuantity returns the quantity of the dish across the cart, zero when
// absent.
func (aggregator *Aggregator) ItemQuantity(userID, foodID string) int {
	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()

	current := aggregator.load(userID)
	for _, group := range current.Stalls {
		for _, item := range group.Items {
			if item.FoodID == foodID {
				return item.Quantity
			}
		}
	}
	return 0
}

// ItemCount returns the precomputed total item count.
func (aggregator *Aggregator) ItemCount(userID string) int {
	return aggregator.Get(userID).TotalItems
}

// Total returns the precomputed cart total in đồng.
func (aggregator *Aggregator) Total(userID string) int64 {
	return aggregator.Get(userID).TotalAmount
}

/*
BuildCheckout converts the cart into the order service's checkout request,
attaching the delivery details collected at submission. The caller clears
the cart only after the server accepts the submission.
*/
func (aggregator *Aggregator) BuildCheckout(userID, address, phone, note string) CheckoutPayload {
	current := aggregator.Get(userID)

	payload := CheckoutPayload{
		Address: address,
		Phone:   phone,
		Note:    note,
		Stalls:  make([]CheckoutStall, 0, len(current.Stalls)),
	}

	for _, group := range current.Stalls {
		stall := CheckoutStall{
			StallID: group.StallID,
			Items:   make([]CheckoutLine, 0, len(group.Items)),
		}
		for _, item := range group.Items {
			stall.Items = append(stall.Items, CheckoutLine{
				FoodID:   item.FoodID,
				Quantity: item.Quantity,
			})
		}
		payload.Stalls = append(payload.Stalls, stall)
	}

	return payload
}

// # Storage

// load reads the stored cart, lazily initializing an empty one. Callers
// hold the mutex.
func (aggregator *Aggregator) load(userID string) Cart {
	empty := Cart{UserID: userID}

	raw, ok := aggregator.storage.Get(storagePrefix + userID)
	if !ok {
		return empty
	}

	var stored Cart
	if err := json.Unmarshal(raw, &stored); err != nil {
		aggregator.logger.Warn("cart_storage_corrupt_reset", "user_id", userID, "error", err)
		return empty
	}

	stored.UserID = userID
	return stored
}

// commit recomputes aggregates and persists the cart. Callers hold the
// mutex.
func (aggregator *Aggregator) commit(current Cart) Cart {
	recompute(&current)

	raw, err := json.Marshal(current)
	if err != nil {
		aggregator.logger.Error("cart_storage_marshal_failed", "user_id", current.UserID, "error", err)
		return current
	}
	aggregator.storage.Set(storagePrefix+current.UserID, raw)
	return current
}

// recompute refreshes the precomputed aggregates from the line items.
func recompute(current *Cart) {
	current.TotalItems = 0
	current.TotalAmount = 0
	for _, group := range current.Stalls {
		for _, item := range group.Items {
			current.TotalItems += item.Quantity
			current.TotalAmount += item.UnitPrice * int64(item.Quantity)
		}
	}
}
