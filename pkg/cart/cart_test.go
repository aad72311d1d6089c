// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cart_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/anngon/pkg/cart"
	"github.com/taibuivan/anngon/pkg/kv"
)

const testUser = "user-1"

var (
	bunCha = cart.Food{
		ID: "food-a", Name: "Bún chả", Price: 50_000,
		StallID: "stall-1", StallName: "Quán Bà Lan",
	}
	comTam = cart.Food{
		ID: "food-b", Name: "Cơm tấm", Price: 30_000,
		StallID: "stall-2", StallName: "Cơm Tấm Sài Gòn",
	}
	traDa = cart.Food{
		ID: "food-c", Name: "Trà đá", Price: 5_000,
		StallID: "stall-2", StallName: "Cơm Tấm Sài Gòn",
	}
)

func newAggregator() *cart.Aggregator {
	return cart.NewAggregator(kv.NewMemory(), slog.Default())
}

// checkAggregates recomputes totals the slow way and compares them to the
// precomputed fields.
func checkAggregates(t *testing.T, current cart.Cart) {
	t.Helper()

	items := 0
	var amount int64
	for _, group := range current.Stalls {
		require.NotEmpty(t, group.Items, "empty stall group must not survive")
		for _, item := range group.Items {
			items += item.Quantity
			amount += item.UnitPrice * int64(item.Quantity)
		}
	}
	assert.Equal(t, items, current.TotalItems)
	assert.Equal(t, amount, current.TotalAmount)
}

/*
TestAddToCart_MergesDuplicateLines verifies that adding the same dish twice
yields a single line with the summed quantity.
*/
func TestAddToCart_MergesDuplicateLines(t *testing.T) {
	aggregator := newAggregator()

	aggregator.AddToCart(testUser, bunCha, 2)
	updated := aggregator.AddToCart(testUser, bunCha, 3)

	require.Len(t, updated.Stalls, 1)
	require.Len(t, updated.Stalls[0].Items, 1)
	assert.Equal(t, 5, updated.Stalls[0].Items[0].Quantity)
	assert.Equal(t, 5, updated.TotalItems)
	assert.Equal(t, int64(250_000), updated.TotalAmount)
	checkAggregates(t, updated)
}

/*
TestAddToCart_GroupsByStall walks the two-stall scenario: one dish from each
of two stalls must produce two groups with combined totals.
*/
func TestAddToCart_GroupsByStall(t *testing.T) {
	aggregator := newAggregator()

	aggregator.AddToCart(testUser, bunCha, 1)
	updated := aggregator.AddToCart(testUser, comTam, 2)

	require.Len(t, updated.Stalls, 2)
	assert.Equal(t, "stall-1", updated.Stalls[0].StallID)
	assert.Equal(t, "stall-2", updated.Stalls[1].StallID)
	assert.Equal(t, 3, updated.TotalItems)
	assert.Equal(t, int64(110_000), updated.TotalAmount)
	checkAggregates(t, updated)
}

/*
TestUpdateQuantity covers direct set, the zero-removes rule, and the cascade
that drops an emptied stall group.
*/
func TestUpdateQuantity(t *testing.T) {
	t.Run("sets quantity", func(t *testing.T) {
		aggregator := newAggregator()
		aggregator.AddToCart(testUser, bunCha, 1)

		updated := aggregator.UpdateQuantity(testUser, bunCha.ID, 4)

		assert.Equal(t, 4, updated.Stalls[0].Items[0].Quantity)
		checkAggregates(t, updated)
	})

	t.Run("zero removes the line and cascades to the group", func(t *testing.T) {
		aggregator := newAggregator()
		aggregator.AddToCart(testUser, bunCha, 1)
		aggregator.AddToCart(testUser, comTam, 2)

		updated := aggregator.UpdateQuantity(testUser, bunCha.ID, 0)

		require.Len(t, updated.Stalls, 1)
		assert.Equal(t, "stall-2", updated.Stalls[0].StallID)
		checkAggregates(t, updated)
	})

	t.Run("group with remaining lines survives", func(t *testing.T) {
		aggregator := newAggregator()
		aggregator.AddToCart(testUser, comTam, 2)
		aggregator.AddToCart(testUser, traDa, 1)

		updated := aggregator.UpdateQuantity(testUser, traDa.ID, 0)

		require.Len(t, updated.Stalls, 1)
		require.Len(t, updated.Stalls[0].Items, 1)
		assert.Equal(t, comTam.ID, updated.Stalls[0].Items[0].FoodID)
		checkAggregates(t, updated)
	})

	t.Run("missing dish is a no-op", func(t *testing.T) {
		aggregator := newAggregator()
		before := aggregator.AddToCart(testUser, bunCha, 1)

		updated := aggregator.UpdateQuantity(testUser, "food-zzz", 7)

		assert.Equal(t, before, updated)
		checkAggregates(t, updated)
	})
}

/*
TestRemoveStallFromCart drops one group and leaves the other untouched.
*/
func TestRemoveStallFromCart(t *testing.T) {
	aggregator := newAggregator()
	aggregator.AddToCart(testUser, bunCha, 1)
	aggregator.AddToCart(testUser, comTam, 2)
	aggregator.AddToCart(testUser, traDa, 1)

	updated := aggregator.RemoveStallFromCart(testUser, "stall-2")

	require.Len(t, updated.Stalls, 1)
	assert.Equal(t, "stall-1", updated.Stalls[0].StallID)
	assert.Equal(t, 1, updated.TotalItems)
	assert.Equal(t, int64(50_000), updated.TotalAmount)
	checkAggregates(t, updated)

	// Removing an absent stall changes nothing
	again := aggregator.RemoveStallFromCart(testUser, "stall-zzz")
	assert.Equal(t, updated, again)
}

/*
TestDerivedQueries covers membership, per-dish quantity, and the aggregate
reads.
*/
func TestDerivedQueries(t *testing.T) {
	aggregator := newAggregator()
	aggregator.AddToCart(testUser, bunCha, 2)
	aggregator.AddToCart(testUser, comTam, 1)

	assert.True(t, aggregator.IsInCart(testUser, bunCha.ID))
	assert.False(t, aggregator.IsInCart(testUser, "food-zzz"))
	assert.Equal(t, 2, aggregator.ItemQuantity(testUser, bunCha.ID))
	assert.Equal(t, 0, aggregator.ItemQuantity(testUser, "food-zzz"))
	assert.Equal(t, 3, aggregator.ItemCount(testUser))
	assert.Equal(t, int64(130_000), aggregator.Total(testUser))
}

/*
TestMissingCartInitializesEmpty verifies the lazy-init policy: every
operation against an unknown user behaves as if an empty cart existed.
*/
func TestMissingCartInitializesEmpty(t *testing.T) {
	aggregator := newAggregator()

	fresh := aggregator.Get("user-never-seen")
	assert.Empty(t, fresh.Stalls)
	assert.Zero(t, fresh.TotalItems)
	assert.Zero(t, fresh.TotalAmount)

	cleared := aggregator.ClearCart("user-never-seen")
	assert.Empty(t, cleared.Stalls)

	removed := aggregator.RemoveFromCart("user-never-seen", "food-a")
	assert.Empty(t, removed.Stalls)
}

/*
TestCartsAreKeyedByUser ensures two users sharing one storage never see each
other's items, and that a cart survives storage reuse under the same key.
*/
func TestCartsAreKeyedByUser(t *testing.T) {
	storage := kv.NewMemory()
	aggregator := cart.NewAggregator(storage, slog.Default())

	aggregator.AddToCart("user-1", bunCha, 1)
	aggregator.AddToCart("user-2", comTam, 2)

	assert.Equal(t, 1, aggregator.ItemCount("user-1"))
	assert.Equal(t, 2, aggregator.ItemCount("user-2"))

	// A second aggregator over the same storage sees the same carts, which
	// is how a cart outlives a logout
	reopened := cart.NewAggregator(storage, slog.Default())
	assert.Equal(t, int64(50_000), reopened.Total("user-1"))
}

/*
TestClearCart empties everything and leaves totals at zero.
*/
func TestClearCart(t *testing.T) {
	aggregator := newAggregator()
	aggregator.AddToCart(testUser, bunCha, 1)
	aggregator.AddToCart(testUser, comTam, 2)

	cleared := aggregator.ClearCart(testUser)

	assert.Empty(t, cleared.Stalls)
	assert.Zero(t, cleared.TotalItems)
	assert.Zero(t, cleared.TotalAmount)
	assert.Equal(t, 0, aggregator.ItemCount(testUser))
}

/*
TestBuildCheckout converts a two-stall cart into the order submission and
confirms prices stay out of the payload.
*/
func TestBuildCheckout(t *testing.T) {
	aggregator := newAggregator()
	aggregator.AddToCart(testUser, bunCha, 1)
	aggregator.AddToCart(testUser, comTam, 2)
	aggregator.AddToCart(testUser, traDa, 1)

	payload := aggregator.BuildCheckout(testUser, "12 Phố Huế, Hà Nội", "0901234567", "ít cay")

	assert.Equal(t, "12 Phố Huế, Hà Nội", payload.Address)
	require.Len(t, payload.Stalls, 2)
	assert.Equal(t, "stall-1", payload.Stalls[0].StallID)
	require.Len(t, payload.Stalls[1].Items, 2)
	assert.Equal(t, cart.CheckoutLine{FoodID: comTam.ID, Quantity: 2}, payload.Stalls[1].Items[0])
}
