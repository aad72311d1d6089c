// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/anngon/internal/core/food"
	"github.com/taibuivan/anngon/internal/core/stall"
	"github.com/taibuivan/anngon/internal/orders/order"
	"github.com/taibuivan/anngon/internal/platform/apperr"
	"github.com/taibuivan/anngon/internal/platform/sec"
)

// # Test Doubles

type fakeRepository struct {
	orders     map[string]*order.Order
	created    []*order.Order
	batchCalls int
	createErr  error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{orders: make(map[string]*order.Order)}
}

func (repository *fakeRepository) CreateOrders(_ context.Context, newOrders []*order.Order) error {
	repository.batchCalls++
	if repository.createErr != nil {
		// Nothing lands: the batch is one transaction
		return repository.createErr
	}
	for _, newOrder := range newOrders {
		repository.orders[newOrder.ID] = newOrder
		repository.created = append(repository.created, newOrder)
	}
	return nil
}

func (repository *fakeRepository) ListOrders(_ context.Context, f order.Filter, limit, offset int) ([]*order.Order, int, error) {
	matches := make([]*order.Order, 0)
	for _, existing := range repository.orders {
		if f.UserID != "" && existing.UserID != f.UserID {
			continue
		}
		if f.StallID != "" && existing.StallID != f.StallID {
			continue
		}
		if f.Status != "" && existing.Status != f.Status {
			continue
		}
		matches = append(matches, existing)
	}
	return matches, len(matches), nil
}

func (repository *fakeRepository) GetOrder(_ context.Context, id string) (*order.Order, error) {
	existing, ok := repository.orders[id]
	if !ok {
		return nil, apperr.NotFound("Order")
	}
	return existing, nil
}

func (repository *fakeRepository) UpdateStatus(_ context.Context, id string, status order.Status) error {
	existing, ok := repository.orders[id]
	if !ok {
		return apperr.NotFound("Order")
	}
	existing.Status = status
	return nil
}

func (repository *fakeRepository) HasCompletedPurchase(_ context.Context, userID, foodID string) (bool, error) {
	for _, existing := range repository.orders {
		if existing.UserID != userID || existing.Status != order.StatusCompleted {
			continue
		}
		for _, item := range existing.Items {
			if item.FoodID == foodID {
				return true, nil
			}
		}
	}
	return false, nil
}

type fakeCatalog struct {
	foods map[string]*food.Food
}

func (catalog *fakeCatalog) GetFood(_ context.Context, id string) (*food.Food, error) {
	dish, ok := catalog.foods[id]
	if !ok {
		return nil, apperr.NotFound("Food")
	}
	return dish, nil
}

type fakeDirectory struct {
	stalls map[string]*stall.Stall
}

func (directory *fakeDirectory) GetStall(_ context.Context, id string) (*stall.Stall, error) {
	existing, ok := directory.stalls[id]
	if !ok {
		return nil, apperr.NotFound("Stall")
	}
	return existing, nil
}

func (directory *fakeDirectory) RequireOwnership(context context.Context, actorID string, actorRole sec.UserRole, stallID string) (*stall.Stall, error) {
	existing, err := directory.GetStall(context, stallID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != actorID && !actorRole.AtLeast(sec.RoleAdmin) {
		return nil, apperr.Forbidden("You do not manage this stall")
	}
	return existing, nil
}

// # Fixtures

const (
	customerID = "customer-1"
	ownerID    = "owner-1"
)

func newFixture() (*order.Service, *fakeRepository) {
	repository := newFakeRepository()

	directory := &fakeDirectory{stalls: map[string]*stall.Stall{
		"stall-1": {ID: "stall-1", OwnerID: ownerID, Name: "Quán Bà Lan", IsOpen: true},
		"stall-2": {ID: "stall-2", OwnerID: "owner-2", Name: "Cơm Tấm Sài Gòn", IsOpen: true},
		"stall-3": {ID: "stall-3", OwnerID: ownerID, Name: "Chè Ba Màu", IsOpen: false},
	}}

	catalog := &fakeCatalog{foods: map[string]*food.Food{
		"food-a": {ID: "food-a", StallID: "stall-1", Name: "Bún chả", Price: 50_000, IsAvailable: true},
		"food-b": {ID: "food-b", StallID: "stall-2", Name: "Cơm tấm", Price: 30_000, IsAvailable: true},
		"food-c": {ID: "food-c", StallID: "stall-2", Name: "Trà đá", Price: 5_000, IsAvailable: false},
	}}

	service := order.NewService(repository, catalog, directory, slog.Default())
	return service, repository
}

func checkoutInput(stalls ...order.CheckoutGroup) order.CheckoutInput {
	return order.CheckoutInput{
		Address: "12 Phố Huế, Hà Nội",
		Phone:   "0901234567",
		Stalls:  stalls,
	}
}

// # Checkout

/*
TestCheckout_OneOrderPerStall submits a two-stall cart and expects two
priced orders, each snapshotting the live menu.
*/
func TestCheckout_OneOrderPerStall(t *testing.T) {
	service, repository := newFixture()

	orders, err := service.Checkout(context.Background(), customerID, checkoutInput(
		order.CheckoutGroup{StallID: "stall-1", Items: []order.CheckoutItem{{FoodID: "food-a", Quantity: 1}}},
		order.CheckoutGroup{StallID: "stall-2", Items: []order.CheckoutItem{{FoodID: "food-b", Quantity: 2}}},
	))
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Len(t, repository.created, 2)
	assert.Equal(t, 1, repository.batchCalls, "one submission is one persistence call")

	first, second := orders[0], orders[1]
	assert.Equal(t, order.StatusPending, first.Status)
	assert.Equal(t, int64(50_000), first.TotalAmount)
	assert.Equal(t, int64(60_000), second.TotalAmount)
	assert.Equal(t, 2, second.TotalItems)
	assert.Equal(t, "Bún chả", first.Items[0].FoodName)
	assert.Equal(t, int64(30_000), second.Items[0].UnitPrice)
}

/*
TestCheckout_PersistenceFailureLeavesNothing submits a two-stall cart against
a failing store and expects no order from the submission to survive.
*/
func TestCheckout_PersistenceFailureLeavesNothing(t *testing.T) {
	service, repository := newFixture()
	repository.createErr = errors.New("constraint violation")

	_, err := service.Checkout(context.Background(), customerID, checkoutInput(
		order.CheckoutGroup{StallID: "stall-1", Items: []order.CheckoutItem{{FoodID: "food-a", Quantity: 1}}},
		order.CheckoutGroup{StallID: "stall-2", Items: []order.CheckoutItem{{FoodID: "food-b", Quantity: 2}}},
	))
	require.Error(t, err)

	assert.Empty(t, repository.created, "a failed submission must persist no orders")
	assert.Empty(t, repository.orders)
}

/*
TestCheckout_MergesDuplicateLines verifies the same dish listed twice in one
grouping collapses into a single order line with summed quantity.
*/
func TestCheckout_MergesDuplicateLines(t *testing.T) {
	service, _ := newFixture()

	orders, err := service.Checkout(context.Background(), customerID, checkoutInput(
		order.CheckoutGroup{StallID: "stall-1", Items: []order.CheckoutItem{
			{FoodID: "food-a", Quantity: 2},
			{FoodID: "food-a", Quantity: 3},
		}},
	))
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, 5, orders[0].Items[0].Quantity)
	assert.Equal(t, int64(250_000), orders[0].TotalAmount)
}

/*
TestCheckout_Rejections covers the gate conditions: closed stall, foreign
dish, unavailable dish, and malformed submissions.
*/
func TestCheckout_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		input order.CheckoutInput
		code  string
	}{
		{
			name:  "missing delivery details",
			input: order.CheckoutInput{Stalls: []order.CheckoutGroup{{StallID: "stall-1", Items: []order.CheckoutItem{{FoodID: "food-a", Quantity: 1}}}}},
			code:  "VALIDATION_ERROR",
		},
		{
			name:  "no stall groupings",
			input: checkoutInput(),
			code:  "VALIDATION_ERROR",
		},
		{
			name: "closed stall",
			input: checkoutInput(
				order.CheckoutGroup{StallID: "stall-3", Items: []order.CheckoutItem{{FoodID: "food-a", Quantity: 1}}},
			),
			code: "UNPROCESSABLE",
		},
		{
			name: "dish from another stall",
			input: checkoutInput(
				order.CheckoutGroup{StallID: "stall-1", Items: []order.CheckoutItem{{FoodID: "food-b", Quantity: 1}}},
			),
			code: "UNPROCESSABLE",
		},
		{
			name: "unavailable dish",
			input: checkoutInput(
				order.CheckoutGroup{StallID: "stall-2", Items: []order.CheckoutItem{{FoodID: "food-c", Quantity: 1}}},
			),
			code: "UNPROCESSABLE",
		},
		{
			name: "non-positive quantity",
			input: checkoutInput(
				order.CheckoutGroup{StallID: "stall-1", Items: []order.CheckoutItem{{FoodID: "food-a", Quantity: 0}}},
			),
			code: "UNPROCESSABLE",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			service, repository := newFixture()

			_, err := service.Checkout(context.Background(), customerID, testCase.input)

			require.Error(t, err)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, testCase.code, appError.Code)
			assert.Empty(t, repository.created, "rejected checkout must persist nothing")
		})
	}
}

// # Lifecycle

func placeOrder(t *testing.T, service *order.Service) *order.Order {
	t.Helper()

	orders, err := service.Checkout(context.Background(), customerID, checkoutInput(
		order.CheckoutGroup{StallID: "stall-1", Items: []order.CheckoutItem{{FoodID: "food-a", Quantity: 1}}},
	))
	require.NoError(t, err)
	require.Len(t, orders, 1)
	return orders[0]
}

/*
TestUpdateStatus_FollowsLifecycle drives an order through the full forward
path and confirms terminal states reject movement.
*/
func TestUpdateStatus_FollowsLifecycle(t *testing.T) {
	service, _ := newFixture()
	placed := placeOrder(t, service)

	for _, target := range []order.Status{order.StatusConfirmed, order.StatusDelivering, order.StatusCompleted} {
		updated, err := service.UpdateStatus(context.Background(), ownerID, sec.RoleOwner, placed.ID, target)
		require.NoError(t, err)
		assert.Equal(t, target, updated.Status)
	}

	// Completed is terminal
	_, err := service.UpdateStatus(context.Background(), ownerID, sec.RoleOwner, placed.ID, order.StatusCancelled)
	require.Error(t, err)
	assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
}

/*
TestUpdateStatus_RejectsSkippedStates ensures the graph cannot be shortcut.
*/
func TestUpdateStatus_RejectsSkippedStates(t *testing.T) {
	service, _ := newFixture()
	placed := placeOrder(t, service)

	_, err := service.UpdateStatus(context.Background(), ownerID, sec.RoleOwner, placed.ID, order.StatusCompleted)
	require.Error(t, err)
	assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
}

/*
TestUpdateStatus_RequiresOwnership rejects a different merchant touching the
order while letting an admin through.
*/
func TestUpdateStatus_RequiresOwnership(t *testing.T) {
	service, _ := newFixture()
	placed := placeOrder(t, service)

	_, err := service.UpdateStatus(context.Background(), "owner-2", sec.RoleOwner, placed.ID, order.StatusConfirmed)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	_, err = service.UpdateStatus(context.Background(), "some-admin", sec.RoleAdmin, placed.ID, order.StatusConfirmed)
	assert.NoError(t, err)
}

/*
TestCancelOrder verifies the customer cancellation window closes once the
stall confirms.
*/
func TestCancelOrder(t *testing.T) {
	t.Run("pending order is cancellable by its customer", func(t *testing.T) {
		service, repository := newFixture()
		placed := placeOrder(t, service)

		require.NoError(t, service.CancelOrder(context.Background(), customerID, placed.ID))
		assert.Equal(t, order.StatusCancelled, repository.orders[placed.ID].Status)
	})

	t.Run("confirmed order is out of the customer's hands", func(t *testing.T) {
		service, _ := newFixture()
		placed := placeOrder(t, service)

		_, err := service.UpdateStatus(context.Background(), ownerID, sec.RoleOwner, placed.ID, order.StatusConfirmed)
		require.NoError(t, err)

		err = service.CancelOrder(context.Background(), customerID, placed.ID)
		require.Error(t, err)
		assert.Equal(t, "UNPROCESSABLE", apperr.As(err).Code)
	})

	t.Run("someone else's order is untouchable", func(t *testing.T) {
		service, _ := newFixture()
		placed := placeOrder(t, service)

		err := service.CancelOrder(context.Background(), "other-customer", placed.ID)
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})
}

// # Visibility

/*
TestGetOrder_Visibility checks the three allowed viewers and the rejection
of everyone else.
*/
func TestGetOrder_Visibility(t *testing.T) {
	service, _ := newFixture()
	placed := placeOrder(t, service)

	_, err := service.GetOrder(context.Background(), customerID, sec.RoleMember, placed.ID)
	assert.NoError(t, err, "customer sees their own order")

	_, err = service.GetOrder(context.Background(), ownerID, sec.RoleOwner, placed.ID)
	assert.NoError(t, err, "receiving stall owner sees the order")

	_, err = service.GetOrder(context.Background(), "some-admin", sec.RoleAdmin, placed.ID)
	assert.NoError(t, err, "admin sees everything")

	_, err = service.GetOrder(context.Background(), "stranger", sec.RoleMember, placed.ID)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}

/*
TestHasCompletedPurchase only reports true once the order reaches completed.
*/
func TestHasCompletedPurchase(t *testing.T) {
	service, _ := newFixture()
	placed := placeOrder(t, service)

	purchased, err := service.HasCompletedPurchase(context.Background(), customerID, "food-a")
	require.NoError(t, err)
	assert.False(t, purchased)

	for _, target := range []order.Status{order.StatusConfirmed, order.StatusDelivering, order.StatusCompleted} {
		_, err := service.UpdateStatus(context.Background(), ownerID, sec.RoleOwner, placed.ID, target)
		require.NoError(t, err)
	}

	purchased, err = service.HasCompletedPurchase(context.Background(), customerID, "food-a")
	require.NoError(t, err)
	assert.True(t, purchased)
}
