// Copyright (c) 2026 AnNgon. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package order provides the HTTP delivery layer for checkout and order tracking.

# Security

Every endpoint requires an authenticated session; the merchant endpoints
additionally require the owner role. Fine-grained ownership (which customer,
which stall) is enforced in the service layer.
*/
package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/anngon/internal/platform/middleware"
	requestutil "github.com/taibuivan/anngon/internal/platform/request"
	"github.com/taibuivan/anngon/internal/platform/respond"
	"github.com/taibuivan/anngon/internal/platform/sec"
	"github.com/taibuivan/anngon/pkg/pagination"
)

// Handler implements the HTTP layer for orders.
type Handler struct {
	orderService *Service
}

// NewHandler constructs a new order [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{orderService: service}
}

// Routes returns a [chi.Router] configured with the order domain's endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Customer
	router.Post("/checkout", handler.checkout)
	router.Get("/", handler.listMyOrders)
	router.Get("/{id}", handler.getOrder)
	router.Post("/{id}/cancel", handler.cancelOrder)

	// Merchant
	router.Group(func(ownerRoute chi.Router) {
		ownerRoute.Use(middleware.RequireRole(sec.RoleOwner))

		ownerRoute.Get("/stall/{stallID}", handler.listStallOrders)
		ownerRoute.Patch("/{id}/status", handler.updateStatus)
	})

	return router
}

// # Customer Endpoints

/*
POST /api/v1/orders/checkout.

Description: Converts a grouped cart submission into one pending order per
stall. Prices are resolved server-side from the live menu.

Request:
  - body: CheckoutInput

Response:
  - 201: []Order: Created orders with priced line items
  - 400: Validation: Bad delivery details or grouping shape
  - 422: ErrUnprocessable: Closed stall, unavailable dish, or mismatched stall
*/
func (handler *Handler) checkout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CheckoutInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	orders, err := handler.orderService.Checkout(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, orders)
}

/*
GET /api/v1/orders?status=pending.

Description: Lists the authenticated customer's orders, newest first.

Response:
  - 200: []Order: Paginated order headers
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listMyOrders(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)
	status := Status(request.URL.Query().Get("status"))

	orders, total, err := handler.orderService.ListMyOrders(request.Context(), userID, status, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, orders, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/orders/{id}.

Description: Retrieves one order with its priced lines. Visible to the
customer, the receiving stall's owner, and admins.

Response:
  - 200: Order: Hydrated order
  - 403: ErrForbidden: Actor is not a party to the order
  - 404: ErrNotFound: Unknown order
*/
func (handler *Handler) getOrder(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	foundOrder, err := handler.orderService.GetOrder(
		request.Context(),
		claims.UserID,
		sec.UserRole(claims.Role),
		requestutil.ID(request, "id"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, foundOrder)
}

/*
POST /api/v1/orders/{id}/cancel.

Description: Withdraws a pending order placed by the authenticated customer.

Response:
  - 204: No Content: Order cancelled
  - 403: ErrForbidden: Not the order's customer
  - 422: ErrUnprocessable: Order already left the pending state
*/
func (handler *Handler) cancelOrder(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.orderService.CancelOrder(request.Context(), userID, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Merchant Endpoints

/*
GET /api/v1/orders/stall/{stallID}?status=pending.

Description: Lists the incoming orders for a stall managed by the actor.

Response:
  - 200: []Order: Paginated order headers
  - 403: ErrForbidden: Actor does not manage the stall
*/
func (handler *Handler) listStallOrders(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)
	status := Status(request.URL.Query().Get("status"))

	orders, total, err := handler.orderService.ListStallOrders(
		request.Context(),
		claims.UserID,
		sec.UserRole(claims.Role),
		chi.URLParam(request, "stallID"),
		status,
		paginationParams.Limit,
		paginationParams.Offset(),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, orders, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

// updateStatusRequest defines the expected JSON payload for status transitions.
type updateStatusRequest struct {
	Status Status `json:"status"`
}

/*
PATCH /api/v1/orders/{id}/status.

Description: Moves an order along its lifecycle on behalf of the stall owner.

Request:
  - body: updateStatusRequest

Response:
  - 200: Order: Order after the transition
  - 403: ErrForbidden: Actor does not manage the receiving stall
  - 422: ErrUnprocessable: Illegal lifecycle transition
*/
func (handler *Handler) updateStatus(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateStatusRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.orderService.UpdateStatus(
		request.Context(),
		claims.UserID,
		sec.UserRole(claims.Role),
		requestutil.ID(request, "id"),
		input.Status,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}
