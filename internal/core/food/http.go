package food

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/anngon/internal/platform/middleware"
	requestutil "github.com/taibuivan/anngon/internal/platform/request"
	"github.com/taibuivan/anngon/internal/platform/respond"
	"github.com/taibuivan/anngon/internal/platform/sec"
	"github.com/taibuivan/anngon/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listFoods)
	router.Get("/{id}", handler.getFood)

	// Owner Only
	router.Group(func(ownerRoute chi.Router) {
		ownerRoute.Use(middleware.RequireRole(sec.RoleOwner))

		ownerRoute.Post("/", handler.createFood)
		ownerRoute.Patch("/{id}", handler.updateFood)
		ownerRoute.Patch("/{id}/available", handler.setAvailable)
		ownerRoute.Delete("/{id}", handler.deleteFood)
	})
}

func (handler *Handler) listFoods(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	queryParams := request.URL.Query()

	categoryID, _ := strconv.Atoi(queryParams.Get("category_id"))
	minPrice, _ := strconv.ParseInt(queryParams.Get("min_price"), 10, 64)
	maxPrice, _ := strconv.ParseInt(queryParams.Get("max_price"), 10, 64)

	filter := Filter{
		Query:         queryParams.Get("q"),
		StallID:       queryParams.Get("stall_id"),
		CategoryID:    categoryID,
		AvailableOnly: queryParams.Get("available") == "true",
		MinPrice:      minPrice,
		MaxPrice:      maxPrice,
	}

	foods, total, err := handler.service.ListFoods(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, foods, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getFood(writer http.ResponseWriter, request *http.Request) {
	foodID := requestutil.ID(request, "id")

	food, err := handler.service.GetFood(request.Context(), foodID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, food)
}

func (handler *Handler) createFood(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Food
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateFood(request.Context(), claims.UserID, sec.UserRole(claims.Role), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateFood(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Food
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	food, err := handler.service.UpdateFood(
		request.Context(),
		claims.UserID,
		sec.UserRole(claims.Role),
		requestutil.ID(request, "id"),
		&input,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, food)
}

type setAvailableRequest struct {
	Available bool `json:"available"`
}

func (handler *Handler) setAvailable(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input setAvailableRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.SetAvailable(
		request.Context(),
		claims.UserID,
		sec.UserRole(claims.Role),
		requestutil.ID(request, "id"),
		input.Available,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) deleteFood(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.DeleteFood(
		request.Context(),
		claims.UserID,
		sec.UserRole(claims.Role),
		requestutil.ID(request, "id"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
