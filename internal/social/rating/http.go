package rating

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/anngon/internal/platform/request"
	"github.com/taibuivan/anngon/internal/platform/respond"
	"github.com/taibuivan/anngon/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the rating endpoints. The list endpoint is public;
// the write endpoints are mounted behind RequireAuth by the server.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/food/{foodID}", handler.listByFood)
}

// RegisterProtectedRoutes mounts the endpoints that need an authenticated user.
func (handler *Handler) RegisterProtectedRoutes(router chi.Router) {
	router.Put("/food/{foodID}", handler.rateFood)
	router.Get("/food/{foodID}/mine", handler.getOwn)
	router.Delete("/food/{foodID}", handler.deleteRating)
}

func (handler *Handler) listByFood(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	foodID := chi.URLParam(request, "foodID")

	ratings, total, err := handler.service.ListByFood(request.Context(), foodID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, ratings, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

type rateFoodRequest struct {
	Score   int     `json:"score"`
	Comment *string `json:"comment"`
}

func (handler *Handler) rateFood(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input rateFoodRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	rated, err := handler.service.RateFood(request.Context(), userID, &Rating{
		FoodID:  chi.URLParam(request, "foodID"),
		Score:   input.Score,
		Comment: input.Comment,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, rated)
}

func (handler *Handler) getOwn(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	own, err := handler.service.GetOwn(request.Context(), userID, chi.URLParam(request, "foodID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, own)
}

func (handler *Handler) deleteRating(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteRating(request.Context(), userID, chi.URLParam(request, "foodID")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
