package stall

import (
	"net/http"

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
	router.Get("/", handler.listStalls)
	router.Get("/{id}", handler.getStall)
	router.Get("/by-slug/{slug}", handler.getStallBySlug)

	// Owner Only
	router.Group(func(ownerRoute chi.Router) {
		ownerRoute.Use(middleware.RequireRole(sec.RoleOwner))

		ownerRoute.Post("/", handler.createStall)
		ownerRoute.Patch("/{id}", handler.updateStall)
		ownerRoute.Patch("/{id}/open", handler.setOpen)
		ownerRoute.Delete("/{id}", handler.deleteStall)
	})
}

func (handler *Handler) listStalls(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	filter := Filter{
		Query:    request.URL.Query().Get("q"),
		OwnerID:  request.URL.Query().Get("owner_id"),
		OpenOnly: request.URL.Query().Get("open") == "true",
	}

	stalls, total, err := handler.service.ListStalls(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, stalls, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getStall(writer http.ResponseWriter, request *http.Request) {
	stallID := requestutil.ID(request, "id")

	stall, err := handler.service.GetStall(request.Context(), stallID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stall)
}

func (handler *Handler) getStallBySlug(writer http.ResponseWriter, request *http.Request) {
	stallSlug := chi.URLParam(request, "slug")

	stall, err := handler.service.GetStallBySlug(request.Context(), stallSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stall)
}

func (handler *Handler) createStall(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Stall
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateStall(request.Context(), userID, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateStall(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Stall
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	stall, err := handler.service.UpdateStall(
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
	respond.OK(writer, stall)
}

type setOpenRequest struct {
	Open bool `json:"open"`
}

func (handler *Handler) setOpen(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input setOpenRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.SetOpen(
		request.Context(),
		claims.UserID,
		sec.UserRole(claims.Role),
		requestutil.ID(request, "id"),
		input.Open,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) deleteStall(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.DeleteStall(
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
