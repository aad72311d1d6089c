package badge

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/anngon/internal/platform/middleware"
	requestutil "github.com/taibuivan/anngon/internal/platform/request"
	"github.com/taibuivan/anngon/internal/platform/respond"
	"github.com/taibuivan/anngon/internal/platform/sec"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listBadges)
	router.Get("/{id}", handler.getBadge)
	router.Get("/stall/{stallID}", handler.listStallBadges)

	// Admin Only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

		adminRoute.Post("/", handler.createBadge)
		adminRoute.Patch("/{id}", handler.updateBadge)
		adminRoute.Delete("/{id}", handler.deleteBadge)

		adminRoute.Put("/{id}/award/{stallID}", handler.awardBadge)
		adminRoute.Delete("/{id}/award/{stallID}", handler.revokeBadge)
	})
}

func (handler *Handler) listBadges(writer http.ResponseWriter, request *http.Request) {
	badges, err := handler.service.ListBadges(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, badges)
}

func (handler *Handler) getBadge(writer http.ResponseWriter, request *http.Request) {
	idStr := requestutil.ID(request, "id")
	badgeID, err := strconv.Atoi(idStr)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	badge, err := handler.service.GetBadge(request.Context(), badgeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, badge)
}

func (handler *Handler) listStallBadges(writer http.ResponseWriter, request *http.Request) {
	stallID := chi.URLParam(request, "stallID")

	awards, err := handler.service.ListStallBadges(request.Context(), stallID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, awards)
}

func (handler *Handler) createBadge(writer http.ResponseWriter, request *http.Request) {
	var input Badge

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.CreateBadge(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateBadge(writer http.ResponseWriter, request *http.Request) {
	idStr := requestutil.ID(request, "id")
	badgeID, err := strconv.Atoi(idStr)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Badge
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateBadge(request.Context(), badgeID, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

func (handler *Handler) deleteBadge(writer http.ResponseWriter, request *http.Request) {
	idStr := requestutil.ID(request, "id")
	badgeID, err := strconv.Atoi(idStr)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteBadge(request.Context(), badgeID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) awardBadge(writer http.ResponseWriter, request *http.Request) {
	idStr := requestutil.ID(request, "id")
	badgeID, err := strconv.Atoi(idStr)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stallID := chi.URLParam(request, "stallID")

	if err := handler.service.AwardBadge(request.Context(), badgeID, stallID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) revokeBadge(writer http.ResponseWriter, request *http.Request) {
	idStr := requestutil.ID(request, "id")
	badgeID, err := strconv.Atoi(idStr)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stallID := chi.URLParam(request, "stallID")

	if err := handler.service.RevokeBadge(request.Context(), badgeID, stallID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
