// Copyright (c) 2026 Maria. All rights reserved.

package episode

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/lelipitri23-dev/Maria/internal/platform/request"
	"github.com/lelipitri23-dev/Maria/internal/platform/respond"
	"github.com/lelipitri23-dev/Maria/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the watch surface. The two-segment pattern
// matches the episode slug "/<animeSlug>/<number>".
func (handler *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Get("/episodes", handler.latest)
	router.Get("/anime/{slug}/{number}", handler.watch)
}

// RegisterAPIRoutes mounts the bearer-token variant used by mobile clients.
func (handler *Handler) RegisterAPIRoutes(router chi.Router) {
	router.Get("/watch/{slug}/{number}", handler.watchAPI)
}

// RegisterAdminRoutes mounts the back-office CRUD group.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Post("/", handler.create)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.remove)
}

func watchSlug(request *http.Request) string {
	return "/" + requestutil.Param(request, "slug") + "/" + requestutil.Param(request, "number")
}

func (handler *Handler) latest(writer http.ResponseWriter, request *http.Request) {
	records, meta, err := handler.service.Latest(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, records, meta)
}

func (handler *Handler) watch(writer http.ResponseWriter, request *http.Request) {
	page, err := handler.service.Watch(request.Context(), watchSlug(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, page)
}

func (handler *Handler) watchAPI(writer http.ResponseWriter, request *http.Request) {
	page, err := handler.service.WatchAPI(request.Context(), watchSlug(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, page)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, record)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
