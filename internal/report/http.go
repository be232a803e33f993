// Copyright (c) 2026 Maria. All rights reserved.

package report

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

// RegisterPublicRoutes mounts the anonymous submission endpoint.
func (handler *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Post("/report", handler.submit)
}

// RegisterAdminRoutes mounts the review surface.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Put("/{id}/resolve", handler.resolve)
	router.Delete("/{id}", handler.remove)
}

func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.Submit(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, record)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	records, meta, err := handler.service.List(request.Context(), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, records, meta)
}

func (handler *Handler) resolve(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Resolve(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
