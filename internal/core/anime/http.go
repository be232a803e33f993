// Copyright (c) 2026 Maria. All rights reserved.

package anime

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lelipitri23-dev/Maria/internal/core/taxonomy"
	"github.com/lelipitri23-dev/Maria/internal/platform/apperr"
	requestutil "github.com/lelipitri23-dev/Maria/internal/platform/request"
	"github.com/lelipitri23-dev/Maria/internal/platform/respond"
	"github.com/lelipitri23-dev/Maria/internal/platform/storage"
	"github.com/lelipitri23-dev/Maria/pkg/pagination"
	"github.com/lelipitri23-dev/Maria/pkg/uuidv7"
)

// maxUploadBytes caps admin cover-image uploads (8 MiB).
const maxUploadBytes = 8 << 20

type Handler struct {
	service  *Service
	taxonomy *taxonomy.Service
	uploader storage.Uploader
}

func NewHandler(service *Service, taxonomyService *taxonomy.Service, uploader storage.Uploader) *Handler {
	return &Handler{
		service:  service,
		taxonomy: taxonomyService,
		uploader: uploader,
	}
}

// RegisterPublicRoutes mounts the browse surface.
func (handler *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Get("/anime-list", handler.listAll)
	router.Get("/search", handler.search)
	router.Get("/genres", handler.listGenres)
	router.Get("/genres/{slug}", handler.listByGenre)
	router.Get("/status/{slug}", handler.listByStatus)
	router.Get("/type/{slug}", handler.listByType)
	router.Get("/studio/{slug}", handler.listByStudio)
	router.Get("/years", handler.listYears)
	router.Get("/year/{year}", handler.listByYear)
	router.Get("/random", handler.random)
	router.Get("/anime/{slug}", handler.detail)
}

// RegisterAdminRoutes mounts the back-office CRUD group.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Post("/", handler.create)
	router.Put("/{id}", handler.update)
	router.Delete("/{id}", handler.remove)
	router.Post("/upload", handler.uploadImage)
}

// # Public Listings

// listAll is the legacy full-catalogue listing: ascending insertion order.
func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	handler.respondListing(writer, request, Filter{Order: OrderOldest})
}

func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query().Get("q")
	handler.respondListing(writer, request, Filter{Query: query})
}

func (handler *Handler) listByGenre(writer http.ResponseWriter, request *http.Request) {
	handler.taxonomyListing(writer, request, taxonomy.FieldGenres)
}

func (handler *Handler) listByStatus(writer http.ResponseWriter, request *http.Request) {
	handler.taxonomyListing(writer, request, taxonomy.FieldStatus)
}

func (handler *Handler) listByType(writer http.ResponseWriter, request *http.Request) {
	handler.taxonomyListing(writer, request, taxonomy.FieldType)
}

func (handler *Handler) listByStudio(writer http.ResponseWriter, request *http.Request) {
	handler.taxonomyListing(writer, request, taxonomy.FieldStudio)
}

// taxonomyListing resolves the URL slug to the stored original value, then
// runs the shared listing pipeline with the matching filter.
func (handler *Handler) taxonomyListing(writer http.ResponseWriter, request *http.Request, field taxonomy.Field) {
	candidate := requestutil.Param(request, "slug")

	original, err := handler.taxonomy.ResolveSlug(request.Context(), field, candidate)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := Filter{}
	switch field {
	case taxonomy.FieldGenres:
		filter.Genre = original
	case taxonomy.FieldStatus:
		filter.Status = original
	case taxonomy.FieldType:
		filter.Type = original
	case taxonomy.FieldStudio:
		filter.Studio = original
	}

	handler.respondListing(writer, request, filter)
}

func (handler *Handler) listByYear(writer http.ResponseWriter, request *http.Request) {
	year := requestutil.Param(request, "year")
	handler.respondListing(writer, request, Filter{ReleasedYear: year})
}

func (handler *Handler) respondListing(writer http.ResponseWriter, request *http.Request, filter Filter) {
	params := pagination.FromRequest(request)

	entries, meta, err := handler.service.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, entries, meta)
}

func (handler *Handler) listGenres(writer http.ResponseWriter, request *http.Request) {
	genres, err := handler.taxonomy.Distinct(request.Context(), taxonomy.FieldGenres)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, genres)
}

func (handler *Handler) listYears(writer http.ResponseWriter, request *http.Request) {
	years, err := handler.taxonomy.Years(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, years)
}

// # Detail & Random

func (handler *Handler) detail(writer http.ResponseWriter, request *http.Request) {
	entry, err := handler.service.GetBySlug(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entry)
}

func (handler *Handler) random(writer http.ResponseWriter, request *http.Request) {
	entry, err := handler.service.Random(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	http.Redirect(writer, request, "/anime/"+entry.Slug, http.StatusFound)
}

// # Admin CRUD

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, entry)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entry)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// uploadImage stores a cover image and returns its public URL.
func (handler *Handler) uploadImage(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseMultipartForm(maxUploadBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Invalid multipart form"))
		return
	}

	file, header, err := request.FormFile("image")
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Missing image file"))
		return
	}
	defer file.Close()

	// Prefix with a fresh ID so concurrent uploads never collide.
	fileName := uuidv7.New() + "-" + header.Filename
	publicURL, err := handler.uploader.Upload(request.Context(), fileName, header.Header.Get("Content-Type"), file)
	if err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	respond.OK(writer, map[string]string{"url": publicURL})
}
