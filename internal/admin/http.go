// Copyright (c) 2026 Maria. All rights reserved.

package admin

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lelipitri23-dev/Maria/internal/platform/apperr"
	requestutil "github.com/lelipitri23-dev/Maria/internal/platform/request"
	"github.com/lelipitri23-dev/Maria/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the cross-domain back-office surface. The caller
// wraps it in the admin session gate.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/stats", handler.stats)
	router.Get("/backup", handler.exportBackup)
	router.Post("/backup", handler.importBackup)
	router.Post("/mirrors/remote", handler.ingestRemoteMirror)
	router.Post("/mirrors/batch", handler.batchDisabled)
	router.Delete("/mirrors", handler.clearMirrors)
}

func (handler *Handler) stats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.Stats(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats)
}

// exportBackup streams the document straight onto the wire. A failure
// after the first byte can only truncate the body.
func (handler *Handler) exportBackup(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.Header().Set("Content-Disposition", `attachment; filename="maria-backup.json"`)

	if err := handler.service.ExportBackup(request.Context(), writer); err != nil {
		respond.Error(writer, request, err)
	}
}

func (handler *Handler) importBackup(writer http.ResponseWriter, request *http.Request) {
	var document map[string]json.RawMessage
	if err := requestutil.DecodeJSON(request, &document); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ImportBackup(request.Context(), document); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{"status": "imported"})
}

type remoteMirrorPayload struct {
	EpisodeID string `json:"episode_id"`
	SourceURL string `json:"source_url"`
}

func (handler *Handler) ingestRemoteMirror(writer http.ResponseWriter, request *http.Request) {
	var payload remoteMirrorPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.IngestRemoteMirror(request.Context(), payload.EpisodeID, payload.SourceURL)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, record)
}

// batchDisabled rejects the batch ingestion endpoint. Uploading a whole
// season holds an HTTP worker for far too long; the batch path runs as a
// scheduled job instead.
func (handler *Handler) batchDisabled(writer http.ResponseWriter, request *http.Request) {
	respond.Error(writer, request, apperr.ServiceUnavailable("Batch upload runs as a scheduled job, not over HTTP"))
}

type clearMirrorsPayload struct {
	Names     []string `json:"names"`
	Qualities []string `json:"qualities"`
}

func (handler *Handler) clearMirrors(writer http.ResponseWriter, request *http.Request) {
	var payload clearMirrorsPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	modified, err := handler.service.ClearMirrors(request.Context(), payload.Names, payload.Qualities)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]int64{"modified": modified})
}
