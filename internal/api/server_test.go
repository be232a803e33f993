// Copyright (c) 2026 Maria. All rights reserved.

package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lelipitri23-dev/Maria/internal/platform/config"
	"github.com/lelipitri23-dev/Maria/internal/platform/storage"
)

func newTestServer(t *testing.T, handlers Handlers) *Server {
	t.Helper()

	handlers.Liveness = func(writer http.ResponseWriter, _ *http.Request) { writer.WriteHeader(http.StatusOK) }
	handlers.Readiness = func(writer http.ResponseWriter, _ *http.Request) { writer.WriteHeader(http.StatusOK) }

	cfg := &config.Config{SiteURL: "http://localhost:8080", ServerPort: "8080"}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return NewServer(ctx, cfg, log, nil, nil, handlers)
}

func TestServer_ServesLocalImages(t *testing.T) {
	uploader, err := storage.NewDiskUploader(t.TempDir())
	require.NoError(t, err)

	webPath, err := uploader.Upload(context.Background(), "cover.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	require.Equal(t, "/images/cover.jpg", webPath)

	server := newTestServer(t, Handlers{StaticImages: uploader.FileServer()})

	recorder := httptest.NewRecorder()
	server.router.ServeHTTP(recorder, httptest.NewRequest("GET", webPath, nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "jpeg-bytes", recorder.Body.String())
}

// With object storage configured no local route exists; images live on the
// storage provider's public domain.
func TestServer_NoImageRouteWithObjectStorage(t *testing.T) {
	server := newTestServer(t, Handlers{})

	recorder := httptest.NewRecorder()
	server.router.ServeHTTP(recorder, httptest.NewRequest("GET", "/images/cover.jpg", nil))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
