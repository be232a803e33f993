// Copyright (c) 2026 Maria. All rights reserved.

package admin_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lelipitri23-dev/Maria/internal/admin"
	"github.com/lelipitri23-dev/Maria/internal/platform/apperr"
)

func TestDoodClient_RemoteUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/upload/url", request.URL.Path)
		assert.Equal(t, "secret-key", request.URL.Query().Get("key"))
		assert.Equal(t, "https://origin.example.com/episode.mp4", request.URL.Query().Get("url"))

		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"status":200,"msg":"OK","result":{"filecode":"abc123"}}`))
	}))
	defer server.Close()

	client := admin.NewDoodClient(server.URL, "secret-key")

	remote, err := client.RemoteUpload(context.Background(), "https://origin.example.com/episode.mp4")
	require.NoError(t, err)

	assert.Equal(t, "abc123", remote.FileCode)
	assert.Equal(t, "https://dsvplay.com/e/abc123", remote.EmbedURL)
	assert.Equal(t, "https://dsvplay.com/d/abc123", remote.DownloadURL)
}

// The host-side fetch must run under its own extended deadline even when
// the originating request's context has already been cut short.
func TestDoodClient_RemoteUpload_OutlivesRequestDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"status":200,"msg":"OK","result":{"filecode":"abc123"}}`))
	}))
	defer server.Close()

	client := admin.NewDoodClient(server.URL, "secret-key")

	expired, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	remote, err := client.RemoteUpload(expired, "https://origin.example.com/episode.mp4")
	require.NoError(t, err)
	assert.Equal(t, "abc123", remote.FileCode)
}

func TestDoodClient_RemoteUpload_UpstreamRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"status":403,"msg":"invalid key","result":{}}`))
	}))
	defer server.Close()

	client := admin.NewDoodClient(server.URL, "wrong-key")

	_, err := client.RemoteUpload(context.Background(), "https://origin.example.com/episode.mp4")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 400, appError.HTTPStatus)
	assert.Contains(t, appError.Message, "invalid key")
}

func TestDoodClient_RemoteUpload_Unconfigured(t *testing.T) {
	client := admin.NewDoodClient("https://doodapi.co", "")

	_, err := client.RemoteUpload(context.Background(), "https://origin.example.com/episode.mp4")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, 503, appError.HTTPStatus)
}
