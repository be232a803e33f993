// Copyright (c) 2026 Maria. All rights reserved.

package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/lelipitri23-dev/Maria/internal/platform/apperr"
	"github.com/lelipitri23-dev/Maria/internal/platform/constants"
)

// embedHost serves the player pages for remotely ingested mirrors.
const embedHost = "https://dsvplay.com"

// RemoteMirror is the result of an upload-by-URL ingestion.
type RemoteMirror struct {
	FileCode    string `json:"file_code"`
	EmbedURL    string `json:"embed_url"`
	DownloadURL string `json:"download_url"`
}

// DoodClient talks to the DoodStream upload-by-URL API. The remote host
// fetches the source itself, so requests run under the extended
// [constants.RemoteUploadTimeout] rather than the global request timeout.
type DoodClient struct {
	httpClient *http.Client
	apiURL     string
	apiKey     string
}

func NewDoodClient(apiURL, apiKey string) *DoodClient {
	return &DoodClient{
		httpClient: &http.Client{Timeout: constants.RemoteUploadTimeout},
		apiURL:     apiURL,
		apiKey:     apiKey,
	}
}

// Configured reports whether an API key is present.
func (client *DoodClient) Configured() bool {
	return client.apiKey != ""
}

type doodUploadResponse struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
	Result struct {
		FileCode string `json:"filecode"`
	} `json:"result"`
}

/*
RemoteUpload asks the video host to fetch sourceURL and returns the embed
and download URLs for the stored copy.

The upstream call runs on its own deadline, detached from the request
context: the host-side fetch routinely outlives the global request timeout,
and cancelling it halfway would leave a partial upload on the host.

Parameters:
  - requestContext: context.Context of the originating request
  - sourceURL: publicly reachable video URL

Returns:
  - *RemoteMirror: URLs of the hosted copy
  - err: configuration, transport, or upstream rejection errors
*/
func (client *DoodClient) RemoteUpload(requestContext context.Context, sourceURL string) (*RemoteMirror, error) {
	if !client.Configured() {
		return nil, apperr.ServiceUnavailable("Remote upload is not configured")
	}

	uploadContext, cancel := context.WithTimeout(context.WithoutCancel(requestContext), constants.RemoteUploadTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/api/upload/url?key=%s&url=%s",
		client.apiURL, url.QueryEscape(client.apiKey), url.QueryEscape(sourceURL))

	request, err := http.NewRequestWithContext(uploadContext, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("admin: build remote upload request: %w", err)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, apperr.ServiceUnavailable("Video host is unreachable")
	}
	defer response.Body.Close()

	var payload doodUploadResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("admin: decode remote upload response: %w", err)
	}

	// The API reports errors in the body with its own status field.
	if payload.Status != http.StatusOK || payload.Result.FileCode == "" {
		return nil, apperr.ValidationError(fmt.Sprintf("Video host rejected the upload: %s", payload.Msg))
	}

	return &RemoteMirror{
		FileCode:    payload.Result.FileCode,
		EmbedURL:    embedHost + "/e/" + payload.Result.FileCode,
		DownloadURL: embedHost + "/d/" + payload.Result.FileCode,
	}, nil
}
