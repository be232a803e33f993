// Copyright (c) 2026 Maria. All rights reserved.

/*
Package storage abstracts where uploaded cover images end up.

Two implementations exist:

  - R2Uploader: pushes objects to Cloudflare R2 through the S3-compatible API
    and returns a public CDN URL.
  - DiskUploader: writes files under the local public/images directory. Used
    in development and as a fallback when R2 is not configured.

Handlers depend only on [Uploader], so swapping backends is a wiring change
in main.go.
*/
package storage

import (
	"context"
	"io"
)

// Uploader stores an uploaded file and returns its publicly reachable URL.
type Uploader interface {
	Upload(ctx context.Context, fileName, contentType string, body io.Reader) (string, error)
}
