// Copyright (c) 2026 Maria. All rights reserved.

package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/lelipitri23-dev/Maria/internal/platform/constants"
)

// DiskUploader writes uploads to the local filesystem.
//
// Files land under rootDir and are served by the static file route at
// [constants.UploadWebPath].
type DiskUploader struct {
	rootDir string
}

// NewDiskUploader ensures the upload directory exists.
func NewDiskUploader(rootDir string) (*DiskUploader, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: failed to create upload dir: %w", err)
	}
	return &DiskUploader{rootDir: rootDir}, nil
}

// FileServer returns the handler that serves the upload directory under
// [constants.UploadWebPath]. Mounted only in the disk-fallback configuration;
// object storage serves its own public domain.
func (uploader *DiskUploader) FileServer() http.Handler {
	return http.StripPrefix(constants.UploadWebPath+"/", http.FileServer(http.Dir(uploader.rootDir)))
}

// Upload writes the file to disk and returns its web path.
//
// The file name is flattened with [filepath.Base] so request-supplied names
// cannot traverse outside the upload directory.
func (uploader *DiskUploader) Upload(_ context.Context, fileName, _ string, body io.Reader) (string, error) {
	safeName := filepath.Base(fileName)
	targetPath := filepath.Join(uploader.rootDir, safeName)

	file, err := os.Create(targetPath)
	if err != nil {
		return "", fmt.Errorf("storage: failed to create %q: %w", targetPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, body); err != nil {
		return "", fmt.Errorf("storage: failed to write %q: %w", targetPath, err)
	}

	return constants.UploadWebPath + "/" + safeName, nil
}
