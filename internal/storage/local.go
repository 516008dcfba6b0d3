// Package storage persists uploaded media files on local disk.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"chili/internal/observability"

	"github.com/google/uuid"
)

// MediaTypeFor derives the stored media type from an upload's Content-Type.
// Anything that is not an image is treated as video.
func MediaTypeFor(contentType string) string {
	if strings.HasPrefix(contentType, "image/") {
		return "image"
	}
	return "video"
}

// LocalStore writes media files under a base directory and serves them by name.
type LocalStore struct {
	baseDir string
}

// NewLocalStore ensures the base directory exists and returns a store over it.
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", baseDir, err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// BaseDir returns the directory files are stored in.
func (s *LocalStore) BaseDir() string {
	return s.baseDir
}

// Save streams r into a new file named by a random UUID, preserving the
// original extension. It returns the stored file name.
func (s *LocalStore) Save(originalName, mediaType string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext

	f, err := os.Create(filepath.Join(s.baseDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	observability.MediaBytesWritten.WithLabelValues(mediaType).Add(float64(n))
	observability.MediaUploads.WithLabelValues(mediaType).Inc()

	return name, nil
}

// Remove deletes a stored file by name. Missing files are not an error.
func (s *LocalStore) Remove(name string) error {
	err := os.Remove(filepath.Join(s.baseDir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
