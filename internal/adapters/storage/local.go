// Package storage implements ports.ImageStore on the local filesystem and
// on S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsamuelsen/foodgram/internal/ports"
)

// LocalStore writes images below a directory served as static files.
type LocalStore struct {
	dir     string
	baseURL string
}

var _ ports.ImageStore = (*LocalStore)(nil)

// NewLocalStore creates dir if needed and returns a store publishing keys
// under baseURL.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating media dir: %w", err)
	}

	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the root directory of stored images.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(_ context.Context, key string, data []byte, _ string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating image dir: %w", err)
	}

	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("writing image %s: %w", key, err)
	}

	return nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing image %s: %w", key, err)
	}

	return nil
}

func (s *LocalStore) URL(key string) string {
	if key == "" {
		return ""
	}

	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// Check verifies the media directory is still present.
func (s *LocalStore) Check(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("media dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("media dir %s is not a directory", s.dir)
	}

	return nil
}

func (s *LocalStore) Name() string {
	return "image-store"
}

func (s *LocalStore) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid image key %q", key)
	}

	return filepath.Join(s.dir, clean), nil
}
