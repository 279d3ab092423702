package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalConfig holds configuration for filesystem media storage.
type LocalConfig struct {
	BasePath string `mapstructure:"base_path"`
	// BaseURL is prefixed to keys when building download/upload URLs,
	// e.g. "/media" when the directory is served statically.
	BaseURL string `mapstructure:"base_url"`
}

// LocalStore implements MediaStore on the local filesystem. It is the
// development default; production deployments use S3Store.
type LocalStore struct {
	basePath string
	baseURL  string
}

// NewLocalStore creates a filesystem-backed media store.
func NewLocalStore(cfg LocalConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.BasePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}

	absPath, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path: %w", err)
	}

	return &LocalStore{basePath: absPath, baseURL: strings.TrimSuffix(cfg.BaseURL, "/")}, nil
}

// fullPath maps a key to a filesystem path, rejecting traversal.
func (s *LocalStore) fullPath(key string) string {
	cleanKey := filepath.Clean(key)
	if cleanKey == ".." || strings.HasPrefix(cleanKey, ".."+string(os.PathSeparator)) {
		cleanKey = ""
	}
	return filepath.Join(s.basePath, cleanKey)
}

func (s *LocalStore) Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	path := s.fullPath(key)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", key, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := os.Open(s.fullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("media %s not found", key)
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return f, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := os.Remove(s.fullPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.fullPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *LocalStore) DownloadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return s.baseURL + "/" + key, nil
}

func (s *LocalStore) UploadURL(ctx context.Context, key string, contentType string, expires time.Duration) (string, error) {
	return s.baseURL + "/" + key, nil
}
