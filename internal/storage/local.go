package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes objects below baseDir and builds URLs under urlPrefix.
type LocalStorage struct {
	baseDir   string
	urlPrefix string
}

func NewLocalStorage(baseDir, urlPrefix string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (s *LocalStorage) Upload(_ context.Context, key string, data io.Reader, _ int64, _ string) (string, error) {
	dest, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("storage: mkdir: %w", err)
	}
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("storage: create: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, data); err != nil {
		return "", fmt.Errorf("storage: write: %w", err)
	}
	return s.urlPrefix + "/" + key, nil
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	dest, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove: %w", err)
	}
	return nil
}

// path rejects keys that would escape baseDir.
func (s *LocalStorage) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("storage: empty key")
	}
	return filepath.Join(s.baseDir, clean), nil
}

// Ping creates baseDir if needed and fails when it is not a directory.
func (s *LocalStorage) Ping(_ context.Context) error {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	return nil
}
