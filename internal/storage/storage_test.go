package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/folio/folio/backend/api/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageUploadDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir, "/uploads/")

	url, err := s.Upload(context.Background(), "images/cat-1a2b3c4d.png", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)
	require.Equal(t, "/uploads/images/cat-1a2b3c4d.png", url)

	b, err := os.ReadFile(filepath.Join(dir, "images", "cat-1a2b3c4d.png"))
	require.NoError(t, err)
	require.Equal(t, "png", string(b))

	require.NoError(t, s.Delete(context.Background(), "images/cat-1a2b3c4d.png"))
	require.NoError(t, s.Delete(context.Background(), "images/cat-1a2b3c4d.png"), "missing key is fine")
}

func TestLocalStorageStaysInBaseDir(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir, "/uploads")
	_, err := s.Upload(context.Background(), "../../escape.txt", strings.NewReader("x"), 1, "text/plain")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	require.NoError(t, err)
}

func TestPublicBase(t *testing.T) {
	require.Equal(t, "http://minio:9000/media", publicBase(config.MinIOConfig{Endpoint: "minio:9000", Bucket: "media"}))
	require.Equal(t, "https://minio:9000/media", publicBase(config.MinIOConfig{Endpoint: "minio:9000", Bucket: "media", UseSSL: true}))
	require.Equal(t, "https://cdn.example.com/media", publicBase(config.MinIOConfig{Endpoint: "minio:9000", Bucket: "media", PublicURL: "https://cdn.example.com/"}))
}

func TestReadyLocal(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	require.NoError(t, Ready(context.Background(), NewLocalStorage(dir, "/uploads")))
	st, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, st.IsDir())

	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	require.Error(t, Ready(context.Background(), NewLocalStorage(file, "/uploads")))
}
