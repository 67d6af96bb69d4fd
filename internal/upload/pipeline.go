package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"path"
	"strings"

	"github.com/folio/folio/backend/api/internal/models"
	"github.com/folio/folio/backend/api/internal/storage"
	"github.com/folio/folio/backend/api/pkg/logger"
	"github.com/folio/folio/backend/api/pkg/metrics"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ErrNoFile is returned by Store when the request carried no file.
var ErrNoFile = errors.New("no file uploaded")

// Asset is a stored file.
type Asset struct {
	URL          string `json:"url"`
	PublicID     string `json:"public_id"`
	OriginalName string `json:"originalName"`
}

type Pipeline struct {
	store storage.Storage
}

func NewPipeline(s storage.Storage) *Pipeline {
	return &Pipeline{store: s}
}

// Validate checks size, then the sniffed content type, and returns that type.
// The client's filename extension and Content-Type header are ignored.
func Validate(p Purpose, fh *multipart.FileHeader) (*mimetype.MIME, error) {
	if fh == nil {
		return nil, ErrNoFile
	}
	if fh.Size > p.MaxSize {
		return nil, &ValidationError{Purpose: p.Name, Reason: fmt.Sprintf("file exceeds %d bytes", p.MaxSize)}
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("sniff upload: %w", err)
	}
	for _, a := range p.Allowed {
		if mt.Is(a) {
			return mt, nil
		}
	}
	return nil, &ValidationError{Purpose: p.Name, Reason: fmt.Sprintf("file type %s is not allowed", mt.String())}
}

// Store validates fh and uploads it under a fresh key in p.Folder.
func (pl *Pipeline) Store(ctx context.Context, p Purpose, fh *multipart.FileHeader) (*Asset, error) {
	mt, err := Validate(p, fh)
	if err != nil {
		metrics.Uploads.WithLabelValues(p.Folder, "rejected").Inc()
		return nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	key := objectKey(p.Folder, fh.Filename, mt.Extension())
	u, err := pl.store.Upload(ctx, key, io.Reader(f), fh.Size, mt.String())
	if err != nil {
		metrics.Uploads.WithLabelValues(p.Folder, "failed").Inc()
		return nil, fmt.Errorf("store %s: %w", key, err)
	}
	metrics.Uploads.WithLabelValues(p.Folder, "stored").Inc()
	return &Asset{URL: u, PublicID: key, OriginalName: fh.Filename}, nil
}

// Attach stores fh (if any) and hands its URL to persist. When persist fails
// the new object is removed; when it succeeds the object behind oldURL is.
// Neither removal can fail the call. Without a file persist receives oldURL.
func (pl *Pipeline) Attach(ctx context.Context, p Purpose, fh *multipart.FileHeader, oldURL string, persist func(url string) error) (string, error) {
	if fh == nil {
		if err := persist(oldURL); err != nil {
			return "", err
		}
		return oldURL, nil
	}
	asset, err := pl.Store(ctx, p, fh)
	if err != nil {
		return "", err
	}
	if err := persist(asset.URL); err != nil {
		pl.discard(ctx, asset.PublicID, "persist_failed")
		return "", err
	}
	if oldURL != "" && oldURL != asset.URL {
		pl.Release(ctx, oldURL)
	}
	return asset.URL, nil
}

// Release removes the object behind u, logging instead of failing.
func (pl *Pipeline) Release(ctx context.Context, u string) {
	if key := KeyFromURL(u); key != "" {
		pl.discard(ctx, key, "released")
	}
}

// Remove deletes key and reports the storage error to the caller.
func (pl *Pipeline) Remove(ctx context.Context, key string) error {
	return pl.store.Delete(ctx, key)
}

func (pl *Pipeline) discard(ctx context.Context, key, reason string) {
	if err := pl.store.Delete(ctx, key); err != nil {
		metrics.CleanupFailures.WithLabelValues(reason).Inc()
		logger.Warnf("upload: could not delete %s (%s): %v", key, reason, err)
	}
}

// KeyFromURL returns the "folder/file" tail of a stored object's URL, or ""
// when u has fewer than two path segments.
func KeyFromURL(u string) string {
	if strings.TrimSpace(u) == "" {
		return ""
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return ""
	}
	segs := strings.FieldsFunc(parsed.Path, func(r rune) bool { return r == '/' })
	if len(segs) < 2 {
		return ""
	}
	return segs[len(segs)-2] + "/" + segs[len(segs)-1]
}

func objectKey(folder, filename, ext string) string {
	name := strings.TrimSuffix(path.Base(strings.ReplaceAll(filename, "\\", "/")), path.Ext(filename))
	slug := models.Slugify(name)
	if slug == "" {
		slug = "file"
	}
	return folder + "/" + slug + "-" + uuid.NewString()[:8] + ext
}
