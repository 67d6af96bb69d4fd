package content

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"mime/multipart"
	"reflect"
	"strconv"

	"github.com/folio/folio/backend/api/internal/models"
	"github.com/folio/folio/backend/api/internal/store"
	"github.com/folio/folio/backend/api/internal/upload"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// FilterKind is the type a whitelisted query filter is parsed as.
type FilterKind int

const (
	StringFilter FilterKind = iota
	BoolFilter
)

// Kind describes one collection: its upload folder, filterable fields and
// the hooks that fill derived fields.
type Kind[T any] struct {
	Folder  string
	Filters map[string]FilterKind
	// New returns a document with create-time defaults applied.
	New func() *T
	// Image points at the document's asset URL field.
	Image func(*T) *string
	// Prepare fills derived fields before validation. prev is nil on create.
	Prepare func(doc, prev *T, patch map[string]json.RawMessage)
}

// Query is a page request with raw filter values from the URL.
type Query struct {
	Page    int64
	Limit   int64
	Filters map[string]string
}

type Pagination struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type Page[T any] struct {
	Data       []*T       `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Collection serves a many-document resource whose items own one stored file.
type Collection[T any] struct {
	repo  store.Repository[T]
	files *upload.Pipeline
	kind  Kind[T]
}

func NewCollection[T any](repo store.Repository[T], files *upload.Pipeline, kind Kind[T]) *Collection[T] {
	if kind.New == nil {
		kind.New = func() *T { return new(T) }
	}
	return &Collection[T]{repo: repo, files: files, kind: kind}
}

func (c *Collection[T]) List(ctx context.Context, q Query) (*Page[T], error) {
	page, limit := q.Page, q.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	filter, err := c.filter(q.Filters)
	if err != nil {
		return nil, err
	}
	docs, total, err := c.repo.List(ctx, store.ListOptions{Filter: filter, Page: page, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.repo.Name(), err)
	}
	return &Page[T]{
		Data:       docs,
		Pagination: Pagination{Page: page, Limit: limit, Total: total, Pages: int64(math.Ceil(float64(total) / float64(limit)))},
	}, nil
}

func (c *Collection[T]) filter(raw map[string]string) (store.Filter, error) {
	f := store.Filter{}
	for field, kind := range c.kind.Filters {
		v, ok := raw[field]
		if !ok || v == "" {
			continue
		}
		switch kind {
		case BoolFilter:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, models.NewValidationError("query", field, "must be true or false")
			}
			f[field] = b
		default:
			f[field] = v
		}
	}
	return f, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}
	return c.repo.Get(ctx, oid)
}

// Create builds a document from patch, stores file (if any) as its image and
// inserts it. A failed insert removes the stored file.
func (c *Collection[T]) Create(ctx context.Context, patch map[string]json.RawMessage, file *multipart.FileHeader) (*T, error) {
	doc := c.kind.New()
	if err := models.MergeShallow(doc, patch); err != nil {
		return nil, models.NewValidationError(modelName(doc), "body", err.Error())
	}
	if err := c.check(doc, nil, patch); err != nil {
		return nil, err
	}
	_, err := c.files.Attach(ctx, upload.ContentImage(c.kind.Folder), file, "", func(url string) error {
		if file != nil {
			*c.kind.Image(doc) = url
		}
		return c.repo.Insert(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Update overlays patch on the stored item. A new file, or a patch that
// changes the image URL, replaces the old image, which is removed only after
// the update is persisted.
func (c *Collection[T]) Update(ctx context.Context, id string, patch map[string]json.RawMessage, file *multipart.FileHeader) (*T, error) {
	doc, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	prev := clone(doc)
	oldURL := *c.kind.Image(doc)
	if err := models.MergeShallow(doc, patch); err != nil {
		return nil, models.NewValidationError(modelName(doc), "body", err.Error())
	}
	if err := c.check(doc, prev, patch); err != nil {
		return nil, err
	}
	_, err = c.files.Attach(ctx, upload.ContentImage(c.kind.Folder), file, oldURL, func(url string) error {
		if file != nil {
			*c.kind.Image(doc) = url
		}
		return c.repo.Replace(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	// the body cleared or repointed the image without uploading a new one
	if file == nil && oldURL != "" && *c.kind.Image(doc) != oldURL {
		c.files.Release(ctx, oldURL)
	}
	return doc, nil
}

// Delete removes the item, then its stored image on a best-effort basis.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	doc, err := c.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := c.repo.Delete(ctx, any(doc).(models.Entity).Base().ID); err != nil {
		return err
	}
	c.files.Release(ctx, *c.kind.Image(doc))
	return nil
}

func (c *Collection[T]) check(doc, prev *T, patch map[string]json.RawMessage) error {
	if c.kind.Prepare != nil {
		c.kind.Prepare(doc, prev, patch)
	}
	return models.Validate(doc)
}

func clone[T any](doc *T) *T {
	cp := *doc
	return &cp
}

func modelName(doc any) string {
	t := reflect.TypeOf(doc)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
