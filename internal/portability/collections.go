package portability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/folio/folio/backend/api/internal/content"
	"github.com/folio/folio/backend/api/internal/models"
	"github.com/folio/folio/backend/api/internal/store"
)

// Collection is one bundle key bound to its store.
type Collection interface {
	Key() string
	Export(ctx context.Context) ([]any, error)
	// Frontend returns the publicly visible documents, identity stripped.
	Frontend(ctx context.Context) ([]any, error)
	// Import writes items and reports one note per item that failed on its
	// own; a returned error fails the whole collection.
	Import(ctx context.Context, items []json.RawMessage) (imported int, itemFailures []string, err error)
	Clear(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

func exportAll[T any](ctx context.Context, repo store.Repository[T], f store.Filter) ([]*T, error) {
	docs, _, err := repo.List(ctx, store.ListOptions{Filter: f})
	return docs, err
}

func toAny[T any](docs []*T) []any {
	out := make([]any, 0, len(docs))
	for _, d := range docs {
		out = append(out, d)
	}
	return out
}

func stripped[T any](docs []*T) ([]any, error) {
	out := make([]any, 0, len(docs))
	for _, d := range docs {
		m, err := models.StripIdentity(d)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func decodeItem[T any](raw json.RawMessage) (*T, error) {
	doc := new(T)
	if err := models.DecodeStripped(raw, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

type repoCollection[T any] struct {
	key  string
	repo store.Repository[T]
}

func (c repoCollection[T]) Key() string { return c.key }

func (c repoCollection[T]) Export(ctx context.Context) ([]any, error) {
	docs, err := exportAll(ctx, c.repo, nil)
	if err != nil {
		return nil, err
	}
	return toAny(docs), nil
}

func (c repoCollection[T]) Clear(ctx context.Context) (int64, error) { return c.repo.DeleteAll(ctx) }

func (c repoCollection[T]) Count(ctx context.Context) (int64, error) { return c.repo.Count(ctx, nil) }

// Singleton imports the first item over the live document, keeping its
// identity, so the collection never holds more than one.
func Singleton[T any](key string, repo store.Repository[T], def func() *T) Collection {
	return &singletonCollection[T]{repoCollection: repoCollection[T]{key: key, repo: repo}, def: def}
}

type singletonCollection[T any] struct {
	repoCollection[T]
	def func() *T
}

func (c *singletonCollection[T]) Frontend(ctx context.Context) ([]any, error) {
	doc, err := c.repo.FindOne(ctx, nil)
	if errors.Is(err, store.ErrNotFound) {
		doc, err = c.def(), nil
	}
	if err != nil {
		return nil, err
	}
	return stripped([]*T{doc})
}

func (c *singletonCollection[T]) Import(ctx context.Context, items []json.RawMessage) (int, []string, error) {
	if len(items) == 0 {
		return 0, nil, nil
	}
	doc, err := decodeItem[T](items[0])
	if err != nil {
		return 0, nil, fmt.Errorf("item 0: %w", err)
	}
	if err := models.Validate(doc); err != nil {
		return 0, nil, fmt.Errorf("item 0: %w", err)
	}
	if err := upsertOver(ctx, c.repo, doc, func() (*T, error) { return c.repo.FindOne(ctx, nil) }); err != nil {
		return 0, nil, err
	}
	return 1, nil, nil
}

// upsertOver replaces the document find returns with doc, keeping its
// identity, or inserts doc when there is none.
func upsertOver[T any](ctx context.Context, repo store.Repository[T], doc *T, find func() (*T, error)) error {
	cur, err := find()
	if errors.Is(err, store.ErrNotFound) {
		return repo.Insert(ctx, doc)
	}
	if err != nil {
		return err
	}
	b, cb := any(doc).(models.Entity).Base(), any(cur).(models.Entity).Base()
	b.ID, b.Version, b.CreatedAt = cb.ID, cb.Version, cb.CreatedAt
	return repo.Replace(ctx, doc)
}

// Many validates every item before inserting any, so a bad item fails the
// collection without a partial write.
func Many[T any](key string, repo store.Repository[T], public store.Filter) Collection {
	return &manyCollection[T]{repoCollection: repoCollection[T]{key: key, repo: repo}, public: public}
}

type manyCollection[T any] struct {
	repoCollection[T]
	public store.Filter
}

func (c *manyCollection[T]) Frontend(ctx context.Context) ([]any, error) {
	docs, err := exportAll(ctx, c.repo, c.public)
	if err != nil {
		return nil, err
	}
	return stripped(docs)
}

func (c *manyCollection[T]) Import(ctx context.Context, items []json.RawMessage) (int, []string, error) {
	docs := make([]*T, 0, len(items))
	for i, raw := range items {
		doc, err := decodeItem[T](raw)
		if err != nil {
			return 0, nil, fmt.Errorf("item %d: %w", i, err)
		}
		if err := models.Validate(doc); err != nil {
			return 0, nil, fmt.Errorf("item %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	if err := c.repo.InsertMany(ctx, docs); err != nil {
		return 0, nil, err
	}
	return len(docs), nil, nil
}

// Blogs upserts each post by slug; one bad post does not stop the others.
func Blogs(repo store.Repository[models.Blog]) Collection {
	return &blogCollection{repoCollection: repoCollection[models.Blog]{key: "blogs", repo: repo}}
}

type blogCollection struct {
	repoCollection[models.Blog]
}

func (c *blogCollection) Frontend(ctx context.Context) ([]any, error) {
	docs, err := exportAll(ctx, c.repo, store.Filter{"published": true})
	if err != nil {
		return nil, err
	}
	return stripped(docs)
}

func (c *blogCollection) Import(ctx context.Context, items []json.RawMessage) (int, []string, error) {
	imported := 0
	var failures []string
	written := map[string]bool{}
	for i, raw := range items {
		if err := c.importOne(ctx, raw, written); err != nil {
			failures = append(failures, fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		imported++
	}
	return imported, failures, nil
}

// importOne upserts a post over the stored one with the same slug. A slug
// already written by an earlier item of the same bundle is a duplicate.
func (c *blogCollection) importOne(ctx context.Context, raw json.RawMessage, written map[string]bool) error {
	doc, err := decodeItem[models.Blog](raw)
	if err != nil {
		return err
	}
	content.PrepareBlog(doc, nil, nil)
	if err := models.Validate(doc); err != nil {
		return err
	}
	if doc.Slug == "" {
		return models.NewValidationError("Blog", "slug", "cannot be derived from an empty title")
	}
	if written[doc.Slug] {
		return fmt.Errorf("slug %q: %w", doc.Slug, store.ErrDuplicate)
	}
	if err := upsertOver(ctx, c.repo, doc, func() (*models.Blog, error) {
		return c.repo.FindOne(ctx, store.Filter{"slug": doc.Slug})
	}); err != nil {
		return fmt.Errorf("slug %q: %w", doc.Slug, err)
	}
	written[doc.Slug] = true
	return nil
}

// Process replaces the process document with the first item.
func Process(repo store.Repository[models.ProcessContent]) Collection {
	return &processCollection{
		singletonCollection: singletonCollection[models.ProcessContent]{
			repoCollection: repoCollection[models.ProcessContent]{key: "process", repo: repo},
			def:            models.DefaultProcess,
		},
	}
}

type processCollection struct {
	singletonCollection[models.ProcessContent]
}

func (c *processCollection) Import(ctx context.Context, items []json.RawMessage) (int, []string, error) {
	if len(items) == 0 {
		return 0, nil, nil
	}
	doc, err := decodeItem[models.ProcessContent](items[0])
	if err != nil {
		return 0, nil, fmt.Errorf("item 0: %w", err)
	}
	content.SortSteps(doc)
	if err := models.Validate(doc); err != nil {
		return 0, nil, fmt.Errorf("item 0: %w", err)
	}
	if _, err := c.repo.DeleteAll(ctx); err != nil {
		return 0, nil, err
	}
	if err := c.repo.Insert(ctx, doc); err != nil {
		return 0, nil, err
	}
	return 1, nil, nil
}
