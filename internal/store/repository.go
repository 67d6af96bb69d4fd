// Package store persists content documents. Repository is the narrow
// interface the rest of the service talks to; Mongo is the production
// implementation and Memory backs tests and local development.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/folio/folio/backend/api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
	ErrConflict  = errors.New("document was modified by another request")
)

// Filter is an equality filter on stored (bson) field names.
type Filter map[string]any

// ListOptions selects a page of documents, newest first.
type ListOptions struct {
	Filter Filter
	Page   int64 // 1-based
	Limit  int64 // 0 means no limit
}

// Repository is the persistence contract for one collection of T.
// T must embed models.Meta.
type Repository[T any] interface {
	Name() string
	Insert(ctx context.Context, doc *T) error
	InsertMany(ctx context.Context, docs []*T) error
	Get(ctx context.Context, id primitive.ObjectID) (*T, error)
	// FindOne returns the oldest document matching f.
	FindOne(ctx context.Context, f Filter) (*T, error)
	List(ctx context.Context, opts ListOptions) ([]*T, int64, error)
	// Replace overwrites doc by _id if its version still matches the stored
	// one, then bumps the version.
	Replace(ctx context.Context, doc *T) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context, f Filter) (int64, error)
	// EnsureDefault returns the collection's oldest document, inserting def
	// first when the collection is empty.
	EnsureDefault(ctx context.Context, def *T) (*T, error)
}

// Option configures a repository.
type Option func(*repoOptions)

type repoOptions struct {
	unique []string
}

// Unique declares fields whose values must be distinct across the collection.
func Unique(fields ...string) Option {
	return func(o *repoOptions) { o.unique = append(o.unique, fields...) }
}

func buildOptions(opts []Option) repoOptions {
	var o repoOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func base[T any](doc *T) *models.Meta {
	e, ok := any(doc).(models.Entity)
	if !ok {
		panic(fmt.Sprintf("store: %T does not embed models.Meta", doc))
	}
	return e.Base()
}

// ParseID converts a hex id from a URL into an ObjectID; malformed ids are
// reported as not found.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return id, nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
