// Package content implements the read/write rules for every resource the
// site renders: lazily created singletons, paginated collections that own an
// uploaded image, and the process page.
package content

import (
	"context"
	"encoding/json"

	"github.com/folio/folio/backend/api/internal/models"
	"github.com/folio/folio/backend/api/internal/store"
)

// Singleton serves a collection that holds at most one live document.
type Singleton[T any] struct {
	repo store.Repository[T]
	def  func() *T
}

func NewSingleton[T any](repo store.Repository[T], def func() *T) *Singleton[T] {
	return &Singleton[T]{repo: repo, def: def}
}

// Get returns the live document, creating it from the default on first use.
func (s *Singleton[T]) Get(ctx context.Context) (*T, error) {
	return s.repo.EnsureDefault(ctx, s.def())
}

// Update overlays patch on the live document. Top-level keys replace the
// stored value wholesale. A concurrent update yields store.ErrConflict.
func (s *Singleton[T]) Update(ctx context.Context, patch map[string]json.RawMessage) (*T, error) {
	doc, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := models.MergeShallow(doc, patch); err != nil {
		return nil, models.NewValidationError(modelName(doc), "body", err.Error())
	}
	if err := models.Validate(doc); err != nil {
		return nil, err
	}
	if err := s.repo.Replace(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
