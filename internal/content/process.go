package content

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/folio/folio/backend/api/internal/models"
	"github.com/folio/folio/backend/api/internal/store"
)

// Process serves the process page. A full update replaces the document, so
// its id changes on every write.
type Process struct {
	repo store.Repository[models.ProcessContent]
}

func NewProcess(repo store.Repository[models.ProcessContent]) *Process {
	return &Process{repo: repo}
}

func (p *Process) Get(ctx context.Context) (*models.ProcessContent, error) {
	return p.repo.EnsureDefault(ctx, models.DefaultProcess())
}

// Replace discards whatever is stored and inserts body as the new document.
func (p *Process) Replace(ctx context.Context, body map[string]json.RawMessage) (*models.ProcessContent, error) {
	doc := &models.ProcessContent{}
	if err := models.MergeShallow(doc, body); err != nil {
		return nil, models.NewValidationError("ProcessContent", "body", err.Error())
	}
	SortSteps(doc)
	if err := models.Validate(doc); err != nil {
		return nil, err
	}
	if _, err := p.repo.DeleteAll(ctx); err != nil {
		return nil, err
	}
	if err := p.repo.Insert(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ReplaceByID is Replace guarded by id naming the live document.
func (p *Process) ReplaceByID(ctx context.Context, id string, body map[string]json.RawMessage) (*models.ProcessContent, error) {
	oid, err := store.ParseID(id)
	if err != nil {
		return nil, err
	}
	cur, err := p.repo.FindOne(ctx, nil)
	if err != nil {
		return nil, err
	}
	if cur.ID != oid {
		return nil, store.ErrNotFound
	}
	return p.Replace(ctx, body)
}

func (p *Process) Delete(ctx context.Context, id string) error {
	oid, err := store.ParseID(id)
	if err != nil {
		return err
	}
	return p.repo.Delete(ctx, oid)
}

// SortSteps orders steps by their order field, keeping ties in input order.
func SortSteps(doc *models.ProcessContent) {
	sort.SliceStable(doc.Steps, func(i, j int) bool { return doc.Steps[i].Order < doc.Steps[j].Order })
}
