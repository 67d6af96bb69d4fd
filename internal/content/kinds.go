package content

import (
	"context"
	"encoding/json"
	"time"

	"github.com/folio/folio/backend/api/internal/models"
	"github.com/folio/folio/backend/api/internal/store"
	"github.com/folio/folio/backend/api/internal/upload"
)

// Blogs serves blog posts; slugs are unique.
type Blogs struct {
	*Collection[models.Blog]
	repo store.Repository[models.Blog]
}

func NewBlogs(repo store.Repository[models.Blog], files *upload.Pipeline) *Blogs {
	return &Blogs{
		Collection: NewCollection(repo, files, Kind[models.Blog]{
			Folder:  "blogs",
			Filters: map[string]FilterKind{"category": StringFilter, "published": BoolFilter, "featured": BoolFilter},
			Image:   func(b *models.Blog) *string { return &b.CoverImage },
			Prepare: PrepareBlog,
		}),
		repo: repo,
	}
}

func (b *Blogs) GetBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	return b.repo.FindOne(ctx, store.Filter{"slug": slug})
}

// PrepareBlog derives the slug, first-publish time and read time of b.
func PrepareBlog(b, prev *models.Blog, patch map[string]json.RawMessage) {
	if b.Slug == "" {
		b.Slug = models.Slugify(b.Title)
	} else {
		b.Slug = models.Slugify(b.Slug)
	}
	if b.Published && b.PublishedAt == nil {
		t := time.Now().UTC().Truncate(time.Millisecond)
		b.PublishedAt = &t
	}
	_, contentChanged := patch["content"]
	_, readTimeGiven := patch["readTime"]
	if b.ReadTime == 0 || (prev != nil && contentChanged && !readTimeGiven) {
		b.ReadTime = models.ReadTime(b.Content)
	}
}

func NewPortfolio(repo store.Repository[models.PortfolioItem], files *upload.Pipeline) *Collection[models.PortfolioItem] {
	return NewCollection(repo, files, Kind[models.PortfolioItem]{
		Folder:  "portfolio",
		Filters: map[string]FilterKind{"category": StringFilter, "featured": BoolFilter},
		Image:   func(p *models.PortfolioItem) *string { return &p.Image },
	})
}

func NewServices(repo store.Repository[models.Service], files *upload.Pipeline) *Collection[models.Service] {
	return NewCollection(repo, files, Kind[models.Service]{
		Folder:  "services",
		Filters: map[string]FilterKind{"active": BoolFilter, "featured": BoolFilter},
		New:     func() *models.Service { return &models.Service{Active: true} },
		Image:   func(s *models.Service) *string { return &s.Image },
	})
}
