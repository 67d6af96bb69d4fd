package database

import (
	"context"

	"github.com/folio/folio/backend/api/internal/models"
	"github.com/folio/folio/backend/api/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names, shared with databases written by earlier versions of
// the site.
const (
	AboutCollection          = "aboutcontents"
	HomeCollection           = "homecontents"
	ResumeCollection         = "resumecontents"
	ContactCollection        = "contacts"
	GeneralDetailsCollection = "generaldetails"
	PortfolioCollection      = "portfolios"
	ServicesCollection       = "services"
	BlogsCollection          = "blogs"
	ProcessCollection        = "processcontents"
)

// Repositories is one repository per content collection.
type Repositories struct {
	About          store.Repository[models.AboutContent]
	Home           store.Repository[models.HomeContent]
	Resume         store.Repository[models.ResumeContent]
	Contact        store.Repository[models.Contact]
	GeneralDetails store.Repository[models.GeneralDetails]
	Portfolio      store.Repository[models.PortfolioItem]
	Services       store.Repository[models.Service]
	Blogs          store.Repository[models.Blog]
	Process        store.Repository[models.ProcessContent]
}

// MongoRepositories binds every collection of db and creates its indexes.
func MongoRepositories(ctx context.Context, db *mongo.Database) (*Repositories, error) {
	var firstErr error
	check := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	r := &Repositories{}
	var err error
	r.About, err = store.NewMongo[models.AboutContent](ctx, db.Collection(AboutCollection))
	check(err)
	r.Home, err = store.NewMongo[models.HomeContent](ctx, db.Collection(HomeCollection))
	check(err)
	r.Resume, err = store.NewMongo[models.ResumeContent](ctx, db.Collection(ResumeCollection))
	check(err)
	r.Contact, err = store.NewMongo[models.Contact](ctx, db.Collection(ContactCollection))
	check(err)
	r.GeneralDetails, err = store.NewMongo[models.GeneralDetails](ctx, db.Collection(GeneralDetailsCollection))
	check(err)
	r.Portfolio, err = store.NewMongo[models.PortfolioItem](ctx, db.Collection(PortfolioCollection))
	check(err)
	r.Services, err = store.NewMongo[models.Service](ctx, db.Collection(ServicesCollection))
	check(err)
	r.Blogs, err = store.NewMongo[models.Blog](ctx, db.Collection(BlogsCollection), store.Unique("slug"))
	check(err)
	r.Process, err = store.NewMongo[models.ProcessContent](ctx, db.Collection(ProcessCollection))
	check(err)
	if firstErr != nil {
		return nil, firstErr
	}
	return r, nil
}

// MemoryRepositories is the in-process fallback used when MONGODB_URI is unset.
func MemoryRepositories() *Repositories {
	return &Repositories{
		About:          store.NewMemory[models.AboutContent](AboutCollection),
		Home:           store.NewMemory[models.HomeContent](HomeCollection),
		Resume:         store.NewMemory[models.ResumeContent](ResumeCollection),
		Contact:        store.NewMemory[models.Contact](ContactCollection),
		GeneralDetails: store.NewMemory[models.GeneralDetails](GeneralDetailsCollection),
		Portfolio:      store.NewMemory[models.PortfolioItem](PortfolioCollection),
		Services:       store.NewMemory[models.Service](ServicesCollection),
		Blogs:          store.NewMemory[models.Blog](BlogsCollection, store.Unique("slug")),
		Process:        store.NewMemory[models.ProcessContent](ProcessCollection),
	}
}
