package portability

import (
	"github.com/folio/folio/backend/api/internal/database"
	"github.com/folio/folio/backend/api/internal/models"
	"github.com/folio/folio/backend/api/internal/store"
)

// ForRepositories binds every bundle key to its repository.
func ForRepositories(r *database.Repositories) *Service {
	return NewService(
		Singleton("about", r.About, models.DefaultAbout),
		Singleton("home", r.Home, models.DefaultHome),
		Singleton("resume", r.Resume, models.DefaultResume),
		Singleton("contact", r.Contact, models.DefaultContact),
		Singleton("generalDetails", r.GeneralDetails, models.DefaultGeneralDetails),
		Many("portfolio", r.Portfolio, nil),
		Many("services", r.Services, store.Filter{"active": true}),
		Blogs(r.Blogs),
		Process(r.Process),
	)
}
