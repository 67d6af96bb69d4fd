// Package handler exposes the content services over HTTP.
package handler

import (
	"net/http"
	"strconv"

	"github.com/folio/folio/backend/api/internal/content"
	"github.com/folio/folio/backend/api/internal/models"
	"github.com/gin-gonic/gin"
)

// Services is every content service the routes dispatch to.
type Services struct {
	About          *content.Singleton[models.AboutContent]
	Home           *content.Singleton[models.HomeContent]
	Resume         *content.Singleton[models.ResumeContent]
	Contact        *content.Singleton[models.Contact]
	GeneralDetails *content.Singleton[models.GeneralDetails]
	Blogs          *content.Blogs
	Portfolio      *content.Collection[models.PortfolioItem]
	Services       *content.Collection[models.Service]
	Process        *content.Process
}

// RegisterContentRoutes mounts the content API on r. Reads are public;
// writes go through auth.
func RegisterContentRoutes(r gin.IRouter, s *Services, auth gin.HandlerFunc) {
	registerSingleton(r, "/about-content", s.About, auth)
	registerSingleton(r, "/home-content", s.Home, auth)
	registerSingleton(r, "/resume-content", s.Resume, auth)
	registerSingleton(r, "/contact", s.Contact, auth)
	registerSingleton(r, "/general-details", s.GeneralDetails, auth)

	r.GET("/blogs/slug/:slug", func(c *gin.Context) {
		b, err := s.Blogs.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	})
	registerCollection(r, "/blogs", s.Blogs.Collection, "coverImage", auth)
	registerCollection(r, "/portfolio", s.Portfolio, "image", auth)
	registerCollection(r, "/services", s.Services, "image", auth)

	registerProcess(r, "/process-content", s.Process, auth)
}

func registerSingleton[T any](r gin.IRouter, path string, svc *content.Singleton[T], auth gin.HandlerFunc) {
	r.GET(path, func(c *gin.Context) {
		doc, err := svc.Get(c.Request.Context())
		if err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	})

	r.PUT(path, auth, func(c *gin.Context) {
		patch, _, err := readBody[T](c, "")
		if err != nil {
			RespondError(c, err)
			return
		}
		doc, err := svc.Update(c.Request.Context(), patch)
		if err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	})
}

func registerCollection[T any](r gin.IRouter, path string, svc *content.Collection[T], fileField string, auth gin.HandlerFunc) {
	r.GET(path, func(c *gin.Context) {
		q := content.Query{
			Page:    queryInt(c, "page"),
			Limit:   queryInt(c, "limit"),
			Filters: map[string]string{},
		}
		for k, v := range c.Request.URL.Query() {
			if len(v) > 0 {
				q.Filters[k] = v[0]
			}
		}
		page, err := svc.List(c.Request.Context(), q)
		if err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	})

	r.GET(path+"/:id", func(c *gin.Context) {
		doc, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	})

	r.POST(path, auth, func(c *gin.Context) {
		patch, file, err := readBody[T](c, fileField)
		if err != nil {
			RespondError(c, err)
			return
		}
		doc, err := svc.Create(c.Request.Context(), patch, file)
		if err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, doc)
	})

	r.PUT(path+"/:id", auth, func(c *gin.Context) {
		patch, file, err := readBody[T](c, fileField)
		if err != nil {
			RespondError(c, err)
			return
		}
		doc, err := svc.Update(c.Request.Context(), c.Param("id"), patch, file)
		if err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	})

	r.DELETE(path+"/:id", auth, func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "deleted"})
	})
}

func registerProcess(r gin.IRouter, path string, svc *content.Process, auth gin.HandlerFunc) {
	r.GET(path, func(c *gin.Context) {
		doc, err := svc.Get(c.Request.Context())
		if err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	})

	r.POST(path, auth, func(c *gin.Context) {
		body, _, err := readBody[models.ProcessContent](c, "")
		if err != nil {
			RespondError(c, err)
			return
		}
		doc, err := svc.Replace(c.Request.Context(), body)
		if err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, doc)
	})

	r.PUT(path+"/:id", auth, func(c *gin.Context) {
		body, _, err := readBody[models.ProcessContent](c, "")
		if err != nil {
			RespondError(c, err)
			return
		}
		doc, err := svc.ReplaceByID(c.Request.Context(), c.Param("id"), body)
		if err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	})

	r.DELETE(path+"/:id", auth, func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "deleted"})
	})
}

// queryInt returns 0 for a missing or malformed value so the service applies
// its default.
func queryInt(c *gin.Context, key string) int64 {
	n, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
