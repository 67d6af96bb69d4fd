package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/folio/folio/backend/api/internal/content"
	"github.com/folio/folio/backend/api/internal/models"
	"github.com/folio/folio/backend/api/internal/store"
	"github.com/folio/folio/backend/api/internal/upload"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopStorage struct{}

func (nopStorage) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	return "/uploads/" + key, nil
}
func (nopStorage) Delete(context.Context, string) error { return nil }

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	files := upload.NewPipeline(nopStorage{})
	s := &Services{
		About:          content.NewSingleton(store.NewMemory[models.AboutContent]("aboutcontents"), models.DefaultAbout),
		Home:           content.NewSingleton(store.NewMemory[models.HomeContent]("homecontents"), models.DefaultHome),
		Resume:         content.NewSingleton(store.NewMemory[models.ResumeContent]("resumecontents"), models.DefaultResume),
		Contact:        content.NewSingleton(store.NewMemory[models.Contact]("contacts"), models.DefaultContact),
		GeneralDetails: content.NewSingleton(store.NewMemory[models.GeneralDetails]("generaldetails"), models.DefaultGeneralDetails),
		Blogs:          content.NewBlogs(store.NewMemory[models.Blog]("blogs", store.Unique("slug")), files),
		Portfolio:      content.NewPortfolio(store.NewMemory[models.PortfolioItem]("portfolios"), files),
		Services:       content.NewServices(store.NewMemory[models.Service]("services"), files),
		Process:        content.NewProcess(store.NewMemory[models.ProcessContent]("processcontents")),
	}
	auth := func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer ok" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		c.Next()
	}
	r := gin.New()
	RegisterContentRoutes(r.Group("/api"), s, auth)
	return r
}

func do(r http.Handler, method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Authorization", "Bearer ok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSingletonRoutes(t *testing.T) {
	r := setupRouter(t)

	w := do(r, http.MethodGet, "/api/about-content", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var first map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = do(r, http.MethodPut, "/api/about-content", "application/json", strings.NewReader(`{"title":"Me","_id":"000000000000000000000001"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Me", updated["title"])
	assert.Equal(t, first["_id"], updated["_id"])

	w = do(r, http.MethodPut, "/api/about-content", "application/json", strings.NewReader(`[1]`))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPut, "/api/about-content", strings.NewReader(`{}`))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBlogRoutes(t *testing.T) {
	r := setupRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("title", "Go Generics")
	_ = mw.WriteField("content", "some words here")
	_ = mw.WriteField("tags", "go, generics")
	_ = mw.WriteField("published", "true")
	require.NoError(t, mw.Close())

	w := do(r, http.MethodPost, "/api/blogs", mw.FormDataContentType(), &buf)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Blog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "go-generics", created.Slug)
	assert.Equal(t, []string{"go", "generics"}, created.Tags)
	assert.True(t, created.Published)

	w = do(r, http.MethodPost, "/api/blogs", "application/json", strings.NewReader(`{"title":"Go generics!","content":"x"}`))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodGet, "/api/blogs/slug/go-generics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/blogs?published=true&page=1&limit=5", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Data       []models.Blog      `json:"data"`
		Pagination content.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Data, 1)
	assert.Equal(t, content.Pagination{Page: 1, Limit: 5, Total: 1, Pages: 1}, page.Pagination)

	w = do(r, http.MethodGet, "/api/blogs/not-an-id", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodDelete, "/api/blogs/"+created.ID.Hex(), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPortfolioValidationIs400(t *testing.T) {
	r := setupRouter(t)
	w := do(r, http.MethodPost, "/api/portfolio", "application/json", strings.NewReader(`{"title":"only title"}`))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "description")
}

func TestProcessRoutes(t *testing.T) {
	r := setupRouter(t)
	w := do(r, http.MethodPost, "/api/process-content", "application/json",
		strings.NewReader(`{"title":"Steps","steps":[{"order":2,"title":"two"},{"order":1,"title":"one"}]}`))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var doc models.ProcessContent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "one", doc.Steps[0].Title)

	w = do(r, http.MethodPut, "/api/process-content/000000000000000000000001", "application/json", strings.NewReader(`{"title":"x"}`))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFormPatch(t *testing.T) {
	patch, err := formPatch(map[string][]string{
		"title":        {"T"},
		"technologies": {`["go","mongo"]`},
		"featured":     {"true"},
		"order":        {"3"},
		"bogus":        {"x"},
	}, reflect.TypeOf(models.PortfolioItem{}))
	require.NoError(t, err)
	assert.JSONEq(t, `"T"`, string(patch["title"]))
	assert.JSONEq(t, `["go","mongo"]`, string(patch["technologies"]))
	assert.JSONEq(t, `true`, string(patch["featured"]))
	assert.JSONEq(t, `3`, string(patch["order"]))
	assert.NotContains(t, patch, "bogus")

	_, err = formPatch(map[string][]string{"order": {"three"}}, reflect.TypeOf(models.PortfolioItem{}))
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
}
