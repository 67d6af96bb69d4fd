package portability

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/folio/folio/backend/api/internal/database"
	"github.com/folio/folio/backend/api/internal/models"
	"github.com/folio/folio/backend/api/internal/store"
	"github.com/folio/folio/backend/api/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bundle(t *testing.T, data string) *IncomingBundle {
	t.Helper()
	var b IncomingBundle
	require.NoError(t, json.Unmarshal([]byte(`{"version":"1.0","exportedAt":"2024-01-01T00:00:00Z","data":`+data+`}`), &b))
	return &b
}

func hasPrefix(list []string, prefix string) bool {
	for _, s := range list {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func TestImport_PartialFailureNamesCollection(t *testing.T) {
	ctx := context.Background()
	repos := database.MemoryRepositories()
	svc := ForRepositories(repos)

	res := svc.Import(ctx, bundle(t, `{
		"about": [{"title":"About me","description":"hi"}],
		"portfolio": [{"title":"ok","description":"d"},{"title":"missing description"}],
		"services": [{"_id":"65a000000000000000000001","__v":4,"title":"Design","description":"d","active":true}],
		"widgets": [{}]
	}`), false)

	assert.True(t, hasPrefix(res.Failed, "portfolio: item 1"), res.Failed)
	assert.True(t, hasPrefix(res.Failed, "widgets: unknown collection"), res.Failed)
	assert.True(t, hasPrefix(res.Success, "about:"), res.Success)
	assert.True(t, hasPrefix(res.Success, "services:"), res.Success)

	n, _ := repos.Portfolio.Count(ctx, nil)
	assert.Zero(t, n, "an invalid item fails the whole collection")

	services, _, err := repos.Services.List(ctx, store.ListOptions{})
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.NotEqual(t, "65a000000000000000000001", services[0].ID.Hex(), "identity is reassigned")
	assert.Zero(t, services[0].Version)
}

func TestImport_BlogsIdempotentBySlug(t *testing.T) {
	ctx := context.Background()
	repos := database.MemoryRepositories()
	svc := ForRepositories(repos)
	b := bundle(t, `{"blogs":[
		{"title":"First Post","content":"hello"},
		{"title":"Second","slug":"second","content":"there","published":true},
		{"title":"","content":"no title"}
	]}`)

	first := svc.Import(ctx, b, false)
	assert.Equal(t, []string{"blogs: imported 2 of 3"}, first.Success)
	require.Len(t, first.Failed, 1)
	assert.Contains(t, first.Failed[0], "blogs: item 2")

	post, err := repos.Blogs.FindOne(ctx, store.Filter{"slug": "first-post"})
	require.NoError(t, err)

	svc.Import(ctx, b, false)
	n, err := repos.Blogs.Count(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	again, err := repos.Blogs.FindOne(ctx, store.Filter{"slug": "first-post"})
	require.NoError(t, err)
	assert.Equal(t, post.ID, again.ID)
}

func TestImport_BlogSlugRepeatedInBundleIsDuplicate(t *testing.T) {
	ctx := context.Background()
	repos := database.MemoryRepositories()
	svc := ForRepositories(repos)

	res := svc.Import(ctx, bundle(t, `{"blogs":[
		{"title":"Hello World","content":"first post"},
		{"title":"Hello, world!","content":"second different post"}
	]}`), false)
	assert.Equal(t, []string{"blogs: imported 1 of 2"}, res.Success)
	require.Len(t, res.Failed, 1)
	assert.Contains(t, res.Failed[0], `blogs: item 1: slug "hello-world"`)
	assert.Contains(t, res.Failed[0], store.ErrDuplicate.Error())

	n, err := repos.Blogs.Count(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	kept, err := repos.Blogs.FindOne(ctx, store.Filter{"slug": "hello-world"})
	require.NoError(t, err)
	assert.Equal(t, "first post", kept.Content)
}

func TestImport_NonArrayCollectionFailsAlone(t *testing.T) {
	ctx := context.Background()
	repos := database.MemoryRepositories()
	svc := ForRepositories(repos)
	before := testutil.ToFloat64(metrics.ImportItems.WithLabelValues("about", "failed"))

	res := svc.Import(ctx, bundle(t, `{
		"about": {"title":"x"},
		"portfolio": [{"title":"ok","description":"d"}]
	}`), false)
	assert.Equal(t, []string{"about: expected an array of documents"}, res.Failed)
	assert.Equal(t, []string{"portfolio: imported 1 of 1"}, res.Success)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ImportItems.WithLabelValues("about", "failed")))

	n, err := repos.Portfolio.Count(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestImport_SingletonReplacesLiveDocument(t *testing.T) {
	ctx := context.Background()
	repos := database.MemoryRepositories()
	svc := ForRepositories(repos)

	live, err := repos.GeneralDetails.EnsureDefault(ctx, models.DefaultGeneralDetails())
	require.NoError(t, err)

	res := svc.Import(ctx, bundle(t, `{"generalDetails":[{"siteName":"Imported","email":"me@example.com"}]}`), false)
	require.Empty(t, res.Failed)

	n, _ := repos.GeneralDetails.Count(ctx, nil)
	assert.EqualValues(t, 1, n)
	got, err := repos.GeneralDetails.FindOne(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, live.ID, got.ID)
	assert.Equal(t, "Imported", got.SiteName)
}

func TestImport_ClearExisting(t *testing.T) {
	ctx := context.Background()
	repos := database.MemoryRepositories()
	svc := ForRepositories(repos)
	require.NoError(t, repos.Portfolio.Insert(ctx, &models.PortfolioItem{Title: "old", Description: "d"}))

	res := svc.Import(ctx, bundle(t, `{"process":[{"title":"P","steps":[{"order":2,"title":"b"},{"order":1,"title":"a"}]}]}`), true)
	assert.Empty(t, res.Failed)

	n, _ := repos.Portfolio.Count(ctx, nil)
	assert.Zero(t, n)
	p, err := repos.Process.FindOne(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "a", p.Steps[0].Title)
}

type failingClear struct {
	Collection
}

func (failingClear) Clear(context.Context) (int64, error) { return 0, errors.New("permission denied") }

func TestImport_ClearFailureIsRecordedAndImportContinues(t *testing.T) {
	ctx := context.Background()
	repos := database.MemoryRepositories()
	svc := NewService(
		failingClear{Many("portfolio", repos.Portfolio, nil)},
		Many("services", repos.Services, nil),
	)
	res := svc.Import(ctx, bundle(t, `{"services":[{"title":"s","description":"d"}]}`), true)
	assert.Equal(t, []string{"portfolio: clear failed: permission denied"}, res.Failed)
	assert.Equal(t, []string{"services: imported 1 of 1"}, res.Success)
}

func TestExportRoundTripAndSummary(t *testing.T) {
	ctx := context.Background()
	src := database.MemoryRepositories()
	require.NoError(t, src.Blogs.Insert(ctx, &models.Blog{Title: "Draft", Slug: "draft", Content: "x"}))
	require.NoError(t, src.Blogs.Insert(ctx, &models.Blog{Title: "Live", Slug: "live", Content: "x", Published: true}))
	require.NoError(t, src.Services.Insert(ctx, &models.Service{Title: "Hidden", Description: "d"}))

	exported, err := ForRepositories(src).Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, BundleVersion, exported.Version)
	assert.Len(t, exported.Data, 9)
	assert.Len(t, exported.Data["blogs"], 2)

	raw, err := json.Marshal(exported)
	require.NoError(t, err)
	var in IncomingBundle
	require.NoError(t, json.Unmarshal(raw, &in))

	dst := database.MemoryRepositories()
	res := ForRepositories(dst).Import(ctx, &in, false)
	assert.Empty(t, res.Failed)

	summary, err := ForRepositories(dst).Summary(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary["blogs"])
	assert.EqualValues(t, 1, summary["services"])
	assert.EqualValues(t, 0, summary["about"])
}

func TestExportFrontend_PublicSubsetWithoutIdentity(t *testing.T) {
	ctx := context.Background()
	repos := database.MemoryRepositories()
	require.NoError(t, repos.Blogs.Insert(ctx, &models.Blog{Title: "Draft", Slug: "draft", Content: "x"}))
	require.NoError(t, repos.Blogs.Insert(ctx, &models.Blog{Title: "Live", Slug: "live", Content: "x", Published: true}))
	require.NoError(t, repos.Services.Insert(ctx, &models.Service{Title: "Off", Description: "d"}))

	b, err := ForRepositories(repos).ExportFrontend(ctx)
	require.NoError(t, err)
	require.Len(t, b.Data["blogs"], 1)
	assert.Empty(t, b.Data["services"])
	require.Len(t, b.Data["about"], 1, "defaults stand in for missing singletons")

	out, err := json.Marshal(b.Data["blogs"][0])
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"_id"`)
	assert.NotContains(t, string(out), `"__v"`)
	assert.Contains(t, string(out), `"slug":"live"`)
}
