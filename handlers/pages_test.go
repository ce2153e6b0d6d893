package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogotex/blog/internal/post/repository"
	"github.com/gogotex/blog/internal/post/service"
	"github.com/gogotex/blog/internal/post/source"
	"github.com/gogotex/blog/internal/site"
)

func newPagesRouter(t *testing.T) *gin.Engine {
	t.Helper()
	src := source.NewStatic(map[string]string{
		"caching.md": "---\ntitle: Introduction to Caching\ndate: 2024-01-10\ntags: [performance]\n---\n# Caching\n\nA cache stores results.",
		"purge.md":   "---\ntitle: Cache invalidation\ndate: 2023-06-01\ntags: [performance]\n---\nTTLs and purges.",
		"broken.md":  "---\ntags:\n  nested: map\n---\nbody",
	})
	r, err := site.New(site.Meta{Title: "Test Blog"}, site.ServerLinks)
	require.NoError(t, err)
	g := gin.New()
	RegisterPageRoutes(g, NewPages(service.New(repository.New(src), service.Options{}), r, 1))
	return g
}

func TestIndexPage(t *testing.T) {
	g := newPagesRouter(t)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	body := w.Body.String()
	assert.Contains(t, body, "Introduction to Caching")
	assert.Contains(t, body, "Cache invalidation")
	assert.Contains(t, body, "Featured")
}

func TestIndexPageSearch(t *testing.T) {
	g := newPagesRouter(t)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/?q=zzxq919", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No posts match your search.")
}

func TestPostPage(t *testing.T) {
	g := newPagesRouter(t)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts/caching", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<h1 id="caching">Caching</h1>`)
	assert.Contains(t, body, "Related posts")
	assert.Contains(t, body, `href="/posts/purge"`)
}

func TestPostPageNotFound(t *testing.T) {
	g := newPagesRouter(t)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Post not found")
	assert.Contains(t, w.Body.String(), `href="/"`)
}

func TestPostPageUnparsable(t *testing.T) {
	g := newPagesRouter(t)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/posts/broken", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Post unavailable")
	assert.Contains(t, w.Body.String(), `href="/"`)
}
