package site

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogotex/blog/internal/post"
)

func samplePosts() []post.Post {
	return []post.Post{
		{ID: "intro-to-caching", Title: "Introduction to Caching", Date: "2024-01-10", PublishedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Tags: []string{"performance"}, ReadingTime: 2},
		{ID: "untitled-note", Date: "someday"},
	}
}

func TestIndexPage(t *testing.T) {
	r, err := New(Meta{Title: "My Blog"}, ServerLinks)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Index(&buf, IndexPage{Searchable: true, Posts: samplePosts(), Featured: samplePosts()[:1], Tags: []string{"performance"}}))
	html := buf.String()
	assert.Contains(t, html, "<title>My Blog</title>")
	assert.Contains(t, html, `href="/posts/intro-to-caching"`)
	assert.Contains(t, html, "January 10, 2024")
	assert.Contains(t, html, "Untitled Note")
	assert.Contains(t, html, "someday")
	assert.Contains(t, html, "Featured")
	assert.Contains(t, html, `name="q"`)
}

func TestIndexPageSearchResults(t *testing.T) {
	r, err := New(Meta{Title: "My Blog"}, ServerLinks)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Index(&buf, IndexPage{Searchable: true, Query: "<zzxq919>"}))
	html := buf.String()
	assert.Contains(t, html, "No posts match your search.")
	assert.Contains(t, html, "&lt;zzxq919&gt;")
	assert.NotContains(t, html, "Featured")
}

func TestPostPage(t *testing.T) {
	r, err := New(Meta{Title: "My Blog"}, StaticLinks)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Post(&buf, PostPage{Post: samplePosts()[0], HTML: "<p>body</p>", Related: samplePosts()[1:]}))
	html := buf.String()
	assert.Contains(t, html, "<title>Introduction to Caching · My Blog</title>")
	assert.Contains(t, html, "<p>body</p>")
	assert.Contains(t, html, `href="/posts/untitled-note/"`)
	assert.Contains(t, html, "Back to all posts")
}

func TestNotFoundPage(t *testing.T) {
	r, err := New(Meta{Title: "My Blog"}, ServerLinks)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.NotFound(&buf, "missing"))
	assert.Contains(t, buf.String(), "Post not found")
	assert.Contains(t, buf.String(), `href="/"`)
}

func TestUnavailablePage(t *testing.T) {
	r, err := New(Meta{Title: "My Blog"}, ServerLinks)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Unavailable(&buf, "broken"))
	assert.Contains(t, buf.String(), "Post unavailable")
	assert.Contains(t, buf.String(), "broken")
	assert.NotContains(t, buf.String(), "Post not found")
	assert.Contains(t, buf.String(), `href="/"`)
}
