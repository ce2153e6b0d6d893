// Package site renders the blog's HTML pages. The same templates back the
// server's pages and blogctl's static export.
package site

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/gogotex/blog/internal/post"
)

//go:embed templates/*.html
var templateFS embed.FS

// Meta is the site-wide data every page sees.
type Meta struct {
	Title       string
	Description string
	// Home is the listing URL.
	Home string
}

// IndexPage is the listing page: all posts or search results.
type IndexPage struct {
	Site       Meta
	Query      string
	Searchable bool
	Posts      []post.Post
	Featured   []post.Post
	Tags       []string
}

// PostPage is a single post with its rendered body.
type PostPage struct {
	Site    Meta
	Post    post.Post
	HTML    template.HTML
	Related []post.Post
}

// NotFoundPage is shown for unknown post ids, and for posts whose source
// cannot be parsed when Broken is set.
type NotFoundPage struct {
	Site   Meta
	ID     string
	Broken bool
}

// Links controls how post URLs are written.
type Links struct {
	// PostPrefix and PostSuffix surround the escaped id.
	PostPrefix string
	PostSuffix string
}

// ServerLinks are the URLs served by the HTTP server.
var ServerLinks = Links{PostPrefix: "/posts/"}

// StaticLinks are the URLs of a static export, one directory per post.
var StaticLinks = Links{PostPrefix: "/posts/", PostSuffix: "/"}

// Renderer executes the page templates.
type Renderer struct {
	meta  Meta
	pages map[string]*template.Template
}

// New parses the embedded templates.
func New(meta Meta, links Links) (*Renderer, error) {
	if meta.Home == "" {
		meta.Home = "/"
	}
	funcs := template.FuncMap{
		"postURL": func(id string) string {
			return links.PostPrefix + url.PathEscape(id) + links.PostSuffix
		},
		"displayDate": displayDate,
	}
	r := &Renderer{meta: meta, pages: map[string]*template.Template{}}
	for _, page := range []string{"index", "post", "notfound"} {
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Meta returns the site metadata pages are rendered with.
func (r *Renderer) Meta() Meta { return r.meta }

func (r *Renderer) Index(w io.Writer, p IndexPage) error {
	p.Site = r.meta
	return r.pages["index"].ExecuteTemplate(w, "layout", p)
}

func (r *Renderer) Post(w io.Writer, p PostPage) error {
	p.Site = r.meta
	return r.pages["post"].ExecuteTemplate(w, "layout", p)
}

func (r *Renderer) NotFound(w io.Writer, id string) error {
	return r.pages["notfound"].ExecuteTemplate(w, "layout", NotFoundPage{Site: r.meta, ID: id})
}

// Unavailable renders the page for a post that exists but cannot be parsed.
func (r *Renderer) Unavailable(w io.Writer, id string) error {
	return r.pages["notfound"].ExecuteTemplate(w, "layout", NotFoundPage{Site: r.meta, ID: id, Broken: true})
}

// displayDate shows the parsed date in long form, or the raw value when it
// could not be parsed.
func displayDate(p post.Post) string {
	if p.PublishedAt.IsZero() {
		return p.Date
	}
	return p.PublishedAt.Format("January 2, 2006")
}
