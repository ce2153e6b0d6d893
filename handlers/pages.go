package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gogotex/blog/internal/post"
	"github.com/gogotex/blog/internal/post/service"
	"github.com/gogotex/blog/internal/site"
	"github.com/gogotex/blog/pkg/logger"
)

// Pages serves the HTML listing and post pages.
type Pages struct {
	svc      service.Service
	site     *site.Renderer
	featured int
}

func NewPages(svc service.Service, r *site.Renderer, featured int) *Pages {
	return &Pages{svc: svc, site: r, featured: featured}
}

// RegisterPageRoutes registers
// - GET /            listing, or search results when ?q= is set
// - GET /posts/:id   a single post; unknown ids render the 404 page
func RegisterPageRoutes(r gin.IRouter, p *Pages) {
	r.GET("/", p.Index)
	r.GET("/posts/:id", p.Post)
}

func (p *Pages) Index(c *gin.Context) {
	ctx := c.Request.Context()
	data := site.IndexPage{Searchable: true, Query: c.Query("q")}

	if data.Query != "" {
		mode, err := service.ParseMode(c.Query("mode"))
		if err != nil {
			mode = service.ModeFuzzy
		}
		res, err := p.svc.Search(ctx, data.Query, mode)
		if err != nil {
			p.fail(c, err)
			return
		}
		data.Posts = res.Posts()
	} else {
		var err error
		if data.Posts, err = p.svc.List(ctx); err != nil {
			p.fail(c, err)
			return
		}
		if data.Featured, err = p.svc.Featured(ctx, p.featured); err != nil {
			p.fail(c, err)
			return
		}
		if data.Tags, err = p.svc.Tags(ctx); err != nil {
			p.fail(c, err)
			return
		}
	}

	var buf bytes.Buffer
	if err := p.site.Index(&buf, data); err != nil {
		p.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (p *Pages) Post(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	pp, html, err := p.svc.Render(ctx, id)
	var perr *post.ParseError
	switch {
	case errors.Is(err, post.ErrNotFound):
		p.missing(c, http.StatusNotFound, id, p.site.NotFound)
		return
	case errors.As(err, &perr):
		logger.Warnf("post page %s: %v", id, perr)
		p.missing(c, http.StatusUnprocessableEntity, id, p.site.Unavailable)
		return
	case err != nil:
		p.fail(c, err)
		return
	}
	related, err := p.svc.Related(ctx, id)
	if err != nil {
		logger.Warnf("related posts for %s: %v", id, err)
	}

	var buf bytes.Buffer
	if err := p.site.Post(&buf, site.PostPage{Post: pp, HTML: html, Related: related}); err != nil {
		p.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// missing writes the not-found style page rendered by page with status.
func (p *Pages) missing(c *gin.Context, status int, id string, page func(io.Writer, string) error) {
	var buf bytes.Buffer
	if err := page(&buf, id); err != nil {
		p.fail(c, err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (p *Pages) fail(c *gin.Context, err error) {
	logger.Err(err, "render page")
	c.String(http.StatusInternalServerError, "internal server error")
}
