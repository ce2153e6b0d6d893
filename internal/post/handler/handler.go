// Package handler exposes the blog service as a JSON API.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gogotex/blog/internal/post"
	"github.com/gogotex/blog/internal/post/repository"
	"github.com/gogotex/blog/internal/post/service"
	"github.com/gogotex/blog/internal/search"
	"github.com/gogotex/blog/pkg/logger"
)

// PostHandler serves /api/posts and friends.
type PostHandler struct {
	svc      service.Service
	featured int
}

// NewPostHandler returns a handler; featured <= 0 uses the repository default.
func NewPostHandler(svc service.Service, featured int) *PostHandler {
	if featured <= 0 {
		featured = repository.DefaultFeatured
	}
	return &PostHandler{svc: svc, featured: featured}
}

// RegisterPostRoutes registers the JSON API on r.
func RegisterPostRoutes(r gin.IRouter, h *PostHandler) {
	api := r.Group("/api")
	api.GET("/posts", h.ListPosts)
	api.GET("/posts/ids", h.ListIDs)
	api.GET("/posts/featured", h.ListFeatured)
	api.GET("/posts/:id", h.GetPost)
	api.GET("/posts/:id/related", h.ListRelated)
	api.GET("/tags", h.ListTags)
	api.POST("/reload", h.Reload)
}

// hit is a search result as returned by the API.
type hit struct {
	post.Post
	Score     float64          `json:"score"`
	ScoreType search.ScoreType `json:"scoreType"`
}

// ListPosts returns post summaries, or ranked search hits when q is set.
func (h *PostHandler) ListPosts(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		posts, err := h.svc.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summaries(posts))
		return
	}

	mode, err := service.ParseMode(c.Query("mode"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := h.svc.Search(c.Request.Context(), q, mode)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]hit, len(res))
	for i, r := range res {
		out[i] = hit{Post: r.Post.Summary(), Score: r.Score, ScoreType: r.ScoreType}
	}
	c.JSON(http.StatusOK, out)
}

func (h *PostHandler) ListIDs(c *gin.Context) {
	ids, err := h.svc.IDs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

// ListFeatured returns the newest posts; ?n= overrides the configured count.
func (h *PostHandler) ListFeatured(c *gin.Context) {
	n := h.featured
	if raw := c.Query("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
			return
		}
		n = v
	}
	posts, err := h.svc.Featured(c.Request.Context(), n)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries(posts))
}

// GetPost returns the full post with its rendered body.
func (h *PostHandler) GetPost(c *gin.Context) {
	p, html, err := h.svc.Render(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": p, "html": string(html)})
}

func (h *PostHandler) ListRelated(c *gin.Context) {
	posts, err := h.svc.Related(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries(posts))
}

func (h *PostHandler) ListTags(c *gin.Context) {
	tags, err := h.svc.Tags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

// Reload re-reads the post source and rebuilds the search indexes.
func (h *PostHandler) Reload(c *gin.Context) {
	n, err := h.svc.Reload(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": n})
}

func summaries(posts []post.Post) []post.Post {
	out := make([]post.Post, len(posts))
	for i, p := range posts {
		out[i] = p.Summary()
	}
	return out
}

func respondError(c *gin.Context, err error) {
	var perr *post.ParseError
	switch {
	case errors.Is(err, post.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": post.ErrNotFound.Error()})
	case errors.As(err, &perr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": perr.Error()})
	default:
		logger.Err(err, "request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
