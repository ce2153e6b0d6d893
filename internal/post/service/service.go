package service

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/gogotex/blog/internal/post"
	"github.com/gogotex/blog/internal/post/repository"
	"github.com/gogotex/blog/internal/render"
	"github.com/gogotex/blog/internal/search"
	"github.com/gogotex/blog/pkg/logger"
	"github.com/gogotex/blog/pkg/metrics"
)

// Mode selects the search engine.
type Mode string

const (
	ModeFuzzy    Mode = "fuzzy"
	ModeFullText Mode = "fulltext"
)

// ParseMode maps a query parameter to a Mode; empty means fuzzy.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeFuzzy:
		return ModeFuzzy, nil
	case ModeFullText:
		return ModeFullText, nil
	}
	return "", fmt.Errorf("unknown search mode %q", s)
}

// RenderCache stores rendered post HTML. Implemented by cache.RedisCache.
type RenderCache interface {
	Key(id, content string) string
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, html string) error
}

// Service defines the blog operations used by the handler layer and blogctl.
type Service interface {
	Init(ctx context.Context) error
	Reload(ctx context.Context) (int, error)
	Ready() bool
	List(ctx context.Context) ([]post.Post, error)
	IDs(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (post.Post, error)
	Search(ctx context.Context, q string, mode Mode) (search.Results, error)
	Related(ctx context.Context, id string) ([]post.Post, error)
	Tags(ctx context.Context) ([]string, error)
	Featured(ctx context.Context, n int) ([]post.Post, error)
	Render(ctx context.Context, id string) (post.Post, template.HTML, error)
}

// Options configures a Service.
type Options struct {
	Search search.Options
	// Cache is optional; rendering works without it.
	Cache RenderCache
}

// New returns a Service over repo. Indexes are built by Init or lazily on
// first use.
func New(repo *repository.Repository, opts Options) Service {
	return &blogService{repo: repo, opts: opts, md: render.NewMarkdown()}
}

type indexes struct {
	fuzzy *search.Index
	full  *search.FullText
}

type blogService struct {
	repo *repository.Repository
	opts Options
	md   *render.Markdown

	mu  sync.RWMutex
	idx *indexes
}

func (s *blogService) Init(ctx context.Context) error {
	s.mu.RLock()
	ready := s.idx != nil
	s.mu.RUnlock()
	if ready {
		return nil
	}
	posts, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	return s.swap(posts)
}

// Reload re-reads the source and rebuilds the indexes unless the collection
// is unchanged. It returns the number of posts.
func (s *blogService) Reload(ctx context.Context) (int, error) {
	posts, err := s.repo.Reload(ctx)
	if err != nil {
		metrics.Reloads.WithLabelValues("error").Inc()
		return 0, err
	}
	s.mu.RLock()
	same := s.idx != nil && s.idx.fuzzy.Fingerprint() == search.Fingerprint(posts)
	s.mu.RUnlock()
	if same {
		metrics.Reloads.WithLabelValues("unchanged").Inc()
		logger.Debugf("reload: %d posts, collection unchanged", len(posts))
		return len(posts), nil
	}
	if err := s.swap(posts); err != nil {
		metrics.Reloads.WithLabelValues("error").Inc()
		return 0, err
	}
	metrics.Reloads.WithLabelValues("ok").Inc()
	logger.Infof("reload: indexed %d posts", len(posts))
	return len(posts), nil
}

func (s *blogService) swap(posts []post.Post) error {
	full, err := search.NewFullText(posts, s.opts.Search.Limit)
	if err != nil {
		return err
	}
	next := &indexes{fuzzy: search.NewIndex(posts, s.opts.Search), full: full}

	s.mu.Lock()
	prev := s.idx
	s.idx = next
	s.mu.Unlock()

	if prev != nil {
		if err := prev.full.Close(); err != nil {
			logger.Warnf("close previous full-text index: %v", err)
		}
	}
	return nil
}

func (s *blogService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx != nil
}

// withIndexes runs fn under the read lock so a concurrent swap cannot close
// the full-text index mid-query.
func (s *blogService) withIndexes(ctx context.Context, fn func(*indexes) error) error {
	if err := s.Init(ctx); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.idx)
}

func (s *blogService) List(ctx context.Context) ([]post.Post, error) {
	return s.repo.List(ctx)
}

func (s *blogService) IDs(ctx context.Context) ([]string, error) {
	return s.repo.IDs(ctx)
}

func (s *blogService) Get(ctx context.Context, id string) (post.Post, error) {
	return s.repo.Get(ctx, id)
}

func (s *blogService) Search(ctx context.Context, q string, mode Mode) (search.Results, error) {
	if mode == "" {
		mode = ModeFuzzy
	}
	start := time.Now()
	defer func() {
		metrics.SearchRequests.WithLabelValues(string(mode)).Inc()
		metrics.SearchDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())
	}()

	var out search.Results
	err := s.withIndexes(ctx, func(ix *indexes) error {
		switch mode {
		case ModeFuzzy:
			out = ix.fuzzy.SearchWithScores(q)
			return nil
		case ModeFullText:
			var err error
			out, err = ix.full.Search(q)
			return err
		}
		return fmt.Errorf("unknown search mode %q", mode)
	})
	return out, err
}

func (s *blogService) Related(ctx context.Context, id string) ([]post.Post, error) {
	var out search.Results
	err := s.withIndexes(ctx, func(ix *indexes) error {
		var err error
		out, err = ix.full.Related(id, search.DefaultRelated)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out.Posts(), nil
}

func (s *blogService) Tags(ctx context.Context) ([]string, error) {
	return s.repo.Tags(ctx)
}

func (s *blogService) Featured(ctx context.Context, n int) ([]post.Post, error) {
	return s.repo.Featured(ctx, n)
}

// Render returns the post with its body as HTML, served from the render
// cache when one is configured. Cache failures fall back to rendering.
func (s *blogService) Render(ctx context.Context, id string) (post.Post, template.HTML, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return post.Post{}, "", err
	}
	var key string
	if s.opts.Cache != nil {
		key = s.opts.Cache.Key(p.ID, p.Content)
		html, ok, err := s.opts.Cache.Get(ctx, key)
		switch {
		case err != nil:
			metrics.RenderCache.WithLabelValues("error").Inc()
			logger.Warnf("render cache get %s: %v", key, err)
		case ok:
			metrics.RenderCache.WithLabelValues("hit").Inc()
			return p, template.HTML(html), nil
		default:
			metrics.RenderCache.WithLabelValues("miss").Inc()
		}
	}
	html, err := s.md.HTML(p.Content)
	if err != nil {
		return post.Post{}, "", err
	}
	if s.opts.Cache != nil {
		if err := s.opts.Cache.Set(ctx, key, string(html)); err != nil {
			metrics.RenderCache.WithLabelValues("error").Inc()
			logger.Warnf("render cache set %s: %v", key, err)
		}
	}
	return p, html, nil
}
