package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/gogotex/blog/internal/post"
	"github.com/gogotex/blog/internal/post/source"
	"github.com/gogotex/blog/pkg/logger"
	"github.com/gogotex/blog/pkg/metrics"
)

// DefaultFeatured is how many posts Featured returns when asked for n <= 0.
const DefaultFeatured = 3

// Repository loads post sources once, parses them and serves the collection
// newest first. Reload discards the memoised collection.
type Repository struct {
	src source.Loader

	mu   sync.Mutex
	snap *snapshot
}

type snapshot struct {
	posts  []post.Post
	ids    []string
	byID   map[string]post.Post
	failed map[string]error
}

func New(src source.Loader) *Repository {
	return &Repository{src: src}
}

// List returns every parseable post sorted by date, newest first. Posts with
// equal or missing dates keep source order; missing dates sort last.
func (r *Repository) List(ctx context.Context) ([]post.Post, error) {
	s, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]post.Post, len(s.posts))
	for i, p := range s.posts {
		out[i] = p.Clone()
	}
	return out, nil
}

// IDs returns the id of every source, including ones that failed to parse.
func (r *Repository) IDs(ctx context.Context) ([]string, error) {
	s, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), s.ids...), nil
}

// Get returns the post with id, post.ErrNotFound when no source has that id
// or a *post.ParseError when the source exists but is malformed.
func (r *Repository) Get(ctx context.Context, id string) (post.Post, error) {
	s, err := r.load(ctx)
	if err != nil {
		return post.Post{}, err
	}
	if p, ok := s.byID[id]; ok {
		return p.Clone(), nil
	}
	if perr, ok := s.failed[id]; ok {
		return post.Post{}, perr
	}
	return post.Post{}, post.NotFound(id)
}

// Reload re-reads the source and returns the new collection. On failure the
// previous collection is kept.
func (r *Repository) Reload(ctx context.Context) ([]post.Post, error) {
	s, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.snap = s
	r.mu.Unlock()
	return r.List(ctx)
}

// Tags returns the distinct tags over the sorted collection in first-seen
// order.
func (r *Repository) Tags(ctx context.Context) ([]string, error) {
	s, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range s.posts {
		for _, t := range p.Tags {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out, nil
}

// Featured returns the n most recent posts.
func (r *Repository) Featured(ctx context.Context, n int) ([]post.Post, error) {
	if n <= 0 {
		n = DefaultFeatured
	}
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) > n {
		list = list[:n]
	}
	return list, nil
}

func (r *Repository) load(ctx context.Context) (*snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.snap != nil {
		return r.snap, nil
	}
	s, err := r.read(ctx)
	if err != nil {
		return nil, err
	}
	r.snap = s
	return s, nil
}

func (r *Repository) read(ctx context.Context) (*snapshot, error) {
	raws, err := r.src.Load(ctx)
	if err != nil {
		return nil, err
	}
	s := &snapshot{
		posts:  make([]post.Post, 0, len(raws)),
		ids:    make([]string, 0, len(raws)),
		byID:   make(map[string]post.Post, len(raws)),
		failed: make(map[string]error),
	}
	for _, raw := range raws {
		if _, dup := s.byID[raw.ID]; dup {
			logger.Warnf("duplicate post id %q ignored", raw.ID)
			continue
		}
		if _, dup := s.failed[raw.ID]; dup {
			logger.Warnf("duplicate post id %q ignored", raw.ID)
			continue
		}
		s.ids = append(s.ids, raw.ID)
		p, err := post.Parse(raw.ID, raw.Text)
		if err != nil {
			var perr *post.ParseError
			if !errors.As(err, &perr) {
				perr = &post.ParseError{ID: raw.ID, Err: err}
			}
			logger.Warnf("skipping post: %v", perr)
			metrics.PostParseFailures.Inc()
			s.failed[raw.ID] = perr
			continue
		}
		s.byID[raw.ID] = p
		s.posts = append(s.posts, p)
	}
	SortByDate(s.posts)
	metrics.PostsLoaded.Set(float64(len(s.posts)))
	return s, nil
}

// SortByDate orders posts newest first. The sort is stable, and posts
// without a parseable date go last.
func SortByDate(posts []post.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].PublishedAt, posts[j].PublishedAt
		switch {
		case a.IsZero():
			return false
		case b.IsZero():
			return true
		default:
			return a.After(b)
		}
	})
}
