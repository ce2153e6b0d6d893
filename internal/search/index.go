package search

import (
	"sort"
	"strings"

	"github.com/gogotex/blog/internal/post"
)

// DefaultThreshold is the worst fuzzy score still counted as a match.
const DefaultThreshold = 0.4

// Options tunes an Index.
type Options struct {
	// Threshold is the inclusive score cut-off in (0, 1]. Zero or less
	// selects DefaultThreshold.
	Threshold float64

	// Limit caps the number of results of a non-empty query. Zero means
	// unlimited.
	Limit int
}

func (o Options) withDefaults() Options {
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.Threshold > 1 {
		o.Threshold = 1
	}
	if o.Limit < 0 {
		o.Limit = 0
	}
	return o
}

type entry struct {
	post   post.Post
	fields [3]string
}

// Index is a read-only fuzzy index over a post collection.
type Index struct {
	opts        Options
	entries     []entry
	fingerprint string
}

// Build indexes posts with default options.
func Build(posts []post.Post) *Index {
	return NewIndex(posts, Options{})
}

// NewIndex indexes the title, description and content of posts. The
// collection order is kept for empty queries and ties.
func NewIndex(posts []post.Post, opts Options) *Index {
	idx := &Index{
		opts:        opts.withDefaults(),
		entries:     make([]entry, len(posts)),
		fingerprint: Fingerprint(posts),
	}
	for i, p := range posts {
		idx.entries[i] = entry{
			post:   p.Clone(),
			fields: [3]string{normalise(p.Title), normalise(p.Description), normalise(p.Content)},
		}
	}
	return idx
}

// Len is the number of indexed posts.
func (idx *Index) Len() int { return len(idx.entries) }

// Fingerprint identifies the indexed collection.
func (idx *Index) Fingerprint() string { return idx.fingerprint }

// Search returns the posts matching query, best first. An empty or
// whitespace-only query returns the whole collection in its original order.
func (idx *Index) Search(query string) []post.Post {
	return idx.SearchWithScores(query).Posts()
}

// SearchWithScores is Search with the fuzzy score of each hit.
func (idx *Index) SearchWithScores(query string) Results {
	q := normalise(query)
	if q == "" {
		out := make(Results, len(idx.entries))
		for i, e := range idx.entries {
			out[i] = Result{Post: e.post.Clone(), ScoreType: ScoreFuzzy}
		}
		return out
	}
	tokens := strings.Split(q, " ")

	out := Results{}
	for _, e := range idx.entries {
		best := 1.0
		for _, f := range e.fields {
			if s := fieldScore(q, tokens, f); s < best {
				best = s
			}
			if best == 0 {
				break
			}
		}
		if best <= idx.opts.Threshold {
			out = append(out, Result{Post: e.post, Score: best, ScoreType: ScoreFuzzy})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	if idx.opts.Limit > 0 && len(out) > idx.opts.Limit {
		out = out[:idx.opts.Limit]
	}
	for i := range out {
		out[i].Post = out[i].Post.Clone()
	}
	return out
}
