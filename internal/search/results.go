package search

import "github.com/gogotex/blog/internal/post"

// ScoreType indicates the source of a search result's score.
type ScoreType string

const (
	// ScoreFuzzy is a normalised edit distance: 0 is best, 1 is worst.
	ScoreFuzzy ScoreType = "fuzzy"

	// ScoreBM25 is a Bleve relevance score: higher is better.
	ScoreBM25 ScoreType = "bm25"
)

// Result is one ranked post.
type Result struct {
	Post      post.Post
	Score     float64
	ScoreType ScoreType
}

// Results is a slice of Result with helper methods.
type Results []Result

// IDs returns the post ids in rank order.
func (r Results) IDs() []string {
	ids := make([]string, len(r))
	for i, result := range r {
		ids[i] = result.Post.ID
	}
	return ids
}

// Posts returns the posts in rank order.
func (r Results) Posts() []post.Post {
	posts := make([]post.Post, len(r))
	for i, result := range r {
		posts[i] = result.Post
	}
	return posts
}
