package search

import (
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"golang.org/x/text/cases"

	"github.com/gogotex/blog/internal/post"
)

// Field boosts for full-text queries.
const (
	TitleBoost       = 3.0
	DescriptionBoost = 2.0
	ContentBoost     = 1.0
	TagsBoost        = 2.0
)

// DefaultRelated is how many related posts are returned when asked for n <= 0.
const DefaultRelated = 5

// FullText is a Bleve in-memory index over a post collection.
type FullText struct {
	idx   bleve.Index
	posts []post.Post
	byID  map[string]int
	limit int
}

func buildMapping() mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()
	text.Analyzer = standard.Name
	text.Store = false

	tags := bleve.NewTextFieldMapping()
	tags.Analyzer = keyword.Name
	tags.Store = false

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("title", text)
	doc.AddFieldMappingsAt("description", text)
	doc.AddFieldMappingsAt("content", text)
	doc.AddFieldMappingsAt("tags", tags)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	m.DefaultAnalyzer = standard.Name
	return m
}

// NewFullText indexes posts. limit caps query results; zero means unlimited.
func NewFullText(posts []post.Post, limit int) (*FullText, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("create full-text index: %w", err)
	}
	ft := &FullText{
		idx:   idx,
		posts: make([]post.Post, len(posts)),
		byID:  make(map[string]int, len(posts)),
		limit: limit,
	}
	batch := idx.NewBatch()
	for i, p := range posts {
		ft.posts[i] = p.Clone()
		ft.byID[p.ID] = i
		doc := map[string]interface{}{
			"title":       p.Title,
			"description": p.Description,
			"content":     p.Content,
			"tags":        foldAll(p.Tags),
		}
		if err := batch.Index(p.ID, doc); err != nil {
			idx.Close()
			return nil, fmt.Errorf("index post %q: %w", p.ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return nil, fmt.Errorf("index posts: %w", err)
	}
	return ft, nil
}

// Close releases the underlying index.
func (ft *FullText) Close() error {
	return ft.idx.Close()
}

// Search ranks posts by relevance to q, score descending then id ascending.
// An empty query returns the collection in its original order.
func (ft *FullText) Search(q string) (Results, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		out := make(Results, len(ft.posts))
		for i, p := range ft.posts {
			out[i] = Result{Post: p.Clone(), ScoreType: ScoreBM25}
		}
		return out, nil
	}

	fields := []struct {
		name  string
		boost float64
	}{
		{"title", TitleBoost},
		{"description", DescriptionBoost},
		{"content", ContentBoost},
	}
	var queries []query.Query
	for _, f := range fields {
		mq := bleve.NewMatchQuery(q)
		mq.SetField(f.name)
		mq.SetBoost(f.boost)
		queries = append(queries, mq)
	}
	tq := bleve.NewTermQuery(cases.Fold().String(q))
	tq.SetField("tags")
	tq.SetBoost(TagsBoost)
	queries = append(queries, tq)

	return ft.run(bleve.NewDisjunctionQuery(queries...), ft.size(ft.limit), "")
}

// Related returns up to n posts sharing at least one tag with the post id,
// most shared tags first. The post itself is never included.
func (ft *FullText) Related(id string, n int) (Results, error) {
	i, ok := ft.byID[id]
	if !ok {
		return nil, post.NotFound(id)
	}
	if n <= 0 {
		n = DefaultRelated
	}
	tags := foldAll(ft.posts[i].Tags)
	if len(tags) == 0 {
		return Results{}, nil
	}
	var queries []query.Query
	for _, t := range tags {
		tq := bleve.NewTermQuery(t)
		tq.SetField("tags")
		queries = append(queries, tq)
	}
	out, err := ft.run(bleve.NewDisjunctionQuery(queries...), n+1, id)
	if err != nil {
		return nil, err
	}
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (ft *FullText) size(limit int) int {
	if limit > 0 && limit < len(ft.posts) {
		return limit
	}
	return max(len(ft.posts), 1)
}

func (ft *FullText) run(q query.Query, size int, exclude string) (Results, error) {
	req := bleve.NewSearchRequestOptions(q, size, 0, false)
	req.SortBy([]string{"-_score", "_id"})
	res, err := ft.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("full-text search: %w", err)
	}
	out := make(Results, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if hit.ID == exclude {
			continue
		}
		i, ok := ft.byID[hit.ID]
		if !ok {
			continue
		}
		out = append(out, Result{Post: ft.posts[i].Clone(), Score: hit.Score, ScoreType: ScoreBM25})
	}
	return out, nil
}

func foldAll(tags []string) []string {
	folder := cases.Fold()
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, folder.String(t))
		}
	}
	return out
}
