package post

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Post is a parsed Markdown post. Values handed out by the repository are
// copies; callers may mutate them freely.
type Post struct {
	ID          string         `json:"id" bson:"_id" yaml:"id"`
	Title       string         `json:"title" bson:"title" yaml:"title"`
	Description string         `json:"description" bson:"description" yaml:"description,omitempty"`
	Date        string         `json:"date" bson:"date" yaml:"date,omitempty"`
	Tags        []string       `json:"tags" bson:"tags" yaml:"tags"`
	Content     string         `json:"content,omitempty" bson:"content" yaml:"content,omitempty"`
	ReadingTime int            `json:"readingTime" bson:"readingTime" yaml:"readingTime"`
	Language    string         `json:"language,omitempty" bson:"language,omitempty" yaml:"language,omitempty"`
	Meta        map[string]any `json:"meta,omitempty" bson:"meta,omitempty" yaml:"meta,omitempty"`

	// PublishedAt is Date parsed; zero when Date is missing or unparsable.
	PublishedAt time.Time `json:"-" bson:"-" yaml:"-"`
}

// Clone returns a deep copy of p so the caller never shares slices or maps
// with the repository's snapshot.
func (p Post) Clone() Post {
	out := p
	out.Tags = append(make([]string, 0, len(p.Tags)), p.Tags...)
	if p.Meta != nil {
		out.Meta = cloneMeta(p.Meta)
	}
	return out
}

// Summary is the listing form of a post: everything but the body.
func (p Post) Summary() Post {
	out := p.Clone()
	out.Content = ""
	return out
}

// DisplayTitle is the title shown in listings, falling back to the id
// with separators replaced and title-cased.
func (p Post) DisplayTitle() string {
	if strings.TrimSpace(p.Title) != "" {
		return p.Title
	}
	words := strings.NewReplacer("-", " ", "_", " ").Replace(p.ID)
	return cases.Title(language.English).String(words)
}

// HasTag reports whether the post carries tag, compared case-insensitively.
func (p Post) HasTag(tag string) bool {
	folder := cases.Fold()
	want := folder.String(tag)
	for _, t := range p.Tags {
		if folder.String(t) == want {
			return true
		}
	}
	return false
}

func cloneMeta(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMeta(t)
	case []any:
		cp := make([]any, len(t))
		for i := range t {
			cp[i] = cloneValue(t[i])
		}
		return cp
	default:
		return v
	}
}
