package post

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/go-viper/mapstructure/v2"
	"github.com/retarus/whatlanggo"
)

// metadata is the recognised subset of a post's front matter.
type metadata struct {
	Title       string   `mapstructure:"title"`
	Description string   `mapstructure:"description"`
	Date        string   `mapstructure:"date"`
	Tags        []string `mapstructure:"tags"`
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// Parse turns raw Markdown with an optional YAML (---), TOML (+++) or JSON
// (;;;) header into a Post. A source without a header is all body.
func Parse(id, raw string) (Post, error) {
	var fm map[string]any
	body, err := frontmatter.Parse(strings.NewReader(raw), &fm)
	if err != nil {
		return Post{}, &ParseError{ID: id, Err: err}
	}
	meta := normaliseMap(fm)

	var md metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       timeToStringHook,
		WeaklyTypedInput: true,
		Result:           &md,
	})
	if err != nil {
		return Post{}, &ParseError{ID: id, Err: err}
	}
	if err := dec.Decode(meta); err != nil {
		return Post{}, &ParseError{ID: id, Err: fmt.Errorf("decode metadata: %w", err)}
	}

	content := string(body)
	tags := md.Tags
	if tags == nil {
		tags = []string{}
	}
	return Post{
		ID:          id,
		Title:       md.Title,
		Description: md.Description,
		Date:        md.Date,
		Tags:        tags,
		Content:     content,
		ReadingTime: ReadingTime(content),
		Language:    DetectLanguage(content),
		Meta:        meta,
		PublishedAt: ParseDate(md.Date),
	}, nil
}

// ParseDate accepts RFC3339 and the common date-only layouts. Anything else
// yields the zero time, which sorts as oldest.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// DetectLanguage returns the ISO 639-1 code of text, or "" when no
// language can be recognised.
func DetectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	lang := whatlanggo.DetectLang(text)
	if lang < 0 {
		return ""
	}
	return lang.Iso6391()
}

// formatDate renders TOML/JSON timestamps back to the way they are usually
// written in front matter.
func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}

func timeToStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.String {
		return data, nil
	}
	if t, ok := data.(time.Time); ok {
		return formatDate(t), nil
	}
	return data, nil
}

// normaliseMap converts the map[interface{}]interface{} values produced by
// the YAML decoder into map[string]any so metadata can be encoded as JSON.
func normaliseMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normaliseValue(v)
	}
	return out
}

func normaliseValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normaliseMap(t)
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normaliseValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = normaliseValue(t[i])
		}
		return out
	default:
		return v
	}
}
