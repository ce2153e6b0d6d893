package post

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadingTime(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"empty", "", 0},
		{"whitespace", "  \n\t ", 0},
		{"one word", "hello", 1},
		{"exactly 250", strings.Repeat("w ", 250), 1},
		{"251 words", strings.Repeat("w ", 251), 2},
		{"500 words", strings.Repeat("word ", 500), 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ReadingTime(tc.body))
		})
	}
}

func TestParseYAML(t *testing.T) {
	raw := "---\ntitle: Hello\ndescription: First post\ndate: 2024-03-01\ntags: [go, web]\nauthor: ann\n---\n# Heading\n\nSome body text."
	p, err := Parse("hello", raw)
	require.NoError(t, err)
	assert.Equal(t, "hello", p.ID)
	assert.Equal(t, "Hello", p.Title)
	assert.Equal(t, "First post", p.Description)
	assert.Equal(t, "2024-03-01", p.Date)
	assert.Equal(t, []string{"go", "web"}, p.Tags)
	assert.Equal(t, "# Heading\n\nSome body text.", strings.TrimSpace(p.Content))
	assert.Equal(t, 1, p.ReadingTime)
	assert.Equal(t, "ann", p.Meta["author"])
	assert.Equal(t, 2024, p.PublishedAt.Year())
}

func TestParseTOML(t *testing.T) {
	raw := "+++\ntitle = \"Toml post\"\ndate = 2023-12-24\ntags = [\"x\"]\n+++\nbody"
	p, err := Parse("toml", raw)
	require.NoError(t, err)
	assert.Equal(t, "Toml post", p.Title)
	assert.Equal(t, "2023-12-24", p.Date)
	assert.Equal(t, []string{"x"}, p.Tags)
	assert.False(t, p.PublishedAt.IsZero())
}

func TestParseWithoutFrontMatter(t *testing.T) {
	p, err := Parse("plain", "just some words")
	require.NoError(t, err)
	assert.Equal(t, "", p.Title)
	assert.Equal(t, "", p.Date)
	assert.Equal(t, []string{}, p.Tags)
	assert.Equal(t, "just some words", p.Content)
	assert.True(t, p.PublishedAt.IsZero())
}

func TestParseSingleTagString(t *testing.T) {
	p, err := Parse("one", "---\ntags: golang\n---\nbody")
	require.NoError(t, err)
	assert.Equal(t, []string{"golang"}, p.Tags)
}

func TestParseBadTagsShape(t *testing.T) {
	_, err := Parse("bad", "---\ntags:\n  nested: map\n---\nbody")
	require.Error(t, err)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "bad", pe.ID)
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse("broken", "---\ntitle: [unterminated\n---\nbody")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
}

func TestParseNestedMetaIsJSONEncodable(t *testing.T) {
	p, err := Parse("nested", "---\ntitle: N\nseries:\n  name: caching\n  part: 2\n---\nbody")
	require.NoError(t, err)
	_, err = json.Marshal(p)
	require.NoError(t, err)
	series, ok := p.Meta["series"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "caching", series["name"])
}

func TestParseDate(t *testing.T) {
	assert.False(t, ParseDate("2024-01-02").IsZero())
	assert.False(t, ParseDate("2024-01-02T10:00:00Z").IsZero())
	assert.False(t, ParseDate("2024/01/02").IsZero())
	assert.True(t, ParseDate("not a date").IsZero())
	assert.True(t, ParseDate("").IsZero())
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "", DetectLanguage("   "))
	assert.Equal(t, "en", DetectLanguage("This is a fairly long English sentence about caching strategies and the trade-offs that come with them."))
}

func TestCloneDoesNotShare(t *testing.T) {
	p := Post{ID: "a", Tags: []string{"x"}, Meta: map[string]any{"k": []any{"v"}}}
	c := p.Clone()
	c.Tags[0] = "changed"
	c.Meta["k"].([]any)[0] = "changed"
	assert.Equal(t, "x", p.Tags[0])
	assert.Equal(t, "v", p.Meta["k"].([]any)[0])
}

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "Given", Post{ID: "x", Title: "Given"}.DisplayTitle())
	assert.Equal(t, "Intro To Caching", Post{ID: "intro-to_caching"}.DisplayTitle())
}

func TestHasTag(t *testing.T) {
	p := Post{Tags: []string{"Go", "Web"}}
	assert.True(t, p.HasTag("go"))
	assert.False(t, p.HasTag("rust"))
}

func TestNotFoundWrapsSentinel(t *testing.T) {
	err := NotFound("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "missing")
}
