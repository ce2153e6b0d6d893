// Package source enumerates raw Markdown post sources from a backend.
package source

import (
	"context"
	"path"
	"sort"
	"strings"
)

// Ext is the only file extension treated as a post.
const Ext = ".md"

// Raw is an unparsed post source.
type Raw struct {
	ID   string
	Text string
}

// Loader reads every post source. Implementations return sources sorted by
// ascending id.
type Loader interface {
	Load(ctx context.Context) ([]Raw, error)
}

// Saver writes post sources back to a backend.
type Saver interface {
	Save(ctx context.Context, raws []Raw) error
}

// IDFromName derives a post id from a file or object name: the base name
// without the trailing ".md". Names without that suffix are not posts.
func IDFromName(name string) (string, bool) {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if !strings.HasSuffix(base, Ext) {
		return "", false
	}
	id := strings.TrimSuffix(base, Ext)
	if id == "" || strings.HasPrefix(id, ".") {
		return "", false
	}
	return id, true
}

func sortByID(raws []Raw) {
	sort.SliceStable(raws, func(i, j int) bool { return raws[i].ID < raws[j].ID })
}
