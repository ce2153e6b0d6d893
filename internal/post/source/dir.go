package source

import (
	"context"
	"path/filepath"

	"github.com/morikuni/failure"
	"github.com/spf13/afero"
)

// Dir loads *.md files from a single directory (not recursive).
type Dir struct {
	fs  afero.Fs
	dir string
}

// NewDir returns a loader reading dir on fs.
func NewDir(fs afero.Fs, dir string) *Dir {
	return &Dir{fs: fs, dir: dir}
}

// NewOSDir reads dir from the local filesystem.
func NewOSDir(dir string) *Dir {
	return NewDir(afero.NewOsFs(), dir)
}

// Path is the directory being read.
func (d *Dir) Path() string { return d.dir }

func (d *Dir) Load(ctx context.Context) ([]Raw, error) {
	entries, err := afero.ReadDir(d.fs, d.dir)
	if err != nil {
		return nil, failure.Wrap(err, failure.Context{"dir": d.dir})
	}
	out := make([]Raw, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() {
			continue
		}
		id, ok := IDFromName(e.Name())
		if !ok {
			continue
		}
		name := filepath.Join(d.dir, e.Name())
		b, err := afero.ReadFile(d.fs, name)
		if err != nil {
			return nil, failure.Wrap(err, failure.Context{"file": name})
		}
		out = append(out, Raw{ID: id, Text: string(b)})
	}
	sortByID(out)
	return out, nil
}
