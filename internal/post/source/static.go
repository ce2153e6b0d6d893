package source

import "context"

// Static serves sources held in memory, keyed by file name.
type Static struct {
	files map[string]string
}

func NewStatic(files map[string]string) *Static {
	cp := make(map[string]string, len(files))
	for k, v := range files {
		cp[k] = v
	}
	return &Static{files: cp}
}

func (s *Static) Load(ctx context.Context) ([]Raw, error) {
	out := make([]Raw, 0, len(s.files))
	for name, text := range s.files {
		if id, ok := IDFromName(name); ok {
			out = append(out, Raw{ID: id, Text: text})
		}
	}
	sortByID(out)
	return out, nil
}
