package source

import (
	"context"
	"io"
	"strings"

	"github.com/morikuni/failure"
)

// ObjectStore is the subset of storage.MinIOStorage the MinIO loader needs.
type ObjectStore interface {
	List(ctx context.Context, prefix string) ([]string, error)
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

// MinIO loads *.md objects directly under prefix in a bucket.
type MinIO struct {
	store  ObjectStore
	prefix string
}

func NewMinIO(store ObjectStore, prefix string) *MinIO {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &MinIO{store: store, prefix: prefix}
}

func (m *MinIO) Load(ctx context.Context) ([]Raw, error) {
	keys, err := m.store.List(ctx, m.prefix)
	if err != nil {
		return nil, failure.Wrap(err, failure.Context{"prefix": m.prefix})
	}
	out := make([]Raw, 0, len(keys))
	for _, key := range keys {
		rest := strings.TrimPrefix(key, m.prefix)
		if strings.Contains(rest, "/") {
			continue
		}
		id, ok := IDFromName(rest)
		if !ok {
			continue
		}
		text, err := m.read(ctx, key)
		if err != nil {
			return nil, err
		}
		out = append(out, Raw{ID: id, Text: text})
	}
	sortByID(out)
	return out, nil
}

func (m *MinIO) read(ctx context.Context, key string) (string, error) {
	rc, err := m.store.DownloadFile(ctx, key)
	if err != nil {
		return "", failure.Wrap(err, failure.Context{"key": key})
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return "", failure.Wrap(err, failure.Context{"key": key})
	}
	return string(b), nil
}

// Save uploads raws as <prefix><id>.md objects. Used by blogctl push.
func (m *MinIO) Save(ctx context.Context, raws []Raw) error {
	for _, r := range raws {
		key := m.prefix + r.ID + Ext
		if err := m.store.UploadFile(ctx, key, strings.NewReader(r.Text), int64(len(r.Text)), "text/markdown; charset=utf-8"); err != nil {
			return failure.Wrap(err, failure.Context{"key": key})
		}
	}
	return nil
}
