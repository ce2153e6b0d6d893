package source

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestIDFromName(t *testing.T) {
	cases := []struct {
		name string
		id   string
		ok   bool
	}{
		{"hello.md", "hello", true},
		{"posts/intro-to-caching.md", "intro-to-caching", true},
		{"notes.txt", "", false},
		{"README.MD", "", false},
		{".md", "", false},
		{".hidden.md", "", false},
	}
	for _, tc := range cases {
		id, ok := IDFromName(tc.name)
		assert.Equal(t, tc.ok, ok, tc.name)
		assert.Equal(t, tc.id, id, tc.name)
	}
}

func TestDirLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/posts/b.md", []byte("bee"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/posts/a.md", []byte("ay"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/posts/skip.txt", []byte("no"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/posts/nested/c.md", []byte("deep"), 0o644))

	raws, err := NewDir(fs, "/posts").Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Raw{{ID: "a", Text: "ay"}, {ID: "b", Text: "bee"}}, raws)
}

func TestDirLoadMissingDir(t *testing.T) {
	_, err := NewDir(afero.NewMemMapFs(), "/nope").Load(context.Background())
	require.Error(t, err)
}

func TestStaticLoad(t *testing.T) {
	s := NewStatic(map[string]string{"z.md": "zed", "a.md": "ay", "x.json": "{}"})
	raws, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Raw{{ID: "a", Text: "ay"}, {ID: "z", Text: "zed"}}, raws)
}

type fakeStore struct {
	objects map[string]string
	listErr error
}

func (f *fakeStore) List(ctx context.Context, prefix string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (f *fakeStore) DownloadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	v, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return io.NopCloser(bytes.NewBufferString(v)), nil
}

func (f *fakeStore) UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	b, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if f.objects == nil {
		f.objects = map[string]string{}
	}
	f.objects[key] = string(b)
	return nil
}

func TestMinIOSaveThenLoad(t *testing.T) {
	store := &fakeStore{}
	m := NewMinIO(store, "posts")
	require.NoError(t, m.Save(context.Background(), []Raw{{ID: "hello", Text: "# Hello"}}))
	require.Equal(t, "# Hello", store.objects["posts/hello.md"])

	raws, err := m.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Raw{{ID: "hello", Text: "# Hello"}}, raws)
}

func TestMinIOLoad(t *testing.T) {
	store := &fakeStore{objects: map[string]string{
		"posts/second.md":     "2",
		"posts/first.md":      "1",
		"posts/img.png":       "binary",
		"posts/drafts/wip.md": "draft",
		"other/elsewhere.md":  "x",
	}}
	raws, err := NewMinIO(store, "posts").Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []Raw{{ID: "first", Text: "1"}, {ID: "second", Text: "2"}}, raws)
}

func TestMinIOLoadListError(t *testing.T) {
	store := &fakeStore{listErr: errors.New("boom")}
	_, err := NewMinIO(store, "").Load(context.Background())
	require.Error(t, err)
}

func TestMongoLoadAndSave(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("load", func(mt *mtest.T) {
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "alpha"}, {Key: "raw", Value: "---\ntitle: A\n---\nbody"}},
			bson.D{{Key: "_id", Value: "beta"}, {Key: "raw", Value: "b"}},
		))
		raws, err := NewMongo(mt.Coll).Load(context.Background())
		require.NoError(mt, err)
		require.Len(mt, raws, 2)
		assert.Equal(mt, "alpha", raws[0].ID)
		assert.Equal(mt, "b", raws[1].Text)
	})

	mt.Run("save", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())
		err := NewMongo(mt.Coll).Save(context.Background(), []Raw{{ID: "a", Text: "x"}, {ID: "b", Text: "y"}})
		require.NoError(mt, err)
	})
}
