// Copyright © 2018 One Concern

package localfs

import (
	"bytes"
	"context"
	"io/ioutil"
	"sort"
	"testing"

	"github.com/oneconcern/snapvcs/pkg/errors"
	"github.com/oneconcern/snapvcs/pkg/storage"
	"github.com/oneconcern/snapvcs/pkg/storage/status"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHas(t *testing.T) {
	bs, cleanup := setupStore(t)
	defer cleanup()

	has, err := bs.Has(context.Background(), "sixteentons")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(context.Background(), "seventeentons")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(context.Background(), "fifteentons")
	require.NoError(t, err)
	require.False(t, has)

	has, err = bs.Has(context.Background(), "tons")
	require.NoError(t, err)
	require.False(t, has, "directories are not objects")
}

func TestGet(t *testing.T) {
	bs, cleanup := setupStore(t)
	defer cleanup()

	rdr, err := bs.Get(context.Background(), "sixteentons")
	require.NoError(t, err)
	b, err := ioutil.ReadAll(rdr)
	require.NoError(t, err)
	require.NoError(t, rdr.Close())
	assert.Equal(t, "this is the text", string(b))

	b, err = storage.ReadAll(context.Background(), bs, "tons/seventeentons")
	require.NoError(t, err)
	assert.Equal(t, "this is the text for another thing", string(b))

	_, err = bs.Get(context.Background(), "fifteentons")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotExists))
}

func TestKeys(t *testing.T) {
	bs, cleanup := setupStore(t)
	defer cleanup()

	keys, err := bs.Keys(context.Background())
	require.NoError(t, err)
	sort.Strings(keys)
	require.Equal(t, []string{"seventeentons", "sixteentons", "tons/seventeentons"}, keys)
}

func TestDelete(t *testing.T) {
	bs, cleanup := setupStore(t)
	defer cleanup()

	require.NoError(t, bs.Delete(context.Background(), "seventeentons"))
	require.NoError(t, bs.Delete(context.Background(), "never-there"))
	k, _ := bs.Keys(context.Background())
	assert.Len(t, k, 2)
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	fs := afero.NewBasePathFs(afero.NewOsFs(), dir)
	fakeFile(t, fs, "sixteentons", "this is the text")
	bs := New(fs)

	require.NoError(t, bs.Clear(context.Background()))
	k, _ := bs.Keys(context.Background())
	require.Empty(t, k)

	has, err := bs.Has(context.Background(), "sixteentons")
	require.NoError(t, err)
	require.False(t, has)
}

func TestPut(t *testing.T) {
	bs, cleanup := setupStore(t)
	defer cleanup()

	content := bytes.NewBufferString("here we go once again")
	err := bs.Put(context.Background(), "deep/down/eighteentons", content, storage.NoOverWrite)
	require.NoError(t, err)

	b, err := storage.ReadAll(context.Background(), bs, "deep/down/eighteentons")
	require.NoError(t, err)
	assert.Equal(t, "here we go once again", string(b))

	k, _ := bs.Keys(context.Background())
	assert.Len(t, k, 4)

	err = bs.Put(context.Background(), "deep/down/eighteentons", bytes.NewBufferString("again"), storage.NoOverWrite)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrExists))

	require.NoError(t, bs.Put(context.Background(), "deep/down/eighteentons", bytes.NewBufferString("again"), storage.OverWrite))
	b, err = storage.ReadAll(context.Background(), bs, "deep/down/eighteentons")
	require.NoError(t, err)
	assert.Equal(t, "again", string(b), "overwrite truncates the previous content")
}

func TestAtomicPut(t *testing.T) {
	fs := afero.NewMemMapFs()
	bs, err := NewAtomic(fs)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, bs.Put(ctx, "current", bytes.NewBufferString("abcd"), storage.OverWrite))
	require.NoError(t, bs.Put(ctx, "current", bytes.NewBufferString("ef"), storage.OverWrite))

	b, err := storage.ReadAll(ctx, bs, "current")
	require.NoError(t, err)
	assert.Equal(t, "ef", string(b))

	err = bs.Put(ctx, "current", bytes.NewBufferString("gh"), storage.NoOverWrite)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrExists))

	require.NoError(t, bs.Put(ctx, "a/b", bytes.NewBufferString("nested"), storage.NoOverWrite))
	keys, err := bs.Keys(ctx)
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{"a/b", "current"}, keys, "the staging area is not listed")

	has, err := bs.Has(ctx, "a/b")
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, bs.Delete(ctx, "a/b"))
	has, err = bs.Has(ctx, "a/b")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestAtomicInvalidKeys(t *testing.T) {
	bs, err := NewAtomic(afero.NewMemMapFs())
	require.NoError(t, err)
	ctx := context.Background()

	err = bs.Put(ctx, ".put-stage/x", bytes.NewBufferString("x"), storage.OverWrite)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidKey))

	_, err = bs.Has(ctx, ".put-stage/x")
	assert.Error(t, err)
	_, err = bs.Get(ctx, ".put-stage/x")
	assert.Error(t, err)
	assert.Error(t, bs.Delete(ctx, ".put-stage/x"))
}

func TestString(t *testing.T) {
	assert.Equal(t, "localfs", New(afero.NewMemMapFs()).String())

	dir := t.TempDir()
	assert.Equal(t, "localfs@"+dir, New(afero.NewBasePathFs(afero.NewOsFs(), dir)).String())

	bs, err := NewAtomic(afero.NewBasePathFs(afero.NewOsFs(), dir))
	require.NoError(t, err)
	assert.Equal(t, "localfs-atomic@"+dir, bs.String())
}

func setupStore(t testing.TB) (storage.Store, func()) {
	t.Helper()

	fs := afero.NewMemMapFs()
	fakeFile(t, fs, "sixteentons", "this is the text")
	fakeFile(t, fs, "seventeentons", "this is the text for another thing")
	require.NoError(t, fs.MkdirAll("tons", 0700))
	fakeFile(t, fs, "tons/seventeentons", "this is the text for another thing")

	return New(fs), func() {}
}

func fakeFile(t testing.TB, fs afero.Fs, file, content string) {
	f, err := fs.Create(file)
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	err = f.Close()
	require.NoError(t, err)
}
