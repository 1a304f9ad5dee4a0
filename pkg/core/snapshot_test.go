package core

import (
	"context"
	"errors"
	"os"
	"path"
	"testing"

	"github.com/oneconcern/snapvcs/internal/rand"
	"github.com/oneconcern/snapvcs/pkg/core/status"
	"github.com/oneconcern/snapvcs/pkg/model"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testCommitID = "0123456789abcdef0123456789abcdef01234567"

func populate(t testing.TB, fs afero.Fs) {
	writeFile(t, fs, "a.txt", "hello\n")
	writeFile(t, fs, "d/b.txt", "world\n")
	writeFile(t, fs, "d/e/c.bin", "\x00\x01\x02")
	require.NoError(t, fs.MkdirAll("empty", 0755))
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	fs := tempFs(t)
	populate(t, fs)

	tree, err := Build(fs, ".", nil)
	require.NoError(t, err)

	store := NewSnapshotStore(fs, nil)
	stats, err := store.Persist(ctx, testCommitID, tree, fs)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Files)
	assert.EqualValues(t, len("hello\n")+len("world\n")+3, stats.Bytes)

	exists, err := store.Exists(testCommitID)
	require.NoError(t, err)
	assert.True(t, exists)

	snap, err := store.Load(ctx, testCommitID)
	require.NoError(t, err)
	assert.Equal(t, testCommitID, snap.ID)
	assert.True(t, model.Equal(tree, snap.Tree))

	content, err := store.ReadFile(ctx, testCommitID, "d/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "world\n", string(content))

	// staging leaves nothing behind
	staged, err := afero.ReadDir(fs, model.GetPathToStaging())
	require.NoError(t, err)
	assert.Empty(t, staged)

	// the persisted snapshot does not change the live tree
	again, err := Build(fs, ".", nil)
	require.NoError(t, err)
	assert.True(t, model.Equal(tree, again))
}

func TestSnapshotPersistExisting(t *testing.T) {
	ctx := context.Background()
	fs := tempFs(t)
	populate(t, fs)
	tree, err := Build(fs, ".", nil)
	require.NoError(t, err)

	store := NewSnapshotStore(fs, nil)
	_, err = store.Persist(ctx, testCommitID, tree, fs)
	require.NoError(t, err)

	_, err = store.Persist(ctx, testCommitID, tree, fs)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrCommitExists)
}

func TestSnapshotPersistFailureLeavesNoCommit(t *testing.T) {
	ctx := context.Background()
	fs := tempFs(t)
	populate(t, fs)
	tree, err := Build(fs, ".", nil)
	require.NoError(t, err)

	// the working tree changes after the snapshot was taken
	writeFile(t, fs, "d/b.txt", "changed\n")

	store := NewSnapshotStore(fs, nil)
	_, err = store.Persist(ctx, testCommitID, tree, fs)
	require.Error(t, err)

	exists, err := store.Exists(testCommitID)
	require.NoError(t, err)
	assert.False(t, exists)

	staged, err := afero.ReadDir(fs, model.GetPathToStaging())
	require.NoError(t, err)
	assert.Empty(t, staged)
}

func TestSnapshotLoadErrors(t *testing.T) {
	ctx := context.Background()
	fs := tempFs(t)
	store := NewSnapshotStore(fs, nil)

	_, err := store.Load(ctx, testCommitID)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrCommitNotFound)
	assert.ErrorIs(t, err, status.ErrSerialization)

	_, err = store.Load(ctx, "../../etc")
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrCommitNotFound)

	writeFile(t, fs, model.GetPathToCommitTree(testCommitID), `{"root":{"name":".","children":[{"file":{"name":"a","hash":"zz","kind":"new"}}]}}`)
	_, err = store.Load(ctx, testCommitID)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrSerialization)
	assert.NotErrorIs(t, err, status.ErrCommitNotFound)
}

func TestSnapshotRestore(t *testing.T) {
	ctx := context.Background()
	fs := tempFs(t)
	populate(t, fs)
	tree, err := Build(fs, ".", nil)
	require.NoError(t, err)

	store := NewSnapshotStore(fs, nil)
	_, err = store.Persist(ctx, testCommitID, tree, fs)
	require.NoError(t, err)
	snap, err := store.Load(ctx, testCommitID)
	require.NoError(t, err)

	dest := afero.NewMemMapFs()
	writeFile(t, dest, "a.txt", "stale")
	writeFile(t, dest, "extra.txt", "kept")

	require.NoError(t, store.Restore(ctx, snap, dest))

	assert.Equal(t, "hello\n", readFile(t, dest, "a.txt"))
	assert.Equal(t, "world\n", readFile(t, dest, "d/b.txt"))
	assert.Equal(t, "\x00\x01\x02", readFile(t, dest, "d/e/c.bin"))
	assert.Equal(t, "kept", readFile(t, dest, "extra.txt"))

	fi, err := dest.Stat("empty")
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestSnapshotRoundTripRandomTree(t *testing.T) {
	ctx := context.Background()
	fs := tempFs(t)

	contents := make(map[string][]byte)
	for i := 0; i < 20; i++ {
		pth := path.Join(rand.LetterString(3), rand.LetterString(3), rand.LetterString(8))
		if i%3 == 0 {
			pth = rand.LetterString(8)
		}
		contents[pth] = rand.Bytes(1 + i*1024)
		require.NoError(t, fs.MkdirAll(path.Dir(pth), 0755))
		require.NoError(t, afero.WriteFile(fs, pth, contents[pth], 0644))
	}

	tree, err := Build(fs, ".", nil)
	require.NoError(t, err)
	require.Equal(t, len(contents), tree.FileCount())

	store := NewSnapshotStore(fs, nil)
	_, err = store.Persist(ctx, testCommitID, tree, fs)
	require.NoError(t, err)
	snap, err := store.Load(ctx, testCommitID)
	require.NoError(t, err)
	require.True(t, model.Equal(tree, snap.Tree))

	dest := afero.NewMemMapFs()
	require.NoError(t, store.Restore(ctx, snap, dest))
	for pth, expected := range contents {
		actual, err := afero.ReadFile(dest, pth)
		require.NoError(t, err)
		assert.Equal(t, expected, actual, pth)
	}
}

func TestSnapshotRestoreKeepsModes(t *testing.T) {
	ctx := context.Background()
	fs := tempFs(t)
	writeFile(t, fs, "bin/run.sh", "#!/bin/sh\n")
	require.NoError(t, fs.Chmod("bin/run.sh", 0755))
	writeFile(t, fs, "notes.txt", "plain\n")
	require.NoError(t, fs.Chmod("notes.txt", 0640))

	tree, err := Build(fs, ".", nil)
	require.NoError(t, err)
	store := NewSnapshotStore(fs, nil)
	_, err = store.Persist(ctx, testCommitID, tree, fs)
	require.NoError(t, err)
	snap, err := store.Load(ctx, testCommitID)
	require.NoError(t, err)

	for name, dest := range map[string]afero.Fs{"os": tempFs(t), "memory": afero.NewMemMapFs()} {
		// a stale copy with another mode is overwritten
		writeFile(t, dest, "bin/run.sh", "stale")
		require.NoError(t, dest.Chmod("bin/run.sh", 0600))

		require.NoError(t, store.Restore(ctx, snap, dest), name)

		fi, err := dest.Stat("bin/run.sh")
		require.NoError(t, err, name)
		assert.Equal(t, os.FileMode(0755), fi.Mode().Perm(), name)
		assert.Equal(t, "#!/bin/sh\n", readFile(t, dest, "bin/run.sh"), name)

		fi, err = dest.Stat("notes.txt")
		require.NoError(t, err, name)
		assert.Equal(t, os.FileMode(0640), fi.Mode().Perm(), name)
	}
}

// renameFailingFs refuses to move anything, and optionally to remove anything
type renameFailingFs struct {
	afero.Fs
	failRemove bool
}

func (f renameFailingFs) Rename(_, _ string) error {
	return errors.New("rename refused")
}

func (f renameFailingFs) RemoveAll(pth string) error {
	if f.failRemove {
		return errors.New("remove refused")
	}
	return f.Fs.RemoveAll(pth)
}

func TestSnapshotPersistRenameFailure(t *testing.T) {
	ctx := context.Background()

	for _, failRemove := range []bool{false, true} {
		base := tempFs(t)
		populate(t, base)
		tree, err := Build(base, ".", nil)
		require.NoError(t, err)

		observed, logs := observer.New(zapcore.WarnLevel)
		store := NewSnapshotStore(renameFailingFs{Fs: base, failRemove: failRemove}, zap.New(observed))
		_, err = store.Persist(ctx, testCommitID, tree, base)
		require.Error(t, err)
		assert.ErrorIs(t, err, status.ErrIO)

		exists, err := store.Exists(testCommitID)
		require.NoError(t, err)
		assert.False(t, exists)

		staged, err := afero.ReadDir(base, model.GetPathToStaging())
		require.NoError(t, err)
		if failRemove {
			assert.NotEmpty(t, staged)
			require.Equal(t, 1, logs.Len())
			assert.Equal(t, "could not clear staging area", logs.All()[0].Message)
			continue
		}
		assert.Empty(t, staged)
		assert.Zero(t, logs.Len())
	}
}
