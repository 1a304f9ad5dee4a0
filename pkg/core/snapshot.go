package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/oneconcern/snapvcs/pkg/core/status"
	errs "github.com/oneconcern/snapvcs/pkg/errors"
	"github.com/oneconcern/snapvcs/pkg/model"
	"github.com/oneconcern/snapvcs/pkg/storage"
	"github.com/oneconcern/snapvcs/pkg/storage/localfs"
	storagestatus "github.com/oneconcern/snapvcs/pkg/storage/status"
	"github.com/segmentio/ksuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Snapshot is a persisted tree, along with the id of its commit
type Snapshot struct {
	ID   string
	Tree *model.Root
}

// PersistStats summarizes what a commit stored
type PersistStats struct {
	Files int
	Bytes int64
}

// SnapshotStore persists trees and copies of their files in the control directory.
//
// Every commit gets its own area, with a full copy of each file: there is no
// deduplication across commits.
type SnapshotStore struct {
	fs     afero.Fs
	logger *zap.Logger
}

// NewSnapshotStore creates a snapshot store over the file system of a working tree
func NewSnapshotStore(fs afero.Fs, logger *zap.Logger) *SnapshotStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotStore{fs: fs, logger: logger}
}

func (s *SnapshotStore) commitStore(commitID string) storage.Store {
	return localfs.New(afero.NewBasePathFs(s.fs, model.GetPathToCommit(commitID)))
}

// Exists tells if a commit has been persisted
func (s *SnapshotStore) Exists(commitID string) (bool, error) {
	if !model.IsValidCommitRef(commitID) {
		return false, nil
	}
	fi, err := s.fs.Stat(model.GetPathToCommit(commitID))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, status.ErrIO.Wrap(err)
	}
	return fi.IsDir(), nil
}

// Persist stores a tree under a commit id, copying every file it references from source.
//
// The commit is prepared in a staging area, then moved into place with a single
// rename: a commit directory is either complete or absent.
func (s *SnapshotStore) Persist(ctx context.Context, commitID string, tree *model.Root, source afero.Fs) (PersistStats, error) {
	var stats PersistStats
	if tree == nil {
		return stats, status.ErrOther.Wrap(errors.New("cannot persist a nil tree"))
	}
	if !model.IsValidCommitRef(commitID) {
		return stats, status.ErrOther.Wrapf("invalid commit id %q", commitID)
	}
	exists, err := s.Exists(commitID)
	if err != nil {
		return stats, err
	}
	if exists {
		return stats, status.ErrCommitExists.Wrapf("%s", commitID)
	}

	stagePath := model.GetPathToStage(ksuid.New().String())
	if err = s.fs.MkdirAll(stagePath, 0700); err != nil {
		return stats, status.ErrIO.Wrap(fmt.Errorf("creating staging area: %w", err))
	}
	stageFs := afero.NewBasePathFs(s.fs, stagePath)
	stage := localfs.New(stageFs)
	s.logger.Debug("staging commit", zap.String("id", commitID), zap.String("stage", stage.String()))

	stats, err = s.stage(ctx, stage, stageFs, tree, source)
	if err != nil {
		s.clearStage(ctx, stage, stagePath)
		return stats, err
	}

	if err = s.fs.MkdirAll(model.GetPathToCommits(), 0700); err != nil {
		return stats, status.ErrIO.Wrap(err)
	}
	if err = s.fs.Rename(stagePath, model.GetPathToCommit(commitID)); err != nil {
		s.clearStage(ctx, stage, stagePath)
		return stats, status.ErrIO.Wrap(fmt.Errorf("moving commit %s into place: %w", commitID, err))
	}

	s.logger.Debug("persisted commit", zap.String("id", commitID), zap.Int("files", stats.Files), zap.Int64("bytes", stats.Bytes))
	return stats, nil
}

func (s *SnapshotStore) clearStage(ctx context.Context, stage storage.Store, stagePath string) {
	if err := stage.Clear(ctx); err != nil {
		s.logger.Warn("could not clear staging area", zap.String("stage", stagePath), zap.Error(err))
	}
}

func (s *SnapshotStore) stage(ctx context.Context, stage storage.Store, stageFs afero.Fs, tree *model.Root, source afero.Fs) (PersistStats, error) {
	var stats PersistStats

	if err := stageFs.MkdirAll(model.GetCommitDataKey(""), 0700); err != nil {
		return stats, status.ErrIO.Wrap(err)
	}

	err := tree.Walk(func(pth string, n model.Node) error {
		switch node := n.(type) {
		case *model.Directory:
			if err := stageFs.MkdirAll(model.GetCommitDataKey(pth), 0700); err != nil {
				return status.ErrIO.Wrap(fmt.Errorf("creating %q: %w", pth, err))
			}
		case *model.File:
			size, err := copyIn(ctx, stage, stageFs, source, pth, node.Hash)
			if err != nil {
				return err
			}
			stats.Files++
			stats.Bytes += size
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	record, err := model.MarshalTree(tree)
	if err != nil {
		return stats, status.ErrSerialization.Wrap(err)
	}
	if err = stage.Put(ctx, model.GetCommitTreeKey(), bytes.NewReader(record), storage.NoOverWrite); err != nil {
		return stats, status.ErrIO.Wrap(err)
	}
	return stats, nil
}

// copyIn copies a working tree file into the staging area, checking it still has the expected content.
//
// The copy carries the permission bits of the working tree file.
func copyIn(ctx context.Context, stage storage.Store, stageFs, source afero.Fs, pth string, expected model.Digest) (int64, error) {
	f, err := source.Open(pth)
	if err != nil {
		return 0, status.ErrIO.Wrap(fmt.Errorf("open %q: %w", pth, err))
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return 0, status.ErrIO.Wrap(fmt.Errorf("stat %q: %w", pth, err))
	}

	key := model.GetCommitDataKey(pth)
	reader := newHashingReader(f)
	if err = stage.Put(ctx, key, reader, storage.NoOverWrite); err != nil {
		return 0, status.ErrIO.Wrap(fmt.Errorf("copy %q: %w", pth, err))
	}
	if reader.Digest() != expected {
		return 0, status.ErrOther.Wrapf("%q changed while being committed", pth)
	}
	if err = stageFs.Chmod(key, info.Mode().Perm()); err != nil {
		return 0, status.ErrIO.Wrap(fmt.Errorf("copy %q: %w", pth, err))
	}
	return reader.n, nil
}

// Load reads back the tree persisted for a commit
func (s *SnapshotStore) Load(ctx context.Context, commitID string) (*Snapshot, error) {
	if !model.IsValidCommitRef(commitID) {
		return nil, status.ErrCommitNotFound.Wrapf("%q", commitID)
	}
	record, err := storage.ReadAll(ctx, s.commitStore(commitID), model.GetCommitTreeKey())
	if err != nil {
		if errs.Is(err, storagestatus.ErrNotExists) {
			return nil, status.ErrCommitNotFound.Wrapf("%s", commitID)
		}
		return nil, status.ErrIO.Wrap(err)
	}
	tree, err := model.UnmarshalTree(record)
	if err != nil {
		return nil, status.ErrSerialization.Wrap(fmt.Errorf("commit %s: %w", commitID, err))
	}
	return &Snapshot{ID: commitID, Tree: tree}, nil
}

// ReadFile yields the content of a file as committed
func (s *SnapshotStore) ReadFile(ctx context.Context, commitID, pth string) ([]byte, error) {
	if !model.IsValidCommitRef(commitID) {
		return nil, status.ErrCommitNotFound.Wrapf("%q", commitID)
	}
	data, err := storage.ReadAll(ctx, s.commitStore(commitID), model.GetCommitDataKey(pth))
	if err != nil {
		return nil, status.ErrIO.Wrap(fmt.Errorf("reading %q from commit %s: %w", pth, commitID, err))
	}
	return data, nil
}

// Restore copies every file of a snapshot into dest.
//
// Directories are created as needed and existing files are overwritten, taking the
// permission bits they were committed with. Files in dest which are not part of the
// snapshot are left alone.
func (s *SnapshotStore) Restore(ctx context.Context, snap *Snapshot, dest afero.Fs) error {
	if snap == nil || snap.Tree == nil {
		return status.ErrOther.Wrap(errors.New("cannot restore a nil snapshot"))
	}
	store := s.commitStore(snap.ID)
	commitFs := afero.NewBasePathFs(s.fs, model.GetPathToCommit(snap.ID))

	return snap.Tree.Walk(func(pth string, n model.Node) error {
		switch n.(type) {
		case *model.Directory:
			if err := dest.MkdirAll(pth, 0755); err != nil {
				return status.ErrIO.Wrap(fmt.Errorf("creating %q: %w", pth, err))
			}
		case *model.File:
			if err := restoreFile(ctx, store, commitFs, dest, pth); err != nil {
				return err
			}
			s.logger.Debug("restored file", zap.String("commit", snap.ID), zap.String("path", pth))
		}
		return nil
	})
}

func restoreFile(ctx context.Context, store storage.Store, commitFs, dest afero.Fs, pth string) error {
	key := model.GetCommitDataKey(pth)
	info, err := commitFs.Stat(key)
	if err != nil {
		return status.ErrIO.Wrap(fmt.Errorf("reading committed %q: %w", pth, err))
	}
	mode := info.Mode().Perm()

	reader, err := store.Get(ctx, key)
	if err != nil {
		return status.ErrIO.Wrap(fmt.Errorf("reading committed %q: %w", pth, err))
	}
	defer reader.Close()

	if dir := path.Dir(pth); dir != "." {
		if err = dest.MkdirAll(dir, 0755); err != nil {
			return status.ErrIO.Wrap(fmt.Errorf("creating %q: %w", dir, err))
		}
	}
	target, err := dest.OpenFile(pth, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return status.ErrIO.Wrap(fmt.Errorf("restoring %q: %w", pth, err))
	}
	if _, err = io.Copy(target, reader); err != nil {
		_ = target.Close()
		return status.ErrIO.Wrap(fmt.Errorf("restoring %q: %w", pth, err))
	}
	if err = target.Close(); err != nil {
		return status.ErrIO.Wrap(fmt.Errorf("restoring %q: %w", pth, err))
	}
	// an existing file keeps its mode on truncation
	if err = dest.Chmod(pth, mode); err != nil {
		return status.ErrIO.Wrap(fmt.Errorf("restoring %q: %w", pth, err))
	}
	return nil
}
