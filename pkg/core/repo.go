/*
 * Copyright © 2019 One Concern
 *
 */

package core

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oneconcern/snapvcs/pkg/config"
	"github.com/oneconcern/snapvcs/pkg/core/status"
	"github.com/oneconcern/snapvcs/pkg/model"
	"github.com/oneconcern/snapvcs/pkg/storage"
	"github.com/oneconcern/snapvcs/pkg/storage/localfs"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Repository is a working tree along with its control directory
type Repository struct {
	root       string
	fs         afero.Fs
	ignoreList []string
	logger     *zap.Logger
	now        func() time.Time
	err        error

	ignore    *IgnoreSet
	snapshots *SnapshotStore
}

func defaultRepository() *Repository {
	r := &Repository{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	r.root, r.fs, r.err = osRoot(".")
	return r
}

// NewRepository builds a repository.
//
// The default repository is rooted at the current directory of the process.
func NewRepository(opts ...RepositoryOption) (*Repository, error) {
	r := defaultRepository()
	for _, apply := range opts {
		apply(r)
	}
	if r.err != nil {
		return nil, status.ErrIO.Wrap(r.err)
	}

	ignore, err := NewIgnoreSet(r.ignoreList...)
	if err != nil {
		return nil, err
	}
	r.ignore = ignore
	r.snapshots = NewSnapshotStore(r.fs, r.logger)
	return r, nil
}

// Root yields the directory of the working tree, when known
func (r *Repository) Root() string {
	return r.root
}

// Fs yields the file system rooted at the working tree
func (r *Repository) Fs() afero.Fs {
	return r.fs
}

// Snapshots yields the store of persisted commits
func (r *Repository) Snapshots() *SnapshotStore {
	return r.snapshots
}

// IgnoreList yields the names and patterns excluded from snapshots
func (r *Repository) IgnoreList() []string {
	return r.ignore.List()
}

// IsInitialized tells if the control directory and its bookkeeping files exist
func (r *Repository) IsInitialized() bool {
	for _, pth := range []string{model.GetPathToControlDir(), model.GetPathToLog(), model.GetPathToPointer()} {
		if _, err := r.fs.Stat(pth); err != nil {
			return false
		}
	}
	return true
}

// Init creates the control directory of an empty repository.
//
// Init writes a default configuration file unless one is already present.
func (r *Repository) Init(ctx context.Context) error {
	if r.IsInitialized() {
		return status.ErrAlreadyInitialized
	}

	for _, dir := range []string{model.GetPathToCommits(), model.GetPathToStaging()} {
		if err := r.fs.MkdirAll(dir, 0755); err != nil {
			return status.ErrIO.Wrap(fmt.Errorf("creating %q: %w", dir, err))
		}
	}

	defaults, err := config.Default().YAML()
	if err != nil {
		return status.ErrSerialization.Wrap(err)
	}

	control := localfs.New(afero.NewBasePathFs(r.fs, model.GetPathToControlDir()))
	files := []struct {
		key     string
		content []byte
	}{
		{key: model.GetPointerKey()},
		{key: logKey()},
		{key: configKey(), content: defaults},
	}
	for _, file := range files {
		has, err := control.Has(ctx, file.key)
		if err != nil {
			return status.ErrIO.Wrap(err)
		}
		if has {
			continue
		}
		if err = control.Put(ctx, file.key, bytes.NewReader(file.content), storage.NoOverWrite); err != nil {
			return status.ErrIO.Wrap(fmt.Errorf("creating %q: %w", file.key, err))
		}
	}

	r.logger.Info("initialized repository", zap.String("root", r.root))
	return nil
}

func logKey() string {
	return strings.TrimPrefix(model.GetPathToLog(), model.GetPathToControlDir()+"/")
}

func configKey() string {
	return strings.TrimPrefix(model.GetPathToConfig(), model.GetPathToControlDir()+"/")
}

// Current yields the id of the active commit, or an empty string when nothing has been committed
func (r *Repository) Current(_ context.Context) (string, error) {
	if !r.IsInitialized() {
		return "", status.ErrUninitialized
	}
	data, err := afero.ReadFile(r.fs, model.GetPathToPointer())
	if err != nil {
		return "", status.ErrIO.Wrap(fmt.Errorf("reading current commit: %w", err))
	}
	return strings.TrimSpace(string(data)), nil
}

// writePointer replaces the current commit pointer
func (r *Repository) writePointer(ctx context.Context, commitID string) error {
	control, err := localfs.NewAtomic(afero.NewBasePathFs(r.fs, model.GetPathToControlDir()))
	if err != nil {
		return status.ErrIO.Wrap(err)
	}
	if err = control.Put(ctx, model.GetPointerKey(), strings.NewReader(commitID), storage.OverWrite); err != nil {
		return status.ErrIO.Wrap(fmt.Errorf("updating current commit: %w", err))
	}
	return nil
}

// appendLog adds a record at the end of the commit log
func (r *Repository) appendLog(record model.LogRecord) error {
	f, err := r.fs.OpenFile(model.GetPathToLog(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return status.ErrIO.Wrap(fmt.Errorf("opening log: %w", err))
	}
	if _, err = f.WriteString(record.String() + "\n"); err != nil {
		_ = f.Close()
		return status.ErrIO.Wrap(fmt.Errorf("appending to log: %w", err))
	}
	if err = f.Close(); err != nil {
		return status.ErrIO.Wrap(fmt.Errorf("appending to log: %w", err))
	}
	return nil
}

// snapshot builds the tree of the working tree as it stands
func (r *Repository) snapshot() (*model.Root, error) {
	return NewTreeBuilder(r.fs, r.ignore, r.logger).Build(".")
}

// pending computes the changes of the working tree against the current commit.
//
// The live tree is returned along with the diff.
func (r *Repository) pending(ctx context.Context) (pointer string, live, diff *model.Root, err error) {
	pointer, err = r.Current(ctx)
	if err != nil {
		return "", nil, nil, err
	}
	live, err = r.snapshot()
	if err != nil {
		return "", nil, nil, err
	}

	if pointer == "" {
		diff = live.Stamp(model.KindNew)
	} else {
		snap, err := r.snapshots.Load(ctx, pointer)
		if err != nil {
			return "", nil, nil, err
		}
		if diff, err = Diff(live, snap.Tree); err != nil {
			return "", nil, nil, err
		}
	}

	// directories holding no file are recorded with the next commit but are not changes on their own
	if diff.IsEmpty() || diff.FileCount() == 0 {
		return pointer, live, nil, nil
	}
	return pointer, live, diff, nil
}
