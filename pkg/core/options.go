package core

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// RepositoryOption is a functor to build a repository with some options
type RepositoryOption func(*Repository)

// RepoFs sets the file system rooted at the working tree
func RepoFs(fs afero.Fs) RepositoryOption {
	return func(r *Repository) {
		r.fs = fs
		r.err = nil
	}
}

// RepoRoot roots the repository at a directory of the local file system.
//
// A relative root is resolved against the current directory of the process. An empty root stands for it.
func RepoRoot(root string) RepositoryOption {
	return func(r *Repository) {
		r.root, r.fs, r.err = osRoot(root)
	}
}

// osRoot builds a file system jailed at an absolute directory.
//
// afero.BasePathFs only resolves names under an absolute base path.
func osRoot(root string) (string, afero.Fs, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return root, nil, fmt.Errorf("resolving repository root %q: %w", root, err)
	}
	return abs, afero.NewBasePathFs(afero.NewOsFs(), abs), nil
}

// Ignore sets the names and patterns excluded from snapshots, in addition to the control directory
func Ignore(entries ...string) RepositoryOption {
	return func(r *Repository) {
		r.ignoreList = entries
	}
}

// Logger sets the logger of a repository
func Logger(l *zap.Logger) RepositoryOption {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// Clock sets the source of commit timestamps
func Clock(now func() time.Time) RepositoryOption {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}
