package core

import (
	"context"

	"github.com/oneconcern/snapvcs/pkg/core/status"
	"github.com/oneconcern/snapvcs/pkg/model"
)

// StatusReport describes the changes of a working tree against its current commit
type StatusReport struct {
	Pointer string
	Diff    *model.Root
}

// IsClean tells if the working tree matches the current commit
func (s *StatusReport) IsClean() bool {
	return s == nil || s.Diff == nil
}

// Paths lists changed files along with their kind of change
func (s *StatusReport) Paths() []model.PathKind {
	if s.IsClean() {
		return nil
	}
	return s.Diff.Paths()
}

// Status compares the working tree with the current commit.
//
// With no current commit, every file of the working tree is reported as new.
// Status does not write anything.
func (r *Repository) Status(ctx context.Context) (*StatusReport, error) {
	if !r.IsInitialized() {
		return nil, status.ErrUninitialized
	}
	pointer, _, diff, err := r.pending(ctx)
	if err != nil {
		return nil, err
	}
	return &StatusReport{Pointer: pointer, Diff: diff}, nil
}
