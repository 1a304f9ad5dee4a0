package core

import (
	"context"
	"strings"

	"github.com/oneconcern/snapvcs/pkg/core/status"
	"github.com/oneconcern/snapvcs/pkg/model"
	"go.uber.org/zap"
)

// Resolve finds the commit designated by a reference: either a full commit id or
// a prefix of exactly one id in the log.
func (r *Repository) Resolve(ctx context.Context, ref string) (string, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if !model.IsValidCommitRef(ref) {
		return "", status.ErrCommitNotFound.Wrapf("%q", ref)
	}
	exists, err := r.snapshots.Exists(ref)
	if err != nil {
		return "", err
	}
	if exists {
		return ref, nil
	}

	records, err := r.Log(ctx)
	if err != nil {
		return "", err
	}
	var matches []string
	seen := make(map[string]struct{}, len(records))
	for _, record := range records {
		if _, ok := seen[record.ID]; ok {
			continue
		}
		seen[record.ID] = struct{}{}
		if strings.HasPrefix(record.ID, ref) {
			matches = append(matches, record.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", status.ErrCommitNotFound.Wrapf("%q", ref)
	case 1:
		return matches[0], nil
	default:
		return "", status.ErrAmbiguousCommit.Wrapf("%q matches %s", ref, strings.Join(matches, ", "))
	}
}

// Checkout restores the working tree to a commit, which becomes the current one.
//
// Checkout refuses to run over uncommitted changes. Files which are not part of the
// commit are left in place.
func (r *Repository) Checkout(ctx context.Context, ref string) (string, error) {
	if !r.IsInitialized() {
		return "", status.ErrUninitialized
	}
	_, _, diff, err := r.pending(ctx)
	if err != nil {
		return "", err
	}
	if diff != nil {
		return "", status.ErrUncommittedChanges
	}

	id, err := r.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	snap, err := r.snapshots.Load(ctx, id)
	if err != nil {
		return "", err
	}
	if err = r.snapshots.Restore(ctx, snap, r.fs); err != nil {
		return "", err
	}
	if err = r.writePointer(ctx, id); err != nil {
		return "", err
	}

	r.logger.Info("checked out commit", zap.String("id", id), zap.Int("files", snap.Tree.FileCount()))
	return id, nil
}
