package core

import (
	"context"
	"encoding/hex"
	"strings"
	"time"

	"github.com/oneconcern/snapvcs/pkg/core/status"
	"github.com/oneconcern/snapvcs/pkg/model"
	"go.uber.org/zap"
)

const commitIDSize = 20

// NewCommitID derives a commit id from the instant a commit is made
func NewCommitID(t time.Time) string {
	sum, _ := HashReader(strings.NewReader(t.UTC().Format(time.RFC3339Nano)))
	return hex.EncodeToString(sum[:commitIDSize])
}

// CommitResult describes a new commit
type CommitResult struct {
	ID      string
	Parent  string
	Record  model.LogRecord
	Stats   PersistStats
	Changes *model.Root
}

// Commit records the working tree as a new commit, which becomes the current one.
//
// The complete live tree is persisted, not only the changes. When the log record is
// appended but the pointer cannot be updated, the log keeps the new record.
func (r *Repository) Commit(ctx context.Context, message string) (*CommitResult, error) {
	if !r.IsInitialized() {
		return nil, status.ErrUninitialized
	}
	parent, live, diff, err := r.pending(ctx)
	if err != nil {
		return nil, err
	}
	if diff == nil {
		return nil, status.ErrNothingToCommit
	}

	now := r.now()
	id := NewCommitID(now)
	stats, err := r.snapshots.Persist(ctx, id, live, r.fs)
	if err != nil {
		return nil, err
	}

	record := model.NewLogRecord(id, now, message)
	if err = r.appendLog(record); err != nil {
		return nil, err
	}
	if err = r.writePointer(ctx, id); err != nil {
		return nil, err
	}

	r.logger.Info("created commit",
		zap.String("id", id),
		zap.String("parent", parent),
		zap.Int("files", stats.Files),
		zap.Int64("bytes", stats.Bytes),
	)
	return &CommitResult{
		ID:      id,
		Parent:  parent,
		Record:  record,
		Stats:   stats,
		Changes: diff,
	}, nil
}
