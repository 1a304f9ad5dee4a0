package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/nightlyone/lockfile"
	"github.com/oneconcern/snapvcs/pkg/model"
	"go.uber.org/zap"
)

const (
	lockRetryInterval = 50 * time.Millisecond
	lockMaxRetries    = 40
)

// acquireLock takes the writer lock of a repository, waiting a little while another
// snapvcs process holds it. The returned func releases the lock.
func acquireLock(root string) (func(), error) {
	abs, err := filepath.Abs(filepath.Join(root, filepath.FromSlash(model.GetPathToLock())))
	if err != nil {
		return nil, err
	}
	lock, err := lockfile.New(abs)
	if err != nil {
		return nil, err
	}

	operation := func() error {
		err := lock.TryLock()
		if err == nil {
			return nil
		}
		if te, ok := err.(interface{ Temporary() bool }); ok && te.Temporary() {
			logger.Debug("repository is locked, retrying", zap.String("lock", abs), zap.Error(err))
			return err
		}
		return backoff.Permanent(err)
	}
	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(lockRetryInterval), lockMaxRetries)
	if err = backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("another snapvcs process holds %s: %w", abs, err)
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("could not release lock", zap.String("lock", abs), zap.Error(err))
		}
	}, nil
}
