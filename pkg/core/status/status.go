// Copyright © 2018 One Concern

// Package status exports errors produced by the core package.
package status

import (
	"github.com/oneconcern/snapvcs/pkg/errors"
)

var (
	// ErrIO indicates a filesystem read, write or listing failure
	ErrIO = errors.New("i/o error")

	// ErrSerialization indicates a persisted tree record that is missing, unreadable or malformed
	ErrSerialization = errors.New("serialization error")

	// ErrCommitNotFound indicates that no persisted record exists for a commit id
	ErrCommitNotFound = ErrSerialization.Sub("commit not found")

	// ErrUninitialized indicates an operation attempted before init
	ErrUninitialized = errors.New("repository is not initialized: run snapvcs init")

	// ErrAlreadyInitialized is returned by a repeated init
	ErrAlreadyInitialized = errors.New("repository already initialized")

	// ErrInvalidName indicates a filesystem entry whose name is not portable text
	ErrInvalidName = errors.New("invalid entry name")

	// ErrNothingToCommit indicates an empty diff between the working tree and the current commit
	ErrNothingToCommit = errors.New("nothing to commit")

	// ErrUncommittedChanges indicates a working tree that differs from the current commit
	ErrUncommittedChanges = errors.New("uncommitted changes")

	// ErrTypeChanged indicates a path that is a file on one side and a directory on the other
	ErrTypeChanged = errors.New("entry type changed")

	// ErrCommitExists indicates a commit id that is already used by a persisted commit
	ErrCommitExists = errors.New("commit already exists")

	// ErrAmbiguousCommit indicates a commit prefix matching several commits
	ErrAmbiguousCommit = errors.New("ambiguous commit reference")

	// ErrOther is the catch-all for conditions not otherwise classified
	ErrOther = errors.New("unexpected error")
)
