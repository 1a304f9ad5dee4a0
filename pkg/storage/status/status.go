// Copyright © 2018 One Concern

// Package status declares error constants returned by
// implementations of the Store interface.
//
// NOTE: such constants are located in a separate package to avoid
// creating undue cyclical dependencies between pkg/storage and one
// of its implementions.
package status

import "github.com/oneconcern/snapvcs/pkg/errors"

var (
	// ErrNotExists indicates that the fetched object does not exist on storage
	ErrNotExists = errors.New("object doesn't exist")

	// ErrExists indicates that an exclusive put found an existing object
	ErrExists = errors.New("exists already")

	// ErrInvalidKey indicates a key that collides with the store's own bookkeeping
	ErrInvalidKey = errors.New("invalid key")
)
