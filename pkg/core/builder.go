package core

import (
	"fmt"
	"path"
	"unicode/utf8"

	"github.com/oneconcern/snapvcs/pkg/core/status"
	"github.com/oneconcern/snapvcs/pkg/model"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// RootName is the name given to the root of a snapshot built from a working tree
const RootName = "."

// TreeBuilder snapshots a directory into a tree
type TreeBuilder struct {
	fs     afero.Fs
	ignore *IgnoreSet
	logger *zap.Logger
}

// NewTreeBuilder creates a tree builder reading from fs
func NewTreeBuilder(fs afero.Fs, ignore *IgnoreSet, logger *zap.Logger) *TreeBuilder {
	if ignore == nil {
		ignore, _ = NewIgnoreSet()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TreeBuilder{fs: fs, ignore: ignore, logger: logger}
}

// Build snapshots the directory at root.
//
// Ignored entries are pruned before recursion. Every file is tagged model.KindNew.
// The builder only reads from the file system.
func Build(fs afero.Fs, root string, ignore *IgnoreSet) (*model.Root, error) {
	return NewTreeBuilder(fs, ignore, nil).Build(root)
}

// Build snapshots the directory at root
func (b *TreeBuilder) Build(root string) (*model.Root, error) {
	children, err := b.buildChildren(root)
	if err != nil {
		return nil, err
	}
	return model.NewRoot(RootName, children...), nil
}

func (b *TreeBuilder) buildChildren(dir string) ([]model.Node, error) {
	entries, err := afero.ReadDir(b.fs, dir)
	if err != nil {
		return nil, status.ErrIO.Wrap(fmt.Errorf("listing %q: %w", dir, err))
	}

	var children []model.Node
	for _, entry := range entries {
		name := entry.Name()
		pth := path.Join(dir, name)
		if b.ignore.Ignored(name) {
			b.logger.Debug("ignored entry", zap.String("path", pth))
			continue
		}
		if !utf8.ValidString(name) {
			return nil, status.ErrInvalidName.Wrapf("%q is not valid UTF-8", pth)
		}

		switch {
		case entry.IsDir():
			grandChildren, err := b.buildChildren(pth)
			if err != nil {
				return nil, err
			}
			children = append(children, model.NewDirectory(name, grandChildren...))
		case entry.Mode().IsRegular():
			digest, err := HashFile(b.fs, pth)
			if err != nil {
				return nil, err
			}
			b.logger.Debug("hashed file", zap.String("path", pth), zap.Stringer("hash", digest))
			children = append(children, model.NewFile(name, digest, model.KindNew))
		default:
			b.logger.Debug("skipped irregular entry", zap.String("path", pth), zap.Stringer("mode", entry.Mode()))
		}
	}
	return children, nil
}
