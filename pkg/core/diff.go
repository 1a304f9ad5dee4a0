package core

import (
	"errors"
	"path"

	"github.com/oneconcern/snapvcs/pkg/core/status"
	"github.com/oneconcern/snapvcs/pkg/model"
)

// Diff computes the structural difference between two snapshots.
//
// A nil tree with no error means there is no difference. Otherwise, the result
// holds only changed entries: files are tagged model.KindModified when present in
// both snapshots with different content, model.KindNew when only present in current,
// model.KindDeleted when only present in previous.
//
// Entries are paired by name. A path that is a file on one side and a directory on
// the other yields status.ErrTypeChanged.
func Diff(current, previous *model.Root) (*model.Root, error) {
	if current == nil || previous == nil {
		return nil, status.ErrOther.Wrap(errors.New("diff requires two complete snapshots"))
	}
	children, err := diffChildren("", current.Children, previous.Children)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, nil
	}
	return model.NewRoot(current.Name, children...), nil
}

func diffNode(pth string, current, previous model.Node) (model.Node, error) {
	switch cur := current.(type) {
	case *model.File:
		prev, ok := previous.(*model.File)
		if !ok {
			return nil, status.ErrTypeChanged.Wrapf("%q was a directory and is now a file", pth)
		}
		if cur.Hash == prev.Hash {
			return nil, nil
		}
		return model.NewFile(cur.Name, cur.Hash, model.KindModified), nil

	case *model.Directory:
		prev, ok := previous.(*model.Directory)
		if !ok {
			return nil, status.ErrTypeChanged.Wrapf("%q was a file and is now a directory", pth)
		}
		children, err := diffChildren(pth, cur.Children, prev.Children)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			return nil, nil
		}
		return model.NewDirectory(cur.Name, children...), nil

	default:
		return nil, status.ErrOther.Wrapf("unsupported node %T at %q", current, pth)
	}
}

// diffChildren partitions two lists of siblings by name: entries in both are
// compared recursively, the others are kept whole and stamped.
func diffChildren(parent string, current, previous []model.Node) ([]model.Node, error) {
	previousByName := make(map[string]model.Node, len(previous))
	for _, n := range previous {
		if _, dupe := previousByName[n.NodeName()]; !dupe {
			previousByName[n.NodeName()] = n
		}
	}

	currentNames := make(map[string]struct{}, len(current))
	var changed, added, deleted []model.Node

	for _, n := range current {
		name := n.NodeName()
		if _, dupe := currentNames[name]; dupe {
			continue
		}
		currentNames[name] = struct{}{}

		prev, common := previousByName[name]
		if !common {
			added = append(added, model.Stamp(n, model.KindNew))
			continue
		}
		d, err := diffNode(path.Join(parent, name), n, prev)
		if err != nil {
			return nil, err
		}
		if d != nil {
			changed = append(changed, d)
		}
	}

	for _, n := range previous {
		if _, common := currentNames[n.NodeName()]; common {
			continue
		}
		if previousByName[n.NodeName()] != n {
			continue
		}
		deleted = append(deleted, model.Stamp(n, model.KindDeleted))
	}

	result := make([]model.Node, 0, len(changed)+len(added)+len(deleted))
	result = append(result, changed...)
	result = append(result, added...)
	return append(result, deleted...), nil
}
