package core

import (
	"bytes"
	"context"
	"fmt"

	"github.com/oneconcern/snapvcs/pkg/core/status"
	"github.com/oneconcern/snapvcs/pkg/model"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"
)

const patchContext = 3

// Patch renders a unified diff of a changed file, from its committed content to its working content.
//
// New files are compared against an empty file, deleted files against one.
func (r *Repository) Patch(ctx context.Context, report *StatusReport, pth string) (string, error) {
	change, ok := findChange(report, pth)
	if !ok {
		return "", nil
	}

	var before, after []byte
	var err error
	if change.Kind != model.KindNew {
		if before, err = r.snapshots.ReadFile(ctx, report.Pointer, pth); err != nil {
			return "", err
		}
	}
	if change.Kind != model.KindDeleted {
		if after, err = afero.ReadFile(r.fs, pth); err != nil {
			return "", status.ErrIO.Wrap(fmt.Errorf("reading %q: %w", pth, err))
		}
	}

	from, to := "a/"+pth, "b/"+pth
	switch change.Kind {
	case model.KindNew:
		from = "/dev/null"
	case model.KindDeleted:
		to = "/dev/null"
	}
	if isBinary(before) || isBinary(after) {
		return fmt.Sprintf("Binary files %s and %s differ\n", from, to), nil
	}

	patch, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: from,
		ToFile:   to,
		Context:  patchContext,
	})
	if err != nil {
		return "", status.ErrOther.Wrap(err)
	}
	return patch, nil
}

func findChange(report *StatusReport, pth string) (model.PathKind, bool) {
	for _, change := range report.Paths() {
		if change.Path == pth {
			return change, true
		}
	}
	return model.PathKind{}, false
}

func isBinary(content []byte) bool {
	return bytes.IndexByte(content, 0) >= 0
}
