package core

import (
	"testing"

	"github.com/oneconcern/snapvcs/pkg/core/status"
	"github.com/oneconcern/snapvcs/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func digestOf(t testing.TB, content string) model.Digest {
	var d model.Digest
	copy(d[:], content)
	return d
}

func sampleTree(t testing.TB) *model.Root {
	return model.NewRoot(RootName,
		model.NewFile("a.txt", digestOf(t, "a"), model.KindNew),
		model.NewDirectory("d",
			model.NewFile("b.txt", digestOf(t, "b"), model.KindNew),
			model.NewDirectory("e",
				model.NewFile("c.txt", digestOf(t, "c"), model.KindNew),
			),
		),
	)
}

func TestDiffIdentity(t *testing.T) {
	tree := sampleTree(t)
	d, err := Diff(tree, sampleTree(t))
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = Diff(model.NewRoot(RootName), model.NewRoot(RootName))
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestDiffAsymmetry(t *testing.T) {
	previous := sampleTree(t)
	current := model.NewRoot(RootName,
		model.NewFile("a.txt", digestOf(t, "a"), model.KindNew),
	)

	forward, err := Diff(current, previous)
	require.NoError(t, err)
	require.NotNil(t, forward)
	assert.Equal(t, []model.PathKind{
		{Path: "d/b.txt", Kind: model.KindDeleted},
		{Path: "d/e/c.txt", Kind: model.KindDeleted},
	}, forward.Paths())

	backward, err := Diff(previous, current)
	require.NoError(t, err)
	require.NotNil(t, backward)
	assert.Equal(t, []model.PathKind{
		{Path: "d/b.txt", Kind: model.KindNew},
		{Path: "d/e/c.txt", Kind: model.KindNew},
	}, backward.Paths())
}

func TestDiffModifiedAddedDeleted(t *testing.T) {
	previous := sampleTree(t)
	current := model.NewRoot(RootName,
		model.NewFile("new.txt", digestOf(t, "n"), model.KindNew),
		model.NewFile("a.txt", digestOf(t, "A"), model.KindNew),
		model.NewDirectory("d",
			model.NewFile("b.txt", digestOf(t, "b"), model.KindNew),
		),
	)

	d, err := Diff(current, previous)
	require.NoError(t, err)
	require.NotNil(t, d)

	// changed entries come first, then new ones, then deleted ones
	assert.Equal(t, []model.PathKind{
		{Path: "a.txt", Kind: model.KindModified},
		{Path: "d/e/c.txt", Kind: model.KindDeleted},
		{Path: "new.txt", Kind: model.KindNew},
	}, d.Paths())

	modified, ok := d.Children[0].(*model.File)
	require.True(t, ok)
	assert.Equal(t, digestOf(t, "A"), modified.Hash, "modified files carry the current hash")
}

func TestDiffReorderedChildren(t *testing.T) {
	previous := sampleTree(t)
	current := model.NewRoot(RootName,
		model.NewDirectory("d",
			model.NewDirectory("e",
				model.NewFile("c.txt", digestOf(t, "c"), model.KindNew),
			),
			model.NewFile("b.txt", digestOf(t, "b"), model.KindNew),
		),
		model.NewFile("a.txt", digestOf(t, "a"), model.KindNew),
	)

	d, err := Diff(current, previous)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestDiffIgnoresKind(t *testing.T) {
	d, err := Diff(sampleTree(t).Stamp(model.KindDeleted), sampleTree(t))
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestDiffTypeChanged(t *testing.T) {
	previous := sampleTree(t)
	current := model.NewRoot(RootName,
		model.NewFile("a.txt", digestOf(t, "a"), model.KindNew),
		model.NewFile("d", digestOf(t, "d"), model.KindNew),
	)

	_, err := Diff(current, previous)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrTypeChanged)
	assert.Contains(t, err.Error(), `"d"`)

	_, err = Diff(previous, current)
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrTypeChanged)
}

func TestDiffNil(t *testing.T) {
	_, err := Diff(nil, sampleTree(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, status.ErrOther)
}
