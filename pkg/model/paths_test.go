package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommitPaths(t *testing.T) {
	const id = "0123abcd"
	assert.Equal(t, ".snapvcs/commits", GetPathToCommits())
	assert.Equal(t, ".snapvcs/commits/0123abcd", GetPathToCommit(id))
	assert.Equal(t, ".snapvcs/commits/0123abcd/meta/tree.json", GetPathToCommitTree(id))
	assert.Equal(t, ".snapvcs/commits/0123abcd/data/src/main.go", GetPathToCommitData(id, "src/main.go"))
	assert.Equal(t, "meta/tree.json", GetCommitTreeKey())
	assert.Equal(t, "data/a.txt", GetCommitDataKey("a.txt"))
	assert.Equal(t, ".snapvcs/staging/tok", GetPathToStage("tok"))
}

func TestControlPaths(t *testing.T) {
	assert.Equal(t, ".snapvcs", GetPathToControlDir())
	assert.Equal(t, ".snapvcs/log", GetPathToLog())
	assert.Equal(t, ".snapvcs/current", GetPathToPointer())
	assert.Equal(t, ".snapvcs/config.yaml", GetPathToConfig())
	assert.Equal(t, ".snapvcs/lock", GetPathToLock())
	assert.Equal(t, ".snapvcs/staging", GetPathToStaging())
	assert.Equal(t, "current", GetPointerKey())
}

func TestIsValidCommitRef(t *testing.T) {
	for _, ref := range []string{"abcd", "0123456789abcdef0123456789abcdef01234567"} {
		assert.True(t, IsValidCommitRef(ref), ref)
	}
	for _, ref := range []string{"", "abc", "../x", "ABCD", "abcd/..", "abcd efgh"} {
		assert.False(t, IsValidCommitRef(ref), ref)
	}
}
