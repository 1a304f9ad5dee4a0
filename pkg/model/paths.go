package model

import (
	"path"
	"regexp"
)

const (
	// ControlDir is the name of the directory holding repository metadata, relative to the working tree root
	ControlDir = ".snapvcs"

	commitsDir   = "commits"
	stagingDir   = "staging"
	metaDir      = "meta"
	dataDir      = "data"
	treeFile     = "tree.json"
	logFile      = "log"
	pointerFile  = "current"
	configFile   = "config.yaml"
	lockFileName = "lock"
)

var commitIDRe = regexp.MustCompile(`^[0-9a-f]{4,64}$`)

// IsValidCommitRef tells if a string may reference a commit, either as a full id or a prefix.
//
// This guards path construction against references escaping the commits area.
func IsValidCommitRef(ref string) bool {
	return commitIDRe.MatchString(ref)
}

// GetPathToControlDir yields the path to the control directory
func GetPathToControlDir() string {
	return ControlDir
}

// GetPathToCommits yields the path to the area holding all commits
func GetPathToCommits() string {
	return path.Join(ControlDir, commitsDir)
}

// GetPathToCommit yields the commit-scoped area for a commit id
func GetPathToCommit(commitID string) string {
	return path.Join(ControlDir, commitsDir, commitID)
}

// GetPathToStaging yields the area where commits are prepared before being moved into place
func GetPathToStaging() string {
	return path.Join(ControlDir, stagingDir)
}

// GetPathToStage yields a staging area for a single in-flight commit
func GetPathToStage(token string) string {
	return path.Join(ControlDir, stagingDir, token)
}

// GetCommitTreeKey yields the key of the tree record, relative to a commit-scoped area
func GetCommitTreeKey() string {
	return path.Join(metaDir, treeFile)
}

// GetCommitDataKey yields the key of a file copy, relative to a commit-scoped area
func GetCommitDataKey(pth string) string {
	return path.Join(dataDir, pth)
}

// GetPathToCommitTree yields the path to the tree record of a commit
func GetPathToCommitTree(commitID string) string {
	return path.Join(GetPathToCommit(commitID), GetCommitTreeKey())
}

// GetPathToCommitData yields the path to the copy of a file in a commit
func GetPathToCommitData(commitID, pth string) string {
	return path.Join(GetPathToCommit(commitID), GetCommitDataKey(pth))
}

// GetPathToLog yields the path to the append-only commit log
func GetPathToLog() string {
	return path.Join(ControlDir, logFile)
}

// GetPathToPointer yields the path to the current pointer file
func GetPathToPointer() string {
	return path.Join(ControlDir, pointerFile)
}

// GetPathToConfig yields the path to the repository configuration file
func GetPathToConfig() string {
	return path.Join(ControlDir, configFile)
}

// GetPathToLock yields the path to the advisory lock file
func GetPathToLock() string {
	return path.Join(ControlDir, lockFileName)
}

// GetPointerKey yields the key of the current pointer, relative to the control directory
func GetPointerKey() string {
	return pointerFile
}
