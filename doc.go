/*
Package snapvcs provides a minimal version control tool for a single working directory.

Commits are full snapshots: a tree of content digests, along with a copy of every
file. Changes are computed by comparing the live working tree with the current
commit, and any recorded commit may be restored into the working tree.

The CLI lives in cmd/snapvcs. The engine lives in pkg/core.
*/
package snapvcs
