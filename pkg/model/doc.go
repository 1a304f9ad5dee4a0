// Package model describes the base objects manipulated by snapvcs.
//
// The package exposes a model for snapshots and their metadata.
//
// The object model for snapvcs is composed of:
//
//  Trees:
//    A tree is a recursive record of a directory's structure and of the content
//    digest of every file in it. A complete snapshot is a Root; subtrees are
//    Directory and File nodes.
//
//  Commits:
//    A commit is an immutable, identified tree, persisted together with a physical
//    copy of every file it describes.
//
//  Log:
//    An append-only record of commits, one line per commit.
//
//  Current pointer:
//    The id of the commit the working tree is checked out against.
package model
