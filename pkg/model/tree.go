// Copyright © 2018 One Concern

package model

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"path"
)

// DigestSize is the size in bytes of a content digest
const DigestSize = 32

// Digest is the content hash of a file
type Digest [DigestSize]byte

// String renders the digest as hex
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// MarshalText implements encoding.TextMarshaler
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Digest) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("invalid digest %q: %v", text, err)
	}
	if len(b) != DigestSize {
		return fmt.Errorf("invalid digest %q: expected %d bytes, got %d", text, DigestSize, len(b))
	}
	copy(d[:], b)
	return nil
}

// Kind qualifies a file in a diff result.
//
// Trees built from a directory tag every file with KindNew.
type Kind uint8

const (
	// KindNew marks a file with no counterpart in the previous tree
	KindNew Kind = iota
	// KindDeleted marks a file with no counterpart in the current tree
	KindDeleted
	// KindModified marks a file present in both trees with different content
	KindModified
)

var kindStrings = map[Kind]string{
	KindNew:      "new",
	KindDeleted:  "deleted",
	KindModified: "modified",
}

func (k Kind) String() string {
	if s, ok := kindStrings[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	s, ok := kindStrings[k]
	if !ok {
		return nil, fmt.Errorf("invalid kind %d", uint8(k))
	}
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, s := range kindStrings {
		if s == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("invalid kind %q", text)
}

// Node is an entry nested in a snapshot: a *File or a *Directory.
//
// A Root is not a Node and may not be nested.
type Node interface {
	NodeName() string
	node()
}

// File is a leaf of a tree
type File struct {
	Name string
	Hash Digest
	Kind Kind
}

// NodeName yields the name of the file within its parent
func (f *File) NodeName() string { return f.Name }
func (*File) node()               {}

// Directory is an inner node of a tree
type Directory struct {
	Name     string
	Children []Node
}

// NodeName yields the name of the directory within its parent
func (d *Directory) NodeName() string { return d.Name }
func (*Directory) node()               {}

// Root is a complete snapshot.
//
// It is structurally a directory, but is kept as a distinct type so that only
// complete snapshots may be persisted, restored or compared.
type Root struct {
	Name     string
	Children []Node
}

// NewFile builds a file node
func NewFile(name string, hash Digest, kind Kind) *File {
	return &File{Name: name, Hash: hash, Kind: kind}
}

// NewDirectory builds a directory node
func NewDirectory(name string, children ...Node) *Directory {
	return &Directory{Name: name, Children: children}
}

// NewRoot builds a complete snapshot
func NewRoot(name string, children ...Node) *Root {
	return &Root{Name: name, Children: children}
}

// SameEntity tells if two nodes stand for the same entity within a parent.
//
// Identity is the name only: content hash and kind are not considered.
func SameEntity(a, b Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.NodeName() == b.NodeName()
}

// Stamp returns a copy of a subtree with every contained file tagged with kind k
func Stamp(n Node, k Kind) Node {
	switch t := n.(type) {
	case *File:
		return NewFile(t.Name, t.Hash, k)
	case *Directory:
		return NewDirectory(t.Name, stampAll(t.Children, k)...)
	default:
		panic(fmt.Sprintf("unsupported node type %T", n))
	}
}

func stampAll(nodes []Node, k Kind) []Node {
	if len(nodes) == 0 {
		return nil
	}
	stamped := make([]Node, 0, len(nodes))
	for _, child := range nodes {
		stamped = append(stamped, Stamp(child, k))
	}
	return stamped
}

// Stamp returns a copy of the snapshot with every file tagged with kind k
func (r *Root) Stamp(k Kind) *Root {
	return NewRoot(r.Name, stampAll(r.Children, k)...)
}

// IsEmpty tells if the snapshot has no entry at all
func (r *Root) IsEmpty() bool {
	return r == nil || len(r.Children) == 0
}

// PathKind is a file path in a tree, along with its kind
type PathKind struct {
	Path string
	Kind Kind
}

func (p PathKind) String() string {
	return p.Kind.String() + "\t" + p.Path
}

// Paths lists all files in the snapshot, depth first, with paths relative to the root
func (r *Root) Paths() []PathKind {
	var paths []PathKind
	_ = r.Walk(func(pth string, n Node) error {
		if f, ok := n.(*File); ok {
			paths = append(paths, PathKind{Path: pth, Kind: f.Kind})
		}
		return nil
	})
	return paths
}

// WalkFunc is called for every node in a snapshot, with the slash-separated path of the node
type WalkFunc func(pth string, n Node) error

// Walk visits the snapshot depth first, parents before children.
//
// Walking stops at the first error returned by fn.
func (r *Root) Walk(fn WalkFunc) error {
	if r == nil {
		return nil
	}
	return walkNodes("", r.Children, fn)
}

func walkNodes(parent string, nodes []Node, fn WalkFunc) error {
	for _, n := range nodes {
		pth := path.Join(parent, n.NodeName())
		if err := fn(pth, n); err != nil {
			return err
		}
		if d, ok := n.(*Directory); ok {
			if err := walkNodes(pth, d.Children, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// FileCount yields the number of files in the snapshot
func (r *Root) FileCount() int {
	return len(r.Paths())
}

// Equal compares two snapshots structurally: names, hashes, kinds and children order
func Equal(a, b *Root) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name && equalNodes(a.Children, b.Children)
}

func equalNodes(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalNode(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalNode(a, b Node) bool {
	switch x := a.(type) {
	case *File:
		y, ok := b.(*File)
		return ok && x.Name == y.Name && x.Kind == y.Kind && bytes.Equal(x.Hash[:], y.Hash[:])
	case *Directory:
		y, ok := b.(*Directory)
		return ok && x.Name == y.Name && equalNodes(x.Children, y.Children)
	default:
		return false
	}
}
