// Copyright © 2018 One Concern

package model

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// wire representation of a snapshot: a tagged union, one variant key per node
type (
	treeRecord struct {
		Root *dirRecord `json:"root"`
	}

	nodeRecord struct {
		File      *fileRecord `json:"file,omitempty"`
		Directory *dirRecord  `json:"directory,omitempty"`
	}

	fileRecord struct {
		Name string `json:"name"`
		Hash Digest `json:"hash"`
		Kind Kind   `json:"kind"`
	}

	dirRecord struct {
		Name     string       `json:"name"`
		Children []nodeRecord `json:"children"`
	}
)

// MarshalTree serializes a snapshot as a JSON document
func MarshalTree(r *Root) ([]byte, error) {
	if r == nil {
		return nil, errors.New("cannot marshal a nil tree")
	}
	rec := treeRecord{Root: &dirRecord{Name: r.Name, Children: toRecords(r.Children)}}
	return json.MarshalIndent(rec, "", "  ")
}

func toRecords(nodes []Node) []nodeRecord {
	records := make([]nodeRecord, 0, len(nodes))
	for _, n := range nodes {
		switch t := n.(type) {
		case *File:
			records = append(records, nodeRecord{File: &fileRecord{Name: t.Name, Hash: t.Hash, Kind: t.Kind}})
		case *Directory:
			records = append(records, nodeRecord{Directory: &dirRecord{Name: t.Name, Children: toRecords(t.Children)}})
		}
	}
	return records
}

// UnmarshalTree deserializes a snapshot from a JSON document
func UnmarshalTree(data []byte) (*Root, error) {
	var rec treeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.Root == nil {
		return nil, errors.New(`tree record has no "root"`)
	}
	children, err := fromRecords(rec.Root.Children)
	if err != nil {
		return nil, err
	}
	return NewRoot(rec.Root.Name, children...), nil
}

func fromRecords(records []nodeRecord) ([]Node, error) {
	if len(records) == 0 {
		return nil, nil
	}
	nodes := make([]Node, 0, len(records))
	for i, rec := range records {
		switch {
		case rec.File != nil && rec.Directory != nil:
			return nil, fmt.Errorf("node #%d is both a file and a directory", i)
		case rec.File != nil:
			if rec.File.Name == "" {
				return nil, fmt.Errorf("file #%d has no name", i)
			}
			nodes = append(nodes, NewFile(rec.File.Name, rec.File.Hash, rec.File.Kind))
		case rec.Directory != nil:
			if rec.Directory.Name == "" {
				return nil, fmt.Errorf("directory #%d has no name", i)
			}
			children, err := fromRecords(rec.Directory.Children)
			if err != nil {
				return nil, fmt.Errorf("in %q: %v", rec.Directory.Name, err)
			}
			nodes = append(nodes, NewDirectory(rec.Directory.Name, children...))
		default:
			return nil, fmt.Errorf("node #%d is neither a file nor a directory", i)
		}
	}
	return nodes, nil
}
