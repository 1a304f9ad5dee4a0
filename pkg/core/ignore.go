package core

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/oneconcern/snapvcs/pkg/model"
)

// IgnoreSet holds the names excluded from snapshots.
//
// An entry matches a directory entry name either exactly or as a glob pattern.
// The control directory is always ignored.
type IgnoreSet struct {
	names    map[string]struct{}
	patterns []string
	list     []string
}

// NewIgnoreSet builds an ignore set from names and glob patterns
func NewIgnoreSet(entries ...string) (*IgnoreSet, error) {
	s := &IgnoreSet{names: make(map[string]struct{}, len(entries)+1)}
	for _, entry := range append([]string{model.ControlDir}, entries...) {
		if entry == "" {
			continue
		}
		if _, ok := s.names[entry]; ok {
			continue
		}
		s.names[entry] = struct{}{}
		s.list = append(s.list, entry)

		if !isPattern(entry) {
			continue
		}
		if _, err := doublestar.Match(entry, ""); err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %v", entry, err)
		}
		s.patterns = append(s.patterns, entry)
	}
	return s, nil
}

func isPattern(entry string) bool {
	return strings.ContainsAny(entry, `*?[{\`)
}

// Ignored tells if a directory entry name is excluded
func (s *IgnoreSet) Ignored(name string) bool {
	if _, ok := s.names[name]; ok {
		return true
	}
	for _, pattern := range s.patterns {
		if match, _ := doublestar.Match(pattern, name); match {
			return true
		}
	}
	return false
}

// List yields the entries of the set, the control directory first
func (s *IgnoreSet) List() []string {
	return append([]string(nil), s.list...)
}
