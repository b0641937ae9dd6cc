// Package carttree models the SD card's directory structure as last
// reported by the deployer. A tree is built fresh from parsed listing
// output on every remote command and never cached: the card is only
// reachable while the console is powered on, and its content can change
// out-of-band between sessions.
package carttree

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/breeze64/breeze/pkg/breeze/parser"
)

// ErrMalformedTree indicates a listing entry referenced a directory that
// had not been introduced yet. Building assumes the listing stream is in
// pre-order, which the recursive fetch guarantees by construction.
var ErrMalformedTree = errors.New("listing entry references unknown parent directory")

// Entry represents one file or directory on the SD card. Entries are
// owned exclusively by the tree that contains them.
type Entry struct {
	// Name is the entry's base name without any path separator.
	Name string

	// IsDir reports whether the entry is a directory.
	IsDir bool

	// Size is the file size in bytes when HasSize is true.
	Size    int64
	HasSize bool

	// Path is the fully qualified remote path, forward-slash separated,
	// always starting at root "/".
	Path string

	// Children preserves the order the deployer listed them.
	Children []*Entry
}

// Tree is an ordered hierarchy of entries rooted at a base directory.
type Tree struct {
	root   *Entry
	byPath map[string]*Entry
}

// Build constructs a tree from a flat pre-order entry sequence rooted at
// base. Each entry's depth selects its parent from a stack of open
// directories; an entry deeper than any open directory fails with
// ErrMalformedTree. Sibling names are unique; a duplicate keeps the
// first occurrence.
func Build(base string, entries []parser.Entry) (*Tree, error) {
	base = normalizePath(base)

	root := &Entry{
		Name:  baseName(base),
		IsDir: true,
		Path:  base,
	}
	t := &Tree{
		root:   root,
		byPath: map[string]*Entry{base: root},
	}

	// stack[d] is the open directory receiving entries at depth d.
	stack := []*Entry{root}

	for _, pe := range entries {
		if pe.Kind == parser.LineUnrecognized {
			continue
		}
		if pe.Depth >= len(stack) {
			return nil, fmt.Errorf("%w: %q at depth %d", ErrMalformedTree, pe.Name, pe.Depth)
		}
		stack = stack[:pe.Depth+1]
		parent := stack[pe.Depth]

		if hasChildNamed(parent, pe.Name) {
			continue
		}

		node := &Entry{
			Name:    pe.Name,
			IsDir:   pe.IsDir(),
			Size:    pe.Size,
			HasSize: pe.HasSize,
			Path:    joinPath(parent.Path, pe.Name),
		}
		parent.Children = append(parent.Children, node)
		t.byPath[node.Path] = node

		if node.IsDir {
			stack = append(stack, node)
		}
	}

	return t, nil
}

// Root returns the tree's root entry.
func (t *Tree) Root() *Entry {
	return t.root
}

// Find returns the entry at the exact path. There is no glob or
// wildcard matching.
func (t *Tree) Find(path string) (*Entry, bool) {
	e, ok := t.byPath[normalizePath(path)]
	return e, ok
}

// Children returns the entries directly under the given directory, in
// the order the deployer listed them. A missing or non-directory path
// yields nil.
func (t *Tree) Children(path string) []*Entry {
	e, ok := t.Find(path)
	if !ok || !e.IsDir {
		return nil
	}
	return e.Children
}

// SortedChildren returns a copy of a directory's children sorted by
// name, directories first. Consumers that want listing order use
// Children instead.
func (t *Tree) SortedChildren(path string) []*Entry {
	children := t.Children(path)
	if children == nil {
		return nil
	}

	sorted := make([]*Entry, len(children))
	copy(sorted, children)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	return sorted
}

// ContainsName reports whether the directory has a direct child with
// the given name. Matching is exact and case-sensitive.
func (t *Tree) ContainsName(dirPath, name string) bool {
	for _, child := range t.Children(dirPath) {
		if child.Name == name {
			return true
		}
	}
	return false
}

// NamesAt returns the set of child names directly under a directory.
func (t *Tree) NamesAt(dirPath string) map[string]struct{} {
	children := t.Children(dirPath)
	names := make(map[string]struct{}, len(children))
	for _, child := range children {
		names[child.Name] = struct{}{}
	}
	return names
}

// FileNames returns the set of file names anywhere in the tree.
// The diff planner matches against this set.
func (t *Tree) FileNames() map[string]struct{} {
	names := make(map[string]struct{})
	t.Walk(func(e *Entry) {
		if !e.IsDir {
			names[e.Name] = struct{}{}
		}
	})
	return names
}

// Files returns every file entry in the tree in pre-order.
func (t *Tree) Files() []*Entry {
	var files []*Entry
	t.Walk(func(e *Entry) {
		if !e.IsDir {
			files = append(files, e)
		}
	})
	return files
}

// Walk visits every entry below the root in pre-order, preserving
// listing order within each directory.
func (t *Tree) Walk(fn func(*Entry)) {
	var visit func(*Entry)
	visit = func(e *Entry) {
		for _, child := range e.Children {
			fn(child)
			visit(child)
		}
	}
	visit(t.root)
}

// hasChildNamed reports whether dir already has a child with that name.
func hasChildNamed(dir *Entry, name string) bool {
	for _, child := range dir.Children {
		if child.Name == name {
			return true
		}
	}
	return false
}

// normalizePath forces a leading slash and strips any trailing one,
// leaving "/" itself intact.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// joinPath appends a name to a parent path with exactly one separator.
func joinPath(parent, name string) string {
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}

// baseName returns the last path element, or "/" for the root.
func baseName(path string) string {
	if path == "/" {
		return "/"
	}
	idx := strings.LastIndex(path, "/")
	return path[idx+1:]
}
