// Package object holds the content-addressed tree representation the
// diff engine compares, and the default TreeWalker collaborator
// (spec §6) that produces sorted diff tuples and post-order blob
// walks over it.
package object

import (
	"sort"

	"github.com/go-vcsdiff/vcsdiff/filemode"
	"github.com/go-vcsdiff/vcsdiff/hash"
)

// TreeEntry is one named child of a Tree: a mode and a content hash.
// A Dir-mode entry's Hash addresses another Tree; any other mode
// addresses a blob.
type TreeEntry struct {
	Name string
	Mode filemode.FileMode
	Hash hash.Hash
}

// Tree is an ordered mapping from name to (mode, hash), itself
// content-addressed. Entries are kept sorted by Name so every
// consumer (C2's recursion, C3's post-order walk) can rely on a
// single sort order.
type Tree struct {
	entries []TreeEntry
}

// NewTree builds a Tree from entries, sorting them by name. Panics are
// never raised on duplicate names; the last one wins, mirroring how a
// map literal would behave, since a content-addressed tree can never
// legitimately contain duplicates.
func NewTree(entries []TreeEntry) *Tree {
	cp := make([]TreeEntry, len(entries))
	copy(cp, entries)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Name < cp[j].Name })
	out := cp[:0]
	for _, e := range cp {
		if n := len(out); n > 0 && out[n-1].Name == e.Name {
			out[n-1] = e
			continue
		}
		out = append(out, e)
	}
	return &Tree{entries: out}
}

// Entries returns the tree's children in sorted order. The returned
// slice must not be mutated by the caller.
func (t *Tree) Entries() []TreeEntry {
	if t == nil {
		return nil
	}
	return t.entries
}

// Entry looks up a single named child.
func (t *Tree) Entry(name string) (TreeEntry, bool) {
	if t == nil {
		return TreeEntry{}, false
	}
	i := sort.Search(len(t.entries), func(i int) bool { return t.entries[i].Name >= name })
	if i < len(t.entries) && t.entries[i].Name == name {
		return t.entries[i], true
	}
	return TreeEntry{}, false
}
