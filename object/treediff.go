package object

import (
	"fmt"
	"path"

	"github.com/go-vcsdiff/vcsdiff/filemode"
	"github.com/go-vcsdiff/vcsdiff/hash"
)

// TreeDiffStatus classifies one tuple of the tree-diff collaborator's
// output stream (spec §6 "Tree walker").
type TreeDiffStatus int

const (
	TreeDiffAdded TreeDiffStatus = iota
	TreeDiffDeleted
	TreeDiffModified
)

// TreeDiffEntry is one tuple yielded by Diff: (status, old_mode,
// new_mode, old_hash, new_hash, path). Diff has already split any
// type-flipped entry (blob became tree or vice versa) into a paired
// add+delete, so a single TreeDiffEntry never mixes directory and
// blob sides.
type TreeDiffEntry struct {
	Status  TreeDiffStatus
	OldMode filemode.FileMode
	NewMode filemode.FileMode
	OldHash hash.Hash
	NewHash hash.Hash
	Name    string
}

// Diff is the default, in-process implementation of the external
// "tree walker" collaborator (spec §6): it merges the sorted child
// lists of two trees and yields sorted tuples, splitting a
// blob↔directory type flip into a delete of one type and an add of
// the other so callers never have to special-case it (diff.c's
// git_tree_diff contract, reproduced by go-git's utils/difftree
// sorted two-pointer merge).
func Diff(old, new *Tree) []TreeDiffEntry {
	oldEntries := old.Entries()
	newEntries := new.Entries()

	var out []TreeDiffEntry
	i, j := 0, 0
	for i < len(oldEntries) && j < len(newEntries) {
		a, b := oldEntries[i], newEntries[j]
		switch {
		case a.Name < b.Name:
			out = append(out, deletedEntry(a))
			i++
		case a.Name > b.Name:
			out = append(out, addedEntry(b))
			j++
		default:
			out = append(out, sameNameEntries(a, b)...)
			i++
			j++
		}
	}
	for ; i < len(oldEntries); i++ {
		out = append(out, deletedEntry(oldEntries[i]))
	}
	for ; j < len(newEntries); j++ {
		out = append(out, addedEntry(newEntries[j]))
	}
	return out
}

func sameNameEntries(a, b TreeEntry) []TreeDiffEntry {
	aDir, bDir := a.Mode.IsDir(), b.Mode.IsDir()
	if aDir == bDir {
		if aDir || a.Hash != b.Hash || a.Mode != b.Mode {
			return []TreeDiffEntry{{
				Status: TreeDiffModified, OldMode: a.Mode, NewMode: b.Mode,
				OldHash: a.Hash, NewHash: b.Hash, Name: a.Name,
			}}
		}
		return nil
	}
	// type flip: pre-split into a delete of the old type and an add of the new type.
	return []TreeDiffEntry{deletedEntry(a), addedEntry(b)}
}

func deletedEntry(e TreeEntry) TreeDiffEntry {
	return TreeDiffEntry{Status: TreeDiffDeleted, OldMode: e.Mode, OldHash: e.Hash, Name: e.Name}
}

func addedEntry(e TreeEntry) TreeDiffEntry {
	return TreeDiffEntry{Status: TreeDiffAdded, NewMode: e.Mode, NewHash: e.Hash, Name: e.Name}
}

// TreeLookup resolves a Hash to the Tree it addresses; the tree half
// of spec §6's "object database" collaborator.
type TreeLookup interface {
	Tree(h hash.Hash) (*Tree, error)
}

// WalkBlobs performs the post-order walk spec §4.2 requires when only
// one side of a tree-pair comparison is a directory: every blob leaf
// is visited and reported with its full path relative to t; nested
// directories are descended into but never themselves emitted.
func WalkBlobs(lookup TreeLookup, t *Tree, prefix string) ([]TreeEntry, error) {
	var out []TreeEntry
	for _, e := range t.Entries() {
		p := path.Join(prefix, e.Name)
		if e.Mode.IsDir() {
			sub, err := lookup.Tree(e.Hash)
			if err != nil {
				return nil, fmt.Errorf("walk %s: %w", p, err)
			}
			children, err := WalkBlobs(lookup, sub, p)
			if err != nil {
				return nil, err
			}
			out = append(out, children...)
			continue
		}
		out = append(out, TreeEntry{Name: p, Mode: e.Mode, Hash: e.Hash})
	}
	return out, nil
}
