package diff

import (
	"sort"

	"github.com/go-vcsdiff/vcsdiff/index"
	"github.com/go-vcsdiff/vcsdiff/object"
)

// DiffIndexToTree enumerates the deltas between a tree and the index
// (spec §4.3 "C3 Tree↔index enumerator"), grounded on diff.c's
// diff_index_to_tree_cb / add_new_index_deltas: walk every blob of
// the tree and every index entry, both already path-sorted, and
// co-advance two cursors comparing paths lexicographically.
func DiffIndexToTree(db ObjectDatabase, tree *object.Tree, ix *index.Index, opts Options) (*DeltaList, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	blobs, err := object.WalkBlobs(db, tree, "")
	if err != nil {
		return nil, err
	}
	// WalkBlobs yields entries in per-directory sorted order, which
	// is not the same as full-path lexicographic order once a
	// directory's name is a prefix of a sibling file's name (e.g.
	// "build" vs "build.go"); the cursor co-advance below needs a
	// single consistent order with the index's plain path sort.
	sort.Slice(blobs, func(i, j int) bool { return blobs[i].Name < blobs[j].Name })

	dl := newDeltaList(opts)
	ti, ii := 0, 0
	for ti < len(blobs) || ii < ix.Len() {
		var tEntry object.TreeEntry
		haveTree := ti < len(blobs)
		if haveTree {
			tEntry = blobs[ti]
		}
		var iEntry index.Entry
		haveIndex := ii < ix.Len()
		if haveIndex {
			iEntry, _ = ix.At(ii)
		}

		switch {
		case haveTree && (!haveIndex || tEntry.Name < iEntry.Path):
			dl.append(Delta{Status: Deleted, OldPath: tEntry.Name, OldMode: tEntry.Mode, OldHash: tEntry.Hash})
			ti++
		case haveIndex && (!haveTree || iEntry.Path < tEntry.Name):
			dl.append(Delta{Status: Added, NewPath: iEntry.Path, NewMode: iEntry.Mode, NewHash: iEntry.Hash})
			ii++
		default:
			// spec §4.3 step 2: "E.mode != tree.mode => modified" —
			// C3 has no typechange branch at all, unlike C5's paired
			// deleted+added split for the workdir; a real type flip
			// and an exec-bit-only flip are both just a mode mismatch
			// here, collapsed into one modified record alongside any
			// hash difference.
			if tEntry.Hash != iEntry.Hash || tEntry.Mode != iEntry.Mode {
				dl.append(Delta{Status: Modified, OldPath: tEntry.Name, NewPath: iEntry.Path,
					OldMode: tEntry.Mode, NewMode: iEntry.Mode, OldHash: tEntry.Hash, NewHash: iEntry.Hash})
			}
			ti++
			ii++
		}
	}

	if opts.Reverse {
		dl.reverseInPlace()
	}
	return dl, nil
}
