package diff

import (
	"path"

	"github.com/go-vcsdiff/vcsdiff/object"
)

// DiffTreeToTree enumerates the deltas between two trees (spec §4.2
// "C2 Tree-pair enumerator"), grounded on diff.c's tree_to_tree_diff_cb
// / create_diff_for_tree_entry: recurse into subtrees that exist on
// both sides, emit a leaf delta for everything else.
func DiffTreeToTree(db ObjectDatabase, oldTree, newTree *object.Tree, opts Options) (*DeltaList, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	dl := newDeltaList(opts)
	if err := diffTreeToTree(db, oldTree, newTree, "", dl); err != nil {
		return nil, err
	}
	if opts.Reverse {
		dl.reverseInPlace()
	}
	sortDeltas(dl)
	return dl, nil
}

func diffTreeToTree(db ObjectDatabase, oldTree, newTree *object.Tree, prefix string, dl *DeltaList) error {
	entries := object.Diff(oldTree, newTree)
	for _, e := range entries {
		fullPath := path.Join(prefix, e.Name)
		switch {
		case e.Status == object.TreeDiffModified && e.OldMode.IsDir() && e.NewMode.IsDir():
			oldSub, err := db.Tree(e.OldHash)
			if err != nil {
				return err
			}
			newSub, err := db.Tree(e.NewHash)
			if err != nil {
				return err
			}
			if err := diffTreeToTree(db, oldSub, newSub, fullPath, dl); err != nil {
				return err
			}
		case e.OldMode.IsDir() && e.Status == object.TreeDiffDeleted:
			sub, err := db.Tree(e.OldHash)
			if err != nil {
				return err
			}
			blobs, err := object.WalkBlobs(db, sub, fullPath)
			if err != nil {
				return err
			}
			for _, b := range blobs {
				dl.append(Delta{Status: Deleted, OldPath: b.Name, NewPath: b.Name, OldMode: b.Mode, OldHash: b.Hash})
			}
		case e.NewMode.IsDir() && e.Status == object.TreeDiffAdded:
			sub, err := db.Tree(e.NewHash)
			if err != nil {
				return err
			}
			blobs, err := object.WalkBlobs(db, sub, fullPath)
			if err != nil {
				return err
			}
			for _, b := range blobs {
				dl.append(Delta{Status: Added, OldPath: b.Name, NewPath: b.Name, NewMode: b.Mode, NewHash: b.Hash})
			}
		default:
			dl.append(leafDelta(e, fullPath))
		}
	}
	return nil
}

// leafDelta converts one blob-level object.TreeDiffEntry into a Delta.
// Both sides here are always blobs (directory-sided entries are routed
// to the recursive-descent/WalkBlobs branches above before reaching
// this function), so spec §4.2 ("both sides blob => emit a single
// modified/added/deleted record") applies without exception — a blob
// that became a symlink (or back) is still one Modified record, never
// TypeChanged; only C5's workdir side splits a real type flip.
func leafDelta(e object.TreeDiffEntry, fullPath string) Delta {
	d := Delta{OldPath: fullPath, NewPath: fullPath, OldMode: e.OldMode, NewMode: e.NewMode, OldHash: e.OldHash, NewHash: e.NewHash}
	switch e.Status {
	case object.TreeDiffAdded:
		d.Status = Added
		d.OldPath = ""
	case object.TreeDiffDeleted:
		d.Status = Deleted
		d.NewPath = ""
	default:
		d.Status = Modified
	}
	return d
}

func sortDeltas(dl *DeltaList) {
	sortByPath(dl.deltas)
}

func sortByPath(ds []Delta) {
	for i := 1; i < len(ds); i++ {
		for j := i; j > 0 && deltaPath(ds[j]) < deltaPath(ds[j-1]); j-- {
			ds[j], ds[j-1] = ds[j-1], ds[j]
		}
	}
}

func deltaPath(d Delta) string {
	if d.NewPath != "" {
		return d.NewPath
	}
	return d.OldPath
}

func (dl *DeltaList) reverseInPlace() {
	for i := range dl.deltas {
		dl.deltas[i] = dl.deltas[i].reversed()
	}
}
