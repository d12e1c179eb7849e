package diff

import (
	"github.com/go-vcsdiff/vcsdiff/filemode"
	"github.com/go-vcsdiff/vcsdiff/hash"
)

// Status classifies one Delta (spec §3's enumerator vocabulary: added,
// deleted, modified, ignored, untracked; diff.c's GIT_DELTA_* enum cut
// down to what this engine actually produces). Rename/copy detection
// is a declared Non-goal, so Renamed and Copied are never produced by
// any enumerator here; they exist so a caller's switch over Status
// stays exhaustive if a future rename pass is layered on top. There is
// no TypeChanged status: a real type flip (blob<->symlink) is modeled
// as a paired Deleted+Added record (C5) or folded into a single
// Modified record (C2/C3) — see workdir.go and indextree.go.
type Status int

const (
	Unmodified Status = iota
	Added
	Deleted
	Modified
	Renamed
	Copied
	Ignored
	Untracked
)

func (s Status) String() string {
	switch s {
	case Unmodified:
		return "unmodified"
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	case Modified:
		return "modified"
	case Renamed:
		return "renamed"
	case Copied:
		return "copied"
	case Ignored:
		return "ignored"
	case Untracked:
		return "untracked"
	default:
		return "unknown"
	}
}

// statusLetter is the single-character status used by compact output
// (diff.c's print_compact, git's --name-status convention).
func (s Status) statusLetter() byte {
	switch s {
	case Added:
		return 'A'
	case Deleted:
		return 'D'
	case Modified:
		return 'M'
	case Renamed:
		return 'R'
	case Copied:
		return 'C'
	case Ignored:
		return 'I'
	case Untracked:
		return '?'
	default:
		return ' '
	}
}

// Delta is one changed path between the old and new side of a diff
// (spec §2 "Delta record"). OldBytes/NewBytes are transient payload
// set only while C6/C7 need the content of this one delta; they are
// not retained by DeltaList as a whole (diff.c frees them per-delta).
type Delta struct {
	Status  Status
	OldPath string
	NewPath string
	OldMode filemode.FileMode
	NewMode filemode.FileMode
	OldHash hash.Hash
	NewHash hash.Hash
	Binary  bool

	// Similarity mirrors diff.c's git_diff_delta.similarity (a rename/
	// copy confidence percentage) for API parity; no enumerator in
	// this package computes it, since rename/copy detection is an
	// explicit Non-goal. Always zero.
	Similarity int

	OldBytes []byte
	NewBytes []byte
}

// reversed returns a copy of d with old/new swapped throughout,
// including the status polarity (Added<->Deleted), matching diff.c's
// git_diff_swap semantics for a single delta.
func (d Delta) reversed() Delta {
	r := d
	r.OldPath, r.NewPath = d.NewPath, d.OldPath
	r.OldMode, r.NewMode = d.NewMode, d.OldMode
	r.OldHash, r.NewHash = d.NewHash, d.OldHash
	r.OldBytes, r.NewBytes = d.NewBytes, d.OldBytes
	switch d.Status {
	case Added:
		r.Status = Deleted
	case Deleted:
		r.Status = Added
	}
	return r
}

// DeltaList is an ordered, path-sorted set of Delta records — the
// output of every C2-C5 enumerator and the input to C6/C7.
type DeltaList struct {
	deltas     []Delta
	srcPrefix  prefix
	dstPrefix  prefix
}

func newDeltaList(opts Options) *DeltaList {
	src, dst := opts.resolvedPrefixes()
	return &DeltaList{srcPrefix: src, dstPrefix: dst}
}

func (dl *DeltaList) append(d Delta) {
	dl.deltas = append(dl.deltas, d)
}

// Len returns the number of deltas.
func (dl *DeltaList) Len() int {
	if dl == nil {
		return 0
	}
	return len(dl.deltas)
}

// At returns the delta at ordinal i.
func (dl *DeltaList) At(i int) Delta {
	return dl.deltas[i]
}

// All returns every delta, in path order.
func (dl *DeltaList) All() []Delta {
	if dl == nil {
		return nil
	}
	out := make([]Delta, len(dl.deltas))
	copy(out, dl.deltas)
	return out
}

// SrcPrefix and DstPrefix return the patch header prefixes this list
// was built with (e.g. "a/", "b/", or caller overrides).
func (dl *DeltaList) SrcPrefix() string { return dl.srcPrefix.value }
func (dl *DeltaList) DstPrefix() string { return dl.dstPrefix.value }
