// Package index implements the default Index collaborator (spec §6):
// an ordered, path-sorted staging map carrying a stat cache per entry,
// with random access by ordinal as C3/C5 need for cursor co-advance.
package index

import (
	"sort"
	"time"

	"github.com/go-vcsdiff/vcsdiff/filemode"
	"github.com/go-vcsdiff/vcsdiff/hash"
)

// Entry is one staged path: its blob mode/hash plus the stat-cache
// tuple (spec GLOSSARY "Stat cache": mode, size, ctime, mtime, dev,
// ino, uid, gid) used to short-circuit re-hashing in C5.
type Entry struct {
	Path    string
	Mode    filemode.FileMode
	Hash    hash.Hash
	Size    int64
	Ctime   time.Time
	Mtime   time.Time
	Dev     uint64
	Ino     uint64
	UID     uint32
	GID     uint32
}

// StatMatches reports whether every field of the stat cache used by
// spec §4.5's fast path is unchanged: ctime, mtime, dev, ino, uid, gid.
// Mode and size are compared separately by the caller because a
// mismatch there forces "modified" without consulting the rest.
func (e Entry) StatMatches(o Entry) bool {
	return e.Ctime.Equal(o.Ctime) &&
		e.Mtime.Equal(o.Mtime) &&
		e.Dev == o.Dev &&
		e.Ino == o.Ino &&
		e.UID == o.UID &&
		e.GID == o.GID
}

// Index is an ordered, path-sorted mapping from path to Entry, with
// ordinal random access for the cursor-based co-advance in C3 and C5.
type Index struct {
	entries []Entry
}

// New builds an Index from entries, sorting them by path.
func New(entries []Entry) *Index {
	cp := make([]Entry, len(entries))
	copy(cp, entries)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Path < cp[j].Path })
	return &Index{entries: cp}
}

// Len returns the number of staged entries.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.entries)
}

// At returns the entry at ordinal i, or (Entry{}, false) if i is out
// of range — the "random access by ordinal" spec §6 requires for a
// cursor that advances past the end of the index.
func (ix *Index) At(i int) (Entry, bool) {
	if ix == nil || i < 0 || i >= len(ix.entries) {
		return Entry{}, false
	}
	return ix.entries[i], true
}

// Find returns the ordinal of path, or -1 if not staged.
func (ix *Index) Find(path string) int {
	if ix == nil {
		return -1
	}
	i := sort.Search(len(ix.entries), func(i int) bool { return ix.entries[i].Path >= path })
	if i < len(ix.entries) && ix.entries[i].Path == path {
		return i
	}
	return -1
}

// HasPrefix reports whether any staged path starts with prefix —
// used by C5 to decide whether an untracked directory still has
// tracked descendants worth recursing into.
func (ix *Index) HasPrefix(prefix string) bool {
	if ix == nil {
		return false
	}
	i := sort.Search(len(ix.entries), func(i int) bool { return ix.entries[i].Path >= prefix })
	return i < len(ix.entries) && len(ix.entries[i].Path) >= len(prefix) && ix.entries[i].Path[:len(prefix)] == prefix
}
