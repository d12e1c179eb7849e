// Package memstore is an in-memory stand-in for the "object
// database" collaborator of spec §6: it resolves content hashes to
// blob bytes and tree objects.
package memstore

import (
	"fmt"

	"github.com/go-vcsdiff/vcsdiff/hash"
	"github.com/go-vcsdiff/vcsdiff/object"
)

// ErrNotFound is returned when a hash has no corresponding object —
// the diff.c "fatal, propagate, release partial list" not_found case.
type ErrNotFound struct {
	Hash hash.Hash
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("object not found: %s", e.Hash)
}

// Store is a trivial in-memory object database: every blob and tree
// is addressed by the content hash of its encoded form.
type Store struct {
	blobs map[hash.Hash][]byte
	trees map[hash.Hash]*object.Tree
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		blobs: make(map[hash.Hash][]byte),
		trees: make(map[hash.Hash]*object.Tree),
	}
}

// PutBlob stores content under its own hash and returns that hash.
func (s *Store) PutBlob(content []byte) hash.Hash {
	h := hash.Of(content)
	cp := make([]byte, len(content))
	copy(cp, content)
	s.blobs[h] = cp
	return h
}

// PutTree stores t under a hash derived from its entries and returns
// that hash, so identical trees (by entry content) collide on the
// same hash the way a real content-addressed tree object would.
func (s *Store) PutTree(t *object.Tree) hash.Hash {
	var buf []byte
	for _, e := range t.Entries() {
		buf = append(buf, e.Mode.Bytes()...)
		buf = append(buf, ' ')
		buf = append(buf, e.Name...)
		buf = append(buf, 0)
		buf = append(buf, e.Hash[:]...)
	}
	h := hash.Of(buf)
	s.trees[h] = t
	return h
}

// Blob implements diff.ObjectDatabase.
func (s *Store) Blob(h hash.Hash) ([]byte, error) {
	b, ok := s.blobs[h]
	if !ok {
		return nil, ErrNotFound{Hash: h}
	}
	return b, nil
}

// Tree implements object.TreeLookup / diff.ObjectDatabase.
func (s *Store) Tree(h hash.Hash) (*object.Tree, error) {
	t, ok := s.trees[h]
	if !ok {
		return nil, ErrNotFound{Hash: h}
	}
	return t, nil
}
