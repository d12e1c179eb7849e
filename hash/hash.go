// Package hash provides the fixed-width content hash used to address
// blobs and trees throughout vcsdiff.
package hash

import (
	"bytes"
	"encoding/hex"
	stdhash "hash"
	"sort"

	"github.com/pjbgf/sha1cd"
)

// Size is the width, in bytes, of a Hash.
const Size = 20

// Hash is an opaque, fixed-width content identifier. It is comparable
// with ==, orders totally via Compare, and its zero value represents
// the absent side of a Delta.
type Hash [Size]byte

// ZeroHash is the Hash of an absent object.
var ZeroHash Hash

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// Compare returns -1, 0 or 1 according to the byte-wise order of h and o.
func (h Hash) Compare(o Hash) int {
	return bytes.Compare(h[:], o[:])
}

// String returns the lowercase hexadecimal representation of h.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// FromHex parses a hexadecimal string into a Hash. A malformed or
// wrong-length string yields the zero hash and ok=false.
func FromHex(s string) (h Hash, ok bool) {
	if len(s) != Size*2 {
		return ZeroHash, false
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return ZeroHash, false
	}
	copy(h[:], b)
	return h, true
}

// FromBytes builds a Hash from a content digest. It copies at most Size
// bytes of b; a shorter b leaves the remaining bytes zero.
func FromBytes(b []byte) Hash {
	var h Hash
	copy(h[:], b)
	return h
}

// Hasher computes the content Hash of a byte stream, using a
// collision-detecting SHA-1 implementation.
type Hasher struct {
	h stdhash.Hash
}

// NewHasher returns a ready-to-use Hasher.
func NewHasher() *Hasher {
	return &Hasher{h: sha1cd.New()}
}

// Write feeds more content into the hasher.
func (w *Hasher) Write(p []byte) (int, error) {
	return w.h.Write(p)
}

// Sum returns the Hash of everything written so far.
func (w *Hasher) Sum() Hash {
	return FromBytes(w.h.Sum(nil))
}

// Of is a convenience wrapper hashing a single byte slice in one call.
func Of(content []byte) Hash {
	h := NewHasher()
	_, _ = h.Write(content)
	return h.Sum()
}

// Sort sorts a slice of Hash in ascending order.
func Sort(hs []Hash) {
	sort.Slice(hs, func(i, j int) bool { return hs[i].Compare(hs[j]) < 0 })
}
