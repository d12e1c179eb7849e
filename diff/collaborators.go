package diff

import (
	"github.com/go-vcsdiff/vcsdiff/hash"
	"github.com/go-vcsdiff/vcsdiff/object"
)

// ObjectDatabase resolves content hashes to blob bytes and tree
// objects (spec §6 "Object database"). memstore.Store implements it.
type ObjectDatabase interface {
	object.TreeLookup
	Blob(h hash.Hash) ([]byte, error)
}

// IgnoreEngine reports whether a workdir path is excluded (spec §6
// "Ignore engine"). gitignore.Matcher implements it.
type IgnoreEngine interface {
	Match(path []string, isDir bool) bool
}

// AttributeEngine classifies a path as binary or text (spec §6
// "Attribute engine"). A nil AttributeEngine means "no attributes
// configured"; C6 then falls back to content sniffing.
type AttributeEngine interface {
	// IsBinary reports (isBinary, attributeFound). When attributeFound
	// is false, the caller must fall back to its own detection.
	IsBinary(path string) (binary bool, ok bool)
}

// noAttributes is the nil-object stand-in used when no AttributeEngine
// is supplied, so C6 doesn't need a nil check at every call site.
type noAttributes struct{}

func (noAttributes) IsBinary(string) (bool, bool) { return false, false }
