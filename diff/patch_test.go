package diff_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-vcsdiff/vcsdiff/diff"
	"github.com/go-vcsdiff/vcsdiff/filemode"
	"github.com/go-vcsdiff/vcsdiff/memstore"
	"github.com/go-vcsdiff/vcsdiff/object"
)

func TestPrintCompact(t *testing.T) {
	store := memstore.New()
	h1 := store.PutBlob([]byte("x"))
	h2 := store.PutBlob([]byte("y"))
	oldTree := object.NewTree([]object.TreeEntry{{Name: "a.txt", Mode: filemode.Regular, Hash: h1}})
	newTree := object.NewTree([]object.TreeEntry{{Name: "a.txt", Mode: filemode.Regular, Hash: h2}, {Name: "b.txt", Mode: filemode.Regular, Hash: h2}})

	dl, err := diff.DiffTreeToTree(store, oldTree, newTree, diff.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, diff.PrintCompact(&buf, dl))
	out := buf.String()
	assert.Contains(t, out, "M\ta.txt\n")
	assert.Contains(t, out, "A\tb.txt\n")
}

func TestPrintPatchUnifiedDiff(t *testing.T) {
	store := memstore.New()
	oldHash := store.PutBlob([]byte("line1\nline2\nline3\n"))
	newHash := store.PutBlob([]byte("line1\nCHANGED\nline3\n"))
	oldTree := object.NewTree([]object.TreeEntry{{Name: "f.txt", Mode: filemode.Regular, Hash: oldHash}})
	newTree := object.NewTree([]object.TreeEntry{{Name: "f.txt", Mode: filemode.Regular, Hash: newHash}})

	dl, err := diff.DiffTreeToTree(store, oldTree, newTree, diff.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, diff.PrintPatch(&buf, dl, diff.NewDBContentSource(store), nil, diff.Options{}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "diff --git a/f.txt b/f.txt\n"))
	assert.Contains(t, out, "--- a/f.txt\n")
	assert.Contains(t, out, "+++ b/f.txt\n")
	assert.Contains(t, out, "@@")
	assert.Contains(t, out, "-line2")
	assert.Contains(t, out, "+CHANGED")
}

func TestPrintPatchAddedFileUsesDevNull(t *testing.T) {
	store := memstore.New()
	h := store.PutBlob([]byte("new\n"))
	oldTree := object.NewTree(nil)
	newTree := object.NewTree([]object.TreeEntry{{Name: "new.txt", Mode: filemode.Regular, Hash: h}})

	dl, err := diff.DiffTreeToTree(store, oldTree, newTree, diff.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, diff.PrintPatch(&buf, dl, diff.NewDBContentSource(store), nil, diff.Options{}))
	out := buf.String()
	assert.Contains(t, out, "new file mode")
	assert.Contains(t, out, "--- /dev/null\n")
	assert.Contains(t, out, "+++ b/new.txt\n")
}

func TestPrintPatchNoNewlineAtEndOfFile(t *testing.T) {
	store := memstore.New()
	oldHash := store.PutBlob([]byte("line1\nline2\n"))
	newHash := store.PutBlob([]byte("line1\nCHANGED"))
	oldTree := object.NewTree([]object.TreeEntry{{Name: "f.txt", Mode: filemode.Regular, Hash: oldHash}})
	newTree := object.NewTree([]object.TreeEntry{{Name: "f.txt", Mode: filemode.Regular, Hash: newHash}})

	dl, err := diff.DiffTreeToTree(store, oldTree, newTree, diff.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, diff.PrintPatch(&buf, dl, diff.NewDBContentSource(store), nil, diff.Options{}))
	out := buf.String()
	assert.Contains(t, out, "+CHANGED\n\\ No newline at end of file\n")
}

func TestPrintPatchCustomPrefixes(t *testing.T) {
	store := memstore.New()
	h1 := store.PutBlob([]byte("x\n"))
	h2 := store.PutBlob([]byte("y\n"))
	oldTree := object.NewTree([]object.TreeEntry{{Name: "f.txt", Mode: filemode.Regular, Hash: h1}})
	newTree := object.NewTree([]object.TreeEntry{{Name: "f.txt", Mode: filemode.Regular, Hash: h2}})

	dl, err := diff.DiffTreeToTree(store, oldTree, newTree, diff.Options{SrcPrefix: "old", DstPrefix: "new"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, diff.PrintPatch(&buf, dl, diff.NewDBContentSource(store), nil, diff.Options{SrcPrefix: "old", DstPrefix: "new"}))
	out := buf.String()
	assert.Contains(t, out, "diff --git old/f.txt new/f.txt\n")
}
