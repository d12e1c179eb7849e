package diff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-vcsdiff/vcsdiff/diff"
	"github.com/go-vcsdiff/vcsdiff/filemode"
	"github.com/go-vcsdiff/vcsdiff/memstore"
	"github.com/go-vcsdiff/vcsdiff/object"
)

type fixedContent struct {
	old, new []byte
}

func (f fixedContent) OldContent(diff.Delta) ([]byte, error) { return f.old, nil }
func (f fixedContent) NewContent(diff.Delta) ([]byte, error) { return f.new, nil }

func TestForEachProducesHunkForModifiedLine(t *testing.T) {
	old := "a\nb\nc\nd\ne\n"
	new := "a\nb\nX\nd\ne\n"
	dl := singleModifiedDelta()

	var gotHunks []diff.Hunk
	err := diff.ForEach(dl, fixedContent{old: []byte(old), new: []byte(new)}, nil, diff.Options{}, func(d diff.Delta, hunks []diff.Hunk) error {
		gotHunks = hunks
		return nil
	})
	require.NoError(t, err)
	require.Len(t, gotHunks, 1)
	h := gotHunks[0]
	assert.Contains(t, h.Header(), "@@")
	var added, removed int
	for _, l := range h.Lines {
		switch l.Op {
		case diff.OpAdd:
			added++
		case diff.OpDelete:
			removed++
		}
	}
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, removed)
}

func TestForEachSkipsBinaryUnlessForceText(t *testing.T) {
	dl := singleModifiedDelta()
	content := fixedContent{old: []byte("a\x00b"), new: []byte("a\x00c")}

	var sawNilHunks bool
	err := diff.ForEach(dl, content, nil, diff.Options{}, func(d diff.Delta, hunks []diff.Hunk) error {
		sawNilHunks = hunks == nil
		assert.True(t, d.Binary)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, sawNilHunks)
}

func TestForEachMergesHunksWithinInterhunkDistance(t *testing.T) {
	old := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n"
	new := "1\nX\n3\n4\n5\n6\n7\nY\n9\n10\n"
	dl := singleModifiedDelta()

	var hunks []diff.Hunk
	err := diff.ForEach(dl, fixedContent{old: []byte(old), new: []byte(new)}, nil, diff.Options{ContextLines: 3, InterhunkLines: 3}, func(d diff.Delta, h []diff.Hunk) error {
		hunks = h
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, hunks, 1, "two changes separated by 5 unchanged lines with 3-line context/interhunk should merge into one hunk")
}

func TestForEachFlagsLineMissingTrailingNewline(t *testing.T) {
	old := "a\nb\n"
	new := "a\nb"
	dl := singleModifiedDelta()

	var hunks []diff.Hunk
	err := diff.ForEach(dl, fixedContent{old: []byte(old), new: []byte(new)}, nil, diff.Options{}, func(d diff.Delta, h []diff.Hunk) error {
		hunks = h
		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, hunks)
	last := hunks[len(hunks)-1]
	lastLine := last.Lines[len(last.Lines)-1]
	assert.True(t, lastLine.NoNewline)
}

func TestForEachSkipsBothSidesEmpty(t *testing.T) {
	dl := singleModifiedDelta()
	var called bool
	var gotHunks []diff.Hunk
	err := diff.ForEach(dl, fixedContent{old: nil, new: nil}, nil, diff.Options{}, func(d diff.Delta, h []diff.Hunk) error {
		called = true
		gotHunks = h
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Nil(t, gotHunks)
}

type fixedAttrs struct {
	binary bool
	ok     bool
}

func (a fixedAttrs) IsBinary(string) (bool, bool) { return a.binary, a.ok }

func TestForEachHonorsAttributeEngineOverride(t *testing.T) {
	dl := singleModifiedDelta()
	content := fixedContent{old: []byte("a\nb\n"), new: []byte("a\nc\n")}

	var gotHunks []diff.Hunk
	var gotDelta diff.Delta
	err := diff.ForEach(dl, content, fixedAttrs{binary: true, ok: true}, diff.Options{}, func(d diff.Delta, hunks []diff.Hunk) error {
		gotDelta = d
		gotHunks = hunks
		return nil
	})
	require.NoError(t, err)
	assert.True(t, gotDelta.Binary)
	assert.Nil(t, gotHunks)
}

func TestForEachPopulatesTransientContent(t *testing.T) {
	dl := singleModifiedDelta()
	content := fixedContent{old: []byte("old text\n"), new: []byte("new text\n")}

	err := diff.ForEach(dl, content, nil, diff.Options{}, func(d diff.Delta, hunks []diff.Hunk) error {
		assert.Equal(t, "old text\n", string(d.OldBytes))
		assert.Equal(t, "new text\n", string(d.NewBytes))
		return nil
	})
	require.NoError(t, err)
}

func singleModifiedDelta() *diff.DeltaList {
	store := memstore.New()
	oldHash := store.PutBlob([]byte("old"))
	newHash := store.PutBlob([]byte("new"))
	oldTree := object.NewTree([]object.TreeEntry{{Name: "f.txt", Mode: filemode.Regular, Hash: oldHash}})
	newTree := object.NewTree([]object.TreeEntry{{Name: "f.txt", Mode: filemode.Regular, Hash: newHash}})
	dl, err := diff.DiffTreeToTree(store, oldTree, newTree, diff.Options{})
	if err != nil {
		panic(err)
	}
	return dl
}
