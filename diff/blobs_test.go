package diff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-vcsdiff/vcsdiff/diff"
)

func TestBlobsModified(t *testing.T) {
	d, hunks := diff.Blobs("a.txt", "a.txt", []byte("one\ntwo\n"), []byte("one\nTWO\n"), diff.Options{})
	assert.Equal(t, diff.Modified, d.Status)
	assert.Len(t, hunks, 1)
}

func TestBlobsAdded(t *testing.T) {
	d, hunks := diff.Blobs("", "a.txt", nil, []byte("new\n"), diff.Options{})
	assert.Equal(t, diff.Added, d.Status)
	assert.Equal(t, "", d.OldPath)
	assert.NotEmpty(t, hunks)
}

func TestBlobsBinary(t *testing.T) {
	d, hunks := diff.Blobs("a.bin", "a.bin", []byte("a\x00b"), []byte("a\x00c"), diff.Options{})
	assert.True(t, d.Binary)
	assert.Nil(t, hunks)
}

func TestBlobsForceTextIgnoresBinaryDetection(t *testing.T) {
	d, hunks := diff.Blobs("a.bin", "a.bin", []byte("a\x00b"), []byte("a\x00c"), diff.Options{ForceText: true})
	assert.False(t, d.Binary)
	assert.NotNil(t, hunks)
}
