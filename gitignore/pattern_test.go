package gitignore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-vcsdiff/vcsdiff/gitignore"
)

func TestSimpleMatchAnyDepth(t *testing.T) {
	p := gitignore.ParsePattern("*.o", nil)
	assert.Equal(t, gitignore.NoMatch, p.Match([]string{"value"}, false))
	assert.Equal(t, gitignore.NoMatch, p.Match([]string{"main.go"}, false))
	assert.Equal(t, gitignore.Exclude, p.Match([]string{"main.o"}, false))
	assert.Equal(t, gitignore.Exclude, p.Match([]string{"a", "b", "main.o"}, false))
}

func TestNegatedPattern(t *testing.T) {
	p := gitignore.ParsePattern("!keep.o", nil)
	assert.Equal(t, gitignore.Include, p.Match([]string{"keep.o"}, false))
	assert.Equal(t, gitignore.NoMatch, p.Match([]string{"other"}, false))
}

func TestDomainScoping(t *testing.T) {
	p := gitignore.ParsePattern("*.log", []string{"sub"})
	assert.Equal(t, gitignore.NoMatch, p.Match([]string{"a.log"}, false))
	assert.Equal(t, gitignore.Exclude, p.Match([]string{"sub", "a.log"}, false))
}

func TestDirOnlyMatchesAncestorAndDescendants(t *testing.T) {
	p := gitignore.ParsePattern("build/", nil)
	assert.Equal(t, gitignore.Exclude, p.Match([]string{"build"}, true))
	assert.Equal(t, gitignore.NoMatch, p.Match([]string{"build"}, false))
	assert.Equal(t, gitignore.Exclude, p.Match([]string{"build", "output.txt"}, false))
	assert.Equal(t, gitignore.Exclude, p.Match([]string{"nested", "build", "output.txt"}, false))
}

func TestAnchoredMultiSegmentPattern(t *testing.T) {
	p := gitignore.ParsePattern("src/generated", nil)
	assert.Equal(t, gitignore.Exclude, p.Match([]string{"src", "generated"}, false))
	assert.Equal(t, gitignore.NoMatch, p.Match([]string{"other", "src", "generated"}, false))
}

func TestRuleSetLastMatchWins(t *testing.T) {
	rs := gitignore.ParseLines([]string{"*.log", "!keep.log", "# a comment", ""}, nil)
	assert.True(t, rs.Match([]string{"a.log"}, false))
	assert.False(t, rs.Match([]string{"keep.log"}, false))
}

func TestMatcherScopedPushPop(t *testing.T) {
	var m gitignore.Matcher
	root := gitignore.ParseLines([]string{"*.log"}, nil)
	pop := m.Push(root)

	sub := gitignore.ParseLines([]string{"!keep.log"}, []string{"sub"})
	popSub := m.Push(sub)

	assert.True(t, m.Match([]string{"sub", "a.log"}, false))
	assert.False(t, m.Match([]string{"sub", "keep.log"}, false))

	popSub()
	assert.True(t, m.Match([]string{"sub", "keep.log"}, false), "popped rule set must stop applying")

	pop()
	assert.False(t, m.Match([]string{"a.log"}, false), "root rules popped too")
}
