package gitignore

import "strings"

// RuleSet is an ordered collection of Patterns, typically all the
// ignore rules applicable to one directory (its own rules plus every
// ancestor's). Later patterns take precedence, matching gitignore's
// "last matching pattern wins" semantics.
type RuleSet []Pattern

// ParseLines parses one ignore file's contents, scoped to domain,
// skipping blank lines and comments.
func ParseLines(lines []string, domain []string) RuleSet {
	var rs RuleSet
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rs = append(rs, ParsePattern(line, domain))
	}
	return rs
}

// Match applies every pattern in order and returns whether the final
// matching pattern (if any) excludes path.
func (rs RuleSet) Match(path []string, isDir bool) bool {
	ignored := false
	for _, p := range rs {
		switch p.Match(path, isDir) {
		case Exclude:
			ignored = true
		case Include:
			ignored = false
		}
	}
	return ignored
}

// Matcher aggregates a stack of RuleSets, root to leaf, that the
// caller pushes with Push and pops with the returned function. The
// workdir scan (diff.DiffWorkdirToIndex) does not read ignore files
// and does not push or pop rules itself; it only calls Match against
// whatever rule sets the caller has pushed beforehand.
type Matcher struct {
	stack []RuleSet
}

// Push adds a directory's own rules to the matcher, returning a pop
// function the caller must invoke on every exit path (defer it).
func (m *Matcher) Push(rs RuleSet) (pop func()) {
	m.stack = append(m.stack, rs)
	return func() {
		m.stack = m.stack[:len(m.stack)-1]
	}
}

// Match reports whether path is ignored under every rule set
// currently pushed, root to leaf.
func (m *Matcher) Match(path []string, isDir bool) bool {
	ignored := false
	for _, rs := range m.stack {
		for _, p := range rs {
			switch p.Match(path, isDir) {
			case Exclude:
				ignored = true
			case Include:
				ignored = false
			}
		}
	}
	return ignored
}
