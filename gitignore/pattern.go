// Package gitignore implements the default IgnoreEngine collaborator
// (spec §6): gitignore-style path patterns, scoped per directory, that
// answer "is this path ignored?" for the workdir scanner (C4/C5).
package gitignore

import (
	"path/filepath"
	"strings"
)

// MatchResult is the outcome of testing one Pattern against a path.
type MatchResult int

const (
	// NoMatch means the pattern says nothing about this path.
	NoMatch MatchResult = iota
	// Exclude means the pattern marks this path ignored.
	Exclude
	// Include means a "!"-negated pattern marks this path un-ignored.
	Include
)

// Pattern is one parsed line of a .gitignore-style file.
type Pattern struct {
	domain  []string
	pattern []string
	inverse bool
	dirOnly bool
}

// ParsePattern parses a single gitignore line, scoped to domain (the
// path, split into components, of the directory the rules file lives
// in — nil for repository-root rules).
func ParsePattern(p string, domain []string) Pattern {
	res := Pattern{domain: domain}

	if strings.HasPrefix(p, "!") {
		res.inverse = true
		p = p[1:]
	}

	if strings.HasSuffix(p, "/") {
		res.dirOnly = true
		p = strings.TrimSuffix(p, "/")
	}

	anchored := strings.HasPrefix(p, "/")
	p = strings.TrimPrefix(p, "/")

	res.pattern = strings.Split(p, "/")
	if len(res.pattern) == 1 && !anchored {
		// a pattern with no slash other than a trailing one matches at
		// any depth under domain.
		res.pattern = append([]string{""}, res.pattern...)
	}

	return res
}

// Match reports whether path (relative to the repository root, split
// into components) matches p, given whether path names a directory.
// A directory-only pattern ("build/") matches any ancestor component
// of path named "build" — everything beneath a matched directory is
// considered covered by the same rule, not just the directory itself.
func (p Pattern) Match(path []string, isDir bool) MatchResult {
	if len(p.domain) != 0 {
		if len(path) < len(p.domain) {
			return NoMatch
		}
		for i, d := range p.domain {
			if path[i] != d {
				return NoMatch
			}
		}
		path = path[len(p.domain):]
	}

	if !p.matchPattern(path, isDir) {
		return NoMatch
	}

	if p.inverse {
		return Include
	}
	return Exclude
}

func (p Pattern) matchPattern(path []string, isDir bool) bool {
	if len(p.pattern) == 0 {
		return false
	}
	for end := 1; end <= len(path); end++ {
		componentIsDir := end < len(path) || isDir
		if p.dirOnly && !componentIsDir {
			continue
		}
		if p.matchesAt(path[:end]) {
			return true
		}
	}
	return false
}

// matchesAt reports whether the pattern matches the path prefix sub,
// anchored at sub's end. A pattern with no inner slash ("" leading
// component) may start anywhere within sub; any other pattern must
// match sub from its very first component (anchored at the domain
// root, as gitignore treats any pattern containing a non-trailing
// slash).
func (p Pattern) matchesAt(sub []string) bool {
	if p.pattern[0] == "" {
		rest := p.pattern[1:]
		if len(rest) > len(sub) {
			return false
		}
		return matchSegments(rest, sub[len(sub)-len(rest):])
	}
	return matchSegments(p.pattern, sub)
}

func matchSegments(pattern, path []string) bool {
	if len(pattern) > len(path) {
		return false
	}
	for i, seg := range pattern {
		ok, err := filepath.Match(seg, path[i])
		if err != nil || !ok {
			return false
		}
	}
	return len(pattern) == len(path)
}
