// Package diff implements the diff engine described by the spec: the
// three enumeration algorithms (tree↔tree, tree↔index, index↔workdir),
// the textual diff driver, and the unified-diff patch formatter.
package diff

import "fmt"

const (
	defaultSrcPrefix = "a/"
	defaultDstPrefix = "b/"

	defaultContextLines   = 3
	defaultInterhunkLines = 3
)

// prefix distinguishes a caller-supplied header prefix from the
// shared default. In the C original this was a pointer-identity check
// (PREFIX_IS_DEFAULT) used to decide whether to free the string; Go's
// GC makes that distinction moot for memory management, so the tag
// only records whether the value was set explicitly. Reverse swaps
// the two prefixes the same way whichever kind they are (spec §9
// "Shared-vs-owned prefix strings").
type prefix struct {
	value    string
	explicit bool
}

func defaultPrefix(v string) prefix { return prefix{value: v} }

// Options configures one diff operation (spec §3 "Diff options").
type Options struct {
	// ContextLines is the number of leading/trailing context lines
	// kept around each hunk. Zero means "use the default" (3); to
	// request zero lines of context explicitly is not expressible,
	// matching diff.c's setup_xdiff_options (`!opts->context_lines`
	// also falls back to the default).
	ContextLines int
	// InterhunkLines is the largest number of unchanged lines that may
	// lie between two hunks (each already extended by its context
	// lines) for them to be merged into a single hunk. Zero means
	// default (3).
	InterhunkLines int

	// Reverse swaps old/new throughout: added↔deleted, prefixes
	// swapped, hash/mode polarity swapped at record construction time.
	Reverse bool
	// ForceText skips binary detection; every delta is diffed as text.
	ForceText bool

	// IgnoreWhitespace ignores all whitespace when comparing lines.
	IgnoreWhitespace bool
	// IgnoreWhitespaceChange treats every run of whitespace inside a
	// line as a single space and ignores leading and trailing
	// whitespace; whitespace inserted between two non-blank characters
	// where there was none still counts as a change.
	IgnoreWhitespaceChange bool
	// IgnoreWhitespaceEOL ignores whitespace at the end of a line.
	IgnoreWhitespaceEOL bool

	// SrcPrefix and DstPrefix override the "a/"/"b/" patch header
	// prefixes. Empty means "use the default".
	SrcPrefix string
	DstPrefix string

	// Pathspec is reserved: declared for API compatibility with the
	// contract in spec §3, but not honored by any enumerator (spec §9
	// open question, resolved in DESIGN.md: no component needs path
	// filtering to exercise the rest of the domain stack).
	Pathspec []string
}

// Validate reports invalid_input-class configuration errors.
func (o Options) Validate() error {
	if o.ContextLines < 0 {
		return fmt.Errorf("invalid_input: negative context lines %d", o.ContextLines)
	}
	if o.InterhunkLines < 0 {
		return fmt.Errorf("invalid_input: negative interhunk lines %d", o.InterhunkLines)
	}
	return nil
}

func (o Options) contextLines() int {
	if o.ContextLines <= 0 {
		return defaultContextLines
	}
	return o.ContextLines
}

func (o Options) interhunkLines() int {
	if o.InterhunkLines <= 0 {
		return defaultInterhunkLines
	}
	return o.InterhunkLines
}

// resolvedPrefixes computes the (src, dst) prefixes a DeltaList should
// carry, applying the copy-and-slash-append rule from diff.c's
// copy_prefix and the pre-reverse-swap ordering from
// git_diff_list_alloc.
func (o Options) resolvedPrefixes() (src, dst prefix) {
	src = defaultPrefix(defaultSrcPrefix)
	dst = defaultPrefix(defaultDstPrefix)
	if o.SrcPrefix != "" {
		src = prefix{value: ensureTrailingSlash(o.SrcPrefix), explicit: true}
	}
	if o.DstPrefix != "" {
		dst = prefix{value: ensureTrailingSlash(o.DstPrefix), explicit: true}
	}
	if o.Reverse {
		src, dst = dst, src
	}
	return src, dst
}

func ensureTrailingSlash(s string) string {
	if s == "" || s[len(s)-1] == '/' {
		return s
	}
	return s + "/"
}
