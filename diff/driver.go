package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ContentSource supplies the byte content a Delta's hash/path refers
// to — the decoupling point between C2-C5's enumeration (which never
// reads file content beyond what the stat fast path needs) and C6's
// line-level diffing (spec §4.6 "C6 Diff driver").
type ContentSource interface {
	OldContent(d Delta) ([]byte, error)
	NewContent(d Delta) ([]byte, error)
}

// dbContentSource resolves both sides of a delta through an
// ObjectDatabase — the tree↔tree and tree↔index case, where both
// sides are content-addressed objects.
type dbContentSource struct{ db ObjectDatabase }

// NewDBContentSource builds a ContentSource backed entirely by db,
// for deltas produced by DiffTreeToTree or DiffIndexToTree.
func NewDBContentSource(db ObjectDatabase) ContentSource { return dbContentSource{db: db} }

func (s dbContentSource) OldContent(d Delta) ([]byte, error) {
	if d.OldHash.IsZero() {
		return nil, nil
	}
	return s.db.Blob(d.OldHash)
}

func (s dbContentSource) NewContent(d Delta) ([]byte, error) {
	if d.NewHash.IsZero() {
		return nil, nil
	}
	return s.db.Blob(d.NewHash)
}

// LineOp tags one line of a unified-diff hunk body.
type LineOp byte

const (
	OpContext LineOp = ' '
	OpAdd     LineOp = '+'
	OpDelete  LineOp = '-'
)

// Line is one rendered body line of a Hunk.
type Line struct {
	Op   LineOp
	Text string

	// NoNewline marks a line whose underlying content ends the file
	// without a trailing newline — diff.c's add_eof_nl/del_eof_nl
	// event, rendered by print_patch_line as a following
	// "\ No newline at end of file" line.
	NoNewline bool
}

// Hunk is one contiguous region of change, in unified-diff coordinates
// (spec §4.6/§4.7, the "@@ -old_start,old_lines +new_start,new_lines @@"
// record diff.c's diff_output_cb assembles per xdiff callback).
type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Lines    []Line
}

// Header renders the "@@ ... @@" line diff.c's print_patch_hunk emits.
func (h Hunk) Header() string {
	var b strings.Builder
	b.WriteString("@@ -")
	b.WriteString(rangeString(h.OldStart, h.OldLines))
	b.WriteString(" +")
	b.WriteString(rangeString(h.NewStart, h.NewLines))
	b.WriteString(" @@")
	return b.String()
}

func rangeString(start, lines int) string {
	if lines == 1 {
		return itoa(start)
	}
	return itoa(start) + "," + itoa(lines)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

type taggedLine struct {
	op        LineOp
	text      string
	oldNo     int
	newNo     int
	noNewline bool
}

// lineDiff computes the unified-diff hunks between oldText and
// newText, grounded on the classic diffmatchpatch line-mode recipe
// (DiffLinesToChars / DiffMain / DiffCharsToLines): remap each line to
// a single rune so the library's character-level LCS degenerates into
// a line-level LCS, then walk the resulting Equal/Insert/Delete runs
// to assign old/new line numbers before grouping into hunks.
func lineDiff(oldText, newText string, opts Options) []Hunk {
	dmp := diffmatchpatch.New()
	oldChars, newChars, lines := dmp.DiffLinesToChars(normalizeForDiff(oldText, opts), normalizeForDiff(newText, opts))
	diffs := dmp.DiffMain(oldChars, newChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	var tagged []taggedLine
	oldNo, newNo := 1, 1
	for _, d := range diffs {
		for _, line := range splitKeepLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				tagged = append(tagged, taggedLine{op: OpContext, text: line, oldNo: oldNo, newNo: newNo})
				oldNo++
				newNo++
			case diffmatchpatch.DiffDelete:
				tagged = append(tagged, taggedLine{op: OpDelete, text: line, oldNo: oldNo})
				oldNo++
			case diffmatchpatch.DiffInsert:
				tagged = append(tagged, taggedLine{op: OpAdd, text: line, newNo: newNo})
				newNo++
			}
		}
	}
	markEOFNewline(tagged, oldNo-1, newNo-1, strings.HasSuffix(oldText, "\n"), strings.HasSuffix(newText, "\n"))
	return groupHunks(tagged, opts.contextLines(), opts.interhunkLines())
}

// markEOFNewline flags the single tagged line that renders the last
// line of the old side and/or the new side when that side's raw text
// doesn't end in "\n" — diff.c's eofnl handling in diff_context_load.
// An empty side has no last line to flag.
func markEOFNewline(tagged []taggedLine, finalOldNo, finalNewNo int, oldEndsNL, newEndsNL bool) {
	if oldEndsNL && newEndsNL {
		return
	}
	for i := range tagged {
		l := &tagged[i]
		if !oldEndsNL && l.op != OpAdd && l.oldNo == finalOldNo && finalOldNo > 0 {
			l.noNewline = true
		}
		if !newEndsNL && l.op != OpDelete && l.newNo == finalNewNo && finalNewNo > 0 {
			l.noNewline = true
		}
	}
}

// normalizeForDiff applies the whitespace-insensitivity options to
// every line before the line-mode remap, so lines that only differ in
// whitespace collapse to the same remapped rune and are reported as
// equal (spec §3 "Ignore-whitespace family").
func normalizeForDiff(text string, opts Options) string {
	if !opts.IgnoreWhitespace && !opts.IgnoreWhitespaceChange && !opts.IgnoreWhitespaceEOL {
		return text
	}
	lines := splitKeepLines(text)
	for i, l := range lines {
		trimmed := strings.TrimRight(l, "\n")
		nl := l[len(trimmed):]
		switch {
		case opts.IgnoreWhitespace:
			trimmed = strings.Join(strings.Fields(trimmed), "")
		case opts.IgnoreWhitespaceChange:
			trimmed = strings.Join(strings.Fields(trimmed), " ")
		case opts.IgnoreWhitespaceEOL:
			trimmed = strings.TrimRight(trimmed, " \t")
		}
		lines[i] = trimmed + nl
	}
	return strings.Join(lines, "")
}

// splitKeepLines splits s into lines, each retaining its trailing "\n"
// (the last line keeps none if s doesn't end in one), matching how
// diffmatchpatch's line remap expects its input chunked.
func splitKeepLines(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			out = append(out, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

// groupHunks partitions a flat tagged-line sequence into hunks: every
// changed line pulls in `context` lines of surrounding equal context,
// and two hunks are merged into one when at most `interhunk` equal
// lines lie between the end of the first one's trailing context and
// the start of the second one's leading context (spec §3
// "interhunk_lines").
func groupHunks(tagged []taggedLine, context, interhunk int) []Hunk {
	var ranges [][2]int // [start, end) indices into tagged, inclusive of context
	i := 0
	for i < len(tagged) {
		if tagged[i].op == OpContext {
			i++
			continue
		}
		start := i
		for start > 0 && i-start < context && tagged[start-1].op == OpContext {
			start--
		}
		end := i
		for end < len(tagged) && tagged[end].op != OpContext {
			end++
		}
		trailEnd := end
		for trailEnd < len(tagged) && trailEnd-end < context && tagged[trailEnd].op == OpContext {
			trailEnd++
		}
		if len(ranges) > 0 {
			last := ranges[len(ranges)-1]
			gap := start - last[1]
			if gap <= interhunk {
				ranges[len(ranges)-1][1] = trailEnd
				i = end
				continue
			}
		}
		ranges = append(ranges, [2]int{start, trailEnd})
		i = end
	}

	hunks := make([]Hunk, 0, len(ranges))
	for _, r := range ranges {
		hunks = append(hunks, buildHunk(tagged[r[0]:r[1]]))
	}
	return hunks
}

func buildHunk(lines []taggedLine) Hunk {
	h := Hunk{Lines: make([]Line, 0, len(lines))}
	oldLines, newLines := 0, 0
	for _, l := range lines {
		h.Lines = append(h.Lines, Line{Op: l.op, Text: l.text, NoNewline: l.noNewline})
		switch l.op {
		case OpContext:
			oldLines++
			newLines++
			if h.OldStart == 0 {
				h.OldStart = l.oldNo
			}
			if h.NewStart == 0 {
				h.NewStart = l.newNo
			}
		case OpDelete:
			oldLines++
			if h.OldStart == 0 {
				h.OldStart = l.oldNo
			}
		case OpAdd:
			newLines++
			if h.NewStart == 0 {
				h.NewStart = l.newNo
			}
		}
	}
	h.OldLines = oldLines
	h.NewLines = newLines
	return h
}

// ForEach drives the textual diff for every non-binary, non-empty
// delta in dl, calling fn with the delta and its computed hunks
// (spec §4.6, diff.c's git_diff_foreach / git_diff_blobs). Deltas with
// no textual body call fn with no hunks: a nil slice when both sides
// are empty, an empty slice when both sides hold identical text (a
// pure mode change). Binary deltas are not line-diffed unless
// opts.ForceText; fn receives them with a nil hunk slice.
// attrs is consulted per delta (spec §4.6 step 2) before falling back
// to the NUL-sniff heuristic, the same override DiffWorkdirToIndex
// applies during its own scan — this is the only path by which a
// tree↔tree or tree↔index delta can honor a diff attribute, since
// those enumerators never touch a path-scoped collaborator. A nil
// attrs behaves as if every path were unset.
func ForEach(dl *DeltaList, src ContentSource, attrs AttributeEngine, opts Options, fn func(Delta, []Hunk) error) error {
	if attrs == nil {
		attrs = noAttributes{}
	}
	for _, d := range dl.All() {
		path := d.NewPath
		if path == "" {
			path = d.OldPath
		}
		attrBinary, attrSet := attrs.IsBinary(path)
		if attrSet {
			d.Binary = attrBinary
		}
		if d.Binary && !opts.ForceText {
			if err := fn(d, nil); err != nil {
				return err
			}
			continue
		}
		oldContent, err := src.OldContent(d)
		if err != nil {
			return err
		}
		newContent, err := src.NewContent(d)
		if err != nil {
			return err
		}
		if !opts.ForceText && !attrSet && (looksBinary(oldContent) || looksBinary(newContent)) {
			d.Binary = true
			if err := fn(d, nil); err != nil {
				return err
			}
			continue
		}
		if len(oldContent) == 0 && len(newContent) == 0 {
			if err := fn(d, nil); err != nil {
				return err
			}
			continue
		}
		d.OldBytes = oldContent
		d.NewBytes = newContent
		hunks := lineDiff(string(oldContent), string(newContent), opts)
		if err := fn(d, hunks); err != nil {
			return err
		}
	}
	return nil
}

func looksBinary(content []byte) bool {
	n := len(content)
	if n > binarySniffLen {
		n = binarySniffLen
	}
	for i := 0; i < n; i++ {
		if content[i] == 0 {
			return true
		}
	}
	return false
}
