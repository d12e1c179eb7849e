package diff

import (
	"fmt"
	"io"

	"github.com/go-vcsdiff/vcsdiff/filemode"
)

// PrintCompact writes one "<status-letter>\t<path>" line per delta, in
// DeltaList order — diff.c's print_compact / git's --name-status.
func PrintCompact(w io.Writer, dl *DeltaList) error {
	for _, d := range dl.All() {
		p := d.NewPath
		if p == "" {
			p = d.OldPath
		}
		if _, err := fmt.Fprintf(w, "%c\t%s\n", d.Status.statusLetter(), p); err != nil {
			return err
		}
	}
	return nil
}

// PrintPatch renders dl as a full unified diff, one file section per
// delta (diff.c's print_patch_file / print_patch_hunk / print_patch_line).
// Content and hunks come from ForEach so PrintPatch never re-derives
// line diffs itself; it is purely a text formatter.
func PrintPatch(w io.Writer, dl *DeltaList, src ContentSource, attrs AttributeEngine, opts Options) error {
	return ForEach(dl, src, attrs, opts, func(d Delta, hunks []Hunk) error {
		return writeFileSection(w, dl, d, hunks, opts)
	})
}

func writeFileSection(w io.Writer, dl *DeltaList, d Delta, hunks []Hunk, opts Options) error {
	oldLabel, newLabel := patchLabels(dl, d)

	if _, err := fmt.Fprintf(w, "diff --git %s %s\n", oldLabel, newLabel); err != nil {
		return err
	}
	if err := writeModeLines(w, d); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "index %s..%s%s\n", shortHash(d.OldHash), shortHash(d.NewHash), modeSuffix(d)); err != nil {
		return err
	}

	if d.Binary {
		_, err := fmt.Fprintf(w, "Binary files %s and %s differ\n", oldLabel, newLabel)
		return err
	}
	if len(hunks) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "--- %s\n+++ %s\n", oldFileLine(oldLabel, d), newFileLine(newLabel, d)); err != nil {
		return err
	}
	for _, h := range hunks {
		if _, err := fmt.Fprintln(w, h.Header()); err != nil {
			return err
		}
		for _, l := range h.Lines {
			if _, err := fmt.Fprintf(w, "%c%s\n", l.Op, trimTrailingNewline(l.Text)); err != nil {
				return err
			}
			if l.NoNewline {
				if _, err := fmt.Fprintln(w, `\ No newline at end of file`); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func trimTrailingNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		return s[:n-1]
	}
	return s
}

func patchLabels(dl *DeltaList, d Delta) (string, string) {
	oldPath := d.OldPath
	if oldPath == "" {
		oldPath = d.NewPath
	}
	newPath := d.NewPath
	if newPath == "" {
		newPath = d.OldPath
	}
	return dl.SrcPrefix() + oldPath, dl.DstPrefix() + newPath
}

func oldFileLine(label string, d Delta) string {
	if d.Status == Added {
		return "/dev/null"
	}
	return label
}

func newFileLine(label string, d Delta) string {
	if d.Status == Deleted {
		return "/dev/null"
	}
	return label
}

func writeModeLines(w io.Writer, d Delta) error {
	switch {
	case d.Status == Added:
		_, err := fmt.Fprintf(w, "new file mode %s\n", d.NewMode)
		return err
	case d.Status == Deleted:
		_, err := fmt.Fprintf(w, "deleted file mode %s\n", d.OldMode)
		return err
	case d.OldMode != d.NewMode && d.OldMode != filemode.Empty && d.NewMode != filemode.Empty:
		if _, err := fmt.Fprintf(w, "old mode %s\n", d.OldMode); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "new mode %s\n", d.NewMode)
		return err
	}
	return nil
}

// modeSuffix appends " <mode>" to the index line only when the mode
// is unchanged (diff.c omits the mode from the index line whenever it
// changed, since the two "mode" lines above already carry it).
func modeSuffix(d Delta) string {
	if d.Status == Modified && d.OldMode == d.NewMode {
		return " " + d.NewMode.String()
	}
	return ""
}

func shortHash(h interface{ String() string }) string {
	s := h.String()
	if len(s) > 7 {
		return s[:7]
	}
	return s
}
