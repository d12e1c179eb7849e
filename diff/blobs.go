package diff

import "github.com/go-vcsdiff/vcsdiff/filemode"

// Blobs diffs two content buffers directly, with no tree, index, or
// path context — diff.c's git_diff_blobs, used for ad-hoc comparisons
// (e.g. comparing two arbitrary revisions of a single known path) that
// don't need a full enumeration pass. The synthesized delta carries
// old_mode = new_mode = 0100644 (spec §6, diff.c's git_diff_blobs),
// since there is no tree/index entry to source a real mode from.
func Blobs(oldPath, newPath string, oldContent, newContent []byte, opts Options) (Delta, []Hunk) {
	d := Delta{OldPath: oldPath, NewPath: newPath, Status: Modified, OldMode: filemode.Regular, NewMode: filemode.Regular}
	switch {
	case oldContent == nil:
		d.Status = Added
		d.OldPath = ""
	case newContent == nil:
		d.Status = Deleted
		d.NewPath = ""
	}

	if !opts.ForceText && (looksBinary(oldContent) || looksBinary(newContent)) {
		d.Binary = true
		return d, nil
	}
	return d, lineDiff(string(oldContent), string(newContent), opts)
}
