// Package filemode implements the canonical file modes used to tag
// tree, index, and workdir entries: type plus, for regular files,
// the executable bit.
package filemode

import (
	"fmt"
	"os"
	"strconv"
)

// FileMode is a Git-style mode: file type bits plus, for regular
// files, a single executable bit. Permission bits beyond that are
// never meaningful and are discarded by Canonical.
type FileMode uint32

const (
	Empty      FileMode = 0
	Dir        FileMode = 0o040000
	Regular    FileMode = 0o100644
	Deprecated FileMode = 0o100664
	Executable FileMode = 0o100755
	Symlink    FileMode = 0o120000
	Submodule  FileMode = 0o160000
)

// New parses the textual mode used by tree entries and `git diff-tree`
// style output: an octal string, optionally zero-padded, optionally
// carrying extra leading zeros. Unlike strconv it never treats the
// input as decimal.
func New(s string) (FileMode, error) {
	if s == "" {
		return Empty, fmt.Errorf("malformed mode %q: empty", s)
	}
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return Empty, fmt.Errorf("malformed mode %q: %w", s, err)
	}
	return FileMode(n), nil
}

// NewFromOSFileMode converts a filesystem os.FileMode, as produced by
// Lstat, into the canonical FileMode. Types with no Git equivalent
// (devices, named pipes, sockets, temporary files) return Empty and a
// non-nil error; callers of the workdir scanner treat that as "not
// trackable" rather than fatal (spec §4.4).
func NewFromOSFileMode(m os.FileMode) (FileMode, error) {
	switch {
	case m&os.ModeDir != 0:
		return Dir, nil
	case m&os.ModeSymlink != 0:
		return Symlink, nil
	case m&(os.ModeDevice|os.ModeNamedPipe|os.ModeSocket|os.ModeCharDevice) != 0:
		return Empty, fmt.Errorf("no equivalent file mode for %s", m)
	case m&os.ModeTemporary != 0:
		return Empty, fmt.Errorf("no equivalent file mode for temporary file %s", m)
	default:
		if isExecutableByOwner(m) {
			return Executable, nil
		}
		return Regular, nil
	}
}

func isExecutableByOwner(m os.FileMode) bool {
	return m&0o100 != 0
}

// Canonical reduces a raw FileMode to the representation the engine
// works with: directories and symlinks carry no permission bits,
// submodule links keep their mode, regular files (including
// Deprecated, the historic 100664 regular-file mode) collapse to
// rw-r--r-- or rwxr-xr-x based solely on the owner-execute bit, and
// any other type yields Empty. Mirrors diff.c's
// canonical_mode/CANONICAL_PERMS.
func (m FileMode) Canonical() FileMode {
	switch {
	case m.IsDir():
		return Dir
	case m.IsSymlink():
		return Symlink
	case m.IsSubmodule():
		return Submodule
	case m.IsRegular() || m == Deprecated:
		if m&0o100 != 0 {
			return Executable
		}
		return Regular
	default:
		return Empty
	}
}

// IsDir reports whether m names a directory.
func (m FileMode) IsDir() bool { return m&0o170000 == Dir }

// IsSymlink reports whether m names a symbolic link.
func (m FileMode) IsSymlink() bool { return m&0o170000 == Symlink }

// IsSubmodule reports whether m names a nested-repository link.
func (m FileMode) IsSubmodule() bool { return m&0o170000 == Submodule }

// IsRegular reports whether m names a regular file (executable or not).
func (m FileMode) IsRegular() bool {
	return m&0o170000 == 0o100000
}

// IsExecutable reports whether m is a regular file with the
// owner-execute bit set.
func (m FileMode) IsExecutable() bool {
	return m.IsRegular() && m&0o100 != 0
}

// IsMalformed reports whether m is not one of the known canonical modes.
func (m FileMode) IsMalformed() bool {
	switch m {
	case Empty, Dir, Regular, Deprecated, Executable, Symlink, Submodule:
		return false
	default:
		return true
	}
}

// Type returns m with permission bits stripped, i.e. the type
// component compared by spec §4.5's "blob became symlink" split.
func (m FileMode) Type() FileMode {
	return m &^ 0o777
}

// String renders m as a zero-padded octal string, as it would appear
// in a tree entry or a patch mode line.
func (m FileMode) String() string {
	return fmt.Sprintf("%06o", uint32(m))
}

// Bytes is the byte-slice form of String, convenient for hashing and
// for comparisons against encoded tree entries.
func (m FileMode) Bytes() []byte {
	return []byte(m.String())
}
