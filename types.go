package dirindex

import (
	"io/fs"
	"time"
)

// EntryKind is the type of a directory entry.
type EntryKind int

const (
	KindRegular EntryKind = iota
	KindDirectory
	KindSymlink
	KindOther
)

func (k EntryKind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindDirectory:
		return "directory"
	case KindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// KindOf maps a file mode to its EntryKind. The mode is expected to come
// from an lstat, so symlinks are reported as such.
func KindOf(mode fs.FileMode) EntryKind {
	switch {
	case mode.IsRegular():
		return KindRegular
	case mode.IsDir():
		return KindDirectory
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	default:
		return KindOther
	}
}

// DirEntry is a single entry of a directory listing.
type DirEntry struct {
	Name    string    `json:"name"`
	Kind    EntryKind `json:"kind"`
	ModTime time.Time `json:"mtime"`
	// Size is only set for regular files.
	Size int64 `json:"size"`
	// StatErr is set when the entry's metadata could not be read.
	// Such entries are never rendered.
	StatErr error `json:"-"`
}

// NewDirEntry builds an entry from lstat metadata. The modification time
// is kept at second resolution in UTC.
func NewDirEntry(name string, info fs.FileInfo) DirEntry {
	e := DirEntry{
		Name:    name,
		Kind:    KindOf(info.Mode()),
		ModTime: info.ModTime().UTC().Truncate(time.Second),
	}
	if e.Kind == KindRegular {
		e.Size = info.Size()
	}
	return e
}

// IsDir reports whether the entry is a directory.
func (e DirEntry) IsDir() bool {
	return e.Kind == KindDirectory
}

// sortSize is the size used for ordering: non-regular entries count as 0.
func (e DirEntry) sortSize() int64 {
	if e.Kind != KindRegular {
		return 0
	}
	return e.Size
}
