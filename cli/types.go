package cli

import (
	"time"

	"github.com/sagarc03/dirindex"
)

// Entry is one row of a listing.
type Entry struct {
	Name    string    `json:"name"`
	Kind    string    `json:"kind"`
	ModTime time.Time `json:"mtime"`
	Size    int64     `json:"size_bytes"`
}

// Listing is a directory listing ready for output.
type Listing struct {
	Path    string  `json:"path"`
	Entries []Entry `json:"entries"`
}

// NewListing converts sorted engine entries, keeping their order.
func NewListing(path string, entries []dirindex.DirEntry) *Listing {
	l := &Listing{
		Path:    path,
		Entries: make([]Entry, len(entries)),
	}
	for i, e := range entries {
		l.Entries[i] = Entry{
			Name:    e.Name,
			Kind:    e.Kind.String(),
			ModTime: e.ModTime,
			Size:    e.Size,
		}
	}
	return l
}

// TotalSize returns the combined size of all regular files in the listing.
func (l *Listing) TotalSize() int64 {
	var total int64
	for i := range l.Entries {
		total += l.Entries[i].Size
	}
	return total
}

// MountInfo describes a configured mount.
type MountInfo struct {
	Path        string   `json:"path"`
	Root        string   `json:"root"`
	AllowAll    bool     `json:"allow_all,omitempty"`
	AllowExact  []string `json:"allow_exact,omitempty"`
	AllowPrefix []string `json:"allow_prefix,omitempty"`
}

// NewMountInfo describes m.
func NewMountInfo(m *dirindex.Mount) MountInfo {
	policy := m.Policy()
	return MountInfo{
		Path:        m.Path(),
		Root:        m.Root(),
		AllowAll:    policy.AllowAll(),
		AllowExact:  policy.Exact(),
		AllowPrefix: policy.Prefix(),
	}
}
