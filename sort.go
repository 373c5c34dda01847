package dirindex

import (
	"cmp"
	"slices"
	"strings"
)

// SortKey selects the listing order. Its value is the wire form used in
// the "sort" query parameter.
type SortKey string

const (
	SortName      SortKey = "name"
	SortNameDesc  SortKey = "name_rev"
	SortMtime     SortKey = "mtime"
	SortMtimeDesc SortKey = "mtime_rev"
	SortSize      SortKey = "size"
	SortSizeDesc  SortKey = "size_rev"
)

// SortColumns are the sortable columns in display order, each in its
// ascending form.
var SortColumns = []SortKey{SortName, SortMtime, SortSize}

func (k SortKey) IsValid() bool {
	switch k {
	case SortName, SortNameDesc, SortMtime, SortMtimeDesc, SortSize, SortSizeDesc:
		return true
	default:
		return false
	}
}

// ParseSortKey parses an untrusted query value. Anything unknown, including
// the empty string, falls back to SortName.
func ParseSortKey(s string) SortKey {
	k := SortKey(s)
	if !k.IsValid() {
		return SortName
	}
	return k
}

// Desc reports whether k sorts in descending order.
func (k SortKey) Desc() bool {
	return strings.HasSuffix(string(k), "_rev")
}

// Column returns the ascending form of k.
func (k SortKey) Column() SortKey {
	return SortKey(strings.TrimSuffix(string(k), "_rev"))
}

// Reverse returns the same column in the opposite direction.
func (k SortKey) Reverse() SortKey {
	if k.Desc() {
		return k.Column()
	}
	return k + "_rev"
}

// Toggle returns the key a link for column should carry when the listing is
// currently sorted by k: the current column flips direction, every other
// column gets its ascending default.
func (k SortKey) Toggle(column SortKey) SortKey {
	column = column.Column()
	if k.Column() == column {
		return k.Reverse()
	}
	return column
}

// SortEntries sorts entries in place by key. Ties on mtime or size fall back
// to the name in the same direction, so a key and its reverse always give
// exactly reversed sequences.
func SortEntries(entries []DirEntry, key SortKey) {
	key = ParseSortKey(string(key))
	column := key.Column()
	desc := key.Desc()

	slices.SortFunc(entries, func(a, b DirEntry) int {
		c := compareEntries(a, b, column)
		if desc {
			return -c
		}
		return c
	})
}

func compareEntries(a, b DirEntry, column SortKey) int {
	var c int

	switch column {
	case SortMtime:
		c = a.ModTime.Compare(b.ModTime)
	case SortSize:
		c = cmp.Compare(a.sortSize(), b.sortSize())
	}

	if c != 0 {
		return c
	}

	return strings.Compare(a.Name, b.Name)
}
