package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/sagarc03/dirindex"
)

// Formatter formats results for output.
type Formatter interface {
	FormatListing(w io.Writer, listing *Listing) error
	FormatMounts(w io.Writer, mounts []MountInfo) error
	FormatError(w io.Writer, err error) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	// Quiet prints names only.
	Quiet bool
}

// FormatListing formats a listing as aligned columns.
func (f *HumanFormatter) FormatListing(w io.Writer, listing *Listing) error {
	if f.Quiet {
		for i := range listing.Entries {
			_, _ = fmt.Fprintln(w, displayName(&listing.Entries[i]))
		}
		return nil
	}

	if len(listing.Entries) == 0 {
		_, _ = fmt.Fprintf(w, "%s is empty\n", listing.Path)
		return nil
	}

	maxNameLen := 4 // "NAME"
	for i := range listing.Entries {
		if n := len(displayName(&listing.Entries[i])); n > maxNameLen {
			maxNameLen = n
		}
	}
	if maxNameLen > 60 {
		maxNameLen = 60
	}

	_, _ = fmt.Fprintf(w, "%-*s  %10s  %s\n", maxNameLen, "NAME", "SIZE", "MODIFIED")
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", 10), strings.Repeat("-", 19))

	for i := range listing.Entries {
		e := &listing.Entries[i]
		name := displayName(e)
		if len(name) > maxNameLen {
			name = name[:maxNameLen-3] + "..."
		}

		size := ""
		if e.Kind == dirindex.KindRegular.String() {
			size = humanize.Bytes(uint64(e.Size))
		}

		_, _ = fmt.Fprintf(w, "%-*s  %10s  %s\n",
			maxNameLen,
			name,
			size,
			e.ModTime.Format(dirindex.TimeFormat),
		)
	}

	_, _ = fmt.Fprintf(w, "\n%d entry(s) in %s (%s total)\n",
		len(listing.Entries), listing.Path, humanize.Bytes(uint64(listing.TotalSize())))

	return nil
}

// FormatMounts formats configured mounts as human-readable text.
func (f *HumanFormatter) FormatMounts(w io.Writer, mounts []MountInfo) error {
	if len(mounts) == 0 {
		_, _ = fmt.Fprintln(w, "No mounts configured")
		return nil
	}

	if f.Quiet {
		for i := range mounts {
			_, _ = fmt.Fprintln(w, mounts[i].Path)
		}
		return nil
	}

	maxPathLen := 5 // "MOUNT"
	for i := range mounts {
		if len(mounts[i].Path) > maxPathLen {
			maxPathLen = len(mounts[i].Path)
		}
	}

	_, _ = fmt.Fprintf(w, "%-*s  %-30s  %s\n", maxPathLen, "MOUNT", "LISTABLE", "ROOT")
	for i := range mounts {
		m := &mounts[i]
		_, _ = fmt.Fprintf(w, "%-*s  %-30s  %s\n", maxPathLen, m.Path, describePolicy(m), m.Root)
	}

	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatListing formats a listing as JSON.
func (f *JSONFormatter) FormatListing(w io.Writer, listing *Listing) error {
	return writeJSON(w, listing)
}

// FormatMounts formats configured mounts as JSON.
func (f *JSONFormatter) FormatMounts(w io.Writer, mounts []MountInfo) error {
	output := struct {
		Mounts []MountInfo `json:"mounts"`
	}{
		Mounts: mounts,
	}
	return writeJSON(w, output)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
	}{
		Error: err.Error(),
	}
	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func displayName(e *Entry) string {
	if e.Kind == dirindex.KindDirectory.String() {
		return e.Name + "/"
	}
	return e.Name
}

func describePolicy(m *MountInfo) string {
	if m.AllowAll {
		return "everything"
	}

	var parts []string
	if len(m.AllowExact) > 0 {
		parts = append(parts, strings.Join(m.AllowExact, ","))
	}
	for _, p := range m.AllowPrefix {
		parts = append(parts, p+"*")
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ",")
}
