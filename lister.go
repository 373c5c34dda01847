package dirindex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// FileStorage defines the filesystem operations a listing needs.
//
// All methods accept a context for cancellation. Implementations must not
// cache results between calls: directory contents are expected to change.
type FileStorage interface {
	// ResolveDir maps sanitized segments to a directory below the storage
	// root. Symlinks are followed for the directory check itself.
	//
	// Returns:
	//   - string: the directory path to pass to ReadDir
	//   - error: ErrNotFound if the path is missing or not a directory
	ResolveDir(ctx context.Context, segments []string) (string, error)

	// ReadDir enumerates dir without recursing and reads each entry's
	// metadata without following symlinks. An entry whose metadata cannot be
	// read is still returned, with StatErr set. Only a failure to read the
	// directory itself is returned as an error.
	ReadDir(ctx context.Context, dir string) ([]DirEntry, error)
}

// ListRequest describes one listing.
type ListRequest struct {
	// Segments is the sanitized subpath below the mount root.
	Segments []string
	// Path is the decoded logical path including the mount, ending in "/".
	Path string
	// Link is the percent-encoded form of Path.
	Link string
	// Parent links to the parent directory. It is empty at the mount root
	// and when the parent is not listable.
	Parent string
	Host   string
	Sort   SortKey
}

// NewListRequest builds the request for listing segments below mount.
func NewListRequest(mount *Mount, segments []string, host string, sort SortKey) ListRequest {
	all := append(mount.Segments(), segments...)

	escaped := make([]string, len(all))
	for i, seg := range all {
		escaped[i] = url.PathEscape(seg)
	}

	req := ListRequest{
		Segments: segments,
		Path:     joinDir(all),
		Link:     joinDir(escaped),
		Host:     host,
		Sort:     ParseSortKey(string(sort)),
	}

	// The parent of a first-level directory is the mount root, which the
	// policy has to allow on its own. Deeper parents share the first
	// segment that was already allowed.
	if len(segments) > 1 || (len(segments) == 1 && mount.Policy().Allows(nil)) {
		req.Parent = joinDir(escaped[:len(escaped)-1])
	}

	return req
}

func joinDir(segments []string) string {
	if len(segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(segments, "/") + "/"
}

// Lister resolves, enumerates, sorts and renders directory listings.
type Lister struct {
	storage  FileStorage
	renderer *Renderer
}

// NewLister creates a Lister over storage.
func NewLister(storage FileStorage, renderer *Renderer) (*Lister, error) {
	if storage == nil {
		return nil, errors.New("new lister: storage cannot be nil")
	}
	if renderer == nil {
		return nil, errors.New("new lister: renderer cannot be nil")
	}

	return &Lister{
		storage:  storage,
		renderer: renderer,
	}, nil
}

// Entries returns the readable entries of the directory named by segments,
// sorted by key. Entries whose metadata could not be read are dropped.
// Returns ErrNotFound if segments do not name a directory.
func (l *Lister) Entries(ctx context.Context, segments []string, key SortKey) ([]DirEntry, error) {
	dir, err := l.storage.ResolveDir(ctx, segments)
	if err != nil {
		return nil, err
	}

	all, err := l.storage.ReadDir(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	entries := make([]DirEntry, 0, len(all))
	for _, e := range all {
		if e.StatErr != nil {
			slog.Warn("skipping entry without metadata", "dir", dir, "name", e.Name, "err", e.StatErr)
			continue
		}
		entries = append(entries, e)
	}

	slog.Debug("listed directory", "dir", dir, "enumerated", len(all), "listed", len(entries))

	SortEntries(entries, key)
	return entries, nil
}

// Listing renders the HTML listing for req. Returns ErrNotFound if req does
// not name a directory; callers pass such requests on.
func (l *Lister) Listing(ctx context.Context, req ListRequest) ([]byte, error) {
	entries, err := l.Entries(ctx, req.Segments, req.Sort)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = l.renderer.Render(&buf, Page{
		Path:    req.Path,
		Link:    req.Link,
		Parent:  req.Parent,
		Host:    req.Host,
		Sort:    req.Sort,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("render listing: %w", err)
	}

	return buf.Bytes(), nil
}
