// Package filesystem provides the local directory backend for dirindex.
// All access goes through an *os.Root, so no path can resolve outside the
// configured root even when a symlink points elsewhere.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"

	"github.com/sagarc03/dirindex"
)

// Store provides read-only file system operations below a root.
type Store struct {
	root *os.Root
}

// NewFileStorage creates a new Store with the given root directory.
// The root provides sandboxed file operations preventing path traversal.
func NewFileStorage(root *os.Root) *Store {
	return &Store{root: root}
}

// ResolveDir joins segments onto the root and checks that the result is a
// directory. Symlinks are followed, but only while they stay inside the
// root. Returns dirindex.ErrNotFound for anything that is not a reachable
// directory.
func (s *Store) ResolveDir(ctx context.Context, segments []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := joinSegments(segments)

	info, err := s.root.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", dirindex.ErrNotFound, err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", dirindex.ErrNotFound, dir)
	}

	return dir, nil
}

// ReadDir lists the entries directly inside dir, dot-files included, and
// lstats each of them. A failed lstat marks only that entry.
func (s *Store) ReadDir(ctx context.Context, dir string) ([]dirindex.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirEntries, err := fs.ReadDir(s.root.FS(), dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	entries := make([]dirindex.DirEntry, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Name()
		info, err := s.root.Lstat(path.Join(dir, name))
		if err != nil {
			entries = append(entries, dirindex.DirEntry{Name: name, StatErr: err})
			continue
		}

		entries = append(entries, dirindex.NewDirEntry(name, info))
	}

	return entries, nil
}

// File is an open regular file.
type File interface {
	io.ReadSeekCloser
	Stat() (fs.FileInfo, error)
}

// Open opens the regular file named by segments for reading. Returns
// dirindex.ErrNotFound if it does not exist or is not a regular file.
// The caller is responsible for closing the returned file.
func (s *Store) Open(ctx context.Context, segments []string) (File, fs.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	name := joinSegments(segments)

	f, err := s.root.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, dirindex.ErrNotFound
		}
		// Paths escaping the root and unreadable files look missing from outside.
		return nil, nil, fmt.Errorf("%w: %w", dirindex.ErrNotFound, err)
	}

	info, err := f.Stat()
	if err != nil {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close file", "path", name, "err", closeErr)
		}
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	if !info.Mode().IsRegular() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close file", "path", name, "err", closeErr)
		}
		return nil, nil, dirindex.ErrNotFound
	}

	return f, info, nil
}

func joinSegments(segments []string) string {
	if len(segments) == 0 {
		return "."
	}
	return path.Join(segments...)
}
