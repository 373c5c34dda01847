package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/sagarc03/dirindex"
	"github.com/sagarc03/dirindex/config"
	"github.com/sagarc03/dirindex/filesystem"
	dirhttp "github.com/sagarc03/dirindex/http"
)

// servedMount is a mount with its root opened and its lister built.
type servedMount struct {
	mount  *dirindex.Mount
	root   *os.Root
	store  *filesystem.Store
	lister *dirindex.Lister
}

// mountSet holds every configured mount, most specific path first.
type mountSet struct {
	mounts []servedMount
}

// openMounts validates every configured mount and opens its root once.
// The caller must Close the returned set.
func openMounts(cfg *config.Config) (*mountSet, error) {
	mountCfgs, err := cfg.ResolveMounts()
	if err != nil {
		return nil, fmt.Errorf("resolve mounts: %w", err)
	}

	var opts []dirindex.RendererOption
	if cfg.Server.Minify {
		opts = append(opts, dirindex.WithMinify())
	}

	renderer, err := dirindex.NewRenderer(opts...)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	set := &mountSet{}
	for _, mc := range mountCfgs {
		m, err := dirindex.NewMount(mc)
		if err != nil {
			_ = set.Close()
			return nil, err
		}

		root, err := os.OpenRoot(m.Root())
		if err != nil {
			_ = set.Close()
			return nil, fmt.Errorf("open root for mount %s: %w", m.Path(), err)
		}

		store := filesystem.NewFileStorage(root)
		lister, err := dirindex.NewLister(store, renderer)
		if err != nil {
			_ = root.Close()
			_ = set.Close()
			return nil, fmt.Errorf("create lister for mount %s: %w", m.Path(), err)
		}

		set.mounts = append(set.mounts, servedMount{
			mount:  m,
			root:   root,
			store:  store,
			lister: lister,
		})

		slog.Debug("mount ready", "path", m.Path(), "root", m.Root(), "allow_all", m.Policy().AllowAll())
	}

	slices.SortStableFunc(set.mounts, func(a, b servedMount) int {
		return len(b.mount.Segments()) - len(a.mount.Segments())
	})

	return set, nil
}

// Routes returns one HTTP route per mount.
func (s *mountSet) Routes() []dirhttp.Route {
	routes := make([]dirhttp.Route, len(s.mounts))
	for i, m := range s.mounts {
		routes[i] = dirhttp.Route{Mount: m.mount, Lister: m.lister, Files: m.store}
	}
	return routes
}

// Lookup returns the most specific mount containing the raw request
// segments, and the subpath below it.
func (s *mountSet) Lookup(request []string) (*servedMount, []string, bool) {
	for i := range s.mounts {
		if sub, ok := s.mounts[i].mount.Subpath(request); ok {
			return &s.mounts[i], sub, true
		}
	}
	return nil, nil, false
}

// Close closes every opened root.
func (s *mountSet) Close() error {
	var errs []error
	for _, m := range s.mounts {
		if err := m.root.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close root %s: %w", m.mount.Root(), err))
		}
	}
	return errors.Join(errs...)
}
