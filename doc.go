// Package dirindex renders browsable HTML listings of directories served
// under a mount path, and passes every other request through untouched.
//
// The engine is built from small, independent steps that run once per request:
//
//   - Match strips the configured mount prefix from the request path
//   - AccessPolicy decides whether the remaining subpath may be listed
//   - Sanitize decodes and validates every path segment
//   - FileStorage resolves the subpath to a directory and enumerates it
//   - SortEntries orders the entries by the requested SortKey
//   - Renderer writes the header, one row per entry, and the footer
//
// Lister ties the storage, sorting and rendering steps together. The http
// package wraps it as middleware placed in front of a static-file stage.
//
// # Access Policy
//
// Listing is denied by default. A mount lists only subpaths whose first
// segment matches AllowExact or starts with one of AllowPrefix, unless
// AllowAll is set explicitly:
//
//	mount, err := dirindex.NewMount(dirindex.MountConfig{
//	    Path:       "/assets",
//	    Root:       "/srv/assets",
//	    AllowExact: []string{"images"},
//	})
//
// # Example Usage
//
//	root, _ := os.OpenRoot(mount.Root())
//	renderer, _ := dirindex.NewRenderer()
//	lister, _ := dirindex.NewLister(filesystem.NewFileStorage(root), renderer)
//
//	sub, ok := mount.Eligible(dirindex.SplitPath(r.URL.EscapedPath()))
//	if !ok {
//	    // not ours, hand the request to the next stage
//	}
//	segments, err := dirindex.Sanitize(sub) // ErrInvalidPath -> 400
//	body, err := lister.Listing(ctx, dirindex.NewListRequest(mount, segments, r.Host, sort))
//
// Mount, Lister and Renderer are immutable after construction and safe for
// concurrent use. Nothing is cached between requests.
package dirindex
