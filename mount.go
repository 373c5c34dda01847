package dirindex

import (
	"fmt"
	"strings"
)

// MountConfig describes one mount before validation.
type MountConfig struct {
	// Path is the request path prefix, e.g. "/assets" or "/".
	Path string
	// Root is the physical directory served under Path.
	Root string
	// AllowExact lists first segments that may be listed.
	AllowExact []string
	// AllowPrefix lists literal prefixes of first segments that may be listed.
	AllowPrefix []string
	// AllowAll lists every directory under the mount, including the mount
	// root itself. It cannot be combined with the allow-lists.
	AllowAll bool
}

// Mount is a validated, immutable MountConfig.
type Mount struct {
	path     string
	segments []string
	root     string
	policy   AccessPolicy
}

// NewMount validates cfg and returns the Mount shared by all requests.
func NewMount(cfg MountConfig) (*Mount, error) {
	if !strings.HasPrefix(cfg.Path, "/") {
		return nil, fmt.Errorf("%w: mount path %q must start with /", ErrInvalidConfig, cfg.Path)
	}

	segments := SplitPath(cfg.Path)
	for _, seg := range segments {
		if !IsValidSegment(seg) {
			return nil, fmt.Errorf("%w: mount path %q has an invalid segment %q", ErrInvalidConfig, cfg.Path, seg)
		}
	}

	if cfg.Root == "" {
		return nil, fmt.Errorf("%w: mount %q has no root", ErrInvalidConfig, cfg.Path)
	}

	policy, err := NewAccessPolicy(cfg.AllowExact, cfg.AllowPrefix, cfg.AllowAll)
	if err != nil {
		return nil, fmt.Errorf("mount %q: %w", cfg.Path, err)
	}

	return &Mount{
		path:     "/" + strings.Join(segments, "/"),
		segments: segments,
		root:     cfg.Root,
		policy:   policy,
	}, nil
}

// Path returns the normalized mount path without a trailing slash, or "/".
func (m *Mount) Path() string {
	return m.path
}

// Root returns the physical root directory.
func (m *Mount) Root() string {
	return m.root
}

// Segments returns a copy of the mount path segments.
func (m *Mount) Segments() []string {
	out := make([]string, len(m.segments))
	copy(out, m.segments)
	return out
}

// Policy returns the mount's access policy.
func (m *Mount) Policy() AccessPolicy {
	return m.policy
}

// Eligible strips the mount prefix from the raw request segments and applies
// the access policy. It never touches the filesystem. The returned subpath
// is still raw and must go through Sanitize.
func (m *Mount) Eligible(request []string) ([]string, bool) {
	sub, ok := Match(m.segments, request)
	if !ok {
		return nil, false
	}
	if !m.policy.Allows(sub) {
		return nil, false
	}
	return sub, true
}

// Subpath strips the mount prefix from the raw request segments without
// applying the access policy.
func (m *Mount) Subpath(request []string) ([]string, bool) {
	return Match(m.segments, request)
}

// Match walks mount and request in lock step. Once mount is exhausted the
// rest of request is returned, which is empty (not nil) when the request
// names the mount root. A request that diverges from mount, or is shorter
// than it, does not match.
func Match(mount, request []string) ([]string, bool) {
	if len(request) < len(mount) {
		return nil, false
	}

	for i, seg := range mount {
		if request[i] != seg {
			return nil, false
		}
	}

	rest := make([]string, len(request)-len(mount))
	copy(rest, request[len(mount):])
	return rest, true
}

// SplitPath splits a URL path into segments, dropping the leading slash and
// a single trailing slash. "/" and "" yield no segments. Empty segments
// produced by repeated slashes are kept so Sanitize can reject them.
func SplitPath(p string) []string {
	p = strings.TrimPrefix(p, "/")
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return []string{}
	}
	return strings.Split(p, "/")
}
