package dirindex

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// AccessPolicy decides which mount-relative subpaths may be listed.
// The zero value denies everything.
type AccessPolicy struct {
	exact    map[string]struct{}
	prefix   []string
	allowAll bool
}

// NewAccessPolicy builds a policy from the exact and prefix allow-lists.
// Empty list members are rejected since an empty prefix would match every
// directory. allowAll must not be combined with either list.
func NewAccessPolicy(exact, prefix []string, allowAll bool) (AccessPolicy, error) {
	if allowAll && (len(exact) > 0 || len(prefix) > 0) {
		return AccessPolicy{}, fmt.Errorf("%w: allow_all cannot be combined with allow-lists", ErrInvalidConfig)
	}

	p := AccessPolicy{
		exact:    make(map[string]struct{}, len(exact)),
		prefix:   make([]string, 0, len(prefix)),
		allowAll: allowAll,
	}

	for _, e := range exact {
		if e == "" {
			return AccessPolicy{}, fmt.Errorf("%w: empty entry in exact allow-list", ErrInvalidConfig)
		}
		p.exact[e] = struct{}{}
	}

	for _, pre := range prefix {
		if pre == "" {
			return AccessPolicy{}, fmt.Errorf("%w: empty entry in prefix allow-list", ErrInvalidConfig)
		}
		p.prefix = append(p.prefix, pre)
	}

	return p, nil
}

// AllowAll reports whether the policy lists everything.
func (p AccessPolicy) AllowAll() bool {
	return p.allowAll
}

// Exact returns the exact allow-list, sorted.
func (p AccessPolicy) Exact() []string {
	return slices.Sorted(maps.Keys(p.exact))
}

// Prefix returns a copy of the prefix allow-list.
func (p AccessPolicy) Prefix() []string {
	return slices.Clone(p.prefix)
}

// Allows reports whether subpath may be listed. Only the first segment is
// inspected. An empty subpath (the mount root) is only allowed with AllowAll.
func (p AccessPolicy) Allows(subpath []string) bool {
	if p.allowAll {
		return true
	}

	if len(subpath) == 0 {
		return false
	}

	first := subpath[0]
	if _, ok := p.exact[first]; ok {
		return true
	}

	for _, pre := range p.prefix {
		if strings.HasPrefix(first, pre) {
			return true
		}
	}

	return false
}
