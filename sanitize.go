package dirindex

import (
	"fmt"
	"net/url"
	"strings"
)

// Sanitize percent-decodes every raw segment and validates the result with
// IsValidSegment. The first failing segment aborts with an error wrapping
// ErrInvalidPath; nothing may be resolved against the filesystem then.
func Sanitize(subpath []string) ([]string, error) {
	out := make([]string, 0, len(subpath))

	for _, raw := range subpath {
		seg, err := url.PathUnescape(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %q: %v", ErrInvalidPath, raw, err)
		}

		if !IsValidSegment(seg) {
			return nil, fmt.Errorf("%w: segment %q", ErrInvalidPath, raw)
		}

		out = append(out, seg)
	}

	return out, nil
}

// IsValidSegment reports whether a decoded path segment is safe to join
// onto a root directory. It rejects:
//   - "", "." and ".."
//   - segments containing "/", "\" or ":"
//   - segments containing a NUL byte
func IsValidSegment(seg string) bool {
	if seg == "" || seg == "." || seg == ".." {
		return false
	}

	if strings.ContainsAny(seg, "/\\:\x00") {
		return false
	}

	return true
}
