package scaffold

import (
	"path"
	"strings"
)

// Compose joins segments into a slash-separated path relative to the
// project root. "." and ".." elements are collapsed; a ".." that would
// climb above the root and a leading "/" are both clamped at the root, so
// the result is never absolute and never escapes. An empty result is ".".
func Compose(segments ...string) string {
	joined := path.Join(append([]string{"/"}, segments...)...)
	joined = strings.TrimPrefix(joined, "/")
	if joined == "" {
		return "."
	}
	return joined
}

// Dir returns the parent of a composed path, or "." for root entries.
func Dir(p string) string {
	return path.Dir(p)
}

// isAncestor reports whether dir is a strict ancestor of p.
func isAncestor(dir, p string) bool {
	return dir != "." && strings.HasPrefix(p, dir+"/")
}
