package noderepo

import gopath "path"

// NormalizePath resolves ".", "..", and redundant slashes, and anchors the
// result at the repository root. The empty path normalizes to "/".
func NormalizePath(p string) string {
	return gopath.Clean("/" + p)
}

// JoinPath joins path segments and normalizes the result.
func JoinPath(segments ...string) string {
	return NormalizePath(gopath.Join(segments...))
}

// SplitPath splits a normalized path into its parent path and last segment.
// The root splits into itself and "/".
func SplitPath(p string) (parent, name string) {
	p = NormalizePath(p)
	if p == "/" {
		return "/", "/"
	}
	return gopath.Dir(p), gopath.Base(p)
}
