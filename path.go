package drivepathfs

import (
	"fmt"
	"strings"
)

// pathSeparators are the characters accepted as path separators.
// Full names held by the Index always use '/'.
const pathSeparators = `/\`

// ParsePath splits path at its last separator into the parent path and the leaf name.
// The parent is empty when path has no separator, that is, when it names a top-level entry.
// No normalization of ".", ".." or repeated separators is performed.
func ParsePath(path string) (parent string, name string, err error) {
	i := strings.LastIndexAny(path, pathSeparators)
	name = path[i+1:]
	if name == "" {
		return "", "", fmt.Errorf("path %q has no name: %w", path, ErrInvalidPath)
	}
	if i > 0 {
		parent = path[:i]
	}
	return parent, name, nil
}

// normalizePath converts separators to '/' and strips leading separators
// so that the result can be compared with a Folder's FullName.
func normalizePath(path string) string {
	return strings.TrimLeft(strings.ReplaceAll(path, `\`, "/"), "/")
}

// splitPath returns the segments of path from the top level down.
func splitPath(path string) (segments []string, err error) {
	normalized := normalizePath(path)
	if normalized == "" {
		return nil, fmt.Errorf("empty path: %w", ErrInvalidPath)
	}
	segments = strings.Split(normalized, "/")
	for _, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("path %q has an empty segment: %w", path, ErrInvalidPath)
		}
	}
	return segments, nil
}

func joinSegments(segments []string) string {
	return strings.Join(segments, "/")
}
