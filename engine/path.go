package engine

import "strings"

// Up is the path segment that climbs one level, like ".." in a file system.
const Up = ".."

// Path names a node in the state tree relative to some other node.
type Path []string

// NewPath builds a path from its segments.
func NewPath(segments ...string) Path { return Path(segments) }

// ParsePath splits a slash separated path such as "../alice/bank".
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	return strings.Split(s, "/")
}

func (p Path) String() string { return strings.Join(p, "/") }

// Head returns the first segment, or "" for an empty path.
func (p Path) Head() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// Tail returns every segment after the first.
func (p Path) Tail() Path {
	if len(p) == 0 {
		return nil
	}
	return p[1:]
}

// Prepend returns a new path with segment in front.
func (p Path) Prepend(segment string) Path {
	out := make(Path, 0, len(p)+1)
	out = append(out, segment)
	return append(out, p...)
}

// Join returns a new path with other appended.
func (p Path) Join(other Path) Path {
	out := make(Path, 0, len(p)+len(other))
	out = append(out, p...)
	return append(out, other...)
}

// Resolve applies the relative path rel to base. Each Up segment drops the
// last segment of base. It reports false when rel climbs above the root of base.
func (p Path) Resolve(rel Path) (Path, bool) {
	out := append(Path(nil), p...)
	for _, segment := range rel {
		if segment != Up {
			out = append(out, segment)
			continue
		}
		if len(out) == 0 {
			return nil, false
		}
		out = out[:len(out)-1]
	}
	return out, true
}

// Equal reports whether both paths have the same segments.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}
