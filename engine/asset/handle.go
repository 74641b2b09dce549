package asset

import "strings"

// Handle refers to an asset by its path and optional label ("Fox.glb#Animation2").
// Handles issued for the same path share an id. A weak handle compares equal by id with its
// strong counterpart but does not keep the asset loading on its own.
type Handle struct {
	id    uint64
	path  string
	label string
	weak  bool
}

// NewHandle creates a strong handle. Servers allocate ids; tests and custom asset stores
// may build handles directly.
//
// Parameters:
//   - id: the non-zero asset id
//   - path: the full asset path, optionally with a "#Label" suffix
//
// Returns:
//   - Handle: the new handle
func NewHandle(id uint64, path string) Handle {
	file, label := SplitPath(path)
	return Handle{id: id, path: file, label: label}
}

// ID returns the numeric asset id. The zero handle has id 0.
func (h Handle) ID() uint64 {
	return h.id
}

// Path returns the file part of the asset path.
func (h Handle) Path() string {
	return h.path
}

// Label returns the sub-asset label, or "" for the whole file.
func (h Handle) Label() string {
	return h.label
}

// IsWeak reports whether h was produced by Weak.
func (h Handle) IsWeak() bool {
	return h.weak
}

// IsZero reports whether h refers to no asset.
func (h Handle) IsZero() bool {
	return h.id == 0
}

// Weak returns a non-owning copy of h.
func (h Handle) Weak() Handle {
	h.weak = true
	return h
}

// Same reports whether h and o refer to the same asset, regardless of strength.
func (h Handle) Same(o Handle) bool {
	return h.id == o.id
}

func (h Handle) String() string {
	if h.label == "" {
		return h.path
	}
	return h.path + "#" + h.label
}

// SplitPath separates an asset path into its file and label parts.
//
// Parameters:
//   - p: the asset path, e.g. "models/Fox.glb#Scene0"
//
// Returns:
//   - string: the file part
//   - string: the label part, or "" when absent
func SplitPath(p string) (string, string) {
	file, label, _ := strings.Cut(p, "#")
	return file, label
}
