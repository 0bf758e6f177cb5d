package entity

import "strings"

// DefaultNamespaceRoots are the top-level sections the shell is organized under.
var DefaultNamespaceRoots = []string{"/admin", "/care", "/office"}

// DefaultRootPath is used when a location sits under no known namespace.
const DefaultRootPath = "/"

// Namespaces resolves the base path a workspace falls back to when
// its last tab closes.
type Namespaces struct {
	Roots   []string
	Default string
}

// NewNamespaces normalizes roots and the default path.
// Empty input yields the built-in roots and "/".
func NewNamespaces(roots []string, def string) Namespaces {
	ns := Namespaces{Default: NormalizePath(def)}
	if strings.TrimSpace(def) == "" {
		ns.Default = DefaultRootPath
	}
	if len(roots) == 0 {
		roots = DefaultNamespaceRoots
	}
	for _, r := range roots {
		if p := NormalizePath(r); p != "/" {
			ns.Roots = append(ns.Roots, p)
		}
	}
	return ns
}

// BasePath returns the namespace root containing location, matched on
// whole path segments, or the default root.
func (n Namespaces) BasePath(location string) string {
	path := NormalizePath(location)
	for _, root := range n.Roots {
		if path == root || strings.HasPrefix(path, root+"/") {
			return root
		}
	}
	if n.Default == "" {
		return DefaultRootPath
	}
	return n.Default
}

// NormalizePath strips query and fragment, ensures a leading slash and
// drops a trailing slash (except for the root itself).
func NormalizePath(location string) string {
	p := strings.TrimSpace(location)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
