// Package protected tracks path prefixes the generator must never overwrite
// or delete. These cover hand-authored code living inside a generated service
// tree; reconciliation skips them and manifests exclude them.
package protected

import (
	"path"
	"strings"
)

// Default prefixes, relative to the service root.
var defaultPrefixes = []string{
	"custom",
	"config",
	"prisma/migrations",
}

// List is an ordered set of protected path prefixes. Prefixes are stored in
// normalized slash form without trailing separators; insertion order is
// preserved and duplicates are dropped.
type List struct {
	prefixes []string
}

// NewList builds a list from the given prefixes.
func NewList(prefixes ...string) *List {
	l := &List{}
	for _, p := range prefixes {
		l.Add(p)
	}
	return l
}

// Default returns a fresh list holding the standard protected prefixes.
func Default() *List {
	return NewList(defaultPrefixes...)
}

// Add appends a prefix if it is non-empty and not already present.
func (l *List) Add(prefix string) {
	p := normalize(prefix)
	if p == "" || p == "." {
		return
	}
	for _, existing := range l.prefixes {
		if existing == p {
			return
		}
	}
	l.prefixes = append(l.prefixes, p)
}

// Covers reports whether a relative path equals a protected prefix or sits
// beneath one. Matching respects path segment boundaries, so "custom" covers
// "custom/x.js" but not "customx.js".
func (l *List) Covers(relPath string) bool {
	p := normalize(relPath)
	if p == "" {
		return false
	}
	for _, prefix := range l.prefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

// Snapshot returns a defensive copy of the prefixes in insertion order.
// Mutating the result never alters the list, and manifests built from one
// snapshot are unaffected by later Add calls.
func (l *List) Snapshot() []string {
	out := make([]string, len(l.prefixes))
	copy(out, l.prefixes)
	return out
}

// Len returns the number of prefixes.
func (l *List) Len() int {
	return len(l.prefixes)
}

func normalize(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, `\`, "/"))
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "./")
	return strings.Trim(p, "/")
}
