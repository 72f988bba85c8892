// Package artifacts maps artifact kinds to deterministic output paths.
//
// Every generated file lands at <baseDir>/<model>.<suffix>.core.<ext>, where
// the base directory, suffix, and extension come from a fixed kind table. The
// ".core." infix marks machine-owned files that are regenerated on every run.
package artifacts

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Kind identifies a category of generated file.
type Kind string

const (
	KindController Kind = "controller"
	KindSchema     Kind = "schema"
	KindRoutes     Kind = "routes"
	KindQueue      Kind = "queue"
	KindPage       Kind = "page"
)

// Set of error variables for path resolution.
var (
	ErrUnknownKind      = errors.New("unknown output type")
	ErrInvalidModelName = errors.New("invalid model name")
	ErrDuplicateKind    = errors.New("kind already registered")
)

// Target describes where artifacts of one kind are written.
type Target struct {
	BaseDir string
	Suffix  string
	Ext     string
}

// Registry holds the kind to output-target table. Entries are added only
// through Register; lookups hand out copies so callers cannot mutate the
// table behind the resolver's back.
type Registry struct {
	targets map[Kind]Target
	order   []Kind
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{targets: make(map[Kind]Target)}
}

// DefaultRegistry creates a registry holding the standard kind table. Each
// call returns a fresh registry, so one caller extending its copy never
// affects another.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, row := range []struct {
		kind   Kind
		target Target
	}{
		{KindController, Target{BaseDir: "core/controllers", Suffix: "controller", Ext: "js"}},
		{KindSchema, Target{BaseDir: "core/schemas", Suffix: "schema", Ext: "js"}},
		{KindRoutes, Target{BaseDir: "core/routes/v1", Suffix: "routes", Ext: "js"}},
		{KindQueue, Target{BaseDir: "core/queues", Suffix: "queue", Ext: "js"}},
		{KindPage, Target{BaseDir: "frontend/pages", Suffix: "page", Ext: "tsx"}},
	} {
		if err := r.Register(row.kind, row.target); err != nil {
			panic(fmt.Sprintf("registering default kind %s: %v", row.kind, err))
		}
	}
	return r
}

// Register adds a kind to the table. Registering an existing kind or an
// incomplete target is an error; the table never silently overwrites.
func (r *Registry) Register(kind Kind, target Target) error {
	if kind == "" {
		return fmt.Errorf("register: empty kind")
	}
	if target.BaseDir == "" || target.Suffix == "" || target.Ext == "" {
		return fmt.Errorf("register %s: target requires base dir, suffix, and extension", kind)
	}
	if _, exists := r.targets[kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, kind)
	}
	r.targets[kind] = target
	r.order = append(r.order, kind)
	return nil
}

// Lookup returns the target for a kind.
func (r *Registry) Lookup(kind Kind) (Target, bool) {
	t, ok := r.targets[kind]
	return t, ok
}

// BaseDir returns the output directory registered for a kind.
func (r *Registry) BaseDir(kind Kind) (string, error) {
	t, ok := r.targets[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return t.BaseDir, nil
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, len(r.order))
	copy(out, r.order)
	return out
}

// ResolvePath returns the relative output path for one artifact. The result
// always uses forward slashes; callers writing to disk convert with
// filepath.FromSlash. Pure function of the registry and its inputs, no
// filesystem access.
func (r *Registry) ResolvePath(kind Kind, modelName string) (string, error) {
	t, ok := r.targets[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err := validateModelName(modelName); err != nil {
		return "", err
	}
	return path.Join(t.BaseDir, fmt.Sprintf("%s.%s.core.%s", modelName, t.Suffix, t.Ext)), nil
}

// ParseKind converts a string to a registered Kind.
func (r *Registry) ParseKind(s string) (Kind, error) {
	kind := Kind(strings.TrimSpace(strings.ToLower(s)))
	if _, ok := r.targets[kind]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return kind, nil
}

func validateModelName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidModelName)
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q contains path separators", ErrInvalidModelName, name)
	}
	return nil
}
