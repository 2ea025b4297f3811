package steps

import "maps"

// Resolver maps a step or plugin name to an implementation reference the host
// build tool can load. Implementations must be safe for concurrent use.
type Resolver interface {
	Resolve(name string) string
}

// NameResolver hands the name through unchanged.
type NameResolver struct{}

func (NameResolver) Resolve(name string) string { return name }

// MapResolver resolves names through an alias table and falls back to the
// name itself.
type MapResolver map[string]string

func (m MapResolver) Resolve(name string) string {
	if ref, ok := m[name]; ok {
		return ref
	}
	return name
}

// NewResolver returns a MapResolver for aliases, or a NameResolver when there
// are none.
func NewResolver(aliases map[string]string) Resolver {
	if len(aliases) == 0 {
		return NameResolver{}
	}
	return MapResolver(maps.Clone(aliases))
}
