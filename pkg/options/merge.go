// Package options builds loader and plugin option maps.
//
// Option maps are plain map[string]any trees, the same shape a YAML or JSON
// decoder produces. Every function here returns a fresh tree; inputs are never
// modified, so defaults can be shared between compositions.
package options

import (
	"fmt"
	"log/slog"
	"maps"

	"dario.cat/mergo"
	"github.com/mitchellh/copystructure"
)

// Merge deep-merges override over base and returns a new map.
//
// Nested maps are merged key by key and override keys win at every level.
// Slices and scalars from override replace the base value wholesale.
// Neither argument is modified.
func Merge(base, override map[string]any) map[string]any {
	dst := Clone(base)
	if dst == nil {
		dst = make(map[string]any)
	}
	if len(override) == 0 {
		return dst
	}

	// Both sides are map[string]any, so an error here is a programming error.
	if err := mergo.Merge(&dst, Clone(override), mergo.WithOverride); err != nil {
		panic(fmt.Sprintf("options: merging option maps: %v", err))
	}
	return dst
}

// MergeAll folds Merge over layers from left to right. Later layers win.
func MergeAll(layers ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, layer := range layers {
		out = Merge(out, layer)
	}
	return out
}

// Clone returns a deep copy of m. A nil map stays nil.
func Clone(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c, err := copystructure.Copy(m)
	if err != nil {
		slog.Warn("deep copy of options failed, falling back to shallow copy", "error", err)
		return maps.Clone(m)
	}
	return c.(map[string]any)
}

// CloneSlice returns a deep copy of s. A nil slice stays nil.
func CloneSlice(s []any) []any {
	if s == nil {
		return nil
	}
	c, err := copystructure.Copy(s)
	if err != nil {
		slog.Warn("deep copy of option list failed, falling back to shallow copy", "error", err)
		return append([]any(nil), s...)
	}
	return c.([]any)
}

// Lookup walks m along path and returns the value found there.
func Lookup(m map[string]any, path ...string) (any, bool) {
	var cur any = m
	for _, key := range path {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
