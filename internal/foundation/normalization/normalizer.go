// Package normalization folds free-form configuration strings onto
// closed sets of typed values.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer maps raw strings onto a fixed set of typed values.
// Lookup ignores case and surrounding whitespace.
type Normalizer[T comparable] struct {
	values   map[string]T
	fallback T
	keys     []string // cached for error messages
}

// New builds a normalizer over the given string-to-value table.
func New[T comparable](values map[string]T, fallback T) *Normalizer[T] {
	folded := make(map[string]T, len(values))
	keys := make([]string, 0, len(values))
	for k, v := range values {
		key := fold(k)
		folded[key] = v
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return &Normalizer[T]{values: folded, fallback: fallback, keys: keys}
}

// Normalize converts raw to its typed value, returning the fallback
// when raw is not recognized.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[fold(raw)]; ok {
		return v
	}
	return n.fallback
}

// Strict converts raw to its typed value, naming the valid options on failure.
func (n *Normalizer[T]) Strict(raw string) (T, error) {
	if v, ok := n.values[fold(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q, valid options: %v", raw, n.keys)
}

// Keys returns the sorted set of recognized inputs.
func (n *Normalizer[T]) Keys() []string {
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
