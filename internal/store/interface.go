// Package store provides the path-addressable document store the core
// persists into. Values form a single JSON document tree; writes address
// subtrees by slash-joined paths and a multi-path Update is applied
// atomically as a unit.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Event is delivered to subscribers whenever the subtree at the subscribed
// path changes. Value is the current subtree value (nil if deleted).
type Event struct {
	Path  string
	Value any
}

// Store is the persistence adapter contract. Implementations must apply the
// entire Update batch atomically, never half of it. There is no version
// check: concurrent writers to the same path overwrite each other
// (last-write-wins at the field level).
type Store interface {
	// Get returns the current subtree value at path, or nil if absent.
	Get(ctx context.Context, path string) (any, error)
	// Set fully overwrites the subtree at path.
	Set(ctx context.Context, path string, value any) error
	// Update applies an atomic multi-path partial write. A nil value
	// deletes the subtree at its path.
	Update(ctx context.Context, values map[string]any) error
	// Remove deletes the subtree at path.
	Remove(ctx context.Context, path string) error
	// Subscribe streams the current subtree value and every subsequent
	// change until cancel is called.
	Subscribe(ctx context.Context, path string) (<-chan Event, func(), error)
}

// Join builds a slash-joined document path.
func Join(parts ...string) string {
	return strings.Join(parts, "/")
}

// Decode re-marshals a raw subtree value into a typed destination. Stored
// values are plain JSON trees, so a round trip is the canonical conversion.
func Decode(value, dest any) error {
	if value == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode subtree: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode subtree: %w", err)
	}
	return nil
}

// normalize converts any value into its plain JSON tree form
// (map[string]any / []any / float64 / string / bool / nil) so reads are
// shape-independent of what the writer passed in.
func normalize(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return out, nil
}

func splitPath(path string) ([]string, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, fmt.Errorf("empty path")
	}
	parts := strings.Split(trimmed, "/")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("malformed path %q", path)
		}
	}
	return parts, nil
}
