package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-process implementation of the Store interface. It
// holds the document tree in memory and delivers subscription events after
// each write, mirroring the realtime semantics of the production store.
type MemoryStore struct {
	mu   sync.RWMutex
	root map[string]any
	subs map[int]*subscriber
	next int
}

type subscriber struct {
	path string
	ch   chan Event
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		root: make(map[string]any),
		subs: make(map[int]*subscriber),
	}
}

// Get returns the current subtree value at path, or nil if absent.
func (s *MemoryStore) Get(ctx context.Context, path string) (any, error) {
	parts, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, _ := getAt(s.root, parts)
	return deepCopy(value), nil
}

// Set fully overwrites the subtree at path.
func (s *MemoryStore) Set(ctx context.Context, path string, value any) error {
	return s.Update(ctx, map[string]any{path: value})
}

// Update applies all entries as one atomic batch, then notifies affected
// subscribers. A nil value deletes the subtree at its path.
func (s *MemoryStore) Update(ctx context.Context, values map[string]any) error {
	type write struct {
		parts []string
		value any
	}
	writes := make([]write, 0, len(values))
	for path, value := range values {
		parts, err := splitPath(path)
		if err != nil {
			return err
		}
		normalized, err := normalize(value)
		if err != nil {
			return err
		}
		writes = append(writes, write{parts: parts, value: normalized})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range writes {
		setAt(s.root, w.parts, w.value)
	}
	s.notifyLocked()
	return nil
}

// Remove deletes the subtree at path.
func (s *MemoryStore) Remove(ctx context.Context, path string) error {
	return s.Update(ctx, map[string]any{path: nil})
}

// Subscribe streams the current subtree value and every subsequent change.
// Events are buffered; a consumer that falls far behind misses intermediate
// snapshots but always receives a later, fresher one.
func (s *MemoryStore) Subscribe(ctx context.Context, path string) (<-chan Event, func(), error) {
	parts, err := splitPath(path)
	if err != nil {
		return nil, nil, err
	}
	sub := &subscriber{path: path, ch: make(chan Event, 16)}

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = sub
	value, _ := getAt(s.root, parts)
	sub.ch <- Event{Path: path, Value: deepCopy(value)}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub.ch)
		}
		s.mu.Unlock()
	}
	return sub.ch, cancel, nil
}

// notifyLocked delivers each subscriber's current view. Sends happen under
// the write lock so a concurrent cancel can never close a channel mid-send;
// full channels are skipped rather than blocking the writer.
func (s *MemoryStore) notifyLocked() {
	for _, sub := range s.subs {
		parts, err := splitPath(sub.path)
		if err != nil {
			continue
		}
		value, _ := getAt(s.root, parts)
		select {
		case sub.ch <- Event{Path: sub.path, Value: deepCopy(value)}:
		default:
		}
	}
}

func getAt(node any, parts []string) (any, bool) {
	current := node
	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// setAt writes value at parts, creating intermediate maps. A nil value
// prunes the entry and any maps left empty along the way.
func setAt(root map[string]any, parts []string, value any) {
	if len(parts) == 1 {
		if value == nil {
			delete(root, parts[0])
		} else {
			root[parts[0]] = value
		}
		return
	}
	child, ok := root[parts[0]].(map[string]any)
	if !ok {
		if value == nil {
			return
		}
		child = make(map[string]any)
		root[parts[0]] = child
	}
	setAt(child, parts[1:], value)
	if value == nil && len(child) == 0 {
		delete(root, parts[0])
	}
}

func deepCopy(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = deepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return value
	}
}
