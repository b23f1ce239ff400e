package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists the document tree as jsonb rows keyed by path.
// A multi-path Update runs in one transaction, so the batch is applied
// atomically. Reads merge ancestor, exact and descendant rows into a single
// subtree: shallower rows form the base and deeper rows overlay it.
//
// Subscriptions are notified after writes through this store instance only;
// cross-process change propagation is the transport's concern, not the
// core's.
type PostgresStore struct {
	db *pgxpool.Pool

	mu   sync.Mutex
	subs map[int]*subscriber
	next int
}

// NewPostgresStore creates a PostgresStore on top of an existing pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		db:   db,
		subs: make(map[int]*subscriber),
	}
}

// EnsureSchema creates the documents table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS documents (
		path TEXT PRIMARY KEY,
		doc  JSONB NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("ensure documents schema: %w", err)
	}
	return nil
}

// Get returns the merged subtree value at path, or nil if absent.
func (s *PostgresStore) Get(ctx context.Context, path string) (any, error) {
	if _, err := splitPath(path); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx,
		`SELECT path, doc FROM documents
		 WHERE path = $1 OR path LIKE $1 || '/%' OR $1 LIKE path || '/%'
		 ORDER BY length(path)`, path)
	if err != nil {
		return nil, fmt.Errorf("query subtree %q: %w", path, err)
	}
	defer rows.Close()

	var result any
	for rows.Next() {
		var rowPath string
		var raw []byte
		if err := rows.Scan(&rowPath, &raw); err != nil {
			return nil, fmt.Errorf("scan subtree row: %w", err)
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode row %q: %w", rowPath, err)
		}
		switch {
		case rowPath == path:
			result = mergeValue(result, doc)
		case strings.HasPrefix(rowPath, path+"/"):
			rel := strings.Split(rowPath[len(path)+1:], "/")
			result = graft(result, rel, doc)
		default: // ancestor row containing this subtree
			rel := strings.Split(path[len(rowPath)+1:], "/")
			if sub, ok := getAt(doc, rel); ok {
				result = mergeValue(result, sub)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subtree rows: %w", err)
	}
	return result, nil
}

// Set fully overwrites the subtree at path.
func (s *PostgresStore) Set(ctx context.Context, path string, value any) error {
	return s.Update(ctx, map[string]any{path: value})
}

// Update applies all entries in one transaction. A nil value deletes the
// subtree at its path, including the matching portion of any ancestor row.
func (s *PostgresStore) Update(ctx context.Context, values map[string]any) error {
	for path := range values {
		if _, err := splitPath(path); err != nil {
			return err
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for path, value := range values {
		if value == nil {
			if err := removeInTx(ctx, tx, path); err != nil {
				return err
			}
			continue
		}
		normalized, err := normalize(value)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(normalized)
		if err != nil {
			return fmt.Errorf("encode %q: %w", path, err)
		}
		// The new value owns the whole subtree; stale deeper rows must
		// not shadow it on read.
		if _, err := tx.Exec(ctx,
			`DELETE FROM documents WHERE path LIKE $1 || '/%'`, path); err != nil {
			return fmt.Errorf("prune descendants of %q: %w", path, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO documents (path, doc) VALUES ($1, $2)
			 ON CONFLICT (path) DO UPDATE SET doc = EXCLUDED.doc`, path, raw); err != nil {
			return fmt.Errorf("write %q: %w", path, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update batch: %w", err)
	}
	s.notify(ctx)
	return nil
}

// Remove deletes the subtree at path.
func (s *PostgresStore) Remove(ctx context.Context, path string) error {
	return s.Update(ctx, map[string]any{path: nil})
}

// Subscribe streams the current subtree value and every change made through
// this store instance.
func (s *PostgresStore) Subscribe(ctx context.Context, path string) (<-chan Event, func(), error) {
	if _, err := splitPath(path); err != nil {
		return nil, nil, err
	}
	current, err := s.Get(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	sub := &subscriber{path: path, ch: make(chan Event, 16)}

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = sub
	sub.ch <- Event{Path: path, Value: current}
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

func (s *PostgresStore) notify(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		value, err := s.Get(ctx, sub.path)
		if err != nil {
			continue
		}
		select {
		case sub.ch <- Event{Path: sub.path, Value: value}:
		default:
		}
	}
}

// removeInTx deletes the exact and descendant rows for path, and prunes the
// matching subtree out of any ancestor row.
func removeInTx(ctx context.Context, tx pgx.Tx, path string) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM documents WHERE path = $1 OR path LIKE $1 || '/%'`, path); err != nil {
		return fmt.Errorf("delete %q: %w", path, err)
	}

	rows, err := tx.Query(ctx,
		`SELECT path, doc FROM documents WHERE $1 LIKE path || '/%'`, path)
	if err != nil {
		return fmt.Errorf("query ancestors of %q: %w", path, err)
	}
	type patch struct {
		path string
		doc  any
	}
	var patches []patch
	for rows.Next() {
		var rowPath string
		var raw []byte
		if err := rows.Scan(&rowPath, &raw); err != nil {
			rows.Close()
			return fmt.Errorf("scan ancestor row: %w", err)
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			rows.Close()
			return fmt.Errorf("decode ancestor %q: %w", rowPath, err)
		}
		rel := strings.Split(path[len(rowPath)+1:], "/")
		if m, ok := doc.(map[string]any); ok {
			setAt(m, rel, nil)
			patches = append(patches, patch{path: rowPath, doc: m})
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate ancestors of %q: %w", path, err)
	}

	for _, p := range patches {
		raw, err := json.Marshal(p.doc)
		if err != nil {
			return fmt.Errorf("encode patched ancestor %q: %w", p.path, err)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE documents SET doc = $2 WHERE path = $1`, p.path, raw); err != nil {
			return fmt.Errorf("patch ancestor %q: %w", p.path, err)
		}
	}
	return nil
}

// mergeValue overlays src onto dst: maps merge key-wise, everything else is
// replaced by src.
func mergeValue(dst, src any) any {
	srcMap, srcOK := src.(map[string]any)
	dstMap, dstOK := dst.(map[string]any)
	if !srcOK || !dstOK {
		return src
	}
	for k, v := range srcMap {
		dstMap[k] = mergeValue(dstMap[k], v)
	}
	return dstMap
}

// graft places value at the relative location parts inside dst, creating
// intermediate maps as needed.
func graft(dst any, parts []string, value any) any {
	m, ok := dst.(map[string]any)
	if !ok {
		m = make(map[string]any)
	}
	if len(parts) == 1 {
		m[parts[0]] = mergeValue(m[parts[0]], value)
		return m
	}
	m[parts[0]] = graft(m[parts[0]], parts[1:], value)
	return m
}
