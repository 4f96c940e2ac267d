package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/piper-lang/piper/internal/ast"
)

// ErrNotFound indicates the requested tree is not in the store.
var ErrNotFound = errors.New("store: tree not found")

// TreeMeta describes a stored tree without its body.
type TreeMeta struct {
	ID  string // content-addressed ast.TreeID
	Tag string // root variant tag
	Seq int64  // insertion order
}

// SaveTree persists a tree and returns its content-addressed ID.
// Idempotent: saving an equal tree again returns the same ID and writes
// nothing.
func (s *Store) SaveTree(ctx context.Context, item ast.Item) (string, error) {
	id, err := ast.TreeID(item)
	if err != nil {
		return "", fmt.Errorf("save tree: %w", err)
	}

	body, err := ast.MarshalItem(item)
	if err != nil {
		return "", fmt.Errorf("save tree: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO trees (id, tag, body, seq)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM trees))
		ON CONFLICT(id) DO NOTHING
	`, id, item.Tag(), string(body))
	if err != nil {
		return "", fmt.Errorf("save tree: %w", err)
	}

	return id, nil
}

// GetTree loads a stored tree by ID and deserializes it exactly.
// Returns ErrNotFound if no tree has that ID.
func (s *Store) GetTree(ctx context.Context, id string) (ast.Item, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `
		SELECT body FROM trees WHERE id = ?
	`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tree %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tree %s: %w", id, err)
	}

	item, err := ast.UnmarshalItem([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("get tree %s: %w", id, err)
	}
	return item, nil
}

// ListTrees returns metadata for every stored tree in insertion order.
// Returns an empty slice (not nil) when the store is empty.
func (s *Store) ListTrees(ctx context.Context) ([]TreeMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tag, seq FROM trees
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}
	defer rows.Close()

	trees := []TreeMeta{}
	for rows.Next() {
		var m TreeMeta
		if err := rows.Scan(&m.ID, &m.Tag, &m.Seq); err != nil {
			return nil, fmt.Errorf("scan tree: %w", err)
		}
		trees = append(trees, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trees: %w", err)
	}
	return trees, nil
}
