package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/propkit/internal/schema"
)

// ImportResult summarizes one Import call.
type ImportResult struct {
	ID      string // import identifier
	Classes int    // classes in the imported schema
	Changed int    // classes inserted or rewritten
}

// Import writes every class of s into the catalog inside one transaction.
// Classes whose content hash is unchanged are left untouched; classes not
// in s are kept.
func (c *Catalog) Import(ctx context.Context, s *schema.Schema, source string) (ImportResult, error) {
	res := ImportResult{ID: uuid.NewString()}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("import: %w", err)
	}
	defer tx.Rollback()

	for seq, def := range s.Defs() {
		res.Classes++
		changed, err := writeClass(ctx, tx, def, seq, res.ID)
		if err != nil {
			return res, fmt.Errorf("import class %q: %w", def.Name, err)
		}
		if changed {
			res.Changed++
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO imports (id, source, classes, changed)
		VALUES (?, ?, ?, ?)
	`, res.ID, source, res.Classes, res.Changed); err != nil {
		return res, fmt.Errorf("import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("import: %w", err)
	}
	return res, nil
}

func writeClass(ctx context.Context, tx *sql.Tx, def schema.ClassDef, seq int, importID string) (bool, error) {
	hash, err := schema.Hash(def)
	if err != nil {
		return false, err
	}

	var existing string
	err = tx.QueryRowContext(ctx, `SELECT content_hash FROM classes WHERE name = ?`, def.Name).Scan(&existing)
	switch {
	case err == nil && existing == hash:
		return false, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return false, err
	}

	var parent sql.NullString
	if def.Extends != "" {
		parent = sql.NullString{String: def.Extends, Valid: true}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO classes (name, parent, seq, content_hash, import_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			parent = excluded.parent,
			seq = excluded.seq,
			content_hash = excluded.content_hash,
			import_id = excluded.import_id
	`, def.Name, parent, seq, hash, importID); err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM properties WHERE class = ?`, def.Name); err != nil {
		return false, err
	}
	for pos, p := range def.Properties {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO properties (class, position, name, access, type, description, lazy)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, def.Name, pos, p.Name, p.Access, p.Type, p.Description, p.Lazy); err != nil {
			return false, err
		}
	}
	return true, nil
}
