package catalog

import (
	"context"
	"fmt"

	"github.com/roach88/propkit/internal/registry"
	"github.com/roach88/propkit/internal/schema"
	"github.com/roach88/propkit/internal/spec"
)

// Candidates implements registry.Provider: it returns the properties the
// catalog holds for c.Name, in declaration order.
func (c *Catalog) Candidates(cls *registry.Class) ([]spec.Candidate, error) {
	return c.ReadCandidates(context.Background(), cls.Name)
}

// ReadCandidates returns the stored properties of one class. An unknown
// class is an error.
func (c *Catalog) ReadCandidates(ctx context.Context, class string) ([]spec.Candidate, error) {
	var exists int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM classes WHERE name = ?`, class).Scan(&exists); err != nil {
		return nil, fmt.Errorf("read candidates: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("class %q is not in the catalog", class)
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT name, access, type, description, lazy
		FROM properties
		WHERE class = ?
		ORDER BY position ASC
	`, class)
	if err != nil {
		return nil, fmt.Errorf("read candidates: %w", err)
	}
	defer rows.Close()

	var out []spec.Candidate
	for rows.Next() {
		var p spec.Candidate
		if err := rows.Scan(&p.Name, &p.Access, &p.Type, &p.Description, &p.Lazy); err != nil {
			return nil, fmt.Errorf("read candidates: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ReadSchema rebuilds a schema from every stored class.
func (c *Catalog) ReadSchema(ctx context.Context) (*schema.Schema, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT name, COALESCE(parent, '')
		FROM classes
		ORDER BY seq ASC, name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}

	var defs []schema.ClassDef
	for rows.Next() {
		var def schema.ClassDef
		if err := rows.Scan(&def.Name, &def.Extends); err != nil {
			rows.Close()
			return nil, fmt.Errorf("read schema: %w", err)
		}
		defs = append(defs, def)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}

	// The single connection is free again once rows is closed.
	for i := range defs {
		props, err := c.ReadCandidates(ctx, defs[i].Name)
		if err != nil {
			return nil, err
		}
		defs[i].Properties = props
	}
	return schema.Build(defs)
}
