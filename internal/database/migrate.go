package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// Migrate creates the tables the service needs when they do not exist yet
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// SeedCategories inserts names into an empty categories table, in order.
// A table that already holds rows is left alone.
func SeedCategories(ctx context.Context, pool *pgxpool.Pool, names []string) (int64, error) {
	query := `
		INSERT INTO categories (type)
		SELECT name FROM unnest($1::text[]) WITH ORDINALITY AS t(name, position)
		WHERE NOT EXISTS (SELECT 1 FROM categories)
		ORDER BY position
	`
	result, err := pool.Exec(ctx, query, names)
	if err != nil {
		return 0, fmt.Errorf("failed to seed categories: %w", err)
	}
	return result.RowsAffected(), nil
}
