package postgres

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Migrate crea las tablas e índices si no existen. Es idempotente.
func Migrate(ctx context.Context, q Querier) error {
	// Sin argumentos pgx usa el protocolo simple, que admite varias sentencias.
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
