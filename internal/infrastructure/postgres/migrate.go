package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql migrations/external/*.sql
var migrationFiles embed.FS

// Migrate aplica en orden los scripts de migrations/. Son idempotentes (IF NOT EXISTS), por lo que
// se pueden ejecutar en cada arranque. Con withExternal también crea las tablas de ventas y del
// esquema anterior, que en producción pertenecen a otros módulos.
func Migrate(ctx context.Context, pool *pgxpool.Pool, withExternal bool, log zerolog.Logger) error {
	patterns := []string{"migrations/*.sql"}
	if withExternal {
		patterns = append(patterns, "migrations/external/*.sql")
	}
	for _, pattern := range patterns {
		names, err := fs.Glob(migrationFiles, pattern)
		if err != nil {
			return fmt.Errorf("listar migraciones: %w", err)
		}
		sort.Strings(names)
		for _, name := range names {
			script, err := migrationFiles.ReadFile(name)
			if err != nil {
				return fmt.Errorf("leer %s: %w", name, err)
			}
			if _, err := pool.Exec(ctx, string(script)); err != nil {
				return fmt.Errorf("aplicar %s: %w", name, err)
			}
			log.Info().Str("migration", name).Msg("migración aplicada")
		}
	}
	return nil
}
