package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations aplica las migraciones goose pendientes (embebidas en el binario) contra dsn.
func RunMigrations(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return rekeyLocations(ctx, db)
}

// rekeyLocations recalcula name_key con LocationKey; la migración SQL solo puede aproximarlo con lower().
func rekeyLocations(ctx context.Context, db *sql.DB) error {
	rows, err := db.QueryContext(ctx, `SELECT id, name, name_key FROM locations`)
	if err != nil {
		return fmt.Errorf("list locations: %w", err)
	}
	type rekey struct{ id, key string }
	var pending []rekey
	for rows.Next() {
		var id, name, key string
		if err := rows.Scan(&id, &name, &key); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan location: %w", err)
		}
		if want := domaininv.LocationKey(name); want != key {
			pending = append(pending, rekey{id: id, key: want})
		}
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, r := range pending {
		if _, err := db.ExecContext(ctx, `UPDATE locations SET name_key = $1 WHERE id = $2`, r.key, r.id); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("ubicación %s choca con otra al plegar mayúsculas: %w", r.id, err)
			}
			return fmt.Errorf("rekey location %s: %w", r.id, err)
		}
	}
	return nil
}
