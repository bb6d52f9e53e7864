package migrations

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Migration struct {
	ID    string
	UpSQL string
}

var allMigrations = []Migration{
	{
		ID: "020240301120000_create_feed_cache_table",
		UpSQL: `
		CREATE TABLE feed_cache(
		id SMALLINT PRIMARY KEY CHECK (id = 1),
		saved_at TIMESTAMPTZ NOT NULL
		);`,
	},
	{
		ID: "020240301120100_create_feed_cache_images_table",
		UpSQL: `
		CREATE TABLE feed_cache_images(
		position INTEGER PRIMARY KEY,
		image_id UUID NOT NULL,
		description TEXT,
		location TEXT,
		url TEXT NOT NULL
		);`,
	},
}

// Apply применяет все необходимые миграции к базе данных кэша.
// Уже примененные миграции пропускаются, новые выполняются в одной транзакции.
func Apply(ctx context.Context, log *slog.Logger, pool *pgxpool.Pool) error {
	log = log.With(slog.String("component", "migrations"))
	log.Info("Checking feed cache schema")
	if _, err := pool.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
	id TEXT PRIMARY KEY
	);
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	applied, err := appliedIDs(ctx, pool)
	if err != nil {
		return err
	}
	pending := Pending(applied)
	if len(pending) == 0 {
		log.Info("Feed cache schema is up to date")
		return nil
	}
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)
	for _, m := range pending {
		log.Info("Applying migration", slog.String("id", m.ID))
		if _, err := tx.Exec(ctx, m.UpSQL); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.ID, err)
		}
		if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (id) VALUES ($1)", m.ID); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migrations transaction: %w", err)
	}
	log.Info("Feed cache migrations applied", slog.Int("count", len(pending)))
	return nil
}

// Pending возвращает непримененные миграции в порядке их идентификаторов.
func Pending(applied map[string]bool) []Migration {
	pending := make([]Migration, 0, len(allMigrations))
	for _, m := range allMigrations {
		if !applied[m.ID] {
			pending = append(pending, m)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].ID < pending[j].ID
	})
	return pending
}

func appliedIDs(ctx context.Context, pool *pgxpool.Pool) (map[string]bool, error) {
	rows, err := pool.Query(ctx, "SELECT id FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan migration id: %w", err)
	}
	applied := make(map[string]bool, len(ids))
	for _, id := range ids {
		applied[id] = true
	}
	return applied, nil
}
