package storage

import (
	"context"
	"errors"
	"fmt"
	"imagefeed/internal/domain"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresFeedStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewPostgresFeedStore(pool *pgxpool.Pool, log *slog.Logger) *PostgresFeedStore {
	log.Info("Initializing Postgres feed storage")
	return &PostgresFeedStore{
		pool: pool,
		log:  log,
	}
}
func (db *PostgresFeedStore) Close() {
	db.log.Info("Closing database connection pool")
	db.pool.Close()
}

// Запись берет EXCLUSIVE-блокировку feed_cache: параллельные сохранения
// выполняются по очереди, чтение при этом не блокируется.
var writeTx = pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

// Чтение видит один снимок базы для заголовка и изображений.
var readTx = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// DeleteCachedFeed
func (db *PostgresFeedStore) DeleteCachedFeed(ctx context.Context) error {
	const op = "storage.postgres.DeleteCachedFeed"
	return db.inTx(ctx, op, writeTx, func(tx pgx.Tx) error {
		if err := lockPostgres(ctx, tx); err != nil {
			return err
		}
		return clearPostgres(ctx, tx)
	})
}

// InsertFeed
func (db *PostgresFeedStore) InsertFeed(ctx context.Context, feed []domain.LocalFeedImage, timestamp time.Time) error {
	const op = "storage.postgres.InsertFeed"
	return db.inTx(ctx, op, writeTx, func(tx pgx.Tx) error {
		if err := lockPostgres(ctx, tx); err != nil {
			return err
		}
		if err := clearPostgres(ctx, tx); err != nil {
			return err
		}
		batch := &pgx.Batch{}
		batch.Queue(`INSERT INTO feed_cache (id, saved_at) VALUES (1, $1);`, timestamp.UTC())
		query := `
		INSERT INTO feed_cache_images (position, image_id, description, location, url)
		VALUES ($1, $2, $3, $4, $5);
		`
		for i, image := range feed {
			batch.Queue(
				query,
				i,
				image.ID,
				image.Description,
				image.Location,
				image.URL,
			)
		}
		batchResult := tx.SendBatch(ctx, batch)
		if err := batchResult.Close(); err != nil {
			db.log.Error(
				"Failed to execute batch",
				slog.String("op", op),
				slog.Any("error", err),
			)
			return fmt.Errorf("failed to execute batch: %w", err)
		}
		return nil
	})
}

func (db *PostgresFeedStore) RetrieveFeed(ctx context.Context) (*domain.CachedFeed, error) {
	const op = "storage.postgres.RetrieveFeed"
	log := db.log.With(slog.String("op", op))
	var cached *domain.CachedFeed
	err := db.inTx(ctx, op, readTx, func(tx pgx.Tx) error {
		var savedAt time.Time
		err := tx.QueryRow(ctx, `SELECT saved_at FROM feed_cache WHERE id = 1;`).Scan(&savedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			log.Error("Database query failed", slog.Any("error", err))
			return fmt.Errorf("failed to read cache header: %w", err)
		}
		query := `
		SELECT image_id, description, location, url
		FROM feed_cache_images
		ORDER BY position;
		`
		rows, err := tx.Query(ctx, query)
		if err != nil {
			log.Error("Database query failed", slog.Any("error", err))
			return fmt.Errorf("failed to execute query: %w", err)
		}
		feed, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.LocalFeedImage, error) {
			var image domain.LocalFeedImage
			err := row.Scan(
				&image.ID,
				&image.Description,
				&image.Location,
				&image.URL,
			)
			return image, err
		})
		if err != nil {
			log.Error("Failed to collect rows", slog.Any("error", err))
			return fmt.Errorf("failed to scan row: %w", err)
		}
		if feed == nil {
			feed = []domain.LocalFeedImage{}
		}
		cached = &domain.CachedFeed{Feed: feed, Timestamp: savedAt.UTC()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if cached != nil {
		log.Debug("Retrieved cached feed", slog.Int("count", len(cached.Feed)))
	}
	return cached, nil
}

func (db *PostgresFeedStore) inTx(ctx context.Context, op string, opts pgx.TxOptions, fn func(tx pgx.Tx) error) (err error) {
	tx, err := db.pool.BeginTx(ctx, opts)
	if err != nil {
		db.log.Error(
			"Failed to begin transaction",
			slog.String("op", op),
			slog.Any("error", err),
		)
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(context.Background()); rollbackErr != nil {
				db.log.Error("Failed to rollback transaction", slog.Any("error", rollbackErr))
			}
		}
	}()
	if err = fn(tx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = tx.Commit(ctx); err != nil {
		db.log.Error("Failed to commit transacion", slog.Any("error", err))
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return nil
}

func lockPostgres(ctx context.Context, tx pgx.Tx) error {
	if _, err := tx.Exec(ctx, `LOCK TABLE feed_cache IN EXCLUSIVE MODE;`); err != nil {
		return fmt.Errorf("failed to lock cache: %w", err)
	}
	return nil
}

func clearPostgres(ctx context.Context, tx pgx.Tx) error {
	if _, err := tx.Exec(ctx, `DELETE FROM feed_cache_images;`); err != nil {
		return fmt.Errorf("failed to clear images: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM feed_cache;`); err != nil {
		return fmt.Errorf("failed to clear cache header: %w", err)
	}
	return nil
}
