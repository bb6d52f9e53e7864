package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"imagefeed/internal/domain"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var sqliteSchema string

// SQLiteFeedStore хранит снимок ленты в файле SQLite.
// Метка времени хранится в наносекундах Unix, изображения - по одному в строке
// с сохранением порядка через position.
type SQLiteFeedStore struct {
	db  *sql.DB
	log *slog.Logger
}

// NewSQLiteFeedStore открывает базу по указанному пути и создает схему.
// Каталог базы создается при необходимости; путь ":memory:" открывает базу в памяти.
func NewSQLiteFeedStore(path string, log *slog.Logger) (*SQLiteFeedStore, error) {
	log.Info("Initializing SQLite feed storage", slog.String("path", path))
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	// SQLite in memory lives per connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return &SQLiteFeedStore{db: db, log: log}, nil
}

// sqliteDSN задает прагмы через DSN, чтобы они применялись к каждому соединению пула.
func sqliteDSN(path string) string {
	if path == ":memory:" {
		return "file::memory:?_pragma=busy_timeout(5000)"
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func (s *SQLiteFeedStore) Close() {
	s.log.Info("Closing SQLite feed storage")
	s.db.Close()
}

func (s *SQLiteFeedStore) DeleteCachedFeed(ctx context.Context) error {
	const op = "storage.sqlite.DeleteCachedFeed"
	return s.inTx(ctx, op, func(tx *sql.Tx) error {
		return clearSQLite(ctx, tx)
	})
}

func (s *SQLiteFeedStore) InsertFeed(ctx context.Context, feed []domain.LocalFeedImage, timestamp time.Time) error {
	const op = "storage.sqlite.InsertFeed"
	return s.inTx(ctx, op, func(tx *sql.Tx) error {
		if err := clearSQLite(ctx, tx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO feed_cache (id, saved_at) VALUES (1, ?)",
			timestamp.UnixNano(),
		); err != nil {
			return fmt.Errorf("failed to insert cache header: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO feed_cache_images (position, image_id, description, location, url)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare image insert: %w", err)
		}
		defer stmt.Close()
		for i, image := range feed {
			if _, err := stmt.ExecContext(ctx,
				i,
				image.ID.String(),
				nullString(image.Description),
				nullString(image.Location),
				image.URL,
			); err != nil {
				return fmt.Errorf("failed to insert image %d: %w", i, err)
			}
		}
		return nil
	})
}

// RetrieveFeed читает заголовок и изображения в одной транзакции,
// поэтому метка времени и список всегда относятся к одному сохранению.
func (s *SQLiteFeedStore) RetrieveFeed(ctx context.Context) (*domain.CachedFeed, error) {
	const op = "storage.sqlite.RetrieveFeed"
	var cached *domain.CachedFeed
	err := s.inTx(ctx, op, func(tx *sql.Tx) error {
		var savedAt int64
		err := tx.QueryRowContext(ctx, "SELECT saved_at FROM feed_cache WHERE id = 1").Scan(&savedAt)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read cache header: %w", err)
		}
		feed, err := readSQLiteImages(ctx, tx)
		if err != nil {
			return err
		}
		cached = &domain.CachedFeed{Feed: feed, Timestamp: time.Unix(0, savedAt).UTC()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cached, nil
}

func readSQLiteImages(ctx context.Context, tx *sql.Tx) ([]domain.LocalFeedImage, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT image_id, description, location, url
		FROM feed_cache_images
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query images: %w", err)
	}
	defer rows.Close()
	feed := []domain.LocalFeedImage{}
	for rows.Next() {
		var (
			rawID                 string
			description, location sql.NullString
			image                 domain.LocalFeedImage
		)
		if err := rows.Scan(&rawID, &description, &location, &image.URL); err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		if image.ID, err = uuid.Parse(rawID); err != nil {
			return nil, fmt.Errorf("corrupted image id %q: %w", rawID, err)
		}
		image.Description = textPtr(description)
		image.Location = textPtr(location)
		feed = append(feed, image)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate images: %w", err)
	}
	return feed, nil
}

func (s *SQLiteFeedStore) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Error("Failed to rollback transaction", slog.String("op", op), slog.Any("error", rbErr))
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return nil
}

func clearSQLite(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM feed_cache_images"); err != nil {
		return fmt.Errorf("failed to clear images: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM feed_cache"); err != nil {
		return fmt.Errorf("failed to clear cache header: %w", err)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func textPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
