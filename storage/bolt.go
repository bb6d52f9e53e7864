package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"imagefeed/internal/domain"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	feedCacheBucket = "feed_cache"
	feedCacheKey    = "snapshot"
)

// BoltFeedStore хранит снимок ленты одним JSON-значением в BoltDB.
type BoltFeedStore struct {
	db  *bbolt.DB
	log *slog.Logger
}

// NewBoltFeedStore открывает файл BoltDB и создает бакет кэша, если его нет.
func NewBoltFeedStore(path string, log *slog.Logger) (*BoltFeedStore, error) {
	log.Info("Initializing BoltDB feed storage", slog.String("path", path))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(feedCacheBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}
	return &BoltFeedStore{db: db, log: log}, nil
}

func (b *BoltFeedStore) Close() {
	b.log.Info("Closing BoltDB feed storage")
	b.db.Close()
}

func (b *BoltFeedStore) DeleteCachedFeed(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := cacheBucket(tx)
		if err != nil {
			return err
		}
		return bucket.Delete([]byte(feedCacheKey))
	})
}

func (b *BoltFeedStore) InsertFeed(ctx context.Context, feed []domain.LocalFeedImage, timestamp time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(domain.CachedFeed{Feed: feed, Timestamp: timestamp.UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode cache snapshot: %w", err)
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := cacheBucket(tx)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(feedCacheKey), data)
	})
}

func (b *BoltFeedStore) RetrieveFeed(ctx context.Context) (*domain.CachedFeed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var cached *domain.CachedFeed
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket, err := cacheBucket(tx)
		if err != nil {
			return err
		}
		data := bucket.Get([]byte(feedCacheKey))
		if data == nil {
			return nil
		}
		var snapshot domain.CachedFeed
		if err := json.Unmarshal(data, &snapshot); err != nil {
			return fmt.Errorf("failed to decode cache snapshot: %w", err)
		}
		if snapshot.Feed == nil {
			snapshot.Feed = []domain.LocalFeedImage{}
		}
		cached = &snapshot
		return nil
	})
	return cached, err
}

func cacheBucket(tx *bbolt.Tx) (*bbolt.Bucket, error) {
	bucket := tx.Bucket([]byte(feedCacheBucket))
	if bucket == nil {
		return nil, errors.New("feed cache bucket not found")
	}
	return bucket, nil
}
