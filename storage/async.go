package storage

import (
	"context"
	"fmt"
	"imagefeed/internal/domain"
	"log/slog"
	"time"
)

// AsyncFeedStore приводит синхронное хранилище к асинхронному контракту FeedStore.
// Каждая операция выполняется в отдельной горутине и вызывает completion ровно один раз.
// Ошибки оборачиваются в соответствующий вид: domain.ErrDeletion, domain.ErrInsertion
// или domain.ErrRetrieval.
type AsyncFeedStore struct {
	storage Storage
	log     *slog.Logger
}

func NewAsyncFeedStore(storage Storage, log *slog.Logger) *AsyncFeedStore {
	return &AsyncFeedStore{
		storage: storage,
		log:     log.With(slog.String("component", "feed-store")),
	}
}

func (s *AsyncFeedStore) DeleteCachedFeed(ctx context.Context, completion func(error)) {
	go func() {
		err := s.storage.DeleteCachedFeed(ctx)
		if err != nil {
			s.log.Error("Cache deletion failed", slog.Any("error", err))
			err = fmt.Errorf("%w: %v", domain.ErrDeletion, err)
		}
		completion(err)
	}()
}

func (s *AsyncFeedStore) Insert(ctx context.Context, feed []domain.LocalFeedImage, timestamp time.Time, completion func(error)) {
	go func() {
		err := s.storage.InsertFeed(ctx, feed, timestamp)
		if err != nil {
			s.log.Error("Cache insertion failed", slog.Any("error", err))
			err = fmt.Errorf("%w: %v", domain.ErrInsertion, err)
		} else {
			s.log.Debug("Cache inserted", slog.Int("count", len(feed)))
		}
		completion(err)
	}()
}

func (s *AsyncFeedStore) Retrieve(ctx context.Context, completion func(*domain.CachedFeed, error)) {
	go func() {
		cached, err := s.storage.RetrieveFeed(ctx)
		if err != nil {
			s.log.Error("Cache retrieval failed", slog.Any("error", err))
			completion(nil, fmt.Errorf("%w: %v", domain.ErrRetrieval, err))
			return
		}
		completion(cached, nil)
	}()
}

// Close закрывает нижележащее хранилище.
func (s *AsyncFeedStore) Close() {
	s.storage.Close()
}
