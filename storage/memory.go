package storage

import (
	"context"
	"imagefeed/internal/domain"
	"sync"
	"time"
)

// MemoryFeedStore хранит снимок ленты в памяти процесса.
type MemoryFeedStore struct {
	mu     sync.RWMutex
	cached *domain.CachedFeed
}

func NewMemoryFeedStore() *MemoryFeedStore {
	return &MemoryFeedStore{}
}

func (m *MemoryFeedStore) DeleteCachedFeed(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cached = nil
	return nil
}

func (m *MemoryFeedStore) InsertFeed(ctx context.Context, feed []domain.LocalFeedImage, timestamp time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cached = &domain.CachedFeed{
		Feed:      append([]domain.LocalFeedImage(nil), feed...),
		Timestamp: timestamp,
	}
	return nil
}

func (m *MemoryFeedStore) RetrieveFeed(ctx context.Context) (*domain.CachedFeed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cached == nil {
		return nil, nil
	}
	return &domain.CachedFeed{
		Feed:      append([]domain.LocalFeedImage{}, m.cached.Feed...),
		Timestamp: m.cached.Timestamp,
	}, nil
}

func (m *MemoryFeedStore) Close() {}
