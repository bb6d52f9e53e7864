package storage

import (
	"context"
	"imagefeed/internal/domain"
	"time"
)

// Storage определяет общий синхронный интерфейс хранилища снимка ленты.
// Хранилище держит не больше одного снимка: InsertFeed заменяет его целиком.
// RetrieveFeed возвращает nil без ошибки, если снимка нет.
type Storage interface {
	DeleteCachedFeed(ctx context.Context) error
	InsertFeed(ctx context.Context, feed []domain.LocalFeedImage, timestamp time.Time) error
	RetrieveFeed(ctx context.Context) (*domain.CachedFeed, error)
	Close()
}
