package usecase

import (
	"context"
	"imagefeed/internal/domain"
)

// LocalFeedLoader управляет кэшем ленты поверх FeedStore.
// Save всегда удаляет старый снимок перед вставкой нового, Load отдает
// снимок только пока он свежий. Собственных блокировок не использует:
// конкурентные Save и Load вызывающая сторона упорядочивает сама.
type LocalFeedLoader struct {
	store FeedStore
	clock Clock
	life  lifetime
}

// NewLocalFeedLoader создает загрузчик кэша с указанным хранилищем и часами.
func NewLocalFeedLoader(store FeedStore, clock Clock) *LocalFeedLoader {
	if clock == nil {
		clock = SystemClock
	}
	return &LocalFeedLoader{
		store: store,
		clock: clock,
	}
}

// Save заменяет снимок в кэше.
// Вставка начинается только после успешного удаления; ошибка удаления
// или вставки передается в completion без изменений.
func (l *LocalFeedLoader) Save(ctx context.Context, images []domain.FeedImage, completion func(error)) {
	l.store.DeleteCachedFeed(ctx, func(err error) {
		if !l.life.alive() {
			return
		}
		if err != nil {
			completion(err)
			return
		}
		l.cache(ctx, images, completion)
	})
}

func (l *LocalFeedLoader) cache(ctx context.Context, images []domain.FeedImage, completion func(error)) {
	l.store.Insert(ctx, domain.ToLocal(images), l.clock.Now(), func(err error) {
		if !l.life.alive() {
			return
		}
		completion(err)
	})
}

// Load читает снимок из кэша.
// Пустой или устаревший кэш дает пустой успешный результат, ошибка чтения
// передается без изменений. Устаревший снимок не удаляется.
func (l *LocalFeedLoader) Load(ctx context.Context, completion func([]domain.FeedImage, error)) {
	l.store.Retrieve(ctx, func(cached *domain.CachedFeed, err error) {
		if !l.life.alive() {
			return
		}
		switch {
		case err != nil:
			completion(nil, err)
		case cached != nil && IsCacheFresh(cached.Timestamp, l.clock.Now()):
			completion(domain.ToModels(cached.Feed), nil)
		default:
			completion([]domain.FeedImage{}, nil)
		}
	})
}

// Close отвязывает загрузчик от вызывающей стороны.
// Операции хранилища продолжают выполняться, но completion больше не вызывается.
func (l *LocalFeedLoader) Close() {
	l.life.release()
}
