package usecase

import (
	"context"
	"imagefeed/internal/domain"
)

// FeedLoaderWithFallback загружает ленту из основного источника,
// а при его ошибке обращается к запасному.
type FeedLoaderWithFallback struct {
	primary  FeedLoader
	fallback FeedLoader
}

func NewFeedLoaderWithFallback(primary, fallback FeedLoader) *FeedLoaderWithFallback {
	return &FeedLoaderWithFallback{primary: primary, fallback: fallback}
}

func (l *FeedLoaderWithFallback) Load(ctx context.Context, completion func([]domain.FeedImage, error)) {
	l.primary.Load(ctx, func(images []domain.FeedImage, err error) {
		if err != nil {
			l.fallback.Load(ctx, completion)
			return
		}
		completion(images, nil)
	})
}

// FeedLoaderCacheDecorator сохраняет в кэш каждый успешный результат загрузчика.
// Ошибка сохранения не влияет на результат загрузки.
type FeedLoaderCacheDecorator struct {
	decoratee FeedLoader
	cache     FeedCache
}

func NewFeedLoaderCacheDecorator(decoratee FeedLoader, cache FeedCache) *FeedLoaderCacheDecorator {
	return &FeedLoaderCacheDecorator{decoratee: decoratee, cache: cache}
}

func (d *FeedLoaderCacheDecorator) Load(ctx context.Context, completion func([]domain.FeedImage, error)) {
	d.decoratee.Load(ctx, func(images []domain.FeedImage, err error) {
		if err == nil {
			d.cache.Save(context.WithoutCancel(ctx), images, func(error) {})
		}
		completion(images, err)
	})
}

type loadResult struct {
	images []domain.FeedImage
	err    error
}

// AwaitFeed вызывает асинхронный загрузчик и ждет результат или отмену контекста.
func AwaitFeed(ctx context.Context, loader FeedLoader) ([]domain.FeedImage, error) {
	done := make(chan loadResult, 1)
	loader.Load(ctx, func(images []domain.FeedImage, err error) {
		done <- loadResult{images: images, err: err}
	})
	select {
	case res := <-done:
		return res.images, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AwaitSave сохраняет ленту и ждет завершения или отмену контекста.
func AwaitSave(ctx context.Context, cache FeedCache, images []domain.FeedImage) error {
	done := make(chan error, 1)
	cache.Save(ctx, images, func(err error) {
		done <- err
	})
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
