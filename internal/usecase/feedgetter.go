package usecase

import (
	"context"
	"imagefeed/internal/domain"
	"imagefeed/internal/metrics"
)

// FeedGetterUseCase реализует получение ленты для API.
// Делегирует вызов загрузчику (обычно удаленный источник с откатом на кэш).
type FeedGetterUseCase struct {
	loader FeedLoader
}

// NewFeedGetterUseCase создает новый экземпляр UseCase для получения ленты.
func NewFeedGetterUseCase(loader FeedLoader) *FeedGetterUseCase {
	return &FeedGetterUseCase{loader: loader}
}

// GetFeed возвращает ленту и ждет результат не дольше, чем живет контекст.
func (uc *FeedGetterUseCase) GetFeed(ctx context.Context) ([]domain.FeedImage, error) {
	images, err := AwaitFeed(ctx, uc.loader)
	metrics.RecordLoad("api", len(images), err)
	return images, err
}
