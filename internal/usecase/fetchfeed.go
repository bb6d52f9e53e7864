package usecase

import (
	"context"
	"imagefeed/internal/domain"
	"time"
)

// HTTPResponse содержит тело и код статуса ответа удаленного источника.
type HTTPResponse struct {
	Body       []byte
	StatusCode int
}

// HTTPClient определяет транспорт для загрузки ленты из удаленного источника.
// Get вызывает completion ровно один раз, на произвольной горутине.
// Коды статуса, отличные от 200, не считаются ошибкой транспорта.
type HTTPClient interface {
	Get(ctx context.Context, url string, completion func(HTTPResponse, error))
}

// FeedItemsMapper определяет проверку и декодирование ответа сервера в доменную модель.
type FeedItemsMapper interface {
	Map(payload []byte, statusCode int) ([]domain.FeedImage, error)
}

// FeedStore определяет асинхронное хранилище единственного снимка ленты.
// Каждая операция вызывает completion ровно один раз, на произвольной горутине.
// Порядок независимо вызванных операций хранилищем не гарантируется.
type FeedStore interface {
	// DeleteCachedFeed удаляет текущий снимок. Отсутствие снимка не является ошибкой.
	DeleteCachedFeed(ctx context.Context, completion func(error))
	// Insert заменяет текущий снимок новым.
	Insert(ctx context.Context, feed []domain.LocalFeedImage, timestamp time.Time, completion func(error))
	// Retrieve возвращает текущий снимок или nil, если кэш пуст.
	Retrieve(ctx context.Context, completion func(*domain.CachedFeed, error))
}

// FeedLoader определяет источник ленты с асинхронным результатом.
type FeedLoader interface {
	Load(ctx context.Context, completion func([]domain.FeedImage, error))
}

// FeedCache определяет сохранение ленты в кэш.
type FeedCache interface {
	Save(ctx context.Context, images []domain.FeedImage, completion func(error))
}

// Clock определяет источник текущего времени.
type Clock interface {
	Now() time.Time
}

// ClockFunc позволяет использовать обычную функцию как Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock возвращает системное время.
var SystemClock Clock = ClockFunc(time.Now)
