package usecase

import (
	"context"
	"errors"
	"fmt"
	"imagefeed/internal/domain"
)

// RemoteFeedLoader загружает ленту из удаленного источника.
// Выполняет один запрос через HTTPClient, проверяет ответ и преобразует его
// в доменную модель. Повторов и таймаутов не делает: это забота транспорта.
type RemoteFeedLoader struct {
	url    string
	client HTTPClient
	mapper FeedItemsMapper
	life   lifetime
}

// NewRemoteFeedLoader создает загрузчик для указанного URL.
func NewRemoteFeedLoader(url string, client HTTPClient, mapper FeedItemsMapper) *RemoteFeedLoader {
	return &RemoteFeedLoader{
		url:    url,
		client: client,
		mapper: mapper,
	}
}

// Load запрашивает ленту и передает результат в completion.
// Ошибка транспорта оборачивает domain.ErrConnectivity, некорректный ответ
// оборачивает domain.ErrInvalidData. После Close результат не доставляется.
func (l *RemoteFeedLoader) Load(ctx context.Context, completion func([]domain.FeedImage, error)) {
	l.client.Get(ctx, l.url, func(resp HTTPResponse, err error) {
		if !l.life.alive() {
			return
		}
		if err != nil {
			completion(nil, fmt.Errorf("%w: %v", domain.ErrConnectivity, err))
			return
		}
		images, err := l.mapper.Map(resp.Body, resp.StatusCode)
		if err != nil {
			if !errors.Is(err, domain.ErrInvalidData) {
				err = fmt.Errorf("%w: %v", domain.ErrInvalidData, err)
			}
			completion(nil, err)
			return
		}
		completion(images, nil)
	})
}

// Close отвязывает загрузчик от вызывающей стороны.
// Уже начатые запросы не отменяются, но их результаты отбрасываются.
func (l *RemoteFeedLoader) Close() {
	l.life.release()
}
