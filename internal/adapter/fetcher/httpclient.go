package fetcher

import (
	"context"
	"errors"
	"fmt"
	"imagefeed/internal/usecase"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxBodySize ограничивает размер тела ответа ленты.
const maxBodySize = 10 << 20

// ErrBodyTooLarge - тело ответа больше maxBodySize.
var ErrBodyTooLarge = errors.New("response body too large")

// HTTPClient реализует интерфейс usecase.HTTPClient поверх net/http.
// Выполняет запрос в отдельной горутине и передает тело и код статуса в completion.
// Код статуса не проверяется: это задача проверки ответа.
type HTTPClient struct {
	client *http.Client
	log    *slog.Logger
}

// NewHTTPClient создает новый экземпляр HTTPClient.
// Таймаут запроса задается здесь, загрузчики ленты таймаутами не управляют.
func NewHTTPClient(timeout time.Duration, log *slog.Logger) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
		log:    log,
	}
}

// Get загружает ресурс по URL и вызывает completion ровно один раз.
// Принимает контекст для отмены запроса. Ошибки сети, таймауты и ошибки чтения
// тела передаются в completion как ошибка транспорта.
func (c *HTTPClient) Get(ctx context.Context, url string, completion func(usecase.HTTPResponse, error)) {
	go func() {
		resp, err := c.get(ctx, url)
		completion(resp, err)
	}()
}

func (c *HTTPClient) get(ctx context.Context, url string) (usecase.HTTPResponse, error) {
	log := c.log.With(slog.String("component", "http-client"), slog.String("url", url))
	log.Debug("Fetching URL")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Error("Failed to create HTTP request", slog.Any("error", err))
		return usecase.HTTPResponse{}, fmt.Errorf("failed to create request for url %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		log.Error(
			"HTTP request failed",
			slog.Any("error", err),
		)
		return usecase.HTTPResponse{}, fmt.Errorf("failed to fetch url %s: %w", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		log.Error("Failed to read response body", slog.Any("error", err))
		return usecase.HTTPResponse{}, fmt.Errorf("failed to read body of %s: %w", url, err)
	}
	if len(body) > maxBodySize {
		log.Error("Response body too large", slog.Int("limit", maxBodySize))
		return usecase.HTTPResponse{}, fmt.Errorf("%w: body of %s exceeds %d bytes", ErrBodyTooLarge, url, maxBodySize)
	}
	log.Info("Fetched URL",
		slog.Int("status_code", resp.StatusCode),
		slog.Int("payload_size", len(body)),
	)
	return usecase.HTTPResponse{Body: body, StatusCode: resp.StatusCode}, nil
}
