package usecase

import (
	"context"
	"fmt"
	"imagefeed/internal/metrics"
	"log/slog"
	"time"
)

// FeedRefreshUseCase реализует обновление кэша ленты.
// Загружает ленту из удаленного источника и сохраняет ее в локальный кэш.
type FeedRefreshUseCase struct {
	remote FeedLoader
	cache  FeedCache
	url    string
	log    *slog.Logger
}

// NewFeedRefreshUseCase создает новый экземпляр UseCase для обновления кэша.
// Принимает удаленный загрузчик, кэш, адрес ленты (только для логов) и логгер.
func NewFeedRefreshUseCase(remote FeedLoader, cache FeedCache, url string, log *slog.Logger) *FeedRefreshUseCase {
	return &FeedRefreshUseCase{
		remote: remote,
		cache:  cache,
		url:    url,
		log:    log,
	}
}

// RefreshFeed выполняет полный цикл обновления: загрузку ленты и сохранение в кэш.
// Измеряет время выполнения и логирует этапы. Возвращает ошибку этапа,
// на котором цикл прервался; при ошибке загрузки кэш не трогается.
func (uc *FeedRefreshUseCase) RefreshFeed(ctx context.Context) error {
	start := time.Now()
	log := uc.log.With(
		slog.String("component", "feed-refresher"),
		slog.String("url", uc.url),
	)

	log.Info("Feed refresh started")

	images, err := AwaitFeed(ctx, uc.remote)
	metrics.RecordLoad("remote", len(images), err)
	if err != nil {
		log.Error("Feed load failed",
			slog.String("stage", "load"),
			slog.Any("error", err),
		)
		return fmt.Errorf("load failed: %w", err)
	}

	log.Debug("Feed loaded successfully",
		slog.String("stage", "load"),
		slog.Int("items_found", len(images)),
	)

	err = AwaitSave(ctx, uc.cache, images)
	metrics.RecordSave(err)
	if err != nil {
		log.Error("Feed save failed",
			slog.String("stage", "save"),
			slog.Any("error", err),
		)
		return fmt.Errorf("save failed: %w", err)
	}

	log.Info("Feed refresh completed successfully",
		slog.Int("items_saved", len(images)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}
