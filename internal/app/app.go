package app

import (
	"context"
	"fmt"
	"imagefeed/internal/adapter/fetcher"
	"imagefeed/internal/adapter/parser"
	"imagefeed/internal/config"
	"imagefeed/internal/logger"
	"imagefeed/internal/migrations"
	server "imagefeed/internal/transport/http"
	"imagefeed/internal/usecase"
	"imagefeed/internal/worker"
	"imagefeed/storage"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App представляет сервис ленты изображений.
// Координирует работу HTTP-сервера, воркера обновления кэша, хранилища
// и системы логирования. Обеспечивает graceful startup и shutdown.
type App struct {
	config   *config.Config
	logger   *slog.Logger
	server   *http.Server
	worker   *worker.Worker
	store    *storage.AsyncFeedStore
	remote   *usecase.RemoteFeedLoader
	local    *usecase.LocalFeedLoader
	stopChan chan os.Signal
	wg       sync.WaitGroup
}

// New создает и инициализирует приложение.
// Настраивает логгер, открывает хранилище кэша выбранного драйвера,
// собирает загрузчики ленты, воркер и HTTP-сервер.
func New(cfg *config.Config) (*App, error) {
	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	slog.SetDefault(appLogger)
	return newWithLogger(cfg, appLogger)
}

func newWithLogger(cfg *config.Config, appLogger *slog.Logger) (*App, error) {
	backend, err := openStorage(context.Background(), cfg, appLogger)
	if err != nil {
		return nil, err
	}
	store := storage.NewAsyncFeedStore(backend, appLogger)

	httpClient := fetcher.NewHTTPClient(cfg.RequestTimeout(), appLogger)
	mapper := parser.NewItemsMapper(appLogger)
	remote := usecase.NewRemoteFeedLoader(cfg.App.FeedURL, httpClient, mapper)
	local := usecase.NewLocalFeedLoader(store, usecase.SystemClock)

	refresher := usecase.NewFeedRefreshUseCase(remote, local, cfg.App.FeedURL, appLogger)
	feedGetter := usecase.NewFeedGetterUseCase(
		usecase.NewFeedLoaderWithFallback(
			usecase.NewFeedLoaderCacheDecorator(remote, local),
			local,
		),
	)

	handler := server.NewHandler(appLogger, feedGetter)
	router := server.NewServer(appLogger, handler)

	refreshWorker := worker.New(refresher, cfg.RefreshInterval(), cfg.RequestTimeout()*2, appLogger)

	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &App{
		config:   cfg,
		logger:   appLogger,
		server:   httpServer,
		worker:   refreshWorker,
		store:    store,
		remote:   remote,
		local:    local,
		stopChan: make(chan os.Signal, 1),
	}, nil
}

// openStorage открывает синхронное хранилище кэша по драйверу из конфигурации.
// Для postgres подключается к базе и применяет миграции.
func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.Storage, error) {
	log = log.With(slog.String("component", "storage"), slog.String("driver", cfg.Cache.Driver))
	switch cfg.Cache.Driver {
	case config.DriverMemory:
		log.Info("Using in-memory feed cache")
		return storage.NewMemoryFeedStore(), nil
	case config.DriverSQLite:
		store, err := storage.NewSQLiteFeedStore(cfg.Cache.Path, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite cache: %w", err)
		}
		return store, nil
	case config.DriverBolt:
		store, err := storage.NewBoltFeedStore(cfg.Cache.Path, log)
		if err != nil {
			return nil, fmt.Errorf("failed to open bolt cache: %w", err)
		}
		return store, nil
	case config.DriverPostgres:
		dbPool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("database ping failed: %w", err)
		}
		if err := migrations.Apply(ctx, log, dbPool); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
		return storage.NewPostgresFeedStore(dbPool, log), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}

// Run запускает воркер обновления кэша и HTTP-сервер.
// Блокируется до получения сигнала завершения, после чего вызывает Shutdown.
func (a *App) Run() error {
	a.logger.Info("Starting image feed service",
		slog.String("component", "app"),
		slog.String("feed_url", a.config.App.FeedURL),
		slog.String("cache_driver", a.config.Cache.Driver),
		slog.String("refresh_interval", a.worker.GetInterval().String()),
	)
	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		a.closeResources()
		return fmt.Errorf("failed to create listener: %w", err)
	}
	a.worker.Start()
	a.logger.Info("HTTP server ready",
		slog.String("component", "server"),
		slog.String("address", listener.Addr().String()),
	)
	serveErr := make(chan error, 1)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			a.logger.Error("HTTP server failed", slog.Any("error", err))
			serveErr <- err
		}
	}()
	signal.Notify(a.stopChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(a.stopChan)
	select {
	case sig := <-a.stopChan:
		a.logger.Info("Shutdown signal received",
			slog.String("component", "app"),
			slog.String("signal", sig.String()),
		)
	case err := <-serveErr:
		a.Shutdown()
		return fmt.Errorf("http server: %w", err)
	}
	return a.Shutdown()
}

// Shutdown останавливает воркер и HTTP-сервер, затем отключает загрузчики
// и закрывает хранилище. На завершение сервера отводится 10 секунд.
func (a *App) Shutdown() error {
	a.logger.Info("Starting graceful shutdown", slog.String("component", "app"))
	if a.worker != nil {
		a.worker.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed", slog.Any("error", err))
	}
	a.wg.Wait()
	a.closeResources()
	a.logger.Info("Application stopped gracefully", slog.String("component", "app"))
	return nil
}

func (a *App) closeResources() {
	a.remote.Close()
	a.local.Close()
	a.store.Close()
}
