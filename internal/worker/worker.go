package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// FeedRefresher определяет интерфейс обновления кэша ленты.
// Используется для внедрения зависимости в воркер.
type FeedRefresher interface {
	RefreshFeed(ctx context.Context) error
}

// Worker реализует фонового воркера для периодического обновления кэша ленты.
// Первое обновление выполняется сразу после запуска, далее по тикеру.
type Worker struct {
	refresher FeedRefresher
	interval  time.Duration
	timeout   time.Duration
	log       *slog.Logger
	cancel    context.CancelFunc
	done      chan struct{}
	mu        sync.Mutex
}

// New создает нового воркера.
// Принимает обработчик обновления, интервал, таймаут одного цикла и логгер.
func New(refresher FeedRefresher, interval, timeout time.Duration, log *slog.Logger) *Worker {
	return &Worker{
		refresher: refresher,
		interval:  interval,
		timeout:   timeout,
		log:       log.With(slog.String("component", "worker")),
	}
}

// Start запускает воркер в отдельной горутине. Повторный вызов игнорируется.
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(ctx, w.done)
}

// Stop останавливает воркер и дожидается завершения текущего цикла.
func (w *Worker) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (w *Worker) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	w.log.Info("Feed refresh worker started", slog.String("interval", w.interval.String()))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	w.refresh(ctx)
	for {
		select {
		case <-ticker.C:
			w.refresh(ctx)
		case <-ctx.Done():
			w.log.Info("Worker stopping")
			return
		}
	}
}

// refresh выполняет один цикл обновления с ограничением по времени.
func (w *Worker) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	opCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := w.refresher.RefreshFeed(opCtx); err != nil {
		w.log.Error("Feed refresh failed", slog.Any("error", err))
		return
	}
	w.log.Info("Feed refresh cycle completed", slog.Duration("duration", time.Since(start)))
}

// GetInterval возвращает интервал обновления кэша.
func (w *Worker) GetInterval() time.Duration { return w.interval }
