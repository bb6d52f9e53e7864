package usecase

import (
	"context"
	"errors"
	"imagefeed/internal/domain"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type httpClientSpy struct {
	mu          sync.Mutex
	urls        []string
	completions []func(HTTPResponse, error)
}

func (s *httpClientSpy) Get(_ context.Context, url string, completion func(HTTPResponse, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls = append(s.urls, url)
	s.completions = append(s.completions, completion)
}

func (s *httpClientSpy) requestedURLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.urls...)
}

func (s *httpClientSpy) completeWithError(err error, at int) {
	s.completions[at](HTTPResponse{}, err)
}

func (s *httpClientSpy) completeWithStatus(code int, body []byte, at int) {
	s.completions[at](HTTPResponse{Body: body, StatusCode: code}, nil)
}

type storeMessage struct {
	kind      string
	feed      []domain.LocalFeedImage
	timestamp time.Time
}

const (
	msgDelete   = "delete"
	msgInsert   = "insert"
	msgRetrieve = "retrieve"
)

type feedStoreSpy struct {
	messages             []storeMessage
	deletionCompletions  []func(error)
	insertionCompletions []func(error)
	retrievalCompletions []func(*domain.CachedFeed, error)
}

func (s *feedStoreSpy) DeleteCachedFeed(_ context.Context, completion func(error)) {
	s.messages = append(s.messages, storeMessage{kind: msgDelete})
	s.deletionCompletions = append(s.deletionCompletions, completion)
}

func (s *feedStoreSpy) Insert(_ context.Context, feed []domain.LocalFeedImage, timestamp time.Time, completion func(error)) {
	s.messages = append(s.messages, storeMessage{kind: msgInsert, feed: feed, timestamp: timestamp})
	s.insertionCompletions = append(s.insertionCompletions, completion)
}

func (s *feedStoreSpy) Retrieve(_ context.Context, completion func(*domain.CachedFeed, error)) {
	s.messages = append(s.messages, storeMessage{kind: msgRetrieve})
	s.retrievalCompletions = append(s.retrievalCompletions, completion)
}

func (s *feedStoreSpy) kinds() []string {
	kinds := make([]string, 0, len(s.messages))
	for _, m := range s.messages {
		kinds = append(kinds, m.kind)
	}
	return kinds
}

func (s *feedStoreSpy) completeDeletion(err error, at int)  { s.deletionCompletions[at](err) }
func (s *feedStoreSpy) completeInsertion(err error, at int) { s.insertionCompletions[at](err) }

func (s *feedStoreSpy) completeRetrieval(cached *domain.CachedFeed, err error, at int) {
	s.retrievalCompletions[at](cached, err)
}

// stubLoader завершает загрузку сразу заданным результатом.
type stubLoader struct {
	images []domain.FeedImage
	err    error
	calls  int
}

func (l *stubLoader) Load(_ context.Context, completion func([]domain.FeedImage, error)) {
	l.calls++
	completion(l.images, l.err)
}

type cacheSpy struct {
	mu      sync.Mutex
	saved   [][]domain.FeedImage
	ctxErrs []error
	err     error
}

func (c *cacheSpy) Save(ctx context.Context, images []domain.FeedImage, completion func(error)) {
	c.mu.Lock()
	c.saved = append(c.saved, images)
	c.ctxErrs = append(c.ctxErrs, ctx.Err())
	c.mu.Unlock()
	completion(c.err)
}

func anyError() error { return errors.New("any error") }

func uniqueImage() domain.FeedImage {
	return domain.FeedImage{ID: uuid.New(), URL: "https://example.com/" + uuid.NewString() + ".jpg"}
}

func uniqueImageFeed() ([]domain.FeedImage, []domain.LocalFeedImage) {
	models := []domain.FeedImage{uniqueImage(), uniqueImage()}
	return models, domain.ToLocal(models)
}

func fixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
