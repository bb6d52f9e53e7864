package usecase

import (
	"context"
	"imagefeed/internal/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)

func makeLocalSUT(t *testing.T, now time.Time) (*LocalFeedLoader, *feedStoreSpy) {
	t.Helper()
	store := &feedStoreSpy{}
	return NewLocalFeedLoader(store, fixedClock(now)), store
}

func saveCapturing(sut *LocalFeedLoader, images []domain.FeedImage) *[]error {
	var results []error
	sut.Save(context.Background(), images, func(err error) {
		results = append(results, err)
	})
	return &results
}

func TestLocalFeedLoader_New_DoesNotMessageStore(t *testing.T) {
	_, store := makeLocalSUT(t, fixedNow)

	assert.Empty(t, store.messages)
}

func TestLocalFeedLoader_Save_RequestsCacheDeletion(t *testing.T) {
	sut, store := makeLocalSUT(t, fixedNow)
	images, _ := uniqueImageFeed()

	sut.Save(context.Background(), images, func(error) {})

	assert.Equal(t, []string{msgDelete}, store.kinds())
}

func TestLocalFeedLoader_Save_DoesNotInsertOnDeletionError(t *testing.T) {
	sut, store := makeLocalSUT(t, fixedNow)
	images, _ := uniqueImageFeed()

	sut.Save(context.Background(), images, func(error) {})
	store.completeDeletion(anyError(), 0)

	assert.Equal(t, []string{msgDelete}, store.kinds())
	assert.Empty(t, store.insertionCompletions)
}

func TestLocalFeedLoader_Save_InsertsWithTimestampOnDeletionSuccess(t *testing.T) {
	sut, store := makeLocalSUT(t, fixedNow)
	images, local := uniqueImageFeed()

	sut.Save(context.Background(), images, func(error) {})
	store.completeDeletion(nil, 0)

	require.Equal(t, []string{msgDelete, msgInsert}, store.kinds())
	assert.Equal(t, local, store.messages[1].feed)
	assert.Equal(t, fixedNow, store.messages[1].timestamp)
	assert.Len(t, store.insertionCompletions, 1)
}

func TestLocalFeedLoader_Save_FailsOnDeletionError(t *testing.T) {
	sut, store := makeLocalSUT(t, fixedNow)
	deletionErr := anyError()
	results := saveCapturing(sut, []domain.FeedImage{uniqueImage()})

	store.completeDeletion(deletionErr, 0)

	require.Len(t, *results, 1)
	assert.Same(t, deletionErr, (*results)[0])
}

func TestLocalFeedLoader_Save_FailsOnInsertionError(t *testing.T) {
	sut, store := makeLocalSUT(t, fixedNow)
	insertionErr := anyError()
	results := saveCapturing(sut, []domain.FeedImage{uniqueImage()})

	store.completeDeletion(nil, 0)
	store.completeInsertion(insertionErr, 0)

	require.Len(t, *results, 1)
	assert.Same(t, insertionErr, (*results)[0])
}

func TestLocalFeedLoader_Save_SucceedsOnInsertionSuccess(t *testing.T) {
	sut, store := makeLocalSUT(t, fixedNow)
	results := saveCapturing(sut, []domain.FeedImage{uniqueImage()})

	store.completeDeletion(nil, 0)
	store.completeInsertion(nil, 0)

	require.Len(t, *results, 1)
	assert.NoError(t, (*results)[0])
}

func TestLocalFeedLoader_Save_NoDeletionErrorAfterClose(t *testing.T) {
	sut, store := makeLocalSUT(t, fixedNow)
	results := saveCapturing(sut, []domain.FeedImage{uniqueImage()})

	sut.Close()
	store.completeDeletion(anyError(), 0)

	assert.Empty(t, *results)
}

func TestLocalFeedLoader_Save_NoInsertionErrorAfterClose(t *testing.T) {
	sut, store := makeLocalSUT(t, fixedNow)
	results := saveCapturing(sut, []domain.FeedImage{uniqueImage()})

	store.completeDeletion(nil, 0)
	sut.Close()
	store.completeInsertion(anyError(), 0)

	assert.Empty(t, *results)
}

func TestLocalFeedLoader_Load_RequestsCacheRetrieval(t *testing.T) {
	sut, store := makeLocalSUT(t, fixedNow)

	sut.Load(context.Background(), func([]domain.FeedImage, error) {})

	assert.Equal(t, []string{msgRetrieve}, store.kinds())
}

func TestLocalFeedLoader_Load_FailsOnRetrievalError(t *testing.T) {
	sut, store := makeLocalSUT(t, fixedNow)
	retrievalErr := anyError()
	results := loadCapturing(sut)

	store.completeRetrieval(nil, retrievalErr, 0)

	require.Len(t, *results, 1)
	assert.Same(t, retrievalErr, (*results)[0].err)
	assert.Nil(t, (*results)[0].images)
}

func TestLocalFeedLoader_Load_NoImagesOnEmptyCache(t *testing.T) {
	sut, store := makeLocalSUT(t, fixedNow)
	results := loadCapturing(sut)

	store.completeRetrieval(nil, nil, 0)

	require.Len(t, *results, 1)
	require.NoError(t, (*results)[0].err)
	assert.NotNil(t, (*results)[0].images)
	assert.Empty(t, (*results)[0].images)
}

func TestLocalFeedLoader_Load_ImagesOnFreshCache(t *testing.T) {
	images, local := uniqueImageFeed()
	timestamp := fixedNow.AddDate(0, 0, -7).Add(time.Second)
	sut, store := makeLocalSUT(t, fixedNow)
	results := loadCapturing(sut)

	store.completeRetrieval(&domain.CachedFeed{Feed: local, Timestamp: timestamp}, nil, 0)

	require.Len(t, *results, 1)
	require.NoError(t, (*results)[0].err)
	assert.Equal(t, images, (*results)[0].images)
}

func TestLocalFeedLoader_Load_NoImagesOnSevenDaysOldCache(t *testing.T) {
	_, local := uniqueImageFeed()
	timestamp := fixedNow.AddDate(0, 0, -7)
	sut, store := makeLocalSUT(t, fixedNow)
	results := loadCapturing(sut)

	store.completeRetrieval(&domain.CachedFeed{Feed: local, Timestamp: timestamp}, nil, 0)

	require.Len(t, *results, 1)
	require.NoError(t, (*results)[0].err)
	assert.Empty(t, (*results)[0].images)
}

func TestLocalFeedLoader_Load_NoImagesOnExpiredCache(t *testing.T) {
	_, local := uniqueImageFeed()
	timestamp := fixedNow.AddDate(0, 0, -7).Add(-time.Second)
	sut, store := makeLocalSUT(t, fixedNow)
	results := loadCapturing(sut)

	store.completeRetrieval(&domain.CachedFeed{Feed: local, Timestamp: timestamp}, nil, 0)

	require.Len(t, *results, 1)
	require.NoError(t, (*results)[0].err)
	assert.Empty(t, (*results)[0].images)
}

func TestLocalFeedLoader_Load_HasNoSideEffectsOnExpiredCache(t *testing.T) {
	_, local := uniqueImageFeed()
	sut, store := makeLocalSUT(t, fixedNow)

	sut.Load(context.Background(), func([]domain.FeedImage, error) {})
	store.completeRetrieval(&domain.CachedFeed{Feed: local, Timestamp: fixedNow.AddDate(0, 0, -30)}, nil, 0)

	assert.Equal(t, []string{msgRetrieve}, store.kinds())
}

func TestLocalFeedLoader_Load_HasNoSideEffectsOnRetrievalError(t *testing.T) {
	sut, store := makeLocalSUT(t, fixedNow)

	sut.Load(context.Background(), func([]domain.FeedImage, error) {})
	store.completeRetrieval(nil, anyError(), 0)

	assert.Equal(t, []string{msgRetrieve}, store.kinds())
}

func TestLocalFeedLoader_Load_NoResultAfterClose(t *testing.T) {
	sut, store := makeLocalSUT(t, fixedNow)
	results := loadCapturing(sut)

	sut.Close()
	store.completeRetrieval(nil, nil, 0)

	assert.Empty(t, *results)
}

func TestLocalFeedLoader_New_NilClockUsesSystemTime(t *testing.T) {
	store := &feedStoreSpy{}
	sut := NewLocalFeedLoader(store, nil)
	results := loadCapturing(sut)

	_, local := uniqueImageFeed()
	store.completeRetrieval(&domain.CachedFeed{Feed: local, Timestamp: time.Now().Add(-time.Hour)}, nil, 0)

	require.Len(t, *results, 1)
	assert.Len(t, (*results)[0].images, len(local))
}
