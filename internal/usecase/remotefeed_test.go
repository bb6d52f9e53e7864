package usecase

import (
	"context"
	"encoding/json"
	"imagefeed/internal/adapter/parser"
	"imagefeed/internal/domain"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeedURL = "https://a-url.com/feed"

type capturedLoad struct {
	images []domain.FeedImage
	err    error
}

func makeRemoteSUT(t *testing.T) (*RemoteFeedLoader, *httpClientSpy) {
	t.Helper()
	client := &httpClientSpy{}
	sut := NewRemoteFeedLoader(testFeedURL, client, parser.NewItemsMapper(discardLogger()))
	return sut, client
}

func makeItem(description, location *string) (domain.FeedImage, map[string]any) {
	image := domain.FeedImage{
		ID:          uuid.New(),
		Description: description,
		Location:    location,
		URL:         "https://a-url.com/" + uuid.NewString() + ".png",
	}
	json := map[string]any{"id": image.ID.String(), "image": image.URL}
	if description != nil {
		json["description"] = *description
	}
	if location != nil {
		json["location"] = *location
	}
	return image, json
}

func makeItemsJSON(t *testing.T, items ...map[string]any) []byte {
	t.Helper()
	if items == nil {
		items = []map[string]any{}
	}
	data, err := json.Marshal(map[string]any{"items": items})
	require.NoError(t, err)
	return data
}

func loadCapturing(loader FeedLoader) *[]capturedLoad {
	var results []capturedLoad
	loader.Load(context.Background(), func(images []domain.FeedImage, err error) {
		results = append(results, capturedLoad{images: images, err: err})
	})
	return &results
}

func TestRemoteFeedLoader_New_DoesNotRequestData(t *testing.T) {
	_, client := makeRemoteSUT(t)

	assert.Empty(t, client.requestedURLs())
}

func TestRemoteFeedLoader_Load_RequestsDataFromURL(t *testing.T) {
	sut, client := makeRemoteSUT(t)

	sut.Load(context.Background(), func([]domain.FeedImage, error) {})

	assert.Equal(t, []string{testFeedURL}, client.requestedURLs())
}

func TestRemoteFeedLoader_LoadTwice_RequestsDataTwice(t *testing.T) {
	sut, client := makeRemoteSUT(t)

	sut.Load(context.Background(), func([]domain.FeedImage, error) {})
	sut.Load(context.Background(), func([]domain.FeedImage, error) {})

	assert.Equal(t, []string{testFeedURL, testFeedURL}, client.requestedURLs())
}

func TestRemoteFeedLoader_Load_ConnectivityErrorOnClientError(t *testing.T) {
	sut, client := makeRemoteSUT(t)
	results := loadCapturing(sut)

	client.completeWithError(anyError(), 0)

	require.Len(t, *results, 1)
	assert.ErrorIs(t, (*results)[0].err, domain.ErrConnectivity)
	assert.Nil(t, (*results)[0].images)
}

func TestRemoteFeedLoader_Load_InvalidDataOnNon200(t *testing.T) {
	sut, client := makeRemoteSUT(t)
	_, item := makeItem(nil, nil)

	for i, code := range []int{199, 201, 300, 400, 500} {
		results := loadCapturing(sut)
		client.completeWithStatus(code, makeItemsJSON(t, item), i)

		require.Len(t, *results, 1, "status %d", code)
		assert.ErrorIs(t, (*results)[0].err, domain.ErrInvalidData, "status %d", code)
	}
}

func TestRemoteFeedLoader_Load_InvalidDataOn200WithInvalidJSON(t *testing.T) {
	sut, client := makeRemoteSUT(t)
	results := loadCapturing(sut)

	client.completeWithStatus(200, []byte("invalid json"), 0)

	require.Len(t, *results, 1)
	assert.ErrorIs(t, (*results)[0].err, domain.ErrInvalidData)
}

func TestRemoteFeedLoader_Load_NoItemsOn200WithEmptyList(t *testing.T) {
	sut, client := makeRemoteSUT(t)
	results := loadCapturing(sut)

	client.completeWithStatus(200, []byte(`{"items": []}`), 0)

	require.Len(t, *results, 1)
	require.NoError(t, (*results)[0].err)
	assert.Empty(t, (*results)[0].images)
}

func TestRemoteFeedLoader_Load_ItemsOn200WithItems(t *testing.T) {
	sut, client := makeRemoteSUT(t)
	item1, json1 := makeItem(nil, nil)
	item2, json2 := makeItem(domain.Text("a description"), domain.Text("a location"))
	results := loadCapturing(sut)

	client.completeWithStatus(200, makeItemsJSON(t, json1, json2), 0)

	require.Len(t, *results, 1)
	require.NoError(t, (*results)[0].err)
	assert.Equal(t, []domain.FeedImage{item1, item2}, (*results)[0].images)
}

func TestRemoteFeedLoader_Load_NoResultAfterClose(t *testing.T) {
	sut, client := makeRemoteSUT(t)
	results := loadCapturing(sut)

	sut.Close()
	client.completeWithStatus(200, makeItemsJSON(t), 0)

	assert.Empty(t, *results)
}

func TestRemoteFeedLoader_Load_NoErrorAfterClose(t *testing.T) {
	sut, client := makeRemoteSUT(t)
	results := loadCapturing(sut)

	sut.Close()
	client.completeWithError(anyError(), 0)

	assert.Empty(t, *results)
}
