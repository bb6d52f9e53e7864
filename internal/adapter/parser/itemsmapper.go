package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"imagefeed/internal/domain"
	"log/slog"
	"net/http"
	"net/url"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Ключи ответа сравниваются точно, с учетом регистра.
const (
	keyItems       = "items"
	keyID          = "id"
	keyDescription = "description"
	keyLocation    = "location"
	keyImage       = "image"
)

type fieldsJSON map[string]json.RawMessage

type remoteFeedImage struct {
	id          uuid.UUID
	description *string
	location    *string
	image       string
}

// ItemsMapper реализует интерфейс FeedItemsMapper для JSON-ответов ленты.
type ItemsMapper struct {
	log *slog.Logger
}

func NewItemsMapper(log *slog.Logger) *ItemsMapper {
	return &ItemsMapper{
		log: log,
	}
}

// Map проверяет ответ и возвращает изображения в исходном порядке.
// Любой статус, кроме 200, и любой некорректный элемент дают domain.ErrInvalidData:
// частичных результатов не бывает.
func (m *ItemsMapper) Map(payload []byte, statusCode int) ([]domain.FeedImage, error) {
	items, err := decodeItems(payload, statusCode)
	if err != nil {
		m.log.Debug(
			"Rejected feed payload",
			slog.Int("status_code", statusCode),
			slog.Int("payload_size", len(payload)),
			slog.Any("error", err),
		)
		return nil, err
	}
	images := make([]domain.FeedImage, 0, len(items))
	for _, item := range items {
		images = append(images, item.toModel())
	}
	return images, nil
}

// decodeItems - проверка кода статуса и разбор списка элементов.
func decodeItems(payload []byte, statusCode int) ([]remoteFeedImage, error) {
	if statusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", domain.ErrInvalidData, statusCode)
	}
	if !utf8.Valid(payload) {
		return nil, fmt.Errorf("%w: payload is not valid UTF-8", domain.ErrInvalidData)
	}
	var root fieldsJSON
	if err := json.Unmarshal(payload, &root); err != nil {
		return nil, fmt.Errorf("%w: failed to decode JSON: %v", domain.ErrInvalidData, err)
	}
	rawItems, ok := root[keyItems]
	if !ok || isNull(rawItems) {
		return nil, fmt.Errorf("%w: missing items", domain.ErrInvalidData)
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(rawItems, &elements); err != nil {
		return nil, fmt.Errorf("%w: items is not an array: %v", domain.ErrInvalidData, err)
	}
	items := make([]remoteFeedImage, 0, len(elements))
	for i, element := range elements {
		item, err := decodeItem(element)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", domain.ErrInvalidData, i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeItem(element json.RawMessage) (remoteFeedImage, error) {
	var fields fieldsJSON
	if err := json.Unmarshal(element, &fields); err != nil {
		return remoteFeedImage{}, fmt.Errorf("not an object: %w", err)
	}
	if fields == nil {
		return remoteFeedImage{}, fmt.Errorf("null item")
	}
	rawID, err := fields.text(keyID)
	if err != nil {
		return remoteFeedImage{}, err
	}
	if rawID == nil {
		return remoteFeedImage{}, fmt.Errorf("missing id")
	}
	id, err := uuid.Parse(*rawID)
	if err != nil {
		return remoteFeedImage{}, fmt.Errorf("invalid id %q: %w", *rawID, err)
	}
	image, err := fields.text(keyImage)
	if err != nil {
		return remoteFeedImage{}, err
	}
	if image == nil {
		return remoteFeedImage{}, fmt.Errorf("missing image")
	}
	imageURL, err := url.Parse(*image)
	if err != nil || !imageURL.IsAbs() || imageURL.Host == "" {
		return remoteFeedImage{}, fmt.Errorf("invalid image url %q", *image)
	}
	description, err := fields.text(keyDescription)
	if err != nil {
		return remoteFeedImage{}, err
	}
	location, err := fields.text(keyLocation)
	if err != nil {
		return remoteFeedImage{}, err
	}
	return remoteFeedImage{
		id:          id,
		description: description,
		location:    location,
		image:       *image,
	}, nil
}

// text возвращает строковое поле; отсутствующее поле и null дают nil.
func (f fieldsJSON) text(key string) (*string, error) {
	raw, ok := f[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("field %s is not a string: %w", key, err)
	}
	return &value, nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func (r remoteFeedImage) toModel() domain.FeedImage {
	return domain.FeedImage{
		ID:          r.id,
		Description: r.description,
		Location:    r.location,
		URL:         r.image,
	}
}
