package domain

import (
	"time"

	"github.com/google/uuid"
)

// LocalFeedImage представляет изображение в том виде, в котором оно хранится в кэше.
// Отделяет формат хранения от доменной модели и от формата ответа сервера.
type LocalFeedImage struct {
	ID          uuid.UUID `json:"id"`
	Description *string   `json:"description,omitempty"`
	Location    *string   `json:"location,omitempty"`
	URL         string    `json:"url"`
}

// CachedFeed представляет единственный снимок ленты в кэше и момент его сохранения.
type CachedFeed struct {
	Feed      []LocalFeedImage `json:"feed"`
	Timestamp time.Time        `json:"timestamp"`
}

// ToLocal преобразует доменные изображения в формат хранения с сохранением порядка.
func ToLocal(images []FeedImage) []LocalFeedImage {
	local := make([]LocalFeedImage, 0, len(images))
	for _, image := range images {
		local = append(local, LocalFeedImage{
			ID:          image.ID,
			Description: image.Description,
			Location:    image.Location,
			URL:         image.URL,
		})
	}
	return local
}

// ToModels преобразует изображения из кэша обратно в доменную модель с сохранением порядка.
func ToModels(local []LocalFeedImage) []FeedImage {
	images := make([]FeedImage, 0, len(local))
	for _, image := range local {
		images = append(images, FeedImage{
			ID:          image.ID,
			Description: image.Description,
			Location:    image.Location,
			URL:         image.URL,
		})
	}
	return images
}
