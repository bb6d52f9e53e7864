package domain

import "github.com/google/uuid"

// FeedImage представляет отдельное изображение в ленте.
// Описание и место съемки необязательны: nil означает отсутствие значения.
type FeedImage struct {
	ID          uuid.UUID
	Description *string
	Location    *string
	URL         string
}

// Equal сравнивает изображения по значению всех полей, включая необязательные.
func (i FeedImage) Equal(other FeedImage) bool {
	return i.ID == other.ID &&
		equalText(i.Description, other.Description) &&
		equalText(i.Location, other.Location) &&
		i.URL == other.URL
}

func equalText(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Text возвращает указатель на копию строки.
// Удобен для заполнения необязательных полей FeedImage.
func Text(s string) *string {
	return &s
}
