package domain

import "errors"

// Виды ошибок загрузки и кэширования ленты.
// Конкретные ошибки оборачивают их через %w и проверяются errors.Is.
var (
	ErrConnectivity = errors.New("connectivity")
	ErrInvalidData  = errors.New("invalid data")
	ErrDeletion     = errors.New("cache deletion failed")
	ErrInsertion    = errors.New("cache insertion failed")
	ErrRetrieval    = errors.New("cache retrieval failed")
)
