package usecase

import "sync/atomic"

// lifetime отмечает, жив ли загрузчик для вызывающей стороны.
// Колбэки хранилища и транспорта проверяют его перед вызовом completion.
type lifetime struct {
	released atomic.Bool
}

func (l *lifetime) release() { l.released.Store(true) }

func (l *lifetime) alive() bool { return !l.released.Load() }
