package client

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Lazy - ресурс процесса, который подключается при первом обращении и живет до Close.
// Одновременные первые вызовы схлопываются в одну попытку подключения,
// неудачная попытка не кешируется и повторяется при следующем вызове.
type Lazy[T any] struct {
	name    string
	connect func(ctx context.Context) (T, error)
	close   func(ctx context.Context, value T) error

	mu     sync.RWMutex
	value  T
	ready  bool
	closed bool
	group  singleflight.Group
}

func NewLazy[T any](
	name string,
	connect func(ctx context.Context) (T, error),
	closeFn func(ctx context.Context, value T) error,
) *Lazy[T] {
	return &Lazy[T]{
		name:    name,
		connect: connect,
		close:   closeFn,
	}
}

// Get возвращает подключение, создавая его при необходимости
func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	l.mu.RLock()
	if l.ready {
		v := l.value
		l.mu.RUnlock()
		return v, nil
	}
	closed := l.closed
	l.mu.RUnlock()

	var zero T
	if closed {
		return zero, fmt.Errorf("%s: client is closed", l.name)
	}

	v, err, _ := l.group.Do(l.name, func() (interface{}, error) {
		l.mu.RLock()
		if l.ready {
			v := l.value
			l.mu.RUnlock()
			return v, nil
		}
		l.mu.RUnlock()

		value, err := l.connect(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: connect: %w", l.name, err)
		}

		l.mu.Lock()
		defer l.mu.Unlock()
		if l.closed {
			if l.close != nil {
				_ = l.close(ctx, value)
			}
			return nil, fmt.Errorf("%s: client is closed", l.name)
		}
		l.value = value
		l.ready = true
		return value, nil
	})
	if err != nil {
		return zero, err
	}

	return v.(T), nil
}

// Connected сообщает, было ли уже установлено подключение
func (l *Lazy[T]) Connected() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ready
}

// Close закрывает подключение, если оно было открыто. Повторный вызов безопасен.
func (l *Lazy[T]) Close(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	if !l.ready {
		return nil
	}

	var zero T
	value := l.value
	l.value = zero
	l.ready = false

	if l.close == nil {
		return nil
	}
	if err := l.close(ctx, value); err != nil {
		return fmt.Errorf("%s: close: %w", l.name, err)
	}
	return nil
}
