// Package observable provides a synchronous publish/subscribe primitive.
package observable

import (
	"fmt"

	"go.uber.org/zap"
)

type subscriber[E any] struct {
	id int
	fn func(E)
}

// Observable holds a set of observer callbacks. It is not safe for concurrent
// use; callers confine it to one goroutine.
type Observable[E any] struct {
	log    *zap.Logger
	nextID int
	subs   []subscriber[E]
}

// New creates an Observable. A nil logger discards observer failures.
func New[E any](log *zap.Logger) *Observable[E] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Observable[E]{log: log}
}

// Subscribe registers fn and returns a function that removes it again.
// The returned function is safe to call more than once.
func (o *Observable[E]) Subscribe(fn func(E)) func() {
	o.nextID++
	id := o.nextID
	o.subs = append(o.subs, subscriber[E]{id: id, fn: fn})
	return func() {
		for i, s := range o.subs {
			if s.id == id {
				o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
				return
			}
		}
	}
}

// Notify calls every observer with e, in registration order. Observers added
// or removed during Notify take effect on the next call. A panicking observer
// is logged and does not stop the remaining ones.
func (o *Observable[E]) Notify(e E) {
	snapshot := append([]subscriber[E](nil), o.subs...)
	for _, s := range snapshot {
		o.call(s, e)
	}
}

// Len returns the number of registered observers.
func (o *Observable[E]) Len() int {
	return len(o.subs)
}

func (o *Observable[E]) call(s subscriber[E], e E) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("observer failed",
				zap.Int("observer", s.id),
				zap.String("event", fmt.Sprintf("%T", e)),
				zap.Any("panic", r),
			)
		}
	}()
	s.fn(e)
}
