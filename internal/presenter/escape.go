package presenter

import (
	"bigtrip/internal/observable"

	"go.uber.org/zap"
)

// EscapeBus delivers Escape presses to whoever currently holds a
// subscription.
type EscapeBus struct {
	obs *observable.Observable[struct{}]
}

func NewEscapeBus(log *zap.Logger) *EscapeBus {
	return &EscapeBus{obs: observable.New[struct{}](log)}
}

// Acquire calls fn on every Escape press until the subscription is released.
func (b *EscapeBus) Acquire(fn func()) *Subscription {
	return &Subscription{release: b.obs.Subscribe(func(struct{}) { fn() })}
}

// Press delivers an Escape press. It reports whether anyone was listening.
func (b *EscapeBus) Press() bool {
	if b.obs.Len() == 0 {
		return false
	}
	b.obs.Notify(struct{}{})
	return true
}

// Active reports whether any subscription is held.
func (b *EscapeBus) Active() bool {
	return b.obs.Len() > 0
}

// Subscription is a held Escape listener. A nil Subscription is valid and
// releases nothing.
type Subscription struct {
	release func()
}

// Release stops delivery. It is safe to call more than once.
func (s *Subscription) Release() {
	if s == nil || s.release == nil {
		return
	}
	s.release()
	s.release = nil
}
