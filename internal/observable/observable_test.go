package observable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNotify_RegistrationOrder(t *testing.T) {
	o := New[string](nil)
	var got []string
	o.Subscribe(func(e string) { got = append(got, "a:"+e) })
	o.Subscribe(func(e string) { got = append(got, "b:"+e) })

	o.Notify("x")

	assert.Equal(t, []string{"a:x", "b:x"}, got)
}

func TestUnsubscribe(t *testing.T) {
	o := New[int](nil)
	calls := 0
	unsubscribe := o.Subscribe(func(int) { calls++ })
	o.Notify(1)

	unsubscribe()
	unsubscribe()
	o.Notify(2)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, o.Len())
}

func TestNotify_PanickingObserverDoesNotBlockSiblings(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	o := New[int](zap.New(core))

	second := false
	o.Subscribe(func(int) { panic("boom") })
	o.Subscribe(func(int) { second = true })

	require.NotPanics(t, func() { o.Notify(1) })
	assert.True(t, second)
	assert.Equal(t, 1, logs.FilterMessage("observer failed").Len())
}

func TestNotify_SubscribeDuringNotify(t *testing.T) {
	o := New[int](nil)
	late := 0
	o.Subscribe(func(int) {
		o.Subscribe(func(int) { late++ })
	})

	o.Notify(1)
	assert.Equal(t, 0, late, "observer added during notify waits for the next call")

	o.Notify(2)
	assert.Equal(t, 1, late)
}

func TestUnsubscribeDuringNotify(t *testing.T) {
	o := New[int](nil)
	var unsubscribeSecond func()
	second := 0
	o.Subscribe(func(int) { unsubscribeSecond() })
	unsubscribeSecond = o.Subscribe(func(int) { second++ })

	o.Notify(1)
	o.Notify(2)

	assert.Equal(t, 1, second)
}
