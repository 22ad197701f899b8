package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunCompletesThroughMessages(t *testing.T) {
	s := NewScheduler()
	assert.Nil(t, s.Flush())

	ran := false
	var got []error
	s.Run(context.Background(), func(context.Context) error {
		ran = true
		return errors.New("boom")
	}, func(err error) { got = append(got, err) })
	s.Run(context.Background(), func(context.Context) error { return nil }, nil)

	assert.False(t, ran, "work waits for the program")
	assert.Equal(t, 2, s.Waiting())

	msgs := collect(t, s.Flush())
	require.Len(t, msgs, 2)
	assert.True(t, ran)
	assert.Empty(t, got, "completion waits for the loop")

	for _, msg := range msgs {
		s.complete(msg.(jobDoneMsg))
	}
	require.Len(t, got, 1)
	assert.EqualError(t, got[0], "boom")
	assert.Zero(t, s.Waiting())

	s.complete(msgs[0].(jobDoneMsg))
	assert.Len(t, got, 1, "a completion is delivered once")
}

func TestScheduler_After(t *testing.T) {
	s := NewScheduler()
	fired := 0
	s.After(time.Millisecond, func() { fired++ })

	msgs := collect(t, s.Flush())
	require.Len(t, msgs, 1)
	assert.Zero(t, fired)

	s.complete(msgs[0].(jobDoneMsg))
	assert.Equal(t, 1, fired)
}
