package client

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch_EmitsInitialValue(t *testing.T) {
	ch := make(chan struct{})
	w := Watch(context.Background(), NewChannelSource(ch), func(context.Context) (bool, error) {
		return false, nil
	})
	defer w.Stop()

	select {
	case v := <-w.Updates():
		assert.False(t, v)
	case <-time.After(time.Second):
		t.Fatal("no initial value emitted")
	}
}

func TestWatch_DeduplicatesUnchangedResults(t *testing.T) {
	var value atomic.Bool
	ch := make(chan struct{})
	w := Watch(context.Background(), NewChannelSource(ch), func(context.Context) (bool, error) {
		return value.Load(), nil
	})
	defer w.Stop()

	require.False(t, <-w.Updates())

	// unchanged fetches produce no update
	ch <- struct{}{}
	ch <- struct{}{}
	select {
	case v := <-w.Updates():
		t.Fatalf("unexpected update %v for unchanged value", v)
	case <-time.After(50 * time.Millisecond):
	}

	value.Store(true)
	ch <- struct{}{}
	select {
	case v := <-w.Updates():
		assert.True(t, v)
	case <-time.After(time.Second):
		t.Fatal("changed value not delivered")
	}
}

func TestWatch_PollBacked(t *testing.T) {
	var value atomic.Int64
	w := Watch(context.Background(), NewPollSource(5*time.Millisecond), func(context.Context) (int64, error) {
		return value.Load(), nil
	})
	defer w.Stop()

	require.Equal(t, int64(0), <-w.Updates())

	value.Store(7)
	select {
	case v := <-w.Updates():
		assert.Equal(t, int64(7), v)
	case <-time.After(time.Second):
		t.Fatal("poll source never picked up the change")
	}
}

func TestWatch_StopClosesUpdates(t *testing.T) {
	w := Watch(context.Background(), NewPollSource(time.Millisecond), func(context.Context) (int, error) {
		return 1, nil
	})
	<-w.Updates()
	w.Stop()

	select {
	case _, ok := <-w.Updates():
		assert.False(t, ok, "updates channel should be closed after Stop")
	case <-time.After(time.Second):
		t.Fatal("updates channel not closed")
	}
}
