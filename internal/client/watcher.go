// internal/client/watcher.go
package client

import (
	"context"
	"reflect"
	"time"
)

// Source tells a watcher when the underlying data may have changed. It can
// be backed by a push channel or by a timer, so the consumer never knows
// which transport is in use.
type Source interface {
	Changes() <-chan struct{}
	Stop()
}

// channelSource adapts an external push channel.
type channelSource struct {
	ch <-chan struct{}
}

func NewChannelSource(ch <-chan struct{}) Source {
	return &channelSource{ch: ch}
}

func (s *channelSource) Changes() <-chan struct{} { return s.ch }
func (s *channelSource) Stop()                    {}

// pollSource ticks at a fixed interval.
type pollSource struct {
	ticker *time.Ticker
	ch     chan struct{}
	done   chan struct{}
}

func NewPollSource(interval time.Duration) Source {
	s := &pollSource{
		ticker: time.NewTicker(interval),
		ch:     make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *pollSource) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.ticker.C:
			select {
			case s.ch <- struct{}{}:
			default:
			}
		}
	}
}

func (s *pollSource) Changes() <-chan struct{} { return s.ch }

func (s *pollSource) Stop() {
	s.ticker.Stop()
	close(s.done)
}

// Watcher re-evaluates a fetch function on every source notification and
// forwards the result when it differs from the last one seen. The fetch is
// pure with respect to the watcher; how changes are learned about is
// entirely the source's business.
type Watcher[T any] struct {
	source  Source
	fetch   func(ctx context.Context) (T, error)
	updates chan T
	cancel  context.CancelFunc
}

// Watch evaluates fetch once immediately and then on every notification
// from source. Results are deduplicated by deep equality. Stop (or
// cancelling ctx) ends the loop and releases the source.
func Watch[T any](ctx context.Context, source Source, fetch func(ctx context.Context) (T, error)) *Watcher[T] {
	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher[T]{
		source:  source,
		fetch:   fetch,
		updates: make(chan T, 1),
		cancel:  cancel,
	}
	go w.run(ctx)
	return w
}

func (w *Watcher[T]) run(ctx context.Context) {
	defer w.source.Stop()
	defer close(w.updates)

	var last T
	var seen bool

	emit := func() {
		current, err := w.fetch(ctx)
		if err != nil {
			return
		}
		if seen && reflect.DeepEqual(last, current) {
			return
		}
		last, seen = current, true
		select {
		case w.updates <- current:
		case <-ctx.Done():
		}
	}

	emit()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-w.source.Changes():
			if !ok {
				return
			}
			emit()
		}
	}
}

// Updates delivers deduplicated fetch results. Closed after Stop.
func (w *Watcher[T]) Updates() <-chan T { return w.updates }

// Stop cancels the watch.
func (w *Watcher[T]) Stop() { w.cancel() }
