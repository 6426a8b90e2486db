// internal/client/debounce.go
package client

import (
	"sync"
	"time"
)

const defaultQuietPeriod = 500 * time.Millisecond

// Debouncer coalesces rapid edits to the same key into one write after a
// quiet period. Each key debounces independently; a new edit resets that
// key's timer and replaces the pending value (last write wins). The write
// function runs on a timer goroutine.
type Debouncer struct {
	mu      sync.Mutex
	quiet   time.Duration
	write   func(key string, value interface{})
	pending map[string]*pendingWrite
	closed  bool
}

type pendingWrite struct {
	timer *time.Timer
	value interface{}
}

func NewDebouncer(write func(key string, value interface{})) *Debouncer {
	return NewDebouncerWithPeriod(defaultQuietPeriod, write)
}

func NewDebouncerWithPeriod(quiet time.Duration, write func(key string, value interface{})) *Debouncer {
	return &Debouncer{
		quiet:   quiet,
		write:   write,
		pending: make(map[string]*pendingWrite),
	}
}

// Set schedules a write of value under key after the quiet period. Calling
// again before it fires replaces the value and restarts the timer.
func (d *Debouncer) Set(key string, value interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	if p, ok := d.pending[key]; ok {
		p.value = value
		p.timer.Reset(d.quiet)
		return
	}

	p := &pendingWrite{value: value}
	p.timer = time.AfterFunc(d.quiet, func() { d.fire(key) })
	d.pending[key] = p
}

func (d *Debouncer) fire(key string) {
	d.mu.Lock()
	p, ok := d.pending[key]
	if !ok {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	value := p.value
	d.mu.Unlock()

	d.write(key, value)
}

// Flush writes every pending value immediately.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	keys := make([]string, 0, len(d.pending))
	for key, p := range d.pending {
		p.timer.Stop()
		keys = append(keys, key)
	}
	d.mu.Unlock()

	for _, key := range keys {
		d.fire(key)
	}
}

// Close flushes pending writes and rejects further Set calls.
func (d *Debouncer) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.Flush()
}
