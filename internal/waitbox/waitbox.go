// Package waitbox provides a single-slot, wake-on-write synchronization box.
//
// A Box carries at most one value from a producer (typically an engine
// callback) to its waiters. A waiter blocks in Wait until the producer
// resolves the box exactly once, or drops it without a value, which resolves
// the wait to a cancellation. There is no polling; waiters are parked on a
// channel and woken by the first Resolve or Drop. After the box settles,
// every Wait observes the same outcome.
//
// The waiter must never be the thread that drives the engine's message loop:
// the loop is what eventually delivers the callback that resolves the box,
// so blocking it would deadlock.
package waitbox

import (
	"context"
	"sync"
)

// Box is a single-slot promise. The zero value is not usable; create one
// with New.
type Box[T any] struct {
	once sync.Once
	ch   chan outcome[T]
}

type outcome[T any] struct {
	value    T
	resolved bool
}

// New returns an empty Box.
func New[T any]() *Box[T] {
	return &Box[T]{ch: make(chan outcome[T], 1)}
}

// Resolve deposits the value and wakes the waiter. Only the first of
// Resolve/Drop has any effect; later calls are no-ops.
func (b *Box[T]) Resolve(v T) {
	b.once.Do(func() {
		b.ch <- outcome[T]{value: v, resolved: true}
	})
}

// Drop marks the box as abandoned: the producer went away without producing
// a value. The waiter observes this as ok == false. No-op after Resolve.
func (b *Box[T]) Drop() {
	b.once.Do(func() {
		b.ch <- outcome[T]{}
	})
}

// Wait blocks until the box is resolved, dropped, or ctx is done.
// ok is true only when a value was deposited with Resolve. Once the box
// has settled, Wait returns the same outcome to every caller.
func (b *Box[T]) Wait(ctx context.Context) (v T, ok bool, err error) {
	select {
	case out := <-b.ch:
		b.ch <- out
		return out.value, out.resolved, nil
	case <-ctx.Done():
		return v, false, ctx.Err()
	}
}
