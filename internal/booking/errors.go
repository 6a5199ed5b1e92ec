// Package booking holds the seat arbiter: the pool that owns seat state,
// the scheduler that orders pending requests by priority and the
// dispatcher that drains the scheduler on a short window.  Nothing in this
// package logs; every result is returned to the caller.
package booking

import "errors"

// ErrInvalidCapacity is returned when a pool is created with fewer than
// one seat.
var ErrInvalidCapacity = errors.New("booking: pool needs at least one seat")

// ErrDispatcherClosed is returned by Dispatcher.Submit once Close has been
// called.
var ErrDispatcherClosed = errors.New("booking: dispatcher closed")
