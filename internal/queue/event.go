// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// SeatBookedQueue is the durable queue seat.booked events are routed to.
const SeatBookedQueue = "seat.booked"

// SeatBookedEvent is published each time a claim ends in BOOKED.  It
// carries everything a downstream consumer needs to log or notify
// without asking the arbiter for state.
type SeatBookedEvent struct {
    EventID     string `json:"event_id"`
    SeatNumber  int    `json:"seat_number"`
    RequesterID string `json:"requester_id"`
    Priority    string `json:"priority"`
    Sequence    uint64 `json:"sequence"`
    BookedAt    string `json:"booked_at"`
}

// BookedAtTime parses BookedAt, returning the zero time when it is empty
// or malformed.
func (e SeatBookedEvent) BookedAtTime() time.Time {
    t, err := time.Parse(time.RFC3339Nano, e.BookedAt)
    if err != nil {
        return time.Time{}
    }
    return t
}
