package model

import "time"

// SeatState is the availability of a single seat.  A seat moves from
// AVAILABLE to BOOKED at most once and never goes back.
type SeatState string

const (
	SeatAvailable SeatState = "AVAILABLE" // nobody holds the seat yet
	SeatBooked    SeatState = "BOOKED"    // a requester won the seat
)

// SeatStatus is one row of a pool snapshot.
//
// Fields:
//  SeatNumber – 1-based seat index.
//  State      – AVAILABLE or BOOKED.
//  HolderID   – requester that booked the seat (empty while available).
//  BookedAt   – when the seat was booked (nil while available).
type SeatStatus struct {
	SeatNumber int        `json:"seat_number"`
	State      SeatState  `json:"state"`
	HolderID   string     `json:"holder_id,omitempty"`
	BookedAt   *time.Time `json:"booked_at,omitempty"`
}
