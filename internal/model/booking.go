package model

import "fmt"

// BookingRequest is one requester's attempt to claim one seat.  Sequence
// is the arrival number handed out by the scheduler; it is zero until the
// request has been submitted and only breaks ties inside a class.
type BookingRequest struct {
	SeatNumber  int      `json:"seat_number"`
	RequesterID string   `json:"requester_id"`
	Priority    Priority `json:"priority"`
	Sequence    uint64   `json:"sequence,omitempty"`
}

// OutcomeKind is the terminal result of a claim.
type OutcomeKind string

const (
	OutcomeBooked        OutcomeKind = "BOOKED"         // seat transitioned to BOOKED for the requester
	OutcomeAlreadyBooked OutcomeKind = "ALREADY_BOOKED" // someone else holds the seat
	OutcomeInvalidSeat   OutcomeKind = "INVALID_SEAT"   // seat number outside the pool
)

// Outcome describes what happened to a single booking request.
//
// Fields:
//  Kind        – BOOKED, ALREADY_BOOKED or INVALID_SEAT.
//  SeatNumber  – the seat that was requested.
//  RequesterID – who asked for it.
//  Priority    – class of the request (set by the scheduler).
//  HolderID    – current holder; the requester on BOOKED, the earlier
//                winner on ALREADY_BOOKED, empty on INVALID_SEAT.
//  Sequence    – arrival number of the request, when scheduled.
type Outcome struct {
	Kind        OutcomeKind `json:"outcome"`
	SeatNumber  int         `json:"seat_number"`
	RequesterID string      `json:"requester_id"`
	Priority    Priority    `json:"priority,omitempty"`
	HolderID    string      `json:"holder_id,omitempty"`
	Sequence    uint64      `json:"sequence,omitempty"`
}

// Booked reports whether the request won its seat.
func (o Outcome) Booked() bool { return o.Kind == OutcomeBooked }

// Message renders the outcome as a single human-readable line.
func (o Outcome) Message() string {
	switch o.Kind {
	case OutcomeBooked:
		return fmt.Sprintf("%s (%s) booked seat %d", o.RequesterID, o.Priority.Label(), o.SeatNumber)
	case OutcomeAlreadyBooked:
		return fmt.Sprintf("%s: Seat %d is already booked!", o.RequesterID, o.SeatNumber)
	default:
		return "Invalid seat number!"
	}
}
