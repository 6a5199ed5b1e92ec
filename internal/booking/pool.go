package booking

import (
	"fmt"
	"sync"
	"time"

	"github.com/iliyamo/seat-arbiter/internal/model"
)

// Claimer is anything that can arbitrate a claim on a seat.  Pool is the
// production implementation.
type Claimer interface {
	Claim(seatNumber int, requesterID string) model.Outcome
}

type seat struct {
	booked   bool
	holder   string
	bookedAt time.Time
}

// Pool owns the state of every seat.  A single RWMutex guards the table:
// Claim holds the write lock for its whole check-and-set so two callers
// can never both see a seat as free, and Status holds the read lock while
// copying so a snapshot never shows half of a claim.
type Pool struct {
	mu    sync.RWMutex
	seats []seat // index i is seat i+1
	now   func() time.Time
}

// NewPool creates a pool with totalSeats seats, all available.
func NewPool(totalSeats int) (*Pool, error) {
	if totalSeats < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, totalSeats)
	}
	return &Pool{
		seats: make([]seat, totalSeats),
		now:   func() time.Time { return time.Now().UTC() },
	}, nil
}

// Size returns the number of seats in the pool.
func (p *Pool) Size() int { return len(p.seats) }

// Claim tries to book seatNumber for requesterID.  The range check runs
// before any lock is taken and never changes state.
func (p *Pool) Claim(seatNumber int, requesterID string) model.Outcome {
	out := model.Outcome{SeatNumber: seatNumber, RequesterID: requesterID}
	if seatNumber < 1 || seatNumber > len(p.seats) {
		out.Kind = model.OutcomeInvalidSeat
		return out
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	s := &p.seats[seatNumber-1]
	if s.booked {
		out.Kind = model.OutcomeAlreadyBooked
		out.HolderID = s.holder
		return out
	}
	s.booked = true
	s.holder = requesterID
	s.bookedAt = p.now()
	out.Kind = model.OutcomeBooked
	out.HolderID = requesterID
	return out
}

// Status returns a consistent snapshot of every seat ordered by seat
// number.
func (p *Pool) Status() []model.SeatStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]model.SeatStatus, len(p.seats))
	for i, s := range p.seats {
		st := model.SeatStatus{SeatNumber: i + 1, State: model.SeatAvailable}
		if s.booked {
			at := s.bookedAt
			st.State = model.SeatBooked
			st.HolderID = s.holder
			st.BookedAt = &at
		}
		out[i] = st
	}
	return out
}

// Available counts seats nobody holds yet.
func (p *Pool) Available() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	n := 0
	for _, s := range p.seats {
		if !s.booked {
			n++
		}
	}
	return n
}
