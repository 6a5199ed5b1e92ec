package booking

import (
	"sync"

	"github.com/iliyamo/seat-arbiter/internal/model"
)

// Scheduler collects booking requests and hands them out VIP first, in
// arrival order inside each class.  It is safe for concurrent producers;
// the mutex gives every Submit a happens-before edge with the Drain that
// returns it.
//
// Priority only decides the order in which known requests reach the pool.
// A regular request that was claimed before a VIP request arrived keeps
// its seat.
type Scheduler struct {
	mu      sync.Mutex
	next    uint64
	vip     []model.BookingRequest
	regular []model.BookingRequest
}

// NewScheduler returns an idle scheduler.
func NewScheduler() *Scheduler { return &Scheduler{} }

// Submit stamps req with the next arrival sequence and queues it.  An
// unrecognised priority class is queued as REGULAR.  The stamped request
// is returned so callers can correlate outcomes.
func (s *Scheduler) Submit(req model.BookingRequest) model.BookingRequest {
	req.Priority = model.ParsePriority(string(req.Priority))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	req.Sequence = s.next
	if req.Priority == model.PriorityVIP {
		s.vip = append(s.vip, req)
	} else {
		s.regular = append(s.regular, req)
	}
	return req
}

// Pending returns how many requests are waiting to be drained.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.vip) + len(s.regular)
}

// Drain empties both queues and returns their contents in submission
// order: every VIP request, then every regular one.  An idle scheduler
// returns nil.
func (s *Scheduler) Drain() []model.BookingRequest {
	s.mu.Lock()
	vip, regular := s.vip, s.regular
	s.vip, s.regular = nil, nil
	s.mu.Unlock()

	if len(vip)+len(regular) == 0 {
		return nil
	}
	out := make([]model.BookingRequest, 0, len(vip)+len(regular))
	out = append(out, vip...)
	return append(out, regular...)
}

// DrainTo drains the scheduler and submits each request to c one at a
// time.  Outcomes are returned in the order the claims were made and carry
// the request's priority and sequence.
func (s *Scheduler) DrainTo(c Claimer) []model.Outcome {
	reqs := s.Drain()
	if len(reqs) == 0 {
		return nil
	}
	out := make([]model.Outcome, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, claim(c, req))
	}
	return out
}

func claim(c Claimer, req model.BookingRequest) model.Outcome {
	o := c.Claim(req.SeatNumber, req.RequesterID)
	o.Priority = req.Priority
	o.Sequence = req.Sequence
	return o
}
