// Package service sits between the HTTP/CLI layers and the seat arbiter.
// It turns requests into claims and runs the side effects of each
// outcome: audit records and seat.booked events.  Side-effect failures are
// logged and never change the outcome returned to the caller.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/seat-arbiter/internal/booking"
	"github.com/iliyamo/seat-arbiter/internal/model"
	q "github.com/iliyamo/seat-arbiter/internal/queue"
)

// EventPublisher delivers seat.booked events.  AMQPPublisher is the
// production implementation.
type EventPublisher interface {
	PublishSeatBooked(ctx context.Context, event q.SeatBookedEvent) error
}

// OutcomeRecorder stores outcomes for auditing.  repository.OutcomeRepo
// is the production implementation.
type OutcomeRecorder interface {
	Record(ctx context.Context, o model.Outcome) error
}

// Option configures a BookingService.
type Option func(*BookingService)

// WithPublisher publishes an event for every BOOKED outcome.
func WithPublisher(p EventPublisher) Option { return func(s *BookingService) { s.publisher = p } }

// WithRecorder records every outcome.
func WithRecorder(r OutcomeRecorder) Option { return func(s *BookingService) { s.recorder = r } }

// WithLogger replaces the default logrus entry.
func WithLogger(l *log.Entry) Option { return func(s *BookingService) { s.log = l } }

// BookingService owns the pool and the dispatcher in front of it.
type BookingService struct {
	pool       *booking.Pool
	dispatcher *booking.Dispatcher
	publisher  EventPublisher
	recorder   OutcomeRecorder
	log        *log.Entry
	timeout    time.Duration // budget for each side effect
	now        func() time.Time
	orphans    sync.WaitGroup // side effects of claims whose caller left
}

// NewBookingService starts a dispatcher over pool that drains every
// window.  Close must be called to stop it.
func NewBookingService(pool *booking.Pool, window time.Duration, opts ...Option) *BookingService {
	s := &BookingService{
		pool:    pool,
		log:     log.WithField("component", "booking"),
		timeout: 3 * time.Second,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dispatcher = booking.NewDispatcher(pool, window, booking.WithAbandonedHook(s.abandoned))
	return s
}

// Claim submits one request through the dispatcher and waits for its
// outcome.  If ctx ends first the request is still claimed and its side
// effects run in the background.
func (s *BookingService) Claim(ctx context.Context, req model.BookingRequest) (model.Outcome, error) {
	o, err := s.dispatcher.Submit(ctx, req)
	if err != nil {
		return model.Outcome{}, err
	}
	s.afterClaim(ctx, o)
	return o, nil
}

// ClaimBatch orders reqs with a private scheduler, so every request of
// the batch is known when the drain happens and VIP requests are claimed
// first.  Outcomes are returned in claim order.
func (s *BookingService) ClaimBatch(ctx context.Context, reqs []model.BookingRequest) ([]model.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sched := booking.NewScheduler()
	for _, r := range reqs {
		sched.Submit(r)
	}
	outcomes := sched.DrainTo(s.pool)
	for _, o := range outcomes {
		s.afterClaim(ctx, o)
	}
	return outcomes, nil
}

// Status returns the current seat snapshot.
func (s *BookingService) Status() []model.SeatStatus { return s.pool.Status() }

// Counts returns the pool size and the number of seats still available.
func (s *BookingService) Counts() (total, available int) {
	return s.pool.Size(), s.pool.Available()
}

// Close stops the dispatcher after claiming anything still queued and
// waits for background side effects to finish.
func (s *BookingService) Close() {
	s.dispatcher.Close()
	s.orphans.Wait()
}

// abandoned is called from the drain goroutine; side effects run off it.
func (s *BookingService) abandoned(o model.Outcome) {
	s.log.WithFields(log.Fields{"seat": o.SeatNumber, "requester": o.RequesterID}).
		Info("claim completed after its caller went away")
	s.orphans.Add(1)
	go func() {
		defer s.orphans.Done()
		s.afterClaim(context.Background(), o)
	}()
}

func (s *BookingService) afterClaim(ctx context.Context, o model.Outcome) {
	entry := s.log.WithFields(log.Fields{
		"seat":      o.SeatNumber,
		"requester": o.RequesterID,
		"priority":  o.Priority,
		"outcome":   o.Kind,
		"sequence":  o.Sequence,
	})
	entry.Debug(o.Message())

	// The caller may hang up once it has its outcome; side effects must
	// still run.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, o); err != nil {
			entry.WithError(err).Warn("audit record failed")
		}
	}
	if s.publisher != nil && o.Booked() {
		ev := q.SeatBookedEvent{
			EventID:     uuid.NewString(),
			SeatNumber:  o.SeatNumber,
			RequesterID: o.RequesterID,
			Priority:    string(o.Priority),
			Sequence:    o.Sequence,
			BookedAt:    s.now().Format(time.RFC3339Nano),
		}
		if err := s.publisher.PublishSeatBooked(ctx, ev); err != nil {
			entry.WithError(err).Warn("publish seat.booked failed")
		}
	}
}
