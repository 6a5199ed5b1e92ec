package booking

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-arbiter/internal/model"
)

func req(seat int, who string, p model.Priority) model.BookingRequest {
	return model.BookingRequest{SeatNumber: seat, RequesterID: who, Priority: p}
}

func TestScheduler_IdleDrainsNothing(t *testing.T) {
	s := NewScheduler()
	assert.Nil(t, s.Drain())
	assert.Nil(t, s.DrainTo(newTestPool(t, 1)))
	assert.Zero(t, s.Pending())
}

func TestScheduler_VIPBeforeRegularFIFOWithinClass(t *testing.T) {
	s := NewScheduler()
	s.Submit(req(1, "r1", model.PriorityRegular))
	s.Submit(req(2, "v1", model.PriorityVIP))
	s.Submit(req(3, "r2", model.PriorityRegular))
	s.Submit(req(4, "v2", model.PriorityVIP))
	require.Equal(t, 4, s.Pending())

	got := s.Drain()
	require.Len(t, got, 4)
	names := make([]string, len(got))
	for i, r := range got {
		names[i] = r.RequesterID
	}
	assert.Equal(t, []string{"v1", "v2", "r1", "r2"}, names)
	assert.Equal(t, uint64(2), got[0].Sequence)
	assert.Equal(t, uint64(1), got[2].Sequence)
	assert.Zero(t, s.Pending())
}

func TestScheduler_UnknownPriorityIsRegular(t *testing.T) {
	s := NewScheduler()
	stamped := s.Submit(req(1, "gold", model.Priority("GOLD")))
	assert.Equal(t, model.PriorityRegular, stamped.Priority)
	s.Submit(req(1, "vip", model.PriorityVIP))

	got := s.Drain()
	assert.Equal(t, "vip", got[0].RequesterID)
	assert.Equal(t, "gold", got[1].RequesterID)
}

func TestScheduler_VIPWinsContestedSeatAtDrain(t *testing.T) {
	pool := newTestPool(t, 5)
	s := NewScheduler()
	s.Submit(req(4, "Bobby", model.PriorityRegular))
	s.Submit(req(4, "Anish", model.PriorityVIP))

	outcomes := s.DrainTo(pool)
	require.Len(t, outcomes, 2)

	assert.Equal(t, "Anish", outcomes[0].RequesterID)
	assert.Equal(t, model.OutcomeBooked, outcomes[0].Kind)
	assert.Equal(t, "Anish (VIP) booked seat 4", outcomes[0].Message())

	assert.Equal(t, "Bobby", outcomes[1].RequesterID)
	assert.Equal(t, model.OutcomeAlreadyBooked, outcomes[1].Kind)
	assert.Equal(t, "Anish", outcomes[1].HolderID)
	assert.Equal(t, "Bobby: Seat 4 is already booked!", outcomes[1].Message())
}

func TestScheduler_PriorityDoesNotPreemptEarlierClaim(t *testing.T) {
	pool := newTestPool(t, 5)
	require.True(t, pool.Claim(4, "Bobby").Booked())

	s := NewScheduler()
	s.Submit(req(4, "Anish", model.PriorityVIP))
	out := s.DrainTo(pool)
	require.Len(t, out, 1)
	assert.Equal(t, model.OutcomeAlreadyBooked, out[0].Kind)
	assert.Equal(t, "Bobby", out[0].HolderID)
}

func TestScheduler_ConcurrentSubmitters(t *testing.T) {
	s := NewScheduler()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := model.PriorityRegular
			if i%3 == 0 {
				p = model.PriorityVIP
			}
			s.Submit(req(i+1, fmt.Sprintf("u%d", i), p))
		}(i)
	}
	wg.Wait()

	got := s.Drain()
	require.Len(t, got, 100)

	seen := map[uint64]bool{}
	sawRegular := false
	var lastVIP, lastRegular uint64
	for _, r := range got {
		require.False(t, seen[r.Sequence], "duplicate sequence %d", r.Sequence)
		seen[r.Sequence] = true
		if r.Priority == model.PriorityVIP {
			require.False(t, sawRegular, "VIP request drained after a regular one")
			require.Greater(t, r.Sequence, lastVIP)
			lastVIP = r.Sequence
		} else {
			sawRegular = true
			require.Greater(t, r.Sequence, lastRegular)
			lastRegular = r.Sequence
		}
	}
}
