package booking

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-arbiter/internal/model"
)

func newTestPool(t *testing.T, n int) *Pool {
	t.Helper()
	p, err := NewPool(n)
	require.NoError(t, err)
	return p
}

func TestNewPool_RejectsEmptyPool(t *testing.T) {
	for _, n := range []int{0, -3} {
		_, err := NewPool(n)
		require.ErrorIs(t, err, ErrInvalidCapacity)
	}
}

func TestPool_StatusAllAvailable(t *testing.T) {
	p := newTestPool(t, 5)

	status := p.Status()
	require.Len(t, status, 5)
	for i, s := range status {
		assert.Equal(t, i+1, s.SeatNumber)
		assert.Equal(t, model.SeatAvailable, s.State)
		assert.Empty(t, s.HolderID)
		assert.Nil(t, s.BookedAt)
	}
	assert.Equal(t, 5, p.Available())
}

func TestPool_ClaimSequence(t *testing.T) {
	p := newTestPool(t, 5)

	o := p.Claim(1, "Anish")
	assert.Equal(t, model.OutcomeBooked, o.Kind)
	assert.Equal(t, "Anish", o.HolderID)

	o = p.Claim(2, "Bobby")
	assert.Equal(t, model.OutcomeBooked, o.Kind)

	o = p.Claim(1, "Charlie")
	assert.Equal(t, model.OutcomeAlreadyBooked, o.Kind)
	assert.Equal(t, "Anish", o.HolderID)
	assert.Equal(t, "Charlie", o.RequesterID)

	status := p.Status()
	assert.Equal(t, model.SeatBooked, status[0].State)
	assert.Equal(t, "Anish", status[0].HolderID)
	assert.NotNil(t, status[0].BookedAt)
	assert.Equal(t, "Bobby", status[1].HolderID)
	assert.Equal(t, 3, p.Available())
}

func TestPool_LaterClaimsKeepOriginalHolder(t *testing.T) {
	p := newTestPool(t, 3)
	require.True(t, p.Claim(3, "first").Booked())

	for i := 0; i < 5; i++ {
		o := p.Claim(3, fmt.Sprintf("late-%d", i))
		assert.Equal(t, model.OutcomeAlreadyBooked, o.Kind)
		assert.Equal(t, "first", o.HolderID)
	}
	assert.Equal(t, "first", p.Status()[2].HolderID)
}

func TestPool_InvalidSeatLeavesStateUntouched(t *testing.T) {
	p := newTestPool(t, 5)
	require.True(t, p.Claim(2, "Bobby").Booked())
	before := p.Status()

	for _, n := range []int{0, -1, 6, 100} {
		o := p.Claim(n, "X")
		assert.Equal(t, model.OutcomeInvalidSeat, o.Kind, "seat %d", n)
		assert.Equal(t, n, o.SeatNumber)
		assert.Empty(t, o.HolderID)
	}
	assert.Equal(t, before, p.Status())
}

func TestPool_EmptyRequesterStillBooks(t *testing.T) {
	p := newTestPool(t, 1)
	require.True(t, p.Claim(1, "").Booked())

	o := p.Claim(1, "someone")
	assert.Equal(t, model.OutcomeAlreadyBooked, o.Kind)
	assert.Equal(t, model.SeatBooked, p.Status()[0].State)
}

func TestPool_ConcurrentClaimsOnOneSeat(t *testing.T) {
	for _, k := range []int{1, 2, 8, 64, 256} {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			p := newTestPool(t, 1)
			outcomes := make([]model.Outcome, k)

			var wg sync.WaitGroup
			start := make(chan struct{})
			for i := 0; i < k; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					<-start
					outcomes[i] = p.Claim(1, fmt.Sprintf("user-%d", i))
				}(i)
			}
			close(start)
			wg.Wait()

			winners := 0
			var winner string
			for _, o := range outcomes {
				if o.Booked() {
					winners++
					winner = o.RequesterID
				}
			}
			require.Equal(t, 1, winners)
			for _, o := range outcomes {
				if !o.Booked() {
					assert.Equal(t, model.OutcomeAlreadyBooked, o.Kind)
					assert.Equal(t, winner, o.HolderID)
				}
			}
		})
	}
}

func TestPool_LoadTenClaimsFiveSeats(t *testing.T) {
	p := newTestPool(t, 5)
	outcomes := make(chan model.Outcome, 10)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			outcomes <- p.Claim(i%5+1, fmt.Sprintf("user-%d", i))
		}(i)
	}
	close(start)
	wg.Wait()
	close(outcomes)

	counts := map[model.OutcomeKind]int{}
	for o := range outcomes {
		counts[o.Kind]++
	}
	assert.Equal(t, 5, counts[model.OutcomeBooked])
	assert.Equal(t, 5, counts[model.OutcomeAlreadyBooked])
	assert.Zero(t, p.Available())
}

func TestPool_StatusDuringClaims(t *testing.T) {
	p := newTestPool(t, 50)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p.Claim(i+1, fmt.Sprintf("user-%d", i))
		}(i)
	}
	for i := 0; i < 20; i++ {
		for _, s := range p.Status() {
			if s.State == model.SeatBooked {
				assert.NotEmpty(t, s.HolderID)
				assert.NotNil(t, s.BookedAt)
			} else {
				assert.Empty(t, s.HolderID)
			}
		}
	}
	wg.Wait()
	assert.Zero(t, p.Available())
}
