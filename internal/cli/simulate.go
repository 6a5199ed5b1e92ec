package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/iliyamo/seat-arbiter/internal/booking"
	"github.com/iliyamo/seat-arbiter/internal/model"
	"github.com/iliyamo/seat-arbiter/internal/service"
)

// SimulateOptions describes one simulated burst of requesters.
type SimulateOptions struct {
	Seats    int
	Requests int
	VIPEvery int // every VIPEvery-th requester is VIP; 0 means none
	Window   time.Duration
}

// Totals counts outcomes by kind.
type Totals struct {
	Booked        int
	AlreadyBooked int
	Invalid       int
}

func newSimulateCmd() *cobra.Command {
	var opts SimulateOptions
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run concurrent requesters against an in-process seat pool",
		Long: `Starts --requests goroutines that each claim seat (i mod --seats)+1 at the
same time, then prints every outcome, the final seat table and the totals.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := Simulate(cmd.Context(), cmd.OutOrStdout(), opts)
			return err
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.Seats, "seats", 5, "number of seats in the pool")
	f.IntVar(&opts.Requests, "requests", 10, "number of concurrent requesters")
	f.IntVar(&opts.VIPEvery, "vip-every", 0, "make every k-th requester VIP (0 disables)")
	f.DurationVar(&opts.Window, "window", 20*time.Millisecond, "dispatcher batch window")
	return cmd
}

// Simulate runs one burst and writes the report to out.
func Simulate(ctx context.Context, out io.Writer, opts SimulateOptions) (Totals, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Requests < 0 {
		return Totals{}, fmt.Errorf("requests must not be negative, got %d", opts.Requests)
	}
	pool, err := booking.NewPool(opts.Seats)
	if err != nil {
		return Totals{}, err
	}
	svc := service.NewBookingService(pool, opts.Window)
	defer svc.Close()

	var (
		mu       sync.Mutex
		outcomes = make([]model.Outcome, 0, opts.Requests)
		firstErr error
		start    = make(chan struct{})
		wg       sync.WaitGroup
	)
	for i := 0; i < opts.Requests; i++ {
		req := model.BookingRequest{
			SeatNumber:  i%opts.Seats + 1,
			RequesterID: fmt.Sprintf("requester-%d", i+1),
			Priority:    model.PriorityRegular,
		}
		if opts.VIPEvery > 0 && (i+1)%opts.VIPEvery == 0 {
			req.Priority = model.PriorityVIP
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			o, err := svc.Claim(ctx, req)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			outcomes = append(outcomes, o)
		}()
	}
	close(start)
	wg.Wait()
	if firstErr != nil {
		return Totals{}, firstErr
	}

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Sequence < outcomes[j].Sequence })
	var totals Totals
	for _, o := range outcomes {
		fmt.Fprintln(out, o.Message())
		switch o.Kind {
		case model.OutcomeBooked:
			totals.Booked++
		case model.OutcomeAlreadyBooked:
			totals.AlreadyBooked++
		default:
			totals.Invalid++
		}
	}

	renderStatus(out, svc.Status())
	fmt.Fprintf(out, "booked=%d already_booked=%d invalid=%d\n", totals.Booked, totals.AlreadyBooked, totals.Invalid)
	return totals, nil
}

func renderStatus(out io.Writer, seats []model.SeatStatus) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Seat", "State", "Holder", "Booked At"})
	for _, s := range seats {
		at := ""
		if s.BookedAt != nil {
			at = s.BookedAt.Format(time.RFC3339Nano)
		}
		t.AppendRow(table.Row{s.SeatNumber, s.State, s.HolderID, at})
	}
	t.Render()
}
