package handler

import (
	"context"  // context errors from the dispatcher
	"errors"   // errors.Is comparisons
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters
	"strings"  // trimming requester ids

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/seat-arbiter/internal/booking"    // arbiter sentinel errors
	"github.com/iliyamo/seat-arbiter/internal/middleware" // requester identity from the JWT
	"github.com/iliyamo/seat-arbiter/internal/model"      // requests, outcomes and seat snapshots
)

// maxBatch caps how many requests one batch call may carry.
const maxBatch = 1000

// Bookings is the part of service.BookingService the seat endpoints use.
type Bookings interface {
	Claim(ctx context.Context, req model.BookingRequest) (model.Outcome, error)
	ClaimBatch(ctx context.Context, reqs []model.BookingRequest) ([]model.Outcome, error)
	Status() []model.SeatStatus
	Counts() (total, available int)
}

// SeatHandler serves the seat status and claim endpoints.
type SeatHandler struct {
	Bookings Bookings
}

// NewSeatHandler constructs a SeatHandler.  The service must be non-nil.
func NewSeatHandler(b Bookings) *SeatHandler {
	if b == nil {
		panic("nil booking service passed to NewSeatHandler")
	}
	return &SeatHandler{Bookings: b}
}

// outcomeResp is an outcome plus its rendered message.
type outcomeResp struct {
	model.Outcome
	Message string `json:"message"`
}

func toResp(o model.Outcome) outcomeResp { return outcomeResp{Outcome: o, Message: o.Message()} }

// statusFor maps an outcome onto the HTTP status of a single claim.
func statusFor(o model.Outcome) int {
	switch o.Kind {
	case model.OutcomeBooked:
		return http.StatusCreated
	case model.OutcomeAlreadyBooked:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// ListSeats handles GET /v1/seats.  It returns a consistent snapshot of
// every seat with the pool size and the number still available.
func (h *SeatHandler) ListSeats(c echo.Context) error {
	items := h.Bookings.Status()
	available := 0
	for _, s := range items {
		if s.State == model.SeatAvailable {
			available++
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total":     len(items),
		"available": available,
		"items":     items,
	})
}

// ClaimSeat handles POST /v1/seats/:number/claim.  The requester and its
// priority class come from the access token.  The response is 201 when
// the seat was booked, 409 when someone else already holds it and 400 for
// a seat number outside the pool.
func (h *SeatHandler) ClaimSeat(c echo.Context) error {
	requester := middleware.RequesterID(c)
	if requester == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	seat, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat number"})
	}
	o, err := h.Bookings.Claim(c.Request().Context(), model.BookingRequest{
		SeatNumber:  seat,
		RequesterID: requester,
		Priority:    model.ParsePriority(middleware.Role(c)),
	})
	if err != nil {
		return claimError(c, err)
	}
	return c.JSON(statusFor(o), toResp(o))
}

type batchReq struct {
	Requests []model.BookingRequest `json:"requests"`
}

// ClaimBatch handles POST /v1/bookings/batch.  Every request in the body
// is ordered VIP first (arrival order inside a class) and claimed in that
// order.  It always answers 200 with one item per request in claim order;
// the per-request result is in each item's outcome field.
func (h *SeatHandler) ClaimBatch(c echo.Context) error {
	var body batchReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Requests) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "requests is required"})
	}
	if len(body.Requests) > maxBatch {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "too many requests in batch"})
	}
	reqs := make([]model.BookingRequest, len(body.Requests))
	for i, r := range body.Requests {
		r.RequesterID = strings.TrimSpace(r.RequesterID)
		if r.RequesterID == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "requester_id is required", "index": i})
		}
		r.Sequence = 0 // assigned by the scheduler
		reqs[i] = r
	}
	outcomes, err := h.Bookings.ClaimBatch(c.Request().Context(), reqs)
	if err != nil {
		return claimError(c, err)
	}
	items := make([]outcomeResp, len(outcomes))
	for i, o := range outcomes {
		items[i] = toResp(o)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func claimError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrDispatcherClosed):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "shutting down"})
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		// The request stays queued and may still book the seat.
		return c.JSON(http.StatusGatewayTimeout, echo.Map{
			"error":  "claim did not complete before the request ended; it may still be applied",
			"status": "pending",
			"check":  "GET /v1/seats",
		})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "claim failed"})
	}
}
