package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seat-arbiter/internal/booking"
	"github.com/iliyamo/seat-arbiter/internal/config"
	"github.com/iliyamo/seat-arbiter/internal/model"
	"github.com/iliyamo/seat-arbiter/internal/utils"
)

type fakeBookings struct {
	claimErr error
	got      []model.BookingRequest
}

func (f *fakeBookings) Claim(_ context.Context, req model.BookingRequest) (model.Outcome, error) {
	f.got = append(f.got, req)
	if f.claimErr != nil {
		return model.Outcome{}, f.claimErr
	}
	return model.Outcome{Kind: model.OutcomeBooked, SeatNumber: req.SeatNumber, RequesterID: req.RequesterID,
		Priority: req.Priority, HolderID: req.RequesterID}, nil
}

func (f *fakeBookings) ClaimBatch(_ context.Context, reqs []model.BookingRequest) ([]model.Outcome, error) {
	f.got = append(f.got, reqs...)
	return nil, f.claimErr
}

func (f *fakeBookings) Status() []model.SeatStatus {
	return []model.SeatStatus{
		{SeatNumber: 1, State: model.SeatBooked, HolderID: "Anish"},
		{SeatNumber: 2, State: model.SeatAvailable},
	}
}

func (f *fakeBookings) Counts() (int, int) { return 2, 1 }

func claimCtx(method, target, user, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != "" {
		c.Set("user_id", user)
		c.Set("role", role)
	}
	return c, rec
}

func TestClaimSeat_PriorityFromRole(t *testing.T) {
	f := &fakeBookings{}
	h := NewSeatHandler(f)

	c, rec := claimCtx(http.MethodPost, "/v1/seats/2/claim", "Anish", "vip")
	c.SetParamNames("number")
	c.SetParamValues("2")
	require.NoError(t, h.ClaimSeat(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, f.got, 1)
	assert.Equal(t, model.PriorityVIP, f.got[0].Priority)
	assert.Equal(t, 2, f.got[0].SeatNumber)
	assert.Contains(t, rec.Body.String(), `"message":"Anish (VIP) booked seat 2"`)
}

func TestClaimSeat_Unauthenticated(t *testing.T) {
	h := NewSeatHandler(&fakeBookings{})
	c, rec := claimCtx(http.MethodPost, "/v1/seats/1/claim", "", "")
	c.SetParamNames("number")
	c.SetParamValues("1")
	require.NoError(t, h.ClaimSeat(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestClaimSeat_ErrorMapping(t *testing.T) {
	cases := map[error]int{
		booking.ErrDispatcherClosed: http.StatusServiceUnavailable,
		context.DeadlineExceeded:    http.StatusGatewayTimeout,
		context.Canceled:            http.StatusGatewayTimeout,
		assert.AnError:              http.StatusInternalServerError,
	}
	for err, want := range cases {
		h := NewSeatHandler(&fakeBookings{claimErr: err})
		c, rec := claimCtx(http.MethodPost, "/v1/seats/1/claim", "Bobby", utils.RoleRegular)
		c.SetParamNames("number")
		c.SetParamValues("1")
		require.NoError(t, h.ClaimSeat(c))
		assert.Equal(t, want, rec.Code, err.Error())
	}
}

func TestClaimSeat_TimeoutPointsAtSeatList(t *testing.T) {
	h := NewSeatHandler(&fakeBookings{claimErr: context.DeadlineExceeded})
	c, rec := claimCtx(http.MethodPost, "/v1/seats/1/claim", "Bobby", utils.RoleRegular)
	c.SetParamNames("number")
	c.SetParamValues("1")
	require.NoError(t, h.ClaimSeat(c))

	require.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Contains(t, rec.Body.String(), "may still be applied")
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
	assert.Contains(t, rec.Body.String(), `"check":"GET /v1/seats"`)
}

func TestListSeats_Counts(t *testing.T) {
	h := NewSeatHandler(&fakeBookings{})
	c, rec := claimCtx(http.MethodGet, "/v1/seats", "", "")
	require.NoError(t, h.ListSeats(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":2`)
	assert.Contains(t, rec.Body.String(), `"available":1`)
}

func TestClaimBatch_TooLarge(t *testing.T) {
	h := NewSeatHandler(&fakeBookings{})
	body := `{"requests":[` + strings.TrimSuffix(strings.Repeat(`{"seat_number":1,"requester_id":"a"},`, maxBatch+1), ",") + `]}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings/batch", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.ClaimBatch(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, utils.RoleVIP, normalizeRole(" vip "))
	assert.Equal(t, utils.RoleOperator, normalizeRole("Operator"))
	assert.Equal(t, utils.RoleRegular, normalizeRole("gold"))
	assert.Equal(t, utils.RoleRegular, normalizeRole(""))
}

func TestIssueToken_DisabledWithoutHash(t *testing.T) {
	h := NewAuthHandler(config.Config{JWTSecret: "s"})
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/token", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.IssueToken(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
