package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/avstrong/hotel/internal/booking"
	"github.com/avstrong/hotel/internal/clock"
	"github.com/avstrong/hotel/internal/idgen/simple"
	"github.com/avstrong/hotel/internal/logger"
	"github.com/avstrong/hotel/internal/storage/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 2, 29, 9, 0, 0, 0, time.UTC)

func newServer(t *testing.T, h hotel) *Server {
	t.Helper()

	l := logger.NewNop()

	if h == nil {
		h = booking.New(l, memory.New(memory.Config{L: l}), simple.New(), clock.NewFixed(now))
	}

	srv, err := New(context.Background(), Conf{
		L:                 l,
		Host:              "localhost",
		Port:              "0",
		ReadHeaderTimeout: time.Second,
		LivenessEndpoint:  "/liveness",
	}, h)
	require.NoError(t, err)

	return srv
}

func do(t *testing.T, srv *Server, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

func seed(t *testing.T, srv *Server) {
	t.Helper()

	rec := do(t, srv, http.MethodPost, "/api/rooms/v1",
		`{"number":101,"kind":"single","price":"100","single":{"bed_size":"Twin","has_balcony":false}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/rooms/v1",
		`{"number":301,"kind":"suite","price":400,"suite":{"living_area_size":40.5,"has_jacuzzi":true,"number_of_rooms":3}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodPost, "/api/customers/v1", `{"id":1,"name":"Rhaenyra"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestServer_Liveness(t *testing.T) {
	t.Parallel()

	rec := do(t, newServer(t, nil), http.MethodGet, "/liveness", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := uuid.Parse(rec.Header().Get(requestIDHeader))
	assert.NoError(t, err, "a request id must be generated")
}

func TestServer_RequestIDIsEchoed(t *testing.T) {
	t.Parallel()

	id := uuid.NewString()
	rec := do(t, newServer(t, nil), http.MethodGet, "/liveness", "", requestIDHeader, id)
	assert.Equal(t, id, rec.Header().Get(requestIDHeader))
}

func TestServer_BookingLifecycle(t *testing.T) {
	t.Parallel()

	srv := newServer(t, nil)
	seed(t, srv)

	rec := do(t, srv, http.MethodPost, "/api/bookings/v1",
		`{"customer_id":1,"room_number":101,"check_in":"2024-02-26","check_out":"2024-02-27"}`,
		"Idempotency-Key", "req-1")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeBody[booking.Booking](t, rec)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, booking.StatusActive, created.Status)

	rec = do(t, srv, http.MethodPost, "/api/bookings/v1",
		`{"customer_id":1,"room_number":101,"check_in":"2024-02-26","check_out":"2024-02-27"}`,
		"Idempotency-Key", "req-1")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, created.ID, decodeBody[booking.Booking](t, rec).ID)

	rec = do(t, srv, http.MethodGet, "/api/rooms/v1?available=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rooms := decodeBody[[]booking.Room](t, rec)
	require.Len(t, rooms, 1)
	assert.Equal(t, 301, rooms[0].Number)

	rec = do(t, srv, http.MethodDelete, "/api/rooms/v1/101", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/bookings/v1/checkout", `{"customer_id":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	closed := decodeBody[booking.Booking](t, rec)
	assert.Equal(t, booking.StatusClosed, closed.Status)
	assert.True(t, closed.TotalPrice.Equal(decimal.NewFromInt(400)), "got %s", closed.TotalPrice)

	rec = do(t, srv, http.MethodGet, "/api/bookings/v1?status=closed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]booking.Booking](t, rec), 1)

	rec = do(t, srv, http.MethodPost, "/api/bookings/v1/1/checkout", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/api/rooms/v1/101", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestServer_ErrorMapping(t *testing.T) {
	t.Parallel()

	srv := newServer(t, nil)
	seed(t, srv)

	cases := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"malformed json", http.MethodPost, "/api/rooms/v1", `{`, http.StatusBadRequest},
		{"invalid room", http.MethodPost, "/api/rooms/v1", `{"number":-1,"kind":"single","price":1,"single":{}}`, http.StatusBadRequest},
		{"room with features of another kind", http.MethodPost, "/api/rooms/v1", `{"number":150,"kind":"single","price":1,"single":{},"suite":{"number_of_rooms":2}}`, http.StatusBadRequest},
		{"duplicate room", http.MethodPost, "/api/rooms/v1", `{"number":101,"kind":"suite","price":1,"suite":{}}`, http.StatusConflict},
		{"unknown room", http.MethodGet, "/api/rooms/v1/999", "", http.StatusNotFound},
		{"bad room number", http.MethodDelete, "/api/rooms/v1/abc", "", http.StatusBadRequest},
		{"invalid range", http.MethodPost, "/api/bookings/v1", `{"customer_id":1,"room_number":101,"check_in":"2024-02-27","check_out":"2024-02-26"}`, http.StatusBadRequest},
		{"bad date", http.MethodPost, "/api/bookings/v1", `{"customer_id":1,"room_number":101,"check_in":"tomorrow","check_out":"2024-02-26"}`, http.StatusBadRequest},
		{"unknown customer", http.MethodPost, "/api/bookings/v1", `{"customer_id":9,"room_number":101,"check_in":"2024-02-26","check_out":"2024-02-27"}`, http.StatusNotFound},
		{"no active booking", http.MethodPost, "/api/bookings/v1/checkout", `{"customer_id":1}`, http.StatusNotFound},
		{"unknown status", http.MethodGet, "/api/bookings/v1?status=pending", "", http.StatusBadRequest},
		{"empty name", http.MethodPost, "/api/customers/v1", `{"name":""}`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		rec := do(t, srv, tc.method, tc.target, tc.body)
		assert.Equal(t, tc.status, rec.Code, "%s: %s", tc.name, rec.Body.String())
	}
}

func TestServer_BedSizeFilter(t *testing.T) {
	t.Parallel()

	srv := newServer(t, nil)
	seed(t, srv)

	rec := do(t, srv, http.MethodGet, "/api/rooms/v1?bed_size=Twin", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rooms := decodeBody[[]booking.Room](t, rec)
	require.Len(t, rooms, 1)
	assert.Equal(t, 101, rooms[0].Number)

	rec = do(t, srv, http.MethodGet, "/api/rooms/v1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]booking.Room](t, rec), 2)
}

func TestServer_Customers(t *testing.T) {
	t.Parallel()

	srv := newServer(t, nil)

	rec := do(t, srv, http.MethodPost, "/api/customers/v1", `{"name":"Alicent"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, decodeBody[booking.Customer](t, rec).ID)

	rec = do(t, srv, http.MethodGet, "/api/customers/v1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]booking.Customer](t, rec), 1)

	rec = do(t, srv, http.MethodDelete, "/api/customers/v1/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodDelete, "/api/customers/v1/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type failingHotel struct {
	hotel
}

func (failingHotel) ListRooms(context.Context) ([]booking.Room, error) {
	return nil, errors.New("storage is down") //nolint:goerr113
}

func (failingHotel) ListCustomers(context.Context) ([]booking.Customer, error) {
	panic("boom")
}

func TestServer_InternalErrorsAreHidden(t *testing.T) {
	t.Parallel()

	srv := newServer(t, failingHotel{})

	rec := do(t, srv, http.MethodGet, "/api/rooms/v1", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "storage is down")

	rec = do(t, srv, http.MethodGet, "/api/customers/v1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
