package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avstrong/hotel/internal/booking"
)

// date accepts a plain calendar date or a full RFC 3339 timestamp.
type date struct {
	time.Time
}

func (d *date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ErrInvalidDate
	}

	if t, err := time.Parse(time.DateOnly, s); err == nil {
		d.Time = t

		return nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return ErrInvalidDate
	}

	d.Time = t.UTC()

	return nil
}

type bookRequest struct {
	CustomerID int  `json:"customer_id"`
	RoomNumber int  `json:"room_number"`
	CheckIn    date `json:"check_in"`
	CheckOut   date `json:"check_out"`
}

type checkoutRequest struct {
	CustomerID int `json:"customer_id"`
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	return dec.Decode(v)
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()}) //nolint:exhaustruct
}

// pathInt reads an integer path parameter, answering 400 itself when it is
// malformed.
func (s *Server) pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		s.badRequest(w, fmt.Errorf("%s must be an integer", name)) //nolint:goerr113

		return 0, false
	}

	return v, true
}

func (s *Server) addRoomHandler(w http.ResponseWriter, r *http.Request) {
	var room booking.Room

	if err := decode(r, &room); err != nil {
		s.badRequest(w, err)

		return
	}

	out, err := s.hotel.AddRoom(r.Context(), room)
	if err != nil {
		s.writeError(w, "add room", err)

		return
	}

	s.writeJSON(w, http.StatusCreated, out)
}

func (s *Server) getRoomHandler(w http.ResponseWriter, r *http.Request) {
	number, ok := s.pathInt(w, r, "number")
	if !ok {
		return
	}

	out, err := s.hotel.GetRoom(r.Context(), number)
	if err != nil {
		s.writeError(w, "get room", err)

		return
	}

	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) removeRoomHandler(w http.ResponseWriter, r *http.Request) {
	number, ok := s.pathInt(w, r, "number")
	if !ok {
		return
	}

	if err := s.hotel.RemoveRoom(r.Context(), number); err != nil {
		s.writeError(w, "remove room", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// listRoomsHandler serves all rooms, or only available ones with
// ?available=true, optionally narrowed by ?bed_size=.
func (s *Server) listRoomsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		rooms []booking.Room
		err   error
	)

	switch {
	case q.Has("bed_size"):
		rooms, err = s.hotel.ListAvailableRoomsByBedSize(r.Context(), q.Get("bed_size"))
	case strings.EqualFold(q.Get("available"), "true"):
		rooms, err = s.hotel.ListAvailableRooms(r.Context())
	default:
		rooms, err = s.hotel.ListRooms(r.Context())
	}

	if err != nil {
		s.writeError(w, "list rooms", err)

		return
	}

	s.writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) addCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var customer booking.Customer

	if err := decode(r, &customer); err != nil {
		s.badRequest(w, err)

		return
	}

	out, err := s.hotel.AddCustomer(r.Context(), customer)
	if err != nil {
		s.writeError(w, "add customer", err)

		return
	}

	s.writeJSON(w, http.StatusCreated, out)
}

func (s *Server) removeCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathInt(w, r, "id")
	if !ok {
		return
	}

	if err := s.hotel.RemoveCustomer(r.Context(), id); err != nil {
		s.writeError(w, "remove customer", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listCustomersHandler(w http.ResponseWriter, r *http.Request) {
	customers, err := s.hotel.ListCustomers(r.Context())
	if err != nil {
		s.writeError(w, "list customers", err)

		return
	}

	s.writeJSON(w, http.StatusOK, customers)
}

func (s *Server) createBookingHandler(w http.ResponseWriter, r *http.Request) {
	var req bookRequest

	if err := decode(r, &req); err != nil {
		s.badRequest(w, err)

		return
	}

	ctx := r.Context()
	if key := r.Header.Get("Idempotency-Key"); key != "" {
		ctx = booking.NewContextWithIdempotencyKey(ctx, key)
	}

	out, err := s.hotel.CreateBooking(ctx, booking.BookInput{
		CustomerID: req.CustomerID,
		RoomNumber: req.RoomNumber,
		CheckIn:    req.CheckIn.Time,
		CheckOut:   req.CheckOut.Time,
	})
	if err != nil {
		s.writeError(w, "create booking", err)

		return
	}

	s.writeJSON(w, http.StatusCreated, out)
}

func (s *Server) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest

	if err := decode(r, &req); err != nil {
		s.badRequest(w, err)

		return
	}

	out, err := s.hotel.CheckoutBooking(r.Context(), req.CustomerID)
	if err != nil {
		s.writeError(w, "checkout booking", err)

		return
	}

	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) checkoutByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathInt(w, r, "id")
	if !ok {
		return
	}

	out, err := s.hotel.CheckoutBookingByID(r.Context(), id)
	if err != nil {
		s.writeError(w, "checkout booking", err)

		return
	}

	s.writeJSON(w, http.StatusOK, out)
}

// listBookingsHandler filters by ?status=active|closed.
func (s *Server) listBookingsHandler(w http.ResponseWriter, r *http.Request) {
	var (
		bookings []booking.Booking
		err      error
	)

	switch status := booking.Status(r.URL.Query().Get("status")); status {
	case "":
		bookings, err = s.hotel.ListAllBookings(r.Context())
	case booking.StatusActive:
		bookings, err = s.hotel.ListActiveBookings(r.Context())
	case booking.StatusClosed:
		bookings, err = s.hotel.ListClosedBookings(r.Context())
	default:
		s.badRequest(w, fmt.Errorf("unknown status %q", status)) //nolint:goerr113

		return
	}

	if err != nil {
		s.writeError(w, "list bookings", err)

		return
	}

	s.writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) livenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addRoutes(r *http.ServeMux) {
	handle := func(pattern string, h http.HandlerFunc) {
		r.Handle(pattern, s.applyMiddlewares(h, s.loggerMiddleware(), s.requestIDMiddleware(), s.recoverMiddleware()))
	}

	handle("POST /api/rooms/v1", s.addRoomHandler)
	handle("GET /api/rooms/v1", s.listRoomsHandler)
	handle("GET /api/rooms/v1/{number}", s.getRoomHandler)
	handle("DELETE /api/rooms/v1/{number}", s.removeRoomHandler)

	handle("POST /api/customers/v1", s.addCustomerHandler)
	handle("GET /api/customers/v1", s.listCustomersHandler)
	handle("DELETE /api/customers/v1/{id}", s.removeCustomerHandler)

	handle("POST /api/bookings/v1", s.createBookingHandler)
	handle("GET /api/bookings/v1", s.listBookingsHandler)
	handle("POST /api/bookings/v1/checkout", s.checkoutHandler)
	handle("POST /api/bookings/v1/{id}/checkout", s.checkoutByIDHandler)

	handle(fmt.Sprintf("GET %s", s.conf.LivenessEndpoint), s.livenessHandler)
}
