package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avstrong/hotel/internal/booking"
)

var (
	ErrPanic       = errors.New("panic")
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD or RFC 3339")
)

type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func statusFor(err error) int {
	switch {
	case booking.IsInputError(err) != nil, errors.Is(err, booking.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrNotFound), errors.Is(err, booking.ErrNoActiveBooking):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrRoomUnavailable),
		errors.Is(err, booking.ErrOverlapConflict),
		errors.Is(err, booking.ErrResourceBusy),
		errors.Is(err, booking.ErrDuplicateKey):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps engine errors onto HTTP statuses. Internal errors are
// logged and hidden from the client.
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)

	//nolint:exhaustruct
	resp := errorResponse{Error: err.Error()}

	if inputErr := booking.IsInputError(err); inputErr != nil {
		resp.Error = "invalid input"
		resp.Fields = inputErr.Fields()
	}

	if status == http.StatusInternalServerError {
		s.l.LogErrorf("Could not %s: %v", op, err.Error())

		resp.Error = http.StatusText(http.StatusInternalServerError)
	}

	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.l.LogErrorf("Could not encode response: %v", err.Error())
	}
}
