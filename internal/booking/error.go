package booking

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange    = errors.New("check-out must be after check-in")
	ErrRoomUnavailable = errors.New("room is not available")
	ErrOverlapConflict = errors.New("room is already booked for overlapping dates")
	ErrNotFound        = errors.New("not found")
	ErrResourceBusy    = errors.New("referenced by an active booking")
	ErrNoActiveBooking = errors.New("no active booking")
	ErrDuplicateKey    = errors.New("duplicate key")

	ErrNextID         = errors.New("get next id from generator")
	ErrRecordNotFound = errors.New("record not found")
)

type InputError struct {
	fields map[string][]string
}

func newInputError() *InputError {
	return &InputError{
		fields: make(map[string][]string),
	}
}

func IsInputError(err error) *InputError {
	if err == nil {
		return nil
	}

	var inputError *InputError

	if errors.As(err, &inputError) {
		return inputError
	}

	return nil
}

func (ie *InputError) fieldsCount() int {
	return len(ie.fields)
}

func (ie *InputError) addError(field, msg string) {
	ie.fields[field] = append(ie.fields[field], msg)
}

func (ie *InputError) Error() string {
	return fmt.Sprintf("%+v", ie.fields)
}

func (ie *InputError) Fields() map[string][]string {
	return ie.fields
}
