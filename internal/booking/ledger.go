package booking

import (
	"context"
	"errors"
	"fmt"
)

// CreateBooking reserves a room for [CheckIn, CheckOut). Checks run in a
// fixed order and the first failure wins: range, customer and room lookup,
// room availability, overlap with active bookings of the room.
func (m *Manager) CreateBooking(ctx context.Context, input BookInput) (Booking, error) {
	if !input.CheckOut.After(input.CheckIn) {
		return Booking{}, fmt.Errorf(
			"book room %d from %s to %s: %w",
			input.RoomNumber,
			input.CheckIn.Format("2006-01-02"),
			input.CheckOut.Format("2006-01-02"),
			ErrInvalidRange,
		)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if key, ok := IdempotencyKeyFromContext(ctx); ok {
		existing, err := m.storage.GetBookingByIdempotencyKey(ctx, key)
		if err == nil {
			return existing, nil
		}

		if !errors.Is(err, ErrRecordNotFound) {
			return Booking{}, fmt.Errorf("get booking by idempotency key: %w", err)
		}
	}

	customer, err := m.getCustomer(ctx, input.CustomerID)
	if err != nil {
		return Booking{}, err
	}

	room, err := m.getRoom(ctx, input.RoomNumber)
	if err != nil {
		return Booking{}, err
	}

	if !room.Available {
		return Booking{}, fmt.Errorf("room %d: %w", room.Number, ErrRoomUnavailable)
	}

	_, overlaps, err := m.firstActive(ctx, func(b Booking) bool {
		return b.RoomNumber == room.Number && b.Overlaps(input.CheckIn, input.CheckOut)
	})
	if err != nil {
		return Booking{}, err
	}

	if overlaps {
		return Booking{}, fmt.Errorf("room %d: %w", room.Number, ErrOverlapConflict)
	}

	id, err := m.idGenerator.GetID(ctx)
	if err != nil {
		return Booking{}, fmt.Errorf("%w: %w", ErrNextID, err)
	}

	//nolint:exhaustruct
	booking := Booking{
		ID:         id,
		CustomerID: customer.ID,
		RoomNumber: room.Number,
		CheckIn:    input.CheckIn,
		CheckOut:   input.CheckOut,
		Status:     StatusActive,
		CreatedAt:  m.clock.Now(),
	}

	room.Available = false

	err = m.inTransaction(ctx, "booking", func(ctx context.Context) error {
		if err := m.storage.SaveBooking(ctx, booking); err != nil {
			return fmt.Errorf("save booking to storage: %w", err)
		}

		if err := m.storage.SaveRoom(ctx, room); err != nil {
			return fmt.Errorf("save room to storage: %w", err)
		}

		return nil
	})
	if err != nil {
		return Booking{}, err
	}

	m.l.LogInfo("Room %d booked for customer %d (%s), booking %d", room.Number, customer.ID, customer.Name, booking.ID)

	return booking, nil
}

// CheckoutBooking closes the first active booking of the customer in ledger
// order and prices it against the current time.
func (m *Manager) CheckoutBooking(ctx context.Context, customerID int) (Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.getCustomer(ctx, customerID); err != nil {
		return Booking{}, err
	}

	active, found, err := m.firstActive(ctx, func(b Booking) bool {
		return b.CustomerID == customerID
	})
	if err != nil {
		return Booking{}, err
	}

	if !found {
		return Booking{}, fmt.Errorf("customer %d: %w", customerID, ErrNoActiveBooking)
	}

	return m.closeBooking(ctx, active)
}

// CheckoutBookingByID closes one specific active booking.
func (m *Manager) CheckoutBookingByID(ctx context.Context, bookingID int) (Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, err := m.storage.GetBooking(ctx, bookingID)
	if errors.Is(err, ErrRecordNotFound) {
		return Booking{}, fmt.Errorf("booking %d: %w", bookingID, ErrNotFound)
	}

	if err != nil {
		return Booking{}, fmt.Errorf("get booking %d from storage: %w", bookingID, err)
	}

	if !b.IsActive() {
		return Booking{}, fmt.Errorf("booking %d is %s: %w", bookingID, b.Status, ErrNoActiveBooking)
	}

	return m.closeBooking(ctx, b)
}

func (m *Manager) closeBooking(ctx context.Context, b Booking) (Booking, error) {
	room, err := m.getRoom(ctx, b.RoomNumber)
	if err != nil {
		return Booking{}, fmt.Errorf("close booking %d: %w", b.ID, err)
	}

	now := m.clock.Now()

	b.TotalPrice = totalPrice(room.Price, m.lateFeeRate, b.CheckIn, b.CheckOut, now)
	b.Status = StatusClosed
	b.ClosedAt = &now
	room.Available = true

	err = m.inTransaction(ctx, "checkout", func(ctx context.Context) error {
		if err := m.storage.SaveBooking(ctx, b); err != nil {
			return fmt.Errorf("save booking to storage: %w", err)
		}

		if err := m.storage.SaveRoom(ctx, room); err != nil {
			return fmt.Errorf("save room to storage: %w", err)
		}

		return nil
	})
	if err != nil {
		return Booking{}, err
	}

	m.l.LogInfo("Room %d checked out, booking %d, total price %s", room.Number, b.ID, b.TotalPrice.StringFixed(2))

	return b, nil
}
