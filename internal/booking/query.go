package booking

import (
	"context"
	"fmt"
)

// Queries never mutate state and return copies in insertion order.

func (m *Manager) GetRoom(ctx context.Context, number int) (Room, error) {
	return m.getRoom(ctx, number)
}

func (m *Manager) ListRooms(ctx context.Context) ([]Room, error) {
	return m.filterRooms(ctx, func(Room) bool { return true })
}

func (m *Manager) ListAvailableRooms(ctx context.Context) ([]Room, error) {
	return m.filterRooms(ctx, func(r Room) bool { return r.Available })
}

// ListAvailableRoomsByBedSize matches the bed size case-sensitively. Suites
// have no bed size and are never returned.
func (m *Manager) ListAvailableRoomsByBedSize(ctx context.Context, bedSize string) ([]Room, error) {
	return m.filterRooms(ctx, func(r Room) bool {
		size, ok := r.BedSize()

		return r.Available && ok && size == bedSize
	})
}

func (m *Manager) ListCustomers(ctx context.Context) ([]Customer, error) {
	customers, err := m.storage.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers from storage: %w", err)
	}

	return customers, nil
}

func (m *Manager) ListAllBookings(ctx context.Context) ([]Booking, error) {
	return m.filterBookings(ctx, func(Booking) bool { return true })
}

func (m *Manager) ListActiveBookings(ctx context.Context) ([]Booking, error) {
	return m.filterBookings(ctx, func(b Booking) bool { return b.Status == StatusActive })
}

func (m *Manager) ListClosedBookings(ctx context.Context) ([]Booking, error) {
	return m.filterBookings(ctx, func(b Booking) bool { return b.Status == StatusClosed })
}

func (m *Manager) filterRooms(ctx context.Context, keep func(Room) bool) ([]Room, error) {
	rooms, err := m.storage.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms from storage: %w", err)
	}

	res := make([]Room, 0, len(rooms))

	for _, r := range rooms {
		if keep(r) {
			res = append(res, r)
		}
	}

	return res, nil
}

func (m *Manager) filterBookings(ctx context.Context, keep func(Booking) bool) ([]Booking, error) {
	bookings, err := m.storage.ListBookings(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings from storage: %w", err)
	}

	res := make([]Booking, 0, len(bookings))

	for _, b := range bookings {
		if keep(b) {
			res = append(res, b)
		}
	}

	return res, nil
}
