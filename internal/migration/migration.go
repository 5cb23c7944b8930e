package migration

import (
	"context"
	"fmt"
	"time"

	"github.com/avstrong/hotel/internal/booking"
	"github.com/avstrong/hotel/internal/logger"
	"github.com/shopspring/decimal"
)

type hotel interface {
	AddRoom(ctx context.Context, room booking.Room) (booking.Room, error)
	AddCustomer(ctx context.Context, customer booking.Customer) (booking.Customer, error)
	CreateBooking(ctx context.Context, input booking.BookInput) (booking.Booking, error)
}

func price(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func sampleRooms() []booking.Room {
	return []booking.Room{
		booking.NewSingleRoom(101, price(100), booking.SingleFeatures{BedSize: "Twin", HasBalcony: false}),
		booking.NewSingleRoom(102, price(115), booking.SingleFeatures{BedSize: "FullDouble", HasBalcony: true}),
		booking.NewDoubleRoom(201, price(200), booking.DoubleFeatures{BedSize: "King", HasMiniBar: true, NumberOfBeds: 2}),
		booking.NewSuite(301, price(400), booking.SuiteFeatures{LivingAreaSize: 40.5, HasJacuzzi: true, NumberOfRooms: 3}),
		booking.NewSuite(302, price(400), booking.SuiteFeatures{LivingAreaSize: 40.5, HasJacuzzi: true, NumberOfRooms: 3}),
		booking.NewDoubleRoom(202, price(200), booking.DoubleFeatures{BedSize: "Queen", HasMiniBar: true, NumberOfBeds: 2}),
		booking.NewSingleRoom(103, price(115), booking.SingleFeatures{BedSize: "Twin", HasBalcony: true}),
	}
}

func sampleCustomers() []booking.Customer {
	return []booking.Customer{
		{ID: 1, Name: "Rhaenyra"},
		{ID: 2, Name: "Alicent"},
		{ID: 3, Name: "Daemond"},
		{ID: 4, Name: "Rhaenys"},
	}
}

// Up seeds the sample hotel through the booking engine, so the seeded state
// obeys the same invariants as anything created later. today is truncated
// to midnight UTC.
func Up(ctx context.Context, l *logger.Logger, h hotel, today time.Time) error {
	for _, room := range sampleRooms() {
		if _, err := h.AddRoom(ctx, room); err != nil {
			return fmt.Errorf("add room %d: %w", room.Number, err)
		}
	}

	for _, customer := range sampleCustomers() {
		if _, err := h.AddCustomer(ctx, customer); err != nil {
			return fmt.Errorf("add customer %d: %w", customer.ID, err)
		}
	}

	today = today.UTC().Truncate(24 * time.Hour) //nolint:gomnd

	bookings := []booking.BookInput{
		{CustomerID: 1, RoomNumber: 101, CheckIn: today, CheckOut: today.AddDate(0, 0, 1)},
		{CustomerID: 2, RoomNumber: 102, CheckIn: today.AddDate(0, 0, -1), CheckOut: today},
	}

	for _, input := range bookings {
		if _, err := h.CreateBooking(ctx, input); err != nil {
			return fmt.Errorf("book room %d for customer %d: %w", input.RoomNumber, input.CustomerID, err)
		}
	}

	l.LogInfo("Seeded %d rooms, %d customers and %d bookings", len(sampleRooms()), len(sampleCustomers()), len(bookings))

	return nil
}
