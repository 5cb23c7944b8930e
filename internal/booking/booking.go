package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/avstrong/hotel/internal/clock"
	"github.com/avstrong/hotel/internal/idgen/simple"
	"github.com/avstrong/hotel/internal/logger"
	"github.com/shopspring/decimal"
)

type idGenerator interface {
	GetID(ctx context.Context) (int, error)
}

type customerIDGenerator interface {
	idGenerator
	Observe(id int)
}

type storageReader interface {
	GetRoom(ctx context.Context, number int) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	GetCustomer(ctx context.Context, id int) (Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	GetBooking(ctx context.Context, id int) (Booking, error)
	ListBookings(ctx context.Context) ([]Booking, error)
	GetBookingByIdempotencyKey(ctx context.Context, key string) (Booking, error)
}

type storageWriter interface {
	BeginTransaction(ctx context.Context) (context.Context, error)
	CommitTransaction(ctx context.Context) error
	RollbackTransaction(ctx context.Context) error
	SaveRoom(ctx context.Context, room Room) error
	DeleteRoom(ctx context.Context, number int) error
	SaveCustomer(ctx context.Context, customer Customer) error
	DeleteCustomer(ctx context.Context, id int) error
	SaveBooking(ctx context.Context, booking Booking) error
}

type storage interface {
	storageReader
	storageWriter
}

// Manager is the booking engine of a single hotel. It owns the room and
// customer inventory and the booking ledger. Every mutation runs under one
// mutex, so a Manager is a single writer for its hotel.
type Manager struct {
	mu          sync.Mutex
	l           *logger.Logger
	storage     storage
	idGenerator idGenerator
	customerIDs customerIDGenerator
	clock       clock.Clock
	lateFeeRate decimal.Decimal
}

type Option func(*Manager)

// WithLateFeeRate sets the share of the nightly price charged per day of
// overstay. Negative rates are ignored.
func WithLateFeeRate(rate decimal.Decimal) Option {
	return func(m *Manager) {
		if !rate.IsNegative() {
			m.lateFeeRate = rate
		}
	}
}

// WithCustomerIDGenerator replaces the generator used for customers added
// without an identifier.
func WithCustomerIDGenerator(g customerIDGenerator) Option {
	return func(m *Manager) {
		if g != nil {
			m.customerIDs = g
		}
	}
}

var defaultLateFeeRate = decimal.NewFromFloat(0.5) //nolint:gomnd

func New(l *logger.Logger, storage storage, idGenerator idGenerator, clk clock.Clock, opts ...Option) *Manager {
	//nolint:exhaustruct
	m := &Manager{
		l:           l,
		storage:     storage,
		idGenerator: idGenerator,
		customerIDs: simple.New(),
		clock:       clk,
		lateFeeRate: defaultLateFeeRate,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// inTransaction runs fn inside a storage transaction and commits it when fn
// succeeds. Any error or panic rolls the transaction back.
func (m *Manager) inTransaction(ctx context.Context, op string, fn func(ctx context.Context) error) (err error) {
	ctx, err = m.storage.BeginTransaction(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := m.storage.RollbackTransaction(ctx); rbErr != nil {
				m.l.LogErrorf("Could not rollback %s transaction after panic %v", op, p)
			}

			m.l.LogInfo("Transaction %s has been roll backed after panic", op)

			panic(p)
		}

		if err != nil {
			if rbErr := m.storage.RollbackTransaction(ctx); rbErr != nil {
				m.l.LogErrorf("Could not rollback %s transaction after error %v", op, rbErr.Error())
			}

			m.l.LogInfo("Transaction %s has been roll backed after error", op)

			return
		}

		if err = m.storage.CommitTransaction(ctx); err != nil {
			m.l.LogErrorf("Could not commit %s transaction, err %v", op, err.Error())
			err = fmt.Errorf("commit %s transaction: %w", op, err)
		}
	}()

	return fn(ctx)
}

func (m *Manager) getRoom(ctx context.Context, number int) (Room, error) {
	room, err := m.storage.GetRoom(ctx, number)
	if errors.Is(err, ErrRecordNotFound) {
		return Room{}, fmt.Errorf("room %d: %w", number, ErrNotFound)
	}

	if err != nil {
		return Room{}, fmt.Errorf("get room %d from storage: %w", number, err)
	}

	return room, nil
}

func (m *Manager) getCustomer(ctx context.Context, id int) (Customer, error) {
	customer, err := m.storage.GetCustomer(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return Customer{}, fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}

	if err != nil {
		return Customer{}, fmt.Errorf("get customer %d from storage: %w", id, err)
	}

	return customer, nil
}

// firstActive returns the first active booking in ledger order matching fn.
func (m *Manager) firstActive(ctx context.Context, fn func(Booking) bool) (Booking, bool, error) {
	bookings, err := m.storage.ListBookings(ctx)
	if err != nil {
		return Booking{}, false, fmt.Errorf("list bookings from storage: %w", err)
	}

	for _, b := range bookings {
		if b.IsActive() && fn(b) {
			return b, true, nil
		}
	}

	return Booking{}, false, nil
}
