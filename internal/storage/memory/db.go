package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/avstrong/hotel/internal/booking"
	"github.com/avstrong/hotel/internal/logger"
)

type Config struct {
	L *logger.Logger
}

// change is a staged write: either a new value or a deletion of the key.
type change[V any] struct {
	value   V
	deleted bool
}

type transaction struct {
	id             string
	rooms          *ordered[int, change[booking.Room]]
	customers      *ordered[int, change[booking.Customer]]
	bookings       *ordered[int, booking.Booking]
	idempotencyKey string
}

// DB keeps rooms, customers and bookings in memory, each in insertion order.
// Writes are staged in a transaction and become visible on commit.
type DB struct {
	mu                     sync.Mutex
	l                      *logger.Logger
	rooms                  *ordered[int, booking.Room]
	customers              *ordered[int, booking.Customer]
	bookings               *ordered[int, booking.Booking]
	transactions           map[string]*transaction
	nextTrxID              int64
	bookingIdempotencyKeys map[string]int
}

func New(conf Config) *DB {
	//nolint:exhaustruct
	return &DB{
		l:                      conf.L,
		rooms:                  newOrdered[int, booking.Room](),
		customers:              newOrdered[int, booking.Customer](),
		bookings:               newOrdered[int, booking.Booking](),
		transactions:           make(map[string]*transaction),
		bookingIdempotencyKeys: make(map[string]int),
	}
}

func cloneRoom(r booking.Room) booking.Room {
	if r.Single != nil {
		f := *r.Single
		r.Single = &f
	}

	if r.Double != nil {
		f := *r.Double
		r.Double = &f
	}

	if r.Suite != nil {
		f := *r.Suite
		r.Suite = &f
	}

	return r
}

func cloneCustomer(c booking.Customer) booking.Customer {
	return c
}

func cloneBooking(b booking.Booking) booking.Booking {
	if b.ClosedAt != nil {
		t := *b.ClosedAt
		b.ClosedAt = &t
	}

	return b
}

func (db *DB) BeginTransaction(ctx context.Context) (context.Context, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	trxID := fmt.Sprintf("trx-%d", db.nextTrxID)
	db.nextTrxID++

	//nolint:exhaustruct
	db.transactions[trxID] = &transaction{
		id:        trxID,
		rooms:     newOrdered[int, change[booking.Room]](),
		customers: newOrdered[int, change[booking.Customer]](),
		bookings:  newOrdered[int, booking.Booking](),
	}

	return withTransactionID(ctx, trxID), nil
}

// trx must be called with db.mu held.
func (db *DB) trx(ctx context.Context) (*transaction, error) {
	trxID, ok := transactionIDFromContext(ctx)
	if !ok || trxID == "" {
		return nil, ErrTransactionIDNotFoundInCtx
	}

	trx, exists := db.transactions[trxID]
	if !exists {
		return nil, fmt.Errorf("transaction %s not found: %w", trxID, ErrTransactionNotFound)
	}

	return trx, nil
}

func (db *DB) CommitTransaction(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	trx, err := db.trx(ctx)
	if err != nil {
		return err
	}

	for _, number := range trx.rooms.keys {
		c := trx.rooms.items[number]
		if c.deleted {
			db.rooms.delete(number)

			continue
		}

		db.rooms.put(number, c.value)
	}

	for _, id := range trx.customers.keys {
		c := trx.customers.items[id]
		if c.deleted {
			db.customers.delete(id)

			continue
		}

		db.customers.put(id, c.value)
	}

	for _, id := range trx.bookings.keys {
		db.bookings.put(id, trx.bookings.items[id])
	}

	if trx.idempotencyKey != "" && len(trx.bookings.keys) > 0 {
		if _, taken := db.bookingIdempotencyKeys[trx.idempotencyKey]; !taken {
			db.bookingIdempotencyKeys[trx.idempotencyKey] = trx.bookings.keys[0]
		}
	}

	delete(db.transactions, trx.id)

	return nil
}

func (db *DB) RollbackTransaction(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	trx, err := db.trx(ctx)
	if err != nil {
		return err
	}

	staged := len(trx.rooms.keys) + len(trx.customers.keys) + len(trx.bookings.keys)
	if staged > 0 {
		db.l.LogInfo("Transaction %s rolled back, %d staged writes discarded", trx.id, staged)
	}

	delete(db.transactions, trx.id)

	return nil
}

func (db *DB) SaveRoom(ctx context.Context, room booking.Room) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	trx, err := db.trx(ctx)
	if err != nil {
		return err
	}

	trx.rooms.put(room.Number, change[booking.Room]{value: cloneRoom(room)}) //nolint:exhaustruct

	return nil
}

func (db *DB) DeleteRoom(ctx context.Context, number int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	trx, err := db.trx(ctx)
	if err != nil {
		return err
	}

	if _, ok := db.rooms.get(number); !ok {
		return fmt.Errorf("room %d: %w", number, booking.ErrRecordNotFound)
	}

	trx.rooms.put(number, change[booking.Room]{deleted: true}) //nolint:exhaustruct

	return nil
}

func (db *DB) SaveCustomer(ctx context.Context, customer booking.Customer) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	trx, err := db.trx(ctx)
	if err != nil {
		return err
	}

	trx.customers.put(customer.ID, change[booking.Customer]{value: customer}) //nolint:exhaustruct

	return nil
}

func (db *DB) DeleteCustomer(ctx context.Context, id int) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	trx, err := db.trx(ctx)
	if err != nil {
		return err
	}

	if _, ok := db.customers.get(id); !ok {
		return fmt.Errorf("customer %d: %w", id, booking.ErrRecordNotFound)
	}

	trx.customers.put(id, change[booking.Customer]{deleted: true}) //nolint:exhaustruct

	return nil
}

// SaveBooking stages an insert or an in-place update of a booking. When the
// context carries an idempotency key it is bound to the first new booking of
// the transaction on commit.
func (db *DB) SaveBooking(ctx context.Context, b booking.Booking) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	trx, err := db.trx(ctx)
	if err != nil {
		return err
	}

	if _, exists := db.bookings.get(b.ID); !exists {
		if key, ok := booking.IdempotencyKeyFromContext(ctx); ok && trx.idempotencyKey == "" {
			trx.idempotencyKey = key
		}
	}

	trx.bookings.put(b.ID, cloneBooking(b))

	return nil
}

func (db *DB) GetRoom(_ context.Context, number int) (booking.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	room, ok := db.rooms.get(number)
	if !ok {
		return booking.Room{}, booking.ErrRecordNotFound
	}

	return cloneRoom(room), nil
}

func (db *DB) ListRooms(_ context.Context) ([]booking.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.rooms.values(cloneRoom), nil
}

func (db *DB) GetCustomer(_ context.Context, id int) (booking.Customer, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	customer, ok := db.customers.get(id)
	if !ok {
		return booking.Customer{}, booking.ErrRecordNotFound
	}

	return customer, nil
}

func (db *DB) ListCustomers(_ context.Context) ([]booking.Customer, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.customers.values(cloneCustomer), nil
}

func (db *DB) GetBooking(_ context.Context, id int) (booking.Booking, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	b, ok := db.bookings.get(id)
	if !ok {
		return booking.Booking{}, booking.ErrRecordNotFound
	}

	return cloneBooking(b), nil
}

func (db *DB) ListBookings(_ context.Context) ([]booking.Booking, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.bookings.values(cloneBooking), nil
}

func (db *DB) GetBookingByIdempotencyKey(_ context.Context, key string) (booking.Booking, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	id, ok := db.bookingIdempotencyKeys[key]
	if !ok {
		return booking.Booking{}, booking.ErrRecordNotFound
	}

	b, ok := db.bookings.get(id)
	if !ok {
		return booking.Booking{}, booking.ErrRecordNotFound
	}

	return cloneBooking(b), nil
}
