package memory

import (
	"context"
	"testing"
	"time"

	"github.com/avstrong/hotel/internal/booking"
	"github.com/avstrong/hotel/internal/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB() *DB {
	return New(Config{L: logger.NewNop()})
}

func commit(t *testing.T, db *DB, ctx context.Context, fn func(ctx context.Context)) {
	t.Helper()

	trxCtx, err := db.BeginTransaction(ctx)
	require.NoError(t, err)

	fn(trxCtx)

	require.NoError(t, db.CommitTransaction(trxCtx))
}

func single(number int) booking.Room {
	return booking.NewSingleRoom(number, decimal.NewFromInt(100), booking.SingleFeatures{BedSize: "Twin"})
}

func TestDB_WritesRequireTransaction(t *testing.T) {
	t.Parallel()

	db := newDB()

	err := db.SaveRoom(context.Background(), single(101))
	require.ErrorIs(t, err, ErrTransactionIDNotFoundInCtx)

	ctx := withTransactionID(context.Background(), "trx-unknown")
	err = db.SaveCustomer(ctx, booking.Customer{ID: 1, Name: "Rhaenyra"})
	require.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestDB_CommitPreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	db := newDB()
	ctx := context.Background()

	commit(t, db, ctx, func(ctx context.Context) {
		require.NoError(t, db.SaveRoom(ctx, single(301)))
		require.NoError(t, db.SaveRoom(ctx, single(101)))
		require.NoError(t, db.SaveRoom(ctx, single(201)))
	})

	commit(t, db, ctx, func(ctx context.Context) {
		r := single(101)
		r.Available = false
		require.NoError(t, db.SaveRoom(ctx, r))
	})

	rooms, err := db.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.Equal(t, []int{301, 101, 201}, []int{rooms[0].Number, rooms[1].Number, rooms[2].Number})
	assert.False(t, rooms[1].Available)
}

func TestDB_RollbackDiscardsStagedWrites(t *testing.T) {
	t.Parallel()

	db := newDB()
	ctx := context.Background()

	trxCtx, err := db.BeginTransaction(ctx)
	require.NoError(t, err)
	require.NoError(t, db.SaveRoom(trxCtx, single(101)))
	require.NoError(t, db.SaveCustomer(trxCtx, booking.Customer{ID: 1, Name: "Alicent"}))

	_, err = db.GetRoom(ctx, 101)
	require.ErrorIs(t, err, booking.ErrRecordNotFound, "staged writes must not be visible before commit")

	require.NoError(t, db.RollbackTransaction(trxCtx))

	_, err = db.GetRoom(ctx, 101)
	require.ErrorIs(t, err, booking.ErrRecordNotFound)

	customers, err := db.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)

	require.ErrorIs(t, db.CommitTransaction(trxCtx), ErrTransactionNotFound)
}

func TestDB_Delete(t *testing.T) {
	t.Parallel()

	db := newDB()
	ctx := context.Background()

	commit(t, db, ctx, func(ctx context.Context) {
		require.NoError(t, db.SaveRoom(ctx, single(101)))
		require.NoError(t, db.SaveRoom(ctx, single(102)))
		require.NoError(t, db.SaveCustomer(ctx, booking.Customer{ID: 7, Name: "Daemond"}))
	})

	commit(t, db, ctx, func(ctx context.Context) {
		require.NoError(t, db.DeleteRoom(ctx, 101))
		require.NoError(t, db.DeleteCustomer(ctx, 7))
	})

	rooms, err := db.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, 102, rooms[0].Number)

	_, err = db.GetCustomer(ctx, 7)
	require.ErrorIs(t, err, booking.ErrRecordNotFound)

	trxCtx, err := db.BeginTransaction(ctx)
	require.NoError(t, err)
	require.ErrorIs(t, db.DeleteRoom(trxCtx, 101), booking.ErrRecordNotFound)
	require.ErrorIs(t, db.DeleteCustomer(trxCtx, 7), booking.ErrRecordNotFound)
	require.NoError(t, db.RollbackTransaction(trxCtx))
}

func TestDB_ReturnsCopies(t *testing.T) {
	t.Parallel()

	db := newDB()
	ctx := context.Background()

	closedAt := time.Date(2024, 2, 28, 10, 0, 0, 0, time.UTC)

	commit(t, db, ctx, func(ctx context.Context) {
		require.NoError(t, db.SaveRoom(ctx, single(101)))
		require.NoError(t, db.SaveBooking(ctx, booking.Booking{ID: 1, RoomNumber: 101, ClosedAt: &closedAt}))
	})

	room, err := db.GetRoom(ctx, 101)
	require.NoError(t, err)
	room.Single.BedSize = "King"

	b, err := db.GetBooking(ctx, 1)
	require.NoError(t, err)
	*b.ClosedAt = time.Time{}

	again, err := db.GetRoom(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, "Twin", again.Single.BedSize)

	bAgain, err := db.GetBooking(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, closedAt, *bAgain.ClosedAt)
}

func TestDB_BookingIdempotencyKey(t *testing.T) {
	t.Parallel()

	db := newDB()
	ctx := booking.NewContextWithIdempotencyKey(context.Background(), "key-1")

	commit(t, db, ctx, func(ctx context.Context) {
		require.NoError(t, db.SaveBooking(ctx, booking.Booking{ID: 1, Status: booking.StatusActive}))
	})

	got, err := db.GetBookingByIdempotencyKey(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.ID)

	// Updating the same booking under another key must not rebind it.
	other := booking.NewContextWithIdempotencyKey(context.Background(), "key-2")
	commit(t, db, other, func(ctx context.Context) {
		require.NoError(t, db.SaveBooking(ctx, booking.Booking{ID: 1, Status: booking.StatusClosed}))
	})

	_, err = db.GetBookingByIdempotencyKey(ctx, "key-2")
	require.ErrorIs(t, err, booking.ErrRecordNotFound)

	got, err = db.GetBookingByIdempotencyKey(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusClosed, got.Status)
}
