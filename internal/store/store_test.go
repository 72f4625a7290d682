package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alextreichler/meatpoint/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func seedItem(t *testing.T, s *Store, name string, price int, active bool) *models.Item {
	t.Helper()
	item := &models.Item{
		ID:         uuid.NewString(),
		Name:       name,
		PriceCents: price,
		IsActive:   active,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, s.CreateItem(context.Background(), item))
	return item
}

func newBooking(itemID string) *models.Booking {
	return &models.Booking{
		ID:           uuid.NewString(),
		ItemID:       itemID,
		Qty:          2,
		CustomerName: "Asha",
		Phone:        "9876543210",
		Fulfillment:  models.FulfillmentPickup,
		CreatedAt:    time.Now().UTC(),
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Migrate(context.Background()))
}

func TestItems_ActiveListingNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := seedItem(t, s, "Chicken Curry Cut", 24900, true)
	seedItem(t, s, "Hidden Mutton", 54900, false)
	newer := seedItem(t, s, "Fish Rohu", 22900, true)

	items, err := s.GetActiveItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, newer.ID, items[0].ID)
	assert.Equal(t, older.ID, items[1].ID)

	all, err := s.GetAllItems(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestItems_CreateGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item := &models.Item{
		ID:          uuid.NewString(),
		Name:        "Chicken Breast Boneless",
		Description: strPtr("Boneless breast"),
		PriceCents:  29900,
		IsActive:    true,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, s.CreateItem(ctx, item))

	got, err := s.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Name, got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Boneless breast", *got.Description)
	assert.Equal(t, 29900, got.PriceCents)
	assert.True(t, got.IsActive)
	assert.WithinDuration(t, item.CreatedAt, got.CreatedAt, time.Millisecond)

	_, err = s.GetItemByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItems_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	seedItem(t, s, "Mutton", 100, true)

	err := s.CreateItem(context.Background(), &models.Item{
		ID: uuid.NewString(), Name: "Mutton", PriceCents: 200, IsActive: true, CreatedAt: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestItems_UpdatePartial(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	item := seedItem(t, s, "Mutton", 100, true)

	updated, err := s.UpdateItem(ctx, item.ID, models.ItemPatch{PriceCents: intPtr(150), IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Mutton", updated.Name)
	assert.Equal(t, 150, updated.PriceCents)
	assert.False(t, updated.IsActive)
	assert.WithinDuration(t, item.CreatedAt, updated.CreatedAt, time.Millisecond)

	same, err := s.UpdateItem(ctx, item.ID, models.ItemPatch{})
	require.NoError(t, err)
	assert.Equal(t, 150, same.PriceCents)

	_, err = s.UpdateItem(ctx, "missing", models.ItemPatch{Name: strPtr("Goat")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateItem(ctx, "missing", models.ItemPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItems_UpdateNameConflict(t *testing.T) {
	s := newTestStore(t)
	seedItem(t, s, "Mutton", 100, true)
	fish := seedItem(t, s, "Fish", 100, true)

	_, err := s.UpdateItem(context.Background(), fish.ID, models.ItemPatch{Name: strPtr("Mutton")})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestItems_DeleteRestrictedByBookings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	booked := seedItem(t, s, "Booked", 100, true)
	free := seedItem(t, s, "Free", 100, true)
	require.NoError(t, s.CreateBooking(ctx, newBooking(booked.ID)))

	assert.ErrorIs(t, s.DeleteItem(ctx, booked.ID), ErrItemInUse)
	assert.NoError(t, s.DeleteItem(ctx, free.ID))
	assert.ErrorIs(t, s.DeleteItem(ctx, free.ID), ErrNotFound)

	_, err := s.GetItemByID(ctx, booked.ID)
	assert.NoError(t, err)
}

func TestItems_UpsertByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	existing := seedItem(t, s, "Fish Rohu (500g)", 100, false)

	require.NoError(t, s.UpsertItemByName(ctx, &models.Item{
		ID: uuid.NewString(), Name: "Fish Rohu (500g)", PriceCents: 22900, CreatedAt: time.Now().UTC(),
	}))

	got, err := s.GetItemByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, 22900, got.PriceCents)
	assert.True(t, got.IsActive)

	all, err := s.GetAllItems(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestBookings_CreateRequiresActiveItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	active := seedItem(t, s, "Active", 100, true)
	inactive := seedItem(t, s, "Inactive", 100, false)

	require.NoError(t, s.CreateBooking(ctx, newBooking(active.ID)))
	assert.ErrorIs(t, s.CreateBooking(ctx, newBooking(inactive.ID)), ErrItemUnavailable)
	assert.ErrorIs(t, s.CreateBooking(ctx, newBooking(uuid.NewString())), ErrItemUnavailable)

	bookings, err := s.GetRecentBookings(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestBookings_RecentJoinsItemAndRespectsLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	item := seedItem(t, s, "Test Chicken", 10000, true)

	var last *models.Booking
	for i := 0; i < 5; i++ {
		last = newBooking(item.ID)
		last.Qty = i + 1
		if i == 4 {
			last.Note = strPtr("ring the bell")
		}
		require.NoError(t, s.CreateBooking(ctx, last))
	}

	bookings, err := s.GetRecentBookings(ctx, 3)
	require.NoError(t, err)
	require.Len(t, bookings, 3)
	assert.Equal(t, last.ID, bookings[0].ID)
	assert.Equal(t, 5, bookings[0].Qty)
	assert.Equal(t, "Test Chicken", bookings[0].Item.Name)
	assert.Equal(t, item.ID, bookings[0].Item.ID)
	require.NotNil(t, bookings[0].Note)
	assert.Equal(t, "ring the bell", *bookings[0].Note)
	assert.Nil(t, bookings[1].Note)
}

func TestBookings_SurviveDeactivation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	item := seedItem(t, s, "Test Chicken", 10000, true)
	require.NoError(t, s.CreateBooking(ctx, newBooking(item.ID)))

	_, err := s.UpdateItem(ctx, item.ID, models.ItemPatch{IsActive: boolPtr(false)})
	require.NoError(t, err)

	bookings, err := s.GetRecentBookings(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestUsers_UpsertAndLookup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := &models.User{ID: uuid.NewString(), Email: "Admin@MeatPoint.com", Password: "hash1", Role: models.RoleAdmin, CreatedAt: time.Now().UTC()}
	require.NoError(t, s.UpsertUser(ctx, user))

	got, err := s.GetUserByEmail(ctx, "ADMIN@meatpoint.com")
	require.NoError(t, err)
	assert.Equal(t, "admin@meatpoint.com", got.Email)
	assert.Equal(t, models.RoleAdmin, got.Role)

	user.ID = uuid.NewString()
	user.Password = "hash2"
	require.NoError(t, s.UpsertUser(ctx, user))

	got2, err := s.GetUserByEmail(ctx, "admin@meatpoint.com")
	require.NoError(t, err)
	assert.Equal(t, got.ID, got2.ID)
	assert.Equal(t, "hash2", got2.Password)

	_, err = s.GetUserByEmail(ctx, "nobody@meatpoint.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDashboardStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	chicken := seedItem(t, s, "Chicken", 100, true)
	seedItem(t, s, "Fish", 100, false)

	b1 := newBooking(chicken.ID)
	b2 := newBooking(chicken.ID)
	b2.Fulfillment = models.FulfillmentDelivery
	b2.Qty = 3
	require.NoError(t, s.CreateBooking(ctx, b1))
	require.NoError(t, s.CreateBooking(ctx, b2))

	stats, err := s.GetDashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalItems)
	assert.Equal(t, 1, stats.ActiveItems)
	assert.Equal(t, 2, stats.TotalBookings)
	assert.Equal(t, 1, stats.BookingsByFulfillment[models.FulfillmentPickup])
	assert.Equal(t, 1, stats.BookingsByFulfillment[models.FulfillmentDelivery])
	require.Len(t, stats.ItemBookingCounts, 2)
	assert.Equal(t, "Chicken", stats.ItemBookingCounts[0].Name)
	assert.Equal(t, 2, stats.ItemBookingCounts[0].BookingCount)
	assert.Equal(t, 5, stats.ItemBookingCounts[0].TotalQty)
}

func TestGetActiveItems_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM items`).WillReturnError(errors.New("disk I/O error"))

	_, err = New(db).GetActiveItems(context.Background())
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_NoRowsAffected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(sqlmock.NewResult(0, 0))

	err = New(db).CreateBooking(context.Background(), newBooking("x"))
	assert.ErrorIs(t, err, ErrItemUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "file:shop.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dsn("shop.db"))
	assert.Equal(t, "file:shop.db?mode=ro&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dsn("file:shop.db?mode=ro"))
}

func TestUpdateItem_EmptyDescriptionClears(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	item := seedItem(t, s, "Fish Rohu", 22900, true)

	got, err := s.UpdateItem(ctx, item.ID, models.ItemPatch{Description: strPtr("Fresh rohu fish")})
	require.NoError(t, err)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Fresh rohu fish", *got.Description)

	got, err = s.UpdateItem(ctx, item.ID, models.ItemPatch{Description: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, got.Description)
}
