package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/alextreichler/meatpoint/internal/models"
)

type mockItemStore struct{ mock.Mock }

func (m *mockItemStore) GetActiveItems(ctx context.Context) ([]models.Item, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.Item)
	return items, args.Error(1)
}

func (m *mockItemStore) GetAllItems(ctx context.Context) ([]models.Item, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]models.Item)
	return items, args.Error(1)
}

func (m *mockItemStore) CreateItem(ctx context.Context, item *models.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockItemStore) UpdateItem(ctx context.Context, id string, patch models.ItemPatch) (*models.Item, error) {
	args := m.Called(ctx, id, patch)
	item, _ := args.Get(0).(*models.Item)
	return item, args.Error(1)
}

func (m *mockItemStore) DeleteItem(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockBookingStore struct{ mock.Mock }

func (m *mockBookingStore) CreateBooking(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBookingStore) GetRecentBookings(ctx context.Context, limit int) ([]models.BookingRef, error) {
	args := m.Called(ctx, limit)
	bookings, _ := args.Get(0).([]models.BookingRef)
	return bookings, args.Error(1)
}
