package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alextreichler/meatpoint/internal/models"
	"github.com/alextreichler/meatpoint/internal/validate"
)

// RecentBookingsLimit caps the admin listing.
const RecentBookingsLimit = 100

type BookingStore interface {
	CreateBooking(ctx context.Context, b *models.Booking) error
	GetRecentBookings(ctx context.Context, limit int) ([]models.BookingRef, error)
}

type CreateBookingInput struct {
	ItemID       string             `json:"itemId" validate:"required"`
	Qty          int                `json:"qty" validate:"min=1,max=50"`
	CustomerName string             `json:"customerName" validate:"min=2"`
	Phone        string             `json:"phone" validate:"min=8,max=20"`
	Fulfillment  models.Fulfillment `json:"fulfillment" validate:"oneof=PICKUP DELIVERY"`
	Note         *string            `json:"note" validate:"omitempty,max=500"`
}

type BookingService struct {
	bookings BookingStore
	now      func() time.Time
}

func NewBookingService(bookings BookingStore) *BookingService {
	return &BookingService{bookings: bookings, now: time.Now}
}

// Create validates the input and books the item. Nothing touches the store
// unless validation passes; an absent or inactive item yields
// store.ErrItemUnavailable and no row.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	b := &models.Booking{
		ID:           uuid.NewString(),
		ItemID:       in.ItemID,
		Qty:          in.Qty,
		CustomerName: in.CustomerName,
		Phone:        in.Phone,
		Fulfillment:  in.Fulfillment,
		Note:         in.Note,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.bookings.CreateBooking(ctx, b); err != nil {
		return nil, fmt.Errorf("book item %s: %w", in.ItemID, err)
	}

	slog.Info("Booking created", "booking_id", b.ID, "item_id", b.ItemID, "qty", b.Qty, "fulfillment", b.Fulfillment)
	return b, nil
}

func (s *BookingService) Recent(ctx context.Context) ([]models.BookingRef, error) {
	bookings, err := s.bookings.GetRecentBookings(ctx, RecentBookingsLimit)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}
