package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alextreichler/meatpoint/internal/models"
)

// CreateBooking inserts the booking only if its item exists and is active.
// Check and insert are one statement, so a concurrent deactivation either
// happens before (ErrItemUnavailable) or after (booking kept).
func (s *Store) CreateBooking(ctx context.Context, b *models.Booking) error {
	query := `
		INSERT INTO bookings (id, item_id, qty, customer_name, phone, fulfillment, note, created_at)
		SELECT ?, id, ?, ?, ?, ?, ?, ?
		FROM items
		WHERE id = ? AND is_active = 1
	`
	res, err := s.DB.ExecContext(ctx, query,
		b.ID, b.Qty, b.CustomerName, b.Phone, string(b.Fulfillment), b.Note, b.CreatedAt,
		b.ItemID,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrItemUnavailable
	}
	return nil
}

// GetRecentBookings returns up to limit bookings, newest first, with their item.
func (s *Store) GetRecentBookings(ctx context.Context, limit int) ([]models.BookingRef, error) {
	query := `
		SELECT b.id, b.qty, b.customer_name, b.phone, b.fulfillment, b.note, b.created_at, i.id, i.name
		FROM bookings b
		JOIN items i ON b.item_id = i.id
		ORDER BY b.created_at DESC, b.rowid DESC
		LIMIT ?
	`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []models.BookingRef{}
	for rows.Next() {
		var (
			b    models.BookingRef
			note sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.Qty, &b.CustomerName, &b.Phone, &b.Fulfillment, &note, &b.CreatedAt, &b.Item.ID, &b.Item.Name); err != nil {
			return nil, err
		}
		if note.Valid {
			b.Note = &note.String
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
