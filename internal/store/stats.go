package store

import (
	"context"

	"github.com/alextreichler/meatpoint/internal/models"
)

type DashboardStats struct {
	TotalItems            int
	ActiveItems           int
	TotalBookings         int
	BookingsByFulfillment map[models.Fulfillment]int
	ItemBookingCounts     []ItemBookingCount
}

type ItemBookingCount struct {
	ItemID       string
	Name         string
	BookingCount int
	TotalQty     int
}

func (s *Store) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		BookingsByFulfillment: make(map[models.Fulfillment]int),
	}

	err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_active = 1 THEN 1 ELSE 0 END), 0) FROM items`).
		Scan(&stats.TotalItems, &stats.ActiveItems)
	if err != nil {
		return nil, err
	}

	if err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM bookings").Scan(&stats.TotalBookings); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, "SELECT fulfillment, COUNT(*) FROM bookings GROUP BY fulfillment")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			f     models.Fulfillment
			count int
		)
		if err := rows.Scan(&f, &count); err != nil {
			return nil, err
		}
		stats.BookingsByFulfillment[f] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := s.DB.QueryContext(ctx, `
		SELECT i.id, i.name, COUNT(b.id) AS booking_count, COALESCE(SUM(b.qty), 0)
		FROM items i
		LEFT JOIN bookings b ON i.id = b.item_id
		GROUP BY i.id, i.name
		ORDER BY booking_count DESC, i.name
	`)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var ibc ItemBookingCount
		if err := itemRows.Scan(&ibc.ItemID, &ibc.Name, &ibc.BookingCount, &ibc.TotalQty); err != nil {
			return nil, err
		}
		stats.ItemBookingCounts = append(stats.ItemBookingCounts, ibc)
	}

	return stats, itemRows.Err()
}
