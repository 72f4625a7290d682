package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alextreichler/meatpoint/internal/models"
)

const itemColumns = `id, name, description, price_cents, is_active, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var (
		i    models.Item
		desc sql.NullString
	)
	if err := row.Scan(&i.ID, &i.Name, &desc, &i.PriceCents, &i.IsActive, &i.CreatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		i.Description = &desc.String
	}
	return &i, nil
}

func (s *Store) queryItems(ctx context.Context, query string, args ...any) ([]models.Item, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *i)
	}
	return items, rows.Err()
}

// GetActiveItems returns the public catalog, newest first.
func (s *Store) GetActiveItems(ctx context.Context) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
	          WHERE is_active = 1
	          ORDER BY created_at DESC, rowid DESC`
	return s.queryItems(ctx, query)
}

// GetAllItems includes deactivated items, for the admin.
func (s *Store) GetAllItems(ctx context.Context) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY created_at DESC, rowid DESC`
	return s.queryItems(ctx, query)
}

func (s *Store) GetItemByID(ctx context.Context, id string) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`
	i, err := scanItem(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return i, nil
}

func (s *Store) CreateItem(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (id, name, description, price_cents, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.DB.ExecContext(ctx, query, item.ID, item.Name, item.Description, item.PriceCents, item.IsActive, item.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("item %q: %w", item.Name, ErrConflict)
	}
	return err
}

// UpdateItem applies the non-nil fields of patch and returns the stored result.
func (s *Store) UpdateItem(ctx context.Context, id string, patch models.ItemPatch) (*models.Item, error) {
	var (
		sets []string
		args []any
	)
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Description != nil {
		// an empty description clears the column
		sets = append(sets, "description = NULLIF(?, '')")
		args = append(args, *patch.Description)
	}
	if patch.PriceCents != nil {
		sets = append(sets, "price_cents = ?")
		args = append(args, *patch.PriceCents)
	}
	if patch.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *patch.IsActive)
	}

	if len(sets) == 0 {
		return s.GetItemByID(ctx, id)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE items SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := tx.ExecContext(ctx, query, append(args, id)...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("item %q: %w", *patch.Name, ErrConflict)
		}
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrNotFound
	}

	item, err := scanItem(tx.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return item, nil
}

// DeleteItem removes an item that no booking refers to.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var bookings int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE item_id = ?`, id).Scan(&bookings); err != nil {
		return err
	}
	if bookings > 0 {
		return ErrItemInUse
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrItemInUse
		}
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// UpsertItemByName inserts the item or refreshes the existing one with the
// same name, re-activating it. item.ID and item.CreatedAt are only used on insert.
func (s *Store) UpsertItemByName(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (id, name, description, price_cents, is_active, created_at)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT (name) DO UPDATE SET
			description = excluded.description,
			price_cents = excluded.price_cents,
			is_active = 1
	`
	_, err := s.DB.ExecContext(ctx, query, item.ID, item.Name, item.Description, item.PriceCents, item.CreatedAt)
	return err
}
