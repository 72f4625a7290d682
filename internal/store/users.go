package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/alextreichler/meatpoint/internal/models"
)

// GetUserByEmail looks the user up by its normalized (lowercase) email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, email, password, role, created_at FROM users WHERE email = ?`
	row := s.DB.QueryRowContext(ctx, query, strings.ToLower(email))

	var user models.User
	if err := row.Scan(&user.ID, &user.Email, &user.Password, &user.Role, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpsertUser is used for seeding the admin. An existing user only gets its
// password and role replaced.
func (s *Store) UpsertUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password, role, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (email) DO UPDATE SET
			password = excluded.password,
			role = excluded.role
	`
	_, err := s.DB.ExecContext(ctx, query, user.ID, strings.ToLower(user.Email), user.Password, string(user.Role), user.CreatedAt)
	return err
}
