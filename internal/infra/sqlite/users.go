package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/neurobudget/neurobudget-api/internal/domain"
)

const timeLayout = time.RFC3339Nano

// CreateUser inserts a new user. A duplicate email maps to ErrConflict.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	err := s.withWriteTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, email, password_hash, first_name, last_name, role, enabled, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			user.ID, user.Email, user.PasswordHash, user.FirstName, user.LastName,
			string(user.Role), boolToInt(user.Enabled), user.CreatedAt.Format(timeLayout),
		)
		if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return &domain.ErrConflict{Message: "email already registered"}
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByEmail returns the user with the given email, or (nil, nil)
// when no such user exists.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUser(ctx, `SELECT id, email, password_hash, first_name, last_name, role, enabled, created_at
		FROM users WHERE email = ?`, email)
}

// GetUserByID returns the user with the given id, or (nil, nil) when no
// such user exists.
func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return s.getUser(ctx, `SELECT id, email, password_hash, first_name, last_name, role, enabled, created_at
		FROM users WHERE id = ?`, id)
}

func (s *Store) getUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		u         domain.User
		role      string
		enabled   int
		createdAt string
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &role, &enabled, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.Role = domain.Role(role)
	u.Enabled = enabled != 0
	u.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
