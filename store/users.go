package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	apperrors "noto/errors"
	"noto/models"
	"noto/utils"
)

func (s *Store) UserExists(ctx context.Context, username, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	stmt := "SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)"

	var exists bool
	if err := s.db.QueryRow(ctx, stmt, username, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user exists: %w", err)
	}
	return exists, nil
}

// CreateUser inserts a new user. A unique violation (a concurrent signup
// with the same username or email) is reported as AlreadyExists.
func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	u := &models.User{
		ID:              uuid.New(),
		Username:        username,
		Email:           email,
		PasswordHash:    passwordHash,
		LastViewedTasks: []int64{},
	}

	stmt := `INSERT INTO users (id, username, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	if err := s.db.QueryRow(ctx, stmt, u.ID, username, email, passwordHash).Scan(&u.CreatedAt); err != nil {
		if utils.IsUniqueViolation(err) {
			return nil, apperrors.AlreadyExists("User already exists")
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// GetUserByLogin finds a user by username or email. A username match wins
// if the value happens to match two different accounts.
func (s *Store) GetUserByLogin(ctx context.Context, usernameOrEmail string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	stmt := `SELECT id, username, email, password_hash, last_viewed_tasks, created_at
		FROM users
		WHERE username = $1 OR email = $1
		ORDER BY (username = $1) DESC
		LIMIT 1`

	var u models.User
	err := s.db.QueryRow(ctx, stmt, usernameOrEmail).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.LastViewedTasks, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user by login: %w", err)
	}
	return &u, nil
}

func (s *Store) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()

	stmt := "UPDATE users SET last_login = now() WHERE id = $1"
	if _, err := s.db.Exec(ctx, stmt, userID); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}
