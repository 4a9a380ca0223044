package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobhive/jobhive_backend/internal/apperrors"
	"github.com/jobhive/jobhive_backend/internal/core/domain"
	portsrepo "github.com/jobhive/jobhive_backend/internal/core/ports/repositories"
	"github.com/jobhive/jobhive_backend/internal/models"
	"github.com/jobhive/jobhive_backend/internal/utils/mapping"
)

const userColumns = "user_id, name, email, password_hash, role, fcm_token, created_at, created_by, last_updated_at, last_updated_by"

type PgxUserRepository struct {
	BaseRepository
}

// NewUserRepository creates a new repository for user data.
func NewUserRepository(pool *pgxpool.Pool, retry RetryPolicy) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: pool, Retry: retry}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepository
var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

func scanUser(row rowScanner) (domain.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Name,
		&m.Email,
		&m.PasswordHash,
		&m.Role,
		&m.FCMToken,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.User{}, err
	}
	return mapping.ToDomainUser(m), nil
}

// SaveUser inserts a new user. Duplicate email maps to apperrors.ErrDuplicate.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (user_id, name, email, password_hash, role, fcm_token, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	err := r.withRetry(ctx, "save user", func() error {
		_, err := r.Pool.Exec(ctx, query,
			m.UserID, m.Name, m.Email, m.PasswordHash, m.Role, m.FCMToken,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: email %s is already registered", apperrors.ErrDuplicate, user.Email)
		}
		return fmt.Errorf("failed to insert user %s: %w", user.UserID, err)
	}
	return nil
}

// FindUserByID retrieves a user by id.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1;`
	user, err := scanUser(r.Pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user %s: %w", userID, err)
	}
	return &user, nil
}

// FindUserByEmail retrieves a user by email.
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1;`
	user, err := scanUser(r.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

// UserExists reports whether the user id is present in the directory.
func (r *PgxUserRepository) UserExists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	if err := r.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1);`, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user %s: %w", userID, err)
	}
	return exists, nil
}
