package repositories

import (
	"context"

	"github.com/jobhive/jobhive_backend/internal/core/domain"
)

// UserRepository is the user directory the ledger consults before any wallet
// operation.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UserExists(ctx context.Context, userID string) (bool, error)
}
