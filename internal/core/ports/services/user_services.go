package services

import (
	"context"

	"github.com/jobhive/jobhive_backend/internal/core/domain"
	"github.com/jobhive/jobhive_backend/internal/dto"
)

// UserSvcFacade is the user directory consulted before any wallet operation.
type UserSvcFacade interface {
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
	AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	UserExists(ctx context.Context, userID string) (bool, error)
}
