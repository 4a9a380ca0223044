package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jobhive/jobhive_backend/internal/apperrors"
	"github.com/jobhive/jobhive_backend/internal/core/domain"
	portsrepo "github.com/jobhive/jobhive_backend/internal/core/ports/repositories"
	portssvc "github.com/jobhive/jobhive_backend/internal/core/ports/services"
	"github.com/jobhive/jobhive_backend/internal/dto"
	"github.com/jobhive/jobhive_backend/internal/middleware"
	"github.com/jobhive/jobhive_backend/internal/utils"
)

type UserService struct {
	userRepo portsrepo.UserRepository
}

func NewUserService(userRepo portsrepo.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Ensure UserService implements the facade
var _ portssvc.UserSvcFacade = (*UserService)(nil)

// RegisterUser creates a COMPANY or WORKER account. Admin accounts are
// provisioned out of band.
func (s *UserService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	role := domain.UserRole(req.Role)
	if role != domain.RoleCompany && role != domain.RoleWorker {
		return nil, fmt.Errorf("%w: role must be COMPANY or WORKER", apperrors.ErrValidation)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		FCMToken:     req.FCMToken,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("User registered", "registered_user_id", user.UserID, "role", string(role))
	return &user, nil
}

// AuthenticateUser verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *UserService) AuthenticateUser(ctx context.Context, email string, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

func (s *UserService) UserExists(ctx context.Context, userID string) (bool, error) {
	return s.userRepo.UserExists(ctx, userID)
}
