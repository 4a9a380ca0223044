package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/jobhive/jobhive_backend/internal/apperrors"
	"github.com/jobhive/jobhive_backend/internal/core/domain"
	"github.com/jobhive/jobhive_backend/internal/core/services"
	"github.com/jobhive/jobhive_backend/internal/dto"
	"github.com/jobhive/jobhive_backend/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      *services.UserService
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockUserRepo)
}

func (suite *UserServiceTestSuite) TestRegisterUser_HashesPassword() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{
		Name:     "Acme GmbH",
		Email:    "hr@acme.test",
		Password: "s3cret-pass",
		Role:     "COMPANY",
	}

	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(user domain.User) bool {
		return user.Email == req.Email &&
			user.Role == domain.RoleCompany &&
			user.PasswordHash != req.Password &&
			utils.CheckPasswordHash(req.Password, user.PasswordHash)
	})).Return(nil).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().NoError(err)
	suite.NotEmpty(user.UserID)
	suite.Equal(domain.RoleCompany, user.Role)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestRegisterUser_AdminRoleRejected() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{Name: "x", Email: "x@y.test", Password: "password1", Role: "ADMIN"}

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(user)
	suite.mockUserRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestRegisterUser_DuplicateEmail() {
	ctx := context.Background()
	req := dto.RegisterUserRequest{Name: "x", Email: "dup@y.test", Password: "password1", Role: "WORKER"}

	suite.mockUserRepo.On("SaveUser", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	user, err := suite.service.RegisterUser(ctx, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct-horse")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: "user-1", Email: "w@y.test", PasswordHash: hash, Role: domain.RoleWorker}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "w@y.test").Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "w@y.test", "correct-horse")

	suite.Require().NoError(err)
	suite.Equal("user-1", user.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct-horse")
	suite.Require().NoError(err)
	stored := &domain.User{UserID: "user-1", Email: "w@y.test", PasswordHash: hash}

	suite.mockUserRepo.On("FindUserByEmail", ctx, "w@y.test").Return(stored, nil).Once()

	user, err := suite.service.AuthenticateUser(ctx, "w@y.test", "wrong")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(user)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownEmailIndistinguishable() {
	ctx := context.Background()

	suite.mockUserRepo.On("FindUserByEmail", ctx, "nobody@y.test").Return(nil, apperrors.ErrNotFound).Once()

	user, err := suite.service.AuthenticateUser(ctx, "nobody@y.test", "whatever")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.NotErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(user)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
