// Package user provides the application layer for user management
package user

import (
	"context"
	stderrors "errors"

	"github.com/alchemorsel/mealplan/internal/application/validation"
	"github.com/alchemorsel/mealplan/internal/domain/user"
	"github.com/alchemorsel/mealplan/internal/ports/inbound"
	"github.com/alchemorsel/mealplan/internal/ports/outbound"
	"github.com/alchemorsel/mealplan/pkg/errors"
	"go.uber.org/zap"
)

const invalidCredentials = "invalid email or password"

// UserService implements user management use cases
type UserService struct {
	userRepo  outbound.UserRepository
	validator *validation.Validator
	logger    *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo outbound.UserRepository,
	validator *validation.Validator,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:  userRepo,
		validator: validator,
		logger:    logger.Named("user-service"),
	}
}

var _ inbound.UserService = (*UserService)(nil)

// CreateUser registers a new user
func (s *UserService) CreateUser(ctx context.Context, cmd inbound.CreateUserCommand) (*inbound.UserDTO, error) {
	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	u, err := user.NewUser(cmd.Email, cmd.Name, cmd.Password, cmd.CalorieGoal)
	if err != nil {
		if stderrors.Is(err, user.ErrPasswordHashFailure) {
			return nil, errors.NewInternalError("failed to secure password").WithCause(err)
		}
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		if stderrors.Is(err, outbound.ErrDuplicate) {
			return nil, errors.NewEmailAlreadyExistsError(u.Email())
		}
		s.logger.Error("Failed to save user", zap.Error(err))
		return nil, errors.NewDatabaseError("save user", err)
	}

	s.logger.Info("User registered", zap.Uint("user_id", u.ID()))

	dto := ToDTO(u)
	return &dto, nil
}

// GetUser returns a user's public profile
func (s *UserService) GetUser(ctx context.Context, userID uint) (*inbound.UserDTO, error) {
	u, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(u)
	return &dto, nil
}

// UpdateProfile applies the non-nil fields of cmd
func (s *UserService) UpdateProfile(ctx context.Context, cmd inbound.UpdateProfileCommand) (*inbound.UserDTO, error) {
	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}

	u, err := s.find(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	profile := u.Profile()
	if cmd.CalorieGoal != nil {
		profile.CalorieGoal = *cmd.CalorieGoal
	}
	if cmd.Avatar != nil {
		profile.Avatar = *cmd.Avatar
	}
	if cmd.Phone != nil {
		profile.Phone = *cmd.Phone
	}
	if cmd.Address != nil {
		profile.Address = *cmd.Address
	}
	if cmd.IDNumber != nil {
		profile.IDNumber = *cmd.IDNumber
	}

	if err := u.UpdateProfile(profile); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewUserNotFoundError(cmd.UserID)
		}
		return nil, errors.NewDatabaseError("update user", err)
	}

	dto := ToDTO(u)
	return &dto, nil
}

// Exists reports whether the user id is known
func (s *UserService) Exists(ctx context.Context, userID uint) (bool, error) {
	ok, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return false, errors.NewDatabaseError("check user", err)
	}
	return ok, nil
}

// Authenticate verifies an email and password pair
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*inbound.UserDTO, error) {
	u, err := s.userRepo.FindByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewUnauthorizedError(invalidCredentials)
		}
		return nil, errors.NewDatabaseError("find user", err)
	}

	if err := u.CheckPassword(password); err != nil {
		s.logger.Info("Rejected credentials", zap.Uint("user_id", u.ID()))
		return nil, errors.NewUnauthorizedError(invalidCredentials)
	}

	dto := ToDTO(u)
	return &dto, nil
}

func (s *UserService) find(ctx context.Context, userID uint) (*user.User, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewUserNotFoundError(userID)
		}
		return nil, errors.NewDatabaseError("find user", err)
	}
	return u, nil
}

// ToDTO converts a user entity into its public view
func ToDTO(u *user.User) inbound.UserDTO {
	p := u.Profile()
	return inbound.UserDTO{
		ID:          u.ID(),
		Name:        u.Name(),
		Email:       u.Email(),
		CalorieGoal: p.CalorieGoal,
		Avatar:      p.Avatar,
		Phone:       p.Phone,
		Address:     p.Address,
		IDNumber:    p.IDNumber,
		CreatedAt:   u.CreatedAt(),
	}
}
