// Package account manages users: registration, authentication and the
// administrative operations over accounts.
package account

import (
	"context"
	"fmt"

	"distr/core/apperr"
	"distr/core/auth"
	"distr/logger"
	"distr/model"
	"distr/repository"
)

// CreateUserInput carries the fields for a new account.
type CreateUserInput struct {
	Login    string
	Password string
	Type     string
}

// UpdateUserInput carries the mutable account fields. Nil fields are left
// unchanged.
type UpdateUserInput struct {
	Login    *string
	Password *string
	Type     *string
}

// Service implements account operations. The actor parameter on mutating
// operations is the authenticated caller; nil means anonymous.
type Service struct {
	users  repository.UserRepository
	issuer *auth.TokenIssuer
}

// NewService creates an account service.
func NewService(users repository.UserRepository, issuer *auth.TokenIssuer) *Service {
	return &Service{users: users, issuer: issuer}
}

// canCreateType decides whether the actor may register an account of the
// requested role. Artist and label signups are open; staff roles require an
// already privileged actor.
func canCreateType(actor *model.User, userType model.UserType) bool {
	switch userType {
	case model.UserTypeArtist, model.UserTypeLabel:
		return true
	case model.UserTypeModerator:
		return actor != nil && (actor.Type == model.UserTypeAdmin || actor.Type == model.UserTypeModerator)
	case model.UserTypeAdmin, model.UserTypePlatform:
		return actor.IsAdmin()
	}
	return false
}

// CreateUser registers a new account. Login uniqueness is checked before the
// role policy so a duplicate login is reported as a conflict regardless of
// the caller's permissions.
func (s *Service) CreateUser(ctx context.Context, actor *model.User, input CreateUserInput) (*model.User, error) {
	if input.Login == "" {
		return nil, apperr.Validation("login is required")
	}
	if input.Password == "" {
		return nil, apperr.Validation("password is required")
	}

	userType, err := model.ParseUserType(input.Type)
	if err != nil {
		return nil, err
	}

	taken, err := s.users.ExistsByLogin(ctx, input.Login)
	if err != nil {
		return nil, fmt.Errorf("failed to check login: %w", err)
	}
	if taken {
		return nil, apperr.AlreadyExists("login %q is already taken", input.Login)
	}

	if !canCreateType(actor, userType) {
		return nil, apperr.PermissionDenied("not allowed to create a %s account", userType)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Login:        input.Login,
		PasswordHash: hash,
		Type:         userType,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("user created",
		logger.Int64("userId", user.ID),
		logger.String("type", string(user.Type)))
	return user, nil
}

// Authenticate verifies credentials and returns the user with a signed token.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", apperr.PermissionDenied("invalid login or password")
	}

	token, err := s.issuer.Issue(user.ID, user.Login, string(user.Type))
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetUser returns a user by id.
func (s *Service) GetUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user %d not found", id)
	}
	return user, nil
}

// GetUserByLogin returns a user by login.
func (s *Service) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user %q not found", login)
	}
	return user, nil
}

// UsersByType returns all users of one role.
func (s *Service) UsersByType(ctx context.Context, typeName string) ([]*model.User, error) {
	userType, err := model.ParseUserType(typeName)
	if err != nil {
		return nil, err
	}
	users, err := s.users.ListByType(ctx, userType)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListUsers returns a page of all users.
func (s *Service) ListUsers(ctx context.Context, pageNumber, pageSize int) (model.Page[*model.User], error) {
	users, total, err := s.users.List(ctx, pageNumber, pageSize)
	if err != nil {
		return model.Page[*model.User]{}, fmt.Errorf("failed to list users: %w", err)
	}
	return model.NewPage(users, pageNumber, pageSize, total), nil
}

// UpdateUser modifies an account. Users may edit themselves; admins may edit
// anyone. Changing the role requires admin.
func (s *Service) UpdateUser(ctx context.Context, actor *model.User, id int64, input UpdateUserInput) (*model.User, error) {
	if actor == nil || (actor.ID != id && !actor.IsAdmin()) {
		return nil, apperr.PermissionDenied("not allowed to update user %d", id)
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Login != nil && *input.Login != user.Login {
		taken, err := s.users.ExistsByLogin(ctx, *input.Login)
		if err != nil {
			return nil, fmt.Errorf("failed to check login: %w", err)
		}
		if taken {
			return nil, apperr.AlreadyExists("login %q is already taken", *input.Login)
		}
		user.Login = *input.Login
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if input.Type != nil {
		if !actor.IsAdmin() {
			return nil, apperr.PermissionDenied("only admins can change account roles")
		}
		userType, err := model.ParseUserType(*input.Type)
		if err != nil {
			return nil, err
		}
		user.Type = userType
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes an account. Users may delete themselves; admins may
// delete anyone.
func (s *Service) DeleteUser(ctx context.Context, actor *model.User, id int64) error {
	if actor == nil || (actor.ID != id && !actor.IsAdmin()) {
		return apperr.PermissionDenied("not allowed to delete user %d", id)
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	logger.Info("user deleted", logger.Int64("userId", id))
	return nil
}
