// Package services holds the business rules of the INFORM server. Every
// protected operation consults the authz policy engine before touching the
// repositories.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ddanilovs/inform/internal/common"
	"github.com/ddanilovs/inform/internal/server/auth"
	"github.com/ddanilovs/inform/internal/server/authz"
	"github.com/ddanilovs/inform/internal/server/config"
	"github.com/ddanilovs/inform/internal/server/models"
	"github.com/ddanilovs/inform/internal/server/repositories/users"
)

// LoginResult carries the outcome of a successful authentication. Token is
// empty when the caller should keep using the token it already holds.
type LoginResult struct {
	Token                  string
	RequiresPasswordChange bool
	User                   *models.User
}

type UserService struct {
	repo                            users.Repository
	jwtSecret                       []byte
	fullTokenValidityDuration       time.Duration
	restrictedTokenValidityDuration time.Duration
	minPasswordLength               int
	adminEmail                      string
	adminPassword                   string
}

func NewUserService(repo users.Repository, cfg *config.Config) *UserService {
	return &UserService{
		repo:                            repo,
		jwtSecret:                       []byte(cfg.SecretKey),
		fullTokenValidityDuration:       cfg.FullTokenValidityDuration,
		restrictedTokenValidityDuration: cfg.RestrictedTokenValidityDuration,
		minPasswordLength:               cfg.MinPasswordLength,
		adminEmail:                      cfg.AdminEmail,
		adminPassword:                   cfg.AdminPassword,
	}
}

// Login verifies the credentials and issues a session token. A missing
// identity and a wrong password both surface as ErrorInvalidCredentials; a
// deactivated identity is the one deliberate exception and surfaces as
// ErrorAccountDisabled. An identity still holding its provisioner-assigned
// password receives a restricted short-lived token instead of a full one.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if !user.IsActive {
		return nil, common.ErrorAccountDisabled
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, common.ErrorInvalidCredentials
	}

	if !user.PasswordChanged {
		token, err := auth.GenerateToken(user, auth.SessionRestricted, s.jwtSecret, s.restrictedTokenValidityDuration)
		if err != nil {
			return nil, common.ErrorInternal
		}
		return &LoginResult{Token: token, RequiresPasswordChange: true, User: user}, nil
	}

	token, err := auth.GenerateToken(user, auth.SessionFull, s.jwtSecret, s.fullTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{Token: token, User: user}, nil
}

// ChangePassword rotates the caller's password. A restricted session skips
// the current-password check (the temporary password was already proven at
// login); a full session must present it. A restricted caller receives a
// fresh full token, since the restricted one must not be reusable as a full
// session.
func (s *UserService) ChangePassword(ctx context.Context, session *auth.Session, currentPassword, newPassword string) (*LoginResult, error) {

	if err := authz.Authorize(session, authz.ActionChangePassword, nil); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if session.Kind == auth.SessionFull {
		if currentPassword == "" {
			return nil, common.ErrorValidation
		}
		if !auth.CheckPassword(user.PasswordHash, currentPassword) {
			return nil, common.ErrorInvalidCredentials
		}
	}

	if len(newPassword) < s.minPasswordLength {
		return nil, common.ErrorWeakPassword
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user.PasswordHash = hash
	user.PasswordChanged = true

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	result := &LoginResult{User: user}

	if session.Kind == auth.SessionRestricted {
		token, err := auth.GenerateToken(user, auth.SessionFull, s.jwtSecret, s.fullTokenValidityDuration)
		if err != nil {
			return nil, common.ErrorInternal
		}
		result.Token = token
	}

	return result, nil
}

// SeedAdmin provisions the bootstrap administrator from the configured email
// and password. It is idempotent: when an identity with that email already
// exists, nothing is touched. The seeded identity carries a pending password
// rotation, so the first login is forced through the change-password flow.
// The returned bool reports whether an identity was created.
func (s *UserService) SeedAdmin(ctx context.Context) (bool, error) {

	if s.adminEmail == "" || s.adminPassword == "" {
		return false, nil
	}

	_, err := s.repo.GetByEmail(ctx, s.adminEmail)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return false, fmt.Errorf("seed admin lookup: %w", err)
	}

	hash, err := auth.HashPassword(s.adminPassword)
	if err != nil {
		return false, fmt.Errorf("seed admin hash: %w", err)
	}

	admin := &models.User{
		Name:            "System Admin",
		Email:           s.adminEmail,
		PasswordHash:    hash,
		Role:            models.RoleAdmin,
		IsActive:        true,
		PasswordChanged: false,
	}

	if _, err := s.repo.Create(ctx, admin); err != nil {
		// lost the race to a concurrent seeder; the identity exists
		if errors.Is(err, common.ErrorAlreadyExists) {
			return false, nil
		}
		return false, fmt.Errorf("seed admin create: %w", err)
	}

	return true, nil
}

// CreateUserInput is the administrative user-creation payload. Password is
// the temporary value the new identity must replace on first login.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

func (s *UserService) CreateUser(ctx context.Context, session *auth.Session, input CreateUserInput) (*models.User, error) {

	if err := authz.Authorize(session, authz.ActionManageUsers, nil); err != nil {
		return nil, err
	}

	if input.Email == "" || input.Password == "" {
		return nil, common.ErrorValidation
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleAdmin && role != models.RoleUser {
		return nil, common.ErrorValidation
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Name:            input.Name,
		Email:           input.Email,
		PasswordHash:    hash,
		Role:            role,
		IsActive:        true,
		PasswordChanged: false,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, session *auth.Session) ([]*models.User, error) {

	if err := authz.Authorize(session, authz.ActionManageUsers, nil); err != nil {
		return nil, err
	}

	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return result, nil
}

// UpdateUserInput is the administrative patch payload. Nil fields are left
// untouched. A non-nil Password resets the stored hash and re-arms the
// forced rotation, so the identity must change it again on next login.
type UpdateUserInput struct {
	Name     *string
	Role     *string
	Password *string
	IsActive *bool
}

func (s *UserService) UpdateUser(ctx context.Context, session *auth.Session, id string, input UpdateUserInput) (*models.User, error) {

	if err := authz.Authorize(session, authz.ActionManageUsers, nil); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Role != nil {
		if *input.Role != models.RoleAdmin && *input.Role != models.RoleUser {
			return nil, common.ErrorValidation
		}
		user.Role = *input.Role
	}
	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, common.ErrorInternal
		}
		user.PasswordHash = hash
		user.PasswordChanged = false
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// SetUserActive toggles whether the identity may authenticate. Tokens issued
// before deactivation stay valid until expiry; the active flag is enforced
// at login.
func (s *UserService) SetUserActive(ctx context.Context, session *auth.Session, id string, active bool) (*models.User, error) {
	return s.UpdateUser(ctx, session, id, UpdateUserInput{IsActive: &active})
}

func (s *UserService) DeleteUser(ctx context.Context, session *auth.Session, id string) (*models.User, error) {

	if err := authz.Authorize(session, authz.ActionManageUsers, nil); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}
