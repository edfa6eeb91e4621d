package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/newsai/admin-api/internal/email"
	"github.com/newsai/admin-api/internal/model"
	"github.com/newsai/admin-api/internal/repository"
	"github.com/newsai/admin-api/pkg/auth"
	"github.com/newsai/admin-api/pkg/errors"
	"github.com/newsai/admin-api/pkg/security"
)

const (
	maxLoginAttempts = 5
	lockoutDuration  = 15 * time.Minute
)

type Servicer interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest, area auth.Audience) (*model.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error)
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *model.ChangePasswordRequest) error
}

type Service struct {
	repo     repository.UserRepository
	tokens   *auth.TokenService
	emailSvc email.Service
}

func NewService(repo repository.UserRepository, tokens *auth.TokenService, emailSvc email.Service) *Service {
	return &Service{repo: repo, tokens: tokens, emailSvc: emailSvc}
}

// Register creates a pending reader account and sends a verification mail.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if existing, err := s.repo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, errors.Conflict("an account with this email already exists", nil)
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         model.UserRoleReader,
		Status:       model.UserStatusPending,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.emailSvc != nil {
		// Registration succeeds even if the mail provider is down; the
		// operator can re-trigger verification from the back-office.
		_ = s.emailSvc.SendVerification(ctx, user.Email, uuid.New().String())
	}

	return user, nil
}

// Login validates credentials for the given area. Five consecutive failures
// lock the account for fifteen minutes.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest, area auth.Audience) (*model.LoginResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.Unauthorized("invalid email or password", err)
	}

	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		return nil, errors.Locked(
			fmt.Sprintf("account locked until %s", user.LockedUntil.Format(time.RFC3339)), nil)
	}
	if user.Blocked {
		return nil, errors.Forbidden("account is blocked", nil)
	}
	if user.Status == model.UserStatusPending {
		return nil, errors.Forbidden("account pending approval", nil)
	}
	if area == auth.AudienceAdmin && user.Role == model.UserRoleReader {
		return nil, errors.Forbidden("admin access required", nil)
	}

	if !security.CheckPassword(user.PasswordHash, req.Password) {
		failures := user.FailedLogins + 1
		var lockedUntil *time.Time
		if failures >= maxLoginAttempts {
			t := time.Now().Add(lockoutDuration)
			lockedUntil = &t
		}
		_ = s.repo.RecordLoginFailure(ctx, user.ID, failures, lockedUntil)

		if lockedUntil != nil {
			return nil, errors.Locked("too many failed attempts; account locked for 15 minutes", nil)
		}
		return nil, errors.Unauthorized("invalid email or password", nil)
	}

	if err := s.repo.RecordLoginSuccess(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	pair, err := s.issueTokens(user, area)
	if err != nil {
		return nil, err
	}

	user.Password = ""
	user.PasswordHash = ""
	return &model.LoginResponse{TokenPair: *pair, User: user}, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, errors.Unauthorized("invalid refresh token", err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, errors.Unauthorized("invalid refresh token", err)
	}

	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, errors.Unauthorized("account no longer exists", err)
	}
	if user.Blocked {
		return nil, errors.Forbidden("account is blocked", nil)
	}

	return s.issueTokens(user, claims.Audience)
}

func (s *Service) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	return s.tokens.ValidateToken(token)
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, errors.NotFound("user", err)
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, errors.NotFound("user", err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.NewsletterOptIn != nil {
		user.NewsletterOptIn = *req.NewsletterOptIn
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req *model.ChangePasswordRequest) error {
	user, err := s.repo.Get(ctx, userID)
	if err != nil {
		return errors.NotFound("user", err)
	}

	if !security.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return errors.Unauthorized("current password is incorrect", nil)
	}

	hash, err := security.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

func (s *Service) issueTokens(user *model.User, area auth.Audience) (*model.TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, string(user.Role), area)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email, string(user.Role), area)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
