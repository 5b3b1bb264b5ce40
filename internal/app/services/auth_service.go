package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/ais/internal/app/models/dto"
	"github.com/yigit/ais/internal/app/repositories"
	"github.com/yigit/ais/internal/pkg/apperrors"
	"github.com/yigit/ais/internal/pkg/auth"
)

// AuthService handles login and session lookups
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	Session(ctx context.Context, userID int64) (*dto.SessionUser, error)
}

type authServiceImpl struct {
	userRepo   repositories.IUserRepository
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repositories.IUserRepository, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login checks the credentials, resolves the role and issues a session token.
// Unknown usernames and wrong passwords give the same error.
func (s *authServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username and password are required", apperrors.ErrValidationFailed)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Debug().Str("username", username).Msg("Login attempt for unknown user")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Debug().Int64("userID", user.ID).Msg("Login attempt with wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	role, err := s.userRepo.GetRole(ctx, user.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoRole) {
			s.logger.Warn().Int64("userID", user.ID).Msg("Login refused for user without role")
		}
		return nil, err
	}

	token, expiresAt, err := s.jwtService.GenerateToken(user.ID, user.Username, string(role))
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to sign session token")
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(role)).Msg("User logged in")

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int64(s.jwtService.TTL().Seconds()),
			ExpiresAt:   expiresAt,
		},
		User: dto.SessionUser{
			ID:       user.ID,
			Username: user.Username,
			Role:     role,
		},
	}, nil
}

// Session returns the current user with the role resolved again from the store
func (s *authServiceImpl) Session(ctx context.Context, userID int64) (*dto.SessionUser, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	role, err := s.userRepo.GetRole(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.SessionUser{ID: user.ID, Username: user.Username, Role: role}, nil
}
