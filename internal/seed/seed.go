package seed

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/ais/internal/app/models"
	appRepos "github.com/yigit/ais/internal/app/repositories"
	"github.com/yigit/ais/internal/pkg/apperrors"
	"github.com/yigit/ais/internal/pkg/auth"
	"github.com/yigit/ais/internal/pkg/validation"
)

// CreateDefaultData creates the default administrator when the store has
// none. Without a configured password nothing is created.
func CreateDefaultData(ctx context.Context, users appRepos.IUserRepository, username, password string, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking default administrator...")

	admins, err := users.CountAdmins(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error counting administrators")
		return err
	}
	if admins > 0 {
		lgr.Info().Int64("admins", admins).Msg("Administrator already exists, skipping creation")
		return nil
	}
	if password == "" {
		lgr.Warn().Msg("No administrator exists and no seed password is configured; use cmd/admin createadmin")
		return nil
	}

	adminID, err := CreateAdmin(ctx, users, username, password)
	if err != nil {
		lgr.Error().Err(err).Str("username", username).Msg("Error creating default administrator")
		return err
	}
	lgr.Info().Int64("adminID", adminID).Str("username", username).Msg("Default administrator created successfully")
	return nil
}

// CreateAdmin creates an administrator account
func CreateAdmin(ctx context.Context, users appRepos.IUserRepository, username, password string) (int64, error) {
	username, err := checkCredentials(username, password)
	if err != nil {
		return 0, err
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}
	return users.CreateAdmin(ctx, &appModels.User{Username: username, Password: hashed})
}

// ResetPassword replaces the password of an existing account
func ResetPassword(ctx context.Context, users appRepos.IUserRepository, username, password string) error {
	username, err := checkCredentials(username, password)
	if err != nil {
		return err
	}

	user, err := users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hashed
	return users.Update(ctx, user)
}

func checkCredentials(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", apperrors.NewValidationError("username cannot be empty")
	}
	if utf8.RuneCountInString(username) > validation.UsernameMaxLength {
		return "", apperrors.NewValidationError("username must be at most %d characters", validation.UsernameMaxLength)
	}
	if utf8.RuneCountInString(password) < validation.PasswordMinLength {
		return "", apperrors.NewValidationError("password must be at least %d characters", validation.PasswordMinLength)
	}
	return username, nil
}
