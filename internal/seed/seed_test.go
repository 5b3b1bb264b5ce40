package seed

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/ais/internal/app/models"
	"github.com/yigit/ais/internal/app/repositories/repotest"
	"github.com/yigit/ais/internal/pkg/apperrors"
	"github.com/yigit/ais/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	auth.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func TestCreateDefaultData(t *testing.T) {
	ctx := context.Background()
	lgr := zerolog.Nop()

	t.Run("creates admin when none exists", func(t *testing.T) {
		store := repotest.New()
		require.NoError(t, CreateDefaultData(ctx, store.Users(), "admin", "s3cret", lgr))

		user, err := store.Users().GetByUsername(ctx, "admin")
		require.NoError(t, err)
		assert.True(t, auth.CheckPassword(user.Password, "s3cret"))
		role, err := store.Users().GetRole(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, role)
	})

	t.Run("skips when an admin exists", func(t *testing.T) {
		store := repotest.New()
		id := store.AddUser(&models.User{Username: "root", Password: "x"})
		store.MakeAdmin(id)

		require.NoError(t, CreateDefaultData(ctx, store.Users(), "admin", "s3cret", lgr))
		_, err := store.Users().GetByUsername(ctx, "admin")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("skips without a password", func(t *testing.T) {
		store := repotest.New()
		require.NoError(t, CreateDefaultData(ctx, store.Users(), "admin", "", lgr))
		n, err := store.Users().Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestCreateAdmin_Validation(t *testing.T) {
	ctx := context.Background()
	store := repotest.New()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"blank username", "   ", "secret", apperrors.ErrValidationFailed},
		{"short password", "admin", "ab", apperrors.ErrValidationFailed},
		{"ok", " admin ", "abc", nil},
		{"duplicate", "admin", "secret", apperrors.ErrUsernameExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateAdmin(ctx, store.Users(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	store := repotest.New()
	_, err := CreateAdmin(ctx, store.Users(), "admin", "old-pass")
	require.NoError(t, err)

	require.NoError(t, ResetPassword(ctx, store.Users(), "admin", "new-pass"))
	user, err := store.Users().GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(user.Password, "new-pass"))
	assert.False(t, auth.CheckPassword(user.Password, "old-pass"))

	assert.ErrorIs(t, ResetPassword(ctx, store.Users(), "ghost", "whatever"), apperrors.ErrUserNotFound)
}
