package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

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

func setup(t *testing.T, password string) (*commandLine, *repotest.Store, *int) {
	t.Helper()
	store := repotest.New()
	migrations := 0
	readPasswordFunc = func(int) ([]byte, error) { return []byte(password), nil }
	return &commandLine{
		users: store.Users(),
		migrate: func(context.Context) error {
			migrations++
			return nil
		},
		out: &bytes.Buffer{},
	}, store, &migrations
}

func Test_commandLine_usage(t *testing.T) {
	cli, _, _ := setup(t, "secret")
	ctx := context.Background()

	tests := []struct {
		name string
		args []string
	}{
		{"no command", []string{"admin"}},
		{"unknown command", []string{"admin", "lol"}},
		{"createadmin without username", []string{"admin", "createadmin"}},
		{"resetpassword without username", []string{"admin", "resetpassword"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, cli.run(ctx, tt.args), errHelp)
		})
	}
}

func Test_commandLine_createadmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates administrator", func(t *testing.T) {
		cli, store, _ := setup(t, "secret")
		require.NoError(t, cli.run(ctx, []string{"admin", "createadmin", "-username", "root"}))

		user, err := store.Users().GetByUsername(ctx, "root")
		require.NoError(t, err)
		assert.True(t, auth.CheckPassword(user.Password, "secret"))
		role, err := store.Users().GetRole(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, role)
	})

	t.Run("empty password", func(t *testing.T) {
		cli, _, _ := setup(t, "")
		assert.ErrorIs(t, cli.run(ctx, []string{"admin", "createadmin", "-username", "root"}), errHelp)
	})

	t.Run("short password", func(t *testing.T) {
		cli, _, _ := setup(t, "ab")
		assert.ErrorIs(t, cli.run(ctx, []string{"admin", "createadmin", "-username", "root"}), apperrors.ErrValidationFailed)
	})

	t.Run("read error", func(t *testing.T) {
		cli, _, _ := setup(t, "secret")
		readErr := errors.New("not a terminal")
		readPasswordFunc = func(int) ([]byte, error) { return nil, readErr }
		assert.ErrorIs(t, cli.run(ctx, []string{"admin", "createadmin", "-username", "root"}), readErr)
	})
}

func Test_commandLine_resetpassword(t *testing.T) {
	ctx := context.Background()
	cli, store, _ := setup(t, "first")
	require.NoError(t, cli.run(ctx, []string{"admin", "createadmin", "-username", "root"}))

	readPasswordFunc = func(int) ([]byte, error) { return []byte("second"), nil }
	require.NoError(t, cli.run(ctx, []string{"admin", "resetpassword", "-username", "root"}))

	user, err := store.Users().GetByUsername(ctx, "root")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(user.Password, "second"))

	assert.ErrorIs(t, cli.run(ctx, []string{"admin", "resetpassword", "-username", "ghost"}), apperrors.ErrUserNotFound)
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _, migrations := setup(t, "secret")
	require.NoError(t, cli.run(context.Background(), []string{"admin", "migrate"}))
	assert.Equal(t, 1, *migrations)
}
