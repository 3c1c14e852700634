package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/fitness-tracker/internal/auth"
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (AuthService, UserService, *auth.TokenCodec) {
	t.Helper()
	credentials, err := NewCredentialPolicy(PasswordStorageBcrypt)
	require.NoError(t, err)
	users := NewUserService(memory.NewUserRepository(), credentials, DefaultPaging)
	codec := auth.NewTokenCodec("test-secret")
	admin := AdminCredentials{Enabled: true, Username: "admin", Password: "admin123"}
	return NewAuthService(users, credentials, codec, admin, time.Hour), users, codec
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc, users, codec := newAuthFixture(t)
	_, err := users.CreateUser(ctx, CreateUserInput{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantRole string
		wantErr  error
	}{
		{name: "admin pair", username: "admin", password: "admin123", wantRole: "admin"},
		{name: "stored user", username: "alice", password: "secret1", wantRole: "user"},
		{name: "wrong password", username: "alice", password: "nope", wantErr: ErrAuthenticationFailed},
		{name: "unknown user", username: "mallory", password: "secret1", wantErr: ErrAuthenticationFailed},
		{name: "admin wrong password", username: "admin", password: "admin", wantErr: ErrAuthenticationFailed},
		{name: "empty credentials", wantErr: ErrAuthenticationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := svc.Login(ctx, tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			id, err := codec.Verify(token)
			require.NoError(t, err)
			assert.Equal(t, tt.username, id.Subject)
			assert.Equal(t, tt.wantRole, id.Role)
		})
	}
}

func TestAuthService_AdminLoginRejectsStoredUsers(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newAuthFixture(t)
	_, err := users.CreateUser(ctx, CreateUserInput{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.AdminLogin(ctx, "bob", "secret1")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	token, err := svc.AdminLogin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestAuthService_DisabledAdmin(t *testing.T) {
	credentials := plainCredentials(t)
	users := NewUserService(memory.NewUserRepository(), credentials, DefaultPaging)
	svc := NewAuthService(users, credentials, auth.NewTokenCodec(""), AdminCredentials{Username: "admin", Password: "admin123"}, 0)

	_, err := svc.Login(context.Background(), "admin", "admin123")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestAuthService_RegisterForcesUserRole(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthFixture(t)

	user, err := svc.Register(ctx, RegisterInput{Username: "newbie", Email: "newbie@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)

	_, err = svc.Register(ctx, RegisterInput{Username: "newbie", Email: "other@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrConflict)

	token, err := svc.Login(ctx, "newbie", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
