package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/avdoshkin/task-manager/internal/storage"
)

func newTestAuthService() (AuthService, *storage.MemorySessionStore) {
	sessions := storage.NewMemorySessionStore()
	svc := NewAuthService(
		zerolog.Nop(),
		storage.NewMemoryUserStore(),
		sessions,
		"task-manager-test",
		[]byte("test-signing-key"),
		15*time.Minute,
		24*time.Hour,
	)
	return svc, sessions
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, LoginParams{
		Username:    "testuser",
		Password:    "testpassword",
		Fingerprint: "fp",
	})
	require.NoError(t, err)
	require.NotEmpty(t, registered.UserID)
	require.Equal(t, "testuser", registered.Username)

	result, err := svc.Login(ctx, LoginParams{
		Username:    "testuser",
		Password:    "testpassword",
		Fingerprint: "fp",
	})
	require.NoError(t, err)
	require.Equal(t, registered.UserID, result.UserID)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)

	// The access token is bound to the session just created.
	claims, err := svc.ParseJWTToken(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, result.SessionID, claims.Subject)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, LoginParams{
		Username:    "testuser",
		Password:    "testpassword",
		Fingerprint: "fp",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginParams{
		Username:    "testuser",
		Password:    "wrongpassword",
		Fingerprint: "fp",
	})
	require.ErrorIs(t, err, ErrUserPasswordMismatch)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Login(context.Background(), LoginParams{
		Username:    "nobody",
		Password:    "testpassword",
		Fingerprint: "fp",
	})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, LoginParams{
		Username:    "testuser",
		Password:    "testpassword",
		Fingerprint: "fp",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, LoginParams{
		Username:    "testuser",
		Password:    "otherpassword",
		Fingerprint: "fp",
	})
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, LoginParams{
		Username:    "testuser",
		Password:    "testpassword",
		Fingerprint: "fp",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, RefreshParams{
		RefreshToken: registered.RefreshToken,
		Fingerprint:  "fp",
	})
	require.NoError(t, err)
	require.Equal(t, registered.SessionID, refreshed.SessionID)
	require.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// The old refresh token no longer resolves.
	_, err = svc.Refresh(ctx, RefreshParams{
		RefreshToken: registered.RefreshToken,
		Fingerprint:  "fp",
	})
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRefreshRejectsForeignFingerprint(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, LoginParams{
		Username:    "testuser",
		Password:    "testpassword",
		Fingerprint: "fp",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, RefreshParams{
		RefreshToken: registered.RefreshToken,
		Fingerprint:  "other-fp",
	})
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLogoutInvalidatesSessions(t *testing.T) {
	svc, sessions := newTestAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, LoginParams{
		Username:    "testuser",
		Password:    "testpassword",
		Fingerprint: "fp",
	})
	require.NoError(t, err)

	err = svc.Logout(ctx, registered.UserID)
	require.NoError(t, err)

	_, err = sessions.GetByID(ctx, registered.SessionID)
	require.ErrorIs(t, err, storage.ErrNotFound)
}
