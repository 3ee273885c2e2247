package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/charvi/app/services"
	"github.com/shashiranjanraj/charvi/app/store"
)

func newAuthService(t *testing.T) *services.AuthService {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return services.NewAuthService(fs)
}

func TestEnsureDefaultAdminBootstraps(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaultAdmin(ctx))

	admin, err := svc.Login(ctx, services.DefaultAdminUsername, services.DefaultAdminPassword)
	require.NoError(t, err)
	assert.Equal(t, services.DefaultAdminUsername, admin.Username)
	assert.NotEmpty(t, admin.ID)

	// Running it again must not create a second seed admin or error.
	require.NoError(t, svc.EnsureDefaultAdmin(ctx))
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	require.NoError(t, svc.EnsureDefaultAdmin(ctx))

	_, unknownUser := svc.Login(ctx, "nobody", "whatever")
	_, wrongPassword := svc.Login(ctx, services.DefaultAdminUsername, "wrong")

	assert.ErrorIs(t, unknownUser, services.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassword, services.ErrInvalidCredentials)
	// Same sentinel both ways, nothing reveals which half failed.
	assert.Equal(t, unknownUser.Error(), wrongPassword.Error())
}

func TestIssueTokenRoundTrip(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()
	require.NoError(t, svc.EnsureDefaultAdmin(ctx))

	admin, err := svc.Login(ctx, services.DefaultAdminUsername, services.DefaultAdminPassword)
	require.NoError(t, err)

	token, err := svc.IssueToken(admin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}
