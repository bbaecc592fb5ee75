package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/entities"
	"customer-portal/internal/events"
	"customer-portal/pkg/config"
	"customer-portal/pkg/constants"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/utils"
)

func newAuthService(users *fakeUserRepo, invites *fakeInviteRepo, sessions *fakeSessionRepo, broadcaster *recordingBroadcaster) AuthServiceInterface {
	return NewAuthService(
		users,
		invites,
		sessions,
		fakeTxManager{},
		broadcaster,
		config.SessionConfig{CookieName: "portal_session", TTL: 7 * 24 * time.Hour},
		zap.NewNop(),
	)
}

func TestRegisterRoleComesFromInviteCode(t *testing.T) {
	users := newFakeUserRepo()
	invites := newFakeInviteRepo()
	broadcaster := &recordingBroadcaster{}
	invites.add("CODE-MOD", constants.RoleModerator)

	service := newAuthService(users, invites, newFakeSessionRepo(), broadcaster)

	created, err := service.Register(context.Background(), dto.RegisterDTO{
		Username:   "newmod",
		Password:   "long-enough-password",
		InviteCode: "CODE-MOD",
	})
	require.NoError(t, err)

	// The role is dictated by the code, whatever the client sent.
	assert.Equal(t, "moderator", created.Role)
	assert.True(t, created.Active)

	stored, err := users.FindByUsername(context.Background(), "newmod")
	require.NoError(t, err)
	assert.Equal(t, constants.RoleModerator, stored.Role)
	assert.NotEqual(t, "long-enough-password", stored.PasswordHash)

	assert.Equal(t, []string{events.UserCreated, events.InviteCodeUsed}, broadcaster.Types())
}

func TestRegisterUsedCodeRejected(t *testing.T) {
	users := newFakeUserRepo()
	invites := newFakeInviteRepo()
	broadcaster := &recordingBroadcaster{}
	invites.add("CODE-1", constants.RoleCustomer)

	service := newAuthService(users, invites, newFakeSessionRepo(), broadcaster)

	_, err := service.Register(context.Background(), dto.RegisterDTO{
		Username: "first", Password: "password-one", InviteCode: "CODE-1",
	})
	require.NoError(t, err)

	_, err = service.Register(context.Background(), dto.RegisterDTO{
		Username: "second", Password: "password-two", InviteCode: "CODE-1",
	})
	assert.ErrorIs(t, err, apperrors.ErrInviteCodeUsed)

	// The failed registration must not emit events.
	assert.Len(t, broadcaster.Events(), 2)
}

func TestRegisterUnknownCodeRejected(t *testing.T) {
	broadcaster := &recordingBroadcaster{}
	service := newAuthService(newFakeUserRepo(), newFakeInviteRepo(), newFakeSessionRepo(), broadcaster)

	_, err := service.Register(context.Background(), dto.RegisterDTO{
		Username: "nobody", Password: "password-one", InviteCode: "NOPE",
	})
	assert.ErrorIs(t, err, apperrors.ErrInviteCodeInvalid)
	assert.Empty(t, broadcaster.Events())
}

func TestRegisterDuplicateUsername(t *testing.T) {
	users := newFakeUserRepo()
	invites := newFakeInviteRepo()
	broadcaster := &recordingBroadcaster{}
	users.add(customerActor(0))
	invites.add("CODE-1", constants.RoleCustomer)

	service := newAuthService(users, invites, newFakeSessionRepo(), broadcaster)

	_, err := service.Register(context.Background(), dto.RegisterDTO{
		Username: "customer", Password: "password-one", InviteCode: "CODE-1",
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Empty(t, broadcaster.Events())
}

func TestLoginSuccessCreatesSession(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	hash, err := utils.HashPassword("correct horse")
	require.NoError(t, err)
	user := customerActor(0)
	user.PasswordHash = hash
	users.add(user)

	service := newAuthService(users, newFakeInviteRepo(), sessions, &recordingBroadcaster{})

	token, result, err := service.Login(context.Background(), dto.LoginDTO{Username: "customer", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "customer", result.Username)

	userID, err := sessions.GetUserID(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, 7*24*time.Hour, sessions.lastTTL)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	users := newFakeUserRepo()
	hash, err := utils.HashPassword("correct horse")
	require.NoError(t, err)

	active := customerActor(0)
	active.PasswordHash = hash
	users.add(active)

	users.add(&entities.User{Username: "disabled", PasswordHash: hash, Role: constants.RoleCustomer, Active: false})

	service := newAuthService(users, newFakeInviteRepo(), newFakeSessionRepo(), &recordingBroadcaster{})

	cases := []dto.LoginDTO{
		{Username: "ghost", Password: "correct horse"},     // unknown user
		{Username: "customer", Password: "wrong"},          // bad password
		{Username: "disabled", Password: "correct horse"},  // deactivated account
	}
	for _, payload := range cases {
		_, _, err := service.Login(context.Background(), payload)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials, "login %q", payload.Username)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	sessions := newFakeSessionRepo()
	require.NoError(t, sessions.Create(context.Background(), "tok", 5, time.Hour))

	service := newAuthService(newFakeUserRepo(), newFakeInviteRepo(), sessions, &recordingBroadcaster{})

	require.NoError(t, service.Logout(context.Background(), "tok"))
	_, err := sessions.GetUserID(context.Background(), "tok")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestResolveSession(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	user := users.add(customerActor(0))
	require.NoError(t, sessions.Create(context.Background(), "tok", user.ID, time.Hour))

	service := newAuthService(users, newFakeInviteRepo(), sessions, &recordingBroadcaster{})

	resolved, err := service.ResolveSession(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	_, err = service.ResolveSession(context.Background(), "unknown")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestResolveSessionForDeletedUser(t *testing.T) {
	users := newFakeUserRepo()
	sessions := newFakeSessionRepo()
	user := users.add(customerActor(0))
	require.NoError(t, sessions.Create(context.Background(), "tok", user.ID, time.Hour))
	require.NoError(t, users.DeleteUser(context.Background(), user.ID))

	service := newAuthService(users, newFakeInviteRepo(), sessions, &recordingBroadcaster{})

	_, err := service.ResolveSession(context.Background(), "tok")
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}
