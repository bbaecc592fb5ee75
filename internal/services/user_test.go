package services

import (
	"context"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/events"
	"customer-portal/pkg/constants"
	apperrors "customer-portal/pkg/errors"
)

func newUserService(users *fakeUserRepo, audit *recordingAudit, broadcaster *recordingBroadcaster) UserServiceInterface {
	return NewUserService(users, audit, broadcaster, zap.NewNop())
}

func TestUpdateUserChangesRole(t *testing.T) {
	users := newFakeUserRepo()
	audit := &recordingAudit{}
	broadcaster := &recordingBroadcaster{}
	admin := users.add(adminActor(0))
	target := users.add(customerActor(0))

	service := newUserService(users, audit, broadcaster)

	updated, err := service.UpdateUser(context.Background(), admin, target.ID, dto.UpdateUserDTO{
		Role: null.StringFrom("moderator"),
	})
	require.NoError(t, err)
	assert.Equal(t, "moderator", updated.Role)

	assert.Equal(t, []string{"user.update"}, audit.Actions())
	assert.Equal(t, []string{events.UserUpdated}, broadcaster.Types())
}

func TestUpdateUserSelfDemotionForbidden(t *testing.T) {
	users := newFakeUserRepo()
	broadcaster := &recordingBroadcaster{}
	admin := users.add(adminActor(0))

	service := newUserService(users, &recordingAudit{}, broadcaster)

	_, err := service.UpdateUser(context.Background(), admin, admin.ID, dto.UpdateUserDTO{
		Role: null.StringFrom("customer"),
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = service.UpdateUser(context.Background(), admin, admin.ID, dto.UpdateUserDTO{
		Active: null.BoolFrom(false),
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	assert.Empty(t, broadcaster.Events())

	// Changing one's own password is still allowed.
	_, err = service.UpdateUser(context.Background(), admin, admin.ID, dto.UpdateUserDTO{
		Password: null.StringFrom("new-password-123"),
	})
	assert.NoError(t, err)
}

func TestUpdateUserRehashesPassword(t *testing.T) {
	users := newFakeUserRepo()
	admin := users.add(adminActor(0))
	target := users.add(customerActor(0))

	service := newUserService(users, &recordingAudit{}, &recordingBroadcaster{})

	_, err := service.UpdateUser(context.Background(), admin, target.ID, dto.UpdateUserDTO{
		Password: null.StringFrom("fresh-password-1"),
	})
	require.NoError(t, err)

	stored, err := users.FindUser(context.Background(), target.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "fresh-password-1", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestUpdateUserNotFound(t *testing.T) {
	users := newFakeUserRepo()
	broadcaster := &recordingBroadcaster{}
	admin := users.add(adminActor(0))

	service := newUserService(users, &recordingAudit{}, broadcaster)

	_, err := service.UpdateUser(context.Background(), admin, 999, dto.UpdateUserDTO{
		Active: null.BoolFrom(false),
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Empty(t, broadcaster.Events())
}

func TestDeleteUser(t *testing.T) {
	users := newFakeUserRepo()
	audit := &recordingAudit{}
	broadcaster := &recordingBroadcaster{}
	admin := users.add(adminActor(0))
	target := users.add(customerActor(0))

	service := newUserService(users, audit, broadcaster)

	require.NoError(t, service.DeleteUser(context.Background(), admin, target.ID))

	_, err := users.FindUser(context.Background(), target.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, []string{"user.delete"}, audit.Actions())

	events := broadcaster.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "user_deleted", events[0].Type)
}

func TestDeleteUserSelfForbidden(t *testing.T) {
	users := newFakeUserRepo()
	broadcaster := &recordingBroadcaster{}
	admin := users.add(adminActor(0))

	service := newUserService(users, &recordingAudit{}, broadcaster)

	err := service.DeleteUser(context.Background(), admin, admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Empty(t, broadcaster.Events())

	_, err = users.FindUser(context.Background(), admin.ID)
	assert.NoError(t, err)
}

func TestUserToDTOStripsHash(t *testing.T) {
	user := customerActor(3)
	user.PasswordHash = "$2a$10$secret"

	result := UserToDTO(user)

	assert.Equal(t, uint64(3), result.ID)
	assert.Equal(t, string(constants.RoleCustomer), result.Role)
	// UserDTO has no password field at all; make sure nothing leaks
	// through the username either.
	assert.NotContains(t, result.Username, "secret")
}
