package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/events"
	apperrors "customer-portal/pkg/errors"
)

var hexCodeRe = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestCreateInviteCode(t *testing.T) {
	invites := newFakeInviteRepo()
	audit := &recordingAudit{}
	broadcaster := &recordingBroadcaster{}
	service := NewInviteCodeService(invites, audit, broadcaster, zap.NewNop())
	admin := adminActor(1)

	created, err := service.CreateInviteCode(context.Background(), admin, dto.CreateInviteCodeDTO{Role: "moderator"})
	require.NoError(t, err)

	assert.Regexp(t, hexCodeRe, created.Code)
	assert.Equal(t, "moderator", created.Role)
	assert.Equal(t, admin.ID, created.CreatedBy)

	assert.Equal(t, []string{"invite_code.create"}, audit.Actions())
	assert.Equal(t, []string{events.InviteCodeCreated}, broadcaster.Types())
}

func TestCreateInviteCodesAreUnique(t *testing.T) {
	invites := newFakeInviteRepo()
	service := NewInviteCodeService(invites, &recordingAudit{}, &recordingBroadcaster{}, zap.NewNop())
	admin := adminActor(1)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		created, err := service.CreateInviteCode(context.Background(), admin, dto.CreateInviteCodeDTO{Role: "customer"})
		require.NoError(t, err)
		assert.False(t, seen[created.Code], "duplicate code %s", created.Code)
		seen[created.Code] = true
	}
}

func TestDeleteInviteCode(t *testing.T) {
	invites := newFakeInviteRepo()
	broadcaster := &recordingBroadcaster{}
	service := NewInviteCodeService(invites, &recordingAudit{}, broadcaster, zap.NewNop())
	admin := adminActor(1)

	created, err := service.CreateInviteCode(context.Background(), admin, dto.CreateInviteCodeDTO{Role: "customer"})
	require.NoError(t, err)

	require.NoError(t, service.DeleteInviteCode(context.Background(), admin, created.ID))
	assert.Equal(t, []string{events.InviteCodeCreated, events.InviteCodeDeleted}, broadcaster.Types())

	err = service.DeleteInviteCode(context.Background(), admin, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
