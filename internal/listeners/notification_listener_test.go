package listeners

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/entities"
	"customer-portal/internal/events"
	"customer-portal/internal/repositories"
)

// activeUsersRepo only answers ListActiveUserIDs; the listener touches
// nothing else.
type activeUsersRepo struct {
	repositories.UserRepositoryInterface
	ids []uint64
}

func (r *activeUsersRepo) ListActiveUserIDs(ctx context.Context) ([]uint64, error) {
	return r.ids, nil
}

type recordedFanout struct {
	UserIDs []uint64
	Title   string
	Kind    string
}

type fakeNotificationService struct {
	fanouts []recordedFanout
}

func (s *fakeNotificationService) Fanout(ctx context.Context, userIDs []uint64, title, body, kind string, relatedEntityID *uint64) error {
	s.fanouts = append(s.fanouts, recordedFanout{UserIDs: userIDs, Title: title, Kind: kind})
	return nil
}

func (s *fakeNotificationService) GetByUser(ctx context.Context, userID uint64, limit, offset int) ([]dto.NotificationDTO, uint64, error) {
	return nil, 0, nil
}

func (s *fakeNotificationService) MarkRead(ctx context.Context, actor *entities.User, id uint64) (*dto.NotificationDTO, error) {
	return nil, nil
}

func (s *fakeNotificationService) MarkAllRead(ctx context.Context, actor *entities.User) error {
	return nil
}

func (s *fakeNotificationService) Delete(ctx context.Context, actor *entities.User, id uint64) error {
	return nil
}

func TestHandleAnnouncementFansOutToActiveUsers(t *testing.T) {
	users := &activeUsersRepo{ids: []uint64{1, 4, 9}}
	notifications := &fakeNotificationService{}
	listener := NewNotificationListener(users, notifications, zap.NewNop())

	announcement := &dto.AnnouncementDTO{ID: 3, Title: "Scheduled maintenance", Body: "Friday 22:00 UTC"}
	err := listener.HandleAnnouncement(context.Background(), events.NewDomainEvent(events.AnnouncementCreated, announcement))
	require.NoError(t, err)

	require.Len(t, notifications.fanouts, 1)
	assert.Equal(t, []uint64{1, 4, 9}, notifications.fanouts[0].UserIDs)
	assert.Equal(t, "Scheduled maintenance", notifications.fanouts[0].Title)
	assert.Equal(t, "announcement", notifications.fanouts[0].Kind)
}

func TestHandleAnnouncementRejectsForeignPayload(t *testing.T) {
	listener := NewNotificationListener(&activeUsersRepo{}, &fakeNotificationService{}, zap.NewNop())

	err := listener.HandleAnnouncement(context.Background(), events.NewDomainEvent(events.AnnouncementCreated, "not an announcement"))
	assert.Error(t, err)
}
