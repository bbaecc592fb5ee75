package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/events"
	"customer-portal/internal/repositories"
	"customer-portal/internal/services"
	"customer-portal/pkg/eventbus"
)

// NotificationListener turns a new announcement into one notification
// per active user, off the request path.
type NotificationListener struct {
	userRepository      repositories.UserRepositoryInterface
	notificationService services.NotificationServiceInterface
	logger              *zap.Logger
}

func NewNotificationListener(
	userRepository repositories.UserRepositoryInterface,
	notificationService services.NotificationServiceInterface,
	logger *zap.Logger,
) *NotificationListener {
	return &NotificationListener{
		userRepository:      userRepository,
		notificationService: notificationService,
		logger:              logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.AnnouncementCreated, l.HandleAnnouncement)
}

func (l *NotificationListener) HandleAnnouncement(ctx context.Context, event eventbus.Event) error {
	domainEvent, ok := event.(events.DomainEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload type for %q", event.Name())
	}
	announcement, ok := domainEvent.Payload.(*dto.AnnouncementDTO)
	if !ok {
		return fmt.Errorf("unexpected payload for announcement event")
	}

	userIDs, err := l.userRepository.ListActiveUserIDs(ctx)
	if err != nil {
		return err
	}

	return l.notificationService.Fanout(ctx, userIDs,
		announcement.Title, announcement.Body, "announcement", &announcement.ID)
}
