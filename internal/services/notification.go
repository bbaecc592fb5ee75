package services

import (
	"context"

	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/entities"
	"customer-portal/internal/events"
	"customer-portal/internal/repositories"
)

type NotificationServiceInterface interface {
	// Fanout stores one notification per user and pushes a targeted
	// event so only the affected users invalidate their caches.
	Fanout(ctx context.Context, userIDs []uint64, title, body, kind string, relatedEntityID *uint64) error
	GetByUser(ctx context.Context, userID uint64, limit, offset int) ([]dto.NotificationDTO, uint64, error)
	MarkRead(ctx context.Context, actor *entities.User, id uint64) (*dto.NotificationDTO, error)
	MarkAllRead(ctx context.Context, actor *entities.User) error
	Delete(ctx context.Context, actor *entities.User, id uint64) error
}

type NotificationService struct {
	notificationRepository repositories.NotificationRepositoryInterface
	broadcaster            BroadcasterInterface
	logger                 *zap.Logger
}

func NewNotificationService(
	notificationRepository repositories.NotificationRepositoryInterface,
	broadcaster BroadcasterInterface,
	logger *zap.Logger,
) NotificationServiceInterface {
	return &NotificationService{
		notificationRepository: notificationRepository,
		broadcaster:            broadcaster,
		logger:                 logger,
	}
}

func (s *NotificationService) Fanout(ctx context.Context, userIDs []uint64, title, body, kind string, relatedEntityID *uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	if err := s.notificationRepository.CreateForUsers(ctx, userIDs, title, body, kind, relatedEntityID); err != nil {
		return err
	}
	s.broadcaster.NotifyUsers(ctx, userIDs, events.NotificationFanout, events.FanoutPayload{
		UserIDs: userIDs,
		Kind:    kind,
	})
	return nil
}

func (s *NotificationService) GetByUser(ctx context.Context, userID uint64, limit, offset int) ([]dto.NotificationDTO, uint64, error) {
	return s.notificationRepository.GetByUser(ctx, userID, limit, offset)
}

func (s *NotificationService) MarkRead(ctx context.Context, actor *entities.User, id uint64) (*dto.NotificationDTO, error) {
	updated, err := s.notificationRepository.MarkRead(ctx, id, actor.ID)
	if err != nil {
		return nil, err
	}
	s.broadcaster.NotifyUsers(ctx, []uint64{actor.ID}, events.NotificationRead, updated)
	return updated, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor *entities.User) error {
	if err := s.notificationRepository.MarkAllRead(ctx, actor.ID); err != nil {
		return err
	}
	s.broadcaster.NotifyUsers(ctx, []uint64{actor.ID}, events.NotificationRead, events.FanoutPayload{
		UserIDs: []uint64{actor.ID},
		Kind:    "all_read",
	})
	return nil
}

func (s *NotificationService) Delete(ctx context.Context, actor *entities.User, id uint64) error {
	if err := s.notificationRepository.Delete(ctx, id, actor.ID); err != nil {
		return err
	}
	s.broadcaster.NotifyUsers(ctx, []uint64{actor.ID}, events.NotificationDeleted, events.DeletedPayload{ID: id})
	return nil
}
