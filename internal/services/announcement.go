package services

import (
	"context"

	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/entities"
	"customer-portal/internal/events"
	"customer-portal/internal/repositories"
	"customer-portal/pkg/types"
)

type AnnouncementServiceInterface interface {
	GetAnnouncements(ctx context.Context, filter types.Filter) ([]dto.AnnouncementDTO, uint64, error)
	FindAnnouncement(ctx context.Context, id uint64) (*dto.AnnouncementDTO, error)
	// CreateAnnouncement also triggers the per-user notification
	// fan-out through the bus listener.
	CreateAnnouncement(ctx context.Context, actor *entities.User, payload dto.CreateAnnouncementDTO) (*dto.AnnouncementDTO, error)
	UpdateAnnouncement(ctx context.Context, actor *entities.User, id uint64, payload dto.UpdateAnnouncementDTO) (*dto.AnnouncementDTO, error)
	DeleteAnnouncement(ctx context.Context, actor *entities.User, id uint64) error
}

type AnnouncementService struct {
	announcementRepository repositories.AnnouncementRepositoryInterface
	auditService           AuditLogServiceInterface
	broadcaster            BroadcasterInterface
	logger                 *zap.Logger
}

func NewAnnouncementService(
	announcementRepository repositories.AnnouncementRepositoryInterface,
	auditService AuditLogServiceInterface,
	broadcaster BroadcasterInterface,
	logger *zap.Logger,
) AnnouncementServiceInterface {
	return &AnnouncementService{
		announcementRepository: announcementRepository,
		auditService:           auditService,
		broadcaster:            broadcaster,
		logger:                 logger,
	}
}

func (s *AnnouncementService) GetAnnouncements(ctx context.Context, filter types.Filter) ([]dto.AnnouncementDTO, uint64, error) {
	return s.announcementRepository.GetAnnouncements(ctx, filter)
}

func (s *AnnouncementService) FindAnnouncement(ctx context.Context, id uint64) (*dto.AnnouncementDTO, error) {
	return s.announcementRepository.FindAnnouncement(ctx, id)
}

func (s *AnnouncementService) CreateAnnouncement(ctx context.Context, actor *entities.User, payload dto.CreateAnnouncementDTO) (*dto.AnnouncementDTO, error) {
	created, err := s.announcementRepository.CreateAnnouncement(ctx, payload, actor.ID)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, actor.ID, "announcement.create", "announcement", &created.ID)
	s.broadcaster.Broadcast(ctx, events.AnnouncementCreated, created)
	return created, nil
}

func (s *AnnouncementService) UpdateAnnouncement(ctx context.Context, actor *entities.User, id uint64, payload dto.UpdateAnnouncementDTO) (*dto.AnnouncementDTO, error) {
	var title *string
	if payload.Title.Valid {
		title = &payload.Title.String
	}
	var body *string
	if payload.Body.Valid {
		body = &payload.Body.String
	}

	updated, err := s.announcementRepository.UpdateAnnouncement(ctx, id, title, body)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, actor.ID, "announcement.update", "announcement", &id)
	s.broadcaster.Broadcast(ctx, events.AnnouncementUpdated, updated)
	return updated, nil
}

func (s *AnnouncementService) DeleteAnnouncement(ctx context.Context, actor *entities.User, id uint64) error {
	if err := s.announcementRepository.DeleteAnnouncement(ctx, id); err != nil {
		return err
	}
	s.auditService.Record(ctx, actor.ID, "announcement.delete", "announcement", &id)
	s.broadcaster.Broadcast(ctx, events.AnnouncementDeleted, events.DeletedPayload{ID: id})
	return nil
}
