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

type TagServiceInterface interface {
	GetTags(ctx context.Context, filter types.Filter) ([]dto.TagDTO, uint64, error)
	FindTag(ctx context.Context, id uint64) (*dto.TagDTO, error)
	CreateTag(ctx context.Context, actor *entities.User, payload dto.CreateTagDTO) (*dto.TagDTO, error)
	UpdateTag(ctx context.Context, actor *entities.User, id uint64, payload dto.UpdateTagDTO) (*dto.TagDTO, error)
	DeleteTag(ctx context.Context, actor *entities.User, id uint64) error
}

type TagService struct {
	tagRepository repositories.TagRepositoryInterface
	auditService  AuditLogServiceInterface
	broadcaster   BroadcasterInterface
	logger        *zap.Logger
}

func NewTagService(
	tagRepository repositories.TagRepositoryInterface,
	auditService AuditLogServiceInterface,
	broadcaster BroadcasterInterface,
	logger *zap.Logger,
) TagServiceInterface {
	return &TagService{
		tagRepository: tagRepository,
		auditService:  auditService,
		broadcaster:   broadcaster,
		logger:        logger,
	}
}

func (s *TagService) GetTags(ctx context.Context, filter types.Filter) ([]dto.TagDTO, uint64, error) {
	return s.tagRepository.GetTags(ctx, filter)
}

func (s *TagService) FindTag(ctx context.Context, id uint64) (*dto.TagDTO, error) {
	return s.tagRepository.FindTag(ctx, id)
}

func (s *TagService) CreateTag(ctx context.Context, actor *entities.User, payload dto.CreateTagDTO) (*dto.TagDTO, error) {
	created, err := s.tagRepository.CreateTag(ctx, payload.Name)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, actor.ID, "tag.create", "tag", &created.ID)
	s.broadcaster.Broadcast(ctx, events.TagCreated, created)
	return created, nil
}

func (s *TagService) UpdateTag(ctx context.Context, actor *entities.User, id uint64, payload dto.UpdateTagDTO) (*dto.TagDTO, error) {
	if !payload.Name.Valid {
		return s.tagRepository.FindTag(ctx, id)
	}
	updated, err := s.tagRepository.UpdateTag(ctx, id, payload.Name.String)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, actor.ID, "tag.update", "tag", &id)
	s.broadcaster.Broadcast(ctx, events.TagUpdated, updated)
	return updated, nil
}

func (s *TagService) DeleteTag(ctx context.Context, actor *entities.User, id uint64) error {
	if err := s.tagRepository.DeleteTag(ctx, id); err != nil {
		return err
	}
	s.auditService.Record(ctx, actor.ID, "tag.delete", "tag", &id)
	s.broadcaster.Broadcast(ctx, events.TagDeleted, events.DeletedPayload{ID: id})
	return nil
}
