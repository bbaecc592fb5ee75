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

type CollectionServiceInterface interface {
	GetCollections(ctx context.Context, filter types.Filter) ([]dto.CollectionDTO, uint64, error)
	FindCollection(ctx context.Context, id uint64) (*dto.CollectionDTO, error)
	CreateCollection(ctx context.Context, actor *entities.User, payload dto.CreateCollectionDTO) (*dto.CollectionDTO, error)
	UpdateCollection(ctx context.Context, actor *entities.User, id uint64, payload dto.UpdateCollectionDTO) (*dto.CollectionDTO, error)
	DeleteCollection(ctx context.Context, actor *entities.User, id uint64) error
	AddFile(ctx context.Context, actor *entities.User, collectionID, fileID uint64) (*dto.CollectionDTO, error)
	RemoveFile(ctx context.Context, actor *entities.User, collectionID, fileID uint64) (*dto.CollectionDTO, error)
}

type CollectionService struct {
	collectionRepository repositories.CollectionRepositoryInterface
	fileRepository       repositories.FileRepositoryInterface
	auditService         AuditLogServiceInterface
	broadcaster          BroadcasterInterface
	logger               *zap.Logger
}

func NewCollectionService(
	collectionRepository repositories.CollectionRepositoryInterface,
	fileRepository repositories.FileRepositoryInterface,
	auditService AuditLogServiceInterface,
	broadcaster BroadcasterInterface,
	logger *zap.Logger,
) CollectionServiceInterface {
	return &CollectionService{
		collectionRepository: collectionRepository,
		fileRepository:       fileRepository,
		auditService:         auditService,
		broadcaster:          broadcaster,
		logger:               logger,
	}
}

func (s *CollectionService) GetCollections(ctx context.Context, filter types.Filter) ([]dto.CollectionDTO, uint64, error) {
	return s.collectionRepository.GetCollections(ctx, filter)
}

func (s *CollectionService) FindCollection(ctx context.Context, id uint64) (*dto.CollectionDTO, error) {
	return s.collectionRepository.FindCollection(ctx, id)
}

func (s *CollectionService) CreateCollection(ctx context.Context, actor *entities.User, payload dto.CreateCollectionDTO) (*dto.CollectionDTO, error) {
	// Membership references real files only.
	for _, fileID := range payload.FileIDs {
		if _, err := s.fileRepository.FindFile(ctx, fileID); err != nil {
			return nil, err
		}
	}

	created, err := s.collectionRepository.CreateCollection(ctx, payload, actor.ID)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, actor.ID, "collection.create", "collection", &created.ID)
	s.broadcaster.Broadcast(ctx, events.CollectionCreated, created)
	return created, nil
}

func (s *CollectionService) UpdateCollection(ctx context.Context, actor *entities.User, id uint64, payload dto.UpdateCollectionDTO) (*dto.CollectionDTO, error) {
	var name *string
	if payload.Name.Valid {
		name = &payload.Name.String
	}
	var description *string
	if payload.Description.Valid {
		description = &payload.Description.String
	}

	updated, err := s.collectionRepository.UpdateCollection(ctx, id, name, description)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, actor.ID, "collection.update", "collection", &id)
	s.broadcaster.Broadcast(ctx, events.CollectionUpdated, updated)
	return updated, nil
}

func (s *CollectionService) DeleteCollection(ctx context.Context, actor *entities.User, id uint64) error {
	if err := s.collectionRepository.DeleteCollection(ctx, id); err != nil {
		return err
	}
	s.auditService.Record(ctx, actor.ID, "collection.delete", "collection", &id)
	s.broadcaster.Broadcast(ctx, events.CollectionDeleted, events.DeletedPayload{ID: id})
	return nil
}

func (s *CollectionService) AddFile(ctx context.Context, actor *entities.User, collectionID, fileID uint64) (*dto.CollectionDTO, error) {
	if _, err := s.fileRepository.FindFile(ctx, fileID); err != nil {
		return nil, err
	}
	if err := s.collectionRepository.AddFile(ctx, collectionID, fileID); err != nil {
		return nil, err
	}

	updated, err := s.collectionRepository.FindCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, actor.ID, "collection.add_file", "collection", &collectionID)
	s.broadcaster.Broadcast(ctx, events.CollectionUpdated, updated)
	return updated, nil
}

func (s *CollectionService) RemoveFile(ctx context.Context, actor *entities.User, collectionID, fileID uint64) (*dto.CollectionDTO, error) {
	if err := s.collectionRepository.RemoveFile(ctx, collectionID, fileID); err != nil {
		return nil, err
	}

	updated, err := s.collectionRepository.FindCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, actor.ID, "collection.remove_file", "collection", &collectionID)
	s.broadcaster.Broadcast(ctx, events.CollectionUpdated, updated)
	return updated, nil
}
