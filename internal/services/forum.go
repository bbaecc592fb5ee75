package services

import (
	"context"

	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/entities"
	"customer-portal/internal/events"
	"customer-portal/internal/repositories"
	"customer-portal/pkg/constants"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/types"
)

type ForumServiceInterface interface {
	GetThreads(ctx context.Context, filter types.Filter) ([]dto.ForumThreadDTO, uint64, error)
	FindThread(ctx context.Context, id uint64) (*dto.ForumThreadDTO, error)
	CreateThread(ctx context.Context, actor *entities.User, payload dto.CreateForumThreadDTO) (*dto.ForumThreadDTO, error)
	// DeleteThread is allowed for moderators, admins, and the author.
	DeleteThread(ctx context.Context, actor *entities.User, id uint64) error
	GetPosts(ctx context.Context, threadID uint64, filter types.Filter) ([]dto.ForumPostDTO, uint64, error)
	CreatePost(ctx context.Context, actor *entities.User, threadID uint64, payload dto.CreateForumPostDTO) (*dto.ForumPostDTO, error)
	DeletePost(ctx context.Context, actor *entities.User, id uint64) error
}

type ForumService struct {
	forumRepository repositories.ForumRepositoryInterface
	broadcaster     BroadcasterInterface
	logger          *zap.Logger
}

func NewForumService(
	forumRepository repositories.ForumRepositoryInterface,
	broadcaster BroadcasterInterface,
	logger *zap.Logger,
) ForumServiceInterface {
	return &ForumService{
		forumRepository: forumRepository,
		broadcaster:     broadcaster,
		logger:          logger,
	}
}

func canModerate(actor *entities.User, authorID uint64) bool {
	return actor.ID == authorID || actor.Role.In(constants.RoleAdmin, constants.RoleModerator)
}

func (s *ForumService) GetThreads(ctx context.Context, filter types.Filter) ([]dto.ForumThreadDTO, uint64, error) {
	return s.forumRepository.GetThreads(ctx, filter)
}

func (s *ForumService) FindThread(ctx context.Context, id uint64) (*dto.ForumThreadDTO, error) {
	return s.forumRepository.FindThread(ctx, id)
}

func (s *ForumService) CreateThread(ctx context.Context, actor *entities.User, payload dto.CreateForumThreadDTO) (*dto.ForumThreadDTO, error) {
	created, err := s.forumRepository.CreateThread(ctx, payload.Title, payload.Body, actor.ID)
	if err != nil {
		return nil, err
	}
	s.broadcaster.Broadcast(ctx, events.ForumThreadCreated, created)
	return created, nil
}

func (s *ForumService) DeleteThread(ctx context.Context, actor *entities.User, id uint64) error {
	thread, err := s.forumRepository.FindThread(ctx, id)
	if err != nil {
		return err
	}
	if !canModerate(actor, thread.CreatedBy) {
		return apperrors.ErrForbidden
	}
	if err := s.forumRepository.DeleteThread(ctx, id); err != nil {
		return err
	}
	s.broadcaster.Broadcast(ctx, events.ForumThreadDeleted, events.DeletedPayload{ID: id})
	return nil
}

func (s *ForumService) GetPosts(ctx context.Context, threadID uint64, filter types.Filter) ([]dto.ForumPostDTO, uint64, error) {
	if _, err := s.forumRepository.FindThread(ctx, threadID); err != nil {
		return nil, 0, err
	}
	return s.forumRepository.GetPosts(ctx, threadID, filter)
}

func (s *ForumService) CreatePost(ctx context.Context, actor *entities.User, threadID uint64, payload dto.CreateForumPostDTO) (*dto.ForumPostDTO, error) {
	if _, err := s.forumRepository.FindThread(ctx, threadID); err != nil {
		return nil, err
	}
	created, err := s.forumRepository.CreatePost(ctx, threadID, payload.Body, actor.ID)
	if err != nil {
		return nil, err
	}
	s.broadcaster.Broadcast(ctx, events.ForumPostCreated, created)
	return created, nil
}

func (s *ForumService) DeletePost(ctx context.Context, actor *entities.User, id uint64) error {
	post, err := s.forumRepository.FindPost(ctx, id)
	if err != nil {
		return err
	}
	if !canModerate(actor, post.CreatedBy) {
		return apperrors.ErrForbidden
	}
	if err := s.forumRepository.DeletePost(ctx, id); err != nil {
		return err
	}
	s.broadcaster.Broadcast(ctx, events.ForumPostDeleted, events.DeletedPayload{ID: id})
	return nil
}
