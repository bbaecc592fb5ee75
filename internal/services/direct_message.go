package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/entities"
	"customer-portal/internal/events"
	"customer-portal/internal/repositories"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/types"
)

type DirectMessageServiceInterface interface {
	// Send stores the message and pushes it only to sender and
	// recipient; other connections never see it.
	Send(ctx context.Context, actor *entities.User, payload dto.SendDirectMessageDTO) (*dto.DirectMessageDTO, error)
	GetConversation(ctx context.Context, actor *entities.User, peerID uint64, filter types.Filter) ([]dto.DirectMessageDTO, uint64, error)
	CountUnread(ctx context.Context, actor *entities.User) (uint64, error)
}

type DirectMessageService struct {
	messageRepository repositories.DirectMessageRepositoryInterface
	userRepository    repositories.UserRepositoryInterface
	broadcaster       BroadcasterInterface
	logger            *zap.Logger
}

func NewDirectMessageService(
	messageRepository repositories.DirectMessageRepositoryInterface,
	userRepository repositories.UserRepositoryInterface,
	broadcaster BroadcasterInterface,
	logger *zap.Logger,
) DirectMessageServiceInterface {
	return &DirectMessageService{
		messageRepository: messageRepository,
		userRepository:    userRepository,
		broadcaster:       broadcaster,
		logger:            logger,
	}
}

func (s *DirectMessageService) Send(ctx context.Context, actor *entities.User, payload dto.SendDirectMessageDTO) (*dto.DirectMessageDTO, error) {
	if payload.RecipientID == actor.ID {
		return nil, apperrors.ErrBadRequest
	}
	recipient, err := s.userRepository.FindUser(ctx, payload.RecipientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrBadRequest
		}
		return nil, err
	}
	if !recipient.Active {
		return nil, apperrors.ErrBadRequest
	}

	message, err := s.messageRepository.Create(ctx, actor.ID, payload.RecipientID, payload.Body)
	if err != nil {
		return nil, err
	}

	s.broadcaster.NotifyUsers(ctx, []uint64{actor.ID, payload.RecipientID}, events.DirectMessage, message)
	return message, nil
}

func (s *DirectMessageService) GetConversation(ctx context.Context, actor *entities.User, peerID uint64, filter types.Filter) ([]dto.DirectMessageDTO, uint64, error) {
	messages, total, err := s.messageRepository.GetConversation(ctx, actor.ID, peerID, filter)
	if err != nil {
		return nil, 0, err
	}
	// Reading the conversation marks the peer's messages as read.
	if err := s.messageRepository.MarkConversationRead(ctx, actor.ID, peerID); err != nil {
		s.logger.Error("mark conversation read failed", zap.Uint64("peer_id", peerID), zap.Error(err))
	}
	return messages, total, nil
}

func (s *DirectMessageService) CountUnread(ctx context.Context, actor *entities.User) (uint64, error) {
	return s.messageRepository.CountUnread(ctx, actor.ID)
}
