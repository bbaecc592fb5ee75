package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/entities"
	"customer-portal/internal/events"
	"customer-portal/internal/repositories"
	"customer-portal/pkg/constants"
	"customer-portal/pkg/types"
)

type InviteCodeServiceInterface interface {
	GetInviteCodes(ctx context.Context, filter types.Filter) ([]dto.InviteCodeDTO, uint64, error)
	CreateInviteCode(ctx context.Context, actor *entities.User, payload dto.CreateInviteCodeDTO) (*dto.InviteCodeDTO, error)
	DeleteInviteCode(ctx context.Context, actor *entities.User, id uint64) error
}

type InviteCodeService struct {
	inviteRepository repositories.InviteCodeRepositoryInterface
	auditService     AuditLogServiceInterface
	broadcaster      BroadcasterInterface
	logger           *zap.Logger
}

func NewInviteCodeService(
	inviteRepository repositories.InviteCodeRepositoryInterface,
	auditService AuditLogServiceInterface,
	broadcaster BroadcasterInterface,
	logger *zap.Logger,
) InviteCodeServiceInterface {
	return &InviteCodeService{
		inviteRepository: inviteRepository,
		auditService:     auditService,
		broadcaster:      broadcaster,
		logger:           logger,
	}
}

// generateCode returns a 32-hex-char random code.
func generateCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *InviteCodeService) GetInviteCodes(ctx context.Context, filter types.Filter) ([]dto.InviteCodeDTO, uint64, error) {
	return s.inviteRepository.GetInviteCodes(ctx, filter)
}

func (s *InviteCodeService) CreateInviteCode(ctx context.Context, actor *entities.User, payload dto.CreateInviteCodeDTO) (*dto.InviteCodeDTO, error) {
	code, err := generateCode()
	if err != nil {
		return nil, err
	}
	created, err := s.inviteRepository.CreateInviteCode(ctx, code, constants.Role(payload.Role), actor.ID)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, actor.ID, "invite_code.create", "invite_code", &created.ID)
	s.broadcaster.Broadcast(ctx, events.InviteCodeCreated, created)
	return created, nil
}

func (s *InviteCodeService) DeleteInviteCode(ctx context.Context, actor *entities.User, id uint64) error {
	if err := s.inviteRepository.DeleteInviteCode(ctx, id); err != nil {
		return err
	}
	s.auditService.Record(ctx, actor.ID, "invite_code.delete", "invite_code", &id)
	s.broadcaster.Broadcast(ctx, events.InviteCodeDeleted, events.DeletedPayload{ID: id})
	return nil
}
