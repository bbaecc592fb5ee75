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

type WebhookServiceInterface interface {
	GetWebhooks(ctx context.Context, filter types.Filter) ([]dto.WebhookDTO, uint64, error)
	FindWebhook(ctx context.Context, id uint64) (*dto.WebhookDTO, error)
	CreateWebhook(ctx context.Context, actor *entities.User, payload dto.CreateWebhookDTO) (*dto.WebhookDTO, error)
	UpdateWebhook(ctx context.Context, actor *entities.User, id uint64, payload dto.UpdateWebhookDTO) (*dto.WebhookDTO, error)
	DeleteWebhook(ctx context.Context, actor *entities.User, id uint64) error
}

type WebhookService struct {
	webhookRepository repositories.WebhookRepositoryInterface
	auditService      AuditLogServiceInterface
	broadcaster       BroadcasterInterface
	logger            *zap.Logger
}

func NewWebhookService(
	webhookRepository repositories.WebhookRepositoryInterface,
	auditService AuditLogServiceInterface,
	broadcaster BroadcasterInterface,
	logger *zap.Logger,
) WebhookServiceInterface {
	return &WebhookService{
		webhookRepository: webhookRepository,
		auditService:      auditService,
		broadcaster:       broadcaster,
		logger:            logger,
	}
}

func (s *WebhookService) GetWebhooks(ctx context.Context, filter types.Filter) ([]dto.WebhookDTO, uint64, error) {
	return s.webhookRepository.GetWebhooks(ctx, filter)
}

func (s *WebhookService) FindWebhook(ctx context.Context, id uint64) (*dto.WebhookDTO, error) {
	return s.webhookRepository.FindWebhook(ctx, id)
}

func (s *WebhookService) CreateWebhook(ctx context.Context, actor *entities.User, payload dto.CreateWebhookDTO) (*dto.WebhookDTO, error) {
	created, err := s.webhookRepository.CreateWebhook(ctx, payload.URL, payload.EventTypes, actor.ID)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, actor.ID, "webhook.create", "webhook", &created.ID)
	s.broadcaster.Broadcast(ctx, events.WebhookCreated, created)
	return created, nil
}

func (s *WebhookService) UpdateWebhook(ctx context.Context, actor *entities.User, id uint64, payload dto.UpdateWebhookDTO) (*dto.WebhookDTO, error) {
	var url *string
	if payload.URL.Valid {
		url = &payload.URL.String
	}
	var active *bool
	if payload.Active.Valid {
		active = &payload.Active.Bool
	}

	updated, err := s.webhookRepository.UpdateWebhook(ctx, id, url, payload.EventTypes, active)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, actor.ID, "webhook.update", "webhook", &id)
	s.broadcaster.Broadcast(ctx, events.WebhookUpdated, updated)
	return updated, nil
}

func (s *WebhookService) DeleteWebhook(ctx context.Context, actor *entities.User, id uint64) error {
	if err := s.webhookRepository.DeleteWebhook(ctx, id); err != nil {
		return err
	}
	s.auditService.Record(ctx, actor.ID, "webhook.delete", "webhook", &id)
	s.broadcaster.Broadcast(ctx, events.WebhookDeleted, events.DeletedPayload{ID: id})
	return nil
}
