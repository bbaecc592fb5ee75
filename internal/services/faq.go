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

type FaqServiceInterface interface {
	GetProducts(ctx context.Context, filter types.Filter) ([]dto.FaqProductDTO, uint64, error)
	// FindProduct returns the product with its items attached.
	FindProduct(ctx context.Context, id uint64) (*dto.FaqProductDTO, error)
	CreateProduct(ctx context.Context, actor *entities.User, payload dto.CreateFaqProductDTO) (*dto.FaqProductDTO, error)
	UpdateProduct(ctx context.Context, actor *entities.User, id uint64, payload dto.UpdateFaqProductDTO) (*dto.FaqProductDTO, error)
	DeleteProduct(ctx context.Context, actor *entities.User, id uint64) error
	CreateItem(ctx context.Context, actor *entities.User, payload dto.CreateFaqItemDTO) (*dto.FaqItemDTO, error)
	UpdateItem(ctx context.Context, actor *entities.User, id uint64, payload dto.UpdateFaqItemDTO) (*dto.FaqItemDTO, error)
	DeleteItem(ctx context.Context, actor *entities.User, id uint64) error
}

type FaqService struct {
	faqRepository repositories.FaqRepositoryInterface
	auditService  AuditLogServiceInterface
	broadcaster   BroadcasterInterface
	logger        *zap.Logger
}

func NewFaqService(
	faqRepository repositories.FaqRepositoryInterface,
	auditService AuditLogServiceInterface,
	broadcaster BroadcasterInterface,
	logger *zap.Logger,
) FaqServiceInterface {
	return &FaqService{
		faqRepository: faqRepository,
		auditService:  auditService,
		broadcaster:   broadcaster,
		logger:        logger,
	}
}

func (s *FaqService) GetProducts(ctx context.Context, filter types.Filter) ([]dto.FaqProductDTO, uint64, error) {
	return s.faqRepository.GetProducts(ctx, filter)
}

func (s *FaqService) FindProduct(ctx context.Context, id uint64) (*dto.FaqProductDTO, error) {
	product, err := s.faqRepository.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.faqRepository.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Items = items
	return product, nil
}

func (s *FaqService) CreateProduct(ctx context.Context, actor *entities.User, payload dto.CreateFaqProductDTO) (*dto.FaqProductDTO, error) {
	created, err := s.faqRepository.CreateProduct(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, actor.ID, "faq_product.create", "faq_product", &created.ID)
	s.broadcaster.Broadcast(ctx, events.FaqProductCreated, created)
	return created, nil
}

func (s *FaqService) UpdateProduct(ctx context.Context, actor *entities.User, id uint64, payload dto.UpdateFaqProductDTO) (*dto.FaqProductDTO, error) {
	var name *string
	if payload.Name.Valid {
		name = &payload.Name.String
	}
	var description *string
	if payload.Description.Valid {
		description = &payload.Description.String
	}

	updated, err := s.faqRepository.UpdateProduct(ctx, id, name, description)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, actor.ID, "faq_product.update", "faq_product", &id)
	s.broadcaster.Broadcast(ctx, events.FaqProductUpdated, updated)
	return updated, nil
}

func (s *FaqService) DeleteProduct(ctx context.Context, actor *entities.User, id uint64) error {
	if err := s.faqRepository.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.auditService.Record(ctx, actor.ID, "faq_product.delete", "faq_product", &id)
	// Items cascade with the product; one event covers the subtree.
	s.broadcaster.Broadcast(ctx, events.FaqProductDeleted, events.DeletedPayload{ID: id})
	return nil
}

func (s *FaqService) CreateItem(ctx context.Context, actor *entities.User, payload dto.CreateFaqItemDTO) (*dto.FaqItemDTO, error) {
	if _, err := s.faqRepository.FindProduct(ctx, payload.ProductID); err != nil {
		return nil, err
	}
	if payload.Position == 0 {
		// Append by default.
		count, err := s.faqRepository.CountItems(ctx, payload.ProductID)
		if err != nil {
			return nil, err
		}
		payload.Position = int(count)
	}

	created, err := s.faqRepository.CreateItem(ctx, payload)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, actor.ID, "faq_item.create", "faq_item", &created.ID)
	s.broadcaster.Broadcast(ctx, events.FaqItemCreated, created)
	return created, nil
}

func (s *FaqService) UpdateItem(ctx context.Context, actor *entities.User, id uint64, payload dto.UpdateFaqItemDTO) (*dto.FaqItemDTO, error) {
	var question *string
	if payload.Question.Valid {
		question = &payload.Question.String
	}
	var answer *string
	if payload.Answer.Valid {
		answer = &payload.Answer.String
	}
	var position *int
	if payload.Position.Valid {
		p := payload.Position.Int
		position = &p
	}

	updated, err := s.faqRepository.UpdateItem(ctx, id, question, answer, position)
	if err != nil {
		return nil, err
	}
	s.auditService.Record(ctx, actor.ID, "faq_item.update", "faq_item", &id)
	s.broadcaster.Broadcast(ctx, events.FaqItemUpdated, updated)
	return updated, nil
}

func (s *FaqService) DeleteItem(ctx context.Context, actor *entities.User, id uint64) error {
	if err := s.faqRepository.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.auditService.Record(ctx, actor.ID, "faq_item.delete", "faq_item", &id)
	s.broadcaster.Broadcast(ctx, events.FaqItemDeleted, events.DeletedPayload{ID: id})
	return nil
}
