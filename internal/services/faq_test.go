package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/events"
	apperrors "customer-portal/pkg/errors"
	"customer-portal/pkg/types"
)

type fakeFaqRepo struct {
	mu       sync.Mutex
	nextID   uint64
	products map[uint64]*dto.FaqProductDTO
	items    map[uint64]*dto.FaqItemDTO
}

func newFakeFaqRepo() *fakeFaqRepo {
	return &fakeFaqRepo{
		products: make(map[uint64]*dto.FaqProductDTO),
		items:    make(map[uint64]*dto.FaqItemDTO),
	}
}

func (r *fakeFaqRepo) GetProducts(ctx context.Context, filter types.Filter) ([]dto.FaqProductDTO, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dto.FaqProductDTO, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeFaqRepo) FindProduct(ctx context.Context, id uint64) (*dto.FaqProductDTO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeFaqRepo) CreateProduct(ctx context.Context, payload dto.CreateFaqProductDTO) (*dto.FaqProductDTO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p := &dto.FaqProductDTO{ID: r.nextID, Name: payload.Name, Description: payload.Description}
	r.products[p.ID] = p
	copied := *p
	return &copied, nil
}

func (r *fakeFaqRepo) UpdateProduct(ctx context.Context, id uint64, name, description *string) (*dto.FaqProductDTO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if name != nil {
		p.Name = *name
	}
	if description != nil {
		p.Description = *description
	}
	copied := *p
	return &copied, nil
}

func (r *fakeFaqRepo) DeleteProduct(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.products, id)
	// Items cascade with the product.
	for itemID, item := range r.items {
		if item.ProductID == id {
			delete(r.items, itemID)
		}
	}
	return nil
}

func (r *fakeFaqRepo) GetItems(ctx context.Context, productID uint64) ([]dto.FaqItemDTO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]dto.FaqItemDTO, 0)
	for _, item := range r.items {
		if item.ProductID == productID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeFaqRepo) FindItem(ctx context.Context, id uint64) (*dto.FaqItemDTO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeFaqRepo) CreateItem(ctx context.Context, payload dto.CreateFaqItemDTO) (*dto.FaqItemDTO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	item := &dto.FaqItemDTO{
		ID: r.nextID, ProductID: payload.ProductID,
		Question: payload.Question, Answer: payload.Answer, Position: payload.Position,
	}
	r.items[item.ID] = item
	copied := *item
	return &copied, nil
}

func (r *fakeFaqRepo) UpdateItem(ctx context.Context, id uint64, question, answer *string, position *int) (*dto.FaqItemDTO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if question != nil {
		item.Question = *question
	}
	if answer != nil {
		item.Answer = *answer
	}
	if position != nil {
		item.Position = *position
	}
	copied := *item
	return &copied, nil
}

func (r *fakeFaqRepo) DeleteItem(ctx context.Context, id uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeFaqRepo) CountItems(ctx context.Context, productID uint64) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count uint64
	for _, item := range r.items {
		if item.ProductID == productID {
			count++
		}
	}
	return count, nil
}

func newFaqService(repo *fakeFaqRepo, broadcaster *recordingBroadcaster) FaqServiceInterface {
	return NewFaqService(repo, &recordingAudit{}, broadcaster, zap.NewNop())
}

func TestFindProductAttachesItems(t *testing.T) {
	repo := newFakeFaqRepo()
	service := newFaqService(repo, &recordingBroadcaster{})
	actor := adminActor(1)

	product, err := service.CreateProduct(context.Background(), actor, dto.CreateFaqProductDTO{Name: "Router X"})
	require.NoError(t, err)
	_, err = service.CreateItem(context.Background(), actor, dto.CreateFaqItemDTO{
		ProductID: product.ID, Question: "How do I reset it?", Answer: "Hold the button.",
	})
	require.NoError(t, err)

	found, err := service.FindProduct(context.Background(), product.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "How do I reset it?", found.Items[0].Question)
}

func TestCreateItemAppendsByDefault(t *testing.T) {
	repo := newFakeFaqRepo()
	service := newFaqService(repo, &recordingBroadcaster{})
	actor := adminActor(1)

	product, err := service.CreateProduct(context.Background(), actor, dto.CreateFaqProductDTO{Name: "Router X"})
	require.NoError(t, err)

	first, err := service.CreateItem(context.Background(), actor, dto.CreateFaqItemDTO{
		ProductID: product.ID, Question: "q1", Answer: "a1",
	})
	require.NoError(t, err)
	second, err := service.CreateItem(context.Background(), actor, dto.CreateFaqItemDTO{
		ProductID: product.ID, Question: "q2", Answer: "a2",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)

	// An explicit position is respected.
	pinned, err := service.CreateItem(context.Background(), actor, dto.CreateFaqItemDTO{
		ProductID: product.ID, Question: "q3", Answer: "a3", Position: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, pinned.Position)
}

func TestCreateItemUnknownProduct(t *testing.T) {
	service := newFaqService(newFakeFaqRepo(), &recordingBroadcaster{})

	_, err := service.CreateItem(context.Background(), adminActor(1), dto.CreateFaqItemDTO{
		ProductID: 42, Question: "q", Answer: "a",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteProductCascadeEmitsSingleEvent(t *testing.T) {
	repo := newFakeFaqRepo()
	broadcaster := &recordingBroadcaster{}
	service := newFaqService(repo, broadcaster)
	actor := adminActor(1)

	product, err := service.CreateProduct(context.Background(), actor, dto.CreateFaqProductDTO{Name: "Router X"})
	require.NoError(t, err)
	_, err = service.CreateItem(context.Background(), actor, dto.CreateFaqItemDTO{
		ProductID: product.ID, Question: "q1", Answer: "a1",
	})
	require.NoError(t, err)

	before := len(broadcaster.Events())
	require.NoError(t, service.DeleteProduct(context.Background(), actor, product.ID))

	// One event for the whole subtree, not one per cascaded item.
	recorded := broadcaster.Events()
	require.Len(t, recorded, before+1)
	assert.Equal(t, events.FaqProductDeleted, recorded[len(recorded)-1].Type)

	items, err := repo.GetItems(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
