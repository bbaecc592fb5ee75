package listeners

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"customer-portal/internal/dto"
	"customer-portal/internal/entities"
	"customer-portal/internal/events"
	"customer-portal/pkg/config"
	"customer-portal/pkg/types"
)

type fakeWebhookRepo struct {
	hooks []entities.Webhook
}

func (r *fakeWebhookRepo) GetWebhooks(ctx context.Context, filter types.Filter) ([]dto.WebhookDTO, uint64, error) {
	return nil, 0, nil
}

func (r *fakeWebhookRepo) FindWebhook(ctx context.Context, id uint64) (*dto.WebhookDTO, error) {
	return nil, nil
}

func (r *fakeWebhookRepo) ListActive(ctx context.Context) ([]entities.Webhook, error) {
	active := make([]entities.Webhook, 0, len(r.hooks))
	for _, hook := range r.hooks {
		if hook.Active {
			active = append(active, hook)
		}
	}
	return active, nil
}

func (r *fakeWebhookRepo) CreateWebhook(ctx context.Context, url string, eventTypes []string, createdBy uint64) (*dto.WebhookDTO, error) {
	return nil, nil
}

func (r *fakeWebhookRepo) UpdateWebhook(ctx context.Context, id uint64, url *string, eventTypes []string, active *bool) (*dto.WebhookDTO, error) {
	return nil, nil
}

func (r *fakeWebhookRepo) DeleteWebhook(ctx context.Context, id uint64) error {
	return nil
}

// receivedDelivery captures what an endpoint was sent.
type receivedDelivery struct {
	mu     sync.Mutex
	bodies [][]byte
}

func (d *receivedDelivery) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		d.mu.Lock()
		d.bodies = append(d.bodies, body)
		d.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (d *receivedDelivery) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.bodies)
}

func newListener(repo *fakeWebhookRepo) *WebhookListener {
	return NewWebhookListener(repo, config.WebhookConfig{Timeout: 5 * time.Second}, zap.NewNop())
}

func TestHandleDeliversToSubscribedEndpoint(t *testing.T) {
	received := &receivedDelivery{}
	server := httptest.NewServer(received.handler())
	defer server.Close()

	repo := &fakeWebhookRepo{hooks: []entities.Webhook{
		{ID: 1, URL: server.URL, EventTypes: []string{events.FileUploaded}, Active: true},
	}}
	listener := newListener(repo)

	payload := map[string]interface{}{"id": float64(7), "name": "manual"}
	err := listener.Handle(context.Background(), events.NewDomainEvent(events.FileUploaded, payload))
	require.NoError(t, err)
	require.Equal(t, 1, received.count())

	var delivery struct {
		Event     string                 `json:"event"`
		Timestamp string                 `json:"timestamp"`
		Data      map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(received.bodies[0], &delivery))
	assert.Equal(t, events.FileUploaded, delivery.Event)
	assert.Equal(t, payload, delivery.Data)
	_, err = time.Parse(time.RFC3339, delivery.Timestamp)
	assert.NoError(t, err)
}

func TestHandleSkipsUnsubscribedEndpoint(t *testing.T) {
	received := &receivedDelivery{}
	server := httptest.NewServer(received.handler())
	defer server.Close()

	repo := &fakeWebhookRepo{hooks: []entities.Webhook{
		{ID: 1, URL: server.URL, EventTypes: []string{events.TagCreated}, Active: true},
	}}
	listener := newListener(repo)

	err := listener.Handle(context.Background(), events.NewDomainEvent(events.FileUploaded, nil))
	require.NoError(t, err)
	assert.Zero(t, received.count())
}

func TestHandleEmptySubscriptionMatchesEverything(t *testing.T) {
	received := &receivedDelivery{}
	server := httptest.NewServer(received.handler())
	defer server.Close()

	repo := &fakeWebhookRepo{hooks: []entities.Webhook{
		{ID: 1, URL: server.URL, Active: true},
	}}
	listener := newListener(repo)

	require.NoError(t, listener.Handle(context.Background(), events.NewDomainEvent(events.TagCreated, nil)))
	require.NoError(t, listener.Handle(context.Background(), events.NewDomainEvent(events.UserDeleted, nil)))
	assert.Equal(t, 2, received.count())
}

func TestHandleDeadEndpointDoesNotFail(t *testing.T) {
	repo := &fakeWebhookRepo{hooks: []entities.Webhook{
		{ID: 1, URL: "http://127.0.0.1:1/unreachable", Active: true},
	}}
	listener := newListener(repo)

	// Fire-and-forget: the failure is logged, not returned.
	err := listener.Handle(context.Background(), events.NewDomainEvent(events.TagCreated, nil))
	assert.NoError(t, err)
}

func TestPrivateEventsAreNotDeliverable(t *testing.T) {
	private := []string{
		events.DirectMessage,
		events.NotificationFanout,
		events.NotificationRead,
		events.NotificationDeleted,
	}
	for _, eventType := range private {
		assert.NotContains(t, deliverableEvents, eventType)
	}
}
