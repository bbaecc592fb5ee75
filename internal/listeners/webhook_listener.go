package listeners

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"customer-portal/internal/events"
	"customer-portal/internal/repositories"
	"customer-portal/pkg/config"
	"customer-portal/pkg/eventbus"
)

// deliverableEvents is the set of event types offered to webhook
// subscriptions. Targeted events (direct messages, per-user
// notifications) are deliberately excluded: they carry private payloads.
var deliverableEvents = []string{
	events.UserCreated,
	events.UserUpdated,
	events.UserDeleted,
	events.InviteCodeCreated,
	events.InviteCodeUsed,
	events.InviteCodeDeleted,
	events.FileUploaded,
	events.FileUpdated,
	events.FileDeleted,
	events.DownloadRecorded,
	events.FaqProductCreated,
	events.FaqProductUpdated,
	events.FaqProductDeleted,
	events.FaqItemCreated,
	events.FaqItemUpdated,
	events.FaqItemDeleted,
	events.AnnouncementCreated,
	events.AnnouncementUpdated,
	events.AnnouncementDeleted,
	events.TagCreated,
	events.TagUpdated,
	events.TagDeleted,
	events.CollectionCreated,
	events.CollectionUpdated,
	events.CollectionDeleted,
	events.ForumThreadCreated,
	events.ForumThreadDeleted,
	events.ForumPostCreated,
	events.ForumPostDeleted,
}

type webhookDelivery struct {
	Event     string      `json:"event"`
	Timestamp string      `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// WebhookListener POSTs committed events to registered endpoints.
// Delivery is fire-and-forget: a dead endpoint is logged and skipped.
type WebhookListener struct {
	webhookRepository repositories.WebhookRepositoryInterface
	client            *http.Client
	logger            *zap.Logger
}

func NewWebhookListener(
	webhookRepository repositories.WebhookRepositoryInterface,
	webhookConfig config.WebhookConfig,
	logger *zap.Logger,
) *WebhookListener {
	return &WebhookListener{
		webhookRepository: webhookRepository,
		client:            &http.Client{Timeout: webhookConfig.Timeout},
		logger:            logger,
	}
}

// Register subscribes the listener to every deliverable event type.
func (l *WebhookListener) Register(bus *eventbus.Bus) {
	for _, eventType := range deliverableEvents {
		bus.Subscribe(eventType, l.Handle)
	}
}

func (l *WebhookListener) Handle(ctx context.Context, event eventbus.Event) error {
	domainEvent, ok := event.(events.DomainEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload type for %q", event.Name())
	}

	webhooks, err := l.webhookRepository.ListActive(ctx)
	if err != nil {
		return err
	}

	body, err := json.Marshal(webhookDelivery{
		Event:     domainEvent.Type,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      domainEvent.Payload,
	})
	if err != nil {
		return err
	}

	for _, hook := range webhooks {
		if !hook.Matches(domainEvent.Type) {
			continue
		}
		if err := l.deliver(ctx, hook.URL, body); err != nil {
			l.logger.Warn("webhook delivery failed",
				zap.Uint64("webhook_id", hook.ID),
				zap.String("event", domainEvent.Type),
				zap.Error(err))
		}
	}
	return nil
}

func (l *WebhookListener) deliver(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("endpoint returned %d", resp.StatusCode)
	}
	return nil
}
