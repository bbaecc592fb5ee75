// Package realtime is the client side of the push channel: a dispatcher
// that maps received events to cached-query invalidations, and a
// connection wrapper with automatic reconnect.
//
// Events carry no deltas. Recovery from a missed event is always a full
// refetch of the invalidated queries, which keeps the protocol
// self-healing without delivery guarantees.
package realtime

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Cache is the consumer-side query cache the dispatcher invalidates.
// Invalidation must be idempotent.
type Cache interface {
	Invalidate(key string)
}

// Cache keys for the portal's cached queries.
const (
	KeyFiles           = "files"
	KeyAdminFiles      = "admin_files"
	KeyStats           = "stats"
	KeyUsers           = "users"
	KeyInviteCodes     = "invite_codes"
	KeyFaq             = "faq"
	KeyAnnouncements   = "announcements"
	KeyNotifications   = "notifications"
	KeyTags            = "tags"
	KeyCollections     = "collections"
	KeyForum           = "forum"
	KeyDirectMessages  = "direct_messages"
	KeyDownloadHistory = "download_history"
	KeyWebhooks        = "webhooks"
)

// invalidations is the static mapping from event type to the cache keys
// it stales. Unknown event types are ignored (forward-compatible).
var invalidations = map[string][]string{
	"user_created": {KeyUsers, KeyStats},
	"user_updated": {KeyUsers},
	"user_deleted": {KeyUsers, KeyStats},

	"invite_code_created": {KeyInviteCodes},
	"invite_code_used":    {KeyInviteCodes, KeyUsers},
	"invite_code_deleted": {KeyInviteCodes},

	"file_uploaded": {KeyFiles, KeyAdminFiles, KeyStats},
	"file_updated":  {KeyFiles, KeyAdminFiles},
	"file_deleted":  {KeyFiles, KeyAdminFiles, KeyStats},

	"download_recorded": {KeyDownloadHistory, KeyStats},

	"faq_product_created": {KeyFaq},
	"faq_product_updated": {KeyFaq},
	"faq_product_deleted": {KeyFaq},
	"faq_item_created":    {KeyFaq},
	"faq_item_updated":    {KeyFaq},
	"faq_item_deleted":    {KeyFaq},

	"announcement_created": {KeyAnnouncements},
	"announcement_updated": {KeyAnnouncements},
	"announcement_deleted": {KeyAnnouncements},

	"notification_fanout":  {KeyNotifications},
	"notification_read":    {KeyNotifications},
	"notification_deleted": {KeyNotifications},

	"tag_created": {KeyTags},
	"tag_updated": {KeyTags, KeyFiles, KeyAdminFiles},
	"tag_deleted": {KeyTags, KeyFiles, KeyAdminFiles},

	"collection_created": {KeyCollections},
	"collection_updated": {KeyCollections},
	"collection_deleted": {KeyCollections},

	"forum_thread_created": {KeyForum},
	"forum_thread_deleted": {KeyForum},
	"forum_post_created":   {KeyForum},
	"forum_post_deleted":   {KeyForum},

	"direct_message": {KeyDirectMessages},

	"webhook_created": {KeyWebhooks},
	"webhook_updated": {KeyWebhooks},
	"webhook_deleted": {KeyWebhooks},
}

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Dispatcher turns raw push-channel frames into cache invalidations.
// Processing is synchronous per message.
type Dispatcher struct {
	cache  Cache
	logger *zap.Logger
	// OnEvent, when set, also receives every decoded event.
	OnEvent func(eventType string, data json.RawMessage)
}

func NewDispatcher(cache Cache, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{cache: cache, logger: logger}
}

// Dispatch decodes one frame and invalidates the mapped cache keys. A
// malformed frame is logged and dropped; it never stops the receive loop.
func (d *Dispatcher) Dispatch(message []byte) {
	var env envelope
	if err := json.Unmarshal(message, &env); err != nil {
		d.logger.Warn("dropping malformed realtime frame", zap.Error(err))
		return
	}

	keys, ok := invalidations[env.Type]
	if !ok {
		d.logger.Debug("ignoring unknown event type", zap.String("type", env.Type))
		return
	}
	for _, key := range keys {
		d.cache.Invalidate(key)
	}

	if d.OnEvent != nil {
		d.OnEvent(env.Type, env.Data)
	}
}

// InvalidationKeys exposes the mapping for one event type.
func InvalidationKeys(eventType string) []string {
	return invalidations[eventType]
}
