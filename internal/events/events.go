package events

// Push-channel event types. For every entity with create/update/delete
// operations the portal emits <entity>_created / <entity>_updated /
// <entity>_deleted with the record as payload, or {id} for deletes.
const (
	UserCreated = "user_created"
	UserUpdated = "user_updated"
	UserDeleted = "user_deleted"

	InviteCodeCreated = "invite_code_created"
	InviteCodeUsed    = "invite_code_used"
	InviteCodeDeleted = "invite_code_deleted"

	FileUploaded = "file_uploaded"
	FileUpdated  = "file_updated"
	FileDeleted  = "file_deleted"

	DownloadRecorded = "download_recorded"

	FaqProductCreated = "faq_product_created"
	FaqProductUpdated = "faq_product_updated"
	FaqProductDeleted = "faq_product_deleted"
	FaqItemCreated    = "faq_item_created"
	FaqItemUpdated    = "faq_item_updated"
	FaqItemDeleted    = "faq_item_deleted"

	AnnouncementCreated = "announcement_created"
	AnnouncementUpdated = "announcement_updated"
	AnnouncementDeleted = "announcement_deleted"

	NotificationFanout  = "notification_fanout"
	NotificationRead    = "notification_read"
	NotificationDeleted = "notification_deleted"

	TagCreated = "tag_created"
	TagUpdated = "tag_updated"
	TagDeleted = "tag_deleted"

	CollectionCreated = "collection_created"
	CollectionUpdated = "collection_updated"
	CollectionDeleted = "collection_deleted"

	ForumThreadCreated = "forum_thread_created"
	ForumThreadDeleted = "forum_thread_deleted"
	ForumPostCreated   = "forum_post_created"
	ForumPostDeleted   = "forum_post_deleted"

	DirectMessage = "direct_message"

	WebhookCreated = "webhook_created"
	WebhookUpdated = "webhook_updated"
	WebhookDeleted = "webhook_deleted"
)

// DeletedPayload is the broadcast payload for delete events.
type DeletedPayload struct {
	ID uint64 `json:"id"`
}

// FanoutPayload enumerates the users a cross-cutting event affects so
// clients can decide relevance.
type FanoutPayload struct {
	UserIDs []uint64 `json:"userIds"`
	Kind    string   `json:"kind"`
}

// DomainEvent is published on the in-process bus after a mutation has
// committed; listeners (webhook delivery, notification fan-out) consume
// it asynchronously.
type DomainEvent struct {
	Type    string
	Payload interface{}
}

func (e DomainEvent) Name() string { return e.Type }

// NewDomainEvent wraps an already-broadcast push event for bus listeners.
func NewDomainEvent(eventType string, payload interface{}) DomainEvent {
	return DomainEvent{Type: eventType, Payload: payload}
}
