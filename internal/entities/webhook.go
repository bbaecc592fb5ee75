package entities

import (
	"database/sql"
	"time"
)

// Webhook is an admin-registered HTTP endpoint subscribed to a set of
// event types. Deliveries are fire-and-forget.
type Webhook struct {
	ID         uint64
	URL        string
	EventTypes []string
	Active     bool
	CreatedBy  uint64
	CreatedAt  time.Time
	UpdatedAt  sql.NullTime
}

// Matches reports whether the webhook subscribes to the event type. An
// empty subscription list means every event.
func (w *Webhook) Matches(eventType string) bool {
	if !w.Active {
		return false
	}
	if len(w.EventTypes) == 0 {
		return true
	}
	for _, t := range w.EventTypes {
		if t == eventType {
			return true
		}
	}
	return false
}
