package services

import (
	"context"

	"go.uber.org/zap"

	"customer-portal/internal/events"
	"customer-portal/pkg/eventbus"
	"customer-portal/pkg/websocket"
)

// BroadcasterInterface is how services announce committed mutations.
// Broadcast fans an event out to every connected client and hands it to
// the in-process bus for async listeners (webhook delivery, fan-out).
// NotifyUsers delivers only to the named users' connections.
type BroadcasterInterface interface {
	Broadcast(ctx context.Context, eventType string, payload interface{})
	NotifyUsers(ctx context.Context, userIDs []uint64, eventType string, payload interface{})
}

type hubBroadcaster struct {
	hub    *websocket.Hub
	bus    *eventbus.Bus
	logger *zap.Logger
}

func NewBroadcaster(hub *websocket.Hub, bus *eventbus.Bus, logger *zap.Logger) BroadcasterInterface {
	return &hubBroadcaster{hub: hub, bus: bus, logger: logger}
}

func (b *hubBroadcaster) Broadcast(ctx context.Context, eventType string, payload interface{}) {
	if err := b.hub.Broadcast(eventType, payload); err != nil {
		// A failed broadcast never fails the request: the mutation is
		// already committed.
		b.logger.Error("broadcast failed", zap.String("event", eventType), zap.Error(err))
	}
	b.bus.Publish(ctx, events.NewDomainEvent(eventType, payload))
}

func (b *hubBroadcaster) NotifyUsers(ctx context.Context, userIDs []uint64, eventType string, payload interface{}) {
	if len(userIDs) == 0 {
		return
	}
	if err := b.hub.SendToUsers(userIDs, eventType, payload); err != nil {
		b.logger.Error("targeted send failed", zap.String("event", eventType), zap.Error(err))
	}
	b.bus.Publish(ctx, events.NewDomainEvent(eventType, payload))
}
