package ports

import (
	"context"

	"github.com/bnema/dropwatch/internal/domain"
)

type EventHandler func(ctx context.Context, event domain.Event)

type EventBus interface {
	// Subscribe registers a topic; subscribing an already known topic replaces its handler.
	Subscribe(topic domain.Topic, handler EventHandler) error
	Start(ctx context.Context) error
	Stop() error
}
