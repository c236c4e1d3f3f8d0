package realtime

import (
	"context"

	"github.com/alchemorsel/mealplan/internal/domain/shared"
	"go.uber.org/zap"
)

// Publishers fans events out to several publishers in order
type Publishers []shared.EventPublisher

// Publish implements shared.EventPublisher
func (p Publishers) Publish(ctx context.Context, events ...shared.DomainEvent) {
	for _, publisher := range p {
		publisher.Publish(ctx, events...)
	}
}

// LogPublisher records every domain event at debug level
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a log publisher
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.Named("events")}
}

// Publish implements shared.EventPublisher
func (p *LogPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) {
	for _, event := range events {
		fields := []zap.Field{
			zap.String("event", event.EventName()),
			zap.Time("occurred_at", event.OccurredAt()),
		}
		if scoped, ok := event.(shared.UserScopedEvent); ok {
			fields = append(fields, zap.Uint("user_id", scoped.OwnerID()))
		}
		p.logger.Debug("Domain event", fields...)
	}
}
