package ledger

import (
	"context"

	"github.com/MrJorgx/PracticasExt/internal/domain/shared"
	"go.uber.org/zap"
)

// publishEvents publishes the pending events of the given aggregates after
// the write has been committed. A failing publisher never fails the
// operation; the error is logged.
func publishEvents(ctx context.Context, publisher shared.EventPublisher, log *zap.Logger, aggregates ...shared.AggregateRoot) {
	for _, agg := range aggregates {
		events := agg.GetDomainEvents()
		agg.ClearDomainEvents()
		if publisher == nil || len(events) == 0 {
			continue
		}
		if err := publisher.Publish(ctx, events...); err != nil {
			log.Warn("failed to publish domain events",
				zap.String("event_type", events[0].EventType()),
				zap.String("aggregate_id", events[0].AggregateID()),
				zap.Error(err),
			)
		}
	}
}
