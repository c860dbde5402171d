package ports

import (
	"context"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
)

// EngagementRepository persists engagement events to the audit collection.
type EngagementRepository interface {
	InsertEvent(ctx context.Context, event *domain.EngagementEvent) error
}

// EngagementService processes a single engagement event. Implementations are
// invoked by the dispatcher workers, one event at a time per post.
type EngagementService interface {
	Process(ctx context.Context, event domain.EngagementEvent) error
}

// EngagementSink is the producer-side contract: feed services enqueue events
// without blocking on persistence.
type EngagementSink interface {
	Enqueue(event domain.EngagementEvent)
}
