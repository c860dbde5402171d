package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/ports"
)

type engagementService struct {
	repo ports.EngagementRepository
	log  zerolog.Logger
}

// NewEngagementService returns the EngagementService run by the dispatcher
// workers. Processing is append-only: each event lands in the audit
// collection that the analytics read-models aggregate over.
func NewEngagementService(repo ports.EngagementRepository, log zerolog.Logger) ports.EngagementService {
	return &engagementService{repo: repo, log: log}
}

func (s *engagementService) Process(ctx context.Context, event domain.EngagementEvent) error {
	if event.PostID == "" || event.Kind == "" {
		return fmt.Errorf("process engagement: incomplete event %+v", event)
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("process engagement: %w", err)
	}

	s.log.Debug().
		Str("kind", string(event.Kind)).
		Str("post_id", event.PostID).
		Str("actor_id", event.ActorID).
		Msg("engagement event recorded")

	return nil
}
