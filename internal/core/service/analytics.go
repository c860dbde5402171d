package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/ports"
)

const analyticsRowLimit = 20

// AnalyticsService exposes the admin read-models. It is a thin layer over
// the aggregation repository; its only logic is bounding result sizes.
type AnalyticsService struct {
	repo ports.AnalyticsRepository
	log  zerolog.Logger
}

func NewAnalyticsService(repo ports.AnalyticsRepository, log zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, log: log}
}

func (s *AnalyticsService) PostsPerUser(ctx context.Context, limit int) ([]ports.PostsPerUserRow, error) {
	return s.repo.PostsPerUser(ctx, boundLimit(limit))
}

func (s *AnalyticsService) CommentsPerPost(ctx context.Context, limit int) ([]ports.CommentsPerPostRow, error) {
	return s.repo.CommentsPerPost(ctx, boundLimit(limit))
}

func (s *AnalyticsService) CommentsInRange(ctx context.Context, from, to time.Time) (int64, error) {
	return s.repo.CommentsInRange(ctx, from, to)
}

func boundLimit(limit int) int {
	if limit < 1 || limit > analyticsRowLimit {
		return analyticsRowLimit
	}
	return limit
}
