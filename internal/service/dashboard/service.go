package dashboard

import (
	"context"
	"math"

	"mentorhub/pkg/logger"
)

const recentActivityLimit = 5

type Service struct {
	repo   Repository
	logger logger.Logger
}

func NewService(repo Repository, logger logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetStats computes the dashboard projection for a user. Any underlying
// query failure degrades to a zero-valued stats object instead of an error:
// an empty dashboard beats a broken page. This is the only place errors are
// swallowed; the fallback is logged.
func (s *Service) GetStats(ctx context.Context, userID string) *Stats {
	role, err := s.repo.GetUserRole(ctx, userID)
	if err != nil {
		return s.fallback(ctx, userID, err)
	}
	isMentor := role == "mentor"

	sessions, err := s.repo.CountSessions(ctx, userID, isMentor)
	if err != nil {
		return s.fallback(ctx, userID, err)
	}

	connections, err := s.repo.CountDistinctCounterparts(ctx, userID, isMentor)
	if err != nil {
		return s.fallback(ctx, userID, err)
	}

	minutes, err := s.repo.SumSessionMinutes(ctx, userID, isMentor)
	if err != nil {
		return s.fallback(ctx, userID, err)
	}

	avg, err := s.repo.AverageReceivedRating(ctx, userID)
	if err != nil {
		return s.fallback(ctx, userID, err)
	}

	return &Stats{
		TotalSessions:     sessions,
		ActiveConnections: connections,
		TotalHours:        math.Round(float64(minutes)/60*10) / 10,
		AverageRating:     math.Round(avg*10) / 10,
		Role:              role,
	}
}

func (s *Service) fallback(ctx context.Context, userID string, err error) *Stats {
	s.logger.Warn(ctx, "dashboard stats degraded to zero values",
		logger.Field{Key: "user_id", Value: userID},
		logger.Field{Key: "error", Value: err},
	)
	return &Stats{Role: "mentee"}
}

// GetRecentActivity returns the user's newest bookings for the activity
// feed. Failures degrade to an empty feed, same policy as GetStats.
func (s *Service) GetRecentActivity(ctx context.Context, userID string) []*Activity {
	role, err := s.repo.GetUserRole(ctx, userID)
	if err != nil {
		s.logger.Warn(ctx, "recent activity degraded to empty",
			logger.Field{Key: "user_id", Value: userID},
			logger.Field{Key: "error", Value: err},
		)
		return []*Activity{}
	}

	activities, err := s.repo.RecentBookings(ctx, userID, role == "mentor", recentActivityLimit)
	if err != nil {
		s.logger.Warn(ctx, "recent activity degraded to empty",
			logger.Field{Key: "user_id", Value: userID},
			logger.Field{Key: "error", Value: err},
		)
		return []*Activity{}
	}

	return activities
}
