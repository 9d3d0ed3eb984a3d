package dashboard

import (
	"context"
	"errors"
	"testing"

	"mentorhub/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	role    string
	roleErr error

	sessions    int
	sessionsErr error

	counterparts int
	minutes      int
	minutesErr   error
	avgRating    float64

	recent    []*Activity
	recentErr error
}

func (f *fakeRepo) GetUserRole(ctx context.Context, userID string) (string, error) {
	return f.role, f.roleErr
}

func (f *fakeRepo) CountSessions(ctx context.Context, userID string, isMentor bool) (int, error) {
	return f.sessions, f.sessionsErr
}

func (f *fakeRepo) CountDistinctCounterparts(ctx context.Context, userID string, isMentor bool) (int, error) {
	return f.counterparts, nil
}

func (f *fakeRepo) SumSessionMinutes(ctx context.Context, userID string, isMentor bool) (int, error) {
	return f.minutes, f.minutesErr
}

func (f *fakeRepo) AverageReceivedRating(ctx context.Context, userID string) (float64, error) {
	return f.avgRating, nil
}

func (f *fakeRepo) RecentBookings(ctx context.Context, userID string, isMentor bool, limit int) ([]*Activity, error) {
	return f.recent, f.recentErr
}

func TestGetStats(t *testing.T) {
	t.Run("computes the projection", func(t *testing.T) {
		repo := &fakeRepo{
			role:         "mentor",
			sessions:     12,
			counterparts: 7,
			minutes:      1530, // 25.5 hours
			avgRating:    4.666,
		}
		s := NewService(repo, logger.Nop())

		stats := s.GetStats(context.Background(), "user-1")
		require.NotNil(t, stats)
		assert.Equal(t, 12, stats.TotalSessions)
		assert.Equal(t, 7, stats.ActiveConnections)
		assert.Equal(t, 25.5, stats.TotalHours)
		assert.Equal(t, 4.7, stats.AverageRating)
		assert.Equal(t, "mentor", stats.Role)
	})

	t.Run("any failure degrades to zero values", func(t *testing.T) {
		boom := errors.New("db down")

		for name, repo := range map[string]*fakeRepo{
			"role":     {roleErr: boom},
			"sessions": {role: "mentor", sessionsErr: boom},
			"minutes":  {role: "mentee", minutesErr: boom},
		} {
			s := NewService(repo, logger.Nop())

			stats := s.GetStats(context.Background(), "user-1")
			require.NotNil(t, stats, name)
			assert.Equal(t, &Stats{Role: "mentee"}, stats, name)
		}
	})
}

func TestGetRecentActivity(t *testing.T) {
	t.Run("returns the feed", func(t *testing.T) {
		repo := &fakeRepo{
			role:   "mentee",
			recent: []*Activity{{BookingID: "bk-1"}, {BookingID: "bk-2"}},
		}
		s := NewService(repo, logger.Nop())

		activities := s.GetRecentActivity(context.Background(), "user-1")
		assert.Len(t, activities, 2)
	})

	t.Run("failures degrade to an empty feed", func(t *testing.T) {
		repo := &fakeRepo{role: "mentee", recentErr: errors.New("db down")}
		s := NewService(repo, logger.Nop())

		activities := s.GetRecentActivity(context.Background(), "user-1")
		require.NotNil(t, activities)
		assert.Empty(t, activities)
	})
}
