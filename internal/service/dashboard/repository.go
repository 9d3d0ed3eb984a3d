package dashboard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mentorhub/pkg/db"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	GetUserRole(ctx context.Context, userID string) (string, error)
	CountSessions(ctx context.Context, userID string, isMentor bool) (int, error)
	CountDistinctCounterparts(ctx context.Context, userID string, isMentor bool) (int, error)
	SumSessionMinutes(ctx context.Context, userID string, isMentor bool) (int, error)
	AverageReceivedRating(ctx context.Context, userID string) (float64, error)
	RecentBookings(ctx context.Context, userID string, isMentor bool, limit int) ([]*Activity, error)
}

type repository struct {
	db db.SQLExecutor
}

func NewRepository(database db.SQLExecutor) Repository {
	return &repository{
		db: database,
	}
}

// partyColumns returns the (own, counterpart) column pair for the role.
func partyColumns(isMentor bool) (string, string) {
	if isMentor {
		return "mentor_id", "mentee_id"
	}
	return "mentee_id", "mentor_id"
}

func (r *repository) GetUserRole(ctx context.Context, userID string) (string, error) {
	var role string
	err := r.db.QueryRowContext(ctx, `SELECT role FROM users WHERE id = $1`, userID).Scan(&role)
	if err == sql.ErrNoRows {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query user role: %w", err)
	}
	return role, nil
}

func (r *repository) CountSessions(ctx context.Context, userID string, isMentor bool) (int, error) {
	own, _ := partyColumns(isMentor)

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM bookings WHERE %s = $1`, own)
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}

func (r *repository) CountDistinctCounterparts(ctx context.Context, userID string, isMentor bool) (int, error) {
	own, counterpart := partyColumns(isMentor)

	var count int
	query := fmt.Sprintf(`SELECT COUNT(DISTINCT %s) FROM bookings WHERE %s = $1`, counterpart, own)
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count counterparts: %w", err)
	}
	return count, nil
}

func (r *repository) SumSessionMinutes(ctx context.Context, userID string, isMentor bool) (int, error) {
	own, _ := partyColumns(isMentor)

	var minutes int
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(EXTRACT(EPOCH FROM (ends_at - starts_at)) / 60), 0)::int
		FROM bookings WHERE %s = $1
	`, own)
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&minutes); err != nil {
		return 0, fmt.Errorf("sum session minutes: %w", err)
	}
	return minutes, nil
}

func (r *repository) AverageReceivedRating(ctx context.Context, userID string) (float64, error) {
	var avg float64
	query := `SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE ratee_id = $1`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("average rating: %w", err)
	}
	return avg, nil
}

// RecentBookings returns the newest bookings with the counterpart's display
// name and the offering title when one exists.
func (r *repository) RecentBookings(ctx context.Context, userID string, isMentor bool, limit int) ([]*Activity, error) {
	own, counterpart := partyColumns(isMentor)

	query := fmt.Sprintf(`
		SELECT b.id, COALESCE(o.title, 'Direct session'), b.starts_at, b.status,
		       COALESCE(p.display_name, '')
		FROM bookings b
		LEFT JOIN offerings o ON o.id = b.offering_id
		LEFT JOIN profiles p ON p.user_id = b.%s
		WHERE b.%s = $1
		ORDER BY b.created_at DESC
		LIMIT $2
	`, counterpart, own)

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent bookings: %w", err)
	}
	defer rows.Close()

	activities := make([]*Activity, 0)
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.BookingID, &a.Title, &a.Date, &a.Status, &a.With); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, &a)
	}

	return activities, rows.Err()
}
