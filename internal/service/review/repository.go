package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mentorhub/pkg/db"

	"github.com/lib/pq"
)

type Repository interface {
	GetBookingRef(ctx context.Context, tx *sql.Tx, bookingID string) (*BookingRef, error)
	CreateReview(ctx context.Context, tx *sql.Tx, rev *Review) error
	ApplyRatingToMentor(ctx context.Context, tx *sql.Tx, mentorID string, rating int) error
	ListByUser(ctx context.Context, userID string, direction Direction) ([]*ReviewWithRater, error)

	WithTransaction(ctx context.Context, isolation sql.IsolationLevel, fn db.TxFunc) error
}

type repository struct {
	db db.SQLExecutor
}

func NewRepository(database db.SQLExecutor) Repository {
	return &repository{
		db: database,
	}
}

// GetBookingRef reads the booking fields the review ledger needs, with a
// row-level lock so the status cannot move under the insert.
func (r *repository) GetBookingRef(ctx context.Context, tx *sql.Tx, bookingID string) (*BookingRef, error) {
	query := `
		SELECT id, mentor_id, mentee_id, status
		FROM bookings
		WHERE id = $1
		FOR UPDATE
	`

	var ref BookingRef
	err := tx.QueryRowContext(ctx, query, bookingID).Scan(&ref.ID, &ref.MentorID, &ref.MenteeID, &ref.Status)

	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query booking ref: %w", err)
	}

	return &ref, nil
}

// CreateReview inserts a review. The unique index on (booking_id, rater_id)
// is the one-review-per-party guard; its violation surfaces as
// ErrReviewExists.
func (r *repository) CreateReview(ctx context.Context, tx *sql.Tx, rev *Review) error {
	query := `
		INSERT INTO reviews (id, booking_id, rater_id, ratee_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := tx.QueryRowContext(ctx, query,
		rev.ID,
		rev.BookingID,
		rev.RaterID,
		rev.RateeID,
		rev.Rating,
		rev.Comment,
	).Scan(&rev.CreatedAt, &rev.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrReviewExists
	}
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// ApplyRatingToMentor folds a new rating into the mentor's stored aggregate
// in a single update expression, so concurrent submissions never lose an
// increment.
func (r *repository) ApplyRatingToMentor(ctx context.Context, tx *sql.Tx, mentorID string, rating int) error {
	query := `
		UPDATE mentor_profiles
		SET rating = ROUND(((rating * total_reviews) + $2) / (total_reviews + 1)::numeric, 2),
		    total_reviews = total_reviews + 1
		WHERE user_id = $1
	`

	if _, err := tx.ExecContext(ctx, query, mentorID, rating); err != nil {
		return fmt.Errorf("apply rating: %w", err)
	}

	return nil
}

// ListByUser retrieves reviews a user gave or received, newest first
func (r *repository) ListByUser(ctx context.Context, userID string, direction Direction) ([]*ReviewWithRater, error) {
	column := "rater_id"
	if direction == DirectionReceived {
		column = "ratee_id"
	}

	query := fmt.Sprintf(`
		SELECT r.id, r.booking_id, r.rater_id, r.ratee_id, r.rating, r.comment,
		       r.created_at, r.updated_at,
		       COALESCE(p.display_name, ''), COALESCE(p.avatar_url, '')
		FROM reviews r
		LEFT JOIN profiles p ON p.user_id = r.rater_id
		WHERE r.%s = $1
		ORDER BY r.created_at DESC
	`, column)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*ReviewWithRater, 0)
	for rows.Next() {
		var rev ReviewWithRater
		err := rows.Scan(
			&rev.ID,
			&rev.BookingID,
			&rev.RaterID,
			&rev.RateeID,
			&rev.Rating,
			&rev.Comment,
			&rev.CreatedAt,
			&rev.UpdatedAt,
			&rev.RaterDisplayName,
			&rev.RaterAvatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, &rev)
	}

	return reviews, rows.Err()
}

// WithTransaction executes a function within a database transaction
func (r *repository) WithTransaction(ctx context.Context, isolation sql.IsolationLevel, fn db.TxFunc) error {
	return r.db.WithTransaction(ctx, isolation, fn)
}
