package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mentorhub/pkg/db"

	"github.com/lib/pq"
)

type Repository interface {
	CreateBooking(ctx context.Context, tx *sql.Tx, b *Booking) error
	GetBookingByID(ctx context.Context, bookingID string) (*Booking, error)
	GetBookingForUpdate(ctx context.Context, tx *sql.Tx, bookingID string) (*Booking, error)
	UpdateBookingStatus(ctx context.Context, tx *sql.Tx, b *Booking) error
	HasOverlap(ctx context.Context, tx *sql.Tx, mentorID string, startsAt, endsAt time.Time, bufferMinutes int) (bool, error)
	GetOfferingSnapshot(ctx context.Context, tx *sql.Tx, offeringID string) (*OfferingSnapshot, error)
	IncrementMentorSessions(ctx context.Context, tx *sql.Tx, mentorID string) error
	ListByUser(ctx context.Context, userID string, role PartyRole, filter ListFilter) ([]*Booking, error)

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

const bookingColumns = `
	id, reference, offering_id, mentor_id, mentee_id, starts_at, ends_at, status,
	price_cents, currency, meeting_url, notes, cancellation_reason,
	cancelled_by, cancelled_at, rescheduled_from, created_at, updated_at
`

func scanBooking(row interface{ Scan(...any) error }, b *Booking) error {
	return row.Scan(
		&b.ID,
		&b.Reference,
		&b.OfferingID,
		&b.MentorID,
		&b.MenteeID,
		&b.StartsAt,
		&b.EndsAt,
		&b.Status,
		&b.PriceCents,
		&b.Currency,
		&b.MeetingURL,
		&b.Notes,
		&b.CancellationReason,
		&b.CancelledBy,
		&b.CancelledAt,
		&b.RescheduledFrom,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
}

// CreateBooking inserts a booking. The partial exclusion constraint on
// (mentor_id, time range) is the storage-level double-booking guard; its
// violation is surfaced as ErrBookingConflict.
func (r *repository) CreateBooking(ctx context.Context, tx *sql.Tx, b *Booking) error {
	query := `
		INSERT INTO bookings (id, reference, offering_id, mentor_id, mentee_id, starts_at,
		                      ends_at, status, price_cents, currency, meeting_url, notes,
		                      rescheduled_from)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`

	err := tx.QueryRowContext(ctx, query,
		b.ID,
		b.Reference,
		b.OfferingID,
		b.MentorID,
		b.MenteeID,
		b.StartsAt,
		b.EndsAt,
		b.Status,
		b.PriceCents,
		b.Currency,
		b.MeetingURL,
		b.Notes,
		b.RescheduledFrom,
	).Scan(&b.CreatedAt, &b.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && (pqErr.Code == "23P01" || pqErr.Code == "23505") {
		return ErrBookingConflict
	}
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	return nil
}

// GetBookingByID retrieves a booking by ID
func (r *repository) GetBookingByID(ctx context.Context, bookingID string) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b Booking
	err := scanBooking(r.db.QueryRowContext(ctx, query, bookingID), &b)

	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query booking: %w", err)
	}

	return &b, nil
}

// GetBookingForUpdate retrieves a booking with a row-level lock
func (r *repository) GetBookingForUpdate(ctx context.Context, tx *sql.Tx, bookingID string) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	var b Booking
	err := scanBooking(tx.QueryRowContext(ctx, query, bookingID), &b)

	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query booking with lock: %w", err)
	}

	return &b, nil
}

// UpdateBookingStatus persists the status and cancellation fields
func (r *repository) UpdateBookingStatus(ctx context.Context, tx *sql.Tx, b *Booking) error {
	query := `
		UPDATE bookings
		SET status = $2, cancellation_reason = $3, cancelled_by = $4, cancelled_at = $5,
		    updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := tx.QueryRowContext(ctx, query,
		b.ID,
		b.Status,
		b.CancellationReason,
		b.CancelledBy,
		b.CancelledAt,
	).Scan(&b.UpdatedAt)

	if err == sql.ErrNoRows {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}

	return nil
}

// HasOverlap locks and checks the mentor's open bookings against the window,
// widened by the configured buffer on both sides.
func (r *repository) HasOverlap(ctx context.Context, tx *sql.Tx, mentorID string, startsAt, endsAt time.Time, bufferMinutes int) (bool, error) {
	query := `
		SELECT id
		FROM bookings
		WHERE mentor_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND tstzrange(starts_at - make_interval(mins => $4), ends_at + make_interval(mins => $4)) && tstzrange($2, $3)
		LIMIT 1
		FOR UPDATE
	`

	var id string
	err := tx.QueryRowContext(ctx, query, mentorID, startsAt, endsAt, bufferMinutes).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check overlap: %w", err)
	}

	return true, nil
}

// GetOfferingSnapshot reads the fields a booking copies from its offering
func (r *repository) GetOfferingSnapshot(ctx context.Context, tx *sql.Tx, offeringID string) (*OfferingSnapshot, error) {
	query := `
		SELECT id, mentor_id, duration_minutes, price_cents, currency, is_active
		FROM offerings
		WHERE id = $1
	`

	var snap OfferingSnapshot
	err := tx.QueryRowContext(ctx, query, offeringID).Scan(
		&snap.ID,
		&snap.MentorID,
		&snap.DurationMinutes,
		&snap.PriceCents,
		&snap.Currency,
		&snap.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, ErrOfferingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query offering snapshot: %w", err)
	}

	return &snap, nil
}

// IncrementMentorSessions bumps the mentor's completed-session counter
func (r *repository) IncrementMentorSessions(ctx context.Context, tx *sql.Tx, mentorID string) error {
	query := `UPDATE mentor_profiles SET total_sessions = total_sessions + 1 WHERE user_id = $1`

	if _, err := tx.ExecContext(ctx, query, mentorID); err != nil {
		return fmt.Errorf("increment mentor sessions: %w", err)
	}

	return nil
}

// ListByUser retrieves a user's bookings for one side of the marketplace.
// upcoming: starts in the future and not cancelled. past: already started,
// any status. pending: awaiting mentor confirmation.
func (r *repository) ListByUser(ctx context.Context, userID string, role PartyRole, filter ListFilter) ([]*Booking, error) {
	column := "mentee_id"
	if role == PartyMentor {
		column = "mentor_id"
	}

	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE %s = $1`, bookingColumns, column)

	switch filter {
	case FilterUpcoming:
		query += ` AND starts_at > now() AND status != 'cancelled' ORDER BY starts_at ASC`
	case FilterPast:
		query += ` AND starts_at < now() ORDER BY starts_at DESC`
	case FilterPending:
		query += ` AND status = 'pending' ORDER BY starts_at ASC`
	default:
		query += ` ORDER BY starts_at DESC`
	}

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*Booking, 0)
	for rows.Next() {
		var b Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &b)
	}

	return bookings, rows.Err()
}

// WithTransaction executes a function within a database transaction
func (r *repository) WithTransaction(ctx context.Context, isolation sql.IsolationLevel, fn db.TxFunc) error {
	return r.db.WithTransaction(ctx, isolation, fn)
}
