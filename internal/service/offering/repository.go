package offering

import (
	"context"
	"database/sql"
	"fmt"

	"mentorhub/pkg/db"

	"github.com/lib/pq"
)

type Repository interface {
	CreateOffering(ctx context.Context, o *Offering) error
	GetOfferingByID(ctx context.Context, offeringID string) (*Offering, error)
	UpdateOffering(ctx context.Context, o *Offering) error
	ListOfferings(ctx context.Context, filter ListOfferingsRequest) ([]*Offering, int, error)
	ListByMentor(ctx context.Context, mentorID string, activeOnly bool) ([]*Offering, error)
	IsActiveMentor(ctx context.Context, userID string) (bool, error)
}

type repository struct {
	db db.SQLExecutor
}

func NewRepository(database db.SQLExecutor) Repository {
	return &repository{
		db: database,
	}
}

const offeringColumns = `
	id, mentor_id, title, description, type, duration_minutes,
	price_cents, currency, max_participants, tags, is_active, created_at, updated_at
`

func scanOffering(row interface{ Scan(...any) error }, o *Offering) error {
	return row.Scan(
		&o.ID,
		&o.MentorID,
		&o.Title,
		&o.Description,
		&o.Type,
		&o.DurationMinutes,
		&o.PriceCents,
		&o.Currency,
		&o.MaxParticipants,
		pq.Array(&o.Tags),
		&o.IsActive,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

// CreateOffering inserts a new offering
func (r *repository) CreateOffering(ctx context.Context, o *Offering) error {
	query := `
		INSERT INTO offerings (id, mentor_id, title, description, type, duration_minutes,
		                       price_cents, currency, max_participants, tags, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		o.ID,
		o.MentorID,
		o.Title,
		o.Description,
		o.Type,
		o.DurationMinutes,
		o.PriceCents,
		o.Currency,
		o.MaxParticipants,
		pq.Array(o.Tags),
		o.IsActive,
	).Scan(&o.CreatedAt, &o.UpdatedAt)

	if err != nil {
		return fmt.Errorf("insert offering: %w", err)
	}

	return nil
}

// GetOfferingByID retrieves an offering by ID
func (r *repository) GetOfferingByID(ctx context.Context, offeringID string) (*Offering, error) {
	query := `SELECT ` + offeringColumns + ` FROM offerings WHERE id = $1`

	var o Offering
	err := scanOffering(r.db.QueryRowContext(ctx, query, offeringID), &o)

	if err == sql.ErrNoRows {
		return nil, ErrOfferingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query offering: %w", err)
	}

	return &o, nil
}

// UpdateOffering persists a full offering row. The identifier and creation
// timestamp never change.
func (r *repository) UpdateOffering(ctx context.Context, o *Offering) error {
	query := `
		UPDATE offerings
		SET title = $2, description = $3, duration_minutes = $4, price_cents = $5,
		    currency = $6, max_participants = $7, tags = $8, is_active = $9,
		    updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		o.ID,
		o.Title,
		o.Description,
		o.DurationMinutes,
		o.PriceCents,
		o.Currency,
		o.MaxParticipants,
		pq.Array(o.Tags),
		o.IsActive,
	).Scan(&o.UpdatedAt)

	if err == sql.ErrNoRows {
		return ErrOfferingNotFound
	}
	if err != nil {
		return fmt.Errorf("update offering: %w", err)
	}

	return nil
}

// ListOfferings returns a page of active offerings matching the filter,
// ordered by mentor rating then total sessions, with the unpaged total.
func (r *repository) ListOfferings(ctx context.Context, filter ListOfferingsRequest) ([]*Offering, int, error) {
	where := `
		FROM offerings o
		JOIN mentor_profiles mp ON mp.user_id = o.mentor_id
		JOIN users u ON u.id = o.mentor_id
		WHERE o.is_active = TRUE AND u.status = 'active' AND mp.is_public = TRUE
	`

	args := []any{}
	argIdx := 1

	if filter.Search != "" {
		where += fmt.Sprintf(" AND (o.title ILIKE '%%' || $%d || '%%' OR o.description ILIKE '%%' || $%d || '%%')", argIdx, argIdx)
		args = append(args, filter.Search)
		argIdx++
	}

	if len(filter.Tags) > 0 {
		where += fmt.Sprintf(" AND o.tags && $%d", argIdx)
		args = append(args, pq.Array(filter.Tags))
		argIdx++
	}

	if filter.MaxPriceCents > 0 {
		where += fmt.Sprintf(" AND o.price_cents <= $%d", argIdx)
		args = append(args, filter.MaxPriceCents)
		argIdx++
	}

	if filter.MinExperienceYears > 0 {
		where += fmt.Sprintf(" AND mp.experience_years >= $%d", argIdx)
		args = append(args, filter.MinExperienceYears)
		argIdx++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count offerings: %w", err)
	}

	query := `
		SELECT o.id, o.mentor_id, o.title, o.description, o.type, o.duration_minutes,
		       o.price_cents, o.currency, o.max_participants, o.tags, o.is_active,
		       o.created_at, o.updated_at
	` + where + fmt.Sprintf(`
		ORDER BY mp.rating DESC, mp.total_sessions DESC
		LIMIT $%d OFFSET $%d
	`, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query offerings: %w", err)
	}
	defer rows.Close()

	offerings := make([]*Offering, 0)
	for rows.Next() {
		var o Offering
		if err := scanOffering(rows, &o); err != nil {
			return nil, 0, fmt.Errorf("scan offering: %w", err)
		}
		offerings = append(offerings, &o)
	}

	return offerings, total, rows.Err()
}

// ListByMentor retrieves a mentor's offerings, newest first
func (r *repository) ListByMentor(ctx context.Context, mentorID string, activeOnly bool) ([]*Offering, error) {
	query := `SELECT ` + offeringColumns + ` FROM offerings WHERE mentor_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, mentorID)
	if err != nil {
		return nil, fmt.Errorf("query mentor offerings: %w", err)
	}
	defer rows.Close()

	offerings := make([]*Offering, 0)
	for rows.Next() {
		var o Offering
		if err := scanOffering(rows, &o); err != nil {
			return nil, fmt.Errorf("scan offering: %w", err)
		}
		offerings = append(offerings, &o)
	}

	return offerings, rows.Err()
}

// IsActiveMentor checks the caller is an active mentor account
func (r *repository) IsActiveMentor(ctx context.Context, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND role = 'mentor' AND status = 'active')`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check mentor: %w", err)
	}

	return exists, nil
}
