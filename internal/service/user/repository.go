package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"mentorhub/pkg/db"

	"github.com/lib/pq"
)

type Repository interface {
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, profile *Profile) error
	GetMentorProfile(ctx context.Context, userID string) (*MentorProfile, error)
	GetMatchPreferences(ctx context.Context, userID string) (*MatchPreferences, error)
	ListMentors(ctx context.Context, filter ListMentorsRequest) ([]*MentorSummary, int, error)
	GetMentorDetail(ctx context.Context, mentorID string) (*MentorDetail, error)

	ListSkills(ctx context.Context) ([]*Skill, error)
	GetUserSkills(ctx context.Context, userID string) ([]*UserSkillDetail, error)
	UpsertUserSkill(ctx context.Context, us *UserSkill) error
	VerifyUserSkill(ctx context.Context, userID string, skillID int) error
}

type repository struct {
	db db.SQLExecutor
}

func NewRepository(database db.SQLExecutor) Repository {
	return &repository{
		db: database,
	}
}

// GetUserByID retrieves a user by ID
func (r *repository) GetUserByID(ctx context.Context, userID string) (*User, error) {
	query := `
		SELECT id, email, role, status, email_verified, last_login_at, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u User
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&u.ID,
		&u.Email,
		&u.Role,
		&u.Status,
		&u.EmailVerified,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &u, nil
}

// GetProfile retrieves a user's base profile
func (r *repository) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	query := `
		SELECT user_id, display_name, avatar_url, bio, languages, timezone,
		       country, city, website, social_links, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var p Profile
	var linksJSON []byte

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.DisplayName,
		&p.AvatarURL,
		&p.Bio,
		pq.Array(&p.Languages),
		&p.Timezone,
		&p.Country,
		&p.City,
		&p.Website,
		&linksJSON,
		&p.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}

	if err := json.Unmarshal(linksJSON, &p.SocialLinks); err != nil {
		return nil, fmt.Errorf("unmarshal social links: %w", err)
	}

	return &p, nil
}

// UpdateProfile persists a full profile row
func (r *repository) UpdateProfile(ctx context.Context, profile *Profile) error {
	linksJSON, err := json.Marshal(profile.SocialLinks)
	if err != nil {
		return fmt.Errorf("marshal social links: %w", err)
	}

	query := `
		UPDATE profiles
		SET display_name = $2, avatar_url = $3, bio = $4, languages = $5,
		    timezone = $6, country = $7, city = $8, website = $9,
		    social_links = $10, updated_at = now()
		WHERE user_id = $1
		RETURNING updated_at
	`

	err = r.db.QueryRowContext(ctx, query,
		profile.UserID,
		profile.DisplayName,
		profile.AvatarURL,
		profile.Bio,
		pq.Array(profile.Languages),
		profile.Timezone,
		profile.Country,
		profile.City,
		profile.Website,
		linksJSON,
	).Scan(&profile.UpdatedAt)

	if err == sql.ErrNoRows {
		return ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	return nil
}

// GetMentorProfile retrieves the mentor-specific profile
func (r *repository) GetMentorProfile(ctx context.Context, userID string) (*MentorProfile, error) {
	query := `
		SELECT user_id, headline, hourly_rate_cents, experience_years, is_public,
		       specializations, response_time_hours, rating, total_sessions, total_reviews
		FROM mentor_profiles
		WHERE user_id = $1
	`

	var mp MentorProfile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&mp.UserID,
		&mp.Headline,
		&mp.HourlyRateCents,
		&mp.ExperienceYears,
		&mp.IsPublic,
		pq.Array(&mp.Specializations),
		&mp.ResponseTimeHours,
		&mp.Rating,
		&mp.TotalSessions,
		&mp.TotalReviews,
	)

	if err == sql.ErrNoRows {
		return nil, ErrMentorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query mentor profile: %w", err)
	}

	return &mp, nil
}

// GetMatchPreferences retrieves a mentee's matching preferences
func (r *repository) GetMatchPreferences(ctx context.Context, userID string) (*MatchPreferences, error) {
	query := `
		SELECT user_id, goals, preferred_languages, budget_cents
		FROM match_preferences
		WHERE user_id = $1
	`

	var mp MatchPreferences
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&mp.UserID,
		pq.Array(&mp.Goals),
		pq.Array(&mp.PreferredLanguages),
		&mp.BudgetCents,
	)

	if err == sql.ErrNoRows {
		// Preferences are optional; absence is not an error.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query match preferences: %w", err)
	}

	return &mp, nil
}

// ListMentors returns a page of public, active mentors ordered by rating then
// total sessions, together with the unpaged total.
func (r *repository) ListMentors(ctx context.Context, filter ListMentorsRequest) ([]*MentorSummary, int, error) {
	where := `
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		JOIN mentor_profiles mp ON mp.user_id = u.id
		WHERE u.role = 'mentor' AND u.status = 'active' AND mp.is_public = TRUE
	`

	args := []any{}
	argIdx := 1

	if filter.Search != "" {
		where += fmt.Sprintf(" AND (p.display_name ILIKE '%%' || $%d || '%%' OR mp.headline ILIKE '%%' || $%d || '%%' OR $%d = ANY(mp.specializations))", argIdx, argIdx, argIdx)
		args = append(args, filter.Search)
		argIdx++
	}

	if len(filter.Skills) > 0 {
		where += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM user_skills us
			JOIN skills s ON s.id = us.skill_id
			WHERE us.user_id = u.id AND s.name = ANY($%d)
		)`, argIdx)
		args = append(args, pq.Array(filter.Skills))
		argIdx++
	}

	if filter.MinExperienceYears > 0 {
		where += fmt.Sprintf(" AND mp.experience_years >= $%d", argIdx)
		args = append(args, filter.MinExperienceYears)
		argIdx++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count mentors: %w", err)
	}

	query := `
		SELECT u.id, p.display_name, p.avatar_url, mp.headline, mp.specializations,
		       mp.experience_years, mp.response_time_hours, mp.rating,
		       mp.total_sessions, mp.total_reviews
	` + where + fmt.Sprintf(`
		ORDER BY mp.rating DESC, mp.total_sessions DESC
		LIMIT $%d OFFSET $%d
	`, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query mentors: %w", err)
	}
	defer rows.Close()

	mentors := make([]*MentorSummary, 0)
	for rows.Next() {
		var m MentorSummary
		err := rows.Scan(
			&m.ID,
			&m.DisplayName,
			&m.AvatarURL,
			&m.Headline,
			pq.Array(&m.Specializations),
			&m.ExperienceYears,
			&m.ResponseTimeHours,
			&m.Rating,
			&m.TotalSessions,
			&m.TotalReviews,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan mentor: %w", err)
		}
		mentors = append(mentors, &m)
	}

	return mentors, total, rows.Err()
}

// GetMentorDetail retrieves the public detail view of one mentor
func (r *repository) GetMentorDetail(ctx context.Context, mentorID string) (*MentorDetail, error) {
	query := `
		SELECT u.id, p.display_name, p.avatar_url, p.bio, p.languages, p.country, p.city,
		       mp.headline, mp.specializations, mp.experience_years,
		       mp.response_time_hours, mp.rating, mp.total_sessions, mp.total_reviews
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		JOIN mentor_profiles mp ON mp.user_id = u.id
		WHERE u.id = $1 AND u.role = 'mentor' AND u.status = 'active' AND mp.is_public = TRUE
	`

	var d MentorDetail
	err := r.db.QueryRowContext(ctx, query, mentorID).Scan(
		&d.ID,
		&d.DisplayName,
		&d.AvatarURL,
		&d.Bio,
		pq.Array(&d.Languages),
		&d.Country,
		&d.City,
		&d.Headline,
		pq.Array(&d.Specializations),
		&d.ExperienceYears,
		&d.ResponseTimeHours,
		&d.Rating,
		&d.TotalSessions,
		&d.TotalReviews,
	)

	if err == sql.ErrNoRows {
		return nil, ErrMentorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query mentor detail: %w", err)
	}

	skills, err := r.GetUserSkills(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	d.Skills = skills

	return &d, nil
}

// ListSkills returns active skill reference data ordered by category then name
func (r *repository) ListSkills(ctx context.Context) ([]*Skill, error) {
	query := `
		SELECT id, name, category, description, is_active
		FROM skills
		WHERE is_active = TRUE
		ORDER BY category ASC, name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	skills := make([]*Skill, 0)
	for rows.Next() {
		var s Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Description, &s.IsActive); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skills = append(skills, &s)
	}

	return skills, rows.Err()
}

// GetUserSkills returns a user's skills joined with reference data
func (r *repository) GetUserSkills(ctx context.Context, userID string) ([]*UserSkillDetail, error) {
	query := `
		SELECT us.user_id, us.skill_id, us.level, us.years_of_experience, us.is_verified,
		       s.name, s.category
		FROM user_skills us
		JOIN skills s ON s.id = us.skill_id
		WHERE us.user_id = $1
		ORDER BY s.category ASC, s.name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query user skills: %w", err)
	}
	defer rows.Close()

	skills := make([]*UserSkillDetail, 0)
	for rows.Next() {
		var d UserSkillDetail
		err := rows.Scan(
			&d.UserID,
			&d.SkillID,
			&d.Level,
			&d.YearsOfExperience,
			&d.IsVerified,
			&d.Name,
			&d.Category,
		)
		if err != nil {
			return nil, fmt.Errorf("scan user skill: %w", err)
		}
		skills = append(skills, &d)
	}

	return skills, rows.Err()
}

// UpsertUserSkill inserts or updates a user/skill link. Re-upserting resets
// the verification flag since the claimed level changed.
func (r *repository) UpsertUserSkill(ctx context.Context, us *UserSkill) error {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM skills WHERE id = $1 AND is_active = TRUE)`,
		us.SkillID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check skill: %w", err)
	}
	if !exists {
		return ErrSkillNotFound
	}

	query := `
		INSERT INTO user_skills (user_id, skill_id, level, years_of_experience, is_verified)
		VALUES ($1, $2, $3, $4, FALSE)
		ON CONFLICT (user_id, skill_id)
		DO UPDATE SET level = $3, years_of_experience = $4, is_verified = FALSE
	`

	if _, err := r.db.ExecContext(ctx, query, us.UserID, us.SkillID, us.Level, us.YearsOfExperience); err != nil {
		return fmt.Errorf("upsert user skill: %w", err)
	}

	return nil
}

// VerifyUserSkill marks a user/skill link as verified
func (r *repository) VerifyUserSkill(ctx context.Context, userID string, skillID int) error {
	query := `UPDATE user_skills SET is_verified = TRUE WHERE user_id = $1 AND skill_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, skillID)
	if err != nil {
		return fmt.Errorf("verify user skill: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rows == 0 {
		return ErrUserSkillNotFound
	}

	return nil
}
