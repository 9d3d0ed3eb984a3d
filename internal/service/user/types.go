package user

import "time"

// Role is the account role.
type Role string

const (
	RoleMentee    Role = "mentee"
	RoleMentor    Role = "mentor"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMentee, RoleMentor, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

// Status is the account lifecycle status. Accounts are never hard-deleted;
// suspension and deactivation are status changes.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
	StatusPending   Status = "pending"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended, StatusPending:
		return true
	}
	return false
}

// Domain Models
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Role          Role       `json:"role"`
	Status        Status     `json:"status"`
	EmailVerified bool       `json:"email_verified"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type SocialLinks struct {
	LinkedIn string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

type Profile struct {
	UserID      string      `json:"user_id"`
	DisplayName string      `json:"display_name"`
	AvatarURL   string      `json:"avatar_url,omitempty"`
	Bio         string      `json:"bio,omitempty"`
	Languages   []string    `json:"languages"`
	Timezone    string      `json:"timezone"`
	Country     string      `json:"country,omitempty"`
	City        string      `json:"city,omitempty"`
	Website     string      `json:"website,omitempty"`
	SocialLinks SocialLinks `json:"social_links"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type MentorProfile struct {
	UserID            string   `json:"user_id"`
	Headline          string   `json:"headline"`
	HourlyRateCents   int64    `json:"hourly_rate_cents"`
	ExperienceYears   int      `json:"experience_years"`
	IsPublic          bool     `json:"is_public"`
	Specializations   []string `json:"specializations"`
	ResponseTimeHours int      `json:"response_time_hours"`
	Rating            float64  `json:"rating"`
	TotalSessions     int      `json:"total_sessions"`
	TotalReviews      int      `json:"total_reviews"`
}

type MatchPreferences struct {
	UserID             string   `json:"user_id"`
	Goals              []string `json:"goals"`
	PreferredLanguages []string `json:"preferred_languages"`
	BudgetCents        int64    `json:"budget_cents"`
}

// Skill is global reference data.
type Skill struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

// UserSkill links a user to a skill with a proficiency level.
type UserSkill struct {
	UserID            string `json:"user_id"`
	SkillID           int    `json:"skill_id"`
	Level             int    `json:"level"`
	YearsOfExperience int    `json:"years_of_experience"`
	IsVerified        bool   `json:"is_verified"`
}

// UserSkillDetail is a UserSkill joined with its skill reference data.
type UserSkillDetail struct {
	UserSkill
	Name     string `json:"name"`
	Category string `json:"category"`
}

// DTOs

// UpdateProfileRequest is a closed patch type: every updatable field is
// listed explicitly and unknown keys are rejected at decode time.
type UpdateProfileRequest struct {
	DisplayName *string   `json:"display_name" binding:"omitempty,min=1,max=100"`
	AvatarURL   *string   `json:"avatar_url" binding:"omitempty,url"`
	Bio         *string   `json:"bio" binding:"omitempty,max=1000"`
	Languages   *[]string `json:"languages" binding:"omitempty,dive,len=2"`
	Timezone    *string   `json:"timezone" binding:"omitempty,min=1"`
	Country     *string   `json:"country" binding:"omitempty,max=100"`
	City        *string   `json:"city" binding:"omitempty,max=100"`
	Website     *string   `json:"website" binding:"omitempty,url"`
	LinkedIn    *string   `json:"linkedin" binding:"omitempty,url"`
	Twitter     *string   `json:"twitter" binding:"omitempty,url"`
	GitHub      *string   `json:"github" binding:"omitempty,url"`
}

type UpsertSkillRequest struct {
	SkillID           int `json:"skill_id" binding:"required"`
	Level             int `json:"level" binding:"required,min=1,max=5"`
	YearsOfExperience int `json:"years_of_experience" binding:"min=0"`
}

type ListMentorsRequest struct {
	Search             string   `form:"search"`
	Skills             []string `form:"skills"`
	MinExperienceYears int      `form:"min_experience_years" binding:"omitempty,min=0"`
	Limit              int      `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset             int      `form:"offset" binding:"omitempty,min=0"`
}

type MentorSummary struct {
	ID                string   `json:"id"`
	DisplayName       string   `json:"display_name"`
	AvatarURL         string   `json:"avatar_url,omitempty"`
	Headline          string   `json:"headline"`
	Specializations   []string `json:"specializations"`
	ExperienceYears   int      `json:"experience_years"`
	ResponseTimeHours int      `json:"response_time_hours"`
	Rating            float64  `json:"rating"`
	TotalSessions     int      `json:"total_sessions"`
	TotalReviews      int      `json:"total_reviews"`
}

type ListMentorsResponse struct {
	Mentors []*MentorSummary `json:"mentors"`
	Total   int              `json:"total"`
	HasMore bool             `json:"has_more"`
}

type MentorDetail struct {
	MentorSummary
	Bio       string             `json:"bio,omitempty"`
	Languages []string           `json:"languages"`
	Country   string             `json:"country,omitempty"`
	City      string             `json:"city,omitempty"`
	Skills    []*UserSkillDetail `json:"skills"`
}

type ProfileResponse struct {
	User             *User              `json:"user"`
	Profile          *Profile           `json:"profile"`
	MentorProfile    *MentorProfile     `json:"mentor_profile,omitempty"`
	MatchPreferences *MatchPreferences  `json:"match_preferences,omitempty"`
	Skills           []*UserSkillDetail `json:"skills"`
}
