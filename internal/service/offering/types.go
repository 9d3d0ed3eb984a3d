package offering

import "time"

// Type is the session format of an offering.
type Type string

const (
	TypeOneOnOne    Type = "one_on_one"
	TypeGroup       Type = "group"
	TypeCohort      Type = "cohort"
	TypeOfficeHours Type = "office_hours"
)

func (t Type) Valid() bool {
	switch t {
	case TypeOneOnOne, TypeGroup, TypeCohort, TypeOfficeHours:
		return true
	}
	return false
}

// IsGroup reports whether the type admits more than one participant.
func (t Type) IsGroup() bool {
	switch t {
	case TypeGroup, TypeCohort:
		return true
	case TypeOneOnOne, TypeOfficeHours:
		return false
	}
	return false
}

const (
	MinDurationMinutes = 15
	MaxDurationMinutes = 480
)

// Offering is a mentor-published, bookable session template.
type Offering struct {
	ID              string    `json:"id"`
	MentorID        string    `json:"mentor_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Type            Type      `json:"type"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCents      int64     `json:"price_cents"`
	Currency        string    `json:"currency"`
	MaxParticipants int       `json:"max_participants"`
	Tags            []string  `json:"tags"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DTOs
type CreateOfferingRequest struct {
	Title           string   `json:"title" binding:"required,min=1,max=200"`
	Description     string   `json:"description" binding:"required,min=10,max=2000"`
	Type            Type     `json:"type" binding:"required,oneof=one_on_one group cohort office_hours"`
	DurationMinutes int      `json:"duration_minutes" binding:"required,min=15,max=480"`
	PriceCents      int64    `json:"price_cents" binding:"min=0"`
	Currency        string   `json:"currency" binding:"required,len=3,uppercase"`
	MaxParticipants int      `json:"max_participants" binding:"omitempty,min=2,max=50"`
	Tags            []string `json:"tags" binding:"omitempty,max=10"`
}

// UpdateOfferingRequest is a closed patch type; unknown keys are rejected at
// decode time and every field is optional.
type UpdateOfferingRequest struct {
	Title           *string   `json:"title" binding:"omitempty,min=1,max=200"`
	Description     *string   `json:"description" binding:"omitempty,min=10,max=2000"`
	DurationMinutes *int      `json:"duration_minutes" binding:"omitempty,min=15,max=480"`
	PriceCents      *int64    `json:"price_cents" binding:"omitempty,min=0"`
	Currency        *string   `json:"currency" binding:"omitempty,len=3,uppercase"`
	MaxParticipants *int      `json:"max_participants" binding:"omitempty,min=2,max=50"`
	Tags            *[]string `json:"tags" binding:"omitempty,max=10"`
}

type ListOfferingsRequest struct {
	Search             string   `form:"search"`
	Tags               []string `form:"tags"`
	MaxPriceCents      int64    `form:"max_price_cents" binding:"omitempty,min=0"`
	MinExperienceYears int      `form:"min_experience_years" binding:"omitempty,min=0"`
	Limit              int      `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset             int      `form:"offset" binding:"omitempty,min=0"`
}

type ListOfferingsResponse struct {
	Offerings []*Offering `json:"offerings"`
	Total     int         `json:"total"`
	HasMore   bool        `json:"has_more"`
}
