package review

import "time"

// Review is a post-completion rating tied to a booking. The rater and ratee
// are always the two opposite-role parties of the booking.
type Review struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	RaterID   string    `json:"rater_id"`
	RateeID   string    `json:"ratee_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewWithRater is a review joined with the rater's public profile.
type ReviewWithRater struct {
	Review
	RaterDisplayName string `json:"rater_display_name"`
	RaterAvatarURL   string `json:"rater_avatar_url,omitempty"`
}

// BookingRef is the slice of a booking the review ledger needs.
type BookingRef struct {
	ID       string
	MentorID string
	MenteeID string
	Status   string
}

// Direction selects which side of a user's reviews to list.
type Direction string

const (
	DirectionGiven    Direction = "given"
	DirectionReceived Direction = "received"
)

func (d Direction) Valid() bool {
	return d == DirectionGiven || d == DirectionReceived
}

// DTOs
type SubmitReviewRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"omitempty,max=1000"`
}

type ListReviewsRequest struct {
	Direction Direction `form:"direction" binding:"required,oneof=given received"`
}

type ListReviewsResponse struct {
	Reviews []*ReviewWithRater `json:"reviews"`
	Total   int                `json:"total"`
}
