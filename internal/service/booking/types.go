package booking

import "time"

// Status is the booking lifecycle status.
type Status string

const (
	StatusPending     Status = "pending"
	StatusConfirmed   Status = "confirmed"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusNoShow      Status = "no_show"
	StatusRescheduled Status = "rescheduled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow, StatusRescheduled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
// rescheduled is a side-terminal: the follow-up flow creates a new pending
// booking referencing this one rather than mutating it.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow, StatusRescheduled:
		return true
	case StatusPending, StatusConfirmed:
		return false
	}
	return false
}

// Actor identifies the caller of a status change.
type Actor struct {
	ID   string
	Role ActorRole
}

// ActorRole is the caller's relationship to the ledger, not to one booking.
// Party membership on a booking is derived from the booking row itself.
type ActorRole string

const (
	ActorUser ActorRole = "user"
	// ActorAdmin is the privileged override path.
	ActorAdmin ActorRole = "admin"
	// ActorScheduler is the external time-based collaborator that marks
	// sessions completed or no-show.
	ActorScheduler ActorRole = "scheduler"
)

// Booking is a scheduled instance of a mentee reserving time against a
// mentor. The price is snapshotted from the offering at request time and
// immutable afterwards.
type Booking struct {
	ID                 string     `json:"id"`
	Reference          string     `json:"reference"`
	OfferingID         *string    `json:"offering_id,omitempty"`
	MentorID           string     `json:"mentor_id"`
	MenteeID           string     `json:"mentee_id"`
	StartsAt           time.Time  `json:"starts_at"`
	EndsAt             time.Time  `json:"ends_at"`
	Status             Status     `json:"status"`
	PriceCents         int64      `json:"price_cents"`
	Currency           string     `json:"currency"`
	MeetingURL         string     `json:"meeting_url,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledBy        *string    `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	RescheduledFrom    *string    `json:"rescheduled_from,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// OfferingSnapshot is the subset of an offering a booking copies at request
// time.
type OfferingSnapshot struct {
	ID              string
	MentorID        string
	DurationMinutes int
	PriceCents      int64
	Currency        string
	IsActive        bool
}

// ListFilter selects which slice of a user's bookings to return.
type ListFilter string

const (
	FilterAll      ListFilter = "all"
	FilterUpcoming ListFilter = "upcoming"
	FilterPast     ListFilter = "past"
	FilterPending  ListFilter = "pending"
)

func (f ListFilter) Valid() bool {
	switch f {
	case FilterAll, FilterUpcoming, FilterPast, FilterPending:
		return true
	}
	return false
}

// PartyRole selects which side of the booking the user is on.
type PartyRole string

const (
	PartyMentor PartyRole = "mentor"
	PartyMentee PartyRole = "mentee"
)

func (r PartyRole) Valid() bool {
	return r == PartyMentor || r == PartyMentee
}

// DTOs
type RequestBookingRequest struct {
	OfferingID string    `json:"offering_id" binding:"required,uuid"`
	StartsAt   time.Time `json:"starts_at" binding:"required"`
	Notes      string    `json:"notes" binding:"omitempty,max=1000"`
}

type SetStatusRequest struct {
	Status Status `json:"status" binding:"required,oneof=confirmed cancelled completed no_show rescheduled"`
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

type ListBookingsRequest struct {
	Role   PartyRole  `form:"role" binding:"required,oneof=mentor mentee"`
	Filter ListFilter `form:"filter" binding:"omitempty,oneof=all upcoming past pending"`
}

type ListBookingsResponse struct {
	Bookings []*Booking `json:"bookings"`
	Total    int        `json:"total"`
}
