package booking

import "errors"

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrOfferingNotFound = errors.New("offering not found or inactive")

	// Conflict errors
	ErrBookingConflict = errors.New("mentor already has a booking overlapping this slot")

	// Validation errors
	ErrStartInPast = errors.New("booking must start in the future")
	ErrSelfBooking = errors.New("mentors cannot book their own offerings")

	// Transition errors
	ErrInvalidTransition = errors.New("status transition not permitted")
	ErrSessionStarted    = errors.New("session start time has passed")

	// Authorization errors
	ErrNotParticipant = errors.New("caller is not a party to this booking")
	ErrMentorOnly     = errors.New("only the mentor can perform this transition")
	ErrSchedulerOnly  = errors.New("transition is reserved for the scheduler")
)
