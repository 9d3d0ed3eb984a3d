package review

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrReviewExists    = errors.New("review already submitted for this booking")

	// InvalidState: reviews only attach to completed bookings.
	ErrBookingNotCompleted = errors.New("booking is not completed")

	ErrNotParticipant = errors.New("caller is not a party to this booking")
)
