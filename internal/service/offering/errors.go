package offering

import "errors"

var (
	ErrOfferingNotFound = errors.New("offering not found")

	// Validation errors
	ErrInvalidType         = errors.New("invalid offering type")
	ErrInvalidPrice        = errors.New("paid offering types require a positive price")
	ErrParticipantsForSolo = errors.New("max participants only applies to group offering types")
	ErrMissingParticipants = errors.New("group offering types require max participants")

	// Authorization errors
	ErrNotActiveMentor = errors.New("caller is not an active mentor")
)
