package booking

// canTransition is the booking state machine edge table. Guards on the
// caller and the clock live in the service; this is purely which edges exist.
func canTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		switch to {
		case StatusConfirmed, StatusCancelled:
			return true
		}
		return false
	case StatusConfirmed:
		switch to {
		case StatusCompleted, StatusNoShow, StatusCancelled, StatusRescheduled:
			return true
		}
		return false
	case StatusCompleted, StatusCancelled, StatusNoShow, StatusRescheduled:
		// Terminal. Reviews attach to completed bookings without mutating them.
		return false
	}
	return false
}
