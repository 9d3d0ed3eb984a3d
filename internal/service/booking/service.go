package booking

import (
	"context"
	"database/sql"
	"time"

	"mentorhub/pkg/logger"
	"mentorhub/pkg/metrics"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

type Service struct {
	repo          Repository
	refNode       *snowflake.Node
	bufferMinutes int
	logger        logger.Logger
	now           func() time.Time
}

func NewService(repo Repository, refNode *snowflake.Node, bufferMinutes int, logger logger.Logger) *Service {
	return &Service{
		repo:          repo,
		refNode:       refNode,
		bufferMinutes: bufferMinutes,
		logger:        logger,
		now:           time.Now,
	}
}

// RequestBooking reserves a slot against an offering. The offering's price
// and currency are snapshotted into the booking. The whole check-then-insert
// runs under a serializable transaction; the storage-level exclusion
// constraint backstops the overlap check.
func (s *Service) RequestBooking(ctx context.Context, menteeID string, req RequestBookingRequest) (*Booking, error) {
	if !req.StartsAt.After(s.now()) {
		return nil, ErrStartInPast
	}

	b := &Booking{
		ID:        uuid.New().String(),
		Reference: s.refNode.Generate().Base36(),
		MenteeID:  menteeID,
		StartsAt:  req.StartsAt,
		Status:    StatusPending,
		Notes:     req.Notes,
	}

	err := s.repo.WithTransaction(ctx, sql.LevelSerializable, func(ctx context.Context, tx *sql.Tx) error {
		snap, err := s.repo.GetOfferingSnapshot(ctx, tx, req.OfferingID)
		if err != nil {
			return err
		}
		if !snap.IsActive {
			return ErrOfferingNotFound
		}
		if snap.MentorID == menteeID {
			return ErrSelfBooking
		}

		b.OfferingID = &snap.ID
		b.MentorID = snap.MentorID
		b.EndsAt = req.StartsAt.Add(time.Duration(snap.DurationMinutes) * time.Minute)
		b.PriceCents = snap.PriceCents
		b.Currency = snap.Currency

		overlap, err := s.repo.HasOverlap(ctx, tx, snap.MentorID, b.StartsAt, b.EndsAt, s.bufferMinutes)
		if err != nil {
			return err
		}
		if overlap {
			return ErrBookingConflict
		}

		return s.repo.CreateBooking(ctx, tx, b)
	})

	if err == ErrBookingConflict {
		metrics.BookingConflicts.Inc()
	}
	if err != nil {
		s.logger.Error(ctx, "failed to request booking",
			logger.Field{Key: "offering_id", Value: req.OfferingID},
			logger.Field{Key: "mentee_id", Value: menteeID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	metrics.BookingsCreated.Inc()
	s.logger.Info(ctx, "booking requested",
		logger.Field{Key: "booking_id", Value: b.ID},
		logger.Field{Key: "reference", Value: b.Reference},
		logger.Field{Key: "mentor_id", Value: b.MentorID},
	)
	return b, nil
}

// SetStatus drives the booking state machine. Edges outside the transition
// table fail with ErrInvalidTransition; caller guards are enforced per edge.
func (s *Service) SetStatus(ctx context.Context, bookingID string, actor Actor, newStatus Status, reason string) (*Booking, error) {
	if !newStatus.Valid() || newStatus == StatusPending {
		return nil, ErrInvalidTransition
	}

	var b *Booking
	err := s.repo.WithTransaction(ctx, sql.LevelSerializable, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		b, err = s.repo.GetBookingForUpdate(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		isMentor := b.MentorID == actor.ID
		isMentee := b.MenteeID == actor.ID
		privileged := actor.Role == ActorAdmin

		if actor.Role == ActorUser && !isMentor && !isMentee {
			return ErrNotParticipant
		}

		if !canTransition(b.Status, newStatus) {
			return ErrInvalidTransition
		}

		switch newStatus {
		case StatusConfirmed:
			if !isMentor && !privileged {
				return ErrMentorOnly
			}

		case StatusCancelled:
			if actor.Role == ActorScheduler {
				return ErrNotParticipant
			}
			if b.Status == StatusConfirmed && !privileged && !s.now().Before(b.StartsAt) {
				return ErrSessionStarted
			}
			now := s.now()
			actorID := actor.ID
			b.CancellationReason = reason
			b.CancelledBy = &actorID
			b.CancelledAt = &now

		case StatusCompleted, StatusNoShow:
			if actor.Role != ActorScheduler && !privileged {
				return ErrSchedulerOnly
			}

		case StatusRescheduled:
			if actor.Role == ActorScheduler {
				return ErrNotParticipant
			}
			if !privileged && !s.now().Before(b.StartsAt) {
				return ErrSessionStarted
			}

		case StatusPending:
			return ErrInvalidTransition
		}

		b.Status = newStatus
		if err := s.repo.UpdateBookingStatus(ctx, tx, b); err != nil {
			return err
		}

		if newStatus == StatusCompleted {
			return s.repo.IncrementMentorSessions(ctx, tx, b.MentorID)
		}
		return nil
	})

	if err != nil {
		s.logger.Error(ctx, "failed to set booking status",
			logger.Field{Key: "booking_id", Value: bookingID},
			logger.Field{Key: "actor_id", Value: actor.ID},
			logger.Field{Key: "to", Value: newStatus},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	metrics.BookingTransitions.WithLabelValues(string(newStatus)).Inc()
	s.logger.Info(ctx, "booking status changed",
		logger.Field{Key: "booking_id", Value: bookingID},
		logger.Field{Key: "to", Value: newStatus},
	)
	return b, nil
}

// GetBooking retrieves one booking for a participant or admin
func (s *Service) GetBooking(ctx context.Context, bookingID string, actor Actor) (*Booking, error) {
	b, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if actor.Role == ActorUser && b.MentorID != actor.ID && b.MenteeID != actor.ID {
		return nil, ErrNotParticipant
	}

	return b, nil
}

// ListBookings retrieves the caller's bookings for one side of the
// marketplace, optionally filtered.
func (s *Service) ListBookings(ctx context.Context, userID string, req ListBookingsRequest) (*ListBookingsResponse, error) {
	filter := req.Filter
	if filter == "" {
		filter = FilterAll
	}

	bookings, err := s.repo.ListByUser(ctx, userID, req.Role, filter)
	if err != nil {
		s.logger.Error(ctx, "failed to list bookings",
			logger.Field{Key: "user_id", Value: userID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	return &ListBookingsResponse{
		Bookings: bookings,
		Total:    len(bookings),
	}, nil
}
