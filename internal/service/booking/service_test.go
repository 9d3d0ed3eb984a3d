package booking

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"mentorhub/pkg/db"
	"mentorhub/pkg/logger"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	bookings  map[string]*Booking
	snapshots map[string]*OfferingSnapshot
	overlap   bool

	sessionIncrements int
	listed            []*Booking
	listFilter        ListFilter
	listRole          PartyRole
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings:  make(map[string]*Booking),
		snapshots: make(map[string]*OfferingSnapshot),
	}
}

func (f *fakeRepo) CreateBooking(ctx context.Context, tx *sql.Tx, b *Booking) error {
	f.bookings[b.ID] = b
	return nil
}

func (f *fakeRepo) GetBookingByID(ctx context.Context, bookingID string) (*Booking, error) {
	b, ok := f.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeRepo) GetBookingForUpdate(ctx context.Context, tx *sql.Tx, bookingID string) (*Booking, error) {
	return f.GetBookingByID(ctx, bookingID)
}

func (f *fakeRepo) UpdateBookingStatus(ctx context.Context, tx *sql.Tx, b *Booking) error {
	if _, ok := f.bookings[b.ID]; !ok {
		return ErrBookingNotFound
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeRepo) HasOverlap(ctx context.Context, tx *sql.Tx, mentorID string, startsAt, endsAt time.Time, bufferMinutes int) (bool, error) {
	return f.overlap, nil
}

func (f *fakeRepo) GetOfferingSnapshot(ctx context.Context, tx *sql.Tx, offeringID string) (*OfferingSnapshot, error) {
	snap, ok := f.snapshots[offeringID]
	if !ok {
		return nil, ErrOfferingNotFound
	}
	return snap, nil
}

func (f *fakeRepo) IncrementMentorSessions(ctx context.Context, tx *sql.Tx, mentorID string) error {
	f.sessionIncrements++
	return nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID string, role PartyRole, filter ListFilter) ([]*Booking, error) {
	f.listRole = role
	f.listFilter = filter
	return f.listed, nil
}

func (f *fakeRepo) WithTransaction(ctx context.Context, isolation sql.IsolationLevel, fn db.TxFunc) error {
	return fn(ctx, nil)
}

var testClock = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	s := NewService(repo, node, 0, logger.Nop())
	s.now = func() time.Time { return testClock }
	return s
}

func activeSnapshot(mentorID string) *OfferingSnapshot {
	return &OfferingSnapshot{
		ID:              "off-1",
		MentorID:        mentorID,
		DurationMinutes: 60,
		PriceCents:      15000,
		Currency:        "USD",
		IsActive:        true,
	}
}

func TestRequestBooking(t *testing.T) {
	startsAt := testClock.Add(24 * time.Hour)

	t.Run("snapshots the offering", func(t *testing.T) {
		repo := newFakeRepo()
		repo.snapshots["off-1"] = activeSnapshot("mentor-1")
		s := newTestService(t, repo)

		b, err := s.RequestBooking(context.Background(), "mentee-1", RequestBookingRequest{
			OfferingID: "off-1",
			StartsAt:   startsAt,
			Notes:      "intro call",
		})

		require.NoError(t, err)
		assert.Equal(t, StatusPending, b.Status)
		assert.Equal(t, "mentor-1", b.MentorID)
		assert.Equal(t, "mentee-1", b.MenteeID)
		assert.Equal(t, int64(15000), b.PriceCents)
		assert.Equal(t, "USD", b.Currency)
		assert.Equal(t, startsAt.Add(60*time.Minute), b.EndsAt)
		assert.NotEmpty(t, b.Reference)
		require.NotNil(t, b.OfferingID)
		assert.Equal(t, "off-1", *b.OfferingID)
		assert.Contains(t, repo.bookings, b.ID)
	})

	t.Run("rejects a start that is not in the future", func(t *testing.T) {
		repo := newFakeRepo()
		repo.snapshots["off-1"] = activeSnapshot("mentor-1")
		s := newTestService(t, repo)

		_, err := s.RequestBooking(context.Background(), "mentee-1", RequestBookingRequest{
			OfferingID: "off-1",
			StartsAt:   testClock,
		})
		assert.ErrorIs(t, err, ErrStartInPast)

		_, err = s.RequestBooking(context.Background(), "mentee-1", RequestBookingRequest{
			OfferingID: "off-1",
			StartsAt:   testClock.Add(-time.Hour),
		})
		assert.ErrorIs(t, err, ErrStartInPast)
	})

	t.Run("hides inactive offerings", func(t *testing.T) {
		repo := newFakeRepo()
		snap := activeSnapshot("mentor-1")
		snap.IsActive = false
		repo.snapshots["off-1"] = snap
		s := newTestService(t, repo)

		_, err := s.RequestBooking(context.Background(), "mentee-1", RequestBookingRequest{
			OfferingID: "off-1",
			StartsAt:   startsAt,
		})
		assert.ErrorIs(t, err, ErrOfferingNotFound)
	})

	t.Run("rejects booking your own offering", func(t *testing.T) {
		repo := newFakeRepo()
		repo.snapshots["off-1"] = activeSnapshot("mentor-1")
		s := newTestService(t, repo)

		_, err := s.RequestBooking(context.Background(), "mentor-1", RequestBookingRequest{
			OfferingID: "off-1",
			StartsAt:   startsAt,
		})
		assert.ErrorIs(t, err, ErrSelfBooking)
	})

	t.Run("rejects an overlapping slot", func(t *testing.T) {
		repo := newFakeRepo()
		repo.snapshots["off-1"] = activeSnapshot("mentor-1")
		repo.overlap = true
		s := newTestService(t, repo)

		_, err := s.RequestBooking(context.Background(), "mentee-1", RequestBookingRequest{
			OfferingID: "off-1",
			StartsAt:   startsAt,
		})
		assert.ErrorIs(t, err, ErrBookingConflict)
		assert.Empty(t, repo.bookings)
	})
}

func seedBooking(repo *fakeRepo, status Status, startsAt time.Time) *Booking {
	b := &Booking{
		ID:       "bk-1",
		MentorID: "mentor-1",
		MenteeID: "mentee-1",
		StartsAt: startsAt,
		EndsAt:   startsAt.Add(time.Hour),
		Status:   status,
	}
	repo.bookings[b.ID] = b
	return b
}

func TestSetStatus(t *testing.T) {
	future := testClock.Add(24 * time.Hour)
	past := testClock.Add(-24 * time.Hour)

	mentor := Actor{ID: "mentor-1", Role: ActorUser}
	mentee := Actor{ID: "mentee-1", Role: ActorUser}
	stranger := Actor{ID: "other", Role: ActorUser}
	admin := Actor{ID: "admin-1", Role: ActorAdmin}
	scheduler := Actor{ID: "sched-1", Role: ActorScheduler}

	t.Run("mentor confirms a pending booking", func(t *testing.T) {
		repo := newFakeRepo()
		seedBooking(repo, StatusPending, future)
		s := newTestService(t, repo)

		b, err := s.SetStatus(context.Background(), "bk-1", mentor, StatusConfirmed, "")
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, b.Status)
	})

	t.Run("mentee cannot confirm", func(t *testing.T) {
		repo := newFakeRepo()
		seedBooking(repo, StatusPending, future)
		s := newTestService(t, repo)

		_, err := s.SetStatus(context.Background(), "bk-1", mentee, StatusConfirmed, "")
		assert.ErrorIs(t, err, ErrMentorOnly)
	})

	t.Run("non-participants are rejected", func(t *testing.T) {
		repo := newFakeRepo()
		seedBooking(repo, StatusPending, future)
		s := newTestService(t, repo)

		_, err := s.SetStatus(context.Background(), "bk-1", stranger, StatusCancelled, "")
		assert.ErrorIs(t, err, ErrNotParticipant)
	})

	t.Run("cancelling records who and why", func(t *testing.T) {
		repo := newFakeRepo()
		seedBooking(repo, StatusPending, future)
		s := newTestService(t, repo)

		b, err := s.SetStatus(context.Background(), "bk-1", mentee, StatusCancelled, "schedule clash")
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, b.Status)
		assert.Equal(t, "schedule clash", b.CancellationReason)
		require.NotNil(t, b.CancelledBy)
		assert.Equal(t, "mentee-1", *b.CancelledBy)
		require.NotNil(t, b.CancelledAt)
		assert.Equal(t, testClock, *b.CancelledAt)
	})

	t.Run("confirmed booking cannot be cancelled once started", func(t *testing.T) {
		repo := newFakeRepo()
		seedBooking(repo, StatusConfirmed, past)
		s := newTestService(t, repo)

		_, err := s.SetStatus(context.Background(), "bk-1", mentee, StatusCancelled, "")
		assert.ErrorIs(t, err, ErrSessionStarted)
	})

	t.Run("admin may cancel after start", func(t *testing.T) {
		repo := newFakeRepo()
		seedBooking(repo, StatusConfirmed, past)
		s := newTestService(t, repo)

		b, err := s.SetStatus(context.Background(), "bk-1", admin, StatusCancelled, "dispute")
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, b.Status)
	})

	t.Run("scheduler cannot cancel", func(t *testing.T) {
		repo := newFakeRepo()
		seedBooking(repo, StatusConfirmed, future)
		s := newTestService(t, repo)

		_, err := s.SetStatus(context.Background(), "bk-1", scheduler, StatusCancelled, "")
		assert.ErrorIs(t, err, ErrNotParticipant)
	})

	t.Run("scheduler completes and mentor sessions increment", func(t *testing.T) {
		repo := newFakeRepo()
		seedBooking(repo, StatusConfirmed, past)
		s := newTestService(t, repo)

		b, err := s.SetStatus(context.Background(), "bk-1", scheduler, StatusCompleted, "")
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, b.Status)
		assert.Equal(t, 1, repo.sessionIncrements)
	})

	t.Run("parties cannot complete", func(t *testing.T) {
		repo := newFakeRepo()
		seedBooking(repo, StatusConfirmed, past)
		s := newTestService(t, repo)

		_, err := s.SetStatus(context.Background(), "bk-1", mentor, StatusCompleted, "")
		assert.ErrorIs(t, err, ErrSchedulerOnly)

		_, err = s.SetStatus(context.Background(), "bk-1", mentee, StatusNoShow, "")
		assert.ErrorIs(t, err, ErrSchedulerOnly)
	})

	t.Run("terminal statuses admit no transition", func(t *testing.T) {
		for _, status := range []Status{StatusCompleted, StatusCancelled, StatusNoShow, StatusRescheduled} {
			repo := newFakeRepo()
			seedBooking(repo, status, past)
			s := newTestService(t, repo)

			_, err := s.SetStatus(context.Background(), "bk-1", admin, StatusCancelled, "")
			assert.ErrorIs(t, err, ErrInvalidTransition, "from %s", status)
		}
	})

	t.Run("pending is never a target", func(t *testing.T) {
		repo := newFakeRepo()
		seedBooking(repo, StatusConfirmed, future)
		s := newTestService(t, repo)

		_, err := s.SetStatus(context.Background(), "bk-1", admin, StatusPending, "")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("reschedule before start", func(t *testing.T) {
		repo := newFakeRepo()
		seedBooking(repo, StatusConfirmed, future)
		s := newTestService(t, repo)

		b, err := s.SetStatus(context.Background(), "bk-1", mentor, StatusRescheduled, "")
		require.NoError(t, err)
		assert.Equal(t, StatusRescheduled, b.Status)
	})

	t.Run("reschedule after start is rejected for parties", func(t *testing.T) {
		repo := newFakeRepo()
		seedBooking(repo, StatusConfirmed, past)
		s := newTestService(t, repo)

		_, err := s.SetStatus(context.Background(), "bk-1", mentee, StatusRescheduled, "")
		assert.ErrorIs(t, err, ErrSessionStarted)
	})
}

func TestGetBooking(t *testing.T) {
	repo := newFakeRepo()
	seedBooking(repo, StatusConfirmed, testClock.Add(time.Hour))
	s := newTestService(t, repo)

	_, err := s.GetBooking(context.Background(), "bk-1", Actor{ID: "mentee-1", Role: ActorUser})
	assert.NoError(t, err)

	_, err = s.GetBooking(context.Background(), "bk-1", Actor{ID: "other", Role: ActorUser})
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = s.GetBooking(context.Background(), "bk-1", Actor{ID: "admin-1", Role: ActorAdmin})
	assert.NoError(t, err)

	_, err = s.GetBooking(context.Background(), "missing", Actor{ID: "mentee-1", Role: ActorUser})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListBookings(t *testing.T) {
	repo := newFakeRepo()
	repo.listed = []*Booking{{ID: "bk-1"}, {ID: "bk-2"}}
	s := newTestService(t, repo)

	resp, err := s.ListBookings(context.Background(), "mentee-1", ListBookingsRequest{Role: PartyMentee})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, FilterAll, repo.listFilter)
	assert.Equal(t, PartyMentee, repo.listRole)

	_, err = s.ListBookings(context.Background(), "mentor-1", ListBookingsRequest{Role: PartyMentor, Filter: FilterUpcoming})
	require.NoError(t, err)
	assert.Equal(t, FilterUpcoming, repo.listFilter)
}
