package review

import (
	"context"
	"database/sql"
	"testing"

	"mentorhub/pkg/db"
	"mentorhub/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	refs    map[string]*BookingRef
	reviews map[string]*Review // keyed by booking_id + rater_id

	appliedMentorID string
	appliedRating   int
	applyCount      int

	listed []*ReviewWithRater
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		refs:    make(map[string]*BookingRef),
		reviews: make(map[string]*Review),
	}
}

func (f *fakeRepo) GetBookingRef(ctx context.Context, tx *sql.Tx, bookingID string) (*BookingRef, error) {
	ref, ok := f.refs[bookingID]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return ref, nil
}

func (f *fakeRepo) CreateReview(ctx context.Context, tx *sql.Tx, rev *Review) error {
	key := rev.BookingID + "/" + rev.RaterID
	if _, ok := f.reviews[key]; ok {
		return ErrReviewExists
	}
	f.reviews[key] = rev
	return nil
}

func (f *fakeRepo) ApplyRatingToMentor(ctx context.Context, tx *sql.Tx, mentorID string, rating int) error {
	f.appliedMentorID = mentorID
	f.appliedRating = rating
	f.applyCount++
	return nil
}

func (f *fakeRepo) ListByUser(ctx context.Context, userID string, direction Direction) ([]*ReviewWithRater, error) {
	return f.listed, nil
}

func (f *fakeRepo) WithTransaction(ctx context.Context, isolation sql.IsolationLevel, fn db.TxFunc) error {
	return fn(ctx, nil)
}

func completedRef() *BookingRef {
	return &BookingRef{
		ID:       "bk-1",
		MentorID: "mentor-1",
		MenteeID: "mentee-1",
		Status:   "completed",
	}
}

func TestSubmitReview(t *testing.T) {
	t.Run("mentee reviews mentor and the aggregate moves", func(t *testing.T) {
		repo := newFakeRepo()
		repo.refs["bk-1"] = completedRef()
		s := NewService(repo, logger.Nop())

		rev, err := s.SubmitReview(context.Background(), "mentee-1", SubmitReviewRequest{
			BookingID: "bk-1",
			Rating:    5,
			Comment:   "excellent session",
		})

		require.NoError(t, err)
		assert.Equal(t, "mentor-1", rev.RateeID)
		assert.Equal(t, 1, repo.applyCount)
		assert.Equal(t, "mentor-1", repo.appliedMentorID)
		assert.Equal(t, 5, repo.appliedRating)
	})

	t.Run("mentor reviews mentee without touching any aggregate", func(t *testing.T) {
		repo := newFakeRepo()
		repo.refs["bk-1"] = completedRef()
		s := NewService(repo, logger.Nop())

		rev, err := s.SubmitReview(context.Background(), "mentor-1", SubmitReviewRequest{
			BookingID: "bk-1",
			Rating:    4,
		})

		require.NoError(t, err)
		assert.Equal(t, "mentee-1", rev.RateeID)
		assert.Equal(t, 0, repo.applyCount)
	})

	t.Run("only completed bookings are reviewable", func(t *testing.T) {
		for _, status := range []string{"pending", "confirmed", "cancelled", "no_show", "rescheduled"} {
			repo := newFakeRepo()
			ref := completedRef()
			ref.Status = status
			repo.refs["bk-1"] = ref
			s := NewService(repo, logger.Nop())

			_, err := s.SubmitReview(context.Background(), "mentee-1", SubmitReviewRequest{
				BookingID: "bk-1",
				Rating:    3,
			})
			assert.ErrorIs(t, err, ErrBookingNotCompleted, "status %s", status)
		}
	})

	t.Run("strangers cannot review", func(t *testing.T) {
		repo := newFakeRepo()
		repo.refs["bk-1"] = completedRef()
		s := NewService(repo, logger.Nop())

		_, err := s.SubmitReview(context.Background(), "other", SubmitReviewRequest{
			BookingID: "bk-1",
			Rating:    1,
		})
		assert.ErrorIs(t, err, ErrNotParticipant)
		assert.Empty(t, repo.reviews)
	})

	t.Run("one review per party per booking", func(t *testing.T) {
		repo := newFakeRepo()
		repo.refs["bk-1"] = completedRef()
		s := NewService(repo, logger.Nop())

		_, err := s.SubmitReview(context.Background(), "mentee-1", SubmitReviewRequest{BookingID: "bk-1", Rating: 5})
		require.NoError(t, err)

		_, err = s.SubmitReview(context.Background(), "mentee-1", SubmitReviewRequest{BookingID: "bk-1", Rating: 2})
		assert.ErrorIs(t, err, ErrReviewExists)

		// The counterpart's review is independent.
		_, err = s.SubmitReview(context.Background(), "mentor-1", SubmitReviewRequest{BookingID: "bk-1", Rating: 4})
		assert.NoError(t, err)
	})

	t.Run("unknown booking", func(t *testing.T) {
		repo := newFakeRepo()
		s := NewService(repo, logger.Nop())

		_, err := s.SubmitReview(context.Background(), "mentee-1", SubmitReviewRequest{BookingID: "missing", Rating: 5})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestListReviews(t *testing.T) {
	repo := newFakeRepo()
	repo.listed = []*ReviewWithRater{
		{Review: Review{ID: "r1", Rating: 5}},
		{Review: Review{ID: "r2", Rating: 3}},
	}
	s := NewService(repo, logger.Nop())

	resp, err := s.ListReviews(context.Background(), "mentor-1", DirectionReceived)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Reviews, 2)
}
