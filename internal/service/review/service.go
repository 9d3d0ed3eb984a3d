package review

import (
	"context"
	"database/sql"

	"mentorhub/pkg/logger"
	"mentorhub/pkg/metrics"

	"github.com/google/uuid"
)

type Service struct {
	repo   Repository
	logger logger.Logger
}

func NewService(repo Repository, logger logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// SubmitReview attaches a review to a completed booking. The ratee is always
// the rater's counterpart on the booking. When the ratee is the mentor, the
// stored rating aggregate is folded forward inside the same transaction.
func (s *Service) SubmitReview(ctx context.Context, raterID string, req SubmitReviewRequest) (*Review, error) {
	rev := &Review{
		ID:        uuid.New().String(),
		BookingID: req.BookingID,
		RaterID:   raterID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	err := s.repo.WithTransaction(ctx, sql.LevelSerializable, func(ctx context.Context, tx *sql.Tx) error {
		ref, err := s.repo.GetBookingRef(ctx, tx, req.BookingID)
		if err != nil {
			return err
		}

		switch raterID {
		case ref.MentorID:
			rev.RateeID = ref.MenteeID
		case ref.MenteeID:
			rev.RateeID = ref.MentorID
		default:
			return ErrNotParticipant
		}

		if ref.Status != "completed" {
			return ErrBookingNotCompleted
		}

		if err := s.repo.CreateReview(ctx, tx, rev); err != nil {
			return err
		}

		// Only mentor profiles carry a stored aggregate.
		if rev.RateeID == ref.MentorID {
			return s.repo.ApplyRatingToMentor(ctx, tx, ref.MentorID, rev.Rating)
		}
		return nil
	})

	if err != nil {
		s.logger.Error(ctx, "failed to submit review",
			logger.Field{Key: "booking_id", Value: req.BookingID},
			logger.Field{Key: "rater_id", Value: raterID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	metrics.ReviewsSubmitted.Inc()
	s.logger.Info(ctx, "review submitted",
		logger.Field{Key: "review_id", Value: rev.ID},
		logger.Field{Key: "booking_id", Value: req.BookingID},
		logger.Field{Key: "ratee_id", Value: rev.RateeID},
	)
	return rev, nil
}

// ListReviews retrieves reviews a user gave or received, newest first
func (s *Service) ListReviews(ctx context.Context, userID string, direction Direction) (*ListReviewsResponse, error) {
	reviews, err := s.repo.ListByUser(ctx, userID, direction)
	if err != nil {
		s.logger.Error(ctx, "failed to list reviews",
			logger.Field{Key: "user_id", Value: userID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	return &ListReviewsResponse{
		Reviews: reviews,
		Total:   len(reviews),
	}, nil
}
