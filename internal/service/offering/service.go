package offering

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mentorhub/pkg/cache"
	"mentorhub/pkg/logger"

	"github.com/google/uuid"
)

const offeringTTL = 5 * time.Minute

type Service struct {
	repo   Repository
	cache  cache.Cache
	logger logger.Logger
}

func NewService(repo Repository, cache cache.Cache, logger logger.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// validateShape enforces the type-dependent constraints that binding tags
// cannot express.
func validateShape(typ Type, priceCents int64, maxParticipants int) error {
	if !typ.Valid() {
		return ErrInvalidType
	}

	// Office hours may be free; every other type is a paid session.
	if typ != TypeOfficeHours && priceCents <= 0 {
		return ErrInvalidPrice
	}

	if typ.IsGroup() {
		if maxParticipants < 2 {
			return ErrMissingParticipants
		}
	} else if maxParticipants > 1 {
		return ErrParticipantsForSolo
	}

	return nil
}

// CreateOffering publishes a new offering for an active mentor
func (s *Service) CreateOffering(ctx context.Context, mentorID string, req CreateOfferingRequest) (*Offering, error) {
	isMentor, err := s.repo.IsActiveMentor(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	if !isMentor {
		return nil, ErrNotActiveMentor
	}

	if err := validateShape(req.Type, req.PriceCents, req.MaxParticipants); err != nil {
		return nil, err
	}

	maxParticipants := req.MaxParticipants
	if !req.Type.IsGroup() {
		maxParticipants = 1
	}

	o := &Offering{
		ID:              uuid.New().String(),
		MentorID:        mentorID,
		Title:           req.Title,
		Description:     req.Description,
		Type:            req.Type,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		Currency:        req.Currency,
		MaxParticipants: maxParticipants,
		Tags:            req.Tags,
		IsActive:        true,
	}
	if o.Tags == nil {
		o.Tags = []string{}
	}

	if err := s.repo.CreateOffering(ctx, o); err != nil {
		s.logger.Error(ctx, "failed to create offering",
			logger.Field{Key: "mentor_id", Value: mentorID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	s.logger.Info(ctx, "offering created",
		logger.Field{Key: "offering_id", Value: o.ID},
		logger.Field{Key: "mentor_id", Value: mentorID},
	)
	return o, nil
}

// UpdateOffering applies a partial update. Offerings not owned by mentorID
// are reported as not found, never as someone else's.
func (s *Service) UpdateOffering(ctx context.Context, offeringID, mentorID string, req UpdateOfferingRequest) (*Offering, error) {
	o, err := s.repo.GetOfferingByID(ctx, offeringID)
	if err != nil {
		return nil, err
	}
	if o.MentorID != mentorID {
		return nil, ErrOfferingNotFound
	}

	if req.Title != nil {
		o.Title = *req.Title
	}
	if req.Description != nil {
		o.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		o.DurationMinutes = *req.DurationMinutes
	}
	if req.PriceCents != nil {
		o.PriceCents = *req.PriceCents
	}
	if req.Currency != nil {
		o.Currency = *req.Currency
	}
	if req.MaxParticipants != nil {
		o.MaxParticipants = *req.MaxParticipants
	}
	if req.Tags != nil {
		o.Tags = *req.Tags
	}

	if err := validateShape(o.Type, o.PriceCents, o.MaxParticipants); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateOffering(ctx, o); err != nil {
		s.logger.Error(ctx, "failed to update offering",
			logger.Field{Key: "offering_id", Value: offeringID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	s.cache.Del(ctx, fmt.Sprintf("offering:%s", offeringID))

	s.logger.Info(ctx, "offering updated", logger.Field{Key: "offering_id", Value: offeringID})
	return o, nil
}

// DeactivateOffering hides an offering from discovery. Existing bookings
// against it remain valid.
func (s *Service) DeactivateOffering(ctx context.Context, offeringID, mentorID string) error {
	o, err := s.repo.GetOfferingByID(ctx, offeringID)
	if err != nil {
		return err
	}
	if o.MentorID != mentorID {
		return ErrOfferingNotFound
	}

	if !o.IsActive {
		return nil
	}

	o.IsActive = false
	if err := s.repo.UpdateOffering(ctx, o); err != nil {
		s.logger.Error(ctx, "failed to deactivate offering",
			logger.Field{Key: "offering_id", Value: offeringID},
			logger.Field{Key: "error", Value: err},
		)
		return err
	}

	s.cache.Del(ctx, fmt.Sprintf("offering:%s", offeringID))

	s.logger.Info(ctx, "offering deactivated", logger.Field{Key: "offering_id", Value: offeringID})
	return nil
}

// GetOffering retrieves one offering, cached briefly
func (s *Service) GetOffering(ctx context.Context, offeringID string) (*Offering, error) {
	key := fmt.Sprintf("offering:%s", offeringID)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var o Offering
		if err := json.Unmarshal([]byte(cached), &o); err == nil {
			return &o, nil
		}
	}

	o, err := s.repo.GetOfferingByID(ctx, offeringID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(o); err == nil {
		s.cache.Set(ctx, key, string(payload), offeringTTL)
	}

	return o, nil
}

// ListOfferings returns a page of active offerings matching the filter
func (s *Service) ListOfferings(ctx context.Context, filter ListOfferingsRequest) (*ListOfferingsResponse, error) {
	if filter.Limit == 0 {
		filter.Limit = 20
	}

	offerings, total, err := s.repo.ListOfferings(ctx, filter)
	if err != nil {
		s.logger.Error(ctx, "failed to list offerings", logger.Field{Key: "error", Value: err})
		return nil, err
	}

	return &ListOfferingsResponse{
		Offerings: offerings,
		Total:     total,
		HasMore:   filter.Offset+filter.Limit < total,
	}, nil
}

// ListMentorOfferings retrieves a mentor's active offerings for their public page
func (s *Service) ListMentorOfferings(ctx context.Context, mentorID string) ([]*Offering, error) {
	return s.repo.ListByMentor(ctx, mentorID, true)
}

// ListOwnOfferings retrieves all of the caller's offerings, active or not
func (s *Service) ListOwnOfferings(ctx context.Context, mentorID string) ([]*Offering, error) {
	return s.repo.ListByMentor(ctx, mentorID, false)
}
