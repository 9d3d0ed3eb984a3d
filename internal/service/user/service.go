package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mentorhub/pkg/cache"
	"mentorhub/pkg/logger"
)

const mentorDetailTTL = 5 * time.Minute

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

// GetUser retrieves a user by ID
func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error(ctx, "failed to get user",
			logger.Field{Key: "user_id", Value: userID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	return user, nil
}

// GetProfile retrieves the full profile view for the authenticated user:
// account, base profile, role-specific profile and skills.
func (s *Service) GetProfile(ctx context.Context, userID string) (*ProfileResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	skills, err := s.repo.GetUserSkills(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &ProfileResponse{
		User:    user,
		Profile: profile,
		Skills:  skills,
	}

	switch user.Role {
	case RoleMentor:
		mp, err := s.repo.GetMentorProfile(ctx, userID)
		if err != nil && !errors.Is(err, ErrMentorNotFound) {
			return nil, err
		}
		resp.MentorProfile = mp
	case RoleMentee:
		prefs, err := s.repo.GetMatchPreferences(ctx, userID)
		if err != nil {
			return nil, err
		}
		resp.MatchPreferences = prefs
	case RoleAdmin, RoleModerator:
		// No role-specific profile.
	}

	return resp, nil
}

// UpdateProfile applies a partial update to the user's base profile
func (s *Service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*Profile, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		profile.DisplayName = *req.DisplayName
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = *req.AvatarURL
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Languages != nil {
		profile.Languages = *req.Languages
	}
	if req.Timezone != nil {
		profile.Timezone = *req.Timezone
	}
	if req.Country != nil {
		profile.Country = *req.Country
	}
	if req.City != nil {
		profile.City = *req.City
	}
	if req.Website != nil {
		profile.Website = *req.Website
	}
	if req.LinkedIn != nil {
		profile.SocialLinks.LinkedIn = *req.LinkedIn
	}
	if req.Twitter != nil {
		profile.SocialLinks.Twitter = *req.Twitter
	}
	if req.GitHub != nil {
		profile.SocialLinks.GitHub = *req.GitHub
	}

	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		s.logger.Error(ctx, "failed to update profile",
			logger.Field{Key: "user_id", Value: userID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	// Invalidate cached mentor detail
	s.cache.Del(ctx, fmt.Sprintf("mentor:%s", userID))

	s.logger.Info(ctx, "profile updated", logger.Field{Key: "user_id", Value: userID})
	return profile, nil
}

// ListMentors returns a page of the public mentor directory
func (s *Service) ListMentors(ctx context.Context, filter ListMentorsRequest) (*ListMentorsResponse, error) {
	if filter.Limit == 0 {
		filter.Limit = 20
	}

	mentors, total, err := s.repo.ListMentors(ctx, filter)
	if err != nil {
		s.logger.Error(ctx, "failed to list mentors", logger.Field{Key: "error", Value: err})
		return nil, err
	}

	return &ListMentorsResponse{
		Mentors: mentors,
		Total:   total,
		HasMore: filter.Offset+filter.Limit < total,
	}, nil
}

// GetMentorDetail returns the public detail view of one mentor, cached briefly
func (s *Service) GetMentorDetail(ctx context.Context, mentorID string) (*MentorDetail, error) {
	key := fmt.Sprintf("mentor:%s", mentorID)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var detail MentorDetail
		if err := json.Unmarshal([]byte(cached), &detail); err == nil {
			return &detail, nil
		}
	}

	detail, err := s.repo.GetMentorDetail(ctx, mentorID)
	if err != nil {
		s.logger.Error(ctx, "failed to get mentor detail",
			logger.Field{Key: "mentor_id", Value: mentorID},
			logger.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	if payload, err := json.Marshal(detail); err == nil {
		s.cache.Set(ctx, key, string(payload), mentorDetailTTL)
	}

	return detail, nil
}

// ListSkills returns global skill reference data
func (s *Service) ListSkills(ctx context.Context) ([]*Skill, error) {
	skills, err := s.repo.ListSkills(ctx)
	if err != nil {
		s.logger.Error(ctx, "failed to list skills", logger.Field{Key: "error", Value: err})
		return nil, err
	}

	return skills, nil
}

// UpsertUserSkill adds or updates one of the caller's skills
func (s *Service) UpsertUserSkill(ctx context.Context, userID string, req UpsertSkillRequest) error {
	us := &UserSkill{
		UserID:            userID,
		SkillID:           req.SkillID,
		Level:             req.Level,
		YearsOfExperience: req.YearsOfExperience,
	}

	if err := s.repo.UpsertUserSkill(ctx, us); err != nil {
		s.logger.Error(ctx, "failed to upsert user skill",
			logger.Field{Key: "user_id", Value: userID},
			logger.Field{Key: "skill_id", Value: req.SkillID},
			logger.Field{Key: "error", Value: err},
		)
		return err
	}

	s.cache.Del(ctx, fmt.Sprintf("mentor:%s", userID))
	return nil
}

// VerifyUserSkill marks a user's skill as verified. Admin/moderator only.
func (s *Service) VerifyUserSkill(ctx context.Context, actorRole Role, userID string, skillID int) error {
	if actorRole != RoleAdmin && actorRole != RoleModerator {
		return ErrNotAdmin
	}

	if err := s.repo.VerifyUserSkill(ctx, userID, skillID); err != nil {
		return err
	}

	s.cache.Del(ctx, fmt.Sprintf("mentor:%s", userID))

	s.logger.Info(ctx, "user skill verified",
		logger.Field{Key: "user_id", Value: userID},
		logger.Field{Key: "skill_id", Value: skillID},
	)
	return nil
}
