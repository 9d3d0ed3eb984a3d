package user

import (
	"context"
	"testing"
	"time"

	"mentorhub/pkg/cache"
	"mentorhub/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	users    map[string]*User
	profiles map[string]*Profile
	mentors  map[string]*MentorProfile
	prefs    map[string]*MatchPreferences
	skills   map[string][]*UserSkillDetail

	upserted []*UserSkill
	verified map[string]int

	listed    []*MentorSummary
	listTotal int

	detail *MentorDetail
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    make(map[string]*User),
		profiles: make(map[string]*Profile),
		mentors:  make(map[string]*MentorProfile),
		prefs:    make(map[string]*MatchPreferences),
		skills:   make(map[string][]*UserSkillDetail),
		verified: make(map[string]int),
	}
}

func (f *fakeRepo) GetUserByID(ctx context.Context, userID string) (*User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (f *fakeRepo) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) UpdateProfile(ctx context.Context, profile *Profile) error {
	if _, ok := f.profiles[profile.UserID]; !ok {
		return ErrProfileNotFound
	}
	cp := *profile
	f.profiles[profile.UserID] = &cp
	return nil
}

func (f *fakeRepo) GetMentorProfile(ctx context.Context, userID string) (*MentorProfile, error) {
	mp, ok := f.mentors[userID]
	if !ok {
		return nil, ErrMentorNotFound
	}
	return mp, nil
}

func (f *fakeRepo) GetMatchPreferences(ctx context.Context, userID string) (*MatchPreferences, error) {
	return f.prefs[userID], nil
}

func (f *fakeRepo) ListMentors(ctx context.Context, filter ListMentorsRequest) ([]*MentorSummary, int, error) {
	return f.listed, f.listTotal, nil
}

func (f *fakeRepo) GetMentorDetail(ctx context.Context, mentorID string) (*MentorDetail, error) {
	if f.detail == nil {
		return nil, ErrMentorNotFound
	}
	return f.detail, nil
}

func (f *fakeRepo) ListSkills(ctx context.Context) ([]*Skill, error) {
	return []*Skill{{ID: 1, Name: "Go", Category: "backend", IsActive: true}}, nil
}

func (f *fakeRepo) GetUserSkills(ctx context.Context, userID string) ([]*UserSkillDetail, error) {
	skills, ok := f.skills[userID]
	if !ok {
		return []*UserSkillDetail{}, nil
	}
	return skills, nil
}

func (f *fakeRepo) UpsertUserSkill(ctx context.Context, us *UserSkill) error {
	f.upserted = append(f.upserted, us)
	return nil
}

func (f *fakeRepo) VerifyUserSkill(ctx context.Context, userID string, skillID int) error {
	if _, ok := f.users[userID]; !ok {
		return ErrUserSkillNotFound
	}
	f.verified[userID] = skillID
	return nil
}

type fakeCache struct {
	values map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	return v, nil
}

func (c *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.values[key] = value
	return nil
}

func (c *fakeCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.values, k)
	}
	return nil
}

func seedMentee(repo *fakeRepo, id string) {
	repo.users[id] = &User{ID: id, Email: id + "@example.com", Role: RoleMentee, Status: StatusActive}
	repo.profiles[id] = &Profile{UserID: id, DisplayName: "Dana", Languages: []string{"en"}}
}

func TestGetProfile(t *testing.T) {
	t.Run("mentee profile includes preferences when present", func(t *testing.T) {
		repo := newFakeRepo()
		seedMentee(repo, "u1")
		repo.prefs["u1"] = &MatchPreferences{UserID: "u1", Goals: []string{"career"}}
		s := NewService(repo, newFakeCache(), logger.Nop())

		resp, err := s.GetProfile(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, RoleMentee, resp.User.Role)
		require.NotNil(t, resp.MatchPreferences)
		assert.Nil(t, resp.MentorProfile)
	})

	t.Run("mentor profile includes the mentor section", func(t *testing.T) {
		repo := newFakeRepo()
		repo.users["m1"] = &User{ID: "m1", Role: RoleMentor, Status: StatusActive}
		repo.profiles["m1"] = &Profile{UserID: "m1", DisplayName: "Sam"}
		repo.mentors["m1"] = &MentorProfile{UserID: "m1", Rating: 4.8, TotalReviews: 12}
		s := NewService(repo, newFakeCache(), logger.Nop())

		resp, err := s.GetProfile(context.Background(), "m1")
		require.NoError(t, err)
		require.NotNil(t, resp.MentorProfile)
		assert.Equal(t, 4.8, resp.MentorProfile.Rating)
	})

	t.Run("unknown user", func(t *testing.T) {
		s := NewService(newFakeRepo(), newFakeCache(), logger.Nop())
		_, err := s.GetProfile(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("applies only the provided fields", func(t *testing.T) {
		repo := newFakeRepo()
		seedMentee(repo, "u1")
		s := NewService(repo, newFakeCache(), logger.Nop())

		bio := "Backend engineer"
		github := "https://github.com/dana"
		p, err := s.UpdateProfile(context.Background(), "u1", UpdateProfileRequest{
			Bio:    &bio,
			GitHub: &github,
		})
		require.NoError(t, err)
		assert.Equal(t, "Backend engineer", p.Bio)
		assert.Equal(t, "https://github.com/dana", p.SocialLinks.GitHub)
		assert.Equal(t, "Dana", p.DisplayName)
	})

	t.Run("invalidates the cached mentor detail", func(t *testing.T) {
		repo := newFakeRepo()
		seedMentee(repo, "u1")
		c := newFakeCache()
		c.values["mentor:u1"] = "stale"
		s := NewService(repo, c, logger.Nop())

		name := "New Name"
		_, err := s.UpdateProfile(context.Background(), "u1", UpdateProfileRequest{DisplayName: &name})
		require.NoError(t, err)
		assert.NotContains(t, c.values, "mentor:u1")
	})
}

func TestListMentors(t *testing.T) {
	repo := newFakeRepo()
	repo.listed = []*MentorSummary{{ID: "m1"}, {ID: "m2"}}
	repo.listTotal = 30
	s := NewService(repo, newFakeCache(), logger.Nop())

	resp, err := s.ListMentors(context.Background(), ListMentorsRequest{})
	require.NoError(t, err)
	assert.Equal(t, 30, resp.Total)
	assert.True(t, resp.HasMore)

	resp, err = s.ListMentors(context.Background(), ListMentorsRequest{Offset: 20, Limit: 10})
	require.NoError(t, err)
	assert.False(t, resp.HasMore)
}

func TestGetMentorDetail(t *testing.T) {
	repo := newFakeRepo()
	repo.detail = &MentorDetail{
		MentorSummary: MentorSummary{ID: "m1", DisplayName: "Sam", Rating: 4.9},
		Languages:     []string{"en"},
		Skills:        []*UserSkillDetail{},
	}
	c := newFakeCache()
	s := NewService(repo, c, logger.Nop())

	detail, err := s.GetMentorDetail(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "Sam", detail.DisplayName)
	assert.Contains(t, c.values, "mentor:m1")

	// Second read comes from cache.
	repo.detail = nil
	detail, err = s.GetMentorDetail(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "Sam", detail.DisplayName)
}

func TestVerifyUserSkill(t *testing.T) {
	repo := newFakeRepo()
	seedMentee(repo, "u1")
	s := NewService(repo, newFakeCache(), logger.Nop())

	err := s.VerifyUserSkill(context.Background(), RoleMentee, "u1", 1)
	assert.ErrorIs(t, err, ErrNotAdmin)

	err = s.VerifyUserSkill(context.Background(), RoleMentor, "u1", 1)
	assert.ErrorIs(t, err, ErrNotAdmin)

	require.NoError(t, s.VerifyUserSkill(context.Background(), RoleAdmin, "u1", 1))
	assert.Equal(t, 1, repo.verified["u1"])

	require.NoError(t, s.VerifyUserSkill(context.Background(), RoleModerator, "u1", 1))
}

func TestUpsertUserSkill(t *testing.T) {
	repo := newFakeRepo()
	seedMentee(repo, "u1")
	s := NewService(repo, newFakeCache(), logger.Nop())

	err := s.UpsertUserSkill(context.Background(), "u1", UpsertSkillRequest{SkillID: 3, Level: 4, YearsOfExperience: 2})
	require.NoError(t, err)
	require.Len(t, repo.upserted, 1)
	assert.Equal(t, 3, repo.upserted[0].SkillID)
	assert.Equal(t, 4, repo.upserted[0].Level)
}
