package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrMentorNotFound    = errors.New("mentor not found")
	ErrSkillNotFound     = errors.New("skill not found")
	ErrUserSkillNotFound = errors.New("user skill not found")

	ErrNotAdmin = errors.New("only admins or moderators can verify skills")
)
