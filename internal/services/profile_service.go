package services

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/vibe-commerce/api/internal/domain"
	"github.com/vibe-commerce/api/internal/repositories"
)

var (
	// ErrProfileInvalidInput indicates the profile update failed validation.
	ErrProfileInvalidInput = errors.New("profile: invalid input")
	// ErrProfileUnavailable indicates the profile backend failed.
	ErrProfileUnavailable = errors.New("profile: unavailable")
)

// ProfileServiceDeps bundles dependencies for NewProfileService.
type ProfileServiceDeps struct {
	Repository repositories.ProfileRepository
	Clock      func() time.Time
	Logger     func(ctx context.Context, msg string, fields map[string]any)
}

type profileService struct {
	repo   repositories.ProfileRepository
	now    func() time.Time
	logger func(ctx context.Context, msg string, fields map[string]any)
}

// NewProfileService builds the stub account service.
func NewProfileService(deps ProfileServiceDeps) (ProfileService, error) {
	if deps.Repository == nil {
		return nil, errors.New("profile service requires a repository")
	}
	if deps.Clock == nil {
		return nil, errors.New("profile service requires a clock")
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &profileService{repo: deps.Repository, now: deps.Clock, logger: logger}, nil
}

// Get returns the stored profile, or an empty one for a fresh session.
func (s *profileService) Get(ctx context.Context, sessionID string) (Profile, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return Profile{}, ErrProfileInvalidInput
	}
	profile, err := s.repo.Get(ctx, sid)
	if err != nil {
		if isRepoNotFound(err) {
			return domain.Profile{SessionID: sid}, nil
		}
		return Profile{}, ErrProfileUnavailable
	}
	return profile, nil
}

func (s *profileService) Update(ctx context.Context, cmd UpdateProfileCommand) (Profile, error) {
	sid := strings.TrimSpace(cmd.SessionID)
	name := strings.TrimSpace(cmd.Name)
	email := strings.TrimSpace(cmd.Email)
	if sid == "" || name == "" {
		return Profile{}, ErrProfileInvalidInput
	}
	if email != "" && !emailPattern.MatchString(email) {
		return Profile{}, ErrProfileInvalidInput
	}

	profile := domain.Profile{
		SessionID: sid,
		Name:      name,
		Email:     email,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.repo.Put(ctx, profile); err != nil {
		return Profile{}, ErrProfileUnavailable
	}
	s.logger(ctx, "profile.updated", map[string]any{"sessionID": sid})
	return profile, nil
}
