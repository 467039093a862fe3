package service

import (
	"context"
	"time"

	"github.com/careercompass/compass/internal/model"
	appErr "github.com/careercompass/compass/internal/pkg/errors"
	"github.com/careercompass/compass/internal/repo"
)

type ProfileService struct {
	profiles *repo.ProfileRepo
}

func NewProfileService(profiles *repo.ProfileRepo) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Get returns the user's profile, creating an empty one on first access.
func (s *ProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !appErr.IsNotFound(err) {
		return nil, err
	}
	profile = &model.Profile{
		UserID:           userID,
		Hobbies:          []string{},
		Extracurriculars: []string{},
		Interests:        []string{},
		Mtime:            time.Now().Unix(),
	}
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Update applies the non-nil fields of the update to the profile.
func (s *ProfileService) Update(ctx context.Context, userID string, update model.ProfileUpdate) (*model.Profile, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if update.ManualGPA != nil {
		profile.ManualGPA = update.ManualGPA
	}
	if update.ManualMajor != nil {
		profile.ManualMajor = *update.ManualMajor
	}
	if update.Bio != nil {
		profile.Bio = *update.Bio
	}
	if update.Hobbies != nil {
		profile.Hobbies = *update.Hobbies
	}
	if update.Extracurriculars != nil {
		profile.Extracurriculars = *update.Extracurriculars
	}
	if update.Interests != nil {
		profile.Interests = *update.Interests
	}
	profile.Mtime = time.Now().Unix()
	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
