package services

import (
	"context"
	"time"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/query"
)

// profileSchema declares the queryable surface of profiles.
var profileSchema = query.Schema[domain.Profile]{
	Fields: map[string]query.Field[domain.Profile]{
		"userId":      query.StringField(func(p *domain.Profile) string { return p.UserID }),
		"displayName": query.StringField(func(p *domain.Profile) string { return p.DisplayName }),
		"headline":    query.StringField(func(p *domain.Profile) string { return p.Headline }),
		"location":    query.StringField(func(p *domain.Profile) string { return p.Location }),
		"crafts":      query.TagsField(func(p *domain.Profile) []string { return p.Crafts }),
		"materials":   query.TagsField(func(p *domain.Profile) []string { return p.Materials }),
		"techniques":  query.TagsField(func(p *domain.Profile) []string { return p.Techniques }),
		"verified":    query.BoolField(func(p *domain.Profile) bool { return p.Verified }),
		"visible":     query.BoolField(func(p *domain.Profile) bool { return p.Visible }),
		"createdAt":   query.TimeField(func(p *domain.Profile) time.Time { return p.CreatedAt }),
	},
	DefaultSort: query.Sort{Field: "createdAt", Direction: query.Desc},
}

// Profiles is the facade over user profiles and their moderation flags.
type Profiles struct {
	*core
}

// CreateProfileInput carries the caller-supplied fields for a new profile.
type CreateProfileInput struct {
	UserID      string
	DisplayName string
	Headline    string
	Bio         string
	Location    string
	Crafts      []string
	Materials   []string
	Techniques  []string
	Visible     bool
}

// UpdateProfileInput is a partial update; nil fields are left unchanged.
type UpdateProfileInput struct {
	DisplayName *string
	Headline    *string
	Bio         *string
	Location    *string
	Crafts      *[]string
	Materials   *[]string
	Techniques  *[]string
	Visible     *bool
	Verified    *bool
}

// List returns one page of profiles.
func (s *Profiles) List(ctx context.Context, p query.Params) (query.Page[domain.Profile], error) {
	return listSnapshot(ctx, s.core, s.repo.Profiles.All, profileSchema, p)
}

// Get returns the profile with the given id.
func (s *Profiles) Get(ctx context.Context, id string) (domain.Profile, bool, error) {
	var prof domain.Profile
	var ok bool
	if err := ctx.Err(); err != nil {
		return prof, false, err
	}
	s.repo.View(func() {
		prof, ok = s.repo.Profiles.Get(id)
	})
	return prof, ok, nil
}

// GetByUser returns the profile owned by the given user.
func (s *Profiles) GetByUser(ctx context.Context, userID string) (domain.Profile, bool, error) {
	var prof domain.Profile
	var ok bool
	if err := ctx.Err(); err != nil {
		return prof, false, err
	}
	s.repo.View(func() {
		prof, ok = s.idx.ProfileOf(userID)
	})
	return prof, ok, nil
}

// Create inserts a profile for an existing user. Profiles are 1:1 with
// users: a missing user or a second profile for the same user is a
// validation error.
func (s *Profiles) Create(ctx context.Context, in CreateProfileInput) (domain.Profile, error) {
	var prof domain.Profile
	if err := ctx.Err(); err != nil {
		return prof, err
	}
	if in.DisplayName == "" {
		return prof, domain.NewValidationError(domain.ErrCodeMissingField, "displayName", "required")
	}

	var err error
	s.repo.Update(func() {
		if _, ok := s.repo.Users.Get(in.UserID); !ok {
			err = domain.NewValidationError(domain.ErrCodeUnknownUser, "userId", "no such user %q", in.UserID)
			return
		}
		if _, ok := s.idx.ProfileOf(in.UserID); ok {
			err = domain.NewValidationError(domain.ErrCodeDuplicate, "userId", "user %q already has a profile", in.UserID)
			return
		}
		prof = s.repo.Profiles.Insert(domain.Profile{
			UserID:      in.UserID,
			DisplayName: in.DisplayName,
			Headline:    in.Headline,
			Bio:         in.Bio,
			Location:    in.Location,
			Crafts:      in.Crafts,
			Materials:   in.Materials,
			Techniques:  in.Techniques,
			Visible:     in.Visible,
		})
	})
	if err != nil {
		return domain.Profile{}, err
	}
	s.log.Debug().Str("profileId", prof.ID).Str("userId", prof.UserID).Msg("profile created")
	return prof, nil
}

// Update applies a partial update. Returns false for unknown ids.
func (s *Profiles) Update(ctx context.Context, id string, in UpdateProfileInput) (domain.Profile, bool, error) {
	var prof domain.Profile
	var ok bool
	if err := ctx.Err(); err != nil {
		return prof, false, err
	}
	s.repo.Update(func() {
		prof, ok = s.repo.Profiles.Mutate(id, func(p *domain.Profile) {
			if in.DisplayName != nil {
				p.DisplayName = *in.DisplayName
			}
			if in.Headline != nil {
				p.Headline = *in.Headline
			}
			if in.Bio != nil {
				p.Bio = *in.Bio
			}
			if in.Location != nil {
				p.Location = *in.Location
			}
			if in.Crafts != nil {
				p.Crafts = *in.Crafts
			}
			if in.Materials != nil {
				p.Materials = *in.Materials
			}
			if in.Techniques != nil {
				p.Techniques = *in.Techniques
			}
			if in.Visible != nil {
				p.Visible = *in.Visible
			}
			if in.Verified != nil {
				p.Verified = *in.Verified
			}
		})
	})
	return prof, ok, nil
}

// Delete soft-deletes the profile. Returns false for unknown ids.
func (s *Profiles) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var ok bool
	s.repo.Update(func() {
		ok = s.repo.Profiles.SoftDelete(id)
	})
	return ok, nil
}

// Flag files a moderation report against a profile. Returns false if the
// profile does not exist.
func (s *Profiles) Flag(ctx context.Context, profileID, reporterID, reason string) (domain.ProfileFlag, bool, error) {
	var flag domain.ProfileFlag
	if err := ctx.Err(); err != nil {
		return flag, false, err
	}
	var ok bool
	s.repo.Update(func() {
		if _, ok = s.repo.Profiles.Get(profileID); !ok {
			return
		}
		flag = s.repo.ProfileFlags.Insert(domain.ProfileFlag{
			FlagState:  domain.FlagState{Status: domain.FlagPending},
			ProfileID:  profileID,
			ReporterID: reporterID,
			Reason:     reason,
		})
	})
	if ok {
		s.log.Info().Str("profileId", profileID).Str("flagId", flag.ID).Msg("profile flagged")
	}
	return flag, ok, nil
}
