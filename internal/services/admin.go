package services

import (
	"context"
	"sort"
	"time"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/query"
	"github.com/atelier-labs/atelier/internal/workflow"
)

// userSchema declares the queryable surface of users.
var userSchema = query.Schema[domain.User]{
	Fields: map[string]query.Field[domain.User]{
		"email":     query.StringField(func(u *domain.User) string { return u.Email }),
		"name":      query.StringField(func(u *domain.User) string { return u.Name }),
		"role":      query.StringField(func(u *domain.User) string { return string(u.Role) }),
		"active":    query.BoolField(func(u *domain.User) bool { return u.Active }),
		"createdAt": query.TimeField(func(u *domain.User) time.Time { return u.CreatedAt }),
	},
	DefaultSort: query.Sort{Field: "createdAt", Direction: query.Desc},
}

// postFlagSchema declares the queryable surface of post flags.
var postFlagSchema = query.Schema[domain.PostFlag]{
	Fields: map[string]query.Field[domain.PostFlag]{
		"postId":     query.StringField(func(f *domain.PostFlag) string { return f.PostID }),
		"reporterId": query.StringField(func(f *domain.PostFlag) string { return f.ReporterID }),
		"status":     query.StringField(func(f *domain.PostFlag) string { return string(f.Status) }),
		"createdAt":  query.TimeField(func(f *domain.PostFlag) time.Time { return f.CreatedAt }),
	},
	DefaultSort: query.Sort{Field: "createdAt", Direction: query.Desc},
}

// profileFlagSchema declares the queryable surface of profile flags.
var profileFlagSchema = query.Schema[domain.ProfileFlag]{
	Fields: map[string]query.Field[domain.ProfileFlag]{
		"profileId":  query.StringField(func(f *domain.ProfileFlag) string { return f.ProfileID }),
		"reporterId": query.StringField(func(f *domain.ProfileFlag) string { return f.ReporterID }),
		"status":     query.StringField(func(f *domain.ProfileFlag) string { return string(f.Status) }),
		"createdAt":  query.TimeField(func(f *domain.ProfileFlag) time.Time { return f.CreatedAt }),
	},
	DefaultSort: query.Sort{Field: "createdAt", Direction: query.Desc},
}

// resourceSubSchema declares the queryable surface of resource submissions.
var resourceSubSchema = query.Schema[domain.ResourceSubmission]{
	Fields: map[string]query.Field[domain.ResourceSubmission]{
		"resourceId":  query.StringField(func(s *domain.ResourceSubmission) string { return s.ResourceID }),
		"submittedBy": query.StringField(func(s *domain.ResourceSubmission) string { return s.SubmittedBy }),
		"status":      query.StringField(func(s *domain.ResourceSubmission) string { return string(s.Status) }),
		"createdAt":   query.TimeField(func(s *domain.ResourceSubmission) time.Time { return s.CreatedAt }),
	},
	DefaultSort: query.Sort{Field: "createdAt", Direction: query.Desc},
}

// listingSubSchema declares the queryable surface of listing submissions.
var listingSubSchema = query.Schema[domain.ListingSubmission]{
	Fields: map[string]query.Field[domain.ListingSubmission]{
		"listingId":   query.StringField(func(s *domain.ListingSubmission) string { return s.ListingID }),
		"submittedBy": query.StringField(func(s *domain.ListingSubmission) string { return s.SubmittedBy }),
		"status":      query.StringField(func(s *domain.ListingSubmission) string { return string(s.Status) }),
		"createdAt":   query.TimeField(func(s *domain.ListingSubmission) time.Time { return s.CreatedAt }),
	},
	DefaultSort: query.Sort{Field: "createdAt", Direction: query.Desc},
}

// analyticsSchema declares the queryable surface of analytics events.
var analyticsSchema = query.Schema[domain.AnalyticsEvent]{
	Fields: map[string]query.Field[domain.AnalyticsEvent]{
		"userId":    query.StringField(func(e *domain.AnalyticsEvent) string { return e.UserID }),
		"kind":      query.StringField(func(e *domain.AnalyticsEvent) string { return e.Kind }),
		"createdAt": query.TimeField(func(e *domain.AnalyticsEvent) time.Time { return e.CreatedAt }),
	},
	DefaultSort: query.Sort{Field: "createdAt", Direction: query.Desc},
}

// Admin is the facade behind the admin dashboard: user management,
// moderation queues, submission queues, dropdown reference data and the
// analytics feed.
type Admin struct {
	*core
}

// CreateUser registers a user. Email addresses are unique; the role must be
// one of the closed set. New users start active.
func (s *Admin) CreateUser(ctx context.Context, email, name string, role domain.Role) (domain.User, error) {
	var u domain.User
	if err := ctx.Err(); err != nil {
		return u, err
	}
	if email == "" {
		return u, domain.NewValidationError(domain.ErrCodeMissingField, "email", "required")
	}
	if !role.Valid() {
		return u, domain.NewValidationError(domain.ErrCodeBadEnum, "role", "unknown role %q", role)
	}

	var err error
	s.repo.Update(func() {
		if _, exists := s.repo.Users.Find(func(other *domain.User) bool { return other.Email == email }); exists {
			err = domain.NewValidationError(domain.ErrCodeDuplicate, "email", "email %q is taken", email)
			return
		}
		u = s.repo.Users.Insert(domain.User{
			Email:  email,
			Name:   name,
			Role:   role,
			Active: true,
		})
	})
	if err != nil {
		return domain.User{}, err
	}
	s.log.Info().Str("userId", u.ID).Str("role", string(role)).Msg("user registered")
	return u, nil
}

// GetUser returns the user with the given id.
func (s *Admin) GetUser(ctx context.Context, id string) (domain.User, bool, error) {
	var u domain.User
	var ok bool
	if err := ctx.Err(); err != nil {
		return u, false, err
	}
	s.repo.View(func() {
		u, ok = s.repo.Users.Get(id)
	})
	return u, ok, nil
}

// ListUsers returns one page of users.
func (s *Admin) ListUsers(ctx context.Context, p query.Params) (query.Page[domain.User], error) {
	return listSnapshot(ctx, s.core, s.repo.Users.All, userSchema, p)
}

// DeactivateUser clears the active flag. Users are never hard-deleted.
func (s *Admin) DeactivateUser(ctx context.Context, id string) (domain.User, bool, error) {
	return s.setActive(ctx, id, false)
}

// ReactivateUser sets the active flag.
func (s *Admin) ReactivateUser(ctx context.Context, id string) (domain.User, bool, error) {
	return s.setActive(ctx, id, true)
}

func (s *Admin) setActive(ctx context.Context, id string, active bool) (domain.User, bool, error) {
	var u domain.User
	var ok bool
	if err := ctx.Err(); err != nil {
		return u, false, err
	}
	s.repo.Update(func() {
		u, ok = s.repo.Users.Mutate(id, func(user *domain.User) {
			user.Active = active
		})
	})
	return u, ok, nil
}

// ListPostFlags returns one page of post flags. The moderation queue filters
// with {"status": "PENDING"}.
func (s *Admin) ListPostFlags(ctx context.Context, p query.Params) (query.Page[domain.PostFlag], error) {
	return listSnapshot(ctx, s.core, s.repo.PostFlags.All, postFlagSchema, p)
}

// ListProfileFlags returns one page of profile flags.
func (s *Admin) ListProfileFlags(ctx context.Context, p query.Params) (query.Page[domain.ProfileFlag], error) {
	return listSnapshot(ctx, s.core, s.repo.ProfileFlags.All, profileFlagSchema, p)
}

// ResolvePostFlag moves a post flag to RESOLVED or DISMISSED, stamping the
// resolver exactly once. Returns false for unknown ids; a TransitionError if
// the flag already left PENDING.
func (s *Admin) ResolvePostFlag(ctx context.Context, flagID string, to domain.FlagStatus, resolvedBy string) (domain.PostFlag, bool, error) {
	var flag domain.PostFlag
	if err := ctx.Err(); err != nil {
		return flag, false, err
	}
	var ok bool
	var err error
	s.repo.Update(func() {
		flag, ok = s.repo.PostFlags.Get(flagID)
		if !ok {
			return
		}
		if err = workflow.ResolveFlag(&flag.FlagState, to, resolvedBy, s.repo.Clock().Now()); err != nil {
			return
		}
		flag, _ = s.repo.PostFlags.Mutate(flagID, func(f *domain.PostFlag) {
			f.FlagState = flag.FlagState
		})
	})
	if !ok {
		return domain.PostFlag{}, false, nil
	}
	if err != nil {
		return domain.PostFlag{}, true, err
	}
	s.log.Info().Str("flagId", flag.ID).Str("status", string(to)).Msg("post flag resolved")
	return flag, true, nil
}

// ResolveProfileFlag is ResolvePostFlag for profile flags.
func (s *Admin) ResolveProfileFlag(ctx context.Context, flagID string, to domain.FlagStatus, resolvedBy string) (domain.ProfileFlag, bool, error) {
	var flag domain.ProfileFlag
	if err := ctx.Err(); err != nil {
		return flag, false, err
	}
	var ok bool
	var err error
	s.repo.Update(func() {
		flag, ok = s.repo.ProfileFlags.Get(flagID)
		if !ok {
			return
		}
		if err = workflow.ResolveFlag(&flag.FlagState, to, resolvedBy, s.repo.Clock().Now()); err != nil {
			return
		}
		flag, _ = s.repo.ProfileFlags.Mutate(flagID, func(f *domain.ProfileFlag) {
			f.FlagState = flag.FlagState
		})
	})
	if !ok {
		return domain.ProfileFlag{}, false, nil
	}
	if err != nil {
		return domain.ProfileFlag{}, true, err
	}
	s.log.Info().Str("flagId", flag.ID).Str("status", string(to)).Msg("profile flag resolved")
	return flag, true, nil
}

// ListResourceSubmissions returns one page of resource submissions. The
// review queue filters with {"status": "PENDING"}.
func (s *Admin) ListResourceSubmissions(ctx context.Context, p query.Params) (query.Page[domain.ResourceSubmission], error) {
	return listSnapshot(ctx, s.core, s.repo.ResourceSubs.All, resourceSubSchema, p)
}

// ListListingSubmissions returns one page of listing submissions.
func (s *Admin) ListListingSubmissions(ctx context.Context, p query.Params) (query.Page[domain.ListingSubmission], error) {
	return listSnapshot(ctx, s.core, s.repo.ListingSubs.All, listingSubSchema, p)
}

// Options returns the active dropdown options in a category, ordered by
// their Order field (ties by insertion).
func (s *Admin) Options(ctx context.Context, category string) ([]domain.DropdownOption, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var opts []domain.DropdownOption
	s.repo.View(func() {
		opts = s.repo.DropdownOptions.Where(func(o *domain.DropdownOption) bool {
			return o.Category == category && o.Active
		})
	})
	sort.SliceStable(opts, func(i, j int) bool { return opts[i].Order < opts[j].Order })
	return opts, nil
}

// CreateOption inserts a dropdown option. (category, key) pairs are unique.
func (s *Admin) CreateOption(ctx context.Context, opt domain.DropdownOption) (domain.DropdownOption, error) {
	var out domain.DropdownOption
	if err := ctx.Err(); err != nil {
		return out, err
	}
	if opt.Category == "" || opt.Key == "" {
		return out, domain.NewValidationError(domain.ErrCodeMissingField, "category/key", "required")
	}

	var err error
	s.repo.Update(func() {
		dup := func(o *domain.DropdownOption) bool {
			return o.Category == opt.Category && o.Key == opt.Key
		}
		if _, exists := s.repo.DropdownOptions.Find(dup); exists {
			err = domain.NewValidationError(domain.ErrCodeDuplicate, "key", "option %s/%s exists", opt.Category, opt.Key)
			return
		}
		out = s.repo.DropdownOptions.Insert(domain.DropdownOption{
			Category: opt.Category,
			Key:      opt.Key,
			Value:    opt.Value,
			Label:    opt.Label,
			Order:    opt.Order,
			Active:   opt.Active,
		})
	})
	if err != nil {
		return domain.DropdownOption{}, err
	}
	return out, nil
}

// UpdateOption applies a full update to value/label/order/active.
func (s *Admin) UpdateOption(ctx context.Context, id, value, label string, order int, active bool) (domain.DropdownOption, bool, error) {
	var out domain.DropdownOption
	var ok bool
	if err := ctx.Err(); err != nil {
		return out, false, err
	}
	s.repo.Update(func() {
		out, ok = s.repo.DropdownOptions.Mutate(id, func(o *domain.DropdownOption) {
			o.Value = value
			o.Label = label
			o.Order = order
			o.Active = active
		})
	})
	return out, ok, nil
}

// DeleteOption hard-removes a dropdown option; it is reference data with no
// history to keep.
func (s *Admin) DeleteOption(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var ok bool
	s.repo.Update(func() {
		ok = s.repo.DropdownOptions.Remove(id)
	})
	return ok, nil
}

// RecordEvent appends an immutable analytics event and mirrors it to the
// configured sink. Sink failures are logged, not returned: analytics never
// breaks the caller.
func (s *Admin) RecordEvent(ctx context.Context, userID, kind string, properties map[string]string) (domain.AnalyticsEvent, error) {
	var ev domain.AnalyticsEvent
	if err := ctx.Err(); err != nil {
		return ev, err
	}
	if kind == "" {
		return ev, domain.NewValidationError(domain.ErrCodeMissingField, "kind", "required")
	}

	s.repo.Update(func() {
		ev = s.repo.AnalyticsEvents.Insert(domain.AnalyticsEvent{
			UserID:     userID,
			Kind:       kind,
			Properties: properties,
		})
	})
	if err := s.sink.Record(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("eventId", ev.ID).Msg("analytics sink rejected event")
	}
	return ev, nil
}

// ListAnalytics returns one page of the analytics feed.
func (s *Admin) ListAnalytics(ctx context.Context, p query.Params) (query.Page[domain.AnalyticsEvent], error) {
	return listSnapshot(ctx, s.core, s.repo.AnalyticsEvents.All, analyticsSchema, p)
}
