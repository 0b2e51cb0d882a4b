package services

import (
	"context"
	"time"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/query"
)

// eventSchema declares the queryable surface of events. The default sort is
// ascending startDate so the soonest events surface first.
var eventSchema = query.Schema[domain.Event]{
	Fields: map[string]query.Field[domain.Event]{
		"organizerId": query.StringField(func(e *domain.Event) string { return e.OrganizerID }),
		"title":       query.StringField(func(e *domain.Event) string { return e.Title }),
		"description": query.StringField(func(e *domain.Event) string { return e.Description }),
		"location":    query.StringField(func(e *domain.Event) string { return e.Location }),
		"startDate":   query.TimeField(func(e *domain.Event) time.Time { return e.StartDate }),
		"endDate":     query.TimeField(func(e *domain.Event) time.Time { return e.EndDate }),
		"createdAt":   query.TimeField(func(e *domain.Event) time.Time { return e.CreatedAt }),
	},
	DefaultSort: query.Sort{Field: "startDate", Direction: query.Asc},
}

// Events is the facade over community events.
type Events struct {
	*core
}

// CreateEventInput carries the caller-supplied fields for a new event.
type CreateEventInput struct {
	OrganizerID string
	Title       string
	Description string
	Location    string
	StartDate   time.Time
	EndDate     time.Time
}

// UpdateEventInput is a partial update; nil fields are left unchanged.
type UpdateEventInput struct {
	Title       *string
	Description *string
	Location    *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// List returns one page of events, soonest-first unless the caller sorts
// otherwise.
func (s *Events) List(ctx context.Context, p query.Params) (query.Page[domain.Event], error) {
	return listSnapshot(ctx, s.core, s.repo.Events.All, eventSchema, p)
}

// Get returns the event with the given id.
func (s *Events) Get(ctx context.Context, id string) (domain.Event, bool, error) {
	var ev domain.Event
	var ok bool
	if err := ctx.Err(); err != nil {
		return ev, false, err
	}
	s.repo.View(func() {
		ev, ok = s.repo.Events.Get(id)
	})
	return ev, ok, nil
}

// Create inserts an event organized by an existing user. The end date must
// not precede the start date.
func (s *Events) Create(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	var ev domain.Event
	if err := ctx.Err(); err != nil {
		return ev, err
	}
	if in.Title == "" {
		return ev, domain.NewValidationError(domain.ErrCodeMissingField, "title", "required")
	}
	if in.EndDate.Before(in.StartDate) {
		return ev, domain.NewValidationError(domain.ErrCodeBadRange, "endDate", "ends before it starts")
	}

	var err error
	s.repo.Update(func() {
		if _, ok := s.repo.Users.Get(in.OrganizerID); !ok {
			err = domain.NewValidationError(domain.ErrCodeUnknownUser, "organizerId", "no such user %q", in.OrganizerID)
			return
		}
		ev = s.repo.Events.Insert(domain.Event{
			OrganizerID: in.OrganizerID,
			Title:       in.Title,
			Description: in.Description,
			Location:    in.Location,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
		})
	})
	if err != nil {
		return domain.Event{}, err
	}
	return ev, nil
}

// Update applies a partial update. A resulting end date before the start
// date is rejected and leaves the event unchanged.
func (s *Events) Update(ctx context.Context, id string, in UpdateEventInput) (domain.Event, bool, error) {
	var ev domain.Event
	if err := ctx.Err(); err != nil {
		return ev, false, err
	}
	var ok bool
	var err error
	s.repo.Update(func() {
		ev, ok = s.repo.Events.Get(id)
		if !ok {
			return
		}
		next := ev
		if in.Title != nil {
			next.Title = *in.Title
		}
		if in.Description != nil {
			next.Description = *in.Description
		}
		if in.Location != nil {
			next.Location = *in.Location
		}
		if in.StartDate != nil {
			next.StartDate = *in.StartDate
		}
		if in.EndDate != nil {
			next.EndDate = *in.EndDate
		}
		if next.EndDate.Before(next.StartDate) {
			err = domain.NewValidationError(domain.ErrCodeBadRange, "endDate", "ends before it starts")
			return
		}
		ev, _ = s.repo.Events.Mutate(id, func(e *domain.Event) {
			e.Title = next.Title
			e.Description = next.Description
			e.Location = next.Location
			e.StartDate = next.StartDate
			e.EndDate = next.EndDate
		})
	})
	if !ok {
		return domain.Event{}, false, nil
	}
	if err != nil {
		return domain.Event{}, true, err
	}
	return ev, true, nil
}

// Delete soft-deletes the event.
func (s *Events) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var ok bool
	s.repo.Update(func() {
		ok = s.repo.Events.SoftDelete(id)
	})
	return ok, nil
}
