package services

import (
	"context"
	"time"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/query"
	"github.com/atelier-labs/atelier/internal/workflow"
)

// resourceSchema declares the queryable surface of resources.
var resourceSchema = query.Schema[domain.Resource]{
	Fields: map[string]query.Field[domain.Resource]{
		"authorId":    query.StringField(func(r *domain.Resource) string { return r.AuthorID }),
		"title":       query.StringField(func(r *domain.Resource) string { return r.Title }),
		"description": query.StringField(func(r *domain.Resource) string { return r.Description }),
		"tags":        query.TagsField(func(r *domain.Resource) []string { return r.Tags }),
		"isApproved":  query.BoolField(func(r *domain.Resource) bool { return r.IsApproved }),
		"isPublic":    query.BoolField(func(r *domain.Resource) bool { return r.IsPublic }),
		"createdAt":   query.TimeField(func(r *domain.Resource) time.Time { return r.CreatedAt }),
	},
	DefaultSort: query.Sort{Field: "createdAt", Direction: query.Desc},
}

// Resources is the facade over shared learning resources and their approval
// pipeline.
//
// Every create inserts the resource unapproved and non-public AND appends a
// PENDING submission. Approving that submission is the only path that flips
// the resource's IsApproved/IsPublic flags, and the flip happens in the same
// critical section as the submission transition: no reader can see one
// without the other.
type Resources struct {
	*core
}

// CreateResourceInput carries the caller-supplied fields for a new resource.
type CreateResourceInput struct {
	AuthorID    string
	Title       string
	Description string
	URL         string
	Tags        []string
}

// UpdateResourceInput is a partial update; nil fields are left unchanged.
// Approval flags are absent on purpose: they only move via the submission
// pipeline.
type UpdateResourceInput struct {
	Title       *string
	Description *string
	URL         *string
	Tags        *[]string
}

// List returns one page of resources. Public catalog views filter with
// {"isPublic": true}; admin queues filter with {"isApproved": false}.
func (s *Resources) List(ctx context.Context, p query.Params) (query.Page[domain.Resource], error) {
	return listSnapshot(ctx, s.core, s.repo.Resources.All, resourceSchema, p)
}

// Get returns the resource with the given id.
func (s *Resources) Get(ctx context.Context, id string) (domain.Resource, bool, error) {
	var res domain.Resource
	var ok bool
	if err := ctx.Err(); err != nil {
		return res, false, err
	}
	s.repo.View(func() {
		res, ok = s.repo.Resources.Get(id)
	})
	return res, ok, nil
}

// Create inserts an unapproved resource plus its PENDING submission in one
// critical section, and returns both.
func (s *Resources) Create(ctx context.Context, in CreateResourceInput) (domain.Resource, domain.ResourceSubmission, error) {
	var res domain.Resource
	var sub domain.ResourceSubmission
	if err := ctx.Err(); err != nil {
		return res, sub, err
	}
	if in.Title == "" {
		return res, sub, domain.NewValidationError(domain.ErrCodeMissingField, "title", "required")
	}

	var err error
	s.repo.Update(func() {
		if _, ok := s.repo.Users.Get(in.AuthorID); !ok {
			err = domain.NewValidationError(domain.ErrCodeUnknownUser, "authorId", "no such user %q", in.AuthorID)
			return
		}
		res = s.repo.Resources.Insert(domain.Resource{
			AuthorID:    in.AuthorID,
			Title:       in.Title,
			Description: in.Description,
			URL:         in.URL,
			Tags:        in.Tags,
		})
		sub = s.repo.ResourceSubs.Insert(domain.ResourceSubmission{
			ReviewState: domain.ReviewState{Status: domain.SubmissionPending},
			ResourceID:  res.ID,
			SubmittedBy: in.AuthorID,
		})
	})
	if err != nil {
		return domain.Resource{}, domain.ResourceSubmission{}, err
	}
	s.log.Debug().Str("resourceId", res.ID).Str("submissionId", sub.ID).Msg("resource submitted")
	return res, sub, nil
}

// Update applies a partial update to the resource fields.
func (s *Resources) Update(ctx context.Context, id string, in UpdateResourceInput) (domain.Resource, bool, error) {
	var res domain.Resource
	var ok bool
	if err := ctx.Err(); err != nil {
		return res, false, err
	}
	s.repo.Update(func() {
		res, ok = s.repo.Resources.Mutate(id, func(r *domain.Resource) {
			if in.Title != nil {
				r.Title = *in.Title
			}
			if in.Description != nil {
				r.Description = *in.Description
			}
			if in.URL != nil {
				r.URL = *in.URL
			}
			if in.Tags != nil {
				r.Tags = *in.Tags
			}
		})
	})
	return res, ok, nil
}

// Delete soft-deletes the resource.
func (s *Resources) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var ok bool
	s.repo.Update(func() {
		ok = s.repo.Resources.SoftDelete(id)
	})
	return ok, nil
}

// Submission returns the approval submission for a resource.
func (s *Resources) Submission(ctx context.Context, resourceID string) (domain.ResourceSubmission, bool, error) {
	var sub domain.ResourceSubmission
	var ok bool
	if err := ctx.Err(); err != nil {
		return sub, false, err
	}
	s.repo.View(func() {
		sub, ok = s.idx.SubmissionOfResource(resourceID)
	})
	return sub, ok, nil
}

// ApproveSubmission moves the submission to APPROVED, stamps the reviewer,
// and flips the linked resource's IsApproved/IsPublic in one atomic step.
// Returns false for unknown submission ids; a workflow.TransitionError if
// the submission already left PENDING.
func (s *Resources) ApproveSubmission(ctx context.Context, submissionID, reviewerID string) (domain.ResourceSubmission, bool, error) {
	return s.review(ctx, submissionID, reviewerID, domain.SubmissionApproved)
}

// RejectSubmission moves the submission to REJECTED and stamps the reviewer.
// The resource stays unapproved and non-public.
func (s *Resources) RejectSubmission(ctx context.Context, submissionID, reviewerID string) (domain.ResourceSubmission, bool, error) {
	return s.review(ctx, submissionID, reviewerID, domain.SubmissionRejected)
}

func (s *Resources) review(ctx context.Context, submissionID, reviewerID string, to domain.SubmissionStatus) (domain.ResourceSubmission, bool, error) {
	var sub domain.ResourceSubmission
	if err := ctx.Err(); err != nil {
		return sub, false, err
	}
	var ok bool
	var err error
	s.repo.Update(func() {
		sub, ok = s.repo.ResourceSubs.Get(submissionID)
		if !ok {
			return
		}
		if err = workflow.ReviewSubmission(&sub.ReviewState, to, reviewerID, s.repo.Clock().Now()); err != nil {
			return
		}
		sub, _ = s.repo.ResourceSubs.Mutate(submissionID, func(rs *domain.ResourceSubmission) {
			rs.ReviewState = sub.ReviewState
		})
		if to == domain.SubmissionApproved {
			s.repo.Resources.Mutate(sub.ResourceID, func(r *domain.Resource) {
				r.IsApproved = true
				r.IsPublic = true
			})
		}
	})
	if !ok {
		return domain.ResourceSubmission{}, false, nil
	}
	if err != nil {
		return domain.ResourceSubmission{}, true, err
	}
	s.log.Info().Str("submissionId", sub.ID).Str("status", string(to)).Msg("resource submission reviewed")
	return sub, true, nil
}
