package services

import (
	"context"
	"time"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/query"
	"github.com/atelier-labs/atelier/internal/workflow"
)

// listingSchema declares the queryable surface of service listings.
var listingSchema = query.Schema[domain.ServiceListing]{
	Fields: map[string]query.Field[domain.ServiceListing]{
		"providerId":  query.StringField(func(l *domain.ServiceListing) string { return l.ProviderID }),
		"title":       query.StringField(func(l *domain.ServiceListing) string { return l.Title }),
		"description": query.StringField(func(l *domain.ServiceListing) string { return l.Description }),
		"category":    query.StringField(func(l *domain.ServiceListing) string { return l.Category }),
		"tags":        query.TagsField(func(l *domain.ServiceListing) []string { return l.Tags }),
		"isApproved":  query.BoolField(func(l *domain.ServiceListing) bool { return l.IsApproved }),
		"isPublic":    query.BoolField(func(l *domain.ServiceListing) bool { return l.IsPublic }),
		"createdAt":   query.TimeField(func(l *domain.ServiceListing) time.Time { return l.CreatedAt }),
	},
	DefaultSort: query.Sort{Field: "createdAt", Direction: query.Desc},
}

// Listings is the facade over service-provider offerings. Same approval
// pipeline contract as Resources: created unapproved with a PENDING
// submission, flipped public only by approving that submission.
type Listings struct {
	*core
}

// CreateListingInput carries the caller-supplied fields for a new listing.
type CreateListingInput struct {
	ProviderID  string
	Title       string
	Description string
	Category    string
	Tags        []string
}

// UpdateListingInput is a partial update; nil fields are left unchanged.
type UpdateListingInput struct {
	Title       *string
	Description *string
	Category    *string
	Tags        *[]string
}

// List returns one page of listings.
func (s *Listings) List(ctx context.Context, p query.Params) (query.Page[domain.ServiceListing], error) {
	return listSnapshot(ctx, s.core, s.repo.Listings.All, listingSchema, p)
}

// Get returns the listing with the given id.
func (s *Listings) Get(ctx context.Context, id string) (domain.ServiceListing, bool, error) {
	var lst domain.ServiceListing
	var ok bool
	if err := ctx.Err(); err != nil {
		return lst, false, err
	}
	s.repo.View(func() {
		lst, ok = s.repo.Listings.Get(id)
	})
	return lst, ok, nil
}

// Create inserts an unapproved listing plus its PENDING submission in one
// critical section.
func (s *Listings) Create(ctx context.Context, in CreateListingInput) (domain.ServiceListing, domain.ListingSubmission, error) {
	var lst domain.ServiceListing
	var sub domain.ListingSubmission
	if err := ctx.Err(); err != nil {
		return lst, sub, err
	}
	if in.Title == "" {
		return lst, sub, domain.NewValidationError(domain.ErrCodeMissingField, "title", "required")
	}

	var err error
	s.repo.Update(func() {
		if _, ok := s.repo.Users.Get(in.ProviderID); !ok {
			err = domain.NewValidationError(domain.ErrCodeUnknownUser, "providerId", "no such user %q", in.ProviderID)
			return
		}
		lst = s.repo.Listings.Insert(domain.ServiceListing{
			ProviderID:  in.ProviderID,
			Title:       in.Title,
			Description: in.Description,
			Category:    in.Category,
			Tags:        in.Tags,
		})
		sub = s.repo.ListingSubs.Insert(domain.ListingSubmission{
			ReviewState: domain.ReviewState{Status: domain.SubmissionPending},
			ListingID:   lst.ID,
			SubmittedBy: in.ProviderID,
		})
	})
	if err != nil {
		return domain.ServiceListing{}, domain.ListingSubmission{}, err
	}
	s.log.Debug().Str("listingId", lst.ID).Str("submissionId", sub.ID).Msg("listing submitted")
	return lst, sub, nil
}

// Update applies a partial update to the listing fields.
func (s *Listings) Update(ctx context.Context, id string, in UpdateListingInput) (domain.ServiceListing, bool, error) {
	var lst domain.ServiceListing
	var ok bool
	if err := ctx.Err(); err != nil {
		return lst, false, err
	}
	s.repo.Update(func() {
		lst, ok = s.repo.Listings.Mutate(id, func(l *domain.ServiceListing) {
			if in.Title != nil {
				l.Title = *in.Title
			}
			if in.Description != nil {
				l.Description = *in.Description
			}
			if in.Category != nil {
				l.Category = *in.Category
			}
			if in.Tags != nil {
				l.Tags = *in.Tags
			}
		})
	})
	return lst, ok, nil
}

// Delete soft-deletes the listing.
func (s *Listings) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var ok bool
	s.repo.Update(func() {
		ok = s.repo.Listings.SoftDelete(id)
	})
	return ok, nil
}

// Submission returns the approval submission for a listing.
func (s *Listings) Submission(ctx context.Context, listingID string) (domain.ListingSubmission, bool, error) {
	var sub domain.ListingSubmission
	var ok bool
	if err := ctx.Err(); err != nil {
		return sub, false, err
	}
	s.repo.View(func() {
		sub, ok = s.idx.SubmissionOfListing(listingID)
	})
	return sub, ok, nil
}

// ApproveSubmission approves the submission and flips the listing's
// IsApproved/IsPublic in the same atomic step.
func (s *Listings) ApproveSubmission(ctx context.Context, submissionID, reviewerID string) (domain.ListingSubmission, bool, error) {
	return s.review(ctx, submissionID, reviewerID, domain.SubmissionApproved)
}

// RejectSubmission rejects the submission; the listing stays non-public.
func (s *Listings) RejectSubmission(ctx context.Context, submissionID, reviewerID string) (domain.ListingSubmission, bool, error) {
	return s.review(ctx, submissionID, reviewerID, domain.SubmissionRejected)
}

func (s *Listings) review(ctx context.Context, submissionID, reviewerID string, to domain.SubmissionStatus) (domain.ListingSubmission, bool, error) {
	var sub domain.ListingSubmission
	if err := ctx.Err(); err != nil {
		return sub, false, err
	}
	var ok bool
	var err error
	s.repo.Update(func() {
		sub, ok = s.repo.ListingSubs.Get(submissionID)
		if !ok {
			return
		}
		if err = workflow.ReviewSubmission(&sub.ReviewState, to, reviewerID, s.repo.Clock().Now()); err != nil {
			return
		}
		sub, _ = s.repo.ListingSubs.Mutate(submissionID, func(ls *domain.ListingSubmission) {
			ls.ReviewState = sub.ReviewState
		})
		if to == domain.SubmissionApproved {
			s.repo.Listings.Mutate(sub.ListingID, func(l *domain.ServiceListing) {
				l.IsApproved = true
				l.IsPublic = true
			})
		}
	})
	if !ok {
		return domain.ListingSubmission{}, false, nil
	}
	if err != nil {
		return domain.ListingSubmission{}, true, err
	}
	s.log.Info().Str("submissionId", sub.ID).Str("status", string(to)).Msg("listing submission reviewed")
	return sub, true, nil
}
