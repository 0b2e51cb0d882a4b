package services

import (
	"context"
	"time"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/query"
	"github.com/atelier-labs/atelier/internal/workflow"
)

// ticketSchema declares the queryable surface of tickets.
var ticketSchema = query.Schema[domain.Ticket]{
	Fields: map[string]query.Field[domain.Ticket]{
		"submittedBy": query.StringField(func(t *domain.Ticket) string { return t.SubmittedBy }),
		"assignedTo":  query.StringField(func(t *domain.Ticket) string { return t.AssignedTo }),
		"subject":     query.StringField(func(t *domain.Ticket) string { return t.Subject }),
		"status":      query.StringField(func(t *domain.Ticket) string { return string(t.Status) }),
		"priority":    query.StringField(func(t *domain.Ticket) string { return string(t.Priority) }),
		"createdAt":   query.TimeField(func(t *domain.Ticket) time.Time { return t.CreatedAt }),
	},
	DefaultSort: query.Sort{Field: "createdAt", Direction: query.Desc},
}

// Tickets is the facade over support tickets. Status advances strictly
// forward (OPEN → IN_PROGRESS → RESOLVED → CLOSED); priority is an
// independent axis and freely mutable.
type Tickets struct {
	*core
}

// CreateTicketInput carries the caller-supplied fields for a new ticket.
// An empty Priority defaults to MEDIUM.
type CreateTicketInput struct {
	SubmittedBy string
	Subject     string
	Body        string
	Priority    domain.TicketPriority
}

// List returns one page of tickets.
func (s *Tickets) List(ctx context.Context, p query.Params) (query.Page[domain.Ticket], error) {
	return listSnapshot(ctx, s.core, s.repo.Tickets.All, ticketSchema, p)
}

// Get returns the ticket with the given id.
func (s *Tickets) Get(ctx context.Context, id string) (domain.Ticket, bool, error) {
	var t domain.Ticket
	var ok bool
	if err := ctx.Err(); err != nil {
		return t, false, err
	}
	s.repo.View(func() {
		t, ok = s.repo.Tickets.Get(id)
	})
	return t, ok, nil
}

// Create opens a ticket in OPEN status.
func (s *Tickets) Create(ctx context.Context, in CreateTicketInput) (domain.Ticket, error) {
	var t domain.Ticket
	if err := ctx.Err(); err != nil {
		return t, err
	}
	if in.Subject == "" {
		return t, domain.NewValidationError(domain.ErrCodeMissingField, "subject", "required")
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return t, domain.NewValidationError(domain.ErrCodeBadEnum, "priority", "unknown priority %q", priority)
	}

	var err error
	s.repo.Update(func() {
		if _, ok := s.repo.Users.Get(in.SubmittedBy); !ok {
			err = domain.NewValidationError(domain.ErrCodeUnknownUser, "submittedBy", "no such user %q", in.SubmittedBy)
			return
		}
		t = s.repo.Tickets.Insert(domain.Ticket{
			SubmittedBy: in.SubmittedBy,
			Subject:     in.Subject,
			Body:        in.Body,
			Status:      domain.TicketOpen,
			Priority:    priority,
		})
	})
	if err != nil {
		return domain.Ticket{}, err
	}
	s.log.Debug().Str("ticketId", t.ID).Msg("ticket opened")
	return t, nil
}

// Assign sets the assignee. Unconstrained: any ticket in any status can be
// handed to anyone.
func (s *Tickets) Assign(ctx context.Context, id, assigneeID string) (domain.Ticket, bool, error) {
	var t domain.Ticket
	var ok bool
	if err := ctx.Err(); err != nil {
		return t, false, err
	}
	s.repo.Update(func() {
		t, ok = s.repo.Tickets.Mutate(id, func(tk *domain.Ticket) {
			tk.AssignedTo = assigneeID
		})
	})
	return t, ok, nil
}

// UpdateStatus advances the ticket one step along the lifecycle. Skips and
// regressions fail with a workflow.TransitionError.
func (s *Tickets) UpdateStatus(ctx context.Context, id string, to domain.TicketStatus) (domain.Ticket, bool, error) {
	var t domain.Ticket
	if err := ctx.Err(); err != nil {
		return t, false, err
	}
	var ok bool
	var err error
	s.repo.Update(func() {
		t, ok = s.repo.Tickets.Get(id)
		if !ok {
			return
		}
		if err = workflow.AdvanceTicket(&t, to); err != nil {
			return
		}
		t, _ = s.repo.Tickets.Mutate(id, func(tk *domain.Ticket) {
			tk.Status = t.Status
		})
	})
	if !ok {
		return domain.Ticket{}, false, nil
	}
	if err != nil {
		return domain.Ticket{}, true, err
	}
	return t, true, nil
}

// SetPriority changes the priority axis. Legal in any status.
func (s *Tickets) SetPriority(ctx context.Context, id string, p domain.TicketPriority) (domain.Ticket, bool, error) {
	var t domain.Ticket
	if err := ctx.Err(); err != nil {
		return t, false, err
	}
	if !p.Valid() {
		return t, false, domain.NewValidationError(domain.ErrCodeBadEnum, "priority", "unknown priority %q", p)
	}
	var ok bool
	s.repo.Update(func() {
		t, ok = s.repo.Tickets.Mutate(id, func(tk *domain.Ticket) {
			tk.Priority = p
		})
	})
	return t, ok, nil
}

// Delete soft-deletes the ticket.
func (s *Tickets) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var ok bool
	s.repo.Update(func() {
		ok = s.repo.Tickets.SoftDelete(id)
	})
	return ok, nil
}
