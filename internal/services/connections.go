package services

import (
	"context"
	"time"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/query"
	"github.com/atelier-labs/atelier/internal/workflow"
)

// connectionSchema declares the queryable surface of connections.
var connectionSchema = query.Schema[domain.Connection]{
	Fields: map[string]query.Field[domain.Connection]{
		"requesterId": query.StringField(func(c *domain.Connection) string { return c.RequesterID }),
		"targetId":    query.StringField(func(c *domain.Connection) string { return c.TargetID }),
		"status":      query.StringField(func(c *domain.Connection) string { return string(c.Status) }),
		"createdAt":   query.TimeField(func(c *domain.Connection) time.Time { return c.CreatedAt }),
	},
	DefaultSort: query.Sort{Field: "createdAt", Direction: query.Desc},
}

// Connections is the facade over connection requests between users.
//
// A connection is an unordered pair: at most one record exists per pair at
// any time, whichever side requested it.
type Connections struct {
	*core
}

// SendRequest creates a PENDING connection from requester to target.
// Idempotent over the unordered pair: if any record already exists for
// (requester, target) in either direction and any status, that record is
// returned unchanged. Self-connections are rejected.
func (s *Connections) SendRequest(ctx context.Context, requesterID, targetID string) (domain.Connection, error) {
	var conn domain.Connection
	if err := ctx.Err(); err != nil {
		return conn, err
	}
	if requesterID == targetID {
		return conn, domain.NewValidationError(domain.ErrCodeSelfConnection, "targetId", "cannot connect user %q to themselves", requesterID)
	}

	var err error
	s.repo.Update(func() {
		if _, ok := s.repo.Users.Get(requesterID); !ok {
			err = domain.NewValidationError(domain.ErrCodeUnknownUser, "requesterId", "no such user %q", requesterID)
			return
		}
		if _, ok := s.repo.Users.Get(targetID); !ok {
			err = domain.NewValidationError(domain.ErrCodeUnknownUser, "targetId", "no such user %q", targetID)
			return
		}
		if existing, ok := s.idx.ConnectionForPair(requesterID, targetID); ok {
			conn = existing
			return
		}
		conn = s.repo.Connections.Insert(domain.Connection{
			RequesterID: requesterID,
			TargetID:    targetID,
			Status:      domain.ConnectionPending,
		})
		s.log.Debug().Str("connectionId", conn.ID).Msg("connection requested")
	})
	if err != nil {
		return domain.Connection{}, err
	}
	return conn, nil
}

// Accept moves a PENDING connection to ACCEPTED. Returns false for unknown
// ids; a workflow.TransitionError if the connection is not PENDING.
func (s *Connections) Accept(ctx context.Context, id string) (domain.Connection, bool, error) {
	return s.transition(ctx, id, domain.ConnectionAccepted)
}

// Reject moves a PENDING connection to REJECTED.
func (s *Connections) Reject(ctx context.Context, id string) (domain.Connection, bool, error) {
	return s.transition(ctx, id, domain.ConnectionRejected)
}

func (s *Connections) transition(ctx context.Context, id string, to domain.ConnectionStatus) (domain.Connection, bool, error) {
	var conn domain.Connection
	if err := ctx.Err(); err != nil {
		return conn, false, err
	}
	var ok bool
	var err error
	s.repo.Update(func() {
		conn, ok = s.repo.Connections.Get(id)
		if !ok {
			return
		}
		// Run the machine on the copy first so a rejected transition
		// leaves the stored record untouched.
		if err = workflow.TransitionConnection(&conn, to); err != nil {
			return
		}
		conn, _ = s.repo.Connections.Mutate(id, func(c *domain.Connection) {
			c.Status = conn.Status
		})
	})
	if !ok {
		return domain.Connection{}, false, nil
	}
	if err != nil {
		return domain.Connection{}, true, err
	}
	return conn, true, nil
}

// Remove deletes the connection record outright. This is how an accepted
// connection ends; there is no transition out of ACCEPTED.
func (s *Connections) Remove(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var ok bool
	s.repo.Update(func() {
		ok = s.repo.Connections.Remove(id)
	})
	return ok, nil
}

// Get returns the connection with the given id.
func (s *Connections) Get(ctx context.Context, id string) (domain.Connection, bool, error) {
	var conn domain.Connection
	var ok bool
	if err := ctx.Err(); err != nil {
		return conn, false, err
	}
	s.repo.View(func() {
		conn, ok = s.repo.Connections.Get(id)
	})
	return conn, ok, nil
}

// List returns one page of connections.
func (s *Connections) List(ctx context.Context, p query.Params) (query.Page[domain.Connection], error) {
	return listSnapshot(ctx, s.core, s.repo.Connections.All, connectionSchema, p)
}

// ListForUser returns every connection the user participates in, in
// insertion order.
func (s *Connections) ListForUser(ctx context.Context, userID string) ([]domain.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var conns []domain.Connection
	s.repo.View(func() {
		conns = s.idx.ConnectionsOf(userID)
	})
	return conns, nil
}
