// Package services exposes the typed per-entity-family facades the
// presentation layer calls: Profiles, Posts, Connections, Messaging,
// Resources, Listings, Events, Tickets and Admin.
//
// Every facade operates on one injected store.Repository; there is no
// package-level state. Every method takes a context.Context first and
// returns early with ctx.Err() if the caller has already given up. The
// in-memory core has no long-running work, but a real backend behind this
// contract would enforce request deadlines, so the boundary honors them now.
//
// Error conventions follow the core's taxonomy: a missing record is not an
// error (Get returns (zero, false); Update returns (zero, false); Delete
// returns false), idempotent creates return the existing record, and invalid
// input surfaces as domain.ValidationError or workflow.TransitionError.
// Caller identity is always an explicit parameter; the core holds no notion
// of a current user.
package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/atelier-labs/atelier/internal/analytics"
	"github.com/atelier-labs/atelier/internal/query"
	"github.com/atelier-labs/atelier/internal/relindex"
	"github.com/atelier-labs/atelier/internal/store"
)

// Services bundles every facade constructed over one repository.
type Services struct {
	Profiles    *Profiles
	Posts       *Posts
	Connections *Connections
	Messaging   *Messaging
	Resources   *Resources
	Listings    *Listings
	Events      *Events
	Tickets     *Tickets
	Admin       *Admin
}

// core is the shared state every facade embeds.
type core struct {
	repo *store.Repository
	idx  *relindex.Index
	log  zerolog.Logger
	sink analytics.Sink
}

// Option configures the service bundle.
type Option func(*core)

// WithLogger sets the structured logger. Defaults to a disabled logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *core) { c.log = log }
}

// WithAnalyticsSink mirrors recorded analytics events to sink in addition to
// the repository.
func WithAnalyticsSink(sink analytics.Sink) Option {
	return func(c *core) { c.sink = sink }
}

// New constructs all facades over repo.
func New(repo *store.Repository, opts ...Option) *Services {
	c := &core{
		repo: repo,
		idx:  relindex.New(repo),
		log:  zerolog.Nop(),
		sink: analytics.NewMemorySink(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return &Services{
		Profiles:    &Profiles{core: c},
		Posts:       &Posts{core: c},
		Connections: &Connections{core: c},
		Messaging:   &Messaging{core: c},
		Resources:   &Resources{core: c},
		Listings:    &Listings{core: c},
		Events:      &Events{core: c},
		Tickets:     &Tickets{core: c},
		Admin:       &Admin{core: c},
	}
}

// listSnapshot runs the query pipeline over a snapshot taken under the read
// lock. snap is called inside the critical section.
func listSnapshot[T any](ctx context.Context, c *core, snap func() []T, schema query.Schema[T], p query.Params) (query.Page[T], error) {
	var zero query.Page[T]
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	var page query.Page[T]
	var err error
	c.repo.View(func() {
		page, err = query.List(snap(), schema, p)
	})
	if err != nil {
		return zero, err
	}
	return page, nil
}
