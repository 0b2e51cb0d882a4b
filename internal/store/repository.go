package store

import (
	"sync"

	"github.com/atelier-labs/atelier/internal/domain"
)

// Repository owns every collection in the core. Construct one at process
// start and inject it into each service facade; there is no package-level
// state.
type Repository struct {
	mu    sync.RWMutex
	clock domain.Clock
	seq   *domain.Sequence
	ids   domain.IDSource

	Users             *Collection[domain.User, *domain.User]
	Profiles          *Collection[domain.Profile, *domain.Profile]
	Posts             *Collection[domain.Post, *domain.Post]
	PostLikes         *Collection[domain.PostLike, *domain.PostLike]
	PostComments      *Collection[domain.PostComment, *domain.PostComment]
	PostFlags         *Collection[domain.PostFlag, *domain.PostFlag]
	ProfileFlags      *Collection[domain.ProfileFlag, *domain.ProfileFlag]
	Connections       *Collection[domain.Connection, *domain.Connection]
	Threads           *Collection[domain.MessageThread, *domain.MessageThread]
	Messages          *Collection[domain.Message, *domain.Message]
	Resources         *Collection[domain.Resource, *domain.Resource]
	ResourceSubs      *Collection[domain.ResourceSubmission, *domain.ResourceSubmission]
	Listings          *Collection[domain.ServiceListing, *domain.ServiceListing]
	ListingSubs       *Collection[domain.ListingSubmission, *domain.ListingSubmission]
	Events            *Collection[domain.Event, *domain.Event]
	Tickets           *Collection[domain.Ticket, *domain.Ticket]
	DropdownOptions   *Collection[domain.DropdownOption, *domain.DropdownOption]
	AnalyticsEvents   *Collection[domain.AnalyticsEvent, *domain.AnalyticsEvent]
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock replaces the wall clock. Tests and the seeded generator use a
// deterministic clock for byte-identical datasets.
func WithClock(c domain.Clock) Option { return func(r *Repository) { r.clock = c } }

// WithIDSource replaces the id generator.
func WithIDSource(ids domain.IDSource) Option { return func(r *Repository) { r.ids = ids } }

// NewRepository creates an empty repository with all collections.
func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		clock: domain.SystemClock{},
		seq:   domain.NewSequence(),
		ids:   domain.RandomIDs{},
	}
	for _, opt := range opts {
		opt(r)
	}

	r.Users = newCollection[domain.User, *domain.User]("users", r.clock, r.seq, r.ids)
	r.Profiles = newCollection[domain.Profile, *domain.Profile]("profiles", r.clock, r.seq, r.ids)
	r.Posts = newCollection[domain.Post, *domain.Post]("posts", r.clock, r.seq, r.ids)
	r.PostLikes = newCollection[domain.PostLike, *domain.PostLike]("post_likes", r.clock, r.seq, r.ids)
	r.PostComments = newCollection[domain.PostComment, *domain.PostComment]("post_comments", r.clock, r.seq, r.ids)
	r.PostFlags = newCollection[domain.PostFlag, *domain.PostFlag]("post_flags", r.clock, r.seq, r.ids)
	r.ProfileFlags = newCollection[domain.ProfileFlag, *domain.ProfileFlag]("profile_flags", r.clock, r.seq, r.ids)
	r.Connections = newCollection[domain.Connection, *domain.Connection]("connections", r.clock, r.seq, r.ids)
	r.Threads = newCollection[domain.MessageThread, *domain.MessageThread]("threads", r.clock, r.seq, r.ids)
	r.Messages = newCollection[domain.Message, *domain.Message]("messages", r.clock, r.seq, r.ids)
	r.Resources = newCollection[domain.Resource, *domain.Resource]("resources", r.clock, r.seq, r.ids)
	r.ResourceSubs = newCollection[domain.ResourceSubmission, *domain.ResourceSubmission]("resource_submissions", r.clock, r.seq, r.ids)
	r.Listings = newCollection[domain.ServiceListing, *domain.ServiceListing]("listings", r.clock, r.seq, r.ids)
	r.ListingSubs = newCollection[domain.ListingSubmission, *domain.ListingSubmission]("listing_submissions", r.clock, r.seq, r.ids)
	r.Events = newCollection[domain.Event, *domain.Event]("events", r.clock, r.seq, r.ids)
	r.Tickets = newCollection[domain.Ticket, *domain.Ticket]("tickets", r.clock, r.seq, r.ids)
	r.DropdownOptions = newCollection[domain.DropdownOption, *domain.DropdownOption]("dropdown_options", r.clock, r.seq, r.ids)
	r.AnalyticsEvents = newCollection[domain.AnalyticsEvent, *domain.AnalyticsEvent]("analytics_events", r.clock, r.seq, r.ids)

	return r
}

// Clock returns the repository's wall clock. Workflow transitions use it to
// stamp reviewedAt/resolvedAt inside the same critical section as the status
// change.
func (r *Repository) Clock() domain.Clock { return r.clock }

// View runs fn under the read lock. fn must not mutate any collection.
func (r *Repository) View(fn func()) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn()
}

// Update runs fn under the write lock. Everything fn does is one atomic
// critical section with respect to all other repository access.
func (r *Repository) Update(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
}
