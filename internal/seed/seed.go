// Package seed generates deterministic demo datasets.
//
// The generator drives the service facades, never the store directly, so
// every invariant the facades maintain (engagement counters, submission
// records, pair uniqueness) holds in the seeded data. Given the same Spec,
// two runs produce identical repositories: ids come from a v5 UUID sequence,
// timestamps from a stepping clock, and all randomness from one seeded
// source.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/services"
	"github.com/atelier-labs/atelier/internal/store"
)

// Epoch is the creation instant of the first seeded record.
var Epoch = time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC)

// idNamespace scopes the v5 UUIDs issued for seeded records.
var idNamespace = uuid.MustParse("9b1f3a70-5454-4fd2-9aa9-7c1f4a46d7c3")

// steppingClock hands out Epoch, Epoch+step, Epoch+2*step, ...
type steppingClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}

// seqIDs issues v5 UUIDs over a counter, deterministic per seed.
type seqIDs struct {
	mu   sync.Mutex
	seed int64
	n    int
}

func (s *seqIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%d-%d", s.seed, s.n))).String()
}

// NewRepository creates an empty repository whose clock and id source are
// deterministic functions of seed. Populate it with Generator.Apply.
func NewRepository(seed int64) *store.Repository {
	return store.NewRepository(
		store.WithClock(&steppingClock{next: Epoch, step: time.Minute}),
		store.WithIDSource(&seqIDs{seed: seed}),
	)
}

// Spec sizes a generated dataset. The zero value is useless; start from
// DefaultSpec.
type Spec struct {
	Seed      int64
	Users     int
	Posts     int
	Resources int
	Listings  int
	Events    int
	Tickets   int
}

// DefaultSpec is a dataset big enough to exercise pagination everywhere.
func DefaultSpec(seed int64) Spec {
	return Spec{
		Seed:      seed,
		Users:     24,
		Posts:     60,
		Resources: 15,
		Listings:  12,
		Events:    10,
		Tickets:   18,
	}
}

// Summary counts what Apply created.
type Summary struct {
	Users       int `json:"users"`
	Profiles    int `json:"profiles"`
	Posts       int `json:"posts"`
	Likes       int `json:"likes"`
	Comments    int `json:"comments"`
	Connections int `json:"connections"`
	Threads     int `json:"threads"`
	Messages    int `json:"messages"`
	Resources   int `json:"resources"`
	Listings    int `json:"listings"`
	Events      int `json:"events"`
	Tickets     int `json:"tickets"`
	Options     int `json:"options"`
	Flags       int `json:"flags"`
}

var (
	firstNames = []string{
		"Ada", "Bruno", "Carmen", "Dario", "Elif", "Femi", "Greta", "Hiro",
		"Ines", "Jonas", "Kaia", "Leo", "Mara", "Nico", "Odessa", "Piotr",
		"Quinn", "Rosa", "Sami", "Tove", "Uma", "Viktor", "Wren", "Yara",
	}
	roles = []domain.Role{
		domain.RoleMaker, domain.RoleBuyer, domain.RoleDesignConsultant,
		domain.RoleExplorer, domain.RoleServiceProvider, domain.RoleMakerBuyer,
	}
	craftTags = []string{
		"pottery", "weaving", "woodwork", "glassblowing", "leathercraft",
		"printmaking", "metalsmithing", "bookbinding",
	}
	materials = []string{"clay", "wool", "oak", "brass", "linen", "vegtan", "ash", "porcelain"}
	cities    = []string{"Lisbon", "Kyoto", "Oaxaca", "Tbilisi", "Marseille", "Gdansk"}
	verbs     = []string{
		"Finished a commission in", "Experimenting with", "Back at the wheel with",
		"Teaching a workshop on", "Restocked the studio with", "Sketching patterns for",
	}
)

// Generator produces one dataset per Apply call.
type Generator struct {
	Spec Spec
}

// Apply populates svc's repository. Call it once per repository.
func (g Generator) Apply(ctx context.Context, svc *services.Services) (Summary, error) {
	var sum Summary
	rng := rand.New(rand.NewSource(g.Spec.Seed))

	userIDs, err := g.users(ctx, svc, rng, &sum)
	if err != nil {
		return sum, err
	}
	if err := g.options(ctx, svc, &sum); err != nil {
		return sum, err
	}
	postIDs, err := g.posts(ctx, svc, rng, userIDs, &sum)
	if err != nil {
		return sum, err
	}
	if err := g.social(ctx, svc, rng, userIDs, postIDs, &sum); err != nil {
		return sum, err
	}
	if err := g.catalog(ctx, svc, rng, userIDs, &sum); err != nil {
		return sum, err
	}
	if err := g.support(ctx, svc, rng, userIDs, &sum); err != nil {
		return sum, err
	}
	return sum, nil
}
