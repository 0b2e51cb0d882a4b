package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/services"
	"github.com/atelier-labs/atelier/internal/store"
)

func apply(t *testing.T, spec Spec) (*store.Repository, Summary) {
	t.Helper()
	repo := NewRepository(spec.Seed)
	sum, err := Generator{Spec: spec}.Apply(context.Background(), services.New(repo))
	require.NoError(t, err)
	return repo, sum
}

func TestApply_DefaultSpecCounts(t *testing.T) {
	repo, sum := apply(t, DefaultSpec(1))

	assert.Equal(t, 24, sum.Users)
	assert.Equal(t, 24, sum.Profiles)
	assert.Equal(t, 60, sum.Posts)
	assert.Equal(t, 15, sum.Resources)
	assert.Equal(t, 12, sum.Listings)
	assert.Equal(t, 10, sum.Events)
	assert.Equal(t, 18, sum.Tickets)
	assert.Equal(t, 16, sum.Options)

	// Social activity is rng-sized but never empty at default scale.
	assert.Positive(t, sum.Likes)
	assert.Positive(t, sum.Comments)
	assert.Positive(t, sum.Connections)
	assert.Positive(t, sum.Threads)
	assert.Positive(t, sum.Messages)

	// The summary is an honest count of what landed in the store.
	assert.Equal(t, sum.Users, repo.Users.Count(nil))
	assert.Equal(t, sum.Profiles, repo.Profiles.Count(nil))
	assert.Equal(t, sum.Posts, repo.Posts.Count(nil))
	assert.Equal(t, sum.Likes, repo.PostLikes.Count(nil))
	assert.Equal(t, sum.Comments, repo.PostComments.Count(nil))
	assert.Equal(t, sum.Connections, repo.Connections.Count(nil))
	assert.Equal(t, sum.Threads, repo.Threads.Count(nil))
	assert.Equal(t, sum.Messages, repo.Messages.Count(nil))
	assert.Equal(t, sum.Resources, repo.Resources.Count(nil))
	assert.Equal(t, sum.Listings, repo.Listings.Count(nil))
	assert.Equal(t, sum.Events, repo.Events.Count(nil))
	assert.Equal(t, sum.Tickets, repo.Tickets.Count(nil))
	assert.Equal(t, sum.Options, repo.DropdownOptions.Count(nil))
}

func TestApply_SeededUserShape(t *testing.T) {
	repo, _ := apply(t, Spec{Seed: 1, Users: 3})

	users := repo.Users.All()
	require.Len(t, users, 3)
	assert.Equal(t, "ada.0@atelier.test", users[0].Email)
	assert.Equal(t, "Ada", users[0].Name)
	assert.Equal(t, domain.RoleMaker, users[0].Role)
	assert.Equal(t, "bruno.1@atelier.test", users[1].Email)
	assert.Equal(t, Epoch, users[0].CreatedAt)
}

func TestApply_Deterministic(t *testing.T) {
	spec := DefaultSpec(7)
	repoA, sumA := apply(t, spec)
	repoB, sumB := apply(t, spec)

	assert.Equal(t, sumA, sumB)

	// Every record, id, sequence number and timestamp matches.
	assert.Equal(t, repoA.Users.All(), repoB.Users.All())
	assert.Equal(t, repoA.Profiles.All(), repoB.Profiles.All())
	assert.Equal(t, repoA.Posts.All(), repoB.Posts.All())
	assert.Equal(t, repoA.PostLikes.All(), repoB.PostLikes.All())
	assert.Equal(t, repoA.PostComments.All(), repoB.PostComments.All())
	assert.Equal(t, repoA.Connections.All(), repoB.Connections.All())
	assert.Equal(t, repoA.Threads.All(), repoB.Threads.All())
	assert.Equal(t, repoA.Messages.All(), repoB.Messages.All())
	assert.Equal(t, repoA.Resources.All(), repoB.Resources.All())
	assert.Equal(t, repoA.ResourceSubs.All(), repoB.ResourceSubs.All())
	assert.Equal(t, repoA.Listings.All(), repoB.Listings.All())
	assert.Equal(t, repoA.ListingSubs.All(), repoB.ListingSubs.All())
	assert.Equal(t, repoA.Events.All(), repoB.Events.All())
	assert.Equal(t, repoA.Tickets.All(), repoB.Tickets.All())
	assert.Equal(t, repoA.DropdownOptions.All(), repoB.DropdownOptions.All())
}

func TestApply_SeedChangesIdentity(t *testing.T) {
	repoA, _ := apply(t, Spec{Seed: 1, Users: 1})
	repoB, _ := apply(t, Spec{Seed: 2, Users: 1})

	usersA := repoA.Users.All()
	usersB := repoB.Users.All()
	require.Len(t, usersA, 1)
	require.Len(t, usersB, 1)

	// Same shape, different id stream.
	assert.Equal(t, usersA[0].Email, usersB[0].Email)
	assert.NotEqual(t, usersA[0].ID, usersB[0].ID)
}

func TestNewRepository_DeterministicClockAndIDs(t *testing.T) {
	repoA := NewRepository(3)
	repoB := NewRepository(3)

	assert.Equal(t, Epoch, repoA.Clock().Now())
	assert.Equal(t, Epoch.Add(time.Minute), repoA.Clock().Now())

	a := repoA.Users.Insert(domain.User{Email: "a@atelier.test", Name: "A", Role: domain.RoleMaker})
	b := repoB.Users.Insert(domain.User{Email: "a@atelier.test", Name: "A", Role: domain.RoleMaker})
	assert.Equal(t, a.ID, b.ID)
}

func TestApply_EmptySocialAtTinyScale(t *testing.T) {
	// One user cannot connect or message anyone; the generator must not
	// error, just produce nothing social.
	repo, sum := apply(t, Spec{Seed: 5, Users: 1, Posts: 2})
	assert.Zero(t, sum.Connections)
	assert.Zero(t, sum.Threads)
	assert.Equal(t, 0, repo.Connections.Count(nil))
	assert.Equal(t, 2, repo.Posts.Count(nil))
}
