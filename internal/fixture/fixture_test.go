package fixture

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-labs/atelier/internal/services"
	"github.com/atelier-labs/atelier/internal/store"
	"github.com/atelier-labs/atelier/internal/testutil"
)

const validFixture = `
package fixtures

users: [
	{
		email: "alma@atelier.test"
		name:  "Alma"
		role:  "MAKER"
		profile: {
			displayName: "Alma Studio"
			location:    "Lisbon"
			crafts: ["pottery"]
			visible: true
		}
	},
	{
		email: "bea@atelier.test"
		name:  "Bea"
		role:  "BUYER"
	},
]
options: [
	{category: "craft", key: "pottery", value: "pottery", label: "Pottery", order: 1, active: true},
]
posts: [
	{
		author:  "alma@atelier.test"
		content: "Kiln opening this weekend"
		tags: ["pottery"]
		likes: ["bea@atelier.test"]
		comments: [
			{author: "bea@atelier.test", body: "Saving a bowl for me?"},
		]
	},
]
`

func writeFixture(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dataset.cue"), []byte(body), 0o644))
	return dir
}

func newFixtureServices(t *testing.T) (*store.Repository, *services.Services) {
	t.Helper()
	repo := store.NewRepository(
		store.WithClock(testutil.NewClock()),
		store.WithIDSource(testutil.NewSeqIDs(t.Name())),
	)
	return repo, services.New(repo)
}

func TestLoad_ValidDataset(t *testing.T) {
	ds, err := Load(writeFixture(t, validFixture))
	require.NoError(t, err)

	require.Len(t, ds.Users, 2)
	assert.Equal(t, "alma@atelier.test", ds.Users[0].Email)
	require.NotNil(t, ds.Users[0].Profile)
	assert.Equal(t, "Alma Studio", ds.Users[0].Profile.DisplayName)
	assert.Nil(t, ds.Users[1].Profile)
	require.Len(t, ds.Options, 1)
	require.Len(t, ds.Posts, 1)
	assert.Equal(t, []string{"bea@atelier.test"}, ds.Posts[0].Likes)
}

func TestLoad_RejectsBadRole(t *testing.T) {
	dir := writeFixture(t, `
package fixtures

users: [{email: "x@atelier.test", name: "X", role: "WIZARD"}]
`)
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate fixtures")
}

func TestLoad_RejectsBadEmail(t *testing.T) {
	dir := writeFixture(t, `
package fixtures

users: [{email: "not-an-email", name: "X", role: "MAKER"}]
`)
	_, err := Load(dir)
	require.Error(t, err)
}

func TestLoad_RejectsEmptyUserList(t *testing.T) {
	dir := writeFixture(t, "package fixtures\n\nusers: []")
	_, err := Load(dir)
	require.Error(t, err)
}

func TestLoad_MissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestLoad_FileInsteadOfDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "dataset.cue")
	require.NoError(t, os.WriteFile(f, []byte("users: []"), 0o644))
	_, err := Load(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestApply_PopulatesRepository(t *testing.T) {
	ds, err := Load(writeFixture(t, validFixture))
	require.NoError(t, err)

	repo, svc := newFixtureServices(t)
	require.NoError(t, ds.Apply(context.Background(), svc))

	assert.Equal(t, 2, repo.Users.Count(nil))
	assert.Equal(t, 1, repo.Profiles.Count(nil))
	assert.Equal(t, 1, repo.DropdownOptions.Count(nil))
	assert.Equal(t, 1, repo.Posts.Count(nil))
	assert.Equal(t, 1, repo.PostLikes.Count(nil))
	assert.Equal(t, 1, repo.PostComments.Count(nil))

	posts := repo.Posts.All()
	require.Len(t, posts, 1)
	assert.Equal(t, 1, posts[0].LikesCount)
	assert.Equal(t, 1, posts[0].CommentsCount)
}

func TestApply_UnknownAuthorReference(t *testing.T) {
	ds := &Dataset{
		Users: []User{{Email: "alma@atelier.test", Name: "Alma", Role: "MAKER"}},
		Posts: []Post{{Author: "ghost@atelier.test", Content: "orphan"}},
	}

	repo, svc := newFixtureServices(t)
	err := ds.Apply(context.Background(), svc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown author")

	// Everything before the bad reference stays applied.
	assert.Equal(t, 1, repo.Users.Count(nil))
	assert.Equal(t, 0, repo.Posts.Count(nil))
}

func TestApply_UnknownLikerReference(t *testing.T) {
	ds := &Dataset{
		Users: []User{{Email: "alma@atelier.test", Name: "Alma", Role: "MAKER"}},
		Posts: []Post{{
			Author:  "alma@atelier.test",
			Content: "post",
			Likes:   []string{"ghost@atelier.test"},
		}},
	}

	_, svc := newFixtureServices(t)
	err := ds.Apply(context.Background(), svc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown liker")
}
