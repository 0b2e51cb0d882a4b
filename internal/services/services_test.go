package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/query"
	"github.com/atelier-labs/atelier/internal/store"
	"github.com/atelier-labs/atelier/internal/testutil"
)

// newTestServices builds a facade bundle over a deterministic repository.
func newTestServices(t *testing.T) (*store.Repository, *Services) {
	t.Helper()
	repo := store.NewRepository(
		store.WithClock(testutil.NewClock()),
		store.WithIDSource(testutil.NewSeqIDs(t.Name())),
	)
	return repo, New(repo)
}

// mustUser registers a maker with a derived email.
func mustUser(t *testing.T, svc *Services, name string) domain.User {
	t.Helper()
	u, err := svc.Admin.CreateUser(context.Background(), name+"@atelier.test", name, domain.RoleMaker)
	require.NoError(t, err)
	return u
}

// listParams builds a first-page request with the given filters.
func listParams(filters map[string]any) query.Params {
	return query.Params{Page: 1, Limit: 20, Filters: filters}
}

// canceledCtx is an already canceled context for boundary checks.
func canceledCtx() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func TestFacades_HonorCanceledContext(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := canceledCtx()

	_, err := svc.Admin.CreateUser(ctx, "x@atelier.test", "X", domain.RoleMaker)
	require.ErrorIs(t, err, context.Canceled)

	_, err = svc.Posts.Create(ctx, CreatePostInput{AuthorID: "u", Content: "hi"})
	require.ErrorIs(t, err, context.Canceled)

	_, _, err = svc.Connections.Accept(ctx, "c")
	require.ErrorIs(t, err, context.Canceled)

	_, err = svc.Messaging.GetOrCreateThread(ctx, "a", "b")
	require.ErrorIs(t, err, context.Canceled)

	_, _, err = svc.Tickets.Get(ctx, "t")
	require.ErrorIs(t, err, context.Canceled)
}
