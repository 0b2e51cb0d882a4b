package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/workflow"
)

func TestConnections_SendRequest(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")
	bea := mustUser(t, svc, "bea")

	conn, err := svc.Connections.SendRequest(ctx, alma.ID, bea.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ConnectionPending, conn.Status)
	assert.Equal(t, alma.ID, conn.RequesterID)
	assert.Equal(t, bea.ID, conn.TargetID)
}

func TestConnections_SendRequestIdempotentOverPair(t *testing.T) {
	repo, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")
	bea := mustUser(t, svc, "bea")

	first, err := svc.Connections.SendRequest(ctx, alma.ID, bea.ID)
	require.NoError(t, err)

	// Same direction: same record back.
	again, err := svc.Connections.SendRequest(ctx, alma.ID, bea.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	// Opposite direction: still the same record, requester unchanged.
	reversed, err := svc.Connections.SendRequest(ctx, bea.ID, alma.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, reversed.ID)
	assert.Equal(t, alma.ID, reversed.RequesterID)

	assert.Equal(t, 1, repo.Connections.Count(nil))
}

func TestConnections_ResendAfterAcceptReturnsAccepted(t *testing.T) {
	repo, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")
	bea := mustUser(t, svc, "bea")

	conn, err := svc.Connections.SendRequest(ctx, alma.ID, bea.ID)
	require.NoError(t, err)
	_, found, err := svc.Connections.Accept(ctx, conn.ID)
	require.NoError(t, err)
	require.True(t, found)

	// A settled pair stays settled; re-sending does not reset it.
	again, err := svc.Connections.SendRequest(ctx, bea.ID, alma.ID)
	require.NoError(t, err)
	assert.Equal(t, conn.ID, again.ID)
	assert.Equal(t, domain.ConnectionAccepted, again.Status)
	assert.Equal(t, 1, repo.Connections.Count(nil))
}

func TestConnections_SendRequestValidation(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")

	_, err := svc.Connections.SendRequest(ctx, alma.ID, alma.ID)
	assert.Equal(t, domain.ErrCodeSelfConnection, domain.ValidationCodeOf(err))

	_, err = svc.Connections.SendRequest(ctx, alma.ID, "ghost")
	assert.Equal(t, domain.ErrCodeUnknownUser, domain.ValidationCodeOf(err))

	_, err = svc.Connections.SendRequest(ctx, "ghost", alma.ID)
	assert.Equal(t, domain.ErrCodeUnknownUser, domain.ValidationCodeOf(err))
}

func TestConnections_AcceptAndReject(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")
	bea := mustUser(t, svc, "bea")
	cato := mustUser(t, svc, "cato")

	conn, err := svc.Connections.SendRequest(ctx, alma.ID, bea.ID)
	require.NoError(t, err)

	accepted, found, err := svc.Connections.Accept(ctx, conn.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.ConnectionAccepted, accepted.Status)

	// Accepting again hits a terminal state.
	_, found, err = svc.Connections.Accept(ctx, conn.ID)
	require.True(t, found)
	var terr *workflow.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, workflow.ErrCodeTerminalState, terr.Code)

	other, err := svc.Connections.SendRequest(ctx, alma.ID, cato.ID)
	require.NoError(t, err)
	rejected, found, err := svc.Connections.Reject(ctx, other.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.ConnectionRejected, rejected.Status)

	// Unknown id is a miss, not an error.
	_, found, err = svc.Connections.Accept(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestConnections_FailedTransitionLeavesRecordUntouched(t *testing.T) {
	repo, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")
	bea := mustUser(t, svc, "bea")

	conn, err := svc.Connections.SendRequest(ctx, alma.ID, bea.ID)
	require.NoError(t, err)
	_, _, err = svc.Connections.Reject(ctx, conn.ID)
	require.NoError(t, err)
	before, _ := repo.Connections.Get(conn.ID)

	_, _, err = svc.Connections.Accept(ctx, conn.ID)
	require.Error(t, err)

	after, _ := repo.Connections.Get(conn.ID)
	assert.Equal(t, before, after)
}

func TestConnections_Remove(t *testing.T) {
	repo, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")
	bea := mustUser(t, svc, "bea")

	conn, err := svc.Connections.SendRequest(ctx, alma.ID, bea.ID)
	require.NoError(t, err)
	_, _, err = svc.Connections.Accept(ctx, conn.ID)
	require.NoError(t, err)

	ok, err := svc.Connections.Remove(ctx, conn.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, repo.Connections.Count(nil))

	// The pair is free again after removal.
	fresh, err := svc.Connections.SendRequest(ctx, bea.ID, alma.ID)
	require.NoError(t, err)
	assert.NotEqual(t, conn.ID, fresh.ID)
	assert.Equal(t, domain.ConnectionPending, fresh.Status)

	ok, err = svc.Connections.Remove(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConnections_ListForUser(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")
	bea := mustUser(t, svc, "bea")
	cato := mustUser(t, svc, "cato")

	first, err := svc.Connections.SendRequest(ctx, alma.ID, bea.ID)
	require.NoError(t, err)
	second, err := svc.Connections.SendRequest(ctx, cato.ID, alma.ID)
	require.NoError(t, err)
	_, err = svc.Connections.SendRequest(ctx, bea.ID, cato.ID)
	require.NoError(t, err)

	conns, err := svc.Connections.ListForUser(ctx, alma.ID)
	require.NoError(t, err)
	require.Len(t, conns, 2)
	assert.Equal(t, first.ID, conns[0].ID)
	assert.Equal(t, second.ID, conns[1].ID)
}

func TestConnections_ListFiltersByStatus(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")
	bea := mustUser(t, svc, "bea")
	cato := mustUser(t, svc, "cato")

	conn, err := svc.Connections.SendRequest(ctx, alma.ID, bea.ID)
	require.NoError(t, err)
	_, _, err = svc.Connections.Accept(ctx, conn.ID)
	require.NoError(t, err)
	_, err = svc.Connections.SendRequest(ctx, alma.ID, cato.ID)
	require.NoError(t, err)

	page, err := svc.Connections.List(ctx, listParams(map[string]any{"status": "ACCEPTED"}))
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, conn.ID, page.Data[0].ID)
}
