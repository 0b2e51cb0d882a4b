package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/workflow"
)

func TestResources_CreateOpensPendingSubmission(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")

	res, sub, err := svc.Resources.Create(ctx, CreateResourceInput{
		AuthorID:    alma.ID,
		Title:       "Raku firing basics",
		Description: "Temperature curves and reduction chambers.",
		URL:         "https://atelier.test/guides/raku",
		Tags:        []string{"pottery", "raku"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsApproved)
	assert.False(t, res.IsPublic)
	assert.Equal(t, domain.SubmissionPending, sub.Status)
	assert.Equal(t, res.ID, sub.ResourceID)
	assert.Equal(t, alma.ID, sub.SubmittedBy)

	got, found, err := svc.Resources.Submission(ctx, res.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sub.ID, got.ID)

	_, _, err = svc.Resources.Create(ctx, CreateResourceInput{AuthorID: alma.ID})
	assert.Equal(t, domain.ErrCodeMissingField, domain.ValidationCodeOf(err))

	_, _, err = svc.Resources.Create(ctx, CreateResourceInput{AuthorID: "ghost", Title: "x"})
	assert.Equal(t, domain.ErrCodeUnknownUser, domain.ValidationCodeOf(err))
}

func TestResources_ApproveFlipsResource(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")
	reviewer := mustUser(t, svc, "reviewer")

	res, sub, err := svc.Resources.Create(ctx, CreateResourceInput{AuthorID: alma.ID, Title: "Glaze chemistry"})
	require.NoError(t, err)

	approved, found, err := svc.Resources.ApproveSubmission(ctx, sub.ID, reviewer.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.SubmissionApproved, approved.Status)
	assert.Equal(t, reviewer.ID, approved.ReviewedBy)
	require.NotNil(t, approved.ReviewedAt)

	got, _, err := svc.Resources.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, got.IsApproved)
	assert.True(t, got.IsPublic)

	// The review is terminal; a later reject changes nothing.
	_, found, err = svc.Resources.RejectSubmission(ctx, sub.ID, reviewer.ID)
	require.True(t, found)
	assert.True(t, workflow.IsTerminal(err))

	got, _, err = svc.Resources.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, got.IsApproved)
}

func TestResources_RejectLeavesResourcePrivate(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")
	reviewer := mustUser(t, svc, "reviewer")

	res, sub, err := svc.Resources.Create(ctx, CreateResourceInput{AuthorID: alma.ID, Title: "Questionable guide"})
	require.NoError(t, err)

	rejected, found, err := svc.Resources.RejectSubmission(ctx, sub.ID, reviewer.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.SubmissionRejected, rejected.Status)

	got, _, err := svc.Resources.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.False(t, got.IsApproved)
	assert.False(t, got.IsPublic)

	_, found, err = svc.Resources.ApproveSubmission(ctx, "missing", reviewer.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestResources_ListApprovalQueues(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")
	reviewer := mustUser(t, svc, "reviewer")

	approvedRes, sub, err := svc.Resources.Create(ctx, CreateResourceInput{AuthorID: alma.ID, Title: "Approved guide"})
	require.NoError(t, err)
	_, _, err = svc.Resources.ApproveSubmission(ctx, sub.ID, reviewer.ID)
	require.NoError(t, err)
	_, _, err = svc.Resources.Create(ctx, CreateResourceInput{AuthorID: alma.ID, Title: "Waiting guide"})
	require.NoError(t, err)

	public, err := svc.Resources.List(ctx, listParams(map[string]any{"isPublic": true}))
	require.NoError(t, err)
	require.Len(t, public.Data, 1)
	assert.Equal(t, approvedRes.ID, public.Data[0].ID)

	queue, err := svc.Admin.ListResourceSubmissions(ctx, listParams(map[string]any{"status": "PENDING"}))
	require.NoError(t, err)
	assert.Equal(t, 1, queue.Total)
}

func TestResources_UpdateCannotTouchApproval(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")

	res, _, err := svc.Resources.Create(ctx, CreateResourceInput{AuthorID: alma.ID, Title: "Draft title"})
	require.NoError(t, err)

	title := "Final title"
	updated, found, err := svc.Resources.Update(ctx, res.ID, UpdateResourceInput{Title: &title})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Final title", updated.Title)
	assert.False(t, updated.IsApproved)
	assert.False(t, updated.IsPublic)
}

func TestResources_Delete(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")

	res, _, err := svc.Resources.Create(ctx, CreateResourceInput{AuthorID: alma.ID, Title: "Short lived"})
	require.NoError(t, err)

	ok, err := svc.Resources.Delete(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, found, err := svc.Resources.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.False(t, found)
}
