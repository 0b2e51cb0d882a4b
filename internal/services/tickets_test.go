package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/workflow"
)

func TestTickets_CreateDefaultsToMediumOpen(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")

	tk, err := svc.Tickets.Create(ctx, CreateTicketInput{
		SubmittedBy: alma.ID,
		Subject:     "Cannot update my listing",
		Body:        "The save button does nothing.",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketOpen, tk.Status)
	assert.Equal(t, domain.PriorityMedium, tk.Priority)
	assert.Empty(t, tk.AssignedTo)

	_, err = svc.Tickets.Create(ctx, CreateTicketInput{SubmittedBy: alma.ID})
	assert.Equal(t, domain.ErrCodeMissingField, domain.ValidationCodeOf(err))

	_, err = svc.Tickets.Create(ctx, CreateTicketInput{SubmittedBy: alma.ID, Subject: "x", Priority: "URGENT"})
	assert.Equal(t, domain.ErrCodeBadEnum, domain.ValidationCodeOf(err))

	_, err = svc.Tickets.Create(ctx, CreateTicketInput{SubmittedBy: "ghost", Subject: "x"})
	assert.Equal(t, domain.ErrCodeUnknownUser, domain.ValidationCodeOf(err))
}

func TestTickets_StatusAdvancesOneStep(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")

	tk, err := svc.Tickets.Create(ctx, CreateTicketInput{SubmittedBy: alma.ID, Subject: "Broken feed"})
	require.NoError(t, err)

	// Skipping a step is illegal.
	_, found, err := svc.Tickets.UpdateStatus(ctx, tk.ID, domain.TicketResolved)
	require.True(t, found)
	assert.True(t, workflow.IsIllegalTransition(err))

	for _, to := range []domain.TicketStatus{domain.TicketInProgress, domain.TicketResolved, domain.TicketClosed} {
		tk, found, err = svc.Tickets.UpdateStatus(ctx, tk.ID, to)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, to, tk.Status)
	}

	// CLOSED is terminal.
	_, found, err = svc.Tickets.UpdateStatus(ctx, tk.ID, domain.TicketOpen)
	require.True(t, found)
	assert.True(t, workflow.IsTerminal(err))

	_, found, err = svc.Tickets.UpdateStatus(ctx, "missing", domain.TicketInProgress)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTickets_AssignAndPriorityAreFreeAxes(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")
	agent := mustUser(t, svc, "agent")

	tk, err := svc.Tickets.Create(ctx, CreateTicketInput{SubmittedBy: alma.ID, Subject: "Login loop"})
	require.NoError(t, err)

	tk, found, err := svc.Tickets.Assign(ctx, tk.ID, agent.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, agent.ID, tk.AssignedTo)

	tk, found, err = svc.Tickets.SetPriority(ctx, tk.ID, domain.PriorityHigh)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, domain.PriorityHigh, tk.Priority)

	// Both stay legal after the lifecycle has moved on.
	_, _, err = svc.Tickets.UpdateStatus(ctx, tk.ID, domain.TicketInProgress)
	require.NoError(t, err)
	_, _, err = svc.Tickets.UpdateStatus(ctx, tk.ID, domain.TicketResolved)
	require.NoError(t, err)

	tk, _, err = svc.Tickets.SetPriority(ctx, tk.ID, domain.PriorityLow)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityLow, tk.Priority)

	_, _, err = svc.Tickets.SetPriority(ctx, tk.ID, "URGENT")
	assert.Equal(t, domain.ErrCodeBadEnum, domain.ValidationCodeOf(err))
}

func TestTickets_ListQueues(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")
	agent := mustUser(t, svc, "agent")

	open, err := svc.Tickets.Create(ctx, CreateTicketInput{SubmittedBy: alma.ID, Subject: "A"})
	require.NoError(t, err)
	working, err := svc.Tickets.Create(ctx, CreateTicketInput{SubmittedBy: alma.ID, Subject: "B"})
	require.NoError(t, err)
	_, _, err = svc.Tickets.Assign(ctx, working.ID, agent.ID)
	require.NoError(t, err)
	_, _, err = svc.Tickets.UpdateStatus(ctx, working.ID, domain.TicketInProgress)
	require.NoError(t, err)

	page, err := svc.Tickets.List(ctx, listParams(map[string]any{"status": "OPEN"}))
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, open.ID, page.Data[0].ID)

	page, err = svc.Tickets.List(ctx, listParams(map[string]any{"assignedTo": agent.ID}))
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, working.ID, page.Data[0].ID)
}

func TestTickets_Delete(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")

	tk, err := svc.Tickets.Create(ctx, CreateTicketInput{SubmittedBy: alma.ID, Subject: "Duplicate"})
	require.NoError(t, err)

	ok, err := svc.Tickets.Delete(ctx, tk.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, found, err := svc.Tickets.Get(ctx, tk.ID)
	require.NoError(t, err)
	assert.False(t, found)
}
