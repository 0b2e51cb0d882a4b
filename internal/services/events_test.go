package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/query"
)

func eventDay(n int) time.Time {
	return time.Date(2024, time.June, n, 18, 0, 0, 0, time.UTC)
}

func TestEvents_Create(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")

	ev, err := svc.Events.Create(ctx, CreateEventInput{
		OrganizerID: alma.ID,
		Title:       "Open studio night",
		Location:    "Lisbon",
		StartDate:   eventDay(10),
		EndDate:     eventDay(10).Add(3 * time.Hour),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)

	_, err = svc.Events.Create(ctx, CreateEventInput{OrganizerID: alma.ID, StartDate: eventDay(1), EndDate: eventDay(2)})
	assert.Equal(t, domain.ErrCodeMissingField, domain.ValidationCodeOf(err))

	_, err = svc.Events.Create(ctx, CreateEventInput{
		OrganizerID: alma.ID,
		Title:       "Backwards",
		StartDate:   eventDay(2),
		EndDate:     eventDay(1),
	})
	assert.Equal(t, domain.ErrCodeBadRange, domain.ValidationCodeOf(err))

	_, err = svc.Events.Create(ctx, CreateEventInput{
		OrganizerID: "ghost",
		Title:       "Orphan",
		StartDate:   eventDay(1),
		EndDate:     eventDay(2),
	})
	assert.Equal(t, domain.ErrCodeUnknownUser, domain.ValidationCodeOf(err))
}

func TestEvents_ListSoonestFirst(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")

	// Created out of chronological order on purpose.
	for _, day := range []int{20, 5, 12} {
		_, err := svc.Events.Create(ctx, CreateEventInput{
			OrganizerID: alma.ID,
			Title:       "Market",
			StartDate:   eventDay(day),
			EndDate:     eventDay(day).Add(2 * time.Hour),
		})
		require.NoError(t, err)
	}

	page, err := svc.Events.List(ctx, query.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Data, 3)
	assert.Equal(t, eventDay(5), page.Data[0].StartDate)
	assert.Equal(t, eventDay(12), page.Data[1].StartDate)
	assert.Equal(t, eventDay(20), page.Data[2].StartDate)
}

func TestEvents_UpdateValidatesResultingRange(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")

	ev, err := svc.Events.Create(ctx, CreateEventInput{
		OrganizerID: alma.ID,
		Title:       "Workshop",
		StartDate:   eventDay(10),
		EndDate:     eventDay(11),
	})
	require.NoError(t, err)

	// Moving only the start date past the end must fail and change nothing.
	badStart := eventDay(12)
	_, found, err := svc.Events.Update(ctx, ev.ID, UpdateEventInput{StartDate: &badStart})
	require.True(t, found)
	assert.Equal(t, domain.ErrCodeBadRange, domain.ValidationCodeOf(err))

	got, _, err := svc.Events.Get(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, eventDay(10), got.StartDate)

	// Moving both sides together is fine.
	newStart, newEnd := eventDay(15), eventDay(16)
	updated, found, err := svc.Events.Update(ctx, ev.ID, UpdateEventInput{StartDate: &newStart, EndDate: &newEnd})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, newStart, updated.StartDate)
	assert.Equal(t, newEnd, updated.EndDate)

	_, found, err = svc.Events.Update(ctx, "missing", UpdateEventInput{StartDate: &newStart})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestEvents_Delete(t *testing.T) {
	_, svc := newTestServices(t)
	ctx := context.Background()
	alma := mustUser(t, svc, "alma")

	ev, err := svc.Events.Create(ctx, CreateEventInput{
		OrganizerID: alma.ID,
		Title:       "Cancelled fair",
		StartDate:   eventDay(1),
		EndDate:     eventDay(2),
	})
	require.NoError(t, err)

	ok, err := svc.Events.Delete(ctx, ev.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, found, err := svc.Events.Get(ctx, ev.ID)
	require.NoError(t, err)
	assert.False(t, found)

	page, err := svc.Events.List(ctx, query.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}
