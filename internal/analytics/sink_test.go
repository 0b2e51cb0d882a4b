package analytics

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-labs/atelier/internal/domain"
)

func event(n int) domain.AnalyticsEvent {
	return domain.AnalyticsEvent{
		Meta:   domain.Meta{ID: fmt.Sprintf("ev-%d", n), Seq: int64(n)},
		UserID: "user-1",
		Kind:   "page_view",
		Properties: map[string]string{
			"page": fmt.Sprintf("/guides/%d", n),
		},
	}
}

func TestMemorySink_RecordAndEvents(t *testing.T) {
	sink := NewMemorySink()
	ctx := context.Background()

	require.NoError(t, sink.Record(ctx, event(1)))
	require.NoError(t, sink.Record(ctx, event(2)))

	got := sink.Events()
	require.Len(t, got, 2)
	assert.Equal(t, "ev-1", got[0].ID)
	assert.Equal(t, "ev-2", got[1].ID)

	// Events returns a copy; mutating it does not touch the sink.
	got[0].Kind = "mutated"
	assert.Equal(t, "page_view", sink.Events()[0].Kind)

	assert.NoError(t, sink.Close())
}

func TestMemorySink_ConcurrentRecords(t *testing.T) {
	sink := NewMemorySink()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for n := 0; n < 25; n++ {
				_ = sink.Record(ctx, event(i*25+n))
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, sink.Events(), 200)
}
