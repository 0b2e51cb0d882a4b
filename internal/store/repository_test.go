package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atelier-labs/atelier/internal/domain"
)

func TestRepository_DefaultsAreUsable(t *testing.T) {
	repo := NewRepository()

	var u domain.User
	repo.Update(func() {
		u = repo.Users.Insert(domain.User{Email: "x@example.com"})
	})
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())
	assert.NotNil(t, repo.Clock())
}

func TestRepository_ConcurrentUpdates(t *testing.T) {
	repo := newTestRepo(t)

	const writers = 8
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				repo.Update(func() {
					repo.Posts.Insert(domain.Post{Content: "concurrent"})
				})
			}
		}()
	}
	wg.Wait()

	repo.View(func() {
		assert.Equal(t, writers*perWriter, repo.Posts.Count(nil))
	})

	// Sequence numbers are unique across all writers.
	seen := make(map[int64]bool)
	repo.View(func() {
		for _, p := range repo.Posts.All() {
			assert.False(t, seen[p.Seq], "duplicate seq %d", p.Seq)
			seen[p.Seq] = true
		}
	})
}

func TestRepository_ConcurrentReadersDuringWrites(t *testing.T) {
	repo := newTestRepo(t)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			repo.Update(func() {
				repo.Users.Insert(domain.User{Email: "w@example.com"})
			})
		}
	}()

	for i := 0; i < 100; i++ {
		repo.View(func() {
			// A reader never observes a torn record: every user it sees
			// has an id and timestamps.
			for _, u := range repo.Users.All() {
				assert.NotEmpty(t, u.ID)
				assert.False(t, u.CreatedAt.IsZero())
			}
		})
	}
	<-done
}
