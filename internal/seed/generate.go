package seed

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/services"
)

// titler capitalizes generated labels and titles.
var titler = cases.Title(language.English)

func (g Generator) users(ctx context.Context, svc *services.Services, rng *rand.Rand, sum *Summary) ([]string, error) {
	ids := make([]string, 0, g.Spec.Users)
	for i := 0; i < g.Spec.Users; i++ {
		name := firstNames[i%len(firstNames)]
		email := fmt.Sprintf("%s.%d@atelier.test", strings.ToLower(name), i)
		role := roles[i%len(roles)]

		u, err := svc.Admin.CreateUser(ctx, email, name, role)
		if err != nil {
			return nil, fmt.Errorf("seed user %d: %w", i, err)
		}
		ids = append(ids, u.ID)
		sum.Users++

		crafts := pick(rng, craftTags, 1+rng.Intn(3))
		_, err = svc.Profiles.Create(ctx, services.CreateProfileInput{
			UserID:      u.ID,
			DisplayName: fmt.Sprintf("%s Studio", name),
			Headline:    fmt.Sprintf("%s in %s", titler.String(crafts[0]), cities[i%len(cities)]),
			Bio:         fmt.Sprintf("%s working mostly in %s.", titler.String(crafts[0]), materials[i%len(materials)]),
			Location:    cities[i%len(cities)],
			Crafts:      crafts,
			Materials:   pick(rng, materials, 1+rng.Intn(2)),
			Techniques:  pick(rng, craftTags, 1),
			Visible:     true,
		})
		if err != nil {
			return nil, fmt.Errorf("seed profile %d: %w", i, err)
		}
		sum.Profiles++
	}
	return ids, nil
}

func (g Generator) options(ctx context.Context, svc *services.Services, sum *Summary) error {
	for i, tag := range craftTags {
		_, err := svc.Admin.CreateOption(ctx, domain.DropdownOption{
			Category: "craft",
			Key:      tag,
			Value:    tag,
			Label:    titler.String(tag),
			Order:    i,
			Active:   true,
		})
		if err != nil {
			return fmt.Errorf("seed option %q: %w", tag, err)
		}
		sum.Options++
	}
	for i, m := range materials {
		_, err := svc.Admin.CreateOption(ctx, domain.DropdownOption{
			Category: "material",
			Key:      m,
			Value:    m,
			Label:    titler.String(m),
			Order:    i,
			Active:   true,
		})
		if err != nil {
			return fmt.Errorf("seed option %q: %w", m, err)
		}
		sum.Options++
	}
	return nil
}

func (g Generator) posts(ctx context.Context, svc *services.Services, rng *rand.Rand, userIDs []string, sum *Summary) ([]string, error) {
	ids := make([]string, 0, g.Spec.Posts)
	for i := 0; i < g.Spec.Posts; i++ {
		author := userIDs[rng.Intn(len(userIDs))]
		tags := pick(rng, craftTags, 1+rng.Intn(2))
		content := fmt.Sprintf("%s %s today. Batch %d.", verbs[rng.Intn(len(verbs))], tags[0], i+1)

		p, err := svc.Posts.Create(ctx, services.CreatePostInput{
			AuthorID: author,
			Content:  content,
			Tags:     tags,
		})
		if err != nil {
			return nil, fmt.Errorf("seed post %d: %w", i, err)
		}
		ids = append(ids, p.ID)
		sum.Posts++

		for _, liker := range pick(rng, userIDs, rng.Intn(5)) {
			if _, _, err := svc.Posts.Like(ctx, p.ID, liker); err != nil {
				return nil, fmt.Errorf("seed like on post %d: %w", i, err)
			}
			sum.Likes++
		}
		for c := 0; c < rng.Intn(3); c++ {
			commenter := userIDs[rng.Intn(len(userIDs))]
			body := fmt.Sprintf("Love the %s work!", tags[0])
			if _, _, err := svc.Posts.AddComment(ctx, p.ID, commenter, body); err != nil {
				return nil, fmt.Errorf("seed comment on post %d: %w", i, err)
			}
			sum.Comments++
		}
	}
	return ids, nil
}

func (g Generator) social(ctx context.Context, svc *services.Services, rng *rand.Rand, userIDs, postIDs []string, sum *Summary) error {
	// Connect each user to a couple of others; accept roughly half.
	for i, a := range userIDs {
		for n := 0; n < 2; n++ {
			b := userIDs[rng.Intn(len(userIDs))]
			if a == b {
				continue
			}
			conn, err := svc.Connections.SendRequest(ctx, a, b)
			if err != nil {
				return fmt.Errorf("seed connection: %w", err)
			}
			if conn.Status != domain.ConnectionPending {
				continue // already settled by an earlier pass
			}
			sum.Connections++
			if rng.Intn(2) == 0 {
				if _, _, err := svc.Connections.Accept(ctx, conn.ID); err != nil {
					return fmt.Errorf("seed accept: %w", err)
				}
			}
		}
		// A short thread with the next user over.
		if i+1 < len(userIDs) {
			thread, err := svc.Messaging.GetOrCreateThread(ctx, a, userIDs[i+1])
			if err != nil {
				return fmt.Errorf("seed thread: %w", err)
			}
			sum.Threads++
			for m := 0; m < 1+rng.Intn(3); m++ {
				sender := a
				if m%2 == 1 {
					sender = userIDs[i+1]
				}
				body := fmt.Sprintf("Message %d about the %s commission.", m+1, craftTags[rng.Intn(len(craftTags))])
				if _, _, err := svc.Messaging.SendMessage(ctx, thread.ID, sender, body); err != nil {
					return fmt.Errorf("seed message: %w", err)
				}
				sum.Messages++
			}
		}
	}

	// A few moderation flags, some resolved.
	for n := 0; n < len(postIDs)/10; n++ {
		postID := postIDs[rng.Intn(len(postIDs))]
		reporter := userIDs[rng.Intn(len(userIDs))]
		flag, ok, err := svc.Posts.Flag(ctx, postID, reporter, "off-topic")
		if err != nil {
			return fmt.Errorf("seed flag: %w", err)
		}
		if !ok {
			continue
		}
		sum.Flags++
		if n%2 == 0 {
			if _, _, err := svc.Admin.ResolvePostFlag(ctx, flag.ID, domain.FlagDismissed, userIDs[0]); err != nil {
				return fmt.Errorf("seed flag resolve: %w", err)
			}
		}
	}
	return nil
}

func (g Generator) catalog(ctx context.Context, svc *services.Services, rng *rand.Rand, userIDs []string, sum *Summary) error {
	reviewer := userIDs[0]

	for i := 0; i < g.Spec.Resources; i++ {
		author := userIDs[rng.Intn(len(userIDs))]
		tag := craftTags[rng.Intn(len(craftTags))]
		_, sub, err := svc.Resources.Create(ctx, services.CreateResourceInput{
			AuthorID:    author,
			Title:       fmt.Sprintf("Guide %d: %s basics", i+1, tag),
			Description: fmt.Sprintf("A practical introduction to %s.", tag),
			URL:         fmt.Sprintf("https://atelier.test/guides/%d", i+1),
			Tags:        []string{tag},
		})
		if err != nil {
			return fmt.Errorf("seed resource %d: %w", i, err)
		}
		sum.Resources++
		// Approve two thirds, reject a few, leave the rest pending.
		switch rng.Intn(3) {
		case 0, 1:
			_, _, err = svc.Resources.ApproveSubmission(ctx, sub.ID, reviewer)
		case 2:
			if rng.Intn(2) == 0 {
				_, _, err = svc.Resources.RejectSubmission(ctx, sub.ID, reviewer)
			}
		}
		if err != nil {
			return fmt.Errorf("seed resource review %d: %w", i, err)
		}
	}

	for i := 0; i < g.Spec.Listings; i++ {
		provider := userIDs[rng.Intn(len(userIDs))]
		tag := craftTags[rng.Intn(len(craftTags))]
		_, sub, err := svc.Listings.Create(ctx, services.CreateListingInput{
			ProviderID:  provider,
			Title:       fmt.Sprintf("%s repairs and commissions", titler.String(tag)),
			Description: fmt.Sprintf("Commission work and repairs, specializing in %s.", tag),
			Category:    tag,
			Tags:        []string{tag},
		})
		if err != nil {
			return fmt.Errorf("seed listing %d: %w", i, err)
		}
		sum.Listings++
		if rng.Intn(2) == 0 {
			if _, _, err := svc.Listings.ApproveSubmission(ctx, sub.ID, reviewer); err != nil {
				return fmt.Errorf("seed listing review %d: %w", i, err)
			}
		}
	}

	for i := 0; i < g.Spec.Events; i++ {
		organizer := userIDs[rng.Intn(len(userIDs))]
		start := Epoch.AddDate(0, 1+rng.Intn(6), rng.Intn(28))
		tag := craftTags[rng.Intn(len(craftTags))]
		_, err := svc.Events.Create(ctx, services.CreateEventInput{
			OrganizerID: organizer,
			Title:       fmt.Sprintf("%s open studio %d", titler.String(tag), i+1),
			Description: fmt.Sprintf("Hands-on %s session, all levels.", tag),
			Location:    cities[rng.Intn(len(cities))],
			StartDate:   start,
			EndDate:     start.Add(3 * time.Hour),
		})
		if err != nil {
			return fmt.Errorf("seed event %d: %w", i, err)
		}
		sum.Events++
	}
	return nil
}

func (g Generator) support(ctx context.Context, svc *services.Services, rng *rand.Rand, userIDs []string, sum *Summary) error {
	priorities := []domain.TicketPriority{domain.PriorityLow, domain.PriorityMedium, domain.PriorityHigh}
	agent := userIDs[0]

	for i := 0; i < g.Spec.Tickets; i++ {
		submitter := userIDs[rng.Intn(len(userIDs))]
		t, err := svc.Tickets.Create(ctx, services.CreateTicketInput{
			SubmittedBy: submitter,
			Subject:     fmt.Sprintf("Issue %d with my listing photos", i+1),
			Body:        "Uploads keep failing from the studio tablet.",
			Priority:    priorities[rng.Intn(len(priorities))],
		})
		if err != nil {
			return fmt.Errorf("seed ticket %d: %w", i, err)
		}
		sum.Tickets++

		// Walk a random distance along the lifecycle.
		steps := rng.Intn(4)
		if steps > 0 {
			if _, _, err := svc.Tickets.Assign(ctx, t.ID, agent); err != nil {
				return fmt.Errorf("seed ticket assign %d: %w", i, err)
			}
		}
		status := domain.TicketOpen
		for n := 0; n < steps; n++ {
			status = status.Next()
			if _, _, err := svc.Tickets.UpdateStatus(ctx, t.ID, status); err != nil {
				return fmt.Errorf("seed ticket status %d: %w", i, err)
			}
		}
	}

	// Record a page-view trail so the analytics feed is non-empty.
	for i := 0; i < len(userIDs); i++ {
		_, err := svc.Admin.RecordEvent(ctx, userIDs[i], "page_view", map[string]string{
			"path": fmt.Sprintf("/community/posts?page=%d", 1+i%3),
		})
		if err != nil {
			return fmt.Errorf("seed analytics %d: %w", i, err)
		}
	}
	return nil
}

// pick returns n distinct elements of pool in pool order. n is clamped to
// len(pool).
func pick(rng *rand.Rand, pool []string, n int) []string {
	if n >= len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return nil
	}
	idx := rng.Perm(len(pool))[:n]
	sort.Ints(idx)
	out := make([]string, n)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}
