package fixture

import (
	"context"
	"fmt"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/services"
)

// Apply writes the dataset into svc in declaration order. User emails used
// by posts, likes and comments must belong to users declared in the same
// dataset; an unknown reference aborts with an error and leaves whatever
// was already applied in place.
func (d *Dataset) Apply(ctx context.Context, svc *services.Services) error {
	ids := make(map[string]string, len(d.Users))

	for _, u := range d.Users {
		user, err := svc.Admin.CreateUser(ctx, u.Email, u.Name, domain.Role(u.Role))
		if err != nil {
			return fmt.Errorf("user %s: %w", u.Email, err)
		}
		ids[u.Email] = user.ID

		if u.Profile == nil {
			continue
		}
		p := u.Profile
		_, err = svc.Profiles.Create(ctx, services.CreateProfileInput{
			UserID:      user.ID,
			DisplayName: p.DisplayName,
			Headline:    p.Headline,
			Bio:         p.Bio,
			Location:    p.Location,
			Crafts:      p.Crafts,
			Materials:   p.Materials,
			Techniques:  p.Techniques,
			Visible:     p.Visible,
		})
		if err != nil {
			return fmt.Errorf("profile for %s: %w", u.Email, err)
		}
	}

	for _, o := range d.Options {
		_, err := svc.Admin.CreateOption(ctx, domain.DropdownOption{
			Category: o.Category,
			Key:      o.Key,
			Value:    o.Value,
			Label:    o.Label,
			Order:    o.Order,
			Active:   o.Active,
		})
		if err != nil {
			return fmt.Errorf("option %s/%s: %w", o.Category, o.Key, err)
		}
	}

	for i, p := range d.Posts {
		authorID, ok := ids[p.Author]
		if !ok {
			return fmt.Errorf("post %d: unknown author %s", i, p.Author)
		}
		post, err := svc.Posts.Create(ctx, services.CreatePostInput{
			AuthorID: authorID,
			Content:  p.Content,
			Tags:     p.Tags,
		})
		if err != nil {
			return fmt.Errorf("post %d: %w", i, err)
		}
		for _, liker := range p.Likes {
			likerID, ok := ids[liker]
			if !ok {
				return fmt.Errorf("post %d: unknown liker %s", i, liker)
			}
			if _, _, err := svc.Posts.Like(ctx, post.ID, likerID); err != nil {
				return fmt.Errorf("post %d like by %s: %w", i, liker, err)
			}
		}
		for _, c := range p.Comments {
			authorID, ok := ids[c.Author]
			if !ok {
				return fmt.Errorf("post %d: unknown commenter %s", i, c.Author)
			}
			if _, _, err := svc.Posts.AddComment(ctx, post.ID, authorID, c.Body); err != nil {
				return fmt.Errorf("post %d comment by %s: %w", i, c.Author, err)
			}
		}
	}
	return nil
}
