package services

import (
	"context"
	"time"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/query"
)

// postSchema declares the queryable surface of posts.
var postSchema = query.Schema[domain.Post]{
	Fields: map[string]query.Field[domain.Post]{
		"authorId":  query.StringField(func(p *domain.Post) string { return p.AuthorID }),
		"content":   query.StringField(func(p *domain.Post) string { return p.Content }),
		"tags":      query.TagsField(func(p *domain.Post) []string { return p.Tags }),
		"createdAt": query.TimeField(func(p *domain.Post) time.Time { return p.CreatedAt }),
	},
	DefaultSort: query.Sort{Field: "createdAt", Direction: query.Desc},
}

// Posts is the facade over the community feed: posts, likes, comments and
// post moderation flags.
//
// The engagement counters on a post (LikesCount, CommentsCount) always equal
// the cardinality of the corresponding like/comment collections; every
// mutation here adjusts both sides inside one critical section.
type Posts struct {
	*core
}

// CreatePostInput carries the caller-supplied fields for a new post.
type CreatePostInput struct {
	AuthorID string
	Content  string
	ImageURL string
	Tags     []string
}

// UpdatePostInput is a partial update; nil fields are left unchanged.
type UpdatePostInput struct {
	Content  *string
	ImageURL *string
	Tags     *[]string
}

// List returns one page of live posts. Soft-deleted posts never appear.
func (s *Posts) List(ctx context.Context, p query.Params) (query.Page[domain.Post], error) {
	return listSnapshot(ctx, s.core, s.repo.Posts.All, postSchema, p)
}

// Get returns the post with the given id.
func (s *Posts) Get(ctx context.Context, id string) (domain.Post, bool, error) {
	var post domain.Post
	var ok bool
	if err := ctx.Err(); err != nil {
		return post, false, err
	}
	s.repo.View(func() {
		post, ok = s.repo.Posts.Get(id)
	})
	return post, ok, nil
}

// Create inserts a post authored by an existing user.
func (s *Posts) Create(ctx context.Context, in CreatePostInput) (domain.Post, error) {
	var post domain.Post
	if err := ctx.Err(); err != nil {
		return post, err
	}
	if in.Content == "" {
		return post, domain.NewValidationError(domain.ErrCodeMissingField, "content", "required")
	}

	var err error
	s.repo.Update(func() {
		if _, ok := s.repo.Users.Get(in.AuthorID); !ok {
			err = domain.NewValidationError(domain.ErrCodeUnknownUser, "authorId", "no such user %q", in.AuthorID)
			return
		}
		post = s.repo.Posts.Insert(domain.Post{
			AuthorID: in.AuthorID,
			Content:  in.Content,
			ImageURL: in.ImageURL,
			Tags:     in.Tags,
		})
	})
	if err != nil {
		return domain.Post{}, err
	}
	s.log.Debug().Str("postId", post.ID).Str("authorId", post.AuthorID).Msg("post created")
	return post, nil
}

// Update applies a partial update. Returns false for unknown ids.
func (s *Posts) Update(ctx context.Context, id string, in UpdatePostInput) (domain.Post, bool, error) {
	var post domain.Post
	var ok bool
	if err := ctx.Err(); err != nil {
		return post, false, err
	}
	s.repo.Update(func() {
		post, ok = s.repo.Posts.Mutate(id, func(p *domain.Post) {
			if in.Content != nil {
				p.Content = *in.Content
			}
			if in.ImageURL != nil {
				p.ImageURL = *in.ImageURL
			}
			if in.Tags != nil {
				p.Tags = *in.Tags
			}
		})
	})
	return post, ok, nil
}

// Delete soft-deletes the post; it disappears from every list and get.
func (s *Posts) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var ok bool
	s.repo.Update(func() {
		ok = s.repo.Posts.SoftDelete(id)
	})
	return ok, nil
}

// Like records userID liking the post. Idempotent: liking twice leaves one
// like and an unchanged counter. The liker must be an existing user. Returns
// the post after the operation, or false if the post does not exist.
func (s *Posts) Like(ctx context.Context, postID, userID string) (domain.Post, bool, error) {
	var post domain.Post
	if err := ctx.Err(); err != nil {
		return post, false, err
	}
	var ok bool
	var err error
	s.repo.Update(func() {
		if post, ok = s.repo.Posts.Get(postID); !ok {
			return
		}
		if _, exists := s.repo.Users.Get(userID); !exists {
			err = domain.NewValidationError(domain.ErrCodeUnknownUser, "userId", "no such user %q", userID)
			return
		}
		if _, liked := s.idx.LikeBy(postID, userID); liked {
			return
		}
		s.repo.PostLikes.Insert(domain.PostLike{PostID: postID, UserID: userID})
		post, _ = s.repo.Posts.Mutate(postID, func(p *domain.Post) {
			p.LikesCount++
		})
	})
	if err != nil {
		return domain.Post{}, true, err
	}
	return post, ok, nil
}

// Unlike removes userID's like if present. Returns the post after the
// operation, or false if the post does not exist.
func (s *Posts) Unlike(ctx context.Context, postID, userID string) (domain.Post, bool, error) {
	var post domain.Post
	if err := ctx.Err(); err != nil {
		return post, false, err
	}
	var ok bool
	s.repo.Update(func() {
		if post, ok = s.repo.Posts.Get(postID); !ok {
			return
		}
		like, liked := s.idx.LikeBy(postID, userID)
		if !liked {
			return
		}
		s.repo.PostLikes.Remove(like.ID)
		post, _ = s.repo.Posts.Mutate(postID, func(p *domain.Post) {
			p.LikesCount--
		})
	})
	return post, ok, nil
}

// AddComment appends a comment and bumps the post's counter in the same
// critical section. The author must be an existing user. Returns false if the
// post does not exist.
func (s *Posts) AddComment(ctx context.Context, postID, authorID, body string) (domain.PostComment, bool, error) {
	var comment domain.PostComment
	if err := ctx.Err(); err != nil {
		return comment, false, err
	}
	if body == "" {
		return comment, false, domain.NewValidationError(domain.ErrCodeMissingField, "body", "required")
	}
	var ok bool
	var err error
	s.repo.Update(func() {
		if _, ok = s.repo.Posts.Get(postID); !ok {
			return
		}
		if _, exists := s.repo.Users.Get(authorID); !exists {
			err = domain.NewValidationError(domain.ErrCodeUnknownUser, "authorId", "no such user %q", authorID)
			return
		}
		comment = s.repo.PostComments.Insert(domain.PostComment{
			PostID:   postID,
			AuthorID: authorID,
			Body:     body,
		})
		s.repo.Posts.Mutate(postID, func(p *domain.Post) {
			p.CommentsCount++
		})
	})
	if err != nil {
		return domain.PostComment{}, true, err
	}
	return comment, ok, nil
}

// Comments returns the post's comments in insertion order.
func (s *Posts) Comments(ctx context.Context, postID string) ([]domain.PostComment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var comments []domain.PostComment
	s.repo.View(func() {
		comments = s.idx.CommentsOf(postID)
	})
	return comments, nil
}

// Likes returns the post's likes in insertion order.
func (s *Posts) Likes(ctx context.Context, postID string) ([]domain.PostLike, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var likes []domain.PostLike
	s.repo.View(func() {
		likes = s.idx.LikesOf(postID)
	})
	return likes, nil
}

// Flag files a moderation report against a post. Returns false if the post
// does not exist.
func (s *Posts) Flag(ctx context.Context, postID, reporterID, reason string) (domain.PostFlag, bool, error) {
	var flag domain.PostFlag
	if err := ctx.Err(); err != nil {
		return flag, false, err
	}
	var ok bool
	s.repo.Update(func() {
		if _, ok = s.repo.Posts.Get(postID); !ok {
			return
		}
		flag = s.repo.PostFlags.Insert(domain.PostFlag{
			FlagState:  domain.FlagState{Status: domain.FlagPending},
			PostID:     postID,
			ReporterID: reporterID,
			Reason:     reason,
		})
	})
	if ok {
		s.log.Info().Str("postId", postID).Str("flagId", flag.ID).Msg("post flagged")
	}
	return flag, ok, nil
}
