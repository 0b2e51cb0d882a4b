// Package relindex derives relationship lookups from the flat collections in
// the store: connection and thread membership, reverse lookups such as
// "flags for post X", and the message ordering contract.
//
// Nothing here is materialized. Every lookup walks the relevant collection
// on demand, which keeps a single source of truth and makes the index
// trivially consistent with the store. All methods must be called under the
// repository's lock; services call them from inside View/Update sections.
package relindex

import (
	"sort"

	"github.com/atelier-labs/atelier/internal/domain"
	"github.com/atelier-labs/atelier/internal/store"
)

// Index answers relationship queries over a repository.
type Index struct {
	repo *store.Repository
}

// New creates an index over repo.
func New(repo *store.Repository) *Index {
	return &Index{repo: repo}
}

// ProfileOf returns the profile owned by the given user.
func (x *Index) ProfileOf(userID string) (domain.Profile, bool) {
	return x.repo.Profiles.Find(func(p *domain.Profile) bool {
		return p.UserID == userID
	})
}

// ConnectionForPair returns the unique connection between a and b in either
// direction, any status.
func (x *Index) ConnectionForPair(a, b string) (domain.Connection, bool) {
	return x.repo.Connections.Find(func(c *domain.Connection) bool {
		return c.Pairs(a, b)
	})
}

// ConnectionsOf returns every connection the user participates in, in
// insertion order.
func (x *Index) ConnectionsOf(userID string) []domain.Connection {
	return x.repo.Connections.Where(func(c *domain.Connection) bool {
		return c.RequesterID == userID || c.TargetID == userID
	})
}

// ThreadForPair returns the unique 2-participant thread between a and b.
func (x *Index) ThreadForPair(a, b string) (domain.MessageThread, bool) {
	return x.repo.Threads.Find(func(t *domain.MessageThread) bool {
		return t.Between(a, b)
	})
}

// ThreadsOf returns every thread the user participates in.
func (x *Index) ThreadsOf(userID string) []domain.MessageThread {
	return x.repo.Threads.Where(func(t *domain.MessageThread) bool {
		for _, p := range t.ParticipantIDs {
			if p == userID {
				return true
			}
		}
		return false
	})
}

// MessagesOf returns the thread's messages ascending by CreatedAt, ties
// broken by logical sequence number.
func (x *Index) MessagesOf(threadID string) []domain.Message {
	msgs := x.repo.Messages.Where(func(m *domain.Message) bool {
		return m.ThreadID == threadID
	})
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].Seq < msgs[j].Seq
		}
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs
}

// LikesOf returns the likes on a post.
func (x *Index) LikesOf(postID string) []domain.PostLike {
	return x.repo.PostLikes.Where(func(l *domain.PostLike) bool {
		return l.PostID == postID
	})
}

// LikeBy returns the like a user placed on a post, if any.
func (x *Index) LikeBy(postID, userID string) (domain.PostLike, bool) {
	return x.repo.PostLikes.Find(func(l *domain.PostLike) bool {
		return l.PostID == postID && l.UserID == userID
	})
}

// CommentsOf returns the comments on a post in insertion order.
func (x *Index) CommentsOf(postID string) []domain.PostComment {
	return x.repo.PostComments.Where(func(c *domain.PostComment) bool {
		return c.PostID == postID
	})
}

// FlagsOfPost returns the moderation flags filed against a post.
func (x *Index) FlagsOfPost(postID string) []domain.PostFlag {
	return x.repo.PostFlags.Where(func(f *domain.PostFlag) bool {
		return f.PostID == postID
	})
}

// FlagsOfProfile returns the moderation flags filed against a profile.
func (x *Index) FlagsOfProfile(profileID string) []domain.ProfileFlag {
	return x.repo.ProfileFlags.Where(func(f *domain.ProfileFlag) bool {
		return f.ProfileID == profileID
	})
}

// SubmissionOfResource returns the approval submission for a resource.
func (x *Index) SubmissionOfResource(resourceID string) (domain.ResourceSubmission, bool) {
	return x.repo.ResourceSubs.Find(func(s *domain.ResourceSubmission) bool {
		return s.ResourceID == resourceID
	})
}

// SubmissionOfListing returns the approval submission for a listing.
func (x *Index) SubmissionOfListing(listingID string) (domain.ListingSubmission, bool) {
	return x.repo.ListingSubs.Find(func(s *domain.ListingSubmission) bool {
		return s.ListingID == listingID
	})
}
