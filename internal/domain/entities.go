package domain

import (
	"maps"
	"slices"
	"time"
)

// User is an account on the platform. Users are created at registration and
// never hard-deleted; deactivation clears Active.
type User struct {
	Meta
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Active bool   `json:"active"`
}

// Profile is the public face of a user, 1:1 with User. UserID must reference
// an existing user; the store enforces this at create.
type Profile struct {
	Meta
	UserID     string   `json:"userId"`
	DisplayName string  `json:"displayName"`
	Headline   string   `json:"headline"`
	Bio        string   `json:"bio"`
	Location   string   `json:"location"`
	Crafts     []string `json:"crafts"`
	Materials  []string `json:"materials"`
	Techniques []string `json:"techniques"`
	Verified   bool     `json:"verified"`
	Visible    bool     `json:"visible"`
}

// CloneShared detaches the craft/material/technique slices.
func (p *Profile) CloneShared() {
	p.Crafts = slices.Clone(p.Crafts)
	p.Materials = slices.Clone(p.Materials)
	p.Techniques = slices.Clone(p.Techniques)
}

// Post is a community feed entry. LikesCount and CommentsCount are
// denormalized and always equal the cardinality of the like/comment
// collections for the post. Soft-deleted via Meta.DeletedAt.
type Post struct {
	Meta
	AuthorID      string   `json:"authorId"`
	Content       string   `json:"content"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	Tags          []string `json:"tags"`
	LikesCount    int      `json:"likesCount"`
	CommentsCount int      `json:"commentsCount"`
}

// CloneShared detaches the tag slice.
func (p *Post) CloneShared() { p.Tags = slices.Clone(p.Tags) }

// PostLike records one user liking one post. At most one per (post, user).
type PostLike struct {
	Meta
	PostID string `json:"postId"`
	UserID string `json:"userId"`
}

// PostComment is a comment on a post.
type PostComment struct {
	Meta
	PostID   string `json:"postId"`
	AuthorID string `json:"authorId"`
	Body     string `json:"body"`
}

// FlagState is the moderation workflow state embedded in PostFlag and
// ProfileFlag. ResolvedBy/ResolvedAt are stamped exactly once, on the first
// transition out of PENDING.
type FlagState struct {
	Status     FlagStatus `json:"status"`
	ResolvedBy string     `json:"resolvedBy,omitempty"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

// PostFlag is a moderation report against a post.
type PostFlag struct {
	Meta
	FlagState
	PostID     string `json:"postId"`
	ReporterID string `json:"reporterId"`
	Reason     string `json:"reason"`
}

// ProfileFlag is a moderation report against a profile.
type ProfileFlag struct {
	Meta
	FlagState
	ProfileID  string `json:"profileId"`
	ReporterID string `json:"reporterId"`
	Reason     string `json:"reason"`
}

// Connection links two users. The pair is unordered: at most one record
// exists per pair, regardless of who requested.
type Connection struct {
	Meta
	RequesterID string           `json:"requesterId"`
	TargetID    string           `json:"targetId"`
	Status      ConnectionStatus `json:"status"`
}

// Pairs reports whether the connection is between users a and b in either
// direction.
func (c *Connection) Pairs(a, b string) bool {
	return (c.RequesterID == a && c.TargetID == b) ||
		(c.RequesterID == b && c.TargetID == a)
}

// MessageThread is a conversation between two participants. LastMessageID
// always points at the most recently appended message, updated in the same
// critical section as the append.
type MessageThread struct {
	Meta
	ParticipantIDs []string `json:"participantIds"`
	LastMessageID  string   `json:"lastMessageId,omitempty"`
}

// CloneShared detaches the participant slice.
func (t *MessageThread) CloneShared() { t.ParticipantIDs = slices.Clone(t.ParticipantIDs) }

// Between reports whether the thread's participants are exactly a and b.
func (t *MessageThread) Between(a, b string) bool {
	if len(t.ParticipantIDs) != 2 {
		return false
	}
	p0, p1 := t.ParticipantIDs[0], t.ParticipantIDs[1]
	return (p0 == a && p1 == b) || (p0 == b && p1 == a)
}

// Message belongs to exactly one thread. Read back ascending by CreatedAt
// with Seq as tiebreaker.
type Message struct {
	Meta
	ThreadID string `json:"threadId"`
	SenderID string `json:"senderId"`
	Body     string `json:"body"`
}

// ReviewState is the approval workflow state embedded in ResourceSubmission
// and ListingSubmission. ReviewedBy/ReviewedAt are stamped exactly once.
type ReviewState struct {
	Status     SubmissionStatus `json:"status"`
	ReviewedBy string           `json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time       `json:"reviewedAt,omitempty"`
}

// Resource is shared learning material. Created unapproved and non-public;
// the only path that flips IsApproved/IsPublic is approving its submission.
type Resource struct {
	Meta
	AuthorID    string   `json:"authorId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
	IsApproved  bool     `json:"isApproved"`
	IsPublic    bool     `json:"isPublic"`
}

// CloneShared detaches the tag slice.
func (r *Resource) CloneShared() { r.Tags = slices.Clone(r.Tags) }

// ResourceSubmission is the append-only approval record for one resource.
type ResourceSubmission struct {
	Meta
	ReviewState
	ResourceID  string `json:"resourceId"`
	SubmittedBy string `json:"submittedBy"`
}

// ServiceListing is an offering by a service provider. Same approval
// contract as Resource.
type ServiceListing struct {
	Meta
	ProviderID  string   `json:"providerId"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	IsApproved  bool     `json:"isApproved"`
	IsPublic    bool     `json:"isPublic"`
}

// CloneShared detaches the tag slice.
func (l *ServiceListing) CloneShared() { l.Tags = slices.Clone(l.Tags) }

// ListingSubmission is the append-only approval record for one listing.
type ListingSubmission struct {
	Meta
	ReviewState
	ListingID   string `json:"listingId"`
	SubmittedBy string `json:"submittedBy"`
}

// Event is a time-bounded community happening. Listed soonest-first by
// default.
type Event struct {
	Meta
	OrganizerID string    `json:"organizerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
}

// Ticket is a support request. Status and Priority are independent axes.
type Ticket struct {
	Meta
	SubmittedBy string         `json:"submittedBy"`
	AssignedTo  string         `json:"assignedTo,omitempty"`
	Subject     string         `json:"subject"`
	Body        string         `json:"body"`
	Status      TicketStatus   `json:"status"`
	Priority    TicketPriority `json:"priority"`
}

// DropdownOption is category-scoped reference data consumed by forms.
type DropdownOption struct {
	Meta
	Category string `json:"category"`
	Key      string `json:"key"`
	Value    string `json:"value"`
	Label    string `json:"label"`
	Order    int    `json:"order"`
	Active   bool   `json:"active"`
}

// AnalyticsEvent is append-only and immutable once created.
type AnalyticsEvent struct {
	Meta
	UserID     string            `json:"userId,omitempty"`
	Kind       string            `json:"kind"`
	Properties map[string]string `json:"properties,omitempty"`
}

// CloneShared detaches the properties map.
func (e *AnalyticsEvent) CloneShared() { e.Properties = maps.Clone(e.Properties) }
