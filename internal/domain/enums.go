package domain

// Role identifies what a user is on the platform.
type Role string

const (
	RoleMaker            Role = "MAKER"
	RoleDesignConsultant Role = "DESIGN_CONSULTANT"
	RoleBuyer            Role = "BUYER"
	RoleExplorer         Role = "EXPLORER"
	RoleServiceProvider  Role = "SERVICE_PROVIDER"
	RoleMakerBuyer       Role = "MAKER_BUYER"
)

// Valid reports whether r is one of the closed set of roles.
func (r Role) Valid() bool {
	switch r {
	case RoleMaker, RoleDesignConsultant, RoleBuyer, RoleExplorer,
		RoleServiceProvider, RoleMakerBuyer:
		return true
	}
	return false
}

// ConnectionStatus is the state of a connection request between two users.
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "PENDING"
	ConnectionAccepted ConnectionStatus = "ACCEPTED"
	ConnectionRejected ConnectionStatus = "REJECTED"
	ConnectionBlocked  ConnectionStatus = "BLOCKED"
)

// Valid reports whether s is a known connection status.
func (s ConnectionStatus) Valid() bool {
	switch s {
	case ConnectionPending, ConnectionAccepted, ConnectionRejected, ConnectionBlocked:
		return true
	}
	return false
}

// FlagStatus is the state of a moderation flag on a post or profile.
type FlagStatus string

const (
	FlagPending   FlagStatus = "PENDING"
	FlagResolved  FlagStatus = "RESOLVED"
	FlagDismissed FlagStatus = "DISMISSED"
)

// Valid reports whether s is a known flag status.
func (s FlagStatus) Valid() bool {
	switch s {
	case FlagPending, FlagResolved, FlagDismissed:
		return true
	}
	return false
}

// Terminal reports whether a flag in this status accepts no further
// transitions.
func (s FlagStatus) Terminal() bool {
	return s == FlagResolved || s == FlagDismissed
}

// SubmissionStatus is the state of a resource or listing approval submission.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "PENDING"
	SubmissionApproved SubmissionStatus = "APPROVED"
	SubmissionRejected SubmissionStatus = "REJECTED"
)

// Valid reports whether s is a known submission status.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionPending, SubmissionApproved, SubmissionRejected:
		return true
	}
	return false
}

// Terminal reports whether a submission in this status accepts no further
// transitions.
func (s SubmissionStatus) Terminal() bool {
	return s == SubmissionApproved || s == SubmissionRejected
}

// TicketStatus is the state of a support ticket. The lifecycle is forward
// only: OPEN → IN_PROGRESS → RESOLVED → CLOSED.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "OPEN"
	TicketInProgress TicketStatus = "IN_PROGRESS"
	TicketResolved   TicketStatus = "RESOLVED"
	TicketClosed     TicketStatus = "CLOSED"
)

// Valid reports whether s is a known ticket status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	}
	return false
}

// rank positions a ticket status on the forward-only lifecycle. Higher rank
// means further along.
func (s TicketStatus) rank() int {
	switch s {
	case TicketOpen:
		return 0
	case TicketInProgress:
		return 1
	case TicketResolved:
		return 2
	case TicketClosed:
		return 3
	}
	return -1
}

// Before reports whether s precedes other in the ticket lifecycle.
func (s TicketStatus) Before(other TicketStatus) bool {
	return s.rank() < other.rank()
}

// Next returns the sole legal successor status, or "" if s is CLOSED.
func (s TicketStatus) Next() TicketStatus {
	switch s {
	case TicketOpen:
		return TicketInProgress
	case TicketInProgress:
		return TicketResolved
	case TicketResolved:
		return TicketClosed
	}
	return ""
}

// TicketPriority is the urgency axis of a ticket, independent of status and
// freely mutable.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "LOW"
	PriorityMedium TicketPriority = "MEDIUM"
	PriorityHigh   TicketPriority = "HIGH"
)

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
