package workflow

import "github.com/atelier-labs/atelier/internal/domain"

// connectionEdges defines the legal connection transitions. ACCEPTED and
// REJECTED are terminal; removing an accepted connection deletes the record
// rather than transitioning it.
var connectionEdges = map[domain.ConnectionStatus][]domain.ConnectionStatus{
	domain.ConnectionPending: {domain.ConnectionAccepted, domain.ConnectionRejected},
}

// TransitionConnection moves c to the given status, or returns a
// TransitionError if the edge is not defined.
func TransitionConnection(c *domain.Connection, to domain.ConnectionStatus) error {
	from := c.Status
	if !from.Valid() || !to.Valid() {
		return unknownErr("connection", string(from), string(to))
	}
	edges, ok := connectionEdges[from]
	if !ok {
		return terminalErr("connection", string(from), string(to))
	}
	for _, next := range edges {
		if next == to {
			c.Status = to
			return nil
		}
	}
	return illegalErr("connection", string(from), string(to))
}
