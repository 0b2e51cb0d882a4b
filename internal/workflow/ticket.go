package workflow

import "github.com/atelier-labs/atelier/internal/domain"

// AdvanceTicket moves a ticket to the given status. The lifecycle is
// strictly forward and one step at a time:
//
//	OPEN → IN_PROGRESS → RESOLVED → CLOSED
//
// Skips and regressions fail with a TransitionError; reopening is not
// modeled. Priority is a separate axis and is not touched here.
func AdvanceTicket(t *domain.Ticket, to domain.TicketStatus) error {
	from := t.Status
	if !from.Valid() || !to.Valid() {
		return unknownErr("ticket", string(from), string(to))
	}
	if from == domain.TicketClosed {
		return terminalErr("ticket", string(from), string(to))
	}
	if from.Next() != to {
		return illegalErr("ticket", string(from), string(to))
	}
	t.Status = to
	return nil
}
