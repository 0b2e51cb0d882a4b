package workflow

import (
	"time"

	"github.com/atelier-labs/atelier/internal/domain"
)

// ResolveFlag moves a moderation flag out of PENDING to RESOLVED or
// DISMISSED and stamps ResolvedBy/ResolvedAt exactly once. Both target
// states are terminal: any further transition attempt fails, so a flag can
// never return to PENDING and its resolution stamps never change.
//
// Works on the FlagState embedded in both PostFlag and ProfileFlag.
func ResolveFlag(f *domain.FlagState, to domain.FlagStatus, resolvedBy string, at time.Time) error {
	from := f.Status
	if !from.Valid() || !to.Valid() {
		return unknownErr("flag", string(from), string(to))
	}
	if from.Terminal() {
		return terminalErr("flag", string(from), string(to))
	}
	if !to.Terminal() {
		// The only non-terminal status is PENDING; re-entering it is
		// not a defined edge.
		return illegalErr("flag", string(from), string(to))
	}
	f.Status = to
	f.ResolvedBy = resolvedBy
	stamp := at
	f.ResolvedAt = &stamp
	return nil
}
