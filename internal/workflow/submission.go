package workflow

import (
	"time"

	"github.com/atelier-labs/atelier/internal/domain"
)

// ReviewSubmission moves an approval submission out of PENDING to APPROVED
// or REJECTED and stamps ReviewedBy/ReviewedAt exactly once. Both target
// states are terminal.
//
// Works on the ReviewState embedded in both ResourceSubmission and
// ListingSubmission. The caller is responsible for flipping the linked base
// entity's IsApproved/IsPublic inside the same critical section when the
// outcome is APPROVED; see services.Resources.ApproveSubmission.
func ReviewSubmission(s *domain.ReviewState, to domain.SubmissionStatus, reviewedBy string, at time.Time) error {
	from := s.Status
	if !from.Valid() || !to.Valid() {
		return unknownErr("submission", string(from), string(to))
	}
	if from.Terminal() {
		return terminalErr("submission", string(from), string(to))
	}
	if !to.Terminal() {
		return illegalErr("submission", string(from), string(to))
	}
	s.Status = to
	s.ReviewedBy = reviewedBy
	stamp := at
	s.ReviewedAt = &stamp
	return nil
}
