package payroll

const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

// ValidTransition reports whether a run may move between the two states.
// Approved and rejected are terminal.
func ValidTransition(from, to string) bool {
	switch from {
	case StatusDraft:
		return to == StatusSubmitted
	case StatusSubmitted:
		return to == StatusApproved || to == StatusRejected
	default:
		return false
	}
}
