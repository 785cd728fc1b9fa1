package completion

import "fmt"

// transitions is the legal transition table for the completion
// lifecycle. Verified and cancelled are terminal. Every status except the
// terminal two may be cancelled.
var transitions = map[CompletionStatus][]CompletionStatus{
	CompletionStatusPending: {
		CompletionStatusSubmitted,
		CompletionStatusCancelled,
	},
	CompletionStatusSubmitted: {
		CompletionStatusUnderReview,
		CompletionStatusApproved,
		CompletionStatusRejected,
		CompletionStatusRevisionRequired,
		CompletionStatusCancelled,
	},
	CompletionStatusUnderReview: {
		CompletionStatusApproved,
		CompletionStatusRejected,
		CompletionStatusRevisionRequired,
		CompletionStatusCancelled,
	},
	CompletionStatusApproved: {
		CompletionStatusVerified,
		CompletionStatusCancelled,
	},
	CompletionStatusRejected: {
		CompletionStatusPending,
		CompletionStatusCancelled,
	},
	CompletionStatusRevisionRequired: {
		CompletionStatusSubmitted,
		CompletionStatusCancelled,
	},
	CompletionStatusVerified:  {},
	CompletionStatusCancelled: {},
}

// CanTransition reports whether moving from current to next is legal
func CanTransition(current, next CompletionStatus) bool {
	allowed, exists := transitions[current]
	if !exists {
		return false
	}
	for _, status := range allowed {
		if status == next {
			return true
		}
	}
	return false
}

// TransitionError reports an illegal completion transition. It carries
// the attempted target and the current state so callers can report
// precisely; an illegal transition never silently no-ops.
type TransitionError struct {
	Attempted CompletionStatus
	Current   CompletionStatus
	Reason    string
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid completion transition from %q to %q: %s", e.Current, e.Attempted, e.Reason)
	}
	return fmt.Sprintf("invalid completion transition from %q to %q", e.Current, e.Attempted)
}

// NewTransitionError builds a TransitionError for the attempted move
func NewTransitionError(current, attempted CompletionStatus) *TransitionError {
	return &TransitionError{Attempted: attempted, Current: current}
}
