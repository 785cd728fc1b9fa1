package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	// The full legal edge set. Everything else must be refused.
	legal := map[CompletionStatus][]CompletionStatus{
		CompletionStatusPending:          {CompletionStatusSubmitted, CompletionStatusCancelled},
		CompletionStatusSubmitted:        {CompletionStatusUnderReview, CompletionStatusApproved, CompletionStatusRejected, CompletionStatusRevisionRequired, CompletionStatusCancelled},
		CompletionStatusUnderReview:      {CompletionStatusApproved, CompletionStatusRejected, CompletionStatusRevisionRequired, CompletionStatusCancelled},
		CompletionStatusApproved:         {CompletionStatusVerified, CompletionStatusCancelled},
		CompletionStatusRejected:         {CompletionStatusPending, CompletionStatusCancelled},
		CompletionStatusRevisionRequired: {CompletionStatusSubmitted, CompletionStatusCancelled},
		CompletionStatusVerified:         {},
		CompletionStatusCancelled:        {},
	}

	for _, from := range AllCompletionStatuses() {
		allowed := map[CompletionStatus]bool{}
		for _, to := range legal[from] {
			allowed[to] = true
		}
		for _, to := range AllCompletionStatuses() {
			got := CanTransition(from, to)
			assert.Equal(t, allowed[to], got,
				"transition %s -> %s: expected %v", from, to, allowed[to])
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, status := range AllCompletionStatuses() {
		if !status.IsTerminal() {
			continue
		}
		for _, to := range AllCompletionStatuses() {
			assert.False(t, CanTransition(status, to),
				"terminal state %s must not transition to %s", status, to)
		}
	}
}

func TestUnknownStatusIsRefused(t *testing.T) {
	assert.False(t, CanTransition(CompletionStatus("bogus"), CompletionStatusSubmitted))
	assert.False(t, CanTransition(CompletionStatusPending, CompletionStatus("bogus")))
}

func TestTransitionErrorMessage(t *testing.T) {
	err := NewTransitionError(CompletionStatusVerified, CompletionStatusSubmitted)
	assert.EqualError(t, err, `invalid completion transition from "verified" to "submitted"`)

	withReason := &TransitionError{
		Attempted: CompletionStatusVerified,
		Current:   CompletionStatusApproved,
		Reason:    "quality score is required",
	}
	assert.EqualError(t, withReason, `invalid completion transition from "approved" to "verified": quality score is required`)
}
