package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusProcessing))
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusProcessing, StatusCompleted))
	assert.True(t, CanTransition(StatusProcessing, StatusFailed))

	// No shortcuts, no exits from terminal states.
	assert.False(t, CanTransition(StatusPending, StatusCompleted))
	assert.False(t, CanTransition(StatusPending, StatusFailed))
	assert.False(t, CanTransition(StatusProcessing, StatusCancelled))
	for _, from := range []Status{StatusCompleted, StatusFailed, StatusCancelled} {
		assert.True(t, Terminal(from))
		for _, to := range []Status{StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled} {
			assert.False(t, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestFilterParty(t *testing.T) {
	tx := Transaction{SenderID: "s1", ReceiverID: "r1", JobID: "j1", Status: StatusPending}

	assert.True(t, Filter{Party: "s1"}.Match(tx))
	assert.True(t, Filter{Party: "r1"}.Match(tx))
	assert.False(t, Filter{Party: "other"}.Match(tx))
	assert.True(t, Filter{SenderID: "s1", Status: StatusPending}.Match(tx))
	assert.False(t, Filter{ReceiverID: "s1"}.Match(tx))
}
