package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maxhang/internal/core/model"
)

func TestStoreOpenGetEnd(t *testing.T) {
	store := NewStore()

	sess := store.Open()
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, 5, sess.Hang.Plan.Reps)
	assert.Equal(t, model.Grade(0), sess.FourByFour.Slots[0].Grade)

	found, ok := store.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, found)

	other := store.Open()
	assert.NotEqual(t, sess.ID, other.ID)

	store.End(sess.ID)
	_, ok = store.Get(sess.ID)
	assert.False(t, ok)
}

func TestHangRestMarkerInvariant(t *testing.T) {
	var state HangState
	now := time.Now()

	state.StartRest(now)
	assert.True(t, state.Resting)
	assert.Equal(t, now, state.RestStarted)

	state.StopRest()
	assert.False(t, state.Resting)
	assert.True(t, state.RestStarted.IsZero())
}

func TestFourByFourSlots(t *testing.T) {
	var state FourByFourState
	state.Slots[0] = ClimbSlot{Grade: 3, Completed: true}
	state.Slots[1] = ClimbSlot{Grade: 4, Completed: false}
	state.Slots[2] = ClimbSlot{Grade: 5, Completed: true}
	state.Slots[3] = ClimbSlot{Grade: 2, Completed: true}

	assert.Equal(t, 3, state.CompletedCount())

	state.ClearCompleted()
	assert.Equal(t, 0, state.CompletedCount())
	assert.Equal(t, model.Grade(3), state.Slots[0].Grade, "grades survive a clear")
}
