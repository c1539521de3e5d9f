// Package session holds the per-session workout state shared by the two
// timer state machines. The state lives in an explicit struct handed to the
// machines rather than process globals, so a session can be discarded or a
// second one opened without restarting the process.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"maxhang/internal/core/model"
)

// ClimbSlot is one of the four climbs in a 4x4 set.
type ClimbSlot struct {
	Grade     model.Grade
	Completed bool
}

// HangState tracks max-hang progress within a session.
type HangState struct {
	RepsCompleted int
	Plan          model.Plan
	Resting       bool
	RestStarted   time.Time
}

// StartRest marks the rest phase as active from now.
func (state *HangState) StartRest(now time.Time) {
	state.Resting = true
	state.RestStarted = now
}

// StopRest clears the rest phase marker.
func (state *HangState) StopRest() {
	state.Resting = false
	state.RestStarted = time.Time{}
}

// Complete reports whether every planned rep has been finished.
func (state *HangState) Complete() bool {
	return state.RepsCompleted >= state.Plan.Reps
}

// FourByFourState tracks 4x4 progress within a session.
type FourByFourState struct {
	SetsLogged  int
	RestStarted time.Time
	Slots       [4]ClimbSlot
}

// ClearCompleted resets every slot's completed flag, keeping grades.
func (state *FourByFourState) ClearCompleted() {
	for i := range state.Slots {
		state.Slots[i].Completed = false
	}
}

// CompletedCount returns how many of the four slots were sent.
func (state *FourByFourState) CompletedCount() int {
	count := 0
	for _, slot := range state.Slots {
		if slot.Completed {
			count++
		}
	}
	return count
}

// Session is the unit of state for one workout session.
type Session struct {
	ID        string
	StartedAt time.Time

	Hang       HangState
	FourByFour FourByFourState
}

// Store keeps sessions in memory, keyed by id. Sessions do not survive a
// process restart.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Open creates a fresh session with default state and registers it.
func (store *Store) Open() *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Hang: HangState{
			Plan: model.Plan{Reps: 5},
		},
	}

	store.mu.Lock()
	store.sessions[sess.ID] = sess
	store.mu.Unlock()
	return sess
}

// Get returns a registered session by id.
func (store *Store) Get(id string) (*Session, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()
	sess, ok := store.sessions[id]
	return sess, ok
}

// End discards a session.
func (store *Store) End(id string) {
	store.mu.Lock()
	delete(store.sessions, id)
	store.mu.Unlock()
}
