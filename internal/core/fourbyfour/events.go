package fourbyfour

import (
	"time"

	"maxhang/internal/core/model"
)

// State represents the tracker mode: taking input or resting between sets.
type State string

const (
	StateReady   State = "ready"
	StateResting State = "resting"
)

// EventType defines the type of tracker event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventSetLogged   EventType = "set_logged"
	EventSessionGoal EventType = "session_goal"
	EventRestOver    EventType = "rest_over"
	EventSinkError   EventType = "sink_error"
)

// Event represents a tracker update for observers.
type Event struct {
	Type           EventType
	State          State
	SetsLogged     int
	CompletedCount int
	Sends          []model.Grade
	Remaining      time.Duration
	Seconds        int
	Percent        int
	Message        string
	At             time.Time
}
