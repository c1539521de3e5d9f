package hangtimer

import "time"

// State represents the current max-hang timer phase.
type State string

const (
	StateIdle     State = "idle"
	StatePrep     State = "prep"
	StateHanging  State = "hanging"
	StateResting  State = "resting"
	StateComplete State = "complete"
)

// EventType defines the type of timer event.
type EventType string

const (
	EventStateChange     EventType = "state_change"
	EventProgress        EventType = "progress"
	EventRepLogged       EventType = "rep_logged"
	EventSessionComplete EventType = "session_complete"
	EventSinkError       EventType = "sink_error"
)

// Event represents a timer update for observers.
type Event struct {
	Type          EventType
	State         State
	Rep           int
	RepsCompleted int
	RepsPlanned   int
	Remaining     time.Duration
	Seconds       int
	Percent       int
	Message       string
	At            time.Time
}
