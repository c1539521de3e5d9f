// Package fourbyfour tracks power-endurance sets: four climbs per set, a
// rest window between sets, and one appended row per logged set.
package fourbyfour

import (
	"context"
	"fmt"
	"sync"
	"time"

	"maxhang/internal/core/countdown"
	"maxhang/internal/core/model"
	"maxhang/internal/core/session"
	"maxhang/internal/sink"
)

// SessionGoal is the number of sets that makes a full 4x4 session. Logging
// more sets is allowed; the goal only drives the celebration.
const SessionGoal = 4

// Config contains runtime options for the Tracker.
type Config struct {
	Rest         time.Duration
	TickInterval time.Duration
}

// Sinks binds the tracker to its append-only destinations. Either may be nil
// to disable that log.
type Sinks struct {
	Sets    sink.Sink
	Summary sink.Sink
}

// Tracker is the 4x4 state machine. Slot and counter state lives in the
// injected session; the tracker owns the transient rest countdown.
type Tracker struct {
	mu      sync.Mutex
	config  Config
	state   *session.Session
	sinks   Sinks
	cd      countdown.Countdown
	events  []chan Event
	stopCh  chan struct{}
	running bool
	now     func() time.Time
}

// New creates a Tracker bound to the given session state.
func New(sess *session.Session, config Config, sinks Sinks) *Tracker {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if config.Rest <= 0 {
		config.Rest = 180 * time.Second
	}

	return &Tracker{
		config: config,
		state:  sess,
		sinks:  sinks,
		stopCh: make(chan struct{}),
		now:    time.Now,
	}
}

// Subscribe registers a new observer channel.
func (tracker *Tracker) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	tracker.mu.Lock()
	tracker.events = append(tracker.events, ch)
	tracker.mu.Unlock()
	return ch
}

// Start launches the ticking loop.
func (tracker *Tracker) Start() {
	tracker.mu.Lock()
	if tracker.running {
		tracker.mu.Unlock()
		return
	}
	tracker.running = true
	tracker.mu.Unlock()

	go tracker.run()
}

// Stop terminates the ticking loop and closes observers.
func (tracker *Tracker) Stop() {
	tracker.mu.Lock()
	if !tracker.running {
		tracker.mu.Unlock()
		return
	}
	close(tracker.stopCh)
	tracker.running = false
	events := tracker.events
	tracker.events = nil
	tracker.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// UpdateConfig replaces the rest duration. An active rest keeps its original
// countdown.
func (tracker *Tracker) UpdateConfig(config model.FourByFourConfig) {
	tracker.mu.Lock()
	if config.Rest > 0 {
		tracker.config.Rest = config.Rest
	}
	tracker.mu.Unlock()
}

// SetGrade updates one climb slot's grade. Out-of-range slots and grades are
// ignored.
func (tracker *Tracker) SetGrade(slot int, grade model.Grade) {
	if slot < 0 || slot >= len(tracker.state.FourByFour.Slots) || !grade.Valid() {
		return
	}
	tracker.mu.Lock()
	tracker.state.FourByFour.Slots[slot].Grade = grade
	tracker.mu.Unlock()
}

// SetCompleted toggles one climb slot's completed flag.
func (tracker *Tracker) SetCompleted(slot int, completed bool) {
	if slot < 0 || slot >= len(tracker.state.FourByFour.Slots) {
		return
	}
	tracker.mu.Lock()
	tracker.state.FourByFour.Slots[slot].Completed = completed
	tracker.mu.Unlock()
}

// Slots returns a copy of the four climb slots.
func (tracker *Tracker) Slots() [4]session.ClimbSlot {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return tracker.state.FourByFour.Slots
}

// Status reports whether a rest is counting down and how many sets were
// logged this session.
func (tracker *Tracker) Status() (State, int) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	if tracker.cd.Active() {
		return StateResting, tracker.state.FourByFour.SetsLogged
	}
	return StateReady, tracker.state.FourByFour.SetsLogged
}

// LogSet appends the current set to the sinks, bumps the session counter,
// clears the completed flags and starts the rest window. It is permitted
// while a rest is already counting down; the new log restarts the window.
func (tracker *Tracker) LogSet() {
	now := tracker.now()

	tracker.mu.Lock()
	state := &tracker.state.FourByFour
	count := state.CompletedCount()
	slots := state.Slots

	sends := make([]model.Grade, 0, count)
	for _, slot := range slots {
		if slot.Completed {
			sends = append(sends, slot.Grade)
		}
	}

	if tracker.sinks.Sets != nil {
		row := sink.Row{
			now.Format(time.RFC3339),
			"4x4",
			slots[0].Grade.String(), resultLabel(slots[0].Completed),
			slots[1].Grade.String(), resultLabel(slots[1].Completed),
			slots[2].Grade.String(), resultLabel(slots[2].Completed),
			slots[3].Grade.String(), resultLabel(slots[3].Completed),
			fmt.Sprintf("%d/%d", count, len(slots)),
		}
		if err := tracker.sinks.Sets.Append(context.Background(), row); err != nil {
			tracker.emitLocked(Event{
				Type:    EventSinkError,
				State:   StateReady,
				Message: err.Error(),
				At:      now,
			})
		}
	}
	if tracker.sinks.Summary != nil {
		results := fmt.Sprintf("%d/%d sends", count, len(slots))
		row := sink.Row{now.Format("2006-01-02"), "4x4", results}
		if err := tracker.sinks.Summary.Append(context.Background(), row); err != nil {
			tracker.emitLocked(Event{
				Type:    EventSinkError,
				State:   StateReady,
				Message: err.Error(),
				At:      now,
			})
		}
	}

	state.SetsLogged++
	setsLogged := state.SetsLogged
	state.ClearCompleted()
	state.RestStarted = now
	tracker.cd = countdown.Start(now, tracker.config.Rest)

	tracker.emitLocked(Event{
		Type:           EventSetLogged,
		State:          StateResting,
		SetsLogged:     setsLogged,
		CompletedCount: count,
		Sends:          sends,
		At:             now,
	})
	if setsLogged == SessionGoal {
		tracker.emitLocked(Event{
			Type:       EventSessionGoal,
			State:      StateResting,
			SetsLogged: setsLogged,
			At:         now,
		})
	}
	tracker.emitLocked(Event{
		Type:       EventStateChange,
		State:      StateResting,
		SetsLogged: setsLogged,
		Remaining:  tracker.cd.Remaining(now),
		Seconds:    tracker.cd.RemainingSeconds(now),
		At:         now,
	})
	tracker.mu.Unlock()
}

// Reset clears the set counter, the slots and any active rest.
func (tracker *Tracker) Reset() {
	now := tracker.now()
	tracker.mu.Lock()
	tracker.state.FourByFour.SetsLogged = 0
	tracker.state.FourByFour.ClearCompleted()
	tracker.state.FourByFour.RestStarted = time.Time{}
	tracker.cd = countdown.Countdown{}
	tracker.emitLocked(Event{
		Type:  EventStateChange,
		State: StateReady,
		At:    now,
	})
	tracker.mu.Unlock()
}

func (tracker *Tracker) run() {
	ticker := time.NewTicker(tracker.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-tracker.stopCh:
			return
		case tickTime := <-ticker.C:
			tracker.tick(tickTime)
		}
	}
}

func (tracker *Tracker) tick(now time.Time) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	if !tracker.cd.Active() {
		return
	}

	if tracker.cd.Elapsed(now) {
		tracker.emitRestProgressLocked(now)
		tracker.state.FourByFour.RestStarted = time.Time{}
		tracker.cd = countdown.Countdown{}
		tracker.emitLocked(Event{
			Type:       EventRestOver,
			State:      StateReady,
			SetsLogged: tracker.state.FourByFour.SetsLogged,
			Message:    "GET READY FOR NEXT SET!",
			At:         now,
		})
		return
	}
	tracker.emitRestProgressLocked(now)
}

func (tracker *Tracker) emitRestProgressLocked(now time.Time) {
	tracker.emitLocked(Event{
		Type:       EventProgress,
		State:      StateResting,
		SetsLogged: tracker.state.FourByFour.SetsLogged,
		Remaining:  tracker.cd.Remaining(now),
		Seconds:    tracker.cd.RemainingSeconds(now),
		Percent:    tracker.cd.Percent(now),
		At:         now,
	})
}

func (tracker *Tracker) emitLocked(event Event) {
	events := append([]chan Event(nil), tracker.events...)
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}

func resultLabel(completed bool) string {
	if completed {
		return "Sent"
	}
	return "Fail"
}
