// Package hangtimer drives one lifter through a max-hang session: for each
// rep a 5 second prep, a 7 second hang, then a fixed rest, with every
// completed rep and the finished session appended to result sinks.
package hangtimer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"maxhang/internal/core/countdown"
	"maxhang/internal/core/model"
	"maxhang/internal/core/session"
	"maxhang/internal/sink"
)

// ErrResting rejects a rep start while the rest countdown is active.
var ErrResting = errors.New("hangtimer: rest in progress")

// ErrRepInProgress rejects a rep start while prep or hang is underway.
var ErrRepInProgress = errors.New("hangtimer: rep already underway")

// ErrSessionComplete rejects a rep start once every planned hang is done.
var ErrSessionComplete = errors.New("hangtimer: all planned hangs are done")

// Config contains runtime options for the Timer.
type Config struct {
	Phases       model.HangConfig
	TickInterval time.Duration
}

// Sinks binds the timer to its append-only destinations. Any of them may be
// nil to disable that log.
type Sinks struct {
	Reps     sink.Sink
	Sessions sink.Sink
	Summary  sink.Sink
}

// Timer is the max-hang state machine. Session counters live in the injected
// session state; the timer owns only the transient phase and countdown.
type Timer struct {
	mu      sync.Mutex
	config  Config
	state   *session.Session
	sinks   Sinks
	phase   State
	cd      countdown.Countdown
	events  []chan Event
	stopCh  chan struct{}
	running bool
	now     func() time.Time
}

// New creates a Timer bound to the given session state.
func New(sess *session.Session, config Config, sinks Sinks) *Timer {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if config.Phases.Prep <= 0 {
		config.Phases.Prep = 5 * time.Second
	}
	if config.Phases.Hang <= 0 {
		config.Phases.Hang = 7 * time.Second
	}
	if config.Phases.Rest <= 0 {
		config.Phases.Rest = 120 * time.Second
	}

	return &Timer{
		config: config,
		state:  sess,
		sinks:  sinks,
		phase:  StateIdle,
		stopCh: make(chan struct{}),
		now:    time.Now,
	}
}

// Subscribe registers a new observer channel.
func (timer *Timer) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	timer.mu.Lock()
	timer.events = append(timer.events, ch)
	timer.mu.Unlock()
	return ch
}

// Start launches the ticking loop.
func (timer *Timer) Start() {
	timer.mu.Lock()
	if timer.running {
		timer.mu.Unlock()
		return
	}
	timer.running = true
	timer.mu.Unlock()

	go timer.run()
}

// Stop terminates the ticking loop and closes observers.
func (timer *Timer) Stop() {
	timer.mu.Lock()
	if !timer.running {
		timer.mu.Unlock()
		return
	}
	close(timer.stopCh)
	timer.running = false
	events := timer.events
	timer.events = nil
	timer.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

// UpdateConfig replaces the phase durations. An in-flight phase keeps its
// original countdown.
func (timer *Timer) UpdateConfig(phases model.HangConfig) {
	timer.mu.Lock()
	if phases.Prep > 0 {
		timer.config.Phases.Prep = phases.Prep
	}
	if phases.Hang > 0 {
		timer.config.Phases.Hang = phases.Hang
	}
	if phases.Rest > 0 {
		timer.config.Phases.Rest = phases.Rest
	}
	timer.mu.Unlock()
}

// SetPlan updates the planned rep count and added weight. The completed
// counter never exceeds the plan, so shrinking the plan mid-session caps it.
// Resizing can also finish or reopen the session: raising the plan above the
// completed count resumes a completed session, shrinking it to the completed
// count ends an idle one. Either flip emits a state change.
func (timer *Timer) SetPlan(plan model.Plan) {
	now := timer.now()
	plan = plan.Clamp()
	timer.mu.Lock()
	timer.state.Hang.Plan = plan
	if timer.state.Hang.RepsCompleted > plan.Reps {
		timer.state.Hang.RepsCompleted = plan.Reps
	}

	switch {
	case timer.phase == StateComplete && !timer.state.Hang.Complete():
		timer.phase = StateIdle
		timer.emitLocked(Event{
			Type:          EventStateChange,
			State:         StateIdle,
			RepsCompleted: timer.state.Hang.RepsCompleted,
			RepsPlanned:   plan.Reps,
			At:            now,
		})
	case timer.phase == StateIdle && timer.state.Hang.Complete():
		timer.phase = StateComplete
		timer.emitLocked(Event{
			Type:          EventStateChange,
			State:         StateComplete,
			RepsCompleted: timer.state.Hang.RepsCompleted,
			RepsPlanned:   plan.Reps,
			At:            now,
		})
	}
	timer.mu.Unlock()
}

// Plan returns the current workout targets.
func (timer *Timer) Plan() model.Plan {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.state.Hang.Plan
}

// Status reports the phase and rep counters.
func (timer *Timer) Status() (State, int, int) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.phase, timer.state.Hang.RepsCompleted, timer.state.Hang.Plan.Reps
}

// StartRep begins the next rep: prep countdown, then hang, then rest. It is
// rejected while resting, while a rep is underway, or once the session is
// complete.
func (timer *Timer) StartRep() error {
	now := timer.now()

	timer.mu.Lock()
	switch {
	case timer.state.Hang.Resting:
		timer.mu.Unlock()
		return ErrResting
	case timer.phase == StatePrep || timer.phase == StateHanging:
		timer.mu.Unlock()
		return ErrRepInProgress
	case timer.state.Hang.Complete():
		timer.mu.Unlock()
		return ErrSessionComplete
	}

	timer.phase = StatePrep
	timer.cd = countdown.Start(now, timer.config.Phases.Prep)
	rep := timer.state.Hang.RepsCompleted + 1
	timer.emitLocked(Event{
		Type:      EventStateChange,
		State:     StatePrep,
		Rep:       rep,
		Remaining: timer.cd.Remaining(now),
		Seconds:   timer.cd.RemainingSeconds(now),
		At:        now,
	})
	timer.mu.Unlock()
	return nil
}

// SkipRest ends an active rest early. The rep still counts.
func (timer *Timer) SkipRest() {
	now := timer.now()
	timer.mu.Lock()
	if timer.phase != StateResting {
		timer.mu.Unlock()
		return
	}
	timer.finishRestLocked(now)
	timer.mu.Unlock()
}

// Reset clears the completed counter and rest marker unconditionally.
func (timer *Timer) Reset() {
	now := timer.now()
	timer.mu.Lock()
	timer.state.Hang.RepsCompleted = 0
	timer.state.Hang.StopRest()
	timer.phase = StateIdle
	timer.cd = countdown.Countdown{}
	timer.emitLocked(Event{
		Type:          EventStateChange,
		State:         StateIdle,
		RepsCompleted: 0,
		RepsPlanned:   timer.state.Hang.Plan.Reps,
		At:            now,
	})
	timer.mu.Unlock()
}

// LogSummary appends a manual session-summary row to the remote summary
// sink. It may be called in any state. The row is dated by the session
// start, not the moment of logging.
func (timer *Timer) LogSummary(ctx context.Context) error {
	timer.mu.Lock()
	startedAt := timer.state.StartedAt
	done := timer.state.Hang.RepsCompleted
	plan := timer.state.Hang.Plan
	summary := timer.sinks.Summary
	timer.mu.Unlock()

	if summary == nil {
		return fmt.Errorf("%w: no summary destination configured", sink.ErrWrite)
	}
	results := fmt.Sprintf("%d/%d hangs at %s kg", done, plan.Reps, formatWeight(plan.WeightKg))
	return summary.Append(ctx, sink.Row{startedAt.Format("2006-01-02"), "Hangboard", results})
}

func (timer *Timer) run() {
	ticker := time.NewTicker(timer.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timer.stopCh:
			return
		case tickTime := <-ticker.C:
			timer.tick(tickTime)
		}
	}
}

func (timer *Timer) tick(now time.Time) {
	timer.mu.Lock()
	defer timer.mu.Unlock()

	switch timer.phase {
	case StatePrep:
		if timer.cd.Elapsed(now) {
			timer.emitProgressLocked(now)
			timer.enterHangLocked(now)
			return
		}
		timer.emitProgressLocked(now)
	case StateHanging:
		if timer.cd.Elapsed(now) {
			timer.emitProgressLocked(now)
			timer.finishHangLocked(now)
			return
		}
		timer.emitProgressLocked(now)
	case StateResting:
		if timer.cd.Elapsed(now) {
			timer.emitProgressLocked(now)
			timer.finishRestLocked(now)
			return
		}
		timer.emitProgressLocked(now)
	}
}

func (timer *Timer) enterHangLocked(now time.Time) {
	timer.phase = StateHanging
	timer.cd = countdown.Start(now, timer.config.Phases.Hang)
	timer.emitLocked(Event{
		Type:      EventStateChange,
		State:     StateHanging,
		Rep:       timer.state.Hang.RepsCompleted + 1,
		Remaining: timer.cd.Remaining(now),
		Seconds:   timer.cd.RemainingSeconds(now),
		At:        now,
	})
}

func (timer *Timer) finishHangLocked(now time.Time) {
	rep := timer.state.Hang.RepsCompleted + 1
	plan := timer.state.Hang.Plan

	// The rep is logged as soon as the hang ends, so an abandoned session
	// still keeps its finished hangs.
	if timer.sinks.Reps != nil {
		row := sink.Row{
			now.Format(time.RFC3339),
			strconv.Itoa(rep),
			strconv.Itoa(plan.Reps),
			formatWeight(plan.WeightKg),
		}
		if err := timer.sinks.Reps.Append(context.Background(), row); err != nil {
			timer.emitLocked(Event{
				Type:    EventSinkError,
				State:   timer.phase,
				Message: err.Error(),
				At:      now,
			})
		}
	}
	timer.emitLocked(Event{
		Type:        EventRepLogged,
		State:       timer.phase,
		Rep:         rep,
		RepsPlanned: plan.Reps,
		At:          now,
	})

	timer.phase = StateResting
	timer.state.Hang.StartRest(now)
	timer.cd = countdown.Start(now, timer.config.Phases.Rest)
	timer.emitLocked(Event{
		Type:      EventStateChange,
		State:     StateResting,
		Rep:       rep,
		Remaining: timer.cd.Remaining(now),
		Seconds:   timer.cd.RemainingSeconds(now),
		At:        now,
	})
}

func (timer *Timer) finishRestLocked(now time.Time) {
	timer.state.Hang.StopRest()
	timer.state.Hang.RepsCompleted++
	timer.cd = countdown.Countdown{}

	if timer.state.Hang.Complete() {
		timer.phase = StateComplete
		plan := timer.state.Hang.Plan
		if timer.sinks.Sessions != nil {
			row := sink.Row{
				now.Format(time.RFC3339),
				strconv.Itoa(plan.Reps),
				formatWeight(plan.WeightKg),
			}
			if err := timer.sinks.Sessions.Append(context.Background(), row); err != nil {
				timer.emitLocked(Event{
					Type:    EventSinkError,
					State:   timer.phase,
					Message: err.Error(),
					At:      now,
				})
			}
		}
		timer.emitLocked(Event{
			Type:          EventSessionComplete,
			State:         StateComplete,
			RepsCompleted: timer.state.Hang.RepsCompleted,
			RepsPlanned:   plan.Reps,
			At:            now,
		})
		timer.emitLocked(Event{
			Type:          EventStateChange,
			State:         StateComplete,
			RepsCompleted: timer.state.Hang.RepsCompleted,
			RepsPlanned:   plan.Reps,
			At:            now,
		})
		return
	}

	timer.phase = StateIdle
	timer.emitLocked(Event{
		Type:          EventStateChange,
		State:         StateIdle,
		RepsCompleted: timer.state.Hang.RepsCompleted,
		RepsPlanned:   timer.state.Hang.Plan.Reps,
		At:            now,
	})
}

func (timer *Timer) emitProgressLocked(now time.Time) {
	timer.emitLocked(Event{
		Type:          EventProgress,
		State:         timer.phase,
		Rep:           timer.currentRepLocked(),
		RepsCompleted: timer.state.Hang.RepsCompleted,
		RepsPlanned:   timer.state.Hang.Plan.Reps,
		Remaining:     timer.cd.Remaining(now),
		Seconds:       timer.cd.RemainingSeconds(now),
		Percent:       timer.cd.Percent(now),
		At:            now,
	})
}

func (timer *Timer) currentRepLocked() int {
	switch timer.phase {
	case StatePrep, StateHanging, StateResting:
		return timer.state.Hang.RepsCompleted + 1
	default:
		return timer.state.Hang.RepsCompleted
	}
}

func (timer *Timer) emitLocked(event Event) {
	events := append([]chan Event(nil), timer.events...)
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}

func formatWeight(weightKg float64) string {
	return strconv.FormatFloat(weightKg, 'f', -1, 64)
}
