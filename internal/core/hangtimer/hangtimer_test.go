package hangtimer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maxhang/internal/core/model"
	"maxhang/internal/core/session"
	"maxhang/internal/sink"
)

type memorySink struct {
	mu   sync.Mutex
	rows []sink.Row
	err  error
}

func (m *memorySink) Append(_ context.Context, row sink.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, row)
	return nil
}

func (m *memorySink) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type fixture struct {
	timer    *Timer
	sess     *session.Session
	reps     *memorySink
	sessions *memorySink
	summary  *memorySink
	clock    time.Time
}

func newFixture(t *testing.T, plan model.Plan) *fixture {
	t.Helper()
	sess := session.NewStore().Open()
	f := &fixture{
		sess:     sess,
		reps:     &memorySink{},
		sessions: &memorySink{},
		summary:  &memorySink{},
		clock:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	sess.StartedAt = f.clock
	f.timer = New(sess, Config{}, Sinks{
		Reps:     f.reps,
		Sessions: f.sessions,
		Summary:  f.summary,
	})
	f.timer.now = func() time.Time { return f.clock }
	f.timer.SetPlan(plan)
	return f
}

// tickSeconds advances the fake clock one second at a time, invoking the
// timer tick at each step.
func (f *fixture) tickSeconds(seconds int) {
	for i := 0; i < seconds; i++ {
		f.clock = f.clock.Add(time.Second)
		f.timer.tick(f.clock)
	}
}

// runRep drives one full rep: prep, hang and rest, using default durations.
func (f *fixture) runRep(t *testing.T) {
	t.Helper()
	require.NoError(t, f.timer.StartRep())
	f.tickSeconds(5 + 7 + 120)
}

func TestSessionCompletion(t *testing.T) {
	tests := []struct {
		name    string
		planned int
	}{
		{name: "single rep", planned: 1},
		{name: "three reps", planned: 3},
		{name: "max reps", planned: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, model.Plan{Reps: tt.planned, WeightKg: 2.5})

			for i := 0; i < tt.planned; i++ {
				f.runRep(t)
			}

			phase, completed, planned := f.timer.Status()
			assert.Equal(t, StateComplete, phase)
			assert.Equal(t, tt.planned, completed)
			assert.Equal(t, tt.planned, planned)
			assert.False(t, f.sess.Hang.Resting)

			assert.Equal(t, tt.planned, f.reps.count(), "one row per rep")
			assert.Equal(t, 1, f.sessions.count(), "one session summary row")

			err := f.timer.StartRep()
			assert.ErrorIs(t, err, ErrSessionComplete)
		})
	}
}

func TestSingleRepScenario(t *testing.T) {
	f := newFixture(t, model.Plan{Reps: 1, WeightKg: -5})

	require.NoError(t, f.timer.StartRep())
	phase, _, _ := f.timer.Status()
	assert.Equal(t, StatePrep, phase)

	f.tickSeconds(5)
	phase, _, _ = f.timer.Status()
	assert.Equal(t, StateHanging, phase)

	f.tickSeconds(7)
	phase, _, _ = f.timer.Status()
	assert.Equal(t, StateResting, phase)
	assert.True(t, f.sess.Hang.Resting)
	assert.False(t, f.sess.Hang.RestStarted.IsZero())

	f.tickSeconds(120)
	phase, completed, _ := f.timer.Status()
	assert.Equal(t, StateComplete, phase)
	assert.Equal(t, 1, completed)
	assert.False(t, f.sess.Hang.Resting)
	assert.True(t, f.sess.Hang.RestStarted.IsZero())

	require.Equal(t, 1, f.reps.count())
	require.Equal(t, 1, f.sessions.count())
	assert.Equal(t, sink.Row{"2026-03-01T10:00:12Z", "1", "1", "-5"}, f.reps.rows[0])
	assert.Equal(t, "-5", f.sessions.rows[0][2])
}

func TestStartRepRejectedWhileResting(t *testing.T) {
	f := newFixture(t, model.Plan{Reps: 3})

	require.NoError(t, f.timer.StartRep())
	f.tickSeconds(5 + 7) // through prep and hang, into rest

	err := f.timer.StartRep()
	assert.ErrorIs(t, err, ErrResting)
}

func TestStartRepRejectedMidRep(t *testing.T) {
	f := newFixture(t, model.Plan{Reps: 3})

	require.NoError(t, f.timer.StartRep())
	err := f.timer.StartRep()
	assert.ErrorIs(t, err, ErrRepInProgress)

	f.tickSeconds(6) // into the hang phase
	err = f.timer.StartRep()
	assert.ErrorIs(t, err, ErrRepInProgress)
}

func TestResetFromAnyState(t *testing.T) {
	prepare := map[string]func(*testing.T, *fixture){
		"idle": func(*testing.T, *fixture) {},
		"mid hang": func(t *testing.T, f *fixture) {
			require.NoError(t, f.timer.StartRep())
			f.tickSeconds(8)
		},
		"resting": func(t *testing.T, f *fixture) {
			require.NoError(t, f.timer.StartRep())
			f.tickSeconds(5 + 7 + 30)
		},
		"complete": func(t *testing.T, f *fixture) {
			f.runRep(t)
			f.runRep(t)
		},
	}
	for name, setup := range prepare {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, model.Plan{Reps: 2})
			setup(t, f)

			f.timer.Reset()

			phase, completed, _ := f.timer.Status()
			assert.Equal(t, StateIdle, phase)
			assert.Equal(t, 0, completed)
			assert.False(t, f.sess.Hang.Resting)
			assert.True(t, f.sess.Hang.RestStarted.IsZero())
		})
	}
}

func TestRestCountdownMonotonic(t *testing.T) {
	f := newFixture(t, model.Plan{Reps: 1})
	events := f.timer.Subscribe(512)

	f.runRep(t)

	lastSeconds := -1
	sawZero := false
	for {
		select {
		case event := <-events:
			if event.Type != EventProgress || event.State != StateResting {
				continue
			}
			if lastSeconds >= 0 {
				require.LessOrEqual(t, event.Seconds, lastSeconds, "rest countdown regressed")
			}
			lastSeconds = event.Seconds
			if event.Seconds == 0 {
				sawZero = true
			}
		default:
			require.True(t, sawZero, "rest countdown should reach zero before clearing")
			return
		}
	}
}

func TestProgressPercentMonotonicPerPhase(t *testing.T) {
	f := newFixture(t, model.Plan{Reps: 1})
	events := f.timer.Subscribe(512)

	require.NoError(t, f.timer.StartRep())
	f.tickSeconds(5 + 7)

	percents := map[State][]int{}
	drained := false
	for !drained {
		select {
		case event := <-events:
			if event.Type == EventProgress {
				percents[event.State] = append(percents[event.State], event.Percent)
			}
		default:
			drained = true
		}
	}

	for _, phase := range []State{StatePrep, StateHanging} {
		values := percents[phase]
		require.NotEmpty(t, values, "no progress for %s", phase)
		for i := 1; i < len(values); i++ {
			assert.GreaterOrEqual(t, values[i], values[i-1], "%s percent regressed", phase)
		}
		assert.Equal(t, 100, values[len(values)-1], "%s final tick should report 100", phase)
	}
}

func TestSinkFailureDoesNotStall(t *testing.T) {
	f := newFixture(t, model.Plan{Reps: 1})
	f.reps.err = errors.New("disk full")
	f.sessions.err = errors.New("disk full")
	events := f.timer.Subscribe(512)

	f.runRep(t)

	phase, completed, _ := f.timer.Status()
	assert.Equal(t, StateComplete, phase)
	assert.Equal(t, 1, completed)

	sinkErrors := 0
	for {
		select {
		case event := <-events:
			if event.Type == EventSinkError {
				sinkErrors++
			}
		default:
			assert.Equal(t, 2, sinkErrors, "rep and session appends both surface errors")
			return
		}
	}
}

func TestSkipRestCountsRep(t *testing.T) {
	f := newFixture(t, model.Plan{Reps: 2})

	require.NoError(t, f.timer.StartRep())
	f.tickSeconds(5 + 7 + 10)

	f.timer.SkipRest()

	phase, completed, _ := f.timer.Status()
	assert.Equal(t, StateIdle, phase)
	assert.Equal(t, 1, completed)
	assert.False(t, f.sess.Hang.Resting)

	// Not resting anymore, so the next rep may start.
	require.NoError(t, f.timer.StartRep())
}

func TestSetPlanCapsCompleted(t *testing.T) {
	f := newFixture(t, model.Plan{Reps: 3})
	f.runRep(t)
	f.runRep(t)

	f.timer.SetPlan(model.Plan{Reps: 1})

	_, completed, planned := f.timer.Status()
	assert.Equal(t, 1, planned)
	assert.Equal(t, 1, completed)
}

func TestSetPlanResumesCompletedSession(t *testing.T) {
	f := newFixture(t, model.Plan{Reps: 1})
	events := f.timer.Subscribe(512)

	f.runRep(t)
	require.ErrorIs(t, f.timer.StartRep(), ErrSessionComplete)

	// Raising the plan above the completed count reopens the session.
	f.timer.SetPlan(model.Plan{Reps: 2})

	phase, completed, planned := f.timer.Status()
	assert.Equal(t, StateIdle, phase)
	assert.Equal(t, 1, completed)
	assert.Equal(t, 2, planned)
	require.NoError(t, f.timer.StartRep())

	var last Event
	for {
		select {
		case event := <-events:
			if event.Type == EventStateChange && event.State == StateIdle {
				last = event
			}
		default:
			require.Equal(t, EventStateChange, last.Type, "plan change should announce the reopened session")
			assert.Equal(t, 1, last.RepsCompleted)
			assert.Equal(t, 2, last.RepsPlanned)
			return
		}
	}
}

func TestSetPlanShrinkEndsIdleSession(t *testing.T) {
	f := newFixture(t, model.Plan{Reps: 3})
	f.runRep(t)
	events := f.timer.Subscribe(512)

	f.timer.SetPlan(model.Plan{Reps: 1})

	phase, completed, planned := f.timer.Status()
	assert.Equal(t, StateComplete, phase)
	assert.Equal(t, 1, completed)
	assert.Equal(t, 1, planned)
	assert.ErrorIs(t, f.timer.StartRep(), ErrSessionComplete)

	select {
	case event := <-events:
		assert.Equal(t, EventStateChange, event.Type)
		assert.Equal(t, StateComplete, event.State)
	default:
		t.Fatal("shrinking the plan to the completed count should announce completion")
	}
}

func TestLogSummaryRow(t *testing.T) {
	f := newFixture(t, model.Plan{Reps: 2, WeightKg: 7.5})
	f.runRep(t)

	require.NoError(t, f.timer.LogSummary(context.Background()))

	require.Equal(t, 1, f.summary.count())
	row := f.summary.rows[0]
	assert.Equal(t, sink.Row{"2026-03-01", "Hangboard", "1/2 hangs at 7.5 kg"}, row)
}

func TestLogSummaryDatedBySessionStart(t *testing.T) {
	f := newFixture(t, model.Plan{Reps: 1, WeightKg: 0})
	// A session that crossed midnight still logs under its start date.
	f.sess.StartedAt = time.Date(2026, 2, 28, 23, 30, 0, 0, time.UTC)
	f.runRep(t)

	require.NoError(t, f.timer.LogSummary(context.Background()))

	require.Equal(t, 1, f.summary.count())
	assert.Equal(t, "2026-02-28", f.summary.rows[0][0])
}
