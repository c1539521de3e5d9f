// Package hangview renders the max-hang timer tab and routes its controls to
// the hang state machine. All widget mutation happens on the fyne thread; the
// event loop in cmd/main.go wraps Apply calls in fyne.Do.
package hangview

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"maxhang/internal/core/hangtimer"
	"maxhang/internal/core/model"
)

// View handles the max-hang tab UI.
type View struct {
	timer  *hangtimer.Timer
	notice func(string)

	repsSlider  *widget.Slider
	repsLabel   *widget.Label
	weightEntry *widget.Entry
	completed   *widget.Label
	phaseLabel  *widget.Label
	metricLabel *widget.Label
	progress    *widget.ProgressBar
	startButton *widget.Button
	resetButton *widget.Button
	logButton   *widget.Button

	content fyne.CanvasObject
}

// New builds the max-hang tab. notice surfaces non-fatal messages to the
// user.
func New(timer *hangtimer.Timer, notice func(string)) *View {
	view := &View{
		timer:  timer,
		notice: notice,
	}
	plan := timer.Plan()

	view.repsLabel = widget.NewLabel(strconv.Itoa(plan.Reps))
	view.repsSlider = widget.NewSlider(model.MinReps, model.MaxReps)
	view.repsSlider.Step = 1
	view.repsSlider.Value = float64(plan.Reps)
	view.repsSlider.OnChanged = func(value float64) {
		view.repsLabel.SetText(strconv.Itoa(int(value)))
		view.applyPlan()
	}

	view.weightEntry = widget.NewEntry()
	view.weightEntry.SetText(strconv.FormatFloat(plan.WeightKg, 'f', -1, 64))
	view.weightEntry.OnChanged = func(string) {
		view.applyPlan()
	}

	view.completed = widget.NewLabel("")
	view.phaseLabel = widget.NewLabelWithStyle("Press Ready before each hang.", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	view.metricLabel = widget.NewLabel("")
	view.progress = widget.NewProgressBar()

	view.startButton = widget.NewButton("I'm ready – start next hang", func() {
		if err := timer.StartRep(); err != nil {
			view.notice(startRepMessage(err))
		}
	})
	view.resetButton = widget.NewButton("Reset session", func() {
		timer.Reset()
	})
	view.logButton = widget.NewButton("Log session to Google Sheet", func() {
		if err := timer.LogSummary(context.Background()); err != nil {
			view.notice(fmt.Sprintf("Failed to log to Google Sheets: %v", err))
			return
		}
		view.notice("Hangboard session logged to Google Sheet.")
	})

	view.refreshCompleted(0, plan.Reps)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Max Hang Timer (7s on / 2min off)", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Number of hangs"), view.repsLabel),
		view.repsSlider,
		container.NewHBox(widget.NewLabel("Added weight (kg, negative for assistance)"), view.weightEntry),
		view.completed,
		container.NewHBox(view.startButton, layout.NewSpacer(), view.resetButton),
		view.phaseLabel,
		view.metricLabel,
		view.progress,
		view.logButton,
	)
	view.content = form
	return view
}

// Content returns the tab's root canvas object.
func (view *View) Content() fyne.CanvasObject {
	return view.content
}

// Apply updates the widgets for one timer event. Must run on the fyne
// thread.
func (view *View) Apply(event hangtimer.Event) {
	switch event.Type {
	case hangtimer.EventStateChange:
		view.applyState(event)
	case hangtimer.EventProgress:
		view.applyProgress(event)
	case hangtimer.EventSessionComplete:
		view.notice("Session complete! Nice work.")
	case hangtimer.EventSinkError:
		view.notice(fmt.Sprintf("Logging failed: %s", event.Message))
	}
}

func (view *View) applyState(event hangtimer.Event) {
	switch event.State {
	case hangtimer.StatePrep:
		view.phaseLabel.SetText(fmt.Sprintf("Hang %d: Get ready!", event.Rep))
		view.progress.SetValue(0)
		view.startButton.Disable()
	case hangtimer.StateHanging:
		view.phaseLabel.SetText(fmt.Sprintf("Hang %d: HANG!", event.Rep))
		view.progress.SetValue(0)
	case hangtimer.StateResting:
		view.phaseLabel.SetText("REST – off the board")
		view.progress.SetValue(0)
	case hangtimer.StateIdle:
		view.phaseLabel.SetText("Press Ready before each hang.")
		view.metricLabel.SetText("")
		view.progress.SetValue(0)
		view.startButton.Enable()
		view.refreshCompleted(event.RepsCompleted, event.RepsPlanned)
	case hangtimer.StateComplete:
		view.phaseLabel.SetText("All hangs complete! Adjust reps or reset to start a new session.")
		view.metricLabel.SetText("")
		view.progress.SetValue(1)
		view.startButton.Disable()
		view.refreshCompleted(event.RepsCompleted, event.RepsPlanned)
	}
}

func (view *View) applyProgress(event hangtimer.Event) {
	switch event.State {
	case hangtimer.StatePrep:
		view.metricLabel.SetText(fmt.Sprintf("Prep – hang starts in %d s", event.Seconds))
	case hangtimer.StateHanging:
		view.metricLabel.SetText(fmt.Sprintf("Hang – %d s remaining", event.Seconds))
	case hangtimer.StateResting:
		view.metricLabel.SetText("Rest – " + formatClock(event.Seconds))
	default:
		return
	}
	view.progress.SetValue(float64(event.Percent) / 100)
}

func (view *View) applyPlan() {
	plan := view.timer.Plan()
	plan.Reps = int(view.repsSlider.Value)
	if weight, err := strconv.ParseFloat(view.weightEntry.Text, 64); err == nil {
		plan.WeightKg = weight
	}
	view.timer.SetPlan(plan)

	_, completed, planned := view.timer.Status()
	view.refreshCompleted(completed, planned)
}

func (view *View) refreshCompleted(completed, planned int) {
	view.completed.SetText(fmt.Sprintf("Hangs completed: %d / %d", completed, planned))
}

func startRepMessage(err error) string {
	switch {
	case errors.Is(err, hangtimer.ErrResting):
		return "Still resting – wait for the countdown."
	case errors.Is(err, hangtimer.ErrRepInProgress):
		return "A hang is already underway."
	case errors.Is(err, hangtimer.ErrSessionComplete):
		return "All hangs complete! Adjust reps or reset to start a new session."
	default:
		return err.Error()
	}
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
