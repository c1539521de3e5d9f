// Package setview renders the 4x4 tracker tab: four climbs per set, a set
// log button and the rest countdown between sets.
package setview

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"maxhang/internal/core/fourbyfour"
	"maxhang/internal/core/model"
)

// View handles the 4x4 tab UI.
type View struct {
	tracker *fourbyfour.Tracker
	notice  func(string)

	gradeSelects [4]*widget.Select
	doneChecks   [4]*widget.Check
	setCounter   *widget.Label
	sendCounter  *widget.Label
	sendBar      *widget.ProgressBar
	restLabel    *widget.Label
	logButton    *widget.Button

	content fyne.CanvasObject
}

// New builds the 4x4 tab.
func New(tracker *fourbyfour.Tracker, notice func(string)) *View {
	view := &View{
		tracker: tracker,
		notice:  notice,
	}

	grades := model.GradeNames()
	columns := make([]fyne.CanvasObject, 0, 4)
	for i := 0; i < 4; i++ {
		slot := i
		gradeSelect := widget.NewSelect(grades, func(selected string) {
			grade, err := model.ParseGrade(selected)
			if err != nil {
				return
			}
			tracker.SetGrade(slot, grade)
		})
		gradeSelect.SetSelectedIndex(0)

		doneCheck := widget.NewCheck("Completed", func(checked bool) {
			tracker.SetCompleted(slot, checked)
			view.refreshSendCount()
		})

		view.gradeSelects[i] = gradeSelect
		view.doneChecks[i] = doneCheck
		columns = append(columns, container.NewVBox(
			widget.NewLabelWithStyle(fmt.Sprintf("Climb %d", i+1), fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
			gradeSelect,
			doneCheck,
		))
	}

	view.setCounter = widget.NewLabel("")
	view.sendCounter = widget.NewLabel("")
	view.sendBar = widget.NewProgressBar()
	view.restLabel = widget.NewLabel("")
	view.logButton = widget.NewButton("Log 4x4 set", func() {
		tracker.LogSet()
	})

	view.refreshSetCounter(0)
	view.refreshSendCount()

	view.content = container.NewVBox(
		widget.NewLabelWithStyle("4x4 Tracker", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Four climbs. One set. Build power-endurance."),
		view.setCounter,
		container.NewGridWithColumns(4, columns...),
		view.sendCounter,
		view.sendBar,
		view.logButton,
		view.restLabel,
	)
	return view
}

// Content returns the tab's root canvas object.
func (view *View) Content() fyne.CanvasObject {
	return view.content
}

// Apply updates the widgets for one tracker event. Must run on the fyne
// thread.
func (view *View) Apply(event fourbyfour.Event) {
	switch event.Type {
	case fourbyfour.EventSetLogged:
		view.refreshSetCounter(event.SetsLogged)
		view.clearChecks()
		if event.CompletedCount > 0 {
			view.notice(fmt.Sprintf("Logged set with %d sends: %s.", event.CompletedCount, gradeList(event.Sends)))
		} else {
			view.notice("Logged set with no completed climbs. Keep pushing next round!")
		}
	case fourbyfour.EventSessionGoal:
		view.notice("4 sets complete for this session! Nice effort.")
	case fourbyfour.EventProgress:
		view.restLabel.SetText("Rest: " + formatClock(event.Seconds))
	case fourbyfour.EventRestOver:
		view.restLabel.SetText(event.Message)
	case fourbyfour.EventStateChange:
		if event.State == fourbyfour.StateReady {
			view.restLabel.SetText("")
			view.refreshSetCounter(event.SetsLogged)
			view.refreshSendCount()
		}
	case fourbyfour.EventSinkError:
		view.notice(fmt.Sprintf("Logging failed: %s", event.Message))
	}
}

func (view *View) clearChecks() {
	for _, check := range view.doneChecks {
		check.SetChecked(false)
	}
	view.refreshSendCount()
}

func (view *View) refreshSetCounter(setsLogged int) {
	shown := setsLogged
	if shown > fourbyfour.SessionGoal {
		shown = fourbyfour.SessionGoal
	}
	view.setCounter.SetText(fmt.Sprintf("Sets this session: %d / %d", shown, fourbyfour.SessionGoal))
}

func (view *View) refreshSendCount() {
	count := 0
	for _, slot := range view.tracker.Slots() {
		if slot.Completed {
			count++
		}
	}
	view.sendCounter.SetText(fmt.Sprintf("Completed this set: %d/4 climbs", count))
	view.sendBar.SetValue(float64(count) / 4)
}

func gradeList(grades []model.Grade) string {
	names := make([]string, len(grades))
	for i, grade := range grades {
		names[i] = grade.String()
	}
	return strings.Join(names, ", ")
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
