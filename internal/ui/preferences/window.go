package preferences

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	onSave   func(Settings)

	prep       *widget.Entry
	hang       *widget.Entry
	hangRest   *widget.Entry
	setRest    *widget.Entry
	logDir     *widget.Entry
	opacity    *widget.Slider
	fullscreen *widget.Check
	keepAwake  *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("MaxHang Settings")

	prep := widget.NewEntry()
	hang := widget.NewEntry()
	hangRest := widget.NewEntry()
	setRest := widget.NewEntry()
	logDir := widget.NewEntry()

	prep.SetText(fmt.Sprintf("%d", int(settings.Prep.Seconds())))
	hang.SetText(fmt.Sprintf("%d", int(settings.Hang.Seconds())))
	hangRest.SetText(fmt.Sprintf("%d", int(settings.HangRest.Seconds())))
	setRest.SetText(fmt.Sprintf("%d", int(settings.SetRest.Seconds())))
	logDir.SetText(settings.LogDir)

	opacity := widget.NewSlider(0.5, 1.0)
	opacity.Value = settings.FocusOpacity
	opacity.Step = 0.01

	fullscreen := widget.NewCheck("Fullscreen focus window", nil)
	fullscreen.SetChecked(settings.Fullscreen)

	keepAwake := widget.NewCheck("Keep the screen awake during workouts", nil)
	keepAwake.SetChecked(settings.KeepAwake)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Timing", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Prep before each hang"), prep, widget.NewLabel("sec")),
		container.NewHBox(widget.NewLabel("Hang duration"), hang, widget.NewLabel("sec")),
		container.NewHBox(widget.NewLabel("Rest between hangs"), hangRest, widget.NewLabel("sec")),
		container.NewHBox(widget.NewLabel("Rest between 4x4 sets"), setRest, widget.NewLabel("sec")),
		widget.NewLabelWithStyle("Display", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Focus window opacity"),
		opacity,
		fullscreen,
		keepAwake,
		widget.NewLabelWithStyle("Logs", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Log directory"), logDir),
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(460, 460))

	prefs := &Window{
		window:     window,
		settings:   settings,
		onSave:     onSave,
		prep:       prep,
		hang:       hang,
		hangRest:   hangRest,
		setRest:    setRest,
		logDir:     logDir,
		opacity:    opacity,
		fullscreen: fullscreen,
		keepAwake:  keepAwake,
	}

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		window.Hide()
	}

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if seconds, ok := parsePositiveInt(prefs.prep.Text); ok {
		settings.Prep = time.Duration(seconds) * time.Second
	}
	if seconds, ok := parsePositiveInt(prefs.hang.Text); ok {
		settings.Hang = time.Duration(seconds) * time.Second
	}
	if seconds, ok := parsePositiveInt(prefs.hangRest.Text); ok {
		settings.HangRest = time.Duration(seconds) * time.Second
	}
	if seconds, ok := parsePositiveInt(prefs.setRest.Text); ok {
		settings.SetRest = time.Duration(seconds) * time.Second
	}
	settings.FocusOpacity = prefs.opacity.Value
	settings.Fullscreen = prefs.fullscreen.Checked
	settings.KeepAwake = prefs.keepAwake.Checked
	settings.LogDir = prefs.logDir.Text

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
