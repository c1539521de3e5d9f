// Package focus shows a large-type countdown while a phase is on the clock,
// readable from across the room with both hands on the board.
package focus

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Config defines focus window visuals.
type Config struct {
	Opacity    uint8
	Fullscreen bool
}

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// Window manages the countdown UI.
type Window struct {
	app        fyne.App
	window     fyne.Window
	config     Config
	background *canvas.Rectangle
	phaseLabel *canvas.Text
	timerLabel *canvas.Text
	skipButton *widget.Button
	onSkip     func()
	visible    bool
}

// New creates a focus window. It stays hidden until a phase starts.
func New(app fyne.App, config Config) *Window {
	window := app.NewWindow("MaxHang")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	background := canvas.NewRectangle(color.NRGBA{A: config.Opacity})

	phaseLabel := canvas.NewText("", color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	phaseLabel.Alignment = fyne.TextAlignCenter
	phaseLabel.TextStyle = fyne.TextStyle{Bold: true}
	phaseLabel.TextSize = 32

	timerLabel := canvas.NewText("--:--", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextStyle = fyne.TextStyle{Bold: true}
	timerLabel.TextSize = 96

	skipButton := widget.NewButton("Skip rest", nil)
	skipButton.Hide()

	content := container.NewVBox(
		layout.NewSpacer(),
		phaseLabel,
		timerLabel,
		container.NewCenter(skipButton),
		layout.NewSpacer(),
	)
	window.SetContent(container.NewStack(background, content))

	focus := &Window{
		app:        app,
		window:     window,
		config:     config,
		background: background,
		phaseLabel: phaseLabel,
		timerLabel: timerLabel,
		skipButton: skipButton,
	}
	focus.applyWindowMode()

	skipButton.OnTapped = func() {
		if focus.onSkip != nil {
			focus.onSkip()
		}
	}
	return focus
}

// SetOnSkip sets the skip-rest handler.
func (focus *Window) SetOnSkip(handler func()) {
	focus.onSkip = handler
}

// Show displays the window for a new phase. skippable controls the skip-rest
// button.
func (focus *Window) Show(phase string, remaining time.Duration, skippable bool) {
	focus.phaseLabel.Text = phase
	focus.phaseLabel.Refresh()
	focus.setRemaining(remaining)
	if skippable {
		focus.skipButton.Show()
	} else {
		focus.skipButton.Hide()
	}
	focus.applyWindowMode()
	if !focus.visible {
		focus.window.Show()
		focus.visible = true
	}
	focus.window.RequestFocus()
}

// SetRemaining updates the countdown display.
func (focus *Window) SetRemaining(remaining time.Duration) {
	focus.setRemaining(remaining)
}

// Hide closes the focus window until the next phase.
func (focus *Window) Hide() {
	if focus.config.Fullscreen {
		focus.window.SetFullScreen(false)
	}
	focus.window.Hide()
	focus.visible = false
}

// UpdateConfig updates focus window visuals.
func (focus *Window) UpdateConfig(config Config) {
	focus.config = config
	focus.background.FillColor = color.NRGBA{A: config.Opacity}
	canvas.Refresh(focus.background)
	if focus.visible {
		focus.applyWindowMode()
	}
}

func (focus *Window) setRemaining(remaining time.Duration) {
	focus.timerLabel.Text = formatDuration(remaining)
	focus.timerLabel.Refresh()
}

func (focus *Window) applyWindowMode() {
	if focus.config.Fullscreen {
		focus.window.SetFullScreen(true)
		return
	}
	focus.window.SetFullScreen(false)
	focus.window.Resize(fyne.NewSize(480, 320))
	focus.window.CenterOnScreen()
}

func formatDuration(value time.Duration) string {
	if value < 0 {
		value = 0
	}
	seconds := int(value.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
