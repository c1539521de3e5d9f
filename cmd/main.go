package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"maxhang/internal/config"
	"maxhang/internal/core/fourbyfour"
	"maxhang/internal/core/hangtimer"
	"maxhang/internal/core/model"
	"maxhang/internal/core/session"
	"maxhang/internal/platform"
	"maxhang/internal/sink"
	"maxhang/internal/storage"
	"maxhang/internal/ui/focus"
	"maxhang/internal/ui/hangview"
	"maxhang/internal/ui/preferences"
	"maxhang/internal/ui/setview"
	"maxhang/internal/ui/tray"
)

const appName = "MaxHang"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	lock, err := platform.LockInstance(appName)
	if err != nil {
		logger.Error("single instance", "error", err)
		return
	}
	defer func() {
		_ = lock.Release()
	}()

	envConfig, err := config.ParseEnv()
	if err != nil {
		logger.Error("environment", "error", err)
		return
	}

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		logger.Warn("load settings, using defaults", "error", err)
	}

	fyneApp := app.NewWithID("com.maxhang.app")
	mainWindow := fyneApp.NewWindow(appName)
	mainWindow.Resize(fyne.NewSize(760, 560))

	banner := widget.NewLabel("")
	banner.Wrapping = fyne.TextWrapWord
	banner.Hide()
	notify := func(message string) {
		banner.SetText(message)
		banner.Show()
	}

	store := session.NewStore()
	sess := store.Open()
	sess.Hang.Plan = model.Plan{
		Reps:     settings.DefaultReps,
		WeightKg: settings.DefaultWeightKg,
	}.Clamp()

	onSinkError := func(_ sink.Row, err error) {
		logger.Warn("append failed", "error", err)
		fyne.Do(func() {
			notify(fmt.Sprintf("Logging failed: %v", err))
		})
	}

	logDir := resolveLogDir(settings.LogDir)
	repSink := sink.NewAsync(sink.NewCSV(
		filepath.Join(logDir, "hang_reps.csv"),
		sink.Row{"timestamp", "rep_number", "reps_planned", "weight_kg"},
	), 16, onSinkError)
	sessionSink := sink.NewAsync(sink.NewCSV(
		filepath.Join(logDir, "hang_sessions.csv"),
		sink.Row{"timestamp", "reps", "weight_kg"},
	), 16, onSinkError)
	setSink := sink.NewAsync(sink.NewCSV(
		filepath.Join(logDir, "four_by_four_sets.csv"),
		sink.Row{
			"timestamp", "activity",
			"climb1_grade", "climb1_result",
			"climb2_grade", "climb2_result",
			"climb3_grade", "climb3_result",
			"climb4_grade", "climb4_result",
			"completed_count",
		},
	), 16, onSinkError)
	asyncSinks := []*sink.Async{repSink, sessionSink, setSink}

	var summarySink sink.Sink
	if summaryAsync := buildSummarySink(envConfig, logger, onSinkError); summaryAsync != nil {
		summarySink = summaryAsync
		asyncSinks = append(asyncSinks, summaryAsync)
	}

	hang := hangtimer.New(sess, hangtimer.Config{Phases: settings.HangConfig()}, hangtimer.Sinks{
		Reps:     repSink,
		Sessions: sessionSink,
		Summary:  summarySink,
	})
	four := fourbyfour.New(sess, fourbyfour.Config{Rest: settings.SetRest}, fourbyfour.Sinks{
		Sets:    setSink,
		Summary: summarySink,
	})

	hangView := hangview.New(hang, notify)
	fourView := setview.New(four, notify)

	focusWindow := focus.New(fyneApp, focus.Config{
		Opacity:    opacityToAlpha(settings.FocusOpacity),
		Fullscreen: settings.Fullscreen,
	})
	focusWindow.SetOnSkip(func() {
		hang.SkipRest()
	})

	keeper := platform.NewKeepAwake(appName)
	if settings.KeepAwake {
		acquireKeepAwake(keeper, logger)
	}

	quit := func() {
		hang.Stop()
		four.Stop()
		for _, async := range asyncSinks {
			async.Close()
		}
		if err := keeper.Release(); err != nil && !errors.Is(err, platform.ErrKeepAwakeUnsupported) {
			logger.Warn("release keep awake", "error", err)
		}
		fyneApp.Quit()
	}

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShow: func() {
				mainWindow.Show()
				mainWindow.RequestFocus()
			},
			OnStartRep: func() {
				if err := hang.StartRep(); err != nil {
					logger.Info("start rep rejected", "error", err)
				}
			},
			OnReset: func() {
				hang.Reset()
			},
			OnQuit: quit,
		})
	}

	prefsWindow := preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		previous := settings
		settings = updated
		if err := storage.SaveSettings(appName, updated); err != nil {
			logger.Warn("save settings", "error", err)
		}
		hang.UpdateConfig(updated.HangConfig())
		four.UpdateConfig(updated.FourByFourConfig())
		focusWindow.UpdateConfig(focus.Config{
			Opacity:    opacityToAlpha(updated.FocusOpacity),
			Fullscreen: updated.Fullscreen,
		})
		if updated.KeepAwake && !previous.KeepAwake {
			acquireKeepAwake(keeper, logger)
		}
		if !updated.KeepAwake && previous.KeepAwake {
			if err := keeper.Release(); err != nil {
				logger.Warn("release keep awake", "error", err)
			}
		}
	})

	settingsButton := widget.NewButton("Settings", func() {
		prefsWindow.Show()
	})

	tabs := container.NewAppTabs(
		container.NewTabItem("Max Hang Timer", hangView.Content()),
		container.NewTabItem("4x4 Tracker", fourView.Content()),
	)
	mainWindow.SetContent(container.NewBorder(banner, settingsButton, nil, nil, tabs))
	mainWindow.SetCloseIntercept(quit)

	hangEvents := hang.Subscribe(32)
	go func() {
		for event := range hangEvents {
			event := event
			fyne.Do(func() {
				hangView.Apply(event)
				applyHangFocus(event, focusWindow)
				applyHangTray(event, trayManager)
			})
		}
	}()

	fourEvents := four.Subscribe(32)
	go func() {
		for event := range fourEvents {
			event := event
			fyne.Do(func() {
				fourView.Apply(event)
			})
		}
	}()

	hang.Start()
	four.Start()

	logger.Info("started",
		"session", sess.ID,
		"logs", logDir,
		"remote", summarySink != nil)
	mainWindow.Show()
	fyneApp.Run()
}

func applyHangFocus(event hangtimer.Event, focusWindow *focus.Window) {
	switch event.Type {
	case hangtimer.EventStateChange:
		switch event.State {
		case hangtimer.StatePrep:
			focusWindow.Show(fmt.Sprintf("Hang %d: get ready", event.Rep), event.Remaining, false)
		case hangtimer.StateHanging:
			focusWindow.Show(fmt.Sprintf("Hang %d: HANG!", event.Rep), event.Remaining, false)
		case hangtimer.StateResting:
			focusWindow.Show("Rest", event.Remaining, true)
		default:
			focusWindow.Hide()
		}
	case hangtimer.EventProgress:
		focusWindow.SetRemaining(event.Remaining)
	}
}

func applyHangTray(event hangtimer.Event, trayManager *tray.Manager) {
	if trayManager == nil {
		return
	}
	switch event.Type {
	case hangtimer.EventStateChange:
		switch event.State {
		case hangtimer.StateIdle:
			trayManager.SetStatus(fmt.Sprintf("%d/%d hangs done", event.RepsCompleted, event.RepsPlanned))
			trayManager.SetStartEnabled(true)
		case hangtimer.StateComplete:
			trayManager.SetStatus("session complete")
			trayManager.SetStartEnabled(false)
		default:
			trayManager.SetStartEnabled(false)
		}
	case hangtimer.EventProgress:
		trayManager.SetStatus(fmt.Sprintf("%s %02d:%02d", event.State, event.Seconds/60, event.Seconds%60))
	}
}

func buildSummarySink(envConfig config.Env, logger *slog.Logger, onError func(sink.Row, error)) *sink.Async {
	if !envConfig.RemoteEnabled() {
		logger.Info("remote logging disabled: set MAXHANG_SHEETS_CREDENTIALS and MAXHANG_SPREADSHEET_ID to enable")
		return nil
	}

	credentials, err := envConfig.ReadCredentials()
	if err != nil {
		logger.Warn("remote logging disabled", "error", err)
		return nil
	}

	sheets, err := sink.NewSheets(context.Background(), credentials, envConfig.SpreadsheetID,
		sink.Row{"Date", "Activity", "Results"})
	if err != nil {
		logger.Warn("remote logging disabled", "error", err)
		return nil
	}
	return sink.NewAsync(sheets, 16, onError)
}

func acquireKeepAwake(keeper platform.KeepAwake, logger *slog.Logger) {
	if err := keeper.Acquire(); err != nil {
		if errors.Is(err, platform.ErrKeepAwakeUnsupported) {
			logger.Info("keep awake unavailable on this system")
			return
		}
		logger.Warn("keep awake", "error", err)
	}
}

func resolveLogDir(configured string) string {
	if configured != "" {
		return configured
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "MaxHang")
}

func opacityToAlpha(opacity float64) uint8 {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return uint8(opacity * 255)
}
