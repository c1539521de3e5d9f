package preferences

import (
	"time"

	"maxhang/internal/core/model"
)

// Settings defines editable user preferences.
type Settings struct {
	Prep     time.Duration
	Hang     time.Duration
	HangRest time.Duration
	SetRest  time.Duration

	DefaultReps     int
	DefaultWeightKg float64

	FocusOpacity float64
	Fullscreen   bool
	KeepAwake    bool

	LogDir string
}

// DefaultSettings returns default settings for MaxHang: 5s prep, 7s hang,
// 2 minutes off the board, 3 minutes between 4x4 sets.
func DefaultSettings() Settings {
	return Settings{
		Prep:     5 * time.Second,
		Hang:     7 * time.Second,
		HangRest: 120 * time.Second,
		SetRest:  180 * time.Second,

		DefaultReps:     5,
		DefaultWeightKg: 0,

		FocusOpacity: 0.85,
		Fullscreen:   false,
		KeepAwake:    true,
	}
}

// HangConfig converts settings to the max-hang phase durations.
func (settings Settings) HangConfig() model.HangConfig {
	return model.HangConfig{
		Prep: settings.Prep,
		Hang: settings.Hang,
		Rest: settings.HangRest,
	}
}

// FourByFourConfig converts settings to the 4x4 timing.
func (settings Settings) FourByFourConfig() model.FourByFourConfig {
	return model.FourByFourConfig{
		Rest: settings.SetRest,
	}
}
