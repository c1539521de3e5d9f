package storage

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"maxhang/internal/ui/preferences"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("config dir override relies on XDG_CONFIG_HOME")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	settings, err := LoadSettings("MaxHangTest")
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("config dir override relies on XDG_CONFIG_HOME")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	saved := preferences.Settings{
		Prep:            10 * time.Second,
		Hang:            12 * time.Second,
		HangRest:        90 * time.Second,
		SetRest:         240 * time.Second,
		DefaultReps:     7,
		DefaultWeightKg: -2.5,
		FocusOpacity:    0.9,
		Fullscreen:      true,
		KeepAwake:       true,
		LogDir:          "/tmp/maxhang-logs",
	}
	require.NoError(t, SaveSettings("MaxHangTest", saved))

	loaded, err := LoadSettings("MaxHangTest")
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestOutOfRangeValuesFallBack(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("config dir override relies on XDG_CONFIG_HOME")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	broken := preferences.DefaultSettings()
	broken.DefaultReps = 99
	broken.FocusOpacity = 0.1
	require.NoError(t, SaveSettings("MaxHangTest", broken))

	loaded, err := LoadSettings("MaxHangTest")
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings().DefaultReps, loaded.DefaultReps)
	assert.Equal(t, preferences.DefaultSettings().FocusOpacity, loaded.FocusOpacity)
}
