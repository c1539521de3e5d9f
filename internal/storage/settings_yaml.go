package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"maxhang/internal/ui/preferences"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	PrepSeconds     int     `yaml:"prep_seconds"`
	HangSeconds     int     `yaml:"hang_seconds"`
	HangRestSeconds int     `yaml:"hang_rest_seconds"`
	SetRestSeconds  int     `yaml:"set_rest_seconds"`
	DefaultReps     int     `yaml:"default_reps"`
	DefaultWeightKg float64 `yaml:"default_weight_kg"`
	FocusOpacity    float64 `yaml:"focus_opacity"`
	Fullscreen      bool    `yaml:"fullscreen"`
	KeepAwake       bool    `yaml:"keep_awake"`
	LogDir          string  `yaml:"log_dir"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
func LoadSettings(appName string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return settings, err
	}

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings preferences.Settings) error {
	configPath, err := resolveConfigPath(appName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		PrepSeconds:     int(settings.Prep / time.Second),
		HangSeconds:     int(settings.Hang / time.Second),
		HangRestSeconds: int(settings.HangRest / time.Second),
		SetRestSeconds:  int(settings.SetRest / time.Second),
		DefaultReps:     settings.DefaultReps,
		DefaultWeightKg: settings.DefaultWeightKg,
		FocusOpacity:    settings.FocusOpacity,
		Fullscreen:      settings.Fullscreen,
		KeepAwake:       settings.KeepAwake,
		LogDir:          settings.LogDir,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.PrepSeconds > 0 {
		settings.Prep = time.Duration(fileData.PrepSeconds) * time.Second
	}
	if fileData.HangSeconds > 0 {
		settings.Hang = time.Duration(fileData.HangSeconds) * time.Second
	}
	if fileData.HangRestSeconds > 0 {
		settings.HangRest = time.Duration(fileData.HangRestSeconds) * time.Second
	}
	if fileData.SetRestSeconds > 0 {
		settings.SetRest = time.Duration(fileData.SetRestSeconds) * time.Second
	}
	if fileData.DefaultReps > 0 && fileData.DefaultReps <= 10 {
		settings.DefaultReps = fileData.DefaultReps
	}
	settings.DefaultWeightKg = fileData.DefaultWeightKg

	if fileData.FocusOpacity >= 0.5 && fileData.FocusOpacity <= 1.0 {
		settings.FocusOpacity = fileData.FocusOpacity
	}
	settings.Fullscreen = fileData.Fullscreen
	settings.KeepAwake = fileData.KeepAwake
	settings.LogDir = fileData.LogDir
}
