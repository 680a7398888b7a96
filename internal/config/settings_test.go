package config

import (
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestReplayDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	dir := settings.GetReplayDirectory()
	if dir == "" {
		t.Error("Replay directory should not be empty")
	}
	if filepath.Base(dir) != "Slippi" {
		t.Errorf("Expected default directory to end in Slippi, got %s", dir)
	}

	// Test setting custom value
	customDir := "/custom/replays"
	settings.SetReplayDirectory(customDir)

	retrievedDir := settings.GetReplayDirectory()
	if retrievedDir != customDir {
		t.Errorf("Expected replay directory %s, got %s", customDir, retrievedDir)
	}
}

func TestIncludeSubfolders(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetIncludeSubfolders() != DefaultIncludeSubfolders {
		t.Errorf("Expected default include subfolders %v", DefaultIncludeSubfolders)
	}

	settings.SetIncludeSubfolders(true)
	if !settings.GetIncludeSubfolders() {
		t.Error("Expected include subfolders to be enabled")
	}
}

func TestMaxParallelParses(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	maxParallel := settings.GetMaxParallelParses()
	if maxParallel != DefaultMaxParallel {
		t.Errorf("Expected default max parallel %d, got %d", DefaultMaxParallel, maxParallel)
	}

	settings.SetMaxParallelParses(8)
	if settings.GetMaxParallelParses() != 8 {
		t.Errorf("Expected max parallel 8, got %d", settings.GetMaxParallelParses())
	}

	// Test boundary values
	settings.SetMaxParallelParses(0)
	if settings.GetMaxParallelParses() != 1 {
		t.Error("Max parallel should be clamped to minimum 1")
	}

	settings.SetMaxParallelParses(64)
	if settings.GetMaxParallelParses() != 16 {
		t.Error("Max parallel should be clamped to maximum 16")
	}
}

func TestAutoRefresh(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetAutoRefresh() {
		t.Error("Auto refresh should be disabled by default")
	}

	settings.SetAutoRefresh(true)
	if !settings.GetAutoRefresh() {
		t.Error("Expected auto refresh to be enabled")
	}
}

func TestThemeSetting(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetTheme() != DefaultTheme {
		t.Errorf("Expected default theme %s, got %s", DefaultTheme, settings.GetTheme())
	}

	if got := settings.ToggleTheme(); got != ThemeDark {
		t.Errorf("Expected dark theme after toggle, got %s", got)
	}
	if settings.GetTheme() != ThemeDark {
		t.Error("Expected toggled theme to be persisted")
	}
	if got := settings.ToggleTheme(); got != DefaultTheme {
		t.Errorf("Expected toggling twice to restore %s, got %s", DefaultTheme, got)
	}

	// Unknown stored values fall back to the default
	app.Preferences().SetString(KeyTheme, "solarized")
	if settings.GetTheme() != DefaultTheme {
		t.Errorf("Expected fallback to %s, got %s", DefaultTheme, settings.GetTheme())
	}
}

func TestLanguage(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	lang := settings.GetLanguage()
	if lang != DefaultLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultLanguage, lang)
	}

	settings.SetLanguage("en")

	retrievedLang := settings.GetLanguage()
	if retrievedLang != "en" {
		t.Errorf("Expected language 'en', got %s", retrievedLang)
	}
}

func TestGetLanguageOptions(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	options := settings.GetLanguageOptions()

	expectedLangs := []string{"system", "en", "ru", "pt"}
	for _, lang := range expectedLangs {
		if _, exists := options[lang]; !exists {
			t.Errorf("Expected language option '%s' to exist", lang)
		}
	}

	if len(options) != len(expectedLangs) {
		t.Errorf("Expected %d language options, got %d", len(expectedLangs), len(options))
	}
}
