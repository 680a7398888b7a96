package config

import (
	"fyne.io/fyne/v2"

	"github.com/slpkit/ripped/internal/library"
	"github.com/slpkit/ripped/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyReplayDir         = "replay_directory"
	KeyIncludeSubfolders = "include_subfolders"
	KeyTheme             = "theme"
	KeyLanguage          = "app_language"
	KeyMaxParallel       = "max_parallel_parses"
	KeyAutoRefresh       = "auto_refresh"
)

// Default values
const (
	DefaultIncludeSubfolders = false
	DefaultTheme             = ThemeLight
	DefaultLanguage          = "system"
	DefaultMaxParallel       = library.DefaultParallel
	DefaultAutoRefresh       = false
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetReplayDirectory returns the configured replay directory
func (s *Settings) GetReplayDirectory() string {
	dir := s.app.Preferences().String(KeyReplayDir)
	if dir == "" {
		defaultDir, err := platform.GetDefaultReplayDir()
		if err != nil {
			return ""
		}
		s.SetReplayDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetReplayDirectory sets the replay directory
func (s *Settings) SetReplayDirectory(dir string) {
	s.app.Preferences().SetString(KeyReplayDir, dir)
}

// GetIncludeSubfolders returns whether replays in subfolders are listed
func (s *Settings) GetIncludeSubfolders() bool {
	return s.app.Preferences().BoolWithFallback(KeyIncludeSubfolders, DefaultIncludeSubfolders)
}

// SetIncludeSubfolders sets whether replays in subfolders are listed
func (s *Settings) SetIncludeSubfolders(include bool) {
	s.app.Preferences().SetBool(KeyIncludeSubfolders, include)
}

// GetTheme returns the configured theme
func (s *Settings) GetTheme() Theme {
	theme, err := ParseTheme(s.app.Preferences().String(KeyTheme))
	if err != nil {
		return DefaultTheme
	}
	return theme
}

// SetTheme sets the theme
func (s *Settings) SetTheme(theme Theme) {
	s.app.Preferences().SetString(KeyTheme, string(theme))
}

// ToggleTheme switches between light and dark and returns the new theme
func (s *Settings) ToggleTheme() Theme {
	theme := s.GetTheme().Toggle()
	s.SetTheme(theme)
	return theme
}

// GetMaxParallelParses returns how many replays are decoded at once
func (s *Settings) GetMaxParallelParses() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		s.SetMaxParallelParses(DefaultMaxParallel)
		return DefaultMaxParallel
	}
	return value
}

// SetMaxParallelParses sets how many replays are decoded at once
func (s *Settings) SetMaxParallelParses(count int) {
	if count < library.MinParallel {
		count = library.MinParallel
	}
	if count > library.MaxParallel {
		count = library.MaxParallel
	}
	s.app.Preferences().SetInt(KeyMaxParallel, count)
}

// GetAutoRefresh returns whether the folder is reloaded when replays change on disk
func (s *Settings) GetAutoRefresh() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRefresh, DefaultAutoRefresh)
}

// SetAutoRefresh sets whether the folder is reloaded when replays change on disk
func (s *Settings) SetAutoRefresh(enabled bool) {
	s.app.Preferences().SetBool(KeyAutoRefresh, enabled)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}
