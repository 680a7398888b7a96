package ui

import (
	"embed"
	"path"

	"fyne.io/fyne/v2/lang"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Language codes with an embedded message file
var supportedLanguages = []language.Tag{language.English, language.Russian, language.Portuguese}

// LanguageSystem follows the operating system locale
const LanguageSystem = "system"

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyReplayDirectory   = "replay_directory"
	KeySelectFolder      = "select_folder"
	KeyToggleTheme       = "toggle_theme"
	KeyIncludeSubfolders = "include_subfolders"
	KeyReload            = "reload"
	KeyAllCharacters     = "all_characters"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyQuit              = "quit"
	KeyLanguage          = "language"
	KeyMaxParallel       = "max_parallel"
	KeyAutoRefresh       = "auto_refresh"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeySettingsSaved     = "settings_saved"
	KeyScanning          = "scanning"
	KeyNoReplays         = "no_replays"
	KeyReplayCount       = "replay_count"
	KeySkippedCount      = "skipped_count"
	KeyScanFailed        = "scan_failed"
	KeyReveal            = "reveal"
	KeyOpen              = "open"
	KeyErrorOpeningFile  = "error_opening_file"
	KeyUnknownDate       = "unknown_date"
	KeyEndTime           = "end_time"
	KeyEndNoContest      = "end_no_contest"
)

// Localization manages UI text translations
type Localization struct {
	bundle          *i18n.Bundle
	localizer       *i18n.Localizer
	currentLanguage string
}

// NewLocalization creates a localization manager with the embedded catalogs, in English
func NewLocalization() *Localization {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, tag := range supportedLanguages {
		name := path.Join("locales", tag.String()+".toml")
		data, err := localeFS.ReadFile(name)
		if err != nil {
			panic(err)
		}
		bundle.MustParseMessageFileBytes(data, name)
	}

	l := &Localization{bundle: bundle}
	l.SetLanguage(language.English.String())
	return l
}

// SetLanguage sets the current language. "system" and unsupported codes
// resolve to the closest supported language.
func (l *Localization) SetLanguage(code string) {
	resolved := resolveLanguage(code)
	l.currentLanguage = resolved
	l.localizer = i18n.NewLocalizer(l.bundle, resolved, language.English.String())
}

func resolveLanguage(code string) string {
	if code == "" || code == LanguageSystem {
		code = lang.SystemLocale().LanguageString()
	}

	matcher := language.NewMatcher(supportedLanguages)
	_, index, confidence := matcher.Match(language.Make(code))
	if confidence == language.No {
		return language.English.String()
	}
	return supportedLanguages[index].String()
}

// GetText returns localized text for the given key, or the key itself if it is unknown
func (l *Localization) GetText(key string) string {
	return l.Format(key, nil)
}

// Format returns localized text for key with template data applied
func (l *Localization) Format(key string, data map[string]any) string {
	text, err := l.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		return key
	}
	return text
}

// Plural returns localized text for key in the plural form matching count
func (l *Localization) Plural(key string, count int, data map[string]any) string {
	text, err := l.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
		PluralCount:  count,
	})
	if err != nil {
		return key
	}
	return text
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}
