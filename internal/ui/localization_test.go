package ui

import "testing"

func TestLocalization_GetText(t *testing.T) {
	l := NewLocalization()

	if got := l.GetText(KeyReplayDirectory); got != "SLP Replay Directory" {
		t.Errorf("Expected English text, got '%s'", got)
	}
	if got := l.GetText("no_such_key"); got != "no_such_key" {
		t.Errorf("Expected unknown key to be returned as is, got '%s'", got)
	}

	l.SetLanguage("ru")
	if got := l.GetText(KeyToggleTheme); got != "Сменить тему" {
		t.Errorf("Expected Russian text, got '%s'", got)
	}
	if got := l.Format(KeyScanning, map[string]any{"Folder": "/r"}); got != "Сканирование /r..." {
		t.Errorf("Unexpected formatted text '%s'", got)
	}
}

func TestLocalization_Plural(t *testing.T) {
	tests := []struct {
		language string
		count    int
		expected string
	}{
		{"en", 1, "1 replay"},
		{"en", 2, "2 replays"},
		{"en", 0, "0 replays"},
		{"pt", 1, "1 replay"},
		{"ru", 1, "1 повтор"},
		{"ru", 3, "3 повтора"},
		{"ru", 5, "5 повторов"},
		{"ru", 21, "21 повтор"},
	}

	l := NewLocalization()
	for _, test := range tests {
		l.SetLanguage(test.language)
		got := l.Plural(KeyReplayCount, test.count, map[string]any{"Count": test.count})
		if got != test.expected {
			t.Errorf("Plural(%s, %d) = '%s', expected '%s'", test.language, test.count, got, test.expected)
		}
	}

	l.SetLanguage("en")
	if got := l.Plural(KeySkippedCount, 1, map[string]any{"Count": 1}); got != "1 skipped" {
		t.Errorf("Unexpected skipped text '%s'", got)
	}
}

func TestLocalization_SetLanguage(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "en"},
		{"ru", "ru"},
		{"pt", "pt"},
		{"pt-BR", "pt"},
		{"de", "en"},
	}

	l := NewLocalization()
	for _, test := range tests {
		l.SetLanguage(test.input)
		if l.GetCurrentLanguage() != test.expected {
			t.Errorf("SetLanguage(%q): expected %s, got %s", test.input, test.expected, l.GetCurrentLanguage())
		}
	}
}

func TestLocalization_CatalogsComplete(t *testing.T) {
	l := NewLocalization()
	keys := []string{
		KeyAppTitle, KeyReplayDirectory, KeySelectFolder, KeyToggleTheme, KeyIncludeSubfolders,
		KeyReload, KeyAllCharacters, KeySettings, KeyFile, KeyQuit, KeyLanguage, KeyMaxParallel,
		KeyAutoRefresh, KeySave, KeyCancel, KeySettingsSaved, KeyScanning, KeyNoReplays,
		KeyReplayCount, KeySkippedCount, KeyScanFailed, KeyReveal, KeyOpen, KeyErrorOpeningFile,
		KeyUnknownDate, KeyEndTime, KeyEndNoContest,
	}

	for code := range l.GetAvailableLanguages() {
		l.SetLanguage(code)
		for _, key := range keys {
			if l.GetText(key) == key {
				t.Errorf("Missing %s translation for %s", code, key)
			}
		}
	}
}
