package ui

import (
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/slpkit/ripped/internal/config"
	"github.com/slpkit/ripped/internal/library"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	maxParallelSelect *widget.Select
	autoRefreshCheck  *widget.Check
	languageSelect    *widget.Select

	// display name -> language code
	languageCodes map[string]string
}

// NewSettingsDialog creates a new settings dialog. onSaved runs after the values are stored.
func NewSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:      settings,
		localization:  localization,
		window:        window,
		onSaved:       onSaved,
		languageCodes: make(map[string]string),
	}

	sd.createUI()
	return sd
}

// ShowSettingsDialog creates and shows the settings dialog
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) *SettingsDialog {
	sd := NewSettingsDialog(window, settings, localization, onSaved)
	sd.Show()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	parallelOptions := make([]string, 0, library.MaxParallel)
	for n := library.MinParallel; n <= library.MaxParallel; n++ {
		parallelOptions = append(parallelOptions, strconv.Itoa(n))
	}
	sd.maxParallelSelect = widget.NewSelect(parallelOptions, nil)

	sd.autoRefreshCheck = widget.NewCheck(sd.localization.GetText(KeyAutoRefresh), nil)

	languageNames := make([]string, 0, 4)
	for code, name := range sd.settings.GetLanguageOptions() {
		sd.languageCodes[name] = code
		languageNames = append(languageNames, name)
	}
	sort.Strings(languageNames)
	sd.languageSelect = widget.NewSelect(languageNames, nil)

	form := widget.NewForm(
		widget.NewFormItem(sd.localization.GetText(KeyMaxParallel), sd.maxParallelSelect),
		widget.NewFormItem(sd.localization.GetText(KeyLanguage), sd.languageSelect),
	)

	content := container.NewVBox(form, sd.autoRefreshCheck)

	sd.dialog = dialog.NewCustomConfirm(
		sd.localization.GetText(KeySettings),
		sd.localization.GetText(KeySave),
		sd.localization.GetText(KeyCancel),
		content,
		sd.onSave,
		sd.window,
	)
	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

func (sd *SettingsDialog) loadCurrentSettings() {
	sd.maxParallelSelect.SetSelected(strconv.Itoa(sd.settings.GetMaxParallelParses()))
	sd.autoRefreshCheck.SetChecked(sd.settings.GetAutoRefresh())

	current := sd.settings.GetLanguage()
	for name, code := range sd.languageCodes {
		if code == current {
			sd.languageSelect.SetSelected(name)
			break
		}
	}
}

func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.save()
}

// save stores the dialog values
func (sd *SettingsDialog) save() {
	if n, err := strconv.Atoi(sd.maxParallelSelect.Selected); err == nil {
		sd.settings.SetMaxParallelParses(n)
	}

	sd.settings.SetAutoRefresh(sd.autoRefreshCheck.Checked)

	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}

	if sd.onSaved != nil {
		sd.onSaved()
	}
}
