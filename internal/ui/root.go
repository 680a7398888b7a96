package ui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/slpkit/ripped/internal/config"
	"github.com/slpkit/ripped/internal/library"
	"github.com/slpkit/ripped/internal/model"
	"github.com/slpkit/ripped/internal/platform"
	"github.com/slpkit/ripped/internal/watch"
)

// RootUI represents the main window: the folder form, the filter bar and the replay list
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	loader       library.Loader
	settings     *config.Settings
	localization *Localization
	log          zerolog.Logger

	folderLabel     *widget.Label
	folderEntry     *widget.Entry
	selectBtn       *widget.Button
	themeBtn        *widget.Button
	subfoldersCheck *widget.Check
	reloadBtn       *widget.Button
	filterSelect    *widget.Select
	statusLabel     *widget.Label
	spinner         *widget.ProgressBarInfinite
	replayList      *widget.List

	// Owned by the UI goroutine
	set       *model.ReplaySet
	visible   []*model.Replay
	filter    model.Character
	hasFilter bool

	mu         sync.Mutex
	cancelLoad context.CancelFunc
	watcher    *watch.Watcher
}

// NewRootUI creates the main UI and starts loading the configured folder
func NewRootUI(window fyne.Window, app fyne.App, loader library.Loader, log zerolog.Logger) *RootUI {
	settings := config.NewSettings(app)

	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		app:          app,
		loader:       loader,
		settings:     settings,
		localization: localization,
		log:          log,
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	app.Settings().SetTheme(NewAppTheme(settings.GetTheme()))

	loader.SetMaxParallel(settings.GetMaxParallelParses())
	loader.SetUpdateCallback(ui.onReplaySetUpdate)

	ui.setupUI()
	window.SetOnClosed(ui.Close)

	ui.reload()
	ui.restartWatcher()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.folderLabel = widget.NewLabel(ui.localization.GetText(KeyReplayDirectory))
	ui.folderLabel.TextStyle = fyne.TextStyle{Bold: true}

	ui.folderEntry = widget.NewEntry()
	ui.folderEntry.SetText(ui.settings.GetReplayDirectory())
	ui.folderEntry.OnSubmitted = ui.onFolderChanged

	ui.selectBtn = widget.NewButton(IconFolder+" "+ui.localization.GetText(KeySelectFolder), ui.onSelectFolder)
	folderRow := container.NewBorder(nil, nil, nil, ui.selectBtn, ui.folderEntry)

	ui.themeBtn = widget.NewButton(IconTheme+" "+ui.localization.GetText(KeyToggleTheme), ui.onToggleTheme)

	// Assign the handler after the initial state so it does not trigger a load
	ui.subfoldersCheck = widget.NewCheck(ui.localization.GetText(KeyIncludeSubfolders), nil)
	ui.subfoldersCheck.SetChecked(ui.settings.GetIncludeSubfolders())
	ui.subfoldersCheck.OnChanged = ui.onSubfoldersChanged

	ui.reloadBtn = widget.NewButton(IconReload+" "+ui.localization.GetText(KeyReload), ui.reload)

	ui.filterSelect = widget.NewSelect(nil, ui.onFilterChanged)
	ui.updateFilterOptions()

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	controls := container.NewHBox(ui.themeBtn, ui.subfoldersCheck, ui.reloadBtn, settingsBtn)
	controlRow := container.NewBorder(nil, nil, controls, container.NewGridWrap(
		fyne.NewSize(FilterSelectSize, ui.filterSelect.MinSize().Height), ui.filterSelect))

	ui.statusLabel = widget.NewLabel("")
	ui.spinner = widget.NewProgressBarInfinite()
	ui.spinner.Hide()
	statusRow := container.NewBorder(nil, nil, nil, ui.spinner, ui.statusLabel)

	top := container.NewVBox(ui.folderLabel, folderRow, controlRow, statusRow, widget.NewSeparator())

	ui.replayList = widget.NewList(
		func() int { return len(ui.visible) },
		func() fyne.CanvasObject { return ui.createReplayItem() },
		func(id widget.ListItemID, obj fyne.CanvasObject) { ui.updateReplayItem(id, obj) },
	)

	ui.window.SetContent(container.NewBorder(top, nil, nil, nil, ui.replayList))
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)
	quitItem := fyne.NewMenuItem(ui.localization.GetText(KeyQuit), ui.app.Quit)
	quitItem.IsQuit = true

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))

	available := ui.localization.GetAvailableLanguages()
	codes := make([]string, 0, len(available))
	for code := range available {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		langItem := fyne.NewMenuItem(available[code], func() {
			ui.onLanguageChange(code)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem, fyne.NewMenuItemSeparator(), quitItem),
		languageMenu,
	))
}

// onLanguageChange handles language change from the menu
func (ui *RootUI) onLanguageChange(code string) {
	ui.localization.SetLanguage(code)
	ui.settings.SetLanguage(code)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))

	ui.folderLabel.SetText(ui.localization.GetText(KeyReplayDirectory))
	ui.selectBtn.SetText(IconFolder + " " + ui.localization.GetText(KeySelectFolder))
	ui.themeBtn.SetText(IconTheme + " " + ui.localization.GetText(KeyToggleTheme))
	ui.subfoldersCheck.Text = ui.localization.GetText(KeyIncludeSubfolders)
	ui.subfoldersCheck.Refresh()
	ui.reloadBtn.SetText(IconReload + " " + ui.localization.GetText(KeyReload))

	ui.updateFilterOptions()
	if ui.set != nil {
		ui.statusLabel.SetText(ui.statusText(ui.set))
	}
	ui.replayList.Refresh()
}

// onFolderChanged stores the folder and reloads it
func (ui *RootUI) onFolderChanged(folder string) {
	ui.settings.SetReplayDirectory(strings.TrimSpace(folder))
	ui.reload()
	ui.restartWatcher()
}

// onSelectFolder opens the folder picker
func (ui *RootUI) onSelectFolder() {
	picker := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			ui.log.Warn().Err(err).Msg("folder picker failed")
			return
		}
		if uri == nil {
			return
		}
		ui.folderEntry.SetText(uri.Path())
		ui.onFolderChanged(uri.Path())
	}, ui.window)

	current := platform.ExpandHome(strings.TrimSpace(ui.folderEntry.Text))
	if current != "" {
		if lister, err := storage.ListerForURI(storage.NewFileURI(current)); err == nil {
			picker.SetLocation(lister)
		}
	}
	picker.Show()
}

// onToggleTheme flips the theme, persists it and applies it
func (ui *RootUI) onToggleTheme() {
	theme := ui.settings.ToggleTheme()
	ui.app.Settings().SetTheme(NewAppTheme(theme))
	ui.log.Debug().Str("theme", string(theme)).Msg("theme changed")
}

// onSubfoldersChanged stores the flag and reloads
func (ui *RootUI) onSubfoldersChanged(include bool) {
	ui.settings.SetIncludeSubfolders(include)
	ui.reload()
	ui.restartWatcher()
}

// onFilterChanged limits the list to replays with the selected character
func (ui *RootUI) onFilterChanged(selected string) {
	ui.filter, ui.hasFilter = model.CharacterByName(selected)
	ui.updateVisible()
	ui.replayList.Refresh()
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, ui.onSettingsSaved)
}

// onSettingsSaved applies stored settings to the running window
func (ui *RootUI) onSettingsSaved() {
	ui.loader.SetMaxParallel(ui.settings.GetMaxParallelParses())
	ui.localization.SetLanguage(ui.settings.GetLanguage())
	ui.refreshUITexts()
	ui.createMenu()
	ui.restartWatcher()
	ui.showToast(ui.localization.GetText(KeySettingsSaved))
}

// reload cancels any running load and loads the folder in the background
func (ui *RootUI) reload() {
	folder := strings.TrimSpace(ui.folderEntry.Text)
	include := ui.subfoldersCheck.Checked

	ui.mu.Lock()
	if ui.cancelLoad != nil {
		ui.cancelLoad()
	}
	ctx, cancel := context.WithCancel(context.Background())
	ui.cancelLoad = cancel
	ui.mu.Unlock()

	ui.statusLabel.SetText(ui.localization.Format(KeyScanning, map[string]any{"Folder": folder}))
	ui.spinner.Show()
	ui.spinner.Start()

	go func() {
		_, err := ui.loader.Load(ctx, folder, include)
		if err != nil && !errors.Is(err, context.Canceled) {
			ui.log.Warn().Err(err).Str("folder", folder).Msg("failed to load replay folder")
		}
	}()
}

// onReplaySetUpdate receives published sets from the loader goroutine
func (ui *RootUI) onReplaySetUpdate(set *model.ReplaySet) {
	fyne.Do(func() {
		ui.applyReplaySet(set)
	})
}

// applyReplaySet replaces the shown list; must run on the UI goroutine
func (ui *RootUI) applyReplaySet(set *model.ReplaySet) {
	ui.set = set

	ui.updateFilterOptions()
	ui.updateVisible()
	ui.replayList.Refresh()
	ui.replayList.ScrollToTop()

	ui.statusLabel.SetText(ui.statusText(set))
	if set.Status == model.ScanStatusError {
		ui.statusLabel.Importance = widget.DangerImportance
	} else {
		ui.statusLabel.Importance = widget.MediumImportance
	}
	ui.statusLabel.Refresh()

	if set.Status.IsFinished() {
		ui.spinner.Stop()
		ui.spinner.Hide()
	}
}

// statusText summarizes a set as "12 replays · 1 skipped"
func (ui *RootUI) statusText(set *model.ReplaySet) string {
	switch {
	case set.Status == model.ScanStatusError:
		return IconError + " " + ui.localization.GetText(KeyScanFailed) + ": " + set.Error
	case set.Status.IsActive():
		return ui.localization.Format(KeyScanning, map[string]any{"Folder": set.Folder})
	}

	var text string
	if set.Len() == 0 {
		text = ui.localization.GetText(KeyNoReplays)
	} else {
		text = ui.localization.Plural(KeyReplayCount, set.Len(), map[string]any{"Count": humanize.Comma(int64(set.Len()))})
	}
	if set.Skipped > 0 {
		text += MiddleDotSeparator + ui.localization.Plural(KeySkippedCount, set.Skipped, map[string]any{"Count": humanize.Comma(int64(set.Skipped))})
	}
	return text
}

// updateFilterOptions rebuilds the character choices from the playable characters of the current set
func (ui *RootUI) updateFilterOptions() {
	all := ui.localization.GetText(KeyAllCharacters)

	var chars []model.Character
	for _, c := range ui.set.Characters() {
		if c.IsPlayable() {
			chars = append(chars, c)
		}
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i].String() < chars[j].String() })

	options := make([]string, 0, len(chars)+1)
	options = append(options, all)
	keep := false
	for _, c := range chars {
		options = append(options, c.String())
		if ui.hasFilter && c == ui.filter {
			keep = true
		}
	}

	// Replacing Options does not fire OnChanged; SetSelected does, so restore state first
	ui.filterSelect.Options = options
	if !keep {
		ui.hasFilter = false
	}
	if ui.hasFilter {
		ui.filterSelect.Selected = ui.filter.String()
	} else {
		ui.filterSelect.Selected = all
	}
	ui.filterSelect.Refresh()
}

// updateVisible applies the character filter to the current set
func (ui *RootUI) updateVisible() {
	if ui.set == nil {
		ui.visible = nil
		return
	}
	if ui.hasFilter {
		ui.visible = ui.set.FilterByCharacter(ui.filter)
		return
	}
	ui.visible = ui.set.Replays
}

// createReplayItem creates a list row template
func (ui *RootUI) createReplayItem() fyne.CanvasObject {
	row := NewReplayRow(nil, ui.localization)
	row.SetCallbacks(ui.onRevealFile, ui.onOpenFile)
	return row
}

// updateReplayItem binds a recycled row to the replay at id
func (ui *RootUI) updateReplayItem(id widget.ListItemID, item fyne.CanvasObject) {
	if id < 0 || id >= len(ui.visible) {
		return
	}
	if row, ok := item.(*ReplayRow); ok {
		row.UpdateReplay(ui.visible[id])
	}
}

// onRevealFile shows the replay in the system file manager
func (ui *RootUI) onRevealFile(filePath string) {
	if err := platform.OpenFileInManager(filePath); err != nil {
		ui.log.Warn().Err(err).Str("path", filePath).Msg("failed to reveal replay")
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningFile), err), ui.window)
	}
}

// onOpenFile opens the replay with the default application (usually Slippi Launcher)
func (ui *RootUI) onOpenFile(filePath string) {
	if err := platform.OpenFileWithDefaultApp(filePath); err != nil {
		ui.log.Warn().Err(err).Str("path", filePath).Msg("failed to open replay")
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningFile), err), ui.window)
	}
}

// restartWatcher replaces the folder watcher to match the current folder and settings
func (ui *RootUI) restartWatcher() {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	if ui.watcher != nil {
		ui.watcher.Stop()
		ui.watcher = nil
	}

	if !ui.settings.GetAutoRefresh() {
		return
	}

	folder := platform.ExpandHome(strings.TrimSpace(ui.folderEntry.Text))
	if folder == "" {
		return
	}

	w, err := watch.NewWatcher(folder, ui.subfoldersCheck.Checked, ui.log)
	if err != nil {
		ui.log.Warn().Err(err).Msg("cannot create folder watcher")
		return
	}
	if err := w.Start(); err != nil {
		ui.log.Warn().Err(err).Str("folder", folder).Msg("cannot watch replay folder")
		return
	}
	ui.watcher = w

	go func() {
		for change := range w.Changes {
			ui.log.Debug().Str("file", change.File).Stringer("kind", change.Kind).Msg("replay folder changed")
			fyne.Do(ui.reload)
		}
	}()
}

// showToast shows a short-lived message over the window
func (ui *RootUI) showToast(message string) {
	popup := widget.NewPopUp(widget.NewLabel(message), ui.window.Canvas())
	popup.Show()

	go func() {
		<-time.After(ToastAutoHide)
		fyne.Do(popup.Hide)
	}()
}

// Close stops background work; the window calls it when closed
func (ui *RootUI) Close() {
	ui.mu.Lock()
	defer ui.mu.Unlock()

	if ui.cancelLoad != nil {
		ui.cancelLoad()
		ui.cancelLoad = nil
	}
	if ui.watcher != nil {
		ui.watcher.Stop()
		ui.watcher = nil
	}
}
