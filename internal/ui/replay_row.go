package ui

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"

	"github.com/slpkit/ripped/internal/model"
)

// ReplayRow renders one replay of the list
type ReplayRow struct {
	widget.BaseWidget

	replay       *model.Replay
	localization *Localization

	stageLabel   *widget.Label
	matchupLabel *widget.Label
	detailLabel  *widget.Label
	fileLabel    *widget.Label

	revealBtn *widget.Button
	openBtn   *widget.Button

	onReveal func(filePath string)
	onOpen   func(filePath string)
}

// NewReplayRow creates a new replay row widget; replay may be nil for list templates
func NewReplayRow(replay *model.Replay, localization *Localization) *ReplayRow {
	rr := &ReplayRow{
		replay:       replay,
		localization: localization,
	}
	rr.ExtendBaseWidget(rr)
	rr.createUI()
	rr.updateFromReplay()
	return rr
}

// SetCallbacks sets the action callbacks
func (rr *ReplayRow) SetCallbacks(onReveal, onOpen func(filePath string)) {
	rr.onReveal = onReveal
	rr.onOpen = onOpen
}

// UpdateReplay shows another replay in this row
func (rr *ReplayRow) UpdateReplay(replay *model.Replay) {
	rr.replay = replay
	rr.updateFromReplay()
	rr.Refresh()
}

func (rr *ReplayRow) createUI() {
	rr.stageLabel = widget.NewLabel("")
	rr.stageLabel.TextStyle = fyne.TextStyle{Bold: true}
	rr.stageLabel.Truncation = fyne.TextTruncateEllipsis

	rr.matchupLabel = widget.NewLabel("")
	rr.matchupLabel.Truncation = fyne.TextTruncateEllipsis

	rr.detailLabel = widget.NewLabel("")
	rr.detailLabel.Alignment = fyne.TextAlignTrailing
	rr.detailLabel.TextStyle = fyne.TextStyle{Monospace: true}

	rr.fileLabel = widget.NewLabel("")
	rr.fileLabel.Importance = widget.LowImportance
	rr.fileLabel.Truncation = fyne.TextTruncateEllipsis

	// Handlers read rr.replay at click time; list rows are recycled
	rr.revealBtn = widget.NewButton(rr.localization.GetText(KeyReveal), func() {
		if rr.replay != nil && rr.onReveal != nil {
			rr.onReveal(rr.replay.Path)
		}
	})
	rr.revealBtn.Importance = widget.MediumImportance

	rr.openBtn = widget.NewButton(rr.localization.GetText(KeyOpen), func() {
		if rr.replay != nil && rr.onOpen != nil {
			rr.onOpen(rr.replay.Path)
		}
	})
	rr.openBtn.Importance = widget.MediumImportance
}

func (rr *ReplayRow) updateFromReplay() {
	rr.revealBtn.SetText(rr.localization.GetText(KeyReveal))
	rr.openBtn.SetText(rr.localization.GetText(KeyOpen))

	if rr.replay == nil {
		rr.stageLabel.SetText(DashPlaceholder)
		rr.matchupLabel.SetText("")
		rr.detailLabel.SetText("")
		rr.fileLabel.SetText("")
		rr.revealBtn.Disable()
		rr.openBtn.Disable()
		return
	}

	rr.stageLabel.SetText(rr.replay.Stage.String())
	rr.matchupLabel.SetText(rr.replay.Matchup())
	rr.detailLabel.SetText(formatReplayDetails(rr.replay, rr.localization))
	rr.fileLabel.SetText(rr.replay.GetDisplayTitle())
	rr.revealBtn.Enable()
	rr.openBtn.Enable()
}

// formatReplayDetails renders "3 days ago · 04:12 · 1.2 MB", naming games that did not end by stocks
func formatReplayDetails(replay *model.Replay, localization *Localization) string {
	parts := make([]string, 0, 3)

	switch {
	case !replay.StartedAt.IsZero():
		parts = append(parts, humanize.Time(replay.StartedAt))
	case !replay.ModTime.IsZero():
		parts = append(parts, humanize.Time(replay.ModTime))
	default:
		parts = append(parts, localization.GetText(KeyUnknownDate))
	}

	parts = append(parts, replay.GetDurationString())
	switch replay.EndMethod {
	case model.EndTime:
		parts = append(parts, localization.GetText(KeyEndTime))
	case model.EndNoContest:
		parts = append(parts, localization.GetText(KeyEndNoContest))
	}
	if replay.Size > 0 {
		parts = append(parts, humanize.Bytes(uint64(replay.Size)))
	}
	return strings.Join(parts, MiddleDotSeparator)
}

// CreateRenderer creates the widget renderer
func (rr *ReplayRow) CreateRenderer() fyne.WidgetRenderer {
	return &replayRowRenderer{row: rr}
}

type replayRowRenderer struct {
	row    *ReplayRow
	layout *fyne.Container
}

// Layout arranges the components
func (r *replayRowRenderer) Layout(size fyne.Size) {
	if r.layout == nil {
		r.createLayout()
	}
	if size.Width < RowMinWidth {
		size.Width = RowMinWidth
	}
	if size.Height < RowMinHeight {
		size.Height = RowMinHeight
	}
	r.layout.Resize(size)
}

// MinSize returns the minimum size
func (r *replayRowRenderer) MinSize() fyne.Size {
	if r.layout == nil {
		r.createLayout()
	}
	return r.layout.MinSize().Max(fyne.NewSize(RowMinWidth, RowMinHeight))
}

// Refresh refreshes the renderer
func (r *replayRowRenderer) Refresh() {
	if r.layout == nil {
		r.createLayout()
	}
	r.layout.Refresh()
}

// Objects returns the container objects
func (r *replayRowRenderer) Objects() []fyne.CanvasObject {
	if r.layout == nil {
		r.createLayout()
	}
	return []fyne.CanvasObject{r.layout}
}

// Destroy cleans up the renderer
func (r *replayRowRenderer) Destroy() {}

func (r *replayRowRenderer) createLayout() {
	rr := r.row

	fixedWidth := func(w float32, obj fyne.CanvasObject) fyne.CanvasObject {
		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(w, obj.MinSize().Height))
		return container.NewStack(spacer, obj)
	}

	left := fixedWidth(StageLabelWidth, rr.stageLabel)
	center := container.NewVBox(rr.matchupLabel, rr.fileLabel)
	actions := container.NewHBox(rr.revealBtn, rr.openBtn)
	right := container.NewBorder(nil, nil, nil, actions, rr.detailLabel)

	r.layout = container.NewVBox(
		container.NewBorder(nil, nil, left, right, center),
		widget.NewSeparator(),
	)
}
