package cli

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/slpkit/ripped/internal/index"
	"github.com/slpkit/ripped/internal/library"
	"github.com/slpkit/ripped/internal/logger"
	"github.com/slpkit/ripped/internal/ui"
)

const (
	AppID   = "io.github.slpkit.ripped"
	AppName = "ripped"
)

// runGUI opens the replay browser and blocks until the window is closed
func runGUI(o *options) error {
	log := logger.For(o.log, logger.ComponentApp)
	log.Info().Str("version", o.version).Msg("starting ripped")

	ix, err := index.Open(context.Background(), logger.For(o.log, logger.ComponentIndex))
	if err != nil {
		return fmt.Errorf("failed to open replay index: %w", err)
	}
	defer ix.Close()

	fyneApp := app.NewWithID(AppID)
	window := fyneApp.NewWindow(fmt.Sprintf("%s v%s", AppName, o.version))
	window.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	loader := library.NewService(ix, library.DefaultParallel, logger.For(o.log, logger.ComponentLibrary))
	ui.NewRootUI(window, fyneApp, loader, logger.For(o.log, logger.ComponentUI))

	window.ShowAndRun()

	stats := ix.Stats()
	log.Debug().
		Int64("index_hits", stats.Hits.Load()).
		Int64("index_misses", stats.Misses.Load()).
		Msg("shutting down")
	return nil
}
