package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/slpkit/ripped/internal/config"
	"github.com/slpkit/ripped/internal/index"
	"github.com/slpkit/ripped/internal/library"
	"github.com/slpkit/ripped/internal/logger"
	"github.com/slpkit/ripped/internal/model"
	"github.com/slpkit/ripped/internal/platform"
)

// dateLayout is used for replay start times in the table
const dateLayout = "2006-01-02 15:04"

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newScanCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [folder]",
		Short: "List the replays in a folder",
		Long:  "Scan decodes every .slp file in the folder and prints one line per replay. Files that cannot be decoded are skipped.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(o.v)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if len(args) == 1 {
				cfg.Folder = args[0]
			}
			if cfg.Folder == "" {
				dir, err := platform.GetDefaultReplayDir()
				if err != nil {
					return err
				}
				cfg.Folder = dir
			}

			stats, _ := cmd.Flags().GetBool("stats")
			return runScan(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, stats, o.log)
		},
	}

	cmd.Flags().BoolP("recursive", "r", false, "include subfolders")
	cmd.Flags().Bool("json", false, "print the replay set as JSON")
	cmd.Flags().IntP("parallel", "p", library.DefaultParallel, "files decoded concurrently (1-16)")
	cmd.Flags().Bool("stats", false, "print how often each character appears")

	for _, name := range []string{"recursive", "json", "parallel"} {
		_ = o.v.BindPFlag(name, cmd.Flags().Lookup(name))
	}
	return cmd
}

// runScan loads cfg.Folder and writes the result to stdout; the summary goes to stderr
func runScan(ctx context.Context, stdout, stderr io.Writer, cfg config.CLI, stats bool, log zerolog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	ix, err := index.Open(ctx, logger.For(log, logger.ComponentIndex))
	if err != nil {
		return fmt.Errorf("failed to open replay index: %w", err)
	}
	defer ix.Close()

	started := time.Now()
	svc := library.NewService(ix, cfg.Parallel, logger.For(log, logger.ComponentLibrary))
	set, err := svc.Load(ctx, cfg.Folder, cfg.Recursive)
	if err != nil {
		return err
	}

	if cfg.JSON {
		return writeScanJSON(stdout, set)
	}

	if err := writeScanTable(stdout, set); err != nil {
		return err
	}

	if stats {
		counts, err := ix.CharacterCounts(ctx)
		if err != nil {
			return err
		}
		if err := writeCharacterStats(stdout, counts); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(stderr, scanSummary(set, time.Since(started)))
	return err
}

// writeScanJSON writes the whole set, replays in glob order
func writeScanJSON(w io.Writer, set *model.ReplaySet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(set)
}

// writeScanTable writes one row per replay
func writeScanTable(w io.Writer, set *model.ReplaySet) error {
	if set.Len() == 0 {
		_, err := fmt.Fprintln(w, "No replays found")
		return err
	}

	rows := make([][]string, 0, set.Len())
	for _, r := range set.Replays {
		date := "—"
		if !r.StartedAt.IsZero() {
			date = r.StartedAt.Local().Format(dateLayout)
		}
		rows = append(rows, []string{
			r.GetDisplayTitle(),
			r.Stage.String(),
			r.Matchup(),
			r.GetDurationString(),
			r.EndMethod.String(),
			date,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("FILE", "STAGE", "PLAYERS", "DURATION", "END", "DATE").
		Rows(rows...)

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// writeCharacterStats writes character usage, most played first
func writeCharacterStats(w io.Writer, counts map[model.Character]int) error {
	chars := make([]model.Character, 0, len(counts))
	for c := range counts {
		chars = append(chars, c)
	}
	sort.Slice(chars, func(i, j int) bool {
		if counts[chars[i]] != counts[chars[j]] {
			return counts[chars[i]] > counts[chars[j]]
		}
		return chars[i].String() < chars[j].String()
	})

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("CHARACTER", "REPLAYS")
	for _, c := range chars {
		t.Row(c.String(), humanize.Comma(int64(counts[c])))
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// scanSummary renders "3 replays (1.2 MB), 1 skipped in 15ms"
func scanSummary(set *model.ReplaySet, took time.Duration) string {
	var size int64
	for _, r := range set.Replays {
		size += r.Size
	}

	summary := fmt.Sprintf("%s replays (%s)", humanize.Comma(int64(set.Len())), humanize.Bytes(uint64(size)))
	if set.Skipped > 0 {
		summary += fmt.Sprintf(", %s skipped", humanize.Comma(int64(set.Skipped)))
	}
	return summary + " in " + took.Round(time.Millisecond).String()
}
