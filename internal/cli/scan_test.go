package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/slpkit/ripped/internal/logger"
	"github.com/slpkit/ripped/internal/model"
	"github.com/slpkit/ripped/internal/slp/slptest"
)

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	second := slptest.Default()
	second.Stage = 32
	second.Players[0].Character = 20
	second.EndMethod = 1

	slptest.WriteFile(t, dir, "Game_1.slp", slptest.Default())
	slptest.WriteBytes(t, dir, "Game_2.slp", []byte("garbage"))
	slptest.WriteFile(t, dir, "Game_3.slp", second)
	slptest.WriteFile(t, dir, "2024-03/Game_4.slp", slptest.Default())
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	cmd := NewRootCommand("1.2.3")
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestScan_Table(t *testing.T) {
	dir := writeFixtures(t)

	stdout, stderr, err := execute(t, "scan", dir)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, want := range []string{"FILE", "STAGE", "Game_1", "Game_3", "Battlefield", "Final Destination", "Fox (ABCD) vs Marth (Bob)", "01:02", "END", "Time"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Expected output to contain '%s', got:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "Game_4") {
		t.Error("Expected subfolder replay to be excluded without --recursive")
	}
	if strings.Index(stdout, "Game_1") > strings.Index(stdout, "Game_3") {
		t.Error("Expected replays in file order")
	}
	if !strings.Contains(stderr, "2 replays") || !strings.Contains(stderr, "1 skipped") {
		t.Errorf("Unexpected summary '%s'", stderr)
	}
}

func TestScan_RecursiveJSON(t *testing.T) {
	dir := writeFixtures(t)

	stdout, _, err := execute(t, "scan", "--recursive", "--json", dir)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var set model.ReplaySet
	if err := json.Unmarshal([]byte(stdout), &set); err != nil {
		t.Fatalf("Expected valid JSON, got %v:\n%s", err, stdout)
	}
	if set.Len() != 3 {
		t.Errorf("Expected 3 replays, got %d", set.Len())
	}
	if set.Skipped != 1 {
		t.Errorf("Expected 1 skipped file, got %d", set.Skipped)
	}
	if !set.IncludeSubfolders {
		t.Error("Expected subfolder flag in output")
	}
	if !strings.Contains(stdout, `"stage": "Battlefield"`) || !strings.Contains(stdout, `"character": "Fox"`) {
		t.Errorf("Expected stages and characters by name, got:\n%s", stdout)
	}
	if set.Replays[0].Stage != model.StageBattlefield {
		t.Errorf("Expected Battlefield, got %s", set.Replays[0].Stage)
	}
	if set.Replays[0].Players[0].NameTag != "ABCD" {
		t.Errorf("Expected name tag 'ABCD', got '%s'", set.Replays[0].Players[0].NameTag)
	}
}

func TestScan_FolderFromConfigFile(t *testing.T) {
	dir := writeFixtures(t)
	cfgFile := filepath.Join(t.TempDir(), "ripped.yaml")
	content := "folder: " + dir + "\nrecursive: true\n"
	if err := os.WriteFile(cfgFile, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	stdout, _, err := execute(t, "--config", cfgFile, "scan")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.Contains(stdout, "Game_4") {
		t.Errorf("Expected recursive scan from config, got:\n%s", stdout)
	}
}

func TestScan_Stats(t *testing.T) {
	dir := writeFixtures(t)

	stdout, _, err := execute(t, "scan", "--stats", dir)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	at := strings.Index(stdout, "CHARACTER")
	if at < 0 {
		t.Fatalf("Expected character stats, got:\n%s", stdout)
	}
	stats := stdout[at:]

	order := []string{"Marth", "Falco", "Fox"}
	last := -1
	for _, name := range order {
		i := strings.Index(stats, name)
		if i < 0 {
			t.Errorf("Expected stats to contain '%s', got:\n%s", name, stats)
			continue
		}
		if i < last {
			t.Errorf("Expected '%s' after the more played characters, got:\n%s", name, stats)
		}
		last = i
	}
}

func TestOptions_VerboseFromConfig(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "ripped.yaml")
	if err := os.WriteFile(cfgFile, []byte("verbose: true\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	o := &options{v: viper.New(), log: logger.Nop()}
	cmd := &cobra.Command{}
	cmd.Flags().String("config", cfgFile, "")

	if err := o.init(cmd); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if o.log.GetLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level from config, got %s", o.log.GetLevel())
	}

	o = &options{v: viper.New(), log: logger.Nop()}
	cmd = &cobra.Command{}
	cmd.Flags().String("config", "", "")
	t.Chdir(t.TempDir())
	if err := o.init(cmd); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if o.log.GetLevel() != zerolog.InfoLevel {
		t.Errorf("Expected info level by default, got %s", o.log.GetLevel())
	}
}

func TestScan_MissingFolder(t *testing.T) {
	stdout, _, err := execute(t, "scan", filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Expected missing folder to list nothing, got %v", err)
	}
	if !strings.Contains(stdout, "No replays found") {
		t.Errorf("Unexpected output '%s'", stdout)
	}
}

func TestScan_TooManyArgs(t *testing.T) {
	if _, _, err := execute(t, "scan", "a", "b"); err == nil {
		t.Error("Expected error for two folders")
	}
}

func TestScanSummary(t *testing.T) {
	set := model.NewReplaySet("/r", false)
	set.ReplaceAll([]*model.Replay{{Size: 1500}, {Size: 1500}}, 0)

	got := scanSummary(set, 15*time.Millisecond)
	if got != "2 replays (3.0 kB) in 15ms" {
		t.Errorf("Unexpected summary '%s'", got)
	}

	set.Skipped = 1200
	got = scanSummary(set, 0)
	if got != "2 replays (3.0 kB), 1,200 skipped in 0s" {
		t.Errorf("Unexpected summary '%s'", got)
	}
}

func TestWriteScanTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := writeScanTable(&buf, model.NewReplaySet("/r", false)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No replays found" {
		t.Errorf("Unexpected output '%s'", buf.String())
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !strings.HasPrefix(stdout, "ripped 1.2.3 (") {
		t.Errorf("Unexpected version output '%s'", stdout)
	}
}
