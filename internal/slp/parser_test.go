package slp

import (
	"bytes"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/slpkit/ripped/internal/slp/slptest"
)

func TestParse_FullReplay(t *testing.T) {
	data := slptest.Default().Bytes()

	game, err := Parse(bytes.NewReader(data), Options{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if game.Start.Version.String() != "3.9.0" {
		t.Errorf("Expected version 3.9.0, got %s", game.Start.Version)
	}
	if game.Start.Stage != 31 {
		t.Errorf("Expected stage 31, got %d", game.Start.Stage)
	}
	if len(game.Start.Players) != 2 {
		t.Fatalf("Expected 2 players, got %d", len(game.Start.Players))
	}

	p1 := game.Start.Players[0]
	if p1.Port != 1 || p1.Character != 2 || p1.Stocks != 4 {
		t.Errorf("Unexpected first player: %+v", p1)
	}
	if p1.NameTag != "ABCD" {
		t.Errorf("Expected name tag 'ABCD', got '%s'", p1.NameTag)
	}
	if p1.DisplayName != "Alice" {
		t.Errorf("Expected display name 'Alice', got '%s'", p1.DisplayName)
	}
	if p1.ConnectCode != "ALIC#123" {
		t.Errorf("Expected connect code 'ALIC#123', got '%s'", p1.ConnectCode)
	}

	p2 := game.Start.Players[1]
	if p2.Port != 3 || p2.Character != 9 || p2.Costume != 2 {
		t.Errorf("Unexpected second player: %+v", p2)
	}
	if p2.NameTag != "" {
		t.Errorf("Expected empty name tag, got '%s'", p2.NameTag)
	}

	if game.End == nil {
		t.Fatal("Expected game end event")
	}
	if game.End.Method != 2 || game.End.LRASInitiator != -1 {
		t.Errorf("Unexpected game end: %+v", game.End)
	}

	if game.Metadata == nil {
		t.Fatal("Expected metadata")
	}
	want := time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC)
	if !game.Metadata.StartAt.Equal(want) {
		t.Errorf("Expected startAt %v, got %v", want, game.Metadata.StartAt)
	}
	if game.Metadata.Frames() != 3600+124 {
		t.Errorf("Expected %d frames, got %d", 3600+124, game.Metadata.Frames())
	}
	if game.Metadata.PlayedOn != "dolphin" {
		t.Errorf("Expected playedOn 'dolphin', got '%s'", game.Metadata.PlayedOn)
	}
	if _, ok := game.Metadata.Raw["players"].(map[string]any); !ok {
		t.Errorf("Expected nested players object in raw metadata")
	}
	if game.Truncated {
		t.Error("Expected complete replay")
	}
}

func TestParse_Options(t *testing.T) {
	data := slptest.Default().Bytes()

	game, err := Parse(bytes.NewReader(data), Options{SkipEnd: true})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if game.End != nil {
		t.Error("Expected game end to be skipped")
	}
	if game.Metadata == nil {
		t.Error("Expected metadata to still be read")
	}

	game, err = Parse(bytes.NewReader(data), Options{SkipMetadata: true})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if game.Metadata != nil {
		t.Error("Expected metadata to be skipped")
	}
	if game.End == nil {
		t.Error("Expected game end to be read")
	}
}

func TestParse_InProgress(t *testing.T) {
	r := slptest.Default()
	r.InProgress = true

	game, err := Parse(bytes.NewReader(r.Bytes()), Options{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if game.End != nil || game.Metadata != nil {
		t.Error("Expected no game end or metadata for in-progress replay")
	}
	if len(game.Start.Players) != 2 {
		t.Errorf("Expected 2 players, got %d", len(game.Start.Players))
	}

	// Cut in the middle of the last post-frame event
	data := r.Bytes()
	game, err = Parse(bytes.NewReader(data[:len(data)-3]), Options{})
	if err != nil {
		t.Fatalf("Expected no error for truncated frames, got %v", err)
	}
	if !game.Truncated {
		t.Error("Expected truncated flag")
	}
}

func TestParse_OldVersion(t *testing.T) {
	r := slptest.Default()
	r.Major, r.Minor, r.Build = 1, 0, 0
	r.GameStartSize = 0x140
	r.EndMethod = 3
	r.LRASInitiator = 2

	game, err := Parse(bytes.NewReader(r.Bytes()), Options{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, p := range game.Start.Players {
		if p.NameTag != "" || p.ConnectCode != "" || p.DisplayName != "" {
			t.Errorf("Expected no names for 1.0.0 replay, got %+v", p)
		}
	}
	if game.End.LRASInitiator != -1 {
		t.Errorf("Expected LRAS initiator to be ignored before 2.0.0, got %d", game.End.LRASInitiator)
	}
}

func TestParse_CPUAndTeams(t *testing.T) {
	r := slptest.Default()
	r.IsTeams = true
	r.Players = append(r.Players, slptest.Player{Port: 4, Character: 25, CPU: true, Team: 1})

	game, err := Parse(bytes.NewReader(r.Bytes()), Options{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !game.Start.IsTeams {
		t.Error("Expected teams game")
	}
	if len(game.Start.Players) != 3 {
		t.Fatalf("Expected 3 players, got %d", len(game.Start.Players))
	}
	cpu := game.Start.Players[2]
	if cpu.Port != 4 || cpu.Type != PlayerCPU || cpu.Team != 1 {
		t.Errorf("Unexpected CPU player: %+v", cpu)
	}
}

func TestParse_Errors(t *testing.T) {
	valid := slptest.Default()
	raw := valid.Raw()

	envelope := func(raw []byte) []byte {
		var buf bytes.Buffer
		buf.Write([]byte{'{', 'U', 3, 'r', 'a', 'w', '[', '$', 'U', '#', 'l'})
		n := len(raw)
		buf.Write([]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
		buf.Write(raw)
		buf.WriteByte('}')
		return buf.Bytes()
	}

	// Game Start is the event right after Event Payloads
	payloadsLen := int(raw[1]) + 1
	withUnknown := append([]byte{}, raw...)
	withUnknown = append(withUnknown, 0x77)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"plain text", []byte("hello world"), ErrNotReplay},
		{"empty", nil, ErrNotReplay},
		{"wrong first key", []byte{'{', 'U', 3, 'a', 'b', 'c'}, ErrNotReplay},
		{"no event payloads", envelope(raw[payloadsLen:]), ErrMissingPayloads},
		{"frame before game start", envelope(append(append([]byte{}, raw[:payloadsLen]...), 0x37, 0, 0, 0, 0, 0, 0, 0, 0)), ErrMissingGameStart},
		{"payloads only", envelope(raw[:payloadsLen]), ErrMissingGameStart},
		{"truncated game start", envelope(raw[:payloadsLen+20]), ErrTruncated},
		{"unknown command", envelope(withUnknown), ErrUnknownCommand},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse(bytes.NewReader(test.data), Options{})
			if !errors.Is(err, test.want) {
				t.Errorf("Expected %v, got %v", test.want, err)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := slptest.WriteFile(t, dir, "Game_1.slp", slptest.Default())

	game, err := ParseFile(path, Options{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if game.Start.Stage != 31 {
		t.Errorf("Expected stage 31, got %d", game.Start.Stage)
	}

	_, err = ParseFile(filepath.Join(dir, "missing.slp"), Options{})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}

	bad := slptest.WriteBytes(t, dir, "bad.slp", []byte("not a replay"))
	_, err = ParseFile(bad, Options{})
	if !errors.Is(err, ErrNotReplay) {
		t.Errorf("Expected ErrNotReplay, got %v", err)
	}
}

func TestVersion_AtLeast(t *testing.T) {
	tests := []struct {
		v                   Version
		major, minor, build uint8
		expected            bool
	}{
		{Version{3, 9, 0}, 3, 9, 0, true},
		{Version{3, 9, 0}, 3, 7, 0, true},
		{Version{3, 9, 0}, 3, 12, 0, false},
		{Version{2, 0, 1}, 2, 0, 0, true},
		{Version{1, 5, 0}, 2, 0, 0, false},
		{Version{0, 1, 0}, 0, 1, 1, false},
	}

	for _, test := range tests {
		result := test.v.AtLeast(test.major, test.minor, test.build)
		if result != test.expected {
			t.Errorf("%s.AtLeast(%d, %d, %d) = %v, expected %v",
				test.v, test.major, test.minor, test.build, result, test.expected)
		}
	}
}
