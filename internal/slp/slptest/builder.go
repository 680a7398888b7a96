// Package slptest builds synthetic replay files for tests.
package slptest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// GameStartSize is the Game Start payload size of a 3.9.0 replay
const GameStartSize = 0x2A0

// Frame event payload sizes used by the builder; real replays use larger ones
const (
	PreFrameSize  = 8
	PostFrameSize = 8
)

// Player describes an occupied port
type Player struct {
	Port        int // 1-based
	Character   uint8
	CPU         bool
	Stocks      uint8
	Costume     uint8
	Team        uint8
	NameTag     string // UTF-8, encoded to Shift-JIS
	DisplayName string
	ConnectCode string
}

// Replay describes the replay to build
type Replay struct {
	Major, Minor, Build uint8
	IsTeams             bool
	Stage               uint16
	Players             []Player
	Frames              int
	// GameStartSize overrides the Game Start payload size, for older versions
	GameStartSize int
	// EndMethod is written in a Game End event when non-zero
	EndMethod     uint8
	LRASInitiator int8
	// InProgress writes a zero raw length and no Game End or metadata
	InProgress bool
	StartAt    string
	PlayedOn   string
	// LastFrame is written to metadata when HasLastFrame is set
	LastFrame    int32
	HasLastFrame bool
}

// Default returns a two-player 3.9.0 replay on Battlefield, Fox vs Marth
func Default() Replay {
	return Replay{
		Major: 3, Minor: 9, Build: 0,
		Stage: 31,
		Players: []Player{
			{Port: 1, Character: 2, Stocks: 4, NameTag: "ＡＢＣＤ", DisplayName: "Alice", ConnectCode: "ALIC＃123"},
			{Port: 3, Character: 9, Stocks: 4, Costume: 2, DisplayName: "Bob", ConnectCode: "BOB＃9"},
		},
		Frames:        10,
		EndMethod:     2,
		LRASInitiator: -1,
		StartAt:       "2024-03-01T18:30:00Z",
		PlayedOn:      "dolphin",
		LastFrame:     3600,
		HasLastFrame:  true,
	}
}

func sjis(s string) []byte {
	out, _, err := transform.Bytes(japanese.ShiftJIS.NewEncoder(), []byte(s))
	if err != nil {
		panic(err)
	}
	return out
}

// Raw returns the event stream of the replay
func (r Replay) Raw() []byte {
	gsSize := r.GameStartSize
	if gsSize == 0 {
		gsSize = GameStartSize
	}

	var buf bytes.Buffer

	// Event Payloads
	sizes := []struct {
		cmd  byte
		size uint16
	}{
		{0x36, uint16(gsSize)},
		{0x37, PreFrameSize},
		{0x38, PostFrameSize},
		{0x39, 2},
	}
	buf.WriteByte(0x35)
	buf.WriteByte(byte(len(sizes)*3 + 1))
	for _, s := range sizes {
		buf.WriteByte(s.cmd)
		_ = binary.Write(&buf, binary.BigEndian, s.size)
	}

	// Game Start
	gs := make([]byte, gsSize+1)
	gs[0] = 0x36
	gs[1], gs[2], gs[3] = r.Major, r.Minor, r.Build
	if r.IsTeams {
		gs[0x0D] = 1
	}
	binary.BigEndian.PutUint16(gs[0x13:], r.Stage)
	for i := 0; i < 4; i++ {
		gs[0x65+i*0x24+1] = 3 // empty
	}
	for _, p := range r.Players {
		i := p.Port - 1
		block := 0x65 + i*0x24
		gs[block] = p.Character
		gs[block+1] = 0
		if p.CPU {
			gs[block+1] = 1
		}
		gs[block+2] = p.Stocks
		gs[block+3] = p.Costume
		gs[block+9] = p.Team
		putString(gs, 0x161+i*0x10, 0x10, sjis(p.NameTag))
		putString(gs, 0x1A5+i*0x1F, 0x1F, sjis(p.DisplayName))
		putString(gs, 0x221+i*0x0A, 0x0A, sjis(p.ConnectCode))
	}
	buf.Write(gs)

	// Frames
	for f := 0; f < r.Frames; f++ {
		buf.WriteByte(0x37)
		buf.Write(make([]byte, PreFrameSize))
		buf.WriteByte(0x38)
		buf.Write(make([]byte, PostFrameSize))
	}

	if r.EndMethod != 0 && !r.InProgress {
		buf.Write([]byte{0x39, r.EndMethod, byte(r.LRASInitiator)})
	}
	return buf.Bytes()
}

func putString(dst []byte, off, n int, s []byte) {
	if off+n > len(dst) {
		return
	}
	copy(dst[off:off+n-1], s)
}

// Bytes returns the complete replay file
func (r Replay) Bytes() []byte {
	raw := r.Raw()

	var buf bytes.Buffer
	buf.WriteByte('{')
	writeKey(&buf, "raw")
	buf.Write([]byte{'[', '$', 'U', '#', 'l'})
	if r.InProgress {
		_ = binary.Write(&buf, binary.BigEndian, int32(0))
		buf.Write(raw)
		return buf.Bytes()
	}
	_ = binary.Write(&buf, binary.BigEndian, int32(len(raw)))
	buf.Write(raw)

	writeKey(&buf, "metadata")
	buf.WriteByte('{')
	if r.StartAt != "" {
		writeKey(&buf, "startAt")
		writeString(&buf, r.StartAt)
	}
	if r.HasLastFrame {
		writeKey(&buf, "lastFrame")
		buf.WriteByte('l')
		_ = binary.Write(&buf, binary.BigEndian, r.LastFrame)
	}
	writeKey(&buf, "players")
	buf.WriteByte('{')
	for i, p := range r.Players {
		writeKey(&buf, string(rune('0'+p.Port-1)))
		buf.WriteByte('{')
		writeKey(&buf, "names")
		buf.WriteByte('{')
		writeKey(&buf, "netplay")
		writeString(&buf, p.DisplayName)
		buf.WriteByte('}')
		writeKey(&buf, "characters")
		// optimized object: {$l#U1 "<id>" <int32>}
		buf.Write([]byte{'{', '$', 'l', '#', 'U', 1})
		writeKey(&buf, string(rune('0'+i)))
		_ = binary.Write(&buf, binary.BigEndian, int32(r.LastFrame))
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	if r.PlayedOn != "" {
		writeKey(&buf, "playedOn")
		writeString(&buf, r.PlayedOn)
	}
	buf.WriteByte('}')
	buf.WriteByte('}')
	return buf.Bytes()
}

func writeKey(buf *bytes.Buffer, s string) {
	buf.WriteByte('U')
	buf.WriteByte(byte(len(s)))
	buf.WriteString(s)
}

func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('S')
	writeKey(buf, s)
}

// WriteFile writes the replay to dir/name, creating parent directories
func WriteFile(t testing.TB, dir, name string, r Replay) string {
	t.Helper()
	return WriteBytes(t, dir, name, r.Bytes())
}

// WriteBytes writes arbitrary content to dir/name, creating parent directories
func WriteBytes(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write replay: %v", err)
	}
	return path
}
