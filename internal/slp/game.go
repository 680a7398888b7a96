package slp

import (
	"fmt"
	"time"
)

// Event command bytes
const (
	CmdMessageSplitter byte = 0x10
	CmdEventPayloads   byte = 0x35
	CmdGameStart       byte = 0x36
	CmdPreFrame        byte = 0x37
	CmdPostFrame       byte = 0x38
	CmdGameEnd         byte = 0x39
	CmdFrameStart      byte = 0x3A
	CmdItemUpdate      byte = 0x3B
	CmdFrameBookend    byte = 0x3C
	CmdGeckoList       byte = 0x3D
)

// FirstFrame is the index of the first frame in a replay; frames before 0
// are the "Ready, GO!" countdown.
const FirstFrame = -123

// NumPorts is the number of controller ports in a game
const NumPorts = 4

// PlayerType is the occupant type of a port
type PlayerType uint8

const (
	PlayerHuman PlayerType = 0
	PlayerCPU   PlayerType = 1
	PlayerDemo  PlayerType = 2
	PlayerEmpty PlayerType = 3
)

// Version is the replay format version written by the recording client
type Version struct {
	Major uint8
	Minor uint8
	Build uint8
}

// AtLeast reports whether v is the given version or newer
func (v Version) AtLeast(major, minor, build uint8) bool {
	if v.Major != major {
		return v.Major > major
	}
	if v.Minor != minor {
		return v.Minor > minor
	}
	return v.Build >= build
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Build)
}

// PlayerStart is a port's entry in the Game Start event
type PlayerStart struct {
	Port        int // 1-based
	Character   uint8
	Type        PlayerType
	Stocks      uint8
	Costume     uint8
	Team        uint8
	NameTag     string
	DisplayName string
	ConnectCode string
}

// GameStart holds the decoded Game Start event
type GameStart struct {
	Version Version
	IsTeams bool
	Stage   uint16
	IsPAL   bool
	Players []PlayerStart // occupied ports only, in port order
}

// GameEnd holds the decoded Game End event
type GameEnd struct {
	Method        uint8
	LRASInitiator int8 // -1 when nobody quit out, or on versions before 2.0.0
}

// Metadata holds the fields read from the trailing metadata block
type Metadata struct {
	StartAt   time.Time
	LastFrame int
	HasFrames bool
	PlayedOn  string
	Raw       map[string]any
}

// Frames returns the number of frames in the game including the countdown
func (m *Metadata) Frames() int {
	if m == nil || !m.HasFrames {
		return 0
	}
	return m.LastFrame - FirstFrame + 1
}

// Game is the decoded header of a replay
type Game struct {
	Start     GameStart
	End       *GameEnd  // nil if the replay has no Game End event
	Metadata  *Metadata // nil if metadata was skipped or absent
	Truncated bool      // true if the event stream ended mid-event
}
