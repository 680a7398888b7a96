package model

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FramesPerSecond is the fixed simulation rate of the game
const FramesPerSecond = 60

// EndMethod describes how a game ended
type EndMethod uint8

const (
	EndUnresolved EndMethod = 0
	EndTime       EndMethod = 1
	EndGame       EndMethod = 2
	EndResolved   EndMethod = 3
	EndNoContest  EndMethod = 7
)

// String returns a human-friendly label for the end method
func (e EndMethod) String() string {
	switch e {
	case EndTime:
		return "Time"
	case EndGame:
		return "Game"
	case EndResolved:
		return "Resolved"
	case EndNoContest:
		return "No Contest"
	default:
		return "Unresolved"
	}
}

// Player represents one occupied port in a replay
type Player struct {
	Port        int       `json:"port"`
	Character   Character `json:"character"`
	NameTag     string    `json:"name_tag,omitempty"` // in-game tag, empty if none was set
	DisplayName string    `json:"display_name,omitempty"`
	ConnectCode string    `json:"connect_code,omitempty"`
	Costume     uint8     `json:"costume"`
	Team        uint8     `json:"team"`
	IsCPU       bool      `json:"is_cpu,omitempty"`
}

// Label returns the most specific human name for the player, or "" if none
func (p Player) Label() string {
	switch {
	case p.NameTag != "":
		return p.NameTag
	case p.DisplayName != "":
		return p.DisplayName
	case p.ConnectCode != "":
		return p.ConnectCode
	}
	return ""
}

// String renders the player as "Character (tag)"
func (p Player) String() string {
	if label := p.Label(); label != "" {
		return fmt.Sprintf("%s (%s)", p.Character, label)
	}
	return p.Character.String()
}

// Replay represents the parsed metadata of a single replay file
type Replay struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	ModTime   time.Time `json:"mod_time"`
	Stage     Stage     `json:"stage"`
	Players   []Player  `json:"players"`
	StartedAt time.Time `json:"started_at,omitempty"` // zero if the metadata block is missing
	Frames    int       `json:"frames,omitempty"`     // 0 if unknown
	EndMethod EndMethod `json:"end_method"`
	IsTeams   bool      `json:"is_teams,omitempty"`
	Platform  string    `json:"platform,omitempty"`
	Version   string    `json:"version,omitempty"`
}

// ReplayID derives a stable identifier from the replay path
func ReplayID(path string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(path))).String()
}

// Duration returns the game length, or 0 if the frame count is unknown
func (r *Replay) Duration() time.Duration {
	if r.Frames <= 0 {
		return 0
	}
	return time.Duration(r.Frames) * time.Second / FramesPerSecond
}

// GetDurationString returns the duration formatted as mm:ss, or "—" if unknown
func (r *Replay) GetDurationString() string {
	d := r.Duration()
	if d <= 0 {
		return "—"
	}

	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Matchup renders the players as "Fox vs Marth"
func (r *Replay) Matchup() string {
	if len(r.Players) == 0 {
		return "—"
	}

	parts := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, " vs ")
}

// GetDisplayTitle returns the file name without directory and extension
func (r *Replay) GetDisplayTitle() string {
	if r.Path == "" {
		return ""
	}

	name := filepath.Base(r.Path)
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}

// HasCharacter reports whether any player in the replay used the character
func (r *Replay) HasCharacter(c Character) bool {
	for _, p := range r.Players {
		if p.Character == c {
			return true
		}
	}
	return false
}
