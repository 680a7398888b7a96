package model

import (
	"time"
)

// ReplaySet is the list of replays shown for a folder. It is rebuilt from
// scratch on every scan and never mutated in place by the UI.
type ReplaySet struct {
	Folder            string     `json:"folder"`
	IncludeSubfolders bool       `json:"include_subfolders"`
	Replays           []*Replay  `json:"replays"`
	Skipped           int        `json:"skipped"` // files that matched the glob but failed to parse
	Status            ScanStatus `json:"status"`
	Error             string     `json:"error,omitempty"`
	ScannedAt         time.Time  `json:"scanned_at"`
}

// NewReplaySet creates an empty set in scanning state
func NewReplaySet(folder string, includeSubfolders bool) *ReplaySet {
	return &ReplaySet{
		Folder:            folder,
		IncludeSubfolders: includeSubfolders,
		Replays:           make([]*Replay, 0),
		Status:            ScanStatusScanning,
		ScannedAt:         time.Now(),
	}
}

// ReplaceAll swaps the replay list and marks the set ready
func (s *ReplaySet) ReplaceAll(replays []*Replay, skipped int) {
	if replays == nil {
		replays = make([]*Replay, 0)
	}
	s.Replays = replays
	s.Skipped = skipped
	s.Status = ScanStatusReady
	s.Error = ""
	s.ScannedAt = time.Now()
}

// Fail marks the set as failed, keeping no replays
func (s *ReplaySet) Fail(err error) {
	s.Replays = make([]*Replay, 0)
	s.Status = ScanStatusError
	if err != nil {
		s.Error = err.Error()
	}
	s.ScannedAt = time.Now()
}

// Len returns the number of replays, safe on a nil set
func (s *ReplaySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Replays)
}

// Characters returns the distinct characters in first-seen order
func (s *ReplaySet) Characters() []Character {
	if s == nil {
		return nil
	}

	seen := make(map[Character]bool)
	var chars []Character
	for _, r := range s.Replays {
		for _, p := range r.Players {
			if !seen[p.Character] {
				seen[p.Character] = true
				chars = append(chars, p.Character)
			}
		}
	}
	return chars
}

// FilterByCharacter returns the replays featuring the character, preserving order
func (s *ReplaySet) FilterByCharacter(c Character) []*Replay {
	if s == nil {
		return nil
	}

	var filtered []*Replay
	for _, r := range s.Replays {
		if r.HasCharacter(c) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
