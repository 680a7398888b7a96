package model

import "fmt"

// Character is an external (character select screen) character ID
type Character uint8

const (
	CaptainFalcon Character = iota
	DonkeyKong
	Fox
	GameAndWatch
	Kirby
	Bowser
	Link
	Luigi
	Mario
	Marth
	Mewtwo
	Ness
	Peach
	Pikachu
	IceClimbers
	Jigglypuff
	Samus
	Yoshi
	Zelda
	Sheik
	Falco
	YoungLink
	DrMario
	Roy
	Pichu
	Ganondorf
	MasterHand
	WireframeMale
	WireframeFemale
	GigaBowser
	CrazyHand
	Sandbag
	Popo
)

var characterNames = [...]string{
	CaptainFalcon:   "Captain Falcon",
	DonkeyKong:      "Donkey Kong",
	Fox:             "Fox",
	GameAndWatch:    "Mr. Game & Watch",
	Kirby:           "Kirby",
	Bowser:          "Bowser",
	Link:            "Link",
	Luigi:           "Luigi",
	Mario:           "Mario",
	Marth:           "Marth",
	Mewtwo:          "Mewtwo",
	Ness:            "Ness",
	Peach:           "Peach",
	Pikachu:         "Pikachu",
	IceClimbers:     "Ice Climbers",
	Jigglypuff:      "Jigglypuff",
	Samus:           "Samus",
	Yoshi:           "Yoshi",
	Zelda:           "Zelda",
	Sheik:           "Sheik",
	Falco:           "Falco",
	YoungLink:       "Young Link",
	DrMario:         "Dr. Mario",
	Roy:             "Roy",
	Pichu:           "Pichu",
	Ganondorf:       "Ganondorf",
	MasterHand:      "Master Hand",
	WireframeMale:   "Wireframe Male",
	WireframeFemale: "Wireframe Female",
	GigaBowser:      "Giga Bowser",
	CrazyHand:       "Crazy Hand",
	Sandbag:         "Sandbag",
	Popo:            "Popo",
}

// String returns the in-game name of the character
func (c Character) String() string {
	if c.IsValid() {
		return characterNames[c]
	}
	return fmt.Sprintf("Unknown(%d)", uint8(c))
}

// IsValid reports whether the ID maps to a known character
func (c Character) IsValid() bool {
	return int(c) < len(characterNames)
}

// IsPlayable reports whether the character can be picked on the CSS
func (c Character) IsPlayable() bool {
	return c <= Ganondorf
}

// MarshalText encodes the character by name
func (c Character) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText
func (c *Character) UnmarshalText(text []byte) error {
	name := string(text)
	if found, ok := CharacterByName(name); ok {
		*c = found
		return nil
	}

	var id uint8
	if _, err := fmt.Sscanf(name, "Unknown(%d)", &id); err != nil {
		return fmt.Errorf("unknown character %q", name)
	}
	*c = Character(id)
	return nil
}

// CharacterByName resolves an in-game name back to its ID
func CharacterByName(name string) (Character, bool) {
	for i, n := range characterNames {
		if n == name {
			return Character(i), true
		}
	}
	return 0, false
}
