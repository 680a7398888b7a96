package library

import (
	"os"

	"github.com/slpkit/ripped/internal/model"
	"github.com/slpkit/ripped/internal/slp"
)

// FromGame converts a decoded replay header into the list model
func FromGame(path string, info os.FileInfo, game *slp.Game) *model.Replay {
	replay := &model.Replay{
		ID:      model.ReplayID(path),
		Path:    path,
		Stage:   model.Stage(game.Start.Stage),
		Players: make([]model.Player, 0, len(game.Start.Players)),
		IsTeams: game.Start.IsTeams,
		Version: game.Start.Version.String(),
	}

	if info != nil {
		replay.Size = info.Size()
		replay.ModTime = info.ModTime()
	}

	for _, p := range game.Start.Players {
		replay.Players = append(replay.Players, model.Player{
			Port:        p.Port,
			Character:   model.Character(p.Character),
			NameTag:     p.NameTag,
			DisplayName: p.DisplayName,
			ConnectCode: p.ConnectCode,
			Costume:     p.Costume,
			Team:        p.Team,
			IsCPU:       p.Type == slp.PlayerCPU,
		})
	}

	if game.End != nil {
		replay.EndMethod = model.EndMethod(game.End.Method)
	}

	if game.Metadata != nil {
		replay.StartedAt = game.Metadata.StartAt
		replay.Frames = game.Metadata.Frames()
		replay.Platform = game.Metadata.PlayedOn
	}

	return replay
}
