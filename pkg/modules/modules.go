// Package modules enumerates the game modules compiled into the server.
package modules

import (
	"github.com/decred/slog"

	"cardroom/pkg/game"
	"cardroom/pkg/modules/rummy"
)

// Info describes one loadable module. Create mints a fresh instance for a
// single game.
type Info struct {
	Name   string
	Create func(log slog.Logger) game.Module
}

// Load returns the available modules in a stable order. A module's position
// in this list is its index on the game-creation route.
func Load() []Info {
	return []Info{
		{
			Name:   "rummy",
			Create: func(log slog.Logger) game.Module { return rummy.New(log) },
		},
	}
}
