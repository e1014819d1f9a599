// Package worlds names the sandbox's worlds. The set is closed: every world
// that registers with the exchange is one of these.
package worlds

import "github.com/antigen-go/antigen/internal/core/exchange"

const (
	Game       exchange.Identity = "game"
	Render     exchange.Identity = "render"
	Filesystem exchange.Identity = "filesystem"
)

// All lists the identities in registration order.
func All() []exchange.Identity {
	return []exchange.Identity{Game, Render, Filesystem}
}
