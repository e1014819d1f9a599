package exchange

import (
	"go.uber.org/zap"
)

// WorldChannel is a world's half of its link to the router.
type WorldChannel struct {
	*TwoWayChannel[*WorldMessage, *WorldMessage]
	identity Identity
	log      *zap.Logger
}

func newWorldChannels(id Identity, capacity int, log *zap.Logger) (*WorldChannel, *WorldChannel) {
	var l, r *TwoWayChannel[*WorldMessage, *WorldMessage]
	if capacity > 0 {
		l, r = Bounded[*WorldMessage, *WorldMessage](capacity)
	} else {
		l, r = Unbounded[*WorldMessage, *WorldMessage]()
	}
	log = log.With(zap.String("world", string(id)))
	return &WorldChannel{TwoWayChannel: l, identity: id, log: log},
		&WorldChannel{TwoWayChannel: r, identity: id, log: log}
}

// Identity is the world this channel was registered for.
func (c *WorldChannel) Identity() Identity { return c.identity }

// Logger is scoped to the owning world.
func (c *WorldChannel) Logger() *zap.Logger { return c.log }

// SendTo wraps fn in a message for receiver and sends it.
func (c *WorldChannel) SendTo(receiver Identity, fn MessageFunc) error {
	return c.Send(NewMessage(receiver, fn))
}

// TrySendTo is SendTo without blocking.
func (c *WorldChannel) TrySendTo(receiver Identity, fn MessageFunc) error {
	return c.TrySend(NewMessage(receiver, fn))
}
