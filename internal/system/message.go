package system

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/antigen-go/antigen/internal/core/ecs"
	"github.com/antigen-go/antigen/internal/core/exchange"
	coresys "github.com/antigen-go/antigen/internal/core/system"
)

// MessageSystem runs every message waiting for the world at tick start.
// Phase 0 (Messages). A failing message is logged and the rest of the queue
// runs next tick; a disconnected channel is reported once through Err.
type MessageSystem struct {
	world   *ecs.World
	channel *exchange.WorldChannel
	log     *zap.Logger
	err     error
}

func NewMessageSystem(world *ecs.World, ch *exchange.WorldChannel, log *zap.Logger) *MessageSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &MessageSystem{world: world, channel: ch, log: log}
}

func (s *MessageSystem) Phase() coresys.Phase { return coresys.PhaseMessages }

func (s *MessageSystem) Update(_ time.Duration) {
	if s.err != nil {
		return
	}
	err := exchange.TryReceiveMessages(s.world, s.channel)
	if err == nil {
		return
	}
	if errors.Is(err, exchange.ErrDisconnected) {
		s.err = err
		s.log.Warn("world channel disconnected",
			zap.String("world", string(s.channel.Identity())),
			zap.Error(err),
		)
		return
	}
	s.log.Error("message failed",
		zap.String("world", string(s.channel.Identity())),
		zap.Error(err),
	)
}

// Err returns the disconnect error once the exchange has gone away.
func (s *MessageSystem) Err() error { return s.err }
