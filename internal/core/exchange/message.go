package exchange

import (
	"fmt"

	"github.com/antigen-go/antigen/internal/core/ecs"
	"github.com/rotisserie/eris"
)

// Identity names a world. The set of identities is fixed at startup.
type Identity string

// MessageContext is what a message runs against: the receiving world, that
// world's own channel, and the message being run (for reply addressing).
type MessageContext struct {
	World   *ecs.World
	Channel *WorldChannel
	Message *WorldMessage
}

// MessageFunc is a unit of work shipped to another world. It returns the
// context so several functions can be chained without re-fetching the world.
type MessageFunc func(ctx MessageContext) (MessageContext, error)

// Lift wraps a context as a successful result.
func Lift(ctx MessageContext) (MessageContext, error) { return ctx, nil }

// Chain runs fns in order, stopping at the first error.
func Chain(fns ...MessageFunc) MessageFunc {
	return func(ctx MessageContext) (MessageContext, error) {
		var err error
		for _, fn := range fns {
			if ctx, err = fn(ctx); err != nil {
				return ctx, err
			}
		}
		return ctx, nil
	}
}

// Reply sends fn back to the world the current message came from.
func (ctx MessageContext) Reply(fn MessageFunc) error {
	return ctx.Channel.Send(ctx.Message.Reply(fn))
}

// WorldMessage carries a MessageFunc to exactly one receiver. The sender is
// stamped by the router on dispatch.
type WorldMessage struct {
	sender   Identity
	sent     bool
	receiver Identity
	fn       MessageFunc
}

// NewMessage addresses fn to receiver.
func NewMessage(receiver Identity, fn MessageFunc) *WorldMessage {
	if fn == nil {
		panic("exchange: nil message func")
	}
	return &WorldMessage{receiver: receiver, fn: fn}
}

// Sender returns the dispatching world. It panics before the router has
// stamped the message.
func (m *WorldMessage) Sender() Identity {
	if !m.sent {
		panic("exchange: sender is not available until the message is sent")
	}
	return m.sender
}

// Dispatched reports whether the router has stamped the sender.
func (m *WorldMessage) Dispatched() bool { return m.sent }

func (m *WorldMessage) Receiver() Identity { return m.receiver }

// Consumed reports whether Run has taken the payload.
func (m *WorldMessage) Consumed() bool { return m.fn == nil }

// Reply addresses fn to the sender of m.
func (m *WorldMessage) Reply(fn MessageFunc) *WorldMessage {
	return NewMessage(m.Sender(), fn)
}

func (m *WorldMessage) stamp(sender Identity) {
	m.sender = sender
	m.sent = true
}

// Run executes the payload against w and ch. A message runs once; a second
// call panics.
func (m *WorldMessage) Run(w *ecs.World, ch *WorldChannel) (MessageContext, error) {
	fn := m.fn
	if fn == nil {
		panic("exchange: message already consumed")
	}
	m.fn = nil
	ctx, err := fn(MessageContext{World: w, Channel: ch, Message: m})
	if err != nil {
		return ctx, eris.Wrapf(err, "message %s", m)
	}
	return ctx, nil
}

func (m *WorldMessage) String() string {
	from := "<unsent>"
	if m.sent {
		from = string(m.sender)
	}
	return fmt.Sprintf("%s -> %s", from, m.receiver)
}
