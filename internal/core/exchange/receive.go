package exchange

import (
	"errors"

	"github.com/antigen-go/antigen/internal/core/ecs"
	"github.com/rotisserie/eris"
)

// ReceiveMessages blocks until one message arrives on ch and runs it against w.
func ReceiveMessages(w *ecs.World, ch *WorldChannel) error {
	msg, err := ch.Recv()
	if err != nil {
		return eris.Wrapf(err, "receive on %s channel", ch.Identity())
	}
	_, err = msg.Run(w, ch)
	return err
}

// TryReceiveMessages runs every message already waiting on ch, stopping at the
// first error. An empty channel is not an error; a disconnected one is.
func TryReceiveMessages(w *ecs.World, ch *WorldChannel) error {
	for {
		msg, err := ch.TryRecv()
		if errors.Is(err, ErrEmpty) {
			return nil
		}
		if err != nil {
			return eris.Wrapf(err, "receive on %s channel", ch.Identity())
		}
		if _, err := msg.Run(w, ch); err != nil {
			return err
		}
	}
}
