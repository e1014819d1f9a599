package exchange

import "time"

// TwoWayChannel is one half of a full-duplex pipe. The tx queue of one half is
// the rx queue of the other, so halves are always created in pairs.
type TwoWayChannel[TX, RX any] struct {
	tx *queue[TX]
	rx *queue[RX]
}

// Unbounded creates a pair of halves whose queues never fill.
func Unbounded[TX, RX any]() (*TwoWayChannel[TX, RX], *TwoWayChannel[RX, TX]) {
	return pair[TX, RX](0)
}

// Bounded creates a pair of halves holding at most capacity unreceived
// values per direction. It panics if capacity is less than one.
func Bounded[TX, RX any](capacity int) (*TwoWayChannel[TX, RX], *TwoWayChannel[RX, TX]) {
	if capacity < 1 {
		panic("exchange: bounded channel capacity must be at least 1")
	}
	return pair[TX, RX](capacity)
}

func pair[TX, RX any](capacity int) (*TwoWayChannel[TX, RX], *TwoWayChannel[RX, TX]) {
	q0 := newQueue[TX](capacity)
	q1 := newQueue[RX](capacity)
	return &TwoWayChannel[TX, RX]{tx: q0, rx: q1}, &TwoWayChannel[RX, TX]{tx: q1, rx: q0}
}

// Send blocks while a bounded channel is full.
func (c *TwoWayChannel[TX, RX]) Send(v TX) error { return c.tx.push(v, true) }

// TrySend returns ErrFull or ErrDisconnected instead of blocking.
func (c *TwoWayChannel[TX, RX]) TrySend(v TX) error { return c.tx.push(v, false) }

// Recv blocks until a value arrives or the peer hangs up.
func (c *TwoWayChannel[TX, RX]) Recv() (RX, error) { return c.rx.pop(true, nil) }

// TryRecv returns ErrEmpty or ErrDisconnected instead of blocking.
func (c *TwoWayChannel[TX, RX]) TryRecv() (RX, error) { return c.rx.pop(false, nil) }

// RecvTimeout is Recv bounded by d.
func (c *TwoWayChannel[TX, RX]) RecvTimeout(d time.Duration) (RX, error) {
	t := time.NewTimer(d)
	defer t.Stop()
	return c.rx.pop(true, t.C)
}

// Len returns the number of values waiting to be received on this half.
func (c *TwoWayChannel[TX, RX]) Len() int { return c.rx.len() }

// Close hangs up both directions. The peer can still drain what was sent
// before the close.
func (c *TwoWayChannel[TX, RX]) Close() {
	c.tx.close()
	c.rx.close()
}
