package exchange

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrUnknownReceiver terminates the router when a message names a world that
// was never registered.
var ErrUnknownReceiver = eris.New("no channel registered for receiver")

// WorldExchange routes messages between worlds. Channels are registered
// before Spawn; afterwards the identity→channel mapping is fixed.
//
// The router has no retry or dead-letter queue: an unknown receiver or a
// failed forward stops it, closes every channel, and is reported by Err.
type WorldExchange struct {
	log      *zap.Logger
	channels []*WorldChannel
	byID     map[Identity]*WorldChannel

	mu      sync.Mutex
	spawned bool
	done    chan struct{}
	err     error
}

func NewWorldExchange(log *zap.Logger) *WorldExchange {
	if log == nil {
		log = zap.NewNop()
	}
	return &WorldExchange{
		log:  log.Named("exchange"),
		byID: make(map[Identity]*WorldChannel),
		done: make(chan struct{}),
	}
}

// CreateChannel registers id with an unbounded channel and returns the
// world's half.
func (x *WorldExchange) CreateChannel(id Identity) *WorldChannel {
	return x.register(id, 0)
}

// CreateBoundedChannel registers id with a channel of the given capacity.
func (x *WorldExchange) CreateBoundedChannel(id Identity, capacity int) *WorldChannel {
	if capacity < 1 {
		panic("exchange: bounded channel capacity must be at least 1")
	}
	return x.register(id, capacity)
}

func (x *WorldExchange) register(id Identity, capacity int) *WorldChannel {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.spawned {
		panic("exchange: cannot register " + string(id) + " after spawn")
	}
	if _, dup := x.byID[id]; dup {
		panic("exchange: duplicate world identity " + string(id))
	}
	world, router := newWorldChannels(id, capacity, x.log)
	x.channels = append(x.channels, router)
	x.byID[id] = router
	return world
}

// Identities lists registered worlds in registration order.
func (x *WorldExchange) Identities() []Identity {
	ids := make([]Identity, len(x.channels))
	for i, ch := range x.channels {
		ids[i] = ch.identity
	}
	return ids
}

// Spawn starts the router on its own goroutine. It stops when ctx is done,
// when every world has hung up, or on a fatal routing error.
func (x *WorldExchange) Spawn(ctx context.Context) {
	x.markSpawned()
	go func() {
		x.err = x.run(ctx)
		close(x.done)
	}()
}

// Run is Spawn on the calling goroutine.
func (x *WorldExchange) Run(ctx context.Context) error {
	x.markSpawned()
	x.err = x.run(ctx)
	close(x.done)
	return x.err
}

func (x *WorldExchange) markSpawned() {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.spawned {
		panic("exchange: router already spawned")
	}
	x.spawned = true
}

// Done is closed once the router has stopped.
func (x *WorldExchange) Done() <-chan struct{} { return x.done }

// Err returns why the router stopped. Only valid after Done is closed.
func (x *WorldExchange) Err() error { return x.err }

// Wait blocks until the router stops and returns Err.
func (x *WorldExchange) Wait() error {
	<-x.done
	return x.err
}

func (x *WorldExchange) run(ctx context.Context) error {
	defer func() {
		for _, ch := range x.channels {
			ch.Close()
		}
	}()

	live := make([]*WorldChannel, len(x.channels))
	copy(live, x.channels)
	x.log.Info("router started", zap.Int("worlds", len(live)))

	for len(live) > 0 {
		// Case 0 is ctx; then a readable hint and a hang-up case per live world.
		cases := make([]reflect.SelectCase, 1, 1+2*len(live))
		cases[0] = reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())}
		for _, ch := range live {
			cases = append(cases,
				reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ch.rx.readable)},
				reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ch.rx.done)},
			)
		}

		chosen, _, _ := reflect.Select(cases)
		if chosen == 0 {
			x.log.Info("router stopped", zap.Error(ctx.Err()))
			return nil
		}

		idx := (chosen - 1) / 2
		from := live[idx]
		msg, err := from.TryRecv()
		switch {
		case errors.Is(err, ErrEmpty):
			continue
		case errors.Is(err, ErrDisconnected):
			x.log.Debug("world hung up", zap.String("world", string(from.identity)))
			live = append(live[:idx:idx], live[idx+1:]...)
			continue
		}

		if err := x.forward(from, msg); err != nil {
			x.log.Error("router terminated", zap.Error(err))
			return err
		}
	}
	x.log.Info("router stopped", zap.String("reason", "all worlds hung up"))
	return nil
}

func (x *WorldExchange) forward(from *WorldChannel, msg *WorldMessage) error {
	msg.stamp(from.identity)
	to, ok := x.byID[msg.receiver]
	if !ok {
		return eris.Wrapf(ErrUnknownReceiver, "route %s", msg)
	}
	x.log.Debug("route message",
		zap.String("from", string(from.identity)),
		zap.String("to", string(msg.receiver)),
	)
	if err := to.Send(msg); err != nil {
		return eris.Wrapf(err, "forward %s", msg)
	}
	return nil
}
