package exchange

import (
	"errors"
	"testing"

	"github.com/antigen-go/antigen/internal/core/ecs"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errBoom = eris.New("boom")

func loopback(t *testing.T, id Identity) (*WorldChannel, *WorldChannel) {
	t.Helper()
	return newWorldChannels(id, 0, zap.NewNop())
}

func TestSenderPanicsBeforeDispatch(t *testing.T) {
	m := NewMessage(render, Lift)
	assert.False(t, m.Dispatched())
	assert.Panics(t, func() { m.Sender() })
	assert.Panics(t, func() { m.Reply(Lift) })
	assert.Equal(t, render, m.Receiver())
	assert.Equal(t, "<unsent> -> render", m.String())

	m.stamp(game)
	assert.Equal(t, game, m.Sender())
	assert.Equal(t, game, m.Reply(Lift).Receiver())
}

func TestMessageRunsOnce(t *testing.T) {
	w := ecs.NewWorld()
	calls := 0
	m := NewMessage(game, func(ctx MessageContext) (MessageContext, error) {
		calls++
		return ctx, nil
	})
	_, err := m.Run(w, nil)
	require.NoError(t, err)
	assert.True(t, m.Consumed())
	assert.Panics(t, func() { _, _ = m.Run(w, nil) })
	assert.Equal(t, 1, calls)
}

func TestChainStopsAtFirstError(t *testing.T) {
	var ran []string
	step := func(name string, err error) MessageFunc {
		return func(ctx MessageContext) (MessageContext, error) {
			ran = append(ran, name)
			return ctx, err
		}
	}
	_, err := Chain(step("a", nil), step("b", errBoom), step("c", nil))(MessageContext{})
	assert.True(t, errors.Is(err, errBoom))
	assert.Equal(t, []string{"a", "b"}, ran)
}

func TestTryReceiveStopsAtFirstError(t *testing.T) {
	worldSide, peer := loopback(t, game)
	w := ecs.NewWorld()

	require.NoError(t, peer.Send(NewMessage(game, SpawnComponent(&marker{}))))
	require.NoError(t, peer.Send(NewMessage(game, func(ctx MessageContext) (MessageContext, error) {
		return ctx, errBoom
	})))
	require.NoError(t, peer.Send(NewMessage(game, SpawnComponent(&marker{}))))

	err := TryReceiveMessages(w, worldSide)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errBoom))
	assert.Equal(t, 1, ecs.Count[marker](w))

	require.NoError(t, TryReceiveMessages(w, worldSide), "the rest drains on the next call")
	assert.Equal(t, 2, ecs.Count[marker](w))
	require.NoError(t, TryReceiveMessages(w, worldSide), "empty is not an error")

	peer.Close()
	assert.True(t, errors.Is(TryReceiveMessages(w, worldSide), ErrDisconnected))
	assert.True(t, errors.Is(ReceiveMessages(w, worldSide), ErrDisconnected))
}

func TestReceiveMessagesProcessesExactlyOne(t *testing.T) {
	worldSide, peer := loopback(t, game)
	w := ecs.NewWorld()
	for i := 0; i < 2; i++ {
		require.NoError(t, peer.Send(NewMessage(game, SpawnComponent(&marker{}))))
	}
	require.NoError(t, ReceiveMessages(w, worldSide))
	assert.Equal(t, 1, ecs.Count[marker](w))
	assert.Equal(t, 1, worldSide.Len())
}
