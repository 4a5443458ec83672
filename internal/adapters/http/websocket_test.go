package http

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/geofunlab/internal/core/domain"
	"github.com/samirrijal/geofunlab/internal/core/usecases"
)

type fakeConn struct {
	mu        sync.Mutex
	types     []int
	msgs      [][]byte
	deadlines int
	closed    bool
	err       error
	block     chan struct{} // WriteMessage waits on it when set
}

func (f *fakeConn) WriteMessage(messageType int, data []byte) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.types = append(f.types, messageType)
	f.msgs = append(f.msgs, data)
	return nil
}

func (f *fakeConn) SetWriteDeadline(time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deadlines++
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) snapshot() (types []int, msgs [][]byte, deadlines int, closed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.types...), append([][]byte(nil), f.msgs...), f.deadlines, f.closed
}

func isClosed(c *wsClient) bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func TestHub_QueuesEventForEveryClient(t *testing.T) {
	hub := NewHub()
	a := hub.register()
	b := hub.register()
	assert.Equal(t, 2, hub.Clients())

	ev := &domain.ViewChanged{ID: "ev-1", Phase: "success", Generation: 3}
	require.NoError(t, hub.PublishViewChanged(context.Background(), ev))

	for _, c := range []*wsClient{a, b} {
		require.Len(t, c.send, 1)
		var env wsEnvelope
		require.NoError(t, json.Unmarshal(<-c.send, &env))
		assert.Equal(t, "view_changed", env.Type)
		assert.Equal(t, uint64(3), env.Event.Generation)
	}

	hub.unregister(a)
	hub.unregister(a)
	assert.Equal(t, 1, hub.Clients())
	assert.True(t, isClosed(a))
	assert.False(t, a.enqueue([]byte("late")), "a gone client takes no more messages")

	require.NoError(t, hub.PublishViewChanged(context.Background(), ev))
	assert.Len(t, a.send, 0)
	assert.Len(t, b.send, 1)
}

func TestHub_DisconnectsClientThatFallsBehind(t *testing.T) {
	hub := NewHub()
	slow := hub.register()

	ev := &domain.ViewChanged{Phase: "loading"}
	for i := 0; i < wsSendBuffer; i++ {
		require.NoError(t, hub.PublishViewChanged(context.Background(), ev))
	}
	assert.Equal(t, 1, hub.Clients())

	require.NoError(t, hub.PublishViewChanged(context.Background(), ev))
	assert.Equal(t, 0, hub.Clients())
	assert.True(t, isClosed(slow))
}

func TestWritePump_WritesWithDeadline(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	client := hub.register()
	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.writePump(conn, client, time.Hour)
	}()

	require.True(t, client.enqueue([]byte(`{"type":"pong"}`)))
	require.Eventually(t, func() bool {
		_, msgs, _, _ := conn.snapshot()
		return len(msgs) == 1
	}, time.Second, 5*time.Millisecond)

	types, msgs, deadlines, _ := conn.snapshot()
	assert.Equal(t, []int{websocket.TextMessage}, types)
	assert.JSONEq(t, `{"type":"pong"}`, string(msgs[0]))
	assert.Equal(t, 1, deadlines)

	hub.unregister(client)
	<-done
	_, _, _, closed := conn.snapshot()
	assert.True(t, closed)
}

func TestWritePump_WriteErrorDropsClient(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{err: errors.New("broken pipe")}
	client := hub.register()
	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.writePump(conn, client, time.Hour)
	}()

	require.True(t, client.enqueue([]byte("x")))
	<-done

	_, _, _, closed := conn.snapshot()
	assert.True(t, closed, "closing the conn ends the handler's read loop")
	assert.Equal(t, 0, hub.Clients())
	assert.True(t, isClosed(client))
}

func TestWritePump_Pings(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	client := hub.register()
	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.writePump(conn, client, 5*time.Millisecond)
	}()

	require.Eventually(t, func() bool {
		types, _, _, _ := conn.snapshot()
		return len(types) > 0 && types[0] == websocket.PingMessage
	}, time.Second, 5*time.Millisecond)

	hub.unregister(client)
	<-done
}

func TestHub_StalledSocketDoesNotBlockFetchLifecycle(t *testing.T) {
	hub := NewHub()
	stuck := &fakeConn{block: make(chan struct{})}
	client := hub.register()
	pumped := make(chan struct{})
	go func() {
		defer close(pumped)
		hub.writePump(stuck, client, time.Hour)
	}()
	t.Cleanup(func() {
		close(stuck.block)
		hub.unregister(client)
		<-pumped
	})

	stamps, err := usecases.NewTimestampFormatter("en", "UTC")
	require.NoError(t, err)
	src := triviaFunc(func(ctx context.Context) (*domain.GeoFunResponse, error) {
		return &domain.GeoFunResponse{Challenge: domain.ChallengePayload{ID: "c-1", Prompt: "p"}}, nil
	})
	ctrl := usecases.NewFetchController(src, time.Second)
	shell := usecases.NewShell(ctrl, hub, stamps)

	for i := 0; i < 3; i++ {
		shell.Refresh(context.Background())
		require.Eventually(t, func() bool {
			v := shell.View()
			return v.Phase == "success" && v.Generation == uint64(i+1)
		}, time.Second, 5*time.Millisecond)
	}

	state := make(chan domain.Phase, 1)
	go func() {
		phase, _, _ := ctrl.State()
		state <- phase
	}()
	select {
	case phase := <-state:
		assert.Equal(t, domain.PhaseSuccess, phase)
	case <-time.After(time.Second):
		t.Fatal("controller blocked behind a stalled websocket write")
	}
}

type triviaFunc func(ctx context.Context) (*domain.GeoFunResponse, error)

func (f triviaFunc) Fetch(ctx context.Context) (*domain.GeoFunResponse, error) { return f(ctx) }

func TestHandleClientMessage(t *testing.T) {
	stamps, err := usecases.NewTimestampFormatter("en", "UTC")
	require.NoError(t, err)
	ctrl := usecases.NewFetchController(nil, 0)
	deps := &Dependencies{Shell: usecases.NewShell(ctrl, nil, stamps)}

	env := handleClientMessage(deps, []byte(`{"action":"view"}`))
	assert.Equal(t, "view", env.Type)
	require.NotNil(t, env.View)
	assert.Equal(t, "idle", env.View.Phase)

	assert.Equal(t, "pong", handleClientMessage(deps, []byte(`{"action":"ping"}`)).Type)

	env = handleClientMessage(deps, []byte(`{"action":"dance"}`))
	assert.Equal(t, "error", env.Type)
	assert.Equal(t, "unknown action: dance", env.Error)

	assert.Equal(t, "invalid JSON", handleClientMessage(deps, []byte(`nope`)).Error)
}

func TestEtagMatches(t *testing.T) {
	assert.True(t, etagMatches(`W/"abc"`, `W/"abc"`))
	assert.True(t, etagMatches(`"abc"`, `W/"abc"`))
	assert.True(t, etagMatches(`"x", W/"abc"`, `W/"abc"`))
	assert.True(t, etagMatches(`*`, `W/"abc"`))
	assert.False(t, etagMatches(``, `W/"abc"`))
	assert.False(t, etagMatches(`W/"abd"`, `W/"abc"`))
}
