package broadcast

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/fosys/fosys-client/internal/client/repositories/state"
	"github.com/fosys/fosys-client/internal/logging"
	"github.com/stretchr/testify/require"
)

// memStates is an in-memory state.Repository for tests.
type memStates struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemStates() *memStates { return &memStates{m: make(map[string][]byte)} }

func (s *memStates) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[key], nil
}

func (s *memStates) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

func (s *memStates) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
	return nil
}

func (s *memStates) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m = make(map[string][]byte)
	return nil
}

func TestPublish_FallbackOnly_WritesSlot(t *testing.T) {
	states := newMemStates()
	b := New("", states, logging.NewDiscard())
	defer b.Close()

	err := b.Publish(context.Background(), Envelope{Entity: "task", ID: "7", Op: "update"})
	require.NoError(t, err)

	raw, err := states.Get(context.Background(), state.KeyTasksChangedAt)
	require.NoError(t, err)
	require.NotNil(t, raw)

	var env Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	require.Equal(t, "task", env.Entity)
	require.Equal(t, "7", env.ID)
	require.Equal(t, "update", env.Op)
	require.False(t, env.At.IsZero())
}

func TestSubscribe_FallbackDeliversForeignSignal(t *testing.T) {
	states := newMemStates()
	b := New("", states, logging.NewDiscard())
	b.pollInterval = 10 * time.Millisecond
	defer b.Close()

	got := make(chan Envelope, 1)
	stop, err := b.Subscribe(context.Background(), func(env Envelope) { got <- env })
	require.NoError(t, err)
	defer stop()

	// A signal written by another process carries a different origin.
	foreign := Envelope{Entity: "task", ID: "3", Op: "insert", Origin: "other", At: time.Now().UTC()}
	require.NoError(t, states.Set(context.Background(), state.KeyTasksChangedAt, foreign.encode()))

	select {
	case env := <-got:
		require.Equal(t, "insert", env.Op)
		require.Equal(t, "3", env.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("fallback signal not delivered")
	}
}

func TestSubscribe_OwnSignalsAreSkipped(t *testing.T) {
	states := newMemStates()
	b := New("", states, logging.NewDiscard())
	b.pollInterval = 10 * time.Millisecond
	defer b.Close()

	got := make(chan Envelope, 1)
	stop, err := b.Subscribe(context.Background(), func(env Envelope) { got <- env })
	require.NoError(t, err)
	defer stop()

	require.NoError(t, b.Publish(context.Background(), Envelope{Entity: "task", Op: "update"}))

	select {
	case <-got:
		t.Fatal("own signal must not be delivered back")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubscribe_CorruptSlotDegradesToCoarseSignal(t *testing.T) {
	states := newMemStates()
	b := New("", states, logging.NewDiscard())
	b.pollInterval = 10 * time.Millisecond
	defer b.Close()

	got := make(chan Envelope, 1)
	stop, err := b.Subscribe(context.Background(), func(env Envelope) { got <- env })
	require.NoError(t, err)
	defer stop()

	require.NoError(t, states.Set(context.Background(), state.KeyTasksChangedAt, []byte("1756500000")))

	select {
	case env := <-got:
		require.Equal(t, "changed", env.Op)
	case <-time.After(2 * time.Second):
		t.Fatal("coarse signal not delivered")
	}
}

func TestUnsubscribe_Idempotent(t *testing.T) {
	b := New("", newMemStates(), logging.NewDiscard())
	defer b.Close()

	stop, err := b.Subscribe(context.Background(), func(Envelope) {})
	require.NoError(t, err)
	stop()
	stop() // must not panic
}
