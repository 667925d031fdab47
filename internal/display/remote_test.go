package display

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zishang520/socket.io-client-go/socket"
)

type emitted struct {
	event   string
	payload any
}

// fakeEmitter records emissions in place of a socket.io connection.
type fakeEmitter struct {
	events       []emitted
	disconnected int
	emitErr      error
}

func (f *fakeEmitter) Emit(ev string, args ...any) error {
	var payload any
	if len(args) > 0 {
		payload = args[0]
	}
	f.events = append(f.events, emitted{event: ev, payload: payload})
	return f.emitErr
}

func (f *fakeEmitter) Id() string { return "sid-1" }

func (f *fakeEmitter) Disconnect() *socket.Socket {
	f.disconnected++
	return nil
}

func (f *fakeEmitter) names() []string {
	names := make([]string, 0, len(f.events))
	for _, e := range f.events {
		names = append(names, e.event)
	}
	return names
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRemote_CompletedRun(t *testing.T) {
	// --- Arrange ---
	client := &fakeEmitter{}
	r := newRemote(client, "s-1", discardLogger())

	// --- Act ---
	require.NoError(t, r.Open(context.Background(), 1))
	r.SetStatus(ItemStatus("Controllers"))
	r.SetProgress(1, 1)
	Complete(r)
	require.NoError(t, r.Close())

	// --- Assert ---
	assert.Equal(t, []string{EventOpen, EventProgress, EventCompleted}, client.names())
	assert.Equal(t, map[string]any{"session": "s-1", "total": 1}, client.events[0].payload)
	assert.Equal(t, progressPayload("s-1", 1, 1, "Loading component : Controllers"), client.events[1].payload)
	assert.Equal(t, map[string]any{"session": "s-1"}, client.events[2].payload)
	assert.Equal(t, 1, client.disconnected)
}

func TestRemote_CloseWithoutCompleteIsAborted(t *testing.T) {
	client := &fakeEmitter{}
	r := newRemote(client, "s-1", discardLogger())

	require.NoError(t, r.Open(context.Background(), 3))
	r.SetStatus(ItemStatus("gone"))
	require.NoError(t, r.Close())

	assert.Equal(t, []string{EventOpen, EventAborted}, client.names())
	assert.NotContains(t, client.names(), EventCompleted)
	assert.Equal(t, map[string]any{"session": "s-1", "status": "Loading component : gone"}, client.events[1].payload)
	assert.Equal(t, 1, client.disconnected)
}

func TestRemote_ReopenClearsCompletion(t *testing.T) {
	client := &fakeEmitter{}
	r := newRemote(client, "s-1", discardLogger())

	r.Complete()
	require.NoError(t, r.Open(context.Background(), 1))
	require.NoError(t, r.Close())

	assert.Equal(t, []string{EventOpen, EventAborted}, client.names())
}

func TestRemote_EmitErrorsDoNotFailTheRun(t *testing.T) {
	client := &fakeEmitter{emitErr: errors.New("transport closed")}
	r := newRemote(client, "s-1", discardLogger())

	require.NoError(t, r.Open(context.Background(), 1))
	r.SetProgress(1, 1)
	require.NoError(t, r.Close())
	assert.Len(t, client.events, 3)
}

func TestOffer_KeepsFirstOutcomeWithoutBlocking(t *testing.T) {
	ch := make(chan error, 1)
	refused := errors.New("connection refused")

	offer(ch, nil)
	offer(ch, refused)

	select {
	case err := <-ch:
		assert.NoError(t, err)
	default:
		t.Fatal("first outcome was not delivered")
	}
	offer(ch, refused)
	assert.ErrorIs(t, <-ch, refused)
}

func TestProgressPayload(t *testing.T) {
	got := progressPayload("s-1", 2, 5, "Loading component : A")

	assert.Equal(t, map[string]any{
		"session":   "s-1",
		"completed": 2,
		"total":     5,
		"status":    "Loading component : A",
	}, got)
}
