package core

import (
	"errors"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Pointing/internal/domain"
)

type recvEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// fakeConn records every frame; with full set it rejects sends like a
// saturated queue.
type fakeConn struct {
	mu     sync.Mutex
	frames []Frame
	full   bool
}

func (c *fakeConn) TrySend(f Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return errors.New("queue full")
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {}

func (c *fakeConn) events(t *testing.T) []recvEvent {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]recvEvent, 0, len(c.frames))
	for _, f := range c.frames {
		var ev recvEvent
		require.NoError(t, json.Unmarshal(f, &ev))
		out = append(out, ev)
	}
	return out
}

func (c *fakeConn) types(t *testing.T) []string {
	var out []string
	for _, ev := range c.events(t) {
		out = append(out, ev.Type)
	}
	return out
}

// last decodes the payload of the most recent event of type typ into v.
func (c *fakeConn) last(t *testing.T, typ string, v any) {
	t.Helper()
	evs := c.events(t)
	for i := len(evs) - 1; i >= 0; i-- {
		if evs[i].Type == typ {
			require.NoError(t, json.Unmarshal(evs[i].Payload, v))
			return
		}
	}
	t.Fatalf("no %q event received, got %v", typ, c.types(t))
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

type testRoom struct {
	RoomService
	clock   *clockwork.FakeClock
	mu      sync.Mutex
	dropped []SessionID
}

func newTestRoom(t *testing.T) *testRoom {
	t.Helper()
	tr := &testRoom{clock: clockwork.NewFakeClock()}
	tr.RoomService = NewRoomService(&domain.Room{Name: "T1", CreatedAt: tr.clock.Now()}, RoomOptions{
		Clock: tr.clock,
		OnDropped: func(_ domain.RoomName, sid SessionID) {
			tr.mu.Lock()
			tr.dropped = append(tr.dropped, sid)
			tr.mu.Unlock()
		},
	})
	return tr
}

func (tr *testRoom) join(t *testing.T, sid SessionID, name string, role domain.Role) *fakeConn {
	t.Helper()
	conn := &fakeConn{}
	got, err := tr.Join(sid, conn, JoinRequest{Nickname: name, Role: string(role)})
	require.NoError(t, err)
	require.Equal(t, name, got)
	return conn
}
