package game

import (
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordchain/internal/protocol"
	"github.com/robalobadob/wordchain/internal/words"
)

const waitFor = 2 * time.Second

var testWords = []string{"cat", "tac", "tea", "apple", "eagle", "egg", "goat", "tiger", "rat", "tomato", "owl"}

// testClient is the far end of a net.Pipe admitted into a Room.
type testClient struct {
	t      *testing.T
	player *Player
	lines  chan string
}

func (c *testClient) expect(prefix string) string {
	c.t.Helper()
	deadline := time.After(waitFor)
	for {
		select {
		case line, ok := <-c.lines:
			require.True(c.t, ok, "connection closed while waiting for %q", prefix)
			if strings.HasPrefix(line, prefix) {
				return line
			}
		case <-deadline:
			c.t.Fatalf("timed out waiting for line starting with %q", prefix)
			return ""
		}
	}
}

func admit(t *testing.T, r *Room) *testClient {
	t.Helper()
	srv, cli := net.Pipe()
	t.Cleanup(func() { _ = cli.Close() })

	p, err := r.Admit(srv)
	require.NoError(t, err)

	c := &testClient{t: t, player: p, lines: make(chan string, 256)}
	go func() {
		defer close(c.lines)
		lr := protocol.NewLineReader(cli)
		for {
			line, err := lr.Next()
			if err != nil {
				return
			}
			c.lines <- line
		}
	}()
	return c
}

// admitStalled admits a connection whose peer never reads.
func admitStalled(t *testing.T, r *Room) *Player {
	t.Helper()
	srv, cli := net.Pipe()
	t.Cleanup(func() { _ = cli.Close() })

	p, err := r.Admit(srv)
	require.NoError(t, err)
	return p
}

func join(t *testing.T, r *Room, name string) *testClient {
	t.Helper()
	c := admit(t, r)
	require.NoError(t, r.Register(c.player.ID, name))
	return c
}

func testRules() Rules {
	rules := DefaultRules()
	rules.TurnTimeout = waitFor
	return rules
}

func newTestRoom(t *testing.T, rules Rules, opts ...Option) *Room {
	t.Helper()
	v := NewValidator(words.New(testWords, true))
	opts = append([]Option{WithLetterSource(func() byte { return 'c' })}, opts...)
	r := NewRoom(rules, v, opts...)
	t.Cleanup(r.Close)
	return r
}

func waitDone(t *testing.T, r *Room) {
	t.Helper()
	select {
	case <-r.Done():
	case <-time.After(waitFor):
		t.Fatal("game did not end")
	}
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memRecorder collects plays in memory.
type memRecorder struct {
	mu    sync.Mutex
	plays []Play
}

func (m *memRecorder) Record(_ context.Context, p Play) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plays = append(m.plays, p)
	return nil
}

func (m *memRecorder) all() []Play {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Play(nil), m.plays...)
}
