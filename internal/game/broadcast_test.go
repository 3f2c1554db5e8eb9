package game

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStalledPeerCostsAtMostSendTimeout(t *testing.T) {
	rules := testRules()
	r := newTestRoom(t, rules)

	admitStalled(t, r)
	alice := join(t, r, "alice")
	bob := admit(t, r)

	start := time.Now()
	require.NoError(t, r.Register(bob.player.ID, "bob"))
	elapsed := time.Since(start)

	alice.expect("Player bob joined the game")
	bob.expect("Player bob joined the game")
	assert.Less(t, elapsed, 5*rules.SendTimeout)
}

func TestChatToStalledPeerDoesNotHoldBroadcasts(t *testing.T) {
	rules := testRules()
	rules.PromptTimeout = time.Second
	r := newTestRoom(t, rules)

	admitStalled(t, r)
	alice := join(t, r, "alice")
	bob := admit(t, r)

	chatDone := make(chan error, 1)
	go func() { chatDone <- r.NotifyChat(alice.player.ID, "hello") }()
	// Give the chat time to start its write to the stalled peer.
	time.Sleep(50 * time.Millisecond)

	start := time.Now()
	require.NoError(t, r.Register(bob.player.ID, "bob"))
	elapsed := time.Since(start)

	alice.expect("Player bob joined the game")
	assert.Less(t, elapsed, 5*rules.SendTimeout, "broadcast waited on the chat write")

	select {
	case err := <-chatDone:
		require.NoError(t, err)
	case <-time.After(waitFor):
		t.Fatal("chat did not finish")
	}
	alice.expect("CHAT [alice]: hello")
}

// Chat reads recipients after unlocking; run with -race.
func TestChatConcurrentWithRename(t *testing.T) {
	rules := testRules()
	rules.PromptTimeout = time.Nanosecond
	r := newTestRoom(t, rules)

	alice := join(t, r, "alice")
	bob := join(t, r, "bob")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			_ = r.NotifyChat(alice.player.ID, "hi")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			_ = r.Register(bob.player.ID, "zed")
			_ = r.Register(bob.player.ID, "bob")
		}
	}()
	wg.Wait()

	assert.Equal(t, "bob", r.Snapshot().Players[1].Name)
}
