package server

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_SubscribeUnsubscribe(t *testing.T) {
	n := newNotifier()

	ch := n.Subscribe()
	require.NotNil(t, ch)
	assert.Equal(t, 1, n.Subscribers())

	n.Unsubscribe(ch)
	assert.Equal(t, 0, n.Subscribers())

	_, open := <-ch
	assert.False(t, open, "channel is closed on unsubscribe")
}

func TestNotifier_Broadcast(t *testing.T) {
	n := newNotifier()

	ch1 := n.Subscribe()
	ch2 := n.Subscribe()
	defer n.Unsubscribe(ch1)
	defer n.Unsubscribe(ch2)

	n.Broadcast(EventReports)

	for _, ch := range []chan string{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, EventReports, ev)
		case <-time.After(100 * time.Millisecond):
			t.Fatal("listener did not receive broadcast")
		}
	}
}

func TestNotifier_BroadcastNonBlocking(t *testing.T) {
	n := newNotifier()
	ch := n.Subscribe()
	defer n.Unsubscribe(ch)

	// The buffer holds one event; further broadcasts are dropped.
	done := make(chan struct{})
	go func() {
		for range 5 {
			n.Broadcast(EventReports)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full listener")
	}
	assert.Len(t, ch, 1)
}

func TestNotifier_Concurrent(t *testing.T) {
	n := newNotifier()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := n.Subscribe()
			n.Broadcast(EventReports)
			n.Unsubscribe(ch)
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, n.Subscribers())
}
