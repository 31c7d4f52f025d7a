package server

import "sync"

// Event names sent on /api/events.
const (
	EventReady   = "ready"
	EventReports = "reports"
)

// notifier fans event names out to subscribed streams. Subscribers are
// told that something changed and re-query the API for details.
type notifier struct {
	mu        sync.RWMutex
	listeners map[chan string]struct{}
}

func newNotifier() *notifier {
	return &notifier{listeners: make(map[chan string]struct{})}
}

// Subscribe returns a channel that receives event names.
// The caller must call Unsubscribe when done.
func (n *notifier) Subscribe() chan string {
	ch := make(chan string, 1)
	n.mu.Lock()
	n.listeners[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener and closes its channel.
func (n *notifier) Unsubscribe(ch chan string) {
	n.mu.Lock()
	delete(n.listeners, ch)
	n.mu.Unlock()
	close(ch)
}

// Subscribers returns the number of active listeners.
func (n *notifier) Subscribers() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Broadcast sends event to every listener without blocking. A listener
// that has not drained its previous event misses this one.
func (n *notifier) Broadcast(event string) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners {
		select {
		case ch <- event:
		default:
		}
	}
}
