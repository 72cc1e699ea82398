package cache

import (
	"sync"
	"time"
)

// NoticeCSVUpdated is broadcast to every open page instance whenever a
// background refresh of the sheet succeeds.
const NoticeCSVUpdated = "CSV_UPDATED"

type Notice struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

func CSVUpdated() Notice {
	return Notice{
		Type:      NoticeCSVUpdated,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Notifier fans update notices out to subscribed pages. Broadcast never
// blocks: a subscriber that cannot keep up misses notices rather than
// stalling the cache layer.
type Notifier struct {
	mu   sync.RWMutex
	subs map[chan Notice]struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{
		subs: make(map[chan Notice]struct{}),
	}
}

func (n *Notifier) Subscribe() chan Notice {
	ch := make(chan Notice, 8)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.subs[ch] = struct{}{}

	return ch
}

func (n *Notifier) Unsubscribe(ch chan Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.subs[ch]; ok {
		delete(n.subs, ch)
		close(ch)
	}
}

func (n *Notifier) Broadcast(notice Notice) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.subs {
		select {
		case ch <- notice:
		default:
		}
	}
}

func (n *Notifier) SubscriberCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}
