package cache

import (
	"testing"
	"time"
)

func TestNotifierBroadcast(t *testing.T) {
	notifier := NewNotifier()

	sub1 := notifier.Subscribe()
	sub2 := notifier.Subscribe()

	if notifier.SubscriberCount() != 2 {
		t.Fatalf("Expected 2 subscribers, got %d", notifier.SubscriberCount())
	}

	sent := CSVUpdated()
	notifier.Broadcast(sent)

	for i, sub := range []chan Notice{sub1, sub2} {
		select {
		case notice := <-sub:
			if notice.Type != NoticeCSVUpdated {
				t.Errorf("Subscriber %d: expected type %s, got %s", i, NoticeCSVUpdated, notice.Type)
			}
			if notice.Timestamp == 0 {
				t.Errorf("Subscriber %d: expected a timestamp", i)
			}
		case <-time.After(time.Second):
			t.Fatalf("Subscriber %d did not receive the notice", i)
		}
	}
}

func TestNotifierUnsubscribe(t *testing.T) {
	notifier := NewNotifier()

	sub := notifier.Subscribe()
	notifier.Unsubscribe(sub)

	if notifier.SubscriberCount() != 0 {
		t.Errorf("Expected 0 subscribers after unsubscribe, got %d", notifier.SubscriberCount())
	}

	if _, ok := <-sub; ok {
		t.Error("Expected channel to be closed after unsubscribe")
	}

	// Double unsubscribe must not panic.
	notifier.Unsubscribe(sub)
}

func TestNotifierBroadcastNeverBlocks(t *testing.T) {
	notifier := NewNotifier()

	sub := notifier.Subscribe()

	// Overflow the subscriber buffer; broadcasts must drop, not stall.
	for i := 0; i < 100; i++ {
		notifier.Broadcast(CSVUpdated())
	}

	received := 0
	for {
		select {
		case <-sub:
			received++
			continue
		default:
		}
		break
	}

	if received == 0 {
		t.Error("Expected at least one notice to be delivered")
	}
	if received > cap(sub) {
		t.Errorf("Expected at most %d buffered notices, got %d", cap(sub), received)
	}
}
