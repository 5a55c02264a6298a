package network

import (
	"testing"

	"deskmate-server/pkg/api"
)

func TestBroadcasterFanOut(t *testing.T) {
	hub := NewBroadcaster()
	a := hub.Register("a")
	b := hub.Register("b")

	if n := hub.Broadcast(api.NavigationEvent{Type: api.EventState, ID: "1"}); n != 2 {
		t.Fatalf("Broadcast delivered to %d subscribers, want 2", n)
	}
	if ev := <-a; ev.ID != "1" {
		t.Errorf("a got %q", ev.ID)
	}
	if ev := <-b; ev.ID != "1" {
		t.Errorf("b got %q", ev.ID)
	}

	if !hub.SendTo("a", api.NavigationEvent{ID: "2"}) {
		t.Fatal("SendTo(a) failed")
	}
	if hub.SendTo("ghost", api.NavigationEvent{ID: "3"}) {
		t.Error("SendTo to unknown subscriber reported success")
	}
	if ev := <-a; ev.ID != "2" {
		t.Errorf("a got %q, want 2", ev.ID)
	}
	select {
	case ev := <-b:
		t.Errorf("b received unicast event %q", ev.ID)
	default:
	}
}

func TestBroadcasterReRegisterClosesOld(t *testing.T) {
	hub := NewBroadcaster()
	old := hub.Register("a")
	_ = hub.Register("a")

	if _, ok := <-old; ok {
		t.Error("old channel still open after re-register")
	}
	if hub.SubscriberCount() != 1 {
		t.Errorf("SubscriberCount() = %d, want 1", hub.SubscriberCount())
	}
}

func TestBroadcasterUnregister(t *testing.T) {
	hub := NewBroadcaster()
	ch := hub.Register("a")
	hub.Unregister("a")
	hub.Unregister("a")

	if _, ok := <-ch; ok {
		t.Error("channel still open after Unregister")
	}
	if n := hub.SubscriberCount(); n != 0 {
		t.Errorf("SubscriberCount = %d after Unregister", n)
	}
}

func TestBroadcasterDropsWhenFull(t *testing.T) {
	hub := NewBroadcaster()
	_ = hub.Register("slow")

	for i := 0; i < subscriberBuffer; i++ {
		hub.Broadcast(api.NavigationEvent{})
	}
	if n := hub.Broadcast(api.NavigationEvent{}); n != 0 {
		t.Errorf("full subscriber still received, delivered=%d", n)
	}
}
