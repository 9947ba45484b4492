package ws

import (
	"errors"
	"testing"
)

type recordingSubscriber struct {
	received [][]byte
	sendErr  error
	closed   bool
}

func (r *recordingSubscriber) Send(payload []byte) error {
	if r.sendErr != nil {
		return r.sendErr
	}
	r.received = append(r.received, payload)
	return nil
}

func (r *recordingSubscriber) Close() {
	r.closed = true
}

func TestBroadcastReachesProjectSubscribersOnly(t *testing.T) {
	hub := NewHub()
	a := &recordingSubscriber{}
	b := &recordingSubscriber{}
	other := &recordingSubscriber{}
	hub.Register("proj-1", a)
	hub.Register("proj-1", b)
	hub.Register("proj-2", other)

	hub.Broadcast("proj-1", []byte("hello"))

	if len(a.received) != 1 || len(b.received) != 1 {
		t.Fatalf("expected both proj-1 subscribers to receive, got %d and %d", len(a.received), len(b.received))
	}
	if len(other.received) != 0 {
		t.Fatalf("expected proj-2 subscriber untouched, got %d", len(other.received))
	}
}

func TestBroadcastDropsFailingSubscribers(t *testing.T) {
	hub := NewHub()
	failing := &recordingSubscriber{sendErr: errors.New("connection gone")}
	healthy := &recordingSubscriber{}
	hub.Register("proj-1", failing)
	hub.Register("proj-1", healthy)

	hub.Broadcast("proj-1", []byte("one"))
	if !failing.closed {
		t.Fatal("expected the failing subscriber closed")
	}

	hub.Broadcast("proj-1", []byte("two"))
	if len(healthy.received) != 2 {
		t.Fatalf("expected healthy subscriber to keep receiving, got %d", len(healthy.received))
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	sub := &recordingSubscriber{}
	hub.Register("proj-1", sub)
	hub.Unregister("proj-1", sub)

	hub.Broadcast("proj-1", []byte("hello"))
	if len(sub.received) != 0 {
		t.Fatalf("expected no delivery after unregister, got %d", len(sub.received))
	}
}
