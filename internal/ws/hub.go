package ws

import "sync"

// Subscriber abstracts a streaming client.
type Subscriber interface {
	Send([]byte) error
	Close()
}

// Hub fans deployment events out to subscribers grouped by project ID.
type Hub struct {
	mu      sync.Mutex
	streams map[string]map[Subscriber]struct{}
}

// NewHub creates an initialized Hub.
func NewHub() *Hub {
	return &Hub{streams: make(map[string]map[Subscriber]struct{})}
}

// Register adds a subscriber to a project stream.
func (h *Hub) Register(projectID string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.streams[projectID]; !ok {
		h.streams[projectID] = make(map[Subscriber]struct{})
	}
	h.streams[projectID][sub] = struct{}{}
}

// Unregister removes a subscriber.
func (h *Hub) Unregister(projectID string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.streams[projectID]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(h.streams, projectID)
		}
	}
}

// Broadcast delivers payload to every subscriber of the project. Subscribers
// whose send fails are dropped.
func (h *Hub) Broadcast(projectID string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.streams[projectID]
	if !ok {
		return
	}
	for sub := range subs {
		if err := sub.Send(payload); err != nil {
			sub.Close()
			delete(subs, sub)
		}
	}
	if len(subs) == 0 {
		delete(h.streams, projectID)
	}
}
