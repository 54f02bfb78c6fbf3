// Package realtime fans state-change messages out to connected subscribers grouped by
// audience channel ("role:<role>" or "account:<id>").
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultBuffer is the per-subscriber queue length used by the websocket endpoint.
const DefaultBuffer = 32

// Message is one push frame. Payload is pre-encoded so the same bytes can travel through
// Redis unchanged.
type Message struct {
	Event    string          `json:"event"`
	Channel  string          `json:"channel"`
	RecordID string          `json:"recordId,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	SentAt   time.Time       `json:"sentAt"`
}

// Broadcaster delivers a message to every current subscriber of channel. Implementations
// never wait on slow subscribers.
type Broadcaster interface {
	Broadcast(ctx context.Context, channel string, msg Message) error
}

// Subscriber is one connection's mailbox.
type Subscriber struct {
	id       uint64
	ch       chan Message
	channels map[string]struct{} // guarded by Hub.mu
	closed   bool                // guarded by Hub.mu
	dropped  atomic.Int64
}

// C is the receive side of the mailbox. It is closed by Unsubscribe.
func (s *Subscriber) C() <-chan Message { return s.ch }

// Dropped counts messages lost because the mailbox was full.
func (s *Subscriber) Dropped() int64 { return s.dropped.Load() }

// Hub is the connection registry. The zero value is not usable; call NewHub.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[uint64]*Subscriber
	subs     map[uint64]*Subscriber
	nextID   atomic.Uint64
}

// NewHub returns an empty registry.
func NewHub() *Hub {
	return &Hub{
		channels: make(map[string]map[uint64]*Subscriber),
		subs:     make(map[uint64]*Subscriber),
	}
}

var _ Broadcaster = (*Hub)(nil)

// Subscribe registers a mailbox with room for buffer undelivered messages.
func (h *Hub) Subscribe(buffer int) *Subscriber {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	sub := &Subscriber{
		id:       h.nextID.Add(1),
		ch:       make(chan Message, buffer),
		channels: make(map[string]struct{}),
	}
	h.mu.Lock()
	h.subs[sub.id] = sub
	h.mu.Unlock()
	return sub
}

// Join adds sub to channel. Joining twice is harmless.
func (h *Hub) Join(sub *Subscriber, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub.closed {
		return
	}
	members, ok := h.channels[channel]
	if !ok {
		members = make(map[uint64]*Subscriber)
		h.channels[channel] = members
	}
	members[sub.id] = sub
	sub.channels[channel] = struct{}{}
}

// Leave removes sub from channel.
func (h *Hub) Leave(sub *Subscriber, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(sub, channel)
}

func (h *Hub) leaveLocked(sub *Subscriber, channel string) {
	if members, ok := h.channels[channel]; ok {
		delete(members, sub.id)
		if len(members) == 0 {
			delete(h.channels, channel)
		}
	}
	delete(sub.channels, channel)
}

// Unsubscribe drops sub from every channel and closes its mailbox.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub.closed {
		return
	}
	for channel := range sub.channels {
		h.leaveLocked(sub, channel)
	}
	delete(h.subs, sub.id)
	sub.closed = true
	close(sub.ch)
}

// Broadcast offers msg to every member of channel. A member whose mailbox is full misses
// the message. The read lock is held only for the non-blocking sends.
func (h *Hub) Broadcast(_ context.Context, channel string, msg Message) error {
	h.Deliver(channel, msg)
	return nil
}

// Deliver is Broadcast without the interface plumbing; it returns how many mailboxes took
// the message.
func (h *Hub) Deliver(channel string, msg Message) int {
	msg.Channel = channel
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, sub := range h.channels[channel] {
		select {
		case sub.ch <- msg:
			delivered++
		default:
			sub.dropped.Add(1)
		}
	}
	return delivered
}

// Members reports the number of subscribers currently in channel.
func (h *Hub) Members(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// Connections reports the number of live subscribers.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close unsubscribes everyone. Used on shutdown so websocket loops exit.
func (h *Hub) Close() {
	h.mu.RLock()
	subs := make([]*Subscriber, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.RUnlock()
	for _, s := range subs {
		h.Unsubscribe(s)
	}
}
