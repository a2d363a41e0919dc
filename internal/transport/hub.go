// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transport delivers stream updates to consumers: an HTTP
// collector that journals incoming frames, a websocket hub that fans them
// out to live subscribers, and a publisher client that pipeline stages
// use to send frames to the collector.
package transport

import (
	"sync"

	"github.com/pdiddy/deep-research/pkg/types"
)

const defaultSubscriberBuffer = 64

// Hub fans out update frames to subscribers. Frames reach each
// subscriber in broadcast order. A subscriber whose buffer fills up is
// dropped rather than allowed to stall the others.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan types.StreamUpdate]struct{}
	buffer int
	closed bool
}

// NewHub returns a hub with the given per-subscriber buffer length.
// A non-positive buffer selects the default (64).
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	return &Hub{
		subs:   make(map[chan types.StreamUpdate]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a consumer. The returned channel is closed when the
// subscriber is dropped or the hub shuts down; cancel unregisters it.
func (h *Hub) Subscribe() (<-chan types.StreamUpdate, func()) {
	ch := make(chan types.StreamUpdate, h.buffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Broadcast delivers a frame to every subscriber. Subscribers that cannot
// accept the frame are dropped.
func (h *Hub) Broadcast(u types.StreamUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- u:
		default:
			delete(h.subs, ch)
			close(ch)
		}
	}
}

// Len returns the current subscriber count.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close drops every subscriber and rejects future subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
