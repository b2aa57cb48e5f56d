package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// FeedClient is a single websocket session for a connected user. A
// user may hold several sessions (phone and web) at once.
type FeedClient struct {
	UserID uint
	Conn   *websocket.Conn

	// serializes writes: the conn allows only one concurrent writer
	writeMu sync.Mutex
}

func (c *FeedClient) send(msg []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, msg)
}

// FeedHub fans activity events out to the friends of the user who
// produced them, so feeds update without polling.
type FeedHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*FeedClient]struct{}
}

func NewFeedHub() *FeedHub {
	return &FeedHub{clients: make(map[uint]map[*FeedClient]struct{})}
}

func (h *FeedHub) Register(c *FeedClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*FeedClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *FeedHub) Unregister(c *FeedClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// ActivityEvent is the wire shape pushed to connected friends.
type ActivityEvent struct {
	UserID   uint      `json:"userId"`
	UserName string    `json:"userName"`
	Type     string    `json:"type"`
	Name     string    `json:"name"`
	At       time.Time `json:"at"`
}

// BroadcastActivity delivers one event to every session of every
// recipient. Write errors are ignored, the read loop reaps dead
// connections.
func (h *FeedHub) BroadcastActivity(recipientIDs []uint, event ActivityEvent) {
	msg, _ := json.Marshal(event)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range recipientIDs {
		for c := range h.clients[id] {
			_ = c.send(msg)
		}
	}
}
