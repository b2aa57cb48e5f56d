package services

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Many goroutines may broadcast to the same session at once (every
// meal/workout log fans out). The per-client write lock must keep the
// underlying conn to a single writer.
func TestBroadcastActivityConcurrentWriters(t *testing.T) {
	hub := NewFeedHub()
	upgrader := websocket.Upgrader{}
	registered := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Error(err)
			return
		}
		hub.Register(&FeedClient{UserID: 1, Conn: conn})
		close(registered)
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	<-registered

	const writers, rounds = 16, 100

	// drain so server-side writes never block on a full buffer
	drained := make(chan struct{})
	go func() {
		for n := 0; n < writers*rounds; n++ {
			if _, _, err := client.ReadMessage(); err != nil {
				t.Errorf("read %d: %v", n, err)
				return
			}
		}
		close(drained)
	}()

	event := ActivityEvent{
		UserID:   2,
		UserName: "alice",
		Type:     "workout",
		Name:     strings.Repeat("x", 4096),
		At:       time.Now(),
	}
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				hub.BroadcastActivity([]uint{1}, event)
			}
		}()
	}
	wg.Wait()

	select {
	case <-drained:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for broadcast frames")
	}
	assert.NoError(t, client.Close())
}
