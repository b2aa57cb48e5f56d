package controllers

import (
	"net/http"
	"time"

	"fittrack/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type RealtimeController struct {
	Hub *services.FeedHub
}

func NewRealtimeController(hub *services.FeedHub) *RealtimeController {
	return &RealtimeController{Hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // tighten behind ALB/CloudFront if needed
}

// FeedWS holds a websocket open and streams friend activity events.
func (rc *RealtimeController) FeedWS(c *gin.Context) {
	uid := c.GetUint("userID")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &services.FeedClient{UserID: uid, Conn: conn}
	rc.Hub.Register(cl)

	// ping keeps connections alive through some proxies. WriteControl is
	// safe alongside the hub's broadcast writes.
	go func() {
		t := time.NewTicker(25 * time.Second)
		defer t.Stop()
		for range t.C {
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
				rc.Hub.Unregister(cl)
				return
			}
		}
	}()

	// read loop ends on client close/error
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			rc.Hub.Unregister(cl)
			return
		}
	}
}
