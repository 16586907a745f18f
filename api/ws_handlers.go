package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/brainrotbuster/buster-go/messaging"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var displayUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// Content scripts connect from extension or localhost origins only.
		return origin == "" ||
			strings.HasPrefix(origin, "chrome-extension://") ||
			strings.HasPrefix(origin, "moz-extension://") ||
			strings.HasPrefix(origin, "http://localhost:") ||
			strings.HasPrefix(origin, "http://127.0.0.1:")
	},
}

// DisplayWsHandler upgrades a content script's display channel. Display
// requests for the tab are pushed as JSON text frames until the tab closes.
func DisplayWsHandler(c *gin.Context) {
	tabID := c.Param("tabId")
	if tabID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tabId required"})
		return
	}

	broadcaster := messaging.GetGlobalBroadcaster()
	if broadcaster == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "broadcaster not initialized"})
		return
	}

	conn, err := displayUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ERROR: DisplayWsHandler - websocket upgrade failed: %v", err)
		return
	}

	client := &messaging.DisplayClient{
		Conn:  conn,
		TabID: tabID,
		Send:  make(chan []byte, 16),
	}
	broadcaster.Register(client)

	// Writer pump: owns all writes to the connection.
	go func() {
		for message := range client.Send {
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		}
		conn.Close()
	}()

	// Reader pump: we expect no inbound frames, but reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	broadcaster.Unregister(client)
	conn.Close()
}
