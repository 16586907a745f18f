// Package messaging pushes display requests to connected extension tabs.
package messaging

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/brainrotbuster/buster-go/models"
	"github.com/gorilla/websocket"
)

var GlobalInstance *DisplayBroadcaster

// GetGlobalBroadcaster returns the global display broadcaster instance
func GetGlobalBroadcaster() *DisplayBroadcaster {
	return GlobalInstance
}

// DisplayClient represents a single connected content-script display channel.
type DisplayClient struct {
	Conn  *websocket.Conn
	TabID string
	Send  chan []byte
}

// DisplayBroadcaster manages per-tab display clients and routes display
// requests to them.
type DisplayBroadcaster struct {
	tabClients map[string]map[*DisplayClient]bool
	register   chan *DisplayClient
	unregister chan *DisplayClient
	mu         sync.RWMutex
}

// NewDisplayBroadcaster creates a new broadcaster instance.
func NewDisplayBroadcaster() *DisplayBroadcaster {
	return &DisplayBroadcaster{
		tabClients: make(map[string]map[*DisplayClient]bool),
		register:   make(chan *DisplayClient),
		unregister: make(chan *DisplayClient),
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *DisplayBroadcaster) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case client := <-b.register:
			b.mu.Lock()
			if _, ok := b.tabClients[client.TabID]; !ok {
				b.tabClients[client.TabID] = make(map[*DisplayClient]bool)
			}
			b.tabClients[client.TabID][client] = true
			log.Printf("Display client registered for tab: %s", client.TabID)
			b.mu.Unlock()

		case client := <-b.unregister:
			b.mu.Lock()
			if clients, ok := b.tabClients[client.TabID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.Send)
					if len(clients) == 0 {
						delete(b.tabClients, client.TabID)
					}
				}
			}
			log.Printf("Display client unregistered for tab: %s", client.TabID)
			b.mu.Unlock()

		case <-ticker.C:
			b.heartbeat()
		}
	}
}

// Register queues a client for registration.
func (b *DisplayBroadcaster) Register(client *DisplayClient) {
	b.register <- client
}

// Unregister queues a client for unregistration.
func (b *DisplayBroadcaster) Unregister(client *DisplayClient) {
	b.unregister <- client
}

// Push routes a display request to the owning tab's clients, or to every
// client when the request carries no tab.
func (b *DisplayBroadcaster) Push(request models.DisplayRequest) {
	message, err := json.Marshal(request)
	if err != nil {
		log.Printf("ERROR: DisplayBroadcaster - failed to marshal display request: %v", err)
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if request.TabID != "" {
		b.sendToTab(request.TabID, message)
		return
	}
	for tabID := range b.tabClients {
		b.sendToTab(tabID, message)
	}
}

func (b *DisplayBroadcaster) sendToTab(tabID string, message []byte) {
	clients, ok := b.tabClients[tabID]
	if !ok {
		log.Printf("DEBUG: DisplayBroadcaster - no clients for tab %s, dropping display", tabID)
		return
	}
	for client := range clients {
		select {
		case client.Send <- message:
		default:
		}
	}
}

// heartbeat keeps idle websocket channels warm so proxies don't cut them.
func (b *DisplayBroadcaster) heartbeat() {
	ping, _ := json.Marshal(map[string]string{"kind": "ping"})

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, clients := range b.tabClients {
		for client := range clients {
			select {
			case client.Send <- ping:
			default:
			}
		}
	}
}

// ClientCount returns the number of clients attached to a tab.
func (b *DisplayBroadcaster) ClientCount(tabID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.tabClients[tabID])
}
