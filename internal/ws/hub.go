// Package ws pushes spot updates to connected dashboard clients so they see
// status changes without polling.
package ws

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"parking-status-backend/internal/model"
)

// Hub fans spot updates out to every connected websocket client.
type Hub struct {
	upgrader  websocket.Upgrader
	mu        sync.Mutex
	clients   map[*websocket.Conn]struct{}
	broadcast chan model.ParkingSpot
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The dashboard may be served from a different origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:   make(map[*websocket.Conn]struct{}),
		broadcast: make(chan model.ParkingSpot, 32),
	}
}

// SpotUpdated queues a spot record for broadcast. Drops the update when the
// broadcast queue is full; clients reconcile via the regular list endpoint.
func (h *Hub) SpotUpdated(spot model.ParkingSpot) {
	select {
	case h.broadcast <- spot:
	default:
		log.Printf("Websocket broadcast queue full, dropping update for spot %s", spot.SpotID)
	}
}

// Run delivers queued updates until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case spot := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.clients {
				if err := conn.WriteJSON(spot); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		case <-ctx.Done():
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
			}
			h.clients = make(map[*websocket.Conn]struct{})
			h.mu.Unlock()
			return
		}
	}
}

// Handle upgrades the request and registers the client until it disconnects.
func (h *Hub) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	// Clients never send data; the read loop only detects disconnects.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.mu.Lock()
				delete(h.clients, conn)
				h.mu.Unlock()
				conn.Close()
				return
			}
		}
	}()
}
