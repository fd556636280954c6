package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sigitdim/fortisapp-sub001/utils"
)

// Event types
const (
	EventHPPUpdate    = "hpp_update"
	EventPriceChanged = "ingredient_price_changed"
	EventPromoUpdate  = "promo_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// conn is the subset of *websocket.Conn the hub writes through.
type conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub keeps websocket clients grouped by owner so one operator never sees
// another operator's figures.
type Hub struct {
	clients map[conn]uint // conn -> owner id
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[conn]uint)}
}

var defaultHub = NewHub()

// Default returns the process-wide hub used by the router.
func Default() *Hub {
	return defaultHub
}

func (h *Hub) Register(c conn, ownerID uint) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[c] = ownerID
}

func (h *Hub) Unregister(c conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.Close()
	}
}

// ClientCount is the number of connections for ownerID.
func (h *Hub) ClientCount(ownerID uint) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	n := 0
	for _, owner := range h.clients {
		if owner == ownerID {
			n++
		}
	}
	return n
}

// BroadcastHPPUpdate pushes a freshly recomputed product HPP.
func (h *Hub) BroadcastHPPUpdate(ownerID uint, data interface{}) {
	h.Broadcast(ownerID, Message{Event: EventHPPUpdate, Data: data})
}

func (h *Hub) BroadcastPriceChanged(ownerID uint, data interface{}) {
	h.Broadcast(ownerID, Message{Event: EventPriceChanged, Data: data})
}

func (h *Hub) BroadcastPromoUpdate(ownerID uint, data interface{}) {
	h.Broadcast(ownerID, Message{Event: EventPromoUpdate, Data: data})
}

// Broadcast sends msg to every client of ownerID. A failed write drops the client.
func (h *Hub) Broadcast(ownerID uint, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling %s message: %v", msg.Event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for c, owner := range h.clients {
		if owner != ownerID {
			continue
		}
		if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending %s to owner %d: %v", msg.Event, ownerID, err)
			delete(h.clients, c)
			c.Close()
		}
	}
}
