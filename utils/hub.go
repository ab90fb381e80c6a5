package utils

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/jhansigoday/bookbridge/logger"
)

// Event is a row-level change pushed to subscribed clients. Clients react by
// refetching the affected list; the payload carries no row data.
type Event struct {
	Table  string `json:"table"`
	Action string `json:"action"`
	ID     string `json:"id,omitempty"`
}

type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

type Message struct {
	UserID string
	Event  Event
}

type Hub struct {
	Clients    map[string]*Client // Map UserID -> Client
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan Message
	Announce   chan Event
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[string]*Client),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan Message, 16),
		Announce:   make(chan Event, 16),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client.UserID] = client
			h.mu.Unlock()
		case client := <-h.Unregister:
			h.mu.Lock()
			if current, ok := h.Clients[client.UserID]; ok && current == client {
				delete(h.Clients, client.UserID)
				close(client.Send)
			}
			h.mu.Unlock()
		case message := <-h.Broadcast:
			data, err := json.Marshal(message.Event)
			if err != nil {
				logger.Log.WithError(err).Warn("hub: marshal event")
				continue
			}
			h.mu.Lock()
			if client, ok := h.Clients[message.UserID]; ok {
				select {
				case client.Send <- data:
				default:
					close(client.Send)
					delete(h.Clients, message.UserID)
				}
			}
			h.mu.Unlock()
		case event := <-h.Announce:
			data, err := json.Marshal(event)
			if err != nil {
				logger.Log.WithError(err).Warn("hub: marshal event")
				continue
			}
			h.mu.Lock()
			for userID, client := range h.Clients {
				select {
				case client.Send <- data:
				default:
					close(client.Send)
					delete(h.Clients, userID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish delivers a change event to one user's subscription, if any.
// Delivery is best effort.
func (h *Hub) Publish(userID string, ev Event) {
	select {
	case h.Broadcast <- Message{UserID: userID, Event: ev}:
	default:
		logger.Log.Warn("hub: broadcast queue full, event dropped")
	}
}

// PublishAll delivers a change event to every subscribed client.
func (h *Hub) PublishAll(ev Event) {
	select {
	case h.Announce <- ev:
	default:
		logger.Log.Warn("hub: announce queue full, event dropped")
	}
}
