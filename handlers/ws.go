package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jhansigoday/bookbridge/logger"
	"github.com/jhansigoday/bookbridge/middleware"
	"github.com/jhansigoday/bookbridge/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const writeWait = 10 * time.Second

type WSHandler struct {
	Hub *utils.Hub
}

func NewWSHandler(hub *utils.Hub) *WSHandler {
	return &WSHandler{Hub: hub}
}

// Subscribe upgrades the connection and streams row-change events for the
// authenticated user until the client goes away.
func (h *WSHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r)
	if claims == nil {
		utils.JSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Debug("websocket upgrade failed")
		return
	}

	client := &utils.Client{
		UserID: claims.UserID,
		Conn:   conn,
		Send:   make(chan []byte, 16),
	}
	h.Hub.Register <- client

	go writePump(client)
	readPump(h.Hub, client)
}

func writePump(c *utils.Client) {
	defer c.Conn.Close()
	for data := range c.Send {
		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func readPump(hub *utils.Hub, c *utils.Client) {
	defer func() {
		hub.Unregister <- c
		c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
