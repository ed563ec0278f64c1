package websocket

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"replay-trader/models"
)

// ServeWs upgrades the connection and attaches it to the hub. Clients
// only listen; all game state changes arrive as hub events.
func ServeWs(h *models.Hub, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// Allow all origins for simplicity; adjust in production.
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("ws upgrade error:", err)
		return
	}

	client := &models.Client{Conn: conn, Send: make(chan models.WSMessage, 256)}
	h.Register <- client

	go client.WritePump()
	go client.ReadPump(h)

	client.Send <- models.WSMessage{Event: "welcome", Data: "connected to server"}
}
