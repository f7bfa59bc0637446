package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"gamecafe-pos/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// OccupancyFeed pushes a stations snapshot to every connected client
// after each mutating call, so counters refresh on push instead of
// polling.
type OccupancyFeed struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan *Message
}

func NewOccupancyFeed() *OccupancyFeed {
	feed := &OccupancyFeed{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan *Message, 16),
	}

	go feed.run()
	return feed
}

func (f *OccupancyFeed) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	f.register <- conn

	defer func() {
		f.unregister <- conn
		conn.Close()
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if msg.Type == "PING" {
			conn.WriteJSON(Message{Type: "PONG", Data: gin.H{"timestamp": time.Now().Unix()}})
		}
	}
}

func (f *OccupancyFeed) BroadcastStations(stations map[string]models.StationStatus) {
	f.broadcast <- &Message{Type: "STATIONS_UPDATE", Data: stations}
}

func (f *OccupancyFeed) run() {
	for {
		select {
		case conn := <-f.register:
			f.clients[conn] = true

		case conn := <-f.unregister:
			delete(f.clients, conn)

		case msg := <-f.broadcast:
			for conn := range f.clients {
				if err := conn.WriteJSON(msg); err != nil {
					conn.Close()
					delete(f.clients, conn)
				}
			}
		}
	}
}
