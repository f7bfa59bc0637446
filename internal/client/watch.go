package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"

	"gamecafe-pos/internal/models"
)

type feedMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// WatchOccupancy dials the server's occupancy feed and invokes onUpdate
// for every stations broadcast until ctx is cancelled or the connection
// drops. The pushed snapshot is advisory; callers should still treat a
// full refresh as the source of truth.
func (c *Client) WatchOccupancy(ctx context.Context, onUpdate func(map[string]models.StationStatus)) error {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/api/ws"

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to occupancy feed: %w", err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		var msg feedMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("occupancy feed closed: %w", err)
		}

		if msg.Type != "STATIONS_UPDATE" {
			continue
		}

		var stations map[string]models.StationStatus
		if err := json.Unmarshal(msg.Data, &stations); err != nil {
			continue
		}
		onUpdate(stations)
	}
}
