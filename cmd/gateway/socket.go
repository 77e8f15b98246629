package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"globalai-knowledge/internal/app"
	"globalai-knowledge/internal/broadcast"
	"globalai-knowledge/internal/httputil"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// message is the {event, data} frame used in both directions.
type message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event string          `json:"event"`
	Data  broadcast.Event `json:"data"`
}

func contributionsHandler(deps app.Deps) http.HandlerFunc {
	origins := deps.Config.AllowedOrigins()
	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return httputil.OriginAllowed(origins, r.Header.Get("Origin"))
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error.
			deps.Log.Warn("websocket upgrade failed", "err", err)
			return
		}

		connID := uuid.NewString()
		sub := deps.Hub.Register(connID)
		log := deps.Log.With("conn_id", connID)

		go writePump(conn, sub, log)
		readPump(conn, deps, connID, log)
	}
}

// readPump owns reads for conn. It unregisters the connection on exit, which
// closes the subscription and stops writePump.
func readPump(conn *websocket.Conn, deps app.Deps, connID string, log *slog.Logger) {
	defer deps.Hub.Unregister(connID)

	conn.SetReadLimit(deps.Config.MaxMessageBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Warn("websocket read failed", "err", err)
			}
			return
		}

		var msg message
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Debug("ignoring malformed frame", "err", err)
			continue
		}
		if msg.Event != broadcast.InboundEvent {
			log.Debug("ignoring unknown event", "event", msg.Event)
			continue
		}

		var c broadcast.Contribution
		if err := json.Unmarshal(msg.Data, &c); err != nil {
			log.Debug("ignoring malformed contribution", "err", err)
			continue
		}
		deps.Hub.Submit(connID, c)
	}
}

// writePump owns writes for conn: delivered events and keepalive pings.
func writePump(conn *websocket.Conn, sub *broadcast.Subscription, log *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case ev, ok := <-sub.Events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.WriteJSON(outbound{Event: broadcast.OutboundEvent, Data: ev}); err != nil {
				log.Debug("websocket write failed", "err", err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
