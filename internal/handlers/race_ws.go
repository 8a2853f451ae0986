// internal/handlers/race_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/jason-s-yu/typerace/internal/middleware"
	"github.com/jason-s-yu/typerace/internal/room"
	"github.com/sirupsen/logrus"
)

// RaceWSHandler upgrades the request and runs one racer's connection until it closes.
// On exit the racer leaves whatever room it was in.
func RaceWSHandler(logger *logrus.Logger, store *room.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // the browser client is served from another origin
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		conn := NewRaceConnection(logger)
		middleware.LogWebSocketConnect(logger, conn.ID(), r.RemoteAddr)

		go writePump(ctx, c, conn, logger)
		err = readPump(ctx, c, store, conn, logger)

		cancel()
		conn.leaveRoom()
		middleware.LogWebSocketDisconnect(logger, conn.ID(), r.RemoteAddr, err)
	}
}

// readPump reads frames until the connection fails. A clean close returns nil.
func readPump(ctx context.Context, c *websocket.Conn, store *room.Store, conn *RaceConnection, logger *logrus.Logger) error {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		if typ != websocket.MessageText {
			logger.Warnf("Conn %s: received non-text message type %d. Ignoring.", conn.ID(), typ)
			continue
		}
		if !conn.limiter.Allow() {
			conn.WriteError(room.ErrRateLimited)
			continue
		}

		handleRaceMessage(ctx, store, conn, data, logger)
	}
}

// writePump serializes OutChan onto the socket and keeps the connection alive with pings.
func writePump(ctx context.Context, c *websocket.Conn, conn *RaceConnection, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-conn.OutChan:
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Warnf("Conn %s: failed to marshal outgoing msg: %v", conn.ID(), err)
				continue
			}

			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("Conn %s: failed to write to websocket: %v", conn.ID(), err)
				// Unblock readPump so the racer leaves its room.
				c.Close(websocket.StatusGoingAway, "write failed")
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("Conn %s: ping failed: %v. Assuming disconnect.", conn.ID(), err)
				c.Close(websocket.StatusGoingAway, "ping failed")
				return
			}
		}
	}
}
