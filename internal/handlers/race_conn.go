// internal/handlers/race_conn.go
package handlers

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jason-s-yu/typerace/internal/room"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	outChanSize = 32
	// Inbound messages per second and burst. A human racer sends a handful per race.
	msgRate  rate.Limit = 10
	msgBurst            = 20
)

// RaceConnection is one WebSocket client. It belongs to at most one room at a time.
type RaceConnection struct {
	id      uuid.UUID
	OutChan chan map[string]interface{}
	limiter *rate.Limiter
	logger  *logrus.Entry

	mu   sync.Mutex
	room *room.Room
}

func NewRaceConnection(logger *logrus.Logger) *RaceConnection {
	id := uuid.New()
	return &RaceConnection{
		id:      id,
		OutChan: make(chan map[string]interface{}, outChanSize),
		limiter: rate.NewLimiter(msgRate, msgBurst),
		logger:  logger.WithField("conn", id),
	}
}

func (conn *RaceConnection) ID() uuid.UUID { return conn.id }

// Write pushes a message onto the OutChan non-blockingly. Logs if dropped.
func (conn *RaceConnection) Write(msg map[string]interface{}) {
	select {
	case conn.OutChan <- msg:
	default:
		msgType, _ := msg["type"].(string)
		conn.logger.Warnf("OutChan full. Dropped message type '%s'.", msgType)
	}
}

// WriteError reports err to this client only.
func (conn *RaceConnection) WriteError(err error) {
	conn.Write(room.ErrorMsg(err))
}

func (conn *RaceConnection) currentRoom() *room.Room {
	conn.mu.Lock()
	defer conn.mu.Unlock()
	return conn.room
}

func (conn *RaceConnection) setRoom(r *room.Room) {
	conn.mu.Lock()
	conn.room = r
	conn.mu.Unlock()
}

// prepareForRoom lets the client enter a new room. A finished room is left silently;
// an active one blocks the request.
func (conn *RaceConnection) prepareForRoom() error {
	r := conn.currentRoom()
	if r == nil {
		return nil
	}
	if !r.Finished() {
		return fmt.Errorf("%w: already in room %s", room.ErrInvalidState, r.ID)
	}
	conn.leaveRoom()
	return nil
}

// leaveRoom detaches the client from its room. Safe to call repeatedly.
func (conn *RaceConnection) leaveRoom() {
	conn.mu.Lock()
	r := conn.room
	conn.room = nil
	conn.mu.Unlock()

	if r != nil {
		r.Leave(conn.id)
	}
}
