// internal/room/participant.go
package room

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/typerace/internal/models"
)

// Conn is the room's view of a participant's connection. Write must never block:
// a slow or dead recipient cannot be allowed to stall the room.
type Conn interface {
	ID() uuid.UUID
	Write(msg map[string]interface{})
}

// Participant is one member slot of a room.
type Participant struct {
	Conn      Conn
	Name      string
	Confirmed bool
	// Connected turns false when the connection goes away mid-race; the slot is kept
	// so the participant can still be ranked with a forfeit.
	Connected bool
	Result    *models.RaceResult
}

func newParticipant(conn Conn, name string) *Participant {
	return &Participant{Conn: conn, Name: name, Connected: true}
}

func (p *Participant) status() models.PlayerStatus {
	return models.PlayerStatus{Name: p.Name, Confirmed: p.Confirmed}
}
