// internal/handlers/race_messages.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jason-s-yu/typerace/internal/models"
	"github.com/jason-s-yu/typerace/internal/room"
	"github.com/sirupsen/logrus"
)

// Inbound message types.
const (
	MsgCreateRoom   = "create_room"
	MsgJoinRoom     = "join_room"
	MsgConfirm      = "confirm"
	MsgSubmitResult = "submit_result"
	MsgLeaveRoom    = "leave_room"
)

// ClientMessage is the union of every inbound payload. Result numbers may arrive flat
// or nested under "result"; the nested form wins.
type ClientMessage struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	LanguageID  string `json:"languageId"`
	DurationSec int    `json:"durationSec"`
	RoomID      string `json:"roomId"`

	models.RaceResult
	Result *models.RaceResult `json:"result,omitempty"`
}

func (m ClientMessage) raceResult() models.RaceResult {
	if m.Result != nil {
		return *m.Result
	}
	return m.RaceResult
}

// handleRaceMessage decodes one text frame and applies it. Every failure goes back to
// the sender only.
func handleRaceMessage(ctx context.Context, store *room.Store, conn *RaceConnection, data []byte, logger *logrus.Logger) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.Debugf("Conn %s: invalid json: %v", conn.ID(), err)
		conn.WriteError(fmt.Errorf("%w: invalid JSON", room.ErrMalformedMessage))
		return
	}

	if err := dispatch(ctx, store, conn, msg); err != nil {
		if room.ErrorCode(err) == "internal" {
			logger.Errorf("Conn %s: %s failed: %v", conn.ID(), msg.Type, err)
		} else {
			logger.Debugf("Conn %s: %s rejected: %v", conn.ID(), msg.Type, err)
		}
		conn.WriteError(err)
	}
}

func dispatch(ctx context.Context, store *room.Store, conn *RaceConnection, msg ClientMessage) error {
	switch msg.Type {
	case MsgCreateRoom:
		if err := conn.prepareForRoom(); err != nil {
			return err
		}
		r, err := store.Create(ctx, conn, msg.Name, msg.LanguageID, msg.DurationSec)
		if err != nil {
			return err
		}
		conn.setRoom(r)
	case MsgJoinRoom:
		if err := conn.prepareForRoom(); err != nil {
			return err
		}
		r, err := store.Join(msg.RoomID, conn, msg.Name)
		if err != nil {
			return err
		}
		conn.setRoom(r)
	case MsgConfirm:
		r := conn.currentRoom()
		if r == nil {
			return room.ErrNotAMember
		}
		return r.Confirm(conn.ID())
	case MsgSubmitResult:
		r := conn.currentRoom()
		if r == nil {
			return room.ErrNotAMember
		}
		return r.SubmitResult(conn.ID(), msg.raceResult())
	case MsgLeaveRoom:
		conn.leaveRoom()
	case "":
		return fmt.Errorf("%w: missing message type", room.ErrMalformedMessage)
	default:
		return fmt.Errorf("%w: unknown message type %q", room.ErrMalformedMessage, msg.Type)
	}
	return nil
}
