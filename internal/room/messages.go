// internal/room/messages.go
package room

import "github.com/jason-s-yu/typerace/internal/models"

// Outbound message types.
const (
	MsgRoomCreated     = "room_created"
	MsgRoomUpdated     = "room_updated"
	MsgPlayerConfirmed = "player_confirmed"
	MsgConfirmExpired  = "confirm_expired"
	MsgCountdownStart  = "countdown_start"
	MsgCountdown       = "countdown"
	MsgStart           = "start"
	MsgResults         = "results"
	MsgError           = "error"
)

func roomCreatedMsg(roomID string) map[string]interface{} {
	return map[string]interface{}{
		"type":   MsgRoomCreated,
		"roomId": roomID,
	}
}

func roomUpdatedMsg(roomID string, state State, players []models.PlayerStatus) map[string]interface{} {
	return map[string]interface{}{
		"type":    MsgRoomUpdated,
		"roomId":  roomID,
		"state":   string(state),
		"players": players,
	}
}

// playerConfirmedMsg carries the deadline as unix milliseconds, or null once nobody is
// left to confirm.
func playerConfirmedMsg(players []models.PlayerStatus, deadlineMs *int64) map[string]interface{} {
	var deadline interface{}
	if deadlineMs != nil {
		deadline = *deadlineMs
	}
	return map[string]interface{}{
		"type":                  MsgPlayerConfirmed,
		"players":               players,
		"secondConfirmDeadline": deadline,
	}
}

func confirmExpiredMsg() map[string]interface{} {
	return map[string]interface{}{"type": MsgConfirmExpired}
}

func countdownStartMsg(sec int) map[string]interface{} {
	return map[string]interface{}{"type": MsgCountdownStart, "sec": sec}
}

func countdownMsg(sec int) map[string]interface{} {
	return map[string]interface{}{"type": MsgCountdown, "sec": sec}
}

func startMsg(text string, durationSec int, languageID string) map[string]interface{} {
	return map[string]interface{}{
		"type":        MsgStart,
		"text":        text,
		"durationSec": durationSec,
		"languageId":  languageID,
	}
}

func resultsMsg(results []models.RankedResult) map[string]interface{} {
	return map[string]interface{}{
		"type":    MsgResults,
		"results": results,
	}
}

// ErrorMsg builds the error message sent to the offending connection only.
func ErrorMsg(err error) map[string]interface{} {
	return map[string]interface{}{
		"type":    MsgError,
		"message": err.Error(),
		"code":    ErrorCode(err),
	}
}
