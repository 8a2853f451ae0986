// internal/room/errors.go
package room

import "errors"

// Protocol errors. They are reported only to the connection that caused them and never
// change room state.
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrNotAMember       = errors.New("not a member of this room")
	ErrInvalidState     = errors.New("action not allowed in the current room state")
	ErrMalformedMessage = errors.New("malformed message")
	ErrRateLimited      = errors.New("too many messages, slow down")

	// ErrCodeSpace means no free room code was found within the retry budget.
	ErrCodeSpace = errors.New("no free room code available")
)

// ErrorCode maps an error to the short code carried by the error message.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, ErrRoomFull):
		return "room_full"
	case errors.Is(err, ErrNotAMember):
		return "not_a_member"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrMalformedMessage):
		return "malformed_message"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	default:
		return "internal"
	}
}
