// internal/models/player.go
package models

// PlayerStatus is the public view of a room member sent in room_updated and
// player_confirmed messages.
type PlayerStatus struct {
	Name      string `json:"name"`
	Confirmed bool   `json:"confirmed"`
}

// RankedResult is one row of the final results broadcast.
type RankedResult struct {
	Name    string     `json:"name"`
	Rank    int        `json:"rank"`
	Forfeit bool       `json:"forfeit"`
	Result  RaceResult `json:"result"`
}
