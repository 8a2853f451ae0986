// internal/models/race_result.go
package models

import (
	"fmt"
	"math"
)

// RaceResult is the final tally a client reports when its race ends.
// The server trusts the numbers; it only rejects values that cannot be real.
type RaceResult struct {
	WPM          float64 `json:"wpm"`
	Accuracy     float64 `json:"accuracy"`
	CorrectChars int     `json:"correctChars"`
	TotalChars   int     `json:"totalChars"`
	TimeSeconds  float64 `json:"timeSeconds"`
}

// Validate reports the first field that is out of range.
func (r RaceResult) Validate() error {
	for name, v := range map[string]float64{"wpm": r.WPM, "accuracy": r.Accuracy, "timeSeconds": r.TimeSeconds} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s is not a finite number", name)
		}
	}
	switch {
	case r.WPM < 0:
		return fmt.Errorf("wpm must not be negative")
	case r.Accuracy < 0 || r.Accuracy > 100:
		return fmt.Errorf("accuracy must be within 0..100")
	case r.CorrectChars < 0 || r.TotalChars < 0:
		return fmt.Errorf("character counts must not be negative")
	case r.CorrectChars > r.TotalChars:
		return fmt.Errorf("correctChars exceeds totalChars")
	case r.TimeSeconds < 0:
		return fmt.Errorf("timeSeconds must not be negative")
	}
	return nil
}

// ForfeitResult is substituted for a participant who never submitted.
func ForfeitResult() RaceResult {
	return RaceResult{}
}
