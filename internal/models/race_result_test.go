package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRaceResultValidate(t *testing.T) {
	valid := RaceResult{WPM: 72.5, Accuracy: 97.1, CorrectChars: 350, TotalChars: 360, TimeSeconds: 60}
	assert.NoError(t, valid.Validate())
	assert.NoError(t, ForfeitResult().Validate(), "forfeit must be a valid result")

	cases := map[string]RaceResult{
		"negative wpm":      {WPM: -1},
		"nan wpm":           {WPM: math.NaN()},
		"inf time":          {TimeSeconds: math.Inf(1)},
		"accuracy over 100": {Accuracy: 100.5},
		"negative chars":    {CorrectChars: -3},
		"correct > total":   {CorrectChars: 10, TotalChars: 5},
		"negative time":     {TimeSeconds: -2},
	}
	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, r.Validate())
		})
	}
}
