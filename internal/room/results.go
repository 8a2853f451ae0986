// internal/room/results.go
package room

import (
	"sort"

	"github.com/jason-s-yu/typerace/internal/models"
)

// ResultEntry is one participant's outcome in join order. A nil Result is a forfeit.
type ResultEntry struct {
	Name   string
	Result *models.RaceResult
}

// RankResults orders entries by wpm descending, then accuracy descending, then join
// order. Forfeits rank as zero wpm and zero accuracy.
func RankResults(entries []ResultEntry) []models.RankedResult {
	ranked := make([]models.RankedResult, len(entries))
	for i, e := range entries {
		ranked[i] = models.RankedResult{Name: e.Name, Result: models.ForfeitResult(), Forfeit: e.Result == nil}
		if e.Result != nil {
			ranked[i].Result = *e.Result
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Result, ranked[j].Result
		if a.WPM != b.WPM {
			return a.WPM > b.WPM
		}
		return a.Accuracy > b.Accuracy
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
