// internal/room/timers.go
package room

import (
	"time"

	"github.com/jonboulle/clockwork"
)

type timerKind int

const (
	timerConfirmDeadline timerKind = iota
	timerCountdownTick
	timerRaceDeadline
	timerRetention
)

func (k timerKind) String() string {
	switch k {
	case timerConfirmDeadline:
		return "confirm_deadline"
	case timerCountdownTick:
		return "countdown_tick"
	case timerRaceDeadline:
		return "race_deadline"
	case timerRetention:
		return "retention"
	default:
		return "unknown"
	}
}

// timerSet keeps at most one live timer per kind for a room. All methods assume the
// room lock is held. Stopping a timer does not guarantee its callback will not run,
// so callbacks re-check the room generation themselves (see Room.armUnsafe).
type timerSet struct {
	clock  clockwork.Clock
	active map[timerKind]clockwork.Timer
}

func newTimerSet(clock clockwork.Clock) timerSet {
	return timerSet{
		clock:  clock,
		active: make(map[timerKind]clockwork.Timer),
	}
}

// arm replaces any timer of the same kind.
func (ts *timerSet) arm(kind timerKind, d time.Duration, fn func()) {
	ts.cancel(kind)
	ts.active[kind] = ts.clock.AfterFunc(d, fn)
}

func (ts *timerSet) cancel(kinds ...timerKind) {
	for _, kind := range kinds {
		if t, ok := ts.active[kind]; ok {
			t.Stop()
			delete(ts.active, kind)
		}
	}
}

func (ts *timerSet) cancelAll() {
	for kind, t := range ts.active {
		t.Stop()
		delete(ts.active, kind)
	}
}
