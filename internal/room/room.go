// internal/room/room.go
package room

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/typerace/internal/models"
	"github.com/jason-s-yu/typerace/internal/text"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// State is the lifecycle phase of a room.
type State string

const (
	StateWaiting    State = "waiting"
	StateConfirming State = "confirming"
	StateCountdown  State = "countdown"
	StateRacing     State = "racing"
	StateDone       State = "done"
)

const maxMembers = 2

// Room is one head-to-head race. Every read and mutation goes through mu, so joins,
// confirmations, timer firings, submissions and leaves form a single sequence per room.
// Broadcasts are enqueued while the lock is held, which gives all members the same
// message order.
type Room struct {
	ID          string
	LanguageID  string
	DurationSec int

	opts   Options
	texts  text.Provider
	logger *logrus.Entry

	mu                 sync.Mutex
	state              State
	members            []*Participant
	sharedText         string
	confirmDeadline    time.Time
	countdownRemaining int
	// generation increments on every state change; timers armed under an older
	// generation are ignored when they fire.
	generation uint64
	timers     timerSet
	destroyed  bool
	notified   bool

	// onEmpty runs once, outside the lock, after the room is destroyed.
	onEmpty func(r *Room)
}

func newRoom(id, languageID string, durationSec int, opts Options, clock clockwork.Clock, texts text.Provider, logger *logrus.Logger) *Room {
	return &Room{
		ID:          id,
		LanguageID:  languageID,
		DurationSec: durationSec,
		opts:        opts,
		texts:       texts,
		logger:      logger.WithField("room", id),
		state:       StateWaiting,
		timers:      newTimerSet(clock),
	}
}

// Snapshot is a copy of the room state, safe to read without the lock.
type Snapshot struct {
	ID                    string
	LanguageID            string
	DurationSec           int
	State                 State
	Players               []models.PlayerStatus
	SharedText            string
	SecondConfirmDeadline time.Time
	CountdownRemaining    int
	Destroyed             bool
}

func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{
		ID:                    r.ID,
		LanguageID:            r.LanguageID,
		DurationSec:           r.DurationSec,
		State:                 r.state,
		Players:               r.playersUnsafe(),
		SharedText:            r.sharedText,
		SecondConfirmDeadline: r.confirmDeadline,
		CountdownRemaining:    r.countdownRemaining,
		Destroyed:             r.destroyed,
	}
}

// Finished reports whether the room can no longer change in a way its members care
// about: results were sent or it was torn down.
func (r *Room) Finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.destroyed || r.state == StateDone
}

// Join adds a second participant and opens the confirmation handshake.
func (r *Room) Join(conn Conn, name string) error {
	r.mu.Lock()
	defer r.unlock()

	if r.destroyed {
		return ErrRoomNotFound
	}
	if r.memberUnsafe(conn.ID()) != nil {
		return fmt.Errorf("%w: already in this room", ErrInvalidState)
	}
	if len(r.members) >= maxMembers || r.state != StateWaiting {
		return ErrRoomFull
	}

	r.members = append(r.members, newParticipant(conn, name))
	r.logger.Infof("Participant %q joined.", name)

	if len(r.members) == maxMembers {
		r.setStateUnsafe(StateConfirming)
	}
	r.broadcastRoomUpdatedUnsafe()
	return nil
}

// Confirm marks a member ready. The first confirmation arms the deadline for the
// second; the second starts the countdown.
func (r *Room) Confirm(connID uuid.UUID) error {
	r.mu.Lock()
	defer r.unlock()

	if r.destroyed {
		return ErrRoomNotFound
	}
	p := r.memberUnsafe(connID)
	if p == nil {
		return ErrNotAMember
	}
	switch r.state {
	case StateConfirming:
	case StateWaiting:
		// Both members stayed after a confirmation timeout: a new confirm reopens the handshake.
		if len(r.members) < maxMembers {
			return fmt.Errorf("%w: waiting for an opponent", ErrInvalidState)
		}
	default:
		return fmt.Errorf("%w: cannot confirm while %s", ErrInvalidState, r.state)
	}
	if p.Confirmed {
		return fmt.Errorf("%w: already confirmed", ErrInvalidState)
	}

	if r.state == StateWaiting {
		r.setStateUnsafe(StateConfirming)
	}
	p.Confirmed = true
	r.logger.Infof("Participant %q confirmed.", p.Name)

	if r.allConfirmedUnsafe() {
		r.broadcastUnsafe(playerConfirmedMsg(r.playersUnsafe(), nil))
		r.enterCountdownUnsafe()
		return nil
	}

	r.confirmDeadline = r.timers.clock.Now().Add(r.opts.ConfirmWindow)
	r.armUnsafe(timerConfirmDeadline, r.opts.ConfirmWindow, r.expireConfirmationUnsafe)
	deadlineMs := r.confirmDeadline.UnixMilli()
	r.broadcastUnsafe(playerConfirmedMsg(r.playersUnsafe(), &deadlineMs))
	return nil
}

// SubmitResult stores a member's final numbers. The race ends once every member still
// connected has submitted.
func (r *Room) SubmitResult(connID uuid.UUID, result models.RaceResult) error {
	r.mu.Lock()
	defer r.unlock()

	if r.destroyed {
		return ErrRoomNotFound
	}
	p := r.memberUnsafe(connID)
	if p == nil {
		return ErrNotAMember
	}
	if r.state != StateRacing {
		return fmt.Errorf("%w: cannot submit a result while %s", ErrInvalidState, r.state)
	}
	if p.Result != nil {
		return fmt.Errorf("%w: result already submitted", ErrInvalidState)
	}
	if err := result.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}

	p.Result = &result
	r.logger.WithFields(logrus.Fields{"wpm": result.WPM, "accuracy": result.Accuracy}).
		Infof("Participant %q submitted a result.", p.Name)

	if r.allConnectedSubmittedUnsafe() {
		r.finishUnsafe()
	}
	return nil
}

// Leave handles a disconnect or a deliberate leave. It is idempotent.
func (r *Room) Leave(connID uuid.UUID) {
	r.mu.Lock()
	defer r.unlock()

	if r.destroyed {
		return
	}
	idx := r.memberIndexUnsafe(connID)
	if idx < 0 {
		return
	}
	p := r.members[idx]

	if r.state == StateRacing {
		// The slot stays so the missing result can be ranked as a forfeit.
		if !p.Connected {
			return
		}
		p.Connected = false
		r.logger.Infof("Participant %q left mid-race.", p.Name)
		if r.connectedCountUnsafe() == 0 {
			r.destroyUnsafe()
			return
		}
		if r.allConnectedSubmittedUnsafe() {
			r.finishUnsafe()
		}
		return
	}

	r.members = append(r.members[:idx], r.members[idx+1:]...)
	r.logger.Infof("Participant %q left.", p.Name)

	if r.connectedCountUnsafe() == 0 {
		r.destroyUnsafe()
		return
	}

	switch r.state {
	case StateConfirming, StateCountdown:
		r.resetToWaitingUnsafe()
		r.broadcastRoomUpdatedUnsafe()
	case StateWaiting:
		r.broadcastRoomUpdatedUnsafe()
	}
}

// Destroy tears the room down, stopping every timer. It is idempotent.
func (r *Room) Destroy() {
	r.mu.Lock()
	defer r.unlock()
	r.destroyUnsafe()
}

// unlock releases the lock and, the first time the room is seen destroyed, runs onEmpty.
func (r *Room) unlock() {
	notify := r.destroyed && !r.notified
	if notify {
		r.notified = true
	}
	cb := r.onEmpty
	r.mu.Unlock()

	if notify && cb != nil {
		cb(r)
	}
}

func (r *Room) setStateUnsafe(s State) {
	r.logger.Debugf("State %s -> %s", r.state, s)
	r.state = s
	r.generation++
}

// armUnsafe starts a timer bound to the current state and generation. fire runs with
// the lock held and only if nothing changed since arming.
func (r *Room) armUnsafe(kind timerKind, d time.Duration, fire func()) {
	gen, state := r.generation, r.state
	r.timers.arm(kind, d, func() {
		r.mu.Lock()
		defer r.unlock()
		if r.destroyed || r.generation != gen || r.state != state {
			r.logger.WithField("timer", kind).Debug("Stale timer fired. Ignoring.")
			return
		}
		fire()
	})
}

func (r *Room) expireConfirmationUnsafe() {
	r.logger.Info("Confirmation window expired.")
	r.resetToWaitingUnsafe()
	r.broadcastUnsafe(confirmExpiredMsg())
	r.broadcastRoomUpdatedUnsafe()
}

func (r *Room) resetToWaitingUnsafe() {
	r.timers.cancel(timerConfirmDeadline, timerCountdownTick)
	r.setStateUnsafe(StateWaiting)
	for _, p := range r.members {
		p.Confirmed = false
	}
	r.confirmDeadline = time.Time{}
	r.countdownRemaining = 0
}

func (r *Room) enterCountdownUnsafe() {
	r.timers.cancel(timerConfirmDeadline)
	r.confirmDeadline = time.Time{}
	r.setStateUnsafe(StateCountdown)

	// Kept across an aborted countdown: the text is assigned once per room.
	if r.sharedText == "" {
		r.sharedText = r.texts.GetText(r.LanguageID)
	}
	r.countdownRemaining = r.opts.CountdownSec
	r.logger.Infof("Countdown started from %d.", r.countdownRemaining)

	r.broadcastUnsafe(countdownStartMsg(r.countdownRemaining))
	r.tickUnsafe()
}

// tickUnsafe emits the current countdown value. The next tick is armed before the
// broadcast so an observer of a tick can rely on the following one being scheduled.
func (r *Room) tickUnsafe() {
	if r.countdownRemaining > 0 {
		r.armUnsafe(timerCountdownTick, time.Second, func() {
			r.countdownRemaining--
			r.tickUnsafe()
		})
	}
	r.broadcastUnsafe(countdownMsg(r.countdownRemaining))
	if r.countdownRemaining <= 0 {
		r.startRaceUnsafe()
	}
}

func (r *Room) startRaceUnsafe() {
	r.timers.cancel(timerCountdownTick)
	r.setStateUnsafe(StateRacing)
	// Confirmation only means something before the race.
	for _, p := range r.members {
		p.Confirmed = false
	}

	deadline := time.Duration(r.DurationSec)*time.Second + r.opts.ResultGrace
	r.armUnsafe(timerRaceDeadline, deadline, func() {
		r.logger.Info("Race deadline reached; missing results forfeit.")
		r.finishUnsafe()
	})
	r.logger.Info("Race started.")
	r.broadcastUnsafe(startMsg(r.sharedText, r.DurationSec, r.LanguageID))
}

func (r *Room) finishUnsafe() {
	r.timers.cancel(timerRaceDeadline)
	r.setStateUnsafe(StateDone)

	entries := make([]ResultEntry, len(r.members))
	for i, p := range r.members {
		entries[i] = ResultEntry{Name: p.Name, Result: p.Result}
	}
	ranked := RankResults(entries)

	r.armUnsafe(timerRetention, r.opts.DoneRetention, func() {
		r.logger.Info("Retention period elapsed.")
		r.destroyUnsafe()
	})
	r.logger.Info("Race finished.")
	r.broadcastUnsafe(resultsMsg(ranked))
}

func (r *Room) destroyUnsafe() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	r.generation++
	r.timers.cancelAll()
	r.logger.Info("Room destroyed.")
}

func (r *Room) broadcastRoomUpdatedUnsafe() {
	r.broadcastUnsafe(roomUpdatedMsg(r.ID, r.state, r.playersUnsafe()))
}

// broadcastUnsafe writes msg to every connected member. Conn.Write never blocks.
func (r *Room) broadcastUnsafe(msg map[string]interface{}) {
	for _, p := range r.members {
		if p.Connected {
			p.Conn.Write(msg)
		}
	}
}

func (r *Room) playersUnsafe() []models.PlayerStatus {
	players := make([]models.PlayerStatus, len(r.members))
	for i, p := range r.members {
		players[i] = p.status()
	}
	return players
}

func (r *Room) memberIndexUnsafe(connID uuid.UUID) int {
	for i, p := range r.members {
		if p.Conn.ID() == connID {
			return i
		}
	}
	return -1
}

func (r *Room) memberUnsafe(connID uuid.UUID) *Participant {
	if i := r.memberIndexUnsafe(connID); i >= 0 {
		return r.members[i]
	}
	return nil
}

func (r *Room) allConfirmedUnsafe() bool {
	if len(r.members) < maxMembers {
		return false
	}
	for _, p := range r.members {
		if !p.Confirmed {
			return false
		}
	}
	return true
}

func (r *Room) allConnectedSubmittedUnsafe() bool {
	for _, p := range r.members {
		if p.Connected && p.Result == nil {
			return false
		}
	}
	return true
}

func (r *Room) connectedCountUnsafe() int {
	n := 0
	for _, p := range r.members {
		if p.Connected {
			n++
		}
	}
	return n
}
