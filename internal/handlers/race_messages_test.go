package handlers

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/jason-s-yu/typerace/internal/models"
	"github.com/jason-s-yu/typerace/internal/room"
	"github.com/jason-s-yu/typerace/internal/text"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, opts room.Options) (*room.Store, *logrus.Logger) {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	store := room.NewStore(opts, text.NewSeededCorpusProvider(text.DefaultCorpus(), 20, 7), logger)
	t.Cleanup(store.Close)
	return store, logger
}

func nextMsg(t *testing.T, conn *RaceConnection) map[string]interface{} {
	t.Helper()
	select {
	case msg := <-conn.OutChan:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message queued")
		return nil
	}
}

func drain(conn *RaceConnection) {
	for {
		select {
		case <-conn.OutChan:
		default:
			return
		}
	}
}

func send(t *testing.T, store *room.Store, conn *RaceConnection, logger *logrus.Logger, raw string) {
	t.Helper()
	handleRaceMessage(context.Background(), store, conn, []byte(raw), logger)
}

func TestHandleRaceMessageRejectsBadInput(t *testing.T) {
	store, logger := newTestStore(t, room.DefaultOptions())
	conn := NewRaceConnection(logger)

	cases := map[string]string{
		"invalid json":  `{"type":`,
		"missing type":  `{}`,
		"unknown type":  `{"type":"dance"}`,
		"bad duration":  `{"type":"create_room","name":"Ann","languageId":"en","durationSec":"sixty"}`,
		"bad language":  `{"type":"create_room","name":"Ann","languageId":"klingon","durationSec":60}`,
		"empty name":    `{"type":"create_room","name":"  ","languageId":"en","durationSec":60}`,
		"zero duration": `{"type":"create_room","name":"Ann","languageId":"en"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			send(t, store, conn, logger, raw)
			msg := nextMsg(t, conn)
			assert.Equal(t, room.MsgError, msg["type"])
			assert.Equal(t, "malformed_message", msg["code"])
		})
	}
	assert.Equal(t, 0, store.Len())
}

func TestHandleRaceMessageOutsideRoom(t *testing.T) {
	store, logger := newTestStore(t, room.DefaultOptions())
	conn := NewRaceConnection(logger)

	send(t, store, conn, logger, `{"type":"confirm"}`)
	assert.Equal(t, "not_a_member", nextMsg(t, conn)["code"])

	send(t, store, conn, logger, `{"type":"submit_result","wpm":10}`)
	assert.Equal(t, "not_a_member", nextMsg(t, conn)["code"])

	send(t, store, conn, logger, `{"type":"join_room","roomId":"NOPE22","name":"Bob"}`)
	assert.Equal(t, "room_not_found", nextMsg(t, conn)["code"])

	// Leaving with no room is a no-op.
	send(t, store, conn, logger, `{"type":"leave_room"}`)
	assert.Empty(t, conn.OutChan)
}

func TestHandleRaceMessageCreateJoinLeave(t *testing.T) {
	store, logger := newTestStore(t, room.DefaultOptions())
	ann, bob := NewRaceConnection(logger), NewRaceConnection(logger)

	send(t, store, ann, logger, `{"type":"create_room","name":"Ann","languageId":"en","durationSec":60}`)
	created := nextMsg(t, ann)
	require.Equal(t, room.MsgRoomCreated, created["type"])
	roomID := created["roomId"].(string)
	assert.Equal(t, room.MsgRoomUpdated, nextMsg(t, ann)["type"])

	send(t, store, ann, logger, `{"type":"create_room","name":"Ann","languageId":"en","durationSec":60}`)
	assert.Equal(t, "invalid_state", nextMsg(t, ann)["code"], "one room per connection")
	assert.Equal(t, 1, store.Len())

	send(t, store, bob, logger, `{"type":"join_room","roomId":"`+strings.ToLower(roomID)+`","name":"Bob"}`)
	updated := nextMsg(t, bob)
	assert.Equal(t, room.MsgRoomUpdated, updated["type"])
	assert.Equal(t, "confirming", updated["state"])
	assert.Same(t, ann.currentRoom(), bob.currentRoom())

	send(t, store, bob, logger, `{"type":"leave_room"}`)
	assert.Nil(t, bob.currentRoom())
	drain(ann)
	send(t, store, ann, logger, `{"type":"confirm"}`)
	assert.Equal(t, "invalid_state", nextMsg(t, ann)["code"], "alone again")

	send(t, store, ann, logger, `{"type":"leave_room"}`)
	assert.Equal(t, 0, store.Len())
}

func TestPrepareForRoomLeavesFinishedRoom(t *testing.T) {
	store, logger := newTestStore(t, room.DefaultOptions())
	ann := NewRaceConnection(logger)

	send(t, store, ann, logger, `{"type":"create_room","name":"Ann","languageId":"en","durationSec":60}`)
	first := ann.currentRoom()
	require.NotNil(t, first)
	first.Destroy()

	send(t, store, ann, logger, `{"type":"create_room","name":"Ann","languageId":"de","durationSec":60}`)
	second := ann.currentRoom()
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
	assert.Equal(t, "de", second.LanguageID)
}

func TestClientMessageResultShapes(t *testing.T) {
	var flat, nested ClientMessage
	require.NoError(t, json.Unmarshal([]byte(`{"type":"submit_result","wpm":72.5,"accuracy":96,"correctChars":350,"totalChars":365,"timeSeconds":60}`), &flat))
	require.NoError(t, json.Unmarshal([]byte(`{"type":"submit_result","result":{"wpm":72.5,"accuracy":96,"correctChars":350,"totalChars":365,"timeSeconds":60}}`), &nested))

	want := models.RaceResult{WPM: 72.5, Accuracy: 96, CorrectChars: 350, TotalChars: 365, TimeSeconds: 60}
	assert.Equal(t, want, flat.raceResult())
	assert.Equal(t, want, nested.raceResult())
}

func TestRaceConnectionWriteNeverBlocks(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	conn := NewRaceConnection(logger)

	done := make(chan struct{})
	go func() {
		for i := 0; i < outChanSize+5; i++ {
			conn.Write(map[string]interface{}{"type": "countdown", "sec": i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Write blocked on a full channel")
	}
	assert.Len(t, conn.OutChan, outChanSize)
	assert.Len(t, hook.AllEntries(), 5)
}
