package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestMatchDeliversDirectedInvitation(t *testing.T) {
	h := newHub(testConfig())
	a := newTestClient(h)
	b := newTestClient(h)
	c := newTestClient(h)
	joinLobby(h, a, "alice")
	joinLobby(h, b, "bob")
	joinLobby(h, c, "carol")
	drain(a)
	drain(b)
	drain(c)

	h.requestMatch(a.id, b.id)

	msgs := drain(b)
	require.Len(t, msgs, 1)
	req, ok := msgs[0].(GameRequestMessage)
	require.True(t, ok)
	assert.Equal(t, a.id, req.From)
	assert.Equal(t, "alice", req.Name)

	assert.Empty(t, drain(a), "invitations are not echoed to the sender")
	assert.Empty(t, drain(c), "invitations are not broadcast")
	assert.Empty(t, h.rooms, "no room exists until the invitation is accepted")
}

func TestRequestMatchSelfPlayRejected(t *testing.T) {
	h := newHub(testConfig())
	a := newTestClient(h)
	joinLobby(h, a, "alice")
	drain(a)

	h.requestMatch(a.id, a.id)

	msgs := drain(a)
	require.Len(t, msgs, 1)
	errMsg, ok := msgs[0].(ErrorMessage)
	require.True(t, ok)
	assert.Equal(t, "self-play not allowed", errMsg.Message)
	assert.Empty(t, h.rooms)
}

func TestRequestMatchWhileInRoomRejected(t *testing.T) {
	h := newHub(testConfig())
	a, _, _ := startMatch(t, h)
	c := newTestClient(h)
	joinLobby(h, c, "carol")
	drain(a)
	drain(c)

	h.requestMatch(a.id, c.id)
	msgs := drain(a)
	require.Len(t, msgs, 1)
	errMsg, ok := msgs[0].(ErrorMessage)
	require.True(t, ok)
	assert.Equal(t, "already in a room", errMsg.Message)

	h.requestMatch(c.id, a.id)
	msgs = drain(c)
	require.Len(t, msgs, 1)
	errMsg, ok = msgs[0].(ErrorMessage)
	require.True(t, ok)
	assert.Equal(t, "already in a room", errMsg.Message)
}

func TestRequestMatchUnknownIDsDropped(t *testing.T) {
	h := newHub(testConfig())
	a := newTestClient(h)
	joinLobby(h, a, "alice")
	drain(a)

	h.requestMatch(a.id, "no-such-connection")
	h.requestMatch("no-such-connection", a.id)

	assert.Empty(t, drain(a))
}

func TestAcceptMatchStartsGame(t *testing.T) {
	h := newHub(testConfig())
	a := newTestClient(h)
	b := newTestClient(h)
	joinLobby(h, a, "alice")
	joinLobby(h, b, "bob")
	h.requestMatch(a.id, b.id)
	drain(a)
	drain(b)

	h.acceptMatch(b.id, a.id)

	for _, c := range []*Client{a, b} {
		msgs := drain(c)
		require.Len(t, msgs, 1)
		start, ok := msgs[0].(GameStartMessage)
		require.True(t, ok)
		assert.Equal(t, roomKey(a.id, b.id), start.RoomID)
		assert.Equal(t, [2]string{a.id, b.id}, start.Room.Players, "requester takes slot 1")
		assert.Equal(t, a.id, start.Room.Turn, "requester moves first")
		assert.Equal(t, 0, start.Room.SerialNumber)
		for _, cell := range start.Room.Board {
			assert.Nil(t, cell)
		}
		assert.Equal(t, map[string]int{a.id: 0, b.id: 0}, start.Room.Scores)
	}

	room := h.rooms[roomKey(a.id, b.id)]
	require.NotNil(t, room)
	assert.Equal(t, room.ID, h.players[a.id].CurrentRoomID)
	assert.Equal(t, room.ID, h.players[b.id].CurrentRoomID)
}

func TestAcceptMatchRevalidatesRoomState(t *testing.T) {
	h := newHub(testConfig())
	a := newTestClient(h)
	b := newTestClient(h)
	c := newTestClient(h)
	joinLobby(h, a, "alice")
	joinLobby(h, b, "bob")
	joinLobby(h, c, "carol")

	// a invites b, but pairs up with c before b answers.
	h.requestMatch(a.id, b.id)
	h.requestMatch(a.id, c.id)
	h.acceptMatch(c.id, a.id)
	drain(a)
	drain(b)
	drain(c)

	h.acceptMatch(b.id, a.id)

	msgs := drain(b)
	require.Len(t, msgs, 1)
	errMsg, ok := msgs[0].(ErrorMessage)
	require.True(t, ok)
	assert.Equal(t, "room already joined", errMsg.Message)

	assert.Len(t, h.rooms, 1)
	assert.Empty(t, h.players[b.id].CurrentRoomID)
}

func TestAcceptMatchRequesterGone(t *testing.T) {
	h := newHub(testConfig())
	a := newTestClient(h)
	b := newTestClient(h)
	joinLobby(h, a, "alice")
	joinLobby(h, b, "bob")
	h.requestMatch(a.id, b.id)
	h.handleUnregister(a)
	drain(b)

	h.acceptMatch(b.id, a.id)

	msgs := drain(b)
	require.Len(t, msgs, 1)
	errMsg, ok := msgs[0].(ErrorMessage)
	require.True(t, ok)
	assert.Equal(t, "room already joined", errMsg.Message)
	assert.Empty(t, h.rooms)
}

func TestRoomKeyIgnoresPairOrder(t *testing.T) {
	assert.Equal(t, roomKey("x", "y"), roomKey("y", "x"))
	assert.NotEqual(t, roomKey("x", "y"), roomKey("x", "z"))
}
