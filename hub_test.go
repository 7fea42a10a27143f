package main

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		bind: "127.0.0.1",
		port: 8080,
	}
}

func newTestClient(h *Hub) *Client {
	c := &Client{
		send: make(chan any, 256),
		id:   uuid.NewString(),
	}
	h.handleRegister(c)
	return c
}

func joinLobby(h *Hub, c *Client, name string) {
	h.handleJoin(c, JoinPayload{ExternalID: "ext-" + name, DisplayName: name})
}

// startMatch joins two clients, runs the full invite/accept handshake,
// and drains both so tests start from a clean outbox.
func startMatch(t *testing.T, h *Hub) (a, b *Client, roomID string) {
	t.Helper()

	a = newTestClient(h)
	b = newTestClient(h)
	joinLobby(h, a, "alice")
	joinLobby(h, b, "bob")

	h.requestMatch(a.id, b.id)
	h.acceptMatch(b.id, a.id)

	roomID = roomKey(a.id, b.id)
	require.Contains(t, h.rooms, roomID)

	drain(a)
	drain(b)

	return a, b, roomID
}

func drain(c *Client) []any {
	var out []any
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return out
			}
			out = append(out, msg)
		default:
			return out
		}
	}
}

func playerLeftCount(msgs []any) int {
	n := 0
	for _, msg := range msgs {
		if _, ok := msg.(PlayerLeftMessage); ok {
			n++
		}
	}
	return n
}

func TestDispatchDropsMalformedPayloads(t *testing.T) {
	h := newHub(testConfig())
	c := newTestClient(h)

	h.dispatch(c, ClientMessage{Type: "join", Payload: json.RawMessage(`{"externalId":"u1"}`)})
	h.dispatch(c, ClientMessage{Type: "join", Payload: json.RawMessage(`not json`)})
	h.dispatch(c, ClientMessage{Type: "no_such_event", Payload: json.RawMessage(`{}`)})

	assert.Empty(t, drain(c))
	assert.Empty(t, h.players)
}

func TestDispatchMakeMoveRequiresIndex(t *testing.T) {
	h := newHub(testConfig())
	a, _, roomID := startMatch(t, h)

	h.dispatch(a, ClientMessage{Type: "make_move", Payload: json.RawMessage(`{"roomId":"` + roomID + `","value":"Q"}`)})

	assert.Empty(t, drain(a))
	assert.Equal(t, 0, h.rooms[roomID].SerialNumber)
}

func TestDispatchJoinRegistersPlayer(t *testing.T) {
	h := newHub(testConfig())
	c := newTestClient(h)

	h.dispatch(c, ClientMessage{Type: "join", Payload: json.RawMessage(`{"externalId":"u1","displayName":"alice"}`)})

	require.Contains(t, h.players, c.id)
	assert.Equal(t, "u1", h.players[c.id].ExternalID)
}

func TestReactionRelayedToWholeRoom(t *testing.T) {
	h := newHub(testConfig())
	a, b, roomID := startMatch(t, h)

	h.sendReaction(roomID, a.id, "🔥")

	for _, c := range []*Client{a, b} {
		msgs := drain(c)
		require.Len(t, msgs, 1)
		reaction, ok := msgs[0].(ReactionMessage)
		require.True(t, ok)
		assert.NotEmpty(t, reaction.ID)
		assert.Equal(t, "🔥", reaction.Emoji)
		assert.Equal(t, a.id, reaction.From)
		assert.False(t, reaction.Time.IsZero())
	}
}

func TestReactionUnknownRoomDropped(t *testing.T) {
	h := newHub(testConfig())
	a, b, _ := startMatch(t, h)

	h.sendReaction("missing", a.id, "🔥")

	assert.Empty(t, drain(a))
	assert.Empty(t, drain(b))
}

func TestSelectionRelayExcludesSender(t *testing.T) {
	h := newHub(testConfig())
	a, b, roomID := startMatch(t, h)

	cells := json.RawMessage(`[3,4,13]`)
	h.relaySelection(roomID, a.id, cells)

	assert.Empty(t, drain(a))

	msgs := drain(b)
	require.Len(t, msgs, 1)
	update, ok := msgs[0].(SelectedCellsMessage)
	require.True(t, ok)
	assert.Equal(t, a.id, update.PlayerID)
	assert.JSONEq(t, `[3,4,13]`, string(update.SelectedCells))
}

func TestSlowClientDroppedOnSend(t *testing.T) {
	h := newHub(testConfig())
	c := &Client{
		send: make(chan any), // unbuffered, nobody reading
		id:   uuid.NewString(),
	}
	h.handleRegister(c)
	h.mu.Lock()
	h.sendTo(c, "anything")
	h.mu.Unlock()

	assert.NotContains(t, h.clients, c)
}
