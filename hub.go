package main

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

type clientEvent struct {
	client *Client
	msg    ClientMessage
}

// Hub owns the three shared tables: the player registry, the room table,
// and the per-room score history. All inbound frames funnel through the
// run goroutine, so each handler runs to completion before the next; the
// mutex additionally guards the tables so handlers can be driven directly.
type Hub struct {
	cfg *Config

	clients map[*Client]bool        // live connections, joined or not
	players map[string]*Player      // connection id -> lobby player
	rooms   map[string]*Room        // room id -> live room
	history map[string][]ScoreEvent // room id -> append-only word ledger

	register   chan *Client
	unregister chan *Client
	events     chan clientEvent

	mu sync.Mutex
}

func newHub(cfg *Config) *Hub {
	return &Hub{
		cfg:        cfg,
		clients:    make(map[*Client]bool),
		players:    make(map[string]*Player),
		rooms:      make(map[string]*Room),
		history:    make(map[string][]ScoreEvent),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan clientEvent),
	}
}

func (h *Hub) run() {
	for {
		select {
		case c := <-h.register:
			h.handleRegister(c)

		case c := <-h.unregister:
			h.handleUnregister(c)

		case ev := <-h.events:
			h.dispatch(ev.client, ev.msg)
		}
	}
}

func (h *Hub) handleRegister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = true
}

// handleUnregister is the single disconnect path: room teardown first,
// then registry removal, then a roster sync for everyone left.
func (h *Hub) handleUnregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// The hub may have dropped this client already for slow consumption;
	// its player and room still need cleaning up either way.
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}

	if _, ok := h.players[c.id]; !ok {
		return
	}

	h.teardownLocked(c.id)
	delete(h.players, c.id)
	h.broadcastAll(OnlinePlayersMessage{Type: "online_players", Players: h.rosterLocked("")}, "")

	logf(h.cfg, "LOBBY: Player %s disconnected", c.id)
}

// dispatch validates the payload for the event type and hands it to the
// owning handler. Unknown types and malformed payloads are dropped here.
func (h *Hub) dispatch(c *Client, msg ClientMessage) {
	switch msg.Type {
	case "join":
		var p JoinPayload
		if json.Unmarshal(msg.Payload, &p) != nil || p.ExternalID == "" || p.DisplayName == "" {
			return
		}
		h.handleJoin(c, p)

	case "create_room":
		var p CreateRoomPayload
		if json.Unmarshal(msg.Payload, &p) != nil || p.TargetConnectionID == "" {
			return
		}
		h.requestMatch(c.id, p.TargetConnectionID)

	case "accept_request":
		var p AcceptRequestPayload
		if json.Unmarshal(msg.Payload, &p) != nil || p.From == "" {
			return
		}
		h.acceptMatch(c.id, p.From)

	case "leave_room":
		h.leaveRoom(c.id)

	case "make_move":
		var p MakeMovePayload
		if json.Unmarshal(msg.Payload, &p) != nil || p.Index == nil || p.Value == "" {
			return
		}
		h.applyMove(p.RoomID, c.id, *p.Index, p.Value)

	case "selected_cells":
		var p SelectedCellsPayload
		if json.Unmarshal(msg.Payload, &p) != nil || p.RoomID == "" {
			return
		}
		h.relaySelection(p.RoomID, c.id, p.SelectedCells)

	case "spell_check":
		var p SpellCheckPayload
		if json.Unmarshal(msg.Payload, &p) != nil || p.Word == "" || p.PlayerID == "" {
			return
		}
		h.recordWord(p.RoomID, p.PlayerID, p.Word, p.Status)

	case "send_reaction":
		var p SendReactionPayload
		if json.Unmarshal(msg.Payload, &p) != nil || p.Emoji == "" {
			return
		}
		h.sendReaction(p.RoomID, c.id, p.Emoji)

	default:
		// ignore unknown types
	}
}

// sendTo delivers to a single client, dropping the connection if its send
// buffer is full.
func (h *Hub) sendTo(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

// sendToID delivers to the client owning a connection id, if still around.
func (h *Hub) sendToID(connectionID string, msg any) {
	for c := range h.clients {
		if c.id == connectionID {
			h.sendTo(c, msg)
			return
		}
	}
}

// broadcastAll delivers to every joined player except the given id.
func (h *Hub) broadcastAll(msg any, except string) {
	for c := range h.clients {
		if c.id == except {
			continue
		}
		if _, ok := h.players[c.id]; !ok {
			continue
		}
		h.sendTo(c, msg)
	}
}

// broadcastRoom delivers to the room's occupants except the given id.
func (h *Hub) broadcastRoom(room *Room, msg any, except string) {
	for _, id := range room.Players {
		if id == except {
			continue
		}
		h.sendToID(id, msg)
	}
}

// relaySelection forwards an in-progress cell selection to the sender's
// opponent. Nothing is persisted.
func (h *Hub) relaySelection(roomID, senderID string, cells json.RawMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[roomID]
	if !ok {
		return
	}

	h.broadcastRoom(room, SelectedCellsMessage{
		Type:          "selected_cells_update",
		SelectedCells: cells,
		PlayerID:      senderID,
	}, senderID)
}

// sendReaction relays an ephemeral reaction to the whole room. Nothing is
// persisted; the id only lets clients dedupe redeliveries.
func (h *Hub) sendReaction(roomID, senderID, emoji string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[roomID]
	if !ok {
		return
	}

	h.broadcastRoom(room, ReactionMessage{
		Type:  "reaction",
		ID:    uuid.NewString(),
		Emoji: emoji,
		From:  senderID,
		Time:  time.Now(),
	}, "")
}
