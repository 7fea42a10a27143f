package main

const boardSize = 81

// Cell is one written board slot. Never mutated after creation.
type Cell struct {
	Serial    int    `json:"serial"`
	Index     int    `json:"index"`
	Value     string `json:"value"`
	OwnerID   string `json:"ownerConnectionId"`
	OwnerName string `json:"ownerDisplayName"`
	OwnerSlot int    `json:"ownerSlot"` // 1 or 2, the owner's position in Players
}

// Room is the authoritative state for one two-player session.
type Room struct {
	ID           string           `json:"id"`
	Players      [2]string        `json:"players"` // connection ids; index defines slot
	Turn         string           `json:"turn"`
	SerialNumber int              `json:"serialNumber"`
	Board        [boardSize]*Cell `json:"board"`
	Scores       map[string]int   `json:"scores"`
}

// roomKey builds the room id from the unordered pair of connection ids.
// A connection sits in at most one room, so two live rooms can never
// share a key.
func roomKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "#" + b
}

// snapshot returns a copy safe to hand to the write pumps. Cells are
// write-once, so sharing their pointers is fine; the scores map is not.
func (r *Room) snapshot() Room {
	cp := *r
	cp.Scores = make(map[string]int, len(r.Scores))
	for id, s := range r.Scores {
		cp.Scores[id] = s
	}
	return cp
}

// requestMatch delivers a directed invitation to the target, after the
// lobby-side checks. Unknown ids mean a stale roster; dropped quietly.
func (h *Hub) requestMatch(fromID, toID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	from, ok := h.players[fromID]
	if !ok {
		return
	}
	to, ok := h.players[toID]
	if !ok {
		return
	}

	if fromID == toID {
		h.sendToID(fromID, ErrorMessage{Type: "error_msg", Message: "self-play not allowed"})
		return
	}
	if from.CurrentRoomID != "" || to.CurrentRoomID != "" {
		h.sendToID(fromID, ErrorMessage{Type: "error_msg", Message: "already in a room"})
		return
	}

	h.sendToID(toID, GameRequestMessage{Type: "game_request", From: fromID, Name: from.DisplayName})

	logf(h.cfg, "MATCH: %s invited %s", fromID, toID)
}

// acceptMatch re-validates both sides and allocates the room. The
// invitation may be arbitrarily old, so either side can have joined
// another room or dropped off in the meantime.
func (h *Hub) acceptMatch(accepterID, requesterID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	accepter, ok := h.players[accepterID]
	if !ok || accepterID == requesterID {
		return
	}

	requester, ok := h.players[requesterID]
	if !ok || requester.CurrentRoomID != "" || accepter.CurrentRoomID != "" {
		h.sendToID(accepterID, ErrorMessage{Type: "error_msg", Message: "room already joined"})
		return
	}

	room := &Room{
		ID:      roomKey(requesterID, accepterID),
		Players: [2]string{requesterID, accepterID},
		Turn:    requesterID,
		Scores:  map[string]int{requesterID: 0, accepterID: 0},
	}

	h.rooms[room.ID] = room
	h.history[room.ID] = nil
	requester.CurrentRoomID = room.ID
	accepter.CurrentRoomID = room.ID

	h.broadcastRoom(room, GameStartMessage{Type: "game_start", RoomID: room.ID, Room: room.snapshot()}, "")

	logf(h.cfg, "MATCH: %s accepted %s, room %s", accepterID, requesterID, room.ID)
}

// leaveRoom tears down the caller's room, if any.
func (h *Hub) leaveRoom(connectionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.teardownLocked(connectionID)
}

// teardownLocked notifies the peer, clears both room links, and deletes
// the room and its history. Safe to run twice for the same connection:
// the second call finds no room link and stops, so a leave racing a
// disconnect produces exactly one player_left.
func (h *Hub) teardownLocked(connectionID string) {
	player, ok := h.players[connectionID]
	if !ok || player.CurrentRoomID == "" {
		return
	}

	room, ok := h.rooms[player.CurrentRoomID]
	if !ok {
		player.CurrentRoomID = ""
		return
	}

	// The peer comes from the room's own player list; its registry entry
	// may already be gone on the disconnect path.
	for _, id := range room.Players {
		if id == connectionID {
			continue
		}
		h.sendToID(id, PlayerLeftMessage{
			Type:         "player_left",
			ConnectionID: connectionID,
			Name:         player.DisplayName,
		})
		if peer, ok := h.players[id]; ok {
			peer.CurrentRoomID = ""
		}
	}

	player.CurrentRoomID = ""
	delete(h.history, room.ID)
	delete(h.rooms, room.ID)

	logf(h.cfg, "ROOMS: %s torn down after %s left", room.ID, connectionID)
}
