package main

import (
	"sort"
	"time"
)

// Player is the lobby record for one live connection.
type Player struct {
	ConnectionID  string    `json:"connectionId"`
	ExternalID    string    `json:"externalId"`
	DisplayName   string    `json:"displayName"`
	JoinedAt      time.Time `json:"joinedAt"`
	CurrentRoomID string    `json:"currentRoomId,omitempty"`
}

// handleJoin registers a player for this connection and syncs rosters.
// The new player gets its own profile before anyone else hears about it,
// so no peer can observe a roster entry ahead of the owner's ack.
func (h *Hub) handleJoin(c *Client, p JoinPayload) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.players[c.id]; ok {
		return // this connection already joined
	}

	player := &Player{
		ConnectionID: c.id,
		ExternalID:   p.ExternalID,
		DisplayName:  p.DisplayName,
		JoinedAt:     time.Now(),
	}

	h.sendTo(c, ProfileMessage{Type: "my_profile", Player: *player})
	h.broadcastAll(PlayerJoinedMessage{Type: "join_player", Player: *player}, c.id)

	h.players[c.id] = player

	h.sendTo(c, OnlinePlayersMessage{Type: "online_players", Players: h.rosterLocked(c.id)})
	h.broadcastAll(OnlinePlayersMessage{Type: "online_players", Players: h.rosterLocked("")}, c.id)

	logf(h.cfg, "LOBBY: Player %q joined as %s", p.DisplayName, c.id)
}

// rosterLocked snapshots the registry, minus the given id, oldest first.
func (h *Hub) rosterLocked(except string) []Player {
	roster := make([]Player, 0, len(h.players))
	for id, p := range h.players {
		if id == except {
			continue
		}
		roster = append(roster, *p)
	}

	sort.Slice(roster, func(i, j int) bool {
		if roster[i].JoinedAt.Equal(roster[j].JoinedAt) {
			return roster[i].ConnectionID < roster[j].ConnectionID
		}
		return roster[i].JoinedAt.Before(roster[j].JoinedAt)
	})

	return roster
}
