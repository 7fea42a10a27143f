package main

import (
	"encoding/json"
	"time"
)

// ClientMessage is the envelope for every inbound frame. The payload stays
// raw until the type is known, then decodes into one of the structs below;
// frames that fail to decode are dropped before dispatch.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type JoinPayload struct {
	ExternalID  string `json:"externalId"`
	DisplayName string `json:"displayName"`
}

type CreateRoomPayload struct {
	TargetConnectionID string `json:"targetConnectionId"`
}

type AcceptRequestPayload struct {
	From string `json:"from"` // connection id of the original requester
}

type MakeMovePayload struct {
	RoomID string `json:"roomId"`
	Index  *int   `json:"index"` // pointer so a missing index is not index 0
	Value  string `json:"value"`
}

type SelectedCellsPayload struct {
	RoomID        string          `json:"roomId"`
	SelectedCells json.RawMessage `json:"selectedCells"` // opaque, relayed as-is
}

type SpellCheckPayload struct {
	RoomID   string `json:"roomId"`
	Word     string `json:"word"`
	PlayerID string `json:"playerId"`
	Status   bool   `json:"status"` // pre-computed accept/reject flag
}

type SendReactionPayload struct {
	RoomID string `json:"roomId"`
	Emoji  string `json:"emoji"`
}

// ProfileMessage acks a join with the player's own record.
type ProfileMessage struct {
	Type   string `json:"type"` // "my_profile"
	Player Player `json:"player"`
}

// PlayerJoinedMessage announces a new player to everyone already online.
type PlayerJoinedMessage struct {
	Type   string `json:"type"` // "join_player"
	Player Player `json:"player"`
}

// OnlinePlayersMessage carries a roster snapshot.
type OnlinePlayersMessage struct {
	Type    string   `json:"type"` // "online_players"
	Players []Player `json:"players"`
}

// GameRequestMessage is a directed match invitation.
type GameRequestMessage struct {
	Type string `json:"type"` // "game_request"
	From string `json:"from"`
	Name string `json:"name"`
}

// GameStartMessage is sent to both participants once a match is accepted.
type GameStartMessage struct {
	Type   string `json:"type"` // "game_start"
	RoomID string `json:"roomId"`
	Room   Room   `json:"room"`
}

// ErrorMessage is a user-facing validation failure notice.
type ErrorMessage struct {
	Type    string `json:"type"` // "error_msg"
	Message string `json:"message"`
}

// PlayerLeftMessage tells the remaining occupant that their peer is gone.
type PlayerLeftMessage struct {
	Type         string `json:"type"` // "player_left"
	ConnectionID string `json:"connectionId"`
	Name         string `json:"name"`
}

// GameUpdateMessage carries the full room state after a successful move.
type GameUpdateMessage struct {
	Type string `json:"type"` // "game_update"
	Room Room   `json:"room"`
}

// SelectedCellsMessage relays a player's in-progress cell selection.
type SelectedCellsMessage struct {
	Type          string          `json:"type"` // "selected_cells_update"
	SelectedCells json.RawMessage `json:"selectedCells"`
	PlayerID      string          `json:"playerId"`
}

// ScoreUpdateMessage syncs the room's score ledger after a word submission.
type ScoreUpdateMessage struct {
	Type     string         `json:"type"` // "score_update"
	Moves    []ScoreEvent   `json:"moves"`
	Totals   map[string]int `json:"totals"`
	LastMove ScoreEvent     `json:"lastMove"`
}

// ReactionMessage relays an ephemeral reaction to the room.
type ReactionMessage struct {
	Type  string    `json:"type"` // "reaction"
	ID    string    `json:"id"`
	Emoji string    `json:"emoji"`
	From  string    `json:"from"`
	Time  time.Time `json:"time"`
}
