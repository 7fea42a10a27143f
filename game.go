package main

import (
	"time"
	"unicode/utf8"
)

// ScoreEvent is one word submission in a room's ledger. Immutable once
// appended.
type ScoreEvent struct {
	Word            string    `json:"word"`
	Score           int       `json:"score"`
	PlayerID        string    `json:"playerId"`
	TotalScoreAfter int       `json:"totalScoreAfter"`
	Timestamp       time.Time `json:"timestamp"`
}

// applyMove writes one board cell if the mover holds the turn and the
// slot is free, then flips the turn and broadcasts the room. Every
// rejection here is silent: no state changes, no frame goes out, and the
// client infers the drop from the missing game_update.
func (h *Hub) applyMove(roomID, connectionID string, index int, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[roomID]
	if !ok || room.Turn != connectionID {
		return
	}
	if index < 0 || index >= boardSize || room.Board[index] != nil {
		return
	}

	slot := 1
	other := room.Players[1]
	if connectionID == room.Players[1] {
		slot = 2
		other = room.Players[0]
	}

	name := ""
	if p, ok := h.players[connectionID]; ok {
		name = p.DisplayName
	}

	room.SerialNumber++
	room.Board[index] = &Cell{
		Serial:    room.SerialNumber,
		Index:     index,
		Value:     value,
		OwnerID:   connectionID,
		OwnerName: name,
		OwnerSlot: slot,
	}
	room.Turn = other

	h.broadcastRoom(room, GameUpdateMessage{Type: "game_update", Room: room.snapshot()}, "")

	logf(h.cfg, "GAME: %s played %q at %d in %s (serial %d)", connectionID, value, index, roomID, room.SerialNumber)
}

// recordWord adds a word's score to the player's total and appends the
// event to the room's ledger. A playerId outside the room's pair would
// leak a score entry with no owner, so it is dropped like every other
// logic rejection.
func (h *Hub) recordWord(roomID, playerID, word string, accepted bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[roomID]
	if !ok {
		return
	}
	if _, ok := room.Scores[playerID]; !ok {
		return
	}

	score := 0
	if accepted {
		score = utf8.RuneCountInString(word)
	}
	room.Scores[playerID] += score

	ev := ScoreEvent{
		Word:            word,
		Score:           score,
		PlayerID:        playerID,
		TotalScoreAfter: room.Scores[playerID],
		Timestamp:       time.Now(),
	}
	h.history[roomID] = append(h.history[roomID], ev)

	moves := make([]ScoreEvent, len(h.history[roomID]))
	copy(moves, h.history[roomID])

	h.broadcastRoom(room, ScoreUpdateMessage{
		Type:     "score_update",
		Moves:    moves,
		Totals:   room.snapshot().Scores,
		LastMove: ev,
	}, "")

	logf(h.cfg, "GAME: %s scored %d for %q in %s", playerID, score, word, roomID)
}
