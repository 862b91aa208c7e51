package models

import (
	"time"
)

// VoteChoice is a ballot's direction
type VoteChoice string

const (
	// VoteContinue keeps the game going for another round
	VoteContinue VoteChoice = "continue"

	// VoteEnd stops the game and splits the pool
	VoteEnd VoteChoice = "end"
)

// Vote is a single player's ballot for the current decision point
type Vote struct {
	// PlayerID is the UID of the voting player
	PlayerID string `json:"playerId"`

	// Choice is continue or end
	Choice VoteChoice `json:"choice"`

	// Timestamp is when the ballot was cast
	Timestamp time.Time `json:"timestamp"`
}

// GameVotes holds the two ballot sets for a round; a player appears in at
// most one of them
type GameVotes struct {
	Continue map[string]*Vote `json:"continue"`
	End      map[string]*Vote `json:"end"`
}

// Total returns the number of ballots cast.
func (v *GameVotes) Total() int {
	return len(v.Continue) + len(v.End)
}
