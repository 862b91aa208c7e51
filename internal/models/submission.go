package models

import (
	"time"
)

// Submission is a player's answer for the current round; at most one per
// player per round, first write wins
type Submission struct {
	// PlayerID is the UID of the submitting player
	PlayerID string `json:"playerId"`

	// Answer is the selected option text
	Answer string `json:"answer"`

	// SubmittedAt is the wall-clock receipt time; elimination ordering keys on it
	SubmittedAt time.Time `json:"submittedAt"`

	// IsCorrect records whether the answer matched
	IsCorrect bool `json:"isCorrect"`

	// Score is the time-weighted award for this submission
	Score int `json:"score"`
}
