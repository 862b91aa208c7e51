package models

import (
	"time"
)

// ChallengeType categorizes a challenge's subject matter
type ChallengeType string

const (
	ChallengeTypeQuiz   ChallengeType = "quiz"
	ChallengeTypeLogic  ChallengeType = "logic"
	ChallengeTypeSocial ChallengeType = "social"
)

// Difficulty determines the time-limit band for a challenge
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Challenge is one timed question; a game holds at most one at a time and
// challenges are superseded, never mutated in place
type Challenge struct {
	// ID is the unique identifier for the challenge instance
	ID string `json:"id"`

	// Type categorizes the question
	Type ChallengeType `json:"type"`

	// Difficulty selects the time-limit band
	Difficulty Difficulty `json:"difficulty"`

	// Title is the round headline shown to players
	Title string `json:"title"`

	// Description is the short blurb under the title
	Description string `json:"description"`

	// Question is the question text
	Question string `json:"question"`

	// Options is the ordered list of answer choices
	Options []string `json:"options"`

	// CorrectAnswer is the winning option text
	CorrectAnswer string `json:"correctAnswer"`

	// TimeLimit is the answer window in seconds
	TimeLimit int `json:"timeLimit"`

	// CreatedAt is when the challenge went live; the deadline is CreatedAt + TimeLimit
	CreatedAt time.Time `json:"createdAt"`
}

// Deadline returns the instant the submission window closes.
func (c *Challenge) Deadline() time.Time {
	return c.CreatedAt.Add(time.Duration(c.TimeLimit) * time.Second)
}
