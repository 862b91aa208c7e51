package models

import (
	"time"
)

// Role distinguishes ordinary players from game organizers
type Role string

const (
	RolePlayer    Role = "player"
	RoleOrganizer Role = "organizer"
)

// UserProfile is the account directory entry for a user.
//
// TotalWinnings is the spendable balance: ticket purchases debit it and
// payouts and completed deposits credit it. GameWinnings only counts prize
// money and is what rankings sort on.
type UserProfile struct {
	// UID is the unique identifier for the user
	UID string `json:"uid"`

	// PlayerID is the site-wide display number
	PlayerID int64 `json:"playerId"`

	// DisplayName is the name shown to other players
	DisplayName string `json:"displayName"`

	// Role is either player or organizer
	Role Role `json:"role"`

	// TotalWinnings is the current spendable balance
	TotalWinnings int64 `json:"totalWinnings"`

	// GameWinnings is the lifetime prize money won in games
	GameWinnings int64 `json:"gameWinnings"`

	// GamesPlayed counts completed games the user took part in
	GamesPlayed int `json:"gamesPlayed"`

	// HighestScore is the best cumulative score reached in a single game
	HighestScore int `json:"highestScore"`

	// CreatedAt is when the profile was created
	CreatedAt time.Time `json:"createdAt"`
}
