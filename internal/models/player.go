package models

import (
	"time"
)

// PlayerState represents one participant's standing within a game
type PlayerState struct {
	// UID is the user ID of the player
	UID string `json:"uid"`

	// PlayerID is the site-wide display number assigned at registration
	PlayerID int64 `json:"playerId"`

	// DisplayName is the name shown to other players
	DisplayName string `json:"displayName"`

	// Score accumulates correct-answer awards; it never decreases
	Score int `json:"score"`

	// IsEliminated flips false to true exactly once
	IsEliminated bool `json:"isEliminated"`

	// CashedOut is set when an individual-mode player took their share and left
	CashedOut bool `json:"cashedOut,omitempty"`

	// JoinedAt is when the player was admitted
	JoinedAt time.Time `json:"joinedAt"`
}
