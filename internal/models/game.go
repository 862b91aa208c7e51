package models

import (
	"time"
)

// GameStatus represents the current state of a game
type GameStatus string

const (
	// GameStatusScheduled indicates a game has been created but nobody has joined yet
	GameStatusScheduled GameStatus = "scheduled"

	// GameStatusWaiting indicates a game has at least one player and is waiting to start
	GameStatusWaiting GameStatus = "waiting"

	// GameStatusActive indicates a round is in progress with a live challenge
	GameStatusActive GameStatus = "active"

	// GameStatusVoting indicates survivors are voting on continue vs end
	GameStatusVoting GameStatus = "voting"

	// GameStatusIndividualDecision indicates each survivor is deciding stay vs cash-out
	GameStatusIndividualDecision GameStatus = "individual_decision"

	// GameStatusEnded indicates the game reached its terminal state
	GameStatusEnded GameStatus = "ended"
)

// GameType selects what happens after an elimination round
type GameType string

const (
	// GameTypeClassic puts survivors through a group continue/end vote
	GameTypeClassic GameType = "classic"

	// GameTypeIndividual lets each survivor decide stay or cash-out on their own
	GameTypeIndividual GameType = "individual"
)

// Game represents one elimination contest instance
type Game struct {
	// ID is the unique identifier for the game
	ID string `json:"id"`

	// HostID is the user ID of the organizer who created the game
	HostID string `json:"hostId"`

	// Status is the current state of the game
	Status GameStatus `json:"status"`

	// GameType selects the post-elimination decision flow
	GameType GameType `json:"gameType"`

	// Players maps player UID to their state; eliminated players stay for final standings
	Players map[string]*PlayerState `json:"players"`

	// CurrentChallenge is the live challenge, present only while active
	CurrentChallenge *Challenge `json:"currentChallenge,omitempty"`

	// PrizePool is the cumulative ticket revenue; payouts are informational against it
	PrizePool int64 `json:"prizePool"`

	// TicketPrice is the buy-in charged at join
	TicketPrice int64 `json:"ticketPrice"`

	// MinPlayers is how many active players are required before the game can start
	MinPlayers int `json:"minPlayers"`

	// ScheduledStartTime is when the game is scheduled to begin
	ScheduledStartTime time.Time `json:"scheduledStartTime"`

	// JoinOpenTime is when the join window opens
	JoinOpenTime time.Time `json:"joinOpenTime"`

	// TicketPurchaseDeadline is when the join window closes
	TicketPurchaseDeadline time.Time `json:"ticketPurchaseDeadline"`

	// CurrentRound starts at 0 and advances each time the game continues
	CurrentRound int `json:"currentRound"`

	// WinnerID is set only when exactly one player survives
	WinnerID string `json:"winnerId,omitempty"`

	// Payouts records credited amounts per player UID once money has moved
	Payouts map[string]int64 `json:"payouts,omitempty"`

	// CreatedAt is when the game was created
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the game was last updated
	UpdatedAt time.Time `json:"updatedAt"`
}

// ActivePlayers returns the players still in contention, i.e. not eliminated.
func (g *Game) ActivePlayers() []*PlayerState {
	active := make([]*PlayerState, 0, len(g.Players))
	for _, p := range g.Players {
		if !p.IsEliminated {
			active = append(active, p)
		}
	}
	return active
}

// IsTerminal reports whether the game allows no further mutation.
func (g *Game) IsTerminal() bool {
	return g.Status == GameStatusEnded
}
