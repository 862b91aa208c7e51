package player

import "github.com/ganzorig/lastplayer/internal/models"

// SaveProfileInput contains parameters for saving a profile
type SaveProfileInput struct {
	Profile *models.UserProfile
}

// GetProfileInput contains parameters for retrieving a profile
type GetProfileInput struct {
	UID string
}

// DebitBalanceInput contains parameters for removing spendable balance
type DebitBalanceInput struct {
	UID    string
	Amount int64
}

// CreditBalanceInput contains parameters for adding spendable balance
type CreditBalanceInput struct {
	UID    string
	Amount int64
}

// RecordGameResultInput contains parameters for applying a finished game
type RecordGameResultInput struct {
	UID string

	// Winnings is the prize amount credited; zero for players who won nothing
	Winnings int64

	// Score is the player's cumulative score in the finished game
	Score int
}
