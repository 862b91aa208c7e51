package challenge

import "github.com/ganzorig/lastplayer/internal/models"

// GenerateForRoundInput contains parameters for generating a challenge
type GenerateForRoundInput struct {
	// Round is the 1-based round number
	Round int
}

// GenerateForRoundOutput contains the generated challenge
type GenerateForRoundOutput struct {
	Challenge *models.Challenge
}
