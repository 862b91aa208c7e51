package challenge

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/ganzorig/lastplayer/internal/services/challenge Service

// Service hands out the challenge for a given round
type Service interface {
	// GenerateForRound builds a ready-to-publish challenge for the round,
	// with a fresh ID, a live timestamp and a time limit drawn from the
	// difficulty band
	GenerateForRound(input *GenerateForRoundInput) (*GenerateForRoundOutput, error)
}
