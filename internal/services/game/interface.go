package game

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/ganzorig/lastplayer/internal/services/game Service

import "context"

// Service defines the interface for game operations
type Service interface {
	// CreateGame creates a new scheduled game
	CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error)

	// ListOpenGames returns the games players can still join
	ListOpenGames(ctx context.Context, input *ListOpenGamesInput) (*ListOpenGamesOutput, error)

	// GetGame retrieves a game by ID
	GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error)

	// WatchGame subscribes to a game's change feed
	WatchGame(ctx context.Context, input *WatchGameInput) (*WatchGameOutput, error)

	// JoinGame admits a player, charging the ticket price exactly once
	JoinGame(ctx context.Context, input *JoinGameInput) (*JoinGameOutput, error)

	// StartGame begins round one; host only
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// SubmitAnswer records a player's answer for the live challenge
	SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error)

	// FinishChallenge closes the round, eliminates per the round's
	// submissions and advances the game state
	FinishChallenge(ctx context.Context, input *FinishChallengeInput) (*FinishChallengeOutput, error)

	// SubmitVote records a survivor's continue/end ballot
	SubmitVote(ctx context.Context, input *SubmitVoteInput) (*SubmitVoteOutput, error)

	// ProcessVoteResults resolves the vote once every ballot is in
	ProcessVoteResults(ctx context.Context, input *ProcessVoteResultsInput) (*ProcessVoteResultsOutput, error)

	// PostChatMessage appends a message to a game's chat log
	PostChatMessage(ctx context.Context, input *PostChatMessageInput) (*PostChatMessageOutput, error)

	// GetChatMessages retrieves a game's chat log in send order
	GetChatMessages(ctx context.Context, input *GetChatMessagesInput) (*GetChatMessagesOutput, error)
}
