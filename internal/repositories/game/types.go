package game

import "github.com/ganzorig/lastplayer/internal/models"

// SaveGameInput contains parameters for saving a game
type SaveGameInput struct {
	Game *models.Game
}

// GetGameInput contains parameters for retrieving a game
type GetGameInput struct {
	GameID string
}

// UpdateGameInput contains parameters for a compare-and-swap update
type UpdateGameInput struct {
	GameID string

	// Update mutates the freshly loaded game. Returning an error aborts the
	// update and surfaces that error unchanged.
	Update func(game *models.Game) error
}

// ListOpenGamesInput contains parameters for listing joinable games
type ListOpenGamesInput struct{}

// ListOpenGamesOutput contains the result of listing joinable games
type ListOpenGamesOutput struct {
	Games []*models.Game
}

// WatchGameInput contains parameters for subscribing to a game's change feed
type WatchGameInput struct {
	GameID string
}

// PutSubmissionInput contains parameters for recording a submission
type PutSubmissionInput struct {
	GameID     string
	Round      int
	Submission *models.Submission
}

// PutSubmissionOutput contains the result of recording a submission
type PutSubmissionOutput struct {
	// Stored is false when the player had already submitted this round
	Stored bool
}

// GetSubmissionsInput contains parameters for retrieving submissions
type GetSubmissionsInput struct {
	GameID string
	Round  int
}

// GetSubmissionsOutput contains the current round's submissions by player UID
type GetSubmissionsOutput struct {
	Submissions map[string]*models.Submission
}

// PutVoteInput contains parameters for recording a ballot
type PutVoteInput struct {
	GameID string
	Round  int
	Vote   *models.Vote
}

// PutVoteOutput contains the result of recording a ballot
type PutVoteOutput struct {
	// Stored is false when the player had already voted this round
	Stored bool
}

// GetVotesInput contains parameters for retrieving ballots
type GetVotesInput struct {
	GameID string
	Round  int
}

// ClearRoundInput contains parameters for deleting one round's data
type ClearRoundInput struct {
	GameID string
	Round  int
}

// AddChatMessageInput contains parameters for appending a chat message
type AddChatMessageInput struct {
	GameID  string
	Message *models.ChatMessage
}

// GetChatMessagesInput contains parameters for retrieving a chat log
type GetChatMessagesInput struct {
	GameID string
}

// GetChatMessagesOutput contains a game's chat log in send order
type GetChatMessagesOutput struct {
	Messages []*models.ChatMessage
}
