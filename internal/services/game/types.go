package game

import (
	"time"

	"github.com/ganzorig/lastplayer/internal/models"
)

// CreateGameInput contains parameters for creating a game
type CreateGameInput struct {
	// HostID is the UID of the organizer creating the game
	HostID string

	// GameType selects the post-elimination decision flow
	GameType models.GameType

	// TicketPrice is the buy-in charged at join
	TicketPrice int64

	// MinPlayers is how many players are required before the game can start
	MinPlayers int

	ScheduledStartTime     time.Time
	JoinOpenTime           time.Time
	TicketPurchaseDeadline time.Time
}

// CreateGameOutput contains the result of creating a game
type CreateGameOutput struct {
	Game *models.Game
}

// ListOpenGamesInput contains parameters for listing joinable games
type ListOpenGamesInput struct{}

// ListOpenGamesOutput contains the joinable games
type ListOpenGamesOutput struct {
	Games []*models.Game
}

// GetGameInput contains parameters for retrieving a game
type GetGameInput struct {
	GameID string
}

// GetGameOutput contains the retrieved game
type GetGameOutput struct {
	Game *models.Game
}

// WatchGameInput contains parameters for subscribing to a game
type WatchGameInput struct {
	GameID string
}

// WatchGameOutput contains the game's change feed
type WatchGameOutput struct {
	// Updates delivers the current record immediately, then every write,
	// until the subscribing context is cancelled
	Updates <-chan *models.Game
}

// JoinGameInput contains parameters for joining a game
type JoinGameInput struct {
	GameID   string
	PlayerID string
}

// JoinGameOutput contains the result of joining a game
type JoinGameOutput struct {
	Game *models.Game

	// AlreadyJoined is true when the player had joined before; no second
	// charge happened
	AlreadyJoined bool
}

// StartGameInput contains parameters for starting a game
type StartGameInput struct {
	GameID string

	// HostID is the UID of the caller; must match the game's host
	HostID string
}

// StartGameOutput contains the result of starting a game
type StartGameOutput struct {
	Game *models.Game
}

// SubmitAnswerInput contains parameters for answering the live challenge
type SubmitAnswerInput struct {
	GameID   string
	PlayerID string
	Answer   string
}

// SubmitAnswerOutput contains the recorded submission
type SubmitAnswerOutput struct {
	Submission *models.Submission
}

// FinishChallengeInput contains parameters for closing the round
type FinishChallengeInput struct {
	GameID string
}

// FinishChallengeOutput contains the result of closing the round
type FinishChallengeOutput struct {
	Game *models.Game

	// EliminatedID is the UID of the eliminated player, empty when the
	// round produced no elimination
	EliminatedID string
}

// SubmitVoteInput contains parameters for casting a ballot
type SubmitVoteInput struct {
	GameID   string
	PlayerID string
	Choice   models.VoteChoice
}

// SubmitVoteOutput contains the result of casting a ballot
type SubmitVoteOutput struct {
	// Outstanding is how many survivors have not voted yet
	Outstanding int
}

// ProcessVoteResultsInput contains parameters for resolving the vote
type ProcessVoteResultsInput struct {
	GameID string
}

// ProcessVoteResultsOutput contains the result of resolving the vote
type ProcessVoteResultsOutput struct {
	Game *models.Game

	// Continued is true when the game advanced to another round
	Continued bool

	// Remainder is the undistributed part of the pool after an even split;
	// informational only
	Remainder int64
}

// PostChatMessageInput contains parameters for posting a chat message
type PostChatMessageInput struct {
	GameID     string
	PlayerID   string
	PlayerName string
	Message    string
}

// PostChatMessageOutput contains the stored chat message
type PostChatMessageOutput struct {
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
