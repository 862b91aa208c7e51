package game

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/ganzorig/lastplayer/internal/repositories/game Repository

import (
	"context"

	"github.com/ganzorig/lastplayer/internal/models"
)

// Repository defines the interface for game record persistence.
//
// The record itself lives behind UpdateGame, a compare-and-swap update that
// serializes status-guarded transitions per game. Submissions and ballots
// live in per-player slots so concurrent players never overwrite each other.
type Repository interface {
	// SaveGame persists a game unconditionally
	SaveGame(ctx context.Context, input *SaveGameInput) error

	// GetGame retrieves a game by ID
	GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error)

	// UpdateGame applies a mutation under optimistic concurrency control.
	// The update function may be invoked more than once; it must be pure
	// apart from mutating the game it is handed.
	UpdateGame(ctx context.Context, input *UpdateGameInput) (*models.Game, error)

	// ListOpenGames retrieves games players can still join
	ListOpenGames(ctx context.Context, input *ListOpenGamesInput) (*ListOpenGamesOutput, error)

	// WatchGame subscribes to a game's change feed. The channel delivers the
	// current record immediately, then every subsequent write, until the
	// context is cancelled.
	WatchGame(ctx context.Context, input *WatchGameInput) (<-chan *models.Game, error)

	// PutSubmission records a player's answer for one round. Round data is
	// keyed by round number, so a submission racing a round turnover lands
	// in its own round's slot and never the next round's. The first
	// submission wins; duplicates are reported, not overwritten.
	PutSubmission(ctx context.Context, input *PutSubmissionInput) (*PutSubmissionOutput, error)

	// GetSubmissions retrieves one round's submissions
	GetSubmissions(ctx context.Context, input *GetSubmissionsInput) (*GetSubmissionsOutput, error)

	// PutVote records a player's ballot for one round. A player already
	// present in either ballot set is rejected.
	PutVote(ctx context.Context, input *PutVoteInput) (*PutVoteOutput, error)

	// GetVotes retrieves both ballot sets for one round
	GetVotes(ctx context.Context, input *GetVotesInput) (*models.GameVotes, error)

	// ClearRound atomically removes one round's submissions and ballot sets
	// so a reader can never observe a half-reset round
	ClearRound(ctx context.Context, input *ClearRoundInput) error

	// AddChatMessage appends a message to a game's chat log
	AddChatMessage(ctx context.Context, input *AddChatMessageInput) error

	// GetChatMessages retrieves a game's chat log in send order
	GetChatMessages(ctx context.Context, input *GetChatMessagesInput) (*GetChatMessagesOutput, error)
}
