package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ganzorig/lastplayer/internal/models"
	"github.com/redis/go-redis/v9"
)

const (
	// Key prefixes for Redis
	gameKeyPrefix        = "game:"
	submissionsKeySuffix = ":submissions"
	votesContinueSuffix  = ":votes:continue"
	votesEndSuffix       = ":votes:end"
	chatKeySuffix        = ":chat"
	openGamesKey         = "open_games"
	updateChannelPrefix  = "game.updated:"

	// How many times a compare-and-swap update retries before giving up
	maxUpdateRetries = 5
)

// ErrGameNotFound is returned when a game is not found
var ErrGameNotFound = errors.New("game not found")

// ErrConcurrentUpdate is returned when a compare-and-swap update keeps losing
// to concurrent writers
var ErrConcurrentUpdate = errors.New("game was modified concurrently")

// Config holds configuration for the Redis game repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed game repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

func gameKey(gameID string) string {
	return gameKeyPrefix + gameID
}

// Round data is keyed by round number so a stale writer or a late reset can
// only ever touch its own round, never the live one
func roundKey(gameID string, round int) string {
	return fmt.Sprintf("%s%s:round:%d", gameKeyPrefix, gameID, round)
}

func submissionsKey(gameID string, round int) string {
	return roundKey(gameID, round) + submissionsKeySuffix
}

func votesKey(gameID string, round int, choice models.VoteChoice) string {
	if choice == models.VoteContinue {
		return roundKey(gameID, round) + votesContinueSuffix
	}
	return roundKey(gameID, round) + votesEndSuffix
}

func chatKey(gameID string) string {
	return gameKeyPrefix + gameID + chatKeySuffix
}

func updateChannel(gameID string) string {
	return updateChannelPrefix + gameID
}

// isOpen reports whether a game should appear in the lobby listing
func isOpen(game *models.Game) bool {
	return game.Status == models.GameStatusScheduled || game.Status == models.GameStatusWaiting
}

// SaveGame persists a game to Redis and publishes the change
func (r *redisRepository) SaveGame(ctx context.Context, input *SaveGameInput) error {
	if input == nil || input.Game == nil {
		return errors.New("input and game cannot be nil")
	}

	gameJSON, err := json.Marshal(input.Game)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, gameKey(input.Game.ID), gameJSON, 0)

	// Keep the lobby index in step with the status
	if isOpen(input.Game) {
		pipe.SAdd(ctx, openGamesKey, input.Game.ID)
	} else {
		pipe.SRem(ctx, openGamesKey, input.Game.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save game: %w", err)
	}

	r.publish(ctx, input.Game.ID, gameJSON)
	return nil
}

// GetGame retrieves a game by ID from Redis
func (r *redisRepository) GetGame(ctx context.Context, input *GetGameInput) (*models.Game, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	gameJSON, err := r.client.Get(ctx, gameKey(input.GameID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	var game models.Game
	if err := json.Unmarshal([]byte(gameJSON), &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}

// UpdateGame applies a mutation under WATCH-based optimistic concurrency.
// Losing the swap re-reads and re-applies; the update function must tolerate
// being called more than once.
func (r *redisRepository) UpdateGame(ctx context.Context, input *UpdateGameInput) (*models.Game, error) {
	if input == nil || input.GameID == "" || input.Update == nil {
		return nil, errors.New("input, game ID and update function cannot be empty")
	}

	key := gameKey(input.GameID)

	var updated *models.Game
	var updatedJSON []byte

	txn := func(tx *redis.Tx) error {
		gameJSON, err := tx.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				return ErrGameNotFound
			}
			return fmt.Errorf("failed to get game: %w", err)
		}

		var game models.Game
		if err := json.Unmarshal([]byte(gameJSON), &game); err != nil {
			return fmt.Errorf("failed to unmarshal game: %w", err)
		}

		if err := input.Update(&game); err != nil {
			return err
		}

		updatedJSON, err = json.Marshal(&game)
		if err != nil {
			return fmt.Errorf("failed to marshal game: %w", err)
		}
		updated = &game

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updatedJSON, 0)
			if isOpen(&game) {
				pipe.SAdd(ctx, openGamesKey, game.ID)
			} else {
				pipe.SRem(ctx, openGamesKey, game.ID)
			}
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := r.client.Watch(ctx, txn, key)
		if err == nil {
			r.publish(ctx, input.GameID, updatedJSON)
			return updated, nil
		}
		if err == redis.TxFailedErr {
			continue
		}
		return nil, err
	}

	return nil, ErrConcurrentUpdate
}

// ListOpenGames retrieves games players can still join
func (r *redisRepository) ListOpenGames(ctx context.Context, input *ListOpenGamesInput) (*ListOpenGamesOutput, error) {
	gameIDs, err := r.client.SMembers(ctx, openGamesKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get open game IDs: %w", err)
	}

	games := make([]*models.Game, 0, len(gameIDs))
	for _, gameID := range gameIDs {
		game, err := r.GetGame(ctx, &GetGameInput{GameID: gameID})
		if err != nil {
			// Game was deleted between getting the IDs and fetching it
			if errors.Is(err, ErrGameNotFound) {
				continue
			}
			return nil, err
		}
		games = append(games, game)
	}

	return &ListOpenGamesOutput{Games: games}, nil
}

// WatchGame subscribes to a game's change feed
func (r *redisRepository) WatchGame(ctx context.Context, input *WatchGameInput) (<-chan *models.Game, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	// Snapshot first so a subscriber always sees the current state even if
	// nothing changes after they connect
	current, err := r.GetGame(ctx, &GetGameInput{GameID: input.GameID})
	if err != nil {
		return nil, err
	}

	sub := r.client.Subscribe(ctx, updateChannel(input.GameID))

	out := make(chan *models.Game, 16)
	go func() {
		defer close(out)
		defer sub.Close()

		select {
		case out <- current:
		case <-ctx.Done():
			return
		}

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var game models.Game
				if err := json.Unmarshal([]byte(msg.Payload), &game); err != nil {
					continue
				}
				select {
				case out <- &game:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// PutSubmission records a player's answer; the first write wins
func (r *redisRepository) PutSubmission(ctx context.Context, input *PutSubmissionInput) (*PutSubmissionOutput, error) {
	if input == nil || input.GameID == "" || input.Submission == nil {
		return nil, errors.New("input, game ID and submission cannot be empty")
	}
	if input.Round < 1 {
		return nil, errors.New("round must be positive")
	}

	submissionJSON, err := json.Marshal(input.Submission)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submission: %w", err)
	}

	// HSETNX keeps the first submission intact under concurrent duplicates
	stored, err := r.client.HSetNX(ctx, submissionsKey(input.GameID, input.Round), input.Submission.PlayerID, submissionJSON).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	return &PutSubmissionOutput{Stored: stored}, nil
}

// GetSubmissions retrieves one round's submissions
func (r *redisRepository) GetSubmissions(ctx context.Context, input *GetSubmissionsInput) (*GetSubmissionsOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}
	if input.Round < 1 {
		return nil, errors.New("round must be positive")
	}

	entries, err := r.client.HGetAll(ctx, submissionsKey(input.GameID, input.Round)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get submissions: %w", err)
	}

	submissions := make(map[string]*models.Submission, len(entries))
	for playerID, raw := range entries {
		var submission models.Submission
		if err := json.Unmarshal([]byte(raw), &submission); err != nil {
			return nil, fmt.Errorf("failed to unmarshal submission for %s: %w", playerID, err)
		}
		submissions[playerID] = &submission
	}

	return &GetSubmissionsOutput{Submissions: submissions}, nil
}

// PutVote records a ballot, rejecting players already present in either set
func (r *redisRepository) PutVote(ctx context.Context, input *PutVoteInput) (*PutVoteOutput, error) {
	if input == nil || input.GameID == "" || input.Vote == nil {
		return nil, errors.New("input, game ID and vote cannot be empty")
	}
	if input.Round < 1 {
		return nil, errors.New("round must be positive")
	}

	voteJSON, err := json.Marshal(input.Vote)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vote: %w", err)
	}

	continueKey := votesKey(input.GameID, input.Round, models.VoteContinue)
	endKey := votesKey(input.GameID, input.Round, models.VoteEnd)

	output := &PutVoteOutput{}

	txn := func(tx *redis.Tx) error {
		inContinue, err := tx.HExists(ctx, continueKey, input.Vote.PlayerID).Result()
		if err != nil {
			return fmt.Errorf("failed to check continue votes: %w", err)
		}
		inEnd, err := tx.HExists(ctx, endKey, input.Vote.PlayerID).Result()
		if err != nil {
			return fmt.Errorf("failed to check end votes: %w", err)
		}

		if inContinue || inEnd {
			output.Stored = false
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, votesKey(input.GameID, input.Round, input.Vote.Choice), input.Vote.PlayerID, voteJSON)
			return nil
		})
		if err != nil {
			return err
		}

		output.Stored = true
		return nil
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := r.client.Watch(ctx, txn, continueKey, endKey)
		if err == nil {
			return output, nil
		}
		if err == redis.TxFailedErr {
			continue
		}
		return nil, err
	}

	return nil, ErrConcurrentUpdate
}

// GetVotes retrieves both ballot sets for one round
func (r *redisRepository) GetVotes(ctx context.Context, input *GetVotesInput) (*models.GameVotes, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}
	if input.Round < 1 {
		return nil, errors.New("round must be positive")
	}

	votes := &models.GameVotes{
		Continue: make(map[string]*models.Vote),
		End:      make(map[string]*models.Vote),
	}

	for _, choice := range []models.VoteChoice{models.VoteContinue, models.VoteEnd} {
		entries, err := r.client.HGetAll(ctx, votesKey(input.GameID, input.Round, choice)).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to get %s votes: %w", choice, err)
		}
		for playerID, raw := range entries {
			var vote models.Vote
			if err := json.Unmarshal([]byte(raw), &vote); err != nil {
				return nil, fmt.Errorf("failed to unmarshal vote for %s: %w", playerID, err)
			}
			if choice == models.VoteContinue {
				votes.Continue[playerID] = &vote
			} else {
				votes.End[playerID] = &vote
			}
		}
	}

	return votes, nil
}

// ClearRound atomically removes one round's submissions and ballot sets
func (r *redisRepository) ClearRound(ctx context.Context, input *ClearRoundInput) error {
	if input == nil || input.GameID == "" {
		return errors.New("input and game ID cannot be empty")
	}
	if input.Round < 1 {
		return errors.New("round must be positive")
	}

	// One transaction so no reader observes submissions cleared but stale
	// votes, or the reverse
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, submissionsKey(input.GameID, input.Round))
	pipe.Del(ctx, votesKey(input.GameID, input.Round, models.VoteContinue))
	pipe.Del(ctx, votesKey(input.GameID, input.Round, models.VoteEnd))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to clear round data: %w", err)
	}

	return nil
}

// AddChatMessage appends a message to a game's chat log and publishes the
// updated game so watchers refresh
func (r *redisRepository) AddChatMessage(ctx context.Context, input *AddChatMessageInput) error {
	if input == nil || input.GameID == "" || input.Message == nil {
		return errors.New("input, game ID and message cannot be empty")
	}

	messageJSON, err := json.Marshal(input.Message)
	if err != nil {
		return fmt.Errorf("failed to marshal chat message: %w", err)
	}

	if err := r.client.RPush(ctx, chatKey(input.GameID), messageJSON).Err(); err != nil {
		return fmt.Errorf("failed to store chat message: %w", err)
	}

	return nil
}

// GetChatMessages retrieves a game's chat log in send order
func (r *redisRepository) GetChatMessages(ctx context.Context, input *GetChatMessagesInput) (*GetChatMessagesOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	raws, err := r.client.LRange(ctx, chatKey(input.GameID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get chat messages: %w", err)
	}

	messages := make([]*models.ChatMessage, 0, len(raws))
	for _, raw := range raws {
		var message models.ChatMessage
		if err := json.Unmarshal([]byte(raw), &message); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chat message: %w", err)
		}
		messages = append(messages, &message)
	}

	return &GetChatMessagesOutput{Messages: messages}, nil
}

// publish pushes the updated game JSON to watchers. Best effort: a failed
// publish must not fail the write that preceded it.
func (r *redisRepository) publish(ctx context.Context, gameID string, gameJSON []byte) {
	if len(gameJSON) == 0 {
		return
	}
	_ = r.client.Publish(ctx, updateChannel(gameID), gameJSON).Err()
}
