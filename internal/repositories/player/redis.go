package player

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
	profileKeyPrefix   = "user:"
	playerNumberKey    = "player_number_counter"
	maxBalanceRetries  = 5
)

// ErrProfileNotFound is returned when a profile is not found
var ErrProfileNotFound = errors.New("profile not found")

// ErrInsufficientFunds is returned when a debit exceeds the balance
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrConcurrentUpdate is returned when a balance update keeps losing to
// concurrent writers
var ErrConcurrentUpdate = errors.New("profile was modified concurrently")

// Config holds configuration for the Redis player repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed player repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

func profileKey(uid string) string {
	return profileKeyPrefix + uid
}

// SaveProfile persists a user profile
func (r *redisRepository) SaveProfile(ctx context.Context, input *SaveProfileInput) error {
	if input == nil || input.Profile == nil {
		return errors.New("input and profile cannot be nil")
	}

	profileJSON, err := json.Marshal(input.Profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := r.client.Set(ctx, profileKey(input.Profile.UID), profileJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}

// GetProfile retrieves a profile by UID
func (r *redisRepository) GetProfile(ctx context.Context, input *GetProfileInput) (*models.UserProfile, error) {
	if input == nil || input.UID == "" {
		return nil, errors.New("input and UID cannot be empty")
	}

	profileJSON, err := r.client.Get(ctx, profileKey(input.UID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal([]byte(profileJSON), &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &profile, nil
}

// NextPlayerNumber allocates the next site-wide display number
func (r *redisRepository) NextPlayerNumber(ctx context.Context) (int64, error) {
	number, err := r.client.Incr(ctx, playerNumberKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate player number: %w", err)
	}
	return number, nil
}

// DebitBalance removes spendable balance, failing on insufficient funds
func (r *redisRepository) DebitBalance(ctx context.Context, input *DebitBalanceInput) error {
	if input == nil || input.UID == "" {
		return errors.New("input and UID cannot be empty")
	}
	if input.Amount < 0 {
		return errors.New("amount cannot be negative")
	}

	return r.mutateProfile(ctx, input.UID, func(profile *models.UserProfile) error {
		if profile.TotalWinnings < input.Amount {
			return ErrInsufficientFunds
		}
		profile.TotalWinnings -= input.Amount
		return nil
	})
}

// CreditBalance adds spendable balance
func (r *redisRepository) CreditBalance(ctx context.Context, input *CreditBalanceInput) error {
	if input == nil || input.UID == "" {
		return errors.New("input and UID cannot be empty")
	}
	if input.Amount < 0 {
		return errors.New("amount cannot be negative")
	}

	return r.mutateProfile(ctx, input.UID, func(profile *models.UserProfile) error {
		profile.TotalWinnings += input.Amount
		return nil
	})
}

// RecordGameResult applies one finished game to a profile
func (r *redisRepository) RecordGameResult(ctx context.Context, input *RecordGameResultInput) error {
	if input == nil || input.UID == "" {
		return errors.New("input and UID cannot be empty")
	}
	if input.Winnings < 0 {
		return errors.New("winnings cannot be negative")
	}

	return r.mutateProfile(ctx, input.UID, func(profile *models.UserProfile) error {
		profile.TotalWinnings += input.Winnings
		profile.GameWinnings += input.Winnings
		profile.GamesPlayed++
		if input.Score > profile.HighestScore {
			profile.HighestScore = input.Score
		}
		return nil
	})
}

// mutateProfile applies a mutation under WATCH-based optimistic concurrency
func (r *redisRepository) mutateProfile(ctx context.Context, uid string, mutate func(*models.UserProfile) error) error {
	key := profileKey(uid)

	txn := func(tx *redis.Tx) error {
		profileJSON, err := tx.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				return ErrProfileNotFound
			}
			return fmt.Errorf("failed to get profile: %w", err)
		}

		var profile models.UserProfile
		if err := json.Unmarshal([]byte(profileJSON), &profile); err != nil {
			return fmt.Errorf("failed to unmarshal profile: %w", err)
		}

		if err := mutate(&profile); err != nil {
			return err
		}

		updatedJSON, err := json.Marshal(&profile)
		if err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updatedJSON, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxBalanceRetries; attempt++ {
		err := r.client.Watch(ctx, txn, key)
		if err == nil {
			return nil
		}
		if err == redis.TxFailedErr {
			continue
		}
		return err
	}

	return ErrConcurrentUpdate
}
