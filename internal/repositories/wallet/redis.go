package wallet

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
	requestKeyPrefix = "wallet_request:"
	pendingSetKey    = "wallet_requests:pending"
	playerSetPrefix  = "wallet_requests:player:"

	maxResolveRetries = 5
)

// ErrRequestNotFound is returned when a request is not found
var ErrRequestNotFound = errors.New("wallet request not found")

// ErrRequestAlreadyResolved is returned when resolving a request that is no
// longer pending
var ErrRequestAlreadyResolved = errors.New("wallet request already resolved")

// ErrConcurrentUpdate is returned when a resolution keeps losing to
// concurrent writers
var ErrConcurrentUpdate = errors.New("wallet request was modified concurrently")

// Config holds configuration for the Redis wallet repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed wallet repository
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

func requestKey(id string) string {
	return requestKeyPrefix + id
}

func playerSetKey(uid string) string {
	return playerSetPrefix + uid
}

// CreateRequest records a new pending deposit or withdrawal request
func (r *redisRepository) CreateRequest(ctx context.Context, input *CreateRequestInput) error {
	if input == nil || input.Request == nil {
		return errors.New("input and request cannot be nil")
	}

	req := input.Request
	if req.ID == "" {
		return errors.New("request ID cannot be empty")
	}

	requestJSON, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, requestKey(req.ID), requestJSON, 0)
	pipe.SAdd(ctx, playerSetKey(req.PlayerUID), req.ID)
	if req.Status == models.WalletRequestPending {
		pipe.SAdd(ctx, pendingSetKey, req.ID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save request: %w", err)
	}

	return nil
}

// GetRequest retrieves a request by ID
func (r *redisRepository) GetRequest(ctx context.Context, input *GetRequestInput) (*models.WalletRequest, error) {
	if input == nil || input.RequestID == "" {
		return nil, errors.New("input and request ID cannot be empty")
	}

	return r.getRequest(ctx, input.RequestID)
}

func (r *redisRepository) getRequest(ctx context.Context, id string) (*models.WalletRequest, error) {
	requestJSON, err := r.client.Get(ctx, requestKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	var req models.WalletRequest
	if err := json.Unmarshal([]byte(requestJSON), &req); err != nil {
		return nil, fmt.Errorf("failed to unmarshal request: %w", err)
	}

	return &req, nil
}

// GetPendingRequests retrieves all requests still awaiting resolution
func (r *redisRepository) GetPendingRequests(ctx context.Context) ([]*models.WalletRequest, error) {
	return r.requestsFromSet(ctx, pendingSetKey)
}

// GetRequestsForPlayer retrieves all requests filed by one player
func (r *redisRepository) GetRequestsForPlayer(ctx context.Context, input *GetRequestsForPlayerInput) ([]*models.WalletRequest, error) {
	if input == nil || input.UID == "" {
		return nil, errors.New("input and UID cannot be empty")
	}

	return r.requestsFromSet(ctx, playerSetKey(input.UID))
}

func (r *redisRepository) requestsFromSet(ctx context.Context, setKey string) ([]*models.WalletRequest, error) {
	ids, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	requests := make([]*models.WalletRequest, 0, len(ids))
	for _, id := range ids {
		req, err := r.getRequest(ctx, id)
		if err != nil {
			if errors.Is(err, ErrRequestNotFound) {
				// Index entry for a request that was removed; skip it
				continue
			}
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, nil
}

// ResolveRequest moves a pending request to completed or rejected
func (r *redisRepository) ResolveRequest(ctx context.Context, input *ResolveRequestInput) (*models.WalletRequest, error) {
	if input == nil || input.RequestID == "" {
		return nil, errors.New("input and request ID cannot be empty")
	}

	if input.Status != models.WalletRequestCompleted && input.Status != models.WalletRequestRejected {
		return nil, fmt.Errorf("invalid resolution status: %s", input.Status)
	}

	key := requestKey(input.RequestID)

	var resolved *models.WalletRequest

	txn := func(tx *redis.Tx) error {
		requestJSON, err := tx.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				return ErrRequestNotFound
			}
			return fmt.Errorf("failed to get request: %w", err)
		}

		var req models.WalletRequest
		if err := json.Unmarshal([]byte(requestJSON), &req); err != nil {
			return fmt.Errorf("failed to unmarshal request: %w", err)
		}

		if req.Status != models.WalletRequestPending {
			return ErrRequestAlreadyResolved
		}

		req.Status = input.Status
		req.ProcessedBy = input.ProcessedBy
		processedAt := input.ProcessedAt
		req.ProcessedAt = &processedAt

		updatedJSON, err := json.Marshal(&req)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updatedJSON, 0)
			pipe.SRem(ctx, pendingSetKey, req.ID)
			return nil
		})
		if err != nil {
			return err
		}

		resolved = &req
		return nil
	}

	for attempt := 0; attempt < maxResolveRetries; attempt++ {
		err := r.client.Watch(ctx, txn, key)
		if err == nil {
			return resolved, nil
		}
		if err == redis.TxFailedErr {
			continue
		}
		return nil, err
	}

	return nil, ErrConcurrentUpdate
}
