package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ganzorig/lastplayer/internal/common/clock"
	"github.com/ganzorig/lastplayer/internal/common/uuid"
	"github.com/ganzorig/lastplayer/internal/models"
	playerRepo "github.com/ganzorig/lastplayer/internal/repositories/player"
	walletRepo "github.com/ganzorig/lastplayer/internal/repositories/wallet"
)

// WalletError is a custom error type for wallet-related errors
type WalletError string

// Error implements the error interface
func (e WalletError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrRequestNotFound   WalletError = "wallet request not found"
	ErrAlreadyResolved   WalletError = "wallet request already resolved"
	ErrPlayerNotFound    WalletError = "player not found"
	ErrNotOrganizer      WalletError = "only an organizer can resolve requests"
	ErrInsufficientFunds WalletError = "insufficient funds for withdrawal"
	ErrInvalidAmount     WalletError = "amount must be positive"

	ErrNilConfig     WalletError = "config cannot be nil"
	ErrNilWalletRepo WalletError = "wallet repository cannot be nil"
	ErrNilPlayerRepo WalletError = "player repository cannot be nil"
)

// Config holds configuration for the wallet service
type Config struct {
	WalletRepo walletRepo.Repository
	PlayerRepo playerRepo.Repository
	Clock      clock.Clock
	UUID       uuid.UUID
}

// service implements the Service interface
type service struct {
	walletRepo walletRepo.Repository
	playerRepo playerRepo.Repository
	clock      clock.Clock
	uuid       uuid.UUID
}

// New creates a new wallet service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.WalletRepo == nil {
		return nil, ErrNilWalletRepo
	}

	if cfg.PlayerRepo == nil {
		return nil, ErrNilPlayerRepo
	}

	svc := &service{
		walletRepo: cfg.WalletRepo,
		playerRepo: cfg.PlayerRepo,
		clock:      cfg.Clock,
		uuid:       cfg.UUID,
	}

	if svc.clock == nil {
		svc.clock = &clock.DefaultClock{}
	}

	if svc.uuid == nil {
		svc.uuid = uuid.New()
	}

	return svc, nil
}

// RequestDeposit files a pending deposit request
func (s *service) RequestDeposit(ctx context.Context, input *RequestDepositInput) (*RequestDepositOutput, error) {
	if input == nil || input.UID == "" {
		return nil, errors.New("input and UID cannot be empty")
	}

	request, err := s.fileRequest(ctx, models.WalletRequestDeposit, input.UID, input.Amount, input.BankAccount)
	if err != nil {
		return nil, err
	}

	return &RequestDepositOutput{Request: request}, nil
}

// RequestWithdrawal files a pending withdrawal request
func (s *service) RequestWithdrawal(ctx context.Context, input *RequestWithdrawalInput) (*RequestWithdrawalOutput, error) {
	if input == nil || input.UID == "" {
		return nil, errors.New("input and UID cannot be empty")
	}

	request, err := s.fileRequest(ctx, models.WalletRequestWithdrawal, input.UID, input.Amount, input.BankAccount)
	if err != nil {
		return nil, err
	}

	return &RequestWithdrawalOutput{Request: request}, nil
}

func (s *service) fileRequest(ctx context.Context, kind models.WalletRequestKind, uid string, amount int64, account models.BankAccount) (*models.WalletRequest, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	profile, err := s.playerRepo.GetProfile(ctx, &playerRepo.GetProfileInput{UID: uid})
	if err != nil {
		if errors.Is(err, playerRepo.ErrProfileNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	// Withdrawals are capped by the balance at filing time; the real debit
	// happens at approval and is checked again there
	if kind == models.WalletRequestWithdrawal && profile.TotalWinnings < amount {
		return nil, ErrInsufficientFunds
	}

	request := &models.WalletRequest{
		ID:          s.uuid.NewUUID(),
		Kind:        kind,
		PlayerUID:   uid,
		PlayerName:  profile.DisplayName,
		Amount:      amount,
		BankAccount: account,
		Status:      models.WalletRequestPending,
		RequestedAt: s.clock.Now(),
	}

	err = s.walletRepo.CreateRequest(ctx, &walletRepo.CreateRequestInput{Request: request})
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	log.Info().
		Str("request_id", request.ID).
		Str("player_id", uid).
		Str("kind", string(kind)).
		Int64("amount", amount).
		Msg("wallet request filed")

	return request, nil
}

// ListPlayerRequests returns one player's request history
func (s *service) ListPlayerRequests(ctx context.Context, input *ListPlayerRequestsInput) (*ListPlayerRequestsOutput, error) {
	if input == nil || input.UID == "" {
		return nil, errors.New("input and UID cannot be empty")
	}

	requests, err := s.walletRepo.GetRequestsForPlayer(ctx, &walletRepo.GetRequestsForPlayerInput{UID: input.UID})
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	return &ListPlayerRequestsOutput{Requests: requests}, nil
}

// ListPendingRequests returns every request awaiting an organizer
func (s *service) ListPendingRequests(ctx context.Context, _ *ListPendingRequestsInput) (*ListPendingRequestsOutput, error) {
	requests, err := s.walletRepo.GetPendingRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}

	return &ListPendingRequestsOutput{Requests: requests}, nil
}

// ResolveRequest approves or rejects a pending request
func (s *service) ResolveRequest(ctx context.Context, input *ResolveRequestInput) (*ResolveRequestOutput, error) {
	if input == nil || input.RequestID == "" || input.ResolvedBy == "" {
		return nil, errors.New("input, request ID and resolver cannot be empty")
	}

	resolver, err := s.playerRepo.GetProfile(ctx, &playerRepo.GetProfileInput{UID: input.ResolvedBy})
	if err != nil {
		if errors.Is(err, playerRepo.ErrProfileNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load resolver profile: %w", err)
	}
	if resolver.Role != models.RoleOrganizer {
		return nil, ErrNotOrganizer
	}

	request, err := s.walletRepo.GetRequest(ctx, &walletRepo.GetRequestInput{RequestID: input.RequestID})
	if err != nil {
		if errors.Is(err, walletRepo.ErrRequestNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to load request: %w", err)
	}
	if request.Status != models.WalletRequestPending {
		return nil, ErrAlreadyResolved
	}

	if !input.Approve {
		return s.finishResolution(ctx, request, models.WalletRequestRejected, input.ResolvedBy)
	}

	// Approved withdrawals debit before the request flips, so a request can
	// never complete against a balance that no longer covers it
	if request.Kind == models.WalletRequestWithdrawal {
		err := s.playerRepo.DebitBalance(ctx, &playerRepo.DebitBalanceInput{
			UID:    request.PlayerUID,
			Amount: request.Amount,
		})
		if err != nil {
			if errors.Is(err, playerRepo.ErrInsufficientFunds) {
				return nil, ErrInsufficientFunds
			}
			return nil, fmt.Errorf("failed to debit balance: %w", err)
		}

		output, err := s.finishResolution(ctx, request, models.WalletRequestCompleted, input.ResolvedBy)
		if err != nil {
			// The debit went through but the request did not flip; undo it
			refundErr := s.playerRepo.CreditBalance(ctx, &playerRepo.CreditBalanceInput{
				UID:    request.PlayerUID,
				Amount: request.Amount,
			})
			if refundErr != nil {
				log.Error().Err(refundErr).
					Str("request_id", request.ID).
					Int64("amount", request.Amount).
					Msg("failed to refund withdrawal after resolution failure")
			}
			return nil, err
		}
		return output, nil
	}

	output, err := s.finishResolution(ctx, request, models.WalletRequestCompleted, input.ResolvedBy)
	if err != nil {
		return nil, err
	}

	err = s.playerRepo.CreditBalance(ctx, &playerRepo.CreditBalanceInput{
		UID:    request.PlayerUID,
		Amount: request.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to credit balance: %w", err)
	}

	return output, nil
}

func (s *service) finishResolution(ctx context.Context, request *models.WalletRequest, status models.WalletRequestStatus, resolvedBy string) (*ResolveRequestOutput, error) {
	resolved, err := s.walletRepo.ResolveRequest(ctx, &walletRepo.ResolveRequestInput{
		RequestID:   request.ID,
		Status:      status,
		ProcessedBy: resolvedBy,
		ProcessedAt: s.clock.Now(),
	})
	if err != nil {
		if errors.Is(err, walletRepo.ErrRequestAlreadyResolved) {
			return nil, ErrAlreadyResolved
		}
		if errors.Is(err, walletRepo.ErrRequestNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to resolve request: %w", err)
	}

	log.Info().
		Str("request_id", resolved.ID).
		Str("status", string(resolved.Status)).
		Str("resolved_by", resolvedBy).
		Msg("wallet request resolved")

	return &ResolveRequestOutput{Request: resolved}, nil
}
