package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ganzorig/lastplayer/internal/common/clock"
	"github.com/ganzorig/lastplayer/internal/common/uuid"
	"github.com/ganzorig/lastplayer/internal/models"
	gameRepo "github.com/ganzorig/lastplayer/internal/repositories/game"
	playerRepo "github.com/ganzorig/lastplayer/internal/repositories/player"
	challengeSvc "github.com/ganzorig/lastplayer/internal/services/challenge"
)

// watchdogGrace gives in-flight submissions a moment to land before the
// timer closes the round
const watchdogGrace = time.Second

// Config holds configuration for the game service
type Config struct {
	GameRepo         gameRepo.Repository
	PlayerRepo       playerRepo.Repository
	ChallengeService challengeSvc.Service
	Clock            clock.Clock
	UUID             uuid.UUID
}

// service implements the Service interface
type service struct {
	gameRepo         gameRepo.Repository
	playerRepo       playerRepo.Repository
	challengeService challengeSvc.Service
	clock            clock.Clock
	uuid             uuid.UUID

	// timersMu guards timers, one round watchdog per game
	timersMu sync.Mutex
	timers   map[string]*time.Timer
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.GameRepo == nil {
		return nil, ErrNilGameRepo
	}

	if cfg.PlayerRepo == nil {
		return nil, ErrNilPlayerRepo
	}

	if cfg.ChallengeService == nil {
		return nil, ErrNilChallengeSvc
	}

	svc := &service{
		gameRepo:         cfg.GameRepo,
		playerRepo:       cfg.PlayerRepo,
		challengeService: cfg.ChallengeService,
		clock:            cfg.Clock,
		uuid:             cfg.UUID,
		timers:           make(map[string]*time.Timer),
	}

	if svc.clock == nil {
		svc.clock = &clock.DefaultClock{}
	}

	if svc.uuid == nil {
		svc.uuid = uuid.New()
	}

	return svc, nil
}

// CreateGame creates a new scheduled game
func (s *service) CreateGame(ctx context.Context, input *CreateGameInput) (*CreateGameOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.HostID == "" {
		return nil, errors.New("host ID cannot be empty")
	}

	if input.TicketPrice < 0 {
		return nil, errors.New("ticket price cannot be negative")
	}

	if input.MinPlayers < 2 {
		return nil, errors.New("min players must be at least 2")
	}

	if !input.JoinOpenTime.Before(input.TicketPurchaseDeadline) {
		return nil, errors.New("join window must open before the purchase deadline")
	}

	if !input.TicketPurchaseDeadline.Before(input.ScheduledStartTime) {
		return nil, errors.New("purchase deadline must come before the scheduled start")
	}

	gameType := input.GameType
	if gameType == "" {
		gameType = models.GameTypeClassic
	}
	if gameType != models.GameTypeClassic && gameType != models.GameTypeIndividual {
		return nil, fmt.Errorf("unknown game type: %s", gameType)
	}

	now := s.clock.Now()

	game := &models.Game{
		ID:                     s.uuid.NewUUID(),
		HostID:                 input.HostID,
		Status:                 models.GameStatusScheduled,
		GameType:               gameType,
		Players:                make(map[string]*models.PlayerState),
		TicketPrice:            input.TicketPrice,
		MinPlayers:             input.MinPlayers,
		ScheduledStartTime:     input.ScheduledStartTime,
		JoinOpenTime:           input.JoinOpenTime,
		TicketPurchaseDeadline: input.TicketPurchaseDeadline,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := s.gameRepo.SaveGame(ctx, &gameRepo.SaveGameInput{Game: game}); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	log.Info().
		Str("game_id", game.ID).
		Str("host_id", game.HostID).
		Str("game_type", string(game.GameType)).
		Int64("ticket_price", game.TicketPrice).
		Msg("game created")

	return &CreateGameOutput{Game: game}, nil
}

// ListOpenGames returns the games players can still join
func (s *service) ListOpenGames(ctx context.Context, _ *ListOpenGamesInput) (*ListOpenGamesOutput, error) {
	output, err := s.gameRepo.ListOpenGames(ctx, &gameRepo.ListOpenGamesInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list open games: %w", err)
	}

	return &ListOpenGamesOutput{Games: output.Games}, nil
}

// GetGame retrieves a game by ID
func (s *service) GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	game, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	return &GetGameOutput{Game: game}, nil
}

// WatchGame subscribes to a game's change feed
func (s *service) WatchGame(ctx context.Context, input *WatchGameInput) (*WatchGameOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	updates, err := s.gameRepo.WatchGame(ctx, &gameRepo.WatchGameInput{GameID: input.GameID})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to watch game: %w", err)
	}

	return &WatchGameOutput{Updates: updates}, nil
}

// JoinGame admits a player, charging the ticket price exactly once
func (s *service) JoinGame(ctx context.Context, input *JoinGameInput) (*JoinGameOutput, error) {
	if input == nil || input.GameID == "" || input.PlayerID == "" {
		return nil, errors.New("input, game ID and player ID cannot be empty")
	}

	profile, err := s.playerRepo.GetProfile(ctx, &playerRepo.GetProfileInput{UID: input.PlayerID})
	if err != nil {
		if errors.Is(err, playerRepo.ErrProfileNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	game, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	// Rejoining is a no-op; the player was charged the first time
	if _, ok := game.Players[input.PlayerID]; ok {
		return &JoinGameOutput{Game: game, AlreadyJoined: true}, nil
	}

	now := s.clock.Now()
	if err := joinableAt(game, now); err != nil {
		return nil, err
	}

	// First game ever; hand out the next display number
	if profile.PlayerID == 0 {
		number, err := s.playerRepo.NextPlayerNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate player number: %w", err)
		}
		profile.PlayerID = number
		if err := s.playerRepo.SaveProfile(ctx, &playerRepo.SaveProfileInput{Profile: profile}); err != nil {
			return nil, fmt.Errorf("failed to save profile: %w", err)
		}
	}

	if game.TicketPrice > 0 {
		err := s.playerRepo.DebitBalance(ctx, &playerRepo.DebitBalanceInput{
			UID:    input.PlayerID,
			Amount: game.TicketPrice,
		})
		if err != nil {
			if errors.Is(err, playerRepo.ErrInsufficientFunds) {
				return nil, ErrInsufficientFunds
			}
			return nil, fmt.Errorf("failed to charge ticket: %w", err)
		}
	}

	duplicate := false
	updated, err := s.gameRepo.UpdateGame(ctx, &gameRepo.UpdateGameInput{
		GameID: input.GameID,
		Update: func(g *models.Game) error {
			duplicate = false
			if _, ok := g.Players[input.PlayerID]; ok {
				duplicate = true
				return ErrAlreadyJoined
			}
			if err := joinableAt(g, now); err != nil {
				return err
			}
			if g.Players == nil {
				g.Players = make(map[string]*models.PlayerState)
			}
			g.Players[input.PlayerID] = &models.PlayerState{
				UID:         input.PlayerID,
				PlayerID:    profile.PlayerID,
				DisplayName: profile.DisplayName,
				JoinedAt:    now,
			}
			g.PrizePool += g.TicketPrice
			if g.Status == models.GameStatusScheduled {
				g.Status = models.GameStatusWaiting
			}
			g.UpdatedAt = now
			return nil
		},
	})
	if err != nil {
		// The charge went through but the admission did not; give it back
		if game.TicketPrice > 0 {
			refundErr := s.playerRepo.CreditBalance(ctx, &playerRepo.CreditBalanceInput{
				UID:    input.PlayerID,
				Amount: game.TicketPrice,
			})
			if refundErr != nil {
				log.Error().Err(refundErr).
					Str("game_id", input.GameID).
					Str("player_id", input.PlayerID).
					Int64("amount", game.TicketPrice).
					Msg("failed to refund ticket after join failure")
			}
		}

		if duplicate {
			current, getErr := s.loadGame(ctx, input.GameID)
			if getErr != nil {
				return nil, getErr
			}
			return &JoinGameOutput{Game: current, AlreadyJoined: true}, nil
		}

		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	log.Info().
		Str("game_id", updated.ID).
		Str("player_id", input.PlayerID).
		Int64("prize_pool", updated.PrizePool).
		Msg("player joined game")

	return &JoinGameOutput{Game: updated, AlreadyJoined: false}, nil
}

// StartGame begins round one; host only
func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	if input == nil || input.GameID == "" || input.HostID == "" {
		return nil, errors.New("input, game ID and host ID cannot be empty")
	}

	generated, err := s.challengeService.GenerateForRound(&challengeSvc.GenerateForRoundInput{Round: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to generate challenge: %w", err)
	}
	challenge := generated.Challenge

	// A rejected start must leave the game untouched, so every guard lives
	// inside the swap and nothing is written before it
	now := s.clock.Now()
	updated, err := s.gameRepo.UpdateGame(ctx, &gameRepo.UpdateGameInput{
		GameID: input.GameID,
		Update: func(g *models.Game) error {
			if g.Status != models.GameStatusWaiting {
				return ErrInvalidGameState
			}
			if g.HostID != input.HostID {
				return ErrNotHost
			}
			if len(g.ActivePlayers()) < g.MinPlayers {
				return ErrNotEnoughPlayers
			}
			g.Status = models.GameStatusActive
			g.CurrentRound = 1
			g.CurrentChallenge = challenge
			g.UpdatedAt = now
			return nil
		},
	})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}

	s.armWatchdog(updated.ID, challenge.Deadline())

	log.Info().
		Str("game_id", updated.ID).
		Int("players", len(updated.Players)).
		Int("time_limit", challenge.TimeLimit).
		Msg("game started")

	return &StartGameOutput{Game: updated}, nil
}

// PostChatMessage appends a message to a game's chat log
func (s *service) PostChatMessage(ctx context.Context, input *PostChatMessageInput) (*PostChatMessageOutput, error) {
	if input == nil || input.GameID == "" || input.PlayerID == "" {
		return nil, errors.New("input, game ID and player ID cannot be empty")
	}

	text := strings.TrimSpace(input.Message)
	if text == "" {
		return nil, errors.New("message cannot be empty")
	}

	game, err := s.loadGame(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	name := input.PlayerName
	if name == "" {
		if p, ok := game.Players[input.PlayerID]; ok {
			name = p.DisplayName
		}
	}

	message := &models.ChatMessage{
		ID:         s.uuid.NewUUID(),
		PlayerID:   input.PlayerID,
		PlayerName: name,
		Message:    text,
		Timestamp:  s.clock.Now(),
	}

	err = s.gameRepo.AddChatMessage(ctx, &gameRepo.AddChatMessageInput{
		GameID:  input.GameID,
		Message: message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add chat message: %w", err)
	}

	return &PostChatMessageOutput{Message: message}, nil
}

// GetChatMessages retrieves a game's chat log in send order
func (s *service) GetChatMessages(ctx context.Context, input *GetChatMessagesInput) (*GetChatMessagesOutput, error) {
	if input == nil || input.GameID == "" {
		return nil, errors.New("input and game ID cannot be empty")
	}

	output, err := s.gameRepo.GetChatMessages(ctx, &gameRepo.GetChatMessagesInput{GameID: input.GameID})
	if err != nil {
		return nil, fmt.Errorf("failed to get chat messages: %w", err)
	}

	return &GetChatMessagesOutput{Messages: output.Messages}, nil
}

// loadGame fetches a game, mapping the repository miss to the service error
func (s *service) loadGame(ctx context.Context, gameID string) (*models.Game, error) {
	game, err := s.gameRepo.GetGame(ctx, &gameRepo.GetGameInput{GameID: gameID})
	if err != nil {
		if errors.Is(err, gameRepo.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

// joinableAt checks the admission guards against one instant
func joinableAt(g *models.Game, now time.Time) error {
	if g.Status != models.GameStatusScheduled && g.Status != models.GameStatusWaiting {
		return ErrGameNotJoinable
	}
	if now.Before(g.JoinOpenTime) {
		return ErrJoinWindowClosed
	}
	if !now.Before(g.TicketPurchaseDeadline) || !now.Before(g.ScheduledStartTime) {
		return ErrJoinWindowClosed
	}
	return nil
}

// sumPayouts totals the amounts already promised out of the pool
func sumPayouts(payouts map[string]int64) int64 {
	var total int64
	for _, amount := range payouts {
		total += amount
	}
	return total
}
