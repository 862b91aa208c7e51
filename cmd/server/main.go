package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/ganzorig/lastplayer/internal/handlers/httpapi"
	"github.com/ganzorig/lastplayer/internal/random"
	gameRepo "github.com/ganzorig/lastplayer/internal/repositories/game"
	playerRepo "github.com/ganzorig/lastplayer/internal/repositories/player"
	walletRepo "github.com/ganzorig/lastplayer/internal/repositories/wallet"
	challengeService "github.com/ganzorig/lastplayer/internal/services/challenge"
	gameService "github.com/ganzorig/lastplayer/internal/services/game"
	walletService "github.com/ganzorig/lastplayer/internal/services/wallet"
	"github.com/ganzorig/lastplayer/internal/ws"
)

func main() {
	setupConfig()
	setupZerolog()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     viper.GetString("REDIS_ADDR"),
		Password: viper.GetString("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	// Initialize repositories
	games, err := gameRepo.NewRedis(&gameRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create game repository")
	}

	players, err := playerRepo.NewRedis(&playerRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create player repository")
	}

	wallets, err := walletRepo.NewRedis(&walletRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create wallet repository")
	}

	// Initialize services
	challengeSvc, err := challengeService.New(&challengeService.Config{
		Generator: random.New(nil),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create challenge service")
	}

	gameSvc, err := gameService.New(&gameService.Config{
		GameRepo:         games,
		PlayerRepo:       players,
		ChallengeService: challengeSvc,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create game service")
	}

	walletSvc, err := walletService.New(&walletService.Config{
		WalletRepo: wallets,
		PlayerRepo: players,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create wallet service")
	}

	handler, err := httpapi.New(&httpapi.Config{
		GameService:   gameSvc,
		WalletService: walletSvc,
		PlayerRepo:    players,
		Hub:           ws.NewHub(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create HTTP handler")
	}

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:        ":" + port,
		Handler:     handler.NewRouter(),
		ReadTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down server")
	}

	if err := redisClient.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing Redis client")
	}

	log.Info().Msg("Server has been shut down")
}

func setupConfig() {
	// A local .env is optional; in deployed environments everything comes
	// from the process environment
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
}

func setupZerolog() {
	zerolog.LevelFieldName = "severity"
	zerolog.TimestampFieldName = "time"
	zerolog.TimeFieldFormat = time.RFC3339Nano
}
