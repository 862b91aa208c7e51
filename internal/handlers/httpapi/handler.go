package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	playerRepo "github.com/ganzorig/lastplayer/internal/repositories/player"
	gameSvc "github.com/ganzorig/lastplayer/internal/services/game"
	walletSvc "github.com/ganzorig/lastplayer/internal/services/wallet"
	"github.com/ganzorig/lastplayer/internal/ws"
)

// Config holds the collaborators the HTTP layer exposes
type Config struct {
	GameService   gameSvc.Service
	WalletService walletSvc.Service
	PlayerRepo    playerRepo.Repository
	Hub           *ws.Hub
}

// Handler wires the services to gin routes
type Handler struct {
	games   gameSvc.Service
	wallets walletSvc.Service
	players playerRepo.Repository
	hub     *ws.Hub
}

// New creates a new HTTP handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.GameService == nil {
		return nil, errors.New("game service cannot be nil")
	}
	if cfg.WalletService == nil {
		return nil, errors.New("wallet service cannot be nil")
	}
	if cfg.PlayerRepo == nil {
		return nil, errors.New("player repository cannot be nil")
	}
	if cfg.Hub == nil {
		return nil, errors.New("hub cannot be nil")
	}

	return &Handler{
		games:   cfg.GameService,
		wallets: cfg.WalletService,
		players: cfg.PlayerRepo,
		hub:     cfg.Hub,
	}, nil
}

// NewRouter builds the gin engine with CORS and every route registered
func (h *Handler) NewRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	h.RegisterRoutes(router.Group("/api"))
	return router
}

// RegisterRoutes attaches every endpoint to the group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	games := rg.Group("/games")
	games.POST("", h.createGame)
	games.GET("", h.listOpenGames)
	games.GET("/:id", h.getGame)
	games.POST("/:id/join", h.joinGame)
	games.POST("/:id/start", h.startGame)
	games.POST("/:id/answers", h.submitAnswer)
	games.POST("/:id/finish", h.finishChallenge)
	games.POST("/:id/votes", h.submitVote)
	games.POST("/:id/votes/process", h.processVoteResults)
	games.GET("/:id/ws", h.serveGameSocket)
	games.GET("/:id/chat", h.getChatMessages)
	games.POST("/:id/chat", h.postChatMessage)

	players := rg.Group("/players")
	players.POST("", h.registerPlayer)
	players.GET("/:uid", h.getPlayer)

	wallet := rg.Group("/wallet")
	wallet.POST("/deposits", h.requestDeposit)
	wallet.POST("/withdrawals", h.requestWithdrawal)
	wallet.GET("/requests", h.listWalletRequests)

	admin := rg.Group("/admin")
	admin.GET("/requests", h.listPendingRequests)
	admin.POST("/requests/:id/resolve", h.resolveWalletRequest)
}

// fail translates domain errors to HTTP statuses; anything unmapped is a 500
func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, gameSvc.ErrGameNotFound),
		errors.Is(err, gameSvc.ErrPlayerNotFound),
		errors.Is(err, walletSvc.ErrRequestNotFound),
		errors.Is(err, walletSvc.ErrPlayerNotFound):
		return http.StatusNotFound

	case errors.Is(err, gameSvc.ErrNotHost),
		errors.Is(err, walletSvc.ErrNotOrganizer):
		return http.StatusForbidden

	case errors.Is(err, gameSvc.ErrAlreadySubmitted),
		errors.Is(err, gameSvc.ErrAlreadyVoted),
		errors.Is(err, gameSvc.ErrAlreadyJoined),
		errors.Is(err, gameSvc.ErrInvalidGameState),
		errors.Is(err, gameSvc.ErrVotesOutstanding),
		errors.Is(err, gameSvc.ErrRoundStillOpen),
		errors.Is(err, gameSvc.ErrRoundClosed),
		errors.Is(err, gameSvc.ErrJoinWindowClosed),
		errors.Is(err, gameSvc.ErrGameNotJoinable),
		errors.Is(err, gameSvc.ErrNotEnoughPlayers),
		errors.Is(err, gameSvc.ErrPlayerEliminated),
		errors.Is(err, walletSvc.ErrAlreadyResolved):
		return http.StatusConflict

	case errors.Is(err, gameSvc.ErrInsufficientFunds),
		errors.Is(err, walletSvc.ErrInsufficientFunds):
		return http.StatusPaymentRequired

	case errors.Is(err, walletSvc.ErrInvalidAmount):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
