package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/ganzorig/lastplayer/internal/models"
	gameRepo "github.com/ganzorig/lastplayer/internal/repositories/game"
	playerRepo "github.com/ganzorig/lastplayer/internal/repositories/player"
	walletRepo "github.com/ganzorig/lastplayer/internal/repositories/wallet"
	"github.com/ganzorig/lastplayer/internal/random"
	challengeSvc "github.com/ganzorig/lastplayer/internal/services/challenge"
	gameSvc "github.com/ganzorig/lastplayer/internal/services/game"
	walletSvc "github.com/ganzorig/lastplayer/internal/services/wallet"
	"github.com/ganzorig/lastplayer/internal/ws"
)

// HandlerTestSuite exercises the routes against the full real stack on
// miniredis
type HandlerTestSuite struct {
	suite.Suite
	mr      *miniredis.Miniredis
	client  *redis.Client
	players playerRepo.Repository
	router  *gin.Engine
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})

	games, err := gameRepo.NewRedis(&gameRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)

	players, err := playerRepo.NewRedis(&playerRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)
	s.players = players

	wallets, err := walletRepo.NewRedis(&walletRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)

	challenges, err := challengeSvc.New(&challengeSvc.Config{
		Generator: random.New(&random.Config{Seed: 7}),
	})
	s.Require().NoError(err)

	gameService, err := gameSvc.New(&gameSvc.Config{
		GameRepo:         games,
		PlayerRepo:       players,
		ChallengeService: challenges,
	})
	s.Require().NoError(err)

	walletService, err := walletSvc.New(&walletSvc.Config{
		WalletRepo: wallets,
		PlayerRepo: players,
	})
	s.Require().NoError(err)

	handler, err := New(&Config{
		GameService:   gameService,
		WalletService: walletService,
		PlayerRepo:    players,
		Hub:           ws.NewHub(),
	})
	s.Require().NoError(err)

	s.router = handler.NewRouter()
}

func (s *HandlerTestSuite) TearDownTest() {
	s.client.Close()
	s.mr.Close()
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerTestSuite) decode(rec *httptest.ResponseRecorder, target any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), target))
}

func (s *HandlerTestSuite) registerPlayer(uid string, balance int64) {
	rec := s.do(http.MethodPost, "/api/players", gin.H{
		"uid":         uid,
		"displayName": "Player " + uid,
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	if balance > 0 {
		err := s.players.CreditBalance(context.Background(), &playerRepo.CreditBalanceInput{
			UID:    uid,
			Amount: balance,
		})
		s.Require().NoError(err)
	}
}

func (s *HandlerTestSuite) createGame(ticketPrice int64) *models.Game {
	now := time.Now()
	rec := s.do(http.MethodPost, "/api/games", gin.H{
		"hostId":                 "host-uid",
		"ticketPrice":            ticketPrice,
		"minPlayers":             2,
		"joinOpenTime":           now.Add(-time.Minute),
		"ticketPurchaseDeadline": now.Add(time.Hour),
		"scheduledStartTime":     now.Add(2 * time.Hour),
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	var game models.Game
	s.decode(rec, &game)
	return &game
}

func (s *HandlerTestSuite) TestCreateGameRejectsBadBody() {
	rec := s.do(http.MethodPost, "/api/games", gin.H{"hostId": "host-uid"})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestGetGameNotFound() {
	rec := s.do(http.MethodGet, "/api/games/missing", nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerTestSuite) TestGameLifecycleOverHTTP() {
	s.registerPlayer("p1", 50000)
	s.registerPlayer("p2", 50000)

	game := s.createGame(10000)

	rec := s.do(http.MethodGet, "/api/games", nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/games/"+game.ID+"/join", gin.H{"playerId": "p1"})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/games/"+game.ID+"/join", gin.H{"playerId": "p2"})
	s.Require().Equal(http.StatusOK, rec.Code)

	// Broke players cannot buy a ticket
	s.registerPlayer("poor", 0)
	rec = s.do(http.MethodPost, "/api/games/"+game.ID+"/join", gin.H{"playerId": "poor"})
	s.Equal(http.StatusPaymentRequired, rec.Code)

	// Only the host starts the game
	rec = s.do(http.MethodPost, "/api/games/"+game.ID+"/start", gin.H{"hostId": "p1"})
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/games/"+game.ID+"/start", gin.H{"hostId": "host-uid"})
	s.Require().Equal(http.StatusOK, rec.Code)

	var started models.Game
	s.decode(rec, &started)
	s.Equal(models.GameStatusActive, started.Status)
	s.Require().NotNil(started.CurrentChallenge)

	// Wrong answer, then the correct one; the second submission ends the
	// game with p2 as the survivor
	rec = s.do(http.MethodPost, "/api/games/"+game.ID+"/answers", gin.H{
		"playerId": "p1",
		"answer":   "not even close",
	})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodPost, "/api/games/"+game.ID+"/answers", gin.H{
		"playerId": "p2",
		"answer":   started.CurrentChallenge.CorrectAnswer,
	})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/games/"+game.ID, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var final models.Game
	s.decode(rec, &final)
	s.Equal(models.GameStatusEnded, final.Status)
	s.Equal("p2", final.WinnerID)

	// Duplicate submissions on an ended game conflict
	rec = s.do(http.MethodPost, "/api/games/"+game.ID+"/answers", gin.H{
		"playerId": "p1",
		"answer":   "again",
	})
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlerTestSuite) TestChatOverHTTP() {
	s.registerPlayer("p1", 50000)
	game := s.createGame(0)

	rec := s.do(http.MethodPost, "/api/games/"+game.ID+"/chat", gin.H{
		"playerId": "p1",
		"message":  "Амжилт хүсье!",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/api/games/"+game.ID+"/chat", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var response struct {
		Messages []*models.ChatMessage `json:"messages"`
	}
	s.decode(rec, &response)
	s.Require().Len(response.Messages, 1)
	s.Equal("Амжилт хүсье!", response.Messages[0].Message)
}

func (s *HandlerTestSuite) TestPlayerRegistrationIdempotent() {
	s.registerPlayer("p1", 0)

	rec := s.do(http.MethodPost, "/api/players", gin.H{
		"uid":         "p1",
		"displayName": "Other Name",
	})
	s.Equal(http.StatusOK, rec.Code)

	var profile models.UserProfile
	s.decode(rec, &profile)
	s.Equal("Player p1", profile.DisplayName)
}

func (s *HandlerTestSuite) TestWalletFlowOverHTTP() {
	s.registerPlayer("p1", 0)

	rec := s.do(http.MethodPost, "/api/players", gin.H{
		"uid":         "boss",
		"displayName": "Boss",
		"role":        "organizer",
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	rec = s.do(http.MethodPost, "/api/wallet/deposits", gin.H{
		"uid":    "p1",
		"amount": 75000,
		"bankAccount": gin.H{
			"bankName":      "Khan Bank",
			"accountNumber": "5000123456",
		},
	})
	s.Require().Equal(http.StatusCreated, rec.Code)

	var request models.WalletRequest
	s.decode(rec, &request)

	rec = s.do(http.MethodGet, "/api/admin/requests", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	// Players cannot resolve their own requests
	rec = s.do(http.MethodPost, "/api/admin/requests/"+request.ID+"/resolve", gin.H{
		"approve":    true,
		"resolvedBy": "p1",
	})
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/admin/requests/"+request.ID+"/resolve", gin.H{
		"approve":    true,
		"resolvedBy": "boss",
	})
	s.Require().Equal(http.StatusOK, rec.Code)

	profile, err := s.players.GetProfile(context.Background(), &playerRepo.GetProfileInput{UID: "p1"})
	s.Require().NoError(err)
	s.Equal(int64(75000), profile.TotalWinnings)

	rec = s.do(http.MethodGet, "/api/wallet/requests?uid=p1", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
}
