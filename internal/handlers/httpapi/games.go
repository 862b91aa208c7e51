package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ganzorig/lastplayer/internal/models"
	gameSvc "github.com/ganzorig/lastplayer/internal/services/game"
	"github.com/ganzorig/lastplayer/internal/ws"
)

type createGameRequest struct {
	HostID                 string    `json:"hostId" binding:"required"`
	GameType               string    `json:"gameType"`
	TicketPrice            int64     `json:"ticketPrice"`
	MinPlayers             int       `json:"minPlayers" binding:"required"`
	ScheduledStartTime     time.Time `json:"scheduledStartTime" binding:"required"`
	JoinOpenTime           time.Time `json:"joinOpenTime" binding:"required"`
	TicketPurchaseDeadline time.Time `json:"ticketPurchaseDeadline" binding:"required"`
}

func (h *Handler) createGame(c *gin.Context) {
	var body createGameRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, err := h.games.CreateGame(c.Request.Context(), &gameSvc.CreateGameInput{
		HostID:                 body.HostID,
		GameType:               models.GameType(body.GameType),
		TicketPrice:            body.TicketPrice,
		MinPlayers:             body.MinPlayers,
		ScheduledStartTime:     body.ScheduledStartTime,
		JoinOpenTime:           body.JoinOpenTime,
		TicketPurchaseDeadline: body.TicketPurchaseDeadline,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, output.Game)
}

func (h *Handler) listOpenGames(c *gin.Context) {
	output, err := h.games.ListOpenGames(c.Request.Context(), &gameSvc.ListOpenGamesInput{})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"games": output.Games})
}

func (h *Handler) getGame(c *gin.Context) {
	output, err := h.games.GetGame(c.Request.Context(), &gameSvc.GetGameInput{
		GameID: c.Param("id"),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, output.Game)
}

type joinGameRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
}

func (h *Handler) joinGame(c *gin.Context) {
	var body joinGameRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, err := h.games.JoinGame(c.Request.Context(), &gameSvc.JoinGameInput{
		GameID:   c.Param("id"),
		PlayerID: body.PlayerID,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"game":          output.Game,
		"alreadyJoined": output.AlreadyJoined,
	})
}

type startGameRequest struct {
	HostID string `json:"hostId" binding:"required"`
}

func (h *Handler) startGame(c *gin.Context) {
	var body startGameRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, err := h.games.StartGame(c.Request.Context(), &gameSvc.StartGameInput{
		GameID: c.Param("id"),
		HostID: body.HostID,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, output.Game)
}

type submitAnswerRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

func (h *Handler) submitAnswer(c *gin.Context) {
	var body submitAnswerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, err := h.games.SubmitAnswer(c.Request.Context(), &gameSvc.SubmitAnswerInput{
		GameID:   c.Param("id"),
		PlayerID: body.PlayerID,
		Answer:   body.Answer,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, output.Submission)
}

func (h *Handler) finishChallenge(c *gin.Context) {
	output, err := h.games.FinishChallenge(c.Request.Context(), &gameSvc.FinishChallengeInput{
		GameID: c.Param("id"),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"game":       output.Game,
		"eliminated": output.EliminatedID,
	})
}

type submitVoteRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
	Choice   string `json:"choice" binding:"required"`
}

func (h *Handler) submitVote(c *gin.Context) {
	var body submitVoteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, err := h.games.SubmitVote(c.Request.Context(), &gameSvc.SubmitVoteInput{
		GameID:   c.Param("id"),
		PlayerID: body.PlayerID,
		Choice:   models.VoteChoice(body.Choice),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"outstanding": output.Outstanding})
}

func (h *Handler) processVoteResults(c *gin.Context) {
	output, err := h.games.ProcessVoteResults(c.Request.Context(), &gameSvc.ProcessVoteResultsInput{
		GameID: c.Param("id"),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"game":      output.Game,
		"continued": output.Continued,
		"remainder": output.Remainder,
	})
}

type postChatRequest struct {
	PlayerID   string `json:"playerId" binding:"required"`
	PlayerName string `json:"playerName"`
	Message    string `json:"message" binding:"required"`
}

func (h *Handler) postChatMessage(c *gin.Context) {
	var body postChatRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gameID := c.Param("id")
	output, err := h.games.PostChatMessage(c.Request.Context(), &gameSvc.PostChatMessageInput{
		GameID:     gameID,
		PlayerID:   body.PlayerID,
		PlayerName: body.PlayerName,
		Message:    body.Message,
	})
	if err != nil {
		fail(c, err)
		return
	}

	h.hub.Publish(gameID, ws.Event{
		Type:    ws.EventChatMessage,
		Payload: output.Message,
	})

	c.JSON(http.StatusCreated, output.Message)
}

func (h *Handler) getChatMessages(c *gin.Context) {
	output, err := h.games.GetChatMessages(c.Request.Context(), &gameSvc.GetChatMessagesInput{
		GameID: c.Param("id"),
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": output.Messages})
}

var upgrader = ws.Upgrader()

func (h *Handler) serveGameSocket(c *gin.Context) {
	gameID := c.Param("id")

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	watch, err := h.games.WatchGame(ctx, &gameSvc.WatchGameInput{GameID: gameID})
	if err != nil {
		fail(c, err)
		return
	}

	socket, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("game_id", gameID).Msg("websocket upgrade failed")
		return
	}

	conn := ws.NewConn(socket)
	h.hub.Register(gameID, conn)
	defer func() {
		h.hub.Unregister(gameID, conn)
		conn.Close()
	}()

	// Forward every game change to this subscriber
	done := make(chan struct{})
	go func() {
		defer close(done)
		for game := range watch.Updates {
			if err := conn.Send(ws.Event{Type: ws.EventGameUpdate, Payload: game}); err != nil {
				return
			}
		}
	}()

	// Drain client frames until the connection drops, then stop the watch
	// stream so the forwarder can exit
	for {
		if _, _, err := socket.ReadMessage(); err != nil {
			break
		}
	}
	cancel()
	<-done
}
