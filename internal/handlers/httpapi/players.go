package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ganzorig/lastplayer/internal/models"
	playerRepo "github.com/ganzorig/lastplayer/internal/repositories/player"
)

type registerPlayerRequest struct {
	UID         string `json:"uid" binding:"required"`
	DisplayName string `json:"displayName" binding:"required"`
	Role        string `json:"role"`
}

func (h *Handler) registerPlayer(c *gin.Context) {
	var body registerPlayerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := models.Role(body.Role)
	if role == "" {
		role = models.RolePlayer
	}
	if role != models.RolePlayer && role != models.RoleOrganizer {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}

	// Registration is idempotent; an existing profile is returned as-is
	existing, err := h.players.GetProfile(c.Request.Context(), &playerRepo.GetProfileInput{UID: body.UID})
	if err == nil {
		c.JSON(http.StatusOK, existing)
		return
	}
	if !errors.Is(err, playerRepo.ErrProfileNotFound) {
		fail(c, err)
		return
	}

	number, err := h.players.NextPlayerNumber(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	profile := &models.UserProfile{
		UID:         body.UID,
		PlayerID:    number,
		DisplayName: body.DisplayName,
		Role:        role,
		CreatedAt:   time.Now(),
	}

	if err := h.players.SaveProfile(c.Request.Context(), &playerRepo.SaveProfileInput{Profile: profile}); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

func (h *Handler) getPlayer(c *gin.Context) {
	profile, err := h.players.GetProfile(c.Request.Context(), &playerRepo.GetProfileInput{
		UID: c.Param("uid"),
	})
	if err != nil {
		if errors.Is(err, playerRepo.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
