package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ganzorig/lastplayer/internal/models"
	walletSvc "github.com/ganzorig/lastplayer/internal/services/wallet"
)

type walletRequestBody struct {
	UID         string             `json:"uid" binding:"required"`
	Amount      int64              `json:"amount" binding:"required"`
	BankAccount models.BankAccount `json:"bankAccount"`
}

func (h *Handler) requestDeposit(c *gin.Context) {
	var body walletRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, err := h.wallets.RequestDeposit(c.Request.Context(), &walletSvc.RequestDepositInput{
		UID:         body.UID,
		Amount:      body.Amount,
		BankAccount: body.BankAccount,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, output.Request)
}

func (h *Handler) requestWithdrawal(c *gin.Context) {
	var body walletRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, err := h.wallets.RequestWithdrawal(c.Request.Context(), &walletSvc.RequestWithdrawalInput{
		UID:         body.UID,
		Amount:      body.Amount,
		BankAccount: body.BankAccount,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, output.Request)
}

func (h *Handler) listWalletRequests(c *gin.Context) {
	uid := c.Query("uid")
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uid query parameter is required"})
		return
	}

	output, err := h.wallets.ListPlayerRequests(c.Request.Context(), &walletSvc.ListPlayerRequestsInput{UID: uid})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": output.Requests})
}

func (h *Handler) listPendingRequests(c *gin.Context) {
	output, err := h.wallets.ListPendingRequests(c.Request.Context(), &walletSvc.ListPendingRequestsInput{})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": output.Requests})
}

type resolveRequestBody struct {
	Approve    bool   `json:"approve"`
	ResolvedBy string `json:"resolvedBy" binding:"required"`
}

func (h *Handler) resolveWalletRequest(c *gin.Context) {
	var body resolveRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output, err := h.wallets.ResolveRequest(c.Request.Context(), &walletSvc.ResolveRequestInput{
		RequestID:  c.Param("id"),
		Approve:    body.Approve,
		ResolvedBy: body.ResolvedBy,
	})
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, output.Request)
}
