package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/service"
)

type WalletHandler struct {
	Wallet *service.WalletService
}

func (h *WalletHandler) RegisterRoutes(member *gin.RouterGroup) {
	member.GET("/wallet/balance", h.Balance)
	member.POST("/wallet/deposit", h.Deposit)
	member.GET("/wallet/transactions", h.Transactions)
}

// GET /api/wallet/balance
func (h *WalletHandler) Balance(c *gin.Context) {
	b, err := h.Wallet.Balance(c.Request.Context(), mustUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

type depositRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description"`
}

// POST /api/wallet/deposit
func (h *WalletHandler) Deposit(c *gin.Context) {
	var req depositRequest
	if !bindJSON(c, &req) {
		return
	}
	receipt, err := h.Wallet.RequestDeposit(c.Request.Context(), mustUser(c), req.Amount, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Deposit request created. Waiting for admin approval.",
		"transaction_id": receipt.TransactionID,
		"amount":         receipt.Amount,
	})
}

// GET /api/wallet/transactions?transaction_type=&skip=&limit=
func (h *WalletHandler) Transactions(c *gin.Context) {
	p, err := page(c, maxLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	txType := model.TransactionType(c.Query("transaction_type"))
	if txType != "" && !txType.Valid() {
		respondError(c, &service.ValidationError{Field: "transaction_type", Reason: "unknown transaction type"})
		return
	}
	list, err := h.Wallet.ListOwn(c.Request.Context(), mustUser(c), txType, p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
