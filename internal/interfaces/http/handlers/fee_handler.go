package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	domainerrors "privacy-pay.backend/internal/domain/errors"
	"privacy-pay.backend/internal/infrastructure/solana"
	"privacy-pay.backend/internal/interfaces/http/response"
	"privacy-pay.backend/internal/metrics"
	"privacy-pay.backend/internal/usecases"
)

type FeeHandler struct {
	usecase  *usecases.FeeUsecase
	registry *solana.Registry
}

func NewFeeHandler(usecase *usecases.FeeUsecase, registry *solana.Registry) *FeeHandler {
	return &FeeHandler{usecase: usecase, registry: registry}
}

// QuoteFee quotes the total debit and fee for a transfer
// GET /api/v1/fees/quote?token=&amount=&direction=
func (h *FeeHandler) QuoteFee(c *gin.Context) {
	tokenRef := c.Query("token")
	if tokenRef == "" {
		tokenRef = c.DefaultQuery("tokenMint", "SOL")
	}
	token, ok := h.registry.Resolve(tokenRef)
	if !ok {
		response.Error(c, domainerrors.BadRequest("unsupported token: "+tokenRef))
		return
	}

	amount, err := strconv.ParseUint(c.Query("amount"), 10, 64)
	if err != nil || amount == 0 {
		response.Error(c, domainerrors.BadRequest("amount must be a positive integer in base units"))
		return
	}

	direction := c.DefaultQuery("direction", "withdraw")
	ctx := c.Request.Context()

	var quote = h.usecase.QuoteDeposit(amount)
	switch direction {
	case "deposit":
	case "withdraw":
		if floor := h.usecase.MinimumWithdrawal(ctx, token); amount < floor {
			response.Error(c, domainerrors.BadRequest(
				"amount is below the minimum withdrawal of "+usecases.FormatTokenAmount(floor, token.Decimals)+" "+token.Name))
			return
		}
		quote = h.usecase.QuoteWithdraw(ctx, token, amount)
	default:
		response.Error(c, domainerrors.BadRequest("direction must be deposit or withdraw"))
		return
	}

	metrics.FeeQuotes.WithLabelValues(direction).Inc()

	response.Success(c, http.StatusOK, gin.H{
		"success":   true,
		"token":     token.Name,
		"direction": direction,
		"amount":    amount,
		"total":     quote.Total,
		"fee":       quote.Fee,
	})
}

type ShortfallRequest struct {
	Token          string `json:"token"`
	Amount         uint64 `json:"amount" binding:"required"`
	PrivateBalance uint64 `json:"privateBalance"`
}

// QuoteShortfall reports how much must still be deposited before the private
// balance covers a withdrawal netting the requested amount
// POST /api/v1/fees/shortfall
func (h *FeeHandler) QuoteShortfall(c *gin.Context) {
	var req ShortfallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	tokenRef := req.Token
	if tokenRef == "" {
		tokenRef = "SOL"
	}
	token, ok := h.registry.Resolve(tokenRef)
	if !ok {
		response.Error(c, domainerrors.BadRequest("unsupported token: "+req.Token))
		return
	}

	quote, shortfall := h.usecase.Shortfall(c.Request.Context(), token, req.Amount, req.PrivateBalance)

	response.Success(c, http.StatusOK, gin.H{
		"success":   true,
		"token":     token.Name,
		"total":     quote.Total,
		"fee":       quote.Fee,
		"shortfall": shortfall,
	})
}
