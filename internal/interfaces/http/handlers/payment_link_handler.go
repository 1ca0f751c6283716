package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"privacy-pay.backend/internal/domain/entities"
	domainerrors "privacy-pay.backend/internal/domain/errors"
	"privacy-pay.backend/internal/interfaces/http/response"
	"privacy-pay.backend/internal/usecases"
)

type PaymentLinkHandler struct {
	usecase     *usecases.PaymentLinkUsecase
	linkBaseURL string
}

func NewPaymentLinkHandler(usecase *usecases.PaymentLinkUsecase, linkBaseURL string) *PaymentLinkHandler {
	return &PaymentLinkHandler{usecase: usecase, linkBaseURL: linkBaseURL}
}

type CreatePaymentLinkRequest struct {
	RecipientAddress string  `json:"recipientAddress" binding:"required"`
	TokenMint        string  `json:"tokenMint"`
	TokenType        string  `json:"tokenType"`
	AmountType       string  `json:"amountType" binding:"required"`
	FixedAmount      *uint64 `json:"fixedAmount"`
	MinAmount        *uint64 `json:"minAmount"`
	MaxAmount        *uint64 `json:"maxAmount"`
	Reusable         bool    `json:"reusable"`
	MaxUsageCount    *uint64 `json:"maxUsageCount"`
	Label            string  `json:"label"`
	Message          string  `json:"message"`
}

// CreatePaymentLink creates a new payment link
// POST /api/v1/payment-links
func (h *PaymentLinkHandler) CreatePaymentLink(c *gin.Context) {
	var req CreatePaymentLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	tokenRef := req.TokenMint
	if tokenRef == "" {
		tokenRef = req.TokenType
	}

	link, err := h.usecase.CreatePaymentLink(c.Request.Context(), usecases.CreatePaymentLinkInput{
		RecipientAddress: req.RecipientAddress,
		TokenMint:        tokenRef,
		AmountType:       entities.AmountType(req.AmountType),
		FixedAmount:      req.FixedAmount,
		MinAmount:        req.MinAmount,
		MaxAmount:        req.MaxAmount,
		Reusable:         req.Reusable,
		MaxUsageCount:    req.MaxUsageCount,
		Label:            req.Label,
		Message:          req.Message,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"success":     true,
		"paymentLink": link.PublicInfo(),
		"url":         h.linkBaseURL + "/" + link.PaymentID,
	})
}

// ListPaymentLinks lists the recipient's links, full records including the
// recipient address (owner-facing endpoint)
// GET /api/v1/payment-links?recipientAddress=
func (h *PaymentLinkHandler) ListPaymentLinks(c *gin.Context) {
	recipient := c.Query("recipientAddress")
	if recipient == "" {
		response.Error(c, domainerrors.BadRequest("recipientAddress query parameter is required"))
		return
	}

	links, err := h.usecase.ListPaymentLinks(c.Request.Context(), recipient)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success":      true,
		"paymentLinks": links,
	})
}

// ListPaymentHistory lists completed payments against the recipient's links
// GET /api/v1/payment-links/history?recipientAddress=
func (h *PaymentLinkHandler) ListPaymentHistory(c *gin.Context) {
	recipient := c.Query("recipientAddress")
	if recipient == "" {
		response.Error(c, domainerrors.BadRequest("recipientAddress query parameter is required"))
		return
	}

	records, err := h.usecase.ListPaymentHistory(c.Request.Context(), recipient)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success": true,
		"history": records,
	})
}

// GetPaymentLink returns the public, recipient-stripped view of a link
// GET /api/v1/payment-links/:id
func (h *PaymentLinkHandler) GetPaymentLink(c *gin.Context) {
	info, err := h.usecase.GetPublicInfo(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if info == nil {
		response.Error(c, domainerrors.NotFound("payment link not found"))
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success":     true,
		"paymentLink": info,
	})
}

type CompletePaymentRequest struct {
	Amount      uint64 `json:"amount" binding:"required"`
	TxSignature string `json:"txSignature" binding:"required"`
}

// CompletePayment records a confirmed payment and advances the link lifecycle
// POST /api/v1/payment-links/:id/complete
func (h *PaymentLinkHandler) CompletePayment(c *gin.Context) {
	var req CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	record, err := h.usecase.CompletePayment(c.Request.Context(), c.Param("id"), req.Amount, req.TxSignature)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success": true,
		"record":  record,
	})
}

type ResolveRecipientRequest struct {
	Amount uint64 `json:"amount" binding:"required"`
}

// ResolveRecipient hands the payee address to a payer once the amount passes
// the link's policy
// POST /api/v1/payment-links/:id/recipient
func (h *PaymentLinkHandler) ResolveRecipient(c *gin.Context) {
	var req ResolveRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	recipient, err := h.usecase.ResolveRecipient(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"success":          true,
		"recipientAddress": recipient,
	})
}

type OwnerActionRequest struct {
	RecipientAddress string `json:"recipientAddress" binding:"required"`
}

// DisableLink is the administrative active -> disabled transition
// POST /api/v1/payment-links/:id/disable
func (h *PaymentLinkHandler) DisableLink(c *gin.Context) {
	var req OwnerActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.usecase.DisableLink(c.Request.Context(), c.Param("id"), req.RecipientAddress); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"success": true})
}

// DeletePaymentLink removes a link and its history after an ownership check
// DELETE /api/v1/payment-links/:id
func (h *PaymentLinkHandler) DeletePaymentLink(c *gin.Context) {
	var req OwnerActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	if err := h.usecase.DeletePaymentLink(c.Request.Context(), c.Param("id"), req.RecipientAddress); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"success": true})
}
