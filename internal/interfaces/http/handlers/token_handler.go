package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"privacy-pay.backend/internal/infrastructure/solana"
	"privacy-pay.backend/internal/interfaces/http/response"
)

type TokenHandler struct {
	registry *solana.Registry
}

func NewTokenHandler(registry *solana.Registry) *TokenHandler {
	return &TokenHandler{registry: registry}
}

// ListTokens returns the supported token set
// GET /api/v1/tokens
func (h *TokenHandler) ListTokens(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"success": true,
		"tokens":  h.registry.All(),
	})
}
