package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"privacy-pay.backend/internal/interfaces/http/handlers"
	"privacy-pay.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	paymentLinkHandler *handlers.PaymentLinkHandler
	feeHandler         *handlers.FeeHandler
	tokenHandler       *handlers.TokenHandler
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID, Idempotency-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Payment link routes. Creation and completion are guarded by the
		// idempotency middleware so wallet retries do not duplicate work.
		links := v1.Group("/payment-links")
		{
			links.POST("", middleware.IdempotencyMiddleware(), d.paymentLinkHandler.CreatePaymentLink)
			links.GET("", d.paymentLinkHandler.ListPaymentLinks)
			links.GET("/history", d.paymentLinkHandler.ListPaymentHistory)
			links.GET("/:id", d.paymentLinkHandler.GetPaymentLink)
			links.POST("/:id/recipient", d.paymentLinkHandler.ResolveRecipient)
			links.POST("/:id/complete", middleware.IdempotencyMiddleware(), d.paymentLinkHandler.CompletePayment)
			links.POST("/:id/disable", d.paymentLinkHandler.DisableLink)
			links.DELETE("/:id", d.paymentLinkHandler.DeletePaymentLink)
		}

		// Fee quoting (public)
		fees := v1.Group("/fees")
		{
			fees.GET("/quote", d.feeHandler.QuoteFee)
			fees.POST("/shortfall", d.feeHandler.QuoteShortfall)
		}

		// Token routes (public)
		tokens := v1.Group("/tokens")
		{
			tokens.GET("", d.tokenHandler.ListTokens)
		}
	}
}
