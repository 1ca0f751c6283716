package entities

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// PaymentLinkStatus represents the lifecycle state of a payment link
type PaymentLinkStatus string

const (
	PaymentLinkStatusActive    PaymentLinkStatus = "active"
	PaymentLinkStatusCompleted PaymentLinkStatus = "completed"
	PaymentLinkStatusDisabled  PaymentLinkStatus = "disabled"
)

// AmountType says whether a link demands an exact amount or a bounded range
type AmountType string

const (
	AmountTypeFixed    AmountType = "fixed"
	AmountTypeFlexible AmountType = "flexible"
)

// PaymentLink is a shareable, constrained payment request. Amounts are in the
// token's base units (lamports for SOL).
type PaymentLink struct {
	PaymentID        string            `json:"paymentId"`
	RecipientAddress string            `json:"recipientAddress"`
	TokenMint        string            `json:"tokenMint"`
	AmountType       AmountType        `json:"amountType"`
	FixedAmount      null.Uint64       `json:"fixedAmount,omitempty"`
	MinAmount        null.Uint64       `json:"minAmount,omitempty"`
	MaxAmount        null.Uint64       `json:"maxAmount,omitempty"`
	Reusable         bool              `json:"reusable"`
	MaxUsageCount    null.Uint64       `json:"maxUsageCount,omitempty"`
	UsageCount       uint64            `json:"usageCount"`
	Status           PaymentLinkStatus `json:"status"`
	Label            string            `json:"label,omitempty"`
	Message          string            `json:"message,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// PaymentLinkPublicInfo is the payer-facing view of a link. The recipient
// address is deliberately absent.
type PaymentLinkPublicInfo struct {
	PaymentID     string            `json:"paymentId"`
	TokenMint     string            `json:"tokenMint"`
	AmountType    AmountType        `json:"amountType"`
	FixedAmount   null.Uint64       `json:"fixedAmount,omitempty"`
	MinAmount     null.Uint64       `json:"minAmount,omitempty"`
	MaxAmount     null.Uint64       `json:"maxAmount,omitempty"`
	Reusable      bool              `json:"reusable"`
	MaxUsageCount null.Uint64       `json:"maxUsageCount,omitempty"`
	UsageCount    uint64            `json:"usageCount"`
	Status        PaymentLinkStatus `json:"status"`
	Label         string            `json:"label,omitempty"`
	Message       string            `json:"message,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// PublicInfo strips the recipient address for untrusted requesters
func (l *PaymentLink) PublicInfo() *PaymentLinkPublicInfo {
	return &PaymentLinkPublicInfo{
		PaymentID:     l.PaymentID,
		TokenMint:     l.TokenMint,
		AmountType:    l.AmountType,
		FixedAmount:   l.FixedAmount,
		MinAmount:     l.MinAmount,
		MaxAmount:     l.MaxAmount,
		Reusable:      l.Reusable,
		MaxUsageCount: l.MaxUsageCount,
		UsageCount:    l.UsageCount,
		Status:        l.Status,
		Label:         l.Label,
		Message:       l.Message,
		CreatedAt:     l.CreatedAt,
	}
}

// CanAcceptPayment reports whether the link may currently accept a payment:
// status must be active, one-time links must be unused, and capped links must
// be under their usage cap.
func (l *PaymentLink) CanAcceptPayment() bool {
	if l.Status != PaymentLinkStatusActive {
		return false
	}
	if !l.Reusable && l.UsageCount > 0 {
		return false
	}
	if l.MaxUsageCount.Valid && l.UsageCount >= l.MaxUsageCount.Uint64 {
		return false
	}
	return true
}

// RegisterUse increments the usage counter and applies the lifecycle rules:
// a non-reusable link completes after its first use, a capped link completes
// when the cap is reached. Completed and disabled are terminal.
func (l *PaymentLink) RegisterUse() {
	l.UsageCount++
	if l.Status != PaymentLinkStatusActive {
		return
	}
	if !l.Reusable {
		l.Status = PaymentLinkStatusCompleted
		return
	}
	if l.MaxUsageCount.Valid && l.UsageCount >= l.MaxUsageCount.Uint64 {
		l.Status = PaymentLinkStatusCompleted
	}
}
