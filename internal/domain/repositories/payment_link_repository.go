package repositories

import (
	"context"

	"privacy-pay.backend/internal/domain/entities"
)

// PaymentLinkRepository is the store for payment links. Lookups on a missing
// ID return (nil, nil); only infrastructure failures produce errors.
type PaymentLinkRepository interface {
	Create(ctx context.Context, link *entities.PaymentLink) error
	GetByID(ctx context.Context, paymentID string) (*entities.PaymentLink, error)
	ListByRecipient(ctx context.Context, recipientAddress string) ([]*entities.PaymentLink, error)
	// UpdateStatus sets the lifecycle state; no-op when the link is missing
	UpdateStatus(ctx context.Context, paymentID string, status entities.PaymentLinkStatus) error
	// IncrementUsage bumps the usage counter and applies the lifecycle
	// transition rules; no-op (not an error) when the link is missing
	IncrementUsage(ctx context.Context, paymentID string) error
	// Delete removes the link and cascades to its payment records
	Delete(ctx context.Context, paymentID string) error
	// CountByStatus reports how many links sit in each lifecycle state
	CountByStatus(ctx context.Context) (map[entities.PaymentLinkStatus]int, error)
}

// PaymentRecordRepository stores the immutable payment history
type PaymentRecordRepository interface {
	Create(ctx context.Context, record *entities.PaymentRecord) error
	ListByPaymentID(ctx context.Context, paymentID string) ([]*entities.PaymentRecord, error)
	// ListByRecipient joins records to the recipient's links
	ListByRecipient(ctx context.Context, recipientAddress string) ([]*entities.PaymentRecord, error)
}
